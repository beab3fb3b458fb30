// Package server holds the HTTP plumbing shared by the relay inbox: listening,
// graceful shutdown, panic recovery and request logging.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/tendermint/relaylight/libs/log"
)

// Config is a RPC server configuration.
type Config struct {
	// The time limit for reading a request, including its body.
	ReadTimeout time.Duration
	// The time limit for writing a response.
	WriteTimeout time.Duration
	// Maximum size of request body, in bytes.
	MaxBodyBytes int64
	// Maximum size of request header, in bytes.
	MaxHeaderBytes int
	// Time given to in-flight requests once the server is stopped.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		MaxBodyBytes:    int64(1000000), // 1MB
		MaxHeaderBytes:  1 << 20,        // same as the net/http default
		ShutdownTimeout: 5 * time.Second,
	}
}

// Listen starts a new net.Listener on the given address. The address must be
// fully formed, including the tcp:// prefix.
func Listen(addr string) (net.Listener, error) {
	parts := strings.SplitN(addr, "://", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid listening address %s (use fully formed addresses, including the tcp:// prefix)", addr)
	}
	proto, addr := parts[0], parts[1]
	if proto != "tcp" {
		return nil, fmt.Errorf("unsupported protocol %q in listening address", proto)
	}
	listener, err := net.Listen(proto, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %v: %v", addr, err)
	}
	return listener, nil
}

// Serve serves HTTP with the given handler on listener until ctx ends, then
// shuts the server down. It closes the listener when done.
func Serve(ctx context.Context, listener net.Listener, handler http.Handler, logger log.Logger, config *Config) error {
	logger.Info("serving HTTP", "listen-addr", listener.Addr())
	h := RecoverAndLogHandler(maxBytesHandler{h: handler, n: config.MaxBodyBytes}, logger)
	s := &http.Server{
		Handler:        h,
		ReadTimeout:    config.ReadTimeout,
		WriteTimeout:   config.WriteTimeout,
		MaxHeaderBytes: config.MaxHeaderBytes,
	}

	errc := make(chan error, 1)
	go func() { errc <- s.Serve(listener) }()

	select {
	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := s.Shutdown(sctx); err != nil {
			return err
		}
		logger.Info("HTTP server stopped")
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// WriteJSON writes v as the JSON body of a response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		status, bz = http.StatusInternalServerError, []byte(`{"error":"cannot encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(bz)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError writes err as an ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, status int, err error) {
	WriteJSON(w, status, ErrorResponse{Error: err.Error()})
}

// RecoverAndLogHandler wraps an HTTP handler, adding error logging. If the
// inner handler panics, the wrapper recovers, logs, and sends an HTTP 500
// error response.
func RecoverAndLogHandler(handler http.Handler, logger log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rww := &responseWriterWrapper{-1, w}
		begin := time.Now()

		rww.Header().Set("X-Server-Time", fmt.Sprintf("%v", begin.Unix()))

		defer func() {
			if e := recover(); e != nil {
				logger.Error("panic in HTTP handler", "err", e, "stack", string(debug.Stack()))
				WriteError(rww, http.StatusInternalServerError, fmt.Errorf("internal server error: %v", e))
			}

			if rww.Status == -1 {
				rww.Status = http.StatusOK
			}
			logger.Debug("served HTTP response",
				"method", r.Method,
				"url", r.URL,
				"status", rww.Status,
				"duration", time.Since(begin).Milliseconds(),
				"remoteAddr", r.RemoteAddr,
			)
		}()

		handler.ServeHTTP(rww, r)
	})
}

// Remember the status for logging.
type responseWriterWrapper struct {
	Status int
	http.ResponseWriter
}

func (w *responseWriterWrapper) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

type maxBytesHandler struct {
	h http.Handler
	n int64
}

func (h maxBytesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.n > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.n)
	}
	h.h.ServeHTTP(w, r)
}
