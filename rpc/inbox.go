// Package rpc serves the relay inbox: the HTTP endpoint relays submit block
// messages to, plus read-only views of the trusted snapshots.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/tendermint/relaylight/config"
	"github.com/tendermint/relaylight/kv"
	"github.com/tendermint/relaylight/libs/log"
	"github.com/tendermint/relaylight/light"
	"github.com/tendermint/relaylight/light/store"
	"github.com/tendermint/relaylight/light/store/db"
	"github.com/tendermint/relaylight/rpc/server"
	"github.com/tendermint/relaylight/trigger"
	"github.com/tendermint/relaylight/types"
)

// Environment contains the objects the inbox routes operate on.
type Environment struct {
	Configs trigger.ConfigProvider
	Store   kv.Store
	Logger  log.Logger

	// Metrics, when set, is served under /metrics.
	Metrics http.Handler
}

// SubmitResponse is returned once a relay message is stored.
type SubmitResponse struct {
	TriggerID string `json:"trigger_id"`
	Height    uint64 `json:"height"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// PrometheusHandler returns the handler exposing the default Prometheus
// registry.
func PrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// Handler returns the routes of the inbox.
func (env *Environment) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/relay/{trigger}", env.SubmitMessage).Methods(http.MethodPost)
	router.HandleFunc("/snapshot/{trigger}", env.Snapshot).Methods(http.MethodGet)
	router.HandleFunc("/health", env.Health).Methods(http.MethodGet)
	if env.Metrics != nil {
		router.Handle("/metrics", env.Metrics).Methods(http.MethodGet)
	}
	return router
}

// Serve serves the inbox on listener until ctx ends.
func (env *Environment) Serve(ctx context.Context, listener net.Listener, cfg *config.RPCConfig) error {
	logger := env.Logger.With("module", "rpc-server")

	var rootHandler http.Handler = env.Handler()
	if cfg.IsCorsEnabled() {
		corsMiddleware := cors.New(cors.Options{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Origin", "Accept", "Content-Type"},
		})
		rootHandler = corsMiddleware.Handler(rootHandler)
	}

	scfg := server.DefaultConfig()
	scfg.MaxBodyBytes = cfg.MaxBodyBytes
	return server.Serve(ctx, listener, rootHandler, logger, scfg)
}

// SubmitMessage stores the relay message in the body as the pending message
// of the trigger. Only stateless validation happens here; the message is
// verified on the next invocation.
func (env *Environment) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	triggerID := mux.Vars(r)["trigger"]
	cfg, ok := env.readConfig(w, r, triggerID)
	if !ok {
		return
	}

	msg := new(types.RelayBlockMessage)
	if err := json.NewDecoder(r.Body).Decode(msg); err != nil {
		status := http.StatusBadRequest
		// http.MaxBytesReader reports no typed error before go1.19
		if strings.Contains(err.Error(), "request body too large") {
			status = http.StatusRequestEntityTooLarge
		}
		server.WriteError(w, status, fmt.Errorf("cannot decode relay message: %w", err))
		return
	}
	err := trigger.StoreMessage(r.Context(), env.Store, cfg, msg)
	switch {
	case light.IsErrInvalidMessage(err):
		server.WriteError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		env.Logger.Error("failed to store relay message", "trigger", triggerID, "err", err)
		server.WriteError(w, http.StatusInternalServerError, errors.New("cannot store relay message"))
		return
	}

	env.Logger.Info("relay message stored", "trigger", triggerID, "height", msg.Header.Height)
	server.WriteJSON(w, http.StatusAccepted, SubmitResponse{TriggerID: triggerID, Height: msg.Header.Height})
}

// Snapshot returns the trusted snapshot of the trigger's chain.
func (env *Environment) Snapshot(w http.ResponseWriter, r *http.Request) {
	triggerID := mux.Vars(r)["trigger"]
	cfg, ok := env.readConfig(w, r, triggerID)
	if !ok {
		return
	}

	snapshot, err := db.New(env.Store, cfg.AdminStore).Load(r.Context(), cfg.AdminStoreChainKey)
	switch {
	case errors.Is(err, store.ErrSnapshotNotFound):
		server.WriteError(w, http.StatusNotFound, err)
		return
	case err != nil:
		env.Logger.Error("failed to load snapshot", "trigger", triggerID, "err", err)
		server.WriteError(w, http.StatusInternalServerError, err)
		return
	}
	server.WriteJSON(w, http.StatusOK, snapshot)
}

// Health reports that the server is up.
func (env *Environment) Health(w http.ResponseWriter, r *http.Request) {
	server.WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (env *Environment) readConfig(w http.ResponseWriter, r *http.Request, triggerID string) (*trigger.Config, bool) {
	cfg, err := env.Configs.ReadConfig(r.Context(), triggerID)
	switch {
	case errors.Is(err, trigger.ErrConfigNotFound):
		server.WriteError(w, http.StatusNotFound, err)
		return nil, false
	case err != nil:
		env.Logger.Error("failed to read trigger config", "trigger", triggerID, "err", err)
		server.WriteError(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return cfg, true
}
