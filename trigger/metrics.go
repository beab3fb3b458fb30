package trigger

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"

	prometheus "github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

const (
	// MetricsSubsystem is a subsystem shared by all metrics exposed by this
	// package.
	MetricsSubsystem = "trigger"
)

// Metrics contains metrics exposed by this package.
type Metrics struct {
	// Number of invocations, labeled by trigger and result.
	Invocations metrics.Counter
	// Number of invocations that failed with an error, labeled by trigger.
	Failures metrics.Counter
	// Time spent in one invocation, labeled by trigger.
	InvocationSeconds metrics.Histogram
	// Number of transactions handed to handlers, labeled by trigger.
	HandledTransactions metrics.Counter
}

// PrometheusMetrics returns Metrics build using Prometheus client library.
// Optionally, labels can be provided along with their values ("foo",
// "fooValue").
func PrometheusMetrics(namespace string, labelsAndValues ...string) *Metrics {
	labels := []string{}
	for i := 0; i < len(labelsAndValues); i += 2 {
		labels = append(labels, labelsAndValues[i])
	}
	return &Metrics{
		Invocations: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "invocations",
			Help:      "Number of trigger invocations, by result.",
		}, extend(labels, "trigger_id", "result")).With(labelsAndValues...),
		Failures: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "failures",
			Help:      "Number of trigger invocations that failed with an error.",
		}, extend(labels, "trigger_id")).With(labelsAndValues...),
		InvocationSeconds: prometheus.NewHistogramFrom(stdprometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "invocation_seconds",
			Help:      "Time spent in one trigger invocation.",
			Buckets:   stdprometheus.ExponentialBuckets(0.001, 4, 8),
		}, extend(labels, "trigger_id")).With(labelsAndValues...),
		HandledTransactions: prometheus.NewCounterFrom(stdprometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: MetricsSubsystem,
			Name:      "handled_transactions",
			Help:      "Number of proven transactions handed to handlers.",
		}, extend(labels, "trigger_id")).With(labelsAndValues...),
	}
}

// NopMetrics returns no-op Metrics.
func NopMetrics() *Metrics {
	return &Metrics{
		Invocations:         discard.NewCounter(),
		Failures:            discard.NewCounter(),
		InvocationSeconds:   discard.NewHistogram(),
		HandledTransactions: discard.NewCounter(),
	}
}

func extend(labels []string, extra ...string) []string {
	return append(append(make([]string, 0, len(labels)+len(extra)), labels...), extra...)
}
