// Package metrics exposes the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts executed operations by name and outcome.
	OperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contractdesk",
		Subsystem: "executor",
		Name:      "operations_total",
		Help:      "Operations executed, by operation name and outcome.",
	}, []string{"operation", "outcome"})

	// RunsTotal counts orchestration runs by terminal state.
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contractdesk",
		Subsystem: "orchestrator",
		Name:      "runs_total",
		Help:      "Conversation runs, by terminal state.",
	}, []string{"state"})

	// ModelCallsTotal counts chat-model invocations by outcome.
	ModelCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "contractdesk",
		Subsystem: "orchestrator",
		Name:      "model_calls_total",
		Help:      "Chat model invocations, by outcome.",
	}, []string{"outcome"})

	// RunDuration observes end-to-end run latency.
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "contractdesk",
		Subsystem: "orchestrator",
		Name:      "run_duration_seconds",
		Help:      "End-to-end conversation run latency.",
		Buckets:   prometheus.DefBuckets,
	})
)

// ObserveOperation records one executed operation.
func ObserveOperation(name string, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	OperationsTotal.WithLabelValues(name, outcome).Inc()
}

// ObserveModelCall records one chat-model invocation.
func ObserveModelCall(err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	ModelCallsTotal.WithLabelValues(outcome).Inc()
}
