package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records deployment metrics on its own registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	deployTotal    *prometheus.CounterVec
	pollsTotal     *prometheus.CounterVec
	timeToReady    prometheus.Histogram
	apiCallsTotal  *prometheus.CounterVec
	apiCallLatency *prometheus.HistogramVec
}

// NewMetrics creates and registers the deployment metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		deployTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "imagepod",
				Name:      "deploy_total",
				Help:      "Total number of pod deployments by result",
			},
			[]string{"result"},
		),
		pollsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "imagepod",
				Name:      "polls_total",
				Help:      "Total number of pod status polls by observed phase",
			},
			[]string{"phase"},
		),
		timeToReady: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "imagepod",
				Name:      "time_to_ready_seconds",
				Help:      "Time from pod creation until the pod was confirmed ready",
				Buckets:   prometheus.ExponentialBuckets(15, 2, 8), // 15s to ~32min
			},
		),
		apiCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "imagepod",
				Subsystem: "runpod",
				Name:      "api_calls_total",
				Help:      "Total number of RunPod API calls by operation and result",
			},
			[]string{"operation", "result"},
		),
		apiCallLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "imagepod",
				Subsystem: "runpod",
				Name:      "api_latency_seconds",
				Help:      "Latency of RunPod API calls in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8), // 100ms to ~25s
			},
			[]string{"operation"},
		),
	}

	m.registry.MustRegister(
		m.deployTotal,
		m.pollsTotal,
		m.timeToReady,
		m.apiCallsTotal,
		m.apiCallLatency,
	)
	return m
}

// Registry exposes the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes all metrics in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func (m *Metrics) recordDeploy(outcome DeploymentOutcome) {
	if m == nil {
		return
	}
	result := "ready"
	if !outcome.IsReady() {
		result = failureLabel(outcome)
	}
	m.deployTotal.WithLabelValues(result).Inc()
	if outcome.IsReady() {
		m.timeToReady.Observe(outcome.Elapsed.Seconds())
	}
}

func (m *Metrics) recordPoll(label string) {
	if m == nil {
		return
	}
	m.pollsTotal.WithLabelValues(label).Inc()
}

func (m *Metrics) recordAPICall(operation string, err error, latency time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.apiCallsTotal.WithLabelValues(operation, result).Inc()
	m.apiCallLatency.WithLabelValues(operation).Observe(latency.Seconds())
}

// failureLabel buckets failure reasons into a small label set.
func failureLabel(outcome DeploymentOutcome) string {
	switch outcome.Err.(type) {
	case *CreationError:
		return "creation_failed"
	case *TerminalStatusError:
		return "terminal"
	case *TimeoutError:
		return "timeout"
	case *ConfigError:
		return "invalid_config"
	case *StatusCheckError:
		return "status_check_failed"
	}
	if outcome.Reason == ReasonCancelled {
		return "cancelled"
	}
	return "failed"
}
