// Package metrics exports the booking agent's Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "agent_reservas"

// Recorder owns a private registry and every metric the service emits.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	// Chat metrics
	chatRequests prometheus.Counter
	chatErrors   *prometheus.CounterVec
	chatLatency  prometheus.Histogram
	llmLatency   prometheus.Histogram

	// Tool metrics
	toolCalls   *prometheus.CounterVec
	toolErrors  *prometheus.CounterVec
	toolLatency *prometheus.HistogramVec

	// Remote API metrics
	apiCalls   *prometheus.CounterVec
	apiLatency *prometheus.HistogramVec

	// Booking metrics
	bookingAttempts prometheus.Counter
	bookingSuccess  prometheus.Counter
	bookingFailed   *prometheus.CounterVec

	cacheEntries   *prometheus.GaugeVec
	memorySessions prometheus.Gauge
	agentInfo      *prometheus.GaugeVec
}

// Config configures the recorder.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for latency histograms (in seconds)
	LatencyBuckets []float64
}

// DefaultConfig returns the default bucket layout.
func DefaultConfig() Config {
	return Config{
		LatencyBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 90},
	}
}

// New creates and registers all metrics.
func New(cfg Config) *Recorder {
	if len(cfg.LatencyBuckets) == 0 {
		cfg.LatencyBuckets = DefaultConfig().LatencyBuckets
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	r := &Recorder{registry: registry}

	r.chatRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_requests_total",
		Help:      "Total chat messages received",
	})
	r.chatErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_errors_total",
		Help:      "Chat messages that ended in a fallback reply",
	}, []string{"error_type"})
	r.chatLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "chat_response_duration_seconds",
		Help:      "Time to produce a chat reply",
		Buckets:   cfg.LatencyBuckets,
	})
	r.llmLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "llm_call_duration_seconds",
		Help:      "Duration of a full model conversation turn, tool calls included",
		Buckets:   cfg.LatencyBuckets,
	})

	r.toolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tool_calls_total",
		Help:      "Tool invocations requested by the model",
	}, []string{"tool_name"})
	r.toolErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tool_errors_total",
		Help:      "Tool invocations that failed",
	}, []string{"tool_name", "error_type"})
	r.toolLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "tool_execution_duration_seconds",
		Help:      "Tool execution time",
		Buckets:   cfg.LatencyBuckets,
	}, []string{"tool_name"})

	r.apiCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_calls_total",
		Help:      "Calls to the information and booking services",
	}, []string{"endpoint", "status"})
	r.apiLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_call_duration_seconds",
		Help:      "Latency of calls to the information and booking services",
		Buckets:   cfg.LatencyBuckets,
	}, []string{"endpoint"})

	r.bookingAttempts = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_attempts_total",
		Help:      "Booking confirmations attempted",
	})
	r.bookingSuccess = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_success_total",
		Help:      "Booking confirmations accepted by the booking service",
	})
	r.bookingFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_failed_total",
		Help:      "Booking confirmations that failed",
	}, []string{"reason"})

	r.cacheEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_entries",
		Help:      "Entries currently held per cache",
	}, []string{"cache_type"})
	r.memorySessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "memory_sessions",
		Help:      "Conversation sessions held in process memory",
	})
	r.agentInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "info",
		Help:      "Static agent information",
	}, []string{"version", "model"})

	registry.MustRegister(
		r.chatRequests,
		r.chatErrors,
		r.chatLatency,
		r.llmLatency,
		r.toolCalls,
		r.toolErrors,
		r.toolLatency,
		r.apiCalls,
		r.apiLatency,
		r.bookingAttempts,
		r.bookingSuccess,
		r.bookingFailed,
		r.cacheEntries,
		r.memorySessions,
		r.agentInfo,
	)
	return r
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordChatRequest counts an incoming chat message.
func (r *Recorder) RecordChatRequest() {
	if r == nil {
		return
	}
	r.chatRequests.Inc()
}

// RecordChatError counts a chat that ended in a fallback reply.
func (r *Recorder) RecordChatError(errorType string) {
	if r == nil {
		return
	}
	r.chatErrors.WithLabelValues(errorType).Inc()
}

func (r *Recorder) ObserveChatDuration(d time.Duration) {
	if r == nil {
		return
	}
	r.chatLatency.Observe(d.Seconds())
}

func (r *Recorder) ObserveLLMCall(d time.Duration) {
	if r == nil {
		return
	}
	r.llmLatency.Observe(d.Seconds())
}

// RecordToolCall records one tool execution. errorType is empty on success.
func (r *Recorder) RecordToolCall(toolName string, d time.Duration, errorType string) {
	if r == nil {
		return
	}
	r.toolCalls.WithLabelValues(toolName).Inc()
	r.toolLatency.WithLabelValues(toolName).Observe(d.Seconds())
	if errorType != "" {
		r.toolErrors.WithLabelValues(toolName, errorType).Inc()
	}
}

// ObserveAPICall implements remote.CallObserver.
func (r *Recorder) ObserveAPICall(endpoint, status string, d time.Duration) {
	if r == nil {
		return
	}
	r.apiCalls.WithLabelValues(endpoint, status).Inc()
	r.apiLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (r *Recorder) RecordBookingAttempt() {
	if r == nil {
		return
	}
	r.bookingAttempts.Inc()
}

func (r *Recorder) RecordBookingSuccess() {
	if r == nil {
		return
	}
	r.bookingSuccess.Inc()
}

func (r *Recorder) RecordBookingFailure(reason string) {
	if r == nil {
		return
	}
	r.bookingFailed.WithLabelValues(reason).Inc()
}

// SetCacheEntries reports the size of a named cache.
func (r *Recorder) SetCacheEntries(cacheType string, n int) {
	if r == nil {
		return
	}
	r.cacheEntries.WithLabelValues(cacheType).Set(float64(n))
}

func (r *Recorder) SetMemorySessions(n int) {
	if r == nil {
		return
	}
	r.memorySessions.Set(float64(n))
}

// SetAgentInfo publishes the running version and model.
func (r *Recorder) SetAgentInfo(version, model string) {
	if r == nil {
		return
	}
	r.agentInfo.WithLabelValues(version, model).Set(1)
}
