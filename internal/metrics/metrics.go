// Package metrics exposes the service's Prometheus instruments.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voxverify"

// Default is the shared instance registered against the global
// Prometheus registry. Construct Metrics only once per process.
var Default = New()

// Metrics holds every instrument the service records.
type Metrics struct {
	SessionsCreated   prometheus.Counter
	TurnsTotal        prometheus.Counter
	TurnDuration      prometheus.Histogram
	ValidationRejects *prometheus.CounterVec
	FallbackTotal     prometheus.Counter
	ResponderErrors   prometheus.Counter
	Verifications     prometheus.Counter
	ArtifactsCreated  prometheus.Counter
	ArtifactsDeleted  prometheus.Counter
	ArtifactsTracked  prometheus.Gauge
	SynthesisErrors   prometheus.Counter
	EventsPublished   *prometheus.CounterVec
}

// New registers and returns the instrument set.
func New() *Metrics {
	return &Metrics{
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_created_total",
			Help:      "Verification sessions started.",
		}),
		TurnsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Conversation turns processed.",
		}),
		TurnDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_duration_seconds",
			Help:      "Time spent processing one turn.",
			Buckets:   prometheus.DefBuckets,
		}),
		ValidationRejects: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_rejects_total",
			Help:      "Inputs rejected by field validators.",
		}, []string{"field"}),
		FallbackTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_delegations_total",
			Help:      "Turns delegated to the generative responder.",
		}),
		ResponderErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responder_errors_total",
			Help:      "Generative responder failures.",
		}),
		Verifications: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verifications_completed_total",
			Help:      "Sessions that reached the completed state.",
		}),
		ArtifactsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_artifacts_created_total",
			Help:      "Synthesized audio artifacts written.",
		}),
		ArtifactsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audio_artifacts_deleted_total",
			Help:      "Audio artifacts removed from disk.",
		}),
		ArtifactsTracked: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "audio_artifacts_tracked",
			Help:      "Audio artifacts currently awaiting cleanup.",
		}),
		SynthesisErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synthesis_errors_total",
			Help:      "Speech synthesis failures.",
		}),
		EventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Completion events by publish outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) RecordSession() {
	m.SessionsCreated.Inc()
}

func (m *Metrics) RecordTurn(d time.Duration) {
	m.TurnsTotal.Inc()
	m.TurnDuration.Observe(d.Seconds())
}

func (m *Metrics) RecordValidationReject(field string) {
	m.ValidationRejects.WithLabelValues(field).Inc()
}

func (m *Metrics) RecordFallback() {
	m.FallbackTotal.Inc()
}

func (m *Metrics) RecordResponderError() {
	m.ResponderErrors.Inc()
}

func (m *Metrics) RecordVerification() {
	m.Verifications.Inc()
}

func (m *Metrics) RecordArtifactCreated() {
	m.ArtifactsCreated.Inc()
	m.ArtifactsTracked.Inc()
}

func (m *Metrics) RecordArtifactDeleted() {
	m.ArtifactsDeleted.Inc()
	m.ArtifactsTracked.Dec()
}

func (m *Metrics) RecordSynthesisError() {
	m.SynthesisErrors.Inc()
}

func (m *Metrics) RecordEvent(outcome string) {
	m.EventsPublished.WithLabelValues(outcome).Inc()
}
