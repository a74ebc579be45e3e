package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"notesapp/internal/notes"
	"notesapp/internal/store"
)

// Metrics holds Prometheus metrics for the note app
type Metrics struct {
	RemoteCalls    *prometheus.CounterVec
	RemoteDuration *prometheus.HistogramVec
	RemoteInFlight *prometheus.GaugeVec
	StoreNotes     prometheus.Gauge
	StoreView      prometheus.Gauge

	registry *prometheus.Registry
}

// New creates the metrics on a fresh registry
func New(app string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		RemoteCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "notes",
				Subsystem: app,
				Name:      "remote_calls_total",
				Help:      "Total number of calls to the note service",
			},
			[]string{"op", "status"},
		),
		RemoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "notes",
				Subsystem: app,
				Name:      "remote_call_duration_seconds",
				Help:      "Note service call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		RemoteInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "notes",
				Subsystem: app,
				Name:      "remote_calls_in_flight",
				Help:      "Number of note service calls currently outstanding",
			},
			[]string{"op"},
		),
		StoreNotes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "notes",
				Subsystem: app,
				Name:      "store_notes",
				Help:      "Notes held in the canonical collection",
			},
		),
		StoreView: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "notes",
				Subsystem: app,
				Name:      "store_view_notes",
				Help:      "Notes in the filtered view",
			},
		),
		registry: reg,
	}
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Watch keeps the store gauges current. The returned func stops watching.
func (m *Metrics) Watch(s *store.Store) (cancel func()) {
	update := func() {
		m.StoreNotes.Set(float64(s.Len()))
		m.StoreView.Set(float64(len(s.View())))
	}
	update()
	return s.Subscribe(func(store.Event) { update() })
}

func (m *Metrics) observe(op string) func(error) {
	m.RemoteInFlight.WithLabelValues(op).Inc()
	start := time.Now()

	return func(err error) {
		m.RemoteInFlight.WithLabelValues(op).Dec()
		m.RemoteDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

		status := "ok"
		if err != nil {
			status = "error"
		}
		m.RemoteCalls.WithLabelValues(op, status).Inc()
	}
}

// Instrument wraps remote so every call is counted and timed
func Instrument(remote store.Remote, m *Metrics) store.Remote {
	return &instrumented{next: remote, m: m}
}

type instrumented struct {
	next store.Remote
	m    *Metrics
}

func (i *instrumented) ListNotes(ctx context.Context) (list []notes.Note, err error) {
	done := i.m.observe("list")
	defer func() { done(err) }()
	return i.next.ListNotes(ctx)
}

func (i *instrumented) CreateNote(ctx context.Context, d notes.Draft) (n notes.Note, err error) {
	done := i.m.observe("create")
	defer func() { done(err) }()
	return i.next.CreateNote(ctx, d)
}

func (i *instrumented) UpdateNote(ctx context.Context, n notes.Note) (out notes.Note, err error) {
	done := i.m.observe("update")
	defer func() { done(err) }()
	return i.next.UpdateNote(ctx, n)
}

func (i *instrumented) DeleteNote(ctx context.Context, id int64) (err error) {
	done := i.m.observe("delete")
	defer func() { done(err) }()
	return i.next.DeleteNote(ctx, id)
}
