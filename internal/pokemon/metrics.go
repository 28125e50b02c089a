package pokemon

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors recorded for every store operation.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the store collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pokemon_store_operations_total",
				Help: "Total number of pokemon store operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pokemon_store_operation_duration_seconds",
				Help:    "Pokemon store operation latency in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"operation"},
		),
	}
	reg.MustRegister(m.operations, m.duration)
	return m
}

func (m *Metrics) observe(op string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

type instrumentedRepository struct {
	next    Repository
	metrics *Metrics
}

// Instrument wraps next so that every call is counted and timed.
func Instrument(next Repository, m *Metrics) Repository {
	return &instrumentedRepository{next: next, metrics: m}
}

func (r *instrumentedRepository) GetByID(ctx context.Context, id int) (p *Pokemon, err error) {
	defer func(start time.Time) { r.metrics.observe("get_by_id", start, err) }(time.Now())
	return r.next.GetByID(ctx, id)
}

func (r *instrumentedRepository) ListByOwner(ctx context.Context, ownerID int) (list []Pokemon, err error) {
	defer func(start time.Time) { r.metrics.observe("list_by_owner", start, err) }(time.Now())
	return r.next.ListByOwner(ctx, ownerID)
}

func (r *instrumentedRepository) ListTeam(ctx context.Context, ownerID int) (list []Pokemon, err error) {
	defer func(start time.Time) { r.metrics.observe("list_team", start, err) }(time.Now())
	return r.next.ListTeam(ctx, ownerID)
}

func (r *instrumentedRepository) Create(ctx context.Context, p *Pokemon) (ok bool, err error) {
	defer func(start time.Time) { r.metrics.observe("create", start, err) }(time.Now())
	return r.next.Create(ctx, p)
}

func (r *instrumentedRepository) SaveTeam(ctx context.Context, members []Pokemon) (ok bool, err error) {
	defer func(start time.Time) { r.metrics.observe("save_team", start, err) }(time.Now())
	return r.next.SaveTeam(ctx, members)
}

func (r *instrumentedRepository) Import(ctx context.Context, p *Pokemon) (ok bool, err error) {
	defer func(start time.Time) { r.metrics.observe("import", start, err) }(time.Now())
	return r.next.Import(ctx, p)
}
