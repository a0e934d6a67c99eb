package observability

import (
	"time"

	"github.com/dmatos/fintrack-api-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration     *prometheus.HistogramVec
	storeErrors         *prometheus.CounterVec
	transactionsCreated *prometheus.CounterVec
	summariesComputed   prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fintrack_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_store_errors_total",
				Help: "Total errors from the persistence backend.",
			},
			[]string{"store"},
		),
		transactionsCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_transactions_created_total",
				Help: "Total ledger transactions created, by type.",
			},
			[]string{"type"},
		),
		summariesComputed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fintrack_summaries_computed_total",
				Help: "Total monthly summaries computed.",
			},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrStoreError increments the store error counter.
func (m *Metrics) IncrStoreError(store string) {
	m.storeErrors.WithLabelValues(store).Inc()
}

// IncrTransactionCreated increments the created-transaction counter for a type.
func (m *Metrics) IncrTransactionCreated(txType string) {
	m.transactionsCreated.WithLabelValues(txType).Inc()
}

// IncrSummaryComputed increments the summary counter.
func (m *Metrics) IncrSummaryComputed() {
	m.summariesComputed.Inc()
}

// GetLedgerSnapshot returns a snapshot of ledger metrics suitable for the
// GET /api/metrics/ledger endpoint.
func (m *Metrics) GetLedgerSnapshot() *domain.LedgerMetrics {
	income := getCounterValue(m.transactionsCreated, domain.TypeIncome)
	expense := getCounterValue(m.transactionsCreated, domain.TypeExpense)
	storeErrors := getCounterValue(m.storeErrors, "transactions") +
		getCounterValue(m.storeErrors, "users")

	return &domain.LedgerMetrics{
		TransactionsCreated: income + expense,
		IncomeCreated:       income,
		ExpenseCreated:      expense,
		SummariesComputed:   getPlainCounterValue(m.summariesComputed),
		StoreErrors:         storeErrors,
		Period:              "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

func getPlainCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
