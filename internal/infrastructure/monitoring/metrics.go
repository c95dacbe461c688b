package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	LoanOperationsTotal  *prometheus.CounterVec
	MembersRegistered    prometheus.Counter
	MembersReactivated   prometheus.Counter
	MembersDeactivated   prometheus.Counter
	OverdueLoansObserved prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "library_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		LoanOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "library_engine_loan_operations_total",
				Help: "Total loan lifecycle operations by operation and outcome.",
			},
			[]string{"operation", "status"},
		),
		MembersRegistered: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "library_engine_members_registered_total",
				Help: "Total number of members successfully registered.",
			},
		),
		MembersReactivated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "library_engine_members_reactivated_total",
				Help: "Total number of deactivated members reactivated in place.",
			},
		),
		MembersDeactivated: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "library_engine_members_deactivated_total",
				Help: "Total number of members soft-deleted.",
			},
		),
		OverdueLoansObserved: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "library_engine_overdue_loans",
				Help: "Overdue loan count observed by the last overdue scan.",
			},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordLoanOperation(operation, status string) {
	Business.LoanOperationsTotal.WithLabelValues(operation, status).Inc()
}
