package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "securecheck_store_queries_total",
		Help: "Total number of SQL statements sent to the record store.",
	})
	StoreFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "securecheck_store_failures_total",
		Help: "Total number of record store reads that degraded to an empty table.",
	})
	StoreDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "securecheck_store_query_duration_seconds",
		Help:    "Duration of record store reads.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.5, 5.0},
	})
	RowsCleaned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "securecheck_rows_cleaned_total",
		Help: "Total number of rows passed through the cleaning pipeline.",
	})
	CatalogRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "securecheck_catalog_runs_total",
		Help: "Canned query executions by query id and result (rows, empty, cached).",
	}, []string{"query", "result"})
	Predictions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "securecheck_predictions_total",
		Help: "Outcome predictions served, split by whether the fallback pair was used.",
	}, []string{"fallback"})
)
