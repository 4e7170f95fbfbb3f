// Package metrics registers the Prometheus instruments shared by the
// ingestion pipeline and the report API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntriesIngested counts ledger entries written by imports.
	EntriesIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diwan_entries_ingested_total",
		Help: "Ledger entries written by spreadsheet imports.",
	})

	// RowsSkipped counts rows dropped for data-quality reasons.
	RowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diwan_rows_skipped_total",
		Help: "Import rows dropped for data-quality reasons.",
	})

	// BatchesImported counts processed spreadsheet files.
	BatchesImported = promauto.NewCounter(prometheus.CounterOpts{
		Name: "diwan_batches_imported_total",
		Help: "Spreadsheet files processed.",
	})

	// ReportRequests counts balance report computations by grouping.
	ReportRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "diwan_report_requests_total",
		Help: "Balance report computations.",
	}, []string{"group_by"})
)
