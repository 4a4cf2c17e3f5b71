// Package metrics exposes astograph's indexing and serving counters
// as Prometheus collectors, registered the way the rest of the
// example fleet does it (e.g. jinterlante1206-AleutianLocal's
// services/trace/agent/classifier/metrics.go): package-level
// promauto vars plus small record* helpers, rather than threading a
// *prometheus.Registry through every component.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filesIndexedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "astograph_files_indexed_total",
		Help: "Total source files successfully walked and extracted from.",
	})

	filesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astograph_files_skipped_total",
		Help: "Total source files skipped during indexing, by reason.",
	}, []string{"reason"})

	unitsExtractedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astograph_units_extracted_total",
		Help: "Total CodeUnits extracted, by unit type.",
	}, []string{"unit_type"})

	indexDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "astograph_index_file_duration_seconds",
		Help:    "Time to extract and index a single file.",
		Buckets: prometheus.DefBuckets,
	})

	bucketCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "astograph_hash_buckets",
		Help: "Current number of distinct wl_hash buckets in the index.",
	})

	bucketAvgSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "astograph_hash_bucket_avg_size",
		Help: "Current average number of entries per wl_hash bucket.",
	})

	verifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "astograph_verify_total",
		Help: "Total Verifier calls, by result.",
	}, []string{"result"})
)

// RecordFileIndexed records one successfully extracted file and how
// long extraction plus indexing took.
func RecordFileIndexed(d time.Duration) {
	filesIndexedTotal.Inc()
	indexDuration.Observe(d.Seconds())
}

// RecordFileSkipped records a file that was walked but not indexed,
// e.g. because it could not be read or yielded no units.
func RecordFileSkipped(reason string) {
	filesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordUnitsExtracted records the count of CodeUnits of a given type
// pulled out of one file.
func RecordUnitsExtracted(unitType string, n int) {
	if n <= 0 {
		return
	}
	unitsExtractedTotal.WithLabelValues(unitType).Add(float64(n))
}

// SetBucketStats publishes the index's current bucket-shape gauges.
// Callers recompute these after each batch rather than on every
// insert, since they require a full bucket scan.
func SetBucketStats(buckets int, avgSize float64) {
	bucketCount.Set(float64(buckets))
	bucketAvgSize.Set(avgSize)
}

// RecordVerify records one Verifier outcome.
func RecordVerify(result string) {
	verifyTotal.WithLabelValues(result).Inc()
}
