// Package stats provides a unified interface for collecting metrics.
package stats

// Metric names used throughout the library.
const (
	// Parser metrics.
	MetricParsedRecords = "repertoire_parse_records_total"
	MetricParseDropped  = "repertoire_parse_dropped_total"

	// Classifier metrics.
	MetricClassificationMisses = "repertoire_classification_misses_total"

	// Sync and merge metrics.
	MetricSyncs          = "repertoire_syncs_total"
	MetricSyncErrors     = "repertoire_sync_errors_total"
	MetricFetchDuration  = "repertoire_fetch_duration_seconds"
	MetricMergeAdded     = "repertoire_merge_added_total"
	MetricMergeDuplicate = "repertoire_merge_duplicates_total"
	MetricStoredGames    = "repertoire_stored_games"

	// Analysis metrics.
	MetricAnalyses        = "repertoire_analyses_total"
	MetricAnalyzeDuration = "repertoire_analyze_duration_seconds"

	// Cache metrics.
	MetricCacheHits   = "repertoire_cache_hits_total"
	MetricCacheMisses = "repertoire_cache_misses_total"
	MetricCacheSize   = "repertoire_cache_size"
)

// Collector defines the interface for collecting metrics.
type Collector interface {
	// IncCounter increments a counter metric by delta.
	IncCounter(name string, delta int64)

	// SetGauge sets a gauge metric to value.
	SetGauge(name string, value int64)

	// ObserveHistogram records a value in a histogram metric.
	ObserveHistogram(name string, value float64)
}
