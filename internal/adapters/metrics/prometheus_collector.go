package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "tradeups"
	// Subsystem for generation metrics
	subsystem = "generation"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalCollector is the singleton generation metrics collector
	// Set by SetGlobalCollector() when metrics are enabled
	globalCollector GenerationMetricsRecorder
)

// GenerationMetricsRecorder defines the interface for recording generation events
// This interface is used by application code to record metrics
type GenerationMetricsRecorder interface {
	RecordResults(rarity string, count int)
	RecordSkip(rarity string, reason string, count int)
	RecordPriceWarnings(rarity string, count int)
	RecordWorkerCompletion(rarity string, durationSeconds float64, success bool)
	RecordItemsScheduled(rarity string, count int)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalCollector sets the global metrics collector
func SetGlobalCollector(collector GenerationMetricsRecorder) {
	globalCollector = collector
}

// RecordResults records persisted trade-ups globally
func RecordResults(rarity string, count int) {
	if globalCollector != nil {
		globalCollector.RecordResults(rarity, count)
	}
}

// RecordSkip records skipped (goal, tier) pairs globally
func RecordSkip(rarity string, reason string, count int) {
	if globalCollector != nil {
		globalCollector.RecordSkip(rarity, reason, count)
	}
}

// RecordPriceWarnings records results built on fallback prices globally
func RecordPriceWarnings(rarity string, count int) {
	if globalCollector != nil {
		globalCollector.RecordPriceWarnings(rarity, count)
	}
}

// RecordWorkerCompletion records a worker partition finishing globally
func RecordWorkerCompletion(rarity string, durationSeconds float64, success bool) {
	if globalCollector != nil {
		globalCollector.RecordWorkerCompletion(rarity, durationSeconds, success)
	}
}

// RecordItemsScheduled records how many goal items a rarity pass scheduled globally
func RecordItemsScheduled(rarity string, count int) {
	if globalCollector != nil {
		globalCollector.RecordItemsScheduled(rarity, count)
	}
}
