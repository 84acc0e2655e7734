package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// GenerationMetricsCollector handles trade-up generation metrics
type GenerationMetricsCollector struct {
	resultsTotal       *prometheus.CounterVec
	skippedTotal       *prometheus.CounterVec
	priceWarningsTotal *prometheus.CounterVec
	itemsScheduled     *prometheus.CounterVec
	workerDuration     *prometheus.HistogramVec
	workersTotal       *prometheus.CounterVec
}

// NewGenerationMetricsCollector creates a new generation metrics collector
func NewGenerationMetricsCollector() *GenerationMetricsCollector {
	return &GenerationMetricsCollector{
		resultsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "results_total",
				Help:      "Trade-ups persisted by goal rarity",
			},
			[]string{"rarity"},
		),

		skippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "skipped_total",
				Help:      "Goal/tier pairs skipped by rarity and reason",
			},
			[]string{"rarity", "reason"},
		),

		priceWarningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "price_warnings_total",
				Help:      "Trade-ups whose simulation used a fallback price",
			},
			[]string{"rarity"},
		),

		itemsScheduled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "items_scheduled_total",
				Help:      "Goal items handed to workers by rarity",
			},
			[]string{"rarity"},
		),

		workerDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "worker_duration_seconds",
				Help:      "Time for a worker to finish its partition",
				Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800},
			},
			[]string{"rarity", "status"},
		),

		workersTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "workers_total",
				Help:      "Worker partitions finished by rarity and status",
			},
			[]string{"rarity", "status"},
		),
	}
}

// Register registers all generation metrics with the Prometheus registry
func (c *GenerationMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.resultsTotal,
		c.skippedTotal,
		c.priceWarningsTotal,
		c.itemsScheduled,
		c.workerDuration,
		c.workersTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

func (c *GenerationMetricsCollector) RecordResults(rarity string, count int) {
	c.resultsTotal.WithLabelValues(rarity).Add(float64(count))
}

func (c *GenerationMetricsCollector) RecordSkip(rarity string, reason string, count int) {
	c.skippedTotal.WithLabelValues(rarity, reason).Add(float64(count))
}

func (c *GenerationMetricsCollector) RecordPriceWarnings(rarity string, count int) {
	c.priceWarningsTotal.WithLabelValues(rarity).Add(float64(count))
}

func (c *GenerationMetricsCollector) RecordItemsScheduled(rarity string, count int) {
	c.itemsScheduled.WithLabelValues(rarity).Add(float64(count))
}

func (c *GenerationMetricsCollector) RecordWorkerCompletion(rarity string, durationSeconds float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.workerDuration.WithLabelValues(rarity, status).Observe(durationSeconds)
	c.workersTotal.WithLabelValues(rarity, status).Inc()
}
