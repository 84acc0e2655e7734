package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CommandMetricsCollector tracks handler executions dispatched through the mediator
type CommandMetricsCollector struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	inFlight *prometheus.GaugeVec
}

// NewCommandMetricsCollector creates a new command metrics collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "command_duration_seconds",
				Help:      "Handler execution time by command and status",
				Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 30, 120, 600, 1800},
			},
			[]string{"command", "status"},
		),
		total: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "commands_total",
				Help:      "Handler executions by command and status",
			},
			[]string{"command", "status"},
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "mediator",
				Name:      "commands_in_flight",
				Help:      "Handlers currently executing by command",
			},
			[]string{"command"},
		),
	}
}

// Register registers all command metrics with the Prometheus registry
func (c *CommandMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}

	for _, metric := range []prometheus.Collector{c.duration, c.total, c.inFlight} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

func (c *CommandMetricsCollector) started(command string) {
	c.inFlight.WithLabelValues(command).Inc()
}

// RecordCommandExecution records one finished handler execution
func (c *CommandMetricsCollector) RecordCommandExecution(command string, durationSeconds float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	c.inFlight.WithLabelValues(command).Dec()
	c.duration.WithLabelValues(command, status).Observe(durationSeconds)
	c.total.WithLabelValues(command, status).Inc()
}
