package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/tradeups-go/internal/application/mediator"
)

// PrometheusMiddleware records duration, outcome and concurrency of every request
// sent through the mediator. A nil collector makes it a pass-through.
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		command := commandName(request)
		collector.started(command)
		start := time.Now()

		response, err := next(ctx, request)

		collector.RecordCommandExecution(command, time.Since(start).Seconds(), err == nil)
		return response, err
	}
}

// commandName turns "*commands.RunGenerationWorkerCommand" into "RunGenerationWorkerCommand"
func commandName(request mediator.Request) string {
	if request == nil {
		return "UnknownCommand"
	}
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
