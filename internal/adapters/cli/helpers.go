package cli

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/andrescamacho/tradeups-go/internal/adapters/metrics"
	"github.com/andrescamacho/tradeups-go/internal/application/common"
	"github.com/andrescamacho/tradeups-go/internal/application/mediator"
	"github.com/andrescamacho/tradeups-go/internal/application/tradeup/commands"
	"github.com/andrescamacho/tradeups-go/internal/domain/shared"
	"github.com/andrescamacho/tradeups-go/internal/infrastructure/config"
	"github.com/andrescamacho/tradeups-go/internal/infrastructure/logging"
)

// runtime bundles what every database-backed command needs
type runtime struct {
	cfg      *config.Config
	logger   *logging.ZapLogger
	mediator mediator.Mediator
	metrics  *metrics.Server
}

// loadConfig loads the configuration named by --config
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newRuntime builds the logger, metrics and mediator from configuration and
// returns a context carrying the logger
func newRuntime(ctx context.Context, cfg *config.Config, stores commands.StoreFactory) (context.Context, *runtime, error) {
	logger, err := logging.NewZapLogger(cfg.Logging)
	if err != nil {
		return ctx, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	ctx = common.WithLogger(ctx, logger)

	rt := &runtime{cfg: cfg, logger: logger}

	var commandMetrics *metrics.CommandMetricsCollector
	if cfg.Metrics.Enabled {
		commandMetrics, err = setupMetrics()
		if err != nil {
			return ctx, nil, err
		}
		addr := net.JoinHostPort(cfg.Metrics.Host, strconv.Itoa(cfg.Metrics.Port))
		rt.metrics, err = metrics.StartServer(addr, cfg.Metrics.Path)
		if err != nil {
			return ctx, nil, err
		}
		logger.Log(common.LevelInfo, "Metrics endpoint listening", map[string]interface{}{
			"addr": rt.metrics.Addr(),
			"path": cfg.Metrics.Path,
		})
	}

	rt.mediator, err = newMediator(stores, commandMetrics, shared.NewRealClock())
	if err != nil {
		return ctx, nil, err
	}
	return ctx, rt, nil
}

// close stops the metrics endpoint and flushes the logger
func (rt *runtime) close(ctx context.Context) {
	if err := rt.metrics.Shutdown(ctx); err != nil {
		rt.logger.Log(common.LevelWarn, "Metrics endpoint shutdown failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	_ = rt.logger.Sync()
}

// setupMetrics creates the registry and registers every collector
func setupMetrics() (*metrics.CommandMetricsCollector, error) {
	metrics.InitRegistry()

	generation := metrics.NewGenerationMetricsCollector()
	if err := generation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register generation metrics: %w", err)
	}
	metrics.SetGlobalCollector(generation)

	commandMetrics := metrics.NewCommandMetricsCollector()
	if err := commandMetrics.Register(); err != nil {
		return nil, fmt.Errorf("failed to register command metrics: %w", err)
	}
	return commandMetrics, nil
}

// newMediator registers the generation handlers. The coordinator dispatches its
// workers through the same mediator, so both pass through the middleware.
func newMediator(stores commands.StoreFactory, commandMetrics *metrics.CommandMetricsCollector, clock shared.Clock) (mediator.Mediator, error) {
	med := common.NewMediator()
	med.RegisterMiddleware(metrics.PrometheusMiddleware(commandMetrics))

	workerHandler := commands.NewRunGenerationWorkerHandler(stores, clock)
	if err := mediator.RegisterHandler[*commands.RunGenerationWorkerCommand](med, workerHandler); err != nil {
		return nil, fmt.Errorf("failed to register RunGenerationWorker handler: %w", err)
	}

	coordinatorHandler := commands.NewRunGenerationCoordinatorHandler(stores, med, clock)
	if err := mediator.RegisterHandler[*commands.RunGenerationCoordinatorCommand](med, coordinatorHandler); err != nil {
		return nil, fmt.Errorf("failed to register RunGenerationCoordinator handler: %w", err)
	}

	return med, nil
}
