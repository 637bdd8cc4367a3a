package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/pyforge/internal/observability"
	"github.com/Sumatoshi-tech/pyforge/pkg/config"
	"github.com/Sumatoshi-tech/pyforge/pkg/pyast"
	"github.com/Sumatoshi-tech/pyforge/pkg/pyast/pkg/node"
	"github.com/Sumatoshi-tech/pyforge/pkg/version"
)

// app carries the state shared by all commands of one invocation.
type app struct {
	cfgFile string
	verbose bool
	quiet   bool

	stdin     io.Reader
	cfg       *config.Config
	providers observability.Providers
	metrics   *observability.Metrics
	logger    *slog.Logger
}

// setup loads configuration and starts telemetry before any command runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(a.cfgFile)
	if err != nil {
		return err
	}

	a.cfg = cfg

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.TraceVerbose = cfg.Telemetry.Verbose
	obsCfg.LogJSON = cfg.Logging.Format == "json"
	obsCfg.LogLevel = a.logLevel()

	providers, err := observability.InitWithWriter(obsCfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewMetrics(providers.Meter)
	if err != nil {
		return errors.Join(err, providers.Shutdown(cmd.Context()))
	}

	a.providers = providers
	a.metrics = metrics
	a.logger = providers.Logger.With("command", cmd.Name())
	a.logger.DebugContext(cmd.Context(), "command started", "config", a.cfgFile)

	return nil
}

func (a *app) teardown(cmd *cobra.Command, _ []string) error {
	if a.providers.Shutdown == nil {
		return nil
	}

	a.logger.DebugContext(cmd.Context(), "command finished")

	return a.shutdown(context.WithoutCancel(cmd.Context()))
}

// shutdown flushes telemetry once; later calls are no-ops.
func (a *app) shutdown(ctx context.Context) error {
	if a.providers.Shutdown == nil {
		return nil
	}

	shutdown := a.providers.Shutdown
	a.providers.Shutdown = nil

	return shutdown(ctx)
}

func (a *app) logLevel() slog.Level {
	switch {
	case a.verbose:
		return slog.LevelDebug
	case a.quiet:
		return slog.LevelError
	default:
		return observability.ParseLogLevel(a.cfg.Logging.Level)
	}
}

func (a *app) parser() *pyast.Parser {
	return pyast.NewParser(pyast.WithLogger(a.logger), pyast.WithTracer(a.providers.Tracer))
}

func (a *app) renderOptions() node.RenderOptions {
	return node.RenderOptions{Quote: a.cfg.Render.QuoteByte(), Indent: a.cfg.Render.Indent}
}

// record reports one processed file to the metrics and, on failure, the log.
func (a *app) record(ctx context.Context, op, label string, start time.Time, err error) {
	status := observability.StatusOK
	if err != nil {
		status = observability.StatusError

		a.logger.ErrorContext(ctx, "operation failed", "op", op, "file", label, "error", err)
	}

	a.metrics.RecordFile(ctx, op, status, time.Since(start))
}
