package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	coreconfig "github.com/m3rciful/screambot/core/config"
	"github.com/m3rciful/screambot/core/logger"
	"github.com/m3rciful/screambot/core/metrics"
)

// Options control the generic bootstrap pipeline shared between bots.
type Options struct {
	Config *coreconfig.Config

	LoggerInit   func(*coreconfig.Config) error
	ServeMetrics func(ctx context.Context, listen string) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	// MetricsDone is closed once the metrics listener has stopped; nil when metrics are off.
	MetricsDone <-chan struct{}
}

// Run initializes the logger and, when metrics.listen is set, serves Prometheus
// metrics until ctx is done.
func Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	loggerInit := opts.LoggerInit
	if loggerInit == nil {
		loggerInit = logger.InitLogger
	}
	if err := loggerInit(opts.Config); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	res := &Result{}
	listen := opts.Config.Metrics.Listen
	if listen == "" {
		return res, nil
	}

	serve := opts.ServeMetrics
	if serve == nil {
		serve = metrics.Serve
	}
	done := make(chan struct{})
	res.MetricsDone = done
	go func() {
		defer close(done)
		logger.Info(ctx, "app", "metrics.listen", slog.String("listen", listen))
		if err := serve(ctx, listen); err != nil {
			logger.Error(ctx, "app", "metrics.failed",
				slog.String("status", "fail"),
				slog.String("err", err.Error()),
			)
		}
	}()
	return res, nil
}
