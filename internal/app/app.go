// Package app assembles the daemon's dependency graph.
package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/genricoloni/muro/internal/config"
	"github.com/genricoloni/muro/internal/domain"
	"github.com/genricoloni/muro/internal/executor"
	"github.com/genricoloni/muro/internal/manager"
	"github.com/genricoloni/muro/internal/notify"
	"github.com/genricoloni/muro/internal/provider"
	"github.com/genricoloni/muro/internal/render"
	"github.com/genricoloni/muro/internal/scheduler"
	"github.com/genricoloni/muro/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// AppOptions is the daemon's full dependency graph. Kept as a variable so
// tests can validate the graph with fx.ValidateApp.
var AppOptions = fx.Options(
	fx.Provide(
		NewDaemonLogger,
		newStore,
		render.NewScreenResolution,
		newProvider,
		newExecutor,
		newNotifier,
		manager.New,
		scheduler.New,
	),
	fx.Invoke(registerHooks),
)

// NewDaemonLogger creates a production logger writing to stderr and to a
// log file under the data directory
func NewDaemonLogger() (*zap.Logger, error) {
	dir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	logDir := config.LogDir(dir)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr", filepath.Join(logDir, "muro.log")}
	return cfg.Build()
}

func newStore(logger *zap.Logger) (*store.Store, error) {
	dir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	return store.New(logger, dir), nil
}

func newProvider(logger *zap.Logger) domain.Provider {
	return provider.NewUnsplashClient(logger)
}

func newExecutor(logger *zap.Logger) (domain.Executor, error) {
	return executor.New(logger)
}

func newNotifier(logger *zap.Logger) domain.Notifier {
	return notify.New(logger)
}

// registerHooks ties the scheduler loop to the fx lifecycle. The loop
// runs on its own context so it survives past OnStart's deadline and
// stops when OnStop cancels it.
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, sched *scheduler.Scheduler) {
	var cancel context.CancelFunc
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("muro daemon started")
			if err := sched.Start(ctx); err != nil {
				return err
			}

			runCtx, c := context.WithCancel(context.Background())
			cancel = c
			go func() {
				defer close(done)
				sched.Run(runCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			if cancel != nil {
				cancel()
			}
			select {
			case <-done:
			case <-ctx.Done():
			}
			return sched.Stop(ctx)
		},
	})
}
