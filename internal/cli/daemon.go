package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/muro/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewDaemonCommand runs the long-lived process hosting the scheduler
func NewDaemonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the background scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fxApp := fx.New(
				fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
					return &fxevent.ZapLogger{Logger: log}
				}),
				app.AppOptions,
			)

			// Handle graceful shutdown
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := fxApp.Start(ctx); err != nil {
				return err
			}

			// Wait for interrupt signal
			<-ctx.Done()

			return fxApp.Stop(context.Background())
		},
	}
}
