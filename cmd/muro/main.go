package main

import (
	"fmt"
	"os"

	"github.com/genricoloni/muro/internal/cli"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "muro",
		Short: "muro - desktop wallpaper changer",
		Long: `muro periodically replaces the desktop background with photos from
Unsplash collections and keeps a navigable history of everything it
applied. The daemon changes wallpapers on a schedule; the same commands
work from any shell while it runs.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		cli.NewNextCommand(),
		cli.NewPrevCommand(),
		cli.NewNewCommand(),
		cli.NewSetCommand(),
		cli.NewStatusCommand(),
		cli.NewInfoCommand(),
		cli.NewListCommand(),
		cli.NewConfigCommand(),
		cli.NewAutostartCommand(),
		cli.NewDaemonCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
