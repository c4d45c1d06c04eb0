// Package cli implements the muro command surface. Every command is one
// atomic load-mutate-save unit against the shared state document; the
// daemon's scheduler performs the same cycle autonomously.
package cli

import (
	"errors"
	"fmt"

	"github.com/genricoloni/muro/internal/config"
	"github.com/genricoloni/muro/internal/domain"
	"github.com/genricoloni/muro/internal/executor"
	"github.com/genricoloni/muro/internal/manager"
	"github.com/genricoloni/muro/internal/notify"
	"github.com/genricoloni/muro/internal/provider"
	"github.com/genricoloni/muro/internal/render"
	"github.com/genricoloni/muro/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// env holds the wired components shared by the one-shot commands
type env struct {
	logger  *zap.Logger
	store   *store.Store
	manager *manager.Manager
}

// newLogger builds a console logger at the level selected by --log-level
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = "warn"
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = lvl
	return cfg.Build()
}

// buildEnv wires the real components for a one-shot invocation
func buildEnv(cmd *cobra.Command) (*env, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, err
	}

	dir, err := config.DataDir()
	if err != nil {
		return nil, err
	}
	st := store.New(logger, dir)

	exec, err := executor.New(logger)
	if err != nil {
		return nil, err
	}

	mgr := manager.New(
		logger,
		st,
		provider.NewUnsplashClient(logger),
		exec,
		notify.New(logger),
		render.NewScreenResolution(logger),
	)

	return &env{logger: logger, store: st, manager: mgr}, nil
}

// describe renders a history entry for terminal output
func describe(w domain.Wallpaper) string {
	switch {
	case w.Title != "" && w.Author != "":
		return fmt.Sprintf("%s by %s", w.Title, w.Author)
	case w.Author != "":
		return "by " + w.Author
	case w.Title != "":
		return w.Title
	}
	return w.ID
}

// reportApply prints the outcome of a navigation command, downgrading
// the apply-failed case to a warning: the history was still updated.
func reportApply(cmd *cobra.Command, w domain.Wallpaper, err error, verb string) error {
	if err == nil {
		cmd.Printf("%s: %s\n", verb, describe(w))
		return nil
	}
	if errors.Is(err, manager.ErrApplyFailed) {
		cmd.Printf("%s: %s\n", verb, describe(w))
		cmd.PrintErrf("warning: %v\n", err)
		return nil
	}
	return err
}
