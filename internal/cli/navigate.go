package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/genricoloni/muro/internal/history"
	"github.com/spf13/cobra"
)

// NewNextCommand moves forward in history, fetching when exhausted
func NewNextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Go to the next wallpaper (history or new)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEnv(cmd)
			if err != nil {
				return err
			}
			w, err := e.manager.Next(cmd.Context())
			return reportApply(cmd, w, err, "Next wallpaper set")
		},
	}
}

// NewPrevCommand moves back in history
func NewPrevCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prev",
		Short: "Go to the previous wallpaper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEnv(cmd)
			if err != nil {
				return err
			}
			w, err := e.manager.Prev(cmd.Context())
			if errors.Is(err, history.ErrAtOldest) || errors.Is(err, history.ErrEmpty) {
				cmd.Println("Already at the oldest wallpaper.")
				return nil
			}
			return reportApply(cmd, w, err, "Previous wallpaper set")
		},
	}
}

// NewNewCommand force-fetches a new wallpaper
func NewNewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Force fetch a new wallpaper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEnv(cmd)
			if err != nil {
				return err
			}
			w, err := e.manager.ForceNew(cmd.Context())
			return reportApply(cmd, w, err, "New wallpaper set")
		},
	}
}

// NewSetCommand jumps to a history entry by its `list` index (0 = newest)
func NewSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <index>",
		Short: "Set the wallpaper to a history entry (index as shown by 'list')",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shown, err := strconv.Atoi(args[0])
			if err != nil || shown < 0 {
				return fmt.Errorf("invalid index %q", args[0])
			}

			e, err := buildEnv(cmd)
			if err != nil {
				return err
			}

			doc, err := e.store.Load()
			if err != nil {
				return err
			}
			if shown >= len(doc.History) {
				return fmt.Errorf("index %d out of range (history has %d entries)", shown, len(doc.History))
			}

			// `list` counts from the newest entry; the log counts from
			// the oldest
			w, err := e.manager.SetIndex(cmd.Context(), len(doc.History)-1-shown)
			return reportApply(cmd, w, err, "Wallpaper set")
		},
	}
}
