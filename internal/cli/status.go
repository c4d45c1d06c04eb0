package cli

import (
	"io"
	"strconv"
	"time"

	"github.com/genricoloni/muro/internal/autostart"
	"github.com/genricoloni/muro/internal/domain"
	"github.com/genricoloni/muro/internal/history"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// NewStatusCommand reports the schedule and the current wallpaper
func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEnv(cmd)
			if err != nil {
				return err
			}

			doc, err := e.store.Load()
			if err != nil {
				return err
			}

			state := "Stopped"
			if doc.State.IsRunning {
				state = "Running"
			}
			cmd.Printf("Status:   %s\n", state)
			cmd.Printf("Next run: %s\n", formatTime(doc.State.NextRunAt))
			cmd.Printf("Last run: %s\n", formatTime(doc.State.LastRunAt))

			if w, ok := history.Current(doc); ok {
				cmd.Printf("Current:  %s\n", describe(w))
			}

			if autostart.New(e.logger).IsEnabled() {
				cmd.Println("Autostart: enabled")
			} else {
				cmd.Println("Autostart: disabled")
			}
			return nil
		},
	}
}

// NewInfoCommand prints details of the current wallpaper
func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show current wallpaper info",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEnv(cmd)
			if err != nil {
				return err
			}

			w, ok, err := e.manager.Current()
			if err != nil {
				return err
			}
			if !ok {
				cmd.Println("No wallpaper in history.")
				return nil
			}

			cmd.Printf("Title:   %s\n", w.Title)
			cmd.Printf("Author:  %s\n", w.Author)
			cmd.Printf("Applied: %s\n", w.AppliedAt.Local().Format("2006-01-02 15:04"))
			if w.URL != "" {
				cmd.Printf("\nView: %s\n", w.URL)
			}
			return nil
		},
	}
}

// NewListCommand dumps the history log, newest first
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List wallpaper history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEnv(cmd)
			if err != nil {
				return err
			}

			doc, err := e.store.Load()
			if err != nil {
				return err
			}
			if len(doc.History) == 0 {
				cmd.Println("No wallpaper in history.")
				return nil
			}

			return renderHistory(cmd.OutOrStdout(), doc)
		},
	}
}

// renderHistory writes the history table, newest first, marking the
// entry under the navigation pointer
func renderHistory(out io.Writer, doc *domain.Document) error {
	table := tablewriter.NewWriter(out)
	table.Header("#", "Title", "Author", "Applied")

	for i := len(doc.History) - 1; i >= 0; i-- {
		w := doc.History[i]
		marker := ""
		if i == doc.State.CurrentHistoryIndex {
			marker = " *"
		}
		shown := len(doc.History) - 1 - i
		if err := table.Append(
			strconv.Itoa(shown)+marker,
			w.Title,
			w.Author,
			w.AppliedAt.Local().Format("2006-01-02 15:04"),
		); err != nil {
			return err
		}
	}

	return table.Render()
}
