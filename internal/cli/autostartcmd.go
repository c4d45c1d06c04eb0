package cli

import (
	"github.com/genricoloni/muro/internal/autostart"
	"github.com/spf13/cobra"
)

// NewAutostartCommand toggles login-item registration for the daemon
func NewAutostartCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage autostart registration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "on",
			Short: "Start the daemon at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				logger, err := newLogger(cmd)
				if err != nil {
					return err
				}
				if err := autostart.New(logger).Enable(); err != nil {
					return err
				}
				cmd.Println("Autostart enabled.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "off",
			Short: "Do not start the daemon at login",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				logger, err := newLogger(cmd)
				if err != nil {
					return err
				}
				if err := autostart.New(logger).Disable(); err != nil {
					return err
				}
				cmd.Println("Autostart disabled.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show autostart registration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				logger, err := newLogger(cmd)
				if err != nil {
					return err
				}
				if autostart.New(logger).IsEnabled() {
					cmd.Println("Autostart is enabled.")
				} else {
					cmd.Println("Autostart is disabled.")
				}
				return nil
			},
		},
	)

	return cmd
}
