package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/genricoloni/muro/internal/domain"
	"github.com/spf13/cobra"
)

// NewConfigCommand groups the configuration subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit configuration",
	}
	cmd.AddCommand(newConfigShowCommand(), newConfigSetCommand())
	return cmd
}

func maskKey(key string) string {
	if key == "" {
		return "Not set"
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
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
			cfg := doc.Config

			cmd.Printf("API key:                %s\n", maskKey(cfg.AccessKey))
			cmd.Printf("Collections:            %s\n", strings.Join(cfg.Collections, ", "))
			cmd.Printf("Update interval:        %s\n", formatInterval(cfg.IntervalMinutes))
			cmd.Printf("Aspect ratio tolerance: %.2f\n", cfg.AspectRatioTolerance)
			cmd.Printf("Retention:              %s\n", formatRetention(cfg.RetentionDays))
			return nil
		},
	}
}

func formatInterval(minutes int) string {
	if minutes <= 0 {
		return "disabled"
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dm", minutes)
}

func formatRetention(days int) string {
	if days <= 0 {
		return "forever"
	}
	return fmt.Sprintf("%d days", days)
}

// setConfigValue validates and applies one key=value pair
func setConfigValue(cfg *domain.Config, key, value string) error {
	switch key {
	case "access_key", "unsplash_access_key":
		cfg.AccessKey = strings.TrimSpace(value)

	case "collections":
		var collections []string
		for _, c := range strings.Split(value, ",") {
			if c = strings.TrimSpace(c); c != "" {
				collections = append(collections, c)
			}
		}
		if len(collections) == 0 {
			return fmt.Errorf("collections must be a comma-separated list of IDs")
		}
		cfg.Collections = collections

	case "interval_minutes":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("interval_minutes must be an integer >= 0 (0 disables auto-cycling)")
		}
		cfg.IntervalMinutes = n

	case "aspect_ratio_tolerance":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 || f > 1 {
			return fmt.Errorf("aspect_ratio_tolerance must be a number in [0, 1]")
		}
		cfg.AspectRatioTolerance = f

	case "retention_days":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("retention_days must be an integer >= 0 (0 keeps files forever)")
		}
		cfg.RetentionDays = n

	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value. Keys:

  access_key              Unsplash API Client-ID
  collections             comma-separated Unsplash collection IDs
  interval_minutes        minutes between automatic changes (0 disables)
  aspect_ratio_tolerance  accepted aspect ratio deviation, 0 to 1
  retention_days          days before cached files are pruned (0 = never)`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEnv(cmd)
			if err != nil {
				return err
			}

			_, err = e.store.Update(func(doc *domain.Document) error {
				return setConfigValue(&doc.Config, args[0], args[1])
			})
			if err != nil {
				return err
			}

			cmd.Printf("Set %s\n", args[0])
			return nil
		},
	}
}
