package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage overlay display configuration",
	}

	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the current display configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient()
			if err != nil {
				return err
			}

			displayCfg, err := c.GetConfig(cmd.Context())
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(displayCfg)
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY=VALUE [KEY=VALUE...]",
		Short: "Update display configuration fields",
		Long: `Update one or more display configuration fields. The server merges the
update into its current configuration and broadcasts the result to every
connected overlay.

Keys use the configuration's JSON field names. Platform lists take
comma-separated values.`,
		Example: `  # Change the overlay background
  sbridgectl config set backgroundColor=rgba(20,20,20,0.8)

  # Switch the active platform pill and resize the episode text
  sbridgectl config set currentPlatformIndex=1 fontSizeEpisode=40

  # Replace the platform list
  sbridgectl config set platforms=Netflix,Hulu,Plex`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			partial := make(map[string]interface{}, len(args))
			for _, arg := range args {
				parts := strings.SplitN(arg, "=", 2)
				if len(parts) != 2 || parts[0] == "" {
					return fmt.Errorf("invalid field format %q - use key=value", arg)
				}
				partial[parts[0]] = parseValue(parts[0], parts[1])
			}

			c, err := getClient()
			if err != nil {
				return err
			}

			merged, err := c.UpdateConfig(cmd.Context(), partial)
			if err != nil {
				return err
			}

			logger.Info().Msg("configuration updated")
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(merged)
		},
	}
}

// parseValue maps a command line string to the JSON type the server expects
func parseValue(key, raw string) interface{} {
	if key == "platforms" {
		parts := strings.Split(raw, ",")
		list := make([]interface{}, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				list = append(list, trimmed)
			}
		}
		return list
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}
