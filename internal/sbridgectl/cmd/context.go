package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/showbridge/showbridge/internal/sbridgectl/config"
)

// newContextCmd creates the context command for managing server contexts.
// Each context names a relay server, letting you switch between a local
// development server and the one driving a live overlay.
func newContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Manage server contexts",
	}

	cmd.AddCommand(
		newContextListCmd(),
		newContextSetCmd(),
		newContextUseCmd(),
		newContextDeleteCmd(),
	)

	return cmd
}

func newContextListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured contexts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("CURRENT   NAME           SERVER\n")
			for name, ctx := range cfg.Contexts {
				current := " "
				if name == cfg.CurrentContext {
					current = "*"
				}
				fmt.Printf("%-8s  %-13s  %s\n", current, name, ctx.Server)
			}
		},
	}
}

func newContextSetCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "set NAME",
		Short: "Add or update a context",
		Example: `  # Point a context at a relay on the local network
  sbridgectl context set living-room --server=http://192.168.1.50:3000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			cfg.AddContext(name, &config.Context{Server: server})

			// First context becomes current automatically
			if cfg.CurrentContext == "" {
				if err := cfg.SetCurrentContext(name); err != nil {
					return err
				}
			}

			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Printf("Context %q set\n", name)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "relay server URL")
	if err := cmd.MarkFlagRequired("server"); err != nil {
		panic(err)
	}

	return cmd
}

func newContextUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use NAME",
		Short: "Switch the active context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.SetCurrentContext(args[0]); err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Printf("Switched to context %q\n", args[0])
			return nil
		},
	}
}

func newContextDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RemoveContext(args[0]); err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return err
			}
			fmt.Printf("Context %q deleted\n", args[0])
			return nil
		},
	}
}
