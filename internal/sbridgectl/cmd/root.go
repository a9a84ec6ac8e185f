// Package cmd implements the showbridge CLI commands
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/showbridge/showbridge/internal/sbridgectl/client"
	"github.com/showbridge/showbridge/internal/sbridgectl/config"
)

var (
	serverFlag string
	debug      bool
	cfg        *config.Config
	logger     zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sbridgectl",
	Short: "showbridge control tool",
	Long: `sbridgectl is a command line tool for the showbridge relay. It manages
the overlay display configuration, watches the live playback feed, and can
push simulated or replayed playback data as a stand-in producer.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "relay server address")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newContextCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newFeedCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}
}

// serverURL resolves the relay address from the flag or the active context
func serverURL() string {
	if serverFlag != "" {
		return serverFlag
	}
	return cfg.ServerURL()
}

// getClient builds an API client for the resolved server
func getClient() (*client.Client, error) {
	return client.NewClient(serverURL())
}

// websocketURL converts the resolved server address to its streaming endpoint
func websocketURL() string {
	u := serverURL()
	switch {
	case strings.HasPrefix(u, "https://"):
		u = "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		u = "ws://" + strings.TrimPrefix(u, "http://")
	}
	return strings.TrimRight(u, "/") + "/ws"
}
