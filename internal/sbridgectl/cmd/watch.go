package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/showbridge/showbridge/api/types/v1alpha1"
	"github.com/showbridge/showbridge/internal/sbridgectl/session"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the live playback feed",
		Long: `Connect to the relay as a display client and print every update as it
arrives. The connection retries forever, so the watch survives server
restarts. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			sup := session.NewSupervisor(
				session.Dial(websocketURL()),
				session.ConsumerPolicy(),
				logger,
			)

			done := make(chan error, 1)
			go func() { done <- sup.Run(ctx) }()

			for {
				select {
				case <-ctx.Done():
					err := <-done
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				case data, ok := <-sup.Messages():
					if !ok {
						err := <-done
						if errors.Is(err, context.Canceled) {
							return nil
						}
						return err
					}
					printUpdate(data)
				}
			}
		},
	}
}

func printUpdate(data []byte) {
	var msg v1alpha1.RelayMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logger.Warn().Err(err).Msg("unreadable update")
		return
	}

	switch msg.Type {
	case v1alpha1.RelayMessageVideoUpdate:
		if msg.Data == nil {
			return
		}
		if ratio, ok := msg.Data.Progress(); ok {
			fmt.Printf("%s  %s / %s  (%d%%)\n",
				msg.Data.Title(),
				v1alpha1.FormatSeconds(msg.Data.CurrentSeconds),
				v1alpha1.FormatSeconds(msg.Data.DurationSeconds),
				int(ratio*100),
			)
		} else {
			fmt.Println(msg.Data.Title())
		}
	case v1alpha1.RelayMessageConfigUpdated:
		fmt.Println("configuration updated")
	}
}
