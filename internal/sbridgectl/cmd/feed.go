package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/showbridge/showbridge/internal/sbridgectl/session"
)

func newFeedCmd() *cobra.Command {
	var (
		series   string
		episode  string
		duration float64
		file     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Push playback data to the relay",
		Long: `Connect to the relay as a producer and push playback snapshots once a
second, the way the browser extension does. Either simulate playback of a
single title or replay snapshots from a file of JSON lines.

Like the extension, the producer gives up after five failed connection
attempts.`,
		Example: `  # Simulate an episode
  sbridgectl feed --series="Breaking Bad" --episode=S01E01 --duration=2700

  # Replay captured snapshots
  sbridgectl feed --file=snapshots.jsonl`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file != "" && (series != "" || episode != "") {
				return fmt.Errorf("--file cannot be combined with --series or --episode")
			}
			if file == "" && episode == "" {
				return fmt.Errorf("either --episode or --file is required")
			}

			var source session.Source
			if file != "" {
				fs, err := session.NewFileSource(file)
				if err != nil {
					return err
				}
				defer fs.Close()
				source = fs
			} else {
				sim := &session.SimulatedSource{Episode: episode, Duration: duration}
				if series != "" {
					sim.Series = &series
				}
				source = sim
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			feeder := session.NewFeeder(source, interval, logger)

			feedDone := make(chan struct{})
			var feedDoneOnce sync.Once
			sup := session.NewSupervisor(
				session.Dial(websocketURL()),
				session.ProducerPolicy(),
				logger,
				session.WithOnConnect(func(connCtx context.Context, conn session.Conn) {
					if err := feeder.Feed(connCtx, conn); err == nil {
						// Source exhausted, stop pushing entirely
						feedDoneOnce.Do(func() { close(feedDone) })
					} else if !errors.Is(err, context.Canceled) {
						logger.Warn().Err(err).Msg("feed interrupted")
					}
				}),
			)

			done := make(chan error, 1)
			go func() { done <- sup.Run(ctx) }()

			select {
			case <-feedDone:
				stop()
				<-done
				return nil
			case err := <-done:
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVar(&series, "series", "", "series name for simulated playback")
	cmd.Flags().StringVar(&episode, "episode", "", "episode or video title for simulated playback")
	cmd.Flags().Float64Var(&duration, "duration", 1800, "simulated video duration in seconds")
	cmd.Flags().StringVar(&file, "file", "", "replay snapshots from a file of JSON lines")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "push cadence")

	return cmd
}
