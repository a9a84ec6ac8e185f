package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show relay server status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getClient()
			if err != nil {
				return err
			}

			status, err := c.Status(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Connections: %d\n", status.Connections)
			fmt.Printf("Producer:    %v\n", status.ProducerConnected)
			if status.Tracking != "" {
				fmt.Printf("Tracking:    %s\n", status.Tracking)
			} else {
				fmt.Println("Tracking:    nothing")
			}
			return nil
		},
	}
}
