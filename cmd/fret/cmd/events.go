package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func eventsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recent alert matches",
		Example: `  fret events
  fret events --limit 100 --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			events, err := c.ListEvents(context.Background(), limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(events)
			}
			if len(events) == 0 {
				fmt.Println("No matches recorded.")
				return nil
			}
			return printEventsTable(events)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum events to return")

	return cmd
}

func modeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode",
		Short: "Show the server operating mode",
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			info, err := c.Mode(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(info)
			}
			if info.Mode == "live" {
				fmt.Printf("Mode: live (%s, %s)\n", info.Environment, info.Marketplace)
			} else {
				fmt.Println("Mode: demo (sample listings only)")
			}
			return nil
		},
	}
}
