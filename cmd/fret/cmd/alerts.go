package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func alertsCmd() *cobra.Command {
	alertsRoot := &cobra.Command{
		Use:   "alerts",
		Short: "Manage saved alerts",
		Long: "Manage saved search alerts. An alert pairs a search query with an\n" +
			"optional all-in price ceiling; the server polls each alert and\n" +
			"records matching listings as events.",
	}

	alertsRoot.AddCommand(
		alertListCmd(),
		alertAddCmd(),
		alertDeleteCmd(),
	)

	return alertsRoot
}

func alertListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved alerts",
		Example: `  fret alerts list
  fret alerts list --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			alerts, err := c.ListAlerts(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(alerts)
			}
			if len(alerts) == 0 {
				fmt.Println("No saved alerts.")
				return nil
			}
			return printAlertsTable(alerts)
		},
	}
}

func alertAddCmd() *cobra.Command {
	var maxPrice float64

	cmd := &cobra.Command{
		Use:   "add <query>",
		Short: "Save a new alert",
		Example: `  fret alerts add "gibson les paul"
  fret alerts add "fender telecaster" --max-price 1200`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			query := args[0]
			for _, a := range args[1:] {
				query += " " + a
			}

			var ceiling *float64
			if maxPrice > 0 {
				ceiling = &maxPrice
			}

			c := newClient()
			created, err := c.CreateAlert(context.Background(), query, ceiling)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}
			fmt.Printf("Alert saved: %q (id %d)\n", created.Query, created.ID)
			return nil
		},
	}
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "all-in price ceiling")

	return cmd
}

func alertDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a saved alert",
		Example: `  fret alerts delete 3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alert id %q", args[0])
			}

			c := newClient()
			if err := c.DeleteAlert(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("Alert %d deleted.\n", id)
			return nil
		},
	}
}
