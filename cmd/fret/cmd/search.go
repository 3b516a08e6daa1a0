package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apiclient "github.com/fretscout/fretscout/internal/api/client"
)

func searchCmd() *cobra.Command {
	var (
		limit    int
		maxPrice float64
		minScore float64
		highConf bool
		sortMode string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search listings",
		Example: `  fret search "fender stratocaster"
  fret search "gibson les paul" --max-price 2500 --sort deal_score
  fret search "martin d-28" --output json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			result, err := c.Search(context.Background(), apiclient.SearchParams{
				Query:    strings.Join(args, " "),
				Limit:    limit,
				MaxPrice: maxPrice,
				MinScore: minScore,
				HighConf: highConf,
				Sort:     sortMode,
			})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(result)
			}
			if result.DemoFallback {
				fmt.Println("Live search failed; server returned sample listings.")
			}
			if len(result.Listings) == 0 {
				fmt.Println("No listings matched.")
				return nil
			}
			fmt.Printf("%d results from %s\n", len(result.Listings), result.Source)
			return printListingsTable(result.Listings)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "upper item price bound")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum deal score")
	cmd.Flags().BoolVar(&highConf, "high-confidence", false, "keep only high-confidence scores")
	cmd.Flags().StringVar(&sortMode, "sort", "", "result ordering (relevance, price, deal_score)")

	return cmd
}
