package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fretscout/fretscout/internal/config"
	"github.com/fretscout/fretscout/internal/engine"
	"github.com/fretscout/fretscout/internal/source"
	"github.com/fretscout/fretscout/pkg/logger"
	domain "github.com/fretscout/fretscout/pkg/types"
	"github.com/fretscout/fretscout/pkg/valuation"
)

func searchCommand() *cobra.Command {
	var (
		limit    int
		maxPrice float64
		minScore float64
		highConf bool
		sortMode string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a search through the scoring pipeline",
		Example: `  fretscout search "fender stratocaster"
  fretscout search "gibson les paul" --max-price 2500 --sort deal_score`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

			mode, err := config.ResolveMode()
			if err != nil {
				return fmt.Errorf("resolving mode: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()

			st, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			eng := buildEngine(cfg, mode, st, log)

			q := source.Query{Text: strings.Join(args, " "), Limit: limit}
			if maxPrice > 0 {
				q.MaxPrice = &maxPrice
			}

			result, err := eng.Search(ctx, q, engine.SearchOptions{
				MinScore:     minScore,
				HighConfOnly: highConf,
				Sort:         valuation.SortMode(sortMode),
			})
			if err != nil {
				return fmt.Errorf("searching: %w", err)
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			if result.DemoFallback {
				fmt.Println("Live search failed; showing sample listings instead.")
			}
			if len(result.Listings) == 0 {
				fmt.Println("No listings matched.")
				return nil
			}
			return printListings(result.Listings)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results")
	cmd.Flags().Float64Var(&maxPrice, "max-price", 0, "upper item price bound")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum deal score")
	cmd.Flags().BoolVar(&highConf, "high-confidence", false, "keep only high-confidence scores")
	cmd.Flags().StringVar(&sortMode, "sort", "relevance", "result ordering (relevance, price, deal_score)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")

	return cmd
}

func init() {
	rootCmd.AddCommand(searchCommand())
}

func printListings(listings []domain.Listing) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "SCORE\tLABEL\tPRICE\tTITLE\tLOCATION"); err != nil {
		return err
	}
	for i := range listings {
		l := &listings[i]

		score, label := "-", "-"
		if l.DealScore != nil {
			score = fmt.Sprintf("%.0f", *l.DealScore)
		}
		if l.DealLabel != nil {
			label = string(*l.DealLabel)
		}
		price := "-"
		if l.Price != nil {
			price = "$" + engine.FormatAmount(*l.Price)
		}

		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			score, label, price, truncate(l.Title, 50), l.Location,
		); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
