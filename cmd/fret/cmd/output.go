package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	domain "github.com/fretscout/fretscout/pkg/types"
)

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printListingsTable(listings []domain.Listing) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("SCORE\tLABEL\tCONF\tPRICE\tTITLE\tLOCATION\n")
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
			price = fmt.Sprintf("$%.2f", *l.Price)
		}

		tw.writef("%s\t%s\t%s\t%s\t%s\t%s\n",
			score, label, l.DealConfidence, price, truncate(l.Title, 50), l.Location)
	}
	return tw.finish()
}

func printAlertsTable(alerts []domain.SavedAlert) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("ID\tQUERY\tMAX PRICE\tCREATED\n")
	for i := range alerts {
		maxPrice := "-"
		if alerts[i].MaxPrice != nil {
			maxPrice = fmt.Sprintf("$%.2f", *alerts[i].MaxPrice)
		}
		tw.writef("%d\t%s\t%s\t%s\n",
			alerts[i].ID,
			alerts[i].Query,
			maxPrice,
			alerts[i].CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return tw.finish()
}

func printEventsTable(events []domain.AlertEvent) error {
	tw := newTabWriter(os.Stdout)
	tw.writef("WHEN\tALERT\tMATCH\n")
	for i := range events {
		tw.writef("%s\t%d\t%s\n",
			events[i].CreatedAt.Format("2006-01-02 15:04"),
			events[i].AlertID,
			truncate(events[i].Message, 70),
		)
	}
	return tw.finish()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
