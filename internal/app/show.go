package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// Show prints recent stored records.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show records")
	}
	if closeStore != nil {
		defer closeStore()
	}

	stored, err := store.ListRecentRecords(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		fmt.Fprintln(os.Stdout, "no records found")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Run (UTC)\tProvider\tNetwork\tRate\tMetric\tSource")
	for _, item := range stored {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s%%\t%s\t%s\n",
			item.RunTS.UTC().Format(time.RFC3339),
			item.Record.Provider,
			sanitizeInline(item.Record.Network),
			item.Record.Rate.StringFixed(2),
			item.Record.Metric,
			item.Record.Source,
		)
	}
	writer.Flush()
	return nil
}
