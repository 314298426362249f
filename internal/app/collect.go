package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"cryptomax/internal/rates"
	"cryptomax/internal/service"
)

// CollectOptions configure a single collection run.
type CollectOptions struct {
	LowRisk      bool
	SnapshotPath string
}

// Collect performs one bounded batch pull and renders the result.
func (a *App) Collect(ctx context.Context, opts CollectOptions) error {
	svc, closer, err := a.newService(ctx, nil)
	if err != nil {
		return err
	}
	defer closer()

	result, err := svc.RunOnce(ctx, time.Now().UTC(), service.RunOptions{
		LowRisk:      opts.LowRisk,
		SnapshotPath: opts.SnapshotPath,
	})
	if err != nil {
		return err
	}

	if result.LowRisk {
		fmt.Fprintln(os.Stdout, "Low-Risk Stablecoin View")
		fmt.Fprintln(os.Stdout)
	}
	renderTable(os.Stdout, result.Records)
	return nil
}

// renderTable prints the aggregate the way operators read it. An empty
// aggregate produces a defined message rather than an empty table.
func renderTable(w io.Writer, records []rates.RateRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No staking rates available.")
		return
	}

	writer := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Provider\tNetwork\tRate\tMetric\tSource")
	for _, record := range records {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s%%\t%s\t%s\n",
			record.Provider,
			sanitizeInline(record.Network),
			record.Rate.StringFixed(2),
			record.Metric,
			record.Source,
		)
	}
	writer.Flush()
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	return cleaned
}
