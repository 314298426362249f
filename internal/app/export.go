package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"cryptomax/internal/storage"
)

// maxChartBars keeps the PNG readable when a run carries a large catalog.
const maxChartBars = 20

// ExportOptions hold parameters for exporting stored history.
type ExportOptions struct {
	From    *time.Time
	To      *time.Time
	CSVPath string
	PNGPath string
}

// Export writes stored records as CSV and/or renders the latest run as a
// PNG bar chart.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot export")
	}
	if closeStore != nil {
		defer closeStore()
	}

	if opts.CSVPath != "" {
		if err := a.exportCSV(ctx, store, opts); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := a.exportPNG(ctx, store, opts.PNGPath); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) exportCSV(ctx context.Context, store *storage.Store, opts ExportOptions) error {
	to := time.Now().UTC()
	if opts.To != nil {
		to = opts.To.UTC()
	}
	from := to.Add(-30 * 24 * time.Hour)
	if opts.From != nil {
		from = opts.From.UTC()
	}
	if !from.Before(to) {
		return errors.New("from must be before to")
	}

	stored, err := store.ListRecordsBetween(ctx, from, to)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		a.Logger.Info().Msg("no records found for export window")
		return nil
	}

	if err := ensureDir(opts.CSVPath); err != nil {
		return err
	}
	file, err := os.Create(opts.CSVPath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"run_ts", "provider", "network", "rate", "metric", "source"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, item := range stored {
		row := []string{
			item.RunTS.UTC().Format(time.RFC3339),
			item.Record.Provider,
			item.Record.Network,
			item.Record.Rate.String(),
			string(item.Record.Metric),
			item.Record.Source,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	a.Logger.Info().Int("exported", len(stored)).Str("path", opts.CSVPath).Msg("wrote CSV export")
	return writer.Error()
}

func (a *App) exportPNG(ctx context.Context, store *storage.Store, path string) error {
	stored, err := store.LatestRunRecords(ctx)
	if err != nil {
		return err
	}
	if len(stored) == 0 {
		a.Logger.Info().Msg("no stored run to chart")
		return nil
	}

	sort.SliceStable(stored, func(i, j int) bool {
		return stored[i].Record.Rate.GreaterThan(stored[j].Record.Rate)
	})
	if len(stored) > maxChartBars {
		stored = stored[:maxChartBars]
	}

	values := make([]chart.Value, 0, len(stored))
	for _, item := range stored {
		label := fmt.Sprintf("%s/%s", item.Record.Provider, item.Record.Network)
		values = append(values, chart.Value{
			Label: label,
			Value: item.Record.Rate.InexactFloat64(),
		})
	}

	graph := chart.BarChart{
		Title:    "Staking rates, latest run (%)",
		Width:    1280,
		Height:   720,
		BarWidth: 40,
		Bars:     values,
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := graph.Render(chart.PNG, file); err != nil {
		return err
	}
	a.Logger.Info().Int("bars", len(values)).Str("path", path).Msg("wrote PNG export")
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
