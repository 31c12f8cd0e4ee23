// Package app drives the interactive menu loop: fetching the dataset,
// collecting range queries from the operator, running the analysis core and
// handing results to the exporter.
package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/sdaly-ie/property-tracker-cli/internal/analysis"
	apperrors "github.com/sdaly-ie/property-tracker-cli/internal/errors"
	"github.com/sdaly-ie/property-tracker-cli/internal/exporter"
	"github.com/sdaly-ie/property-tracker-cli/internal/prompt"
	"github.com/sdaly-ie/property-tracker-cli/internal/records"
	"github.com/sdaly-ie/property-tracker-cli/internal/sheets"
)

// App wires the data source, the prompt dialogue and the exporter together.
type App struct {
	store    sheets.Store
	prompter *prompt.Prompter
	exporter *exporter.Writer
	out      io.Writer
	logger   *slog.Logger
}

// New creates the application. out receives everything the operator sees.
func New(store sheets.Store, prompter *prompt.Prompter, ex *exporter.Writer, out io.Writer, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		store:    store,
		prompter: prompter,
		exporter: ex,
		out:      out,
		logger:   logger,
	}
}

// Run executes the menu loop until the operator quits or a fatal
// adapter-level error occurs. Recoverable errors are reported and the menu
// continues; only network, config and storage failures propagate.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, "Property Tracker")

	for {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "  1) Show latest record")
		fmt.Fprintln(a.out, "  2) Analyse a quarter range")
		fmt.Fprintln(a.out, "  3) Add a quarterly record")
		fmt.Fprintln(a.out, "  4) Quit")

		choice, err := a.prompter.Choice("Select option", 1, 4)
		if err != nil {
			if stderrors.Is(err, prompt.ErrAborted) {
				return nil
			}
			a.report(err)
			continue
		}

		switch choice {
		case 1:
			err = a.showLatest(ctx)
		case 2:
			err = a.analyse(ctx)
		case 3:
			err = a.appendRecord(ctx)
		case 4:
			fmt.Fprintln(a.out, "Goodbye.")
			return nil
		}

		if err != nil {
			if stderrors.Is(err, prompt.ErrAborted) {
				fmt.Fprintln(a.out, "Aborted.")
				continue
			}
			if apperrors.IsFatal(err) {
				return err
			}
			a.report(err)
		}
	}
}

// report surfaces a recoverable error to the operator and the log.
func (a *App) report(err error) {
	a.logger.Warn("operation failed", slog.String("error", err.Error()))
	fmt.Fprintf(a.out, "Error: %s\n", operatorMessage(err))
}

func operatorMessage(err error) string {
	var appErr *apperrors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// loadRecords fetches and validates the full dataset snapshot.
func (a *App) loadRecords(ctx context.Context) ([]records.Record, error) {
	rows, err := a.store.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return records.ParseAll(rows)
}

func (a *App) showLatest(ctx context.Context) error {
	recs, err := a.loadRecords(ctx)
	if err != nil {
		return err
	}

	latest, err := records.Latest(recs)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\nLatest record: %s\n", latest.Period)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Region\tPrice")
	for _, region := range records.Regions {
		fmt.Fprintf(tw, "%s\t%.2f\n", region, latest.Values[region])
	}
	return tw.Flush()
}

func (a *App) analyse(ctx context.Context) error {
	recs, err := a.loadRecords(ctx)
	if err != nil {
		return err
	}

	start, err := a.askPeriod("Start")
	if err != nil {
		return err
	}
	end, err := a.askPeriod("End")
	if err != nil {
		return err
	}
	region, err := a.prompter.Region()
	if err != nil {
		return err
	}

	selection, err := analysis.SelectRange(recs, start, end)
	if err != nil {
		return err
	}
	values, err := analysis.Series(selection, region)
	if err != nil {
		return err
	}
	stats, err := analysis.Compute(values)
	if err != nil {
		return err
	}

	if !stats.PctChangeDefined {
		fmt.Fprintln(a.out, "Warning: first value in range is zero; percent change reported as N/A")
	}

	fmt.Fprintf(a.out, "\nStatistics for %s, %s - %s (%d quarters)\n", region, start, end, stats.Count)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Statistic\tValue")
	for _, row := range exporter.StatRows(stats) {
		fmt.Fprintf(tw, "%s\t%s\n", row.Name, row.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	export, err := a.prompter.YesNo("Export results")
	if err != nil {
		return err
	}
	if !export {
		return nil
	}

	rec := exporter.ResultsRecord{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		Start:       start,
		End:         end,
		Region:      region,
		Stats:       stats,
	}

	textPath, err := a.exporter.AppendText(rec)
	if err != nil {
		return err
	}
	csvPath, err := a.exporter.WriteCSV(rec)
	if err != nil {
		return err
	}
	xlsxPath, err := a.exporter.WriteXLSX(rec)
	if err != nil {
		return err
	}

	a.logger.Info("exported analysis results",
		slog.String("run_id", rec.RunID),
		slog.String("region", region),
		slog.String("start", start.String()),
		slog.String("end", end.String()))

	fmt.Fprintf(a.out, "Exported:\n  %s\n  %s\n  %s\n", textPath, csvPath, xlsxPath)
	return nil
}

func (a *App) askPeriod(label string) (records.Period, error) {
	year, err := a.prompter.Year(label + " year")
	if err != nil {
		return records.Period{}, err
	}
	quarter, err := a.prompter.Quarter(label + " quarter (1-4)")
	if err != nil {
		return records.Period{}, err
	}
	return records.NewPeriod(year, quarter)
}

func (a *App) appendRecord(ctx context.Context) error {
	recs, err := a.loadRecords(ctx)
	if err != nil {
		return err
	}

	latest, err := records.Latest(recs)
	if err != nil {
		return err
	}

	next := latest.Period.Next()
	fmt.Fprintf(a.out, "\nAdding record for %s (follows %s)\n", next, latest.Period)

	values := make(map[string]float64, len(records.Regions))
	for _, region := range records.Regions {
		v, err := a.prompter.Value(region)
		if err != nil {
			return err
		}
		values[region] = v
	}

	rec := records.Record{Period: next, Values: values}
	row := rec.Row()

	// Final full-row validation gate: nothing is written unless the entire
	// row passes the same checks applied to fetched data.
	if _, err := records.ParseRow(row); err != nil {
		return err
	}

	confirmed, err := a.prompter.YesNo(fmt.Sprintf("Append record for %s", next))
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(a.out, "Discarded.")
		return nil
	}

	if err := a.store.Append(ctx, row); err != nil {
		return err
	}

	a.logger.Info("appended quarterly record", slog.String("period", next.String()))
	fmt.Fprintf(a.out, "Appended record for %s.\n", next)
	return nil
}
