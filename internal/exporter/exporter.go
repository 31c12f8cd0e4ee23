package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sdaly-ie/property-tracker-cli/internal/analysis"
	apperrors "github.com/sdaly-ie/property-tracker-cli/internal/errors"
	"github.com/sdaly-ie/property-tracker-cli/internal/records"
)

// TextFileName is the append-only log every exported analysis lands in.
const TextFileName = "analysis_results.txt"

// ResultsRecord bundles one range query with its computed statistics for
// hand-off to the export formats.
type ResultsRecord struct {
	RunID       string
	GeneratedAt time.Time
	Start       records.Period
	End         records.Period
	Region      string
	Stats       analysis.Result
}

// Writer writes result files under a single output directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates a writer rooted at dir.
func NewWriter(dir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, logger: logger}
}

// baseName builds the per-query file stem, e.g. "analysis_2020Q1_2020Q4_Dublin".
func (w *Writer) baseName(rec ResultsRecord) string {
	return fmt.Sprintf("analysis_%s_%s_%s", rec.Start, rec.End, rec.Region)
}

// AppendText appends a human-readable block to the shared results log and
// returns the file path.
func (w *Writer) AppendText(rec ResultsRecord) (string, error) {
	path := filepath.Join(w.dir, TextFileName)
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create export directory", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", apperrors.NewStorageError("failed to open results log", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "=== Analysis %s - %s (%s) ===\n", rec.Start, rec.End, rec.Region)
	fmt.Fprintf(file, "Run:       %s\n", rec.RunID)
	fmt.Fprintf(file, "Generated: %s\n", rec.GeneratedAt.Format(time.RFC3339))
	for _, line := range StatRows(rec.Stats) {
		fmt.Fprintf(file, "%-15s %s\n", line.Name+":", line.Value)
	}
	fmt.Fprintln(file)

	w.logger.Info("appended analysis to results log",
		slog.String("path", path),
		slog.String("run_id", rec.RunID))

	return path, nil
}

// WriteCSV writes the results record as a standalone CSV file named
// analysis_<start>_<end>_<region>.csv and returns the file path.
func (w *Writer) WriteCSV(rec ResultsRecord) (string, error) {
	path := filepath.Join(w.dir, w.baseName(rec)+".csv")
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create export directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewStorageError("failed to create CSV file", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	meta := [][]string{
		{"Statistic", "Value"},
		{"RunID", rec.RunID},
		{"Generated", rec.GeneratedAt.Format(time.RFC3339)},
		{"Start", rec.Start.String()},
		{"End", rec.End.String()},
		{"Region", rec.Region},
	}
	for _, row := range meta {
		if err := writer.Write(row); err != nil {
			return "", apperrors.NewStorageError("failed to write CSV row", err)
		}
	}
	for _, line := range StatRows(rec.Stats) {
		if err := writer.Write([]string{line.Name, line.Value}); err != nil {
			return "", apperrors.NewStorageError("failed to write CSV row", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", apperrors.NewStorageError("failed to flush CSV file", err)
	}

	w.logger.Info("wrote analysis CSV", slog.String("path", path))
	return path, nil
}

// WriteXLSX writes the same content as WriteCSV into a workbook sheet.
func (w *Writer) WriteXLSX(rec ResultsRecord) (string, error) {
	path := filepath.Join(w.dir, w.baseName(rec)+".xlsx")
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", apperrors.NewStorageError("failed to create export directory", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Analysis"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return "", apperrors.NewStorageError("failed to name worksheet", err)
	}

	rows := [][]interface{}{
		{"Statistic", "Value"},
		{"RunID", rec.RunID},
		{"Generated", rec.GeneratedAt.Format(time.RFC3339)},
		{"Start", rec.Start.String()},
		{"End", rec.End.String()},
		{"Region", rec.Region},
	}
	for _, line := range StatRows(rec.Stats) {
		rows = append(rows, []interface{}{line.Name, line.Value})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return "", apperrors.NewStorageError("failed to compute cell coordinates", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", apperrors.NewStorageError("failed to write worksheet row", err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", apperrors.NewStorageError("failed to save XLSX file", err)
	}

	w.logger.Info("wrote analysis XLSX", slog.String("path", path))
	return path, nil
}

// StatRow is one named statistic rendered at display precision.
type StatRow struct {
	Name  string
	Value string
}

// StatRows renders the statistics at display precision. Internal values
// stay full precision; rounding to two decimals happens only here.
func StatRows(res analysis.Result) []StatRow {
	return []StatRow{
		{"Count", strconv.Itoa(res.Count)},
		{"Mean", formatStat(res.Mean)},
		{"StdDev", formatStat(res.StdDev)},
		{"Min", formatStat(res.Min)},
		{"Max", formatStat(res.Max)},
		{"Range", formatStat(res.Range)},
		{"Q1", formatStat(res.Q1)},
		{"Median", formatStat(res.Median)},
		{"Q3", formatStat(res.Q3)},
		{"IQR", formatStat(res.IQR)},
		{"PercentChange", FormatPercentChange(res)},
	}
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatPercentChange renders the percent change, degrading an undefined
// change (zero base) to "N/A".
func FormatPercentChange(res analysis.Result) string {
	if !res.PctChangeDefined {
		return "N/A"
	}
	return formatStat(res.PctChange) + "%"
}
