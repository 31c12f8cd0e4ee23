// Package exporter persists analysis results: an append-only text log, a
// per-query CSV file and an XLSX workbook for spreadsheet users.
package exporter
