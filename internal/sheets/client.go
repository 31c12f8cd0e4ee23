package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/sdaly-ie/property-tracker-cli/internal/config"
	apperrors "github.com/sdaly-ie/property-tracker-cli/internal/errors"
	"github.com/sdaly-ie/property-tracker-cli/internal/records"
)

// Store is the data-source contract consumed by the interactive flow. The
// Google-backed Client implements it; tests substitute fakes.
type Store interface {
	FetchAll(ctx context.Context) ([]map[string]string, error)
	Append(ctx context.Context, row map[string]string) error
}

// Client reads and appends tracker rows in a Google Sheet.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
	valueRange    string
	logger        *slog.Logger
}

// NewClient builds a Sheets client from the service-account key named in
// the configuration. Failures here are fatal: the tool cannot run without
// its data source.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	service, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to create Google Sheets service", err)
	}

	// An unqualified A1 range targets the first visible worksheet, matching
	// the tracker's single-tab layout.
	valueRange := "A:Z"
	if cfg.WorksheetTitle != "" {
		valueRange = fmt.Sprintf("'%s'!A:Z", cfg.WorksheetTitle)
	}

	logger.Info("Google Sheets client initialized",
		slog.String("spreadsheet_id", cfg.SpreadsheetID),
		slog.String("range", valueRange))

	return &Client{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		valueRange:    valueRange,
		logger:        logger,
	}, nil
}

// FetchAll reads the worksheet and returns one column-to-raw-value mapping
// per data row, in sheet order. The first row is treated as the header.
func (c *Client) FetchAll(ctx context.Context) ([]map[string]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, c.valueRange).
		Context(ctx).Do()
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to read rows from spreadsheet", err)
	}

	if len(resp.Values) == 0 {
		return nil, apperrors.NewStorageError("spreadsheet has no header row", nil)
	}

	header := cellStrings(resp.Values[0])
	rows := mapRows(header, resp.Values[1:])

	c.logger.Info("fetched spreadsheet rows",
		slog.Int("row_count", len(rows)),
		slog.Int("column_count", len(header)))

	return rows, nil
}

// Append writes one new row at the bottom of the worksheet, cells ordered
// by the canonical header.
func (c *Client) Append(ctx context.Context, row map[string]string) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{rowCells(row)}}

	_, err := c.service.Spreadsheets.Values.Append(c.spreadsheetID, c.valueRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return apperrors.NewNetworkError("failed to append row to spreadsheet", err)
	}

	c.logger.Info("appended row to spreadsheet",
		slog.String("year", row[records.ColYear]),
		slog.String("quarter", row[records.ColQuarter]))

	return nil
}

// mapRows zips the header across the data rows. Short rows are padded with
// empty cells so downstream validation reports them as missing values.
func mapRows(header []string, data [][]interface{}) []map[string]string {
	rows := make([]map[string]string, 0, len(data))
	for _, cells := range data {
		row := make(map[string]string, len(header))
		values := cellStrings(cells)
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(values) {
				row[col] = values[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// rowCells orders a row mapping into append-ready cells.
func rowCells(row map[string]string) []interface{} {
	headers := records.Headers()
	cells := make([]interface{}, len(headers))
	for i, col := range headers {
		cells[i] = row[col]
	}
	return cells
}

func cellStrings(cells []interface{}) []string {
	out := make([]string, len(cells))
	for i, cell := range cells {
		out[i] = fmt.Sprint(cell)
	}
	return out
}
