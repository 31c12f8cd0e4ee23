package records

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/sdaly-ie/property-tracker-cli/internal/errors"
)

// Column names as they appear in the spreadsheet header row.
const (
	ColYear    = "Year"
	ColQuarter = "Quarter"
)

// Regions lists the recognised region columns in spreadsheet order.
var Regions = []string{
	"Nationally",
	"Dublin",
	"Cork",
	"Galway",
	"Limerick",
	"Waterford",
	"Other_counties",
}

// IsRegion reports whether name is one of the recognised region columns.
func IsRegion(name string) bool {
	for _, r := range Regions {
		if r == name {
			return true
		}
	}
	return false
}

// Headers returns the full column list in spreadsheet order.
func Headers() []string {
	headers := make([]string, 0, len(Regions)+2)
	headers = append(headers, ColYear, ColQuarter)
	headers = append(headers, Regions...)
	return headers
}

// Period identifies one fiscal quarter.
type Period struct {
	Year    int
	Quarter int
}

// NewPeriod validates and builds a Period.
func NewPeriod(year, quarter int) (Period, error) {
	if year <= 0 {
		return Period{}, apperrors.NewValidationError(
			fmt.Sprintf("Year must be a positive integer, got %d", year))
	}
	if quarter < 1 || quarter > 4 {
		return Period{}, apperrors.NewValidationError(
			fmt.Sprintf("Quarter must be between 1 and 4, got %d", quarter))
	}
	return Period{Year: year, Quarter: quarter}, nil
}

// Compare orders periods lexicographically by (year, quarter). It returns
// -1 when p precedes o, 0 when equal and 1 when p follows o.
func (p Period) Compare(o Period) int {
	switch {
	case p.Year < o.Year:
		return -1
	case p.Year > o.Year:
		return 1
	case p.Quarter < o.Quarter:
		return -1
	case p.Quarter > o.Quarter:
		return 1
	}
	return 0
}

// Before reports whether p precedes o.
func (p Period) Before(o Period) bool { return p.Compare(o) < 0 }

// After reports whether p follows o.
func (p Period) After(o Period) bool { return p.Compare(o) > 0 }

// Next returns the chronologically following quarter, rolling into the next
// year after Q4.
func (p Period) Next() Period {
	if p.Quarter >= 4 {
		return Period{Year: p.Year + 1, Quarter: 1}
	}
	return Period{Year: p.Year, Quarter: p.Quarter + 1}
}

// String renders the period as e.g. "2020Q3".
func (p Period) String() string {
	return fmt.Sprintf("%dQ%d", p.Year, p.Quarter)
}

// Record is one quarterly observation: a period plus a price per region.
type Record struct {
	Period Period
	Values map[string]float64
}

var validate = validator.New()

// rowSchema mirrors Record for struct-level validation of parsed rows.
type rowSchema struct {
	Year    int                `validate:"gt=0"`
	Quarter int                `validate:"min=1,max=4"`
	Values  map[string]float64 `validate:"dive,gte=0"`
}

// ParseRow parses one raw spreadsheet row into a Record. It fails with a
// validation error when a required column is missing, the year or quarter
// is out of range, or a region value is not a non-negative number.
func ParseRow(row map[string]string) (Record, error) {
	year, err := intColumn(row, ColYear)
	if err != nil {
		return Record{}, err
	}
	quarter, err := intColumn(row, ColQuarter)
	if err != nil {
		return Record{}, err
	}

	values := make(map[string]float64, len(Regions))
	for _, region := range Regions {
		raw, ok := row[region]
		if !ok || strings.TrimSpace(raw) == "" {
			return Record{}, apperrors.NewValidationError(
				fmt.Sprintf("missing required column %s", region))
		}
		v, err := parseNumber(raw)
		if err != nil {
			return Record{}, apperrors.NewValidationError(
				fmt.Sprintf("value for %s is not a number: %q", region, raw))
		}
		if v < 0 {
			return Record{}, apperrors.NewValidationError(
				fmt.Sprintf("value for %s must be non-negative, got %s", region, raw))
		}
		values[region] = v
	}

	schema := rowSchema{Year: year, Quarter: quarter, Values: values}
	if err := validate.Struct(schema); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			return Record{}, validationMessage(verrs[0], year, quarter)
		}
		return Record{}, apperrors.NewValidationError(err.Error())
	}

	return Record{
		Period: Period{Year: year, Quarter: quarter},
		Values: values,
	}, nil
}

func validationMessage(fe validator.FieldError, year, quarter int) *apperrors.AppError {
	switch fe.StructField() {
	case "Year":
		return apperrors.NewValidationError(
			fmt.Sprintf("Year must be a positive integer, got %d", year))
	case "Quarter":
		return apperrors.NewValidationError(
			fmt.Sprintf("Quarter must be between 1 and 4, got %d", quarter))
	}
	return apperrors.NewValidationError(
		fmt.Sprintf("%s failed validation rule %q", fe.Field(), fe.Tag()))
}

// intColumn reads an integer column, reporting missing or unparsable cells.
func intColumn(row map[string]string, col string) (int, error) {
	raw, ok := row[col]
	if !ok || strings.TrimSpace(raw) == "" {
		return 0, apperrors.NewValidationError(fmt.Sprintf("missing required column %s", col))
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, apperrors.NewValidationError(
			fmt.Sprintf("%s is not an integer: %q", col, raw))
	}
	return n, nil
}

// parseNumber accepts plain and euro-formatted cells ("250,500", "€1,234.5").
func parseNumber(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "€")
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseFloat(s, 64)
}

// ParseAll parses every raw row and enforces dataset well-formedness:
// ascending (year, quarter) order with no duplicate periods. Row numbers in
// error messages are spreadsheet rows, where row 1 is the header.
func ParseAll(rows []map[string]string) ([]Record, error) {
	recs := make([]Record, 0, len(rows))
	for i, row := range rows {
		sheetRow := i + 2
		rec, err := ParseRow(row)
		if err != nil {
			var appErr *apperrors.AppError
			if stderrors.As(err, &appErr) {
				return nil, apperrors.New(appErr.Type,
					fmt.Sprintf("row %d: %s", sheetRow, appErr.Message), appErr.Cause)
			}
			return nil, fmt.Errorf("row %d: %w", sheetRow, err)
		}

		if len(recs) > 0 {
			prev := recs[len(recs)-1].Period
			switch {
			case rec.Period == prev:
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("row %d: duplicate period %s", sheetRow, rec.Period))
			case rec.Period.Before(prev):
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("row %d: period %s is out of order after %s", sheetRow, rec.Period, prev))
			}
		}

		recs = append(recs, rec)
	}
	return recs, nil
}

// Latest returns the most recent record by (year, quarter). It is a pure
// scan over the already-fetched slice, never a second fetch.
func Latest(recs []Record) (Record, error) {
	if len(recs) == 0 {
		return Record{}, apperrors.NewNotFoundError("latest record (dataset is empty)")
	}
	latest := recs[0]
	for _, r := range recs[1:] {
		if r.Period.After(latest.Period) {
			latest = r
		}
	}
	return latest, nil
}

// Row renders a record back to raw column values for appending.
func (r Record) Row() map[string]string {
	row := make(map[string]string, len(r.Values)+2)
	row[ColYear] = strconv.Itoa(r.Period.Year)
	row[ColQuarter] = strconv.Itoa(r.Period.Quarter)
	for region, v := range r.Values {
		row[region] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return row
}
