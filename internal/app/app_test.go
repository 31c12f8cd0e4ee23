package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/sdaly-ie/property-tracker-cli/internal/errors"
	"github.com/sdaly-ie/property-tracker-cli/internal/exporter"
	"github.com/sdaly-ie/property-tracker-cli/internal/prompt"
	"github.com/sdaly-ie/property-tracker-cli/internal/records"
)

type fakeStore struct {
	rows      []map[string]string
	fetchErr  error
	appendErr error
	appended  []map[string]string
}

func (f *fakeStore) FetchAll(ctx context.Context) ([]map[string]string, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.rows, nil
}

func (f *fakeStore) Append(ctx context.Context, row map[string]string) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, row)
	return nil
}

// sheetRow builds a raw row where Dublin carries the given price and every
// other region a filler value.
func sheetRow(year, quarter int, dublin float64) map[string]string {
	row := map[string]string{
		"Year":    strconv.Itoa(year),
		"Quarter": strconv.Itoa(quarter),
		"Dublin":  strconv.FormatFloat(dublin, 'f', -1, 64),
	}
	for _, region := range records.Regions {
		if region == "Dublin" {
			continue
		}
		row[region] = "200000"
	}
	return row
}

func year2020() []map[string]string {
	return []map[string]string{
		sheetRow(2020, 1, 100),
		sheetRow(2020, 2, 150),
		sheetRow(2020, 3, 200),
		sheetRow(2020, 4, 250),
	}
}

func runApp(t *testing.T, store *fakeStore, input, exportDir string) string {
	t.Helper()

	out := &bytes.Buffer{}
	a := New(store,
		prompt.New(strings.NewReader(input), out),
		exporter.NewWriter(exportDir, nil),
		out, nil)

	require.NoError(t, a.Run(context.Background()))
	return out.String()
}

func TestRun_QuitImmediately(t *testing.T) {
	output := runApp(t, &fakeStore{}, "4\n", t.TempDir())
	assert.Contains(t, output, "Property Tracker")
	assert.Contains(t, output, "Goodbye.")
}

func TestRun_EOFQuitsCleanly(t *testing.T) {
	output := runApp(t, &fakeStore{}, "", t.TempDir())
	assert.Contains(t, output, "Property Tracker")
}

func TestRun_ShowLatest(t *testing.T) {
	store := &fakeStore{rows: year2020()}

	output := runApp(t, store, "1\n4\n", t.TempDir())

	assert.Contains(t, output, "Latest record: 2020Q4")
	assert.Contains(t, output, "Dublin")
	assert.Contains(t, output, "250.00")
}

func TestRun_AnalyseWithoutExport(t *testing.T) {
	store := &fakeStore{rows: year2020()}

	// 2=analyse, bounds 2020Q1-2020Q4, region 2=Dublin, no export, quit.
	input := "2\n2020\n1\n2020\n4\n2\nn\n4\n"
	output := runApp(t, store, input, t.TempDir())

	assert.Contains(t, output, "Statistics for Dublin, 2020Q1 - 2020Q4 (4 quarters)")
	assert.Contains(t, output, "175.00")  // mean
	assert.Contains(t, output, "55.90")   // population stddev
	assert.Contains(t, output, "137.50")  // Q1
	assert.Contains(t, output, "212.50")  // Q3
	assert.Contains(t, output, "150.00%") // percent change
	assert.NotContains(t, output, "Exported:")
}

func TestRun_AnalyseWithExport(t *testing.T) {
	store := &fakeStore{rows: year2020()}
	exportDir := t.TempDir()

	input := "2\n2020\n1\n2020\n4\n2\ny\n4\n"
	output := runApp(t, store, input, exportDir)

	assert.Contains(t, output, "Exported:")

	for _, name := range []string{
		"analysis_results.txt",
		"analysis_2020Q1_2020Q4_Dublin.csv",
		"analysis_2020Q1_2020Q4_Dublin.xlsx",
	} {
		_, err := os.Stat(filepath.Join(exportDir, name))
		assert.NoError(t, err, name)
	}
}

func TestRun_AnalyseInvalidRange(t *testing.T) {
	store := &fakeStore{rows: year2020()}

	input := "2\n2020\n2\n2020\n1\n2\n4\n"
	output := runApp(t, store, input, t.TempDir())

	assert.Contains(t, output, "Error: start 2020Q2 is after end 2020Q1")
}

func TestRun_AnalyseMissingBound(t *testing.T) {
	store := &fakeStore{rows: year2020()}

	input := "2\n2019\n1\n2020\n4\n2\n4\n"
	output := runApp(t, store, input, t.TempDir())

	assert.Contains(t, output, "Error: start 2019Q1 not found in dataset")
}

func TestRun_AnalyseSinglePointInsufficient(t *testing.T) {
	store := &fakeStore{rows: year2020()}

	input := "2\n2020\n2\n2020\n2\n2\n4\n"
	output := runApp(t, store, input, t.TempDir())

	assert.Contains(t, output, "Error: need at least 2 data points, selection has 1")
}

func TestRun_AnalyseZeroBaseReportsNA(t *testing.T) {
	rows := []map[string]string{
		sheetRow(2020, 1, 0),
		sheetRow(2020, 2, 50),
	}
	store := &fakeStore{rows: rows}

	input := "2\n2020\n1\n2020\n2\n2\nn\n4\n"
	output := runApp(t, store, input, t.TempDir())

	assert.Contains(t, output, "percent change reported as N/A")
	assert.Contains(t, output, "N/A")
	assert.Contains(t, output, "Statistics for Dublin")
}

func TestRun_AppendRecord(t *testing.T) {
	store := &fakeStore{rows: year2020()}

	// 3=append, then one value per region in order, confirm, quit.
	values := []string{"265000", "380000", "270000", "258000", "192000", "178000", "208000"}
	input := "3\n" + strings.Join(values, "\n") + "\ny\n4\n"

	output := runApp(t, store, input, t.TempDir())

	assert.Contains(t, output, "Adding record for 2021Q1 (follows 2020Q4)")
	assert.Contains(t, output, "Appended record for 2021Q1.")

	require.Len(t, store.appended, 1)
	row := store.appended[0]
	assert.Equal(t, "2021", row["Year"])
	assert.Equal(t, "1", row["Quarter"])
	assert.Equal(t, "265000", row["Nationally"])
	assert.Equal(t, "208000", row["Other_counties"])
}

func TestRun_AppendDeclined(t *testing.T) {
	store := &fakeStore{rows: year2020()}

	values := []string{"265000", "380000", "270000", "258000", "192000", "178000", "208000"}
	input := "3\n" + strings.Join(values, "\n") + "\nn\n4\n"

	output := runApp(t, store, input, t.TempDir())

	assert.Contains(t, output, "Discarded.")
	assert.Empty(t, store.appended)
}

func TestRun_FatalNetworkError(t *testing.T) {
	store := &fakeStore{fetchErr: apperrors.NewNetworkError("sheet unreachable", nil)}

	out := &bytes.Buffer{}
	a := New(store,
		prompt.New(strings.NewReader("2\n"), out),
		exporter.NewWriter(t.TempDir(), nil),
		out, nil)

	err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsFatal(err))
}

func TestRun_MalformedRowReportedNotFatal(t *testing.T) {
	rows := year2020()
	rows[2]["Quarter"] = "9"
	store := &fakeStore{rows: rows}

	output := runApp(t, store, "1\n4\n", t.TempDir())

	assert.Contains(t, output, "Error: row 4: Quarter must be between 1 and 4, got 9")
}
