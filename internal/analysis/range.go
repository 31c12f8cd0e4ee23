package analysis

import (
	apperrors "github.com/sdaly-ie/property-tracker-cli/internal/errors"
	"github.com/sdaly-ie/property-tracker-cli/internal/records"
)

// SelectRange returns the contiguous sub-sequence of recs whose periods lie
// in [start, end], both bounds inclusive, preserving the original order.
//
// recs must already be sorted ascending by (year, quarter), which ParseAll
// guarantees. A start after end is an invalid-range error, never a silent
// swap. A bound that names a period absent from the dataset is a not-found
// error; the tool does not snap to the nearest available quarter.
func SelectRange(recs []records.Record, start, end records.Period) ([]records.Record, error) {
	if start.After(end) {
		return nil, apperrors.NewInvalidRangeError(start.String(), end.String())
	}

	var (
		selection        []records.Record
		hasStart, hasEnd bool
	)
	for _, r := range recs {
		if r.Period.Before(start) || r.Period.After(end) {
			continue
		}
		if r.Period == start {
			hasStart = true
		}
		if r.Period == end {
			hasEnd = true
		}
		selection = append(selection, r)
	}

	if !hasStart {
		return nil, apperrors.NewNotFoundError("start " + start.String())
	}
	if !hasEnd {
		return nil, apperrors.NewNotFoundError("end " + end.String())
	}

	return selection, nil
}

// Series extracts the values of one region column from a selection, in order.
func Series(selection []records.Record, region string) ([]float64, error) {
	if !records.IsRegion(region) {
		return nil, apperrors.NewValidationError("unknown region " + region)
	}

	values := make([]float64, 0, len(selection))
	for _, r := range selection {
		values = append(values, r.Values[region])
	}
	return values, nil
}
