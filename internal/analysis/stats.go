package analysis

import (
	"math"
	"sort"

	apperrors "github.com/sdaly-ie/property-tracker-cli/internal/errors"
)

// Result is an immutable snapshot of one statistics computation. Values are
// kept at full precision; rounding happens only at presentation time.
type Result struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	Range  float64
	Q1     float64
	Median float64
	Q3     float64
	IQR    float64

	// PctChange is the percent change from the first to the last value of
	// the series. PctChangeDefined is false when the base value is zero, in
	// which case the change is reported as "N/A" rather than aborting.
	PctChange        float64
	PctChangeDefined bool
}

// Compute calculates descriptive statistics over an ordered value series.
// Fewer than two values is an insufficient-data error: standard deviation
// and range over a single point are undefined for this tool's purposes.
func Compute(values []float64) (Result, error) {
	n := len(values)
	if n < 2 {
		return Result{}, apperrors.NewInsufficientDataError(n)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	m := mean(values)
	res := Result{
		Count:  n,
		Mean:   m,
		StdDev: populationStdDev(values, m),
		Min:    sorted[0],
		Max:    sorted[n-1],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
	}
	res.Range = res.Max - res.Min
	res.IQR = res.Q3 - res.Q1

	pct, err := PercentChange(values[0], values[n-1])
	if err == nil {
		res.PctChange = pct
		res.PctChangeDefined = true
	}

	return res, nil
}

// PercentChange computes the relative change from first to last as a
// percentage. A zero base is a division-by-zero error; callers degrade it
// to an "N/A" in the rendered output.
func PercentChange(first, last float64) (float64, error) {
	if first == 0 {
		return 0, apperrors.NewDivisionByZeroError("percent change undefined: first value is zero")
	}
	return ((last - first) / first) * 100, nil
}

func mean(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// populationStdDev divides by N, not N-1.
func populationStdDev(values []float64, mean float64) float64 {
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// quantile evaluates the p-quantile of a sorted series by linear
// interpolation: position (n-1)*p, interpolating between the two bracketing
// values when the position is fractional.
func quantile(sorted []float64, p float64) float64 {
	pos := float64(len(sorted)-1) * p
	base := int(math.Floor(pos))
	frac := pos - float64(base)
	if base+1 < len(sorted) {
		return sorted[base] + frac*(sorted[base+1]-sorted[base])
	}
	return sorted[base]
}
