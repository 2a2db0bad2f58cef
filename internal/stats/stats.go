package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// InsufficientTrend is the trend text for series with fewer than two values.
const InsufficientTrend = "Insufficient data for trend analysis"

var (
	// ErrEmptySeries is returned when there are no temperatures to summarize.
	ErrEmptySeries = errors.New("temperature series is empty")
	// ErrNonFinite is returned when the series contains NaN or Inf (e.g. blank CSV cells).
	ErrNonFinite = errors.New("temperature series contains non-finite values")
)

// Summary holds scalar statistics over a yearly temperature series.
type Summary struct {
	Avg   float64
	Min   float64
	Max   float64
	Trend string
}

// Summarize computes mean, extrema and a trend string. years is only read at its first and
// last index; it need not be the same length as temps.
func Summarize(years []int, temps []float64) (Summary, error) {
	if len(temps) == 0 {
		return Summary{}, ErrEmptySeries
	}
	for _, v := range temps {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Summary{}, ErrNonFinite
		}
	}
	trend, err := Trend(years, temps)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Avg:   stat.Mean(temps, nil),
		Min:   floats.Min(temps),
		Max:   floats.Max(temps),
		Trend: trend,
	}, nil
}

// Trend formats the signed change between the last and first temperature over the span
// between the last and first year, e.g. "+1.25°C over 50 years".
func Trend(years []int, temps []float64) (string, error) {
	if len(temps) <= 1 {
		return InsufficientTrend, nil
	}
	if len(years) == 0 {
		return "", errors.New("year series is empty")
	}
	delta := temps[len(temps)-1] - temps[0]
	span := years[len(years)-1] - years[0]
	return fmt.Sprintf("%+.2f°C over %d years", delta, span), nil
}
