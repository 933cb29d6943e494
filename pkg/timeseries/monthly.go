// Package timeseries provides a fixed-size monthly value series validated at
// construction. Plan lines and projection outputs use it instead of raw
// slices so length mismatches surface at the boundary rather than as silent
// truncation or padding deep in a calculation loop.
package timeseries

import (
	"fmt"

	"github.com/previsio/previsio/pkg/constants"
	"github.com/previsio/previsio/pkg/mathutil"
)

// Monthly is an immutable series of one value per projection month.
type Monthly struct {
	values []float64
}

// New validates that values covers exactly horizon months and returns the
// series. A nil values slice yields an all-zero series of the right length.
func New(horizon int, values []float64) (Monthly, error) {
	if horizon <= 0 {
		return Monthly{}, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	if values == nil {
		return Monthly{values: make([]float64, horizon)}, nil
	}
	if len(values) != horizon {
		return Monthly{}, fmt.Errorf("expected %d monthly values, got %d", horizon, len(values))
	}
	copied := make([]float64, horizon)
	copy(copied, values)
	return Monthly{values: copied}, nil
}

// Constant returns a series with the same value every month.
func Constant(horizon int, value float64) (Monthly, error) {
	if horizon <= 0 {
		return Monthly{}, fmt.Errorf("horizon must be positive, got %d", horizon)
	}
	values := make([]float64, horizon)
	for i := range values {
		values[i] = value
	}
	return Monthly{values: values}, nil
}

// Len returns the horizon in months.
func (m Monthly) Len() int {
	return len(m.values)
}

// At returns the value for the given zero-based month index.
func (m Monthly) At(month int) float64 {
	return m.values[month]
}

// Total returns the sum of every month, rounded to currency precision.
func (m Monthly) Total() float64 {
	total := 0.0
	for _, v := range m.values {
		total = mathutil.Round(total + v)
	}
	return total
}

// YearTotal returns the sum of the months falling in the given one-based
// fiscal year, rounded to currency precision. Months beyond the horizon
// contribute nothing.
func (m Monthly) YearTotal(year int) float64 {
	total := 0.0
	start := (year - 1) * constants.MonthsPerYear
	for i := start; i < start+constants.MonthsPerYear && i < len(m.values); i++ {
		total = mathutil.Round(total + m.values[i])
	}
	return total
}

// Years returns the number of fiscal years the series spans, counting a
// trailing partial year as a full one.
func (m Monthly) Years() int {
	return (len(m.values) + constants.MonthsPerYear - 1) / constants.MonthsPerYear
}

// Values returns a copy of the underlying series.
func (m Monthly) Values() []float64 {
	copied := make([]float64, len(m.values))
	copy(copied, m.values)
	return copied
}
