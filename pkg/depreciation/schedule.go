// Package depreciation computes year-by-year depreciation schedules for
// fixed assets using the linear or declining-balance method.
package depreciation

import (
	"fmt"
	"math"
	"time"

	"github.com/previsio/previsio/pkg/constants"
	"github.com/previsio/previsio/pkg/datetime"
	"github.com/previsio/previsio/pkg/mathutil"
	"go.uber.org/zap"
)

// Method selects how an asset is depreciated.
type Method int

const (
	// MethodLinear spreads the depreciable base evenly over the duration,
	// prorated for the first fiscal year
	MethodLinear Method = iota

	// MethodDeclining applies the declining-balance rate with a mandatory
	// switch to straight-line when that becomes more favorable
	MethodDeclining

	// MethodNone marks non-depreciable assets such as land
	MethodNone
)

// String returns the plan-file spelling of the method.
func (m Method) String() string {
	switch m {
	case MethodLinear:
		return "linear"
	case MethodDeclining:
		return "declining"
	case MethodNone:
		return "none"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// ParseMethod maps a plan-file spelling to its method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "linear":
		return MethodLinear, nil
	case "declining":
		return MethodDeclining, nil
	case "none":
		return MethodNone, nil
	}
	return 0, fmt.Errorf("unknown depreciation method %q", s)
}

// Asset describes one fixed-asset purchase. Amounts are exclusive of VAT.
type Asset struct {
	ID             string
	Label          string
	Amount         float64
	AcquiredAt     time.Time
	Method         Method
	DurationMonths int
	ResidualValue  float64
}

// Line is one fiscal year of an asset's depreciation schedule.
type Line struct {
	Year         int
	PeriodStart  time.Time
	PeriodEnd    time.Time
	Base         float64
	Charge       float64
	Cumulative   float64
	NetBookValue float64
}

// Scheduler generates depreciation schedules.
type Scheduler struct {
	logger *zap.Logger
}

// NewScheduler creates a scheduler with the given logger. A nil logger is
// replaced with a no-op logger.
func NewScheduler(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{logger: logger}
}

// Schedule computes the full depreciation table for one asset. Non-depreciable
// assets and zero-duration assets yield an empty schedule; a negative amount
// or residual value is a validation error.
func (s *Scheduler) Schedule(asset Asset) ([]Line, error) {
	if asset.Amount < 0 {
		return nil, fmt.Errorf("asset %s: acquisition amount must not be negative, got %.2f", asset.Label, asset.Amount)
	}
	if asset.ResidualValue < 0 {
		return nil, fmt.Errorf("asset %s: residual value must not be negative, got %.2f", asset.Label, asset.ResidualValue)
	}
	if asset.ResidualValue > asset.Amount {
		return nil, fmt.Errorf("asset %s: residual value %.2f exceeds acquisition amount %.2f",
			asset.Label, asset.ResidualValue, asset.Amount)
	}
	if asset.Method == MethodNone {
		return nil, nil
	}
	if asset.DurationMonths <= 0 {
		s.logger.Debug("skipping depreciable asset with non-positive duration",
			zap.String("asset", asset.Label),
			zap.Int("durationMonths", asset.DurationMonths),
		)
		return nil, nil
	}

	switch asset.Method {
	case MethodLinear:
		return s.linearSchedule(asset), nil
	case MethodDeclining:
		return s.decliningSchedule(asset), nil
	}
	return nil, fmt.Errorf("asset %s: unknown depreciation method %v", asset.Label, asset.Method)
}

// linearSchedule spreads the base evenly over the duration. The first fiscal
// year is prorated by elapsed days over a 360-day commercial year, capped at
// a full year, so the schedule may spill into one extra fiscal year.
func (s *Scheduler) linearSchedule(asset Asset) []Line {
	base := mathutil.Round(asset.Amount - asset.ResidualValue)
	years := float64(asset.DurationMonths) / constants.MonthsPerYear
	annual := mathutil.Round(base / years)
	prorata := mathutil.Min(1.0, datetime.DaysUntilYearEnd(asset.AcquiredAt)/constants.DaysPerYearCommercial)

	maxLines := int(math.Ceil(years)) + 1
	lines := make([]Line, 0, maxLines)
	cumulative := 0.0
	for i := 0; i < maxLines; i++ {
		charge := annual
		if i == 0 {
			charge = mathutil.Round(annual * prorata)
		}
		if cumulative+charge > base {
			charge = mathutil.Round(base - cumulative)
		}
		cumulative = mathutil.Round(cumulative + charge)
		lines = append(lines, s.makeLine(asset, i, base, charge, cumulative))
		if mathutil.WithinTolerance(cumulative, base, constants.CurrencyTolerance) {
			break
		}
	}
	return lines
}

// decliningSchedule applies the statutory declining-balance rate to the
// remaining base, switching to straight-line over the remaining years as soon
// as that charge is larger. The first year is prorated by whole months
// remaining from the acquisition month.
func (s *Scheduler) decliningSchedule(asset Asset) []Line {
	base := mathutil.Round(asset.Amount - asset.ResidualValue)
	years := float64(asset.DurationMonths) / constants.MonthsPerYear
	rate := (constants.PercentageMultiplier / years) * CoefficientForDuration(years)

	remaining := base
	remainingYears := int(math.Ceil(years))
	lines := make([]Line, 0, remainingYears)
	cumulative := 0.0
	switched := false
	for i := 0; remainingYears > 0 && !mathutil.IsZero(remaining); i++ {
		declining := mathutil.Round(mathutil.ApplyPercentage(remaining, rate))
		if i == 0 {
			monthsLeft := datetime.MonthsRemainingInYear(asset.AcquiredAt)
			declining = mathutil.Round(declining * float64(monthsLeft) / constants.MonthsPerYear)
		}
		straight := mathutil.Round(remaining / float64(remainingYears))

		var charge float64
		if switched {
			charge = straight
		} else {
			charge, switched = ChooseDecliningCharge(declining, straight)
		}
		if cumulative+charge > base {
			charge = mathutil.Round(base - cumulative)
		}

		cumulative = mathutil.Round(cumulative + charge)
		remaining = mathutil.Round(remaining - charge)
		lines = append(lines, s.makeLine(asset, i, base, charge, cumulative))
		remainingYears--
	}
	return lines
}

func (s *Scheduler) makeLine(asset Asset, index int, base, charge, cumulative float64) Line {
	year := asset.AcquiredAt.Year() + index
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, asset.AcquiredAt.Location())
	if index == 0 {
		start = asset.AcquiredAt
	}
	return Line{
		Year:         year,
		PeriodStart:  start,
		PeriodEnd:    time.Date(year, time.December, 31, 0, 0, 0, 0, asset.AcquiredAt.Location()),
		Base:         base,
		Charge:       charge,
		Cumulative:   cumulative,
		NetBookValue: mathutil.Round(asset.Amount - cumulative),
	}
}

// CoefficientForDuration returns the statutory declining-balance coefficient
// for a depreciation duration expressed in years.
func CoefficientForDuration(years float64) float64 {
	switch {
	case years <= 4:
		return constants.DecliningCoefficientShort
	case years <= 6:
		return constants.DecliningCoefficientMedium
	default:
		return constants.DecliningCoefficientLong
	}
}

// ChooseDecliningCharge picks the larger of the declining-balance and
// straight-line candidate charges and reports whether the schedule has
// switched to straight-line. Once the straight-line charge wins it stays
// larger for every later year, so callers may stop comparing after the
// switch.
func ChooseDecliningCharge(declining, straight float64) (charge float64, switched bool) {
	if straight >= declining {
		return straight, true
	}
	return declining, false
}

// AnnualCharge returns the depreciation charge booked for the given fiscal
// year across all lines, 0 when the year falls outside the schedule.
func AnnualCharge(lines []Line, year int) float64 {
	for _, line := range lines {
		if line.Year == year {
			return line.Charge
		}
	}
	return 0
}

// CumulativeThrough returns the cumulative depreciation booked through the
// end of the given fiscal year.
func CumulativeThrough(lines []Line, year int) float64 {
	cumulative := 0.0
	for _, line := range lines {
		if line.Year <= year {
			cumulative = line.Cumulative
		}
	}
	return cumulative
}
