// Package constants provides shared constants for the previsio engine.
package constants

// MonthLayout is the format expected in plan files and is also the output
// date format for monthly projections.
const MonthLayout = "2006-01"

// DateLayout is the format for full dates such as asset acquisition dates.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Day-count conventions. The commercial (360-day) year governs depreciation
// prorating and amortization; the receivables/payables/inventory ratio
// estimations keep the same commercial base. Both constants exist so the
// convention in force is visible at every use site.
const (
	// DaysPerYearCommercial is the 360-day commercial year
	DaysPerYearCommercial = 360.0

	// DaysPerYearCivil is the 365-day civil year
	DaysPerYearCivil = 365.0

	// DaysPerMonthCommercial is the 30-day commercial month used when
	// converting payment delays to whole-month shifts
	DaysPerMonthCommercial = 30.0
)

// Declining-balance statutory coefficients keyed by depreciation duration.
const (
	// DecliningCoefficientShort applies to durations up to 4 years
	DecliningCoefficientShort = 1.25

	// DecliningCoefficientMedium applies to durations up to 6 years
	DecliningCoefficientMedium = 1.75

	// DecliningCoefficientLong applies to durations beyond 6 years
	DecliningCoefficientLong = 2.25
)

// VAT constants
const (
	// DefaultVATRate is the standard VAT rate applied when a line does not
	// declare its own (percent)
	DefaultVATRate = 20.0

	// VATRemittanceLagMonths is the fixed lag between VAT accrual and
	// remittance
	VATRemittanceLagMonths = 1
)

// Projection constants
const (
	// DefaultHorizonMonths is the default projection horizon
	DefaultHorizonMonths = 36

	// MaxHorizonMonths bounds the projection horizon
	MaxHorizonMonths = 120

	// PlugWarningShare is the share of total assets beyond which the
	// balance-sheet reconciling plug is logged as a model-drift warning
	PlugWarningShare = 0.25
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultPlanFile is the default plan file name
	DefaultPlanFile = "plan.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML
	// plans (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
