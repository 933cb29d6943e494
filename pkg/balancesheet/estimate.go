// Package balancesheet estimates a simplified year-end balance sheet from
// cash-flow output, depreciation schedules, and financing records. Asset and
// liability totals are forced equal through an explicitly named reconciling
// entry.
package balancesheet

import (
	"fmt"
	"math"

	"github.com/previsio/previsio/pkg/amortization"
	"github.com/previsio/previsio/pkg/cashflow"
	"github.com/previsio/previsio/pkg/constants"
	"github.com/previsio/previsio/pkg/datetime"
	"github.com/previsio/previsio/pkg/depreciation"
	"github.com/previsio/previsio/pkg/mathutil"
	"go.uber.org/zap"
)

// AssetPosition pairs an asset with its computed depreciation schedule.
type AssetPosition struct {
	Asset    depreciation.Asset
	Schedule []depreciation.Line
}

// LoanPosition pairs a loan with its computed amortization schedule.
type LoanPosition struct {
	Loan     amortization.Loan
	Schedule []amortization.Installment
}

// Input gathers everything the estimator needs for one run.
type Input struct {
	// StartMonth is the "2006-01" month of projection month 0.
	StartMonth string

	Flows         []cashflow.MonthlyFlow
	Assets        []AssetPosition
	Loans         []LoanPosition
	Contributions []cashflow.CashEvent
	Delays        cashflow.Delays

	// StockRotationDays sizes the inventory estimate; 0 when unmodeled.
	StockRotationDays float64

	// NetResultsByYear, RevenueTTCByYear, and PurchasesTTCByYear hold one
	// entry per fiscal year covered by the cash-flow horizon.
	NetResultsByYear   []float64
	RevenueTTCByYear   []float64
	PurchasesTTCByYear []float64
}

// YearBalanceSheet is the estimated year-end position for one fiscal year.
// UnexplainedLiabilities is the reconciling plug that forces the two sides
// equal: it masks unmodeled liabilities and is reported by name so callers
// can watch it for model drift.
type YearBalanceSheet struct {
	Year         int // one-based fiscal year index
	CalendarYear int
	YearEndMonth string

	NetFixedAssets   float64
	TradeReceivables float64
	Inventory        float64
	Cash             float64
	TotalAssets      float64

	ShareCapital           float64
	RetainedEarnings       float64
	NetResult              float64
	LoanPrincipal          float64
	TradePayables          float64
	BankOverdraft          float64
	UnexplainedLiabilities float64
	TotalLiabilities       float64
}

// Estimator builds year-end balance sheets.
type Estimator struct {
	logger *zap.Logger
}

// NewEstimator creates an estimator with the given logger. A nil logger is
// replaced with a no-op logger.
func NewEstimator(logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{logger: logger}
}

// Estimate produces one balance sheet per fiscal year covered by the
// cash-flow horizon. Outstanding loan principal and cumulative depreciation
// are taken exactly from the per-record schedules rather than approximated
// from flat yearly percentages.
func (e *Estimator) Estimate(input Input) ([]YearBalanceSheet, error) {
	if len(input.Flows) == 0 {
		return nil, fmt.Errorf("cash-flow projection is empty")
	}
	startT, err := datetime.ParseMonth(input.StartMonth)
	if err != nil {
		return nil, err
	}
	years := (len(input.Flows) + constants.MonthsPerYear - 1) / constants.MonthsPerYear
	if len(input.NetResultsByYear) != years || len(input.RevenueTTCByYear) != years || len(input.PurchasesTTCByYear) != years {
		return nil, fmt.Errorf("yearly aggregates must cover %d fiscal years", years)
	}

	sheets := make([]YearBalanceSheet, 0, years)
	for y := 1; y <= years; y++ {
		yearEndIndex := y*constants.MonthsPerYear - 1
		if yearEndIndex >= len(input.Flows) {
			yearEndIndex = len(input.Flows) - 1
		}
		yearEndMonth, err := datetime.OffsetMonth(input.StartMonth, yearEndIndex)
		if err != nil {
			return nil, err
		}
		calendarYear := startT.AddDate(0, yearEndIndex, 0).Year()

		sheet := YearBalanceSheet{
			Year:         y,
			CalendarYear: calendarYear,
			YearEndMonth: yearEndMonth,
		}

		// Asset side.
		gross := 0.0
		cumulative := 0.0
		for _, position := range input.Assets {
			if position.Asset.AcquiredAt.Year() > calendarYear {
				continue
			}
			gross = mathutil.Round(gross + position.Asset.Amount)
			cumulative = mathutil.Round(cumulative + depreciation.CumulativeThrough(position.Schedule, calendarYear))
		}
		sheet.NetFixedAssets = mathutil.Round(gross - cumulative)
		sheet.TradeReceivables = mathutil.Round(input.RevenueTTCByYear[y-1] *
			input.Delays.ClientDays / constants.DaysPerYearCommercial)
		sheet.Inventory = mathutil.Round(input.PurchasesTTCByYear[y-1] *
			input.StockRotationDays / constants.DaysPerYearCommercial)

		balance := input.Flows[yearEndIndex].Balance
		sheet.Cash = math.Max(0, balance)
		sheet.BankOverdraft = math.Max(0, -balance)
		sheet.TotalAssets = mathutil.Round(sheet.NetFixedAssets + sheet.TradeReceivables +
			sheet.Inventory + sheet.Cash)

		// Liability side.
		for _, event := range input.Contributions {
			if event.Month <= yearEndIndex {
				sheet.ShareCapital = mathutil.Round(sheet.ShareCapital + event.Amount)
			}
		}
		for i := 0; i < y-1; i++ {
			sheet.RetainedEarnings = mathutil.Round(sheet.RetainedEarnings + input.NetResultsByYear[i])
		}
		sheet.NetResult = input.NetResultsByYear[y-1]
		for _, position := range input.Loans {
			outstanding, err := amortization.OutstandingAt(position.Loan, position.Schedule, yearEndMonth)
			if err != nil {
				return nil, err
			}
			notDrawn, err := datetime.MonthBeforeMonth(yearEndMonth, position.Loan.StartMonth)
			if err != nil {
				return nil, err
			}
			if notDrawn {
				continue
			}
			sheet.LoanPrincipal = mathutil.Round(sheet.LoanPrincipal + outstanding)
		}
		sheet.TradePayables = mathutil.Round(input.PurchasesTTCByYear[y-1] *
			input.Delays.SupplierDays / constants.DaysPerYearCommercial)

		explained := mathutil.Round(sheet.ShareCapital + sheet.RetainedEarnings + sheet.NetResult +
			sheet.LoanPrincipal + sheet.TradePayables + sheet.BankOverdraft)
		sheet.UnexplainedLiabilities = mathutil.Round(sheet.TotalAssets - explained)
		sheet.TotalLiabilities = mathutil.Round(explained + sheet.UnexplainedLiabilities)

		if sheet.TotalAssets != 0 &&
			math.Abs(sheet.UnexplainedLiabilities) > constants.PlugWarningShare*math.Abs(sheet.TotalAssets) {
			e.logger.Warn("balance-sheet reconciling entry is unreasonably large, model is drifting",
				zap.Int("year", y),
				zap.Float64("unexplainedLiabilities", sheet.UnexplainedLiabilities),
				zap.Float64("totalAssets", sheet.TotalAssets),
			)
		}

		sheets = append(sheets, sheet)
	}

	return sheets, nil
}
