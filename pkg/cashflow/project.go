// Package cashflow simulates month-by-month cash receipts, disbursements,
// and the running cash balance over a fixed projection horizon, applying VAT
// and payment-delay effects.
package cashflow

import (
	"fmt"
	"math"

	"github.com/previsio/previsio/pkg/category"
	"github.com/previsio/previsio/pkg/constants"
	"github.com/previsio/previsio/pkg/mathutil"
	"github.com/previsio/previsio/pkg/timeseries"
	"go.uber.org/zap"
)

// Line is one revenue or expense stream with its monthly amounts exclusive
// of VAT.
type Line struct {
	Label    string
	Category category.LineCategory
	VATRate  float64 // percent
	Amounts  timeseries.Monthly
}

// Delays holds the payment-delay assumptions in days. Delays are converted
// to whole-month shifts by rounding up against the 30-day commercial month.
type Delays struct {
	ClientDays   float64
	SupplierDays float64
}

// CashEvent is a dated one-off cash movement such as a capital contribution
// or a loan drawdown. Month is a zero-based projection month index.
type CashEvent struct {
	Label  string
	Month  int
	Amount float64
}

// Input gathers everything the projector needs for one run.
type Input struct {
	Horizon       int
	StartingCash  float64
	Delays        Delays
	RevenueLines  []Line
	ExpenseLines  []Line
	Contributions []CashEvent
	Drawdowns     []CashEvent
	LoanPayments  timeseries.Monthly
}

// Receipts breaks down the cash collected in one month.
type Receipts struct {
	Revenue   float64
	Capital   float64
	Drawdowns float64
	Total     float64
}

// Disbursements breaks down the cash paid out in one month.
type Disbursements struct {
	Purchases    float64
	VATRemitted  float64
	LoanPayments float64
	Total        float64
}

// MonthlyFlow is the simulation result for one projection month.
type MonthlyFlow struct {
	Month         int
	Receipts      Receipts
	Disbursements Disbursements
	Net           float64
	Balance       float64
}

// DelayShiftMonths converts a payment delay in days to the whole-month shift
// applied to the corresponding cash movement.
func DelayShiftMonths(days float64) int {
	if days <= 0 {
		return 0
	}
	return int(math.Ceil(days / constants.DaysPerMonthCommercial))
}

// Projector runs cash-flow simulations.
type Projector struct {
	logger *zap.Logger
}

// NewProjector creates a projector with the given logger. A nil logger is
// replaced with a no-op logger.
func NewProjector(logger *zap.Logger) *Projector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Projector{logger: logger}
}

// Project simulates the full horizon month by month. Gross amounts accrued
// in month m are collected or paid at m plus the delay shift; movements
// shifted beyond the horizon never appear. VAT accrues in the accrual month
// and is remitted one month later as max(0, collected - deductible); VAT
// credits are not carried forward. The simulation never stops early: a
// negative balance is a signal, not an error.
func (p *Projector) Project(input Input) ([]MonthlyFlow, error) {
	if err := p.validate(input); err != nil {
		return nil, err
	}

	horizon := input.Horizon
	clientShift := DelayShiftMonths(input.Delays.ClientDays)
	supplierShift := DelayShiftMonths(input.Delays.SupplierDays)

	flows := make([]MonthlyFlow, horizon)
	vatCollected := make([]float64, horizon)
	vatDeductible := make([]float64, horizon)

	for _, line := range input.RevenueLines {
		for m := 0; m < horizon; m++ {
			ht := line.Amounts.At(m)
			if ht == 0 {
				continue
			}
			vat := mathutil.Round(mathutil.ApplyPercentage(ht, line.VATRate))
			gross := mathutil.Round(ht + vat)
			vatCollected[m] = mathutil.Round(vatCollected[m] + vat)
			if target := m + clientShift; target < horizon {
				flows[target].Receipts.Revenue = mathutil.Round(flows[target].Receipts.Revenue + gross)
			}
		}
	}

	for _, line := range input.ExpenseLines {
		for m := 0; m < horizon; m++ {
			ht := line.Amounts.At(m)
			if ht == 0 {
				continue
			}
			vat := mathutil.Round(mathutil.ApplyPercentage(ht, line.VATRate))
			gross := mathutil.Round(ht + vat)
			vatDeductible[m] = mathutil.Round(vatDeductible[m] + vat)
			if target := m + supplierShift; target < horizon {
				flows[target].Disbursements.Purchases = mathutil.Round(flows[target].Disbursements.Purchases + gross)
			}
		}
	}

	for _, event := range input.Contributions {
		flows[event.Month].Receipts.Capital = mathutil.Round(flows[event.Month].Receipts.Capital + event.Amount)
	}
	for _, event := range input.Drawdowns {
		flows[event.Month].Receipts.Drawdowns = mathutil.Round(flows[event.Month].Receipts.Drawdowns + event.Amount)
	}

	for m := 0; m < horizon; m++ {
		if m >= constants.VATRemittanceLagMonths {
			accrual := m - constants.VATRemittanceLagMonths
			remit := mathutil.Round(vatCollected[accrual] - vatDeductible[accrual])
			if remit > 0 {
				flows[m].Disbursements.VATRemitted = remit
			}
		}
		if input.LoanPayments.Len() == horizon {
			flows[m].Disbursements.LoanPayments = mathutil.Round(input.LoanPayments.At(m))
		}

		flows[m].Month = m
		flows[m].Receipts.Total = mathutil.Round(flows[m].Receipts.Revenue +
			flows[m].Receipts.Capital + flows[m].Receipts.Drawdowns)
		flows[m].Disbursements.Total = mathutil.Round(flows[m].Disbursements.Purchases +
			flows[m].Disbursements.VATRemitted + flows[m].Disbursements.LoanPayments)
		flows[m].Net = mathutil.Round(flows[m].Receipts.Total - flows[m].Disbursements.Total)

		previous := input.StartingCash
		if m > 0 {
			previous = flows[m-1].Balance
		}
		flows[m].Balance = mathutil.Round(previous + flows[m].Net)

		if mathutil.IsNegative(flows[m].Balance) {
			p.logger.Debug("projected cash balance is negative",
				zap.Int("month", m),
				zap.Float64("balance", flows[m].Balance),
			)
		}
	}

	return flows, nil
}

func (p *Projector) validate(input Input) error {
	if input.Horizon <= 0 || input.Horizon > constants.MaxHorizonMonths {
		return fmt.Errorf("projection horizon must be between 1 and %d months, got %d",
			constants.MaxHorizonMonths, input.Horizon)
	}
	if input.Delays.ClientDays < 0 || input.Delays.SupplierDays < 0 {
		return fmt.Errorf("payment delays must not be negative")
	}
	for _, line := range input.RevenueLines {
		if line.Category.Kind() != category.KindRevenue {
			return fmt.Errorf("line %s: category %s is not a revenue category", line.Label, line.Category)
		}
		if line.Amounts.Len() != input.Horizon {
			return fmt.Errorf("line %s: series covers %d months, horizon is %d",
				line.Label, line.Amounts.Len(), input.Horizon)
		}
	}
	for _, line := range input.ExpenseLines {
		if line.Category.Kind() != category.KindExpense {
			return fmt.Errorf("line %s: category %s is not an expense category", line.Label, line.Category)
		}
		if line.Amounts.Len() != input.Horizon {
			return fmt.Errorf("line %s: series covers %d months, horizon is %d",
				line.Label, line.Amounts.Len(), input.Horizon)
		}
	}
	for _, event := range append(append([]CashEvent{}, input.Contributions...), input.Drawdowns...) {
		if event.Month < 0 || event.Month >= input.Horizon {
			return fmt.Errorf("cash event %s: month %d is outside the %d-month horizon",
				event.Label, event.Month, input.Horizon)
		}
	}
	if input.LoanPayments.Len() != 0 && input.LoanPayments.Len() != input.Horizon {
		return fmt.Errorf("loan payment series covers %d months, horizon is %d",
			input.LoanPayments.Len(), input.Horizon)
	}
	return nil
}
