// Package projection defines the data structures related to a full plan
// projection and includes functions for computing the projections.
package projection

import (
	"fmt"

	"github.com/previsio/previsio/internal/config"
	"github.com/previsio/previsio/pkg/amortization"
	"github.com/previsio/previsio/pkg/balancesheet"
	"github.com/previsio/previsio/pkg/cashflow"
	"github.com/previsio/previsio/pkg/constants"
	"github.com/previsio/previsio/pkg/datetime"
	"github.com/previsio/previsio/pkg/depreciation"
	"github.com/previsio/previsio/pkg/mathutil"
	"github.com/previsio/previsio/pkg/sig"
	"github.com/previsio/previsio/pkg/timeseries"
	"go.uber.org/zap"
)

// BaseScenarioName names the projection of the unmodified plan.
const BaseScenarioName = "base"

// YearIncome pairs one fiscal year's aggregates with its computed waterfall.
type YearIncome struct {
	Year         int // one-based fiscal year index
	CalendarYear int
	Financials   sig.PeriodFinancials
	Result       sig.Result
}

// ScenarioProjection holds every computed table for one scenario.
type ScenarioProjection struct {
	Name           string
	AssetSchedules []balancesheet.AssetPosition
	LoanSchedules  []balancesheet.LoanPosition
	Income         []YearIncome
	CashFlow       []cashflow.MonthlyFlow
	BalanceSheets  []balancesheet.YearBalanceSheet
}

// Projection is the full result of one previsio run.
type Projection struct {
	PlanName   string
	StartMonth string
	Horizon    int
	Scenarios  []ScenarioProjection
}

// GetProjection computes the base plan and every active scenario variant.
func GetProjection(logger *zap.Logger, conf config.Configuration) (Projection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	projection := Projection{
		PlanName:   conf.Plan.Name,
		StartMonth: conf.Plan.StartMonth,
		Horizon:    conf.Plan.HorizonMonths,
	}

	base, err := projectPlan(logger, conf.Plan, BaseScenarioName)
	if err != nil {
		return projection, err
	}
	projection.Scenarios = append(projection.Scenarios, base)

	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "projection.GetProjection"),
			)
			continue
		}
		result, err := projectPlan(logger, conf.Plan.ApplyScenario(scenario), scenario.Name)
		if err != nil {
			return projection, err
		}
		projection.Scenarios = append(projection.Scenarios, result)
	}

	return projection, nil
}

func projectPlan(logger *zap.Logger, plan config.Plan, name string) (ScenarioProjection, error) {
	result := ScenarioProjection{Name: name}

	assets, err := plan.BuildAssets()
	if err != nil {
		return result, err
	}
	loans, err := plan.BuildLoans()
	if err != nil {
		return result, err
	}
	revenueLines, err := plan.BuildLines(plan.RevenueLines)
	if err != nil {
		return result, err
	}
	expenseLines, err := plan.BuildLines(plan.ExpenseLines)
	if err != nil {
		return result, err
	}
	contributions, err := plan.BuildContributions()
	if err != nil {
		return result, err
	}

	depreciationScheduler := depreciation.NewScheduler(logger)
	for _, asset := range assets {
		schedule, err := depreciationScheduler.Schedule(asset)
		if err != nil {
			return result, err
		}
		result.AssetSchedules = append(result.AssetSchedules, balancesheet.AssetPosition{
			Asset:    asset,
			Schedule: schedule,
		})
	}

	loanScheduler := amortization.NewScheduler(logger)
	for _, loan := range loans {
		schedule, err := loanScheduler.Schedule(loan)
		if err != nil {
			return result, err
		}
		result.LoanSchedules = append(result.LoanSchedules, balancesheet.LoanPosition{
			Loan:     loan,
			Schedule: schedule,
		})
	}

	loanPayments, drawdowns, err := loanCashSeries(plan, result.LoanSchedules)
	if err != nil {
		return result, err
	}

	projector := cashflow.NewProjector(logger)
	result.CashFlow, err = projector.Project(cashflow.Input{
		Horizon:      plan.HorizonMonths,
		StartingCash: plan.StartingCash,
		Delays: cashflow.Delays{
			ClientDays:   plan.Delays.ClientDays,
			SupplierDays: plan.Delays.SupplierDays,
		},
		RevenueLines:  revenueLines,
		ExpenseLines:  expenseLines,
		Contributions: contributions,
		Drawdowns:     drawdowns,
		LoanPayments:  loanPayments,
	})
	if err != nil {
		return result, err
	}

	startT, err := datetime.ParseMonth(plan.StartMonth)
	if err != nil {
		return result, err
	}
	years := (plan.HorizonMonths + constants.MonthsPerYear - 1) / constants.MonthsPerYear

	netResults := make([]float64, years)
	for y := 1; y <= years; y++ {
		calendarYear := startT.Year() + y - 1
		financials := aggregateYear(revenueLines, expenseLines, result.AssetSchedules, result.LoanSchedules, y, calendarYear)
		waterfall := sig.Compute(financials)
		netResults[y-1] = waterfall.NetResult
		result.Income = append(result.Income, YearIncome{
			Year:         y,
			CalendarYear: calendarYear,
			Financials:   financials,
			Result:       waterfall,
		})
	}

	estimator := balancesheet.NewEstimator(logger)
	result.BalanceSheets, err = estimator.Estimate(balancesheet.Input{
		StartMonth:         plan.StartMonth,
		Flows:              result.CashFlow,
		Assets:             result.AssetSchedules,
		Loans:              result.LoanSchedules,
		Contributions:      contributions,
		Delays:             cashflow.Delays{ClientDays: plan.Delays.ClientDays, SupplierDays: plan.Delays.SupplierDays},
		StockRotationDays:  plan.Delays.StockRotationDays,
		NetResultsByYear:   netResults,
		RevenueTTCByYear:   yearlyGross(revenueLines, years),
		PurchasesTTCByYear: yearlyGross(expenseLines, years),
	})
	if err != nil {
		return result, err
	}

	return result, nil
}

// loanCashSeries converts the per-loan schedules into the projector's view:
// a monthly payment series and one drawdown event per loan starting within
// the horizon.
func loanCashSeries(plan config.Plan, positions []balancesheet.LoanPosition) (timeseries.Monthly, []cashflow.CashEvent, error) {
	payments := make([]float64, plan.HorizonMonths)
	var drawdowns []cashflow.CashEvent

	for _, position := range positions {
		offset, err := datetime.MonthsBetween(plan.StartMonth, position.Loan.StartMonth)
		if err != nil {
			return timeseries.Monthly{}, nil, err
		}
		if offset >= 0 && offset < plan.HorizonMonths {
			drawdowns = append(drawdowns, cashflow.CashEvent{
				Label:  position.Loan.Label,
				Month:  offset,
				Amount: position.Loan.Principal,
			})
		}
		for _, installment := range position.Schedule {
			index, err := datetime.MonthsBetween(plan.StartMonth, installment.Month)
			if err != nil {
				return timeseries.Monthly{}, nil, err
			}
			if index >= 0 && index < plan.HorizonMonths {
				payments[index] = mathutil.Round(payments[index] + installment.Payment)
			}
		}
	}

	series, err := timeseries.New(plan.HorizonMonths, payments)
	if err != nil {
		return timeseries.Monthly{}, nil, err
	}
	return series, drawdowns, nil
}

// aggregateYear builds one fiscal year's income-statement aggregates from
// the plan lines, the depreciation schedules, and the loan interest.
func aggregateYear(revenueLines, expenseLines []cashflow.Line,
	assets []balancesheet.AssetPosition, loans []balancesheet.LoanPosition,
	year, calendarYear int) sig.PeriodFinancials {

	var financials sig.PeriodFinancials
	for _, line := range revenueLines {
		// The closed category set guarantees every line maps to a bucket.
		_ = financials.Accumulate(line.Category, line.Amounts.YearTotal(year))
	}
	for _, line := range expenseLines {
		_ = financials.Accumulate(line.Category, line.Amounts.YearTotal(year))
	}
	for _, position := range assets {
		financials.DepreciationCharge = mathutil.Round(financials.DepreciationCharge +
			depreciation.AnnualCharge(position.Schedule, calendarYear))
	}
	for _, position := range loans {
		financials.FinancialCharges = mathutil.Round(financials.FinancialCharges +
			amortization.InterestForYear(position.Schedule, calendarYear))
	}
	return financials
}

// yearlyGross returns the VAT-inclusive yearly totals of the given lines,
// accrual-based, one entry per fiscal year.
func yearlyGross(lines []cashflow.Line, years int) []float64 {
	totals := make([]float64, years)
	for _, line := range lines {
		for m := 0; m < line.Amounts.Len(); m++ {
			ht := line.Amounts.At(m)
			if ht == 0 {
				continue
			}
			gross := mathutil.Round(ht + mathutil.Round(mathutil.ApplyPercentage(ht, line.VATRate)))
			y := m / constants.MonthsPerYear
			if y < years {
				totals[y] = mathutil.Round(totals[y] + gross)
			}
		}
	}
	return totals
}
