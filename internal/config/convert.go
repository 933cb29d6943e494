package config

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/previsio/previsio/pkg/amortization"
	"github.com/previsio/previsio/pkg/cashflow"
	"github.com/previsio/previsio/pkg/category"
	"github.com/previsio/previsio/pkg/constants"
	"github.com/previsio/previsio/pkg/datetime"
	"github.com/previsio/previsio/pkg/depreciation"
	"github.com/previsio/previsio/pkg/timeseries"
)

// ApplyScenario returns a copy of the plan with the scenario's overrides
// applied. Scenario lines are appended to the base plan's lines; a scenario
// delay block replaces the base delays wholesale.
func (plan Plan) ApplyScenario(scenario Scenario) Plan {
	derived := plan
	if scenario.Delays != nil {
		derived.Delays = *scenario.Delays
	}
	derived.RevenueLines = append(append([]LineSpec{}, plan.RevenueLines...), scenario.RevenueLines...)
	derived.ExpenseLines = append(append([]LineSpec{}, plan.ExpenseLines...), scenario.ExpenseLines...)
	return derived
}

// BuildAssets converts the plan's asset specs into scheduler inputs,
// assigning a fresh identifier to records that lack one.
func (plan Plan) BuildAssets() ([]depreciation.Asset, error) {
	assets := make([]depreciation.Asset, 0, len(plan.Assets))
	for _, spec := range plan.Assets {
		method, err := depreciation.ParseMethod(spec.Method)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", spec.Label, err)
		}
		acquiredAt, err := time.Parse(constants.DateLayout, spec.AcquiredAt)
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", spec.Label, err)
		}
		id := spec.ID
		if id == "" {
			id = uuid.NewString()
		}
		assets = append(assets, depreciation.Asset{
			ID:             id,
			Label:          spec.Label,
			Amount:         spec.Amount,
			AcquiredAt:     acquiredAt,
			Method:         method,
			DurationMonths: spec.DurationMonths,
			ResidualValue:  spec.ResidualValue,
		})
	}
	return assets, nil
}

// BuildLoans converts the plan's loan specs into scheduler inputs.
func (plan Plan) BuildLoans() ([]amortization.Loan, error) {
	loans := make([]amortization.Loan, 0, len(plan.Loans))
	for _, spec := range plan.Loans {
		repaymentType, err := amortization.ParseRepaymentType(spec.Type)
		if err != nil {
			return nil, fmt.Errorf("loan %s: %w", spec.Label, err)
		}
		id := spec.ID
		if id == "" {
			id = uuid.NewString()
		}
		loans = append(loans, amortization.Loan{
			ID:             id,
			Label:          spec.Label,
			Principal:      spec.Principal,
			AnnualRate:     spec.AnnualRate,
			DurationMonths: spec.DurationMonths,
			GraceMonths:    spec.GraceMonths,
			StartMonth:     spec.StartMonth,
			Type:           repaymentType,
		})
	}
	return loans, nil
}

// BuildLines converts line specs into projector inputs, expanding constant
// lines over the horizon and applying the plan's default VAT rate to lines
// that do not declare their own.
func (plan Plan) BuildLines(specs []LineSpec) ([]cashflow.Line, error) {
	lines := make([]cashflow.Line, 0, len(specs))
	for _, spec := range specs {
		cat, err := category.Parse(spec.Category)
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", spec.Label, err)
		}

		var amounts timeseries.Monthly
		if len(spec.Monthly) > 0 {
			amounts, err = timeseries.New(plan.HorizonMonths, spec.Monthly)
		} else {
			amounts, err = timeseries.Constant(plan.HorizonMonths, spec.Constant)
		}
		if err != nil {
			return nil, fmt.Errorf("line %s: %w", spec.Label, err)
		}

		vatRate := plan.VAT.DefaultRate
		if spec.VATRate != nil {
			vatRate = *spec.VATRate
		}

		lines = append(lines, cashflow.Line{
			Label:    spec.Label,
			Category: cat,
			VATRate:  vatRate,
			Amounts:  amounts,
		})
	}
	return lines, nil
}

// BuildContributions converts dated capital contributions into cash events
// indexed by projection month.
func (plan Plan) BuildContributions() ([]cashflow.CashEvent, error) {
	events := make([]cashflow.CashEvent, 0, len(plan.CapitalContributions))
	for _, spec := range plan.CapitalContributions {
		offset, err := datetime.MonthsBetween(plan.StartMonth, spec.Month)
		if err != nil {
			return nil, fmt.Errorf("contribution %s: %w", spec.Label, err)
		}
		events = append(events, cashflow.CashEvent{
			Label:  spec.Label,
			Month:  offset,
			Amount: spec.Amount,
		})
	}
	return events, nil
}
