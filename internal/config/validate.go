package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/previsio/previsio/pkg/category"
	"github.com/previsio/previsio/pkg/constants"
	"github.com/previsio/previsio/pkg/datetime"
)

// Validate fails fast on structurally invalid plans: negative amounts, grace
// periods as long as the loan, unknown categories or methods, malformed
// dates, and monthly series that do not cover the horizon. Silent-degradation
// cases (non-depreciable assets, zero VAT rates) pass validation and are
// handled by the calculation packages.
func (conf *Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(conf); err != nil {
		return fmt.Errorf("plan failed structural validation: %w", err)
	}

	plan := conf.Plan
	startT, err := datetime.ParseMonth(plan.StartMonth)
	if err != nil {
		return fmt.Errorf("plan start month %q: %w", plan.StartMonth, err)
	}
	// Fiscal years are calendar-aligned: depreciation runs to December 31st
	// and yearly aggregates cover January through December.
	if startT.Month() != time.January {
		return fmt.Errorf("plan must start in January so fiscal years align with calendar years, got %s", plan.StartMonth)
	}

	for _, contribution := range plan.CapitalContributions {
		if err := checkMonthInHorizon(plan, contribution.Month); err != nil {
			return fmt.Errorf("contribution %s: %w", contribution.Label, err)
		}
	}

	for _, asset := range plan.Assets {
		if _, err := time.Parse(constants.DateLayout, asset.AcquiredAt); err != nil {
			return fmt.Errorf("asset %s: acquisition date %q: %w", asset.Label, asset.AcquiredAt, err)
		}
		if asset.Method != "none" && asset.DurationMonths <= 0 {
			return fmt.Errorf("asset %s: depreciable assets need a positive duration, got %d",
				asset.Label, asset.DurationMonths)
		}
		if asset.ResidualValue > asset.Amount {
			return fmt.Errorf("asset %s: residual value %.2f exceeds amount %.2f",
				asset.Label, asset.ResidualValue, asset.Amount)
		}
	}

	for _, loan := range plan.Loans {
		if loan.GraceMonths >= loan.DurationMonths {
			return fmt.Errorf("loan %s: grace period %d must be shorter than duration %d",
				loan.Label, loan.GraceMonths, loan.DurationMonths)
		}
		if _, err := datetime.ParseMonth(loan.StartMonth); err != nil {
			return fmt.Errorf("loan %s: start month %q: %w", loan.Label, loan.StartMonth, err)
		}
	}

	if err := validateLines(plan, plan.RevenueLines, category.KindRevenue); err != nil {
		return err
	}
	if err := validateLines(plan, plan.ExpenseLines, category.KindExpense); err != nil {
		return err
	}

	for _, scenario := range conf.Scenarios {
		if err := validateLines(plan, scenario.RevenueLines, category.KindRevenue); err != nil {
			return fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		if err := validateLines(plan, scenario.ExpenseLines, category.KindExpense); err != nil {
			return fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	return nil
}

func validateLines(plan Plan, lines []LineSpec, kind category.Kind) error {
	for _, line := range lines {
		cat, err := category.Parse(line.Category)
		if err != nil {
			return fmt.Errorf("line %s: %w", line.Label, err)
		}
		if cat.Kind() != kind {
			side := "an expense"
			if kind == category.KindRevenue {
				side = "a revenue"
			}
			return fmt.Errorf("line %s: category %s is not %s category", line.Label, cat, side)
		}
		if len(line.Monthly) > 0 && line.Constant != 0 {
			return fmt.Errorf("line %s: declare either monthly values or a constant, not both", line.Label)
		}
		if len(line.Monthly) > 0 && len(line.Monthly) != plan.HorizonMonths {
			return fmt.Errorf("line %s: %d monthly values do not cover the %d-month horizon",
				line.Label, len(line.Monthly), plan.HorizonMonths)
		}
		if line.VATRate != nil && (*line.VATRate < 0 || *line.VATRate > constants.PercentageMultiplier) {
			return fmt.Errorf("line %s: VAT rate %.2f is out of range", line.Label, *line.VATRate)
		}
	}
	return nil
}

func checkMonthInHorizon(plan Plan, month string) error {
	offset, err := datetime.MonthsBetween(plan.StartMonth, month)
	if err != nil {
		return err
	}
	if offset < 0 || offset >= plan.HorizonMonths {
		return fmt.Errorf("month %s is outside the %d-month horizon starting %s",
			month, plan.HorizonMonths, plan.StartMonth)
	}
	return nil
}
