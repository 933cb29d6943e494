// Package output provides utilities for formatting and displaying projection
// results.
package output

import (
	"fmt"
	"io"

	"github.com/previsio/previsio/internal/projection"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes a human-readable rendering of the projection.
func PrettyFormat(w io.Writer, result projection.Projection) {
	p := message.NewPrinter(language.French)
	for _, scenario := range result.Scenarios {
		fmt.Fprintf(w, "--- Results for scenario %s ---\n\n", scenario.Name)

		fmt.Fprintf(w, "Income statement (SIG)\n")
		fmt.Fprintf(w, "Year | Value added   | EBE           | Net result    | CAF\n")
		fmt.Fprintf(w, "____ | _____________ | _____________ | _____________ | _____________\n")
		for _, income := range scenario.Income {
			_, _ = p.Fprintf(w, "%d | %.2f | %.2f | %.2f | %.2f\n",
				income.CalendarYear,
				income.Result.ValueAdded,
				income.Result.EBE,
				income.Result.NetResult,
				income.Result.SelfFinancingCapacity,
			)
		}

		fmt.Fprintf(w, "\nMonthly cash flow\n")
		fmt.Fprintf(w, "Month | Receipts      | Disbursements | Balance\n")
		fmt.Fprintf(w, "_____ | _____________ | _____________ | _____________\n")
		for _, flow := range scenario.CashFlow {
			_, _ = p.Fprintf(w, "%d | %.2f | %.2f | %.2f\n",
				flow.Month+1, flow.Receipts.Total, flow.Disbursements.Total, flow.Balance)
		}

		fmt.Fprintf(w, "\nYear-end balance sheets\n")
		fmt.Fprintf(w, "Year | Total assets  | Loan balance  | Unexplained\n")
		fmt.Fprintf(w, "____ | _____________ | _____________ | ___________\n")
		for _, sheet := range scenario.BalanceSheets {
			_, _ = p.Fprintf(w, "%d | %.2f | %.2f | %.2f\n",
				sheet.CalendarYear, sheet.TotalAssets, sheet.LoanPrincipal, sheet.UnexplainedLiabilities)
		}

		if len(result.Scenarios) > 1 {
			fmt.Fprintf(w, "\n")
		}
	}
}

// CsvFormat writes the monthly cash flow of every scenario in
// comma-separated value format. All scenarios share the same timeline.
func CsvFormat(w io.Writer, result projection.Projection) {
	fmt.Fprintf(w, `"month"`)
	for _, scenario := range result.Scenarios {
		fmt.Fprintf(w, `,"receipts (%s)","disbursements (%s)","balance (%s)"`,
			scenario.Name, scenario.Name, scenario.Name)
	}
	fmt.Fprintf(w, "\n")

	for m := 0; m < result.Horizon; m++ {
		fmt.Fprintf(w, `"%d"`, m+1)
		for _, scenario := range result.Scenarios {
			flow := scenario.CashFlow[m]
			fmt.Fprintf(w, `,"%.2f","%.2f","%.2f"`,
				flow.Receipts.Total, flow.Disbursements.Total, flow.Balance)
		}
		fmt.Fprintf(w, "\n")
	}
}

// ScheduleFormat writes the per-asset depreciation tables and per-loan
// amortization tables of one scenario.
func ScheduleFormat(w io.Writer, scenario projection.ScenarioProjection) {
	for _, position := range scenario.AssetSchedules {
		fmt.Fprintf(w, "Depreciation schedule for %s\n", position.Asset.Label)
		fmt.Fprintf(w, "Year | Charge        | Cumulative    | Net book value\n")
		for _, line := range position.Schedule {
			fmt.Fprintf(w, "%d | %.2f | %.2f | %.2f\n",
				line.Year, line.Charge, line.Cumulative, line.NetBookValue)
		}
		fmt.Fprintf(w, "\n")
	}
	for _, position := range scenario.LoanSchedules {
		fmt.Fprintf(w, "Amortization schedule for %s\n", position.Loan.Label)
		fmt.Fprintf(w, "Month   | Payment       | Principal     | Interest      | Balance\n")
		for _, installment := range position.Schedule {
			fmt.Fprintf(w, "%s | %.2f | %.2f | %.2f | %.2f\n",
				installment.Month, installment.Payment, installment.Principal,
				installment.Interest, installment.ClosingBalance)
		}
		fmt.Fprintf(w, "\n")
	}
}
