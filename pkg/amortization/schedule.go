// Package amortization computes month-by-month loan amortization schedules
// for constant-installment (annuity) and constant-principal loans.
package amortization

import (
	"fmt"
	"math"

	"github.com/previsio/previsio/pkg/constants"
	"github.com/previsio/previsio/pkg/datetime"
	"github.com/previsio/previsio/pkg/mathutil"
	"go.uber.org/zap"
)

// RepaymentType selects how a loan is repaid.
type RepaymentType int

const (
	// ConstantInstallment repays with a fixed monthly annuity
	ConstantInstallment RepaymentType = iota

	// ConstantPrincipal repays a fixed principal share each month, with a
	// declining total installment
	ConstantPrincipal
)

// String returns the plan-file spelling of the repayment type.
func (t RepaymentType) String() string {
	switch t {
	case ConstantInstallment:
		return "constantInstallment"
	case ConstantPrincipal:
		return "constantPrincipal"
	}
	return fmt.Sprintf("RepaymentType(%d)", int(t))
}

// ParseRepaymentType maps a plan-file spelling to its repayment type.
func ParseRepaymentType(s string) (RepaymentType, error) {
	switch s {
	case "constantInstallment":
		return ConstantInstallment, nil
	case "constantPrincipal":
		return ConstantPrincipal, nil
	}
	return 0, fmt.Errorf("unknown repayment type %q", s)
}

// Loan describes one financing record.
type Loan struct {
	ID             string
	Label          string
	Principal      float64
	AnnualRate     float64 // percent
	DurationMonths int
	GraceMonths    int
	StartMonth     string // "2006-01"
	Type           RepaymentType
}

// Installment is one month of a loan's amortization schedule.
type Installment struct {
	Index          int
	Month          string
	OpeningBalance float64
	Principal      float64
	Interest       float64
	Payment        float64
	ClosingBalance float64
}

// MonthlyPayment computes the fixed annuity for a principal repaid over
// termMonths at the given annual rate, falling back to straight division
// when the rate is zero.
func MonthlyPayment(principal, annualRate float64, termMonths int) float64 {
	if annualRate == 0 {
		return principal / float64(termMonths)
	}
	periodicRate := annualRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	power := math.Pow(1.00+periodicRate, float64(termMonths))
	discountFactor := (power - 1.00) / power
	return principal * periodicRate / discountFactor
}

// InterestPayment computes the interest accrued on a balance for one month.
func InterestPayment(balance, annualRate float64) float64 {
	return balance * annualRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// Scheduler generates amortization schedules.
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

// Schedule computes the full amortization table for one loan, always exactly
// DurationMonths installments. During the grace window the installment is
// interest-only. Rounding drift on the final installment is folded into its
// principal portion so the closing balance ends exactly at zero.
func (s *Scheduler) Schedule(loan Loan) ([]Installment, error) {
	if loan.Principal <= 0 {
		return nil, fmt.Errorf("loan %s: principal must be positive, got %.2f", loan.Label, loan.Principal)
	}
	if loan.DurationMonths <= 0 {
		return nil, fmt.Errorf("loan %s: duration must be positive, got %d", loan.Label, loan.DurationMonths)
	}
	if loan.GraceMonths < 0 || loan.GraceMonths >= loan.DurationMonths {
		return nil, fmt.Errorf("loan %s: grace period %d must be shorter than duration %d",
			loan.Label, loan.GraceMonths, loan.DurationMonths)
	}
	if loan.AnnualRate < 0 {
		return nil, fmt.Errorf("loan %s: annual rate must not be negative, got %.2f", loan.Label, loan.AnnualRate)
	}

	repaymentMonths := loan.DurationMonths - loan.GraceMonths
	annuity := mathutil.Round(MonthlyPayment(loan.Principal, loan.AnnualRate, repaymentMonths))
	principalShare := mathutil.Round(loan.Principal / float64(repaymentMonths))

	schedule := make([]Installment, 0, loan.DurationMonths)
	balance := loan.Principal
	for m := 1; m <= loan.DurationMonths; m++ {
		month := loan.StartMonth
		if loan.StartMonth != "" {
			var err error
			month, err = datetime.OffsetMonth(loan.StartMonth, m-1)
			if err != nil {
				return nil, fmt.Errorf("loan %s: %w", loan.Label, err)
			}
		}

		installment := Installment{
			Index:          m,
			Month:          month,
			OpeningBalance: balance,
			Interest:       mathutil.Round(InterestPayment(balance, loan.AnnualRate)),
		}

		switch {
		case m <= loan.GraceMonths:
			installment.Principal = 0
			installment.Payment = installment.Interest
		case loan.Type == ConstantPrincipal:
			installment.Principal = principalShare
			installment.Payment = mathutil.Round(installment.Principal + installment.Interest)
		default:
			installment.Payment = annuity
			installment.Principal = mathutil.Round(annuity - installment.Interest)
		}

		balance = mathutil.Round(balance - installment.Principal)
		installment.ClosingBalance = balance

		if m == loan.DurationMonths && !mathutil.IsZero(balance) {
			// Fold the rounding residue into the last installment.
			s.logger.Debug("absorbing rounding residue into final installment",
				zap.String("loan", loan.Label),
				zap.Float64("residue", balance),
			)
			installment.Principal = mathutil.Round(installment.Principal + balance)
			installment.Payment = mathutil.Round(installment.Principal + installment.Interest)
			installment.ClosingBalance = 0
			balance = 0
		}

		schedule = append(schedule, installment)
	}

	return schedule, nil
}

// PaymentForMonth returns the total payment due in the given "2006-01" month,
// 0 when the month falls outside the schedule.
func PaymentForMonth(schedule []Installment, month string) float64 {
	for _, installment := range schedule {
		if installment.Month == month {
			return installment.Payment
		}
	}
	return 0
}

// InterestForYear returns the interest paid across all installments falling
// in the given calendar year.
func InterestForYear(schedule []Installment, year int) float64 {
	total := 0.0
	prefix := fmt.Sprintf("%04d-", year)
	for _, installment := range schedule {
		if len(installment.Month) >= len(prefix) && installment.Month[:len(prefix)] == prefix {
			total = mathutil.Round(total + installment.Interest)
		}
	}
	return total
}

// OutstandingAt returns the closing balance after the last installment dated
// at or before the given "2006-01" month. Before the first installment the
// full principal is outstanding.
func OutstandingAt(loan Loan, schedule []Installment, month string) (float64, error) {
	outstanding := loan.Principal
	for _, installment := range schedule {
		due, err := datetime.MonthBeforeMonth(month, installment.Month)
		if err != nil {
			return 0, err
		}
		if due {
			break
		}
		outstanding = installment.ClosingBalance
	}
	return outstanding, nil
}
