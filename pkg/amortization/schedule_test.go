package amortization

import (
	"math"
	"testing"
)

func testLoan(principal, rate float64, duration, grace int, repaymentType RepaymentType) Loan {
	return Loan{
		ID:             "loan-1",
		Label:          "test loan",
		Principal:      principal,
		AnnualRate:     rate,
		DurationMonths: duration,
		GraceMonths:    grace,
		StartMonth:     "2026-01",
		Type:           repaymentType,
	}
}

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name          string
		principal     float64
		annualRate    float64
		termMonths    int
		expectedRange []float64 // [min, max]
	}{
		{
			name:          "One year at 12 percent",
			principal:     10000,
			annualRate:    12.0,
			termMonths:    12,
			expectedRange: []float64{888, 889}, // around 888.49
		},
		{
			name:          "Five years at 4 percent",
			principal:     30000,
			annualRate:    4.0,
			termMonths:    60,
			expectedRange: []float64{550, 555}, // around 552.50
		},
		{
			name:          "Zero interest",
			principal:     12000,
			annualRate:    0.0,
			termMonths:    60,
			expectedRange: []float64{200, 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MonthlyPayment(tt.principal, tt.annualRate, tt.termMonths)
			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("MonthlyPayment() = %.2f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestScheduleLength(t *testing.T) {
	scheduler := NewScheduler(nil)
	for _, duration := range []int{1, 12, 60, 240} {
		schedule, err := scheduler.Schedule(testLoan(10000, 5, duration, 0, ConstantInstallment))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(schedule) != duration {
			t.Errorf("duration %d: got %d installments", duration, len(schedule))
		}
	}
}

func TestLoanClosure(t *testing.T) {
	tests := []struct {
		name string
		loan Loan
	}{
		{"Annuity", testLoan(10000, 12, 12, 0, ConstantInstallment)},
		{"Annuity long", testLoan(250000, 3.5, 240, 0, ConstantInstallment)},
		{"Constant principal", testLoan(30000, 4, 60, 0, ConstantPrincipal)},
		{"Zero rate", testLoan(1200, 0, 12, 0, ConstantInstallment)},
		{"With grace", testLoan(50000, 6, 84, 6, ConstantInstallment)},
		{"Awkward principal", testLoan(9999.99, 7.13, 37, 0, ConstantInstallment)},
	}

	scheduler := NewScheduler(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule, err := scheduler.Schedule(tt.loan)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			final := schedule[len(schedule)-1]
			if final.ClosingBalance != 0 {
				t.Errorf("final closing balance = %v, expected exactly 0", final.ClosingBalance)
			}

			totalPrincipal := 0.0
			for _, installment := range schedule {
				totalPrincipal += installment.Principal
			}
			if math.Abs(totalPrincipal-tt.loan.Principal) > 0.01 {
				t.Errorf("sum of principal portions = %v, expected %v", totalPrincipal, tt.loan.Principal)
			}

			for i, installment := range schedule {
				expected := installment.OpeningBalance - installment.Principal
				if math.Abs(installment.ClosingBalance-expected) > 0.01 {
					t.Errorf("installment %d: closing balance %v does not equal opening minus principal %v",
						i+1, installment.ClosingBalance, expected)
				}
			}
		})
	}
}

func TestGracePeriodIsolation(t *testing.T) {
	scheduler := NewScheduler(nil)
	loan := testLoan(10000, 6, 12, 2, ConstantInstallment)
	schedule, err := scheduler.Schedule(loan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < loan.GraceMonths; i++ {
		installment := schedule[i]
		if installment.Principal != 0 {
			t.Errorf("grace month %d: principal = %v, expected 0", i+1, installment.Principal)
		}
		if installment.Payment != installment.Interest {
			t.Errorf("grace month %d: payment %v does not equal interest %v",
				i+1, installment.Payment, installment.Interest)
		}
		if installment.ClosingBalance != loan.Principal {
			t.Errorf("grace month %d: balance moved to %v", i+1, installment.ClosingBalance)
		}
		// 10000 at 6% accrues exactly 50 per month.
		if installment.Interest != 50 {
			t.Errorf("grace month %d: interest = %v, expected 50", i+1, installment.Interest)
		}
	}

	if schedule[loan.GraceMonths].Principal <= 0 {
		t.Errorf("first month after grace should repay principal")
	}
}

func TestConstantPrincipalDecliningPayments(t *testing.T) {
	scheduler := NewScheduler(nil)
	schedule, err := scheduler.Schedule(testLoan(12000, 6, 12, 0, ConstantPrincipal))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, installment := range schedule {
		if math.Abs(installment.Principal-1000) > 0.01 && i != len(schedule)-1 {
			t.Errorf("installment %d: principal = %v, expected 1000", i+1, installment.Principal)
		}
		if i > 0 && installment.Payment > schedule[i-1].Payment+0.01 {
			t.Errorf("installment %d: payment increased", i+1)
		}
	}

	// First payment: 1000 principal + 60 interest on the full balance.
	if math.Abs(schedule[0].Payment-1060) > 0.01 {
		t.Errorf("first payment = %v, expected 1060", schedule[0].Payment)
	}
}

func TestZeroRateFallsBackToStraightDivision(t *testing.T) {
	scheduler := NewScheduler(nil)
	schedule, err := scheduler.Schedule(testLoan(1200, 0, 12, 0, ConstantInstallment))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, installment := range schedule {
		if installment.Interest != 0 {
			t.Errorf("installment %d: interest = %v, expected 0", i+1, installment.Interest)
		}
		if math.Abs(installment.Payment-100) > 0.01 {
			t.Errorf("installment %d: payment = %v, expected 100", i+1, installment.Payment)
		}
	}
}

func TestScheduleMonths(t *testing.T) {
	scheduler := NewScheduler(nil)
	schedule, err := scheduler.Schedule(testLoan(10000, 5, 14, 0, ConstantInstallment))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schedule[0].Month != "2026-01" {
		t.Errorf("first month = %s, expected 2026-01", schedule[0].Month)
	}
	if schedule[12].Month != "2027-01" {
		t.Errorf("thirteenth month = %s, expected 2027-01", schedule[12].Month)
	}
}

func TestStructuralValidation(t *testing.T) {
	scheduler := NewScheduler(nil)
	tests := []struct {
		name string
		loan Loan
	}{
		{"Negative principal", testLoan(-100, 5, 12, 0, ConstantInstallment)},
		{"Zero principal", testLoan(0, 5, 12, 0, ConstantInstallment)},
		{"Zero duration", testLoan(100, 5, 0, 0, ConstantInstallment)},
		{"Grace equals duration", testLoan(100, 5, 12, 12, ConstantInstallment)},
		{"Negative grace", testLoan(100, 5, 12, -1, ConstantInstallment)},
		{"Negative rate", testLoan(100, -5, 12, 0, ConstantInstallment)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := scheduler.Schedule(tt.loan); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestOutstandingAt(t *testing.T) {
	scheduler := NewScheduler(nil)
	loan := testLoan(12000, 0, 12, 0, ConstantPrincipal)
	schedule, err := scheduler.Schedule(loan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		month    string
		expected float64
	}{
		{"2025-12", 12000}, // before the first installment
		{"2026-01", 11000},
		{"2026-06", 6000},
		{"2026-12", 0},
		{"2027-06", 0}, // after maturity
	}
	for _, tt := range tests {
		result, err := OutstandingAt(loan, schedule, tt.month)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if math.Abs(result-tt.expected) > 0.01 {
			t.Errorf("OutstandingAt(%s) = %v, expected %v", tt.month, result, tt.expected)
		}
	}
}

func TestPaymentForMonth(t *testing.T) {
	scheduler := NewScheduler(nil)
	schedule, err := scheduler.Schedule(testLoan(1200, 0, 12, 0, ConstantInstallment))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment := PaymentForMonth(schedule, "2026-05"); math.Abs(payment-100) > 0.01 {
		t.Errorf("PaymentForMonth(2026-05) = %v, expected 100", payment)
	}
	if payment := PaymentForMonth(schedule, "2030-01"); payment != 0 {
		t.Errorf("PaymentForMonth outside schedule = %v, expected 0", payment)
	}
}

func TestInterestForYear(t *testing.T) {
	scheduler := NewScheduler(nil)
	// 10000 at 6% with interest-only grace for all of 2026: 50 per month.
	loan := testLoan(10000, 6, 24, 12, ConstantInstallment)
	schedule, err := scheduler.Schedule(loan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if interest := InterestForYear(schedule, 2026); math.Abs(interest-600) > 0.01 {
		t.Errorf("InterestForYear(2026) = %v, expected 600", interest)
	}
	if interest := InterestForYear(schedule, 2030); interest != 0 {
		t.Errorf("InterestForYear outside schedule = %v, expected 0", interest)
	}
}
