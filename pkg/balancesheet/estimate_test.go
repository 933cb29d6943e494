package balancesheet

import (
	"math"
	"testing"

	"github.com/previsio/previsio/pkg/amortization"
	"github.com/previsio/previsio/pkg/cashflow"
	"github.com/previsio/previsio/pkg/datetime"
	"github.com/previsio/previsio/pkg/depreciation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func buildFlows(t *testing.T, balances []float64) []cashflow.MonthlyFlow {
	t.Helper()
	flows := make([]cashflow.MonthlyFlow, len(balances))
	for i, balance := range balances {
		flows[i] = cashflow.MonthlyFlow{Month: i, Balance: balance}
	}
	return flows
}

func yearEndBalances(perYear ...float64) []float64 {
	var balances []float64
	for _, b := range perYear {
		for m := 0; m < 12; m++ {
			balances = append(balances, b)
		}
	}
	return balances
}

func testInput(t *testing.T) Input {
	t.Helper()

	depreciationScheduler := depreciation.NewScheduler(nil)
	asset := depreciation.Asset{
		ID:             "machine",
		Label:          "machine",
		Amount:         12000,
		AcquiredAt:     datetime.MustParseTime(datetime.DateLayout, "2026-01-01"),
		Method:         depreciation.MethodLinear,
		DurationMonths: 36,
	}
	assetSchedule, err := depreciationScheduler.Schedule(asset)
	if err != nil {
		t.Fatalf("failed to schedule asset: %v", err)
	}

	loanScheduler := amortization.NewScheduler(nil)
	loan := amortization.Loan{
		ID:             "bank",
		Label:          "bank loan",
		Principal:      24000,
		AnnualRate:     0,
		DurationMonths: 24,
		StartMonth:     "2026-01",
		Type:           amortization.ConstantPrincipal,
	}
	loanSchedule, err := loanScheduler.Schedule(loan)
	if err != nil {
		t.Fatalf("failed to schedule loan: %v", err)
	}

	return Input{
		StartMonth:         "2026-01",
		Flows:              buildFlows(t, yearEndBalances(8000, -1500)),
		Assets:             []AssetPosition{{Asset: asset, Schedule: assetSchedule}},
		Loans:              []LoanPosition{{Loan: loan, Schedule: loanSchedule}},
		Contributions:      []cashflow.CashEvent{{Label: "capital", Month: 0, Amount: 10000}},
		Delays:             cashflow.Delays{ClientDays: 30, SupplierDays: 60},
		StockRotationDays:  15,
		NetResultsByYear:   []float64{3000, 4500},
		RevenueTTCByYear:   []float64{120000, 144000},
		PurchasesTTCByYear: []float64{60000, 72000},
	}
}

func TestEstimateBalancesByConstruction(t *testing.T) {
	estimator := NewEstimator(nil)
	sheets, err := estimator.Estimate(testInput(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("expected 2 fiscal years, got %d", len(sheets))
	}
	for _, sheet := range sheets {
		if sheet.TotalAssets != sheet.TotalLiabilities {
			t.Errorf("year %d: total assets %v != total liabilities %v",
				sheet.Year, sheet.TotalAssets, sheet.TotalLiabilities)
		}
	}
}

func TestEstimateAssetSide(t *testing.T) {
	estimator := NewEstimator(nil)
	sheets, err := estimator.Estimate(testInput(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := sheets[0]
	// 12000 gross minus one year of linear depreciation.
	if first.NetFixedAssets != 8000 {
		t.Errorf("net fixed assets = %v, expected 8000", first.NetFixedAssets)
	}
	// 120000 TTC revenue at 30 client days over a 360-day year.
	if first.TradeReceivables != 10000 {
		t.Errorf("trade receivables = %v, expected 10000", first.TradeReceivables)
	}
	// 60000 TTC purchases at 15 stock days.
	if first.Inventory != 2500 {
		t.Errorf("inventory = %v, expected 2500", first.Inventory)
	}
	if first.Cash != 8000 || first.BankOverdraft != 0 {
		t.Errorf("year 1: cash %v overdraft %v, expected 8000 and 0", first.Cash, first.BankOverdraft)
	}

	second := sheets[1]
	if second.NetFixedAssets != 4000 {
		t.Errorf("year 2 net fixed assets = %v, expected 4000", second.NetFixedAssets)
	}
	if second.Cash != 0 || second.BankOverdraft != 1500 {
		t.Errorf("year 2: cash %v overdraft %v, expected 0 and 1500", second.Cash, second.BankOverdraft)
	}
}

func TestEstimateLiabilitySide(t *testing.T) {
	estimator := NewEstimator(nil)
	sheets, err := estimator.Estimate(testInput(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := sheets[0]
	if first.ShareCapital != 10000 {
		t.Errorf("share capital = %v, expected 10000", first.ShareCapital)
	}
	if first.RetainedEarnings != 0 {
		t.Errorf("retained earnings = %v, expected 0", first.RetainedEarnings)
	}
	if first.NetResult != 3000 {
		t.Errorf("net result = %v, expected 3000", first.NetResult)
	}
	// 24000 over 24 months: 12000 outstanding after 12 repayments.
	if math.Abs(first.LoanPrincipal-12000) > 0.01 {
		t.Errorf("loan principal = %v, expected 12000", first.LoanPrincipal)
	}
	// 60000 TTC purchases at 60 supplier days.
	if first.TradePayables != 10000 {
		t.Errorf("trade payables = %v, expected 10000", first.TradePayables)
	}

	second := sheets[1]
	if second.RetainedEarnings != 3000 {
		t.Errorf("year 2 retained earnings = %v, expected 3000", second.RetainedEarnings)
	}
	if math.Abs(second.LoanPrincipal) > 0.01 {
		t.Errorf("year 2 loan principal = %v, expected 0", second.LoanPrincipal)
	}
}

func TestEstimatePlugIsExplicit(t *testing.T) {
	estimator := NewEstimator(nil)
	sheets, err := estimator.Estimate(testInput(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, sheet := range sheets {
		explained := sheet.ShareCapital + sheet.RetainedEarnings + sheet.NetResult +
			sheet.LoanPrincipal + sheet.TradePayables + sheet.BankOverdraft
		if math.Abs(explained+sheet.UnexplainedLiabilities-sheet.TotalAssets) > 0.01 {
			t.Errorf("year %d: plug %v does not reconcile explained %v against assets %v",
				sheet.Year, sheet.UnexplainedLiabilities, explained, sheet.TotalAssets)
		}
	}
}

func TestEstimateWarnsOnOutsizedPlug(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	estimator := NewEstimator(zap.New(core))

	// A cash pile with no modeled financing leaves the whole asset side
	// unexplained, far past the drift threshold.
	input := Input{
		StartMonth:         "2026-01",
		Flows:              buildFlows(t, yearEndBalances(100000)),
		NetResultsByYear:   []float64{0},
		RevenueTTCByYear:   []float64{0},
		PurchasesTTCByYear: []float64{0},
	}

	sheets, err := estimator.Estimate(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sheets[0].UnexplainedLiabilities != 100000 {
		t.Errorf("unexplained liabilities = %v, expected 100000", sheets[0].UnexplainedLiabilities)
	}

	warnings := logs.FilterMessage("balance-sheet reconciling entry is unreasonably large, model is drifting")
	if warnings.Len() != 1 {
		t.Fatalf("expected 1 drift warning, got %d", warnings.Len())
	}
	fields := warnings.All()[0].ContextMap()
	if fields["unexplainedLiabilities"] != 100000.0 {
		t.Errorf("warning carries plug %v, expected 100000", fields["unexplainedLiabilities"])
	}
}

func TestEstimateNoWarningBelowThreshold(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	estimator := NewEstimator(zap.New(core))

	// 9000 of capital explains most of the 10000 cash pile: the plug is
	// 1000 against 10000 of assets, under the drift threshold.
	input := Input{
		StartMonth:         "2026-01",
		Flows:              buildFlows(t, yearEndBalances(10000)),
		Contributions:      []cashflow.CashEvent{{Label: "capital", Month: 0, Amount: 9000}},
		NetResultsByYear:   []float64{0},
		RevenueTTCByYear:   []float64{0},
		PurchasesTTCByYear: []float64{0},
	}

	sheets, err := estimator.Estimate(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sheets[0].UnexplainedLiabilities != 1000 {
		t.Errorf("unexplained liabilities = %v, expected 1000", sheets[0].UnexplainedLiabilities)
	}
	if logs.Len() != 0 {
		t.Errorf("expected no warnings, got %d", logs.Len())
	}
}

func TestEstimateValidatesInput(t *testing.T) {
	estimator := NewEstimator(nil)

	input := testInput(t)
	input.Flows = nil
	if _, err := estimator.Estimate(input); err == nil {
		t.Errorf("expected error for empty cash flow")
	}

	input = testInput(t)
	input.NetResultsByYear = []float64{1000}
	if _, err := estimator.Estimate(input); err == nil {
		t.Errorf("expected error for mismatched yearly aggregates")
	}

	input = testInput(t)
	input.StartMonth = "bogus"
	if _, err := estimator.Estimate(input); err == nil {
		t.Errorf("expected error for malformed start month")
	}
}

func TestEstimatePartialFinalYear(t *testing.T) {
	// A 30-month horizon covers three fiscal years, the last one partial.
	input := testInput(t)
	input.Flows = buildFlows(t, make([]float64, 30))
	input.NetResultsByYear = []float64{0, 0, 0}
	input.RevenueTTCByYear = []float64{0, 0, 0}
	input.PurchasesTTCByYear = []float64{0, 0, 0}

	estimator := NewEstimator(nil)
	sheets, err := estimator.Estimate(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sheets) != 3 {
		t.Fatalf("expected 3 fiscal years, got %d", len(sheets))
	}
	if sheets[2].YearEndMonth != "2028-06" {
		t.Errorf("partial year end month = %s, expected 2028-06", sheets[2].YearEndMonth)
	}
}
