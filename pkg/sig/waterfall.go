// Package sig computes the cascading intermediate management balances
// (soldes intermédiaires de gestion) for one fiscal year.
package sig

import (
	"fmt"

	"github.com/previsio/previsio/pkg/category"
	"github.com/previsio/previsio/pkg/mathutil"
)

// PeriodFinancials aggregates the revenue and expense totals of one fiscal
// year by accounting category. Absent inputs stay at their zero value.
type PeriodFinancials struct {
	// Revenue side
	MerchandiseSales   float64
	GoodsProduction    float64
	ServiceProduction  float64
	StoredProduction   float64
	OperatingSubsidies float64
	OtherIncome        float64
	ProvisionReversals float64
	FinancialIncome    float64
	ExceptionalIncome  float64

	// Expense side
	MerchandisePurchases      float64
	MerchandiseStockVariation float64
	RawMaterialPurchases      float64
	RawMaterialStockVariation float64
	OtherPurchases            float64
	ExternalServices          float64
	OtherExternalServices     float64
	Taxes                     float64
	PersonnelCosts            float64
	DepreciationCharge        float64
	ProvisionCharges          float64
	OtherCharges              float64
	FinancialCharges          float64
	ExceptionalCharges        float64
	ProfitSharing             float64
	IncomeTax                 float64

	// Asset disposal adjustments for the self-financing capacity
	CapitalGains  float64
	CapitalLosses float64
}

// Accumulate adds an amount into the bucket matching the line category. The
// switch is exhaustive over the closed category set; an unmapped category is
// a programming error and is reported rather than silently dropped.
func (pf *PeriodFinancials) Accumulate(cat category.LineCategory, amount float64) error {
	switch cat {
	case category.MerchandiseSales:
		pf.MerchandiseSales = mathutil.Round(pf.MerchandiseSales + amount)
	case category.GoodsProduction:
		pf.GoodsProduction = mathutil.Round(pf.GoodsProduction + amount)
	case category.ServiceProduction:
		pf.ServiceProduction = mathutil.Round(pf.ServiceProduction + amount)
	case category.OperatingSubsidy:
		pf.OperatingSubsidies = mathutil.Round(pf.OperatingSubsidies + amount)
	case category.OtherIncome:
		pf.OtherIncome = mathutil.Round(pf.OtherIncome + amount)
	case category.FinancialIncome:
		pf.FinancialIncome = mathutil.Round(pf.FinancialIncome + amount)
	case category.ExceptionalIncome:
		pf.ExceptionalIncome = mathutil.Round(pf.ExceptionalIncome + amount)
	case category.MerchandisePurchase:
		pf.MerchandisePurchases = mathutil.Round(pf.MerchandisePurchases + amount)
	case category.RawMaterialPurchase:
		pf.RawMaterialPurchases = mathutil.Round(pf.RawMaterialPurchases + amount)
	case category.OtherPurchase:
		pf.OtherPurchases = mathutil.Round(pf.OtherPurchases + amount)
	case category.ExternalService:
		pf.ExternalServices = mathutil.Round(pf.ExternalServices + amount)
	case category.OtherExternalService:
		pf.OtherExternalServices = mathutil.Round(pf.OtherExternalServices + amount)
	case category.Tax:
		pf.Taxes = mathutil.Round(pf.Taxes + amount)
	case category.Personnel:
		pf.PersonnelCosts = mathutil.Round(pf.PersonnelCosts + amount)
	case category.FinancialCharge:
		pf.FinancialCharges = mathutil.Round(pf.FinancialCharges + amount)
	case category.ExceptionalCharge:
		pf.ExceptionalCharges = mathutil.Round(pf.ExceptionalCharges + amount)
	case category.OtherCharge:
		pf.OtherCharges = mathutil.Round(pf.OtherCharges + amount)
	default:
		return fmt.Errorf("line category %v has no income-statement bucket", cat)
	}
	return nil
}

// Result holds the cascading balances for one fiscal year. Each figure
// depends only on figures above it in the struct.
type Result struct {
	CommercialMargin      float64
	PeriodProduction      float64
	ExternalConsumption   float64
	ValueAdded            float64
	EBE                   float64
	OperatingResult       float64
	PreTaxResult          float64
	ExceptionalResult     float64
	NetResult             float64
	SelfFinancingCapacity float64
}

// Compute runs the waterfall over one fiscal year's aggregates. The
// computation is total: it has no failure modes and all-zero inputs yield
// all-zero outputs. The figures form a strict cascade and must be computed
// in this order.
func Compute(pf PeriodFinancials) Result {
	var r Result

	r.CommercialMargin = mathutil.Round(pf.MerchandiseSales - pf.MerchandisePurchases - pf.MerchandiseStockVariation)
	r.PeriodProduction = mathutil.Round(pf.GoodsProduction + pf.ServiceProduction + pf.StoredProduction)
	r.ExternalConsumption = mathutil.Round(pf.RawMaterialPurchases + pf.RawMaterialStockVariation +
		pf.OtherPurchases + pf.ExternalServices + pf.OtherExternalServices)
	r.ValueAdded = mathutil.Round(r.CommercialMargin + r.PeriodProduction - r.ExternalConsumption)
	r.EBE = mathutil.Round(r.ValueAdded + pf.OperatingSubsidies - pf.Taxes - pf.PersonnelCosts)
	r.OperatingResult = mathutil.Round(r.EBE + pf.OtherIncome + pf.ProvisionReversals -
		pf.DepreciationCharge - pf.ProvisionCharges - pf.OtherCharges)
	r.PreTaxResult = mathutil.Round(r.OperatingResult + pf.FinancialIncome - pf.FinancialCharges)
	r.ExceptionalResult = mathutil.Round(pf.ExceptionalIncome - pf.ExceptionalCharges)
	r.NetResult = mathutil.Round(r.PreTaxResult + r.ExceptionalResult - pf.ProfitSharing - pf.IncomeTax)
	r.SelfFinancingCapacity = mathutil.Round(r.NetResult + pf.DepreciationCharge + pf.ProvisionCharges -
		pf.ProvisionReversals - pf.CapitalGains + pf.CapitalLosses)

	return r
}
