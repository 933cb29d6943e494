// Package category defines the closed set of revenue and expense line
// categories and their classification. Plan lines carry one of these tags;
// free-form category strings are rejected at the configuration boundary.
package category

import "fmt"

// Kind distinguishes revenue lines from expense lines.
type Kind int

const (
	// KindRevenue marks categories that increase income
	KindRevenue Kind = iota

	// KindExpense marks categories that increase charges
	KindExpense
)

// LineCategory is a closed tag classifying one plan line.
type LineCategory int

const (
	// MerchandiseSales is revenue from reselling purchased goods
	MerchandiseSales LineCategory = iota

	// GoodsProduction is revenue from goods produced by the business
	GoodsProduction

	// ServiceProduction is revenue from services rendered
	ServiceProduction

	// OperatingSubsidy is operating subsidies received
	OperatingSubsidy

	// OtherIncome is miscellaneous operating income
	OtherIncome

	// FinancialIncome is interest and other financial income
	FinancialIncome

	// ExceptionalIncome is non-recurring income
	ExceptionalIncome

	// MerchandisePurchase is the purchase cost of goods for resale
	MerchandisePurchase

	// RawMaterialPurchase is the purchase cost of raw materials
	RawMaterialPurchase

	// OtherPurchase is other consumable purchases
	OtherPurchase

	// ExternalService is subcontracting, rent, maintenance and similar
	ExternalService

	// OtherExternalService is fees, advertising, travel and similar
	OtherExternalService

	// Tax is taxes and duties other than income tax
	Tax

	// Personnel is wages and social contributions
	Personnel

	// FinancialCharge is loan interest and other financial charges
	FinancialCharge

	// ExceptionalCharge is non-recurring charges
	ExceptionalCharge

	// OtherCharge is miscellaneous operating charges
	OtherCharge
)

var names = map[LineCategory]string{
	MerchandiseSales:     "merchandiseSales",
	GoodsProduction:      "goodsProduction",
	ServiceProduction:    "serviceProduction",
	OperatingSubsidy:     "operatingSubsidy",
	OtherIncome:          "otherIncome",
	FinancialIncome:      "financialIncome",
	ExceptionalIncome:    "exceptionalIncome",
	MerchandisePurchase:  "merchandisePurchase",
	RawMaterialPurchase:  "rawMaterialPurchase",
	OtherPurchase:        "otherPurchase",
	ExternalService:      "externalService",
	OtherExternalService: "otherExternalService",
	Tax:                  "tax",
	Personnel:            "personnel",
	FinancialCharge:      "financialCharge",
	ExceptionalCharge:    "exceptionalCharge",
	OtherCharge:          "otherCharge",
}

// All returns every defined category. Tests iterate this list to keep the
// classification exhaustive.
func All() []LineCategory {
	all := make([]LineCategory, 0, len(names))
	for cat := MerchandiseSales; cat <= OtherCharge; cat++ {
		all = append(all, cat)
	}
	return all
}

// String returns the plan-file spelling of the category.
func (c LineCategory) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("LineCategory(%d)", int(c))
}

// Kind reports whether the category is a revenue or an expense tag.
func (c LineCategory) Kind() Kind {
	if c <= ExceptionalIncome {
		return KindRevenue
	}
	return KindExpense
}

// Parse maps a plan-file spelling to its category. Unknown spellings are an
// error; there is no fallback bucket.
func Parse(s string) (LineCategory, error) {
	for cat, name := range names {
		if name == s {
			return cat, nil
		}
	}
	return 0, fmt.Errorf("unknown line category %q", s)
}
