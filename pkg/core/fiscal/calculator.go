// Package fiscal declares the tax computations the yearly ledger depends on.
// Rate tables are owned by the Calculator implementation injected for a
// simulated year; StandardModel is a bracket-based implementation whose
// parameters come from the scenario file.
package fiscal

// Calculator is the set of pure fiscal functions used by the ledger.
type Calculator interface {
	// Taxable bases
	TaxableWorkIncome(salary float64) float64
	TaxablePension(pension float64) float64
	TaxableRent(rent float64) float64

	// IncomeTax is the IRPP of a household (family quotient applied).
	IncomeTax(taxable float64, nbAdults, nbChildren int) float64
	FlatTax(base float64) float64
	WealthTax(base float64) float64
	CompanyProfitTax(profit float64) float64

	SocialTaxRate() float64
	SocialTaxesOnCapital(base float64) float64

	// LifeInsuranceRebate is the yearly allowance on life-insurance taxable
	// interest shared by the household.
	LifeInsuranceRebate(nbAdults int) float64
	RealEstateCapitalGainTax(gain float64, detentionYears int) float64

	InheritanceTax(received float64, isSpouse bool) float64
	LifeInsuranceInheritanceTax(received float64, isSpouse bool) float64
}

// Bracket is a marginal tax slice starting at Floor.
type Bracket struct {
	Floor float64 `json:"floor" yaml:"floor"`
	Rate  float64 `json:"rate" yaml:"rate"`
}

// Brackets is a progressive scale sorted by ascending floor.
type Brackets []Bracket

// Tax applies the progressive scale to base.
func (b Brackets) Tax(base float64) float64 {
	if base <= 0 {
		return 0
	}
	tax := 0.0
	for i, bracket := range b {
		if base <= bracket.Floor {
			break
		}
		top := base
		if i+1 < len(b) && b[i+1].Floor < base {
			top = b[i+1].Floor
		}
		tax += (top - bracket.Floor) * bracket.Rate
	}
	return tax
}

// MarginalRate returns the rate of the slice containing base.
func (b Brackets) MarginalRate(base float64) float64 {
	rate := 0.0
	for _, bracket := range b {
		if base > bracket.Floor {
			rate = bracket.Rate
		}
	}
	return rate
}
