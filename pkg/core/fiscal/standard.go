package fiscal

import "math"

// StandardModel implements Calculator with configurable scales.
type StandardModel struct {
	WorkIncomeAbatement float64  `json:"work_income_abatement" yaml:"work_income_abatement"`
	PensionAbatement    float64  `json:"pension_abatement" yaml:"pension_abatement"`
	RentAbatement       float64  `json:"rent_abatement" yaml:"rent_abatement"`
	IncomeTaxBrackets   Brackets `json:"income_tax_brackets" yaml:"income_tax_brackets"`

	FlatTaxRate   float64 `json:"flat_tax_rate" yaml:"flat_tax_rate"`
	SocialTaxes   float64 `json:"social_tax_rate" yaml:"social_tax_rate"`
	CompanyTaxLow float64 `json:"company_tax_low_rate" yaml:"company_tax_low_rate"`
	CompanyTaxCap float64 `json:"company_tax_low_cap" yaml:"company_tax_low_cap"`
	CompanyTax    float64 `json:"company_tax_rate" yaml:"company_tax_rate"`

	WealthTaxThreshold float64  `json:"wealth_tax_threshold" yaml:"wealth_tax_threshold"`
	WealthTaxBrackets  Brackets `json:"wealth_tax_brackets" yaml:"wealth_tax_brackets"`

	LifeInsuranceRebatePerAdult float64 `json:"life_insurance_rebate" yaml:"life_insurance_rebate"`

	CapitalGainIncomeTaxRate float64 `json:"capital_gain_income_tax_rate" yaml:"capital_gain_income_tax_rate"`

	ChildAllowance       float64  `json:"child_allowance" yaml:"child_allowance"`
	InheritanceBrackets  Brackets `json:"inheritance_brackets" yaml:"inheritance_brackets"`
	LifeInsuranceAllow   float64  `json:"life_insurance_allowance" yaml:"life_insurance_allowance"`
	LifeInsuranceBracket Brackets `json:"life_insurance_brackets" yaml:"life_insurance_brackets"`
}

// DefaultModel returns the scales in force for the 2024 income year.
func DefaultModel() *StandardModel {
	return &StandardModel{
		WorkIncomeAbatement: 0.10,
		PensionAbatement:    0.10,
		RentAbatement:       0.30,
		IncomeTaxBrackets: Brackets{
			{0, 0},
			{11294, 0.11},
			{28797, 0.30},
			{82341, 0.41},
			{177106, 0.45},
		},
		FlatTaxRate:        0.128,
		SocialTaxes:        0.172,
		CompanyTaxLow:      0.15,
		CompanyTaxCap:      42500,
		CompanyTax:         0.25,
		WealthTaxThreshold: 1_300_000,
		WealthTaxBrackets: Brackets{
			{0, 0},
			{800_000, 0.005},
			{1_300_000, 0.007},
			{2_570_000, 0.01},
			{5_000_000, 0.0125},
			{10_000_000, 0.015},
		},
		LifeInsuranceRebatePerAdult: 4600,
		CapitalGainIncomeTaxRate:    0.19,
		ChildAllowance:              100_000,
		InheritanceBrackets: Brackets{
			{0, 0.05},
			{8072, 0.10},
			{12109, 0.15},
			{15932, 0.20},
			{552324, 0.30},
			{902838, 0.40},
			{1805677, 0.45},
		},
		LifeInsuranceAllow: 152_500,
		LifeInsuranceBracket: Brackets{
			{0, 0.20},
			{700_000, 0.3125},
		},
	}
}

func (m *StandardModel) TaxableWorkIncome(salary float64) float64 {
	return math.Max(0, salary*(1-m.WorkIncomeAbatement))
}

func (m *StandardModel) TaxablePension(pension float64) float64 {
	return math.Max(0, pension*(1-m.PensionAbatement))
}

func (m *StandardModel) TaxableRent(rent float64) float64 {
	return math.Max(0, rent*(1-m.RentAbatement))
}

// FamilyParts returns the family quotient: one part per adult, half a part
// for each of the first two children and one part from the third.
func FamilyParts(nbAdults, nbChildren int) float64 {
	parts := float64(nbAdults)
	if parts < 1 {
		parts = 1
	}
	for i := 1; i <= nbChildren; i++ {
		if i <= 2 {
			parts += 0.5
		} else {
			parts++
		}
	}
	return parts
}

func (m *StandardModel) IncomeTax(taxable float64, nbAdults, nbChildren int) float64 {
	parts := FamilyParts(nbAdults, nbChildren)
	return parts * m.IncomeTaxBrackets.Tax(taxable/parts)
}

func (m *StandardModel) FlatTax(base float64) float64 {
	return math.Max(0, base) * m.FlatTaxRate
}

// WealthTax returns zero below the threshold, the full scale above it.
func (m *StandardModel) WealthTax(base float64) float64 {
	if base < m.WealthTaxThreshold {
		return 0
	}
	return m.WealthTaxBrackets.Tax(base)
}

func (m *StandardModel) CompanyProfitTax(profit float64) float64 {
	if profit <= 0 {
		return 0
	}
	low := math.Min(profit, m.CompanyTaxCap)
	return low*m.CompanyTaxLow + (profit-low)*m.CompanyTax
}

func (m *StandardModel) SocialTaxRate() float64 { return m.SocialTaxes }

func (m *StandardModel) SocialTaxesOnCapital(base float64) float64 {
	return math.Max(0, base) * m.SocialTaxes
}

func (m *StandardModel) LifeInsuranceRebate(nbAdults int) float64 {
	if nbAdults <= 0 {
		return 0
	}
	if nbAdults > 2 {
		nbAdults = 2
	}
	return float64(nbAdults) * m.LifeInsuranceRebatePerAdult
}

// RealEstateCapitalGainTax applies the detention abatements: income tax part
// exempt after 22 years, social part after 30 years.
func (m *StandardModel) RealEstateCapitalGainTax(gain float64, detentionYears int) float64 {
	if gain <= 0 {
		return 0
	}
	irAbatement, socialAbatement := 0.0, 0.0
	for y := 6; y <= detentionYears && y <= 30; y++ {
		switch {
		case y <= 21:
			irAbatement += 0.06
			socialAbatement += 0.0165
		case y == 22:
			irAbatement += 0.04
			socialAbatement += 0.016
		default:
			socialAbatement += 0.09
		}
	}
	irAbatement = math.Min(1, irAbatement)
	socialAbatement = math.Min(1, socialAbatement)
	return gain*(1-irAbatement)*m.CapitalGainIncomeTaxRate + gain*(1-socialAbatement)*m.SocialTaxes
}

// InheritanceTax taxes a child's share in direct line; the spouse is exempt.
func (m *StandardModel) InheritanceTax(received float64, isSpouse bool) float64 {
	if isSpouse {
		return 0
	}
	return m.InheritanceBrackets.Tax(received - m.ChildAllowance)
}

// LifeInsuranceInheritanceTax applies the allowance per beneficiary.
func (m *StandardModel) LifeInsuranceInheritanceTax(received float64, isSpouse bool) float64 {
	if isSpouse {
		return 0
	}
	return m.LifeInsuranceBracket.Tax(received - m.LifeInsuranceAllow)
}
