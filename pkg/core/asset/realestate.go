package asset

import (
	"family_patrimony/pkg/core/fiscal"
	"family_patrimony/pkg/core/ownership"
)

// residenceAbatement is the wealth-tax abatement on the primary residence.
const residenceAbatement = 0.30

// Rental describes the period an estate is let.
type Rental struct {
	FirstYear     int     `json:"first_year" yaml:"first_year"`
	LastYear      int     `json:"last_year" yaml:"last_year"`
	YearlyRent    float64 `json:"yearly_rent" yaml:"yearly_rent"`
	YearlyCharges float64 `json:"yearly_charges" yaml:"yearly_charges"`
}

// RealEstate is a property held directly by the family.
type RealEstate struct {
	Base               `yaml:",inline"`
	BuyingYear         int     `json:"buying_year" yaml:"buying_year"`
	BuyingPrice        float64 `json:"buying_price" yaml:"buying_price"`
	YearlyGrowth       float64 `json:"yearly_growth" yaml:"yearly_growth"`
	IsPrimaryResidence bool    `json:"is_primary_residence" yaml:"is_primary_residence"`
	PropertyTax        float64 `json:"property_tax" yaml:"property_tax"`
	HousingTax         float64 `json:"housing_tax" yaml:"housing_tax"`
	Rental             *Rental `json:"rental,omitempty" yaml:"rental"`
	SaleYear           int     `json:"sale_year,omitempty" yaml:"sale_year"` // sold at the end of that year
	SalePrice          float64 `json:"sale_price,omitempty" yaml:"sale_price"`
}

// IsHeldDuring reports whether the family holds the estate during year.
func (r *RealEstate) IsHeldDuring(year int) bool {
	return year >= r.BuyingYear && (r.SaleYear == 0 || year <= r.SaleYear)
}

// IsSoldIn reports whether the sale happens at the end of year.
func (r *RealEstate) IsSoldIn(year int) bool {
	return r.SaleYear != 0 && r.SaleYear == year
}

func (r *RealEstate) estimatedValue(year int) float64 {
	return compound(r.BuyingPrice, r.YearlyGrowth, year-r.BuyingYear)
}

// Value is zero before purchase and from the end of the sale year.
func (r *RealEstate) Value(year int, ctx ownership.EvaluationContext) float64 {
	if year < r.BuyingYear || (r.SaleYear != 0 && year >= r.SaleYear) {
		return 0
	}
	v := r.estimatedValue(year)
	if r.IsPrimaryResidence && ctx.IsWealthTax() {
		v *= 1 - residenceAbatement
	}
	return v
}

// Rent returns the gross rent and charges of year.
func (r *RealEstate) Rent(year int) (rent, charges float64) {
	if r.Rental == nil || !r.IsHeldDuring(year) {
		return 0, 0
	}
	if year < r.Rental.FirstYear || year > r.Rental.LastYear {
		return 0, 0
	}
	return r.Rental.YearlyRent, r.Rental.YearlyCharges
}

// LocalTaxes returns the property and housing taxes due for year.
func (r *RealEstate) LocalTaxes(year int) float64 {
	if !r.IsHeldDuring(year) {
		return 0
	}
	taxes := r.PropertyTax
	if r.IsPrimaryResidence {
		taxes += r.HousingTax
	}
	return taxes
}

// SaleProceeds computes the sale at the end of SaleYear. The primary
// residence is exempt from capital gain tax.
func (r *RealEstate) SaleProceeds(calc fiscal.Calculator) Sale {
	if r.SaleYear == 0 {
		return Sale{}
	}
	price := r.SalePrice
	if price == 0 {
		price = r.estimatedValue(r.SaleYear)
	}
	taxes := 0.0
	if !r.IsPrimaryResidence {
		taxes = calc.RealEstateCapitalGainTax(price-r.BuyingPrice, r.SaleYear-r.BuyingYear)
	}
	return Sale{Brut: price, Taxes: taxes, Net: price - taxes}
}

// Clone returns a deep copy.
func (r *RealEstate) Clone() *RealEstate {
	c := *r
	c.Base = r.Base.clone()
	if r.Rental != nil {
		rental := *r.Rental
		c.Rental = &rental
	}
	return &c
}
