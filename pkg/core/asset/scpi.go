package asset

import (
	"family_patrimony/pkg/core/fiscal"
	"family_patrimony/pkg/core/ownership"
)

// SCPI is a share of a real-estate investment trust.
type SCPI struct {
	Base              `yaml:",inline"`
	BuyingYear        int     `json:"buying_year" yaml:"buying_year"`
	BuyingPrice       float64 `json:"buying_price" yaml:"buying_price"`
	YearlyRevaluation float64 `json:"yearly_revaluation" yaml:"yearly_revaluation"`
	DividendRate      float64 `json:"dividend_rate" yaml:"dividend_rate"`
	SaleYear          int     `json:"sale_year,omitempty" yaml:"sale_year"`
	SaleCommission    float64 `json:"sale_commission,omitempty" yaml:"sale_commission"`
}

func (s *SCPI) IsHeldDuring(year int) bool {
	return year >= s.BuyingYear && (s.SaleYear == 0 || year <= s.SaleYear)
}

func (s *SCPI) IsSoldIn(year int) bool {
	return s.SaleYear != 0 && s.SaleYear == year
}

func (s *SCPI) estimatedValue(year int) float64 {
	return compound(s.BuyingPrice, s.YearlyRevaluation, year-s.BuyingYear)
}

func (s *SCPI) Value(year int, ctx ownership.EvaluationContext) float64 {
	if year < s.BuyingYear || (s.SaleYear != 0 && year >= s.SaleYear) {
		return 0
	}
	return s.estimatedValue(year)
}

// Dividends returns the revenue distributed during year.
func (s *SCPI) Dividends(year int) float64 {
	if !s.IsHeldDuring(year) {
		return 0
	}
	return s.estimatedValue(year) * s.DividendRate
}

// SaleProceeds computes the sale at the end of SaleYear.
func (s *SCPI) SaleProceeds(calc fiscal.Calculator) Sale {
	if s.SaleYear == 0 {
		return Sale{}
	}
	price := s.estimatedValue(s.SaleYear) * (1 - s.SaleCommission)
	taxes := calc.RealEstateCapitalGainTax(price-s.BuyingPrice, s.SaleYear-s.BuyingYear)
	return Sale{Brut: price, Taxes: taxes, Net: price - taxes}
}

func (s *SCPI) Clone() *SCPI {
	c := *s
	c.Base = s.Base.clone()
	return &c
}

// SCI is a civil real-estate company holding SCPI shares. Its profit pays
// the company-profit tax; the rest is distributed to the owners of each
// underlying SCPI.
type SCI struct {
	SCIName string  `json:"name" yaml:"name"`
	SCPIs   []*SCPI `json:"scpis" yaml:"scpis"`
}

func (s *SCI) Name() string { return s.SCIName }

// Distribution is the net revenue of one underlying SCPI after company tax.
type Distribution struct {
	SCPI       *SCPI
	Gross      float64
	CompanyTax float64
	Net        float64
}

// Distributions computes the company tax on the total dividends and shares
// it back per SCPI in proportion to their dividends.
func (s *SCI) Distributions(year int, calc fiscal.Calculator) []Distribution {
	total := 0.0
	for _, scpi := range s.SCPIs {
		total += scpi.Dividends(year)
	}
	if total == 0 {
		return nil
	}
	tax := calc.CompanyProfitTax(total)
	var out []Distribution
	for _, scpi := range s.SCPIs {
		gross := scpi.Dividends(year)
		if gross == 0 {
			continue
		}
		share := tax * gross / total
		out = append(out, Distribution{SCPI: scpi, Gross: gross, CompanyTax: share, Net: gross - share})
	}
	return out
}

func (s *SCI) Clone() *SCI {
	c := &SCI{SCIName: s.SCIName}
	for _, scpi := range s.SCPIs {
		c.SCPIs = append(c.SCPIs, scpi.Clone())
	}
	return c
}
