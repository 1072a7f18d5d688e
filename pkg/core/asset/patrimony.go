package asset

import (
	"fmt"

	"family_patrimony/pkg/core/ownership"
)

// Patrimony is the container of every asset of a run.
type Patrimony struct {
	RealEstates []*RealEstate         `json:"real_estates,omitempty" yaml:"real_estates"`
	SCPIs       []*SCPI               `json:"scpis,omitempty" yaml:"scpis"`
	SCIs        []*SCI                `json:"scis,omitempty" yaml:"scis"`
	Periodics   []*PeriodicInvestment `json:"periodic_investments,omitempty" yaml:"periodic_investments"`
	Investments []*FreeInvestment     `json:"free_investments,omitempty" yaml:"free_investments"`
	Loans       []*Loan               `json:"loans,omitempty" yaml:"loans"`
}

// Ownables lists every asset carrying an ownership record, SCPIs held
// through an SCI included.
func (p *Patrimony) Ownables() []Ownable {
	var out []Ownable
	for _, a := range p.RealEstates {
		out = append(out, a)
	}
	for _, a := range p.SCPIs {
		out = append(out, a)
	}
	for _, sci := range p.SCIs {
		for _, a := range sci.SCPIs {
			out = append(out, a)
		}
	}
	for _, a := range p.Periodics {
		out = append(out, a)
	}
	for _, a := range p.Investments {
		out = append(out, a)
	}
	for _, a := range p.Loans {
		out = append(out, a)
	}
	return out
}

// LifeInsurances lists the assets governed by a beneficiary clause.
func (p *Patrimony) LifeInsurances() []LifeInsured {
	var out []LifeInsured
	for _, a := range p.Periodics {
		if a.Kind == KindLifeInsurance {
			out = append(out, a)
		}
	}
	for _, a := range p.Investments {
		if a.IsLifeInsurance() {
			out = append(out, a)
		}
	}
	return out
}

// Validate checks every ownership record and life-insurance clause, and that
// asset names are unique.
func (p *Patrimony) Validate() error {
	seen := make(map[string]bool)
	for _, a := range p.Ownables() {
		key := ownership.NormalizeName(a.Name())
		if key == "" {
			return fmt.Errorf("asset name cannot be empty")
		}
		if seen[key] {
			return fmt.Errorf("asset '%s' is declared twice", a.Name())
		}
		seen[key] = true
		if err := a.Ownership().Validate(); err != nil {
			return fmt.Errorf("asset '%s': %w", a.Name(), err)
		}
	}
	for _, li := range p.LifeInsurances() {
		c := li.BeneficiaryClause()
		if c == nil {
			return fmt.Errorf("life insurance '%s' has no beneficiary clause", li.Name())
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("life insurance '%s': %w", li.Name(), err)
		}
	}
	return nil
}

// Value sums the value of every asset, loans counted negatively.
func (p *Patrimony) Value(year int, ctx ownership.EvaluationContext) float64 {
	total := 0.0
	for _, a := range p.Ownables() {
		total += a.Value(year, ctx)
	}
	return total
}

// OwnedValue sums the parts owned by names.
func (p *Patrimony) OwnedValue(names []string, year int, ctx ownership.EvaluationContext, v ownership.Valuation) float64 {
	total := 0.0
	for _, a := range p.Ownables() {
		total += OwnedValueBy(a, names, year, ctx, v)
	}
	return total
}

// Clone returns a deep copy, independent for a new run.
func (p *Patrimony) Clone() *Patrimony {
	c := &Patrimony{}
	for _, a := range p.RealEstates {
		c.RealEstates = append(c.RealEstates, a.Clone())
	}
	for _, a := range p.SCPIs {
		c.SCPIs = append(c.SCPIs, a.Clone())
	}
	for _, a := range p.SCIs {
		c.SCIs = append(c.SCIs, a.Clone())
	}
	for _, a := range p.Periodics {
		c.Periodics = append(c.Periodics, a.Clone())
	}
	for _, a := range p.Investments {
		c.Investments = append(c.Investments, a.Clone())
	}
	for _, a := range p.Loans {
		c.Loans = append(c.Loans, a.Clone())
	}
	return c
}
