// Package asset defines the ownable holdings of the family and their value
// over time. Assets are created at setup and never destroyed during a run:
// a sold or liquidated asset stays as a zero-value record.
package asset

import (
	"family_patrimony/pkg/core/clause"
	"family_patrimony/pkg/core/ownership"
)

// Ownable is any taxable holding with an owner record.
type Ownable interface {
	Name() string
	// Value returns the total value at the end of year in the given context.
	Value(year int, ctx ownership.EvaluationContext) float64
	Ownership() *ownership.Ownership
}

// LifeInsured is an Ownable whose payout is governed by a beneficiary clause.
type LifeInsured interface {
	Ownable
	BeneficiaryClause() *clause.Clause
}

// Base carries the fields shared by every asset.
type Base struct {
	AssetName string               `json:"name" yaml:"name"`
	Owners    *ownership.Ownership `json:"ownership" yaml:"ownership"`
}

func (b *Base) Name() string { return b.AssetName }

// Ownership never returns nil: an asset without record is unowned.
func (b *Base) Ownership() *ownership.Ownership {
	if b.Owners == nil {
		b.Owners = &ownership.Ownership{}
	}
	return b.Owners
}

func (b Base) clone() Base {
	return Base{AssetName: b.AssetName, Owners: b.Owners.Clone()}
}

// OwnedValue returns the part of a's value owned by name.
func OwnedValue(a Ownable, name string, year int, ctx ownership.EvaluationContext, v ownership.Valuation) float64 {
	return a.Ownership().OwnedValue(name, a.Value(year, ctx), year, ctx, v)
}

// OwnedValueBy sums the parts of a's value owned by any of names.
func OwnedValueBy(a Ownable, names []string, year int, ctx ownership.EvaluationContext, v ownership.Valuation) float64 {
	total := a.Value(year, ctx)
	if total == 0 {
		return 0
	}
	owned := 0.0
	for _, n := range names {
		owned += a.Ownership().OwnedValue(n, total, year, ctx, v)
	}
	return owned
}

// Sale is the outcome of selling or liquidating an asset.
type Sale struct {
	Brut             float64 `json:"brut"`
	Taxes            float64 `json:"taxes"`
	Net              float64 `json:"net"`
	TaxableInterests float64 `json:"taxable_interests,omitempty"`
	SocialTaxes      float64 `json:"social_taxes,omitempty"`
}

// compound grows value at rate for a number of years.
func compound(value, rate float64, years int) float64 {
	for i := 0; i < years; i++ {
		value *= 1 + rate
	}
	return value
}
