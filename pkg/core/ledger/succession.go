package ledger

import (
	"fmt"
	"math"

	"family_patrimony/pkg/core/asset"
	"family_patrimony/pkg/core/ownership"
	"family_patrimony/pkg/core/transfer"
)

// gains accumulates what each person receives, in order of first appearance.
type gains struct {
	order  []string
	amount map[string]float64
}

func newGains() *gains { return &gains{amount: map[string]float64{}} }

func (g *gains) add(name string, value float64) {
	key := ownership.NormalizeName(name)
	if _, ok := g.amount[key]; !ok {
		g.order = append(g.order, name)
	}
	g.amount[key] += value
}

func (g *gains) of(name string) float64 { return g.amount[ownership.NormalizeName(name)] }

// valueChange records the value gained by every right holder other than the
// decedent when apply changes the ownership of a.
func valueChange(g *gains, a asset.Ownable, decedent string, year int, ctx ownership.EvaluationContext, v ownership.Valuation, apply func() error) error {
	total := a.Value(year, ctx)
	before := a.Ownership().OwnedValues(total, year, ctx, v)
	if err := apply(); err != nil {
		return err
	}
	after := a.Ownership().OwnedValues(total, year, ctx, v)

	seen := map[string]bool{}
	for _, names := range [][]string{a.Ownership().AllOwnerNames(), keys(before)} {
		for _, name := range names {
			key := ownership.NormalizeName(name)
			if seen[key] || ownership.SameName(name, decedent) {
				continue
			}
			seen[key] = true
			g.add(name, valueOf(after, name)-valueOf(before, name))
		}
	}
	return nil
}

func keys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func valueOf(m map[string]float64, name string) float64 {
	for k, v := range m {
		if ownership.SameName(k, name) {
			return v
		}
	}
	return 0
}

// =============================================================================
// PHASE 5: DEATHS
// =============================================================================

// processDeaths transfers every right of the adults dying this year and
// records their legal and life-insurance successions.
func (b *Builder) processDeaths(st *yearState) error {
	for _, decedent := range b.Family.DecedentsOf(st.year) {
		heirs := b.Family.HeirsOf(decedent, st.year)
		b.logf("%d: death of '%s', heirs %v", st.year, decedent, heirs.Names())

		legal, err := b.legalSuccession(st, decedent, heirs)
		if err != nil {
			return fmt.Errorf("succession of '%s': %w", decedent, err)
		}
		li, err := b.lifeInsuranceSuccession(st, decedent, heirs)
		if err != nil {
			return fmt.Errorf("life insurance of '%s': %w", decedent, err)
		}

		for _, s := range []transfer.Succession{legal, li} {
			for _, inh := range s.Inheritances {
				b.tax(st, TaxSuccession, inh.Person, inh.Tax)
			}
		}
		st.line.Successions = append(st.line.Successions, legal)
		st.line.LifeInsuranceSuccessions = append(st.line.LifeInsuranceSuccessions, li)
	}
	return nil
}

func isLifeInsured(a asset.Ownable, lis []asset.LifeInsured) bool {
	for _, li := range lis {
		if asset.Ownable(li) == a {
			return true
		}
	}
	return false
}

// legalSuccession transfers the estate assets. A usufruct extinguished by the
// death is not taxed.
func (b *Builder) legalSuccession(st *yearState, decedent string, heirs transfer.Heirs) (transfer.Succession, error) {
	lis := b.Patrimony.LifeInsurances()
	received := newGains()
	for _, a := range b.Patrimony.Ownables() {
		if isLifeInsured(a, lis) || !a.Ownership().Owns(decedent) {
			continue
		}
		o := a.Ownership()
		taxable := o.IsFullOwner(decedent) || o.IsBareOwner(decedent)
		apply := func() error { return b.Transfer.TransferOwnershipOf(o, decedent, heirs) }
		if !taxable {
			if err := apply(); err != nil {
				return transfer.Succession{}, fmt.Errorf("asset '%s': %w", a.Name(), err)
			}
			continue
		}
		if err := valueChange(received, a, decedent, st.year, ownership.ContextLegalSuccession, b.Valuation, apply); err != nil {
			return transfer.Succession{}, fmt.Errorf("asset '%s': %w", a.Name(), err)
		}
	}

	s := transfer.Succession{Kind: transfer.LegalSuccession, Year: st.year, Decedent: decedent}
	for _, name := range received.order {
		brut := math.Max(0, received.of(name))
		if brut == 0 {
			continue
		}
		tax := b.Fiscal.InheritanceTax(brut, ownership.SameName(name, heirs.Spouse))
		s.Inheritances = append(s.Inheritances, transfer.Inheritance{Person: name, Brut: brut, Tax: tax, Net: brut - tax})
	}
	return s, nil
}

// lifeInsuranceSuccession pays out the contracts held by the decedent under
// their beneficiary clauses. The allowance applies per beneficiary over
// every contract.
func (b *Builder) lifeInsuranceSuccession(st *yearState, decedent string, heirs transfer.Heirs) (transfer.Succession, error) {
	received := newGains()
	for _, li := range b.Patrimony.LifeInsurances() {
		o := li.Ownership()
		if !o.Owns(decedent) {
			continue
		}
		taxable := o.IsFullOwner(decedent)
		clause := li.BeneficiaryClause()
		apply := func() error { return b.Transfer.TransferLifeInsurance(o, clause, decedent, heirs) }
		if !taxable {
			if err := apply(); err != nil {
				return transfer.Succession{}, fmt.Errorf("contract '%s': %w", li.Name(), err)
			}
			continue
		}
		if err := valueChange(received, li, decedent, st.year, ownership.ContextLifeInsuranceSuccession, b.Valuation, apply); err != nil {
			return transfer.Succession{}, fmt.Errorf("contract '%s': %w", li.Name(), err)
		}
	}

	s := transfer.Succession{Kind: transfer.LifeInsuranceSuccession, Year: st.year, Decedent: decedent}
	for _, name := range received.order {
		brut := math.Max(0, received.of(name))
		if brut == 0 {
			continue
		}
		tax := b.Fiscal.LifeInsuranceInheritanceTax(brut, ownership.SameName(name, heirs.Spouse))
		s.Inheritances = append(s.Inheritances, transfer.Inheritance{Person: name, Brut: brut, Tax: tax, Net: brut - tax})
	}
	return s, nil
}
