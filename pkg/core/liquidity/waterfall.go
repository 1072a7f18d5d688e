// Package liquidity closes the yearly cash position of the household against
// its pool of financial vehicles: surpluses are deposited, deficits are
// funded by withdrawals in a fixed priority order.
package liquidity

import (
	"fmt"
	"log"
	"sort"

	"family_patrimony/pkg/core/asset"
	"family_patrimony/pkg/core/fiscal"
	"family_patrimony/pkg/core/ownership"
)

// epsilon is the amount below which a residual is treated as settled.
const epsilon = 1e-6

// InsufficientLiquidityError reports the part of a deficit no vehicle could
// fund.
type InsufficientLiquidityError struct {
	Missing float64
}

func (e *InsufficientLiquidityError) Error() string {
	return fmt.Sprintf("insufficient liquidity: %.2f missing", e.Missing)
}

// Waterfall routes money in and out of the free investments of a run.
type Waterfall struct {
	Vehicles  []*asset.FreeInvestment
	Fiscal    fiscal.Calculator
	Valuation ownership.Valuation
	Logger    *log.Logger
}

// New creates a waterfall over vehicles logging to the standard logger.
func New(vehicles []*asset.FreeInvestment, calc fiscal.Calculator, v ownership.Valuation) *Waterfall {
	return &Waterfall{Vehicles: vehicles, Fiscal: calc, Valuation: v, Logger: log.Default()}
}

func (w *Waterfall) logf(format string, args ...interface{}) {
	if w.Logger == nil {
		return
	}
	w.Logger.Printf("[liquidity] "+format, args...)
}

func (w *Waterfall) socialRate() float64 {
	if w.Fiscal == nil {
		return 0
	}
	return w.Fiscal.SocialTaxRate()
}

// Result summarizes what happened to the year's net position.
type Result struct {
	Deposited        float64 `json:"deposited"`
	Withdrawn        float64 `json:"withdrawn"`
	Stranded         float64 `json:"stranded"`
	TaxableInterests float64 `json:"taxable_interests"`
	SocialTaxes      float64 `json:"social_taxes"`
}

// =============================================================================
// PRIORITIES
// =============================================================================

// depositTier orders vehicles receiving money: life insurance with periodic
// social taxes first, then other life insurance, then PEA, then the rest.
func depositTier(v *asset.FreeInvestment) int {
	switch {
	case v.IsLifeInsurance() && v.PeriodicSocialTaxes:
		return 0
	case v.IsLifeInsurance():
		return 1
	case v.Kind == asset.KindPEA:
		return 2
	}
	return 3
}

// withdrawTier orders vehicles funding a deficit: PEA, life insurance, rest.
func withdrawTier(v *asset.FreeInvestment) int {
	switch {
	case v.Kind == asset.KindPEA:
		return 0
	case v.IsLifeInsurance():
		return 1
	}
	return 2
}

// bestDepositTarget picks the vehicle with the lowest tier and, within it,
// the highest net rate among those accepted by keep.
func (w *Waterfall) bestDepositTarget(keep func(*asset.FreeInvestment) bool) *asset.FreeInvestment {
	rate := w.socialRate()
	var best *asset.FreeInvestment
	for _, v := range w.Vehicles {
		if !keep(v) {
			continue
		}
		if best == nil {
			best = v
			continue
		}
		tb, tv := depositTier(best), depositTier(v)
		if tv < tb || (tv == tb && v.AverageNetInterestRate(rate) > best.AverageNetInterestRate(rate)) {
			best = v
		}
	}
	return best
}

// withdrawOrder sorts candidates by tier then ascending net rate.
func (w *Waterfall) withdrawOrder(candidates []*asset.FreeInvestment) []*asset.FreeInvestment {
	rate := w.socialRate()
	ordered := append([]*asset.FreeInvestment(nil), candidates...)
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, tj := withdrawTier(ordered[i]), withdrawTier(ordered[j])
		if ti != tj {
			return ti < tj
		}
		return ordered[i].AverageNetInterestRate(rate) < ordered[j].AverageNetInterestRate(rate)
	})
	return ordered
}

// =============================================================================
// OPERATIONS
// =============================================================================

// CapitalizeInterests adds the interest of year to every vehicle not yet
// capitalized for it.
func (w *Waterfall) CapitalizeInterests(year int) float64 {
	total := 0.0
	for _, v := range w.Vehicles {
		total += v.Capitalize(year, w.socialRate())
	}
	return total
}

// DepositSurplus invests amount in the best vehicle fully owned by owners.
// Without an eligible vehicle the amount is stranded and returned.
func (w *Waterfall) DepositSurplus(amount float64, year int, owners []string) (stranded float64) {
	w.CapitalizeInterests(year)
	if amount <= epsilon {
		return 0
	}
	target := w.bestDepositTarget(func(v *asset.FreeInvestment) bool {
		return v.Ownership().IsFullyOwnedBy(owners)
	})
	if target == nil {
		w.logf("%d: no vehicle owned by %v for surplus %.2f, amount stranded", year, owners, amount)
		return amount
	}
	target.Deposit(amount)
	w.logf("%d: surplus %.2f deposited in '%s'", year, amount, target.Name())
	return 0
}

// InvestCapital invests the proceeds of a sale due to owner in a vehicle it
// owns alone. Without such vehicle the amount is stranded and returned.
func (w *Waterfall) InvestCapital(owner string, amount float64, year int) (stranded float64) {
	w.CapitalizeInterests(year)
	if amount <= epsilon {
		return 0
	}
	target := w.bestDepositTarget(func(v *asset.FreeInvestment) bool {
		return v.Ownership().IsSoleFullOwner(owner)
	})
	if target == nil {
		w.logf("%d: no vehicle owned by '%s' alone for capital %.2f, amount stranded", year, owner, amount)
		return amount
	}
	target.Deposit(amount)
	w.logf("%d: capital %.2f of '%s' invested in '%s'", year, amount, owner, target.Name())
	return 0
}

// WithdrawDeficit funds a net amount by withdrawing from the vehicles of the
// richest adult first. Life-insurance interest consumes the shared rebate
// budget before becoming taxable. An uncovered part is reported as an
// *InsufficientLiquidityError alongside the partial result.
func (w *Waterfall) WithdrawDeficit(amount float64, year int, adults []string, rebate *fiscal.RebateBudget) (Result, error) {
	w.CapitalizeInterests(year)
	var res Result
	remaining := amount
	if remaining <= epsilon {
		return res, nil
	}

	for _, group := range w.withdrawGroups(year, adults) {
		for _, v := range w.withdrawOrder(group.vehicles) {
			if remaining <= epsilon {
				break
			}
			remaining -= w.withdrawFrom(v, remaining, group.owner, rebate, &res)
		}
	}

	if remaining > epsilon {
		w.logf("%d: deficit of %.2f not covered, %.2f missing", year, amount, remaining)
		return res, &InsufficientLiquidityError{Missing: remaining}
	}
	return res, nil
}

type withdrawGroup struct {
	owner    string // empty when withdrawing regardless of ownership
	vehicles []*asset.FreeInvestment
}

// withdrawGroups lists, for each adult by decreasing wealth, the vehicles it
// owns. Without living adults every vehicle is a candidate.
func (w *Waterfall) withdrawGroups(year int, adults []string) []withdrawGroup {
	if len(adults) == 0 {
		return []withdrawGroup{{vehicles: w.Vehicles}}
	}

	type wealth struct {
		name  string
		value float64
	}
	ranked := make([]wealth, 0, len(adults))
	for _, a := range adults {
		total := 0.0
		for _, v := range w.Vehicles {
			total += asset.OwnedValue(v, a, year, ownership.ContextPatrimoine, w.Valuation)
		}
		ranked = append(ranked, wealth{name: a, value: total})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].value > ranked[j].value })

	groups := make([]withdrawGroup, 0, len(ranked))
	for _, r := range ranked {
		g := withdrawGroup{owner: r.name}
		for _, v := range w.Vehicles {
			if v.Ownership().IsFullOwner(r.name) {
				g.vehicles = append(g.vehicles, v)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// withdrawFrom takes up to net from v on behalf of owner and returns the net
// amount obtained. A co-owned vehicle only gives the owner's share, and the
// ownership fractions are rebalanced afterwards.
func (w *Waterfall) withdrawFrom(v *asset.FreeInvestment, net float64, owner string, rebate *fiscal.RebateBudget, res *Result) float64 {
	rate := w.socialRate()
	before := v.State.Value
	fraction := 1.0
	if owner != "" {
		fraction = v.Ownership().FullOwners.Fraction(owner) / 100
	}
	available := v.NetLiquidity(rate) * fraction
	if available <= epsilon {
		return 0
	}
	if net > available {
		net = available
	}

	out := v.Withdraw(net, rate)
	taxable := out.TaxableInterests
	if v.IsLifeInsurance() {
		taxable = rebate.Apply(taxable)
	}
	res.Withdrawn += out.Net
	res.TaxableInterests += taxable
	res.SocialTaxes += out.SocialTaxes

	if owner != "" && fraction < 1 {
		rebalance(v.Ownership(), owner, out.Brut, before)
	}
	w.logf("'%s': withdrew %.2f net (%.2f brut) for '%s'", v.Name(), out.Net, out.Brut, owner)
	return out.Net
}

// rebalance updates the full-ownership fractions after owner took brut out
// of a balance worth before: f_i = (f_i*V - x_i) / (V - x).
func rebalance(o *ownership.Ownership, owner string, brut, before float64) {
	after := before - brut
	if after <= epsilon {
		return
	}
	next := o.FullOwners.Clone()
	for i := range next {
		held := next[i].Fraction / 100 * before
		if ownership.SameName(next[i].Name, owner) {
			held -= brut
		}
		next[i].Fraction = 100 * held / after
	}
	o.FullOwners = next
	o.GroupShares()
}
