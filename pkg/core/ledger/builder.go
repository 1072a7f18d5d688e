package ledger

import (
	"errors"
	"fmt"
	"log"

	"family_patrimony/pkg/core/asset"
	"family_patrimony/pkg/core/family"
	"family_patrimony/pkg/core/fiscal"
	"family_patrimony/pkg/core/liquidity"
	"family_patrimony/pkg/core/ownership"
	"family_patrimony/pkg/core/transfer"
)

var ErrNotConfigured = errors.New("ledger builder is not configured")

// Builder computes the cash-flow line of a year. It mutates the patrimony it
// is given: transfers on death, deposits and withdrawals.
type Builder struct {
	Family    *family.Family
	Patrimony *asset.Patrimony
	Fiscal    fiscal.Calculator
	Valuation ownership.Valuation
	Expenses  ExpenseProvider
	Waterfall *liquidity.Waterfall
	Transfer  *transfer.Engine
	Logger    *log.Logger
}

// NewBuilder wires a builder with the legal barème, a waterfall over the free
// investments of pat and a transfer engine.
func NewBuilder(fam *family.Family, pat *asset.Patrimony, calc fiscal.Calculator, expenses ExpenseProvider) *Builder {
	v := ownership.Valuation{Ages: fam, Bareme: ownership.LegalBareme{}}
	return &Builder{
		Family:    fam,
		Patrimony: pat,
		Fiscal:    calc,
		Valuation: v,
		Expenses:  expenses,
		Waterfall: liquidity.New(pat.Investments, calc, v),
		Transfer:  transfer.NewEngine(),
		Logger:    log.Default(),
	}
}

func (b *Builder) logf(format string, args ...interface{}) {
	if b.Logger == nil {
		return
	}
	b.Logger.Printf("[ledger] "+format, args...)
}

// yearState is shared by the phases of one Build.
type yearState struct {
	year     int
	line     *CashFlowLine
	rebate   *fiscal.RebateBudget
	flatBase NamedValueTable
}

// Build computes the line of year. previous is the line of year-1, nil for
// the first simulated year. Any failure aborts the year and returns a nil
// line; the patrimony should then be discarded.
func (b *Builder) Build(year int, previous *CashFlowLine) (*CashFlowLine, error) {
	if b.Family == nil || b.Patrimony == nil || b.Fiscal == nil || b.Waterfall == nil || b.Transfer == nil {
		return nil, ErrNotConfigured
	}
	if previous != nil && previous.Year != year-1 {
		return nil, fmt.Errorf("previous line is year %d, expected %d", previous.Year, year-1)
	}

	st := &yearState{
		year:     year,
		line:     NewCashFlowLine(year),
		rebate:   fiscal.NewRebateBudget(b.Fiscal.LifeInsuranceRebate(len(b.Family.AdultsLivingDuring(year)))),
		flatBase: NamedValueTable{},
	}

	// 1. persons
	b.addPersonalIncomes(st)

	// 2. assets
	b.addFinancialRevenues(st)
	b.addRealEstateRevenues(st)
	b.addSCPIRevenues(st)
	b.addPreviousYearSales(st)

	// 3. taxes
	b.addIncomeTaxes(st, previous)
	b.addWealthTaxes(st)

	// 4. spending
	b.addExpenses(st)

	// 5. deaths
	if err := b.processDeaths(st); err != nil {
		return nil, fmt.Errorf("year %d: %w", year, err)
	}

	// 6. close the net position
	if err := b.closePosition(st); err != nil {
		return nil, fmt.Errorf("year %d: %w", year, err)
	}
	return st.line, nil
}

// =============================================================================
// ROUTING HELPERS
// =============================================================================

// group returns the group of a member and its canonical name.
func (b *Builder) group(st *yearState, name string) (*Group, string, bool) {
	m := b.Family.Member(name)
	if m == nil {
		b.logf("%d: '%s' is not a family member, flow ignored", st.year, name)
		return nil, "", false
	}
	if m.Role == family.RoleAdult {
		return st.line.Adults, m.Name, true
	}
	return st.line.Children, m.Name, true
}

func (b *Builder) credit(st *yearState, cat RevenueCategory, name string, credit, taxable float64) {
	if credit == 0 && taxable == 0 {
		return
	}
	g, n, ok := b.group(st, name)
	if !ok {
		return
	}
	g.Revenues[cat].Credits.Add(n, credit)
	g.Revenues[cat].TaxablesIrpp.Add(n, taxable)
}

func (b *Builder) tax(st *yearState, cat TaxCategory, name string, amount float64) {
	if amount == 0 {
		return
	}
	if g, n, ok := b.group(st, name); ok {
		g.Taxes[cat].Add(n, amount)
	}
}

// capitalized marks a credited amount as already deposited in a vehicle.
func (b *Builder) capitalized(st *yearState, name string, amount float64) {
	if amount == 0 {
		return
	}
	if g, n, ok := b.group(st, name); ok {
		g.Capitalized.Add(n, amount)
	}
}

// byRevenue calls fn with the part of amount due to each revenue owner.
func byRevenue(o *ownership.Ownership, amount float64, fn func(name string, part float64)) {
	if amount == 0 {
		return
	}
	for _, owner := range o.RevenueOwners() {
		fn(owner.Name, amount*owner.Fraction/100)
	}
}

// distribute spreads amount over names pro rata to weight, equally when all
// weights are zero.
func distribute(table NamedValueTable, names []string, amount float64, weight func(string) float64) {
	if amount == 0 || len(names) == 0 {
		return
	}
	total := 0.0
	for _, n := range names {
		total += weight(n)
	}
	for _, n := range names {
		if total > 0 {
			table.Add(n, amount*weight(n)/total)
		} else {
			table.Add(n, amount/float64(len(names)))
		}
	}
}

// =============================================================================
// PHASE 1: PERSONAL INCOMES
// =============================================================================

func (b *Builder) addPersonalIncomes(st *yearState) {
	for _, m := range b.Family.Members {
		if !m.LivesDuring(st.year) {
			continue
		}
		age := b.Family.Age(m.Name, st.year)
		if m.Role == family.RoleAdult {
			st.line.AdultAges[m.Name] = age
		} else {
			st.line.ChildAges[m.Name] = age
		}
		work := m.WorkIncome(st.year)
		b.credit(st, RevenueWorkIncome, m.Name, work, b.Fiscal.TaxableWorkIncome(work))
		pension := m.PensionIncome(st.year)
		b.credit(st, RevenuePension, m.Name, pension, b.Fiscal.TaxablePension(pension))
	}
}

// =============================================================================
// PHASE 2: ASSET REVENUES AND SALES
// =============================================================================

// addFinancialRevenues capitalizes the interest of the free investments. It
// stays in the vehicles and is taxed when withdrawn.
func (b *Builder) addFinancialRevenues(st *yearState) {
	rate := b.Fiscal.SocialTaxRate()
	for _, v := range b.Waterfall.Vehicles {
		interests := v.Capitalize(st.year, rate)
		byRevenue(v.Ownership(), interests, func(name string, part float64) {
			b.credit(st, RevenueFinancial, name, part, 0)
			b.capitalized(st, name, part)
		})
	}
}

func (b *Builder) addRealEstateRevenues(st *yearState) {
	for _, r := range b.Patrimony.RealEstates {
		if !r.IsHeldDuring(st.year) {
			continue
		}
		rent, charges := r.Rent(st.year)
		taxable := b.Fiscal.TaxableRent(rent)
		social := b.Fiscal.SocialTaxesOnCapital(taxable)
		local := r.LocalTaxes(st.year)
		for _, owner := range r.Ownership().RevenueOwners() {
			f := owner.Fraction / 100
			b.credit(st, RevenueRealEstateRents, owner.Name, (rent-charges)*f, taxable*f)
			b.tax(st, TaxSocial, owner.Name, social*f)
			b.tax(st, TaxLocal, owner.Name, local*f)
		}
	}
}

func (b *Builder) addSCPIRevenues(st *yearState) {
	for _, s := range b.Patrimony.SCPIs {
		dividends := s.Dividends(st.year)
		taxable := b.Fiscal.TaxableRent(dividends)
		social := b.Fiscal.SocialTaxesOnCapital(taxable)
		for _, owner := range s.Ownership().RevenueOwners() {
			f := owner.Fraction / 100
			b.credit(st, RevenueSCPI, owner.Name, dividends*f, taxable*f)
			b.tax(st, TaxSocial, owner.Name, social*f)
		}
	}

	// SCI profit pays the company tax, then the distribution pays the flat
	// tax and social taxes, attributed per underlying SCPI
	for _, sci := range b.Patrimony.SCIs {
		for _, d := range sci.Distributions(st.year, b.Fiscal) {
			for _, owner := range d.SCPI.Ownership().RevenueOwners() {
				f := owner.Fraction / 100
				b.credit(st, RevenueSCI, owner.Name, d.Gross*f, 0)
				b.tax(st, TaxCompany, owner.Name, d.CompanyTax*f)
				b.tax(st, TaxSocial, owner.Name, b.Fiscal.SocialTaxesOnCapital(d.Net)*f)
				st.flatBase.Add(owner.Name, d.Net*f)
			}
		}
	}
}

// addPreviousYearSales credits the assets sold or liquidated at the end of
// the previous year and invests the proceeds for their owners.
func (b *Builder) addPreviousYearSales(st *yearState) {
	last := st.year - 1
	for _, r := range b.Patrimony.RealEstates {
		if r.IsSoldIn(last) {
			b.creditCapital(st, RevenueRealEstateSale, r, r.SaleProceeds(b.Fiscal))
		}
	}
	for _, s := range b.Patrimony.SCPIs {
		if s.IsSoldIn(last) {
			b.creditCapital(st, RevenueSCPISale, s, s.SaleProceeds(b.Fiscal))
		}
	}
	for _, sci := range b.Patrimony.SCIs {
		for _, s := range sci.SCPIs {
			if s.IsSoldIn(last) {
				b.creditCapital(st, RevenueSCPISale, s, s.SaleProceeds(b.Fiscal))
			}
		}
	}
	for _, p := range b.Patrimony.Periodics {
		if p.IsLiquidatedIn(last) {
			b.creditCapital(st, RevenuePeriodicLiquidation, p, p.Liquidation(b.Fiscal))
		}
	}
}

// creditCapital shares a sale between the capital owners by their value in
// the patrimony context. Gross proceeds are credited, the capital gain and
// social taxes withheld on the sale recorded, and the net part invested in a
// vehicle of each owner.
func (b *Builder) creditCapital(st *yearState, cat RevenueCategory, a asset.Ownable, sale asset.Sale) {
	if sale.Brut <= 0 {
		return
	}
	o := a.Ownership()
	isLifeInsurance := false
	if p, ok := a.(*asset.PeriodicInvestment); ok {
		isLifeInsurance = p.Kind == asset.KindLifeInsurance
	}
	shares := o.OwnedValues(sale.Brut, st.year-1, ownership.ContextPatrimoine, b.Valuation)
	for _, name := range o.AllOwnerNames() {
		ratio := shares[name] / sale.Brut
		if ratio <= 0 {
			continue
		}
		taxable := sale.TaxableInterests * ratio
		if isLifeInsurance {
			taxable = st.rebate.Apply(taxable)
		}
		gross := sale.Brut * ratio
		b.credit(st, cat, name, gross, taxable)
		b.tax(st, TaxSocial, name, sale.SocialTaxes*ratio)
		// real-estate gains carry their tax in Taxes, liquidations only social taxes
		b.tax(st, TaxCapitalGain, name, (sale.Taxes-sale.SocialTaxes)*ratio)

		net := sale.Net * ratio
		if m := b.Family.Member(name); m != nil {
			name = m.Name
		}
		stranded := b.Waterfall.InvestCapital(name, net, st.year)
		b.capitalized(st, name, net-stranded)
	}
	b.logf("%d: '%s' sold for %.2f (net %.2f)", st.year, a.Name(), sale.Brut, sale.Net)
}

// =============================================================================
// PHASE 3: TAXES
// =============================================================================

func (b *Builder) addIncomeTaxes(st *yearState, previous *CashFlowLine) {
	for name, base := range st.flatBase {
		b.tax(st, TaxFlat, name, b.Fiscal.FlatTax(base))
	}

	adults := b.Family.AdultsLivingDuring(st.year)

	// each child with revenues files its own return and leaves the household
	dependents := 0
	for _, child := range b.Family.ChildrenLivingDuring(st.year) {
		childBase := st.line.Children.TaxableIrpp(child)
		if childBase <= 0 {
			dependents++
			continue
		}
		b.tax(st, TaxIRPP, child, b.Fiscal.IncomeTax(childBase, 1, 0))
	}

	base := st.line.Adults.TaxableIrpp("")
	if previous != nil {
		base += previous.TaxableIrppRevenueDelayedToNextYear
	}
	irpp := b.Fiscal.IncomeTax(base, len(adults), dependents)
	distribute(st.line.Adults.Taxes[TaxIRPP], adults, irpp, st.line.Adults.TaxableIrpp)
}

// wealthBase returns the year-end real-estate wealth of names.
func (b *Builder) wealthBase(names []string, year int) float64 {
	base := 0.0
	for _, r := range b.Patrimony.RealEstates {
		base += asset.OwnedValueBy(r, names, year, ownership.ContextIFI, b.Valuation)
	}
	for _, s := range b.Patrimony.SCPIs {
		base += asset.OwnedValueBy(s, names, year, ownership.ContextIFI, b.Valuation)
	}
	for _, sci := range b.Patrimony.SCIs {
		for _, s := range sci.SCPIs {
			base += asset.OwnedValueBy(s, names, year, ownership.ContextIFI, b.Valuation)
		}
	}
	return base
}

func (b *Builder) addWealthTaxes(st *yearState) {
	adults := b.Family.AdultsLivingDuring(st.year)
	household := b.Fiscal.WealthTax(b.wealthBase(adults, st.year))
	distribute(st.line.Adults.Taxes[TaxISF], adults, household, func(name string) float64 {
		return b.wealthBase([]string{name}, st.year)
	})
	for _, child := range b.Family.ChildrenLivingDuring(st.year) {
		b.tax(st, TaxISF, child, b.Fiscal.WealthTax(b.wealthBase([]string{child}, st.year)))
	}
}

// =============================================================================
// PHASE 4: EXPENSES
// =============================================================================

func (b *Builder) addExpenses(st *yearState) {
	if b.Expenses != nil {
		for _, m := range b.Family.Members {
			if !m.LivesDuring(st.year) {
				continue
			}
			if g, n, ok := b.group(st, m.Name); ok {
				g.LifeExpenses.Add(n, b.Expenses.LifeExpenses(m, st.year))
			}
		}
	}
	for _, l := range b.Patrimony.Loans {
		byRevenue(l.Ownership(), l.Payment(st.year), func(name string, part float64) {
			if g, n, ok := b.group(st, name); ok {
				g.DebtPayments.Add(n, part)
			}
		})
	}
	for _, p := range b.Patrimony.Periodics {
		byRevenue(p.Ownership(), p.Payment(st.year), func(name string, part float64) {
			if g, n, ok := b.group(st, name); ok {
				g.InvestPayments.Add(n, part)
			}
		})
	}
}

// =============================================================================
// PHASE 6: NET POSITION
// =============================================================================

// closePosition sends the adults' net cash flow to the waterfall.
func (b *Builder) closePosition(st *yearState) error {
	net := st.line.Adults.NetCashFlow()
	st.line.NetCashFlow = net

	owners := b.Family.AdultsAliveAtEndOf(st.year)
	b.Waterfall.CapitalizeInterests(st.year)
	switch {
	case net > 0:
		targets := owners
		if len(targets) == 0 {
			targets = b.Family.ChildrenAliveAtEndOf(st.year)
		}
		stranded := b.Waterfall.DepositSurplus(net, st.year, targets)
		st.line.Liquidity.Deposited = net - stranded
		st.line.Liquidity.Stranded = stranded

	case net < 0:
		res, err := b.Waterfall.WithdrawDeficit(-net, st.year, owners, st.rebate)
		st.line.Liquidity = res
		if err != nil {
			return err
		}
		st.line.TaxableIrppRevenueDelayedToNextYear = res.TaxableInterests
	}
	return nil
}
