// Package ledger builds the yearly cash-flow line of the family: revenues,
// taxes and expenses of every member, successions of the year, and the
// closing of the net position against the liquidity waterfall.
package ledger

import (
	"sort"

	"family_patrimony/pkg/core/liquidity"
	"family_patrimony/pkg/core/transfer"
)

// RevenueCategory classifies the credits of a line.
type RevenueCategory string

const (
	RevenueWorkIncome          RevenueCategory = "WORK_INCOME"
	RevenuePension             RevenueCategory = "PENSION"
	RevenueRealEstateRents     RevenueCategory = "REAL_ESTATE_RENTS"
	RevenueSCPI                RevenueCategory = "SCPI"
	RevenueSCI                 RevenueCategory = "SCI"
	RevenueFinancial           RevenueCategory = "FINANCIAL"
	RevenueRealEstateSale      RevenueCategory = "REAL_ESTATE_SALE"
	RevenueSCPISale            RevenueCategory = "SCPI_SALE"
	RevenuePeriodicLiquidation RevenueCategory = "PERIODIC_LIQUIDATION"
)

// RevenueCategories lists every revenue category in display order.
var RevenueCategories = []RevenueCategory{
	RevenueWorkIncome,
	RevenuePension,
	RevenueRealEstateRents,
	RevenueSCPI,
	RevenueSCI,
	RevenueFinancial,
	RevenueRealEstateSale,
	RevenueSCPISale,
	RevenuePeriodicLiquidation,
}

// TaxCategory classifies the taxes of a line.
type TaxCategory string

const (
	TaxIRPP        TaxCategory = "IRPP"
	TaxISF         TaxCategory = "ISF"
	TaxFlat        TaxCategory = "FLAT_TAX"
	TaxSocial      TaxCategory = "SOCIAL_TAXES"
	TaxLocal       TaxCategory = "LOCAL_TAXES"
	TaxCompany     TaxCategory = "COMPANY_PROFIT_TAX"
	TaxCapitalGain TaxCategory = "CAPITAL_GAIN_TAX"
	TaxSuccession  TaxCategory = "SUCCESSION"
)

// TaxCategories lists every tax category in display order.
var TaxCategories = []TaxCategory{
	TaxIRPP,
	TaxISF,
	TaxFlat,
	TaxSocial,
	TaxLocal,
	TaxCompany,
	TaxCapitalGain,
	TaxSuccession,
}

// =============================================================================
// TABLES
// =============================================================================

// NamedValueTable holds an amount per person.
type NamedValueTable map[string]float64

// Add accumulates value for name, ignoring zero amounts.
func (t NamedValueTable) Add(name string, value float64) {
	if value == 0 {
		return
	}
	t[name] += value
}

// Total sums every amount of the table.
func (t NamedValueTable) Total() float64 {
	total := 0.0
	for _, v := range t {
		total += v
	}
	return total
}

// Names returns the names of the table in sorted order.
func (t NamedValueTable) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// RevenueAggregate holds the cash credited and the base taxable at the
// income tax for one revenue category.
type RevenueAggregate struct {
	Credits      NamedValueTable `json:"credits"`
	TaxablesIrpp NamedValueTable `json:"taxables_irpp"`
}

func newRevenueAggregate() *RevenueAggregate {
	return &RevenueAggregate{Credits: NamedValueTable{}, TaxablesIrpp: NamedValueTable{}}
}

// Group gathers the flows of the adults or of the children.
type Group struct {
	Revenues       map[RevenueCategory]*RevenueAggregate `json:"revenues"`
	Taxes          map[TaxCategory]NamedValueTable       `json:"taxes"`
	LifeExpenses   NamedValueTable                       `json:"life_expenses"`
	DebtPayments   NamedValueTable                       `json:"debt_payments"`
	InvestPayments NamedValueTable                       `json:"invest_payments"`
	Capitalized    NamedValueTable                       `json:"capitalized"` // credited amounts already deposited in a vehicle
}

// NewGroup returns a group with every category populated.
func NewGroup() *Group {
	g := &Group{
		Revenues:       make(map[RevenueCategory]*RevenueAggregate, len(RevenueCategories)),
		Taxes:          make(map[TaxCategory]NamedValueTable, len(TaxCategories)),
		LifeExpenses:   NamedValueTable{},
		DebtPayments:   NamedValueTable{},
		InvestPayments: NamedValueTable{},
		Capitalized:    NamedValueTable{},
	}
	for _, c := range RevenueCategories {
		g.Revenues[c] = newRevenueAggregate()
	}
	for _, c := range TaxCategories {
		g.Taxes[c] = NamedValueTable{}
	}
	return g
}

// TotalRevenues sums the credits of every category.
func (g *Group) TotalRevenues() float64 {
	total := 0.0
	for _, r := range g.Revenues {
		total += r.Credits.Total()
	}
	return total
}

// TotalTaxes sums the taxes of every category.
func (g *Group) TotalTaxes() float64 {
	total := 0.0
	for _, t := range g.Taxes {
		total += t.Total()
	}
	return total
}

// TotalExpenses sums life expenses, debt and investment payments.
func (g *Group) TotalExpenses() float64 {
	return g.LifeExpenses.Total() + g.DebtPayments.Total() + g.InvestPayments.Total()
}

// TaxableIrpp returns the income-tax base of name, or of the whole group
// when name is empty.
func (g *Group) TaxableIrpp(name string) float64 {
	total := 0.0
	for _, r := range g.Revenues {
		if name == "" {
			total += r.TaxablesIrpp.Total()
			continue
		}
		total += r.TaxablesIrpp[name]
	}
	return total
}

// NetCashFlow is what remains in cash once taxes and expenses are paid,
// amounts already deposited excluded.
func (g *Group) NetCashFlow() float64 {
	return g.TotalRevenues() - g.TotalTaxes() - g.TotalExpenses() - g.Capitalized.Total()
}

// =============================================================================
// CASH FLOW LINE
// =============================================================================

// CashFlowLine is the outcome of one simulated year.
type CashFlowLine struct {
	Year        int            `json:"year"`
	AdultAges   map[string]int `json:"adult_ages"`
	ChildAges   map[string]int `json:"child_ages"`
	Adults      *Group         `json:"adults"`
	Children    *Group         `json:"children"`
	NetCashFlow float64        `json:"net_cash_flow"`

	// Taxable interest realized by the waterfall, declared with next year's income
	TaxableIrppRevenueDelayedToNextYear float64 `json:"taxable_irpp_revenue_delayed_to_next_year"`

	Successions              []transfer.Succession `json:"successions,omitempty"`
	LifeInsuranceSuccessions []transfer.Succession `json:"life_insurance_successions,omitempty"`
	Liquidity                liquidity.Result      `json:"liquidity"`
}

// NewCashFlowLine returns an empty line for year.
func NewCashFlowLine(year int) *CashFlowLine {
	return &CashFlowLine{
		Year:      year,
		AdultAges: map[string]int{},
		ChildAges: map[string]int{},
		Adults:    NewGroup(),
		Children:  NewGroup(),
	}
}
