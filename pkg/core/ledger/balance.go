package ledger

import (
	"family_patrimony/pkg/core/asset"
	"family_patrimony/pkg/core/ownership"
)

// AssetCategory classifies the lines of a balance sheet.
type AssetCategory string

const (
	AssetRealEstate     AssetCategory = "REAL_ESTATE"
	AssetSCPI           AssetCategory = "SCPI"
	AssetSCI            AssetCategory = "SCI"
	AssetPeriodic       AssetCategory = "PERIODIC_INVESTMENT"
	AssetFreeInvestment AssetCategory = "FREE_INVESTMENT"
	AssetLoan           AssetCategory = "LOAN"
)

// BalanceSheetLine is the year-end wealth of each person per category, in
// the patrimony context. Loans are negative.
type BalanceSheetLine struct {
	Year     int                               `json:"year"`
	Assets   map[AssetCategory]NamedValueTable `json:"assets"`
	NetWorth NamedValueTable                   `json:"net_worth"`
}

// Total returns the family's net worth.
func (l *BalanceSheetLine) Total() float64 {
	return l.NetWorth.Total()
}

// BuildBalanceSheet values every asset at the end of year.
func (b *Builder) BuildBalanceSheet(year int) *BalanceSheetLine {
	line := &BalanceSheetLine{
		Year:     year,
		Assets:   map[AssetCategory]NamedValueTable{},
		NetWorth: NamedValueTable{},
	}
	for _, c := range []AssetCategory{AssetRealEstate, AssetSCPI, AssetSCI, AssetPeriodic, AssetFreeInvestment, AssetLoan} {
		line.Assets[c] = NamedValueTable{}
	}

	add := func(c AssetCategory, a asset.Ownable) {
		total := a.Value(year, ownership.ContextPatrimoine)
		if total == 0 {
			return
		}
		for name, v := range a.Ownership().OwnedValues(total, year, ownership.ContextPatrimoine, b.Valuation) {
			line.Assets[c].Add(name, v)
			line.NetWorth.Add(name, v)
		}
	}

	p := b.Patrimony
	for _, a := range p.RealEstates {
		add(AssetRealEstate, a)
	}
	for _, a := range p.SCPIs {
		add(AssetSCPI, a)
	}
	for _, sci := range p.SCIs {
		for _, a := range sci.SCPIs {
			add(AssetSCI, a)
		}
	}
	for _, a := range p.Periodics {
		add(AssetPeriodic, a)
	}
	for _, a := range p.Investments {
		add(AssetFreeInvestment, a)
	}
	for _, a := range p.Loans {
		add(AssetLoan, a)
	}
	return line
}
