package main

import (
	"fmt"
	"io"
	"log"
	"strconv"

	json "github.com/goccy/go-json"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"family_patrimony/pkg/core/config"
	"family_patrimony/pkg/core/ledger"
)

// Result is the outcome of a sequential run.
type Result struct {
	Lines   []*ledger.CashFlowLine
	Balance *ledger.BalanceSheetLine
}

// runSimulation builds years lines from the start year of sim. It stops at
// the first failing year and returns the lines built so far with the error.
func runSimulation(sim *config.Simulation, years int, logger *log.Logger) (*Result, error) {
	b := ledger.NewBuilder(sim.Family, sim.Patrimony, sim.Fiscal, sim.Expenses)
	b.Logger = logger
	b.Waterfall.Logger = logger
	b.Transfer.Logger = logger

	res := &Result{}
	var previous *ledger.CashFlowLine
	last := sim.StartYear - 1
	for year := sim.StartYear; year < sim.StartYear+years; year++ {
		line, err := b.Build(year, previous)
		if err != nil {
			return res, err
		}
		res.Lines = append(res.Lines, line)
		previous = line
		last = year
	}
	res.Balance = b.BuildBalanceSheet(last)
	return res, nil
}

// writeJSONLines writes one JSON document per line.
func writeJSONLines(w io.Writer, lines []*ledger.CashFlowLine) error {
	enc := json.NewEncoder(w)
	for _, line := range lines {
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode line %d: %w", line.Year, err)
		}
	}
	return nil
}

func parseLang(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return language.French
	}
	return tag
}

// writeSummary prints a localized table of the yearly results.
func writeSummary(w io.Writer, res *Result, lang string) error {
	p := message.NewPrinter(parseLang(lang))

	p.Fprintf(w, "%-6s %14s %14s %14s %14s %14s\n", "year", "revenues", "taxes", "expenses", "net", "delayed")
	for _, l := range res.Lines {
		g := l.Adults
		p.Fprintf(w, "%-6s %14.0f %14.0f %14.0f %14.0f %14.0f\n",
			strconv.Itoa(l.Year), g.TotalRevenues(), g.TotalTaxes(), g.TotalExpenses(), l.NetCashFlow, l.TaxableIrppRevenueDelayedToNextYear)
		for _, s := range l.Successions {
			p.Fprintf(w, "       succession of %s: %.0f transmitted, %.0f taxes\n", s.Decedent, s.TotalBrut(), s.TotalTax())
		}
		for _, s := range l.LifeInsuranceSuccessions {
			if len(s.Inheritances) > 0 {
				p.Fprintf(w, "       life insurance of %s: %.0f paid out, %.0f taxes\n", s.Decedent, s.TotalBrut(), s.TotalTax())
			}
		}
		if l.Liquidity.Stranded > 0 {
			p.Fprintf(w, "       %.0f left in current account\n", l.Liquidity.Stranded)
		}
	}

	if res.Balance != nil {
		p.Fprintf(w, "\nnet worth at the end of %s: %.0f\n", strconv.Itoa(res.Balance.Year), res.Balance.Total())
		for _, name := range res.Balance.NetWorth.Names() {
			p.Fprintf(w, "  %-12s %14.0f\n", name, res.Balance.NetWorth[name])
		}
	}
	return nil
}
