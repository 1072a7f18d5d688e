package fiscal

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestBrackets_Tax(t *testing.T) {
	m := DefaultModel()
	tests := []struct {
		base float64
		want float64
	}{
		{-10, 0},
		{0, 0},
		{11294, 0},
		{28797, 17503 * 0.11},
		{50000, 17503*0.11 + 21203*0.30},
	}
	for _, tt := range tests {
		if got := m.IncomeTaxBrackets.Tax(tt.base); !near(got, tt.want) {
			t.Errorf("base %.0f: expected %f, got %f", tt.base, tt.want, got)
		}
	}
	if got := m.IncomeTaxBrackets.MarginalRate(50000); got != 0.30 {
		t.Errorf("expected marginal rate 0.30, got %f", got)
	}
}

func TestFamilyParts(t *testing.T) {
	tests := []struct {
		adults, children int
		want             float64
	}{
		{0, 0, 1},
		{1, 0, 1},
		{2, 0, 2},
		{2, 2, 3},
		{2, 3, 4},
		{1, 1, 1.5},
	}
	for _, tt := range tests {
		if got := FamilyParts(tt.adults, tt.children); got != tt.want {
			t.Errorf("%d adults %d children: expected %.1f parts, got %.1f", tt.adults, tt.children, tt.want, got)
		}
	}
}

func TestStandardModel_IncomeTaxQuotient(t *testing.T) {
	m := DefaultModel()
	single := m.IncomeTax(50000, 1, 0)
	couple := m.IncomeTax(100000, 2, 0)
	if !near(couple, 2*single) {
		t.Errorf("expected the couple to pay twice the single tax, got %f vs %f", couple, single)
	}
}

func TestStandardModel_Taxes(t *testing.T) {
	m := DefaultModel()

	if got := m.WealthTax(1_200_000); got != 0 {
		t.Errorf("expected no wealth tax below the threshold, got %f", got)
	}
	if got := m.WealthTax(1_500_000); !near(got, 3900) {
		t.Errorf("expected wealth tax 3900, got %f", got)
	}
	if got := m.CompanyProfitTax(100_000); !near(got, 20750) {
		t.Errorf("expected company tax 20750, got %f", got)
	}
	if got := m.CompanyProfitTax(-5); got != 0 {
		t.Errorf("expected no company tax on a loss, got %f", got)
	}
	if got := m.FlatTax(1000); !near(got, 128) {
		t.Errorf("expected flat tax 128, got %f", got)
	}
	if got := m.SocialTaxesOnCapital(1000); !near(got, 172) {
		t.Errorf("expected social taxes 172, got %f", got)
	}
	if got := m.LifeInsuranceRebate(3); got != 9200 {
		t.Errorf("expected the rebate capped at two adults, got %f", got)
	}
	if got := m.TaxableRent(1000); !near(got, 700) {
		t.Errorf("expected taxable rent 700, got %f", got)
	}
}

func TestStandardModel_RealEstateCapitalGain(t *testing.T) {
	m := DefaultModel()
	if got := m.RealEstateCapitalGainTax(100_000, 30); !near(got, 0) {
		t.Errorf("expected full exemption after 30 years, got %f", got)
	}
	if got := m.RealEstateCapitalGainTax(100_000, 22); !near(got, 100_000*0.72*0.172) {
		t.Errorf("expected only social taxes after 22 years, got %f", got)
	}
	if got := m.RealEstateCapitalGainTax(100_000, 3); !near(got, 100_000*(0.19+0.172)) {
		t.Errorf("expected no abatement before 6 years, got %f", got)
	}
	if got := m.RealEstateCapitalGainTax(-1, 3); got != 0 {
		t.Errorf("expected no tax on a loss, got %f", got)
	}
}

func TestStandardModel_Inheritance(t *testing.T) {
	m := DefaultModel()
	if got := m.InheritanceTax(500_000, true); got != 0 {
		t.Errorf("expected the spouse exempt, got %f", got)
	}
	if got := m.InheritanceTax(90_000, false); got != 0 {
		t.Errorf("expected no tax under the child allowance, got %f", got)
	}
	want := 8072*0.05 + 4037*0.10 + 3823*0.15 + 34068*0.20
	if got := m.InheritanceTax(150_000, false); !near(got, want) {
		t.Errorf("expected %f, got %f", want, got)
	}
	if got := m.LifeInsuranceInheritanceTax(152_500, false); got != 0 {
		t.Errorf("expected no tax within the allowance, got %f", got)
	}
	if got := m.LifeInsuranceInheritanceTax(252_500, false); !near(got, 20_000) {
		t.Errorf("expected 20000, got %f", got)
	}
}

func TestStandardModel_ZeroValue(t *testing.T) {
	m := &StandardModel{}
	if m.IncomeTax(100_000, 2, 2) != 0 || m.WealthTax(10_000_000) != 0 || m.InheritanceTax(1e6, false) != 0 {
		t.Errorf("expected a zero model to levy nothing")
	}
}

func TestRebateBudget(t *testing.T) {
	r := NewRebateBudget(100)
	if got := r.Apply(60); got != 0 {
		t.Errorf("expected 60 fully covered, got %f", got)
	}
	if got := r.Apply(60); got != 20 {
		t.Errorf("expected 20 still taxable, got %f", got)
	}
	if r.Remaining() != 0 || r.Consumed() != 100 {
		t.Errorf("expected the budget exhausted, got remaining %f consumed %f", r.Remaining(), r.Consumed())
	}
	if got := r.Apply(5); got != 5 {
		t.Errorf("expected no allowance left, got %f", got)
	}

	var none *RebateBudget
	if got := none.Apply(10); got != 10 {
		t.Errorf("expected a nil budget to leave the amount taxable, got %f", got)
	}
	if NewRebateBudget(-3).Remaining() != 0 {
		t.Errorf("expected a negative budget clamped to 0")
	}
}

func TestRebateBudget_NeverExceedsBudget(t *testing.T) {
	r := NewRebateBudget(33.33)
	taxable := 0.0
	for i := 0; i < 1000; i++ {
		taxable += r.Apply(0.1)
	}
	if r.Consumed() > 33.33 {
		t.Errorf("expected consumption capped at 33.33, got %f", r.Consumed())
	}
	if !near(taxable+r.Consumed(), 100) {
		t.Errorf("expected taxable plus consumed to equal the interests, got %f", taxable+r.Consumed())
	}
}
