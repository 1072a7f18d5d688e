package asset

import (
	"fmt"
	"math"

	"family_patrimony/pkg/core/clause"
	"family_patrimony/pkg/core/fiscal"
	"family_patrimony/pkg/core/ownership"
)

// VehicleKind is the fiscal envelope of a financial investment.
type VehicleKind string

const (
	KindLifeInsurance VehicleKind = "LIFE_INSURANCE"
	KindPEA           VehicleKind = "PEA"
	KindOther         VehicleKind = "OTHER"
)

// ParseVehicleKind validates a kind read from configuration.
func ParseVehicleKind(s string) (VehicleKind, error) {
	switch VehicleKind(s) {
	case KindLifeInsurance, KindPEA, KindOther:
		return VehicleKind(s), nil
	case "":
		return KindOther, nil
	}
	return "", fmt.Errorf("unknown investment kind '%s'", s)
}

// =============================================================================
// PERIODIC INVESTMENT
// =============================================================================

// PeriodicInvestment receives a yearly payment from FirstYear to LastYear
// and is liquidated at the end of LastYear.
type PeriodicInvestment struct {
	Base          `yaml:",inline"`
	Kind          VehicleKind    `json:"kind" yaml:"kind"`
	FirstYear     int            `json:"first_year" yaml:"first_year"`
	LastYear      int            `json:"last_year" yaml:"last_year"`
	YearlyPayment float64        `json:"yearly_payment" yaml:"yearly_payment"`
	InterestRate  float64        `json:"interest_rate" yaml:"interest_rate"`
	Clause        *clause.Clause `json:"clause,omitempty" yaml:"clause"`
}

func (p *PeriodicInvestment) BeneficiaryClause() *clause.Clause { return p.Clause }

// Payment returns the payment made during year.
func (p *PeriodicInvestment) Payment(year int) float64 {
	if year < p.FirstYear || year > p.LastYear {
		return 0
	}
	return p.YearlyPayment
}

func (p *PeriodicInvestment) accumulated(year int) (value, invested float64) {
	last := year
	if last > p.LastYear {
		last = p.LastYear
	}
	for y := p.FirstYear; y <= last; y++ {
		value = (value + p.YearlyPayment) * (1 + p.InterestRate)
		invested += p.YearlyPayment
	}
	return value, invested
}

// Value is zero once liquidated, i.e. from the end of LastYear.
func (p *PeriodicInvestment) Value(year int, ctx ownership.EvaluationContext) float64 {
	if year < p.FirstYear || year >= p.LastYear {
		return 0
	}
	v, _ := p.accumulated(year)
	return v
}

// IsLiquidatedIn reports whether the liquidation happens at the end of year.
func (p *PeriodicInvestment) IsLiquidatedIn(year int) bool {
	return year == p.LastYear
}

// Liquidation returns the gross value and interest at the end of LastYear.
// Social taxes are withheld; the taxable interest is left to the caller,
// which applies the life-insurance rebate.
func (p *PeriodicInvestment) Liquidation(calc fiscal.Calculator) Sale {
	value, invested := p.accumulated(p.LastYear)
	interests := math.Max(0, value-invested)
	social := calc.SocialTaxesOnCapital(interests)
	taxable := interests
	if p.Kind == KindPEA {
		taxable = 0
	}
	return Sale{
		Brut:             value,
		Taxes:            social,
		Net:              value - social,
		TaxableInterests: taxable,
		SocialTaxes:      social,
	}
}

func (p *PeriodicInvestment) Clone() *PeriodicInvestment {
	c := *p
	c.Base = p.Base.clone()
	c.Clause = p.Clause.Clone()
	return &c
}

// =============================================================================
// FREE INVESTMENT (VEHICLE OF THE LIQUIDITY POOL)
// =============================================================================

// VehicleState is the balance of a free investment at the end of Year.
type VehicleState struct {
	Year     int     `json:"year" yaml:"year"`
	Value    float64 `json:"value" yaml:"value"`
	Invested float64 `json:"invested" yaml:"invested"`
}

// Interests returns the unrealized interest held in the balance.
func (s VehicleState) Interests() float64 {
	return math.Max(0, s.Value-s.Invested)
}

// FreeInvestment is a financial holding receiving surpluses and funding
// deficits of the household.
type FreeInvestment struct {
	Base                `yaml:",inline"`
	Kind                VehicleKind    `json:"kind" yaml:"kind"`
	PeriodicSocialTaxes bool           `json:"periodic_social_taxes,omitempty" yaml:"periodic_social_taxes"`
	Clause              *clause.Clause `json:"clause,omitempty" yaml:"clause"`
	InterestRate        float64        `json:"interest_rate" yaml:"interest_rate"`
	Inflation           float64        `json:"inflation" yaml:"inflation"`
	State               VehicleState   `json:"state" yaml:"state"`
}

func (f *FreeInvestment) BeneficiaryClause() *clause.Clause { return f.Clause }

// IsLifeInsurance reports whether the vehicle is a life-insurance contract.
func (f *FreeInvestment) IsLifeInsurance() bool { return f.Kind == KindLifeInsurance }

// Value returns the current balance. Financial holdings are outside the
// real-estate wealth tax.
func (f *FreeInvestment) Value(year int, ctx ownership.EvaluationContext) float64 {
	if ctx == ownership.ContextIFI {
		return 0
	}
	return f.State.Value
}

// withdrawalSocialRate is the social tax rate still due on interest when it
// is withdrawn.
func (f *FreeInvestment) withdrawalSocialRate(socialRate float64) float64 {
	if f.IsLifeInsurance() && f.PeriodicSocialTaxes {
		return 0
	}
	return socialRate
}

// AverageNetInterestRate is the yearly rate net of periodic social taxes and
// of inflation.
func (f *FreeInvestment) AverageNetInterestRate(socialRate float64) float64 {
	rate := f.InterestRate
	if f.IsLifeInsurance() && f.PeriodicSocialTaxes {
		rate *= 1 - socialRate
	}
	return rate - f.Inflation
}

// Capitalize adds the interest of year to the balance, once per year.
// Contracts with periodic social taxes pay them on the interest.
func (f *FreeInvestment) Capitalize(year int, socialRate float64) float64 {
	if f.State.Year >= year {
		return 0
	}
	interests := f.State.Value * f.InterestRate
	if f.IsLifeInsurance() && f.PeriodicSocialTaxes {
		interests -= interests * socialRate
	}
	f.State.Value += interests
	f.State.Year = year
	return interests
}

// Deposit adds new capital.
func (f *FreeInvestment) Deposit(amount float64) {
	if amount <= 0 {
		return
	}
	f.State.Value += amount
	f.State.Invested += amount
}

// NetLiquidity is the net amount obtainable by withdrawing everything.
func (f *FreeInvestment) NetLiquidity(socialRate float64) float64 {
	if f.State.Value <= 0 {
		return 0
	}
	k := f.State.Interests() / f.State.Value * f.withdrawalSocialRate(socialRate)
	return f.State.Value * (1 - k)
}

// Withdrawal is the fiscal breakdown of a withdrawal.
type Withdrawal struct {
	Brut             float64 `json:"brut"`
	Net              float64 `json:"net"`
	Interests        float64 `json:"interests"`
	TaxableInterests float64 `json:"taxable_interests"`
	SocialTaxes      float64 `json:"social_taxes"`
}

// Withdraw removes enough capital to deliver net after social taxes withheld
// at source, capped by NetLiquidity. TaxableInterests is before any
// life-insurance rebate.
func (f *FreeInvestment) Withdraw(net float64, socialRate float64) Withdrawal {
	available := f.NetLiquidity(socialRate)
	if net <= 0 || available <= 0 {
		return Withdrawal{}
	}
	if net > available {
		net = available
	}
	ratio := f.State.Interests() / f.State.Value
	rate := f.withdrawalSocialRate(socialRate)
	brut := net / (1 - ratio*rate)
	if brut > f.State.Value {
		brut = f.State.Value
	}
	interests := brut * ratio
	social := interests * rate

	f.State.Value -= brut
	f.State.Invested -= brut - interests
	if f.State.Value < 1e-6 {
		f.State.Value, f.State.Invested = 0, 0
	}

	taxable := interests
	if f.Kind == KindPEA {
		taxable = 0
	}
	return Withdrawal{
		Brut:             brut,
		Net:              brut - social,
		Interests:        interests,
		TaxableInterests: taxable,
		SocialTaxes:      social,
	}
}

func (f *FreeInvestment) Clone() *FreeInvestment {
	c := *f
	c.Base = f.Base.clone()
	c.Clause = f.Clause.Clone()
	return &c
}
