package ledger

import "family_patrimony/pkg/core/family"

// ExpenseProvider gives the yearly life expenses of a member.
type ExpenseProvider interface {
	LifeExpenses(p *family.Person, year int) float64
}

// FixedExpenses spends a constant amount per adult and per child, indexed on
// inflation from BaseYear.
type FixedExpenses struct {
	BaseYear  int     `json:"base_year" yaml:"base_year"`
	PerAdult  float64 `json:"per_adult" yaml:"per_adult"`
	PerChild  float64 `json:"per_child" yaml:"per_child"`
	Inflation float64 `json:"inflation" yaml:"inflation"`

	// Overrides per member name, before inflation
	PerMember map[string]float64 `json:"per_member,omitempty" yaml:"per_member"`
}

func (e *FixedExpenses) LifeExpenses(p *family.Person, year int) float64 {
	if e == nil || !p.LivesDuring(year) {
		return 0
	}
	amount, ok := e.PerMember[p.Name]
	if !ok {
		amount = e.PerChild
		if p.Role == family.RoleAdult {
			amount = e.PerAdult
		}
	}
	for y := e.BaseYear; y < year; y++ {
		amount *= 1 + e.Inflation
	}
	return amount
}
