package asset

import "family_patrimony/pkg/core/ownership"

// Loan is a liability repaid by constant yearly payments.
type Loan struct {
	Base          `yaml:",inline"`
	FirstYear     int     `json:"first_year" yaml:"first_year"`
	LastYear      int     `json:"last_year" yaml:"last_year"`
	Principal     float64 `json:"principal" yaml:"principal"`
	YearlyPayment float64 `json:"yearly_payment" yaml:"yearly_payment"`
}

// Payment returns the repayment of year.
func (l *Loan) Payment(year int) float64 {
	if year < l.FirstYear || year > l.LastYear {
		return 0
	}
	return l.YearlyPayment
}

// Value is the negative remaining principal at the end of year, amortized
// linearly.
func (l *Loan) Value(year int, ctx ownership.EvaluationContext) float64 {
	if year >= l.LastYear {
		return 0
	}
	if year < l.FirstYear {
		return -l.Principal
	}
	duration := float64(l.LastYear - l.FirstYear + 1)
	remaining := l.Principal * float64(l.LastYear-year) / duration
	return -remaining
}

func (l *Loan) Clone() *Loan {
	c := *l
	c.Base = l.Base.clone()
	return &c
}
