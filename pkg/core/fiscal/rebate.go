package fiscal

import "github.com/shopspring/decimal"

// RebateBudget is the yearly life-insurance allowance shared by every
// liquidation of the year. Amounts are kept in decimal so the consumed total
// never drifts above the initial budget.
type RebateBudget struct {
	initial   decimal.Decimal
	remaining decimal.Decimal
}

// NewRebateBudget starts a year with amount of allowance.
func NewRebateBudget(amount float64) *RebateBudget {
	d := decimal.NewFromFloat(amount)
	if d.IsNegative() {
		d = decimal.Zero
	}
	return &RebateBudget{initial: d, remaining: d}
}

// Apply consumes the allowance against taxable interest and returns the part
// that remains taxable.
func (r *RebateBudget) Apply(taxable float64) float64 {
	if r == nil || taxable <= 0 {
		return taxable
	}
	t := decimal.NewFromFloat(taxable)
	used := decimal.Min(t, r.remaining)
	r.remaining = r.remaining.Sub(used)
	f, _ := t.Sub(used).Float64()
	return f
}

// Remaining returns the allowance still available.
func (r *RebateBudget) Remaining() float64 {
	if r == nil {
		return 0
	}
	f, _ := r.remaining.Float64()
	return f
}

// Consumed returns the allowance used so far.
func (r *RebateBudget) Consumed() float64 {
	if r == nil {
		return 0
	}
	f, _ := r.initial.Sub(r.remaining).Float64()
	return f
}
