package ownership

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidOwnership      = errors.New("invalid ownership")
	ErrSeveralUsufructOwners = errors.New("several usufruct owners not supported")
	ErrDecedentIsBareOwner   = errors.New("decedent holds bare ownership in an unsupported configuration")
	ErrNotDismembered        = errors.New("ownership is not dismembered")
	ErrNoBareOwners          = errors.New("no bare owners")
)

// Ownership describes the rights held over one asset.
type Ownership struct {
	IsDismembered  bool     `json:"is_dismembered" yaml:"is_dismembered"`
	FullOwners     OwnerSet `json:"full_owners,omitempty" yaml:"full_owners"`
	UsufructOwners OwnerSet `json:"usufruct_owners,omitempty" yaml:"usufruct_owners"`
	BareOwners     OwnerSet `json:"bare_owners,omitempty" yaml:"bare_owners"`
}

// NewFullOwnership shares full ownership equally between names.
func NewFullOwnership(names ...string) *Ownership {
	return &Ownership{FullOwners: NewOwnerSet(names...)}
}

// NewDismemberedOwnership builds a dismembered ownership from both sets.
func NewDismemberedOwnership(usufruct, bare OwnerSet) *Ownership {
	return &Ownership{
		IsDismembered:  true,
		UsufructOwners: usufruct,
		BareOwners:     bare,
	}
}

// Clone returns a deep copy.
func (o *Ownership) Clone() *Ownership {
	if o == nil {
		return nil
	}
	return &Ownership{
		IsDismembered:  o.IsDismembered,
		FullOwners:     o.FullOwners.Clone(),
		UsufructOwners: o.UsufructOwners.Clone(),
		BareOwners:     o.BareOwners.Clone(),
	}
}

// SetDismembered toggles the dismemberment. Dismembering seeds both the
// usufruct and the bare sets from the current full owners; reuniting makes
// the bare owners full owners.
func (o *Ownership) SetDismembered(dismembered bool) {
	if dismembered == o.IsDismembered {
		return
	}
	if dismembered {
		o.UsufructOwners = o.FullOwners.Clone()
		o.BareOwners = o.FullOwners.Clone()
		o.FullOwners = nil
	} else {
		o.FullOwners = o.BareOwners.Clone()
		o.UsufructOwners = nil
		o.BareOwners = nil
	}
	o.IsDismembered = dismembered
}

// Validate checks the ownership invariants.
func (o *Ownership) Validate() error {
	if o.IsDismembered {
		if len(o.FullOwners) != 0 {
			return fmt.Errorf("%w: dismembered asset with full owners", ErrInvalidOwnership)
		}
		if len(o.UsufructOwners) == 0 {
			return fmt.Errorf("%w: dismembered asset without usufruct owner", ErrInvalidOwnership)
		}
		if len(o.BareOwners) == 0 {
			return fmt.Errorf("%w: dismembered asset without bare owner", ErrInvalidOwnership)
		}
		if err := o.UsufructOwners.Validate(); err != nil {
			return fmt.Errorf("%w: usufruct: %v", ErrInvalidOwnership, err)
		}
		if err := o.BareOwners.Validate(); err != nil {
			return fmt.Errorf("%w: bare ownership: %v", ErrInvalidOwnership, err)
		}
		return nil
	}
	if len(o.UsufructOwners) != 0 || len(o.BareOwners) != 0 {
		return fmt.Errorf("%w: full ownership with dismembered owners", ErrInvalidOwnership)
	}
	if err := o.FullOwners.Validate(); err != nil {
		return fmt.Errorf("%w: full ownership: %v", ErrInvalidOwnership, err)
	}
	return nil
}

// IsValid is the boolean form of Validate.
func (o *Ownership) IsValid() bool {
	return o.Validate() == nil
}

// IsOwned reports whether anybody holds a right on the asset.
func (o *Ownership) IsOwned() bool {
	if o.IsDismembered {
		return len(o.UsufructOwners) > 0 || len(o.BareOwners) > 0
	}
	return len(o.FullOwners) > 0
}

// GroupShares merges duplicate owners and drops zero entries. A dismembered
// ownership whose usufruct and bare sets coincide becomes full ownership.
func (o *Ownership) GroupShares() {
	if !o.IsDismembered {
		o.FullOwners = o.FullOwners.GroupShares()
		return
	}
	o.UsufructOwners = o.UsufructOwners.GroupShares()
	o.BareOwners = o.BareOwners.GroupShares()
	if len(o.UsufructOwners) > 0 && o.UsufructOwners.Equal(o.BareOwners) {
		o.FullOwners = o.BareOwners
		o.UsufructOwners = nil
		o.BareOwners = nil
		o.IsDismembered = false
	}
}

// =============================================================================
// PREDICATES
// =============================================================================

// IsFullOwner reports whether name holds a full-ownership share.
func (o *Ownership) IsFullOwner(name string) bool {
	return !o.IsDismembered && o.FullOwners.Fraction(name) > 0
}

// IsSoleFullOwner reports whether name holds 100% in full ownership.
func (o *Ownership) IsSoleFullOwner(name string) bool {
	return !o.IsDismembered && len(o.FullOwners) == 1 && SameName(o.FullOwners[0].Name, name)
}

// IsUsufructuary reports whether name holds part of the usufruct of a
// dismembered asset.
func (o *Ownership) IsUsufructuary(name string) bool {
	return o.IsDismembered && o.UsufructOwners.Fraction(name) > 0
}

// IsBareOwner reports whether name holds part of the bare ownership of a
// dismembered asset.
func (o *Ownership) IsBareOwner(name string) bool {
	return o.IsDismembered && o.BareOwners.Fraction(name) > 0
}

// Owns reports whether name holds any right on the asset.
func (o *Ownership) Owns(name string) bool {
	return o.IsFullOwner(name) || o.IsUsufructuary(name) || o.IsBareOwner(name)
}

// HasAnOwner reports whether any of names holds a right on the asset.
func (o *Ownership) HasAnOwner(names []string) bool {
	for _, n := range names {
		if o.Owns(n) {
			return true
		}
	}
	return false
}

// IsFullyOwnedBy reports whether the asset is in full ownership and every
// full owner belongs to names.
func (o *Ownership) IsFullyOwnedBy(names []string) bool {
	if o.IsDismembered || len(o.FullOwners) == 0 {
		return false
	}
	for _, owner := range o.FullOwners {
		found := false
		for _, n := range names {
			if SameName(owner.Name, n) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// RevenueFraction returns the fraction (percent) of the asset's revenue due
// to name: its usufruct when dismembered, its full ownership otherwise.
func (o *Ownership) RevenueFraction(name string) float64 {
	if o.IsDismembered {
		return o.UsufructOwners.Fraction(name)
	}
	return o.FullOwners.Fraction(name)
}

// RevenueOwners returns the set of owners entitled to the revenue.
func (o *Ownership) RevenueOwners() OwnerSet {
	if o.IsDismembered {
		return o.UsufructOwners
	}
	return o.FullOwners
}

// CapitalOwners returns the set of owners of the residual capital.
func (o *Ownership) CapitalOwners() OwnerSet {
	if o.IsDismembered {
		return o.BareOwners
	}
	return o.FullOwners
}

// AllOwnerNames lists every person holding any right, without duplicates.
func (o *Ownership) AllOwnerNames() []string {
	var names []string
	add := func(set OwnerSet) {
		for _, owner := range set {
			dup := false
			for _, n := range names {
				if SameName(n, owner.Name) {
					dup = true
					break
				}
			}
			if !dup {
				names = append(names, owner.Name)
			}
		}
	}
	add(o.FullOwners)
	add(o.UsufructOwners)
	add(o.BareOwners)
	return names
}

// =============================================================================
// VALUE SHARING
// =============================================================================

// OwnedValue returns the part of totalValue owned by name at the end of year,
// according to the evaluation context.
func (o *Ownership) OwnedValue(name string, totalValue float64, year int, ctx EvaluationContext, v Valuation) float64 {
	if !o.IsDismembered {
		return totalValue * o.FullOwners.Fraction(name) / 100
	}
	if !ctx.splitsDismemberment() {
		// wealth tax and quasi-usufruct: the usufructuary carries the full value
		return totalValue * o.UsufructOwners.Fraction(name) / 100
	}
	owned := 0.0
	bareSum := o.BareOwners.Sum()
	bareFraction := o.BareOwners.Fraction(name)
	for _, usufructuary := range o.UsufructOwners {
		slice := totalValue * usufructuary.Fraction / 100
		usufructValue, bareValue := v.split(slice, usufructuary.Name, year)
		if SameName(usufructuary.Name, name) {
			owned += usufructValue
		}
		if bareSum > 0 {
			owned += bareValue * bareFraction / bareSum
		}
	}
	return owned
}

// OwnedValues returns the owned value of every right holder.
func (o *Ownership) OwnedValues(totalValue float64, year int, ctx EvaluationContext, v Valuation) map[string]float64 {
	values := make(map[string]float64)
	for _, name := range o.AllOwnerNames() {
		values[name] = o.OwnedValue(name, totalValue, year, ctx, v)
	}
	return values
}

// Demembrement returns the usufruct and bare values of the whole asset.
func (o *Ownership) Demembrement(totalValue float64, year int, v Valuation) (usufruct, bare float64, err error) {
	if !o.IsDismembered {
		return 0, 0, ErrNotDismembered
	}
	for _, usufructuary := range o.UsufructOwners {
		uf, np := v.split(totalValue*usufructuary.Fraction/100, usufructuary.Name, year)
		usufruct += uf
		bare += np
	}
	return usufruct, bare, nil
}
