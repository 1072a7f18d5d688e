package transfer

import (
	"fmt"
	"log"

	"family_patrimony/pkg/core/ownership"
)

// Engine applies succession and donation rules to ownership records.
// Every operation works on a copy and commits only a valid result.
type Engine struct {
	Logger *log.Logger
}

// NewEngine creates an engine logging to the standard logger.
func NewEngine() *Engine {
	return &Engine{Logger: log.Default()}
}

func (e *Engine) logf(format string, args ...interface{}) {
	if e == nil || e.Logger == nil {
		return
	}
	e.Logger.Printf("[transfer] "+format, args...)
}

// heirRights splits a full-ownership share between the heirs, returning the
// usufruct and bare rights they receive.
func heirRights(share float64, heirs Heirs) (usufruct, bare ownership.OwnerSet) {
	n := len(heirs.Children)
	if !heirs.HasSpouse() {
		for _, child := range heirs.Children {
			usufruct = append(usufruct, ownership.Owner{Name: child, Fraction: share / float64(n)})
			bare = append(bare, ownership.Owner{Name: child, Fraction: share / float64(n)})
		}
		return usufruct, bare
	}

	s := heirs.SpouseOption.SharesFor(n)
	usufruct = append(usufruct, ownership.Owner{Name: heirs.Spouse, Fraction: share * (s.SpouseFull + s.SpouseUsufruct)})
	bare = append(bare, ownership.Owner{Name: heirs.Spouse, Fraction: share * s.SpouseFull})
	for _, child := range heirs.Children {
		usufruct = append(usufruct, ownership.Owner{Name: child, Fraction: share * s.ChildrenFull / float64(n)})
		bare = append(bare, ownership.Owner{Name: child, Fraction: share * (s.ChildrenFull + s.ChildrenBare) / float64(n)})
	}
	return usufruct, bare
}

func commit(o, next *ownership.Ownership) error {
	next.GroupShares()
	if err := next.Validate(); err != nil {
		return err
	}
	*o = *next
	return nil
}

// =============================================================================
// SUCCESSION
// =============================================================================

// TransferOwnershipOf updates o to reflect the death of decedent.
func (e *Engine) TransferOwnershipOf(o *ownership.Ownership, decedent string, heirs Heirs) error {
	if !o.Owns(decedent) {
		return nil
	}
	next := o.Clone()
	isUsufructuary := next.IsUsufructuary(decedent)
	isBareOwner := next.IsBareOwner(decedent)

	if isUsufructuary && len(next.UsufructOwners) > 1 {
		return fmt.Errorf("%w: '%s' shares the usufruct with %d other owners",
			ownership.ErrSeveralUsufructOwners, decedent, len(next.UsufructOwners)-1)
	}
	if isUsufructuary && !isBareOwner {
		// usufruct rejoins bare ownership, heirs or not
		next.SetDismembered(false)
		return commit(o, next)
	}

	// the remaining cases hand the decedent's rights to its heirs
	if heirs.IsEmpty() {
		e.logf("no heir for '%s': ownership left unchanged", decedent)
		return nil
	}
	switch {
	case !next.IsDismembered:
		if err := transferFullOwnership(next, decedent, heirs); err != nil {
			return err
		}
	case isUsufructuary:
		transferUsufructAndBare(next, decedent, heirs)
	case isBareOwner:
		if err := transferBareOwnership(next, decedent, heirs); err != nil {
			return err
		}
	}
	return commit(o, next)
}

// transferFullOwnership replaces the decedent full owner by its heirs. The
// spouse's usufruct options dismember the asset.
func transferFullOwnership(o *ownership.Ownership, decedent string, heirs Heirs) error {
	share := o.FullOwners.Fraction(decedent)
	others := o.FullOwners.Without(decedent)

	if !heirs.HasSpouse() {
		owners, err := o.FullOwners.Replace(decedent, heirs.Children)
		if err != nil {
			return err
		}
		o.FullOwners = owners
		return nil
	}

	usufruct, bare := heirRights(share, heirs)
	o.IsDismembered = true
	o.UsufructOwners = ownership.Merge(others, usufruct)
	o.BareOwners = ownership.Merge(others, bare)
	o.FullOwners = nil
	return nil
}

// transferUsufructAndBare handles a decedent that is the sole usufructuary
// and one of the bare owners: its bare share passes as a full-ownership share
// and its usufruct over the other bare shares rejoins them.
func transferUsufructAndBare(o *ownership.Ownership, decedent string, heirs Heirs) {
	share := o.BareOwners.Fraction(decedent)
	others := o.BareOwners.Without(decedent)
	usufruct, bare := heirRights(share, heirs)
	o.UsufructOwners = ownership.Merge(others, usufruct)
	o.BareOwners = ownership.Merge(others, bare)
}

// transferBareOwnership redistributes the decedent's bare share.
func transferBareOwnership(o *ownership.Ownership, decedent string, heirs Heirs) error {
	weights := make(map[string]float64)
	n := len(heirs.Children)
	spouseShare := 0.0
	if heirs.HasSpouse() {
		spouseShare = heirs.SpouseOption.BareShareForSpouse(n)
		if spouseShare > 0 {
			weights[heirs.Spouse] += spouseShare
		}
	}
	for _, child := range heirs.Children {
		weights[child] += (1 - spouseShare) / float64(n)
	}
	bare, err := o.BareOwners.Transfer(decedent, weights)
	if err != nil {
		return err
	}
	o.BareOwners = bare
	return nil
}

// =============================================================================
// DONATION
// =============================================================================

// DonateOwnership gives the rights of donor to donees in equal parts. With
// reserveUsufruct the donor keeps the usufruct and only gives bare ownership.
func (e *Engine) DonateOwnership(o *ownership.Ownership, donor string, donees []string, reserveUsufruct bool) error {
	if !o.Owns(donor) {
		return nil
	}
	if len(donees) == 0 {
		return ownership.ErrNoNewOwners
	}
	next := o.Clone()

	if !next.IsDismembered {
		if !reserveUsufruct {
			owners, err := next.FullOwners.Replace(donor, donees)
			if err != nil {
				return err
			}
			next.FullOwners = owners
			return commit(o, next)
		}
		bare, err := next.FullOwners.Replace(donor, donees)
		if err != nil {
			return err
		}
		next.SetDismembered(true)
		next.BareOwners = bare
		return commit(o, next)
	}

	if next.IsBareOwner(donor) {
		bare, err := next.BareOwners.Replace(donor, donees)
		if err != nil {
			return err
		}
		next.BareOwners = bare
	}
	if next.IsUsufructuary(donor) && !reserveUsufruct {
		usufruct, err := next.UsufructOwners.Replace(donor, donees)
		if err != nil {
			return err
		}
		next.UsufructOwners = usufruct
	}
	return commit(o, next)
}
