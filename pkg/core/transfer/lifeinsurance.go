package transfer

import (
	"fmt"

	"family_patrimony/pkg/core/clause"
	"family_patrimony/pkg/core/ownership"
)

// TransferLifeInsurance updates a life-insurance capital and its clause on
// the death of decedent. The clause, not the heirship, governs who receives
// the capital. Ownership and clause are committed together or not at all.
func (e *Engine) TransferLifeInsurance(o *ownership.Ownership, c *clause.Clause, decedent string, heirs Heirs) error {
	if c == nil {
		return fmt.Errorf("%w: missing clause", clause.ErrInvalidClause)
	}
	next := o.Clone()
	nextClause := c.Clone()

	switch {
	case next.IsDismembered && next.IsUsufructuary(decedent):
		if len(next.UsufructOwners) > 1 {
			return fmt.Errorf("%w: life-insurance usufruct shared by %d owners",
				ownership.ErrSeveralUsufructOwners, len(next.UsufructOwners))
		}
		if next.IsBareOwner(decedent) {
			return fmt.Errorf("%w: '%s' is usufructuary and bare owner of a life-insurance capital",
				ownership.ErrDecedentIsBareOwner, decedent)
		}
		if len(next.BareOwners) == 0 {
			return ownership.ErrNoBareOwners
		}
		next.SetDismembered(false)

	case next.IsDismembered && next.IsBareOwner(decedent):
		return fmt.Errorf("%w: '%s' is a bare owner of a life-insurance capital",
			ownership.ErrDecedentIsBareOwner, decedent)

	case next.IsSoleFullOwner(decedent):
		// payout: the capital takes the ownership designated by the clause
		payout, err := nextClause.BeneficiaryOwnership()
		if err != nil {
			return err
		}
		next = payout

	case next.IsFullOwner(decedent):
		owners, err := next.FullOwners.RedistributeShare(decedent)
		if err != nil {
			return err
		}
		next.FullOwners = owners
		if heirs.HasSpouse() && next.FullOwners.Contains(heirs.Spouse) {
			// the capital escapes the estate: a later death of the spouse must
			// not send it back through ordinary succession
			if err := nextClause.ReplaceSpouse(heirs.Spouse, heirs.Children); err != nil {
				return err
			}
		}

	default:
		return nil
	}

	if err := nextClause.Validate(); err != nil {
		return err
	}
	if err := commit(o, next); err != nil {
		return err
	}
	*c = *nextClause
	e.logf("life insurance of '%s' transferred", decedent)
	return nil
}
