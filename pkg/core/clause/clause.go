// Package clause models the beneficiary designation of a life-insurance contract.
package clause

import (
	"errors"
	"fmt"

	"family_patrimony/pkg/core/ownership"
)

var ErrInvalidClause = errors.New("invalid life-insurance clause")

// Clause designates who receives a life-insurance capital on payout.
// Bare recipients of a dismembered clause always share equally.
type Clause struct {
	IsOptional        bool               `json:"is_optional" yaml:"is_optional"`
	IsDismembered     bool               `json:"is_dismembered" yaml:"is_dismembered"`
	FullRecipients    ownership.OwnerSet `json:"full_recipients,omitempty" yaml:"full_recipients"`
	UsufructRecipient string             `json:"usufruct_recipient,omitempty" yaml:"usufruct_recipient"`
	BareRecipients    []string           `json:"bare_recipients,omitempty" yaml:"bare_recipients"`
}

// NewClause designates recipients sharing the capital equally.
func NewClause(recipients ...string) *Clause {
	return &Clause{FullRecipients: ownership.NewOwnerSet(recipients...)}
}

// NewDismemberedClause gives the usufruct to one person and the bare
// ownership to the others.
func NewDismemberedClause(usufruct string, bare ...string) *Clause {
	return &Clause{
		IsDismembered:     true,
		UsufructRecipient: usufruct,
		BareRecipients:    append([]string(nil), bare...),
	}
}

// Clone returns a deep copy.
func (c *Clause) Clone() *Clause {
	if c == nil {
		return nil
	}
	return &Clause{
		IsOptional:        c.IsOptional,
		IsDismembered:     c.IsDismembered,
		FullRecipients:    c.FullRecipients.Clone(),
		UsufructRecipient: c.UsufructRecipient,
		BareRecipients:    append([]string(nil), c.BareRecipients...),
	}
}

// Validate checks the clause invariants.
func (c *Clause) Validate() error {
	switch {
	case c.IsOptional && c.IsDismembered:
		return fmt.Errorf("%w: an optional clause cannot be dismembered", ErrInvalidClause)

	case c.IsOptional:
		if len(c.FullRecipients) != 1 {
			return fmt.Errorf("%w: an optional clause needs exactly one recipient, got %d",
				ErrInvalidClause, len(c.FullRecipients))
		}

	case c.IsDismembered:
		if c.UsufructRecipient == "" {
			return fmt.Errorf("%w: dismembered clause without usufruct recipient", ErrInvalidClause)
		}
		if len(c.BareRecipients) == 0 {
			return fmt.Errorf("%w: dismembered clause without bare recipient", ErrInvalidClause)
		}
		for i, r := range c.BareRecipients {
			if ownership.SameName(r, c.UsufructRecipient) {
				return fmt.Errorf("%w: '%s' is both usufruct and bare recipient", ErrInvalidClause, r)
			}
			for _, other := range c.BareRecipients[i+1:] {
				if ownership.SameName(r, other) {
					return fmt.Errorf("%w: duplicate bare recipient '%s'", ErrInvalidClause, r)
				}
			}
		}
		return nil
	}

	if len(c.FullRecipients) == 0 {
		return fmt.Errorf("%w: no recipient", ErrInvalidClause)
	}
	if err := c.FullRecipients.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidClause, err)
	}
	return nil
}

// IsValid is the boolean form of Validate.
func (c *Clause) IsValid() bool {
	return c.Validate() == nil
}

// Designates reports whether name is one of the recipients.
func (c *Clause) Designates(name string) bool {
	if c.IsDismembered {
		if ownership.SameName(c.UsufructRecipient, name) {
			return true
		}
		for _, r := range c.BareRecipients {
			if ownership.SameName(r, name) {
				return true
			}
		}
		return false
	}
	return c.FullRecipients.Contains(name)
}

// BeneficiaryOwnership returns the ownership the capital takes on payout.
// The recipient of an optional clause takes the capital in full ownership.
func (c *Clause) BeneficiaryOwnership() (*ownership.Ownership, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.IsDismembered {
		return ownership.NewDismemberedOwnership(
			ownership.OwnerSet{{Name: c.UsufructRecipient, Fraction: 100}},
			ownership.NewOwnerSet(c.BareRecipients...),
		), nil
	}
	return &ownership.Ownership{FullOwners: c.FullRecipients.Clone()}, nil
}

// ReplaceSpouse rewrites the clause so the spouse's designation is replaced
// by an equal split among the children. The clause is left untouched when it
// does not designate the spouse or there is no child.
func (c *Clause) ReplaceSpouse(spouse string, children []string) error {
	if spouse == "" || len(children) == 0 || !c.Designates(spouse) {
		return nil
	}
	next := c.Clone()

	switch {
	case next.IsDismembered && ownership.SameName(next.UsufructRecipient, spouse):
		// the bare recipients and the children now share the whole capital
		names := append([]string(nil), next.BareRecipients...)
		for _, child := range children {
			if !contains(names, child) {
				names = append(names, child)
			}
		}
		next = &Clause{FullRecipients: ownership.NewOwnerSet(names...)}

	case next.IsDismembered:
		var bare []string
		for _, r := range next.BareRecipients {
			if !ownership.SameName(r, spouse) {
				bare = append(bare, r)
			}
		}
		for _, child := range children {
			if !contains(bare, child) && !ownership.SameName(child, next.UsufructRecipient) {
				bare = append(bare, child)
			}
		}
		next.BareRecipients = bare

	default:
		recipients, err := next.FullRecipients.Replace(spouse, children)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidClause, err)
		}
		next.FullRecipients = recipients
		next.IsOptional = next.IsOptional && len(recipients) == 1
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = *next
	return nil
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if ownership.SameName(n, name) {
			return true
		}
	}
	return false
}
