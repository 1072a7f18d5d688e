// Package transfer moves ownership rights on death, donation or
// life-insurance payout.
package transfer

import "fmt"

// FiscalOption is the surviving spouse's choice of inheritance share.
type FiscalOption string

const (
	// FullUsufruct gives the spouse the usufruct of the whole share.
	FullUsufruct FiscalOption = "FULL_USUFRUCT"
	// QuotiteDisponible gives the spouse the disposable quota in full ownership.
	QuotiteDisponible FiscalOption = "QUOTITE_DISPONIBLE"
	// UsufructPlusBare gives 1/4 in full ownership and 3/4 in usufruct.
	UsufructPlusBare FiscalOption = "USUFRUCT_PLUS_BARE"
)

// ParseFiscalOption accepts the constant names; empty defaults to FullUsufruct.
func ParseFiscalOption(s string) (FiscalOption, error) {
	switch FiscalOption(s) {
	case "":
		return FullUsufruct, nil
	case FullUsufruct, QuotiteDisponible, UsufructPlusBare:
		return FiscalOption(s), nil
	}
	return "", fmt.Errorf("unknown fiscal option '%s'", s)
}

// Shares splits a unit share between spouse and children. Each value is a
// weight in [0,1] of the decedent's share.
type Shares struct {
	SpouseFull     float64
	SpouseUsufruct float64
	ChildrenFull   float64
	ChildrenBare   float64
}

// QuotiteFraction returns the disposable quota per number of children.
func QuotiteFraction(nbChildren int) float64 {
	switch {
	case nbChildren <= 0:
		return 1
	case nbChildren == 1:
		return 1.0 / 2
	case nbChildren == 2:
		return 1.0 / 3
	default:
		return 1.0 / 4
	}
}

// SharesFor returns how a full-ownership share is split by the option.
func (opt FiscalOption) SharesFor(nbChildren int) Shares {
	if nbChildren == 0 {
		return Shares{SpouseFull: 1}
	}
	switch opt {
	case QuotiteDisponible:
		q := QuotiteFraction(nbChildren)
		return Shares{SpouseFull: q, ChildrenFull: 1 - q}
	case UsufructPlusBare:
		return Shares{SpouseFull: 0.25, SpouseUsufruct: 0.75, ChildrenBare: 0.75}
	default:
		return Shares{SpouseUsufruct: 1, ChildrenBare: 1}
	}
}

// BareShareForSpouse returns the part of a bare-ownership share going to
// the spouse. The spouse's usufruct option has no hold on a bare share.
func (opt FiscalOption) BareShareForSpouse(nbChildren int) float64 {
	if nbChildren == 0 {
		return 1
	}
	switch opt {
	case QuotiteDisponible:
		return QuotiteFraction(nbChildren)
	case UsufructPlusBare:
		return 0.25
	default:
		return 0
	}
}

// Heirs lists the surviving persons entitled to a decedent's estate.
type Heirs struct {
	Children     []string
	Spouse       string
	SpouseOption FiscalOption
}

// HasSpouse reports whether a spouse survives.
func (h Heirs) HasSpouse() bool { return h.Spouse != "" }

// IsEmpty reports whether no heir survives.
func (h Heirs) IsEmpty() bool { return h.Spouse == "" && len(h.Children) == 0 }

// Names returns spouse and children names.
func (h Heirs) Names() []string {
	var names []string
	if h.Spouse != "" {
		names = append(names, h.Spouse)
	}
	return append(names, h.Children...)
}
