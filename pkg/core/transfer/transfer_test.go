package transfer

import (
	"errors"
	"io"
	"log"
	"math"
	"reflect"
	"testing"

	"family_patrimony/pkg/core/clause"
	"family_patrimony/pkg/core/ownership"
)

func quietEngine() *Engine {
	return &Engine{Logger: log.New(io.Discard, "", 0)}
}

func near(a, b float64) bool { return math.Abs(a-b) < ownership.Tolerance }

func assertValid(t *testing.T, o *ownership.Ownership) {
	t.Helper()
	if err := o.Validate(); err != nil {
		t.Fatalf("expected a valid ownership, got %v (%+v)", err, o)
	}
}

func TestTransfer_SoleOwnerTwoChildren(t *testing.T) {
	o := ownership.NewFullOwnership("Alice")
	if err := quietEngine().TransferOwnershipOf(o, "Alice", Heirs{Children: []string{"Carl", "Dana"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValid(t, o)
	if o.IsDismembered || !near(o.FullOwners.Fraction("Carl"), 50) || !near(o.FullOwners.Fraction("Dana"), 50) {
		t.Errorf("expected 50/50 full ownership, got %+v", o)
	}
}

func TestTransfer_SpouseFullUsufruct(t *testing.T) {
	o := ownership.NewFullOwnership("Alice", "Bob")
	heirs := Heirs{Spouse: "Bob", SpouseOption: FullUsufruct, Children: []string{"Carl", "Dana"}}
	if err := quietEngine().TransferOwnershipOf(o, "Alice", heirs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValid(t, o)
	if !o.IsDismembered || !near(o.UsufructOwners.Fraction("Bob"), 100) {
		t.Fatalf("expected Bob sole usufructuary, got %+v", o)
	}
	if !near(o.BareOwners.Fraction("Bob"), 50) || !near(o.BareOwners.Fraction("Carl"), 25) || !near(o.BareOwners.Fraction("Dana"), 25) {
		t.Errorf("expected bare 50/25/25, got %+v", o.BareOwners)
	}
}

func TestTransfer_QuotiteDisponibleStaysFull(t *testing.T) {
	o := ownership.NewFullOwnership("Alice")
	heirs := Heirs{Spouse: "Bob", SpouseOption: QuotiteDisponible, Children: []string{"Carl", "Dana"}}
	if err := quietEngine().TransferOwnershipOf(o, "Alice", heirs); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValid(t, o)
	if o.IsDismembered {
		t.Fatalf("expected identical usufruct and bare sets to reunite, got %+v", o)
	}
	for _, name := range []string{"Bob", "Carl", "Dana"} {
		if !near(o.FullOwners.Fraction(name), 100.0/3) {
			t.Errorf("expected a third for %s, got %f", name, o.FullOwners.Fraction(name))
		}
	}
}

func TestTransfer_SoleUsufructuaryExtinguishes(t *testing.T) {
	bare := ownership.OwnerSet{{Name: "Carl", Fraction: 60}, {Name: "Dana", Fraction: 40}}
	o := ownership.NewDismemberedOwnership(ownership.NewOwnerSet("Alice"), bare)
	if err := quietEngine().TransferOwnershipOf(o, "Alice", Heirs{Children: []string{"Carl", "Dana"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValid(t, o)
	if o.IsDismembered || !near(o.FullOwners.Fraction("Carl"), 60) || !near(o.FullOwners.Fraction("Dana"), 40) {
		t.Errorf("expected full ownership 60/40, got %+v", o)
	}
}

func TestTransfer_SoleUsufructuaryWithoutHeirs(t *testing.T) {
	bare := ownership.OwnerSet{{Name: "Nephew", Fraction: 60}, {Name: "Niece", Fraction: 40}}
	o := ownership.NewDismemberedOwnership(ownership.NewOwnerSet("Alice"), bare)
	if err := quietEngine().TransferOwnershipOf(o, "Alice", Heirs{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValid(t, o)
	if o.IsDismembered || o.Owns("Alice") {
		t.Fatalf("expected the usufruct extinguished, got %+v", o)
	}
	if !near(o.FullOwners.Fraction("Nephew"), 60) || !near(o.FullOwners.Fraction("Niece"), 40) {
		t.Errorf("expected full ownership 60/40, got %+v", o.FullOwners)
	}
}

func TestTransfer_UsufructAndBareOwner(t *testing.T) {
	o := ownership.NewDismemberedOwnership(
		ownership.NewOwnerSet("Alice"),
		ownership.OwnerSet{{Name: "Alice", Fraction: 50}, {Name: "Carl", Fraction: 50}},
	)
	if err := quietEngine().TransferOwnershipOf(o, "Alice", Heirs{Children: []string{"Carl"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValid(t, o)
	if !o.IsSoleFullOwner("Carl") {
		t.Errorf("expected Carl sole full owner, got %+v", o)
	}
}

func TestTransfer_BareOwnerDies(t *testing.T) {
	o := ownership.NewDismemberedOwnership(ownership.NewOwnerSet("Alice"), ownership.NewOwnerSet("Carl", "Dana"))
	if err := quietEngine().TransferOwnershipOf(o, "Carl", Heirs{Children: []string{"Eve"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValid(t, o)
	if !near(o.BareOwners.Fraction("Eve"), 50) || o.BareOwners.Contains("Carl") {
		t.Errorf("expected Eve to take Carl's bare share, got %+v", o.BareOwners)
	}
	if !near(o.UsufructOwners.Fraction("Alice"), 100) {
		t.Errorf("expected the usufruct untouched, got %+v", o.UsufructOwners)
	}
}

func TestTransfer_SeveralUsufructuariesLeavesOwnership(t *testing.T) {
	o := ownership.NewDismemberedOwnership(ownership.NewOwnerSet("Alice", "Bob"), ownership.NewOwnerSet("Carl"))
	before := o.Clone()
	err := quietEngine().TransferOwnershipOf(o, "Alice", Heirs{Spouse: "Bob", Children: []string{"Carl"}})
	if !errors.Is(err, ownership.ErrSeveralUsufructOwners) {
		t.Fatalf("expected ErrSeveralUsufructOwners, got %v", err)
	}
	if !o.UsufructOwners.Equal(before.UsufructOwners) || !o.BareOwners.Equal(before.BareOwners) {
		t.Errorf("expected the ownership unchanged after a failure, got %+v", o)
	}
}

func TestTransfer_NoHeirOrNotOwner(t *testing.T) {
	o := ownership.NewFullOwnership("Alice")
	if err := quietEngine().TransferOwnershipOf(o, "Alice", Heirs{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !o.IsSoleFullOwner("Alice") {
		t.Errorf("expected the ownership unchanged without heirs, got %+v", o)
	}
	if err := quietEngine().TransferOwnershipOf(o, "Zoe", Heirs{Children: []string{"Carl"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !o.IsSoleFullOwner("Alice") {
		t.Errorf("expected the ownership unchanged for a non owner, got %+v", o)
	}
}

func TestDonateOwnership(t *testing.T) {
	o := ownership.NewFullOwnership("Alice")
	if err := quietEngine().DonateOwnership(o, "Alice", []string{"Carl", "Dana"}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValid(t, o)
	if !o.IsUsufructuary("Alice") || !near(o.BareOwners.Fraction("Carl"), 50) {
		t.Errorf("expected Alice to keep the usufruct, got %+v", o)
	}

	full := ownership.NewFullOwnership("Alice", "Bob")
	if err := quietEngine().DonateOwnership(full, "Alice", []string{"Carl"}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !near(full.FullOwners.Fraction("Carl"), 50) || full.Owns("Alice") {
		t.Errorf("expected Carl to replace Alice, got %+v", full)
	}

	if err := quietEngine().DonateOwnership(full, "Bob", nil, false); !errors.Is(err, ownership.ErrNoNewOwners) {
		t.Errorf("expected ErrNoNewOwners, got %v", err)
	}
}

func TestTransferLifeInsurance_Payout(t *testing.T) {
	o := ownership.NewFullOwnership("Alice")
	c := clause.NewDismemberedClause("Bob", "Carl", "Dana")
	if err := quietEngine().TransferLifeInsurance(o, c, "Alice", Heirs{Spouse: "Bob", Children: []string{"Carl", "Dana"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertValid(t, o)
	if !o.IsUsufructuary("Bob") || !near(o.BareOwners.Fraction("Dana"), 50) {
		t.Errorf("expected the clause ownership, got %+v", o)
	}
}

func TestTransferLifeInsurance_CoOwnedReplacesSpouse(t *testing.T) {
	o := ownership.NewFullOwnership("Alice", "Bob")
	c := clause.NewClause("Bob")
	if err := quietEngine().TransferLifeInsurance(o, c, "Alice", Heirs{Spouse: "Bob", Children: []string{"Carl"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !o.IsSoleFullOwner("Bob") {
		t.Errorf("expected Bob sole owner, got %+v", o)
	}
	if c.Designates("Bob") || !c.Designates("Carl") {
		t.Errorf("expected the children designated in place of the spouse, got %+v", c)
	}
}

func TestTransferLifeInsurance_Branches(t *testing.T) {
	tests := []struct {
		name     string
		owners   *ownership.Ownership
		clause   *clause.Clause
		decedent string
		heirs    Heirs
		wantErr  error
		check    func(t *testing.T, o *ownership.Ownership, c *clause.Clause)
	}{
		{
			name:     "sole usufructuary rejoins bare owners",
			owners:   ownership.NewDismemberedOwnership(ownership.NewOwnerSet("Bob"), ownership.NewOwnerSet("Carl", "Dana")),
			clause:   clause.NewClause("Carl"),
			decedent: "Bob",
			heirs:    Heirs{Children: []string{"Carl", "Dana"}},
			check: func(t *testing.T, o *ownership.Ownership, c *clause.Clause) {
				if o.IsDismembered || !near(o.FullOwners.Fraction("Carl"), 50) || !near(o.FullOwners.Fraction("Dana"), 50) {
					t.Errorf("expected full ownership 50/50, got %+v", o)
				}
				if !c.Designates("Carl") {
					t.Errorf("expected the clause untouched, got %+v", c)
				}
			},
		},
		{
			name:     "shared usufruct",
			owners:   ownership.NewDismemberedOwnership(ownership.NewOwnerSet("Alice", "Bob"), ownership.NewOwnerSet("Carl")),
			clause:   clause.NewClause("Carl"),
			decedent: "Alice",
			heirs:    Heirs{Spouse: "Bob", Children: []string{"Carl"}},
			wantErr:  ownership.ErrSeveralUsufructOwners,
		},
		{
			name:     "clause rewrite left without bare recipient",
			owners:   ownership.NewFullOwnership("Alice", "Bob"),
			clause:   clause.NewDismemberedClause("Eve", "Bob"),
			decedent: "Alice",
			heirs:    Heirs{Spouse: "Bob", Children: []string{"Eve"}},
			wantErr:  clause.ErrInvalidClause,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ownersBefore, clauseBefore := tt.owners.Clone(), tt.clause.Clone()
			err := quietEngine().TransferLifeInsurance(tt.owners, tt.clause, tt.decedent, tt.heirs)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				if !reflect.DeepEqual(tt.owners, ownersBefore) {
					t.Errorf("expected the ownership rolled back, got %+v", tt.owners)
				}
				if !reflect.DeepEqual(tt.clause, clauseBefore) {
					t.Errorf("expected the clause rolled back, got %+v", tt.clause)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertValid(t, tt.owners)
			tt.check(t, tt.owners, tt.clause)
		})
	}
}

func TestTransferLifeInsurance_Errors(t *testing.T) {
	o := ownership.NewDismemberedOwnership(ownership.NewOwnerSet("Bob"), ownership.NewOwnerSet("Alice"))
	err := quietEngine().TransferLifeInsurance(o, clause.NewClause("Carl"), "Alice", Heirs{Children: []string{"Carl"}})
	if !errors.Is(err, ownership.ErrDecedentIsBareOwner) {
		t.Errorf("expected ErrDecedentIsBareOwner, got %v", err)
	}
	if err := quietEngine().TransferLifeInsurance(ownership.NewFullOwnership("Alice"), nil, "Alice", Heirs{}); !errors.Is(err, clause.ErrInvalidClause) {
		t.Errorf("expected ErrInvalidClause, got %v", err)
	}
}

func TestFiscalOption_Shares(t *testing.T) {
	for _, opt := range []FiscalOption{FullUsufruct, QuotiteDisponible, UsufructPlusBare} {
		for n := 0; n <= 4; n++ {
			s := opt.SharesFor(n)
			if !near(s.SpouseFull+s.SpouseUsufruct+s.ChildrenFull, 1) {
				t.Errorf("%s/%d: expected the usufruct rights to sum to 1, got %+v", opt, n, s)
			}
			if n > 0 && !near(s.SpouseFull+s.ChildrenFull+s.ChildrenBare, 1) {
				t.Errorf("%s/%d: expected the bare rights to sum to 1, got %+v", opt, n, s)
			}
		}
	}
	if q := QuotiteFraction(3); q != 0.25 {
		t.Errorf("expected 1/4 with three children, got %f", q)
	}
	if _, err := ParseFiscalOption("HALF"); err == nil {
		t.Errorf("expected an error for an unknown option")
	}
	if opt, _ := ParseFiscalOption(""); opt != FullUsufruct {
		t.Errorf("expected FULL_USUFRUCT by default, got %s", opt)
	}
}

func TestSuccession_Totals(t *testing.T) {
	s := Succession{Kind: LegalSuccession, Decedent: "Alice", Inheritances: []Inheritance{
		{Person: "Bob", Brut: 100, Tax: 0, Net: 100},
		{Person: "Carl", Brut: 200, Tax: 20, Net: 180},
	}}
	if s.TotalBrut() != 300 || s.TotalTax() != 20 || s.TotalNet() != 280 {
		t.Errorf("unexpected totals %f/%f/%f", s.TotalBrut(), s.TotalTax(), s.TotalNet())
	}
	if i, ok := s.Of("Carl"); !ok || i.Tax != 20 {
		t.Errorf("expected Carl's tax 20, got %+v", i)
	}
	if _, ok := s.Of("Dana"); ok {
		t.Errorf("expected no inheritance for Dana")
	}
}
