// Package family holds the members of the simulated household and answers
// the read-only queries of the yearly computation: ages, who is alive, heirs.
package family

import (
	"fmt"

	"family_patrimony/pkg/core/ownership"
	"family_patrimony/pkg/core/transfer"
)

// Role separates the adults' fiscal household from the children.
type Role string

const (
	RoleAdult Role = "ADULT"
	RoleChild Role = "CHILD"
)

// Person is a family member.
type Person struct {
	Name      string `json:"name" yaml:"name"`
	Role      Role   `json:"role" yaml:"role"`
	BirthYear int    `json:"birth_year" yaml:"birth_year"`
	DeathYear int    `json:"death_year,omitempty" yaml:"death_year"` // 0 = survives the simulation

	// Revenues, net of social contributions, per year
	Salary         float64 `json:"salary,omitempty" yaml:"salary"`
	RetirementYear int     `json:"retirement_year,omitempty" yaml:"retirement_year"`
	Pension        float64 `json:"pension,omitempty" yaml:"pension"`

	// Choice made by this person if it survives its spouse
	FiscalOption transfer.FiscalOption `json:"fiscal_option,omitempty" yaml:"fiscal_option"`
}

// LivesDuring reports whether the person is alive at some point of year.
func (p *Person) LivesDuring(year int) bool {
	return year >= p.BirthYear && (p.DeathYear == 0 || year <= p.DeathYear)
}

// IsAliveAtEndOf reports whether the person is alive on the last day of year.
func (p *Person) IsAliveAtEndOf(year int) bool {
	return year >= p.BirthYear && (p.DeathYear == 0 || year < p.DeathYear)
}

// WorkIncome returns the salary earned in year.
func (p *Person) WorkIncome(year int) float64 {
	if !p.LivesDuring(year) {
		return 0
	}
	if p.RetirementYear == 0 || year < p.RetirementYear {
		return p.Salary
	}
	return 0
}

// PensionIncome returns the pension received in year.
func (p *Person) PensionIncome(year int) float64 {
	if !p.LivesDuring(year) {
		return 0
	}
	if p.RetirementYear != 0 && year >= p.RetirementYear {
		return p.Pension
	}
	if p.RetirementYear == 0 && p.Salary == 0 {
		return p.Pension
	}
	return 0
}

// Family is the set of simulated members.
type Family struct {
	Members []*Person `json:"members" yaml:"members"`
}

// New creates a family and checks member names are unique.
func New(members ...*Person) (*Family, error) {
	f := &Family{}
	for _, m := range members {
		if err := f.Add(m); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Add registers a member.
func (f *Family) Add(p *Person) error {
	if p.Name == "" {
		return fmt.Errorf("member name cannot be empty")
	}
	if f.Member(p.Name) != nil {
		return fmt.Errorf("member '%s' already exists", p.Name)
	}
	if p.Role != RoleAdult && p.Role != RoleChild {
		return fmt.Errorf("member '%s' has unknown role '%s'", p.Name, p.Role)
	}
	f.Members = append(f.Members, p)
	return nil
}

// Member finds a member by name.
func (f *Family) Member(name string) *Person {
	for _, m := range f.Members {
		if ownership.SameName(m.Name, name) {
			return m
		}
	}
	return nil
}

// Age implements ownership.AgeProvider. Unknown persons are aged 0.
func (f *Family) Age(name string, year int) int {
	m := f.Member(name)
	if m == nil {
		return 0
	}
	return year - m.BirthYear
}

func (f *Family) names(role Role, keep func(*Person) bool) []string {
	var names []string
	for _, m := range f.Members {
		if m.Role == role && keep(m) {
			names = append(names, m.Name)
		}
	}
	return names
}

// AdultsLivingDuring lists adults alive at some point of year.
func (f *Family) AdultsLivingDuring(year int) []string {
	return f.names(RoleAdult, func(p *Person) bool { return p.LivesDuring(year) })
}

// AdultsAliveAtEndOf lists adults surviving year.
func (f *Family) AdultsAliveAtEndOf(year int) []string {
	return f.names(RoleAdult, func(p *Person) bool { return p.IsAliveAtEndOf(year) })
}

// ChildrenLivingDuring lists children alive at some point of year.
func (f *Family) ChildrenLivingDuring(year int) []string {
	return f.names(RoleChild, func(p *Person) bool { return p.LivesDuring(year) })
}

// ChildrenAliveAtEndOf lists children surviving year.
func (f *Family) ChildrenAliveAtEndOf(year int) []string {
	return f.names(RoleChild, func(p *Person) bool { return p.IsAliveAtEndOf(year) })
}

// DecedentsOf lists the adults dying during year, in member order.
func (f *Family) DecedentsOf(year int) []string {
	return f.names(RoleAdult, func(p *Person) bool { return p.DeathYear == year })
}

// IsAdult reports whether name is an adult member.
func (f *Family) IsAdult(name string) bool {
	m := f.Member(name)
	return m != nil && m.Role == RoleAdult
}

// SpouseOf returns the other adult alive at the end of year, if any.
func (f *Family) SpouseOf(name string, year int) string {
	for _, adult := range f.AdultsAliveAtEndOf(year) {
		if !ownership.SameName(adult, name) {
			return adult
		}
	}
	return ""
}

// HeirsOf returns the heirs of decedent at the end of year.
func (f *Family) HeirsOf(decedent string, year int) transfer.Heirs {
	heirs := transfer.Heirs{Children: f.ChildrenAliveAtEndOf(year)}
	if spouse := f.SpouseOf(decedent, year); spouse != "" {
		heirs.Spouse = spouse
		heirs.SpouseOption = f.Member(spouse).FiscalOption
		if heirs.SpouseOption == "" {
			heirs.SpouseOption = transfer.FullUsufruct
		}
	}
	return heirs
}

// Clone returns an independent copy for a new run.
func (f *Family) Clone() *Family {
	c := &Family{Members: make([]*Person, 0, len(f.Members))}
	for _, m := range f.Members {
		p := *m
		c.Members = append(c.Members, &p)
	}
	return c
}
