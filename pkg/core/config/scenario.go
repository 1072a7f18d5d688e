// Package config loads simulation scenarios and the process environment.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"family_patrimony/pkg/core/asset"
	"family_patrimony/pkg/core/family"
	"family_patrimony/pkg/core/fiscal"
	"family_patrimony/pkg/core/ledger"
	"family_patrimony/pkg/core/transfer"
)

// Scenario is the description of a family, its assets and the fiscal model
// of a simulation, as written in a scenario file.
type Scenario struct {
	Name      string                `json:"name" yaml:"name"`
	StartYear int                   `json:"start_year" yaml:"start_year"`
	Years     int                   `json:"years" yaml:"years"`
	Members   []*family.Person      `json:"members" yaml:"members"`
	Patrimony asset.Patrimony       `json:"patrimony" yaml:"patrimony"`
	Fiscal    *fiscal.StandardModel `json:"fiscal,omitempty" yaml:"fiscal"`
	Expenses  *ledger.FixedExpenses `json:"expenses,omitempty" yaml:"expenses"`
}

// Simulation is a validated scenario ready to run.
type Simulation struct {
	Name      string
	StartYear int
	Years     int
	Family    *family.Family
	Patrimony *asset.Patrimony
	Fiscal    *fiscal.StandardModel
	Expenses  *ledger.FixedExpenses
}

// LoadScenario reads a scenario file, choosing the decoder from the
// extension: .yaml/.yml, .hjson or .json.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	s, err := ParseScenario(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// ParseScenario decodes a scenario in the format named by ext.
func ParseScenario(data []byte, ext string) (*Scenario, error) {
	s := &Scenario{}
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := decodeYAML(data, s); err != nil {
			return nil, err
		}
	case ".hjson":
		if err := decodeHJSON(data, s); err != nil {
			return nil, err
		}
	case ".json":
		repaired, err := decodeJSON(data, s)
		if err != nil {
			return nil, err
		}
		if repaired {
			log.Printf("[config] scenario was not strict JSON, decoded a repaired version")
		}
	default:
		return nil, fmt.Errorf("unsupported scenario format '%s'", ext)
	}
	return s, nil
}

// Build validates the scenario and returns an independent simulation.
// The default fiscal model applies when none is given.
func (s *Scenario) Build() (*Simulation, error) {
	if s.Years < 0 {
		return nil, fmt.Errorf("years cannot be negative, got %d", s.Years)
	}

	members := make([]*family.Person, 0, len(s.Members))
	for _, m := range s.Members {
		p := *m
		p.Role = family.Role(strings.ToUpper(string(p.Role)))
		opt, err := transfer.ParseFiscalOption(string(p.FiscalOption))
		if err != nil {
			return nil, fmt.Errorf("member '%s': %w", p.Name, err)
		}
		p.FiscalOption = opt
		members = append(members, &p)
	}
	fam, err := family.New(members...)
	if err != nil {
		return nil, err
	}

	pat := s.Patrimony.Clone()
	for _, p := range pat.Periodics {
		if p.Kind, err = asset.ParseVehicleKind(string(p.Kind)); err != nil {
			return nil, fmt.Errorf("periodic investment '%s': %w", p.Name(), err)
		}
	}
	for _, v := range pat.Investments {
		if v.Kind, err = asset.ParseVehicleKind(string(v.Kind)); err != nil {
			return nil, fmt.Errorf("investment '%s': %w", v.Name(), err)
		}
		if v.State.Year == 0 {
			v.State.Year = s.StartYear - 1
		}
	}
	if err := pat.Validate(); err != nil {
		return nil, err
	}

	model := fiscal.DefaultModel()
	if s.Fiscal != nil {
		m := *s.Fiscal
		model = &m
	}

	var expenses *ledger.FixedExpenses
	if s.Expenses != nil {
		e := *s.Expenses
		if e.BaseYear == 0 {
			e.BaseYear = s.StartYear
		}
		expenses = &e
	}

	return &Simulation{
		Name:      s.Name,
		StartYear: s.StartYear,
		Years:     s.Years,
		Family:    fam,
		Patrimony: pat,
		Fiscal:    model,
		Expenses:  expenses,
	}, nil
}
