package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"family_patrimony/pkg/core/config"
)

const retiredScenario = `
name: retired
start_year: 2025
members:
  - name: Alice
    role: ADULT
    birth_year: 1955
    retirement_year: 2020
    pension: 20000
patrimony:
  free_investments:
    - name: LI Alice
      kind: LIFE_INSURANCE
      ownership:
        full_owners:
          - {name: Alice, fraction: 100}
      clause:
        full_recipients:
          - {name: Alice, fraction: 100}
      interest_rate: 0.02
      state: {value: 10000, invested: 10000}
fiscal: {}
expenses:
  per_adult: 18000
`

func loadRetired(t *testing.T) *config.Simulation {
	t.Helper()
	s, err := config.ParseScenario([]byte(retiredScenario), ".yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sim, err := s.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return sim
}

func TestRunSimulation(t *testing.T) {
	sim := loadRetired(t)
	res, err := runSimulation(sim, 3, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(res.Lines))
	}
	for i, line := range res.Lines {
		if line.Year != 2025+i {
			t.Errorf("expected year %d, got %d", 2025+i, line.Year)
		}
	}
	if res.Balance == nil || res.Balance.Year != 2027 {
		t.Fatalf("expected a balance sheet for 2027, got %+v", res.Balance)
	}
	if res.Balance.Total() <= 10000 {
		t.Errorf("expected the surplus invested, got net worth %f", res.Balance.Total())
	}
}

func TestWriteJSONLines(t *testing.T) {
	res, err := runSimulation(loadRetired(t), 2, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	if err := writeJSONLines(&buf, res.Lines); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(out) != 2 {
		t.Fatalf("expected 2 JSON lines, got %d", len(out))
	}
	if !strings.Contains(out[0], `"year":2025`) {
		t.Errorf("expected the first line to be 2025, got %s", out[0])
	}
}

func TestWriteSummary(t *testing.T) {
	res, err := runSimulation(loadRetired(t), 1, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var buf bytes.Buffer
	if err := writeSummary(&buf, res, "fr"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "net worth at the end of 2025") {
		t.Errorf("expected the net worth footer, got:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Alice") {
		t.Errorf("expected Alice in the net worth table, got:\n%s", buf.String())
	}
}

func TestValidateCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "retired.yaml")
	if err := os.WriteFile(path, []byte(retiredScenario), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cmd := validateCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--scenario", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "1 members, 1 assets") {
		t.Errorf("unexpected output: %s", out.String())
	}

	cmd = validateCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Errorf("expected an error without --scenario")
	}
}
