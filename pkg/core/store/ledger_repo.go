// Package store persists the cash-flow lines of simulation runs, in
// PostgreSQL when a pool is configured and in local JSON files otherwise.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"family_patrimony/pkg/core/ledger"
)

var ErrRunNotFound = errors.New("simulation run not found")

// Querier is the subset of *pgxpool.Pool used by the repository.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Run is one stored simulation.
type Run struct {
	ID        uuid.UUID              `json:"run_id"`
	Scenario  string                 `json:"scenario"`
	StartYear int                    `json:"start_year"`
	CreatedAt time.Time              `json:"created_at"`
	Lines     []*ledger.CashFlowLine `json:"lines"`
}

// NewRun creates a run with a fresh id.
func NewRun(scenario string, startYear int, lines []*ledger.CashFlowLine) *Run {
	return &Run{
		ID:        uuid.New(),
		Scenario:  scenario,
		StartYear: startYear,
		CreatedAt: time.Now().UTC(),
		Lines:     lines,
	}
}

// LedgerRepo stores runs.
type LedgerRepo struct {
	db      Querier
	fileDir string
}

// NewLedgerRepo creates a repository. If db is nil, runs are written as
// JSON files under dir (defaults to .cache/runs).
func NewLedgerRepo(db Querier, dir string) *LedgerRepo {
	if db == nil && dir == "" {
		dir = filepath.Join(".cache", "runs")
	}
	return &LedgerRepo{db: db, fileDir: dir}
}

// Save persists a run and its lines, replacing lines already stored for the
// same run and year.
func (r *LedgerRepo) Save(ctx context.Context, run *Run) error {
	if r.db == nil {
		return r.saveFile(run)
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO simulation_runs (run_id, scenario, start_year, years, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id)
		DO UPDATE SET years = EXCLUDED.years;
	`, run.ID.String(), run.Scenario, run.StartYear, len(run.Lines), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	for _, line := range run.Lines {
		data, err := json.Marshal(line)
		if err != nil {
			return fmt.Errorf("failed to marshal line %d: %w", line.Year, err)
		}
		_, err = r.db.Exec(ctx, `
			INSERT INTO cash_flow_lines (run_id, year, line_json)
			VALUES ($1, $2, $3)
			ON CONFLICT (run_id, year)
			DO UPDATE SET line_json = EXCLUDED.line_json;
		`, run.ID.String(), line.Year, data)
		if err != nil {
			return fmt.Errorf("failed to save line %d: %w", line.Year, err)
		}
	}
	return nil
}

// Load retrieves a run with its lines in year order.
func (r *LedgerRepo) Load(ctx context.Context, id uuid.UUID) (*Run, error) {
	if r.db == nil {
		return r.loadFile(id)
	}

	run := &Run{ID: id}
	var linesJSON []byte
	err := r.db.QueryRow(ctx, `
		SELECT s.scenario, s.start_year, s.created_at,
			COALESCE((SELECT jsonb_agg(l.line_json ORDER BY l.year)
				FROM cash_flow_lines l WHERE l.run_id = s.run_id), '[]'::jsonb)
		FROM simulation_runs s
		WHERE s.run_id = $1
	`, id.String()).Scan(&run.Scenario, &run.StartYear, &run.CreatedAt, &linesJSON)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}
	if err := json.Unmarshal(linesJSON, &run.Lines); err != nil {
		return nil, fmt.Errorf("failed to unmarshal lines: %w", err)
	}
	return run, nil
}

// =============================================================================
// FILE FALLBACK
// =============================================================================

func (r *LedgerRepo) path(id uuid.UUID) string {
	return filepath.Join(r.fileDir, id.String()+".json")
}

func (r *LedgerRepo) saveFile(run *Run) error {
	if err := os.MkdirAll(r.fileDir, 0755); err != nil {
		return fmt.Errorf("failed to create run dir: %w", err)
	}
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}
	if err := os.WriteFile(r.path(run.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}
	return nil
}

func (r *LedgerRepo) loadFile(id uuid.UUID) (*Run, error) {
	data, err := os.ReadFile(r.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to read run: %w", err)
	}
	run := &Run{}
	if err := json.Unmarshal(data, run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return run, nil
}
