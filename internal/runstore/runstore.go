// Package runstore persists per-iteration evaluation results to SQLite so
// an optimization run can be inspected after the fact.
package runstore

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/NLRWindSystems/Ard/internal/eco"
)

// Store records evaluation runs and their per-turbine results.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the results database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id            TEXT PRIMARY KEY,
			options_path      TEXT,
			n_turbines        BIGINT,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS evaluations (
			run_id            TEXT,
			iter              BIGINT,
			turbine           BIGINT,
			x                 DOUBLE,
			y                 DOUBLE,
			density           DOUBLE,
			d_density_dx      DOUBLE,
			d_density_dy      DOUBLE,
			timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(run_id) REFERENCES runs(run_id)
		);
	`)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun registers a new run and returns its identifier.
func (s *Store) BeginRun(optionsPath string, nTurbines int) (string, error) {
	runID := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO runs (run_id, options_path, n_turbines) VALUES (?, ?, ?)`,
		runID, optionsPath, nTurbines,
	)
	if err != nil {
		return "", fmt.Errorf("failed to register run: %w", err)
	}
	return runID, nil
}

// RecordEvaluation stores one iteration's layout and result under runID.
// The whole iteration is written in a single transaction.
func (s *Store) RecordEvaluation(runID string, iter int, layout eco.Layout, res *eco.Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO evaluations (run_id, iter, turbine, x, y, density, d_density_dx, d_density_dy)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range res.Density {
		_, err := stmt.Exec(runID, iter, i, layout.X[i], layout.Y[i], d,
			res.DDensityDX.At(i, i), res.DDensityDY.At(i, i))
		if err != nil {
			return fmt.Errorf("failed to insert turbine %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Densities reads back the per-turbine densities recorded for one
// iteration of a run, ordered by turbine index.
func (s *Store) Densities(runID string, iter int) ([]float64, error) {
	rows, err := s.db.Query(
		`SELECT density FROM evaluations WHERE run_id = ? AND iter = ? ORDER BY turbine`,
		runID, iter,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluations: %w", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var d float64
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan density: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
