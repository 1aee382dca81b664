// Package archive persists planned experiments in SQLite so earlier plans
// stay inspectable after handoff. It is write-only from the planner's point
// of view; nothing in the planning pass reads it back.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/emallson/waluigi/internal/planner"
)

// Store manages the plan archive database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS plans (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	threads INTEGER NOT NULL,
	instance_count INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS instances (
	plan_id TEXT NOT NULL REFERENCES plans(id),
	id INTEGER NOT NULL,
	command TEXT NOT NULL,
	params TEXT NOT NULL,
	log TEXT NOT NULL,
	depends TEXT NOT NULL,
	threads INTEGER NOT NULL,
	PRIMARY KEY (plan_id, id)
);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("ensure archive schema: %w", err)
	}
	return nil
}

// SavePlan records one planning pass and all of its instances in a single
// transaction.
func (s *Store) SavePlan(ctx context.Context, planID string, threads int, instances []*planner.Instance) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin archive tx: %w", err)
	}
	defer tx.Rollback()

	createdAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO plans (id, created_at, threads, instance_count) VALUES (?, ?, ?, ?)`,
		planID, createdAt, threads, len(instances),
	); err != nil {
		return fmt.Errorf("insert plan %s: %w", planID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO instances (plan_id, id, command, params, log, depends, threads) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare instance insert: %w", err)
	}
	defer stmt.Close()

	for _, inst := range instances {
		params, err := json.Marshal(inst.Params)
		if err != nil {
			return fmt.Errorf("marshal params for instance %d: %w", inst.ID, err)
		}
		depends, err := json.Marshal(inst.Depends)
		if err != nil {
			return fmt.Errorf("marshal depends for instance %d: %w", inst.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, planID, inst.ID, inst.Command, string(params), inst.Log, string(depends), inst.Threads); err != nil {
			return fmt.Errorf("insert instance %d: %w", inst.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit archive tx: %w", err)
	}
	return nil
}

// InstanceCount reports how many instances a stored plan holds.
func (s *Store) InstanceCount(ctx context.Context, planID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM instances WHERE plan_id = ?`, planID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count instances for plan %s: %w", planID, err)
	}
	return count, nil
}
