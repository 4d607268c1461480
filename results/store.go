package results

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

var ErrRunNotFound = errors.New("run not found")

// Store keeps run records in a SQLite database.
type Store struct {
	conn *sqlx.DB
}

// RunSummary is one row of the runs table.
type RunSummary struct {
	ID       string `db:"id"`
	Title    string `db:"title"`
	SLRType  string `db:"slrtype"`
	Years    int    `db:"years"`
	ClosedAt int    `db:"closed_at"`
	Created  string `db:"created_at"`
}

// OpenStore opens or creates the database at path.
func OpenStore(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	s := &Store{conn: conn}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slrtype TEXT NOT NULL,
		years INTEGER NOT NULL,
		closed_at INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS scalars (
		run_id TEXT NOT NULL REFERENCES runs(id),
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		value REAL NOT NULL,
		PRIMARY KEY (run_id, name)
	);

	CREATE TABLE IF NOT EXISTS series (
		run_id TEXT NOT NULL REFERENCES runs(id),
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		values_json TEXT NOT NULL,
		PRIMARY KEY (run_id, name)
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// SaveRecord writes r in a single transaction; saving the same RunID twice
// fails.
func (s *Store) SaveRecord(ctx context.Context, r *Record) error {
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO runs
		(id, title, slrtype, years, closed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.RunID.String(), r.Title, r.SLRType, r.Years, r.ClosedAt,
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", r.RunID, err)
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT INTO scalars
		(run_id, position, name, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, sc := range r.Scalars {
		if _, err := stmt.ExecContext(ctx, r.RunID.String(), i, sc.Name, sc.Value); err != nil {
			return fmt.Errorf("insert scalar %s: %w", sc.Name, err)
		}
	}

	for i, f := range r.Series {
		valuesJSON, err := json.Marshal(f.Values)
		if err != nil {
			return fmt.Errorf("encode series %s: %w", f.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO series
			(run_id, position, name, values_json) VALUES (?, ?, ?, ?)`,
			r.RunID.String(), i, f.Name, string(valuesJSON),
		); err != nil {
			return fmt.Errorf("insert series %s: %w", f.Name, err)
		}
	}
	return tx.Commit()
}

// LoadRecord reads back a saved run with scalars and series in saved order.
func (s *Store) LoadRecord(ctx context.Context, id uuid.UUID) (r *Record, err error) {
	var run RunSummary
	err = s.conn.GetContext(ctx, &run, `SELECT id, title, slrtype, years, closed_at, created_at
		FROM runs WHERE id = ?`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	r = &Record{
		RunID:    id,
		Title:    run.Title,
		SLRType:  run.SLRType,
		Years:    run.Years,
		ClosedAt: run.ClosedAt,
	}
	if err = s.conn.SelectContext(ctx, &r.Scalars,
		`SELECT name, value FROM scalars WHERE run_id = ? ORDER BY position`, id.String()); err != nil {
		return nil, fmt.Errorf("load scalars %s: %w", id, err)
	}

	var rows []struct {
		Name       string `db:"name"`
		ValuesJSON string `db:"values_json"`
	}
	if err = s.conn.SelectContext(ctx, &rows,
		`SELECT name, values_json FROM series WHERE run_id = ? ORDER BY position`, id.String()); err != nil {
		return nil, fmt.Errorf("load series %s: %w", id, err)
	}
	for _, row := range rows {
		f := Field{Name: row.Name}
		if err = json.Unmarshal([]byte(row.ValuesJSON), &f.Values); err != nil {
			return nil, fmt.Errorf("decode series %s: %w", row.Name, err)
		}
		r.Series = append(r.Series, f)
	}
	return
}

// ListRuns returns every stored run, oldest first.
func (s *Store) ListRuns(ctx context.Context) (runs []RunSummary, err error) {
	err = s.conn.SelectContext(ctx, &runs, `SELECT id, title, slrtype, years, closed_at, created_at
		FROM runs ORDER BY created_at, id`)
	return
}
