package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres keeps the single entry in a one-row table, for deployments where
// the gateway itself is restarted or rescheduled between screens. The
// singleton row id enforces the at-most-one-entry invariant in the schema.
type Postgres struct {
	db *sql.DB

	schemaOnce sync.Once
	schemaErr  error
}

func NewPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) ensureSchema() error {
	p.schemaOnce.Do(func() {
		_, p.schemaErr = p.db.Exec(`
CREATE TABLE IF NOT EXISTS turn_snapshot_cache (
  singleton BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
  turn_id TEXT NOT NULL,
  captured_at TIMESTAMP WITH TIME ZONE NOT NULL,
  bundle JSONB NOT NULL
);
`)
	})
	return p.schemaErr
}

func (p *Postgres) Save(e Entry) error {
	if err := p.ensureSchema(); err != nil {
		return err
	}
	bundle, err := json.Marshal(e.Bundle)
	if err != nil {
		return err
	}
	_, err = p.db.Exec(`
INSERT INTO turn_snapshot_cache (singleton, turn_id, captured_at, bundle)
VALUES (TRUE, $1, $2, $3)
ON CONFLICT (singleton)
DO UPDATE SET turn_id=EXCLUDED.turn_id,
  captured_at=EXCLUDED.captured_at,
  bundle=EXCLUDED.bundle`,
		e.TurnID, e.CapturedAt, bundle)
	return err
}

func (p *Postgres) LoadAndConsume() (Entry, bool, error) {
	if err := p.ensureSchema(); err != nil {
		return Entry{}, false, err
	}
	row := p.db.QueryRow(`
DELETE FROM turn_snapshot_cache WHERE singleton
RETURNING turn_id, captured_at, bundle`)

	var e Entry
	var bundle []byte
	if err := row.Scan(&e.TurnID, &e.CapturedAt, &bundle); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, false, nil
		}
		return Entry{}, false, err
	}
	if err := json.Unmarshal(bundle, &e.Bundle); err != nil {
		return Entry{}, false, err
	}
	return e, true, nil
}

func (p *Postgres) Clear() error {
	if err := p.ensureSchema(); err != nil {
		return err
	}
	_, err := p.db.Exec(`DELETE FROM turn_snapshot_cache WHERE singleton`)
	return err
}
