package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

const (
	stateKey   = "liferpg-state-v4"
	maxBackups = 3
	// A rolling backup is snapshotted every snapshotEvery saves.
	snapshotEvery = 10
)

// StateStore persists the application state as a single JSON blob under
// a fixed key, with a small ring of rolling backups.
type StateStore struct {
	db    *sql.DB
	saves int
}

func NewStateStore(db *sql.DB) *StateStore {
	return &StateStore{db: db}
}

// withTx runs fn in a transaction; anything short of a clean commit
// rolls back.
func (st *StateStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Load returns the stored blob, or nil when none exists. A main blob
// that is not valid JSON falls back to the newest parseable backup;
// deeper shape validation is the caller's job.
func (st *StateStore) Load(ctx context.Context) ([]byte, error) {
	var data string
	err := st.db.QueryRowContext(ctx,
		`SELECT data FROM app_state WHERE key = ?`, stateKey).Scan(&data)
	switch {
	case err == sql.ErrNoRows:
		// fall through to backups
	case err != nil:
		return nil, fmt.Errorf("state load: %w", err)
	case json.Valid([]byte(data)):
		return []byte(data), nil
	}

	rows, err := st.db.QueryContext(ctx,
		`SELECT data FROM state_backups ORDER BY taken_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("backups load: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, fmt.Errorf("backup scan: %w", err)
		}
		if json.Valid([]byte(b)) {
			return []byte(b), nil
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("backups iterate: %w", err)
	}
	return nil, nil
}

// Save upserts the blob inside a transaction so a partial write can
// never be published. Every snapshotEvery-th save also pushes a backup.
func (st *StateStore) Save(ctx context.Context, raw []byte) error {
	err := st.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO app_state (key, data, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
		`, stateKey, string(raw), time.Now().UTC())
		return err
	})
	if err != nil {
		return fmt.Errorf("state save: %w", err)
	}

	st.saves++
	if st.saves%snapshotEvery == 0 {
		if err := st.Backup(ctx, raw); err != nil {
			return err
		}
	}
	return nil
}

// Backup pushes a snapshot and trims the ring to maxBackups.
func (st *StateStore) Backup(ctx context.Context, raw []byte) error {
	err := st.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state_backups (taken_at, data) VALUES (?, ?)`,
			time.Now().UTC(), string(raw)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			DELETE FROM state_backups WHERE id NOT IN (
				SELECT id FROM state_backups ORDER BY taken_at DESC, id DESC LIMIT ?
			)
		`, maxBackups)
		return err
	})
	if err != nil {
		return fmt.Errorf("state backup: %w", err)
	}
	return nil
}

// Wipe removes the main blob. Backups are kept for safety.
func (st *StateStore) Wipe(ctx context.Context) error {
	if _, err := st.db.ExecContext(ctx,
		`DELETE FROM app_state WHERE key = ?`, stateKey); err != nil {
		return fmt.Errorf("state wipe: %w", err)
	}
	return nil
}
