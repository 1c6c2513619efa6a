package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *StateStore {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStateStore(db)
}

func TestLoadEmptyReturnsNil(t *testing.T) {
	st := newTestStore(t)
	raw, err := st.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if raw != nil {
		t.Fatalf("raw=%q, want nil", raw)
	}
}

func TestSaveThenLoad(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := st.Save(ctx, []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	raw, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(raw) != `{"v":2}` {
		t.Fatalf("raw=%q", raw)
	}
}

func TestLoadFallsBackToBackupOnCorruptMain(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.Backup(ctx, []byte(`{"good":true}`)); err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if err := st.Save(ctx, []byte(`{truncated`)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(raw) != `{"good":true}` {
		t.Fatalf("raw=%q, want backup contents", raw)
	}
}

func TestBackupRingTrims(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := st.Backup(ctx, []byte(`{"n":`+string(rune('0'+i))+`}`)); err != nil {
			t.Fatalf("Backup: %v", err)
		}
	}

	var n int
	if err := st.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM state_backups`).Scan(&n); err != nil {
		t.Fatalf("count backups: %v", err)
	}
	if n != maxBackups {
		t.Fatalf("backups=%d, want %d", n, maxBackups)
	}

	// Newest backup wins on fallback.
	raw, err := st.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(raw) != `{"n":4}` {
		t.Fatalf("raw=%q", raw)
	}
}

func TestPeriodicSnapshot(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < snapshotEvery; i++ {
		if err := st.Save(ctx, []byte(`{"i":1}`)); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	var n int
	if err := st.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM state_backups`).Scan(&n); err != nil {
		t.Fatalf("count backups: %v", err)
	}
	if n != 1 {
		t.Fatalf("backups=%d, want 1 after %d saves", n, snapshotEvery)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := st.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO state_backups (taken_at, data) VALUES (?, ?)`,
			time.Now().UTC(), `{}`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v, want boom", err)
	}

	var n int
	if err := st.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM state_backups`).Scan(&n); err != nil {
		t.Fatalf("count backups: %v", err)
	}
	if n != 0 {
		t.Fatalf("rows survived rollback: %d", n)
	}
}

func TestWipeRemovesMainKeepsBackups(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if err := st.Save(ctx, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := st.Backup(ctx, []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if err := st.Wipe(ctx); err != nil {
		t.Fatalf("Wipe: %v", err)
	}

	var n int
	if err := st.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM app_state`).Scan(&n); err != nil {
		t.Fatalf("count state: %v", err)
	}
	if n != 0 {
		t.Fatalf("app_state rows=%d", n)
	}
	if err := st.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM state_backups`).Scan(&n); err != nil {
		t.Fatalf("count backups: %v", err)
	}
	if n != 1 {
		t.Fatalf("backups=%d, want 1", n)
	}
}
