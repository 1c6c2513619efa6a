package engine

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	"github.com/reedy055/rpg/internal/storage"
)

// fakeClock is a settable clock so tests can cross day and week
// boundaries deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func (c *fakeClock) nextDay() { c.t = c.t.AddDate(0, 0, 1) }

// recordNotifier captures notifications for assertions.
type recordNotifier struct {
	toasts  []string
	banners []string
	bursts  int
}

func (n *recordNotifier) Toast(msg string)  { n.toasts = append(n.toasts, msg) }
func (n *recordNotifier) Banner(msg string) { n.banners = append(n.banners, msg) }
func (n *recordNotifier) Haptic(int)       {}
func (n *recordNotifier) Burst()           { n.bursts++ }

// newTestService boots a service on a throwaway sqlite file with a
// frozen clock and a seeded rng. The clock starts Wednesday 2025-06-11
// at noon.
func newTestService(t *testing.T) (*Service, *fakeClock, *recordNotifier, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	clock := &fakeClock{t: time.Date(2025, 6, 11, 12, 0, 0, 0, time.Local)}
	notify := &recordNotifier{}
	svc := NewServiceWith(storage.NewStateStore(db), clock, notify, rand.New(rand.NewSource(1)))

	cleanup := func() {
		_ = db.Close()
	}

	if err := svc.Load(ctx); err != nil {
		cleanup()
		t.Fatalf("load: %v", err)
	}
	if err := svc.EnsureRollover(ctx); err != nil {
		cleanup()
		t.Fatalf("rollover: %v", err)
	}
	return svc, clock, notify, cleanup
}

func mustHabit(t *testing.T, svc *Service, in CreateHabitInput) *Habit {
	t.Helper()
	h, err := svc.CreateHabit(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateHabit(%q): %v", in.Name, err)
	}
	return h
}

func mustTodo(t *testing.T, svc *Service, in AddTodoInput) *Todo {
	t.Helper()
	td, err := svc.AddTodo(context.Background(), in)
	if err != nil {
		t.Fatalf("AddTodo(%q): %v", in.Name, err)
	}
	return td
}

func mustLibraryItem(t *testing.T, svc *Service, in CreateLibraryItemInput) *LibraryItem {
	t.Helper()
	it, err := svc.CreateLibraryItem(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateLibraryItem(%q): %v", in.Name, err)
	}
	return it
}
