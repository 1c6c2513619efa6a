package engine

import (
	"context"
	"testing"
)

func TestExportImportRoundTrip(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	mustHabit(t, svc, CreateHabitInput{Name: "Stretch", PointsOnComplete: 10})
	svc.Grant(ctx, 42, "work", LogTodo, "w")
	svc.State().Profile.Coins = 7

	raw, err := svc.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	other, _, _, cleanup2 := newTestService(t)
	defer cleanup2()
	if err := other.ImportJSON(ctx, raw); err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}

	st := other.State()
	if st.Profile.Coins != 7 {
		t.Fatalf("coins=%d", st.Profile.Coins)
	}
	if st.Today.Points != 42 {
		t.Fatalf("points=%d", st.Today.Points)
	}
	if len(st.Habits) != 1 || st.Habits[0].Name != "Stretch" {
		t.Fatalf("habits=%+v", st.Habits)
	}
}

func TestImportRejectsMalformedJSON(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	svc.Grant(ctx, 10, "keep", LogTodo, "k")
	before := svc.State().Today.Points

	if err := svc.ImportJSON(ctx, []byte("{nope")); err == nil {
		t.Fatal("expected error for malformed import")
	}
	if got := svc.State().Today.Points; got != before {
		t.Fatalf("state mutated by failed import: %d", got)
	}
}

func TestWipeAllStartsOver(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	mustHabit(t, svc, CreateHabitInput{Name: "Stretch", PointsOnComplete: 10})
	svc.Grant(ctx, 42, "work", LogTodo, "w")

	if err := svc.WipeAll(ctx); err != nil {
		t.Fatalf("WipeAll: %v", err)
	}
	st := svc.State()
	if len(st.Habits) != 0 || st.Today.Points != 0 || len(st.Logs) != 0 {
		t.Fatalf("state not reset: %+v", st)
	}
	// A fresh day is initialized immediately.
	if st.Today.Day != "2025-06-11" {
		t.Fatalf("day=%s", st.Today.Day)
	}
}

func TestLoadSurvivesMissingState(t *testing.T) {
	// newTestService loads from an empty database; defaults must apply.
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()

	set := svc.State().Settings
	if set.DailyGoal != 60 || set.PointsPerCoin != 100 || set.DailyChallengesCount != 3 {
		t.Fatalf("settings=%+v", set)
	}
}
