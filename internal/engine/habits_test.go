package engine

import (
	"context"
	"testing"
)

func TestToggleHabitGrantsAndReverses(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	h := mustHabit(t, svc, CreateHabitInput{Name: "Stretch", PointsOnComplete: 10})

	done, err := svc.ToggleHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("ToggleHabit: %v", err)
	}
	if !done {
		t.Fatal("first toggle should complete")
	}
	if got := svc.State().Today.Points; got != 10 {
		t.Fatalf("points=%d, want 10", got)
	}

	done, err = svc.ToggleHabit(ctx, h.ID)
	if err != nil {
		t.Fatalf("ToggleHabit: %v", err)
	}
	if done {
		t.Fatal("second toggle should uncomplete")
	}
	if got := svc.State().Today.Points; got != 0 {
		t.Fatalf("points=%d, want 0", got)
	}
}

func TestToggleHabitRejectsCounterKind(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()

	h := mustHabit(t, svc, CreateHabitInput{Name: "Pushups", Kind: HabitCounter, TargetPerDay: 3, PointsOnComplete: 15})
	if _, err := svc.ToggleHabit(context.Background(), h.ID); err == nil {
		t.Fatal("expected error toggling a counter habit")
	}
}

func TestCounterHabitGrantsOnceAtTarget(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	h := mustHabit(t, svc, CreateHabitInput{Name: "Pushups", Kind: HabitCounter, TargetPerDay: 3, PointsOnComplete: 15})

	for i := 1; i <= 3; i++ {
		hs, err := svc.AdjustHabitTally(ctx, h.ID, 1)
		if err != nil {
			t.Fatalf("AdjustHabitTally: %v", err)
		}
		if hs.Tally != i {
			t.Fatalf("tally=%d, want %d", hs.Tally, i)
		}
		wantDone := i == 3
		if hs.Done != wantDone {
			t.Fatalf("done=%v at tally %d", hs.Done, i)
		}
	}
	if got := svc.State().Today.Points; got != 15 {
		t.Fatalf("points=%d, want 15 (single grant at target)", got)
	}

	// Clamp at target; no double grant.
	hs, err := svc.AdjustHabitTally(ctx, h.ID, 1)
	if err != nil {
		t.Fatalf("AdjustHabitTally: %v", err)
	}
	if hs.Tally != 3 {
		t.Fatalf("tally=%d, want clamp at 3", hs.Tally)
	}
	if got := svc.State().Today.Points; got != 15 {
		t.Fatalf("points=%d after clamp", got)
	}

	// Dropping below target reverses.
	hs, err = svc.AdjustHabitTally(ctx, h.ID, -1)
	if err != nil {
		t.Fatalf("AdjustHabitTally: %v", err)
	}
	if hs.Done {
		t.Fatal("still done below target")
	}
	if got := svc.State().Today.Points; got != 0 {
		t.Fatalf("points=%d after reverse", got)
	}
}

func TestCounterHabitClampsAtZero(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()

	h := mustHabit(t, svc, CreateHabitInput{Name: "Pushups", Kind: HabitCounter, TargetPerDay: 3, PointsOnComplete: 15})
	hs, err := svc.AdjustHabitTally(context.Background(), h.ID, -1)
	if err != nil {
		t.Fatalf("AdjustHabitTally: %v", err)
	}
	if hs.Tally != 0 {
		t.Fatalf("tally=%d, want 0", hs.Tally)
	}
}

func TestCreateHabitRejectsBlankName(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()

	if _, err := svc.CreateHabit(context.Background(), CreateHabitInput{Name: "   "}); err == nil {
		t.Fatal("expected error for blank name")
	}
}

func TestToggleTodoGrantsFrozenPoints(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	td := mustTodo(t, svc, AddTodoInput{Name: "Ship report", Points: 25})
	done, err := svc.ToggleTodo(ctx, td.ID)
	if err != nil {
		t.Fatalf("ToggleTodo: %v", err)
	}
	if !done || svc.State().Today.Points != 25 {
		t.Fatalf("done=%v points=%d", done, svc.State().Today.Points)
	}
	if b := svc.State().Progress[svc.State().Today.Day]; b.TasksDone != 1 {
		t.Fatalf("tasksDone=%d", b.TasksDone)
	}

	done, err = svc.ToggleTodo(ctx, td.ID)
	if err != nil {
		t.Fatalf("ToggleTodo: %v", err)
	}
	if done || svc.State().Today.Points != 0 {
		t.Fatalf("undo failed: done=%v points=%d", done, svc.State().Today.Points)
	}
}

func TestToggleChallengeGrantsAndUndoes(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	c, err := svc.CreateChallenge(ctx, "Cold shower", 15)
	if err != nil {
		t.Fatalf("CreateChallenge: %v", err)
	}
	day := svc.State().Today.Day
	if err := svc.AssignChallenges(ctx, day, 1, true); err != nil {
		t.Fatalf("AssignChallenges: %v", err)
	}

	done, err := svc.ToggleChallenge(ctx, c.ID)
	if err != nil {
		t.Fatalf("ToggleChallenge: %v", err)
	}
	if !done || !svc.ChallengeDoneToday(c.ID) {
		t.Fatal("challenge not marked done")
	}
	if got := svc.State().Today.Points; got != 15 {
		t.Fatalf("points=%d", got)
	}
	if b := svc.State().Progress[day]; b.ChallengesDone != 1 {
		t.Fatalf("challengesDone=%d", b.ChallengesDone)
	}

	done, err = svc.ToggleChallenge(ctx, c.ID)
	if err != nil {
		t.Fatalf("ToggleChallenge: %v", err)
	}
	if done || svc.ChallengeDoneToday(c.ID) {
		t.Fatal("challenge not unmarked")
	}
}
