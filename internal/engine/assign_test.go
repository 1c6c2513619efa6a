package engine

import (
	"context"
	"testing"
)

func seedChallenges(t *testing.T, svc *Service, names ...string) map[string]string {
	t.Helper()
	ids := map[string]string{}
	for _, name := range names {
		c, err := svc.CreateChallenge(context.Background(), name, 15)
		if err != nil {
			t.Fatalf("CreateChallenge(%q): %v", name, err)
		}
		ids[c.ID] = name
	}
	return ids
}

func TestAssignDrawsWithoutReplacement(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	seedChallenges(t, svc, "a", "b", "c", "d", "e")
	day := svc.State().Today.Day

	if err := svc.AssignChallenges(ctx, day, 3, true); err != nil {
		t.Fatalf("AssignChallenges: %v", err)
	}
	got := svc.State().Assigned[day]
	if len(got) != 3 {
		t.Fatalf("assigned=%d, want 3", len(got))
	}
	seen := map[string]bool{}
	for _, id := range got {
		if seen[id] {
			t.Fatalf("duplicate assignment %s", id)
		}
		seen[id] = true
	}
}

func TestAssignIsStableWithoutForce(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	seedChallenges(t, svc, "a", "b", "c", "d", "e")
	day := svc.State().Today.Day

	if err := svc.AssignChallenges(ctx, day, 3, true); err != nil {
		t.Fatalf("AssignChallenges: %v", err)
	}
	first := append([]string(nil), svc.State().Assigned[day]...)

	for i := 0; i < 5; i++ {
		if err := svc.AssignChallenges(ctx, day, 3, false); err != nil {
			t.Fatalf("AssignChallenges: %v", err)
		}
	}
	second := svc.State().Assigned[day]
	if len(first) != len(second) {
		t.Fatalf("assignment changed size: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("assignment reshuffled: %v vs %v", first, second)
		}
	}
}

func TestAssignAvoidsYesterday(t *testing.T) {
	svc, clock, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	seedChallenges(t, svc, "a", "b", "c", "d", "e", "f")
	day := svc.State().Today.Day
	if err := svc.AssignChallenges(ctx, day, 3, true); err != nil {
		t.Fatalf("AssignChallenges: %v", err)
	}
	yesterday := map[string]bool{}
	for _, id := range svc.State().Assigned[day] {
		yesterday[id] = true
	}

	clock.nextDay()
	if err := svc.EnsureRollover(ctx); err != nil {
		t.Fatalf("EnsureRollover: %v", err)
	}
	for _, id := range svc.State().Assigned[svc.State().Today.Day] {
		if yesterday[id] {
			t.Fatalf("repeated yesterday's challenge %s", id)
		}
	}
}

func TestAssignFallsBackToFullPool(t *testing.T) {
	svc, clock, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	// Pool of exactly three: after yesterday used all of them, the
	// preferred set is empty and repeats are accepted.
	seedChallenges(t, svc, "a", "b", "c")
	day := svc.State().Today.Day
	if err := svc.AssignChallenges(ctx, day, 3, true); err != nil {
		t.Fatalf("AssignChallenges: %v", err)
	}

	clock.nextDay()
	if err := svc.EnsureRollover(ctx); err != nil {
		t.Fatalf("EnsureRollover: %v", err)
	}
	if got := len(svc.State().Assigned[svc.State().Today.Day]); got != 3 {
		t.Fatalf("assigned=%d, want 3", got)
	}
}

func TestAssignSmallPoolUnderfills(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	seedChallenges(t, svc, "only")
	day := svc.State().Today.Day
	if err := svc.AssignChallenges(ctx, day, 3, true); err != nil {
		t.Fatalf("AssignChallenges: %v", err)
	}
	if got := len(svc.State().Assigned[day]); got != 1 {
		t.Fatalf("assigned=%d, want 1", got)
	}
}

func TestArchivedChallengeLeavesPool(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	ids := seedChallenges(t, svc, "keep", "drop")
	var dropID string
	for id, name := range ids {
		if name == "drop" {
			dropID = id
		}
	}
	if err := svc.SetChallengeActive(ctx, dropID, false); err != nil {
		t.Fatalf("SetChallengeActive: %v", err)
	}

	day := svc.State().Today.Day
	if err := svc.AssignChallenges(ctx, day, 2, true); err != nil {
		t.Fatalf("AssignChallenges: %v", err)
	}
	for _, id := range svc.State().Assigned[day] {
		if id == dropID {
			t.Fatal("archived challenge assigned")
		}
	}
}
