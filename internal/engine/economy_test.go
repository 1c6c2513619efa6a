package engine

import (
	"context"
	"testing"
	"time"
)

func TestGrantAddsPointsAndLogs(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	res, err := svc.Grant(ctx, 30, "Deep work", LogTodo, "t1")
	if err != nil {
		t.Fatalf("Grant: %v", err)
	}
	if res.Points != 30 || res.Minted != 0 || res.Milestone != 0 {
		t.Fatalf("res=%+v", res)
	}

	st := svc.State()
	if st.Today.Points != 30 {
		t.Fatalf("today points=%d, want 30", st.Today.Points)
	}
	if len(st.Logs) != 1 || st.Logs[0].RefID != "t1" || st.Logs[0].Kind != LogTodo {
		t.Fatalf("log=%+v", st.Logs)
	}
	if b := st.Progress[st.Today.Day]; b == nil || b.Points != 30 || b.TasksDone != 1 {
		t.Fatalf("bucket=%+v", b)
	}
}

func TestCoinMintingResidue(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	// Rate is 100. 60+60 crosses once, 90 more crosses again.
	if res, _ := svc.Grant(ctx, 60, "a", LogTodo, "a"); res.Minted != 0 {
		t.Fatalf("first grant minted %d", res.Minted)
	}
	res, _ := svc.Grant(ctx, 60, "b", LogTodo, "b")
	if res.Minted != 1 {
		t.Fatalf("second grant minted %d, want 1", res.Minted)
	}
	st := svc.State()
	if st.Profile.Coins != 1 {
		t.Fatalf("coins=%d, want 1", st.Profile.Coins)
	}
	if st.Today.UnconvertedPoints != 20 {
		t.Fatalf("residue=%d, want 20", st.Today.UnconvertedPoints)
	}

	res, _ = svc.Grant(ctx, 90, "c", LogTodo, "c")
	if res.Minted != 1 || st.Profile.Coins != 2 || st.Today.UnconvertedPoints != 10 {
		t.Fatalf("minted=%d coins=%d residue=%d", res.Minted, st.Profile.Coins, st.Today.UnconvertedPoints)
	}
}

func TestCoinMintingMultipleAtOnce(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()

	res, _ := svc.Grant(context.Background(), 250, "big", LogTodo, "big")
	if res.Minted != 2 {
		t.Fatalf("minted=%d, want 2", res.Minted)
	}
	if got := svc.State().Today.UnconvertedPoints; got != 50 {
		t.Fatalf("residue=%d, want 50", got)
	}
}

func TestMilestoneBannerFiresOncePerThreshold(t *testing.T) {
	svc, _, notify, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	res, _ := svc.Grant(ctx, 99, "a", LogTodo, "a")
	if res.Milestone != 0 {
		t.Fatalf("milestone fired at 99")
	}
	res, _ = svc.Grant(ctx, 1, "b", LogTodo, "b")
	if res.Milestone != 100 {
		t.Fatalf("milestone=%d, want 100", res.Milestone)
	}
	if len(notify.banners) != 1 {
		t.Fatalf("banners=%v", notify.banners)
	}

	// Dipping below the threshold and re-crossing must not re-fire.
	if err := svc.Reverse(ctx, 1, LogTodo, "b"); err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	res, _ = svc.Grant(ctx, 1, "b", LogTodo, "b")
	if res.Milestone != 0 {
		t.Fatalf("milestone re-fired after undo churn")
	}

	res, _ = svc.Grant(ctx, 150, "c", LogTodo, "c")
	if res.Milestone != 200 {
		t.Fatalf("milestone=%d, want 200", res.Milestone)
	}
}

func TestPowerHourMultiplierAndExpiry(t *testing.T) {
	svc, clock, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	ends := clock.Now().Add(time.Hour)
	svc.State().PowerHour = PowerHour{Active: true, EndsAt: &ends}

	res, _ := svc.Grant(ctx, 15, "boosted", LogTodo, "x")
	if res.Points != 23 { // round(15*1.5)=23
		t.Fatalf("boosted points=%d, want 23", res.Points)
	}

	clock.advance(2 * time.Hour)
	res, _ = svc.Grant(ctx, 15, "plain", LogTodo, "y")
	if res.Points != 15 {
		t.Fatalf("post-expiry points=%d, want 15", res.Points)
	}
	if svc.State().PowerHour.Active {
		t.Fatal("stale power hour not cleared")
	}
}

func TestReverseFloorsAndKeepsCoins(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := svc.Grant(ctx, 120, "a", LogTodo, "a"); err != nil {
		t.Fatalf("Grant: %v", err)
	}
	coinsBefore := svc.State().Profile.Coins
	if coinsBefore != 1 {
		t.Fatalf("coins=%d, want 1", coinsBefore)
	}

	if err := svc.Reverse(ctx, 120, LogTodo, "a"); err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	st := svc.State()
	if st.Today.Points != 0 {
		t.Fatalf("points=%d, want 0", st.Today.Points)
	}
	if st.Profile.Coins != coinsBefore {
		t.Fatalf("coins reclaimed: %d", st.Profile.Coins)
	}
	if len(st.Logs) != 0 {
		t.Fatalf("log not removed: %+v", st.Logs)
	}

	// Reversing more than exists floors at zero everywhere.
	if err := svc.Reverse(ctx, 999, LogTodo, "ghost"); err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if st.Today.Points != 0 || st.Progress[st.Today.Day].Points != 0 {
		t.Fatal("floor violated")
	}
}

func TestReverseRemovesFirstMatchOnly(t *testing.T) {
	svc, _, _, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	svc.Grant(ctx, 10, "rep", LogLibrary, "lib1")
	svc.Grant(ctx, 10, "rep", LogLibrary, "lib1")
	if err := svc.Reverse(ctx, 10, LogLibrary, "lib1"); err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if got := len(svc.State().Logs); got != 1 {
		t.Fatalf("logs=%d, want 1", got)
	}
}
