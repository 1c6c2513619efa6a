package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// EnsureForWeek regenerates the weekly boss when the Monday of day's
// week differs from the stored week start (or force is set), then
// flushes state.
func (s *Service) EnsureForWeek(ctx context.Context, day DayKey, force bool) error {
	s.ensureForWeek(day, force)
	return s.flush(ctx)
}

func (s *Service) ensureForWeek(day DayKey, force bool) {
	ws := StartOfWeek(day)
	if !force && s.state.WeeklyBoss.WeekStartDay == ws {
		return
	}
	s.state.WeeklyBoss = WeeklyBoss{
		WeekStartDay: ws,
		Goals:        s.buildGoals(ws),
		Completed:    false,
	}
}

// buildGoals selects up to bossTasksPerWeek library items for the week
// starting at weekStart, weighted toward items the log shows were used
// least during the prior seven days. Each goal's target is drawn
// uniformly from [bossTimesMin, bossTimesMax].
func (s *Service) buildGoals(weekStart DayKey) []BossGoal {
	items := s.state.ActiveLibrary()
	if len(items) == 0 {
		return nil
	}

	usage := s.libraryUsage(weekStart.AddDays(-7), weekStart.AddDays(-1))
	sort.SliceStable(items, func(i, j int) bool {
		return usage[items[i].ID] < usage[items[j].ID]
	})

	maxUsage := 0
	for _, it := range items {
		if usage[it.ID] > maxUsage {
			maxUsage = usage[it.ID]
		}
	}

	count := s.state.Settings.BossTasksPerWeek
	if count > len(items) {
		count = len(items)
	}

	// Weighted draw without replacement: weight maxUsage-usage+1, so the
	// least-used items are the most likely picks but any item can appear.
	goals := make([]BossGoal, 0, count)
	bag := items
	for len(goals) < count && len(bag) > 0 {
		total := 0
		for _, it := range bag {
			total += maxUsage - usage[it.ID] + 1
		}
		r := s.rng.Intn(total)
		pick := 0
		for i, it := range bag {
			r -= maxUsage - usage[it.ID] + 1
			if r < 0 {
				pick = i
				break
			}
		}
		it := bag[pick]
		bag = append(bag[:pick], bag[pick+1:]...)

		lo, hi := s.state.Settings.BossTimesMin, s.state.Settings.BossTimesMax
		goals = append(goals, BossGoal{
			ID:            uuid.NewString(),
			Label:         it.Name,
			Target:        lo + s.rng.Intn(hi-lo+1),
			Tally:         0,
			LinkedTaskIDs: []string{it.ID},
		})
	}
	return goals
}

// libraryUsage counts library-kind log entries per item id over the
// inclusive day range [from, to].
func (s *Service) libraryUsage(from, to DayKey) map[string]int {
	counts := map[string]int{}
	for _, l := range s.state.Logs {
		if l.Kind != LogLibrary {
			continue
		}
		if l.Day < from || l.Day > to {
			continue
		}
		counts[l.RefID]++
	}
	return counts
}

func (s *Service) bossGoalByID(id string) *BossGoal {
	for i := range s.state.WeeklyBoss.Goals {
		if s.state.WeeklyBoss.Goals[i].ID == id {
			return &s.state.WeeklyBoss.Goals[i]
		}
	}
	return nil
}

// goalPoints resolves the points of a goal's linked library item.
func (s *Service) goalPoints(g *BossGoal) int {
	for _, id := range g.LinkedTaskIDs {
		if it := s.state.LibraryItemByID(id); it != nil {
			return it.Points
		}
	}
	return 0
}

// IncrementBossGoal bumps a goal's tally. Increments within [1, target]
// grant the linked item's points once each; increments past the target
// move the tally but grant nothing.
func (s *Service) IncrementBossGoal(ctx context.Context, goalID string) error {
	g := s.bossGoalByID(goalID)
	if g == nil {
		return fmt.Errorf("boss goal %s not found", goalID)
	}
	g.Tally++
	if g.Tally <= g.Target {
		if pts := s.goalPoints(g); pts > 0 {
			s.grant(pts, g.Label, LogBoss, fmt.Sprintf("%s#%d", g.ID, g.Tally))
		}
	}
	s.refreshBossCompleted()
	return s.flush(ctx)
}

// DecrementBossGoal lowers a goal's tally, reversing the grant the
// removed tally step earned, if any.
func (s *Service) DecrementBossGoal(ctx context.Context, goalID string) error {
	g := s.bossGoalByID(goalID)
	if g == nil {
		return fmt.Errorf("boss goal %s not found", goalID)
	}
	if g.Tally <= 0 {
		return nil
	}
	if g.Tally <= g.Target {
		if pts := s.goalPoints(g); pts > 0 {
			s.reverse(pts, LogBoss, fmt.Sprintf("%s#%d", g.ID, g.Tally))
		}
	}
	g.Tally--
	s.refreshBossCompleted()
	return s.flush(ctx)
}

func (s *Service) refreshBossCompleted() {
	boss := &s.state.WeeklyBoss
	if len(boss.Goals) == 0 {
		boss.Completed = false
		return
	}
	for _, g := range boss.Goals {
		if g.Tally < g.Target {
			boss.Completed = false
			return
		}
	}
	if !boss.Completed {
		boss.Completed = true
		s.notify.Burst()
		s.notify.Banner("Weekly boss defeated!")
	}
}
