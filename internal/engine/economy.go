package engine

import (
	"context"
	"fmt"
	"math"
	"time"
)

// GrantResult reports what a grant actually credited.
type GrantResult struct {
	// Points credited after any active bonus multiplier.
	Points int
	// Minted is the number of coins converted by this grant.
	Minted int
	// Milestone is the 100-point threshold crossed by this grant, 0 if none.
	Milestone int
}

// Grant credits points for a completed action and flushes state.
// kind is one of todo|habit|challenge|library|boss.
func (s *Service) Grant(ctx context.Context, points int, name string, kind LogKind, refID string) (*GrantResult, error) {
	res := s.grant(points, name, kind, refID)
	if err := s.flush(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// Reverse removes a same-day grant and flushes state.
func (s *Service) Reverse(ctx context.Context, points int, kind LogKind, refID string) error {
	s.reverse(points, kind, refID)
	return s.flush(ctx)
}

// grant is the in-memory half of Grant. Steps, in order: bonus
// multiplier, tally add, coin minting, progress bucket, log prepend,
// milestone check. Always succeeds given valid state.
func (s *Service) grant(points int, name string, kind LogKind, refID string) *GrantResult {
	st := s.state
	day := st.Today.Day
	now := s.clock.Now()

	if s.powerHourActive(now) {
		points = int(math.Round(float64(points) * 1.5))
	}

	st.Today.Points += points
	st.Today.UnconvertedPoints += points

	rate := st.Settings.PointsPerCoin
	minted := st.Today.UnconvertedPoints / rate
	if minted > 0 {
		// The remainder stays in [0, rate): the same points never mint twice.
		st.Today.UnconvertedPoints -= minted * rate
		st.Profile.Coins += minted
		s.progressFor(day).CoinsEarned += minted
	}

	b := s.progressFor(day)
	b.Points += points
	switch kind {
	case LogTodo:
		b.TasksDone++
	case LogHabit:
		b.HabitsDone++
	case LogChallenge:
		b.ChallengesDone++
	}

	st.Logs = append([]LogEntry{{
		TS:     now,
		Kind:   kind,
		RefID:  refID,
		Name:   name,
		Points: points,
		Day:    day,
	}}, st.Logs...)

	milestone := 0
	if m := st.Today.Points / 100 * 100; m > 0 && m > st.Today.LastMilestone {
		st.Today.LastMilestone = m
		milestone = m
		s.notify.Banner(fmt.Sprintf("Milestone: %d points today!", m))
	}

	s.pulse(40)
	s.notify.Toast(fmt.Sprintf("+%d pts", points))

	return &GrantResult{Points: points, Minted: minted, Milestone: milestone}
}

// reverse is the in-memory half of Reverse. It is the exact inverse of
// grant for point tallies and per-kind counters (floored at zero), and
// removes the first log entry matching (day, kind, refID, points).
// Coins already minted are deliberately not reclaimed; that keeps the
// economy stable across undo churn.
func (s *Service) reverse(points int, kind LogKind, refID string) {
	st := s.state
	day := st.Today.Day

	st.Today.Points = max(0, st.Today.Points-points)

	b := s.progressFor(day)
	b.Points = max(0, b.Points-points)
	switch kind {
	case LogTodo:
		b.TasksDone = max(0, b.TasksDone-1)
	case LogHabit:
		b.HabitsDone = max(0, b.HabitsDone-1)
	case LogChallenge:
		b.ChallengesDone = max(0, b.ChallengesDone-1)
	}

	for i := range st.Logs {
		l := st.Logs[i]
		if l.Day == day && l.Kind == kind && l.RefID == refID && l.Points == points {
			st.Logs = append(st.Logs[:i], st.Logs[i+1:]...)
			break
		}
	}

	s.pulse(12)
	s.notify.Toast("Undone")
}

// powerHourActive reports whether the bonus window covers now. Expiry is
// lazy: a stale window is cleared on first check past its deadline.
func (s *Service) powerHourActive(now time.Time) bool {
	ph := &s.state.PowerHour
	if !ph.Active || ph.EndsAt == nil {
		return false
	}
	if now.Before(*ph.EndsAt) {
		return true
	}
	ph.Active = false
	ph.EndsAt = nil
	return false
}
