package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type CreateHabitInput struct {
	Name             string
	Kind             HabitKind
	TargetPerDay     int
	PointsOnComplete int
}

func normalizeName(name string) (string, error) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", errors.New("name is required")
	}
	return n, nil
}

func (s *Service) CreateHabit(ctx context.Context, in CreateHabitInput) (*Habit, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	kind := in.Kind
	if !kind.IsValid() {
		kind = HabitBinary
	}
	h := Habit{
		ID:               uuid.NewString(),
		Name:             name,
		Kind:             kind,
		PointsOnComplete: in.PointsOnComplete,
		Active:           true,
	}
	if kind == HabitCounter {
		h.TargetPerDay = in.TargetPerDay
		if h.TargetPerDay < 1 {
			h.TargetPerDay = 1
		}
	}
	s.state.Habits = append(s.state.Habits, h)
	if err := s.flush(ctx); err != nil {
		return nil, err
	}
	return &h, nil
}

// SetHabitActive archives or restores a habit. Archiving soft-deletes:
// history and log entries stay intact.
func (s *Service) SetHabitActive(ctx context.Context, id string, active bool) error {
	h := s.state.HabitByID(id)
	if h == nil {
		return fmt.Errorf("habit %s not found", id)
	}
	h.Active = active
	return s.flush(ctx)
}

// ToggleHabit flips a binary habit's done state for today, granting or
// reversing its points.
func (s *Service) ToggleHabit(ctx context.Context, id string) (bool, error) {
	h := s.state.HabitByID(id)
	if h == nil {
		return false, fmt.Errorf("habit %s not found", id)
	}
	if h.Kind != HabitBinary {
		return false, fmt.Errorf("habit %q is a counter; adjust its tally instead", h.Name)
	}

	st := s.state.Today.HabitsStatus[h.ID]
	if !st.Done {
		st.Done = true
		s.state.Today.HabitsStatus[h.ID] = st
		s.grant(h.PointsOnComplete, h.Name, LogHabit, h.ID)
	} else {
		st.Done = false
		s.state.Today.HabitsStatus[h.ID] = st
		s.reverse(h.PointsOnComplete, LogHabit, h.ID)
	}
	if err := s.flush(ctx); err != nil {
		return false, err
	}
	return st.Done, nil
}

// AdjustHabitTally moves a counter habit's tally by delta, clamped to
// [0, target]. Crossing the target in either direction grants or
// reverses the habit's points exactly once.
func (s *Service) AdjustHabitTally(ctx context.Context, id string, delta int) (HabitStatus, error) {
	h := s.state.HabitByID(id)
	if h == nil {
		return HabitStatus{}, fmt.Errorf("habit %s not found", id)
	}
	if h.Kind != HabitCounter {
		return HabitStatus{}, fmt.Errorf("habit %q is binary; toggle it instead", h.Name)
	}

	target := h.TargetPerDay
	if target < 1 {
		target = 1
	}

	st := s.state.Today.HabitsStatus[h.ID]
	prevDone := st.Done

	next := st.Tally + delta
	if next < 0 {
		next = 0
	}
	if next > target {
		next = target
	}
	st.Tally = next
	st.Done = next >= target
	s.state.Today.HabitsStatus[h.ID] = st

	switch {
	case !prevDone && st.Done:
		s.grant(h.PointsOnComplete, h.Name, LogHabit, h.ID)
	case prevDone && !st.Done:
		s.reverse(h.PointsOnComplete, LogHabit, h.ID)
	}
	if err := s.flush(ctx); err != nil {
		return HabitStatus{}, err
	}
	return st, nil
}
