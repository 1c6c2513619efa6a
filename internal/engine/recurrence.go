package engine

import (
	"context"

	"github.com/google/uuid"
)

// MaterializeForDay generates todo instances for every rule due on day
// and flushes state. Safe to call repeatedly: instances are deduplicated
// by (ruleID, dueDay).
func (s *Service) MaterializeForDay(ctx context.Context, day DayKey) error {
	s.materializeForDay(day)
	return s.flush(ctx)
}

func (s *Service) materializeForDay(day DayKey) {
	for i := range s.state.TodoRules {
		r := &s.state.TodoRules[i]
		if !s.ruleDueOn(r, day) {
			continue
		}
		if s.hasInstance(r.ID, day) {
			continue
		}
		// Name and points are copied at generation time; later rule edits
		// do not alter already-materialized instances.
		s.state.Todos = append(s.state.Todos, Todo{
			ID:     uuid.NewString(),
			Name:   r.Name,
			DueDay: day,
			Points: r.Points,
			Done:   false,
			RuleID: r.ID,
		})
	}
}

func (s *Service) ruleDueOn(r *TodoRule, day DayKey) bool {
	switch r.Recurrence.Freq {
	case FreqDaily:
		return true
	case FreqWeekly:
		if len(r.Recurrence.ByWeekday) == 0 {
			return true
		}
		wd := day.Weekday()
		for _, w := range r.Recurrence.ByWeekday {
			if w == wd {
				return true
			}
		}
		return false
	case FreqCustom:
		anchor := r.AnchorDay
		if anchor == "" {
			anchor = s.state.Today.Day
		}
		interval := r.Recurrence.Interval
		if interval < 1 {
			interval = 1
		}
		diff := day.DaysSince(anchor)
		return diff >= 0 && diff%interval == 0
	default:
		return false
	}
}

func (s *Service) hasInstance(ruleID string, day DayKey) bool {
	for i := range s.state.Todos {
		if s.state.Todos[i].RuleID == ruleID && s.state.Todos[i].DueDay == day {
			return true
		}
	}
	return false
}
