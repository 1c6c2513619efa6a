package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

type AddTodoInput struct {
	Name   string
	Points int
	DueDay DayKey
	// Repeat, when non-nil, also creates a recurrence rule anchored at
	// DueDay so future days materialize their own instances.
	Repeat *Recurrence
}

func (s *Service) AddTodo(ctx context.Context, in AddTodoInput) (*Todo, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	day := in.DueDay
	if day == "" {
		day = s.state.Today.Day
	}
	if !day.IsValid() {
		return nil, fmt.Errorf("invalid due day %q", day)
	}

	t := Todo{
		ID:     uuid.NewString(),
		Name:   name,
		DueDay: day,
		Points: in.Points,
	}
	s.state.Todos = append(s.state.Todos, t)

	if in.Repeat != nil && in.Repeat.Freq.IsValid() {
		rec := *in.Repeat
		if rec.Freq == FreqWeekly && len(rec.ByWeekday) == 0 {
			rec.ByWeekday = []int{day.Weekday()}
		}
		s.state.TodoRules = append(s.state.TodoRules, TodoRule{
			ID:         uuid.NewString(),
			Name:       name,
			Points:     in.Points,
			Recurrence: rec,
			AnchorDay:  day,
		})
	}

	if err := s.flush(ctx); err != nil {
		return nil, err
	}
	return &t, nil
}

// ToggleTodo completes or un-completes an instance, granting or
// reversing its points.
func (s *Service) ToggleTodo(ctx context.Context, id string) (bool, error) {
	t := s.state.TodoByID(id)
	if t == nil {
		return false, fmt.Errorf("todo %s not found", id)
	}
	if !t.Done {
		t.Done = true
		s.grant(t.Points, t.Name, LogTodo, t.ID)
	} else {
		t.Done = false
		s.reverse(t.Points, LogTodo, t.ID)
	}
	if err := s.flush(ctx); err != nil {
		return false, err
	}
	return t.Done, nil
}

// RemoveRule deletes a recurrence rule and detaches (not deletes) any
// instances it already generated.
func (s *Service) RemoveRule(ctx context.Context, ruleID string) error {
	found := false
	kept := s.state.TodoRules[:0]
	for _, r := range s.state.TodoRules {
		if r.ID == ruleID {
			found = true
			continue
		}
		kept = append(kept, r)
	}
	if !found {
		return fmt.Errorf("rule %s not found", ruleID)
	}
	s.state.TodoRules = kept
	for i := range s.state.Todos {
		if s.state.Todos[i].RuleID == ruleID {
			s.state.Todos[i].RuleID = ""
		}
	}
	return s.flush(ctx)
}

// TodosForDay lists instances due on day, stable by name.
func (s *Service) TodosForDay(day DayKey) []Todo {
	var out []Todo
	for _, t := range s.state.Todos {
		if t.DueDay == day {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
