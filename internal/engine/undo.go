package engine

import (
	"context"
	"errors"
)

// ErrNotToday guards Undo: only the current day's actions are undoable.
var ErrNotToday = errors.New("only today's entries can be undone")

// TodayFeed lists today's grant log entries, newest first. Purchases
// and boss tally steps are excluded; those are undone through their own
// surfaces (boss dec) or not at all (purchases).
func (s *Service) TodayFeed() []LogEntry {
	day := s.state.Today.Day
	var out []LogEntry
	for _, l := range s.state.Logs {
		if l.Day != day {
			continue
		}
		switch l.Kind {
		case LogTodo, LogHabit, LogChallenge, LogLibrary:
			out = append(out, l)
		}
	}
	return out
}

// UndoEntry reverses a feed entry, restoring the entity state the grant
// changed (todo done flag, habit status) before reversing the points.
func (s *Service) UndoEntry(ctx context.Context, entry LogEntry) error {
	if entry.Day != s.state.Today.Day {
		return ErrNotToday
	}

	switch entry.Kind {
	case LogTodo:
		if t := s.state.TodoByID(entry.RefID); t != nil {
			t.Done = false
		}
	case LogHabit:
		st := s.state.Today.HabitsStatus[entry.RefID]
		st.Done = false
		s.state.Today.HabitsStatus[entry.RefID] = st
	case LogChallenge, LogLibrary:
		// Nothing beyond the points to roll back.
	default:
		return errors.New("entry is not undoable")
	}

	s.reverse(entry.Points, entry.Kind, entry.RefID)
	return s.flush(ctx)
}
