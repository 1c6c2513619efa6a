package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

func (s *Service) CreateChallenge(ctx context.Context, name string, points int) (*Challenge, error) {
	n, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	c := Challenge{ID: uuid.NewString(), Name: n, Points: points, Active: true}
	s.state.Challenges = append(s.state.Challenges, c)
	if err := s.flush(ctx); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) SetChallengeActive(ctx context.Context, id string, active bool) error {
	c := s.state.ChallengeByID(id)
	if c == nil {
		return fmt.Errorf("challenge %s not found", id)
	}
	c.Active = active
	return s.flush(ctx)
}

// ChallengeDoneToday answers from the log whether the challenge was
// already completed on the current day.
func (s *Service) ChallengeDoneToday(id string) bool {
	day := s.state.Today.Day
	for _, l := range s.state.Logs {
		if l.Day == day && l.Kind == LogChallenge && l.RefID == id {
			return true
		}
	}
	return false
}

// AssignedChallenges resolves today's assignment to challenge values,
// skipping ids whose challenge has since been deleted.
func (s *Service) AssignedChallenges(day DayKey) []Challenge {
	var out []Challenge
	for _, id := range s.state.Assigned[day] {
		if c := s.state.ChallengeByID(id); c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// ToggleChallenge completes the challenge for today, or undoes a
// completion recorded earlier today.
func (s *Service) ToggleChallenge(ctx context.Context, id string) (bool, error) {
	c := s.state.ChallengeByID(id)
	if c == nil {
		return false, fmt.Errorf("challenge %s not found", id)
	}
	if !s.ChallengeDoneToday(id) {
		s.grant(c.Points, c.Name, LogChallenge, c.ID)
		if err := s.flush(ctx); err != nil {
			return false, err
		}
		return true, nil
	}
	s.reverse(c.Points, LogChallenge, c.ID)
	if err := s.flush(ctx); err != nil {
		return false, err
	}
	return false, nil
}
