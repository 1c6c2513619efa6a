package engine

import "context"

// AssignChallenges picks count challenges for day and flushes state.
// A repeated call with an unchanged count and force=false is a no-op.
func (s *Service) AssignChallenges(ctx context.Context, day DayKey, count int, force bool) error {
	s.assignChallenges(day, count, force)
	return s.flush(ctx)
}

// assignChallenges draws uniformly without replacement from the active
// pool, preferring candidates not assigned yesterday. When the preferred
// set is too small the full pool is used, accepting repeats from
// yesterday over an underfilled day.
func (s *Service) assignChallenges(day DayKey, count int, force bool) {
	if !force {
		if cur, ok := s.state.Assigned[day]; ok && len(cur) == count {
			return
		}
	}

	var pool []string
	for _, c := range s.state.ActiveChallenges() {
		pool = append(pool, c.ID)
	}

	avoid := map[string]bool{}
	for _, id := range s.state.Assigned[day.AddDays(-1)] {
		avoid[id] = true
	}
	var preferred []string
	for _, id := range pool {
		if !avoid[id] {
			preferred = append(preferred, id)
		}
	}

	bag := preferred
	if len(preferred) < count {
		bag = append([]string(nil), pool...)
	}

	selected := make([]string, 0, count)
	for len(selected) < count && len(bag) > 0 {
		i := s.rng.Intn(len(bag))
		selected = append(selected, bag[i])
		bag = append(bag[:i], bag[i+1:]...)
	}
	s.state.Assigned[day] = selected
}
