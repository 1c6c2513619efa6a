package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// CooldownError reports a library item still inside its cooldown window.
type CooldownError struct {
	Name    string
	ReadyAt time.Time
}

func (e CooldownError) Error() string {
	return fmt.Sprintf("%q is cooling down until %s", e.Name, e.ReadyAt.Format(time.Kitchen))
}

type CreateLibraryItemInput struct {
	Name          string
	Points        int
	CooldownHours *int
}

func (s *Service) CreateLibraryItem(ctx context.Context, in CreateLibraryItemInput) (*LibraryItem, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	it := LibraryItem{
		ID:            uuid.NewString(),
		Name:          name,
		Points:        in.Points,
		CooldownHours: in.CooldownHours,
		Active:        true,
	}
	s.state.Library = append(s.state.Library, it)
	if err := s.flush(ctx); err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *Service) SetLibraryItemActive(ctx context.Context, id string, active bool) error {
	it := s.state.LibraryItemByID(id)
	if it == nil {
		return fmt.Errorf("library item %s not found", id)
	}
	it.Active = active
	return s.flush(ctx)
}

// libraryReadyAt returns when the item comes off cooldown; zero time
// means it is ready now.
func libraryReadyAt(it *LibraryItem) time.Time {
	if it.CooldownHours == nil || *it.CooldownHours <= 0 || it.LastDoneAt == nil {
		return time.Time{}
	}
	return it.LastDoneAt.Add(time.Duration(*it.CooldownHours) * time.Hour)
}

func (s *Service) LibraryOnCooldown(id string) bool {
	it := s.state.LibraryItemByID(id)
	if it == nil {
		return false
	}
	ready := libraryReadyAt(it)
	return !ready.IsZero() && s.clock.Now().Before(ready)
}

// CompleteLibraryItem performs a quick-add: cooldown gate, stamp, grant.
func (s *Service) CompleteLibraryItem(ctx context.Context, id string) (*GrantResult, error) {
	it := s.state.LibraryItemByID(id)
	if it == nil {
		return nil, fmt.Errorf("library item %s not found", id)
	}
	now := s.clock.Now()
	if ready := libraryReadyAt(it); !ready.IsZero() && now.Before(ready) {
		return nil, CooldownError{Name: it.Name, ReadyAt: ready}
	}
	it.LastDoneAt = &now
	res := s.grant(it.Points, it.Name, LogLibrary, it.ID)
	if err := s.flush(ctx); err != nil {
		return nil, err
	}
	return res, nil
}

// LibraryFavorites returns the n most-used active items by lifetime
// log count, most used first.
func (s *Service) LibraryFavorites(n int) []LibraryItem {
	counts := map[string]int{}
	for _, l := range s.state.Logs {
		if l.Kind == LogLibrary {
			counts[l.RefID]++
		}
	}
	items := s.state.ActiveLibrary()
	sort.SliceStable(items, func(i, j int) bool {
		return counts[items[i].ID] > counts[items[j].ID]
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}
