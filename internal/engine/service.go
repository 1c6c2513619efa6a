package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

// Store persists the state tree as an opaque JSON blob. Load returns
// (nil, nil) when no prior state exists; recovering a corrupt blob is
// the store's concern, the engine only sees bytes or absence.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, raw []byte) error
	Wipe(ctx context.Context) error
}

// Service owns the state tree. All mutation goes through its methods;
// there is exactly one mutator and no locking (single logical session).
type Service struct {
	state  *State
	store  Store
	clock  Clock
	notify Notifier
	rng    *rand.Rand
}

func NewService(store Store) *Service {
	return NewServiceWith(store, SystemClock, NopNotifier, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func NewServiceWith(store Store, clock Clock, notify Notifier, rng *rand.Rand) *Service {
	return &Service{
		state:  DefaultState(),
		store:  store,
		clock:  clock,
		notify: notify,
		rng:    rng,
	}
}

// State exposes the tree for read-only consumers (rendering, stats).
func (s *Service) State() *State { return s.state }

// Now reports the service clock's current time.
func (s *Service) Now() time.Time { return s.clock.Now() }

// Load reads prior state from the store. Absent or unparseable state
// degrades to defaults; application start never fails on bad data.
func (s *Service) Load(ctx context.Context) error {
	raw, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	st := DefaultState()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, st); err != nil {
			st = DefaultState()
		}
	}
	st.Normalize()
	s.state = st
	return nil
}

// flush publishes the current state to the store. Writes follow mutation
// order; callers do not wait on anything beyond the Save call itself.
func (s *Service) flush(ctx context.Context) error {
	raw, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.store.Save(ctx, raw); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// pulse fires a haptic event when the settings toggle allows it.
func (s *Service) pulse(ms int) {
	if s.state.Settings.Haptics {
		s.notify.Haptic(ms)
	}
}

// progressFor returns day's bucket, creating it on first touch.
func (s *Service) progressFor(day DayKey) *ProgressBucket {
	b, ok := s.state.Progress[day]
	if !ok {
		b = &ProgressBucket{}
		s.state.Progress[day] = b
	}
	return b
}

// UpdateSettings replaces settings. Inputs are assumed clamped at the
// boundary (CLI/form); the engine does not re-validate.
func (s *Service) UpdateSettings(ctx context.Context, set Settings) error {
	s.state.Settings = set
	return s.flush(ctx)
}
