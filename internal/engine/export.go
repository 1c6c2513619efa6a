package engine

import (
	"context"
	"encoding/json"
	"fmt"
)

// ExportJSON renders the full state tree as indented JSON.
func (s *Service) ExportJSON() ([]byte, error) {
	raw, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return raw, nil
}

// ImportJSON replaces the state with the parsed text. Import is
// all-or-nothing: malformed input returns an error and leaves the
// current state untouched. The imported tree gets the same shape
// normalization as freshly loaded state, then a rollover check.
func (s *Service) ImportJSON(ctx context.Context, text []byte) error {
	st := DefaultState()
	if err := json.Unmarshal(text, st); err != nil {
		return fmt.Errorf("import: invalid JSON: %w", err)
	}
	st.Normalize()
	s.state = st
	s.ensureRollover()
	return s.flush(ctx)
}

// WipeAll erases everything and starts a fresh day. Stored backups are
// kept by the store.
func (s *Service) WipeAll(ctx context.Context) error {
	if err := s.store.Wipe(ctx); err != nil {
		return fmt.Errorf("wipe: %w", err)
	}
	s.state = DefaultState()
	s.ensureRollover()
	return s.flush(ctx)
}
