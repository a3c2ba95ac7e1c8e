// Package store holds the notebook's in-memory source of truth: the ordered
// record collection and the transient UI state.
package store

import (
	"errors"
	"fmt"

	"labnotebook/pkg/domain"
)

// ErrDuplicateID is returned when inserting an id that already exists.
var ErrDuplicateID = errors.New("duplicate record id")

// ErrNotFound reports a lookup, replace or remove of an unknown id.
type ErrNotFound struct {
	ID string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("record %s not found", e.ID)
}

// Store is not safe for concurrent use; the controller serialises access.
type Store struct {
	records []domain.Record
	index   map[string]int
	state   domain.UIState
}

// New returns an empty store in the default UI state.
func New() *Store {
	return &Store{index: make(map[string]int), state: domain.DefaultUIState()}
}

// Reset replaces the collection, keeping the first record for any repeated
// id. It returns the ids that were dropped.
func (s *Store) Reset(records []domain.Record) []string {
	s.records = make([]domain.Record, 0, len(records))
	s.index = make(map[string]int, len(records))
	var dropped []string
	for _, r := range records {
		if _, dup := s.index[r.ID]; dup {
			dropped = append(dropped, r.ID)
			continue
		}
		s.index[r.ID] = len(s.records)
		s.records = append(s.records, r.Clone())
	}
	return dropped
}

// Len returns the number of records.
func (s *Store) Len() int { return len(s.records) }

// Contains reports whether id is present.
func (s *Store) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Get returns a copy of the record with id.
func (s *Store) Get(id string) (domain.Record, bool) {
	i, ok := s.index[id]
	if !ok {
		return domain.Record{}, false
	}
	return s.records[i].Clone(), true
}

// Records returns copies of all records in insertion order.
func (s *Store) Records() []domain.Record {
	out := make([]domain.Record, len(s.records))
	for i, r := range s.records {
		out[i] = r.Clone()
	}
	return out
}

// Insert appends r.
func (s *Store) Insert(r domain.Record) error {
	if s.Contains(r.ID) {
		return fmt.Errorf("insert %s: %w", r.ID, ErrDuplicateID)
	}
	s.index[r.ID] = len(s.records)
	s.records = append(s.records, r.Clone())
	return nil
}

// Replace swaps the record with r.ID in place, keeping its position.
func (s *Store) Replace(r domain.Record) error {
	i, ok := s.index[r.ID]
	if !ok {
		return ErrNotFound{ID: r.ID}
	}
	s.records[i] = r.Clone()
	return nil
}

// Remove deletes the record with id and returns it.
func (s *Store) Remove(id string) (domain.Record, error) {
	i, ok := s.index[id]
	if !ok {
		return domain.Record{}, ErrNotFound{ID: id}
	}
	removed := s.records[i]
	s.records = append(s.records[:i], s.records[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.records); j++ {
		s.index[s.records[j].ID] = j
	}
	return removed, nil
}

// State returns the current UI state.
func (s *Store) State() domain.UIState { return s.state }

// SetState replaces the UI state.
func (s *Store) SetState(st domain.UIState) { s.state = st }

// Navigate moves to page with the given selection, leaving the filter as is.
func (s *Store) Navigate(page domain.Page, selectedID string) {
	s.state.Page = page
	s.state.SelectedID = selectedID
}

// SetFilter replaces the list filter. An empty type means all types.
func (s *Store) SetFilter(f domain.Filter) {
	if f.Type == "" {
		f.Type = domain.FilterAll
	}
	s.state.Filter = f
}
