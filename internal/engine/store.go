package engine

import (
	"path-route-service/internal/domain"
	"strings"

	"github.com/samber/lo"
)

// Store is the ordered collection of path entries.
//
// Iteration order is insertion order. Entry identities are never reused, so a
// removal never shifts the identity of a later entry.
type Store struct {
	entries map[domain.EntryID]*domain.PathEntry
	order   []domain.EntryID
	nextID  domain.EntryID
}

func NewStore() *Store {
	return &Store{
		entries: make(map[domain.EntryID]*domain.PathEntry),
		nextID:  1,
	}
}

// Add stores a new Idle entry. Empty or whitespace-only input is ignored.
func (s *Store) Add(raw string) (domain.EntryID, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	id := s.nextID
	s.nextID++

	s.entries[id] = &domain.PathEntry{ID: id, Raw: raw, Status: domain.StatusIdle}
	s.order = append(s.order, id)
	return id, true
}

// Remove deletes the entry and its legs. Unknown ids are a no-op.
func (s *Store) Remove(id domain.EntryID) (*domain.PathEntry, bool) {
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	delete(s.entries, id)
	s.order = lo.Without(s.order, id)
	return e, true
}

func (s *Store) Get(id domain.EntryID) (*domain.PathEntry, bool) {
	e, ok := s.entries[id]
	return e, ok
}

// All returns entry ids in insertion order.
func (s *Store) All() []domain.EntryID {
	return append([]domain.EntryID(nil), s.order...)
}

// Entries returns the live entries in insertion order.
func (s *Store) Entries() []*domain.PathEntry {
	return lo.Map(s.order, func(id domain.EntryID, _ int) *domain.PathEntry {
		return s.entries[id]
	})
}

func (s *Store) Len() int { return len(s.order) }

// Clear removes every entry and returns them so callers can release their tokens.
func (s *Store) Clear() []*domain.PathEntry {
	removed := s.Entries()
	s.entries = make(map[domain.EntryID]*domain.PathEntry)
	s.order = nil
	return removed
}
