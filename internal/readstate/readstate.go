// Package readstate keeps the set of notification IDs the user has
// acknowledged. The set is loaded once, held in memory, and written through
// to a Persister on every mutation.
package readstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	gosync "sync"

	"github.com/juju/loggo"
)

var logger = loggo.GetLogger("venuedesk.readstate")

// ErrCorrupt is returned by Persisters whose stored value cannot be decoded.
var ErrCorrupt = errors.New("read-state corrupt")

// Persister stores the acknowledged ID set as one opaque value.
type Persister interface {
	// Load returns the stored IDs. A missing value is an empty set, not an
	// error.
	Load(ctx context.Context) ([]string, error)

	// Save replaces the stored value with ids.
	Save(ctx context.Context, ids []string) error
}

// encodeIDs serializes ids as a sorted JSON array.
func encodeIDs(ids []string) ([]byte, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)
	if sorted == nil {
		sorted = []string{}
	}
	return json.Marshal(sorted)
}

// decodeIDs parses a JSON array of strings. Empty input is an empty set.
func decodeIDs(data []byte) ([]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return ids, nil
}

// Set is the in-memory acknowledged-ID set. It is safe for concurrent use.
type Set struct {
	persister Persister

	mu  gosync.RWMutex
	ids map[string]struct{}
}

// Open loads the stored set. Load failures, including corrupt data, degrade
// to an empty set; they are logged and never returned.
func Open(ctx context.Context, p Persister) *Set {
	s := &Set{
		persister: p,
		ids:       make(map[string]struct{}),
	}

	ids, err := p.Load(ctx)
	switch {
	case errors.Is(err, ErrCorrupt):
		logger.Warningf("discarding unreadable read-state: %v", err)
	case err != nil:
		logger.Errorf("loading read-state, starting empty: %v", err)
	}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// IsRead reports whether id has been acknowledged.
func (s *Set) IsRead(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of acknowledged IDs.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// IDs returns the acknowledged IDs in sorted order.
func (s *Set) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

func (s *Set) sortedLocked() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MarkRead acknowledges id. Marking an already-read id does nothing.
func (s *Set) MarkRead(ctx context.Context, id string) error {
	return s.MarkAllRead(ctx, []string{id})
}

// MarkAllRead adds ids to the set and persists the union before returning.
// If persisting fails the in-memory set is left unchanged.
func (s *Set) MarkAllRead(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []string
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := s.ids[id]; ok {
			continue
		}
		s.ids[id] = struct{}{}
		added = append(added, id)
	}
	if len(added) == 0 {
		return nil
	}

	if err := s.persister.Save(ctx, s.sortedLocked()); err != nil {
		for _, id := range added {
			delete(s.ids, id)
		}
		return fmt.Errorf("saving read-state: %w", err)
	}
	return nil
}
