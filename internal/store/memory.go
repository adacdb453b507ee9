package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/climate"
)

var (
	// ErrNotFound is returned when no reading is available for a given zone.
	ErrNotFound = errors.New("no readings for zone")
)

// MemoryStore is a concurrency-safe in-memory implementation of climate.Store.
// It keeps every reading for the lifetime of the process.
type MemoryStore struct {
	mu sync.RWMutex

	readings []climate.Reading
	nextID   uint
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

// SaveReading appends r and assigns its ID.
func (s *MemoryStore) SaveReading(ctx context.Context, r *climate.Reading) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = s.nextID
	s.nextID++
	s.readings = append(s.readings, *r)
	return nil
}

// ReadingsSince returns all readings at or after since, oldest first.
func (s *MemoryStore) ReadingsSince(ctx context.Context, since time.Time) ([]climate.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []climate.Reading
	for _, r := range s.readings {
		if r.Timestamp.Equal(since) || r.Timestamp.After(since) {
			result = append(result, r)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

// LatestReading returns the most recent reading of zone.
func (s *MemoryStore) LatestReading(ctx context.Context, zone climate.Zone) (climate.Reading, error) {
	if err := ctx.Err(); err != nil {
		return climate.Reading{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		latest climate.Reading
		found  bool
	)
	for _, r := range s.readings {
		if r.Zone != zone {
			continue
		}
		if !found || !r.Timestamp.Before(latest.Timestamp) {
			latest = r
			found = true
		}
	}
	if !found {
		return climate.Reading{}, ErrNotFound
	}
	return latest, nil
}

// Len returns the number of stored readings.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.readings)
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
