package climate

import (
	"context"
	"time"
)

// Sampler produces a reading for a zone. The simulator is the only
// implementation; there is no real sensor acquisition.
type Sampler interface {
	Sample(zone Zone, at time.Time) Reading
}

// Store is the contract the SQLite store (and the in-memory store used in
// tests) must satisfy. Readings are never updated or deleted.
type Store interface {
	SaveReading(ctx context.Context, r *Reading) error
	ReadingsSince(ctx context.Context, since time.Time) ([]Reading, error)
	LatestReading(ctx context.Context, zone Zone) (Reading, error)
}
