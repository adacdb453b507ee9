package climate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/google/uuid"
)

// DefaultHistoryDays is the chart window used when none is configured.
const DefaultHistoryDays = 1

// Service runs render passes (sample, persist, lay out) and serves the
// history the chart is drawn from.
type Service struct {
	store       Store
	sampler     Sampler
	zones       []Zone
	historyDays int
	now         func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithHistoryDays sets the default history window in days.
func WithHistoryDays(days int) Option {
	return func(s *Service) {
		if days > 0 {
			s.historyDays = days
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new Service rendering cards for zones in the given order.
func NewService(store Store, sampler Sampler, zones []Zone, opts ...Option) *Service {
	s := &Service{
		store:       store,
		sampler:     sampler,
		zones:       append([]Zone(nil), zones...),
		historyDays: DefaultHistoryDays,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Zones returns the configured zones in card order.
func (s *Service) Zones() []Zone {
	return append([]Zone(nil), s.zones...)
}

// HistoryDays returns the default history window.
func (s *Service) HistoryDays() int {
	return s.historyDays
}

// Refresh samples every zone and persists each sample. A failed insert does
// not stop the pass: the card is still returned and the failure is reported
// in the joined error.
func (s *Service) Refresh(ctx context.Context) (Board, error) {
	board := Board{
		ID:         uuid.NewString(),
		RenderedAt: s.now().UTC(),
		Cards:      make([]Reading, 0, len(s.zones)),
	}

	var errs []error
	for _, zone := range s.zones {
		r := s.sampler.Sample(zone, s.now())
		if err := s.store.SaveReading(ctx, &r); err != nil {
			log.Error("render %s: saving reading for %s: %v", board.ID, zone, err)
			errs = append(errs, fmt.Errorf("zone %s: %w", zone, err))
		}
		board.Cards = append(board.Cards, r)
	}

	log.Debug("render %s: %d cards, %d failed inserts", board.ID, len(board.Cards), len(errs))

	return board, errors.Join(errs...)
}

// History returns every reading of the last days days grouped by zone. A
// non-positive days falls back to the configured default.
func (s *Service) History(ctx context.Context, days int) (History, error) {
	if days <= 0 {
		days = s.historyDays
	}

	until := s.now().UTC()
	since := until.AddDate(0, 0, -days)

	readings, err := s.store.ReadingsSince(ctx, since)
	if err != nil {
		return History{}, fmt.Errorf("loading readings since %s: %w", since.Format(time.RFC3339), err)
	}

	return History{
		Days:   days,
		Since:  since,
		Until:  until,
		Series: GroupByZone(readings, s.zones),
	}, nil
}

// Latest delegates to the underlying store.
func (s *Service) Latest(ctx context.Context, zone Zone) (Reading, error) {
	return s.store.LatestReading(ctx, zone)
}

// Alerts returns the alerts popup content.
func (s *Service) Alerts() []Alert {
	return Alerts()
}
