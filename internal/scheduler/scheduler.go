package scheduler

import (
	"context"
	"time"

	"github.com/evilsocket/islazy/log"
	"github.com/go-co-op/gocron"

	"github.com/C4rL0Xt/ControlTemperaturaHumedad/internal/climate"
)

// Scheduler periodically runs a render pass in the background, so history
// keeps growing while nobody has the dashboard open.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *climate.Service
	interval  time.Duration
}

// New creates a new Scheduler. A non-positive interval disables it.
func New(interval time.Duration, service *climate.Service) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		service:   service,
		interval:  interval,
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		log.Info("scheduler: auto refresh disabled")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.run)
	if err != nil {
		return err
	}

	log.Info("scheduler: auto refresh every %s", s.interval)
	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	board, err := s.service.Refresh(ctx)
	if err != nil {
		log.Warning("scheduler: render %s incomplete: %v", board.ID, err)
		return
	}
	log.Debug("scheduler: render %s stored %d readings", board.ID, len(board.Cards))
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
