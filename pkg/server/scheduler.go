package server

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dd0wney/keygraph/pkg/config"
	"github.com/dd0wney/keygraph/pkg/logging"
	"github.com/dd0wney/keygraph/pkg/pipeline"
	"github.com/dd0wney/keygraph/pkg/stream"
)

// SchedulerOptions configures a Scheduler. Session is required; a zero
// Interval falls back to the default tick rate.
type SchedulerOptions struct {
	Session  *pipeline.Session
	Interval time.Duration

	// Broadcaster fans a frame out after each step; nil disables
	// streaming
	Broadcaster *stream.Broadcaster

	Logger logging.Logger
}

// Scheduler is the simulation clock. The layout engine never schedules
// its own work: this loop calls Tick at a fixed interval, publishes a
// frame after each step, and parks once the simulation settles until
// Wake signals new work (a rebuild, pin, unpin or reheat).
type Scheduler struct {
	session     *pipeline.Session
	interval    time.Duration
	broadcaster *stream.Broadcaster
	log         logging.Logger

	wake      chan struct{}
	stopCh    chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
	done      chan struct{}
}

// NewScheduler creates a scheduler for the given session
func NewScheduler(opts SchedulerOptions) (*Scheduler, error) {
	if opts.Session == nil {
		return nil, errors.New("scheduler: session is required")
	}
	if opts.Interval <= 0 {
		opts.Interval = config.DefaultTickInterval
	}
	log := opts.Logger
	if log == nil {
		log = logging.DefaultLogger()
	}

	return &Scheduler{
		session:     opts.Session,
		interval:    opts.Interval,
		broadcaster: opts.Broadcaster,
		log:         log.With(logging.Component("scheduler")),
		wake:        make(chan struct{}, 1),
		stopCh:      make(chan struct{}),
		done:        make(chan struct{}),
	}, nil
}

// Start launches the tick loop. Later calls are no-ops.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.run()
	})
}

// Wake unparks a settled scheduler so it picks up new work. Safe to
// call from any goroutine at any rate; wakes coalesce.
func (s *Scheduler) Wake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Stop ends the tick loop and waits for it to exit
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
	if s.started.Load() {
		<-s.done
	}
}

func (s *Scheduler) run() {
	defer close(s.done)

	s.log.Info("Scheduler running", logging.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return

		case <-s.wake:
			// already ticking; nothing to do

		case <-ticker.C:
			if s.session.Tick() {
				s.publish()
				continue
			}

			// Settled, or nothing built yet. Publish the resting frame
			// so late subscribers see the final positions, then park.
			s.publish()
			s.park()
		}
	}
}

func (s *Scheduler) park() {
	if h := s.session.Handle(); h != nil {
		s.log.Debug("Scheduler parked",
			logging.String("phase", h.Phase().String()),
			logging.Tick(h.TickCount()),
		)
	}

	select {
	case <-s.stopCh:
	case <-s.wake:
		s.log.Debug("Scheduler resumed")
	}
}

func (s *Scheduler) publish() {
	if s.broadcaster == nil {
		return
	}
	snap, err := s.session.Snapshot()
	if err != nil {
		return
	}
	if err := s.broadcaster.Broadcast(s.session.ID(), snap); err != nil {
		s.log.Warn("Frame broadcast failed", logging.Error(err))
	}
}
