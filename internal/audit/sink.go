package audit

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Vovarama1992/auv-mission-bridge/internal/telemetry"
)

// Sink is a telemetry.Observer that persists events from a background
// worker. Observe never blocks: when the buffer is full the event is dropped
// and counted.
type Sink struct {
	repo    Repo
	log     *logrus.Logger
	events  chan telemetry.Event
	timeout time.Duration

	mu      sync.Mutex
	dropped int
	closed  bool
	done    chan struct{}
}

func NewSink(repo Repo, log *logrus.Logger, buffer int) *Sink {
	if buffer <= 0 {
		buffer = 256
	}
	s := &Sink{
		repo:    repo,
		log:     log,
		events:  make(chan telemetry.Event, buffer),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Sink) Observe(e telemetry.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.events <- e:
	default:
		s.dropped++
	}
}

// Dropped returns how many events were discarded because the buffer was full.
func (s *Sink) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close stops accepting events and waits until the buffer is drained.
func (s *Sink) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.events)
	s.mu.Unlock()
	<-s.done
}

func (s *Sink) run() {
	defer close(s.done)
	for e := range s.events {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		if err := s.repo.SaveEvent(ctx, toRecord(e)); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"invocation": e.InvocationID,
				"stage":      string(e.Stage),
			}).Warn("Failed to persist pipeline event")
		}
		cancel()
	}
}

func toRecord(e telemetry.Event) Record {
	rec := Record{
		InvocationID: e.InvocationID,
		Stage:        string(e.Stage),
		Fields:       e.Fields,
		CreatedAt:    e.At,
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if e.Err != nil {
		rec.Error = e.Err.Error()
	}
	return rec
}
