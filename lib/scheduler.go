package fissionlib

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorhill/cronexpr"
	"github.com/jonboulle/clockwork"
)

type State int

const (
	StateIdle State = iota
	StateDue
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDue:
		return "due"
	case StateRunning:
		return "running"
	}
	return "unknown"
}

type CycleFunc func(ctx context.Context) error

// Scheduler runs at most one cycle at a time. A cycle that overruns the
// next scheduled instant delays it; triggers missed while running collapse
// into a single cycle on the following tick.
type Scheduler struct {
	expr  *cronexpr.Expression
	clock clockwork.Clock
	cycle CycleFunc

	mu        sync.Mutex
	state     State
	lastCheck time.Time
}

func NewScheduler(
	expr *cronexpr.Expression, clock clockwork.Clock, cycle CycleFunc) *Scheduler {
	return &Scheduler{
		expr:      expr,
		clock:     clock,
		cycle:     cycle,
		lastCheck: clock.Now(),
	}
}

func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Next is the next scheduled instant after the last check
func (s *Scheduler) Next() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expr.Next(s.lastCheck)
}

// RunNow runs a cycle immediately, ignoring the schedule. Returns false
// without doing anything if a cycle is already running.
func (s *Scheduler) RunNow(ctx context.Context) bool {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return false
	}
	s.state = StateDue
	s.mu.Unlock()

	s.execute(ctx)
	return true
}

// Tick runs a cycle if a scheduled instant has passed since the previous
// tick. Reports whether a cycle ran.
func (s *Scheduler) Tick(ctx context.Context) bool {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return false
	}

	now := s.clock.Now()
	next := s.expr.Next(s.lastCheck)
	s.lastCheck = now
	// A zero time means the expression will never fire again
	if next.IsZero() || next.After(now) {
		s.mu.Unlock()
		return false
	}

	s.state = StateDue
	s.mu.Unlock()

	s.execute(ctx)
	return true
}

// Run forces one cycle and then polls the schedule every interval until ctx
// is cancelled. A cycle in progress is allowed to finish; cycles never see
// the cancellation.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) error {
	s.RunNow(ctx)

	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			s.Tick(ctx)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	s.state = StateRunning
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.state = StateIdle
		s.mu.Unlock()
	}()

	slog.Info("Changing background")
	start := s.clock.Now()

	if err := s.cycle(ctx); err != nil {
		slog.Error("Changing background failed", "error", err, "next", s.Next())
		return
	}
	slog.Info("Changed background", "took", s.clock.Since(start), "next", s.Next())
}
