// Package navigation simulates turn-by-turn progress along a canned route.
// Nothing here computes a real route; progress is a ticker.
package navigation

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gtanav/assistant/backend/internal/metrics"
	navmodel "github.com/gtanav/assistant/backend/internal/model/navigation"
)

var (
	ErrSessionRequired = errors.New("session id is required")
	ErrRouteNotFound   = errors.New("route not found")
)

// Run states.
const (
	StatusIdle       = "idle"
	StatusNavigating = "navigating"
	StatusArrived    = "arrived"
)

// Status is a snapshot of one session's navigation run.
type Status struct {
	SessionID   string `json:"sessionId"`
	RouteID     string `json:"routeId,omitempty"`
	Progress    int    `json:"progress"`
	State       string `json:"status"`
	StepIndex   int    `json:"stepIndex"`
	Instruction string `json:"instruction"`
	Distance    string `json:"distance"`
}

// Publisher receives every status change. Implementations must not block.
type Publisher interface {
	Publish(status Status)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Status)

// Publish calls f.
func (f PublisherFunc) Publish(s Status) { f(s) }

// RouteLookup resolves route ids.
type RouteLookup interface {
	Route(id string) (navmodel.RouteOption, bool)
}

// Options tunes the simulator. Zero values use 1s ticks and +2 per tick.
type Options struct {
	Tick      time.Duration
	Step      int
	Publisher Publisher
	Logger    *zap.Logger
}

type run struct {
	routeID  string
	progress int
	state    string
	cancel   context.CancelFunc
}

// Simulator drives at most one navigation run per session.
type Simulator struct {
	mu    sync.Mutex
	runs  map[string]*run
	wg    sync.WaitGroup
	steps []navmodel.NavigationStep

	routes    RouteLookup
	tick      time.Duration
	step      int
	publisher Publisher
	logger    *zap.Logger
}

// NewSimulator creates a simulator over the given routes and steps.
func NewSimulator(routes RouteLookup, steps []navmodel.NavigationStep, opts Options) *Simulator {
	tick := opts.Tick
	if tick <= 0 {
		tick = time.Second
	}
	step := opts.Step
	if step <= 0 {
		step = 2
	}
	publisher := opts.Publisher
	if publisher == nil {
		publisher = PublisherFunc(func(Status) {})
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Simulator{
		runs:      make(map[string]*run),
		steps:     append([]navmodel.NavigationStep(nil), steps...),
		routes:    routes,
		tick:      tick,
		step:      step,
		publisher: publisher,
		logger:    logger.Named("navigation"),
	}
}

// Start begins (or restarts) navigation for the session at 0%.
func (s *Simulator) Start(sessionID, routeID string) (Status, error) {
	if sessionID == "" {
		return Status{}, ErrSessionRequired
	}
	if _, ok := s.routes.Route(routeID); !ok {
		return Status{}, ErrRouteNotFound
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &run{routeID: routeID, state: StatusNavigating, cancel: cancel}

	s.mu.Lock()
	if prev := s.runs[sessionID]; prev != nil {
		prev.cancel()
	}
	s.runs[sessionID] = r
	status := s.snapshot(sessionID, r)
	s.wg.Add(1)
	s.mu.Unlock()

	metrics.NavigationRuns.WithLabelValues("started").Inc()
	s.logger.Info("navigation started", zap.String("session_id", sessionID), zap.String("route_id", routeID))
	s.publisher.Publish(status)

	go s.drive(ctx, sessionID, r)
	return status, nil
}

// Stop cancels the session's run and resets progress to 0.
func (s *Simulator) Stop(sessionID string) Status {
	s.mu.Lock()
	r := s.runs[sessionID]
	delete(s.runs, sessionID)
	s.mu.Unlock()

	if r != nil {
		r.cancel()
		if r.state == StatusNavigating {
			metrics.NavigationRuns.WithLabelValues("stopped").Inc()
		}
	}

	status := s.Status(sessionID)
	s.publisher.Publish(status)
	return status
}

// Status reports the session's current run, or an idle status.
func (s *Simulator) Status(sessionID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.runs[sessionID]
	if r == nil {
		return s.snapshot(sessionID, &run{state: StatusIdle})
	}
	return s.snapshot(sessionID, r)
}

// Close stops every run and waits for their tickers to exit.
func (s *Simulator) Close() {
	s.mu.Lock()
	for id, r := range s.runs {
		r.cancel()
		delete(s.runs, id)
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Simulator) drive(ctx context.Context, sessionID string, r *run) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		s.mu.Lock()
		if s.runs[sessionID] != r {
			s.mu.Unlock()
			return
		}
		r.progress += s.step
		if r.progress >= 100 {
			r.progress = 100
			r.state = StatusArrived
		}
		status := s.snapshot(sessionID, r)
		s.mu.Unlock()

		s.publisher.Publish(status)

		if status.State == StatusArrived {
			metrics.NavigationRuns.WithLabelValues("arrived").Inc()
			s.logger.Info("navigation arrived", zap.String("session_id", sessionID), zap.String("route_id", r.routeID))
			return
		}
	}
}

// snapshot must be called with s.mu held.
func (s *Simulator) snapshot(sessionID string, r *run) Status {
	status := Status{
		SessionID: sessionID,
		RouteID:   r.routeID,
		Progress:  r.progress,
		State:     r.state,
	}
	if len(s.steps) == 0 {
		return status
	}

	idx := StepIndex(r.progress, len(s.steps))
	status.StepIndex = idx
	status.Instruction = s.steps[idx].Instruction
	status.Distance = s.steps[idx].Distance
	return status
}

// StepIndex maps a progress percentage onto one of n steps.
func StepIndex(progress, n int) int {
	if n <= 0 {
		return 0
	}
	if progress < 0 {
		progress = 0
	}
	idx := progress * n / 100
	if idx > n-1 {
		idx = n - 1
	}
	return idx
}
