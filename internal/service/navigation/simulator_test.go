package navigation_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gtanav/assistant/backend/internal/catalog"
	"github.com/gtanav/assistant/backend/internal/service/navigation"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type recorder struct {
	mu       sync.Mutex
	statuses []navigation.Status
	arrived  chan struct{}
	once     sync.Once
}

func newRecorder() *recorder {
	return &recorder{arrived: make(chan struct{})}
}

func (r *recorder) Publish(s navigation.Status) {
	r.mu.Lock()
	r.statuses = append(r.statuses, s)
	r.mu.Unlock()
	if s.State == navigation.StatusArrived {
		r.once.Do(func() { close(r.arrived) })
	}
}

func (r *recorder) snapshot() []navigation.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]navigation.Status(nil), r.statuses...)
}

func newSimulator(t *testing.T, tick time.Duration, step int, pub navigation.Publisher) *navigation.Simulator {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	sim := navigation.NewSimulator(c, c.Steps, navigation.Options{Tick: tick, Step: step, Publisher: pub})
	t.Cleanup(sim.Close)
	return sim
}

func TestStartValidatesInput(t *testing.T) {
	sim := newSimulator(t, time.Hour, 2, nil)

	_, err := sim.Start("", "route-1")
	assert.ErrorIs(t, err, navigation.ErrSessionRequired)

	_, err = sim.Start("s1", "route-99")
	assert.ErrorIs(t, err, navigation.ErrRouteNotFound)

	assert.Equal(t, navigation.StatusIdle, sim.Status("s1").State)
}

func TestStartBeginsAtZero(t *testing.T) {
	sim := newSimulator(t, time.Hour, 2, nil)

	status, err := sim.Start("s1", "route-1")
	require.NoError(t, err)
	assert.Equal(t, 0, status.Progress)
	assert.Equal(t, navigation.StatusNavigating, status.State)
	assert.Equal(t, "route-1", status.RouteID)
	assert.Equal(t, 0, status.StepIndex)
	assert.NotEmpty(t, status.Instruction)
}

func TestRunArrivesAndClampsAt100(t *testing.T) {
	rec := newRecorder()
	sim := newSimulator(t, time.Millisecond, 30, rec)

	_, err := sim.Start("s1", "route-2")
	require.NoError(t, err)

	select {
	case <-rec.arrived:
	case <-time.After(2 * time.Second):
		t.Fatal("run did not arrive")
	}

	final := sim.Status("s1")
	assert.Equal(t, 100, final.Progress)
	assert.Equal(t, navigation.StatusArrived, final.State)

	statuses := rec.snapshot()
	var progress []int
	for _, s := range statuses {
		progress = append(progress, s.Progress)
	}
	assert.Equal(t, []int{0, 30, 60, 90, 100}, progress)

	last := statuses[len(statuses)-1]
	c, err := catalog.Default()
	require.NoError(t, err)
	assert.Equal(t, len(c.Steps)-1, last.StepIndex)
}

func TestStopResetsProgress(t *testing.T) {
	rec := newRecorder()
	sim := newSimulator(t, time.Hour, 2, rec)

	_, err := sim.Start("s1", "route-1")
	require.NoError(t, err)

	status := sim.Stop("s1")
	assert.Equal(t, 0, status.Progress)
	assert.Equal(t, navigation.StatusIdle, status.State)
	assert.Empty(t, status.RouteID)

	statuses := rec.snapshot()
	require.Len(t, statuses, 2)
	assert.Equal(t, navigation.StatusIdle, statuses[1].State)
}

func TestStopWithoutRunIsIdle(t *testing.T) {
	sim := newSimulator(t, time.Hour, 2, nil)
	assert.Equal(t, navigation.StatusIdle, sim.Stop("nobody").State)
}

func TestRestartReplacesRun(t *testing.T) {
	sim := newSimulator(t, time.Hour, 2, nil)

	_, err := sim.Start("s1", "route-1")
	require.NoError(t, err)
	status, err := sim.Start("s1", "route-3")
	require.NoError(t, err)

	assert.Equal(t, "route-3", status.RouteID)
	assert.Equal(t, "route-3", sim.Status("s1").RouteID)
}

func TestSessionsAreIndependent(t *testing.T) {
	sim := newSimulator(t, time.Hour, 2, nil)

	_, err := sim.Start("a", "route-1")
	require.NoError(t, err)
	_, err = sim.Start("b", "route-2")
	require.NoError(t, err)

	sim.Stop("a")
	assert.Equal(t, navigation.StatusIdle, sim.Status("a").State)
	assert.Equal(t, navigation.StatusNavigating, sim.Status("b").State)
}

func TestStepIndex(t *testing.T) {
	cases := []struct {
		progress, n, want int
	}{
		{0, 5, 0},
		{19, 5, 0},
		{20, 5, 1},
		{50, 5, 2},
		{99, 5, 4},
		{100, 5, 4},
		{-3, 5, 0},
		{40, 0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, navigation.StepIndex(tc.progress, tc.n), "progress=%d n=%d", tc.progress, tc.n)
	}
}
