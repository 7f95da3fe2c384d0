package timer

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects countdown events behind a mutex so test goroutines can
// inspect them safely.
type recorder struct {
	mu         sync.Mutex
	ticks      []int
	warnings   int
	finalTicks []int
	expires    int
	done       chan struct{}
}

func newRecorder() *recorder {
	return &recorder{done: make(chan struct{})}
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnTick: func(left int) {
			r.mu.Lock()
			r.ticks = append(r.ticks, left)
			r.mu.Unlock()
		},
		OnWarning: func() {
			r.mu.Lock()
			r.warnings++
			r.mu.Unlock()
		},
		OnFinalCountdownTick: func(left int) {
			r.mu.Lock()
			r.finalTicks = append(r.finalTicks, left)
			r.mu.Unlock()
		},
		OnExpire: func() {
			r.mu.Lock()
			r.expires++
			r.mu.Unlock()
			close(r.done)
		},
	}
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(5 * time.Second):
		t.Fatal("timer did not expire in time")
	}
}

func TestCountdownRunsToExpiry(t *testing.T) {
	eng := New(zerolog.Nop(), WithInterval(time.Millisecond))
	rec := newRecorder()

	eng.Start(65, rec.callbacks())
	rec.wait(t)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	require.Len(t, rec.ticks, 65)
	assert.Equal(t, 64, rec.ticks[0])
	assert.Equal(t, 0, rec.ticks[64])
	assert.Equal(t, 1, rec.expires, "expire must fire exactly once")
	assert.False(t, eng.Running())
}

func TestWarningFiresOnceAtSixtySeconds(t *testing.T) {
	eng := New(zerolog.Nop(), WithInterval(time.Millisecond))
	rec := newRecorder()

	eng.Start(65, rec.callbacks())
	rec.wait(t)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	assert.Equal(t, 1, rec.warnings, "warning must fire exactly once")
}

func TestFinalCountdownCoversLastTenSeconds(t *testing.T) {
	eng := New(zerolog.Nop(), WithInterval(time.Millisecond))
	rec := newRecorder()

	eng.Start(15, rec.callbacks())
	rec.wait(t)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	assert.Equal(t, []int{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, rec.finalTicks)
	// Started below the warning threshold, so no warning fires.
	assert.Equal(t, 0, rec.warnings)
}

func TestNoTicksAfterExpiry(t *testing.T) {
	eng := New(zerolog.Nop(), WithInterval(time.Millisecond))
	rec := newRecorder()

	eng.Start(3, rec.callbacks())
	rec.wait(t)

	// Let any stray ticker fires land before inspecting.
	time.Sleep(20 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	assert.Len(t, rec.ticks, 3)
	assert.Equal(t, 1, rec.expires)
}

func TestStopHaltsTicking(t *testing.T) {
	eng := New(zerolog.Nop(), WithInterval(time.Millisecond))
	rec := newRecorder()

	eng.Start(10000, rec.callbacks())
	time.Sleep(10 * time.Millisecond)
	eng.Stop()

	rec.mu.Lock()
	ticksAtStop := len(rec.ticks)
	rec.mu.Unlock()

	time.Sleep(20 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	assert.InDelta(t, ticksAtStop, len(rec.ticks), 1, "ticks must stop after Stop")
	assert.Equal(t, 0, rec.expires)
	assert.False(t, eng.Running())

	// Stop is idempotent.
	eng.Stop()
	eng.Stop()
}

func TestStartResumesFromSavedRemainder(t *testing.T) {
	eng := New(zerolog.Nop(), WithInterval(time.Millisecond))
	rec := newRecorder()

	// A restored session resumes from the saved value, not the full limit.
	eng.Start(5, rec.callbacks())
	rec.wait(t)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	assert.Equal(t, []int{4, 3, 2, 1, 0}, rec.ticks)
}

func TestStartWithNonPositiveValueIsNoop(t *testing.T) {
	eng := New(zerolog.Nop(), WithInterval(time.Millisecond))
	rec := newRecorder()

	eng.Start(0, rec.callbacks())
	assert.False(t, eng.Running())

	eng.Start(-5, rec.callbacks())
	assert.False(t, eng.Running())
}
