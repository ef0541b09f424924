package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// drive feeds outcomes to b: 'f' records a failure, 's' a success.
func drive(b *Breaker, outcomes string) (opened, closed int) {
	for _, o := range outcomes {
		var change StateChange
		if o == 'f' {
			_, change = b.RecordFailure()
		} else {
			_, change = b.RecordSuccess()
		}
		if change.Opened {
			opened++
		}
		if change.Closed {
			closed++
		}
	}
	return opened, closed
}

func TestBreaker_Sequences(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		successes int
		outcomes  string
		wantOpen  bool
		opened    int
		closed    int
	}{
		{name: "starts closed", failures: 3, successes: 1, outcomes: "", wantOpen: false},
		{name: "stays closed below the threshold", failures: 3, successes: 1, outcomes: "ff", wantOpen: false},
		{name: "opens on the threshold", failures: 3, successes: 1, outcomes: "fff", wantOpen: true, opened: 1},
		{name: "a success resets the failure run", failures: 3, successes: 1, outcomes: "ffsff", wantOpen: false},
		{name: "failures while open do not reopen", failures: 1, successes: 1, outcomes: "fff", wantOpen: true, opened: 1},
		{name: "closes after the success run", failures: 1, successes: 2, outcomes: "fss", wantOpen: false, opened: 1, closed: 1},
		{name: "a failure resets the success run", failures: 1, successes: 3, outcomes: "fssfss", wantOpen: true, opened: 1},
		{name: "reopens after closing", failures: 2, successes: 1, outcomes: "ffsff", wantOpen: true, opened: 2, closed: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("github", WithFailureThreshold(tt.failures), WithSuccessThreshold(tt.successes))

			opened, closed := drive(b, tt.outcomes)

			assert.Equal(t, tt.wantOpen, b.IsOpen())
			assert.Equal(t, tt.opened, opened, "open transitions")
			assert.Equal(t, tt.closed, closed, "close transitions")
		})
	}
}

func TestBreaker_ReturnValuesTrackState(t *testing.T) {
	b := New("github", WithFailureThreshold(2))

	useFallback, _ := b.RecordFailure()
	assert.False(t, useFallback, "one failure keeps the primary path")

	useFallback, _ = b.RecordFailure()
	assert.True(t, useFallback)

	usePrimary, change := b.RecordSuccess()
	assert.True(t, usePrimary)
	assert.True(t, change.Closed)
}

func TestBreaker_DefaultsAndInvalidOptions(t *testing.T) {
	b := New("github", WithFailureThreshold(0), WithSuccessThreshold(-1))

	assert.Equal(t, "github", b.Name())
	assert.Equal(t, "closed", b.State().String())

	drive(b, "ffff")
	assert.False(t, b.IsOpen(), "zero threshold falls back to five")
	drive(b, "f")
	assert.True(t, b.IsOpen())
}

func TestBreaker_Reset(t *testing.T) {
	b := New("github", WithFailureThreshold(1))
	drive(b, "f")

	b.Reset()

	assert.Equal(t, StateClosed, b.State())
	drive(b, "s")
	assert.False(t, b.IsOpen())
}

func TestBreaker_ConcurrentUse(t *testing.T) {
	b := New("github", WithFailureThreshold(10))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.RecordFailure()
		}()
	}
	wg.Wait()

	assert.True(t, b.IsOpen())
	assert.Equal(t, "open", b.State().String())
}
