package pacing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPacer_DurationWithinBounds(t *testing.T) {
	p := New(1, nil)
	lo, hi := 500*time.Millisecond, 1500*time.Millisecond

	for i := 0; i < 1000; i++ {
		d := p.Duration(lo, hi)
		assert.GreaterOrEqual(t, d, lo)
		assert.LessOrEqual(t, d, hi)
	}
}

func TestPacer_DurationSwappedAndEqualBounds(t *testing.T) {
	p := New(1, nil)

	assert.Equal(t, time.Second, p.Duration(time.Second, time.Second))

	d := p.Duration(2*time.Second, time.Second)
	assert.GreaterOrEqual(t, d, time.Second)
	assert.LessOrEqual(t, d, 2*time.Second)
}

func TestPacer_JitterSleepsSampledDuration(t *testing.T) {
	var slept []time.Duration
	p := New(7, func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	})

	d, err := p.Jitter(context.Background(), 2*time.Second, 4*time.Second)
	require.NoError(t, err)
	require.Len(t, slept, 1)
	assert.Equal(t, d, slept[0])
}

func TestPacer_PickUserAgent(t *testing.T) {
	p := New(3, nil)

	assert.Equal(t, "", p.PickUserAgent(nil))

	agents := []string{"ua-1", "ua-2", "ua-3"}
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		seen[p.PickUserAgent(agents)] = true
	}
	assert.Len(t, seen, 3)
}
