// Package pacing spaces out browser activity with randomised delays.
package pacing

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quickapply/internal/usecase/retry"
)

// Pacer samples uniform delays and waits them out.
type Pacer struct {
	mu    sync.Mutex
	rnd   *rand.Rand
	sleep retry.SleepFunc
}

func New(seed int64, sleep retry.SleepFunc) *Pacer {
	if sleep == nil {
		sleep = retry.Sleep
	}
	return &Pacer{
		rnd:   rand.New(rand.NewSource(seed)),
		sleep: sleep,
	}
}

func NewDefault() *Pacer {
	return New(time.Now().UnixNano(), nil)
}

// Duration returns a uniformly random duration in [lo, hi]. Bounds are
// swapped when given in the wrong order.
func (p *Pacer) Duration(lo, hi time.Duration) time.Duration {
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi == lo {
		return lo
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return lo + time.Duration(p.rnd.Int63n(int64(hi-lo)+1))
}

// Jitter waits a uniformly random duration in [lo, hi] and returns it.
func (p *Pacer) Jitter(ctx context.Context, lo, hi time.Duration) (time.Duration, error) {
	d := p.Duration(lo, hi)
	return d, p.sleep(ctx, d)
}

// PickUserAgent returns one of agents chosen uniformly, or "" for an empty list.
func (p *Pacer) PickUserAgent(agents []string) string {
	if len(agents) == 0 {
		return ""
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return agents[p.rnd.Intn(len(agents))]
}
