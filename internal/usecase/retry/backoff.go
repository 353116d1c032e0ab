package retry

import "time"

// Backoff returns the wait before the n-th retry (n starts at 1).
type Backoff interface {
	Delay(n int) time.Duration
}

// LinearBackoff grows by Base per retry and is capped at Max. Delays are
// strictly increasing as long as n*Base stays below Max.
type LinearBackoff struct {
	Base time.Duration
	Max  time.Duration
}

func (b LinearBackoff) Delay(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	d := time.Duration(n) * b.Base
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}

// StrictlyIncreasing reports whether the first n delays of b strictly
// increase.
func StrictlyIncreasing(b Backoff, n int) bool {
	prev := time.Duration(-1)
	for i := 1; i <= n; i++ {
		d := b.Delay(i)
		if d <= prev {
			return false
		}
		prev = d
	}
	return true
}
