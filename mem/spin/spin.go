// Package spin implements the critical-section lock the allocator
// regions serialize on. It is a compare-and-swap spinlock: acquisition
// never parks the goroutine, so the wait for a lock whose critical
// sections are bounded is itself bounded by hold time times the number
// of contending contexts.
//
// TryAcquire is a single CAS with no wait at all. Callers that must
// never block (interrupt-style contexts, latency-critical paths) use
// it and treat failure as a retryable busy condition.
package spin

import (
	"runtime"
	"sync/atomic"
)

// SpinsPerYield is the number of failed acquisition attempts between
// scheduler yields. It caps the busy-wait burst length; the total wait
// remains bounded by the critical-section hold time of the current
// owner and the number of contending contexts.
const SpinsPerYield = 64

// Lock is a spinlock. The zero value is an unlocked lock. A Lock must
// not be copied after first use.
type Lock struct {
	state atomic.Uint32
}

// Acquire busy-waits until the lock is held. Every acquisition must be
// matched by exactly one Release.
func (l *Lock) Acquire() {
	for spins := 1; !l.state.CompareAndSwap(0, 1); spins++ {
		if spins%SpinsPerYield == 0 {
			runtime.Gosched()
		}
	}
}

// TryAcquire attempts to take the lock without waiting. It returns
// false immediately if the lock is held by another context.
func (l *Lock) TryAcquire() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Release unlocks the lock. Releasing an unheld lock is a programming
// error and panics, matching the behavior of unlocking an unlocked
// sync.Mutex.
func (l *Lock) Release() {
	if !l.state.CompareAndSwap(1, 0) {
		panic("spin: release of unheld lock")
	}
}
