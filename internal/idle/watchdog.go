// Package idle implements the session idle watchdog: a resettable
// wall-clock timer that expires the session after a period with no
// qualifying user interaction.
package idle

import (
	"sync"
	"time"
)

// DefaultTimeout matches the storefront's 30 minute idle expiry.
const DefaultTimeout = 30 * time.Minute

// Watchdog owns a single resettable timer. Start arms it, Touch rearms it,
// Stop disarms it. The expiry callback runs at most once per armed period
// and never after Stop returns.
type Watchdog struct {
	mu      sync.Mutex
	timeout time.Duration
	timer   *time.Timer
	// gen identifies the current armed period. A fire carrying an older
	// generation lost a race against Touch, Start or Stop and must not
	// expire the session.
	gen      uint64
	onExpire func()
}

// New creates a watchdog that invokes onExpire after timeout of inactivity.
// A non-positive timeout falls back to DefaultTimeout.
func New(timeout time.Duration, onExpire func()) *Watchdog {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Watchdog{
		timeout:  timeout,
		onExpire: onExpire,
	}
}

// Start arms the watchdog. Starting an already-armed watchdog resets it.
func (w *Watchdog) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.arm()
}

// Touch registers a qualifying user interaction, pushing expiry out by the
// full timeout. Touching a stopped watchdog is a no-op.
func (w *Watchdog) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer == nil {
		return
	}
	w.arm()
}

// Stop disarms the watchdog. Idempotent.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Running reports whether the watchdog is currently armed.
func (w *Watchdog) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.timer != nil
}

// arm replaces the pending timer and starts a new armed period. Caller
// holds the lock.
func (w *Watchdog) arm() {
	if w.timer != nil {
		w.timer.Stop()
	}
	w.gen++
	gen := w.gen
	w.timer = time.AfterFunc(w.timeout, func() { w.fire(gen) })
}

func (w *Watchdog) fire(gen uint64) {
	w.mu.Lock()
	if w.timer == nil || gen != w.gen {
		// Stopped or superseded between the timer firing and acquiring
		// the lock.
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.mu.Unlock()

	w.onExpire()
}
