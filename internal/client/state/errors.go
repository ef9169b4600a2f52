package state

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/watchkeeper/internal/validation"
)

// ValidationErrorTTL is how long validation errors stay on display.
const ValidationErrorTTL = 10 * time.Second

type stopper interface {
	Stop() bool
}

var afterFunc = func(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// ErrorDisplay holds the validation errors currently shown to the user and
// clears them after a fixed delay.
type ErrorDisplay struct {
	mu    sync.Mutex
	ttl   time.Duration
	gen   uint64
	timer stopper
	value *Value[[]*validation.Error]
}

func NewErrorDisplay(ttl time.Duration) *ErrorDisplay {
	return &ErrorDisplay{ttl: ttl, value: NewValue[[]*validation.Error](nil)}
}

// Show replaces the displayed errors and restarts the expiry timer.
func (d *ErrorDisplay) Show(errs []*validation.Error) {
	if len(errs) == 0 {
		d.Clear()
		return
	}

	d.mu.Lock()
	d.stopLocked()
	d.gen++
	gen := d.gen
	d.timer = afterFunc(d.ttl, func() { d.expire(gen) })
	d.mu.Unlock()

	d.value.Set(errs)
}

// Clear removes the displayed errors.
func (d *ErrorDisplay) Clear() {
	d.mu.Lock()
	d.stopLocked()
	d.gen++
	d.mu.Unlock()

	if len(d.value.Get()) > 0 {
		d.value.Set(nil)
	}
}

func (d *ErrorDisplay) Current() []*validation.Error {
	return d.value.Get()
}

func (d *ErrorDisplay) Subscribe(fn func([]*validation.Error)) func() {
	return d.value.Subscribe(fn)
}

func (d *ErrorDisplay) expire(gen uint64) {
	d.mu.Lock()
	stale := gen != d.gen
	if !stale {
		d.timer = nil
	}
	d.mu.Unlock()

	if !stale {
		d.value.Set(nil)
	}
}

func (d *ErrorDisplay) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
