package state

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/watchkeeper/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.stopped = true
	return true
}

func withFakeTimers(t *testing.T) *[]*fakeTimer {
	t.Helper()
	var timers []*fakeTimer
	prev := afterFunc
	afterFunc = func(d time.Duration, f func()) stopper {
		ft := &fakeTimer{d: d, f: f}
		timers = append(timers, ft)
		return ft
	}
	t.Cleanup(func() { afterFunc = prev })
	return &timers
}

func sampleErrors() []*validation.Error {
	return []*validation.Error{validation.ValidateName("")}
}

func TestErrorDisplay_ExpiresAfterTTL(t *testing.T) {
	timers := withFakeTimers(t)
	d := NewErrorDisplay(ValidationErrorTTL)

	d.Show(sampleErrors())
	require.Len(t, *timers, 1)
	assert.Equal(t, 10*time.Second, (*timers)[0].d)
	assert.Len(t, d.Current(), 1)

	(*timers)[0].f()
	assert.Empty(t, d.Current())
}

func TestErrorDisplay_StaleTimerIgnored(t *testing.T) {
	timers := withFakeTimers(t)
	d := NewErrorDisplay(ValidationErrorTTL)

	d.Show(sampleErrors())
	d.Show(sampleErrors())
	require.Len(t, *timers, 2)
	assert.True(t, (*timers)[0].stopped)

	(*timers)[0].f()
	assert.Len(t, d.Current(), 1, "first timer was superseded")

	(*timers)[1].f()
	assert.Empty(t, d.Current())
}

func TestErrorDisplay_ClearStopsTimer(t *testing.T) {
	timers := withFakeTimers(t)
	d := NewErrorDisplay(ValidationErrorTTL)

	var updates int
	d.Subscribe(func([]*validation.Error) { updates++ })

	d.Show(sampleErrors())
	d.Clear()
	d.Clear()

	assert.Empty(t, d.Current())
	assert.True(t, (*timers)[0].stopped)
	assert.Equal(t, 2, updates)

	(*timers)[0].f()
	assert.Equal(t, 2, updates)
}

func TestErrorDisplay_ShowEmptyClears(t *testing.T) {
	withFakeTimers(t)
	d := NewErrorDisplay(ValidationErrorTTL)
	d.Show(sampleErrors())
	d.Show(nil)
	assert.Empty(t, d.Current())
}
