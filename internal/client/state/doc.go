// Package state holds the client-side state of the watch-list tracker: the
// session phase, the selection of loaded records, the validation mode flags
// and the displayed validation errors.
//
// Rendering code observes changes through Value subscriptions. Callbacks run
// synchronously on the goroutine that performed the change, after the
// internal lock has been released.
package state
