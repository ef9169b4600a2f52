// Package services contains the application services of the watch-list CLI.
// This file defines the Tracker: the orchestrator that owns the session, the
// loaded snapshot, the selection, the input form and the validation modes,
// and turns user intents into store calls.
package services

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/dmitrijs2005/watchkeeper/internal/client/client"
	"github.com/dmitrijs2005/watchkeeper/internal/client/state"
	"github.com/dmitrijs2005/watchkeeper/internal/common"
	"github.com/dmitrijs2005/watchkeeper/internal/logging"
	"github.com/dmitrijs2005/watchkeeper/internal/models"
	"github.com/dmitrijs2005/watchkeeper/internal/validation"
)

// TransportFailureMessage is shown when a request never got a reply.
const TransportFailureMessage = "Request failed: could not reach the server"

// Notice is a one-line message for the user.
type Notice struct {
	Text  string
	Error bool
}

// StoreError is a failure reported by the store in its envelope.
type StoreError struct {
	Op      string
	Message string
	Code    models.Code
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Is makes an auth rejection match common.ErrNotAuthenticated.
func (e *StoreError) Is(target error) bool {
	return target == common.ErrNotAuthenticated && e.Code == models.CodeAuthRequired
}

// Tracker drives the watch list. It is meant to be used from a single
// goroutine; a busy flag rejects use cases started while a store call is
// outstanding.
type Tracker struct {
	store client.Store
	log   logging.Logger

	session   *state.Session
	modes     *state.Modes
	selection *state.Selection
	errors    *state.ErrorDisplay

	items  *state.Value[[]models.WatchListItem]
	form   *state.Value[models.Draft]
	notice *state.Value[Notice]

	busy atomic.Bool
}

// NewTracker wires a tracker to its store. Modes are passed in so that the
// caller can share them with the rendering layer.
func NewTracker(store client.Store, modes *state.Modes, log logging.Logger) *Tracker {
	if log == nil {
		log = logging.Nop()
	}
	t := &Tracker{
		store:     store,
		log:       log.With("module", "tracker"),
		session:   state.NewSession(),
		modes:     modes,
		selection: state.NewSelection(),
		errors:    state.NewErrorDisplay(state.ValidationErrorTTL),
		items:     state.NewValue[[]models.WatchListItem](nil),
		form:      state.NewValue(models.DefaultDraft()),
		notice:    state.NewValue(Notice{}),
	}
	modes.OnValidationChange(func(bool) { t.errors.Clear() })
	return t
}

// begin checks the preconditions shared by every store-backed use case.
func (t *Tracker) begin() (func(), error) {
	if t.session.Phase() != state.Authenticated {
		return nil, common.ErrNotAuthenticated
	}
	if !t.busy.CompareAndSwap(false, true) {
		return nil, common.ErrBusy
	}
	return func() { t.busy.Store(false) }, nil
}

// Login authenticates with the given credentials. On success the
// credentials are wiped and the list is loaded once; on failure they are
// kept so the user can correct them.
func (t *Tracker) Login(ctx context.Context, username string, password []byte) error {
	if !t.busy.CompareAndSwap(false, true) {
		return common.ErrBusy
	}
	defer t.busy.Store(false)

	if t.session.Phase() != state.Unauthenticated {
		return state.ErrInvalidTransition
	}

	t.session.SetCredentials(username, password)
	creds, err := t.session.Begin()
	if err != nil {
		t.inform("Username and password are required", true)
		return err
	}

	env, err := t.store.Authenticate(ctx, creds)
	if err != nil {
		_ = t.session.Fail()
		t.transportFailure(ctx, "authenticate", err)
		return fmt.Errorf("authenticate: %w", err)
	}

	if !env.Success {
		_ = t.session.Fail()
		t.inform(env.Message, true)
		t.log.Info(ctx, "login rejected", "username", creds.Username)
		return &StoreError{Op: "authenticate", Message: env.Message, Code: env.Code}
	}

	if err := t.session.Succeed(); err != nil {
		return err
	}
	t.inform(env.Message, false)
	t.log.Info(ctx, "logged in", "username", creds.Username)

	return t.reload(ctx)
}

// Logout ends the session locally whatever the store answers.
func (t *Tracker) Logout(ctx context.Context) error {
	done, err := t.begin()
	if err != nil {
		return err
	}
	defer done()

	env, err := t.store.Logout(ctx)
	t.endSession()

	if err != nil {
		t.log.Warn(ctx, "logout request failed", "error", err)
		t.inform("Logged out", false)
		return nil
	}
	t.inform(env.Message, false)
	return nil
}

// Reload replaces the snapshot with the store's current list.
func (t *Tracker) Reload(ctx context.Context) error {
	done, err := t.begin()
	if err != nil {
		return err
	}
	defer done()

	return t.reload(ctx)
}

func (t *Tracker) reload(ctx context.Context) error {
	env, err := t.store.ListItems(ctx)
	if err != nil {
		t.transportFailure(ctx, "list items", err)
		return fmt.Errorf("list items: %w", err)
	}
	if !env.Success {
		return t.storeFailure(ctx, "list items", env)
	}

	ids := make([]int64, 0, len(env.Items))
	for _, it := range env.Items {
		if id, ok := it.ID.Value(); ok {
			ids = append(ids, id)
		}
	}
	t.selection.Reset(ids)
	t.items.Set(env.Items)
	t.log.Debug(ctx, "list reloaded", "count", len(env.Items))
	return nil
}

// Add submits the form. With client validation on the draft is checked and
// sanitized first and nothing is sent when it is invalid; with validation
// off it is sent exactly as typed.
func (t *Tracker) Add(ctx context.Context) error {
	done, err := t.begin()
	if err != nil {
		return err
	}
	defer done()

	draft := t.form.Get()

	if t.modes.ClientValidation() {
		if errs := validation.ValidateItem(draft); len(errs) > 0 {
			t.errors.Show(errs)
			return fmt.Errorf("%w: %s", common.ErrValidationFailed, validation.Join(errs))
		}
		draft.Name = validation.Sanitize(draft.Name)
		if draft.Name == "" {
			errs := []*validation.Error{{Field: "name", Kind: validation.KindEmptyName, Message: "Name cannot be empty"}}
			t.errors.Show(errs)
			return fmt.Errorf("%w: %s", common.ErrValidationFailed, validation.Join(errs))
		}
		t.errors.Clear()
		draft.Rating = validation.ClampRating(draft.Rating)
	}

	env, err := t.store.InsertItem(ctx, draft)
	if err != nil {
		t.transportFailure(ctx, "insert item", err)
		return fmt.Errorf("insert item: %w", err)
	}
	if !env.Success {
		return t.storeFailure(ctx, "insert item", env)
	}

	t.form.Set(models.DefaultDraft())
	t.inform(env.Message, false)
	return t.reload(ctx)
}

// DeleteSelected removes every selected record in one store call.
func (t *Tracker) DeleteSelected(ctx context.Context) error {
	done, err := t.begin()
	if err != nil {
		return err
	}
	defer done()

	ids := t.selection.IDs()
	if len(ids) == 0 {
		t.inform("No items selected", true)
		return common.ErrEmptySelection
	}

	if t.modes.ClientValidation() {
		if verr := validation.ValidateIDs(ids); verr != nil {
			t.errors.Show([]*validation.Error{verr})
			return fmt.Errorf("%w: %s", common.ErrValidationFailed, verr.Message)
		}
		t.errors.Clear()
	}

	env, err := t.store.DeleteItems(ctx, ids)
	if err != nil {
		t.transportFailure(ctx, "delete items", err)
		return fmt.Errorf("delete items: %w", err)
	}
	if !env.Success {
		return t.storeFailure(ctx, "delete items", env)
	}

	t.selection.Clear()
	t.inform(env.Message, false)
	return t.reload(ctx)
}

func (t *Tracker) storeFailure(ctx context.Context, op string, env *models.Envelope) error {
	serr := &StoreError{Op: op, Message: env.Message, Code: env.Code}
	if env.AuthRequired() {
		serr.Code = models.CodeAuthRequired
		t.endSession()
		t.log.Info(ctx, "session expired", "op", op)
	} else {
		t.log.Warn(ctx, "store rejected request", "op", op, "message", env.Message)
	}
	t.inform(env.Message, true)
	return serr
}

func (t *Tracker) transportFailure(ctx context.Context, op string, err error) {
	t.log.Error(ctx, "request failed", "op", op, "error", err)
	t.inform(TransportFailureMessage, true)
}

// endSession leaves Authenticated and drops everything loaded under it.
func (t *Tracker) endSession() {
	t.session.Expire()
	t.selection.Reset(nil)
	t.items.Set(nil)
}

func (t *Tracker) inform(text string, isErr bool) {
	t.notice.Set(Notice{Text: text, Error: isErr})
}

// Selection

func (t *Tracker) Toggle(id int64) bool {
	return t.selection.Toggle(id)
}

func (t *Tracker) SelectAll() {
	t.selection.SelectAll()
}

func (t *Tracker) ClearSelection() {
	t.selection.Clear()
}

func (t *Tracker) Selected() []int64 {
	return t.selection.IDs()
}

// Modes

func (t *Tracker) SetDeveloperMode(on bool) {
	t.modes.SetDeveloperMode(on)
}

func (t *Tracker) SetClientValidation(on bool) error {
	return t.modes.SetClientValidation(on)
}

func (t *Tracker) Modes() *state.Modes {
	return t.modes
}

// Form

func (t *Tracker) Form() models.Draft {
	return t.form.Get()
}

func (t *Tracker) ResetForm() {
	t.form.Set(models.DefaultDraft())
}

func (t *Tracker) SetMediaType(m models.MediaType) error {
	if verr := validation.ValidateMediaType(m); verr != nil {
		return fmt.Errorf("%w: %s", models.ErrInvalidMediaType, m)
	}
	d := t.form.Get()
	d.MediaType = m
	t.form.Set(d)
	return nil
}

func (t *Tracker) SetName(name string) {
	d := t.form.Get()
	d.Name = name
	t.form.Set(d)
}

// SetRating stores the typed rating, clamped into range when client
// validation is on.
func (t *Tracker) SetRating(v float64) {
	if t.modes.ClientValidation() {
		v = validation.ClampRating(v)
	}
	d := t.form.Get()
	d.Rating = v
	t.form.Set(d)
}

func (t *Tracker) SetWouldWatchAgain(b bool) {
	d := t.form.Get()
	d.WouldWatchAgain = b
	t.form.Set(d)
}

// Observation

func (t *Tracker) Phase() state.Phase {
	return t.session.Phase()
}

func (t *Tracker) Items() []models.WatchListItem {
	return t.items.Get()
}

func (t *Tracker) Notice() Notice {
	return t.notice.Get()
}

func (t *Tracker) ValidationErrors() []*validation.Error {
	return t.errors.Current()
}

func (t *Tracker) Busy() bool {
	return t.busy.Load()
}

func (t *Tracker) OnPhaseChange(fn func(state.Phase)) func() {
	return t.session.Subscribe(fn)
}

func (t *Tracker) OnItemsChange(fn func([]models.WatchListItem)) func() {
	return t.items.Subscribe(fn)
}

func (t *Tracker) OnNotice(fn func(Notice)) func() {
	return t.notice.Subscribe(fn)
}

func (t *Tracker) OnValidationErrors(fn func([]*validation.Error)) func() {
	return t.errors.Subscribe(fn)
}

// Close releases the store connection.
func (t *Tracker) Close() error {
	return t.store.Close()
}
