package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/watchkeeper/internal/client/state"
	"github.com/dmitrijs2005/watchkeeper/internal/common"
	"github.com/dmitrijs2005/watchkeeper/internal/models"
	"github.com/dmitrijs2005/watchkeeper/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*************
 * Fake store
 *************/

type fakeStore struct {
	items []models.WatchListItem

	authEnv *models.Envelope
	authErr error

	listEnv *models.Envelope
	listErr error

	insertEnv *models.Envelope
	insertErr error

	deleteEnv *models.Envelope
	deleteErr error

	logoutErr error

	onInsert func()

	calls      map[string]int
	lastUser   string
	lastPass   string
	lastDraft  models.Draft
	lastIDs    []int64
	closeCalls int
}

func newFakeStore(items []models.WatchListItem) *fakeStore {
	return &fakeStore{
		items:   items,
		authEnv: &models.Envelope{Success: true, Message: "Authentication successful"},
		calls:   make(map[string]int),
	}
}

func (f *fakeStore) Authenticate(_ context.Context, creds models.Credentials) (*models.Envelope, error) {
	f.calls["auth"]++
	f.lastUser = creds.Username
	f.lastPass = string(creds.Password)
	return f.authEnv, f.authErr
}

func (f *fakeStore) Logout(context.Context) (*models.Envelope, error) {
	f.calls["logout"]++
	if f.logoutErr != nil {
		return nil, f.logoutErr
	}
	return &models.Envelope{Success: true, Message: "Logged out successfully"}, nil
}

func (f *fakeStore) ListItems(context.Context) (*models.Envelope, error) {
	f.calls["list"]++
	if f.listErr != nil || f.listEnv != nil {
		return f.listEnv, f.listErr
	}
	return &models.Envelope{Success: true, Items: f.items, RowsAffected: int64(len(f.items))}, nil
}

func (f *fakeStore) InsertItem(_ context.Context, d models.Draft) (*models.Envelope, error) {
	f.calls["insert"]++
	f.lastDraft = d
	if f.onInsert != nil {
		f.onInsert()
	}
	if f.insertEnv != nil || f.insertErr != nil {
		return f.insertEnv, f.insertErr
	}
	return &models.Envelope{Success: true, Message: "Item added to watch list successfully", RowsAffected: 1}, nil
}

func (f *fakeStore) DeleteItems(_ context.Context, ids []int64) (*models.Envelope, error) {
	f.calls["delete"]++
	f.lastIDs = ids
	if f.deleteEnv != nil || f.deleteErr != nil {
		return f.deleteEnv, f.deleteErr
	}
	return &models.Envelope{Success: true, Message: fmt.Sprintf("Successfully deleted %d item(s)", len(ids)), RowsAffected: int64(len(ids))}, nil
}

func (f *fakeStore) Close() error {
	f.closeCalls++
	return nil
}

func makeItems(n int) []models.WatchListItem {
	items := make([]models.WatchListItem, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, models.WatchListItem{
			ID:        models.Assigned(int64(i)),
			MediaType: models.MediaTypeMovie,
			Name:      fmt.Sprintf("Movie %d", i),
			Rating:    5,
		})
	}
	return items
}

func loggedIn(t *testing.T, store *fakeStore) *Tracker {
	t.Helper()
	tr := NewTracker(store, state.NewModes(), nil)
	require.NoError(t, tr.Login(context.Background(), "alice", []byte("pw")))
	require.Equal(t, state.Authenticated, tr.Phase())
	return tr
}

var authExpired = &models.Envelope{Success: false, Message: common.AuthRequiredMessage, Code: models.CodeAuthRequired}

/*************
 * Login / Logout
 *************/

func TestLogin_EmptyCredentialsRefusedLocally(t *testing.T) {
	store := newFakeStore(nil)
	tr := NewTracker(store, state.NewModes(), nil)

	err := tr.Login(context.Background(), "  ", []byte("pw"))
	require.ErrorIs(t, err, common.ErrEmptyCredentials)
	assert.Equal(t, state.Unauthenticated, tr.Phase())
	assert.Zero(t, store.calls["auth"])
	assert.True(t, tr.Notice().Error)
}

func TestLogin_SuccessWipesCredentialsAndReloadsOnce(t *testing.T) {
	store := newFakeStore(makeItems(3))
	tr := NewTracker(store, state.NewModes(), nil)

	var phases []state.Phase
	tr.OnPhaseChange(func(p state.Phase) { phases = append(phases, p) })

	pw := []byte("secret")
	require.NoError(t, tr.Login(context.Background(), "alice", pw))

	assert.Equal(t, state.Authenticated, tr.Phase())
	assert.Equal(t, []state.Phase{state.Authenticating, state.Authenticated}, phases)
	assert.Equal(t, "alice", store.lastUser)
	assert.Equal(t, "secret", store.lastPass)
	assert.Equal(t, make([]byte, len(pw)), pw, "password must be zeroed")
	assert.Equal(t, 1, store.calls["list"])
	assert.Len(t, tr.Items(), 3)
	assert.Equal(t, "Authentication successful", tr.Notice().Text)
}

func TestLogin_RejectedKeepsCredentials(t *testing.T) {
	store := newFakeStore(nil)
	store.authEnv = &models.Envelope{Success: false, Message: "Authentication failed: Invalid username or password"}
	tr := NewTracker(store, state.NewModes(), nil)

	err := tr.Login(context.Background(), "alice", []byte("wrong"))

	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "Authentication failed: Invalid username or password", serr.Message)
	assert.Equal(t, state.Unauthenticated, tr.Phase())
	assert.Equal(t, "Authentication failed: Invalid username or password", tr.Notice().Text)
	assert.Zero(t, store.calls["list"])

	store.authEnv = &models.Envelope{Success: true, Message: "Authentication successful"}
	require.NoError(t, tr.Login(context.Background(), "alice", []byte("right")))
	assert.Equal(t, state.Authenticated, tr.Phase())
}

func TestLogin_TransportFailure(t *testing.T) {
	store := newFakeStore(nil)
	store.authErr = errors.New("connection refused")
	tr := NewTracker(store, state.NewModes(), nil)

	err := tr.Login(context.Background(), "alice", []byte("pw"))
	require.ErrorIs(t, err, store.authErr)
	assert.Equal(t, state.Unauthenticated, tr.Phase())
	assert.Equal(t, Notice{Text: TransportFailureMessage, Error: true}, tr.Notice())
	assert.False(t, tr.Busy())
}

func TestLogin_WhileAuthenticated(t *testing.T) {
	tr := loggedIn(t, newFakeStore(nil))
	require.ErrorIs(t, tr.Login(context.Background(), "alice", []byte("pw")), state.ErrInvalidTransition)
}

func TestLogout_ClearsSnapshotAndSelection(t *testing.T) {
	store := newFakeStore(makeItems(2))
	tr := loggedIn(t, store)
	tr.SelectAll()

	require.NoError(t, tr.Logout(context.Background()))
	assert.Equal(t, state.Unauthenticated, tr.Phase())
	assert.Empty(t, tr.Items())
	assert.Empty(t, tr.Selected())
	assert.Equal(t, 1, store.calls["logout"])
}

func TestLogout_StoreErrorStillLogsOut(t *testing.T) {
	store := newFakeStore(nil)
	tr := loggedIn(t, store)
	store.logoutErr = errors.New("down")

	require.NoError(t, tr.Logout(context.Background()))
	assert.Equal(t, state.Unauthenticated, tr.Phase())
}

/*************
 * Preconditions
 *************/

func TestUseCases_RequireAuthentication(t *testing.T) {
	store := newFakeStore(makeItems(1))
	tr := NewTracker(store, state.NewModes(), nil)
	ctx := context.Background()

	require.ErrorIs(t, tr.Reload(ctx), common.ErrNotAuthenticated)
	require.ErrorIs(t, tr.Add(ctx), common.ErrNotAuthenticated)
	require.ErrorIs(t, tr.DeleteSelected(ctx), common.ErrNotAuthenticated)
	require.ErrorIs(t, tr.Logout(ctx), common.ErrNotAuthenticated)
	assert.Empty(t, store.calls)
}

func TestUseCases_BusyRejectsReentry(t *testing.T) {
	store := newFakeStore(nil)
	tr := loggedIn(t, store)
	tr.SetName("Heat")

	var inner error
	store.onInsert = func() {
		assert.True(t, tr.Busy())
		inner = tr.Reload(context.Background())
	}

	require.NoError(t, tr.Add(context.Background()))
	require.ErrorIs(t, inner, common.ErrBusy)
	assert.False(t, tr.Busy())
}

/*************
 * Reload
 *************/

func TestReload_PrunesSelection(t *testing.T) {
	store := newFakeStore(makeItems(3))
	tr := loggedIn(t, store)
	tr.SelectAll()

	store.items = makeItems(2)
	require.NoError(t, tr.Reload(context.Background()))
	assert.Equal(t, []int64{1, 2}, tr.Selected())
}

func TestReload_AuthExpiry(t *testing.T) {
	store := newFakeStore(makeItems(2))
	tr := loggedIn(t, store)
	tr.Toggle(1)

	store.listEnv = &models.Envelope{Success: false, Message: "Authentication required. Please login first."}
	err := tr.Reload(context.Background())

	require.ErrorIs(t, err, common.ErrNotAuthenticated)
	assert.Equal(t, state.Unauthenticated, tr.Phase())
	assert.Empty(t, tr.Items())
	assert.Empty(t, tr.Selected())
	assert.Equal(t, common.AuthRequiredMessage, tr.Notice().Text)
}

func TestReload_OtherFailureKeepsSession(t *testing.T) {
	store := newFakeStore(makeItems(2))
	tr := loggedIn(t, store)

	store.listEnv = &models.Envelope{Success: false, Message: "Failed to retrieve watch list items from database"}
	err := tr.Reload(context.Background())

	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.NotErrorIs(t, err, common.ErrNotAuthenticated)
	assert.Equal(t, state.Authenticated, tr.Phase())
	assert.Len(t, tr.Items(), 2)
}

/*************
 * Add
 *************/

func TestAdd_InvalidDraftBlockedLocally(t *testing.T) {
	store := newFakeStore(nil)
	tr := loggedIn(t, store)
	tr.SetName("   ")

	err := tr.Add(context.Background())
	require.ErrorIs(t, err, common.ErrValidationFailed)
	assert.Zero(t, store.calls["insert"])

	errs := tr.ValidationErrors()
	require.Len(t, errs, 1)
	assert.Equal(t, validation.KindEmptyName, errs[0].Kind)
}

func TestAdd_NamesOutsideKeptAlphabetBlocked(t *testing.T) {
	for _, name := range []string{"映画", "٣٣", "Ωmega"} {
		t.Run(name, func(t *testing.T) {
			store := newFakeStore(nil)
			tr := loggedIn(t, store)
			tr.SetName(name)

			err := tr.Add(context.Background())
			require.ErrorIs(t, err, common.ErrValidationFailed)
			assert.Zero(t, store.calls["insert"])

			errs := tr.ValidationErrors()
			require.Len(t, errs, 1)
			assert.Equal(t, validation.KindInvalidCharacters, errs[0].Kind)
		})
	}
}

func TestAdd_SanitizesAndResetsForm(t *testing.T) {
	store := newFakeStore(nil)
	tr := loggedIn(t, store)

	require.NoError(t, tr.SetMediaType(models.MediaTypeTV))
	tr.SetName("  Tom & Jerry  ")
	tr.SetRating(8)
	tr.SetWouldWatchAgain(true)

	require.NoError(t, tr.Add(context.Background()))

	assert.Equal(t, models.Draft{MediaType: models.MediaTypeTV, Name: "Tom &amp; Jerry", Rating: 8, WouldWatchAgain: true}, store.lastDraft)
	assert.Equal(t, models.DefaultDraft(), tr.Form())
	assert.Equal(t, 2, store.calls["list"], "login reload plus post-insert reload")
	assert.Equal(t, "Item added to watch list successfully", tr.Notice().Text)
}

func TestAdd_ApostropheAccepted(t *testing.T) {
	store := newFakeStore(nil)
	tr := loggedIn(t, store)
	tr.SetName("Schindler's List")

	require.NoError(t, tr.Add(context.Background()))
	assert.Equal(t, "Schindler&#x27;s List", store.lastDraft.Name)
}

func TestAdd_ValidationOffSendsVerbatim(t *testing.T) {
	store := newFakeStore(nil)
	tr := loggedIn(t, store)
	tr.SetDeveloperMode(true)
	require.NoError(t, tr.SetClientValidation(false))

	tr.SetName("<script>")
	tr.SetRating(11.5)
	store.insertEnv = &models.Envelope{Success: false, Message: "Rating value 11.5 is invalid. Must be between 1 and 10", Code: models.CodeValidation}

	err := tr.Add(context.Background())

	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "<script>", store.lastDraft.Name)
	assert.Equal(t, 11.5, store.lastDraft.Rating)
	assert.Equal(t, "Rating value 11.5 is invalid. Must be between 1 and 10", tr.Notice().Text)
	assert.Equal(t, "<script>", tr.Form().Name, "form kept after failure")
	assert.Equal(t, state.Authenticated, tr.Phase())
}

func TestAdd_DuplicateSurfaced(t *testing.T) {
	store := newFakeStore(nil)
	tr := loggedIn(t, store)
	tr.SetName("Heat")
	store.insertEnv = &models.Envelope{Success: false, Message: "A movie with the name 'Heat' already exists in your watch list", Code: models.CodeDuplicate}

	err := tr.Add(context.Background())

	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, models.CodeDuplicate, serr.Code)
	assert.Equal(t, "A movie with the name 'Heat' already exists in your watch list", tr.Notice().Text)
	assert.Equal(t, 1, store.calls["list"])
}

func TestAdd_AuthExpiry(t *testing.T) {
	store := newFakeStore(makeItems(1))
	tr := loggedIn(t, store)
	tr.SetName("Heat")
	store.insertEnv = authExpired

	require.ErrorIs(t, tr.Add(context.Background()), common.ErrNotAuthenticated)
	assert.Equal(t, state.Unauthenticated, tr.Phase())
	assert.Empty(t, tr.Items())
}

func TestAdd_TransportFailure(t *testing.T) {
	store := newFakeStore(nil)
	tr := loggedIn(t, store)
	tr.SetName("Heat")
	store.insertErr = errors.New("eof")

	require.ErrorIs(t, tr.Add(context.Background()), store.insertErr)
	assert.Equal(t, TransportFailureMessage, tr.Notice().Text)
	assert.Equal(t, state.Authenticated, tr.Phase())
	assert.False(t, tr.Busy())
}

/*************
 * Delete
 *************/

func TestDelete_EmptySelectionRefused(t *testing.T) {
	store := newFakeStore(makeItems(2))
	tr := loggedIn(t, store)

	require.ErrorIs(t, tr.DeleteSelected(context.Background()), common.ErrEmptySelection)
	assert.Zero(t, store.calls["delete"])
}

func TestDelete_SuccessClearsSelectionAndReloads(t *testing.T) {
	store := newFakeStore(makeItems(3))
	tr := loggedIn(t, store)
	tr.Toggle(3)
	tr.Toggle(1)

	require.NoError(t, tr.DeleteSelected(context.Background()))
	assert.Equal(t, []int64{1, 3}, store.lastIDs)
	assert.Empty(t, tr.Selected())
	assert.Equal(t, 2, store.calls["list"])
	assert.Equal(t, "Successfully deleted 2 item(s)", tr.Notice().Text)
}

func TestDelete_TooManyIDsWithValidationOn(t *testing.T) {
	store := newFakeStore(makeItems(101))
	tr := loggedIn(t, store)
	tr.SelectAll()

	err := tr.DeleteSelected(context.Background())
	require.ErrorIs(t, err, common.ErrValidationFailed)
	assert.Zero(t, store.calls["delete"])
	require.Len(t, tr.ValidationErrors(), 1)
	assert.Equal(t, validation.KindTooManyIDs, tr.ValidationErrors()[0].Kind)
	assert.Len(t, tr.Selected(), 101, "selection kept")
}

func TestDelete_TooManyIDsWithValidationOff(t *testing.T) {
	store := newFakeStore(makeItems(101))
	tr := loggedIn(t, store)
	tr.SetDeveloperMode(true)
	require.NoError(t, tr.SetClientValidation(false))
	tr.SelectAll()

	store.deleteEnv = &models.Envelope{Success: false, Message: "ID list cannot exceed 100 items", Code: models.CodeValidation}
	err := tr.DeleteSelected(context.Background())

	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Len(t, store.lastIDs, 101)
	assert.Equal(t, "ID list cannot exceed 100 items", tr.Notice().Text)
}

func TestDelete_AuthExpiry(t *testing.T) {
	store := newFakeStore(makeItems(2))
	tr := loggedIn(t, store)
	tr.Toggle(2)
	store.deleteEnv = authExpired

	require.ErrorIs(t, tr.DeleteSelected(context.Background()), common.ErrNotAuthenticated)
	assert.Equal(t, state.Unauthenticated, tr.Phase())
	assert.Empty(t, tr.Selected())
}

/*************
 * Modes and form
 *************/

func TestModes_ToggleClearsValidationErrors(t *testing.T) {
	store := newFakeStore(nil)
	tr := loggedIn(t, store)

	require.Error(t, tr.Add(context.Background()))
	require.NotEmpty(t, tr.ValidationErrors())

	require.ErrorIs(t, tr.SetClientValidation(false), common.ErrDeveloperModeRequired)
	require.NotEmpty(t, tr.ValidationErrors(), "refused toggle changes nothing")

	tr.SetDeveloperMode(true)
	require.NoError(t, tr.SetClientValidation(false))
	assert.Empty(t, tr.ValidationErrors())
}

func TestModes_LeavingDeveloperModeRestoresValidation(t *testing.T) {
	tr := NewTracker(newFakeStore(nil), state.NewModes(), nil)
	tr.SetDeveloperMode(true)
	require.NoError(t, tr.SetClientValidation(false))

	tr.SetDeveloperMode(false)
	assert.True(t, tr.Modes().ClientValidation())
}

func TestForm_RatingClampedOnlyWithValidation(t *testing.T) {
	tr := NewTracker(newFakeStore(nil), state.NewModes(), nil)

	tr.SetRating(42)
	assert.Equal(t, 10.0, tr.Form().Rating)
	tr.SetRating(-1)
	assert.Equal(t, 1.0, tr.Form().Rating)

	tr.SetDeveloperMode(true)
	require.NoError(t, tr.SetClientValidation(false))
	tr.SetRating(42)
	assert.Equal(t, 42.0, tr.Form().Rating)
}

func TestForm_DefaultsAndReset(t *testing.T) {
	tr := NewTracker(newFakeStore(nil), state.NewModes(), nil)
	assert.Equal(t, models.Draft{MediaType: models.MediaTypeMovie, Rating: 5}, tr.Form())

	tr.SetName("Heat")
	require.ErrorIs(t, tr.SetMediaType("anime"), models.ErrInvalidMediaType)
	tr.ResetForm()
	assert.Equal(t, models.DefaultDraft(), tr.Form())
}

func TestNotice_Subscription(t *testing.T) {
	store := newFakeStore(nil)
	tr := NewTracker(store, state.NewModes(), nil)

	var got []Notice
	tr.OnNotice(func(n Notice) { got = append(got, n) })

	require.NoError(t, tr.Login(context.Background(), "alice", []byte("pw")))
	require.NotEmpty(t, got)
	assert.Equal(t, "Authentication successful", got[0].Text)
}

func TestClose(t *testing.T) {
	store := newFakeStore(nil)
	tr := NewTracker(store, state.NewModes(), nil)
	require.NoError(t, tr.Close())
	assert.Equal(t, 1, store.closeCalls)
}
