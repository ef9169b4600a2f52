package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/watchkeeper/internal/client/services"
	"github.com/dmitrijs2005/watchkeeper/internal/client/state"
	"github.com/dmitrijs2005/watchkeeper/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and authenticates. The password slice is
// handed over to the tracker, which wipes it once the login succeeds and
// keeps it for another attempt otherwise.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		fmt.Fprintln(a.out, "Already logged in as", a.userName)
		return state.ErrInvalidTransition
	}

	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.tracker.Login(ctx, userName, password); err != nil {
		a.report(err)
		return err
	}

	a.userName = userName
	a.printItems()
	return nil
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.tracker.Logout(ctx); err != nil {
		a.report(err)
		return err
	}
	a.userName = ""
	return nil
}

// report prints errors that the tracker did not already announce through
// a notice or the validation error display.
func (a *App) report(err error) {
	var serr *services.StoreError
	switch {
	case errors.As(err, &serr):
	case errors.Is(err, common.ErrValidationFailed):
	case errors.Is(err, common.ErrEmptyCredentials):
	case errors.Is(err, common.ErrEmptySelection):
	case errors.Is(err, common.ErrNotAuthenticated):
		fmt.Fprintln(a.out, "Please login first")
	case errors.Is(err, common.ErrBusy):
		fmt.Fprintln(a.out, "Another request is still in progress")
	case errors.Is(err, common.ErrDeveloperModeRequired):
		fmt.Fprintln(a.out, "Client validation can only be changed in developer mode")
	default:
		a.log.Debug(context.Background(), "command failed", "error", err)
	}
}
