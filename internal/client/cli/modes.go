package cli

import (
	"fmt"

	"github.com/dmitrijs2005/watchkeeper/internal/client/state"
)

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func (a *App) ToggleDeveloperMode() error {
	modes := a.tracker.Modes()
	a.tracker.SetDeveloperMode(!modes.Developer())
	fmt.Fprintf(a.out, "Developer mode %s, client validation %s\n", onOff(modes.Developer()), onOff(modes.ClientValidation()))
	return nil
}

func (a *App) ToggleValidation() error {
	modes := a.tracker.Modes()
	if err := a.tracker.SetClientValidation(!modes.ClientValidation()); err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintf(a.out, "Client validation %s\n", onOff(modes.ClientValidation()))
	return nil
}

func (a *App) Status() error {
	modes := a.tracker.Modes()
	phase := a.tracker.Phase()

	user := ""
	if phase == state.Authenticated {
		user = " as " + a.userName
	}
	fmt.Fprintf(a.out, "Session: %s%s\n", phase, user)
	fmt.Fprintf(a.out, "Developer mode: %s\n", onOff(modes.Developer()))
	fmt.Fprintf(a.out, "Client validation: %s\n", onOff(modes.ClientValidation()))
	fmt.Fprintf(a.out, "Items loaded: %d, selected: %d\n", len(a.tracker.Items()), len(a.tracker.Selected()))
	return nil
}
