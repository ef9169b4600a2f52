package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/watchkeeper/internal/common"
	"github.com/dmitrijs2005/watchkeeper/internal/models"
	"github.com/dmitrijs2005/watchkeeper/internal/validation"
)

// List reloads the watch list and prints it.
func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.tracker.Reload(ctx); err != nil {
		a.report(err)
		return err
	}
	a.printItems()
	return nil
}

func (a *App) printItems() {
	items := a.tracker.Items()
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Your watch list is empty")
		return
	}

	selected := make(map[int64]bool)
	for _, id := range a.tracker.Selected() {
		selected[id] = true
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tTYPE\tNAME\tRATING\tAGAIN")
	for _, it := range items {
		mark := " "
		if id, ok := it.ID.Value(); ok && selected[id] {
			mark = "*"
		}
		again := "no"
		if it.WouldWatchAgain {
			again = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\n",
			mark, it.ID, it.MediaType, validation.Unescape(it.Name), it.Rating, again)
	}
	_ = tw.Flush()
}

// Add prompts for a record and submits it. Empty answers keep the form
// defaults.
func (a *App) Add(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.report(common.ErrNotAuthenticated)
		return common.ErrNotAuthenticated
	}

	form := a.tracker.Form()

	mt, err := getSimpleText(a.reader, fmt.Sprintf("Media type [movie|tv] (default %s)", form.MediaType), a.out)
	if err != nil {
		return err
	}
	if mt != "" {
		m, err := models.ParseMediaType(mt)
		if err != nil {
			fmt.Fprintln(a.out, "Media type must be 'movie' or 'tv'")
			return err
		}
		if err := a.tracker.SetMediaType(m); err != nil {
			return err
		}
	}

	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	a.tracker.SetName(name)

	rating, err := GetNumber(a.reader, fmt.Sprintf("Rating 1-10 (default %g)", form.Rating), form.Rating, a.out)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	a.tracker.SetRating(rating)

	again, err := GetYesNo(a.reader, "Would watch again? [y/N]", form.WouldWatchAgain, a.out)
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	a.tracker.SetWouldWatchAgain(again)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.tracker.Add(ctx); err != nil {
		a.report(err)
		return err
	}
	a.printItems()
	return nil
}

// Select toggles every given id. Ids that are not in the loaded list are
// ignored.
func (a *App) Select(args []string) error {
	for _, arg := range args {
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Fprintf(a.out, "Invalid id: %s\n", arg)
			continue
		}
		a.tracker.Toggle(id)
	}
	a.printSelection()
	return nil
}

func (a *App) SelectAll() error {
	a.tracker.SelectAll()
	a.printSelection()
	return nil
}

func (a *App) ClearSelection() error {
	a.tracker.ClearSelection()
	a.printSelection()
	return nil
}

func (a *App) printSelection() {
	ids := a.tracker.Selected()
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "Nothing selected")
		return
	}
	strs := make([]string, 0, len(ids))
	for _, id := range ids {
		strs = append(strs, strconv.FormatInt(id, 10))
	}
	fmt.Fprintf(a.out, "Selected: %s\n", strings.Join(strs, ", "))
}

// Delete asks for confirmation and deletes the selection.
func (a *App) Delete(ctx context.Context) error {
	n := len(a.tracker.Selected())
	if n > 0 {
		ok, err := GetYesNo(a.reader, fmt.Sprintf("Delete %d item(s)? [y/N]", n), false, a.out)
		if err != nil {
			fmt.Fprintln(a.out, err)
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled")
			return nil
		}
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.tracker.DeleteSelected(ctx); err != nil {
		a.report(err)
		return err
	}
	a.printItems()
	return nil
}
