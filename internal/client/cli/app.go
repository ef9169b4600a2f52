package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrijs2005/watchkeeper/internal/client/client"
	"github.com/dmitrijs2005/watchkeeper/internal/client/config"
	"github.com/dmitrijs2005/watchkeeper/internal/client/services"
	"github.com/dmitrijs2005/watchkeeper/internal/client/state"
	"github.com/dmitrijs2005/watchkeeper/internal/filex"
	"github.com/dmitrijs2005/watchkeeper/internal/logging"
	"github.com/dmitrijs2005/watchkeeper/internal/validation"
)

type App struct {
	config   *config.Config
	tracker  *services.Tracker
	log      logging.Logger
	reader   *bufio.Reader
	out      io.Writer
	logFile  io.Closer
	userName string
	cancels  []func()
}

func NewApp(c *config.Config) (*App, error) {
	f, err := filex.OpenAppend(c.LogFile)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger := logging.NewTextLogger(f, slog.LevelDebug)

	store, err := client.NewWatchListClient(c.ServerEndpointAddr)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	tracker := services.NewTracker(store, state.NewModes(), logger)

	a := newApp(c, tracker, logger, os.Stdin, os.Stdout)
	a.logFile = f
	return a, nil
}

func newApp(c *config.Config, tracker *services.Tracker, logger logging.Logger, in io.Reader, out io.Writer) *App {
	a := &App{
		config:  c,
		tracker: tracker,
		log:     logger,
		reader:  bufio.NewReader(in),
		out:     out,
	}
	a.cancels = append(a.cancels,
		tracker.OnNotice(a.showNotice),
		tracker.OnValidationErrors(a.showValidationErrors),
	)
	return a
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	fmt.Fprintln(a.out, "Welcome to WatchKeeper CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) close() {
	for _, cancel := range a.cancels {
		cancel()
	}
	if err := a.tracker.Close(); err != nil {
		a.log.Warn(context.Background(), "closing store connection", "error", err)
	}
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.tracker.Phase() == state.Authenticated
}

func (a *App) getStatus() string {
	var parts []string
	if a.isLoggedIn() && a.userName != "" {
		parts = append(parts, a.userName)
	}
	modes := a.tracker.Modes()
	if modes.Developer() {
		parts = append(parts, "dev")
		if !modes.ClientValidation() {
			parts = append(parts, "no-validation")
		}
	}
	if n := len(a.tracker.Selected()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) showNotice(n services.Notice) {
	if n.Text == "" {
		return
	}
	if n.Error {
		fmt.Fprintln(a.out, "Error:", n.Text)
		return
	}
	fmt.Fprintln(a.out, n.Text)
}

func (a *App) showValidationErrors(errs []*validation.Error) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(a.out, "Validation failed:")
	for _, e := range errs {
		fmt.Fprintf(a.out, "  - %s: %s\n", e.Field, e.Message)
	}
}
