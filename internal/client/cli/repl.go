package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Select(ids []string) error
	SelectAll() error
	ClearSelection() error
	Delete(ctx context.Context) error
	ToggleDeveloperMode() error
	ToggleValidation() error
	Status() error
}

// runREPL reads commands line by line and dispatches them to a. The loop
// exits on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help           show available commands
//	  - login          authenticate
//	  - dev            toggle developer mode
//	  - validation     toggle client validation (developer mode only)
//	  - status         show session and mode flags
//	  - exit | quit    leave the program
//
//	Logged in, additionally:
//	  - list | l       reload and print the watch list
//	  - add            add a movie or TV show
//	  - select <id>... toggle ids in the selection
//	  - selectall      select everything, or clear when all are selected
//	  - clear          clear the selection
//	  - delete         delete the selected records
//	  - logout         log out
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("wk %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, add, select <id>..., selectall, clear, delete, dev, validation, status, logout, exit")
			} else {
				printlnFn("Available commands: login, dev, validation, status, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "add":
			_ = a.Add(ctx)

		case "select":
			if len(args) == 0 {
				printlnFn("Usage: select <id> [<id>...]")
				continue
			}
			_ = a.Select(args)

		case "selectall":
			_ = a.SelectAll()

		case "clear":
			_ = a.ClearSelection()

		case "delete":
			_ = a.Delete(ctx)

		case "dev":
			_ = a.ToggleDeveloperMode()

		case "validation":
			_ = a.ToggleValidation()

		case "status":
			_ = a.Status()

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
