// Package cli provides the interactive watch-list command-line client.
//
// It wires configuration, the gRPC store client, the Tracker and a
// line-oriented REPL. Store messages and validation errors reach the user
// through subscriptions on the Tracker's observable state.
//
// Key features:
//   - Login / Logout
//   - List, Add
//   - Select ids, select all, clear, batch delete
//   - Developer mode and client validation toggles
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
