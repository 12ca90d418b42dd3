// Package cli provides the interactive NoteKeeper command-line client.
//
// It wires configuration, the REST API client, the auth service and an
// interactive REPL. On start it restores the session saved by an earlier
// run, then executes user commands until "exit".
//
// Key features:
//   - Signup / Login / Logout, with the session token kept on disk
//   - Add / List (with search and paging) / Show / Edit / Delete notes
//   - Password change and recovery (forgot / reset)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
