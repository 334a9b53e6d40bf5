// Package cli provides the interactive member portal client.
//
// It wires configuration, the member directory, the credential hasher and the
// side-effect dispatcher into a session service, then runs a REPL that
// renders the current session state and invokes its operations. A background
// watcher pings the directory and reports online/offline transitions.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
