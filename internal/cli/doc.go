// Package cli is the terminal front end of vsh.
//
// A REPL reads lines from an input stream and forwards them to a Client:
// LocalClient runs the shell in-process over the configured snapshot
// store, RemoteClient drives a session of a running server through its
// HTTP API. Output is styled with lipgloss when the writer is a terminal.
package cli
