// Package cli is the interactive nihongo terminal client.
//
// It wires configuration, the local sqlite store, the HTTP API client, the
// session manager and the history recorder, then runs a small REPL:
//
//	help, register, login, logout, whoami, history,
//	study <module>, kanji <word>, export [file], exit
//
// A session saved by an earlier run is resumed on start. The REPL is started
// via App.Run(ctx), which blocks until the user exits.
package cli
