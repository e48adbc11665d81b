package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to.
// The real App satisfies it; tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	History(ctx context.Context) error
	Study(ctx context.Context, module string) error
	Kanji(ctx context.Context, word string) error
	Export(ctx context.Context, dest string) error
}

// runREPL reads commands line by line from r until EOF, "exit" or "quit".
// Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "nihongo%s> ", statusFn())

		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: whoami, history, study <module>, kanji <word>, export [file], logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.WhoAmI(ctx)
		case "history":
			cmdErr = a.History(ctx)
		case "export":
			dest := ""
			if len(args) > 0 {
				dest = args[0]
			}
			cmdErr = a.Export(ctx, dest)

		case "study":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: study <module>")
				continue
			}
			cmdErr = a.Study(ctx, args[0])

		case "kanji":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: kanji <word>")
				continue
			}
			cmdErr = a.Kanji(ctx, strings.Join(args, " "))

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", cmdErr)
		}
	}
}
