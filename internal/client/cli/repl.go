package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	handleError(ctx context.Context, err error)

	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Forgot(ctx context.Context) error
	Reset(ctx context.Context, token string) error
	ChangePassword(ctx context.Context) error

	Add(ctx context.Context) error
	List(ctx context.Context, search string) error
	Page(ctx context.Context, page int) error
	Show(ctx context.Context, id string) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

const (
	helpGuest = "Available commands: signup, login, forgot, reset <token>, help, exit"
	helpUser  = "Available commands: add, list [search], page <n>, show <id>, edit <id>, delete <id>, me, passwd, logout, help, exit"
)

// protected lists the commands that need a session.
var protected = map[string]bool{
	"add": true, "list": true, "l": true, "page": true, "show": true, "edit": true,
	"delete": true, "me": true, "passwd": true, "logout": true,
}

// runREPL reads commands from reader until EOF or "exit"/"quit" and
// dispatches them to a. Errors returned by the commands go to
// a.handleError so one failing command never ends the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		fmt.Fprintf(w, "nk%s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if protected[cmd] && !a.isLoggedIn() {
			fmt.Fprintln(w, "Please log in first (type 'login' or 'signup')")
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpUser)
			} else {
				fmt.Fprintln(w, helpGuest)
			}

		case "signup":
			cmdErr = a.Signup(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "me":
			cmdErr = a.Me(ctx)
		case "forgot":
			cmdErr = a.Forgot(ctx)
		case "reset":
			if len(args) != 1 {
				fmt.Fprintln(w, "Usage: reset <token>")
				continue
			}
			cmdErr = a.Reset(ctx, args[0])
		case "passwd":
			cmdErr = a.ChangePassword(ctx)

		case "add":
			cmdErr = a.Add(ctx)
		case "l", "list":
			cmdErr = a.List(ctx, strings.Join(args, " "))
		case "page":
			n, convErr := strconv.Atoi(strings.Join(args, ""))
			if convErr != nil || n < 1 {
				fmt.Fprintln(w, "Usage: page <n>")
				continue
			}
			cmdErr = a.Page(ctx, n)
		case "show", "edit", "delete":
			if len(args) != 1 {
				fmt.Fprintf(w, "Usage: %s <id>\n", cmd)
				continue
			}
			switch cmd {
			case "show":
				cmdErr = a.Show(ctx, args[0])
			case "edit":
				cmdErr = a.Edit(ctx, args[0])
			default:
				cmdErr = a.Delete(ctx, args[0])
			}

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			a.handleError(ctx, cmdErr)
		}
	}
}
