package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Dashboard(ctx context.Context) error
	NewRequest(ctx context.Context) error
	MyRequests(ctx context.Context) error
	AllRequests(ctx context.Context) error
	Review(ctx context.Context, args []string) error
	Attach(ctx context.Context, args []string) error
	Employees(ctx context.Context) error
	Ping(ctx context.Context) error
}

const (
	helpGuest = "Available commands: login, register, ping, help, exit"
	helpUser  = "Available commands: dashboard, new, my, all, review <id> [approve|reject] [comment], attach <id> <file>, employees, ping, logout, help, exit"
)

// runREPL reads one command per line from reader and dispatches it to a. The
// prompt shows statusFn(). A failing command prints its message and returns
// to the prompt; the loop ends on EOF, "exit" or "quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(out, "leave %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(out)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help", "?":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpUser)
			} else {
				fmt.Fprintln(out, helpGuest)
			}
		case "login":
			cmdErr = a.Login(ctx)
		case "register":
			cmdErr = a.Register(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "dashboard", "home", "whoami":
			cmdErr = a.Dashboard(ctx)
		case "new":
			cmdErr = a.NewRequest(ctx)
		case "my":
			cmdErr = a.MyRequests(ctx)
		case "all":
			cmdErr = a.AllRequests(ctx)
		case "review":
			cmdErr = a.Review(ctx, args)
		case "attach":
			cmdErr = a.Attach(ctx, args)
		case "employees":
			cmdErr = a.Employees(ctx)
		case "ping":
			cmdErr = a.Ping(ctx)
		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return
		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil && !errors.Is(cmdErr, errRedirected) {
			fmt.Fprintln(out, "Error:", cmdErr)
		}
	}
}
