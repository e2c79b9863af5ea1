package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests provide a recording stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Story(ctx context.Context, args []string) error
	Hint(ctx context.Context) error
	History(ctx context.Context) error
	Camera(ctx context.Context) error
	Scan(ctx context.Context, args []string) error
	Paste(ctx context.Context, args []string) error
	Reset(ctx context.Context) error
	Nickname(ctx context.Context, args []string) error
	Avatar(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, exit"
	helpLoggedIn  = "Available commands: status, story [n], hint, history, camera, scan <file>, paste <payload>, reset, nickname [name], avatar <file>, logout, exit"
)

// runREPL reads commands line by line from reader and dispatches them to a.
// Commands that need a session are refused while logged out. Errors from
// handlers are printed and the loop goes on. The loop ends on EOF, "exit"
// or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("hunt %s> ", statusFn()))

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
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "register":
			report(a.Register(ctx))
			continue
		case "login":
			report(a.Login(ctx))
			continue
		}

		if !a.isLoggedIn() {
			if _, known := sessionCommands[cmd]; known {
				printlnFn("Please log in first.")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "logout":
			report(a.Logout(ctx))
		case "status":
			report(a.Status(ctx))
		case "story":
			report(a.Story(ctx, args))
		case "hint":
			report(a.Hint(ctx))
		case "history":
			report(a.History(ctx))
		case "camera":
			report(a.Camera(ctx))
		case "scan":
			report(a.Scan(ctx, args))
		case "paste":
			report(a.Paste(ctx, args))
		case "reset":
			report(a.Reset(ctx))
		case "nickname":
			report(a.Nickname(ctx, args))
		case "avatar":
			report(a.Avatar(ctx, args))
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

var sessionCommands = map[string]struct{}{
	"logout": {}, "status": {}, "story": {}, "hint": {}, "history": {}, "camera": {},
	"scan": {}, "paste": {}, "reset": {}, "nickname": {}, "avatar": {},
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", describe(err))
	}
}
