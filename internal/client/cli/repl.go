package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	List(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Refresh(ctx context.Context) error
	Reset(ctx context.Context) error
	Status(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Push(ctx context.Context, args []string) error
	SetFlag(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the GeoKeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Browse (always available, no login required):
//	  - help            — show available commands
//	  - list | l        — list the country catalog (cache or origin per TTL)
//	  - show <id>       — show one country in detail
//	  - sync            — sync now, honoring the freshness policy
//	  - refresh         — force a refresh from the origin
//	  - reset           — drop the local cache and resync from scratch
//	  - status          — connectivity, session, cache age
//	  - exit | quit     — leave the program
//
//	Admin (push/setflag additionally require a login):
//	  - login           — authenticate as administrator
//	  - logout          — drop the admin session
//	  - push <file>     — replace the origin data set from a JSON file
//	  - setflag <name> <file> — upload a flag image for a country
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("geokeeper %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			printlnFn("Browse commands: (l)ist, show <id>, sync, refresh, reset, status, exit")
			if a.isLoggedIn() {
				printlnFn("Admin commands: push <file>, setflag <name> <file>, logout")
			} else {
				printlnFn("Admin commands: login")
			}

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "sync":
			_ = a.Sync(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "status":
			_ = a.Status(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "push":
			_ = a.Push(ctx, args)

		case "setflag":
			_ = a.SetFlag(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
