package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. The real App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Register(ctx context.Context) error
	Switch(ctx context.Context) error
	Home(ctx context.Context) error
	Settings(ctx context.Context) error
	UpdateProfile(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help           show available commands
//	  - login          authenticate
//	  - register       create an account
//	  - switch         toggle between the login and register forms
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - help           show available commands
//	  - home           open the home page
//	  - settings       open the profile page
//	  - profile        edit given name, family name and phone
//	  - logout         end the session
//	  - exit | quit    leave the program
//
// Command errors are printed and the loop continues; every command can be
// retried.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("portal %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: home, settings, profile, logout, exit")
			} else {
				printlnFn("Available commands: login, register, switch, exit")
			}

		case "login":
			cmdErr = a.Login(ctx)

		case "register":
			cmdErr = a.Register(ctx)

		case "switch":
			cmdErr = a.Switch(ctx)

		case "home":
			cmdErr = a.Home(ctx)

		case "settings":
			cmdErr = a.Settings(ctx)

		case "profile", "update":
			cmdErr = a.UpdateProfile(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}
		if errors.Is(err, io.EOF) {
			return
		}
	}
}
