package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a stub.
type execIface interface {
	isSignedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Guest(ctx context.Context) error
	OTP(ctx context.Context) error
	Social(ctx context.Context, provider string) error
	Logout(ctx context.Context) error
	Avatars(ctx context.Context) error
	AvatarAdd(ctx context.Context) error
	AvatarEdit(ctx context.Context, id string) error
	AvatarDelete(ctx context.Context, id string) error
	AvatarFilter(ctx context.Context, detail string) error
	Users(ctx context.Context) error
	Profile(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Tab(ctx context.Context, name string) error
}

// runREPL reads a line, parses the first token as the command, and
// dispatches to a. The loop exits on scanner EOF or "exit"/"quit".
//
// Handlers report their own errors; the loop ignores returned errors to
// stay resilient.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("avachat> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]
		arg := func(i int) string {
			if i < len(args) {
				return args[i]
			}
			return ""
		}

		switch cmd {
		case "help":
			if a.isSignedIn() {
				printlnFn("Available commands: avatars, add, edit <id>, delete <id>, filter <all|public|private>, users, profile, deleteaccount, tab <name>, logout, exit")
			} else {
				printlnFn("Available commands: login, signup, guest, otp, social <provider>, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "signup":
			_ = a.Signup(ctx)

		case "guest":
			_ = a.Guest(ctx)

		case "otp":
			_ = a.OTP(ctx)

		case "social":
			_ = a.Social(ctx, arg(0))

		case "logout":
			_ = a.Logout(ctx)

		case "a", "avatars":
			_ = a.Avatars(ctx)

		case "add":
			_ = a.AvatarAdd(ctx)

		case "edit":
			_ = a.AvatarEdit(ctx, arg(0))

		case "delete":
			_ = a.AvatarDelete(ctx, arg(0))

		case "filter":
			_ = a.AvatarFilter(ctx, arg(0))

		case "u", "users":
			_ = a.Users(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "deleteaccount":
			_ = a.DeleteAccount(ctx)

		case "tab":
			_ = a.Tab(ctx, arg(0))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
