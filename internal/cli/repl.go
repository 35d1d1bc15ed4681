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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Verify(ctx context.Context, args []string) error
	Resend(ctx context.Context) error
	Feed(ctx context.Context, args []string) error
	Topic(ctx context.Context, args []string) error
	UserPosts(ctx context.Context, args []string) error
	Open(ctx context.Context, args []string) error
	Vote(ctx context.Context, args []string) error
	Write(ctx context.Context) error
	Comment(ctx context.Context) error
	SetBio(ctx context.Context) error
	Passwd(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the LearnLoop CLI.
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
//	Anonymous:
//	  - help               — show available commands
//	  - register           — create an account
//	  - login              — authenticate
//	  - feed [page]        — browse the home feed
//	  - topic <id> [page]  — browse a topic feed
//	  - user <id> [page]   — view a user's profile and posts
//	  - open <postID>      — open a post with its comments
//	  - exit | quit        — leave the program
//
//	Logged in, additionally:
//	  - vote <n>           — toggle your vote on listed item n
//	  - write              — create a post
//	  - comment            — comment on the open post
//	  - whoami             — show your profile
//	  - setbio             — update your bio
//	  - passwd             — change your password
//	  - verify <token>     — confirm your email address
//	  - resend             — resend the verification email
//	  - logout             — log out
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("loop> %s > ", statusFn()))
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
			if a.isLoggedIn() {
				printlnFn("Available commands: feed, topic, user, open, vote, write, comment, whoami, setbio, passwd, verify, resend, logout, exit")
			} else {
				printlnFn("Available commands: register, login, feed, topic, user, open, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "verify":
			_ = a.Verify(ctx, args)

		case "resend":
			_ = a.Resend(ctx)

		case "f", "feed":
			_ = a.Feed(ctx, args)

		case "topic":
			_ = a.Topic(ctx, args)

		case "user":
			_ = a.UserPosts(ctx, args)

		case "open":
			_ = a.Open(ctx, args)

		case "v", "vote":
			_ = a.Vote(ctx, args)

		case "write":
			_ = a.Write(ctx)

		case "comment":
			_ = a.Comment(ctx)

		case "setbio":
			_ = a.SetBio(ctx)

		case "passwd":
			_ = a.Passwd(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
