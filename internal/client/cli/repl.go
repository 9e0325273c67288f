package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/apetrukhin/blogctl/internal/client/session"
)

// getStatus renders the prompt suffix: username when logged in, plus a
// loading marker while a session fetch is in flight.
func (a *App) getStatus() string {
	st := a.session.State()
	s := ""
	if st.User != nil {
		s = st.User.Username
	}
	if st.Loading {
		s = strings.TrimSpace(s + " ...")
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) Repl(ctx context.Context) {
	fmt.Fprintln(a.out, "blogctl (type 'help' for commands)")

	// Surface session expiry to the user once, whichever screen they are on.
	unsubscribe := a.session.Subscribe(func(st session.State) {
		if st.LastError != "" && st.Token == "" && st.User == nil {
			fmt.Fprintf(a.out, "\nSession ended: %s\n", st.LastError)
		}
	})
	defer unsubscribe()

	for {
		fmt.Fprintf(a.out, "blogctl %s> ", a.getStatus())
		// The command loop and the prompts must consume the same buffered
		// reader; a second reader over the same descriptor would buffer
		// ahead and steal the lines meant for the other.
		line, readErr := a.reader.ReadString('\n')
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(a.out, "Available commands: list, read <id>, new, edit <id>, delete <id>, like <id>, profile, edit-profile, theme [light|dark], logout, exit")
			} else {
				fmt.Fprintln(a.out, "Available commands: list, read <id>, theme [light|dark], register, login, exit")
			}

		case "register":
			a.Register(ctx)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "profile":
			a.ShowProfile(ctx)
		case "edit-profile":
			a.EditProfile(ctx)
		case "list":
			a.ListArticles(ctx)
		case "read":
			if id, ok := parseID(a, args, "read"); ok {
				a.ReadArticle(ctx, id)
			}
		case "new":
			a.NewArticle(ctx)
		case "edit":
			if id, ok := parseID(a, args, "edit"); ok {
				a.EditArticle(ctx, id)
			}
		case "delete":
			if id, ok := parseID(a, args, "delete"); ok {
				a.DeleteArticle(ctx, id)
			}
		case "like":
			if id, ok := parseID(a, args, "like"); ok {
				a.ToggleLike(ctx, id)
			}
		case "theme":
			a.Theme(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		default:
			fmt.Fprintln(a.out, "Unknown command:", cmd)
		}

		if readErr != nil {
			return
		}
	}
}

func parseID(a *App, args []string, cmd string) (int64, bool) {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Usage: %s <id>\n", cmd)
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid article id: %s\n", args[0])
		return 0, false
	}
	return id, true
}
