package cli

import (
	"context"
	"fmt"

	"github.com/apetrukhin/blogctl/internal/client/models"
)

func (a *App) Login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	if err := a.session.Login(ctx, email, password); err != nil {
		fmt.Fprintf(a.out, "Login failed: %s\n", err)
		return
	}

	st := a.session.State()
	fmt.Fprintf(a.out, "Logged in as %s\n", st.User.Username)
}

func (a *App) Register(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	username, err := GetSimpleText(a.reader, "Enter username (3-32 characters)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	password, err := GetPassword(a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}

	rawContacts, err := GetMultiline(a.reader, "Enter contact links, one per line (optional)", a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	contacts := models.ParseContacts(rawContacts)

	if err := a.session.Register(ctx, email, password, username, contacts); err != nil {
		fmt.Fprintf(a.out, "Registration failed: %s\n", err)
		return
	}

	st := a.session.State()
	fmt.Fprintf(a.out, "Welcome, %s!\n", st.User.Username)
}

func (a *App) Logout(ctx context.Context) {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
}
