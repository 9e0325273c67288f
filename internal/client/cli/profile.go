package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/apetrukhin/blogctl/internal/client/models"
)

func (a *App) ShowProfile(ctx context.Context) {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "You are not logged in. Use 'login' first.")
		return
	}

	// Re-resolve so the screen shows the server's latest view.
	if err := a.session.RefreshProfile(ctx); err != nil {
		fmt.Fprintf(a.out, "Could not load profile: %s\n", err)
		return
	}

	st := a.session.State()
	if st.User == nil {
		fmt.Fprintln(a.out, "You are not logged in. Use 'login' first.")
		return
	}

	u := st.User
	fmt.Fprintf(a.out, "Email:    %s\n", u.Email)
	fmt.Fprintf(a.out, "Username: %s\n", u.Username)
	if len(u.Contacts) > 0 {
		fmt.Fprintf(a.out, "Contacts:\n")
		for _, c := range u.Contacts {
			fmt.Fprintf(a.out, "  %s\n", c)
		}
	}
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "Member since %s\n", u.CreatedAt.Format("2006-01-02"))
	}
}

func (a *App) EditProfile(ctx context.Context) {
	st := a.session.State()
	if st.User == nil {
		fmt.Fprintln(a.out, "You are not logged in. Use 'login' first.")
		return
	}

	username, err := GetSimpleText(a.reader, fmt.Sprintf("Enter username [%s]", st.User.Username), a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	if username == "" {
		username = st.User.Username
	}

	prompt := "Enter contact links, one per line"
	if len(st.User.Contacts) > 0 {
		prompt += " (current: " + strings.Join(st.User.Contacts, ", ") + ")"
	}
	rawContacts, err := GetMultiline(a.reader, prompt, a.out)
	if err != nil {
		fmt.Fprintf(a.out, "error: %v\n", err)
		return
	}
	contacts := models.ParseContacts(rawContacts)

	if err := a.session.UpdateProfile(ctx, username, contacts); err != nil {
		fmt.Fprintf(a.out, "Profile update failed: %s\n", err)
		return
	}

	fmt.Fprintln(a.out, "Profile updated")
}
