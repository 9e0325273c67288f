package cli

import (
	"context"
	"fmt"
)

// Theme shows or changes the display theme. The choice is persisted under
// its own preferences key and survives logout.
func (a *App) Theme(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Current theme: %s\n", a.theme)
		return
	}

	name := args[0]
	if name != "light" && name != "dark" {
		fmt.Fprintln(a.out, "Usage: theme [light|dark]")
		return
	}

	a.theme = name
	if err := a.prefs.Set(ctx, ThemeKey, name); err != nil {
		a.log.Warn(ctx, "failed to persist theme", "error", err)
	}
	fmt.Fprintf(a.out, "Theme set to %s\n", name)
}
