// Package markdown renders article bodies (Markdown source) to ANSI-styled
// terminal text. It is a pure transform with no state of its own.
package markdown

import "github.com/charmbracelet/glamour"

// Render transforms src for terminal display using the named glamour style
// ("dark" or "light", matching the client's theme names). On any rendering
// problem the raw source is returned so the article stays readable.
func Render(src, style string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return src
	}
	out, err := r.Render(src)
	if err != nil {
		return src
	}
	return out
}
