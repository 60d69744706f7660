package ui

import (
	"os"

	"charm.land/glamour/v2"
	"charm.land/glamour/v2/styles"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// RenderMarkdown renders markdown for terminal display, falling back to
// the raw text whenever styling is off or rendering fails. Word wraps at
// terminal width, capped for readability.
func RenderMarkdown(markdown string) string {
	if !ShouldUseColor() {
		return markdown
	}

	// Wider lines cause eye-tracking fatigue; cap at 100 columns.
	const maxReadableWidth = 100
	wrapWidth := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		wrapWidth = w
	}
	if wrapWidth > maxReadableWidth {
		wrapWidth = maxReadableWidth
	}

	// glamour v2 dropped WithAutoStyle; select the style the way v1's
	// auto style did: notty when piped, else dark/light by background.
	style := styles.NoTTYStyle
	if IsTerminal() {
		if termenv.HasDarkBackground() {
			style = styles.DarkStyle
		} else {
			style = styles.LightStyle
		}
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return markdown
	}
	rendered, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return rendered
}
