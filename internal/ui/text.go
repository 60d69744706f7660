package ui

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Description display limits for show output.
const (
	DefaultMaxLines     = 15 // max description lines before truncation
	DefaultContextLines = 5  // lines kept at each end when truncating
)

// TruncateSimple performs end truncation with a "..." suffix. UTF-8 safe.
func TruncateSimple(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(text)
	return string(runes[:maxLen-3]) + "..."
}

// TruncateLines keeps the head and tail of a long text and replaces the
// middle with a hidden-line marker. Text within maxLines passes through
// unchanged.
func TruncateLines(text string, maxLines, contextLines int) string {
	if text == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= maxLines {
		return text
	}
	if contextLines < 1 {
		contextLines = DefaultContextLines
	}
	if maxLines < contextLines*2+1 {
		return strings.Join(lines[:maxLines], "\n") + "\n..."
	}

	hidden := len(lines) - contextLines*2
	var b strings.Builder
	b.WriteString(strings.Join(lines[:contextLines], "\n"))
	b.WriteString("\n")
	b.WriteString(RenderMuted("... (" + strconv.Itoa(hidden) + " lines hidden, use --full) ..."))
	b.WriteString("\n")
	b.WriteString(strings.Join(lines[len(lines)-contextLines:], "\n"))
	return b.String()
}

// PadRight pads text with spaces to width, for column alignment.
func PadRight(text string, width int) string {
	gap := width - utf8.RuneCountInString(text)
	if gap <= 0 {
		return text
	}
	return text + strings.Repeat(" ", gap)
}

// WrapText wraps text at word boundaries to fit within maxWidth.
// Preserves existing line breaks.
func WrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 80
	}
	var b strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(wrapLine(line, maxWidth))
	}
	return b.String()
}

// wrapLine wraps a single line at word boundaries.
func wrapLine(line string, maxWidth int) string {
	if utf8.RuneCountInString(line) <= maxWidth {
		return line
	}

	var b strings.Builder
	width := 0
	for _, word := range strings.Fields(line) {
		wordLen := utf8.RuneCountInString(word)
		switch {
		case width == 0:
			b.WriteString(word)
			width = wordLen
		case width+1+wordLen <= maxWidth:
			b.WriteString(" ")
			b.WriteString(word)
			width += 1 + wordLen
		default:
			b.WriteString("\n")
			b.WriteString(word)
			width = wordLen
		}
	}
	return b.String()
}
