// Package ui provides terminal styling for kb CLI output.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// Ayu theme color palette
// Dark: https://terminalcolors.com/themes/ayu/dark/
// Light: https://terminalcolors.com/themes/ayu/light/
var (
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300", // ayu light bright green
		Dark:  "#c2d94c", // ayu dark bright green
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49", // ayu light bright yellow
		Dark:  "#ffb454", // ayu dark bright yellow
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171", // ayu light bright red
		Dark:  "#f07178", // ayu dark bright red
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99", // ayu light muted
		Dark:  "#6c7680", // ayu dark muted
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6", // ayu light bright blue
		Dark:  "#59c2ff", // ayu dark bright blue
	}
	ColorActive = lipgloss.AdaptiveColor{
		Light: "#fa8d3e", // ayu light orange
		Dark:  "#ff8f40", // ayu dark orange
	}
)

// Status styles - consistent across all commands
var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	ActiveStyle = lipgloss.NewStyle().Foreground(ColorActive)
)

// CategoryStyle for section headers - bold with accent color
var CategoryStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

// stateStyles maps each lifecycle state to its display style.
var stateStyles = map[types.State]lipgloss.Style{
	types.StateDraft:      MutedStyle,
	types.StateReady:      AccentStyle,
	types.StateBlocked:    FailStyle,
	types.StateInProgress: ActiveStyle,
	types.StateInReview:   WarnStyle,
	types.StateCompleted:  PassStyle,
	types.StateCancelled:  MutedStyle,
	types.StateArchived:   MutedStyle,
}

// StateStyle returns the style for a lifecycle state.
func StateStyle(s types.State) lipgloss.Style {
	if style, ok := stateStyles[s]; ok {
		return style
	}
	return MutedStyle
}

// RenderState renders a state name in its color.
func RenderState(s types.State) string {
	return StateStyle(s).Render(string(s))
}

// stateEmoji and stateASCII are the two icon sets; ShouldUseEmoji picks.
var stateEmoji = map[types.State]string{
	types.StateDraft:      "📝",
	types.StateReady:      "🟢",
	types.StateBlocked:    "🚫",
	types.StateInProgress: "🔄",
	types.StateInReview:   "👀",
	types.StateCompleted:  "✅",
	types.StateCancelled:  "❌",
	types.StateArchived:   "📦",
}

var stateASCII = map[types.State]string{
	types.StateDraft:      "·",
	types.StateReady:      "›",
	types.StateBlocked:    "!",
	types.StateInProgress: "~",
	types.StateInReview:   "?",
	types.StateCompleted:  "✓",
	types.StateCancelled:  "✗",
	types.StateArchived:   "□",
}

// StateIcon returns the icon for a state, emoji or plain per terminal
// capability.
func StateIcon(s types.State) string {
	if ShouldUseEmoji() {
		if icon, ok := stateEmoji[s]; ok {
			return icon
		}
	}
	if icon, ok := stateASCII[s]; ok {
		return icon
	}
	return "·"
}

// PriorityStyle styles P1 hot, P2 normal, P3 muted.
func PriorityStyle(p int) lipgloss.Style {
	switch p {
	case 1:
		return FailStyle
	case 3:
		return MutedStyle
	default:
		return WarnStyle
	}
}

// LevelStyle emphasizes higher levels of the hierarchy.
func LevelStyle(l types.Level) lipgloss.Style {
	switch l {
	case types.LevelInitiative:
		return CategoryStyle
	case types.LevelMilestone:
		return AccentStyle
	default:
		return lipgloss.NewStyle()
	}
}

// Tree characters for hierarchical display
const (
	TreeBranch = "├── "
	TreeLast   = "└── "
	TreePipe   = "│   "
	TreeSpace  = "    "
)

// Separators
const (
	SeparatorLight = "──────────────────────────────────────────"
	SeparatorHeavy = "══════════════════════════════════════════"
)

// RenderPass renders text with pass (green) styling
func RenderPass(s string) string {
	return PassStyle.Render(s)
}

// RenderWarn renders text with warning (yellow) styling
func RenderWarn(s string) string {
	return WarnStyle.Render(s)
}

// RenderFail renders text with fail (red) styling
func RenderFail(s string) string {
	return FailStyle.Render(s)
}

// RenderMuted renders text with muted (gray) styling
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderAccent renders text with accent (blue) styling
func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}

// RenderCategory renders a category header in uppercase with accent color
func RenderCategory(s string) string {
	return CategoryStyle.Render(strings.ToUpper(s))
}

// RenderSeparator renders the light separator line in muted color
func RenderSeparator() string {
	return MutedStyle.Render(SeparatorLight)
}
