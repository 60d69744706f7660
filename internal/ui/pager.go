package ui

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// PagerOptions controls pager behavior for long command output.
type PagerOptions struct {
	// NoPager disables the pager for this invocation (--no-pager flag).
	NoPager bool
}

// shouldUsePager reports whether output may be piped to a pager. Piped
// stdout and KB_NO_PAGER both disable it.
func shouldUsePager(opts PagerOptions) bool {
	if opts.NoPager {
		return false
	}
	if os.Getenv("KB_NO_PAGER") != "" {
		return false
	}
	return IsTerminal()
}

// pagerCommand returns the pager to use: KB_PAGER, then PAGER, then less.
func pagerCommand() string {
	if pager := os.Getenv("KB_PAGER"); pager != "" {
		return pager
	}
	if pager := os.Getenv("PAGER"); pager != "" {
		return pager
	}
	return "less"
}

func terminalHeight() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	_, height, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return height
}

func contentHeight(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(content, "\n") + 1
}

// ToPager pipes content through a pager when stdout is a terminal and the
// content would not fit on one screen. Otherwise it prints directly.
func ToPager(content string, opts PagerOptions) error {
	if !shouldUsePager(opts) {
		fmt.Print(content)
		return nil
	}

	if h := terminalHeight(); h > 0 && contentHeight(content) <= h-1 {
		fmt.Print(content)
		return nil
	}

	parts := strings.Fields(pagerCommand())
	if len(parts) == 0 {
		fmt.Print(content)
		return nil
	}

	cmd := exec.Command(parts[0], parts[1:]...) // #nosec G204 -- pager comes from the user's environment
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	// -R keeps ANSI colors, -F quits when one screen suffices, -X skips
	// the screen clear on exit.
	if os.Getenv("LESS") == "" {
		cmd.Env = append(os.Environ(), "LESS=-RFX")
	} else {
		cmd.Env = os.Environ()
	}

	return cmd.Run()
}
