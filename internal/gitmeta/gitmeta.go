// Package gitmeta reads identity and branch metadata from the local git
// installation. All lookups degrade to empty results when git is missing
// or the working directory is not a repository; artifact tracking works
// fine outside version control.
package gitmeta

import (
	"fmt"
	"os/exec"
	"strings"
)

// Identity returns the git user formatted as "Name (email)", matching
// the actor format in artifact event logs. Partial configuration
// degrades: name only, then email only, then "".
func Identity() string {
	name := configValue("user.name")
	email := configValue("user.email")
	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s (%s)", name, email)
	case name != "":
		return name
	default:
		return email
	}
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when
// detached.
func CurrentBranch() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// RepoRoot returns the top-level directory of the enclosing repository.
func RepoRoot() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", fmt.Errorf("not a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// configValue returns a git config value, or "" on any failure.
func configValue(key string) string {
	out, err := exec.Command("git", "config", key).Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
