package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/kodebaseai/artifacts-sub003/internal/timeparsing"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// createFormValues holds what the interactive form collected.
type createFormValues struct {
	Parent      string
	Title       string
	Description string
	Priority    int
	Owner       string
	Estimate    string
}

// runCreateForm collects artifact fields through an interactive terminal
// form. Keyboard navigation: Tab/Shift+Tab between fields, Enter submits,
// Ctrl+C cancels.
func runCreateForm(level types.Level, title, parent string) (createFormValues, error) {
	var (
		description string
		priorityStr = "2"
		owner       string
		estimate    string
	)

	priorityOptions := []huh.Option[string]{
		huh.NewOption("P1 - High", "1"),
		huh.NewOption("P2 - Medium (default)", "2"),
		huh.NewOption("P3 - Low", "3"),
	}

	fields := []huh.Field{}

	if level != types.LevelInitiative {
		fields = append(fields, huh.NewInput().
			Title("Parent").
			Description(fmt.Sprintf("ID of the %s this %s belongs to", level.ParentLevel(), level)).
			Placeholder("e.g., A.1").
			Value(&parent).
			Validate(func(s string) error {
				id, err := types.ParseID(s)
				if err != nil {
					return err
				}
				if id.Level() != level.ParentLevel() {
					return fmt.Errorf("expected a %s ID", level.ParentLevel())
				}
				return nil
			}))
	}

	fields = append(fields,
		huh.NewInput().
			Title("Title").
			Description("Brief summary of the work (required)").
			Placeholder("e.g., Ship incremental search").
			Value(&title).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("title is required")
				}
				if len(s) > 500 {
					return fmt.Errorf("title must be 500 characters or less")
				}
				return nil
			}),

		huh.NewText().
			Title("Description").
			Description("Detailed context, markdown welcome").
			Placeholder("Explain why this work exists and what done looks like...").
			CharLimit(5000).
			Value(&description),

		huh.NewSelect[string]().
			Title("Priority").
			Description("Set urgency level").
			Options(priorityOptions...).
			Value(&priorityStr),

		huh.NewInput().
			Title("Owner").
			Description("Who is responsible? (optional)").
			Placeholder("Name (email)").
			Value(&owner),
	)

	if level == types.LevelIssue {
		fields = append(fields, huh.NewInput().
			Title("Estimate").
			Description("Compact duration like 4h, 2d, 1w (optional)").
			Value(&estimate).
			Validate(func(s string) error {
				if s != "" && !timeparsing.IsCompactDuration(s) {
					return fmt.Errorf("use compact durations like 4h, 2d, 1w")
				}
				return nil
			}))
	}

	confirmed := true
	fields = append(fields, huh.NewConfirm().
		Title(fmt.Sprintf("Create this %s?", level)).
		Affirmative("Create").
		Negative("Cancel").
		Value(&confirmed))

	form := huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			fmt.Fprintln(os.Stderr, "Creation cancelled.")
			os.Exit(0)
		}
		return createFormValues{}, fmt.Errorf("form error: %w", err)
	}
	if !confirmed {
		fmt.Fprintln(os.Stderr, "Creation cancelled.")
		os.Exit(0)
	}

	priority, err := strconv.Atoi(priorityStr)
	if err != nil {
		priority = 2
	}

	return createFormValues{
		Parent:      strings.TrimSpace(parent),
		Title:       strings.TrimSpace(title),
		Description: description,
		Priority:    priority,
		Owner:       strings.TrimSpace(owner),
		Estimate:    strings.TrimSpace(estimate),
	}, nil
}
