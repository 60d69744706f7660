package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/blueprint"
	"github.com/kodebaseai/artifacts-sub003/internal/config"
	"github.com/kodebaseai/artifacts-sub003/internal/idgen"
	"github.com/kodebaseai/artifacts-sub003/internal/lifecycle"
	"github.com/kodebaseai/artifacts-sub003/internal/timeparsing"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

var createCmd = &cobra.Command{
	Use:   "create <initiative|milestone|issue>",
	Short: "Create a new artifact",
	Long: `Create a new artifact at the given hierarchy level. IDs are allocated
automatically: the next free letter for initiatives (A, B, ... Z, AA), the
next free index under --parent for milestones and issues.

A milestone can be expanded from a blueprint, which creates the milestone
and its templated issues in one step:

  kb create milestone --parent A --blueprint feature --title "Search"`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"initiative", "milestone", "issue"},
	GroupID:   GroupArtifacts,
	Run:       runCreate,
}

func init() {
	createCmd.Flags().String("parent", "", "Parent artifact ID (milestones and issues)")
	createCmd.Flags().String("title", "", "Artifact title (required unless --form)")
	createCmd.Flags().String("description", "", "Longer description (markdown)")
	createCmd.Flags().IntP("priority", "p", 0, "Priority 1 (highest) to 3 (lowest)")
	createCmd.Flags().String("owner", "", "Owner, \"Name (email)\" by convention")
	createCmd.Flags().String("estimate", "", "Effort estimate in compact form (4h, 2d, 1w)")
	createCmd.Flags().StringSlice("blocked-by", nil, "IDs this artifact depends on")
	createCmd.Flags().String("blueprint", "", "Expand a blueprint (milestones only)")
	createCmd.Flags().Bool("form", false, "Fill in fields interactively")
	rootCmd.AddCommand(createCmd)
}

type createResult struct {
	Created []artifactSummary `json:"created"`
}

func runCreate(cmd *cobra.Command, args []string) {
	level, err := types.ParseLevel(args[0])
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}

	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	priority, _ := cmd.Flags().GetInt("priority")
	owner, _ := cmd.Flags().GetString("owner")
	estimate, _ := cmd.Flags().GetString("estimate")
	blockedBy, _ := cmd.Flags().GetStringSlice("blocked-by")
	blueprintName, _ := cmd.Flags().GetString("blueprint")
	useForm, _ := cmd.Flags().GetBool("form")
	parentArg, _ := cmd.Flags().GetString("parent")

	if useForm {
		form, err := runCreateForm(level, title, parentArg)
		if err != nil {
			FatalError("%v", err)
		}
		title, description = form.Title, form.Description
		priority, owner, estimate = form.Priority, form.Owner, form.Estimate
		parentArg = form.Parent
	}

	if title == "" {
		FatalErrorWithHint("--title is required", "Pass --title or use --form for interactive entry")
	}
	if priority == 0 {
		priority = config.GetInt("default-priority")
	}
	if owner == "" {
		owner = config.GetString("default-owner")
	}
	if estimate != "" && !timeparsing.IsCompactDuration(estimate) {
		FatalErrorRespectJSON("invalid estimate %q (use compact durations like 4h, 2d, 1w)", estimate)
	}

	snap, err := store.Snapshot(rootCtx)
	if err != nil {
		FatalErrorRespectJSON("loading workspace: %v", err)
	}

	// Resolve the new ID: initiatives allocate at the top level, milestones
	// and issues allocate under their parent.
	var id types.ArtifactID
	switch level {
	case types.LevelInitiative:
		if parentArg != "" {
			FatalErrorRespectJSON("initiatives have no parent")
		}
		id = idgen.NextInitiative(snap.IDs())
	default:
		if parentArg == "" {
			FatalErrorWithHint(fmt.Sprintf("--parent is required for %s", level), "Pass the parent ID, e.g. --parent A")
		}
		parent, err := types.ParseID(parentArg)
		if err != nil {
			FatalErrorRespectJSON("invalid parent: %v", err)
		}
		if _, err := snap.Get(parent); err != nil {
			FatalErrorRespectJSON("parent %s not found", parent)
		}
		if parent.Level() != level.ParentLevel() {
			FatalErrorRespectJSON("%s requires a %s parent, %s is a %s", level, level.ParentLevel(), parent, parent.Level())
		}
		id, err = idgen.NextChild(parent, snap.IDs())
		if err != nil {
			FatalErrorRespectJSON("allocating ID under %s: %v", parent, err)
		}
	}

	if blueprintName != "" {
		if level != types.LevelMilestone {
			FatalErrorRespectJSON("--blueprint applies to milestones, not %ss", level)
		}
		createFromBlueprint(id, blueprintName, title)
		return
	}

	artifact := &types.Artifact{
		ID:          id,
		Title:       title,
		Description: description,
		Priority:    priority,
		Owner:       owner,
		Estimate:    estimate,
		Events: []types.Event{
			lifecycle.NewEvent(types.StateDraft, getActorWithGit(),
				lifecycle.WithTrigger(types.TriggerArtifactCreated)),
		},
	}

	if err := store.Create(rootCtx, artifact); err != nil {
		FatalErrorRespectJSON("creating %s: %v", id, err)
	}

	for _, dep := range blockedBy {
		blocker, err := types.ParseID(strings.TrimSpace(dep))
		if err != nil {
			WarnError("skipping invalid blocker %q: %v", dep, err)
			continue
		}
		if err := addDependencyChecked(blocker, id); err != nil {
			WarnError("adding dependency on %s: %v", blocker, err)
		}
	}

	created, err := store.Get(rootCtx, id)
	if err != nil {
		FatalErrorRespectJSON("reading back %s: %v", id, err)
	}

	if jsonOutput {
		outputJSON(createResult{Created: []artifactSummary{newArtifactSummary(created)}})
		return
	}
	fmt.Printf("Created %s: %s\n", created.ID, created.Title)
}

// createFromBlueprint expands a blueprint into a milestone and its issues.
func createFromBlueprint(milestone types.ArtifactID, name, title string) {
	available, err := blueprint.All(kodebaseDir)
	if err != nil {
		FatalErrorRespectJSON("loading blueprints: %v", err)
	}
	bp, ok := available[name]
	if !ok {
		FatalErrorWithHint(fmt.Sprintf("unknown blueprint %q", name),
			fmt.Sprintf("Available: %s", strings.Join(blueprint.Names(available), ", ")))
	}

	artifacts, err := bp.Materialize(milestone, title, getActorWithGit(), time.Now())
	if err != nil {
		FatalErrorRespectJSON("expanding blueprint %s: %v", name, err)
	}

	summaries := make([]artifactSummary, 0, len(artifacts))
	for _, a := range artifacts {
		if err := store.Create(rootCtx, a); err != nil {
			FatalErrorRespectJSON("creating %s: %v", a.ID, err)
		}
		summaries = append(summaries, newArtifactSummary(a))
	}

	if jsonOutput {
		outputJSON(createResult{Created: summaries})
		return
	}
	fmt.Printf("Created %s: %s (%d issues from blueprint %s)\n", milestone, title, len(artifacts)-1, name)
	for _, a := range artifacts[1:] {
		fmt.Printf("  %s %s\n", a.ID, a.Title)
	}
}
