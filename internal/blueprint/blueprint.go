// Package blueprint scaffolds a milestone with a pre-wired set of child
// issues from a named template. Built-in blueprints are compiled into the
// binary; workspaces add or override them with TOML files under
// .kodebase/blueprints/.
package blueprint

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// Issue is one templated child of a blueprint. BlockedBy lists 1-based
// positions of earlier issues in the same blueprint, which keeps template
// dependency graphs acyclic by construction.
type Issue struct {
	Title     string `toml:"title"`
	Priority  int    `toml:"priority"`
	Estimate  string `toml:"estimate"`
	BlockedBy []int  `toml:"blocked_by"`
}

// Blueprint is a milestone template. The {title} placeholder in issue
// titles and the description expands to the milestone title at
// materialization time.
type Blueprint struct {
	Name        string  `toml:"name"`
	Description string  `toml:"description"`
	Issues      []Issue `toml:"issues"`
}

// Builtin blueprints ship with the binary.
var Builtin = map[string]Blueprint{
	"feature": {
		Name:        "Feature",
		Description: "Design, build, and verify {title}",
		Issues: []Issue{
			{Title: "Design {title}", Priority: 2, Estimate: "2d"},
			{Title: "Implement {title}", Priority: 2, Estimate: "3d", BlockedBy: []int{1}},
			{Title: "Test {title}", Priority: 2, Estimate: "1d", BlockedBy: []int{2}},
		},
	},
	"bugfix": {
		Name:        "Bug fix",
		Description: "Reproduce and fix {title}",
		Issues: []Issue{
			{Title: "Reproduce {title}", Priority: 1, Estimate: "4h"},
			{Title: "Fix {title}", Priority: 1, Estimate: "1d", BlockedBy: []int{1}},
			{Title: "Verify fix in staging", Priority: 2, Estimate: "2h", BlockedBy: []int{2}},
		},
	},
	"spike": {
		Name:        "Spike",
		Description: "Time-boxed investigation of {title}",
		Issues: []Issue{
			{Title: "Research {title}", Priority: 2, Estimate: "2d"},
			{Title: "Write up findings", Priority: 2, Estimate: "4h", BlockedBy: []int{1}},
		},
	},
}

type userFile struct {
	Blueprints map[string]Blueprint `toml:"blueprints"`
}

// LoadUser reads every *.toml under <kodebaseDir>/blueprints. A missing
// directory is fine; workspaces without custom blueprints are the common
// case.
func LoadUser(kodebaseDir string) (map[string]Blueprint, error) {
	dir := filepath.Join(kodebaseDir, "blueprints")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading blueprints dir: %w", err)
	}

	out := make(map[string]Blueprint)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var file userFile
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		for key, bp := range file.Blueprints {
			if bp.Name == "" {
				bp.Name = key
			}
			if err := bp.Validate(); err != nil {
				return nil, fmt.Errorf("%s: blueprint %q: %w", path, key, err)
			}
			out[key] = bp
		}
	}
	return out, nil
}

// All returns built-in and user blueprints merged, user entries winning
// on key collision.
func All(kodebaseDir string) (map[string]Blueprint, error) {
	result := make(map[string]Blueprint, len(Builtin))
	for key, bp := range Builtin {
		result[key] = bp
	}
	user, err := LoadUser(kodebaseDir)
	if err != nil {
		return nil, err
	}
	for key, bp := range user {
		result[key] = bp
	}
	return result, nil
}

// Names returns the sorted blueprint keys of a map, for listings.
func Names(blueprints map[string]Blueprint) []string {
	names := make([]string, 0, len(blueprints))
	for name := range blueprints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks issue titles and dependency positions. A blocked_by
// entry may only point at an earlier issue.
func (b Blueprint) Validate() error {
	if len(b.Issues) == 0 {
		return fmt.Errorf("has no issues")
	}
	for i, issue := range b.Issues {
		if strings.TrimSpace(issue.Title) == "" {
			return fmt.Errorf("issue %d has no title", i+1)
		}
		if issue.Priority < 0 || issue.Priority > 3 {
			return fmt.Errorf("issue %d priority %d out of range", i+1, issue.Priority)
		}
		for _, pos := range issue.BlockedBy {
			if pos < 1 || pos > i {
				return fmt.Errorf("issue %d blocked_by %d must point at an earlier issue", i+1, pos)
			}
		}
	}
	return nil
}

// Materialize expands the blueprint into a milestone artifact and its
// issues. The caller has already allocated the milestone ID; issues are
// numbered from 1 beneath it. Every artifact starts in draft with a
// creation event stamped from actor and now.
func (b Blueprint) Materialize(milestone types.ArtifactID, title, actor string, now time.Time) ([]*types.Artifact, error) {
	if milestone.Level() != types.LevelMilestone {
		return nil, fmt.Errorf("blueprints scaffold milestones, %s is a %s", milestone, milestone.Level())
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("blueprint %q: %w", b.Name, err)
	}

	expand := func(s string) string {
		return strings.ReplaceAll(s, "{title}", title)
	}
	created := types.Event{
		State:     types.StateDraft,
		Timestamp: now,
		Actor:     actor,
		Trigger:   types.TriggerArtifactCreated,
	}

	out := make([]*types.Artifact, 0, len(b.Issues)+1)
	out = append(out, &types.Artifact{
		ID:          milestone,
		Title:       title,
		Description: expand(b.Description),
		Events:      []types.Event{created},
	})

	issueID := func(pos int) types.ArtifactID {
		return types.ArtifactID(fmt.Sprintf("%s.%d", milestone, pos))
	}
	for i, issue := range b.Issues {
		a := &types.Artifact{
			ID:       issueID(i + 1),
			Title:    expand(issue.Title),
			Priority: issue.Priority,
			Estimate: issue.Estimate,
			Events:   []types.Event{created},
		}
		for _, pos := range issue.BlockedBy {
			a.Relationships.BlockedBy = append(a.Relationships.BlockedBy, issueID(pos))
		}
		out = append(out, a)
	}

	// Mirror blocked_by onto the blockers' blocks lists.
	byID := make(map[types.ArtifactID]*types.Artifact, len(out))
	for _, a := range out {
		byID[a.ID] = a
	}
	for _, a := range out {
		for _, blocker := range a.Relationships.BlockedBy {
			byID[blocker].Relationships.Blocks = append(byID[blocker].Relationships.Blocks, a.ID)
		}
	}
	return out, nil
}
