package idgen

import (
	"fmt"

	"github.com/kodebaseai/artifacts-sub003/internal/types"
)

// NextInitiative returns the next free top-level ID given every ID already
// in the workspace. The scan decodes the initiative segment of each ID, so
// a workspace holding only "C.2.1" still allocates D next. Gaps left by
// cancelled initiatives are never reused.
func NextInitiative(existing []types.ArtifactID) types.ArtifactID {
	max := 0
	for _, id := range existing {
		if !id.IsValid() {
			continue
		}
		n, err := DecodeLetters(string(id.Initiative()))
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return types.ArtifactID(EncodeLetters(max + 1))
}

// NextChild returns the next free ID directly under parent: the highest
// existing numeric suffix plus one, starting at 1. Non-children and
// malformed entries in existing are ignored; gaps are never filled.
func NextChild(parent types.ArtifactID, existing []types.ArtifactID) (types.ArtifactID, error) {
	switch parent.Level() {
	case types.LevelInitiative, types.LevelMilestone:
	case types.LevelIssue:
		return "", fmt.Errorf("%s is an issue: issues cannot have children", parent)
	default:
		return "", fmt.Errorf("invalid parent ID %q", parent)
	}
	max := 0
	for _, id := range existing {
		if !id.IsChildOf(parent) {
			continue
		}
		n, ok := id.ChildIndex()
		if !ok {
			continue
		}
		if n > max {
			max = n
		}
	}
	return types.ArtifactID(fmt.Sprintf("%s.%d", parent, max+1)), nil
}
