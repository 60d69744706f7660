package types

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Level is the hierarchy depth encoded in an artifact ID.
type Level int

// Hierarchy levels, top down.
const (
	LevelNone Level = iota // invalid or unparseable ID
	LevelInitiative
	LevelMilestone
	LevelIssue
)

// String returns the lowercase level name.
func (l Level) String() string {
	switch l {
	case LevelInitiative:
		return "initiative"
	case LevelMilestone:
		return "milestone"
	case LevelIssue:
		return "issue"
	}
	return "unknown"
}

// ParseLevel maps a level name to its Level value.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "initiative":
		return LevelInitiative, nil
	case "milestone":
		return LevelMilestone, nil
	case "issue":
		return LevelIssue, nil
	}
	return LevelNone, fmt.Errorf("unknown artifact level %q", s)
}

// ParentLevel returns the level a parent of this level must have, or
// LevelNone for initiatives, which have no parent.
func (l Level) ParentLevel() Level {
	switch l {
	case LevelMilestone:
		return LevelInitiative
	case LevelIssue:
		return LevelMilestone
	}
	return LevelNone
}

// ArtifactID is a dot-separated hierarchical identifier: "A" names an
// initiative, "A.1" a milestone under it, "A.1.3" an issue under that.
// Initiative segments are bijective base-26 letter runs (A..Z, AA..);
// child segments are positive decimal integers without leading zeros.
type ArtifactID string

var idPattern = regexp.MustCompile(`^[A-Z]+(\.[1-9][0-9]*){0,2}$`)

// ParseID validates s and returns it as an ArtifactID.
func ParseID(s string) (ArtifactID, error) {
	id := ArtifactID(strings.TrimSpace(s))
	if !id.IsValid() {
		return "", fmt.Errorf("invalid artifact ID %q", s)
	}
	return id, nil
}

// IsValid checks if the ID is well formed
func (id ArtifactID) IsValid() bool {
	return idPattern.MatchString(string(id))
}

func (id ArtifactID) String() string {
	return string(id)
}

// Level returns the hierarchy level, or LevelNone for malformed IDs.
func (id ArtifactID) Level() Level {
	if !id.IsValid() {
		return LevelNone
	}
	switch strings.Count(string(id), ".") {
	case 0:
		return LevelInitiative
	case 1:
		return LevelMilestone
	}
	return LevelIssue
}

// Parent returns the ID with the last segment removed. Initiatives have
// no parent.
func (id ArtifactID) Parent() (ArtifactID, bool) {
	i := strings.LastIndexByte(string(id), '.')
	if i < 0 {
		return "", false
	}
	return id[:i], true
}

// Initiative returns the top-level segment of the ID.
func (id ArtifactID) Initiative() ArtifactID {
	if i := strings.IndexByte(string(id), '.'); i >= 0 {
		return id[:i]
	}
	return id
}

// IsChildOf reports whether id is a direct child of parent.
func (id ArtifactID) IsChildOf(parent ArtifactID) bool {
	p, ok := id.Parent()
	return ok && p == parent
}

// IsDescendantOf reports whether id sits anywhere below ancestor.
func (id ArtifactID) IsDescendantOf(ancestor ArtifactID) bool {
	return strings.HasPrefix(string(id), string(ancestor)+".")
}

// ChildIndex returns the numeric value of the last segment. Initiatives
// have no numeric segment and report false.
func (id ArtifactID) ChildIndex() (int, bool) {
	i := strings.LastIndexByte(string(id), '.')
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(string(id[i+1:]))
	if err != nil {
		return 0, false
	}
	return n, true
}

// CompareIDs orders IDs naturally: initiatives by letter-run length then
// alphabetically (A < Z < AA), children numerically, ancestors before
// their descendants. Returns -1, 0, or 1.
func CompareIDs(a, b ArtifactID) int {
	as := strings.Split(string(a), ".")
	bs := strings.Split(string(b), ".")
	if c := compareLetterRuns(as[0], bs[0]); c != 0 {
		return c
	}
	for i := 1; i < len(as) && i < len(bs); i++ {
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr != nil || berr != nil {
			// Malformed segments fall back to string order so sorting
			// stays total even over invalid input.
			if as[i] != bs[i] {
				if as[i] < bs[i] {
					return -1
				}
				return 1
			}
			continue
		}
		if an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(as) < len(bs):
		return -1
	case len(as) > len(bs):
		return 1
	}
	return 0
}

func compareLetterRuns(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	if a != b {
		if a < b {
			return -1
		}
		return 1
	}
	return 0
}
