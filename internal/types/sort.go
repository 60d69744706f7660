package types

import "sort"

// SortArtifacts orders artifacts in place by natural ID order, ancestors
// before descendants. All listings and snapshots use this ordering so
// output is deterministic.
func SortArtifacts(list []*Artifact) {
	sort.SliceStable(list, func(i, j int) bool {
		return CompareIDs(list[i].ID, list[j].ID) < 0
	})
}

// SortIDs orders IDs in place by natural ID order.
func SortIDs(ids []ArtifactID) {
	sort.SliceStable(ids, func(i, j int) bool {
		return CompareIDs(ids[i], ids[j]) < 0
	})
}
