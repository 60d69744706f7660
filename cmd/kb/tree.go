package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kodebaseai/artifacts-sub003/internal/storage"
	"github.com/kodebaseai/artifacts-sub003/internal/types"
	"github.com/kodebaseai/artifacts-sub003/internal/ui"
)

var treeCmd = &cobra.Command{
	Use:     "tree [id]",
	Short:   "Show the artifact hierarchy as a tree",
	Args:    cobra.MaximumNArgs(1),
	GroupID: GroupArtifacts,
	Run:     runTree,
}

func init() {
	treeCmd.Flags().BoolP("all", "a", false, "Include cancelled and archived artifacts")
	rootCmd.AddCommand(treeCmd)
}

type treeNode struct {
	artifactSummary
	Children []treeNode `json:"children,omitempty"`
}

func runTree(cmd *cobra.Command, args []string) {
	includeAll, _ := cmd.Flags().GetBool("all")

	snap, err := store.Snapshot(rootCtx)
	if err != nil {
		FatalErrorRespectJSON("loading workspace: %v", err)
	}

	var roots []*types.Artifact
	if len(args) == 1 {
		id, err := types.ParseID(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		root, err := snap.Get(id)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		roots = []*types.Artifact{root}
	} else {
		for _, a := range snap.All() {
			if a.Level() == types.LevelInitiative {
				roots = append(roots, a)
			}
		}
	}

	if jsonOutput {
		nodes := make([]treeNode, 0, len(roots))
		for _, r := range roots {
			nodes = append(nodes, buildTreeNode(snap, r, includeAll))
		}
		outputJSON(nodes)
		return
	}

	if len(roots) == 0 {
		fmt.Println("No artifacts found.")
		return
	}
	for i, r := range roots {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(treeLine(snap, r))
		printSubtree(snap, r.ID, "", includeAll)
	}
}

// treeLine is formatArtifactLine plus a completed-children fraction for
// nodes that have any.
func treeLine(snap *storage.Snapshot, a *types.Artifact) string {
	line := formatArtifactLine(a)
	if fraction := progressFraction(snap, a.ID); fraction != "" {
		line += " " + ui.RenderMuted(fraction)
	}
	return line
}

// progressFraction reports direct-child completion as "[completed/total]".
// Cancelled and archived children drop out of the denominator.
func progressFraction(snap *storage.Snapshot, id types.ArtifactID) string {
	children, _ := snap.Children(id)
	total, completed := 0, 0
	for _, c := range children {
		switch c.CurrentState() {
		case types.StateCancelled, types.StateArchived:
			continue
		case types.StateCompleted:
			completed++
		}
		total++
	}
	if total == 0 {
		return ""
	}
	return fmt.Sprintf("[%d/%d]", completed, total)
}

func buildTreeNode(snap *storage.Snapshot, a *types.Artifact, includeAll bool) treeNode {
	node := treeNode{artifactSummary: newArtifactSummary(a)}
	children, _ := snap.Children(a.ID)
	for _, c := range visibleChildren(children, includeAll) {
		node.Children = append(node.Children, buildTreeNode(snap, c, includeAll))
	}
	return node
}

func printSubtree(snap *storage.Snapshot, id types.ArtifactID, prefix string, includeAll bool) {
	children, _ := snap.Children(id)
	children = visibleChildren(children, includeAll)
	for i, c := range children {
		connector, childPrefix := ui.TreeBranch, prefix+ui.TreePipe
		if i == len(children)-1 {
			connector, childPrefix = ui.TreeLast, prefix+ui.TreeSpace
		}
		fmt.Printf("%s%s%s\n", prefix, connector, treeLine(snap, c))
		printSubtree(snap, c.ID, childPrefix, includeAll)
	}
}

func visibleChildren(children []*types.Artifact, includeAll bool) []*types.Artifact {
	if includeAll {
		return children
	}
	var out []*types.Artifact
	for _, c := range children {
		state := c.CurrentState()
		if state == types.StateCancelled || state == types.StateArchived {
			continue
		}
		out = append(out, c)
	}
	return out
}
