// Package repotree walks a materialized repository and builds its
// containment graph.
//
// The walker produces one [Node] per non-ignored directory and file, plus a
// synthetic repository node with id [RootID]. Every non-root node has exactly
// one incoming "contains" [Edge] from its parent directory, so the edge set is
// a tree rooted at [RootID].
//
// # Content Capture
//
// While walking, the text of a prioritized subset of files is captured into
// [Tree.Contents]: every code file, the ecosystem manifests named in the
// allow-list, and the repository readme. Capture is bounded by a global file
// count ([Options.MaxFilesToRead]) and a per-file byte cap
// ([Options.MaxFileSize]); an oversized file is skipped entirely and does not
// count against the budget.
//
// # Ignored Directories
//
// Directories such as .git and node_modules are pruned from their parent's
// listing before they are opened, so nothing beneath them is read or emitted.
// [IsIgnoredDir] exposes the same table to other walkers.
//
// # Usage
//
//	tree, err := repotree.WalkDir(ctx, "/tmp/checkout", repotree.Options{})
//	if err != nil {
//	    return err
//	}
//	dot := repotree.ToDOT(tree)
package repotree
