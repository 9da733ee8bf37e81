package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/repoinsight/pkg/repotree"
)

// treeFlags holds the flags for the tree command.
type treeFlags struct {
	jsonOut bool
	dot     string
	svg     string
}

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var flags treeFlags

	cmd := &cobra.Command{
		Use:   "tree [dir]",
		Short: "Build the file graph of a directory",
		Long: `Tree walks a directory the way analyze does, classifying every file and
skipping build and dependency directories, and prints or exports the graph.`,
		Example: `  repoinsight tree . --svg tree.svg`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			prog := newProgress(c.Logger)
			t, err := repotree.WalkDir(cmd.Context(), dir, repotree.Options{Logger: c.Logger})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Walked %d nodes", len(t.Nodes)))

			if err := writeGraph(cmd.Context(), t, flags.dot, flags.svg); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if flags.jsonOut {
				return encodeJSON(w, t)
			}

			root, _ := t.Node(repotree.RootID)
			printSuccess(w, "%s", StyleValue.Render(root.Label))
			printStats(w,
				stat{len(t.Nodes), "nodes"},
				stat{len(t.Edges), "edges"},
				stat{t.FilesRead, "files captured"},
			)
			if len(t.Languages) > 0 {
				printKeyValue(w, "Languages", strings.Join(t.Languages, ", "))
			}
			printKeyValue(w, "Files", typeBreakdown(t))
			for _, p := range []string{flags.dot, flags.svg} {
				if p != "" {
					printFile(w, p)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "print nodes and edges as JSON")
	cmd.Flags().StringVar(&flags.dot, "dot", "", "write the graph as Graphviz DOT")
	cmd.Flags().StringVar(&flags.svg, "svg", "", "render the graph as SVG")

	return cmd
}

// typeBreakdown summarizes file counts per node type, e.g. "3 code · 1 doc".
func typeBreakdown(t *repotree.Tree) string {
	order := []repotree.NodeType{repotree.TypeCode, repotree.TypeConfig, repotree.TypeDoc, repotree.TypeOther}
	counts := make(map[repotree.NodeType]int)
	for _, n := range t.Nodes {
		if n.IsFile() {
			counts[n.Type]++
		}
	}
	var parts []string
	for _, typ := range order {
		if counts[typ] > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", counts[typ], typ))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " · ")
}
