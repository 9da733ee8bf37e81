package repotree

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

var fillColors = map[NodeType]string{
	TypeRepository: "\"#fde68a\"",
	TypeDirectory:  "\"#e5e7eb\"",
	TypeCode:       "\"#bfdbfe\"",
	TypeConfig:     "\"#bbf7d0\"",
	TypeDoc:        "\"#fbcfe8\"",
	TypeOther:      "white",
}

// ToDOT converts a tree to Graphviz DOT format. Directories and the
// repository are drawn as folders, files as rounded boxes colored by type.
func ToDOT(t *Tree) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.15;\n")
	buf.WriteString("\n")

	for _, n := range t.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(n), ", "))
	}

	buf.WriteString("\n")
	for _, e := range t.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n Node) []string {
	label := n.Label
	if n.Language != "" {
		label += "\n" + n.Language
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !n.IsFile() {
		attrs = append(attrs, "shape=folder", "style=filled")
	}
	if c, ok := fillColors[n.Type]; ok {
		attrs = append(attrs, "fillcolor="+c)
	}
	if n.Description != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Description))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
