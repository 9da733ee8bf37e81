package repotree

import "slices"

// RootID is the id of the synthetic repository node. Entry ids are relative
// paths and never start with a slash, so the root id cannot collide with them.
const RootID = "/"

// EdgeContains is the label carried by every edge in a [Tree].
const EdgeContains = "contains"

// NodeType classifies a graph node.
type NodeType string

// Node types.
const (
	TypeRepository NodeType = "repository"
	TypeDirectory  NodeType = "directory"
	TypeCode       NodeType = "code"
	TypeConfig     NodeType = "config"
	TypeDoc        NodeType = "doc"
	TypeOther      NodeType = "other"
)

// Node is a repository, directory or file in the containment graph.
type Node struct {
	ID          string   `json:"id" bson:"id"`
	Label       string   `json:"label" bson:"label"`
	Type        NodeType `json:"type" bson:"type"`
	Language    string   `json:"language,omitempty" bson:"language,omitempty"`
	Size        *int64   `json:"size,omitempty" bson:"size,omitempty"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
}

// IsFile reports whether the node is a file entry.
func (n Node) IsFile() bool {
	return n.Type != TypeRepository && n.Type != TypeDirectory
}

// Edge connects a directory to one of its entries.
type Edge struct {
	From  string `json:"from" bson:"from"`
	To    string `json:"to" bson:"to"`
	Label string `json:"label" bson:"label"`
}

// Tree is the result of one traversal.
type Tree struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	// Contents maps file ids to captured text.
	Contents map[string]string `json:"-"`

	// Languages holds the distinct code languages seen, sorted.
	Languages []string `json:"languages"`

	// Files lists every file id in traversal order.
	Files []string `json:"-"`

	// FilesRead counts files whose content was captured.
	FilesRead int `json:"-"`

	index map[string]int
}

func newTree(name string) *Tree {
	t := &Tree{
		Contents: make(map[string]string),
		index:    make(map[string]int),
	}
	t.addNode(Node{ID: RootID, Label: name, Type: TypeRepository})
	return t
}

func (t *Tree) addNode(n Node) {
	t.index[n.ID] = len(t.Nodes)
	t.Nodes = append(t.Nodes, n)
}

func (t *Tree) addChild(parent string, n Node) {
	t.addNode(n)
	t.Edges = append(t.Edges, Edge{From: parent, To: n.ID, Label: EdgeContains})
}

// Node returns the node with the given id.
func (t *Tree) Node(id string) (Node, bool) {
	i, ok := t.lookup(id)
	if !ok {
		return Node{}, false
	}
	return t.Nodes[i], true
}

// SetDescription attaches a description to an existing node. It reports
// whether the node exists.
func (t *Tree) SetDescription(id, desc string) bool {
	i, ok := t.lookup(id)
	if !ok {
		return false
	}
	t.Nodes[i].Description = desc
	return true
}

// CapturedCode returns the code nodes whose content was captured, in
// traversal order.
func (t *Tree) CapturedCode() []Node {
	var out []Node
	for _, n := range t.Nodes {
		if n.Type != TypeCode {
			continue
		}
		if _, ok := t.Contents[n.ID]; ok {
			out = append(out, n)
		}
	}
	return out
}

func (t *Tree) lookup(id string) (int, bool) {
	if t.index == nil {
		t.index = make(map[string]int, len(t.Nodes))
		for i, n := range t.Nodes {
			t.index[n.ID] = i
		}
	}
	i, ok := t.index[id]
	return i, ok
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
