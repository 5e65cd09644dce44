package catalog

// Liveness is the tri-state support flag computed for every node after the
// tree is fully built. Nodes start as LivenessUnknown; a classifier pass
// (see [Classifier]) resolves them.
type Liveness int

const (
	// LivenessUnknown means no classifier has decided yet, or the
	// authoritative override did not reach this node.
	LivenessUnknown Liveness = iota
	// LivenessAlive marks a currently supported/recommended version.
	LivenessAlive
	// LivenessDead marks a superseded or out-of-support version.
	LivenessDead
)

// Alive reports whether the node was positively classified as supported.
func (l Liveness) Alive() bool { return l == LivenessAlive }

func (l Liveness) String() string {
	switch l {
	case LivenessAlive:
		return "alive"
	case LivenessDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Node is one level of the finalized version hierarchy: a major release
// line, an update branch, or a leaf build. Topology (Path, Record, Children)
// is fixed at build time by [Builder.Forest]; the derived fields Name,
// Latest and Alive are filled in by the inference and classification passes,
// after which the tree is read-only.
//
// A node carries a Record only when it corresponds to an exact released
// build (its Path length matches the record's code length). A node with
// children and no record is purely structural.
type Node struct {
	Path     Code    // numeric path prefix; empty only for a synthetic root
	Name     string  // display name, seeded or inferred; may be empty
	RichName string  // HTML anchor form of Name, when known
	Record   *Record // exact build at this node, nil for structural branches
	Children []*Node // ordered by descending leading segment (newest first)

	Latest ReleaseDate // newest release among this node and all descendants
	Alive  Liveness

	// parent is a non-owning back-reference used only for upward walks
	// (name inference, upgrade-target reporting). It is never serialized.
	parent *Node
}

// Parent returns the node's parent, or nil for a top-level node.
func (n *Node) Parent() *Node { return n.parent }

// WildCode returns the wildcard form of the node's path, e.g. "15.2.*",
// or "*" for an empty path. It is the display code for structural branches.
func (n *Node) WildCode() string {
	if len(n.Path) == 0 {
		return "*"
	}
	return n.Path.String() + ".*"
}

// BranchName returns the node's display name, falling back to its record's
// name for collapsed record-only branches.
func (n *Node) BranchName() string {
	if n.Name != "" {
		return n.Name
	}
	if n.Record != nil {
		return n.Record.Name
	}
	return ""
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// isFlatVersion reports whether the node is a record-only leaf, the shape
// name inference requires of every child before guessing a branch name.
func (n *Node) isFlatVersion() bool { return n.Record != nil && len(n.Children) == 0 }

// Walk visits the node and all descendants in pre-order (newest branch
// first). Traversal stops early if fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// link sets parent back-references for the whole subtree rooted at n.
func (n *Node) link(parent *Node) {
	n.parent = parent
	for _, c := range n.Children {
		c.link(n)
	}
}
