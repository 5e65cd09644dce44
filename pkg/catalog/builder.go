package catalog

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateVersion is returned by [Builder.Insert] when a record's code
// is already occupied in the tree. Two rows with the same build number mean
// the source data is corrupt, so callers should fail the whole scrape.
var ErrDuplicateVersion = errors.New("version already in tree")

// Seed names a well-known branch by its numeric path prefix. Seeds give the
// major release lines their product names before any record is inserted.
type Seed struct {
	Path Code
	Name string
}

// DefaultSeeds names the known Exchange Server release lines.
var DefaultSeeds = []Seed{
	{Code{15, 2}, "Exchange Server 2019"},
	{Code{15, 1}, "Exchange Server 2016"},
	{Code{15, 0}, "Exchange Server 2013"},
	{Code{14}, "Exchange Server 2010"},
	{Code{8}, "Exchange Server 2007"},
	{Code{6, 5}, "Exchange Server 2003"},
	{Code{6, 0}, "Exchange 2000 Server"},
	{Code{5, 5}, "Exchange Server 5.5"},
	{Code{5, 0}, "Exchange Server 5.0"},
	{Code{4, 0}, "Exchange Server 4.0"},
}

// scaffold is one node of the mutable build tree. Children are keyed by the
// next path segment, which makes sibling uniqueness structural: two records
// can only collide by hitting the same terminal node.
type scaffold struct {
	path     Code
	name     string
	richName string
	record   *Record
	children map[int]*scaffold
}

// Builder accumulates seeds and records into a mutable scaffold tree and
// finalizes it into the immutable [Node] forest. The zero value is not
// usable; use [NewBuilder].
type Builder struct {
	root *scaffold
}

// NewBuilder creates a builder pre-populated with branch names from seeds.
// Seed order does not matter; names are attached purely by path.
func NewBuilder(seeds []Seed) *Builder {
	b := &Builder{root: newScaffold(nil)}
	for _, s := range seeds {
		b.root.descend(s.Path).name = s.Name
	}
	return b
}

func newScaffold(path Code) *scaffold {
	return &scaffold{path: path, children: make(map[int]*scaffold)}
}

// descend walks (creating as needed) the scaffold nodes along path and
// returns the terminal one.
func (s *scaffold) descend(path Code) *scaffold {
	node := s
	for _, key := range path {
		child, ok := node.children[key]
		if !ok {
			childPath := make(Code, len(node.path)+1)
			copy(childPath, node.path)
			childPath[len(node.path)] = key
			child = newScaffold(childPath)
			node.children[key] = child
		}
		node = child
	}
	return node
}

// Insert attaches rec at the node addressed by its full code, creating
// intermediate nodes as needed. Returns ErrDuplicateVersion if that node
// already holds a record.
func (b *Builder) Insert(rec *Record) error {
	node := b.root.descend(rec.Code)
	if node.record != nil {
		return fmt.Errorf("%w: %s (%s vs %s)", ErrDuplicateVersion, rec.Code, node.record.Name, rec.Name)
	}
	node.record = rec
	return nil
}

// Forest converts the scaffold into the immutable Node forest.
//
// Top-level trees are gathered at the first node (walking segments newest
// first) that carries a name or a record; anonymous structural layers above
// them are discarded. Within each tree, a structural node with exactly one
// child and neither name nor record is collapsed into that child, so purely
// pass-through levels do not deepen the rendered nesting. Children are
// ordered by descending path segment.
func (b *Builder) Forest() []*Node {
	forest := b.root.gatherTops()
	for _, t := range forest {
		t.link(nil)
	}
	return forest
}

// gatherTops yields the top-level trees in newest-first order.
func (s *scaffold) gatherTops() []*Node {
	if s.name != "" || s.record != nil {
		return []*Node{s.finalize()}
	}
	var tops []*Node
	for _, key := range s.sortedKeys() {
		tops = append(tops, s.children[key].gatherTops()...)
	}
	return tops
}

// finalize converts the subtree rooted at s into immutable nodes, collapsing
// pass-through levels.
func (s *scaffold) finalize() *Node {
	children := make([]*Node, 0, len(s.children))
	for _, key := range s.sortedKeys() {
		children = append(children, s.children[key].finalize())
	}
	if s.name == "" && s.record == nil && len(children) == 1 {
		return children[0]
	}
	return &Node{
		Path:     s.path,
		Name:     s.name,
		RichName: s.richName,
		Record:   s.record,
		Children: children,
	}
}

// sortedKeys returns the child segment keys in descending order.
func (s *scaffold) sortedKeys() []int {
	keys := make([]int, 0, len(s.children))
	for k := range s.children {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))
	return keys
}
