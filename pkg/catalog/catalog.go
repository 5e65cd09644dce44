package catalog

// Catalog is the top-level view handed to presentation and check code: the
// forest of classified version trees plus a flat index from dotted code to
// record. Build one with [Build] or assemble one from a decoded forest with
// [New]; after that it is read-only.
type Catalog struct {
	Forest []*Node

	index map[string]*Node
}

// Build runs the full tree construction over records: seed names, record
// insertion, finalization, bottom-up inference and the given classifier.
// It returns an error only for data-integrity violations (duplicate codes).
func Build(records []*Record, seeds []Seed, classifier Classifier) (*Catalog, error) {
	b := NewBuilder(seeds)
	for _, rec := range records {
		if err := b.Insert(rec); err != nil {
			return nil, err
		}
	}
	forest := b.Forest()
	Infer(forest)
	if classifier != nil {
		classifier.Classify(forest)
	}
	return New(forest), nil
}

// New wraps an already-built forest in a Catalog, indexing every record
// node by its code string.
func New(forest []*Node) *Catalog {
	c := &Catalog{Forest: forest, index: make(map[string]*Node)}
	for _, t := range forest {
		t.link(t.parent)
		t.Walk(func(n *Node) bool {
			if n.Record != nil {
				c.index[n.Record.Code.String()] = n
			}
			return true
		})
	}
	return c
}

// Lookup returns the record for a dotted code string, if the catalog has it.
func (c *Catalog) Lookup(code string) (*Record, bool) {
	n, ok := c.index[code]
	if !ok {
		return nil, false
	}
	return n.Record, true
}

// Find returns the tree node holding the record for code.
func (c *Catalog) Find(code string) (*Node, bool) {
	n, ok := c.index[code]
	return n, ok
}

// AliveCodes returns the codes of every record marked alive, newest branch
// first in depth-first order. The order is deterministic for a given tree.
func (c *Catalog) AliveCodes() []string {
	var codes []string
	for _, t := range c.Forest {
		t.Walk(func(n *Node) bool {
			if n.Record != nil && n.Alive.Alive() {
				codes = append(codes, n.Record.Code.String())
			}
			return true
		})
	}
	return codes
}

// Row is one display line of the rendered catalog table.
type Row struct {
	Depth     int    // nesting level, for indentation
	Name      string // plain display name
	RichName  string // HTML form of Name when a link is known
	Code      string // exact dotted code, or wildcard form for branches
	Date      string // display date, possibly approximate; may be empty
	Alive     bool
	HasRecord bool // true for exact builds, false for structural branches
}

// Rows flattens the forest into display rows, depth-first. Structural nodes
// that gained no name are skipped silently; their children still render one
// level deeper.
func (c *Catalog) Rows() []Row {
	var rows []Row
	for _, t := range c.Forest {
		appendRows(&rows, t, 0)
	}
	return rows
}

func appendRows(rows *[]Row, n *Node, depth int) {
	switch {
	case n.Record != nil:
		*rows = append(*rows, Row{
			Depth:     depth,
			Name:      n.Record.Name,
			RichName:  n.Record.RichName,
			Code:      n.Record.Code.String(),
			Date:      n.Record.Date.String(),
			Alive:     n.Alive.Alive(),
			HasRecord: true,
		})
	case n.Name != "":
		*rows = append(*rows, Row{
			Depth:    depth,
			Name:     n.Name,
			RichName: n.RichName,
			Code:     n.WildCode(),
			Date:     n.Latest.String(),
			Alive:    n.Alive.Alive(),
		})
	}
	for _, child := range n.Children {
		appendRows(rows, child, depth+1)
	}
}

// UpgradeTargets lists the records a server at code should move to, nearest
// first. Walking the matched node's ancestor chain, each level contributes
// its current newest descendant build, unless that build is the matched
// version itself or repeats the previous level's target. Typically this
// yields the newest patch of the same branch, then the newest build of the
// release line.
func (c *Catalog) UpgradeTargets(code string) []*Record {
	n, ok := c.index[code]
	if !ok {
		return nil
	}
	var targets []*Record
	last := n.Record.Code
	for anc := n.Parent(); anc != nil; anc = anc.Parent() {
		t := anc.newestBuild()
		if t == nil || t.Code.Compare(n.Record.Code) == 0 || t.Code.Compare(last) == 0 {
			continue
		}
		targets = append(targets, t)
		last = t.Code
	}
	return targets
}

// newestBuild follows the newest-child chain down to the most recent
// record-bearing node in n's subtree.
func (n *Node) newestBuild() *Record {
	for len(n.Children) > 0 {
		n = n.Children[0]
	}
	return n.Record
}
