package catalog

import "strings"

// Infer runs the bottom-up inference pass over every tree in the forest,
// filling the derived Latest dates and guessing names for anonymous
// structural branches. It must run after [Builder.Forest] and before any
// [Classifier], and mutates only derived fields.
func Infer(forest []*Node) {
	for _, t := range forest {
		t.infer()
	}
}

// infer processes n's subtree in post-order.
//
// Latest aggregation: the node's latest date is the maximum of its own
// record's resolved date and every child's latest - but only if every child
// produced one. A single child with no date leaves this node's latest unset
// too; the gap propagates upward instead of being skipped, so an ancestor
// never claims a "newest release" that ignores part of its subtree.
func (n *Node) infer() {
	complete := true
	var dates []ReleaseDate
	if n.Record != nil && n.Record.Date.Known() {
		dates = append(dates, n.Record.Date)
	}
	allFlat := true
	for _, c := range n.Children {
		c.infer()
		if c.Latest.Known() {
			dates = append(dates, c.Latest)
		} else {
			complete = false
		}
		if !c.isFlatVersion() {
			allFlat = false
		}
	}

	if n.Name == "" && n.Record == nil && len(n.Children) > 0 && allFlat {
		n.guessName()
	}

	if complete && len(dates) > 0 {
		latest := dates[0]
		for _, d := range dates[1:] {
			if d.after(latest) {
				latest = d
			}
		}
		// The display string travels with the winning date as-is.
		n.Latest = latest
	}
}

// guessName names a structural branch whose children are all record-only
// leaves. The guess is the longest common prefix of the child names; when
// that prefix does not extend the parent branch's own name, it is assumed
// to be a coincidence and the newest child's full name is reused instead.
// The fallback is a documented heuristic and can misfire on unusual naming.
func (n *Node) guessName() {
	prefix := n.Children[0].Record.Name
	for _, c := range n.Children[1:] {
		prefix = commonPrefix(prefix, c.Record.Name)
	}
	prefix = strings.TrimSpace(prefix)

	parentName := ""
	if n.parent != nil {
		parentName = n.parent.Name
	}
	if prefix != "" && strings.HasPrefix(prefix, parentName) {
		n.Name = prefix
		return
	}
	newest := n.Children[0]
	n.Name = newest.Record.Name
	n.RichName = newest.Record.RichName
}

func commonPrefix(a, b string) string {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	i := 0
	for i < max && a[i] == b[i] {
		i++
	}
	return a[:i]
}
