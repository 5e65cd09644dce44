package catalog

import (
	"regexp"
	"strings"
	"time"
)

// Default thresholds for the age heuristic. An Exchange CU cadence is
// roughly twice a year with security updates in between, so a branch that
// has not released in 180 days is out of support, and a branch that lags
// its siblings by more than a month inside a living line is stale.
const (
	DefaultMaxAge        = 180 * 24 * time.Hour
	DefaultCompareWindow = 31 * 24 * time.Hour
)

// Classifier assigns a Liveness to every node of a fully built and inferred
// forest. The strategy is chosen once per run, before classification
// starts, and applies to the whole forest.
type Classifier interface {
	Classify(forest []*Node)
}

// AgeHeuristic classifies liveness from release dates alone. It is the
// fallback when the authoritative supported-builds source is unreachable.
type AgeHeuristic struct {
	Now           time.Time     // reference day; zero means time.Now()
	MaxAge        time.Duration // a node older than this is dead (default 180d)
	CompareWindow time.Duration // sibling lag tolerance (default 31d)
}

// Classify walks each tree top-down. A node is alive when its parent is
// alive and its own latest release is younger than MaxAge. A record-bearing
// node that survived those checks is still demoted when it lagged the rest
// of its branch by more than CompareWindow, or when it is a leaf build that
// is not the newest patch in its branch.
func (h AgeHeuristic) Classify(forest []*Node) {
	now := h.Now
	if now.IsZero() {
		now = time.Now()
	}
	maxAge := h.MaxAge
	if maxAge == 0 {
		maxAge = DefaultMaxAge
	}
	window := h.CompareWindow
	if window == 0 {
		window = DefaultCompareWindow
	}
	for _, t := range forest {
		h.classify(t, now, maxAge, window, true, ReleaseDate{})
	}
}

func (h AgeHeuristic) classify(n *Node, now time.Time, maxAge, window time.Duration, parentAlive bool, parentLatest ReleaseDate) {
	alive := parentAlive && n.Latest.Known() && now.Sub(n.Latest.Day) < maxAge
	if alive && n.Record != nil && parentLatest.Known() {
		if parentLatest.Day.Sub(n.Latest.Day) > window {
			alive = false
		} else if n.IsLeaf() && parentLatest.Day.After(n.Latest.Day) {
			// A leaf that is not the newest patch of its branch is superseded.
			alive = false
		}
	}
	if alive {
		n.Alive = LivenessAlive
	} else {
		n.Alive = LivenessDead
	}
	for _, c := range n.Children {
		h.classify(c, now, maxAge, window, alive, n.Latest)
	}
}

// cuLabel matches supported cumulative-update tokens like "CU14".
var cuLabel = regexp.MustCompile(`CU\d+`)

// CULabels extracts the distinct "CU<number>" tokens from free text, in
// order of first appearance.
func CULabels(text string) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, l := range cuLabel.FindAllString(text, -1) {
		if !seen[l] {
			seen[l] = true
			labels = append(labels, l)
		}
	}
	return labels
}

// SupportedOverride classifies liveness from an authoritative mapping of
// product branch names to their supported cumulative-update labels, as
// published in a second source table. It is preferred over [AgeHeuristic]
// whenever that table was fetched and parsed successfully.
type SupportedOverride struct {
	// Supported maps a top-level branch display name (e.g.
	// "Exchange Server 2019") to labels like "CU14". A branch absent from
	// the map is simply left untouched.
	Supported map[string][]string
}

// Classify marks each mapped top-level branch alive, then for every
// supported label finds the child branch whose name contains it and marks
// that branch plus its whole newest-descendant chain alive. Nodes not
// reached by this walk keep their prior tri-state.
func (o SupportedOverride) Classify(forest []*Node) {
	for _, top := range forest {
		labels, ok := o.Supported[top.BranchName()]
		if !ok {
			continue
		}
		top.Alive = LivenessAlive
		for _, label := range labels {
			for _, child := range top.Children {
				if strings.Contains(child.BranchName(), label) {
					markLatestChain(child)
					break
				}
			}
		}
	}
}

// markLatestChain marks n and the chain of newest children below it alive.
func markLatestChain(n *Node) {
	for n != nil {
		n.Alive = LivenessAlive
		if len(n.Children) == 0 {
			return
		}
		n = n.Children[0]
	}
}
