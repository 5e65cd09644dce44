package catalog

import (
	"testing"
	"time"
)

func classify(t *testing.T, forest []*Node) {
	t.Helper()
	Infer(forest)
	AgeHeuristic{Now: testNow}.Classify(forest)
}

func findCode(t *testing.T, forest []*Node, code string) *Node {
	t.Helper()
	var found *Node
	for _, tree := range forest {
		tree.Walk(func(n *Node) bool {
			if n.Record != nil && n.Record.Code.String() == code {
				found = n
				return false
			}
			return true
		})
	}
	if found == nil {
		t.Fatalf("code %s not in forest", code)
	}
	return found
}

func TestAgeHeuristicSupersededLeaf(t *testing.T) {
	// Two builds in the same branch: only the newest patch stays alive.
	forest := buildForest(t, []Seed{{Code{15, 2}, "Line A"}},
		rec(t, "build 1", "15.2.1.1", 10),
		rec(t, "build 2", "15.2.1.2", 5),
	)
	classify(t, forest)

	if findCode(t, forest, "15.2.1.1").Alive.Alive() {
		t.Error("superseded leaf 15.2.1.1 should be dead")
	}
	if !findCode(t, forest, "15.2.1.2").Alive.Alive() {
		t.Error("newest patch 15.2.1.2 should be alive")
	}
}

func TestAgeHeuristicStaleBranch(t *testing.T) {
	// A branch with no release for 200 days is dead regardless of parent.
	forest := buildForest(t, []Seed{{Code{15, 2}, "Line A"}},
		rec(t, "old", "15.2.1.1", 200),
	)
	classify(t, forest)

	if findCode(t, forest, "15.2.1.1").Alive.Alive() {
		t.Error("200-day-old build should be dead")
	}
	if forest[0].Alive.Alive() {
		t.Error("branch whose latest release is 200 days old should be dead")
	}
}

func TestAgeHeuristicLaggingSibling(t *testing.T) {
	// A record branch that lagged its siblings by more than the comparison
	// window is stale even though it is younger than the absolute cutoff.
	forest := buildForest(t, []Seed{{Code{15, 2}, "Line A"}},
		rec(t, "CU1 final", "15.2.1.1", 60),
		rec(t, "CU2 current", "15.2.2.1", 5),
	)
	classify(t, forest)

	if findCode(t, forest, "15.2.1.1").Alive.Alive() {
		t.Error("build lagging the branch by 55 days should be dead")
	}
	if !findCode(t, forest, "15.2.2.1").Alive.Alive() {
		t.Error("current build should be alive")
	}
}

func TestAgeHeuristicMonotonicDownward(t *testing.T) {
	// No node may be alive under a dead parent.
	forest := buildForest(t, DefaultSeeds,
		rec(t, "2016 CU23", "15.1.2507.6", 400),
		rec(t, "2016 CU23 SU", "15.1.2507.44", 5),
		rec(t, "2019 CU14", "15.2.1544.4", 5),
	)
	classify(t, forest)

	for _, tree := range forest {
		var walk func(n *Node, parentAlive bool)
		walk = func(n *Node, parentAlive bool) {
			if !parentAlive && n.Alive.Alive() {
				t.Errorf("node %s alive under dead parent", n.Path)
			}
			for _, c := range n.Children {
				walk(c, n.Alive.Alive())
			}
		}
		walk(tree, true)
	}
}

func TestAgeHeuristicNoDateIsDead(t *testing.T) {
	forest := buildForest(t, []Seed{{Code{15, 2}, "Line A"}},
		recNoDate(t, "undated", "15.2.1.1"),
	)
	classify(t, forest)

	if findCode(t, forest, "15.2.1.1").Alive.Alive() {
		t.Error("node without a latest date cannot be alive")
	}
}

func TestAgeHeuristicDefaults(t *testing.T) {
	// Zero-value thresholds fall back to the documented constants.
	forest := buildForest(t, []Seed{{Code{15, 2}, "Line A"}},
		rec(t, "recent", "15.2.1.1", 170),
	)
	Infer(forest)
	AgeHeuristic{Now: testNow}.Classify(forest)
	if !findCode(t, forest, "15.2.1.1").Alive.Alive() {
		t.Error("170-day-old single build should still be alive with the 180-day default")
	}

	AgeHeuristic{Now: testNow, MaxAge: 100 * 24 * time.Hour}.Classify(forest)
	if findCode(t, forest, "15.2.1.1").Alive.Alive() {
		t.Error("tightened MaxAge should kill the build")
	}
}

func TestCULabels(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"CU14, CU15", []string{"CU14", "CU15"}},
		{"CU15 and CU14 (targeted), CU15", []string{"CU15", "CU14"}},
		{"no updates listed", nil},
	}
	for _, tt := range tests {
		got := CULabels(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("CULabels(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("CULabels(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestSupportedOverride(t *testing.T) {
	// The override revives a branch the age heuristic would bury.
	forest := buildForest(t, []Seed{{Code{15, 2}, "Line A"}},
		rec(t, "Line A CU3 build 1", "15.2.3.1", 400),
		rec(t, "Line A CU3 build 2", "15.2.3.2", 300),
		rec(t, "Line A CU2 build 1", "15.2.2.1", 500),
	)
	Infer(forest)
	SupportedOverride{Supported: map[string][]string{
		"Line A": {"CU3"},
	}}.Classify(forest)

	top := forest[0]
	if !top.Alive.Alive() {
		t.Error("mapped branch top node should be alive")
	}
	cu3 := top.Children[0]
	if cu3.Name == "" || !cu3.Alive.Alive() {
		t.Errorf("CU3 branch should be named and alive, got %q %s", cu3.Name, cu3.Alive)
	}
	if !findCode(t, forest, "15.2.3.2").Alive.Alive() {
		t.Error("newest descendant of the supported CU should be alive")
	}
	if findCode(t, forest, "15.2.3.1").Alive.Alive() {
		t.Error("older sibling outside the latest chain keeps its prior state")
	}
	if findCode(t, forest, "15.2.2.1").Alive.Alive() {
		t.Error("unsupported CU keeps its prior state")
	}
}

func TestSupportedOverrideUnmappedBranchUntouched(t *testing.T) {
	forest := buildForest(t, []Seed{{Code{15, 2}, "Line A"}, {Code{15, 1}, "Line B"}},
		rec(t, "Line A CU1 x", "15.2.1.1", 10),
		rec(t, "Line B CU1 x", "15.1.1.1", 10),
	)
	Infer(forest)
	SupportedOverride{Supported: map[string][]string{"Line A": nil}}.Classify(forest)

	for _, tree := range forest {
		if tree.Name == "Line B" && tree.Alive != LivenessUnknown {
			t.Errorf("unmapped branch changed state: %s", tree.Alive)
		}
	}
}
