package catalog

import (
	"errors"
	"testing"
	"time"
)

// testNow is the fixed reference day used by classifier tests.
var testNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// rec builds a record with an exact date n days before testNow.
func rec(t *testing.T, name, code string, daysAgo int) *Record {
	t.Helper()
	c, err := ParseCode(code)
	if err != nil {
		t.Fatalf("bad test code %q: %v", code, err)
	}
	return &Record{
		Name: name,
		Code: c,
		Date: ReleaseDate{Day: testNow.AddDate(0, 0, -daysAgo)},
	}
}

// recNoDate builds a record with an unparseable date placeholder.
func recNoDate(t *testing.T, name, code string) *Record {
	t.Helper()
	c, err := ParseCode(code)
	if err != nil {
		t.Fatalf("bad test code %q: %v", code, err)
	}
	return &Record{Name: name, Code: c, Date: ReleaseDate{Display: "Unknown: n/a"}}
}

func buildForest(t *testing.T, seeds []Seed, records ...*Record) []*Node {
	t.Helper()
	b := NewBuilder(seeds)
	for _, r := range records {
		if err := b.Insert(r); err != nil {
			t.Fatalf("Insert(%s): %v", r.Code, err)
		}
	}
	return b.Forest()
}

func TestBuilderEveryRecordReachable(t *testing.T) {
	seeds := []Seed{{Code{15, 2}, "Line A"}, {Code{14}, "Line B"}}
	records := []*Record{
		rec(t, "A CU1 build 1", "15.2.1.1", 40),
		rec(t, "A CU1 build 2", "15.2.1.2", 20),
		rec(t, "A CU2", "15.2.2.1", 10),
		rec(t, "B RTM", "14.0.100.1", 900),
	}
	forest := buildForest(t, seeds, records...)

	found := make(map[string]int)
	for _, tree := range forest {
		tree.Walk(func(n *Node) bool {
			if n.Record != nil {
				found[n.Record.Code.String()]++
			}
			return true
		})
	}
	for _, r := range records {
		if found[r.Code.String()] != 1 {
			t.Errorf("record %s found %d times, want exactly 1", r.Code, found[r.Code.String()])
		}
	}
}

func TestBuilderChildrenNewestFirst(t *testing.T) {
	forest := buildForest(t, []Seed{{Code{15, 2}, "Line A"}},
		rec(t, "CU1", "15.2.1.1", 90),
		rec(t, "CU3", "15.2.3.1", 10),
		rec(t, "CU2", "15.2.2.1", 50),
	)
	if len(forest) != 1 {
		t.Fatalf("forest size = %d, want 1", len(forest))
	}
	top := forest[0]
	want := []string{"15.2.3.1", "15.2.2.1", "15.2.1.1"}
	if len(top.Children) != len(want) {
		t.Fatalf("children = %d, want %d", len(top.Children), len(want))
	}
	for i, w := range want {
		if got := top.Children[i].Record.Code.String(); got != w {
			t.Errorf("child[%d] = %s, want %s", i, got, w)
		}
	}
}

func TestBuilderDuplicateVersion(t *testing.T) {
	b := NewBuilder(nil)
	if err := b.Insert(rec(t, "first", "15.2.1.1", 10)); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := b.Insert(rec(t, "second", "15.2.1.1", 5))
	if !errors.Is(err, ErrDuplicateVersion) {
		t.Fatalf("expected ErrDuplicateVersion, got %v", err)
	}
}

func TestBuilderForestOrder(t *testing.T) {
	// Top-level trees come out newest-first by path segment.
	forest := buildForest(t, []Seed{{Code{14}, "Old"}, {Code{15, 2}, "New"}},
		rec(t, "old build", "14.0.1.1", 500),
		rec(t, "new build", "15.2.1.1", 10),
	)
	if len(forest) != 2 {
		t.Fatalf("forest size = %d, want 2", len(forest))
	}
	if forest[0].Name != "New" || forest[1].Name != "Old" {
		t.Errorf("forest order = [%s, %s], want [New, Old]", forest[0].Name, forest[1].Name)
	}
}

func TestBuilderCollapsesPassThrough(t *testing.T) {
	// Seed (15,2) with a single CU branch: the anonymous (15) and the
	// single-child chain below the seed must not add nesting levels.
	forest := buildForest(t, []Seed{{Code{15, 2}, "Line A"}},
		rec(t, "only build", "15.2.1.1", 10),
	)
	if len(forest) != 1 {
		t.Fatalf("forest size = %d, want 1", len(forest))
	}
	top := forest[0]
	if top.Name != "Line A" {
		t.Fatalf("top = %q, want seed name", top.Name)
	}
	// (15,2,1) has one child and no name/record, so the record hangs
	// directly off the seeded node.
	if len(top.Children) != 1 {
		t.Fatalf("top children = %d, want 1", len(top.Children))
	}
	child := top.Children[0]
	if child.Record == nil || child.Record.Code.String() != "15.2.1.1" {
		t.Errorf("pass-through level not collapsed: child = %+v", child)
	}
}

func TestBuilderUnseededRecordBecomesOwnTree(t *testing.T) {
	forest := buildForest(t, []Seed{{Code{15, 2}, "Line A"}},
		rec(t, "stray", "16.1.1.1", 10),
		rec(t, "seeded", "15.2.1.1", 10),
	)
	if len(forest) != 2 {
		t.Fatalf("forest size = %d, want 2", len(forest))
	}
	if forest[0].Record == nil || forest[0].Record.Name != "stray" {
		t.Errorf("stray record should surface as its own newest-first tree, got %+v", forest[0])
	}
}

func TestBuilderSeedOrderIrrelevant(t *testing.T) {
	a := buildForest(t, []Seed{{Code{15, 2}, "A"}, {Code{15, 1}, "B"}}, rec(t, "x", "15.2.1.1", 1))
	b := buildForest(t, []Seed{{Code{15, 1}, "B"}, {Code{15, 2}, "A"}}, rec(t, "x", "15.2.1.1", 1))
	if a[0].Name != b[0].Name || len(a) != len(b) {
		t.Errorf("seed order changed the forest: %v vs %v", a[0].Name, b[0].Name)
	}
}
