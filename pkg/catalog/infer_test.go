package catalog

import (
	"testing"
)

func TestInferLatestDate(t *testing.T) {
	forest := buildForest(t, []Seed{{Code{15, 2}, "Line A"}},
		rec(t, "CU1 build 1", "15.2.1.1", 40),
		rec(t, "CU1 build 2", "15.2.1.2", 20),
		rec(t, "CU2 build 1", "15.2.2.1", 10),
	)
	Infer(forest)

	top := forest[0]
	if !top.Latest.Known() {
		t.Fatal("top latest date not computed")
	}
	if got := top.Latest.String(); got != testNow.AddDate(0, 0, -10).Format("2006-01-02") {
		t.Errorf("top latest = %s, want newest descendant date", got)
	}
	// The CU1 branch aggregates only its own subtree.
	cu1 := top.Children[1]
	if got := cu1.Latest.String(); got != testNow.AddDate(0, 0, -20).Format("2006-01-02") {
		t.Errorf("CU1 latest = %s, want its newest build date", got)
	}
}

func TestInferGapStopsPropagation(t *testing.T) {
	// One build with no usable date leaves its branch - and every ancestor -
	// without a latest date; the gap is not skipped.
	forest := buildForest(t, []Seed{{Code{15, 2}, "Line A"}},
		rec(t, "CU1 build 1", "15.2.1.1", 40),
		recNoDate(t, "CU1 build 2", "15.2.1.2"),
		rec(t, "CU2 build 1", "15.2.2.1", 10),
	)
	Infer(forest)

	top := forest[0]
	if top.Latest.Known() {
		t.Errorf("top latest should be unset when a descendant has no date, got %s", top.Latest)
	}
	cu1 := top.Children[1]
	if cu1.Latest.Known() {
		t.Errorf("gapped branch latest should be unset, got %s", cu1.Latest)
	}
	// The sibling branch with complete dates still aggregates.
	cu2 := top.Children[0]
	if !cu2.Latest.Known() {
		t.Error("complete sibling branch should still have a latest date")
	}
}

func TestInferCarriesDisplayString(t *testing.T) {
	// A month-only date that wins the maximum keeps its display form.
	b := NewBuilder([]Seed{{Code{15, 2}, "Line A"}})
	monthOnly := &Record{Name: "approx", Code: Code{15, 2, 1, 2}, Date: parseDate("September 2019")}
	if err := b.Insert(monthOnly); err != nil {
		t.Fatal(err)
	}
	exact := &Record{Name: "exact", Code: Code{15, 2, 1, 1}, Date: parseDate("March 4, 2019")}
	if err := b.Insert(exact); err != nil {
		t.Fatal(err)
	}
	forest := b.Forest()
	Infer(forest)

	top := forest[0]
	if top.Latest.Display != "2019-09" {
		t.Errorf("latest display = %q, want the winning placeholder carried as-is", top.Latest.Display)
	}
}

func TestInferNameFromCommonPrefix(t *testing.T) {
	forest := buildForest(t, []Seed{{Code{15, 2}, "Exchange Server 2019"}},
		rec(t, "Exchange Server 2019 CU14 May25SU", "15.2.1544.25", 10),
		rec(t, "Exchange Server 2019 CU14 Apr25SU", "15.2.1544.20", 40),
	)
	Infer(forest)

	top := forest[0]
	if len(top.Children) != 1 {
		t.Fatalf("children = %d, want 1", len(top.Children))
	}
	branch := top.Children[0]
	if branch.Name != "Exchange Server 2019 CU14" {
		t.Errorf("inferred name = %q, want common prefix", branch.Name)
	}
}

func TestInferNameFallbackToNewestChild(t *testing.T) {
	// The common prefix of the children does not extend the parent's name,
	// so the newest child's name is reused verbatim.
	forest := buildForest(t, []Seed{{Code{15, 2}, "Exchange Server 2019"}},
		rec(t, "Security Update 2", "15.2.1544.25", 10),
		rec(t, "Security Update 1", "15.2.1544.20", 40),
	)
	Infer(forest)

	branch := forest[0].Children[0]
	if branch.Name != "Security Update 2" {
		t.Errorf("inferred name = %q, want newest child's name", branch.Name)
	}
}

func TestInferNoNameForMixedChildren(t *testing.T) {
	// A branch with a non-leaf child is not a flat group and gets no guess.
	forest := buildForest(t, []Seed{{Code{15}, "Line"}},
		rec(t, "flat build", "15.2.2", 10),
		rec(t, "deep build 1", "15.2.1.1", 40),
		rec(t, "deep build 2", "15.2.1.2", 20),
	)
	Infer(forest)

	top := forest[0]
	if top.Name != "Line" {
		t.Fatalf("top = %q", top.Name)
	}
	// (15,2) groups a flat leaf and a nested branch, so it stays anonymous.
	if len(top.Children) != 1 {
		t.Fatalf("top children = %d, want 1", len(top.Children))
	}
	mixed := top.Children[0]
	if mixed.Record != nil {
		t.Fatalf("expected structural node, got record %s", mixed.Record.Code)
	}
	if mixed.Name != "" {
		t.Errorf("structural node with a non-flat child should not be named, got %q", mixed.Name)
	}
}
