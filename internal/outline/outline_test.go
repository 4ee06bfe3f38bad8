package outline

import (
	"reflect"
	"strings"
	"testing"
)

// shape renders a forest as "A(B,C) D" style text for compact assertions.
func shape(forest []*Node) string {
	var b strings.Builder
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for i, n := range nodes {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(n.Text)
			if len(n.Children) > 0 {
				b.WriteString("(")
				walk(n.Children)
				b.WriteString(")")
			}
		}
	}
	walk(forest)
	return b.String()
}

func TestBuild_SiblingGrouping(t *testing.T) {
	headings := []Heading{
		{Depth: 1, Text: "A", Anchor: "#a"},
		{Depth: 2, Text: "B", Anchor: "#b"},
		{Depth: 2, Text: "C", Anchor: "#c"},
		{Depth: 1, Text: "D", Anchor: "#d"},
	}
	forest := Build(headings, Options{})

	if got, want := shape(forest), "A(B C) D"; got != want {
		t.Fatalf("expected shape %q, got %q", want, got)
	}
	if len(forest[1].Children) != 0 {
		t.Errorf("expected D to have no children, got %d", len(forest[1].Children))
	}
	if forest[0].Children[0].Anchor != "#b" {
		t.Errorf("expected anchor #b, got %q", forest[0].Children[0].Anchor)
	}
}

func TestBuild_NoShallowerAncestorBecomesRoot(t *testing.T) {
	forest := Build([]Heading{{Depth: 2, Text: "X", Anchor: "#x"}}, Options{})

	if len(forest) != 1 {
		t.Fatalf("expected 1 root, got %d", len(forest))
	}
	if forest[0].Text != "X" || len(forest[0].Children) != 0 {
		t.Errorf("expected lone root X with no children, got %q with %d children", forest[0].Text, len(forest[0].Children))
	}
}

func TestBuild_DepthSkipAttachesToNearestOpenNode(t *testing.T) {
	headings := []Heading{
		{Depth: 1, Text: "A", Anchor: "#a"},
		{Depth: 3, Text: "Z", Anchor: "#z"},
	}
	forest := Build(headings, Options{})

	if got, want := shape(forest), "A(Z)"; got != want {
		t.Fatalf("expected shape %q, got %q", want, got)
	}
	// The skip is preserved, not normalized to depth 2.
	if forest[0].Children[0].Depth != 3 {
		t.Errorf("expected child depth 3, got %d", forest[0].Children[0].Depth)
	}
}

func TestBuild_ExclusionRemovesHeading(t *testing.T) {
	headings := []Heading{
		{Depth: 1, Text: "A", Anchor: "#a"},
		{Depth: 3, Text: "Z", Anchor: "#z"},
	}
	forest := Build(headings, Options{Exclude: []string{"Z"}})

	if got, want := shape(forest), "A"; got != want {
		t.Fatalf("expected shape %q, got %q", want, got)
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	if forest := Build(nil, Options{}); len(forest) != 0 {
		t.Errorf("expected empty forest for nil input, got %d roots", len(forest))
	}
	if forest := Build([]Heading{}, Options{}); len(forest) != 0 {
		t.Errorf("expected empty forest for empty input, got %d roots", len(forest))
	}
}

func TestBuild_ExclusionIsCaseInsensitiveExactMatch(t *testing.T) {
	headings := []Heading{
		{Depth: 2, Text: "Table Of Contents", Anchor: "#toc"},
		{Depth: 2, Text: "Contents", Anchor: "#contents"},
	}
	forest := Build(headings, Options{Exclude: []string{"table of contents"}})

	// Exact match only: "Contents" is not a match for the pattern.
	if got, want := shape(forest), "Contents"; got != want {
		t.Fatalf("expected shape %q, got %q", want, got)
	}
}

func TestBuild_ExclusionIsLiteralNotRegex(t *testing.T) {
	headings := []Heading{
		{Depth: 1, Text: "C++ (advanced)", Anchor: "#cpp"},
		{Depth: 1, Text: "Go", Anchor: "#go"},
	}
	forest := Build(headings, Options{Exclude: []string{"c++ (advanced)"}})

	if got, want := shape(forest), "Go"; got != want {
		t.Fatalf("expected shape %q, got %q", want, got)
	}
}

func TestBuild_DepthBounds(t *testing.T) {
	headings := []Heading{
		{Depth: 1, Text: "H1"},
		{Depth: 2, Text: "H2"},
		{Depth: 3, Text: "H3"},
		{Depth: 4, Text: "H4"},
	}
	forest := Build(headings, Options{MinDepth: 2, MaxDepth: 3})

	if got, want := shape(forest), "H2(H3)"; got != want {
		t.Fatalf("expected shape %q, got %q", want, got)
	}
}

func TestBuild_DefaultBoundsKeepDepthsOneThroughSix(t *testing.T) {
	headings := []Heading{
		{Depth: 1, Text: "H1"},
		{Depth: 6, Text: "H6"},
		{Depth: 7, Text: "H7"},
	}
	forest := Build(headings, Options{})

	if Count(forest) != 2 {
		t.Fatalf("expected 2 nodes with default bounds, got %d", Count(forest))
	}
	if got, want := shape(forest), "H1(H6)"; got != want {
		t.Errorf("expected shape %q, got %q", want, got)
	}
}

func TestBuild_FilteredHeadingsInvisibleToNesting(t *testing.T) {
	// B is excluded, so C must attach to A directly. B neither opens
	// nor closes ancestry for its neighbors.
	headings := []Heading{
		{Depth: 1, Text: "A"},
		{Depth: 2, Text: "B"},
		{Depth: 3, Text: "C"},
	}
	forest := Build(headings, Options{Exclude: []string{"B"}})

	if got, want := shape(forest), "A(C)"; got != want {
		t.Fatalf("expected shape %q, got %q", want, got)
	}
}

func TestBuild_SameDepthRunClosesPredecessor(t *testing.T) {
	headings := []Heading{
		{Depth: 2, Text: "A"},
		{Depth: 3, Text: "A1"},
		{Depth: 2, Text: "B"},
		{Depth: 3, Text: "B1"},
		{Depth: 3, Text: "B2"},
	}
	forest := Build(headings, Options{})

	if got, want := shape(forest), "A(A1) B(B1 B2)"; got != want {
		t.Fatalf("expected shape %q, got %q", want, got)
	}
}

func TestBuild_NodeCountMatchesFilteredHeadingCount(t *testing.T) {
	headings := []Heading{
		{Depth: 1, Text: "A"},
		{Depth: 2, Text: "B"},
		{Depth: 4, Text: "C"},
		{Depth: 2, Text: "D"},
		{Depth: 1, Text: "E"},
		{Depth: 3, Text: "F"},
	}

	cases := []struct {
		name string
		opts Options
		want int
	}{
		{"no filtering", Options{}, 6},
		{"depth 1..2", Options{MinDepth: 1, MaxDepth: 2}, 4},
		{"depth 2..3", Options{MinDepth: 2, MaxDepth: 3}, 3},
		{"exclude one", Options{Exclude: []string{"C"}}, 5},
		{"exclude all", Options{Exclude: []string{"A", "B", "C", "D", "E", "F"}}, 0},
	}
	for _, tc := range cases {
		forest := Build(headings, tc.opts)
		if got := Count(forest); got != tc.want {
			t.Errorf("%s: expected %d nodes, got %d", tc.name, tc.want, got)
		}
	}
}

func TestBuild_FilteringIsMonotonic(t *testing.T) {
	headings := []Heading{
		{Depth: 1, Text: "A"},
		{Depth: 2, Text: "B"},
		{Depth: 3, Text: "C"},
		{Depth: 2, Text: "D"},
	}

	base := Count(Build(headings, Options{MinDepth: 1, MaxDepth: 6}))
	narrowed := Count(Build(headings, Options{MinDepth: 2, MaxDepth: 3}))
	excluded := Count(Build(headings, Options{MinDepth: 1, MaxDepth: 6, Exclude: []string{"B"}}))

	if narrowed > base {
		t.Errorf("narrowing depth range increased node count: %d > %d", narrowed, base)
	}
	if excluded > base {
		t.Errorf("adding an exclusion increased node count: %d > %d", excluded, base)
	}
}

func TestBuild_Idempotent(t *testing.T) {
	headings := []Heading{
		{Depth: 1, Text: "A", Anchor: "#a"},
		{Depth: 3, Text: "B", Anchor: "#b"},
		{Depth: 2, Text: "C", Anchor: "#c"},
		{Depth: 2, Text: "D", Anchor: "#d"},
		{Depth: 5, Text: "E", Anchor: "#e"},
	}
	opts := Options{MaxDepth: 5}

	first := Build(headings, opts)
	second := Build(headings, opts)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two builds over the same input differ:\n%s\nvs\n%s", shape(first), shape(second))
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	headings := []Heading{
		{Depth: 1, Text: "A", Anchor: "#a"},
		{Depth: 2, Text: "B", Anchor: "#b"},
	}
	snapshot := make([]Heading, len(headings))
	copy(snapshot, headings)

	Build(headings, Options{Exclude: []string{"B"}})

	if !reflect.DeepEqual(headings, snapshot) {
		t.Errorf("input mutated: %v != %v", headings, snapshot)
	}
}

func TestBuild_ChildDepthStrictlyGreaterThanParent(t *testing.T) {
	headings := []Heading{
		{Depth: 2, Text: "A"},
		{Depth: 2, Text: "B"},
		{Depth: 4, Text: "C"},
		{Depth: 3, Text: "D"},
		{Depth: 1, Text: "E"},
	}
	forest := Build(headings, Options{})

	Walk(forest, func(n *Node, ancestors []*Node) {
		for _, anc := range ancestors {
			if anc.Depth >= n.Depth {
				t.Errorf("node %q (depth %d) nested under %q (depth %d)", n.Text, n.Depth, anc.Text, anc.Depth)
			}
		}
	})
}

func TestWalk_VisitsDocumentOrderWithAncestry(t *testing.T) {
	forest := Build([]Heading{
		{Depth: 1, Text: "A"},
		{Depth: 2, Text: "B"},
		{Depth: 3, Text: "C"},
		{Depth: 1, Text: "D"},
	}, Options{})

	var order []string
	var paths []string
	Walk(forest, func(n *Node, ancestors []*Node) {
		order = append(order, n.Text)
		var p []string
		for _, a := range ancestors {
			p = append(p, a.Text)
		}
		paths = append(paths, strings.Join(p, "/"))
	})

	wantOrder := []string{"A", "B", "C", "D"}
	if !reflect.DeepEqual(order, wantOrder) {
		t.Fatalf("expected visit order %v, got %v", wantOrder, order)
	}
	wantPaths := []string{"", "A", "A/B", ""}
	if !reflect.DeepEqual(paths, wantPaths) {
		t.Errorf("expected ancestor paths %v, got %v", wantPaths, paths)
	}
}

func TestCount_EmptyForest(t *testing.T) {
	if got := Count(nil); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
