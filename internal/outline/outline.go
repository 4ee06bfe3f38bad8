package outline

import "strings"

// Depth bounds applied when Options leaves them zero.
const (
	DefaultMinDepth = 1
	DefaultMaxDepth = 6
)

// Heading is a flat heading record in document order, produced by the
// markup parsers.
type Heading struct {
	Depth  int    // Nesting level, 1 is top-level.
	Text   string // Display text.
	Anchor string // Link target, e.g. "#installation".
}

// Node is a heading nested under its closest shallower predecessor.
type Node struct {
	Depth    int
	Text     string
	Anchor   string
	Children []*Node
}

// Options controls which headings survive filtering. Exclusion is a
// case-insensitive exact match against the heading text.
type Options struct {
	MinDepth int
	MaxDepth int
	Exclude  []string
}

func (o Options) withDefaults() Options {
	if o.MinDepth == 0 {
		o.MinDepth = DefaultMinDepth
	}
	if o.MaxDepth == 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

func (o Options) keep(h Heading) bool {
	if h.Depth < o.MinDepth || h.Depth > o.MaxDepth {
		return false
	}
	for _, pat := range o.Exclude {
		if strings.EqualFold(h.Text, pat) {
			return false
		}
	}
	return true
}

// Build nests a flat ordered heading sequence into a forest. Each heading
// groups under its nearest preceding heading of strictly lower depth;
// headings dropped by filtering are invisible to the depth comparisons.
// Depth skips (1 then 3) are kept as-is, not normalized. The input is
// never mutated.
func Build(headings []Heading, opts Options) []*Node {
	opts = opts.withDefaults()

	var forest []*Node
	var stack []*Node // Open nodes, shallowest first.

	for _, h := range headings {
		if !opts.keep(h) {
			continue
		}
		n := &Node{Depth: h.Depth, Text: h.Text, Anchor: h.Anchor}

		// Pop everything at this depth or deeper; none of it can be
		// an ancestor of the current heading.
		for len(stack) > 0 && stack[len(stack)-1].Depth >= h.Depth {
			stack = stack[:len(stack)-1]
		}

		if len(stack) == 0 {
			forest = append(forest, n)
		} else {
			top := stack[len(stack)-1]
			top.Children = append(top.Children, n)
		}
		stack = append(stack, n)
	}
	return forest
}

// Count returns the number of nodes in the forest, descendants included.
func Count(forest []*Node) int {
	total := 0
	for _, n := range forest {
		total += 1 + Count(n.Children)
	}
	return total
}

// Walk visits every node in document order. The ancestors slice is
// shallowest-first and reused between calls; copy it if it must outlive fn.
func Walk(forest []*Node, fn func(n *Node, ancestors []*Node)) {
	var walk func(nodes []*Node, ancestors []*Node)
	walk = func(nodes []*Node, ancestors []*Node) {
		for _, n := range nodes {
			fn(n, ancestors)
			if len(n.Children) > 0 {
				walk(n.Children, append(ancestors, n))
			}
		}
	}
	walk(forest, nil)
}
