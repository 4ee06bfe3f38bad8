package outline

import "github.com/beevik/etree"

// Label on the disclosure widget in collapsible mode.
const disclosureLabel = "Table of Contents"

// RenderOptions selects the display mode and presentational class hooks.
type RenderOptions struct {
	Collapsible bool   // Wrap the list in a <details> disclosure.
	Open        bool   // Disclosure starts expanded.
	ListClass   string // class attribute for every <ul>.
	ItemClass   string // class attribute for every <li>.
}

// Render walks the forest and emits a nested list of links, optionally
// inside a collapsible disclosure. An empty forest renders as an empty
// string with no list container and no disclosure shell.
func Render(forest []*Node, opts RenderOptions) (string, error) {
	if len(forest) == 0 {
		return "", nil
	}

	doc := etree.NewDocument()
	doc.WriteSettings = etree.WriteSettings{
		CanonicalText:    true,
		CanonicalAttrVal: true,
		CanonicalEndTags: true,
	}

	parent := &doc.Element
	if opts.Collapsible {
		details := doc.CreateElement("details")
		if opts.Open {
			details.CreateAttr("open", "open")
		}
		details.CreateElement("summary").SetText(disclosureLabel)
		parent = details
	}
	appendList(parent, forest, opts)

	return doc.WriteToString()
}

// appendList emits a <ul> under parent with one <li><a> per node, each
// followed by a nested list when the node has children.
func appendList(parent *etree.Element, nodes []*Node, opts RenderOptions) {
	ul := parent.CreateElement("ul")
	if opts.ListClass != "" {
		ul.CreateAttr("class", opts.ListClass)
	}
	for _, n := range nodes {
		li := ul.CreateElement("li")
		if opts.ItemClass != "" {
			li.CreateAttr("class", opts.ItemClass)
		}
		a := li.CreateElement("a")
		a.CreateAttr("href", n.Anchor)
		a.SetText(n.Text)
		if len(n.Children) > 0 {
			appendList(li, n.Children, opts)
		}
	}
}
