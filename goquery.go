package htmltable

import (
	"cmp"
	"slices"

	"github.com/PuerkitoBio/goquery"
	"github.com/cybergodev/htmltable/internal"
	"golang.org/x/net/html"
)

// FindTablesInDocument returns the tables of a goquery document accepted by f.
func FindTablesInDocument(doc *goquery.Document, f Filter) []*Table {
	if doc == nil {
		return []*Table{}
	}
	return FindTablesInSelection(doc.Selection, f)
}

// FindTablesInSelection scans the subtrees of every node in sel, so a
// caller that already narrowed a page with goquery can extract from just
// that region. Selected nodes are visited in document order whatever order
// the selection was built in, and table indexes count across the whole
// selection. A table reachable from two selected nodes is returned once.
func FindTablesInSelection(sel *goquery.Selection, f Filter) []*Table {
	tables := make([]*Table, 0, initialTablesCap)
	if sel == nil {
		return tables
	}

	seen := make(map[*html.Node]bool)
	s := &scanner{filter: f}
	s.yield = func(t *Table) bool {
		tables = append(tables, t)
		return true
	}
	s.skip = func(n *html.Node) bool {
		if seen[n] {
			return true
		}
		seen[n] = true
		return false
	}
	for _, n := range inDocumentOrder(sel.Nodes) {
		s.walk(n)
	}
	return tables
}

// inDocumentOrder sorts nodes by their preorder position in their tree.
func inDocumentOrder(nodes []*html.Node) []*html.Node {
	if len(nodes) < 2 {
		return nodes
	}
	pos := make(map[*html.Node]int)
	for _, n := range nodes {
		root := n
		for root.Parent != nil {
			root = root.Parent
		}
		if _, done := pos[root]; done {
			continue
		}
		internal.WalkNodes(root, func(c *html.Node) bool {
			pos[c] = len(pos)
			return true
		})
	}
	sorted := slices.Clone(nodes)
	slices.SortStableFunc(sorted, func(a, b *html.Node) int {
		return cmp.Compare(pos[a], pos[b])
	})
	return sorted
}
