package htmltable

import (
	"iter"

	"github.com/cybergodev/htmltable/internal"
	"golang.org/x/net/html"
)

// Scan walks doc depth-first and yields every <table> accepted by f, in
// document order. Tables nested inside other tables are visited as well.
// The document is only read, and must not be modified while iterating.
func Scan(doc *html.Node, f Filter) iter.Seq[*Table] {
	return scanTables(doc, f, false)
}

// FindTablesInNode returns the tables of an already parsed document that
// are accepted by f. It never fails; with no match the slice is empty.
func FindTablesInNode(doc *html.Node, f Filter) []*Table {
	return collectTables(doc, f, false)
}

func collectTables(doc *html.Node, f Filter, normalize bool) []*Table {
	tables := make([]*Table, 0, initialTablesCap)
	for t := range scanTables(doc, f, normalize) {
		tables = append(tables, t)
	}
	return tables
}

func scanTables(doc *html.Node, f Filter, normalize bool) iter.Seq[*Table] {
	return func(yield func(*Table) bool) {
		s := &scanner{filter: f, normalize: normalize, yield: yield}
		s.walk(doc)
	}
}

type scanner struct {
	filter    Filter
	normalize bool
	index     int // count of <table> elements seen so far
	yield     func(*Table) bool
	skip      func(*html.Node) bool // optional; skipped tables keep no index
}

// walk returns false once the consumer stops the iteration.
func (s *scanner) walk(n *html.Node) bool {
	if n == nil {
		return true
	}
	if n.Type == html.ElementNode && n.Data == "table" && n.Namespace == "" {
		if s.skip != nil && s.skip(n) {
			return true
		}
		idx := s.index
		s.index++
		if t := s.extract(n, idx); t != nil && !s.yield(t) {
			return false
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !s.walk(c) {
			return false
		}
	}
	return true
}

// extract builds the Table for n, or returns nil when the filter rejects it.
func (s *scanner) extract(n *html.Node, idx int) *Table {
	if !s.filter.matchNode(n) {
		return nil
	}

	rows := internal.TableRows(n)
	t := &Table{
		index: idx,
		attrs: tableAttrs(n),
	}
	if caption := internal.Caption(n); caption != nil {
		t.caption = internal.CellText(caption, s.normalize)
	}

	body := rows
	if len(rows) > 0 {
		cells := internal.RowCells(rows[0].Node)
		if len(cells) > 0 && (rows[0].InHead || internal.HasHeaderCell(cells)) {
			t.head = s.buildCells(cells)
			t.headers = cellTexts(t.head)
			body = rows[1:]
		}
	}
	if !s.filter.matchHeaders(t) {
		return nil
	}

	t.rows = make([][]Cell, 0, len(body))
	for _, r := range body {
		t.rows = append(t.rows, s.buildCells(internal.RowCells(r.Node)))
	}
	return t
}

func (s *scanner) buildCells(nodes []*html.Node) []Cell {
	cells := make([]Cell, len(nodes))
	for i, n := range nodes {
		cells[i] = Cell{
			Text:     internal.CellText(n, s.normalize),
			IsHeader: n.Data == "th",
			ColSpan:  internal.GetColSpan(n),
			RowSpan:  internal.GetRowSpan(n),
			Align:    internal.GetCellAlign(n),
			Width:    internal.GetCellWidth(n),
		}
	}
	return cells
}

func tableAttrs(n *html.Node) map[string]string {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		if a.Namespace != "" {
			continue
		}
		// Duplicate attributes resolve to the first occurrence.
		if _, dup := attrs[a.Key]; !dup {
			attrs[a.Key] = a.Val
		}
	}
	return attrs
}
