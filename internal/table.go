package internal

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// CellAlign is the horizontal alignment declared on a table cell.
type CellAlign int

const (
	AlignDefault CellAlign = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignJustify
)

func (a CellAlign) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "default"
	}
}

// RowNode is a <tr> that belongs directly to a table.
type RowNode struct {
	Node   *html.Node
	InHead bool // row sits inside the table's <thead>
}

// TableRows returns the rows owned by table in document order. Rows of
// nested tables are not included.
func TableRows(table *html.Node) []RowNode {
	rows := make([]RowNode, 0, initialRowsCap)
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "tr":
			rows = append(rows, RowNode{Node: c})
		case "thead", "tbody", "tfoot":
			inHead := c.Data == "thead"
			for tr := c.FirstChild; tr != nil; tr = tr.NextSibling {
				if IsElement(tr, "tr") {
					rows = append(rows, RowNode{Node: tr, InHead: inHead})
				}
			}
		}
	}
	return rows
}

// RowCells returns the <td> and <th> children of a row.
func RowCells(tr *html.Node) []*html.Node {
	cells := make([]*html.Node, 0, initialCellsCap)
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if IsElement(c, "td") || IsElement(c, "th") {
			cells = append(cells, c)
		}
	}
	return cells
}

// HasHeaderCell reports whether any cell of the row is a <th>.
func HasHeaderCell(cells []*html.Node) bool {
	for _, c := range cells {
		if c.Data == "th" {
			return true
		}
	}
	return false
}

// Caption returns the table's own <caption> element, or nil.
func Caption(table *html.Node) *html.Node {
	for c := table.FirstChild; c != nil; c = c.NextSibling {
		if IsElement(c, "caption") {
			return c
		}
	}
	return nil
}

// containsWord reports whether word occurs in text delimited by CSS
// boundaries, so "text-align:center" does not match inside "mytext-align:center".
func containsWord(text, word string) bool {
	if text == "" || word == "" {
		return false
	}
	for offset := 0; offset <= len(text)-len(word); {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(word)
		if (start == 0 || isCSSBoundary(text[start-1])) && (end == len(text) || isCSSBoundary(text[end])) {
			return true
		}
		offset = start + 1
	}
	return false
}

func isCSSBoundary(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', ';', ':', '"', '\'', '{', '}', ',':
		return true
	}
	return false
}

// GetCellAlign reads the alignment of a cell. The align attribute wins over
// text-align in the style attribute.
func GetCellAlign(n *html.Node) CellAlign {
	if val, ok := getAttrFold(n, "align"); ok {
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "left":
			return AlignLeft
		case "center":
			return AlignCenter
		case "right":
			return AlignRight
		case "justify":
			return AlignJustify
		}
	}

	style, ok := getAttrFold(n, "style")
	if !ok {
		return AlignDefault
	}
	style = strings.ToLower(style)
	style = strings.ReplaceAll(style, " :", ":")
	style = strings.ReplaceAll(style, ": ", ":")
	for _, candidate := range []struct {
		decl  string
		align CellAlign
	}{
		{"text-align:justify", AlignJustify},
		{"text-align:right", AlignRight},
		{"text-align:center", AlignCenter},
		{"text-align:left", AlignLeft},
	} {
		if containsWord(style, candidate.decl) {
			return candidate.align
		}
	}
	return AlignDefault
}

// GetColSpan returns the colspan of a cell, 1 when absent or invalid.
func GetColSpan(n *html.Node) int {
	return positiveIntAttr(n, "colspan")
}

// GetRowSpan returns the rowspan of a cell, 1 when absent or invalid.
func GetRowSpan(n *html.Node) int {
	return positiveIntAttr(n, "rowspan")
}

func positiveIntAttr(n *html.Node, key string) int {
	if val, ok := getAttrFold(n, key); ok {
		if v, err := strconv.Atoi(strings.TrimSpace(val)); err == nil && v > 0 {
			return v
		}
	}
	return 1
}

// GetCellWidth returns the declared width of a cell from the width
// attribute or the style width property.
func GetCellWidth(n *html.Node) string {
	if val, ok := getAttrFold(n, "width"); ok {
		if val = strings.TrimSpace(val); val != "" && val != "0" {
			return val
		}
	}
	style, ok := getAttrFold(n, "style")
	if !ok {
		return ""
	}
	for _, decl := range strings.Split(style, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found || !strings.EqualFold(strings.TrimSpace(name), "width") {
			continue
		}
		switch value = strings.TrimSpace(value); value {
		case "", "0", "0px", "0%":
		default:
			return value
		}
	}
	return ""
}

func getAttrFold(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}
