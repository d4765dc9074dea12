package htmltable

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/cybergodev/htmltable/internal"
)

// Align is the horizontal alignment declared on a cell.
type Align = internal.CellAlign

const (
	AlignDefault = internal.AlignDefault
	AlignLeft    = internal.AlignLeft
	AlignCenter  = internal.AlignCenter
	AlignRight   = internal.AlignRight
	AlignJustify = internal.AlignJustify
)

// Cell is the text and layout metadata of one <td> or <th>.
// ColSpan and RowSpan are reported as declared; cells are never merged or padded.
type Cell struct {
	Text     string
	IsHeader bool
	ColSpan  int
	RowSpan  int
	Align    Align
	Width    string
}

// Table is one extracted <table>: an optional header row and the body rows.
// Rows may have different lengths. A Table holds no reference to the
// document it was extracted from and is safe for concurrent reads.
type Table struct {
	index   int
	attrs   map[string]string
	caption string
	headers []string
	head    []Cell
	rows    [][]Cell
}

// Index returns the position of the table among all <table> elements of
// the document, in document order, counting from zero.
func (t *Table) Index() int {
	return t.index
}

// Headers returns the header row, empty when the table has none.
func (t *Table) Headers() []string {
	return slices.Clone(t.headers)
}

// HeaderCells returns the header row with cell metadata.
func (t *Table) HeaderCells() []Cell {
	return slices.Clone(t.head)
}

// HasHeaders reports whether a header row was detected.
func (t *Table) HasHeaders() bool {
	return len(t.head) > 0
}

// HeaderIndex returns the column of the first header equal to label.
func (t *Table) HeaderIndex(label string) (int, bool) {
	idx := slices.Index(t.headers, label)
	return idx, idx >= 0
}

// Rows returns the text of every body row.
func (t *Table) Rows() [][]string {
	rows := make([][]string, len(t.rows))
	for i, cells := range t.rows {
		rows[i] = cellTexts(cells)
	}
	return rows
}

// Len returns the number of body rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Row returns body row i.
func (t *Table) Row(i int) (Row, error) {
	if i < 0 || i >= len(t.rows) {
		return Row{}, fmt.Errorf("%w: row %d (table has %d rows)", ErrNotFound, i, len(t.rows))
	}
	return t.row(i), nil
}

func (t *Table) row(i int) Row {
	return Row{index: i, headers: t.headers, cells: t.rows[i]}
}

// All iterates over the body rows in order.
func (t *Table) All() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i := range t.rows {
			if !yield(i, t.row(i)) {
				return
			}
		}
	}
}

// Get returns the cell of body row row under the header label.
func (t *Table) Get(row int, label string) (string, error) {
	r, err := t.Row(row)
	if err != nil {
		return "", err
	}
	return r.Get(label)
}

// Cell returns the cell of body row row at column col.
func (t *Table) Cell(row, col int) (string, error) {
	r, err := t.Row(row)
	if err != nil {
		return "", err
	}
	c, err := r.CellAt(col)
	if err != nil {
		return "", err
	}
	return c.Text, nil
}

// Attr returns the value of an attribute of the <table> element.
func (t *Table) Attr(key string) (string, bool) {
	val, ok := t.attrs[key]
	return val, ok
}

// Attrs returns a copy of the <table> element's attributes.
func (t *Table) Attrs() map[string]string {
	return maps.Clone(t.attrs)
}

// ID returns the id attribute of the table, or "".
func (t *Table) ID() string {
	return t.attrs["id"]
}

// Caption returns the text of the table's <caption>, or "".
func (t *Table) Caption() string {
	return t.caption
}

// Records returns each body row keyed by header label. Cells beyond the
// header row are left out and headers without a cell are absent keys.
// When a label repeats, the first column wins.
func (t *Table) Records() []map[string]string {
	records := make([]map[string]string, len(t.rows))
	for i, cells := range t.rows {
		rec := make(map[string]string, len(t.headers))
		for col, label := range t.headers {
			if col >= len(cells) {
				break
			}
			if _, seen := rec[label]; !seen {
				rec[label] = cells[col].Text
			}
		}
		records[i] = rec
	}
	return records
}

// Row is one body row of a Table.
type Row struct {
	index   int
	headers []string
	cells   []Cell
}

// Index returns the position of the row among the table's body rows.
func (r Row) Index() int {
	return r.index
}

func (r Row) Len() int {
	return len(r.cells)
}

func (r Row) IsEmpty() bool {
	return len(r.cells) == 0
}

// Cells returns the cell texts of the row.
func (r Row) Cells() []string {
	return cellTexts(r.cells)
}

// CellAt returns cell i with its metadata.
func (r Row) CellAt(i int) (Cell, error) {
	if i < 0 || i >= len(r.cells) {
		return Cell{}, fmt.Errorf("%w: column %d (row %d has %d cells)", ErrNotFound, i, r.index, len(r.cells))
	}
	return r.cells[i], nil
}

// Get returns the cell under header label. It fails when the table has no
// such header or the row is too short to reach it.
func (r Row) Get(label string) (string, error) {
	col := slices.Index(r.headers, label)
	if col < 0 {
		return "", fmt.Errorf("%w: header %q", ErrNotFound, label)
	}
	if col >= len(r.cells) {
		return "", fmt.Errorf("%w: row %d has no cell under header %q", ErrNotFound, r.index, label)
	}
	return r.cells[col].Text, nil
}

func cellTexts(cells []Cell) []string {
	texts := make([]string, len(cells))
	for i, c := range cells {
		texts[i] = c.Text
	}
	return texts
}
