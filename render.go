package htmltable

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strings"
)

var markdownCellReplacer = strings.NewReplacer(
	"|", `\|`,
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// Markdown renders the table as a GitHub-flavoured Markdown table. Short
// rows are padded in the output only. Without a header row the first body
// row takes the header position. An empty table renders as "".
func (t *Table) Markdown() string {
	lines := make([][]Cell, 0, len(t.rows)+1)
	if t.HasHeaders() {
		lines = append(lines, t.head)
	}
	lines = append(lines, t.rows...)
	if len(lines) == 0 {
		return ""
	}

	cols := 0
	for _, l := range lines {
		cols = max(cols, len(l))
	}
	if cols == 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(initialMarkdownSize)
	for i, l := range lines {
		sb.WriteByte('|')
		for col := 0; col < cols; col++ {
			sb.WriteByte(' ')
			if col < len(l) {
				sb.WriteString(markdownCellReplacer.Replace(l[col].Text))
			}
			sb.WriteString(" |")
		}
		sb.WriteByte('\n')
		if i == 0 {
			writeMarkdownSeparator(&sb, l, cols)
		}
	}
	return sb.String()
}

func writeMarkdownSeparator(sb *strings.Builder, header []Cell, cols int) {
	sb.WriteByte('|')
	for col := 0; col < cols; col++ {
		align := AlignDefault
		if col < len(header) {
			align = header[col].Align
		}
		switch align {
		case AlignLeft:
			sb.WriteString(" :--- |")
		case AlignCenter:
			sb.WriteString(" :---: |")
		case AlignRight:
			sb.WriteString(" ---: |")
		default:
			sb.WriteString(" --- |")
		}
	}
	sb.WriteByte('\n')
}

// WriteCSV writes the header row, when present, followed by the body rows.
// Rows keep their own lengths.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if t.HasHeaders() {
		if err := cw.Write(t.headers); err != nil {
			return err
		}
	}
	for _, cells := range t.rows {
		if err := cw.Write(cellTexts(cells)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

type tableJSON struct {
	Index   int               `json:"index"`
	Caption string            `json:"caption,omitempty"`
	Attrs   map[string]string `json:"attributes,omitempty"`
	Headers []string          `json:"headers"`
	Rows    [][]string        `json:"rows"`
}

// MarshalJSON encodes the table as its index, caption, attributes, headers and rows.
func (t *Table) MarshalJSON() ([]byte, error) {
	headers := t.headers
	if headers == nil {
		headers = []string{}
	}
	return json.Marshal(tableJSON{
		Index:   t.index,
		Caption: t.caption,
		Attrs:   t.attrs,
		Headers: headers,
		Rows:    t.Rows(),
	})
}
