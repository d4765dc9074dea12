package htmltable

import (
	"slices"
	"strings"

	"github.com/cybergodev/htmltable/internal"
	"golang.org/x/net/html"
)

// FilterKind identifies which rule a Filter applies.
type FilterKind int

const (
	// FilterNone accepts every table.
	FilterNone FilterKind = iota
	// FilterHeaders accepts tables whose header row contains every expected header.
	FilterHeaders
	// FilterAttribute accepts tables carrying an attribute with an exact value.
	FilterAttribute
)

func (k FilterKind) String() string {
	switch k {
	case FilterHeaders:
		return "headers"
	case FilterAttribute:
		return "attribute"
	default:
		return "none"
	}
}

// Filter narrows which <table> elements are extracted. The zero value
// accepts every table.
type Filter struct {
	kind    FilterKind
	headers []string
	key     string
	value   string
}

// All returns a Filter that accepts every table.
func All() Filter {
	return Filter{}
}

// WithHeaders accepts tables whose header row contains all of headers.
// Order does not matter and comparison is exact. With no headers every
// table is accepted.
func WithHeaders(headers ...string) Filter {
	return Filter{kind: FilterHeaders, headers: slices.Clone(headers)}
}

// WithAttr accepts tables whose attribute key has exactly value.
// Attribute names are compared lower-cased, as the HTML parser stores them.
func WithAttr(key, value string) Filter {
	return Filter{kind: FilterAttribute, key: strings.ToLower(key), value: value}
}

// WithID accepts the table whose id attribute equals id.
func WithID(id string) Filter {
	return WithAttr("id", id)
}

func (f Filter) Kind() FilterKind {
	return f.kind
}

// Headers returns the expected headers of a FilterHeaders filter.
func (f Filter) Headers() []string {
	return slices.Clone(f.headers)
}

// Attr returns the key and value of a FilterAttribute filter.
func (f Filter) Attr() (key, value string) {
	return f.key, f.value
}

func (f Filter) String() string {
	switch f.kind {
	case FilterHeaders:
		return "headers(" + strings.Join(f.headers, ",") + ")"
	case FilterAttribute:
		return "attr(" + f.key + "=" + f.value + ")"
	default:
		return "all"
	}
}

// cacheKey writes a stable encoding of the filter used in result cache keys.
func (f Filter) cacheKey() []byte {
	var sb strings.Builder
	sb.WriteByte(byte(f.kind))
	switch f.kind {
	case FilterHeaders:
		for _, h := range f.headers {
			sb.WriteString(h)
			sb.WriteByte(0)
		}
	case FilterAttribute:
		sb.WriteString(f.key)
		sb.WriteByte(0)
		sb.WriteString(f.value)
		sb.WriteByte(0)
	}
	return []byte(sb.String())
}

// needsHeaders reports whether matching can only happen after the header
// row is known.
func (f Filter) needsHeaders() bool {
	return f.kind == FilterHeaders && len(f.headers) > 0
}

// matchNode evaluates an attribute filter against the table element;
// other kinds always pass here.
func (f Filter) matchNode(n *html.Node) bool {
	if f.kind != FilterAttribute {
		return true
	}
	val, ok := internal.GetAttr(n, f.key)
	return ok && val == f.value
}

// matchHeaders evaluates a header filter against the extracted header row.
func (f Filter) matchHeaders(t *Table) bool {
	if !f.needsHeaders() {
		return true
	}
	for _, want := range f.headers {
		if !slices.Contains(t.headers, want) {
			return false
		}
	}
	return true
}
