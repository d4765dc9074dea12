package htmltable_test

import (
	"reflect"
	"testing"

	"github.com/cybergodev/htmltable"
)

func TestFilterConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filter   htmltable.Filter
		wantKind htmltable.FilterKind
		wantStr  string
	}{
		{name: "zero value", filter: htmltable.Filter{}, wantKind: htmltable.FilterNone, wantStr: "all"},
		{name: "all", filter: htmltable.All(), wantKind: htmltable.FilterNone, wantStr: "all"},
		{name: "headers", filter: htmltable.WithHeaders("Name", "Age"), wantKind: htmltable.FilterHeaders, wantStr: "headers(Name,Age)"},
		{name: "attribute", filter: htmltable.WithAttr("Class", "data"), wantKind: htmltable.FilterAttribute, wantStr: "attr(class=data)"},
		{name: "id", filter: htmltable.WithID("prices"), wantKind: htmltable.FilterAttribute, wantStr: "attr(id=prices)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.filter.Kind(); got != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", got, tt.wantKind)
			}
			if got := tt.filter.String(); got != tt.wantStr {
				t.Errorf("String() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestFilterHeadersCopied(t *testing.T) {
	t.Parallel()

	headers := []string{"Name", "Age"}
	f := htmltable.WithHeaders(headers...)
	headers[0] = "changed"

	if got := f.Headers(); !reflect.DeepEqual(got, []string{"Name", "Age"}) {
		t.Errorf("Headers() = %q, want [Name Age]", got)
	}
	key, value := htmltable.WithID("x").Attr()
	if key != "id" || value != "x" {
		t.Errorf("Attr() = %q, %q, want id, x", key, value)
	}
}

func TestFilterByHeaders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		headers []string
		wantIDs []string
		want    int
	}{
		{name: "no headers matches all", html: htmlTwoTables, headers: nil, want: 2},
		{name: "shared header", html: htmlTwoTables, headers: []string{"Name"}, want: 2},
		{name: "order does not matter", html: htmlTwoTables, headers: []string{"Age", "Name"}, wantIDs: []string{"first"}, want: 1},
		{name: "second table only", html: htmlTwoTables, headers: []string{"Weight"}, wantIDs: []string{"second"}, want: 1},
		{name: "unknown header", html: htmlTwoTables, headers: []string{"Name", "BAD"}, want: 0},
		{name: "case sensitive", html: htmlTwoTables, headers: []string{"name"}, want: 0},
		{name: "td first row is not a header", html: tableTD, headers: []string{"Name"}, want: 0},
		{name: "header only table", html: tableTH, headers: []string{"Age", "Name"}, want: 1},
		{name: "td cells of a header row count as headers", html: `<table><tr><td>Name</td><th>Age</th></tr><tr><td>Al</td><td>9</td></tr></table>`, headers: []string{"Name"}, want: 1},
		{name: "empty table with empty filter", html: tableEmpty, headers: []string{}, want: 1},
		{name: "empty table with headers", html: tableEmpty, headers: []string{"Name"}, want: 0},
		{name: "no tables", html: htmlNoTable, headers: []string{"Name"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tables := htmltable.FindTablesInNode(parseDoc(t, tt.html), htmltable.WithHeaders(tt.headers...))
			if len(tables) != tt.want {
				t.Fatalf("got %d tables, want %d", len(tables), tt.want)
			}
			for i, id := range tt.wantIDs {
				if tables[i].ID() != id {
					t.Errorf("tables[%d].ID() = %q, want %q", i, tables[i].ID(), id)
				}
			}
		})
	}
}

func TestFilterByAttribute(t *testing.T) {
	t.Parallel()

	page := `<html><body>
		<table id="stock"><tr><th>Item</th></tr><tr><td>bolt</td></tr></table>
		<table id="prices" class="wide"><tr><th>Item</th><th>Price</th></tr><tr><td>bolt</td><td>0.10</td></tr></table>
		<table class="wide"><tr><td>note</td></tr></table>
	</body></html>`

	tests := []struct {
		name   string
		filter htmltable.Filter
		want   []int
	}{
		{name: "by id", filter: htmltable.WithID("prices"), want: []int{1}},
		{name: "by class", filter: htmltable.WithAttr("class", "wide"), want: []int{1, 2}},
		{name: "attribute name case folded", filter: htmltable.WithAttr("ID", "stock"), want: []int{0}},
		{name: "value is case sensitive", filter: htmltable.WithID("Prices"), want: []int{}},
		{name: "value must match exactly", filter: htmltable.WithID("price"), want: []int{}},
		{name: "missing attribute", filter: htmltable.WithAttr("summary", ""), want: []int{}},
		{name: "empty id", filter: htmltable.WithID(""), want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tables := htmltable.FindTablesInNode(parseDoc(t, page), tt.filter)
			got := make([]int, 0, len(tables))
			for _, tbl := range tables {
				got = append(got, tbl.Index())
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("matched indexes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterKindString(t *testing.T) {
	t.Parallel()

	for kind, want := range map[htmltable.FilterKind]string{
		htmltable.FilterNone:      "none",
		htmltable.FilterHeaders:   "headers",
		htmltable.FilterAttribute: "attribute",
	} {
		if got := kind.String(); got != want {
			t.Errorf("FilterKind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}
