package internal

import (
	"regexp"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

var builderPool = sync.Pool{
	New: func() any {
		sb := &strings.Builder{}
		sb.Grow(builderInitialSize)
		return sb
	},
}

func getStringBuilder() *strings.Builder {
	return builderPool.Get().(*strings.Builder)
}

func putStringBuilder(sb *strings.Builder) {
	sb.Reset()
	builderPool.Put(sb)
}

// WalkNodes visits node and its descendants depth-first in document order.
// Returning false from fn skips the children of the current node.
func WalkNodes(node *html.Node, fn func(*html.Node) bool) {
	if node == nil || !fn(node) {
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		WalkNodes(child, fn)
	}
}

func IsElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

// IsNonContentElement reports whether text below tag never renders as cell content.
func IsNonContentElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}

// GetAttr returns the value of the attribute named key.
func GetAttr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, attr := range n.Attr {
		if attr.Namespace == "" && attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// CellText concatenates the text nodes below a cell and trims the result.
// Nested tables are skipped; their cells belong to the nested table.
func CellText(cell *html.Node, normalize bool) string {
	sb := getStringBuilder()
	defer putStringBuilder(sb)

	for c := cell.FirstChild; c != nil; c = c.NextSibling {
		WalkNodes(c, func(n *html.Node) bool {
			switch n.Type {
			case html.TextNode:
				sb.WriteString(n.Data)
			case html.ElementNode:
				return n.Data != "table" && !IsNonContentElement(n.Data)
			}
			return true
		})
	}
	return CleanCellText(sb.String(), normalize)
}

// CleanCellText trims surrounding whitespace and, when normalize is set,
// collapses every inner whitespace run to a single space.
func CleanCellText(text string, normalize bool) string {
	text = strings.TrimSpace(text)
	if normalize && text != "" {
		text = whitespaceRun.ReplaceAllString(text, " ")
	}
	return text
}

// DocumentDepth returns the depth of the deepest node below n, stopping as
// soon as limit is exceeded.
func DocumentDepth(n *html.Node, limit int) int {
	return depthOf(n, 0, limit)
}

func depthOf(n *html.Node, depth, limit int) int {
	if depth > limit {
		return depth
	}
	deepest := depth
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if d := depthOf(c, depth+1, limit); d > deepest {
			deepest = d
			if deepest > limit {
				break
			}
		}
	}
	return deepest
}
