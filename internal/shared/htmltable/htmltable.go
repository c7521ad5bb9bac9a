// Package htmltable provides the HTML traversal helpers the page scrapers
// share: node search, class matching and table extraction.
package htmltable

import (
	"strings"

	"golang.org/x/net/html"
)

// IsElement reports whether n is an element node with the given tag.
func IsElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

// Attr returns the value of the named attribute, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasClasses reports whether every given class is present on the node.
func HasClasses(n *html.Node, classes ...string) bool {
	have := strings.Fields(Attr(n, "class"))
	for _, want := range classes {
		found := false
		for _, c := range have {
			if c == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FindFirst returns the first node in document order matching the predicate.
func FindFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n == nil {
		return nil
	}
	if match(n) {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := FindFirst(child, match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every node matching the predicate in document order.
// Matched nodes are not descended into.
func FindAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if match(n) {
			out = append(out, n)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

// Text returns the node's text content with runs of whitespace (including
// non-breaking spaces) collapsed to single spaces.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Tables returns every table under n in document order.
func Tables(n *html.Node) []*html.Node {
	return FindAll(n, func(n *html.Node) bool { return IsElement(n, "table") })
}

// Rows returns the table's rows as cell texts. Header cells (th) and data
// cells (td) are treated alike; the caller decides which row is the header.
func Rows(table *html.Node) [][]string {
	var rows [][]string
	for _, tr := range FindAll(table, func(n *html.Node) bool { return IsElement(n, "tr") }) {
		var cells []string
		for child := tr.FirstChild; child != nil; child = child.NextSibling {
			if IsElement(child, "td") || IsElement(child, "th") {
				cells = append(cells, Text(child))
			}
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}
