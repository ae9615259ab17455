// Package goquery implements the tenderparse document engine on top of
// github.com/PuerkitoBio/goquery. It classifies announcement pages into
// structural families, segments them into named sections and maps labeled
// fragments onto canonical record fields.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// nodePredicate reports whether iteration over siblings should stop at n.
type nodePredicate func(n *html.Node) bool

// eachSibling visits the following siblings of n in order until the stop
// predicate fires or the siblings are exhausted. Iteration is explicit
// rather than recursive so deeply nested word-processor exports cannot grow
// the stack.
func eachSibling(n *html.Node, stop nodePredicate, visit func(n *html.Node)) {
	for cur := n.NextSibling; cur != nil; cur = cur.NextSibling {
		if stop(cur) {
			return
		}
		visit(cur)
	}
}

// isElement reports whether n is an element with the given tag name.
func isElement(n *html.Node, tag string) bool {
	return n.Type == html.ElementNode && n.Data == tag
}

// containsElement reports whether tag occurs anywhere under n.
func containsElement(n *html.Node, tag string) bool {
	if isElement(n, tag) {
		return true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if containsElement(c, tag) {
			return true
		}
	}
	return false
}

// nodeText extracts the text of a single node for section assembly.
// Line-break elements become newlines, paragraph elements become one block
// each, and strong elements yield nothing because they are section titles.
func nodeText(n *html.Node) string {
	switch {
	case n.Type == html.TextNode:
		return n.Data
	case isElement(n, "strong"):
		return ""
	case isElement(n, "br"):
		return "\n"
	case isElement(n, "p"):
		text := subtreeText(n)
		if text == "" {
			return ""
		}
		return text + "\n"
	case n.Type == html.ElementNode:
		return subtreeText(n)
	}
	return ""
}

// subtreeText flattens all text under n, converting br elements to newlines.
func subtreeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		if isElement(n, "br") {
			sb.WriteString("\n")
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		// Paragraphs and table rows render as visual lines.
		if isElement(n, "p") || isElement(n, "tr") {
			sb.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return strings.TrimSpace(sb.String())
}

// precedingText collects the text nodes immediately before n within its
// parent, used to recover a field label that precedes an underlined value.
func precedingText(n *html.Node) string {
	var parts []string
	for cur := n.PrevSibling; cur != nil; cur = cur.PrevSibling {
		if cur.Type == html.TextNode {
			parts = append([]string{cur.Data}, parts...)
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// flattenedText returns the selection's text with br elements converted to
// newlines, so line-oriented heuristics can see the page's visual breaks.
func flattenedText(sel *goquery.Selection) string {
	var sb strings.Builder
	for _, n := range sel.Nodes {
		sb.WriteString(subtreeText(n))
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}

// collapseSpaces folds runs of whitespace into single spaces.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// collapseLineSpaces folds runs of spaces and tabs within each line,
// preserving the line structure produced by br and p conversion.
func collapseLineSpaces(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
