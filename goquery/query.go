// Package goquery implements the listing and species extractors on top of
// goquery CSS selection.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// newDocument parses HTML into a goquery document.
func newDocument(s string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(s))
}

// text returns the text of the first selected element with runs of
// whitespace collapsed to single spaces. Returns "" for an empty selection.
func text(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	return collapse(sel.First().Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// findHeading returns the first element matching tag whose text contains
// marker. The selection is empty when no heading matches.
func findHeading(doc *goquery.Document, tag, marker string) *goquery.Selection {
	return doc.Find(tag).FilterFunction(func(_ int, sel *goquery.Selection) bool {
		return strings.Contains(sel.Text(), marker)
	}).First()
}

// firstLine returns the text of the first selected element up to its first
// line break, either a <br> element or a newline inside a text node.
// Leading blank lines are skipped.
func firstLine(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}

	var b strings.Builder
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		switch n.Type {
		case html.TextNode:
			lines := strings.Split(n.Data, "\n")
			for i, line := range lines {
				b.WriteString(line)
				if i < len(lines)-1 && strings.TrimSpace(b.String()) != "" {
					return true
				}
			}
		case html.ElementNode:
			if n.DataAtom == atom.Br {
				return strings.TrimSpace(b.String()) != ""
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	for c := sel.Get(0).FirstChild; c != nil; c = c.NextSibling {
		if walk(c) {
			break
		}
	}
	return collapse(b.String())
}
