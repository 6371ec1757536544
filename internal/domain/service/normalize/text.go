package normalize

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// paragraph marks a block boundary, lineBreak a <br>.
const (
	paragraph = "\n\n"
	lineBreak = "\n"
)

//nolint:gochecknoglobals
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.Header: true, atom.Footer: true, atom.Blockquote: true, atom.Pre: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true, atom.Dl: true, atom.Dt: true, atom.Dd: true,
	atom.Table: true, atom.Tr: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Hr: true, atom.Figure: true,
}

//nolint:gochecknoglobals
var skippedElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Template: true,
	atom.Iframe: true, atom.Svg: true, atom.Head: true,
}

// parseFragment never fails on malformed markup; the HTML5 parser recovers.
func parseFragment(s string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode})
	}

	return doc
}

// htmlToText renders visible text with paragraph and line breaks kept.
func htmlToText(doc *goquery.Document) string {
	var sb strings.Builder
	for _, n := range doc.Nodes {
		walk(&sb, n)
	}

	return collapse(norm.NFC.String(sb.String()))
}

func walk(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		// Raw newlines inside text are plain whitespace in HTML.
		sb.WriteString(strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(n.Data))
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
		if n.DataAtom == atom.Br {
			sb.WriteString(lineBreak)
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		sb.WriteString(paragraph)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(sb, c)
	}
	if block {
		sb.WriteString(paragraph)
	}
}

// collapse squeezes whitespace inside lines and reduces runs of blank lines
// to a single paragraph break.
func collapse(s string) string {
	var (
		sb     strings.Builder
		blanks int
	)

	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blanks++
			continue
		}

		if sb.Len() > 0 {
			if blanks > 0 {
				sb.WriteString(paragraph)
			} else {
				sb.WriteString(lineBreak)
			}
		}
		sb.WriteString(line)
		blanks = 0
	}

	return sb.String()
}

// singleLine is used for titles, which never keep breaks.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
