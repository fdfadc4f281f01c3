package scene

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render writes the markup of e, including e itself, to w.
func Render(w io.Writer, e *Element) error {
	return html.Render(w, toHTML(e, nil))
}

// InnerMarkup serializes the children of e.
func InnerMarkup(e *Element) (string, error) {
	var buf bytes.Buffer
	for _, ch := range e.ChildNodes() {
		if err := html.Render(&buf, toHTML(ch, nil)); err != nil {
			return buf.String(), err
		}
	}
	return buf.String(), nil
}

// toHTML converts a scene subtree into an x/net/html tree. If index is
// non-nil, it records the origin of every converted node.
func toHTML(e *Element, index map[*html.Node]*Element) *html.Node {
	var n *html.Node
	if e.kind == html.TextNode {
		n = &html.Node{Type: html.TextNode, Data: e.text}
	} else {
		n = &html.Node{
			Type:     html.ElementNode,
			Data:     e.name,
			DataAtom: atom.Lookup([]byte(e.name)),
			Attr:     e.Attributes(),
		}
		if e.ns == SVGNamespace {
			n.Namespace = "svg"
		}
	}
	if index != nil {
		index[n] = e
	}
	for _, ch := range e.ChildNodes() {
		c := toHTML(ch, index)
		if c.Type == html.TextNode && isRawText(n) {
			c.Data = strings.ReplaceAll(c.Data, "</", `<\/`)
		}
		n.AppendChild(c)
	}
	return n
}

// isRawText is true for HTML elements whose text children are rendered
// without escaping. Their content must not close the element early.
func isRawText(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Namespace != "" {
		return false
	}
	switch n.Data {
	case "iframe", "noembed", "noframes", "noscript", "plaintext", "script", "style", "xmp":
		return true
	}
	return false
}
