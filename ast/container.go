package ast

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/npillmayer/chartmarkup/scene"
	"golang.org/x/net/html"
)

// ContainerParser parses markup for hosts which cannot parse markup by
// themselves. It tokenizes the markup into a detached scratch container of
// the host document and reads the result back. The container is released
// in every case, including errors.
type ContainerParser struct {
	Host *scene.Document
}

// Parse parses markup. Leading and trailing whitespace is removed first.
func (p ContainerParser) Parse(markup string) ([]*Node, error) {
	if p.Host == nil {
		return nil, ErrNoHost
	}
	markup = strings.TrimSpace(markup)
	if markup == "" {
		return nil, nil
	}
	container := p.Host.CreateContainer()
	defer p.Host.Release(container)
	if err := tokenizeInto(container, markup); err != nil {
		return nil, fmt.Errorf("ast: cannot tokenize markup: %w", err)
	}
	var nodes []*Node
	for _, ch := range container.ChildNodes() {
		nodes = appendTopLevel(nodes, FromScene(ch))
	}
	tracer().Debugf("ast: parsed %d top-level nodes via container", len(nodes))
	return nodes, nil
}

// voidElements never have content and are never closed explicitly.
var voidElements = map[string]struct{}{
	"area": {}, "base": {}, "br": {}, "col": {}, "embed": {}, "hr": {},
	"img": {}, "input": {}, "link": {}, "meta": {}, "source": {},
	"track": {}, "wbr": {},
}

// svgAttributes lists SVG attribute names with upper-case letters. The
// tokenizer reports attribute names in lower case, a full HTML parser
// restores these for elements in the SVG namespace.
var svgAttributes = func() map[string]string {
	names := []string{
		"attributeName", "attributeType", "baseFrequency", "baseProfile",
		"calcMode", "clipPathUnits", "diffuseConstant", "edgeMode",
		"filterUnits", "glyphRef", "gradientTransform", "gradientUnits",
		"kernelMatrix", "kernelUnitLength", "keyPoints", "keySplines",
		"keyTimes", "lengthAdjust", "limitingConeAngle", "markerHeight",
		"markerUnits", "markerWidth", "maskContentUnits", "maskUnits",
		"numOctaves", "pathLength", "patternContentUnits", "patternTransform",
		"patternUnits", "pointsAtX", "pointsAtY", "pointsAtZ", "preserveAlpha",
		"preserveAspectRatio", "primitiveUnits", "refX", "refY", "repeatCount",
		"repeatDur", "requiredExtensions", "requiredFeatures",
		"specularConstant", "specularExponent", "spreadMethod", "startOffset",
		"stdDeviation", "stitchTiles", "surfaceScale", "systemLanguage",
		"tableValues", "targetX", "targetY", "textLength", "viewBox",
		"viewTarget", "xChannelSelector", "yChannelSelector", "zoomAndPan",
	}
	m := make(map[string]string, len(names))
	for _, name := range names {
		m[strings.ToLower(name)] = name
	}
	return m
}()

// tokenizeInto builds elements below container from a token stream.
// End tags close the nearest open element of the same name; stray end
// tags are ignored and unclosed elements are closed at the end of input.
// Table rows and cells get their implied row group and row.
func tokenizeInto(container *scene.Element, markup string) error {
	doc := container.OwnerDocument()
	z := html.NewTokenizer(strings.NewReader(markup))
	open := []*scene.Element{container}
	push := func(el *scene.Element) {
		open[len(open)-1].AppendChild(el)
		open = append(open, el)
	}
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				return nil
			}
			return z.Err()
		}
		top := open[len(open)-1]
		tok := z.Token()
		switch tt {
		case html.TextToken:
			top.AppendChild(doc.CreateTextNode(tok.Data))
		case html.StartTagToken, html.SelfClosingTagToken:
			ns := top.Namespace()
			if tok.Data == "svg" {
				ns = scene.SVGNamespace
			}
			if ns != scene.SVGNamespace {
				switch {
				case tok.Data == "tr" && top.NodeName() == "table":
					push(doc.CreateElementNS(ns, "tbody"))
				case (tok.Data == "td" || tok.Data == "th") && top.NodeName() == "table":
					push(doc.CreateElementNS(ns, "tbody"))
					push(doc.CreateElementNS(ns, "tr"))
				case (tok.Data == "td" || tok.Data == "th") && isRowGroup(top.NodeName()):
					push(doc.CreateElementNS(ns, "tr"))
				}
			}
			el := doc.CreateElementNS(ns, tok.Data)
			for _, a := range tok.Attr {
				key := a.Key
				if ns == scene.SVGNamespace {
					if name, ok := svgAttributes[key]; ok {
						key = name
					}
				}
				el.SetAttribute(key, a.Val)
			}
			if _, void := voidElements[tok.Data]; tt == html.StartTagToken && !void {
				push(el)
			} else {
				open[len(open)-1].AppendChild(el)
			}
		case html.EndTagToken:
			for i := len(open) - 1; i > 0; i-- {
				if open[i].NodeName() == tok.Data {
					open = open[:i]
					break
				}
			}
		}
	}
}

func isRowGroup(tag string) bool {
	return tag == "tbody" || tag == "thead" || tag == "tfoot"
}

// FromScene reads a scene subtree back into a Node. Inline styles are
// reported as attribute "style".
func FromScene(e *scene.Element) *Node {
	if e.NodeType() == html.TextNode {
		return Text(e.NodeValue())
	}
	n := &Node{TagName: e.NodeName()}
	if e.HasAttributes() {
		attrs := e.Attributes()
		n.Attributes = make(Attributes, len(attrs))
		for _, a := range attrs {
			n.Attributes[a.Key] = String(a.Val)
		}
	}
	for _, ch := range e.ChildNodes() {
		n.Children = append(n.Children, FromScene(ch))
	}
	return n
}
