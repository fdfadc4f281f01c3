package scene

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"fmt"
	"strings"

	"github.com/npillmayer/chartmarkup/scene/style"
	"github.com/npillmayer/chartmarkup/tree"
	"golang.org/x/net/html"
)

// Element is a node of the visual tree: either an element in a namespace
// or a text node.
type Element struct {
	tree.Node[*Element] // we build on top of general purpose tree
	doc                 *Document
	kind                html.NodeType
	ns                  string
	name                string
	text                string
	attrs               []html.Attribute
	styles              *style.PropertyMap
}

func newElement(doc *Document, kind html.NodeType, ns, name string) *Element {
	e := &Element{doc: doc, kind: kind, ns: ns, name: name}
	e.Payload = e // Payload will always reference the element itself
	return e
}

// ElementFromTreeNode gets the element from a generic tree node.
func ElementFromTreeNode(n *tree.Node[*Element]) *Element {
	if n == nil {
		return nil
	}
	return n.Payload
}

func (e *Element) String() string {
	if e.kind == html.TextNode {
		return fmt.Sprintf("#text %q", e.text)
	}
	return fmt.Sprintf("<%s> #ch=%d", e.name, e.ChildCount())
}

// IsText is a predicate to match text nodes. It is intended to be used
// with tree.DescendantsWith.
func IsText(n *tree.Node[*Element]) bool {
	return n.Payload != nil && n.Payload.kind == html.TextNode
}

// OwnerDocument returns the document which created e.
func (e *Element) OwnerDocument() *Document {
	return e.doc
}

// NodeType returns html.ElementNode or html.TextNode.
func (e *Element) NodeType() html.NodeType {
	return e.kind
}

// NodeName returns the tag name for elements and "#text" for text nodes.
func (e *Element) NodeName() string {
	return e.name
}

// TagName returns the tag name of an element, or "" for text nodes.
func (e *Element) TagName() string {
	if e.kind == html.TextNode {
		return ""
	}
	return e.name
}

// Namespace returns the namespace URI of an element. Text nodes and
// elements created without a namespace return "".
func (e *Element) Namespace() string {
	return e.ns
}

// NodeValue returns the text of a text node, "" for elements.
func (e *Element) NodeValue() string {
	if e.kind == html.TextNode {
		return e.text
	}
	return ""
}

// TextContent returns the text of e and all its descendents.
func (e *Element) TextContent() string {
	if e.kind == html.TextNode {
		return e.text
	}
	var sb strings.Builder
	for _, t := range tree.DescendantsWith(&e.Node, IsText) {
		sb.WriteString(t.Payload.text)
	}
	return sb.String()
}

// --- Attributes -------------------------------------------------------

// HasAttributes checks for existence of attributes, including inline styles.
func (e *Element) HasAttributes() bool {
	return len(e.attrs) > 0 || e.styles.Size() > 0
}

// SetAttribute sets (or adds) attribute key=val. Attributes keep the order
// in which they have first been set. Text nodes ignore attributes.
func (e *Element) SetAttribute(key, val string) {
	if e.kind == html.TextNode {
		tracer().Errorf("scene: cannot set attribute %q on text node", key)
		return
	}
	for i, a := range e.attrs {
		if a.Key == key {
			e.attrs[i].Val = val
			return
		}
	}
	e.attrs = append(e.attrs, html.Attribute{Key: key, Val: val})
}

// Attribute returns the value of a named attribute. If inline styles are
// set, "style" reports their serialization.
func (e *Element) Attribute(key string) (string, bool) {
	if key == "style" && e.styles.Size() > 0 {
		return e.styles.CSSText(), true
	}
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// RemoveAttribute removes the named attribute if present.
func (e *Element) RemoveAttribute(key string) {
	attrs := e.attrs[:0]
	for _, a := range e.attrs {
		if a.Key != key {
			attrs = append(attrs, a)
		}
	}
	e.attrs = attrs
}

// Attributes returns a copy of all attributes, in order. Inline styles are
// reported as a trailing "style" attribute.
func (e *Element) Attributes() []html.Attribute {
	attrs := make([]html.Attribute, 0, len(e.attrs)+1)
	hasStyles := e.styles.Size() > 0
	for _, a := range e.attrs {
		if hasStyles && a.Key == "style" {
			continue
		}
		attrs = append(attrs, a)
	}
	if hasStyles {
		attrs = append(attrs, html.Attribute{Key: "style", Val: e.styles.CSSText()})
	}
	return attrs
}

// SetStyle sets an inline style property.
func (e *Element) SetStyle(key, value string) {
	if e.kind == html.TextNode {
		return
	}
	if e.styles == nil {
		e.styles = style.NewPropertyMap()
	}
	e.styles.Add(key, style.Property(value))
}

// Styles returns the inline styles of e. nil is a legal (empty) map.
func (e *Element) Styles() *style.PropertyMap {
	return e.styles
}

// --- Children ---------------------------------------------------------

// AppendChild appends ch as the last child of e and returns ch.
// Text nodes cannot have children; appending to them is refused and
// returns nil.
func (e *Element) AppendChild(ch *Element) *Element {
	if ch == nil {
		return nil
	}
	if e.kind == html.TextNode {
		tracer().Errorf("scene: cannot append %v to a text node", ch)
		return nil
	}
	e.AddChild(&ch.Node)
	return ch
}

// ParentNode returns the parent element, if any.
func (e *Element) ParentNode() *Element {
	return ElementFromTreeNode(e.Parent())
}

// HasChildNodes checks for existence of sub-nodes.
func (e *Element) HasChildNodes() bool {
	return e.ChildCount() > 0
}

// ChildNodes returns all children, including text nodes.
func (e *Element) ChildNodes() []*Element {
	chs := e.Node.Children()
	r := make([]*Element, len(chs))
	for i, ch := range chs {
		r[i] = ch.Payload
	}
	return r
}

// Children returns the element children, omitting text nodes.
func (e *Element) Children() []*Element {
	var r []*Element
	for _, ch := range e.Node.Children() {
		if ch.Payload.kind == html.ElementNode {
			r = append(r, ch.Payload)
		}
	}
	return r
}

// FirstChild returns the first child node or nil.
func (e *Element) FirstChild() *Element {
	ch, _ := e.Child(0)
	return ElementFromTreeNode(ch)
}

// NextSibling returns the element's next sibling or nil if last.
func (e *Element) NextSibling() *Element {
	return ElementFromTreeNode(e.Node.NextSibling())
}

// Clear removes all content of e.
func (e *Element) Clear() {
	removed := e.RemoveChildren()
	if len(removed) > 0 {
		tracer().Debugf("scene: cleared %d children of %v", len(removed), e)
	}
}
