package ast

import (
	"github.com/npillmayer/chartmarkup/scene"
)

// AST is a parsed piece of markup, ready to be added to a scene.
type AST struct {
	nodes []*Node
	s     *Sanitizer
}

// NewAST parses markup.
func (s *Sanitizer) NewAST(markup string) (*AST, error) {
	nodes, err := s.Parse(markup)
	if err != nil {
		return nil, err
	}
	return &AST{nodes: nodes, s: s}, nil
}

// FromNodes wraps pre-built nodes, e.g. decoded from JSON.
func (s *Sanitizer) FromNodes(nodes ...*Node) *AST {
	return &AST{nodes: nodes, s: s}
}

// Nodes returns the top-level nodes. Callers may modify them before
// calling AddToDOM.
func (a *AST) Nodes() []*Node {
	return a.nodes
}

// AddToDOM materializes the nodes as children of parent and returns the
// last element appended directly to parent, or nil if none.
//
// Nodes with a tag not on the allow-list are dropped together with their
// subtrees. Attributes are filtered on a copy; the nodes themselves are
// not modified.
func (a *AST) AddToDOM(parent *scene.Element) *scene.Element {
	if parent == nil {
		tracer().Errorf("ast: cannot add markup to nil parent")
		return nil
	}
	return a.s.materialize(a.nodes, parent)
}

func (s *Sanitizer) materialize(nodes []*Node, parent *scene.Element) *scene.Element {
	doc := parent.OwnerDocument()
	var last *scene.Element
	for _, n := range nodes {
		if n == nil || n.TagName == "" {
			continue
		}
		var created *scene.Element
		if n.IsText() {
			if n.TextContent == "" {
				continue
			}
			created = doc.CreateTextNode(n.TextContent)
		} else if s.bypass || s.allow.AllowsTag(n.TagName) {
			created = s.createElement(n, parent)
		} else {
			s.report(Rejection{Kind: RejectedTag, Tag: n.TagName})
			continue
		}
		if parent.AppendChild(created) != nil {
			last = created
		}
	}
	return last
}

// createElement creates an element for n. The element lives in the SVG
// namespace if it is an <svg> or if parent does not have a namespace;
// otherwise it inherits the parent's namespace.
func (s *Sanitizer) createElement(n *Node, parent *scene.Element) *scene.Element {
	doc := parent.OwnerDocument()
	ns := parent.Namespace()
	if n.TagName == "svg" || ns == "" {
		ns = scene.SVGNamespace
	}
	el := doc.CreateElementNS(ns, n.TagName)
	attrs := n.Attributes.Clone()
	if !s.bypass {
		s.filterAttributes(n.TagName, attrs)
	}
	for _, key := range attrs.Keys() {
		v := attrs[key]
		if key == "style" && !v.IsNumber() {
			s.applyStyle(el, n.TagName, v.String())
			continue
		}
		el.SetAttribute(key, v.String())
	}
	if n.TextContent != "" {
		el.AppendChild(doc.CreateTextNode(n.TextContent))
	}
	s.materialize(n.Children, el)
	return el
}

func (s *Sanitizer) applyStyle(el *scene.Element, tag, css string) {
	decls, err := ParseStyle(css)
	if err != nil {
		s.report(Rejection{Kind: RejectedAttribute, Tag: tag, Key: "style", Value: css})
		return
	}
	for _, d := range s.filterStyle(tag, decls) {
		el.SetStyle(d.Property, d.Value)
	}
}

// SetMarkup replaces the content of target by markup. Existing children
// are removed first; empty markup just clears target.
func (s *Sanitizer) SetMarkup(target *scene.Element, markup string) error {
	if target == nil {
		return ErrNoTarget
	}
	target.Clear()
	if markup == "" {
		return nil
	}
	a, err := s.NewAST(markup)
	if err != nil {
		return err
	}
	a.AddToDOM(target)
	return nil
}
