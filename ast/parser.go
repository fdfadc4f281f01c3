package ast

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrNoHost is returned when markup should be parsed into a scratch
// container, but no host document has been configured.
var ErrNoHost = errors.New("ast: no host document to parse markup into")

// ErrNoTarget is returned by SetMarkup for a nil target element.
var ErrNoTarget = errors.New("ast: no target element")

// Parser turns a markup string into a sequence of top-level nodes.
// Parsers do not sanitize; allow-lists are applied on materialization.
// Tag names are lower-cased.
type Parser interface {
	Parse(markup string) ([]*Node, error)
}

// Strategy selects a Parser at Sanitizer construction time.
type Strategy int8

// Parsing strategies.
const (
	StrategyAuto      Strategy = iota // native if the host document can parse markup
	StrategyNative                    // always use the HTML5 fragment parser
	StrategyContainer                 // always tokenize into a scratch container
)

func (st Strategy) String() string {
	switch st {
	case StrategyNative:
		return "native"
	case StrategyContainer:
		return "container"
	}
	return "auto"
}

// ParseStrategy converts a configuration string to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return StrategyAuto, nil
	case "native":
		return StrategyNative, nil
	case "container":
		return StrategyContainer, nil
	}
	return StrategyAuto, fmt.Errorf("ast: unknown parsing strategy %q", s)
}

// --- Native parsing ---------------------------------------------------

// NativeParser parses markup as an HTML5 fragment in the context of a
// <body> element. Malformed markup is repaired the way browsers do.
type NativeParser struct{}

// Parse parses markup. Leading and trailing whitespace is removed first.
func (NativeParser) Parse(markup string) ([]*Node, error) {
	markup = strings.TrimSpace(markup)
	if markup == "" {
		return nil, nil
	}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	hnodes, err := html.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, fmt.Errorf("ast: cannot parse markup: %w", err)
	}
	var nodes []*Node
	for _, h := range hnodes {
		nodes = appendTopLevel(nodes, fromHTML(h))
	}
	tracer().Debugf("ast: parsed %d top-level nodes", len(nodes))
	return nodes, nil
}

// fromHTML converts a parsed HTML node. Comments, doctypes and the like
// are skipped by returning nil.
func fromHTML(h *html.Node) *Node {
	switch h.Type {
	case html.TextNode:
		return Text(h.Data)
	case html.ElementNode:
	default:
		return nil
	}
	n := &Node{TagName: strings.ToLower(h.Data)}
	if len(h.Attr) > 0 {
		n.Attributes = make(Attributes, len(h.Attr))
		for _, a := range h.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + a.Key
			}
			n.Attributes[key] = String(a.Val)
		}
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		if child := fromHTML(c); child != nil {
			n.Children = append(n.Children, child)
		}
	}
	return n
}

// appendTopLevel appends n to the top-level nodes. A whitespace-only text
// node is dropped if nothing has been collected yet.
func appendTopLevel(nodes []*Node, n *Node) []*Node {
	if n == nil {
		return nodes
	}
	if len(nodes) == 0 && n.IsText() && strings.TrimSpace(n.TextContent) == "" {
		return nodes
	}
	return append(nodes, n)
}

// --- Fallback ---------------------------------------------------------

// fallbackParser tries a secondary parser if the primary one fails.
type fallbackParser struct {
	primary, secondary Parser
}

func (fp fallbackParser) Parse(markup string) ([]*Node, error) {
	nodes, err := fp.primary.Parse(markup)
	if err == nil {
		return nodes, nil
	}
	tracer().Infof("ast: %v; falling back to secondary parser", err)
	return fp.secondary.Parse(markup)
}
