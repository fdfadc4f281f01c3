package ast

import (
	"sort"
	"strconv"
)

// TextTag is the tag name of text leafs.
const TextTag = "#text"

// Node represents one parsed markup element or text run.
type Node struct {
	TagName     string     // element name, or TextTag
	TextContent string     // text of a leaf; for elements, text preceding the children
	Attributes  Attributes // nil for text leafs
	Children    []*Node
}

// Text creates a text leaf.
func Text(s string) *Node {
	return &Node{TagName: TextTag, TextContent: s}
}

// Element creates an element node.
func Element(tag string, attrs Attributes, children ...*Node) *Node {
	return &Node{TagName: tag, Attributes: attrs, Children: children}
}

// IsText is true for text leafs.
func (n *Node) IsText() bool {
	return n.TagName == TextTag
}

// --- Attribute values -------------------------------------------------

// Value is an attribute value, either a string or a number.
type Value struct {
	str     string
	num     float64
	numeric bool
}

// String creates a string attribute value.
func String(s string) Value {
	return Value{str: s}
}

// Number creates a numeric attribute value.
func Number(x float64) Value {
	return Value{num: x, numeric: true}
}

// IsNumber is true for numeric values.
func (v Value) IsNumber() bool {
	return v.numeric
}

// Float returns the numeric value and true, or 0 and false for strings.
func (v Value) Float() (float64, bool) {
	return v.num, v.numeric
}

// String returns the value as it is written to an element attribute.
func (v Value) String() string {
	if v.numeric {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// Attributes maps attribute names to values.
type Attributes map[string]Value

// Clone returns a shallow copy; nil stays nil.
func (attrs Attributes) Clone() Attributes {
	if attrs == nil {
		return nil
	}
	c := make(Attributes, len(attrs))
	for k, v := range attrs {
		c[k] = v
	}
	return c
}

// Keys returns the attribute names in sorted order.
func (attrs Attributes) Keys() []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
