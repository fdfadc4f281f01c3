package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MarshalJSON writes a value as a JSON string or number.
func (v Value) MarshalJSON() ([]byte, error) {
	if x, ok := v.Float(); ok {
		return json.Marshal(x)
	}
	return json.Marshal(v.str)
}

// UnmarshalJSON accepts JSON strings, numbers and booleans. Booleans are
// stored as strings "true" and "false".
func (v *Value) UnmarshalJSON(b []byte) error {
	var x interface{}
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}
	switch t := x.(type) {
	case string:
		*v = String(t)
	case float64:
		*v = Number(t)
	case bool:
		*v = String(strconv.FormatBool(t))
	case nil:
		// null is a no-op
	default:
		return fmt.Errorf("ast: attribute value must be a scalar, is %s", b)
	}
	return nil
}

type nodeJSON struct {
	TagName     string     `json:"tagName"`
	TextContent string     `json:"textContent,omitempty"`
	Attributes  Attributes `json:"attributes,omitempty"`
	Children    []*Node    `json:"children,omitempty"`
}

var reservedKeys = map[string]struct{}{
	"tagName":     {},
	"textContent": {},
	"attributes":  {},
	"children":    {},
}

// MarshalJSON writes the canonical form of a node, with attributes in a
// nested object.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{
		TagName:     n.TagName,
		TextContent: n.TextContent,
		Attributes:  n.Attributes,
		Children:    n.Children,
	})
}

// UnmarshalJSON reads a node. Besides the canonical form, the legacy form
// with attributes as flat scalar keys next to tagName is accepted. Flat
// keys take precedence over entries of the nested attributes object.
// Non-scalar flat keys and nulls are ignored.
func (n *Node) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	var nj nodeJSON
	if err := json.Unmarshal(b, &nj); err != nil {
		return err
	}
	for key, msg := range raw {
		if _, ok := reservedKeys[key]; ok {
			continue
		}
		if bytes.Equal(msg, []byte("null")) {
			continue
		}
		var v Value
		if err := json.Unmarshal(msg, &v); err != nil {
			tracer().Debugf("ast: ignoring non-scalar key %q", key)
			continue
		}
		if nj.Attributes == nil {
			nj.Attributes = make(Attributes)
		}
		nj.Attributes[key] = v
	}
	*n = Node{
		TagName:     nj.TagName,
		TextContent: nj.TextContent,
		Attributes:  nj.Attributes,
		Children:    nj.Children,
	}
	return nil
}

// ParseJSON decodes either a single node or an array of nodes.
func ParseJSON(data []byte) ([]*Node, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var nodes []*Node
		if err := json.Unmarshal(data, &nodes); err != nil {
			return nil, fmt.Errorf("ast: cannot decode nodes: %w", err)
		}
		return nodes, nil
	}
	n := &Node{}
	if err := json.Unmarshal(data, n); err != nil {
		return nil, fmt.Errorf("ast: cannot decode node: %w", err)
	}
	return []*Node{n}, nil
}
