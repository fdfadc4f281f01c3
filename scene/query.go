package scene

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// QueryAll returns all elements below root (including root) matching a CSS
// selector, in document order.
func QueryAll(root *Element, selector string) ([]*Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("scene: invalid selector %q: %w", selector, err)
	}
	index := make(map[*html.Node]*Element)
	h := toHTML(root, index)
	matches := sel.MatchAll(h)
	r := make([]*Element, 0, len(matches))
	for _, m := range matches {
		if e, ok := index[m]; ok {
			r = append(r, e)
		}
	}
	tracer().Debugf("scene: selector %q matched %d elements", selector, len(r))
	return r, nil
}

// QueryFirst returns the first element matching a CSS selector, or nil.
func QueryFirst(root *Element, selector string) (*Element, error) {
	all, err := QueryAll(root, selector)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}
