package ast

import (
	"sort"
	"strings"
)

var defaultTags = []string{
	"a", "abbr", "b", "br", "button", "caption", "circle", "clipPath", "code",
	"dd", "defs", "div", "dl", "dt", "em", "feComponentTransfer", "feFuncA",
	"feFuncB", "feFuncG", "feFuncR", "feGaussianBlur", "feOffset", "feMerge",
	"feMergeNode", "filter", "h1", "h2", "h3", "h4", "h5", "h6", "hr", "i",
	"img", "li", "linearGradient", "marker", "ol", "p", "path", "pattern",
	"pre", "rect", "small", "span", "stop", "strong", "style", "sub", "sup",
	"svg", "table", "text", "textPath", "thead", "title", "tbody", "tspan",
	"td", "th", "tr", "u", "ul", TextTag,
}

var defaultAttributes = []string{
	"aria-controls", "aria-describedby", "aria-expanded", "aria-haspopup",
	"aria-hidden", "aria-label", "aria-labelledby", "aria-live", "aria-pressed",
	"aria-readonly", "aria-roledescription", "aria-selected", "class",
	"clip-path", "color", "colspan", "cx", "cy", "d", "dx", "dy", "disabled",
	"fill", "height", "href", "id", "in", "markerHeight", "markerWidth",
	"offset", "opacity", "orient", "padding", "paddingLeft", "paddingRight",
	"patternUnits", "r", "refX", "refY", "role", "scope", "slope", "src",
	"startOffset", "stdDeviation", "stroke", "stroke-linecap", "stroke-width",
	"style", "tableValues", "result", "rowspan", "summary", "target",
	"tabindex", "text-align", "text-anchor", "textAnchor", "textLength",
	"title", "type", "valign", "width", "x", "x1", "x2", "xlink:href", "y",
	"y1", "y2", "zIndex",
}

var defaultReferences = []string{
	"https://", "http://", "mailto:", "/", "../", "./", "#",
}

// referenceAttributes carry URLs and must start with an allowed reference.
var referenceAttributes = map[string]struct{}{
	"background": {},
	"dynsrc":     {},
	"href":       {},
	"lowsrc":     {},
	"src":        {},
	"xlink:href": {},
}

// IsReferenceAttribute is true for attributes whose values are URLs.
func IsReferenceAttribute(key string) bool {
	_, ok := referenceAttributes[key]
	return ok
}

// AllowLists enumerate permitted tags, attributes and URL reference
// prefixes. Anything not listed is rejected. AllowLists are immutable;
// Extend returns a new value.
type AllowLists struct {
	tags       map[string]struct{}
	attributes map[string]struct{}
	references []string
}

// DefaultAllowLists returns the allow-lists used by the default Sanitizer.
func DefaultAllowLists() AllowLists {
	return NewAllowLists(defaultTags, defaultAttributes, defaultReferences)
}

// NewAllowLists creates allow-lists from scratch. Tag and attribute names
// are case-sensitive (SVG uses names like "clipPath" or "refX").
// References are tested in the given order.
func NewAllowLists(tags, attributes, references []string) AllowLists {
	return AllowLists{}.Extend(tags, attributes, references)
}

// Extend returns new allow-lists containing the entries of al plus the
// given ones. al is not modified. Empty entries are ignored.
func (al AllowLists) Extend(tags, attributes, references []string) AllowLists {
	ext := AllowLists{
		tags:       make(map[string]struct{}, len(al.tags)+len(tags)),
		attributes: make(map[string]struct{}, len(al.attributes)+len(attributes)),
		references: make([]string, 0, len(al.references)+len(references)),
	}
	for t := range al.tags {
		ext.tags[t] = struct{}{}
	}
	for a := range al.attributes {
		ext.attributes[a] = struct{}{}
	}
	ext.references = append(ext.references, al.references...)
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			ext.tags[t] = struct{}{}
		}
	}
	for _, a := range attributes {
		if a = strings.TrimSpace(a); a != "" {
			ext.attributes[a] = struct{}{}
		}
	}
	for _, r := range references {
		if r != "" && !contains(ext.references, r) {
			ext.references = append(ext.references, r)
		}
	}
	return ext
}

// AllowsTag checks a tag name against the allow-list.
func (al AllowLists) AllowsTag(tag string) bool {
	_, ok := al.tags[tag]
	return ok
}

// AllowsAttribute checks an attribute name against the allow-list.
func (al AllowLists) AllowsAttribute(key string) bool {
	_, ok := al.attributes[key]
	return ok
}

// AllowsReference is true if v starts with any of the allowed reference
// prefixes.
func (al AllowLists) AllowsReference(v string) bool {
	allowed := false
	for _, ref := range al.references {
		if strings.HasPrefix(v, ref) {
			allowed = true
		}
	}
	return allowed
}

// Tags returns the allowed tags, sorted.
func (al AllowLists) Tags() []string {
	return sortedSet(al.tags)
}

// Attributes returns the allowed attribute names, sorted.
func (al AllowLists) Attributes() []string {
	return sortedSet(al.attributes)
}

// References returns the allowed reference prefixes, in order.
func (al AllowLists) References() []string {
	r := make([]string, len(al.references))
	copy(r, al.references)
	return r
}

func sortedSet(set map[string]struct{}) []string {
	r := make([]string, 0, len(set))
	for k := range set {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
