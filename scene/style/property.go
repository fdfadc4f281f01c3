/*
Package style holds inline style properties of scene elements.

Chart labels and tooltips style their text inline, e.g.

    <span style="color: #333; font-weight: bold">…</span>

Properties are kept in named groups (font, color, box, …), the same way a
CSS engine segments its property space. Property maps are owned by a
single element and are not shared.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package style

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'chartmarkup.scene'
func tracer() tracing.Trace {
	return tracing.Select("chartmarkup.scene")
}

// Property is a raw value for a CSS property. For example, with
//
//     color: black
//
// a property value of "black" is set.
type Property string

// NullStyle is an empty property value.
const NullStyle Property = ""

func (p Property) String() string {
	return string(p)
}

// IsEmpty checks wether a property is empty, i.e. the null-string.
func (p Property) IsEmpty() bool {
	return p == ""
}

// KeyValue is a container for a style property.
type KeyValue struct {
	Key   string
	Value Property
}

// --- Property Groups --------------------------------------------------

// PropertyGroup is a collection of properties sharing a common topic.
//
// The mapping of property into groups is documented with
// GroupNameFromPropertyKey[...].
type PropertyGroup struct {
	name      string
	propsDict map[string]Property
}

// NewPropertyGroup creates a new empty property group, given its name.
func NewPropertyGroup(groupname string) *PropertyGroup {
	return &PropertyGroup{name: groupname}
}

// Name returns the name of the property group.
func (pg *PropertyGroup) Name() string {
	return pg.name
}

// Stringer for property groups; used for debugging.
func (pg *PropertyGroup) String() string {
	s := "[" + pg.name + "] =\n"
	for _, kv := range pg.Properties() {
		s += fmt.Sprintf("  %s = %s\n", kv.Key, kv.Value)
	}
	return s
}

// Properties returns all properties of a group, sorted by key.
func (pg *PropertyGroup) Properties() []KeyValue {
	r := make([]KeyValue, 0, len(pg.propsDict))
	for k, v := range pg.propsDict {
		r = append(r, KeyValue{k, v})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Key < r[j].Key })
	return r
}

// Get a property's value.
func (pg *PropertyGroup) Get(key string) (Property, bool) {
	if pg.propsDict == nil {
		return NullStyle, false
	}
	p, ok := pg.propsDict[key]
	return p, ok
}

// Set a property's value. Overwrites an existing value, if present.
func (pg *PropertyGroup) Set(key string, p Property) {
	if pg.propsDict == nil {
		pg.propsDict = make(map[string]Property)
	}
	pg.propsDict[key] = p
}

// GroupNameFromPropertyKey returns the style property group name for a
// style property.
// Example:
//    GroupNameFromPropertyKey("font-size") => "Font"
//
// Unknown style property keys will return a group name of "X".
func GroupNameFromPropertyKey(key string) string {
	if groupname, found := groupNameFromPropertyKey[key]; found {
		return groupname
	}
	switch {
	case strings.HasPrefix(key, "font-"):
		return PGFont
	case strings.HasPrefix(key, "margin-"), strings.HasPrefix(key, "padding-"):
		return PGBox
	case strings.HasPrefix(key, "stroke"):
		return PGStroke
	}
	return PGX
}

// Symbolic names for string literals, denoting PropertyGroups.
const (
	PGFont    = "Font"
	PGColor   = "Color"
	PGText    = "Text"
	PGBox     = "Box"
	PGStroke  = "Stroke"
	PGDisplay = "Display"
	PGX       = "X"
)

var groupNameFromPropertyKey = map[string]string{
	"color":            PGColor,
	"background-color": PGColor,
	"fill":             PGColor,
	"opacity":          PGColor,
	"fill-opacity":     PGColor,
	"text-align":       PGText,
	"text-anchor":      PGText,
	"text-decoration":  PGText,
	"text-overflow":    PGText,
	"white-space":      PGText,
	"line-height":      PGText,
	"letter-spacing":   PGText,
	"word-break":       PGText,
	"width":            PGBox,
	"height":           PGBox,
	"display":          PGDisplay,
	"visibility":       PGDisplay,
	"position":         PGDisplay,
	"cursor":           PGDisplay,
}

// SplitCompoundProperty splits up a shortcut property into its individual
// components. Returns a slice of key-value pairs representing the
// individual (fine grained) style properties.
// Example:
//    SplitCompoundProperty("padding", "3px 5px")
// will return
//    "padding-top"    => "3px"
//    "padding-right"  => "5px"
//    "padding-bottom" => "3px"
//    "padding-left"   => "5px"
func SplitCompoundProperty(key string, value Property) ([]KeyValue, error) {
	fields := strings.Fields(value.String())
	switch key {
	case "margin", "padding":
		return feazeCompound4(key, fields)
	}
	return nil, fmt.Errorf("not recognized as compound property: %s", key)
}

// CSS logic to distribute individual values from compound shortcuts:
// top, right, bottom, left; missing values mirror their opposite side.
func feazeCompound4(pre string, fields []string) ([]KeyValue, error) {
	l := len(fields)
	if l == 0 || l > 4 {
		return nil, fmt.Errorf("expecting 1-4 values for %s", pre)
	}
	vals := [4]string{fields[0], fields[0], fields[0], fields[0]}
	if l >= 2 {
		vals[1], vals[3] = fields[1], fields[1]
	}
	if l >= 3 {
		vals[2] = fields[2]
	}
	if l == 4 {
		vals[3] = fields[3]
	}
	r := make([]KeyValue, 4)
	for i, dir := range fourDirs {
		r[i] = KeyValue{pre + "-" + dir, Property(vals[i])}
	}
	return r, nil
}

var fourDirs = [4]string{"top", "right", "bottom", "left"}

// --- Property Map -----------------------------------------------------

// PropertyMap holds CSS properties. nil is a legal (empty) property map.
//
// Lookups by property key see compound shortcuts split into their
// components. The declarations themselves are kept as they have been added,
// in order, and are what CSSText serializes.
type PropertyMap struct {
	m     map[string]*PropertyGroup
	decls []KeyValue
}

// NewPropertyMap returns a new empty property map.
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{}
}

func (pmap *PropertyMap) String() string {
	s := "Property Map = {\n"
	for _, name := range pmap.groupNames() {
		s += pmap.m[name].String()
	}
	s += "}"
	return s
}

// Size returns the number of property groups.
func (pmap *PropertyMap) Size() int {
	if pmap == nil {
		return 0
	}
	return len(pmap.m)
}

// Group returns the property group for a group name or nil.
func (pmap *PropertyMap) Group(groupname string) *PropertyGroup {
	if pmap == nil {
		return nil
	}
	return pmap.m[groupname]
}

// Property returns a style property value, together with an indicator
// wether it has been found in the properties map.
func (pmap *PropertyMap) Property(key string) (Property, bool) {
	group := pmap.Group(GroupNameFromPropertyKey(key))
	if group == nil {
		return NullStyle, false
	}
	return group.Get(key)
}

// Add adds a property to this property map, e.g.,
//
//    pm.Add("font-size", "11px")
//
// Compound shortcuts (margin, padding) are split into their components
// for lookup; a trailing "!important" applies to every component.
// Adding a key again moves its declaration to the end.
func (pmap *PropertyMap) Add(key string, value Property) {
	if pmap == nil {
		return
	}
	key = strings.ToLower(strings.TrimSpace(key))
	pmap.declare(key, value)
	v, important := splitImportant(value)
	if kvs, err := SplitCompoundProperty(key, v); err == nil {
		for _, kv := range kvs {
			if important {
				kv.Value += " !important"
			}
			pmap.set(kv.Key, kv.Value)
		}
		return
	}
	pmap.set(key, value)
}

func splitImportant(value Property) (Property, bool) {
	v := strings.TrimSpace(value.String())
	if i := strings.LastIndex(v, "!"); i >= 0 {
		if strings.EqualFold(strings.TrimSpace(v[i+1:]), "important") {
			return Property(strings.TrimSpace(v[:i])), true
		}
	}
	return Property(v), false
}

func (pmap *PropertyMap) declare(key string, value Property) {
	decls := pmap.decls[:0]
	for _, kv := range pmap.decls {
		if kv.Key != key {
			decls = append(decls, kv)
		}
	}
	pmap.decls = append(decls, KeyValue{key, value})
}

func (pmap *PropertyMap) set(key string, value Property) {
	if pmap.m == nil {
		pmap.m = make(map[string]*PropertyGroup)
	}
	groupname := GroupNameFromPropertyKey(key)
	group, found := pmap.m[groupname]
	if !found {
		group = NewPropertyGroup(groupname)
		pmap.m[groupname] = group
	}
	tracer().Debugf("style: %s.%s = %s", groupname, key, value)
	group.Set(key, value)
}

// Declarations returns the declarations in the order they have been added,
// with compound shortcuts unsplit.
func (pmap *PropertyMap) Declarations() []KeyValue {
	if pmap == nil {
		return nil
	}
	r := make([]KeyValue, len(pmap.decls))
	copy(r, pmap.decls)
	return r
}

// CSSText serializes the map as an inline style declaration block,
// e.g. "color: red; font-size: 11px".
func (pmap *PropertyMap) CSSText() string {
	decls := pmap.Declarations()
	parts := make([]string, len(decls))
	for i, kv := range decls {
		parts[i] = kv.Key + ": " + kv.Value.String()
	}
	return strings.Join(parts, "; ")
}

func (pmap *PropertyMap) groupNames() []string {
	if pmap == nil {
		return nil
	}
	names := make([]string, 0, len(pmap.m))
	for name := range pmap.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
