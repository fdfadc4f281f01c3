/*
Package ast parses and sanitizes label markup and materializes it into a
visual scene.

Overview

Charts render user-provided formatting for labels, tooltips and titles,
e.g.

    <span style="color: #666">Price:</span> <b>{point.y}</b>

Such markup is untrusted. Instead of assigning it to a host element
directly, the rendering layer hands it to this package:

    markup string ──parse──▶ []*Node ──filter + materialize──▶ *scene.Element

Parsing produces a tree of Nodes (tag name, text, attributes, children),
which may be inspected or modified by the caller. Materialization creates
scene elements for every node whose tag is on an allow-list, filters
attributes against an allow-list of attribute names and of URL reference
prefixes, and drops disallowed subtrees entirely. Rejections are never
errors: they are reported to a Reporter (by default, the tracer) and the
offending node or attribute does not appear in the output.

Allow-lists and Sanitizers

The default allow-lists are immutable. Applications needing more tags or
attributes construct their own Sanitizer:

    al := ast.DefaultAllowLists().Extend([]string{"foreignObject"}, nil, nil)
    s, err := ast.New(ast.WithAllowLists(al), ast.WithHost(doc))

The package level functions use a process-wide default Sanitizer.

Parsing Strategies

Markup is parsed either by a full HTML5 fragment parser (NativeParser) or by
tokenizing it into a detached scratch container of the host document
(ContainerParser). The strategy is chosen once, when a Sanitizer is
constructed, depending on the capabilities of the host document.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package ast

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'chartmarkup.ast'.
func tracer() tracing.Trace {
	return tracing.Select("chartmarkup.ast")
}
