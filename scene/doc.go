/*
Package scene implements the visual element tree charts render into.

Overview

A chart's visual scene is a tree of HTML and SVG elements, very much like a
browser DOM: SVG shapes and text for the plot area, HTML for labels and
tooltips which are rendered outside of SVG. Package ast materializes
sanitized markup into this tree; the rendering layer attaches the result
into its scene.

Elements are created by a Document, in a namespace. Elements created but
not yet appended to a parent are detached. Scratch containers
(see Document.CreateContainer) are tracked by their document until they are
released, so leaks of transient nodes are observable.

Tree Implementation

In a fully object oriented programming language we would subclass a tree
node type for elements, but in Go we resort to composition, thus including
a generic tree node (package tree) in every element.

Read access follows the W3C DOM naming (NodeName, NodeValue, ChildNodes,
TextContent, …), so code ported from browser scripts reads familiar.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scene

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'chartmarkup.scene'.
func tracer() tracing.Trace {
	return tracing.Select("chartmarkup.scene")
}

// Namespaces of elements.
const (
	SVGNamespace   = "http://www.w3.org/2000/svg"
	XHTMLNamespace = "http://www.w3.org/1999/xhtml"
)
