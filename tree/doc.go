/*
Package tree implements a general purpose tree type.

Nodes carry a payload of type parameter T and maintain an ordered slice of
children, protected by a mutex. Clients usually do not use tree nodes
directly, but rather compose their own node types from them, linking the
payload back to the composite. Package scene does this for elements of a
visual scene.

Traversal is synchronous and depth-first, visiting nodes in document order.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package tree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'chartmarkup.tree'.
func tracer() tracing.Trace {
	return tracing.Select("chartmarkup.tree")
}
