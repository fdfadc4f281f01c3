package ast

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

// Dump returns an indented tree view of nodes, for debugging.
//
//     .
//     └── <p>
//         ├── #text "Price: "
//         └── <b class="value">
//             └── #text "$5"
//
func Dump(nodes []*Node) string {
	root := treeprint.New()
	for _, n := range nodes {
		dumpNode(root, n)
	}
	return root.String()
}

func dumpNode(t treeprint.Tree, n *Node) {
	if n == nil {
		return
	}
	if n.IsText() {
		t.AddNode(fmt.Sprintf("%s %q", TextTag, n.TextContent))
		return
	}
	var sb strings.Builder
	sb.WriteString("<")
	sb.WriteString(n.TagName)
	for _, key := range n.Attributes.Keys() {
		fmt.Fprintf(&sb, " %s=%q", key, n.Attributes[key].String())
	}
	sb.WriteString(">")
	if n.TextContent == "" && len(n.Children) == 0 {
		t.AddNode(sb.String())
		return
	}
	branch := t.AddBranch(sb.String())
	if n.TextContent != "" {
		branch.AddNode(fmt.Sprintf("%s %q", TextTag, n.TextContent))
	}
	for _, ch := range n.Children {
		dumpNode(branch, ch)
	}
}
