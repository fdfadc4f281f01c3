/*
Package scenedbg implements helpers to debug a scene tree.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>


*/
package scenedbg

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"
	"text/template"

	"github.com/npillmayer/chartmarkup/scene"
	"github.com/npillmayer/chartmarkup/scene/style"
)

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname       string
	StyleGroups    []string
	NodeTmpl       *template.Template
	EdgeTmpl       *template.Template
	StylegroupTmpl *template.Template
	PgedgeTmpl     *template.Template
}

var defaultGroups = []string{
	style.PGFont,
	style.PGColor,
	style.PGText,
	style.PGBox,
}

// ToGraphViz outputs a diagram for a scene tree. The diagram is in
// GraphViz (DOT) format. Clients have to provide the root element of
// the scene, a Writer, and an optional list of style groups.
// The diagram will include all inline styles belonging to one of the
// groups.
//
// If the client does not provide a list of style groups, the following
// default will be used:
//
//     - Font
//     - Color
//     - Text
//     - Box
//
func ToGraphViz(root *scene.Element, w io.Writer, styleGroups []string) error {
	tmpl, err := template.New("scene").Parse(graphHeadTmpl)
	if err != nil {
		return err
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("scenenode").Funcs(
		template.FuncMap{
			"shortstring": shortText,
			"attributes":  attributeLabel,
		}).Parse(sceneNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("sceneedge").Parse(sceneEdgeTmpl))
	gparams.StylegroupTmpl = template.Must(template.New("stylegroup").Parse(styleGroupTmpl))
	gparams.PgedgeTmpl = template.Must(template.New("pgedge").Parse(pgEdgeTmpl))
	gparams.StyleGroups = styleGroups
	if styleGroups == nil {
		gparams.StyleGroups = defaultGroups
	}
	if err = tmpl.Execute(w, gparams); err != nil {
		return err
	}
	dict := make(map[*scene.Element]string, 256)
	if err = nodes(root, w, dict, &gparams); err != nil {
		return err
	}
	_, err = w.Write([]byte("}\n"))
	return err
}

// Dotty is a helper for testing. Given a scene element and a testing.T, it will
// create a Graphiviz image of the scene tree under `root` and write it to
// a file in the test's temporary directory, choosing a unique file name.
// The image is in SVG format.
//
// If an error occurs, t.Error(…) will be set, causing the test to fail.
//
func Dotty(root *scene.Element, t *testing.T) {
	tmpfile, err := os.CreateTemp(t.TempDir(), "scene.*.dot")
	if err != nil {
		t.Error(err)
		return
	}
	defer func() {
		tmpfile.Close()
		os.Remove(tmpfile.Name()) // clean up
	}()
	t.Logf("writing scene digraph to %s\n", tmpfile.Name())
	if err := ToGraphViz(root, tmpfile, nil); err != nil {
		t.Error(err)
		return
	}
	outOption := fmt.Sprintf("-o%s.svg", tmpfile.Name())
	cmd := exec.Command("dot", "-Tsvg", outOption, tmpfile.Name())
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	t.Logf("writing scene tree image to %s.svg\n", tmpfile.Name())
	if err := cmd.Run(); err != nil {
		t.Error(err.Error())
	}
}

type node struct {
	N    *scene.Element
	Name string
}

func nodes(e *scene.Element, w io.Writer, dict map[*scene.Element]string, gparams *graphParamsType) error {
	if err := sceneNode(e, w, dict, gparams); err != nil {
		return err
	}
	for _, ch := range e.ChildNodes() {
		if err := nodes(ch, w, dict, gparams); err != nil {
			return err
		}
		if err := sceneEdge(e, ch, w, dict, gparams); err != nil {
			return err
		}
	}
	return nil
}

func sceneNode(e *scene.Element, w io.Writer, dict map[*scene.Element]string, gparams *graphParamsType) error {
	name := dict[e]
	if name == "" {
		name = fmt.Sprintf("node%05d", len(dict)+1)
		dict[e] = name
	}
	if err := gparams.NodeTmpl.Execute(w, &node{e, name}); err != nil {
		return err
	}
	return sceneStyles(e, name, w, gparams)
}

type pgedge struct {
	Name      string
	PropGroup *style.PropertyGroup
}

func sceneStyles(e *scene.Element, name string, w io.Writer, gparams *graphParamsType) error {
	pmap := e.Styles()
	for _, s := range gparams.StyleGroups {
		pg := pmap.Group(s)
		if pg == nil {
			continue
		}
		if err := gparams.StylegroupTmpl.Execute(w, pg); err != nil {
			return err
		}
		if err := gparams.PgedgeTmpl.Execute(w, pgedge{name, pg}); err != nil {
			return err
		}
	}
	return nil
}

type edge struct {
	N1, N2 node
}

func sceneEdge(e1, e2 *scene.Element, w io.Writer, dict map[*scene.Element]string,
	gparams *graphParamsType) error {
	//
	ed := edge{node{e1, dict[e1]}, node{e2, dict[e2]}}
	return gparams.EdgeTmpl.Execute(w, ed)
}

func shortText(e *scene.Element) string {
	s := "\"\\\""
	if data := e.NodeValue(); len(data) > 10 {
		s += data[:10] + "...\\\"\""
	} else {
		s += data + "\\\"\""
	}
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	s = strings.Replace(s, " ", "␣", -1)
	return s
}

func attributeLabel(e *scene.Element) string {
	var sb strings.Builder
	sb.WriteString(e.NodeName())
	for _, a := range e.Attributes() {
		if a.Key == "style" {
			continue
		}
		fmt.Fprintf(&sb, "\n%s=%s", a.Key, a.Val)
	}
	return fmt.Sprintf("%q", sb.String())
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const sceneNodeTmpl = `{{ if eq .N.NodeName "#text" }}
{{ .Name }}	[ label={{ shortstring .N }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else }}
{{ .Name }}	[ label={{ attributes .N }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ end }}
`

const styleGroupTmpl = `{{ printf "pg%p" . }} [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      <tr><td bgcolor="azure4" align="center" colspan="2"><font color="white">{{ .Name }}</font></td></tr>
      {{ range .Properties }}
      <tr><td align="right">{{ .Key }}:</td><td>{{ .Value }}</td></tr>
      {{ else }}
      <tr><td colspan="2">no styles</td></tr>
      {{ end }}
    </table>> ] ;
`

const sceneEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`

const pgEdgeTmpl = `{{ .Name }} -> {{ printf "pg%p" .PropGroup }} [dir=none weight=1 style="dashed"] ;
`
