package ast

import (
	"errors"
	"testing"

	"github.com/npillmayer/chartmarkup/scene"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNativeParse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chartmarkup.ast")
	defer teardown()
	//
	nodes, err := NativeParser{}.Parse(`<p class="label">Price: <B>$5</B></p>`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	p := nodes[0]
	assert.Equal(t, "p", p.TagName)
	assert.Equal(t, Attributes{"class": String("label")}, p.Attributes)
	require.Len(t, p.Children, 2)
	assert.Equal(t, Text("Price: "), p.Children[0])
	assert.Equal(t, "b", p.Children[1].TagName)
	assert.Equal(t, []*Node{Text("$5")}, p.Children[1].Children)
	t.Logf("\n%s", Dump(nodes))
}

func TestLeadingWhitespaceIsDropped(t *testing.T) {
	for _, p := range []Parser{NativeParser{}, ContainerParser{Host: scene.NewDocument()}} {
		nodes, err := p.Parse("  \n  <b>hi</b>")
		require.NoError(t, err)
		require.Len(t, nodes, 1, "%T", p)
		assert.Equal(t, "b", nodes[0].TagName)
		//
		nodes, err = p.Parse("<!-- note --> <b>hi</b>")
		require.NoError(t, err)
		require.Len(t, nodes, 1, "%T", p)
		assert.Equal(t, "b", nodes[0].TagName)
		//
		nodes, err = p.Parse("<b>hi</b>  \n  <i>x</i>")
		require.NoError(t, err)
		require.Len(t, nodes, 3, "%T", p)
		assert.Equal(t, "b", nodes[0].TagName)
		assert.Equal(t, Text("  \n  "), nodes[1])
		assert.Equal(t, "i", nodes[2].TagName)
		//
		nodes, err = p.Parse("<p> <b>x</b></p>")
		require.NoError(t, err)
		require.Len(t, nodes, 1, "%T", p)
		require.Len(t, nodes[0].Children, 2)
		assert.Equal(t, Text(" "), nodes[0].Children[0])
	}
}

func TestParseEmpty(t *testing.T) {
	for _, p := range []Parser{NativeParser{}, ContainerParser{Host: scene.NewDocument()}} {
		nodes, err := p.Parse("   ")
		require.NoError(t, err)
		assert.Empty(t, nodes)
	}
}

func TestContainerParserMatchesNativeParser(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chartmarkup.ast", "chartmarkup.scene")
	defer teardown()
	//
	doc := scene.NewDocument(scene.WithoutMarkupParsing())
	container := ContainerParser{Host: doc}
	inputs := []string{
		`<p class="label">Price: <b>$5</b> &amp; more<br/>end</p>`,
		`<span style="color: red">a</span><span>b</span>`,
		`<a href="https://example.com" target="_blank">link</a>`,
		`<table><tbody><tr><td colspan="2">cell</td></tr></tbody></table>`,
		`<svg width="10"><rect x="1" y="2"></rect></svg>`,
		`<script>if (a < b) alert(1)</script>text`,
		`<svg><marker refX="1" markerWidth="2"></marker></svg>`,
		`<svg><filter><feGaussianBlur stdDeviation="2"/></filter><text textLength="5">t</text></svg>`,
		`<table><tr><td>a</td></tr></table>`,
		`<table><td>b</td></table>`,
		`<table><thead><th scope="col">c</th></thead></table>`,
	}
	for _, markup := range inputs {
		native, err := NativeParser{}.Parse(markup)
		require.NoError(t, err)
		tokenized, err := container.Parse(markup)
		require.NoError(t, err)
		assert.Equal(t, native, tokenized, "markup %q\nnative:\n%s\ncontainer:\n%s",
			markup, Dump(native), Dump(tokenized))
	}
	assert.Equal(t, 0, doc.DetachedCount())
}

func TestContainerParserKeepsSVGAttributeNames(t *testing.T) {
	s, err := New(WithHost(scene.NewDocument()), WithStrategy(StrategyContainer))
	require.NoError(t, err)
	el := scene.NewDocument().CreateElement("div")
	require.NoError(t, s.SetMarkup(el, `<svg><marker refX="1" markerWidth="2"></marker></svg>`))
	marker, err := scene.QueryFirst(el, "marker")
	require.NoError(t, err)
	require.NotNil(t, marker)
	v, ok := marker.Attribute("refX")
	assert.True(t, ok)
	assert.Equal(t, "1", v)
	_, ok = marker.Attribute("markerWidth")
	assert.True(t, ok)
}

func TestContainerParserRepairsStructure(t *testing.T) {
	doc := scene.NewDocument()
	nodes, err := ContainerParser{Host: doc}.Parse("<b>bold <i>both</b> plain</i>")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "b", nodes[0].TagName)
	require.Len(t, nodes[0].Children, 2)
	assert.Equal(t, "i", nodes[0].Children[1].TagName)
	assert.Equal(t, Text(" plain"), nodes[1])
	assert.Equal(t, 0, doc.DetachedCount())
}

func TestContainerParserWithoutHost(t *testing.T) {
	_, err := ContainerParser{}.Parse("<b>x</b>")
	assert.True(t, errors.Is(err, ErrNoHost))
}

type failingParser struct{}

func (failingParser) Parse(string) ([]*Node, error) {
	return nil, errors.New("parser unavailable")
}

func TestFallbackParser(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chartmarkup.ast")
	defer teardown()
	//
	doc := scene.NewDocument()
	fp := fallbackParser{primary: failingParser{}, secondary: ContainerParser{Host: doc}}
	nodes, err := fp.Parse("<b>x</b>")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "b", nodes[0].TagName)
	assert.Equal(t, 0, doc.DetachedCount())
	//
	_, err = fallbackParser{primary: failingParser{}, secondary: failingParser{}}.Parse("x")
	assert.Error(t, err)
}

func TestParserSelection(t *testing.T) {
	s, err := New()
	require.NoError(t, err)
	assert.IsType(t, NativeParser{}, s.parser)
	//
	s, err = New(WithHost(scene.NewDocument()))
	require.NoError(t, err)
	assert.IsType(t, fallbackParser{}, s.parser)
	//
	s, err = New(WithHost(scene.NewDocument(scene.WithoutMarkupParsing())))
	require.NoError(t, err)
	assert.IsType(t, ContainerParser{}, s.parser)
	//
	s, err = New(WithHost(scene.NewDocument()), WithStrategy(StrategyContainer))
	require.NoError(t, err)
	assert.IsType(t, ContainerParser{}, s.parser)
	//
	s, err = New(WithHost(scene.NewDocument(scene.WithoutMarkupParsing())), WithStrategy(StrategyNative))
	require.NoError(t, err)
	assert.IsType(t, NativeParser{}, s.parser)
	//
	_, err = New(WithStrategy(StrategyContainer))
	assert.True(t, errors.Is(err, ErrNoHost))
	//
	s, err = New(WithParser(failingParser{}), WithStrategy(StrategyContainer))
	require.NoError(t, err)
	_, err = s.Parse("x")
	assert.Error(t, err)
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{
		"":          StrategyAuto,
		"auto":      StrategyAuto,
		" Native ":  StrategyNative,
		"container": StrategyContainer,
	} {
		st, err := ParseStrategy(in)
		require.NoError(t, err)
		assert.Equal(t, want, st)
	}
	_, err := ParseStrategy("dom")
	assert.Error(t, err)
	assert.Equal(t, "container", StrategyContainer.String())
}

func TestSVGNamesAreLowercased(t *testing.T) {
	nodes, err := Parse(`<svg><clipPath id="c"><rect xlink:href="#r"/></clipPath></svg>`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Len(t, nodes[0].Children, 1)
	clip := nodes[0].Children[0]
	assert.Equal(t, "clippath", clip.TagName)
	require.Len(t, clip.Children, 1)
	assert.Equal(t, String("#r"), clip.Children[0].Attributes["xlink:href"])
}
