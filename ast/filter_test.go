package ast

import (
	"fmt"
	"io"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collecting(rejections *[]Rejection) Option {
	return WithReporter(func(r Rejection) {
		*rejections = append(*rejections, r)
	})
}

func TestFilterAttributesAllowList(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chartmarkup.ast")
	defer teardown()
	//
	s, err := New()
	require.NoError(t, err)
	tests := []struct {
		key  string
		val  Value
		keep bool
	}{
		{"class", String("label"), true},
		{"x", Number(12.5), true},
		{"zIndex", Number(3), true},
		{"onclick", String("alert(1)"), false},
		{"onload", String("x"), false},
		{"ONCLICK", String("x"), false},
		{"href", String("https://example.com"), true},
		{"href", String("#anchor"), true},
		{"href", String("javascript:alert(1)"), false},
		{"href", String("data:text/html,<script>"), false},
		{"href", Number(1), false},
		{"src", String("/img/logo.png"), true},
		{"src", String("vbscript:x"), false},
		{"xlink:href", String("#glyph"), true},
		{"xlink:href", String("javascript:alert(1)"), false},
		{"background", String("https://example.com/bg.png"), false}, // not on the allow-list
	}
	for _, tt := range tests {
		attrs := Attributes{tt.key: tt.val}
		filtered := s.FilterAttributes(attrs)
		_, kept := filtered[tt.key]
		assert.Equal(t, tt.keep, kept, "%s=%s", tt.key, tt.val)
	}
}

func TestFilterAttributesInPlace(t *testing.T) {
	var rejected []Rejection
	s, err := New(collecting(&rejected))
	require.NoError(t, err)
	attrs := Attributes{
		"class":   String("a"),
		"onclick": String("x"),
		"href":    String("javascript:alert(1)"),
	}
	r := s.FilterAttributes(attrs)
	assert.Equal(t, Attributes{"class": String("a")}, attrs)
	assert.Equal(t, attrs, r)
	require.Len(t, rejected, 2)
	for _, rej := range rejected {
		assert.Equal(t, RejectedAttribute, rej.Kind)
	}
}

func TestPackageLevelFilterAttributes(t *testing.T) {
	attrs := FilterAttributes(Attributes{"href": String("javascript:alert(1)")})
	assert.Empty(t, attrs)
	attrs = FilterAttributes(Attributes{"href": String("https://example.com")})
	assert.Equal(t, String("https://example.com"), attrs["href"])
}

func TestParseStyle(t *testing.T) {
	decls, err := ParseStyle("color: #666; font-weight: bold !important;")
	require.NoError(t, err)
	assert.Equal(t, []StyleDeclaration{
		{Property: "color", Value: "#666"},
		{Property: "font-weight", Value: "bold !important"},
	}, decls)
	decls, err = ParseStyle(" Color: red ")
	require.NoError(t, err)
	assert.Equal(t, []StyleDeclaration{{Property: "color", Value: "red"}}, decls)
	decls, err = ParseStyle("")
	require.NoError(t, err)
	assert.Empty(t, decls)
}

func TestUnsafeStyles(t *testing.T) {
	unsafe := []StyleDeclaration{
		{"background", "url(javascript:alert(1))"},
		{"background", "U R L (x.png)"},
		{"width", "expression(alert(1))"},
		{"width", "expr\\ession(alert(1))"},
		{"behavior", "x.htc"},
		{"-moz-binding", "x"},
		{"beh\\61vior", "x.htc"},
		{"background", "u\\72l(//evil.example/x.png)"},
		{"background", "\\75rl(//evil.example/x.png)"},
		{"background", "u\\000072l(//evil.example/x.png)"},
		{"background", "u\\72 l(x.png)"},
		{"background", "ur/**/l(x.png)"},
		{"background-image", "image-set(\"x.png\" 1x)"},
		{"background-image", "IMAGE-SET(\"x.png\" 1x)"},
		{"background-image", "src(x.png)"},
		{"background-image", "element(#id)"},
		{"background", "linear-gradient(red, blue), url(x.png)"},
	}
	for _, d := range unsafe {
		assert.True(t, isUnsafeStyle(d), d.Property+": "+d.Value)
	}
	safe := []StyleDeclaration{
		{"color", "red"},
		{"font-family", "Arial, sans-serif"},
		{"color", "rgb(10, 20, 30)"},
		{"width", "calc(100% - 2px)"},
		{"background", "linear-gradient(red, blue)"},
		{"font-family", "\\41rial"},
	}
	for _, d := range safe {
		assert.False(t, isUnsafeStyle(d), d.Property+": "+d.Value)
	}
}

func TestUnescapeCSS(t *testing.T) {
	assert.Equal(t, "url(", unescapeCSS(`u\72l(`))
	assert.Equal(t, "url(", unescapeCSS(`\75rl(`))
	assert.Equal(t, "url(", unescapeCSS(`u\000072l(`))
	assert.Equal(t, "url(", unescapeCSS(`u\72 l(`))
	assert.Equal(t, "a;b", unescapeCSS(`a\;b`))
	assert.Equal(t, "\uFFFDx", unescapeCSS(`\0 x`))
	assert.Equal(t, "ab", unescapeCSS("a\\\nb"))
	assert.Equal(t, "plain", unescapeCSS("plain"))
}

func TestRejectionString(t *testing.T) {
	assert.Equal(t, "invalid tag <script> removed", Rejection{Kind: RejectedTag, Tag: "script"}.String())
	assert.Equal(t, `invalid attribute onclick="x" in <div> removed`,
		Rejection{Kind: RejectedAttribute, Tag: "div", Key: "onclick", Value: "x"}.String())
	assert.Equal(t, "style", RejectedStyle.String())
}

// recordingTrace keeps messages traced on error level.
type recordingTrace struct {
	errors []string
	level  tracing.TraceLevel
}

func (rt *recordingTrace) Errorf(msg string, args ...interface{}) {
	rt.errors = append(rt.errors, fmt.Sprintf(msg, args...))
}
func (rt *recordingTrace) Infof(string, ...interface{}) {}
func (rt *recordingTrace) Debugf(string, ...interface{}) {}
func (rt *recordingTrace) P(string, interface{}) tracing.Trace { return rt }
func (rt *recordingTrace) SetTraceLevel(l tracing.TraceLevel) { rt.level = l }
func (rt *recordingTrace) GetTraceLevel() tracing.TraceLevel { return rt.level }
func (rt *recordingTrace) SetOutput(io.Writer) {}

type recordingSelector struct {
	rt *recordingTrace
}

func (sel recordingSelector) Select(string) tracing.Trace {
	return sel.rt
}

func TestRejectionsAreTracedOnErrorLevel(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chartmarkup.ast")
	defer teardown()
	//
	rt := &recordingTrace{level: tracing.LevelError}
	tracing.SetTraceSelector(recordingSelector{rt})
	s, err := New()
	require.NoError(t, err)
	s.FilterAttributes(Attributes{"onclick": String("x()")})
	require.Len(t, rt.errors, 1)
	assert.Contains(t, rt.errors[0], `invalid attribute onclick="x()"`)
}
