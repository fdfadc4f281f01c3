package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/chartmarkup/ast"
	"github.com/npillmayer/chartmarkup/scene"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
parser: container
host: SVG
allow:
  tags: [foreignObject]
  attributes: [data-series]
  references: ["data:image/"]
tracelevel:
  chartmarkup:
    ast: Debug
`

func writeConfig(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chartmarkup.config")
	defer teardown()
	//
	c, err := Load(writeConfig(t, "chartmarkup.yaml", testConfig))
	require.NoError(t, err)
	assert.Equal(t, "container", c.Parser)
	assert.Equal(t, HostSVG, c.Host)
	assert.False(t, c.BypassFiltering)
	assert.Equal(t, []string{"foreignObject"}, c.Allow.Tags)
	assert.Equal(t, []string{"data-series"}, c.Allow.Attributes)
	assert.Equal(t, []string{"data:image/"}, c.Allow.References)
	assert.Equal(t, "Debug", c.v.GetString("tracelevel.chartmarkup.ast"))
	assert.Equal(t, "Error", c.v.GetString("tracelevel.chartmarkup.scene"))
}

func TestLoadDefaults(t *testing.T) {
	c, err := FromViper(New())
	require.NoError(t, err)
	assert.Equal(t, "auto", c.Parser)
	assert.Equal(t, HostHTML, c.Host)
	assert.Empty(t, c.Allow.Tags)
	opts, err := c.Options(nil)
	require.NoError(t, err)
	assert.Len(t, opts, 1)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	_, err = Load(writeConfig(t, "bad.yaml", "parser: dom\n"))
	assert.Error(t, err)
	_, err = Load(writeConfig(t, "bad.yaml", "host: pdf\n"))
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("CHARTMARKUP_PARSER", "native")
	t.Setenv("CHARTMARKUP_BYPASS_FILTERING", "true")
	t.Setenv("CHARTMARKUP_ALLOW_TAGS", "foreignObject,video")
	c, err := Load(writeConfig(t, "chartmarkup.yaml", testConfig))
	require.NoError(t, err)
	assert.Equal(t, "native", c.Parser)
	assert.True(t, c.BypassFiltering)
	assert.Equal(t, []string{"foreignObject", "video"}, c.Allow.Tags)
}

func TestConfiguredSanitizer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "chartmarkup.config", "chartmarkup.ast")
	defer teardown()
	//
	c, err := Load(writeConfig(t, "chartmarkup.json",
		`{"parser": "container", "allow": {"tags": ["video"]}}`))
	require.NoError(t, err)
	doc := scene.NewDocument()
	s, err := c.Sanitizer(doc)
	require.NoError(t, err)
	target := c.Target(doc)
	assert.Equal(t, scene.XHTMLNamespace, target.Namespace())
	require.NoError(t, s.SetMarkup(target, `<video width="10" onplay="x()">x</video><script>y</script>`))
	require.Len(t, target.ChildNodes(), 1)
	video := target.FirstChild()
	assert.Equal(t, "video", video.NodeName())
	assert.Len(t, video.Attributes(), 1)
	assert.Equal(t, 0, doc.DetachedCount())
	//
	_, err = c.Sanitizer(nil)
	assert.ErrorIs(t, err, ast.ErrNoHost)
}

func TestSVGTarget(t *testing.T) {
	c := &Config{Host: HostSVG}
	target := c.Target(scene.NewDocument())
	assert.Equal(t, scene.SVGNamespace, target.Namespace())
	assert.Equal(t, "text", target.NodeName())
}

func TestSetupTracing(t *testing.T) {
	c, err := Load(writeConfig(t, "chartmarkup.yaml", testConfig))
	require.NoError(t, err)
	require.NoError(t, c.SetupTracing())
	defer trace2go.Teardown()
	assert.Equal(t, tracing.LevelDebug, tracing.Select("chartmarkup.ast").GetTraceLevel())
	assert.Equal(t, tracing.LevelError, tracing.Select("chartmarkup.scene").GetTraceLevel())
}
