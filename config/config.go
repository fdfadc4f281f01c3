/*
Package config loads sanitizer settings from a configuration file and from
the environment.

A configuration file (YAML, TOML or JSON) may look like this:

    parser: auto              # auto | native | container
    bypass_filtering: false
    host: svg                 # kind of target element: html | svg
    allow:
      tags: [foreignObject]
      attributes: [data-series]
      references: ["data:image/"]
    tracing: go
    tracelevel:
      root: Error
      chartmarkup:
        ast: Info

Every key may be overridden by an environment variable with prefix
CHARTMARKUP_, e.g. CHARTMARKUP_PARSER=container. Lists in environment
variables are separated by commas.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

import (
	"errors"
	"fmt"
	"strings"

	gap "github.com/muesli/go-app-paths"
	"github.com/npillmayer/chartmarkup/ast"
	"github.com/npillmayer/chartmarkup/scene"
	"github.com/spf13/viper"
)

// AppName is used for the config file name, the config directories and as
// the environment prefix.
const AppName = "chartmarkup"

// Hosts for materialized markup.
const (
	HostHTML = "html"
	HostSVG  = "svg"
)

var tracerKeys = []string{
	"chartmarkup.ast",
	"chartmarkup.config",
	"chartmarkup.scene",
	"chartmarkup.tree",
}

// Config holds the sanitizer settings of an application.
type Config struct {
	Parser          string `mapstructure:"parser"`
	BypassFiltering bool   `mapstructure:"bypass_filtering"`
	Host            string `mapstructure:"host"`
	Allow           Allow  `mapstructure:"allow"`
	v               *viper.Viper // for tracing configuration
}

// Allow lists extensions to the default allow-lists.
type Allow struct {
	Tags       []string `mapstructure:"tags"`
	Attributes []string `mapstructure:"attributes"`
	References []string `mapstructure:"references"`
}

// New creates a viper instance with defaults and environment bindings for
// all configuration keys. Clients may bind command line flags to it before
// calling FromViper.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("parser", ast.StrategyAuto.String())
	v.SetDefault("bypass_filtering", false)
	v.SetDefault("host", HostHTML)
	v.SetDefault("allow.tags", []string{})
	v.SetDefault("allow.attributes", []string{})
	v.SetDefault("allow.references", []string{})
	v.SetDefault("tracing", "go")
	v.SetDefault("tracelevel.root", "Error")
	for _, key := range tracerKeys {
		v.SetDefault("tracelevel."+key, "Error")
	}
	v.SetEnvPrefix(AppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from path. If path is empty, a file named
// chartmarkup.{yaml,toml,json} is searched for in the working directory
// and in the user's config directories; a missing file is not an error
// then.
func Load(path string) (*Config, error) {
	v := New()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// ReadFile reads a configuration file into v, see Load.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: cannot read %s: %w", path, err)
		}
		tracer().Infof("config: using configuration file %s", path)
		return nil
	}
	v.SetConfigName(AppName)
	v.AddConfigPath(".")
	if dirs, err := gap.NewScope(gap.User, AppName).ConfigDirs(); err == nil {
		for _, dir := range dirs {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("config: %w", err)
	}
	tracer().Infof("config: using configuration file %s", v.ConfigFileUsed())
	return nil
}

// FromViper extracts and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	c := &Config{v: v}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c.Host = strings.ToLower(strings.TrimSpace(c.Host))
	if c.Host != HostHTML && c.Host != HostSVG {
		return nil, fmt.Errorf("config: unknown host %q, expected %q or %q", c.Host, HostHTML, HostSVG)
	}
	if _, err := ast.ParseStrategy(c.Parser); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

// Options converts the configuration to sanitizer options. doc is the host
// document markup will be materialized into; it may be nil.
func (c *Config) Options(doc *scene.Document) ([]ast.Option, error) {
	st, err := ast.ParseStrategy(c.Parser)
	if err != nil {
		return nil, err
	}
	opts := []ast.Option{ast.WithStrategy(st)}
	if doc != nil {
		opts = append(opts, ast.WithHost(doc))
	}
	if len(c.Allow.Tags)+len(c.Allow.Attributes)+len(c.Allow.References) > 0 {
		al := ast.DefaultAllowLists().Extend(c.Allow.Tags, c.Allow.Attributes, c.Allow.References)
		opts = append(opts, ast.WithAllowLists(al))
	}
	if c.BypassFiltering {
		tracer().Infof("config: markup filtering is disabled")
		opts = append(opts, ast.WithoutFiltering())
	}
	return opts, nil
}

// Sanitizer creates a sanitizer for doc from the configuration. Further
// options are applied after the configured ones.
func (c *Config) Sanitizer(doc *scene.Document, opts ...ast.Option) (*ast.Sanitizer, error) {
	copts, err := c.Options(doc)
	if err != nil {
		return nil, err
	}
	return ast.New(append(copts, opts...)...)
}

// Target creates the element markup is materialized into, according to the
// configured host.
func (c *Config) Target(doc *scene.Document) *scene.Element {
	if c.Host == HostSVG {
		return doc.CreateElementNS(scene.SVGNamespace, "text")
	}
	return doc.CreateElement("div")
}
