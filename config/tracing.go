package config

import (
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/spf13/viper"
)

// tracer traces with key 'chartmarkup.config'.
func tracer() tracing.Trace {
	return tracing.Select("chartmarkup.config")
}

// SetupTracing installs the trace adapter named by key "tracing" as the
// global trace selector. Trace levels are read from keys
// "tracelevel.<tracer key>", e.g. "tracelevel.chartmarkup.ast".
func (c *Config) SetupTracing() error {
	if c.v == nil {
		c.v = New()
	}
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	err := trace2go.ConfigureRoot(schukoConf{c.v}, "tracelevel", trace2go.ReplaceTracers(true))
	if err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// schukoConf presents a viper instance as a schuko configuration.
type schukoConf struct {
	v *viper.Viper
}

var _ schuko.Configuration = schukoConf{}

func (c schukoConf) InitDefaults() {}

func (c schukoConf) IsSet(key string) bool {
	return c.v.IsSet(key)
}

func (c schukoConf) GetString(key string) string {
	return c.v.GetString(key)
}

func (c schukoConf) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c schukoConf) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c schukoConf) IsInteractive() bool {
	return false
}
