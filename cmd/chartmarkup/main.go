/*
Command chartmarkup sanitizes label markup the way a chart renderer does
and prints the result.

    chartmarkup [flags] [FILE|-]

Markup is read from FILE, or from stdin if FILE is "-" or missing. Removed
tags, attributes and styles are logged to stderr.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/npillmayer/chartmarkup/ast"
	"github.com/npillmayer/chartmarkup/config"
	"github.com/npillmayer/chartmarkup/scene"
	"github.com/npillmayer/chartmarkup/scene/scenedbg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version may be set at link time.
var Version = ""

var formats = []string{"html", "tree", "json", "dot"}

type options struct {
	configFile string
	format     string
	input      string
	debug      bool
}

func newRootCmd() *cobra.Command {
	v := config.New()
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "chartmarkup [FILE|-]",
		Short: "Sanitize chart label markup",
		Long: `Sanitize chart label markup.

Markup is parsed, filtered against allow-lists of tags, attributes and
URL references, and materialized into a scene, which is then printed.`,
		Example: `  echo '<b onclick="x()">bold</b>' | chartmarkup
  chartmarkup --format tree --host svg label.html
  chartmarkup --input json nodes.json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return validateOptions(opts)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, v, opts, args)
		},
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	cmd.Version = Version

	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: chartmarkup.yaml in . or the user config dir)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "html", "output format: "+strings.Join(formats, "|"))
	cmd.Flags().StringVarP(&opts.input, "input", "i", "markup", "input format: markup|json")
	cmd.Flags().StringP("host", "", config.HostHTML, "target element: html|svg")
	cmd.Flags().StringP("strategy", "s", ast.StrategyAuto.String(), "parser strategy: auto|native|container")
	cmd.Flags().Bool("bypass", false, "do not filter markup (trusted input only)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log debug messages")

	_ = v.BindPFlag("host", cmd.Flags().Lookup("host"))
	_ = v.BindPFlag("parser", cmd.Flags().Lookup("strategy"))
	_ = v.BindPFlag("bypass_filtering", cmd.Flags().Lookup("bypass"))
	return cmd
}

func validateOptions(opts *options) error {
	opts.format = strings.ToLower(strings.TrimSpace(opts.format))
	valid := false
	for _, f := range formats {
		if opts.format == f {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("unknown output format %q", opts.format)
	}
	if opts.input != "markup" && opts.input != "json" {
		return fmt.Errorf("unknown input format %q", opts.input)
	}
	return nil
}

func execute(cmd *cobra.Command, v *viper.Viper, opts *options, args []string) error {
	logger := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{Prefix: "chartmarkup"})
	if opts.debug {
		logger.SetLevel(log.DebugLevel)
	}
	if err := config.ReadFile(v, opts.configFile); err != nil {
		return err
	}
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("Using configuration file", "path", used)
	}
	conf, err := config.FromViper(v)
	if err != nil {
		return err
	}
	if err := conf.SetupTracing(); err != nil {
		logger.Warn("Could not set up tracing", "err", err)
	}
	src, err := readSource(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	doc := scene.NewDocument()
	s, err := conf.Sanitizer(doc, ast.WithReporter(func(r ast.Rejection) {
		logger.Warn("Removed "+r.Kind.String(), "tag", r.Tag, "key", r.Key, "value", r.Value)
	}))
	if err != nil {
		return err
	}
	var a *ast.AST
	if opts.input == "json" {
		nodes, err := ast.ParseJSON(src)
		if err != nil {
			return err
		}
		a = s.FromNodes(nodes...)
	} else if a, err = s.NewAST(string(src)); err != nil {
		return err
	}
	logger.Debug("Parsed markup", "nodes", len(a.Nodes()))
	target := conf.Target(doc)
	a.AddToDOM(target)
	return write(cmd.OutOrStdout(), opts.format, target)
}

func readSource(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}

func write(w io.Writer, format string, target *scene.Element) error {
	switch format {
	case "tree":
		_, err := io.WriteString(w, ast.Dump(readBack(target)))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(readBack(target))
	case "dot":
		return scenedbg.ToGraphViz(target, w, nil)
	}
	markup, err := scene.InnerMarkup(target)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, markup)
	return err
}

func readBack(target *scene.Element) []*ast.Node {
	var nodes []*ast.Node
	for _, ch := range target.ChildNodes() {
		nodes = append(nodes, ast.FromScene(ch))
	}
	return nodes
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
