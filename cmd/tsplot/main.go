// Command tsplot is the CLI adapter over the core render pipeline:
// it parses flags, builds an evaluation context and tag index, calls
// pkg/render.Run, and writes the PNG (and optional GraphDef JSON) to
// disk. No rendering or evaluation logic lives here — this file only
// translates between the filesystem/flag world and pkg/render's
// programmatic entry point.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/tsplot/tsplot/internal/log"
	"github.com/tsplot/tsplot/pkg/graphdef"
	"github.com/tsplot/tsplot/pkg/tserr"
)

// CLI is the flag surface. All arguments are flags; there are no
// positionals.
type CLI struct {
	Q string `name:"q" help:"Postfix query program text. Required unless --describe is set."`

	S  string `name:"s" help:"Start time: relative (e-1w style) or ISO-8601." default:"s-1h"`
	E  string `name:"e" help:"End time: relative (e-1w) or ISO-8601." default:"e-0s"`
	TZ string `name:"tz" help:"IANA timezone name." default:"UTC"`

	Step string `name:"step" help:"Sample step, e.g. 15s, 1m." default:"1m"`

	W        int    `name:"w" help:"Canvas width in pixels." default:"800"`
	H        int    `name:"h" help:"Canvas height in pixels." default:"400"`
	Theme    string `name:"theme" help:"Color theme." enum:"light,dark" default:"light"`
	Layout   string `name:"layout" help:"Plot layout." enum:"single,axes" default:"single"`
	Palette  string `name:"palette" help:"Color palette." default:"default"`
	NoLegend bool   `name:"no-legend" help:"Suppress the legend."`

	Out      string `name:"out" help:"PNG output path. Required unless --describe is set."`
	EmitV2   string `name:"emit-v2" help:"Optional GraphDef V2 JSON output path (.gz for gzip)."`
	Describe bool   `name:"describe" help:"Print the tag index's known tag keys instead of rendering."`

	Fixture string `name:"fixture" help:"YAML tag-index fixture to load (see pkg/tagsource)."`

	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)." default:"info"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("tsplot"),
		kong.Description("Deterministic time-series graph rendering from a postfix query language."),
	)

	log.InitLogger(cli.LogLevel)

	if err := run(cli); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	if e, ok := tserr.As(err); ok && e.Kind == tserr.Usage {
		fmt.Fprintf(os.Stderr, "ERROR %s: %s\n", e.Kind, e.Message)
		return 2
	}
	if e, ok := tserr.As(err); ok {
		fmt.Fprintf(os.Stderr, "ERROR %s: %s\n", e.Kind, e.Message)
		return 1
	}
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
	return 1
}

func run(cli CLI) error {
	if cli.Fixture == "" {
		return tserr.New(tserr.Usage, "MissingFlag", "--fixture is required")
	}
	index, err := resolveIndex(cli.Fixture)
	if err != nil {
		return err
	}

	if cli.Describe {
		return describeIndex(index)
	}

	if cli.Q == "" {
		return tserr.New(tserr.Usage, "MissingFlag", "--q is required")
	}
	if cli.Out == "" {
		return tserr.New(tserr.Usage, "MissingFlag", "--out is required")
	}
	if cli.W < 80 || cli.H < 40 {
		return tserr.Newf(tserr.Usage, "InvalidCanvas", "canvas %dx%d below minimum 80x40", cli.W, cli.H)
	}

	ctx, err := buildContext(cli)
	if err != nil {
		return err
	}

	opts := graphdef.BuildOptions{
		Width: cli.W, Height: cli.H, Theme: cli.Theme, Layout: cli.Layout, Palette: cli.Palette,
	}

	return writeOutputs(cli, ctx, index, opts)
}
