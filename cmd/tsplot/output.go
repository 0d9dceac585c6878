package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tsplot/tsplot/pkg/evalctx"
	"github.com/tsplot/tsplot/pkg/graphdef"
	"github.com/tsplot/tsplot/pkg/render"
	"github.com/tsplot/tsplot/pkg/tagindex"
	"github.com/tsplot/tsplot/pkg/tserr"
)

// writeOutputs runs the pipeline and writes --out (and --emit-v2, if
// requested) to disk. Nothing is written to the final path until the full
// byte payload is in hand, and a failed write never leaves a partial file
// behind.
func writeOutputs(cli CLI, ctx evalctx.Context, index tagindex.TagIndex, opts graphdef.BuildOptions) error {
	req := render.Request{Query: cli.Q, Ctx: ctx, Index: index, Options: opts}
	gzipV2 := strings.HasSuffix(cli.EmitV2, ".gz")

	res, err := render.Run(req, true, cli.EmitV2 != "", !cli.NoLegend, gzipV2)
	if err != nil {
		return err
	}

	if err := atomicWrite(cli.Out, res.PNG); err != nil {
		return tserr.Wrap(err, tserr.IO, "", "writing PNG output "+cli.Out)
	}
	if cli.EmitV2 != "" {
		if err := atomicWrite(cli.EmitV2, res.JSON); err != nil {
			return tserr.Wrap(err, tserr.IO, "", "writing GraphDef JSON output "+cli.EmitV2)
		}
	}
	return nil
}

// atomicWrite writes data to a temp file in the same directory as path,
// then renames it into place, so a crash or write error never leaves a
// truncated file at path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tsplot-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
