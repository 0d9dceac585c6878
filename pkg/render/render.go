// Package render wires the whole pipeline into a single programmatic
// entry point: parse -> evaluate -> build GraphDef -> rasterize and/or
// encode. It is also where request-scoped logging and Prometheus metrics
// live, with each request tagged by a generated request id.
package render

import (
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tsplot/tsplot/internal/log"
	"github.com/tsplot/tsplot/pkg/codec"
	"github.com/tsplot/tsplot/pkg/evalctx"
	"github.com/tsplot/tsplot/pkg/graphdef"
	"github.com/tsplot/tsplot/pkg/rasterize"
	"github.com/tsplot/tsplot/pkg/sql"
	"github.com/tsplot/tsplot/pkg/tagindex"
	"github.com/tsplot/tsplot/pkg/tserr"
)

var (
	metricRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tsplot",
		Name:      "requests_total",
		Help:      "Total number of render requests, by outcome.",
	}, []string{"outcome"})
	metricRenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tsplot",
		Name:      "render_duration_seconds",
		Help:      "Time to run one render request end to end.",
		Buckets:   prometheus.ExponentialBuckets(.001, 2, 12),
	})
)

// Request is the input to Run: a query program and the evaluation/rendering
// context it runs against.
type Request struct {
	Query   string
	Ctx     evalctx.Context
	Index   tagindex.TagIndex
	Options graphdef.BuildOptions
}

// Result carries everything a caller might want out of one request: the
// GraphDef (always), and PNG bytes / encoded JSON when requested.
type Result struct {
	GraphDef graphdef.GraphDef
	PNG      []byte
	JSON     []byte
}

// Run executes the full pipeline for one request as a single programmatic
// entry point usable by both the CLI and embedders. renderPNG/emitJSON
// control which of the two output artifacts are produced; both may be
// requested in the same call.
func Run(req Request, renderPNG, emitJSON, legend, gzipJSON bool) (Result, error) {
	reqID := uuid.New().String()
	start := time.Now()
	defer func() {
		metricRenderDuration.Observe(time.Since(start).Seconds())
	}()

	log.Info("msg", "render request", "request_id", reqID, "query", req.Query)

	prog, err := sql.Parse(req.Query)
	if err != nil {
		metricRequestsTotal.WithLabelValues("parse_error").Inc()
		log.Error("msg", "parse failed", "request_id", reqID, "err", err)
		return Result{}, err
	}

	ev := sql.NewEvaluator(req.Index, req.Ctx)
	pres, err := ev.Run(prog)
	if err != nil {
		metricRequestsTotal.WithLabelValues("eval_error").Inc()
		log.Error("msg", "evaluation failed", "request_id", reqID, "err", err)
		return Result{}, err
	}

	gd, err := graphdef.Build(pres, req.Ctx, req.Options)
	if err != nil {
		metricRequestsTotal.WithLabelValues("build_error").Inc()
		log.Error("msg", "GraphDef build failed", "request_id", reqID, "err", err)
		return Result{}, err
	}

	res := Result{GraphDef: gd}

	if renderPNG {
		png, err := rasterize.Render(gd, legend)
		if err != nil {
			metricRequestsTotal.WithLabelValues("render_error").Inc()
			log.Error("msg", "rasterization failed", "request_id", reqID, "err", err)
			return Result{}, err
		}
		res.PNG = png
	}

	if emitJSON {
		data, err := codec.Encode(gd, gzipJSON)
		if err != nil {
			metricRequestsTotal.WithLabelValues("codec_error").Inc()
			log.Error("msg", "GraphDef encode failed", "request_id", reqID, "err", err)
			return Result{}, err
		}
		res.JSON = data
	}

	metricRequestsTotal.WithLabelValues("success").Inc()
	log.Info("msg", "render complete", "request_id", reqID,
		"plots", len(gd.Plots), "duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

// InvalidInput builds a UsageError (sub-kind "InvalidInput") for callers
// that validate request shape before Run is invoked.
func InvalidInput(msg string) error {
	return tserr.New(tserr.Usage, "InvalidInput", msg)
}
