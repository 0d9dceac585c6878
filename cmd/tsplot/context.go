package main

import (
	"time"

	"github.com/tsplot/tsplot/pkg/evalctx"
)

// buildContext resolves the CLI's time/step/timezone flags into an
// evalctx.Context.
func buildContext(cli CLI) (evalctx.Context, error) {
	now := time.Now().UTC()

	start, err := parseTime(cli.S, now)
	if err != nil {
		return evalctx.Context{}, err
	}
	end, err := parseTime(cli.E, now)
	if err != nil {
		return evalctx.Context{}, err
	}
	step, err := parseStep(cli.Step)
	if err != nil {
		return evalctx.Context{}, err
	}

	startMs := alignMillis(start.UnixMilli(), step)
	endMs := alignMillis(end.UnixMilli(), step)

	return evalctx.New(startMs, endMs, step, cli.TZ)
}

func alignMillis(t, step int64) int64 {
	if t >= 0 {
		return (t / step) * step
	}
	q := t / step
	if t%step != 0 {
		q--
	}
	return q * step
}
