// Package evalctx defines the evaluation context: the time window, step,
// and timezone shared by a single graph request.
package evalctx

import (
	"time"

	"github.com/tsplot/tsplot/pkg/tserr"
)

// Context is (start, end, step, timezone). Start and end are wall-clock
// instants aligned to step; step is an integer millisecond grid.
type Context struct {
	Start    int64 // ms
	End      int64 // ms
	Step     int64 // ms
	Timezone string
}

// New validates and constructs a Context: end must be > start, step must
// be > 0, start must be aligned to step, and (end-start) must be a
// multiple of step.
func New(start, end, step int64, timezone string) (Context, error) {
	if step <= 0 {
		return Context{}, tserr.Newf(tserr.Data, "InvalidContext", "step must be positive, got %d", step)
	}
	if end <= start {
		return Context{}, tserr.Newf(tserr.Data, "InvalidContext", "end %d must be greater than start %d", end, start)
	}
	if start%step != 0 {
		return Context{}, tserr.Newf(tserr.Data, "InvalidContext", "start %d is not aligned to step %d", start, step)
	}
	if (end-start)%step != 0 {
		return Context{}, tserr.Newf(tserr.Data, "InvalidContext", "window %d is not a multiple of step %d", end-start, step)
	}
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return Context{}, tserr.Wrap(err, tserr.Data, "InvalidContext", "unknown timezone "+timezone)
	}
	return Context{Start: start, End: end, Step: step, Timezone: timezone}, nil
}

// Location returns the *time.Location named by Timezone.
func (c Context) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Samples returns the number of samples spanning [Start, End) at Step.
func (c Context) Samples() int {
	return int((c.End - c.Start) / c.Step)
}
