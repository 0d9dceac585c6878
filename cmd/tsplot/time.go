package main

import (
	"regexp"
	"strconv"
	"time"

	"github.com/tsplot/tsplot/pkg/tserr"
)

// relativeTimeRE matches the relative time grammar: <anchor>-<N><unit>,
// e.g. "e-1w" (one week before the request's "now") or "s-0s" (exactly
// now). The anchor letter names which flag the expression is naturally
// used from (e for --e, s for --s) but both resolve against wall-clock
// "now"; unit in {s,m,h,d,w}.
var relativeTimeRE = regexp.MustCompile(`^[a-z]-(\d+)([smhdw])$`)

// parseTime resolves a time expression relative to now: either the
// relative grammar (e-1w, s-30m, ...) or an absolute ISO-8601 timestamp.
func parseTime(expr string, now time.Time) (time.Time, error) {
	if m := relativeTimeRE.FindStringSubmatch(expr); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return time.Time{}, tserr.Newf(tserr.Usage, "InvalidTime", "malformed relative time %q", expr)
		}
		d := unitDuration(m[2]) * time.Duration(n)
		return now.Add(-d), nil
	}
	t, err := time.Parse(time.RFC3339, expr)
	if err != nil {
		return time.Time{}, tserr.Newf(tserr.Usage, "InvalidTime", "%q is neither relative (e-1w) nor ISO-8601", expr)
	}
	return t, nil
}

func unitDuration(u string) time.Duration {
	switch u {
	case "s":
		return time.Second
	case "m":
		return time.Minute
	case "h":
		return time.Hour
	case "d":
		return 24 * time.Hour
	case "w":
		return 7 * 24 * time.Hour
	default:
		return time.Second
	}
}

// parseStep parses a bare duration string like "15s" or "1m" into
// milliseconds.
func parseStep(s string) (int64, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, tserr.Newf(tserr.Usage, "InvalidStep", "malformed step %q", s)
	}
	if d <= 0 {
		return 0, tserr.Newf(tserr.Usage, "InvalidStep", "step must be positive, got %q", s)
	}
	return d.Milliseconds(), nil
}
