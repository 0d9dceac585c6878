// Package tagindex implements the tag index: predicate evaluation,
// exact/structural lookup, and group-by partitioning over an in-memory
// corpus of time series. It also defines the TagIndex contract that the
// evaluator consumes.
package tagindex

import (
	"regexp"

	"github.com/tsplot/tsplot/pkg/series"
)

// Query is a predicate over tags: True, False, Equal(k,v), Re(k,regex),
// HasKey(k), And, Or, Not.
type Query interface {
	Match(tags series.Tags) bool
}

type trueQuery struct{}
type falseQuery struct{}

func (trueQuery) Match(series.Tags) bool  { return true }
func (falseQuery) Match(series.Tags) bool { return false }

// True and False are the constant predicates.
var (
	True  Query = trueQuery{}
	False Query = falseQuery{}
)

// Equal matches tags[Key] == Value. A predicate referencing a missing tag
// simply does not match; it is not an error.
type Equal struct {
	Key   string
	Value string
}

func (e Equal) Match(tags series.Tags) bool {
	v, ok := tags[e.Key]
	return ok && v == e.Value
}

// Re matches tags[Key] against a regular expression.
type Re struct {
	Key   string
	Regex *regexp.Regexp
}

// NewRe compiles pattern for key.
func NewRe(key, pattern string) (Re, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Re{}, err
	}
	return Re{Key: key, Regex: re}, nil
}

func (r Re) Match(tags series.Tags) bool {
	v, ok := tags[r.Key]
	return ok && r.Regex.MatchString(v)
}

// HasKey matches any tag set containing Key.
type HasKey struct{ Key string }

func (h HasKey) Match(tags series.Tags) bool {
	_, ok := tags[h.Key]
	return ok
}

// And, Or, Not are boolean composition of predicates.
type And struct{ Left, Right Query }

func (a And) Match(tags series.Tags) bool { return a.Left.Match(tags) && a.Right.Match(tags) }

type Or struct{ Left, Right Query }

func (o Or) Match(tags series.Tags) bool { return o.Left.Match(tags) || o.Right.Match(tags) }

type Not struct{ Inner Query }

func (n Not) Match(tags series.Tags) bool { return !n.Inner.Match(tags) }
