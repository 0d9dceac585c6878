// Package tserr defines the error taxonomy used across the evaluation and
// rendering pipeline. Every layer surfaces its own Kind with structured
// fields; no layer silently recategorizes an error raised below it.
package tserr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies which layer of the pipeline raised an error.
type Kind string

const (
	Usage  Kind = "UsageError"
	Parse  Kind = "ParseError"
	Eval   Kind = "EvalError"
	Data   Kind = "DataError"
	Render Kind = "RenderError"
	IO     Kind = "IOError"
	Codec  Kind = "CodecError"
)

// Error carries a Kind, a sub-kind label (e.g. "StackUnderflow",
// "InvalidCanvas"), a human message, and optional structured fields used
// for diagnostics (operator name, operand types, byte offset, ...).
type Error struct {
	Kind    Kind
	Sub     string
	Message string
	Fields  map[string]interface{}
	cause   error
}

func (e *Error) Error() string {
	if e.Sub != "" {
		return fmt.Sprintf("%s.%s: %s", e.Kind, e.Sub, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Cause returns the deepest wrapped error, mirroring github.com/pkg/errors'
// Cause semantics for errors produced by this package.
func (e *Error) Cause() error {
	var err error = e
	for {
		if te, ok := err.(*Error); ok {
			if te.cause == nil {
				return te
			}
			err = te.cause
			continue
		}
		c, ok := err.(interface{ Cause() error })
		if !ok {
			return err
		}
		err = c.Cause()
	}
}

// New constructs an Error with no structured fields.
func New(kind Kind, sub, message string) *Error {
	return &Error{Kind: kind, Sub: sub, Message: message}
}

// Newf is New with fmt.Sprintf-style formatting.
func Newf(kind Kind, sub, format string, args ...interface{}) *Error {
	return New(kind, sub, fmt.Sprintf(format, args...))
}

// Wrap attaches kind/sub to an underlying error, preserving it for Unwrap
// and Cause via github.com/pkg/errors.
func Wrap(err error, kind Kind, sub, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Sub: sub, Message: message, cause: errors.WithStack(err)}
}

// WithField returns a copy of e with an added structured field.
func (e *Error) WithField(key string, value interface{}) *Error {
	cp := *e
	fields := make(map[string]interface{}, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields[k] = v
	}
	fields[key] = value
	cp.Fields = fields
	return &cp
}

// As reports whether err (or something it wraps) is a *Error, returning it.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err if it is (or wraps) a *Error, else "".
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return ""
}
