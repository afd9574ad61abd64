package otter

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Match them with errors.Is.
var (
	// ErrParse reports malformed input: tokenizer syntax errors, unreadable
	// streams, or scalar text that cannot be converted.
	ErrParse = errors.New("otter: parse failed")
	// ErrInconsistent reports a handler table or parser state that contradicts itself.
	ErrInconsistent = errors.New("otter: inconsistent state")
	// ErrUnsupported reports a value the renderer has no visit behavior for.
	ErrUnsupported = errors.New("otter: unsupported feature")
)

// Error is the typed failure returned by parsing, registry construction and rendering.
type Error struct {
	Kind error  // one of ErrParse, ErrInconsistent, ErrUnsupported
	Path string // tag path, when known
	Line int    // input line, when known
	Err  error  // underlying cause, may be nil
	Msg  string
}

// Error formats the error as "<kind>: <msg> at <path> (line n): <cause>".
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func parseError(path, msg string, err error) *Error {
	return &Error{Kind: ErrParse, Path: path, Msg: msg, Err: err}
}

func inconsistent(path, msg string) *Error {
	return &Error{Kind: ErrInconsistent, Path: path, Msg: msg}
}
