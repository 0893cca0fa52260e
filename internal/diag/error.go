package diag

import (
	"errors"
	"fmt"

	"mica/internal/source"
)

// Error is a positioned, fatal compilation error. The first one produced
// aborts the compilation of its program; there is no recovery or batching.
type Error struct {
	Code Code
	Msg  string
	File *source.File
	Span source.Span
}

// Errorf builds an Error at span in file.
func Errorf(file *source.File, span source.Span, code Code, format string, args ...any) *Error {
	return &Error{
		Code: code,
		Msg:  fmt.Sprintf(format, args...),
		File: file,
		Span: span,
	}
}

// Position resolves the error's start offset to line/column.
func (e *Error) Position() source.LineCol {
	if e.File == nil {
		return source.LineCol{Line: 1, Col: 1}
	}
	return e.File.Position(e.Span.Start)
}

func (e *Error) Error() string {
	pos := e.Position()
	path := "<input>"
	if e.File != nil {
		path = e.File.Path
	}
	return fmt.Sprintf("%s:%d:%d: error[%s]: %s", path, pos.Line, pos.Col, e.Code, e.Msg)
}

// As extracts a *Error from an error chain.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// CodeOf returns the code carried by err, or UnknownCode for foreign
// errors.
func CodeOf(err error) Code {
	if e, ok := As(err); ok {
		return e.Code
	}
	return UnknownCode
}
