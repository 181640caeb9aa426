package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/zoelang/zoe/errz"
	"github.com/zoelang/zoe/internal/token"
)

// Error is a compile error tied to a source location.
type Error struct {
	kind          errz.Kind
	message       string
	cause         error
	startPosition token.Position
	endPosition   token.Position
	sourceCode    string
	hint          string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.kind, e.text(), e.startPosition)
}

func (e *Error) text() string {
	if e.message == "" && e.cause != nil {
		return e.cause.Error()
	}
	return e.message
}

// Kind returns the error classification, usually errz.SyntaxError.
func (e *Error) Kind() errz.Kind {
	return e.kind
}

// Message returns the error message without location information.
func (e *Error) Message() string {
	return e.text()
}

// StartPosition returns where the offending token starts.
func (e *Error) StartPosition() token.Position {
	return e.startPosition
}

// EndPosition returns where the offending token ends.
func (e *Error) EndPosition() token.Position {
	return e.endPosition
}

// SourceCode returns the source line containing the error.
func (e *Error) SourceCode() string {
	return e.sourceCode
}

// Hint returns a suggested fix, if any.
func (e *Error) Hint() string {
	return e.hint
}

// Is matches the error's Kind.
func (e *Error) Is(target error) bool {
	k, ok := target.(errz.Kind)
	return ok && k == e.kind
}

func (e *Error) Unwrap() error {
	return e.cause
}

// ToFormatted converts the error for display by an errz.Formatter.
func (e *Error) ToFormatted() *errz.FormattedError {
	return &errz.FormattedError{
		Kind:       e.kind.String(),
		Message:    e.text(),
		Filename:   e.startPosition.File,
		Line:       e.startPosition.LineNumber(),
		Column:     e.startPosition.ColumnNumber(),
		EndColumn:  e.endPosition.ColumnNumber(),
		SourceLine: e.sourceCode,
		Hint:       e.hint,
	}
}

// formatErrors reports the first error and how many followed it.
func formatErrors(errs []error) string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", errs[0].Error(), len(errs)-1)
}

// FriendlyErrorMessage renders err with source context. Errors that carry
// no location are rendered on a single line.
func FriendlyErrorMessage(err error, useColor bool) string {
	var list []error
	var merr *multierror.Error
	if errors.As(err, &merr) {
		list = merr.WrappedErrors()
	} else {
		list = []error{err}
	}
	formatted := make([]*errz.FormattedError, 0, len(list))
	for _, e := range list {
		var perr *Error
		if errors.As(e, &perr) {
			formatted = append(formatted, perr.ToFormatted())
			continue
		}
		kind := errz.KindOf(e).String()
		formatted = append(formatted, &errz.FormattedError{
			Kind:    kind,
			Message: strings.TrimPrefix(e.Error(), kind+": "),
		})
	}
	return errz.NewFormatter(useColor).FormatMultiple(formatted)
}
