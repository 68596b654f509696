package parser

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the parser package.
// Use errors.Is to check: errors.Is(err, parser.ErrMarkupRejected)
var (
	ErrLineFormat     = errors.New("invalid line format")
	ErrMarkupRejected = errors.New("markup is not allowed")
	ErrHeaderFormat   = errors.New("invalid section header")
)

// LineError is a problem with a single line of lesson text.
type LineError interface {
	error
	Position() (line int, text string)
}

// LineFormatError is a line that is neither a section header nor a card.
type LineFormatError struct {
	Line int
	Text string
}

func (e *LineFormatError) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.Line, ErrLineFormat, e.Text)
}

func (e *LineFormatError) Unwrap() error { return ErrLineFormat }

func (e *LineFormatError) Position() (int, string) { return e.Line, e.Text }

// MarkupRejectedError is a line containing something that looks like a tag.
type MarkupRejectedError struct {
	Line int
	Text string
}

func (e *MarkupRejectedError) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.Line, ErrMarkupRejected, e.Text)
}

func (e *MarkupRejectedError) Unwrap() error { return ErrMarkupRejected }

func (e *MarkupRejectedError) Position() (int, string) { return e.Line, e.Text }

// HeaderFormatError is a malformed "===" line. It stops the parse.
type HeaderFormatError struct {
	Line int
	Text string
}

func (e *HeaderFormatError) Error() string {
	return fmt.Sprintf("line %d: %v: %s", e.Line, ErrHeaderFormat, e.Text)
}

func (e *HeaderFormatError) Unwrap() error { return ErrHeaderFormat }

func (e *HeaderFormatError) Position() (int, string) { return e.Line, e.Text }

// ParseErrors lists every rejected line of a parse, in line order.
type ParseErrors []LineError

func (e ParseErrors) Error() string {
	msgs := make([]string, len(e))
	for i, lineErr := range e {
		msgs[i] = lineErr.Error()
	}
	return fmt.Sprintf("%d invalid line(s):\n%s", len(e), strings.Join(msgs, "\n"))
}

func (e ParseErrors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, lineErr := range e {
		errs[i] = lineErr
	}
	return errs
}
