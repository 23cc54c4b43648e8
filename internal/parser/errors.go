// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package parser

import "fmt"

// Kind classifies a parse failure.
type Kind int

const (
	UnterminatedQuote    Kind = iota + 1 // ' or " without a closer
	LeadingPipe                          // line starts with |
	TrailingPipe                         // line ends with |
	EmptyPipelineSegment                 // | | or nothing between pipes
	InvalidAssignment                    // NAME=VALUE mixed with other tokens
	EmptyCommandName                     // first word resolved to ""
)

func (k Kind) String() string {
	switch k {
	case UnterminatedQuote:
		return "unterminated quote"
	case LeadingPipe:
		return "leading pipe"
	case TrailingPipe:
		return "trailing pipe"
	case EmptyPipelineSegment:
		return "empty pipeline segment"
	case InvalidAssignment:
		return "invalid assignment"
	case EmptyCommandName:
		return "empty command name"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the single failure type returned by Parse.
type Error struct {
	Kind Kind
	Pos  int    // byte offset in the line, -1 if not applicable
	Msg  string // optional detail
}

func (e *Error) Error() string {
	s := e.Kind.String()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Pos >= 0 {
		s += fmt.Sprintf(" (offset %d)", e.Pos)
	}
	return s
}

// Is matches any *Error of the same Kind, so the sentinels below work with
// errors.Is regardless of position or detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnterminatedQuote    = &Error{Kind: UnterminatedQuote, Pos: -1}
	ErrLeadingPipe          = &Error{Kind: LeadingPipe, Pos: -1}
	ErrTrailingPipe         = &Error{Kind: TrailingPipe, Pos: -1}
	ErrEmptyPipelineSegment = &Error{Kind: EmptyPipelineSegment, Pos: -1}
	ErrInvalidAssignment    = &Error{Kind: InvalidAssignment, Pos: -1}
	ErrEmptyCommandName     = &Error{Kind: EmptyCommandName, Pos: -1}
)

func failf(kind Kind, pos int, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
