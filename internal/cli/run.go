package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/marcelocantos/linesh/internal/parser"
	"github.com/marcelocantos/linesh/internal/rules"
	"github.com/marcelocantos/linesh/internal/session"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitParse    = 1 // the line failed to parse, or usage error
	ExitRejected = 2 // a rule rejected the line, or an internal error
)

// RunParse parses a single line and prints the result: linesh parse <line>
func RunParse(s *session.Session, line, format string, stdout, stderr io.Writer) int {
	res, err := s.Eval(line)
	if err != nil {
		return reportError(stderr, err)
	}
	if err := writeResult(stdout, res, format); err != nil {
		fmt.Fprintf(stderr, "linesh: %v\n", err)
		return ExitRejected
	}
	return ExitOK
}

// reportError prints err and maps it to an exit code.
func reportError(w io.Writer, err error) int {
	var perr *parser.Error
	if errors.As(err, &perr) {
		fmt.Fprintf(w, "linesh: parse error: %v\n", perr)
		return ExitParse
	}
	var rej *rules.RejectedError
	if errors.As(err, &rej) {
		fmt.Fprintf(w, "linesh: rejected: %v\n", rej)
		return ExitRejected
	}
	fmt.Fprintf(w, "linesh: %v\n", err)
	return ExitRejected
}
