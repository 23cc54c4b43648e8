// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package parser

import "strings"

// assignmentName returns the variable name if tok has the shape NAME=VALUE.
// NAME must be written bare, before the first = of the first fragment, so
// "a"=b is an ordinary word.
func assignmentName(tok Token) (name string, rest Token, ok bool) {
	if tok.IsPipe() || len(tok.Fragments) == 0 {
		return "", Token{}, false
	}
	first := tok.Fragments[0]
	if first.Quoting != Bare {
		return "", Token{}, false
	}
	name, value, found := strings.Cut(first.Text, "=")
	if !found || !IsName(name) {
		return "", Token{}, false
	}
	frags := make([]Fragment, 0, len(tok.Fragments))
	if value != "" {
		frags = append(frags, Fragment{Quoting: Bare, Text: value})
	}
	frags = append(frags, tok.Fragments[1:]...)
	return name, Token{Fragments: frags, Pos: tok.Pos + len(name) + 1}, true
}

// DetectAssignment reports whether segment is a NAME=VALUE statement and, if
// so, returns the synthetic assignment command with VALUE expanded. An
// assignment-shaped first token followed by anything else is an
// InvalidAssignment error.
func DetectAssignment(segment []Token, env Lookuper) (Command, bool, error) {
	if len(segment) == 0 {
		return Command{}, false, nil
	}
	name, value, ok := assignmentName(segment[0])
	if !ok {
		return Command{}, false, nil
	}
	if len(segment) > 1 {
		return Command{}, false, failf(InvalidAssignment, segment[1].Pos,
			"assignment to %s cannot be followed by %q", name, segment[1].Raw())
	}
	return Command{Name: AssignCommand, Args: []string{name, Expand(value, env)}}, true, nil
}
