// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

// Package parser turns one line of a small shell language into a pipeline
// of commands, an assignment directive, or nothing.
//
// The grammar knows words, single and double quotes, $NAME expansion and
// the | separator. Redirection, background jobs, command substitution,
// globbing and control structures are not recognized; their characters are
// ordinary word text.
package parser

import "strings"

// Parser parses lines against an environment used for $NAME lookups. The
// environment is only read.
type Parser struct {
	env Lookuper
}

// New returns a Parser reading variables from env. A nil env treats every
// variable as undefined.
func New(env Lookuper) *Parser {
	return &Parser{env: env}
}

// Parse parses line with a one-off Parser.
func Parse(line string, env Lookuper) (*Result, error) {
	return New(env).Parse(line)
}

// Parse returns the commands on line, (nil, nil) for a blank line, or an
// *Error describing the first problem found.
func (p *Parser) Parse(line string) (*Result, error) {
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	tokens, err := Tokenize(line)
	if err != nil {
		return nil, err
	}
	segments, err := SplitPipeline(tokens)
	if err != nil {
		return nil, err
	}

	if len(segments) == 1 {
		cmd, ok, err := DetectAssignment(segments[0], p.env)
		if err != nil {
			return nil, err
		}
		if ok {
			return &Result{Commands: []Command{cmd}}, nil
		}
	}

	res := &Result{Commands: make([]Command, 0, len(segments))}
	for _, seg := range segments {
		cmd, err := p.command(seg, len(segments) > 1)
		if err != nil {
			return nil, err
		}
		res.Commands = append(res.Commands, cmd)
	}
	return res, nil
}

// command expands one segment. Inside a multi-segment pipeline an
// assignment-shaped first word is rejected.
func (p *Parser) command(seg []Token, inPipeline bool) (Command, error) {
	if inPipeline {
		if name, _, ok := assignmentName(seg[0]); ok {
			return Command{}, failf(InvalidAssignment, seg[0].Pos,
				"assignment to %s inside a pipeline", name)
		}
	}

	name := Expand(seg[0], p.env)
	if name == "" {
		return Command{}, failf(EmptyCommandName, seg[0].Pos, "%q expands to nothing", seg[0].Raw())
	}
	args := make([]string, 0, len(seg)-1)
	for _, tok := range seg[1:] {
		args = append(args, Expand(tok, p.env))
	}
	return Command{Name: name, Args: args}, nil
}
