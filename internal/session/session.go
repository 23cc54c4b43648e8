// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

// Package session evaluates input lines against a mutable environment:
// parse, apply assignments, check rules, record to the audit log.
package session

import (
	"errors"
	"fmt"
	"os"

	"github.com/marcelocantos/linesh/internal/audit"
	"github.com/marcelocantos/linesh/internal/env"
	"github.com/marcelocantos/linesh/internal/parser"
	"github.com/marcelocantos/linesh/internal/rules"
)

// Sources recorded in audit entries.
const (
	SourceParse = "parse"
	SourceREPL  = "repl"
	SourceMCP   = "mcp"
)

// redacted replaces assignment values in audit entries.
const redacted = "<redacted>"

// Session owns the environment that assignment lines modify.
type Session struct {
	Env    *env.Env
	Rules  *rules.RuleSet // nil disables rule checks
	Logger *audit.Logger  // nil disables audit logging
	Allow  bool           // skip config rules; hardcoded rules still apply
	Source string
}

// New returns a Session over e with no rules and no audit log.
func New(e *env.Env, source string) *Session {
	if e == nil {
		e = env.New()
	}
	return &Session{Env: e, Source: source}
}

// Eval parses line against a snapshot of the environment. A blank line
// returns (nil, nil). An assignment directive is applied to the environment.
// Other results are checked against the rules. The returned error is a
// *parser.Error or a *rules.RejectedError.
func (s *Session) Eval(line string) (*parser.Result, error) {
	res, err := parser.Parse(line, s.Env.Snapshot())
	if err != nil {
		s.log(line, nil, err, false)
		return nil, err
	}
	if res == nil {
		return nil, nil
	}

	if applied, err := s.Env.Apply(res); applied {
		s.log(line, res, err, false)
		return res, err
	}

	if err := s.Rules.CheckResult(res, s.Allow); err != nil {
		s.log(line, res, err, true)
		return nil, err
	}
	s.log(line, res, nil, false)
	return res, nil
}

func (s *Session) log(line string, res *parser.Result, err error, rejected bool) {
	if s.Logger == nil {
		return
	}
	r := audit.Record{
		Source:   s.Source,
		Line:     line,
		Rejected: rejected,
		Allow:    s.Allow,
	}
	if name, _, ok := res.Assignment(); ok {
		// Values may hold secrets; only the name is recorded.
		r.Assignment = name
		r.Line = name + "=" + redacted
	} else {
		r.Commands = res.Names()
	}
	if err != nil {
		r.Error = err.Error()
		var perr *parser.Error
		if errors.As(err, &perr) {
			r.ErrorKind = perr.Kind.String()
		}
	}
	// Best-effort audit logging; a failed write doesn't fail the line.
	if werr := s.Logger.Log(r); werr != nil {
		fmt.Fprintf(os.Stderr, "linesh: audit: %v\n", werr)
	}
}
