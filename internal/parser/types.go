// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package parser

import "slices"

// AssignCommand is the synthetic command name produced for a NAME=VALUE line.
// Its Args are exactly [name, value].
const AssignCommand = "__internal_assign"

// Command is a single pipeline segment after expansion.
type Command struct {
	Name string   `json:"name" yaml:"name"`
	Args []string `json:"args" yaml:"args"`
}

// Equal reports whether c and o have the same name and arguments.
func (c Command) Equal(o Command) bool {
	return c.Name == o.Name && slices.Equal(c.Args, o.Args)
}

// Result is a parsed line: commands in left-to-right pipeline order.
// A non-nil Result always holds at least one Command.
type Result struct {
	Commands []Command `json:"commands" yaml:"commands"`
}

// Equal compares results structurally. Two nil results are equal.
func (r *Result) Equal(o *Result) bool {
	if r == nil || o == nil {
		return r == o
	}
	return slices.EqualFunc(r.Commands, o.Commands, Command.Equal)
}

// Assignment returns the variable name and value if r is an assignment
// directive.
func (r *Result) Assignment() (name, value string, ok bool) {
	if r == nil || len(r.Commands) != 1 {
		return "", "", false
	}
	c := r.Commands[0]
	if c.Name != AssignCommand || len(c.Args) != 2 {
		return "", "", false
	}
	return c.Args[0], c.Args[1], true
}

// Names returns the command names in pipeline order.
func (r *Result) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, len(r.Commands))
	for i, c := range r.Commands {
		names[i] = c.Name
	}
	return names
}

// Quoting records how a fragment of a token was written.
type Quoting int

const (
	Bare         Quoting = iota // unquoted text
	SingleQuoted                // '...', copied verbatim
	DoubleQuoted                // "...", variables expanded
)

func (q Quoting) String() string {
	switch q {
	case Bare:
		return "bare"
	case SingleQuoted:
		return "single-quoted"
	case DoubleQuoted:
		return "double-quoted"
	default:
		return "quoting(?)"
	}
}

// Fragment is a run of token text sharing one quoting style.
type Fragment struct {
	Quoting Quoting
	Text    string
}

// Token is one lexical unit of a line. A word token is the concatenation of
// its fragments; a pipe token has no fragments.
type Token struct {
	Fragments []Fragment
	Pos       int // byte offset of the token's first character
	pipe      bool
}

// IsPipe reports whether t is an unquoted | separator.
func (t Token) IsPipe() bool { return t.pipe }

// Raw returns the token text with quotes removed and no expansion applied.
func (t Token) Raw() string {
	if t.pipe {
		return OpPipe
	}
	var n int
	for _, f := range t.Fragments {
		n += len(f.Text)
	}
	b := make([]byte, 0, n)
	for _, f := range t.Fragments {
		b = append(b, f.Text...)
	}
	return string(b)
}

// OpPipe separates pipeline segments.
const OpPipe = "|"
