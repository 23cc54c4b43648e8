// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"strings"
	"unicode"
)

// Lookuper resolves variable names during expansion. Implementations must be
// safe for concurrent reads if shared between goroutines.
type Lookuper interface {
	Lookup(name string) (string, bool)
}

// Expand resolves a word token to its final string. Single-quoted fragments
// are copied verbatim; bare and double-quoted fragments have each $NAME
// replaced by its value from env, or "" if undefined. Substituted text is
// never re-scanned.
func Expand(tok Token, env Lookuper) string {
	if len(tok.Fragments) == 1 {
		return expandFragment(tok.Fragments[0], env)
	}
	var b strings.Builder
	for _, f := range tok.Fragments {
		b.WriteString(expandFragment(f, env))
	}
	return b.String()
}

func expandFragment(f Fragment, env Lookuper) string {
	switch f.Quoting {
	case SingleQuoted:
		return f.Text
	case Bare, DoubleQuoted:
		return expandVars(f.Text, env)
	default:
		panic("parser: unknown quoting " + f.Quoting.String())
	}
}

// expandVars substitutes $NAME occurrences in s. A $ not followed by an
// identifier start is kept literally.
func expandVars(s string, env Lookuper) string {
	if !strings.Contains(s, "$") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '$' {
			b.WriteByte(s[i])
			continue
		}
		n := identLen(s[i+1:])
		if n == 0 {
			b.WriteByte('$')
			continue
		}
		b.WriteString(lookup(env, s[i+1:i+1+n]))
		i += n
	}
	return b.String()
}

func lookup(env Lookuper, name string) string {
	if env == nil {
		return ""
	}
	v, _ := env.Lookup(name)
	return v
}

// identLen returns the byte length of the longest identifier prefix of s.
func identLen(s string) int {
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return i
	}
	return len(s)
}

// IsName reports whether name is a valid variable identifier: letters,
// digits and underscore, not starting with a digit.
func IsName(name string) bool {
	return name != "" && identLen(name) == len(name)
}
