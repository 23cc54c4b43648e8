// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexState int

const (
	stateNormal lexState = iota
	stateSingleQuote
	stateDoubleQuote
)

// lexer accumulates fragments of the current word in buf until a quote
// boundary, whitespace, or pipe ends them.
type lexer struct {
	line       string
	tokens     []Token
	frags      []Fragment
	buf        strings.Builder
	inWord     bool
	wordStart  int
	wordEnd    int
	quoteStart int
}

// Tokenize splits line into word and pipe tokens. Whitespace outside quotes
// separates words; '...' and "..." may contain whitespace and |; fragments
// written without whitespace between them join into one token. Backslash has
// no special meaning.
//
// A word that starts and ends with the same quote character and otherwise
// holds only bare text is one quoted unit: quote characters inside it are
// literal, so "say "$X" now" is a single double-quoted fragment. Words that
// mix in the other quote style keep their fragments, so 'it'"'"'s' is it's.
func Tokenize(line string) ([]Token, error) {
	lx := &lexer{line: line}
	state := stateNormal

	for i := 0; i < len(line); {
		ch, size := utf8.DecodeRuneInString(line[i:])
		switch state {
		case stateNormal:
			state = lx.normal(i, ch, line[i:i+size])
		case stateSingleQuote:
			if ch == '\'' {
				lx.closeQuote(SingleQuoted)
				state = stateNormal
			} else {
				lx.buf.WriteString(line[i : i+size])
			}
		case stateDoubleQuote:
			if ch == '"' {
				lx.closeQuote(DoubleQuoted)
				state = stateNormal
			} else {
				lx.buf.WriteString(line[i : i+size])
			}
		}
		i += size
		if lx.inWord {
			lx.wordEnd = i
		}
	}

	if state != stateNormal {
		q := "'"
		if state == stateDoubleQuote {
			q = `"`
		}
		return nil, failf(UnterminatedQuote, lx.quoteStart, "missing closing %s", q)
	}
	lx.endWord()
	return lx.tokens, nil
}

func (lx *lexer) normal(i int, ch rune, raw string) lexState {
	switch {
	case unicode.IsSpace(ch):
		lx.endWord()
	case ch == '|':
		lx.endWord()
		lx.tokens = append(lx.tokens, Token{Pos: i, pipe: true})
	case ch == '\'':
		lx.openQuote(i)
		return stateSingleQuote
	case ch == '"':
		lx.openQuote(i)
		return stateDoubleQuote
	default:
		lx.startWord(i)
		lx.buf.WriteString(raw)
	}
	return stateNormal
}

func (lx *lexer) startWord(i int) {
	if !lx.inWord {
		lx.inWord = true
		lx.wordStart = i
	}
}

func (lx *lexer) openQuote(i int) {
	lx.startWord(i)
	lx.flushBare()
	lx.quoteStart = i
}

// closeQuote always records a fragment so that empty quotes yield an empty
// argument rather than nothing.
func (lx *lexer) closeQuote(q Quoting) {
	lx.frags = append(lx.frags, Fragment{Quoting: q, Text: lx.buf.String()})
	lx.buf.Reset()
}

func (lx *lexer) flushBare() {
	if lx.buf.Len() > 0 {
		lx.frags = append(lx.frags, Fragment{Quoting: Bare, Text: lx.buf.String()})
		lx.buf.Reset()
	}
}

func (lx *lexer) endWord() {
	if !lx.inWord {
		return
	}
	lx.flushBare()
	frags := lx.frags
	if src := lx.line[lx.wordStart:lx.wordEnd]; isWrapped(src) {
		q := SingleQuoted
		if src[0] == '"' {
			q = DoubleQuoted
		}
		if wrapsBare(frags, q) {
			frags = []Fragment{{Quoting: q, Text: src[1 : len(src)-1]}}
		}
	}
	lx.tokens = append(lx.tokens, Token{Fragments: frags, Pos: lx.wordStart})
	lx.frags = nil
	lx.inWord = false
}

// wrapsBare reports whether frags hold only q-quoted and bare text, begin
// and end quoted, and include some non-empty bare text.
func wrapsBare(frags []Fragment, q Quoting) bool {
	if len(frags) < 3 || frags[0].Quoting != q || frags[len(frags)-1].Quoting != q {
		return false
	}
	hasBare := false
	for _, f := range frags {
		switch f.Quoting {
		case q:
		case Bare:
			hasBare = hasBare || f.Text != ""
		default:
			return false
		}
	}
	return hasBare
}

func isWrapped(src string) bool {
	if len(src) < 2 {
		return false
	}
	first, last := src[0], src[len(src)-1]
	return first == last && (first == '\'' || first == '"')
}
