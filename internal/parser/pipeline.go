// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package parser

// SplitPipeline groups tokens into segments separated by pipe tokens.
// A line with no pipes yields one segment. The checks run leading,
// adjacent, trailing, so "foo | |" is an empty segment rather than a
// trailing pipe.
func SplitPipeline(tokens []Token) ([][]Token, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	if tokens[0].IsPipe() {
		return nil, failf(LeadingPipe, tokens[0].Pos, "no command before %s", OpPipe)
	}
	for i := 1; i < len(tokens); i++ {
		if tokens[i].IsPipe() && tokens[i-1].IsPipe() {
			return nil, failf(EmptyPipelineSegment, tokens[i].Pos, "no command between %s and %s", OpPipe, OpPipe)
		}
	}
	if last := tokens[len(tokens)-1]; last.IsPipe() {
		return nil, failf(TrailingPipe, last.Pos, "no command after %s", OpPipe)
	}

	var segments [][]Token
	var current []Token
	for _, tok := range tokens {
		if tok.IsPipe() {
			segments = append(segments, current)
			current = nil
			continue
		}
		current = append(current, tok)
	}
	segments = append(segments, current)

	return segments, nil
}
