// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDetectAssignment(t *testing.T) {
	env := mapEnv{"X": "ex"}
	tests := []struct {
		name   string
		input  string
		want   Command
		wantOK bool
	}{
		{"plain", "a=b", cmd(AssignCommand, "a", "b"), true},
		{"double quoted value", `a="$X y"`, cmd(AssignCommand, "a", "ex y"), true},
		{"mixed value", `a=1'$X'"$X"`, cmd(AssignCommand, "a", "1$Xex"), true},
		{"not an identifier", "a-b=c", Command{}, false},
		{"no equals", "abc", Command{}, false},
		{"quoted name", `'a'=b`, Command{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := DetectAssignment(mustTokenize(t, tt.input), env)
			if err != nil {
				t.Fatal(err)
			}
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDetectAssignmentExtraTokens(t *testing.T) {
	for _, input := range []string{"a=b foo=bar", "a=b cmd arg", "a=b ''"} {
		_, _, err := DetectAssignment(mustTokenize(t, input), nil)
		if !errors.Is(err, ErrInvalidAssignment) {
			t.Errorf("DetectAssignment(%q) error = %v, want invalid assignment", input, err)
		}
	}
}
