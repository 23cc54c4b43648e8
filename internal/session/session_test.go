// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marcelocantos/linesh/internal/audit"
	"github.com/marcelocantos/linesh/internal/env"
	"github.com/marcelocantos/linesh/internal/parser"
	"github.com/marcelocantos/linesh/internal/rules"
)

func newTestSession(t *testing.T) (*Session, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	logger, err := audit.NewLogger(path)
	if err != nil {
		t.Fatal(err)
	}
	s := New(env.FromMap(map[string]string{"KEY_1": "VAL_1"}), SourceREPL)
	s.Rules = rules.NewRuleSet(rules.Hardcoded()...)
	s.Logger = logger
	return s, path
}

func TestEvalAssignmentThenExpansion(t *testing.T) {
	s, _ := newTestSession(t)

	res, err := s.Eval("DIR=/tmp/$KEY_1")
	if err != nil {
		t.Fatal(err)
	}
	if name, value, ok := res.Assignment(); !ok || name != "DIR" || value != "/tmp/VAL_1" {
		t.Fatalf("Assignment() = %q, %q, %v", name, value, ok)
	}
	if got := s.Env.Get("DIR"); got != "/tmp/VAL_1" {
		t.Errorf("DIR = %q", got)
	}

	res, err = s.Eval(`ls "$DIR" | wc -l`)
	if err != nil {
		t.Fatal(err)
	}
	want := &parser.Result{Commands: []parser.Command{
		{Name: "ls", Args: []string{"/tmp/VAL_1"}},
		{Name: "wc", Args: []string{"-l"}},
	}}
	if !res.Equal(want) {
		t.Errorf("got %+v, want %+v", res, want)
	}
}

func TestEvalBlank(t *testing.T) {
	s, path := newTestSession(t)
	res, err := s.Eval("   ")
	if res != nil || err != nil {
		t.Errorf("Eval(blank) = %v, %v", res, err)
	}
	if n, _ := audit.Verify(path); n != 0 {
		t.Errorf("blank lines should not be audited, got %d entries", n)
	}
}

func TestEvalErrorsAreAudited(t *testing.T) {
	s, path := newTestSession(t)

	if _, err := s.Eval("foo |"); !errors.Is(err, parser.ErrTrailingPipe) {
		t.Fatalf("expected trailing pipe, got %v", err)
	}
	_, err := s.Eval("rm -rf /")
	var rej *rules.RejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if _, err := s.Eval("echo ok"); err != nil {
		t.Fatal(err)
	}

	entries, err := audit.Tail(path, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 audit entries, got %d", len(entries))
	}
	if entries[0].ErrorKind != parser.TrailingPipe.String() {
		t.Errorf("entry 0 error kind = %q", entries[0].ErrorKind)
	}
	if !entries[1].Rejected || entries[1].Commands[0] != "rm" {
		t.Errorf("entry 1 = %+v", entries[1])
	}
	if entries[2].Source != SourceREPL || entries[2].Error != "" {
		t.Errorf("entry 2 = %+v", entries[2])
	}
}

func TestEvalWithoutRulesOrLogger(t *testing.T) {
	s := New(nil, SourceParse)
	res, err := s.Eval("rm -rf /")
	if err != nil {
		t.Fatalf("no rules configured, got %v", err)
	}
	if res.Commands[0].Name != "rm" {
		t.Errorf("got %+v", res)
	}
}

func TestEvalAssignmentValueNotAudited(t *testing.T) {
	s, path := newTestSession(t)
	if _, err := s.Eval("TOKEN='s3cr3t value'"); err != nil {
		t.Fatal(err)
	}
	if got := s.Env.Get("TOKEN"); got != "s3cr3t value" {
		t.Errorf("TOKEN = %q", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "s3cr3t") {
		t.Errorf("assignment value leaked into audit log: %s", data)
	}
	entries, err := audit.Tail(path, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Assignment != "TOKEN" || entries[0].Line != "TOKEN=<redacted>" {
		t.Errorf("entry = %+v", entries)
	}
}
