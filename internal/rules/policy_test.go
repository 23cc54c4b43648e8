// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testEntries() []PolicyEntry {
	return []PolicyEntry{
		{
			ID:       "allow-git-rm-build",
			Match:    MatchCriteria{Command: "git", Subcmd: "rm", ArgsGlob: []string{"build/*", "dist/*"}},
			Decision: DecisionAllow,
		},
		{
			ID:       "deny-git-rm",
			Match:    MatchCriteria{Command: "git", Subcmd: "rm"},
			Decision: DecisionDeny,
			Reason:   "source removal needs review",
		},
		{
			ID:       "deny-npm-global",
			Match:    MatchCriteria{Command: "npm", Subcmd: "install", HasFlags: []string{"-g", "--global"}},
			Decision: DecisionDeny,
		},
		{
			ID:       "deny-curl-insecure",
			Match:    MatchCriteria{Command: "curl", NoFlags: []string{"--fail"}, ArgsGlob: []string{"http://*"}},
			Decision: DecisionDeny,
			Reason:   "plain http without --fail",
		},
	}
}

func TestPolicyCheck(t *testing.T) {
	p, err := NewPolicy(testEntries())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name     string
		args     []string
		wantDeny string // substring of the error; empty means allowed
	}{
		{"git", []string{"rm", "build/out.o"}, ""},
		{"git", []string{"rm", "-r", "dist/app", "build/x"}, ""},
		{"git", []string{"rm", "main.go"}, "source removal"},
		{"git", []string{"rm", "build/x", "main.go"}, "source removal"},
		{"git", []string{"status"}, ""},
		{"/usr/bin/git", []string{"rm", "main.go"}, "source removal"},
		{"npm", []string{"install", "-g", "left-pad"}, `"deny-npm-global" denies npm`},
		{"npm", []string{"install", "--global=true", "x"}, "deny-npm-global"},
		{"npm", []string{"install", "left-pad"}, ""},
		{"curl", []string{"-s", "http://example.com"}, "plain http"},
		{"curl", []string{"--fail", "http://example.com"}, ""},
		{"curl", []string{"https://example.com"}, ""},
		{"curl", []string{"--", "-weird", "http://x"}, ""},
		{"ls", nil, ""},
	}
	for _, tt := range tests {
		err := p.Check(tt.name, tt.args)
		switch {
		case tt.wantDeny == "" && err != nil:
			t.Errorf("%s %v: unexpected rejection: %v", tt.name, tt.args, err)
		case tt.wantDeny != "" && err == nil:
			t.Errorf("%s %v: expected rejection", tt.name, tt.args)
		case tt.wantDeny != "" && !strings.Contains(err.Error(), tt.wantDeny):
			t.Errorf("%s %v: error %q does not contain %q", tt.name, tt.args, err, tt.wantDeny)
		}
	}
}

func TestNewPolicyInvalid(t *testing.T) {
	tests := []struct {
		entry   PolicyEntry
		wantErr string
	}{
		{PolicyEntry{Match: MatchCriteria{Command: "x"}, Decision: DecisionDeny}, "missing id"},
		{PolicyEntry{ID: "a", Decision: DecisionDeny}, "match.command"},
		{PolicyEntry{ID: "a", Match: MatchCriteria{Command: "x"}, Decision: "escalate"}, "invalid decision"},
		{PolicyEntry{ID: "a", Match: MatchCriteria{Command: "x", ArgsGlob: []string{"["}}, Decision: DecisionDeny}, "bad glob"},
	}
	for _, tt := range tests {
		_, err := NewPolicy([]PolicyEntry{tt.entry})
		if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
			t.Errorf("NewPolicy(%+v) error = %v, want %q", tt.entry, err, tt.wantErr)
		}
	}
}

func TestLoadPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	err := os.WriteFile(path, []byte(`
entries:
  - id: deny-make-clean
    match:
      command: make
      subcmd: clean
    decision: deny
    reason: clean wipes the build cache
`), 0600)
	if err != nil {
		t.Fatal(err)
	}

	p, err := LoadPolicy(path)
	if err != nil {
		t.Fatal(err)
	}
	if p.Len() != 1 || p.Path() != path {
		t.Fatalf("Len() = %d, Path() = %q", p.Len(), p.Path())
	}
	if err := p.Check("make", []string{"clean"}); err == nil {
		t.Error("make clean should be denied")
	}

	missing, err := LoadPolicy(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if missing.Len() != 0 {
		t.Errorf("missing policy has %d entries", missing.Len())
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("entries:\n  - id: x\n    decision: deny\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPolicy(bad); err == nil {
		t.Error("expected error for entry without match.command")
	}
}

func TestPolicyInRuleSet(t *testing.T) {
	p, err := NewPolicy(testEntries())
	if err != nil {
		t.Fatal(err)
	}
	rs := NewRuleSet(Hardcoded()...)
	rs.AddConfig(p.Check)

	if err := rs.Check("git", []string{"rm", "main.go"}, false); err == nil {
		t.Error("policy deny should reject")
	}
	if err := rs.Check("git", []string{"rm", "main.go"}, true); err != nil {
		t.Errorf("--allow should bypass policy: %v", err)
	}
}
