// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy decisions.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// PolicyEntry is a single policy rule.
type PolicyEntry struct {
	ID       string        `yaml:"id"`
	Match    MatchCriteria `yaml:"match"`
	Decision string        `yaml:"decision"` // "allow" or "deny"
	Reason   string        `yaml:"reason"`
}

// MatchCriteria defines what a policy entry matches against.
type MatchCriteria struct {
	Command  string   `yaml:"command"`
	Subcmd   string   `yaml:"subcmd,omitempty"`
	HasFlags []string `yaml:"has_flags,omitempty"`
	NoFlags  []string `yaml:"no_flags,omitempty"`
	ArgsGlob []string `yaml:"args_glob,omitempty"`
}

// Policy is an ordered list of entries. The first entry matching a command
// decides it; an unmatched command passes.
type Policy struct {
	path    string
	entries []PolicyEntry
}

type policyFile struct {
	Entries []PolicyEntry `yaml:"entries"`
}

// LoadPolicy reads a policy file. A missing file is an empty policy.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Policy{path: path}, nil
		}
		return nil, fmt.Errorf("read policy: %w", err)
	}

	var pf policyFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse policy %s: %w", path, err)
	}
	p, err := NewPolicy(pf.Entries)
	if err != nil {
		return nil, fmt.Errorf("policy %s: %w", path, err)
	}
	p.path = path
	return p, nil
}

// NewPolicy validates entries and returns a Policy over them.
func NewPolicy(entries []PolicyEntry) (*Policy, error) {
	for i, e := range entries {
		if e.ID == "" {
			return nil, fmt.Errorf("entry %d: missing id", i)
		}
		if e.Match.Command == "" {
			return nil, fmt.Errorf("entry %q: match.command is required", e.ID)
		}
		switch e.Decision {
		case DecisionAllow, DecisionDeny:
		default:
			return nil, fmt.Errorf("entry %q: invalid decision %q (want allow or deny)", e.ID, e.Decision)
		}
		for _, g := range e.Match.ArgsGlob {
			if _, err := filepath.Match(g, ""); err != nil {
				return nil, fmt.Errorf("entry %q: bad glob %q: %w", e.ID, g, err)
			}
		}
	}
	return &Policy{entries: entries}, nil
}

// Path returns the file the policy was loaded from.
func (p *Policy) Path() string { return p.path }

// Len returns the number of entries.
func (p *Policy) Len() int { return len(p.entries) }

// Check is a CheckFunc. It rejects the command if the first matching entry
// is a deny.
func (p *Policy) Check(name string, args []string) error {
	e := p.match(name, args)
	if e == nil || e.Decision == DecisionAllow {
		return nil
	}
	if e.Reason != "" {
		return fmt.Errorf("policy %q: %s", e.ID, e.Reason)
	}
	return fmt.Errorf("policy %q denies %s", e.ID, name)
}

func (p *Policy) match(name string, args []string) *PolicyEntry {
	for i := range p.entries {
		if matchesCriteria(name, args, &p.entries[i].Match) {
			return &p.entries[i]
		}
	}
	return nil
}

// matchesCriteria checks whether a command satisfies all constraints in the
// match criteria. A command given by path matches on its base name.
func matchesCriteria(name string, args []string, m *MatchCriteria) bool {
	if name != m.Command && filepath.Base(name) != m.Command {
		return false
	}

	if m.Subcmd != "" {
		if len(args) == 0 || args[0] != m.Subcmd {
			return false
		}
		args = args[1:]
	}

	if len(m.HasFlags) > 0 && !hasAnyFlag(args, m.HasFlags...) {
		return false
	}
	if len(m.NoFlags) > 0 && hasAnyFlag(args, m.NoFlags...) {
		return false
	}

	// Every positional arg must match at least one glob.
	if len(m.ArgsGlob) > 0 {
		positional := positionalArgs(args)
		if len(positional) == 0 {
			return false
		}
		for _, arg := range positional {
			if !matchAnyGlob(arg, m.ArgsGlob) {
				return false
			}
		}
	}
	return true
}

// positionalArgs returns the non-flag arguments; everything after "--" counts.
func positionalArgs(args []string) []string {
	var pos []string
	pastDashes := false
	for _, arg := range args {
		if arg == "--" && !pastDashes {
			pastDashes = true
			continue
		}
		if !pastDashes && strings.HasPrefix(arg, "-") {
			continue
		}
		pos = append(pos, arg)
	}
	return pos
}

func matchAnyGlob(s string, patterns []string) bool {
	for _, p := range patterns {
		if matched, _ := filepath.Match(p, s); matched {
			return true
		}
	}
	return false
}
