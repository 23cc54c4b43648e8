// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

// Package env holds shell variables. The parser only reads them through
// parser.Lookuper; the REPL and MCP server own the writes.
package env

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/marcelocantos/linesh/internal/parser"
)

// Env is a concurrency-safe variable store.
type Env struct {
	mu   sync.RWMutex
	vars map[string]string
}

// New returns an empty Env.
func New() *Env {
	return &Env{vars: make(map[string]string)}
}

// FromMap returns an Env seeded with a copy of m.
func FromMap(m map[string]string) *Env {
	e := New()
	maps.Copy(e.vars, m)
	return e
}

// Lookup returns the value of name and whether it is set.
func (e *Env) Lookup(name string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	v, ok := e.vars[name]
	return v, ok
}

// Get returns the value of name, or "" if unset.
func (e *Env) Get(name string) string {
	v, _ := e.Lookup(name)
	return v
}

// Set stores value under name. Names must be valid identifiers.
func (e *Env) Set(name, value string) error {
	if !parser.IsName(name) {
		return fmt.Errorf("invalid variable name %q", name)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.vars[name] = value
	return nil
}

// Unset removes name.
func (e *Env) Unset(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.vars, name)
}

// Merge sets every valid name in m, skipping the rest. It returns the
// names it skipped.
func (e *Env) Merge(m map[string]string) []string {
	var skipped []string
	e.mu.Lock()
	defer e.mu.Unlock()
	for k, v := range m {
		if !parser.IsName(k) {
			skipped = append(skipped, k)
			continue
		}
		e.vars[k] = v
	}
	slices.Sort(skipped)
	return skipped
}

// Names returns the set variable names in sorted order.
func (e *Env) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Sorted(maps.Keys(e.vars))
}

// Len returns the number of variables set.
func (e *Env) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.vars)
}

// Snapshot returns an immutable copy of the current variables.
func (e *Env) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Snapshot(maps.Clone(e.vars))
}

// Apply stores the value of an assignment directive. It reports whether res
// was an assignment.
func (e *Env) Apply(res *parser.Result) (bool, error) {
	name, value, ok := res.Assignment()
	if !ok {
		return false, nil
	}
	return true, e.Set(name, value)
}

// Snapshot is a read-only view of an Env at one point in time.
type Snapshot map[string]string

// Lookup implements parser.Lookuper.
func (s Snapshot) Lookup(name string) (string, bool) {
	v, ok := s[name]
	return v, ok
}

// curatedKeys lists process variables imported in curated mode.
var curatedKeys = []string{
	"HOME", "PATH", "USER", "SHELL", "TERM",
	"LANG", "PWD", "TMPDIR",
}

// curatedPrefixes lists prefixes for additional imported variables.
var curatedPrefixes = []string{
	"LC_",
}

// Capture reads variables from the process environment. With all set, every
// variable with a valid name is returned; otherwise only the curated set.
func Capture(all bool) map[string]string {
	out := make(map[string]string)
	if !all {
		for _, key := range curatedKeys {
			if val, ok := os.LookupEnv(key); ok {
				out[key] = val
			}
		}
	}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !parser.IsName(k) {
			continue
		}
		if all {
			out[k] = v
			continue
		}
		for _, prefix := range curatedPrefixes {
			if strings.HasPrefix(k, prefix) {
				out[k] = v
			}
		}
	}
	return out
}
