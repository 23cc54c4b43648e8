// Copyright 2026 Marcelo Cantos
// SPDX-License-Identifier: Apache-2.0

package rules

import (
	"fmt"
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// maxScriptSteps bounds a single check() call.
const maxScriptSteps = 100_000

// Script is a rule written in Starlark. The file must define
//
//	def check(name, args): ...
//
// returning None or True to accept, or a string (the reason) or False to
// reject. The builtin has_flag(args, *flags) uses the same flag matching as
// reject_flags.
type Script struct {
	path  string
	check starlark.Callable
}

// LoadScript compiles the Starlark rule at path.
func LoadScript(path string) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule script: %w", err)
	}
	return CompileScript(path, src)
}

// CompileScript compiles Starlark source; path is used in messages only.
func CompileScript(path string, src []byte) (*Script, error) {
	thread := &starlark.Thread{Name: "load " + path}
	predeclared := starlark.StringDict{
		"has_flag": starlark.NewBuiltin("has_flag", hasFlagBuiltin),
	}
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, thread, path, src, predeclared)
	if err != nil {
		return nil, fmt.Errorf("rule script %s: %w", path, err)
	}
	globals.Freeze()

	check, ok := globals["check"].(starlark.Callable)
	if !ok {
		return nil, fmt.Errorf("rule script %s: no check(name, args) function", path)
	}
	return &Script{path: path, check: check}, nil
}

// Path returns the script's file path.
func (s *Script) Path() string { return s.path }

// Check runs the script's check function. It has the CheckFunc signature.
func (s *Script) Check(name string, args []string) error {
	thread := &starlark.Thread{Name: "check " + s.path}
	thread.SetMaxExecutionSteps(maxScriptSteps)

	vals := make([]starlark.Value, len(args))
	for i, a := range args {
		vals[i] = starlark.String(a)
	}
	v, err := starlark.Call(thread, s.check, starlark.Tuple{starlark.String(name), starlark.NewList(vals)}, nil)
	if err != nil {
		return fmt.Errorf("rule script %s: %w", s.path, err)
	}

	switch v := v.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		if v {
			return nil
		}
		return fmt.Errorf("rejected by %s", s.path)
	case starlark.String:
		if v == "" {
			return nil
		}
		return fmt.Errorf("%s (%s)", string(v), s.path)
	default:
		return fmt.Errorf("rule script %s: check returned %s, want None, bool or string", s.path, v.Type())
	}
}

func hasFlagBuiltin(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(kwargs) > 0 {
		return nil, fmt.Errorf("%s: unexpected keyword arguments", b.Name())
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("%s: want an args list and at least one flag", b.Name())
	}
	iterable, ok := args[0].(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("%s: args must be iterable, got %s", b.Name(), args[0].Type())
	}
	strs, err := toStrings(iterable)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	flags := make([]string, 0, len(args)-1)
	for _, a := range args[1:] {
		f, ok := starlark.AsString(a)
		if !ok {
			return nil, fmt.Errorf("%s: flags must be strings, got %s", b.Name(), a.Type())
		}
		flags = append(flags, f)
	}
	return starlark.Bool(hasAnyFlag(strs, flags...)), nil
}

func toStrings(it starlark.Iterable) ([]string, error) {
	iter := it.Iterate()
	defer iter.Done()
	var out []string
	var v starlark.Value
	for iter.Next(&v) {
		s, ok := starlark.AsString(v)
		if !ok {
			return nil, fmt.Errorf("want string, got %s", v.Type())
		}
		out = append(out, s)
	}
	return out, nil
}
