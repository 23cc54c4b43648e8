package rules

import (
	"fmt"
	"strings"

	"github.com/marcelocantos/linesh/internal/parser"
)

// CheckFunc validates the arguments of a named command.
// Returns a non-nil error to reject the line.
type CheckFunc func(name string, args []string) error

// RuleSet holds an ordered list of validation rules. Hardcoded rules run first
// and cannot be removed. Config rules are appended after.
type RuleSet struct {
	hardcoded []CheckFunc
	config    []CheckFunc
}

// NewRuleSet creates a RuleSet with the given hardcoded rules.
func NewRuleSet(hardcoded ...CheckFunc) *RuleSet {
	return &RuleSet{hardcoded: hardcoded}
}

// AddConfig appends a config-driven rule.
func (rs *RuleSet) AddConfig(fn CheckFunc) {
	rs.config = append(rs.config, fn)
}

// Len returns the total number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.hardcoded) + len(rs.config)
}

// Check runs all rules against the given command name and args.
// Hardcoded rules always run first. When allow is true, config rules are
// skipped (the user has explicitly approved the line).
func (rs *RuleSet) Check(name string, args []string, allow bool) error {
	for _, fn := range rs.hardcoded {
		if err := fn(name, args); err != nil {
			return err
		}
	}
	if allow {
		return nil
	}
	for _, fn := range rs.config {
		if err := fn(name, args); err != nil {
			return err
		}
	}
	return nil
}

// RejectedError reports which pipeline segment a rule rejected.
type RejectedError struct {
	Segment int
	Name    string
	Err     error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("segment %d (%s): %v", e.Segment, e.Name, e.Err)
}

func (e *RejectedError) Unwrap() error { return e.Err }

// CheckResult checks every command of a parsed line. Assignment directives
// and blank lines always pass.
func (rs *RuleSet) CheckResult(res *parser.Result, allow bool) error {
	if rs == nil || res == nil {
		return nil
	}
	if _, _, ok := res.Assignment(); ok {
		return nil
	}
	for i, c := range res.Commands {
		if err := rs.Check(c.Name, c.Args, allow); err != nil {
			return &RejectedError{Segment: i, Name: c.Name, Err: err}
		}
	}
	return nil
}

// hasAnyFlag checks whether any element in args matches one of the given flags.
// It handles:
//   - Exact match: "-f" matches "-f"
//   - Combined short flags: "-rf" matches "-r" and "-f"
//   - Short flag with value: "-j4" matches "-j"
//   - Long flag with =: "--flag=value" matches "--flag"
func hasAnyFlag(args []string, flags ...string) bool {
	for _, arg := range args {
		if arg == "" || arg[0] != '-' {
			continue
		}
		for _, flag := range flags {
			if arg == flag {
				return true
			}
			if len(flag) == 2 && flag[0] == '-' && flag[1] != '-' &&
				len(arg) > 2 && arg[1] != '-' {
				if strings.ContainsRune(arg[1:], rune(flag[1])) {
					return true
				}
			}
			if len(flag) > 2 && flag[0:2] == "--" && strings.HasPrefix(arg, flag+"=") {
				return true
			}
		}
	}
	return false
}
