package rules

import (
	"fmt"
	"maps"
	"slices"
)

// RuleConfig represents one command's rules from the config file.
type RuleConfig struct {
	RejectFlags []string                 `yaml:"reject_flags" toml:"reject_flags"`
	Subcommands map[string]SubRuleConfig `yaml:"subcommands" toml:"subcommands"`
}

// SubRuleConfig represents rules for a specific subcommand.
type SubRuleConfig struct {
	RejectFlags []string `yaml:"reject_flags" toml:"reject_flags"`
}

// CompileRule turns a single command's config into CheckFuncs.
func CompileRule(cmdName string, cfg RuleConfig) []CheckFunc {
	var fns []CheckFunc

	if len(cfg.RejectFlags) > 0 {
		flags := cfg.RejectFlags
		fns = append(fns, func(name string, args []string) error {
			if name != cmdName {
				return nil
			}
			if hasAnyFlag(args, flags...) {
				return fmt.Errorf("rejected flag (config rule); rerun with --allow to bypass")
			}
			return nil
		})
	}

	for _, sub := range slices.Sorted(maps.Keys(cfg.Subcommands)) {
		flags := cfg.Subcommands[sub].RejectFlags
		if len(flags) == 0 {
			continue
		}
		fns = append(fns, func(name string, args []string) error {
			if name != cmdName || len(args) == 0 || args[0] != sub {
				return nil
			}
			if hasAnyFlag(args[1:], flags...) {
				return fmt.Errorf("%s: rejected flag (config rule); rerun with --allow to bypass", sub)
			}
			return nil
		})
	}

	return fns
}
