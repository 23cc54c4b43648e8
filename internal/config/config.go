package config

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/marcelocantos/linesh/internal/env"
	"github.com/marcelocantos/linesh/internal/rules"
)

// Config holds the global linesh configuration.
type Config struct {
	Env         map[string]string           `yaml:"env" toml:"env"`
	ImportEnv   string                      `yaml:"import_env" toml:"import_env"`
	Format      string                      `yaml:"format" toml:"format"`
	Prompt      string                      `yaml:"prompt" toml:"prompt"`
	Audit       AuditConfig                 `yaml:"audit" toml:"audit"`
	Rules       map[string]rules.RuleConfig `yaml:"rules" toml:"rules"`
	RuleScripts []string                    `yaml:"rule_scripts" toml:"rule_scripts"`
	PolicyFile  string                      `yaml:"policy_file" toml:"policy_file"`

	path string
}

// AuditConfig controls audit log settings.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// Values accepted by import_env.
const (
	ImportNone    = "none"
	ImportCurated = "curated"
	ImportAll     = "all"
)

// Values accepted by format.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		ImportEnv: ImportCurated,
		Format:    FormatText,
		Prompt:    "$ ",
		Audit: AuditConfig{
			Enabled: true,
			Path:    filepath.Join(home, ".local", "share", "linesh", "audit.jsonl"),
		},
	}
}

// Load reads the config from the standard location, preferring
// ~/.config/linesh/config.yaml over config.toml. If neither exists, returns
// the default config.
func Load() (*Config, error) {
	dir := configDir()
	if dir == "" {
		return DefaultConfig(), nil
	}
	for _, name := range []string{"config.yaml", "config.yml", "config.toml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFrom(path)
		}
	}
	return DefaultConfig(), nil
}

// LoadFrom reads the config from the given path. The format follows the
// file extension: .toml is TOML, anything else YAML.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.path = path

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	cfg.Audit.Path = expandHome(cfg.Audit.Path)
	for i, p := range cfg.RuleScripts {
		cfg.RuleScripts[i] = expandHome(p)
	}
	cfg.PolicyFile = expandHome(cfg.PolicyFile)
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.ImportEnv {
	case ImportNone, ImportCurated, ImportAll:
	default:
		return fmt.Errorf("import_env: invalid value %q (want none, curated, or all)", c.ImportEnv)
	}
	if err := ValidateFormat(c.Format); err != nil {
		return err
	}
	if c.Audit.Enabled && c.Audit.Path == "" {
		return fmt.Errorf("audit: path is required when enabled")
	}
	return nil
}

// ValidateFormat checks an output format name.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("format: invalid value %q (want text, json, or yaml)", format)
	}
}

// Path returns the file the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.path
}

// NewEnv builds the session environment: imported process variables first,
// then the configured env map on top.
func (c *Config) NewEnv() (*env.Env, error) {
	e := env.New()
	switch c.ImportEnv {
	case ImportCurated:
		e.Merge(env.Capture(false))
	case ImportAll:
		e.Merge(env.Capture(true))
	}
	if skipped := e.Merge(c.Env); len(skipped) > 0 {
		return nil, fmt.Errorf("env: invalid variable names %s", strings.Join(skipped, ", "))
	}
	return e, nil
}

// NewRuleSet creates a RuleSet from the config. Hardcoded safety rules are
// always included; the policy file, reject_flags rules and rule scripts can
// be bypassed with --allow.
func (c *Config) NewRuleSet() (*rules.RuleSet, error) {
	rs := rules.NewRuleSet(rules.Hardcoded()...)
	if c.PolicyFile != "" {
		p, err := rules.LoadPolicy(c.PolicyFile)
		if err != nil {
			return nil, err
		}
		rs.AddConfig(p.Check)
	}
	for _, name := range slices.Sorted(maps.Keys(c.Rules)) {
		for _, fn := range rules.CompileRule(name, c.Rules[name]) {
			rs.AddConfig(fn)
		}
	}
	for _, path := range c.RuleScripts {
		s, err := rules.LoadScript(path)
		if err != nil {
			return nil, err
		}
		rs.AddConfig(s.Check)
	}
	return rs, nil
}

// ConfigPath returns the default YAML config file path.
func ConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "linesh")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
