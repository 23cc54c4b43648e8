package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcelocantos/linesh/internal/audit"
	"github.com/marcelocantos/linesh/internal/cli"
	"github.com/marcelocantos/linesh/internal/config"
	"github.com/marcelocantos/linesh/internal/mcpserver"
	"github.com/marcelocantos/linesh/internal/session"
)

// app carries the persistent flags and the exit code chosen by a subcommand.
type app struct {
	cfgFile string
	format  string
	allow   bool
	exit    int
}

func newApp() *app { return &app{} }

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "linesh",
		Short: "Parse shell-like command lines into pipelines",
		Long: `linesh tokenizes a line with single and double quotes, expands $VAR
references from a session environment, splits the result on | and reports
each pipeline segment as a command name plus arguments. NAME=VALUE lines
set a session variable.

With no subcommand, linesh reads lines from stdin (the repl subcommand).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default ~/.config/linesh/config.yaml)")
	root.PersistentFlags().StringVar(&a.format, "format", "", "output format: text, json or yaml")
	root.PersistentFlags().BoolVar(&a.allow, "allow", false, "bypass configured rules (hardcoded rules still apply)")

	root.AddCommand(a.parseCmd(), a.replCmd(), a.auditCmd(), a.mcpCmd(), a.versionCmd())
	return root
}

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <line>...",
		Short: "Parse one line and print the pipeline",
		Long: `Parse one line and print the pipeline. Multiple arguments are joined
with single spaces, so quote the line to keep it intact:

  linesh parse 'echo "$HOME" | wc -c'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, s, err := a.session(session.SourceParse)
			if err != nil {
				return err
			}
			a.exit = cli.RunParse(s, strings.Join(args, " "), a.outputFormat(cfg), os.Stdout, os.Stderr)
			return nil
		},
	}
}

func (a *app) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Read and parse lines from stdin until EOF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runREPL()
		},
	}
}

func (a *app) runREPL() error {
	cfg, s, err := a.session(session.SourceREPL)
	if err != nil {
		return err
	}
	a.exit = cli.RunREPL(s, cli.REPLOptions{
		Prompt: cfg.Prompt,
		Format: a.outputFormat(cfg),
	}, os.Stdin, os.Stdout, os.Stderr)
	return nil
}

func (a *app) auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit log",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Check the audit log hash chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			a.exit = cli.RunAuditVerify(os.Stdout, cfg.Audit.Path)
			return nil
		},
	})

	var n int
	tail := &cobra.Command{
		Use:   "tail",
		Short: "Show the most recent audit entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			a.exit = cli.RunAuditTail(os.Stdout, cfg.Audit.Path, n)
			return nil
		},
	}
	tail.Flags().IntVarP(&n, "lines", "n", 10, "number of entries")
	cmd.AddCommand(tail)
	return cmd
}

func (a *app) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve parse_line, set_variable and get_variable over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := a.session(session.SourceMCP)
			if err != nil {
				return err
			}
			return mcpserver.New(s, version).Serve()
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "linesh %s\n", version)
		},
	}
}

func (a *app) config() (*config.Config, error) {
	load := config.Load
	if a.cfgFile != "" {
		load = func() (*config.Config, error) { return config.LoadFrom(a.cfgFile) }
	}
	cfg, err := load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if a.format != "" {
		if err := config.ValidateFormat(a.format); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// session builds a session from the config: environment, rules and, when
// enabled, the audit log.
func (a *app) session(source string) (*config.Config, *session.Session, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, nil, err
	}
	e, err := cfg.NewEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	rs, err := cfg.NewRuleSet()
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	s := session.New(e, source)
	s.Rules = rs
	s.Allow = a.allow
	if cfg.Audit.Enabled {
		logger, err := audit.NewLogger(cfg.Audit.Path)
		if err != nil {
			// Continue without audit logging.
			fmt.Fprintf(os.Stderr, "linesh: audit: %v\n", err)
		} else {
			s.Logger = logger
		}
	}
	return cfg, s, nil
}

func (a *app) outputFormat(cfg *config.Config) string {
	if a.format != "" {
		return a.format
	}
	return cfg.Format
}
