package rules

import (
	"errors"
	"testing"

	"github.com/marcelocantos/linesh/internal/parser"
)

func TestHasAnyFlag(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		flags []string
		want  bool
	}{
		{"exact short", []string{"-f"}, []string{"-f"}, true},
		{"exact long", []string{"--force"}, []string{"--force"}, true},
		{"no match", []string{"-v"}, []string{"-f"}, false},

		{"combined rf matches r", []string{"-rf"}, []string{"-r"}, true},
		{"combined rf matches f", []string{"-rf"}, []string{"-f"}, true},
		{"combined rf no match x", []string{"-rf"}, []string{"-x"}, false},

		{"j4 matches j", []string{"-j4"}, []string{"-j"}, true},
		{"j4 no match k", []string{"-j4"}, []string{"-k"}, false},

		{"force=yes matches force", []string{"--force=yes"}, []string{"--force"}, true},
		{"long does not match short", []string{"--verbose"}, []string{"-v"}, false},
		{"no match long", []string{"--verbose"}, []string{"--force"}, false},

		{"non-flag path", []string{"/tmp/file"}, []string{"-f"}, false},
		{"empty arg", []string{""}, []string{"-f"}, false},
		{"mixed", []string{"file.txt", "-r", "dir/"}, []string{"-r"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hasAnyFlag(tt.args, tt.flags...)
			if got != tt.want {
				t.Errorf("hasAnyFlag(%v, %v) = %v, want %v",
					tt.args, tt.flags, got, tt.want)
			}
		})
	}
}

func TestRuleSetCheck(t *testing.T) {
	errHardcoded := errors.New("hardcoded block")
	errConfig := errors.New("config block")

	blockOn := func(target string, err error) CheckFunc {
		return func(name string, args []string) error {
			if name == target {
				return err
			}
			return nil
		}
	}

	t.Run("hardcoded fires first", func(t *testing.T) {
		rs := NewRuleSet(blockOn("rm", errHardcoded))
		rs.AddConfig(blockOn("rm", errConfig))
		if err := rs.Check("rm", []string{"-rf", "/"}, false); err != errHardcoded {
			t.Errorf("expected hardcoded error, got %v", err)
		}
	})

	t.Run("config fires when hardcoded passes", func(t *testing.T) {
		rs := NewRuleSet(blockOn("rm", errHardcoded))
		rs.AddConfig(blockOn("make", errConfig))
		if err := rs.Check("make", []string{"-j4"}, false); err != errConfig {
			t.Errorf("expected config error, got %v", err)
		}
	})

	t.Run("empty ruleset", func(t *testing.T) {
		if err := NewRuleSet().Check("grep", []string{"-r", "TODO"}, false); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("allow skips config rules", func(t *testing.T) {
		rs := NewRuleSet()
		rs.AddConfig(blockOn("make", errConfig))
		if err := rs.Check("make", []string{"-j4"}, true); err != nil {
			t.Errorf("expected nil with allow=true, got %v", err)
		}
	})

	t.Run("allow does not skip hardcoded", func(t *testing.T) {
		rs := NewRuleSet(blockOn("rm", errHardcoded))
		if err := rs.Check("rm", nil, true); err != errHardcoded {
			t.Errorf("expected hardcoded error even with allow, got %v", err)
		}
	})
}

func TestCheckResult(t *testing.T) {
	rs := NewRuleSet(Hardcoded()...)
	for _, fn := range CompileRule("make", RuleConfig{RejectFlags: []string{"-j"}}) {
		rs.AddConfig(fn)
	}

	tests := []struct {
		line        string
		allow       bool
		wantSegment int // -1 for no rejection
	}{
		{"make all | tee log", false, -1},
		{"cat Makefile | make -j8", false, 1},
		{"cat Makefile | make -j8", true, -1},
		{"echo ok | rm -rf /", true, 1},
		{"X='rm -rf /'", false, -1},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			res, err := parser.Parse(tt.line, nil)
			if err != nil {
				t.Fatal(err)
			}
			err = rs.CheckResult(res, tt.allow)
			if tt.wantSegment < 0 {
				if err != nil {
					t.Errorf("unexpected rejection: %v", err)
				}
				return
			}
			var rej *RejectedError
			if !errors.As(err, &rej) {
				t.Fatalf("expected *RejectedError, got %v", err)
			}
			if rej.Segment != tt.wantSegment {
				t.Errorf("rejected segment %d, want %d", rej.Segment, tt.wantSegment)
			}
		})
	}

	var nilSet *RuleSet
	if err := nilSet.CheckResult(nil, false); err != nil {
		t.Errorf("nil ruleset: %v", err)
	}
}
