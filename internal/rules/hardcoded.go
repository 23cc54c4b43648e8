package rules

import (
	"fmt"
	"path/filepath"
)

// Hardcoded returns the safety rules that are always enforced regardless of
// configuration or --allow.
func Hardcoded() []CheckFunc {
	return []CheckFunc{
		checkRmCatastrophic,
	}
}

// checkRmCatastrophic rejects recursive removal of root, home, or the
// current directory.
func checkRmCatastrophic(name string, args []string) error {
	if filepath.Base(name) != "rm" {
		return nil
	}
	if !hasAnyFlag(args, "-r", "-R", "--recursive") {
		return nil
	}
	for _, arg := range args {
		if arg == "" || arg[0] == '-' {
			continue
		}
		cleaned := filepath.Clean(arg)
		switch cleaned {
		case "/", ".", "..", "~":
			return fmt.Errorf("refusing to recursively remove %q. This line is permanently rejected", arg)
		}
	}
	return nil
}
