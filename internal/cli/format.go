package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/marcelocantos/linesh/internal/config"
	"github.com/marcelocantos/linesh/internal/parser"
)

// writeResult prints res in the given format. Blank lines print nothing.
func writeResult(w io.Writer, res *parser.Result, format string) error {
	if res == nil {
		return nil
	}
	switch format {
	case config.FormatJSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case config.FormatYAML:
		data, err := yaml.Marshal(res)
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := fmt.Fprintln(w, formatText(res))
		return err
	}
}

// formatText renders res as one line that parses back to res:
// assignments as NAME=value, pipelines with words single-quoted where needed.
func formatText(res *parser.Result) string {
	if name, value, ok := res.Assignment(); ok {
		return name + "=" + quoteWord(value)
	}
	parts := make([]string, len(res.Commands))
	for i, c := range res.Commands {
		words := make([]string, 0, len(c.Args)+1)
		name := quoteWord(c.Name)
		if name == c.Name && strings.Contains(name, "=") {
			// Bare NAME=VALUE in command position would read as an assignment.
			name = "'" + name + "'"
		}
		words = append(words, name)
		for _, a := range c.Args {
			words = append(words, quoteWord(a))
		}
		parts[i] = strings.Join(words, " ")
	}
	return strings.Join(parts, " "+parser.OpPipe+" ")
}

// quoteWord single-quotes s when it holds characters the parser treats
// specially. Embedded single quotes become '"'"'.
func quoteWord(s string) string {
	if s != "" && !strings.ContainsFunc(s, needsQuote) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func needsQuote(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(`'"|$\`, r)
}
