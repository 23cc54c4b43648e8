package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/marcelocantos/linesh/internal/session"
)

// REPLOptions controls the interactive loop.
type REPLOptions struct {
	Prompt string
	Format string
	// Interactive forces the prompt on or off; nil detects a terminal on
	// stdin.
	Interactive *bool
}

// RunREPL reads lines from in until EOF, evaluating each one against the
// session. Errors are reported on stderr and the loop continues. It returns
// the exit code of the last non-blank line.
func RunREPL(s *session.Session, opts REPLOptions, in io.Reader, stdout, stderr io.Writer) int {
	interactive := isTerminal(in)
	if opts.Interactive != nil {
		interactive = *opts.Interactive
	}
	errStyle := lipgloss.NewRenderer(stderr).NewStyle().Foreground(lipgloss.Color("9"))

	r := bufio.NewReader(in)
	status := ExitOK
	for {
		if interactive {
			fmt.Fprint(stdout, opts.Prompt)
		}

		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(stderr, "linesh: read: %v\n", err)
			return ExitRejected
		}
		eof := err != nil
		line = strings.TrimRight(line, "\r\n")

		if strings.TrimSpace(line) != "" {
			status = evalLine(s, line, opts.Format, stdout, stderr, errStyle)
		}

		if eof {
			if interactive {
				fmt.Fprintln(stdout)
			}
			return status
		}
	}
}

func evalLine(s *session.Session, line, format string, stdout, stderr io.Writer, errStyle lipgloss.Style) int {
	res, err := s.Eval(line)
	if err != nil {
		var msg strings.Builder
		code := reportError(&msg, err)
		fmt.Fprint(stderr, errStyle.Render(strings.TrimRight(msg.String(), "\n"))+"\n")
		return code
	}
	if err := writeResult(stdout, res, format); err != nil {
		fmt.Fprintf(stderr, "linesh: %v\n", err)
		return ExitRejected
	}
	return ExitOK
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
