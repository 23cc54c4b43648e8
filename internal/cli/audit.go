package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/marcelocantos/linesh/internal/audit"
)

// RunAuditVerify checks the audit log hash chain: linesh audit verify
func RunAuditVerify(w io.Writer, logPath string) int {
	n, err := audit.Verify(logPath)
	if err != nil {
		fmt.Fprintf(w, "audit verification FAILED after %d entries: %v\n", n, err)
		return ExitParse
	}
	fmt.Fprintf(w, "audit log integrity verified (%d entries)\n", n)
	return ExitOK
}

// RunAuditTail prints the last n audit entries: linesh audit tail [-n N]
func RunAuditTail(w io.Writer, logPath string, n int) int {
	entries, err := audit.Tail(logPath, n)
	if err != nil {
		fmt.Fprintf(w, "linesh audit: %v\n", err)
		return ExitParse
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "no audit entries")
		return ExitOK
	}
	for _, e := range entries {
		data, _ := json.MarshalIndent(e, "", "  ")
		fmt.Fprintf(w, "%s\n", data)
	}
	return ExitOK
}
