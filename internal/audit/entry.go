package audit

import "time"

// Entry represents a single audit log record.
type Entry struct {
	Seq        uint64    `json:"seq"`
	Time       time.Time `json:"ts"`
	PrevHash   string    `json:"prev_hash"`
	Session    string    `json:"session"`              // uuid shared by one REPL or MCP session
	Source     string    `json:"source"`               // "parse", "repl", "mcp"
	Line       string    `json:"line"`                 // input line; NAME=<redacted> for assignments
	Commands   []string  `json:"commands,omitempty"`   // command names in pipeline order
	Assignment string    `json:"assignment,omitempty"` // variable name for NAME=VALUE lines
	ErrorKind  string    `json:"error_kind,omitempty"` // parse failure kind
	Error      string    `json:"error,omitempty"`      // parse or rule error message
	Rejected   bool      `json:"rejected,omitempty"`   // true if a rule rejected the line
	Allow      bool      `json:"allow,omitempty"`      // true if --allow was used
	Hash       string    `json:"hash"`                 // SHA-256 of this entry (with hash field empty)
}

// Record carries the caller-supplied fields of an entry.
type Record struct {
	Source     string
	Line       string
	Commands   []string
	Assignment string
	ErrorKind  string
	Error      string
	Rejected   bool
	Allow      bool
}
