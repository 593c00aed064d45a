package diag

import (
	"fmt"
	"strings"
)

// Severity orders diagnostics. Bag sorting and the --diag-level filter
// compare it numerically.
type Severity uint8

const (
	SevInfo    Severity = iota // pass notes: atomic loops, timings
	SevWarning                 // file still rewritten: cache trouble, encode skipped
	SevError                   // file left unwritten
)

var severityLabels = [...]string{
	SevInfo:    "info",
	SevWarning: "warning",
	SevError:   "error",
}

// Label is the lower-case form used by the pretty renderer and flags.
func (s Severity) Label() string {
	if int(s) < len(severityLabels) {
		return severityLabels[s]
	}
	return "unknown"
}

func (s Severity) String() string { return strings.ToUpper(s.Label()) }

// ParseSeverity reads a label in any case; "warn" is accepted for warning.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return SevInfo, nil
	case "warn", "warning":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return SevInfo, fmt.Errorf("unknown severity %q (want info|warning|error)", s)
}
