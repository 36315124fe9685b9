// Package diagnostics defines the structured event records streamed to
// control clients.
package diagnostics

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity Severity       `json:"severity"`
	Code     string         `json:"code"`
	Summary  string         `json:"summary"`
	Detail   string         `json:"detail,omitempty"`
	Evidence map[string]any `json:"evidence,omitempty"`
}

func Infof(code, summary string) Diagnostic {
	return Diagnostic{Severity: Info, Code: code, Summary: summary}
}

func Warnf(code, summary string) Diagnostic {
	return Diagnostic{Severity: Warn, Code: code, Summary: summary}
}
