package loc

import "fmt"

// DiagnosticSeverity orders diagnostics the way spec §7 does: a compile
// with any Error (or above, in severity terms the lower the more severe)
// never produces artifacts, a compile with only Warnings does.
type DiagnosticSeverity int

const (
	ErrorType DiagnosticSeverity = iota + 1
	WarningType
	InformationType
	HintType
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case ErrorType:
		return "error"
	case WarningType:
		return "warning"
	case InformationType:
		return "info"
	case HintType:
		return "hint"
	}
	return "unknown"
}

// DiagnosticLocation is the human-facing position of a diagnostic: a
// filename plus 1-based line/column, as printed by spec §7's
// "level: file:line:col: message" format.
type DiagnosticLocation struct {
	File   string
	Line   int
	Column int
	Length int
}

// DiagnosticMessage is the fully resolved, printable form of a compiler
// diagnostic, after a Handler has turned a raw error into source position.
type DiagnosticMessage struct {
	Text     string
	Code     DiagnosticCode
	Severity int
	Location *DiagnosticLocation
	Hint     string
}

// ErrorWithRange is the error type every compiler stage should wrap
// lexical/syntax/semantic failures in: it carries both a diagnostic Code
// and the Range of source responsible, so the Handler can resolve a
// DiagnosticLocation from it without the stage needing to know about
// line/column bookkeeping at all.
type ErrorWithRange struct {
	Code  DiagnosticCode
	Text  string
	Range Range
}

func (e *ErrorWithRange) Error() string {
	return e.Text
}

// ToMessage attaches a resolved DiagnosticLocation to produce the final
// printable DiagnosticMessage.
func (e *ErrorWithRange) ToMessage(location *DiagnosticLocation) DiagnosticMessage {
	return DiagnosticMessage{
		Text:     e.Text,
		Code:     e.Code,
		Location: location,
	}
}

// String renders a message in spec §7's canonical one-line form.
func (m DiagnosticMessage) String() string {
	sev := DiagnosticSeverity(m.Severity).String()
	if m.Location == nil {
		return fmt.Sprintf("%s: %s", sev, m.Text)
	}
	return fmt.Sprintf("%s: %s:%d:%d: %s", sev, m.Location.File, m.Location.Line, m.Location.Column, m.Text)
}
