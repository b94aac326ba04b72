// Package handler collects diagnostics for one compile: every stage of
// the pipeline is handed the same *Handler and appends to it instead of
// returning an error up the call stack, so a best-effort result can
// still be produced after a recoverable failure.
package handler

import (
	"errors"

	"github.com/chtl-lang/chtl/internal/loc"
)

// Handler accumulates diagnostics for a single compile unit. It is owned
// exclusively by that compile; nothing about it is safe to share across
// goroutines, matching the single-threaded-per-unit model of spec §5.
type Handler struct {
	sourcetext string
	filename   string
	table      *loc.LineTable
	errors     []error
	warnings   []error
	infos      []error
	hints      []error
}

// NewHandler builds a Handler for one source file. sourcetext is kept so
// that diagnostics can later render a one-line excerpt with a caret.
func NewHandler(sourcetext string, filename string) *Handler {
	return &Handler{
		sourcetext: sourcetext,
		filename:   filename,
		table:      loc.NewLineTable(sourcetext),
		errors:     make([]error, 0),
		warnings:   make([]error, 0),
		infos:      make([]error, 0),
		hints:      make([]error, 0),
	}
}

func (h *Handler) Filename() string { return h.filename }

func (h *Handler) HasErrors() bool {
	return len(h.errors) > 0
}

func (h *Handler) AppendError(err error) {
	if err != nil {
		h.errors = append(h.errors, err)
	}
}

func (h *Handler) AppendWarning(err error) {
	if err != nil {
		h.warnings = append(h.warnings, err)
	}
}

func (h *Handler) AppendInfo(err error) {
	if err != nil {
		h.infos = append(h.infos, err)
	}
}

func (h *Handler) AppendHint(err error) {
	if err != nil {
		h.hints = append(h.hints, err)
	}
}

func (h *Handler) Errors() []loc.DiagnosticMessage {
	return h.toMessages(h.errors, loc.ErrorType)
}

func (h *Handler) Warnings() []loc.DiagnosticMessage {
	return h.toMessages(h.warnings, loc.WarningType)
}

// Diagnostics returns every diagnostic recorded, errors first, in the
// order each category was appended.
func (h *Handler) Diagnostics() []loc.DiagnosticMessage {
	msgs := h.toMessages(h.errors, loc.ErrorType)
	msgs = append(msgs, h.toMessages(h.warnings, loc.WarningType)...)
	msgs = append(msgs, h.toMessages(h.infos, loc.InformationType)...)
	msgs = append(msgs, h.toMessages(h.hints, loc.HintType)...)
	return msgs
}

func (h *Handler) toMessages(errs []error, severity loc.DiagnosticSeverity) []loc.DiagnosticMessage {
	msgs := make([]loc.DiagnosticMessage, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			msgs = append(msgs, ErrorToMessage(h, severity, err))
		}
	}
	return msgs
}

// ErrorToMessage resolves an error into a printable DiagnosticMessage,
// attaching file/line/column when the error carries a *loc.ErrorWithRange.
func ErrorToMessage(h *Handler, severity loc.DiagnosticSeverity, err error) loc.DiagnosticMessage {
	var rangedError *loc.ErrorWithRange
	switch {
	case errors.As(err, &rangedError):
		pos := h.table.Position(rangedError.Range.Loc.Start)
		location := &loc.DiagnosticLocation{
			File:   h.filename,
			Line:   pos.Line,
			Column: pos.Col,
			Length: rangedError.Range.Len,
		}
		message := rangedError.ToMessage(location)
		message.Severity = int(severity)
		return message
	default:
		return loc.DiagnosticMessage{Text: err.Error(), Severity: int(severity)}
	}
}

// Excerpt renders the one-line source excerpt and caret described in
// spec §7, for a diagnostic anchored at offset.
func (h *Handler) Excerpt(offset int) (line string, caretCol int) {
	return h.table.Excerpt(offset)
}
