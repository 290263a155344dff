package diag

import "fmt"

// Stage identifies which front-end phase produced the diagnostic.
type Stage string

const (
	StageLexer  Stage = "lexer"
	StageParser Stage = "parser"
)

// Severity captures how impactful the diagnostic is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
)

// SpanStyle selects how a labeled span is underlined.
type SpanStyle string

const (
	StylePrimary   SpanStyle = "primary"   // drawn with '^'
	StyleSecondary SpanStyle = "secondary" // drawn with '~'
)

// LabeledSpan is a span with an optional label printed after its underline.
type LabeledSpan struct {
	Span  Span
	Label string
	Style SpanStyle
}

// Code is a stable identifier for a diagnostic.
type Code string

const (
	// Lexer errors
	CodeLexerUnterminatedString Code = "LEXER_UNTERMINATED_STRING"
	CodeLexerIllegalRune        Code = "LEXER_ILLEGAL_RUNE"
	CodeLexerMalformedNumber    Code = "LEXER_MALFORMED_NUMBER"
	CodeLexerInvalidIndent      Code = "LEXER_INVALID_INDENT"

	// Parser errors
	CodeParseUnexpectedToken Code = "PARSE_UNEXPECTED_TOKEN"
	CodeParseUnbalancedBlock Code = "PARSE_UNBALANCED_BLOCK"
	CodeParseNestingTooDeep  Code = "PARSE_NESTING_TOO_DEEP"
	CodeParseTrailingInput   Code = "PARSE_TRAILING_INPUT"
)

// Span represents a location in source code.
type Span struct {
	Filename string
	Line     int
	Column   int
	Start    int
	End      int
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	if s.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", s.Filename, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// IsValid reports whether the span points at a line and column.
func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

// Diagnostic is a front-end diagnostic surfaced to end-users.
type Diagnostic struct {
	Stage    Stage
	Severity Severity
	Code     Code
	Message  string
	Span     Span
	// LabeledSpans replaces Span in rendering when set; the first entry
	// names the file and the location shown in the header.
	LabeledSpans []LabeledSpan
	Notes        []string // Additional notes to display
	Help         string
}

// Error lets a Diagnostic travel through error returns.
func (d Diagnostic) Error() string {
	if d.Span.IsValid() {
		return fmt.Sprintf("%s: %s", d.Span, d.Message)
	}
	return d.Message
}

// WithLabeledSpan returns a copy of d with one more labeled span. An empty
// style means primary.
func (d Diagnostic) WithLabeledSpan(span Span, label string, style SpanStyle) Diagnostic {
	if style == "" {
		style = StylePrimary
	}
	d.LabeledSpans = append(d.LabeledSpans[:len(d.LabeledSpans):len(d.LabeledSpans)], LabeledSpan{
		Span:  span,
		Label: label,
		Style: style,
	})
	return d
}

func (d Diagnostic) WithPrimarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, StylePrimary)
}

func (d Diagnostic) WithSecondarySpan(span Span, label string) Diagnostic {
	return d.WithLabeledSpan(span, label, StyleSecondary)
}

// WithNote adds a note to the diagnostic.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], note)
	return d
}

// WithHelp adds help text to the diagnostic.
func (d Diagnostic) WithHelp(help string) Diagnostic {
	d.Help = help
	return d
}
