package lexer

import "strings"

// Option configures Tokenize.
type Option func(*options)

type options struct {
	filename string
}

// WithFilename attributes all emitted spans to the provided filename.
func WithFilename(name string) Option {
	return func(o *options) {
		o.filename = name
	}
}

// Tokenize scans src and runs the layout pass over the result. The returned
// sequence always ends with EOF and has balanced INDENT/DEDENT pairs. The first
// lexical error aborts the scan and is returned as a *LexerError.
func Tokenize(src string, opts ...Option) ([]Token, error) {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	l := New(src)
	l.SetFilename(cfg.filename)

	var raw []Token
	for {
		tok := l.NextToken()
		if len(l.Errors) > 0 {
			err := l.Errors[0]
			return nil, &err
		}
		raw = append(raw, tok)
		if tok.Type == EOF {
			break
		}
	}

	return Layout(raw)
}

// Layout replaces the WHITESPACE trivia emitted at line starts with INDENT and
// DEDENT markers.
//
// Indentation levels are kept as a stack of whitespace prefixes. A line whose
// indentation extends the top of the stack opens a level; a line whose
// indentation equals a saved level closes every level above it. Anything else
// is an ErrInvalidIndent. Blank lines keep their NEWLINE but never change the
// level. At EOF a missing final NEWLINE is added and all open levels are closed.
func Layout(raw []Token) ([]Token, error) {
	out := make([]Token, 0, len(raw)+8)
	stack := []string{""}

	lineStart := true
	lineHasContent := false
	seenContent := false
	indent := ""
	var indentSpan *Span

	for _, tok := range raw {
		switch tok.Type {
		case WHITESPACE:
			if lineStart {
				indent = tok.Literal
				span := tok.Span
				indentSpan = &span
			}
			continue

		case NEWLINE:
			out = append(out, tok)
			lineStart = true
			lineHasContent = false
			indent = ""
			indentSpan = nil
			continue

		case EOF:
			at := zeroWidth(tok.Span)
			if lineHasContent {
				out = append(out, Token{Type: NEWLINE, Span: at})
			}
			for len(stack) > 1 {
				stack = stack[:len(stack)-1]
				out = append(out, Token{Type: DEDENT, Span: at})
			}
			out = append(out, tok)
			return out, nil
		}

		if lineStart {
			lineStart = false
			lineHasContent = true

			top := stack[len(stack)-1]
			switch {
			case indent == top:
			case strings.HasPrefix(indent, top):
				if !seenContent {
					return nil, indentError("unexpected indentation on the first line", indentSpan, tok.Span)
				}
				stack = append(stack, indent)
				span := tok.Span
				if indentSpan != nil {
					span = *indentSpan
				}
				out = append(out, Token{Type: INDENT, Literal: indent, Span: span})
			default:
				at := zeroWidth(tok.Span)
				for len(stack) > 1 && stack[len(stack)-1] != indent {
					stack = stack[:len(stack)-1]
					out = append(out, Token{Type: DEDENT, Span: at})
				}
				if stack[len(stack)-1] != indent {
					return nil, indentError("unindent does not match any outer indentation level", indentSpan, tok.Span)
				}
			}
		}

		seenContent = true
		out = append(out, tok)
	}

	// Input without EOF: close what is open so the output stays balanced.
	if lineHasContent {
		out = append(out, Token{Type: NEWLINE})
	}
	for len(stack) > 1 {
		stack = stack[:len(stack)-1]
		out = append(out, Token{Type: DEDENT})
	}
	return append(out, Token{Type: EOF}), nil
}

func zeroWidth(span Span) Span {
	span.End = span.Start
	return span
}

func indentError(msg string, indentSpan *Span, fallback Span) *LexerError {
	span := fallback
	if indentSpan != nil {
		span = *indentSpan
	}
	return &LexerError{
		Kind:    ErrInvalidIndent,
		Message: msg,
		Span:    span,
	}
}
