package diag

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const unnamedSource = "<input>"

// Formatter renders diagnostics with source code snippets.
type Formatter struct {
	out     io.Writer
	sources map[string]string
}

// NewFormatter creates a formatter that writes to out.
func NewFormatter(out io.Writer) *Formatter {
	return &Formatter{
		out:     out,
		sources: make(map[string]string),
	}
}

// AddSource registers in-memory source for filename, so snippets can be shown
// for input that never touched the file system (stdin, the REPL).
func (f *Formatter) AddSource(filename, src string) {
	f.sources[filename] = src
}

// LoadSource returns the registered source for filename, reading and caching
// the file on first use.
func (f *Formatter) LoadSource(filename string) (string, error) {
	if src, ok := f.sources[filename]; ok {
		return src, nil
	}
	if filename == "" {
		return "", errors.Wrap(os.ErrNotExist, "no source registered for unnamed input")
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", errors.Wrapf(err, "loading source of %s", filename)
	}
	f.sources[filename] = string(data)
	return string(data), nil
}

// Format writes d to the formatter's output. Without readable source it
// falls back to the header and location alone.
func (f *Formatter) Format(d Diagnostic) {
	spans := d.LabeledSpans
	if len(spans) == 0 && d.Span.IsValid() {
		spans = []LabeledSpan{{Span: d.Span, Style: StylePrimary}}
	}
	if len(spans) == 0 {
		f.formatSimple(d)
		return
	}

	filename := spans[0].Span.Filename
	src, err := f.LoadSource(filename)
	if err != nil {
		f.formatSimple(d)
		return
	}
	if filename == "" {
		filename = unnamedSource
	}

	f.printHeader(d)
	// Sorting below must not reorder the caller's slice.
	f.printSnippet(filename, src, append([]LabeledSpan(nil), spans...))
	f.printNotes(d)
}

func (f *Formatter) printHeader(d Diagnostic) {
	severity := d.Severity
	if severity == "" {
		severity = SeverityError
	}
	if d.Code != "" {
		fmt.Fprintf(f.out, "%s[%s]: %s\n", severity, d.Code, d.Message)
		return
	}
	fmt.Fprintf(f.out, "%s: %s\n", severity, d.Message)
}

// splitLines breaks src at the same line ends the lexer recognizes, so line
// numbers in spans index the result directly.
func splitLines(src string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(src); i++ {
		switch src[i] {
		case '\n':
			lines = append(lines, src[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, src[start:i])
			if i+1 < len(src) && src[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(lines, src[start:])
}

// printSnippet prints the lines touched by spans, one line of context on
// each side, with underlines beneath.
func (f *Formatter) printSnippet(filename, src string, spans []LabeledSpan) {
	primary := spans[0].Span
	fmt.Fprintf(f.out, "  --> %s:%d:%d\n", filename, primary.Line, primary.Column)

	lines := splitLines(src)
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Span.Line != spans[j].Span.Line {
			return spans[i].Span.Line < spans[j].Span.Line
		}
		return spans[i].Span.Column < spans[j].Span.Column
	})

	byLine := make(map[int][]LabeledSpan)
	first, last := 0, 0
	for _, span := range spans {
		line := span.Span.Line
		if line < 1 || line > len(lines) {
			continue
		}
		byLine[line] = append(byLine[line], span)
		if first == 0 {
			first = line
		}
		last = line
	}
	if first == 0 {
		return
	}

	from := max(1, first-1)
	to := min(len(lines), last+1)
	width := len(strconv.Itoa(to))
	gutter := strings.Repeat(" ", width)

	fmt.Fprintf(f.out, " %s |\n", gutter)
	for n := from; n <= to; n++ {
		text := lines[n-1]
		fmt.Fprintf(f.out, " %*d | %s\n", width, n, text)
		if lineSpans := byLine[n]; len(lineSpans) > 0 {
			fmt.Fprintf(f.out, " %s | %s\n", gutter, underline(text, lineSpans))
		}
	}
	fmt.Fprintf(f.out, " %s |\n", gutter)
}

// underline marks primary spans with '^' and secondary spans with '~'.
// Primary marks win where spans overlap. Tabs before a mark are copied from
// the source line so the marks line up under tab indentation.
func underline(text string, spans []LabeledSpan) string {
	src := []rune(text)
	marks := make([]rune, len(src)+1)
	for i := range marks {
		marks[i] = ' '
		if i < len(src) && src[i] == '\t' {
			marks[i] = '\t'
		}
	}

	mark := func(span Span, ch rune) {
		start := max(0, span.Column-1)
		end := min(len(marks), start+max(1, span.End-span.Start))
		for i := start; i < end; i++ {
			if marks[i] != '^' && marks[i] != '~' {
				marks[i] = ch
			}
		}
	}
	for _, style := range []SpanStyle{StylePrimary, StyleSecondary} {
		for _, span := range spans {
			if span.Style != style {
				continue
			}
			ch := '^'
			if style == StyleSecondary {
				ch = '~'
			}
			mark(span.Span, ch)
		}
	}

	var labels []string
	for _, span := range spans {
		if span.Label != "" {
			labels = append(labels, span.Label)
		}
	}

	out := strings.TrimRight(string(marks), " \t")
	if len(labels) > 0 {
		out += " " + strings.Join(labels, "; ")
	}
	return out
}

func (f *Formatter) printNotes(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.out, "  = note: %s\n", note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.out, "  = help: %s\n", d.Help)
	}
}

// formatSimple formats a diagnostic without source code.
func (f *Formatter) formatSimple(d Diagnostic) {
	f.printHeader(d)
	if d.Span.IsValid() {
		fmt.Fprintf(f.out, "  --> %s\n", d.Span.String())
	}
	f.printNotes(d)
}
