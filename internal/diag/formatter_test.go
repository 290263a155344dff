package diag_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/snowflake-lang/snowflake/internal/diag"
)

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()

	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("expected output to contain %q, got\n%s", w, out)
		}
	}
}

func TestFormatterPrintsSnippet(t *testing.T) {
	const src = "f =>\n  a + f b\n"

	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	f.AddSource("m.sf", src)

	span := diag.Span{Filename: "m.sf", Line: 2, Column: 9, Start: 13, End: 14}
	d := diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Code:     diag.CodeParseUnexpectedToken,
		Message:  "expected line terminator, found identifier `b`",
		Span:     span,
	}.WithPrimarySpan(span, "").WithNote("expected one of a or b").WithHelp("wrap it")

	f.Format(d)

	assertContains(t, buf.String(),
		"error[PARSE_UNEXPECTED_TOKEN]: expected line terminator, found identifier `b`\n",
		"  --> m.sf:2:9\n",
		" 1 | f =>\n",
		" 2 |   a + f b\n",
		"   |         ^\n",
		"  = note: expected one of a or b\n",
		"  = help: wrap it\n",
	)
}

func TestFormatterSecondarySpan(t *testing.T) {
	const src = "g =>\n  x\n  y"

	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	f.AddSource("", src)

	primary := diag.Span{Line: 3, Column: 4, Start: 12, End: 12}
	indent := diag.Span{Line: 2, Column: 1, Start: 5, End: 7}
	d := diag.Diagnostic{
		Code:    diag.CodeParseUnbalancedBlock,
		Message: "expected dedent to close indented block, found end of input",
		Span:    primary,
	}.WithPrimarySpan(primary, "").WithSecondarySpan(indent, "block opened here")

	f.Format(d)

	out := buf.String()
	assertContains(t, out,
		"error[PARSE_UNBALANCED_BLOCK]:",
		"  --> <input>:3:4\n",
		"   | ~~ block opened here\n",
		"   |    ^\n",
	)

	// The caller's spans keep their order.
	if d.LabeledSpans[0].Span != primary {
		t.Fatalf("expected primary span to stay first, got %+v", d.LabeledSpans[0])
	}
}

func TestFormatterFallsBackWithoutSource(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)

	f.Format(diag.Diagnostic{
		Severity: diag.SeverityWarning,
		Message:  "something odd",
		Span:     diag.Span{Filename: "does-not-exist.sf", Line: 1, Column: 2},
		Help:     "check the path",
	})

	want := "warning: something odd\n  --> does-not-exist.sf:1:2\n  = help: check the path\n"
	if got := buf.String(); got != want {
		t.Fatalf("expected\n%s\ngot\n%s", want, got)
	}
}

func TestLoadSourceUsesCache(t *testing.T) {
	f := diag.NewFormatter(&bytes.Buffer{})
	f.AddSource("mem.sf", "x :: Nat\n")

	src, err := f.LoadSource("mem.sf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != "x :: Nat\n" {
		t.Fatalf("unexpected source %q", src)
	}

	if _, err := f.LoadSource(""); err == nil {
		t.Fatalf("expected an error for unnamed source without cache entry")
	}
}

func TestLoadSourceWrapsMissingFile(t *testing.T) {
	f := diag.NewFormatter(&bytes.Buffer{})

	_, err := f.LoadSource("no/such/file.sf")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected a not-exist error, got %v", err)
	}
	if !strings.Contains(err.Error(), "no/such/file.sf") {
		t.Fatalf("expected the path in %q", err)
	}
}

func TestFormatterKeepsTabsUnderMarks(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	f.AddSource("t.sf", "f =>\n\t\tx y\n")

	span := diag.Span{Filename: "t.sf", Line: 2, Column: 5, Start: 9, End: 10}
	f.Format(diag.Diagnostic{Message: "unexpected", Span: span})

	assertContains(t, buf.String(), " 2 | \t\tx y\n", "   | \t\t  ^\n")
}

func TestFormatterCountsCarriageReturnLines(t *testing.T) {
	var buf bytes.Buffer
	f := diag.NewFormatter(&buf)
	f.AddSource("r.sf", "a\rb\r\nc d\n")

	span := diag.Span{Filename: "r.sf", Line: 3, Column: 3, Start: 7, End: 8}
	f.Format(diag.Diagnostic{Message: "unexpected", Span: span})

	assertContains(t, buf.String(), " 2 | b\n", " 3 | c d\n", "   |   ^\n")
}
