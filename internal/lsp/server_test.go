package lsp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

const testURI = "file:///work/main.sf"

const testSource = `Num :: Nat -> Nat
add a b => a + b
main x => let y = add x 1 in y
`

func frame(t *testing.T, id interface{}, method string, params interface{}) string {
	t.Helper()

	msg := map[string]interface{}{"jsonrpc": "2.0", "method": method}
	if id != nil {
		msg["id"] = id
	}
	if params != nil {
		msg["params"] = params
	}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("encoding %s: %v", method, err)
	}
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(data), data)
}

func openDoc(t *testing.T, text string) string {
	return frame(t, nil, "textDocument/didOpen", map[string]interface{}{
		"textDocument": map[string]interface{}{
			"uri": testURI, "languageId": "snowflake", "version": 1, "text": text,
		},
	})
}

func changeDoc(t *testing.T, version int, text string) string {
	return frame(t, nil, "textDocument/didChange", map[string]interface{}{
		"textDocument":   map[string]interface{}{"uri": testURI, "version": version},
		"contentChanges": []map[string]interface{}{{"text": text}},
	})
}

func at(t *testing.T, id int, method string, line, char int) string {
	return frame(t, id, method, map[string]interface{}{
		"textDocument": map[string]interface{}{"uri": testURI},
		"position":     map[string]interface{}{"line": line, "character": char},
	})
}

// session runs a server over the given frames and returns everything it wrote.
func session(t *testing.T, frames ...string) (*Server, []jsonrpcMessage) {
	t.Helper()

	var out bytes.Buffer
	s := NewServer(
		WithIO(strings.NewReader(strings.Join(frames, "")), &out),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithVersion("test"),
	)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("unexpected run error: %v", err)
	}

	var msgs []jsonrpcMessage
	reader := bufio.NewReader(&out)
	for {
		body, err := readFrame(reader)
		if errors.Is(err, io.EOF) {
			return s, msgs
		}
		if err != nil {
			t.Fatalf("reading server output: %v", err)
		}
		var msg jsonrpcMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			t.Fatalf("decoding server output %q: %v", body, err)
		}
		msgs = append(msgs, msg)
	}
}

func response(t *testing.T, msgs []jsonrpcMessage, id int, result interface{}) {
	t.Helper()

	for _, msg := range msgs {
		if msg.Method != "" || msg.ID != float64(id) {
			continue
		}
		if msg.Error != nil {
			t.Fatalf("request %d failed: %d %s", id, msg.Error.Code, msg.Error.Message)
		}
		if result != nil {
			if err := json.Unmarshal(msg.Result, result); err != nil {
				t.Fatalf("decoding result of %d: %v", id, err)
			}
		}
		return
	}
	t.Fatalf("no response to request %d", id)
}

func diagnostics(t *testing.T, msgs []jsonrpcMessage) []PublishDiagnosticsParams {
	t.Helper()

	var all []PublishDiagnosticsParams
	for _, msg := range msgs {
		if msg.Method != "textDocument/publishDiagnostics" {
			continue
		}
		var params PublishDiagnosticsParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			t.Fatalf("decoding diagnostics: %v", err)
		}
		all = append(all, params)
	}
	return all
}

func TestInitialize(t *testing.T) {
	_, msgs := session(t, frame(t, 1, "initialize", map[string]interface{}{"rootUri": "file:///work"}))

	var result InitializeResult
	response(t, msgs, 1, &result)

	if result.ServerInfo.Name != "snowflake-lsp" || result.ServerInfo.Version != "test" {
		t.Fatalf("unexpected server info %+v", result.ServerInfo)
	}
	if !result.Capabilities.HoverProvider || !result.Capabilities.DefinitionProvider {
		t.Fatalf("expected hover and definition support, got %+v", result.Capabilities)
	}
	if result.Capabilities.TextDocumentSync != 1 {
		t.Fatalf("expected full document sync, got %d", result.Capabilities.TextDocumentSync)
	}
}

func TestDiagnosticsFollowEdits(t *testing.T) {
	s, msgs := session(t,
		openDoc(t, "f + 1\n"),
		changeDoc(t, 2, testSource),
	)

	published := diagnostics(t, msgs)
	if len(published) != 2 {
		t.Fatalf("expected 2 diagnostic notifications, got %d", len(published))
	}

	first := published[0]
	if first.URI != testURI || first.Version != 1 || len(first.Diagnostics) != 1 {
		t.Fatalf("unexpected first notification %+v", first)
	}
	d := first.Diagnostics[0]
	if !strings.Contains(d.Message, "expected identifier, `::` or `=>`, found `+`") {
		t.Fatalf("unexpected message %q", d.Message)
	}
	if d.Range.Start != (Position{Line: 0, Character: 2}) {
		t.Fatalf("expected error at 0:2, got %+v", d.Range.Start)
	}
	if d.Severity != 1 || d.Source != "snowflake" || d.Code == "" {
		t.Fatalf("unexpected diagnostic metadata %+v", d)
	}

	second := published[1]
	if second.Version != 2 || second.Diagnostics == nil || len(second.Diagnostics) != 0 {
		t.Fatalf("expected an empty diagnostic list for version 2, got %+v", second)
	}

	doc := s.Documents[testURI]
	if doc == nil || len(doc.Program) != 3 {
		t.Fatalf("expected the fixed document to hold 3 statements")
	}
}

func TestBrokenEditKeepsLastTree(t *testing.T) {
	s, msgs := session(t,
		openDoc(t, testSource),
		changeDoc(t, 2, testSource+"oops +\n"),
		at(t, 1, "textDocument/hover", 1, 13),
		at(t, 2, "textDocument/definition", 2, 29),
		at(t, 3, "textDocument/completion", 2, 9),
	)

	doc := s.Documents[testURI]
	if len(doc.Errors) != 1 {
		t.Fatalf("expected one error, got %v", doc.Errors)
	}
	if len(doc.Program) != 3 || doc.Source != testSource {
		t.Fatalf("expected the previous tree and its text to survive, got %d statements", len(doc.Program))
	}

	// Spans of the old tree no longer describe the text.
	nulls := 0
	for _, msg := range msgs {
		if msg.ID == float64(1) || msg.ID == float64(2) {
			if string(msg.Result) != "null" {
				t.Fatalf("expected null for request %v on a stale tree, got %s", msg.ID, msg.Result)
			}
			nulls++
		}
	}
	if nulls != 2 {
		t.Fatalf("expected replies to hover and definition, got %d", nulls)
	}

	var list CompletionList
	response(t, msgs, 3, &list)
	if got := strings.Join(labels(list.Items), " "); got != "Num add main in let match tag" {
		t.Fatalf("expected top-level names and keywords only, got %q", got)
	}
}

func TestDidCloseForgetsDocument(t *testing.T) {
	s, _ := session(t,
		openDoc(t, testSource),
		frame(t, nil, "textDocument/didClose", map[string]interface{}{
			"textDocument": map[string]interface{}{"uri": testURI},
		}),
	)
	if _, ok := s.Documents[testURI]; ok {
		t.Fatalf("expected the document to be closed")
	}
}

func TestDefinition(t *testing.T) {
	tests := []struct {
		name string
		line int
		char int
		want Range
	}{
		{"let binding", 2, 29, Range{Position{2, 14}, Position{2, 15}}},
		{"function argument", 2, 22, Range{Position{2, 5}, Position{2, 6}}},
		{"top-level function", 2, 19, Range{Position{1, 0}, Position{1, 3}}},
		{"argument in body", 1, 11, Range{Position{1, 4}, Position{1, 5}}},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, msgs := session(t, openDoc(t, testSource), at(t, i+1, "textDocument/definition", tt.line, tt.char))

			var loc Location
			response(t, msgs, i+1, &loc)
			if loc.URI != testURI {
				t.Fatalf("expected %s, got %s", testURI, loc.URI)
			}
			if loc.Range != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, loc.Range)
			}
		})
	}
}

func TestDefinitionOutsideIdentifierIsNull(t *testing.T) {
	_, msgs := session(t, openDoc(t, testSource), at(t, 7, "textDocument/definition", 1, 13))

	for _, msg := range msgs {
		if msg.ID == float64(7) {
			if string(msg.Result) != "null" {
				t.Fatalf("expected null result, got %s", msg.Result)
			}
			return
		}
	}
	t.Fatalf("no response")
}

func TestHover(t *testing.T) {
	tests := []struct {
		name string
		line int
		char int
		want string
	}{
		{"function reference", 2, 19, "**function** `add a b`"},
		{"argument", 1, 15, "**argument** `b` of `add`"},
		{"binding", 2, 29, "**binding** `y` (line 3)"},
		{"type name", 0, 1, "**type** `Num`"},
		{"operator", 1, 13, "**OpCall**"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, msgs := session(t, openDoc(t, testSource), at(t, i+1, "textDocument/hover", tt.line, tt.char))

			var hover Hover
			response(t, msgs, i+1, &hover)
			if !strings.HasPrefix(hover.Contents.Value, tt.want) {
				t.Fatalf("expected hover starting with %q, got %q", tt.want, hover.Contents.Value)
			}
			if hover.Contents.Kind != "markdown" || hover.Range == nil {
				t.Fatalf("expected markdown with a range, got %+v", hover)
			}
		})
	}
}

func TestHoverShowsTree(t *testing.T) {
	_, msgs := session(t, openDoc(t, testSource), at(t, 1, "textDocument/hover", 1, 13))

	var hover Hover
	response(t, msgs, 1, &hover)
	if !strings.Contains(hover.Contents.Value, "(+ a b)") {
		t.Fatalf("expected the operator tree, got %q", hover.Contents.Value)
	}
	want := Range{Position{1, 11}, Position{1, 16}}
	if *hover.Range != want {
		t.Fatalf("expected range %+v, got %+v", want, *hover.Range)
	}
}

func labels(items []CompletionItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Label
	}
	return out
}

func TestCompletion(t *testing.T) {
	tests := []struct {
		name string
		line int
		char int
		want string
	}{
		{"everything in scope", 2, 9, "x Num add main in let match tag"},
		{"prefix", 2, 19, "add"},
		{"binding", 2, 30, "y"},
		{"keyword prefix", 2, 11, "let"},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, msgs := session(t, openDoc(t, testSource), at(t, i+1, "textDocument/completion", tt.line, tt.char))

			var list CompletionList
			response(t, msgs, i+1, &list)
			if got := strings.Join(labels(list.Items), " "); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestUnknownMethod(t *testing.T) {
	_, msgs := session(t,
		frame(t, 3, "workspace/symbol", map[string]interface{}{}),
		frame(t, nil, "$/cancelRequest", map[string]interface{}{"id": 3}),
	)

	if len(msgs) != 1 {
		t.Fatalf("expected only the request to be answered, got %d messages", len(msgs))
	}
	if msgs[0].Error == nil || msgs[0].Error.Code != codeMethodNotFound {
		t.Fatalf("expected method not found, got %+v", msgs[0])
	}
}

func TestShutdownAndExit(t *testing.T) {
	_, msgs := session(t,
		frame(t, 1, "shutdown", nil),
		frame(t, nil, "exit", nil),
		frame(t, 2, "initialize", map[string]interface{}{}),
	)

	if len(msgs) != 1 {
		t.Fatalf("expected nothing after exit, got %d messages", len(msgs))
	}
	if string(msgs[0].Result) != "null" {
		t.Fatalf("expected a null shutdown result, got %s", msgs[0].Result)
	}
}

func TestMalformedMessage(t *testing.T) {
	_, msgs := session(t, "Content-Length: 5\r\n\r\n{oops")

	if len(msgs) != 1 || msgs[0].Error == nil || msgs[0].Error.Code != codeParseError {
		t.Fatalf("expected a parse error reply, got %+v", msgs)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewServer(WithIO(strings.NewReader(""), io.Discard))
	if err := s.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestUriToPath(t *testing.T) {
	tests := map[string]string{
		"file:///home/a/main.sf": "/home/a/main.sf",
		"file:///C:/src/main.sf": "C:/src/main.sf",
		"untitled:Untitled-1":    "untitled:Untitled-1",
	}
	for uri, want := range tests {
		if got := uriToPath(uri); got != want {
			t.Fatalf("%s: expected %s, got %s", uri, want, got)
		}
	}
}

func TestRunStopsWhenCancelledWhileIdle(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	defer inW.Close()

	s := NewServer(
		WithIO(inR, outW),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// One round trip shows the server is up and now waiting on open input.
	shutdown := frame(t, 1, "shutdown", nil)
	go func() { _, _ = io.WriteString(inW, shutdown) }()
	if _, err := readFrame(bufio.NewReader(outR)); err != nil {
		t.Fatalf("reading shutdown reply: %v", err)
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server did not stop after cancellation")
	}
}

func TestReadFrameRejectsOversizedBody(t *testing.T) {
	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", maxContentLength+1)
	_, err := readFrame(bufio.NewReader(strings.NewReader(header)))
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Fatalf("expected a size limit error, got %v", err)
	}

	_, err = readFrame(bufio.NewReader(strings.NewReader("Content-Length: 99999999999999999999\r\n\r\n")))
	if err == nil {
		t.Fatalf("expected an error for an unparsable length")
	}
}
