package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/snowflake-lang/snowflake/internal/ast"
	"github.com/snowflake-lang/snowflake/internal/diag"
	"github.com/snowflake-lang/snowflake/internal/parser"
)

const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Server is a language server speaking JSON-RPC over a Content-Length framed
// stream. It reparses a document on every change and publishes the first
// syntax error as a diagnostic.
type Server struct {
	// Documents tracks open files by URI
	Documents map[string]*Document
	mu        sync.RWMutex

	in    io.Reader
	out   io.Writer
	outMu sync.Mutex

	logger   *slog.Logger
	maxDepth int
	version  string

	// Root path for workspace
	rootPath string
}

// Document represents an open document.
type Document struct {
	URI     string
	Content string
	Version int
	// Program is the last tree that parsed cleanly and Source the text it
	// was parsed from. Both survive edits that break the syntax, so
	// completion can still offer top-level names while typing.
	Program []ast.Statement
	Source  string
	Errors  []diag.Diagnostic
}

// Option configures a Server.
type Option func(*Server)

// WithIO sets the streams the server reads requests from and writes to.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Server) {
		s.in = in
		s.out = out
	}
}

// WithLogger routes server and parser logging to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxDepth sets the parser nesting limit used for every document.
func WithMaxDepth(depth int) Option {
	return func(s *Server) { s.maxDepth = depth }
}

// WithVersion sets the version reported in the initialize response.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// NewServer creates a new LSP server on stdin and stdout.
func NewServer(opts ...Option) *Server {
	s := &Server{
		Documents: make(map[string]*Document),
		in:        os.Stdin,
		out:       os.Stdout,
		logger:    slog.Default(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves requests until the input ends, the client sends exit, or ctx is
// cancelled. Frames are read on a separate goroutine so cancellation is seen
// while the client is idle; that goroutine may stay blocked on the input
// after Run returns.
func (s *Server) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames := make(chan inbound)
	go func() {
		reader := bufio.NewReader(s.in)
		for {
			body, err := readFrame(reader)
			select {
			case frames <- inbound{body: body, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		var in inbound
		select {
		case <-ctx.Done():
			s.logger.Debug("server stopping", "reason", ctx.Err())
			return ctx.Err()
		case in = <-frames:
		}

		if in.err != nil {
			if errors.Is(in.err, io.EOF) {
				return nil
			}
			return in.err
		}

		var msg jsonrpcMessage
		if err := json.Unmarshal(in.body, &msg); err != nil {
			s.logger.Warn("malformed message", "error", err)
			if err := s.send(errorReply(nil, codeParseError, "Parse error: %v", err)); err != nil {
				return err
			}
			continue
		}

		if msg.Method == "exit" {
			s.logger.Debug("exit requested")
			return nil
		}

		if response := s.handleMessage(ctx, &msg); response != nil {
			if err := s.send(response); err != nil {
				s.logger.Error("sending response failed", "method", msg.Method, "error", err)
			}
		}
	}
}

type inbound struct {
	body []byte
	err  error
}

// maxContentLength bounds a single message body.
const maxContentLength = 64 << 20

// readFrame reads one header block and the body it announces.
func readFrame(reader *bufio.Reader) ([]byte, error) {
	contentLength := -1
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) && line == "" {
				return nil, io.EOF
			}
			return nil, errors.Wrap(err, "reading header")
		}

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			if contentLength < 0 {
				continue
			}
			break
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n < 0 {
			return nil, errors.Errorf("invalid Content-Length %q", value)
		}
		if n > maxContentLength {
			return nil, errors.Errorf("Content-Length %d exceeds the %d byte limit", n, maxContentLength)
		}
		contentLength = n
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(reader, body); err != nil {
		return nil, errors.Wrap(err, "reading message body")
	}
	return body, nil
}

// jsonrpcMessage represents a JSON-RPC 2.0 message.
type jsonrpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// reply builds a successful response. A nil result is sent as JSON null.
func reply(id interface{}, result interface{}) *jsonrpcMessage {
	data, err := json.Marshal(result)
	if err != nil {
		return errorReply(id, codeInvalidParams, "Unencodable result: %v", err)
	}
	return &jsonrpcMessage{JSONRPC: "2.0", ID: id, Result: data}
}

func errorReply(id interface{}, code int, format string, args ...interface{}) *jsonrpcMessage {
	return &jsonrpcMessage{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &jsonrpcError{Code: code, Message: fmt.Sprintf(format, args...)},
	}
}

func notification(method string, params interface{}) (*jsonrpcMessage, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s", method)
	}
	return &jsonrpcMessage{JSONRPC: "2.0", Method: method, Params: data}, nil
}

// handleMessage processes a JSON-RPC message and returns a response.
func (s *Server) handleMessage(ctx context.Context, msg *jsonrpcMessage) *jsonrpcMessage {
	s.logger.Debug("request", "method", msg.Method, "id", msg.ID)

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "textDocument/didOpen":
		s.handleDidOpen(msg)
		return nil
	case "textDocument/didChange":
		s.handleDidChange(msg)
		return nil
	case "textDocument/didClose":
		s.handleDidClose(msg)
		return nil
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	case "textDocument/definition":
		return s.handleDefinition(msg)
	case "shutdown":
		return reply(msg.ID, nil)
	default:
		if msg.ID != nil {
			return errorReply(msg.ID, codeMethodNotFound, "Method not found: %s", msg.Method)
		}
		return nil
	}
}

// send writes one framed message. Responses and notifications may be sent
// from different handlers, so writes are serialized.
func (s *Server) send(msg *jsonrpcMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "encoding message")
	}

	s.outMu.Lock()
	defer s.outMu.Unlock()

	if _, err := fmt.Fprintf(s.out, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return errors.Wrap(err, "writing header")
	}
	if _, err := s.out.Write(data); err != nil {
		return errors.Wrap(err, "writing body")
	}
	return nil
}

// InitializeParams represents the initialize request parameters.
type InitializeParams struct {
	ProcessID    int                    `json:"processId,omitempty"`
	RootPath     string                 `json:"rootPath,omitempty"`
	RootURI      string                 `json:"rootUri,omitempty"`
	Capabilities map[string]interface{} `json:"capabilities,omitempty"`
}

// InitializeResult represents the initialize response.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

type ServerCapabilities struct {
	TextDocumentSync   int                    `json:"textDocumentSync"`
	CompletionProvider map[string]interface{} `json:"completionProvider,omitempty"`
	HoverProvider      bool                   `json:"hoverProvider"`
	DefinitionProvider bool                   `json:"definitionProvider"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (s *Server) handleInitialize(msg *jsonrpcMessage) *jsonrpcMessage {
	var params InitializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return errorReply(msg.ID, codeInvalidParams, "Invalid params: %v", err)
		}
	}

	if params.RootURI != "" {
		s.rootPath = uriToPath(params.RootURI)
	} else if params.RootPath != "" {
		s.rootPath = params.RootPath
	}
	s.logger.Info("initialized", "root", s.rootPath)

	return reply(msg.ID, InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: 1, // Full document sync
			CompletionProvider: map[string]interface{}{
				"triggerCharacters": []string{"*", "#"},
			},
			HoverProvider:      true,
			DefinitionProvider: true,
		},
		ServerInfo: ServerInfo{
			Name:    "snowflake-lsp",
			Version: s.version,
		},
	})
}

// DidOpenTextDocumentParams represents didOpen notification parameters.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

func (s *Server) handleDidOpen(msg *jsonrpcMessage) {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Warn("invalid didOpen params", "error", err)
		return
	}

	doc := &Document{
		URI:     params.TextDocument.URI,
		Content: params.TextDocument.Text,
		Version: params.TextDocument.Version,
	}
	s.updateDocument(doc)

	s.mu.Lock()
	s.Documents[doc.URI] = doc
	s.mu.Unlock()

	s.publishDiagnostics(doc)
}

// DidChangeTextDocumentParams represents didChange notification parameters.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

func (s *Server) handleDidChange(msg *jsonrpcMessage) {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Warn("invalid didChange params", "error", err)
		return
	}
	if len(params.ContentChanges) == 0 {
		return
	}

	s.mu.Lock()
	doc, ok := s.Documents[params.TextDocument.URI]
	if !ok {
		s.mu.Unlock()
		return
	}
	// Full sync: the last change holds the whole text.
	doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
	doc.Version = params.TextDocument.Version
	s.updateDocument(doc)
	s.mu.Unlock()

	s.publishDiagnostics(doc)
}

func (s *Server) handleDidClose(msg *jsonrpcMessage) {
	var params struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Warn("invalid didClose params", "error", err)
		return
	}

	s.mu.Lock()
	delete(s.Documents, params.TextDocument.URI)
	s.mu.Unlock()
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

// TextDocumentPositionParams identifies a position in an open document.
type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

// current reports whether Program describes Content, so offsets into the
// text match the tree's spans.
func (d *Document) current() bool {
	return d.Program != nil && d.Source == d.Content
}

// document returns the open document for a position request, provided its
// tree matches its text.
func (s *Server) document(params TextDocumentPositionParams) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.Documents[params.TextDocument.URI]
	if !ok || !doc.current() {
		return nil, false
	}
	return doc, true
}

// updateDocument reparses doc. Errors are recorded and the previous tree is
// kept.
func (s *Server) updateDocument(doc *Document) {
	path := uriToPath(doc.URI)

	opts := []parser.Option{parser.WithFilename(path), parser.WithLogger(s.logger)}
	if s.maxDepth > 0 {
		opts = append(opts, parser.WithMaxDepth(s.maxDepth))
	}

	stmts, err := parser.ParseSource(doc.Content, opts...)
	if err != nil {
		d, ok := parser.Diagnostic(err)
		if !ok {
			d = diag.Diagnostic{
				Stage:    diag.StageParser,
				Severity: diag.SeverityError,
				Message:  err.Error(),
			}
		}
		doc.Errors = []diag.Diagnostic{d}
		s.logger.Debug("document has errors", "uri", doc.URI, "version", doc.Version, "error", err)
		return
	}

	doc.Program = stmts
	doc.Source = doc.Content
	doc.Errors = nil
	s.logger.Debug("document parsed", "uri", doc.URI, "version", doc.Version, "statements", len(stmts))
}

// PublishDiagnosticsParams is the payload of textDocument/publishDiagnostics.
type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Version     int          `json:"version"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// publishDiagnostics sends diagnostics to the client.
func (s *Server) publishDiagnostics(doc *Document) {
	s.mu.RLock()
	params := PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     doc.Version,
		Diagnostics: make([]Diagnostic, 0, len(doc.Errors)),
	}
	for _, d := range doc.Errors {
		params.Diagnostics = append(params.Diagnostics, toLSPDiagnostic(doc.Content, d))
	}
	s.mu.RUnlock()

	msg, err := notification("textDocument/publishDiagnostics", params)
	if err == nil {
		err = s.send(msg)
	}
	if err != nil {
		s.logger.Error("publishing diagnostics failed", "uri", doc.URI, "error", err)
	}
}

func toLSPDiagnostic(content string, d diag.Diagnostic) Diagnostic {
	end := d.Span.End
	if end < d.Span.Start {
		end = d.Span.Start
	}

	msg := d.Message
	if d.Help != "" {
		msg += "\nhelp: " + d.Help
	}

	return Diagnostic{
		Range: Range{
			Start: positionAt(content, d.Span.Start),
			End:   positionAt(content, end),
		},
		Severity: diagnosticSeverity(d.Severity),
		Message:  msg,
		Code:     string(d.Code),
		Source:   "snowflake",
	}
}

// Diagnostic represents an LSP diagnostic.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Code     string `json:"code,omitempty"`
	Source   string `json:"source,omitempty"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

func diagnosticSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SeverityError:
		return 1 // Error
	case diag.SeverityWarning:
		return 2 // Warning
	case diag.SeverityNote:
		return 3 // Information
	default:
		return 1
	}
}

// uriToPath converts a file:// URI to a file path.
func uriToPath(uri string) string {
	if path, ok := strings.CutPrefix(uri, "file://"); ok {
		// Handle Windows paths
		if len(path) > 2 && path[0] == '/' && path[2] == ':' {
			path = path[1:]
		}
		return path
	}
	return uri
}
