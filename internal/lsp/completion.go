package lsp

import (
	"encoding/json"
	"strings"
	"unicode"

	"github.com/snowflake-lang/snowflake/internal/ast"
)

// CompletionParams represents completion request parameters.
type CompletionParams struct {
	TextDocumentPositionParams
	Context *CompletionContext `json:"context,omitempty"`
}

type CompletionContext struct {
	TriggerKind      int    `json:"triggerKind"`
	TriggerCharacter string `json:"triggerCharacter,omitempty"`
}

// CompletionList represents a list of completion items.
type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// CompletionItem represents a completion item.
type CompletionItem struct {
	Label  string `json:"label"`
	Kind   int    `json:"kind,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// Completion item kinds
const (
	CompletionItemKindFunction = 3
	CompletionItemKindVariable = 6
	CompletionItemKindKeyword  = 14
	CompletionItemKindStruct   = 22
)

var keywords = []string{"in", "let", "match", "tag"}

func (s *Server) handleCompletion(msg *jsonrpcMessage) *jsonrpcMessage {
	var params CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return errorReply(msg.ID, codeInvalidParams, "Invalid params: %v", err)
	}

	s.mu.RLock()
	doc, ok := s.Documents[params.TextDocument.URI]
	var items []CompletionItem
	if ok {
		items = getCompletions(doc, params.Position)
	}
	s.mu.RUnlock()

	if items == nil {
		items = []CompletionItem{}
	}
	return reply(msg.ID, CompletionList{Items: items})
}

// getCompletions offers keywords, top-level declarations, and the arguments
// and bindings visible at pos, filtered by the word being typed. Top-level
// names come from the last clean parse even when the text has moved on.
func getCompletions(doc *Document, pos Position) []CompletionItem {
	offset := offsetAt(doc.Content, pos)
	prefix := wordBefore(doc.Content, offset)

	seen := make(map[string]bool)
	var items []CompletionItem
	add := func(item CompletionItem) {
		if seen[item.Label] || !strings.HasPrefix(item.Label, prefix) {
			return
		}
		seen[item.Label] = true
		items = append(items, item)
	}

	// Local names come first and shadow top-level ones with the same label.
	// They need the tree's spans to match the text, unlike top-level names.
	if fn := enclosingFn(doc.Program, offset); fn != nil && doc.current() {
		bindings := bindingsBefore(fn, offset)
		for i := len(bindings) - 1; i >= 0; i-- {
			add(CompletionItem{Label: bindings[i].Name, Kind: CompletionItemKindVariable, Detail: "binding"})
		}
		for _, arg := range fn.Args {
			add(CompletionItem{Label: arg.Name, Kind: CompletionItemKindVariable, Detail: "argument of " + fn.Name.Name})
		}
	}

	for _, stmt := range doc.Program {
		switch d := stmt.(type) {
		case *ast.FnDecl:
			add(CompletionItem{Label: d.Name.Name, Kind: CompletionItemKindFunction, Detail: "function"})
		case *ast.TypeDecl:
			add(CompletionItem{Label: d.Name.Name, Kind: CompletionItemKindStruct, Detail: ast.Sexpr(d.Body)})
		}
	}

	for _, kw := range keywords {
		add(CompletionItem{Label: kw, Kind: CompletionItemKindKeyword})
	}

	return items
}

// wordBefore returns the identifier characters immediately before offset.
func wordBefore(content string, offset int) string {
	runes := []rune(content)
	if offset > len(runes) {
		offset = len(runes)
	}
	start := offset
	for start > 0 {
		r := runes[start-1]
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		start--
	}
	return string(runes[start:offset])
}
