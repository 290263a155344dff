package lsp

import (
	"encoding/json"
)

// DefinitionParams represents definition request parameters.
type DefinitionParams struct {
	TextDocumentPositionParams
}

// Location represents a location in a document.
type Location struct {
	URI   string `json:"uri"`
	Range Range  `json:"range"`
}

func (s *Server) handleDefinition(msg *jsonrpcMessage) *jsonrpcMessage {
	var params DefinitionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return errorReply(msg.ID, codeInvalidParams, "Invalid params: %v", err)
	}

	doc, ok := s.document(params.TextDocumentPositionParams)
	if !ok {
		return reply(msg.ID, nil)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	location := findDefinition(doc, params.Position)
	if location == nil {
		return reply(msg.ID, nil)
	}
	return reply(msg.ID, location)
}

// findDefinition locates the binding of the identifier under pos. Every
// name is file-local, so the result is always in doc.
func findDefinition(doc *Document, pos Position) *Location {
	ident := identAt(doc.Program, offsetAt(doc.Content, pos))
	if ident == nil {
		return nil
	}

	def, _ := resolve(doc.Program, ident)
	if def == nil {
		return nil
	}

	span := def.Span()
	return &Location{
		URI: doc.URI,
		Range: Range{
			Start: positionAt(doc.Content, span.Start),
			End:   positionAt(doc.Content, span.End),
		},
	}
}
