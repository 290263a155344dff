package lsp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/snowflake-lang/snowflake/internal/ast"
)

// HoverParams represents hover request parameters.
type HoverParams struct {
	TextDocumentPositionParams
}

// Hover represents hover information.
type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

type MarkupContent struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func (s *Server) handleHover(msg *jsonrpcMessage) *jsonrpcMessage {
	var params HoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return errorReply(msg.ID, codeInvalidParams, "Invalid params: %v", err)
	}

	doc, ok := s.document(params.TextDocumentPositionParams)
	if !ok {
		return reply(msg.ID, nil)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	hover := getHover(doc, params.Position)
	if hover == nil {
		return reply(msg.ID, nil)
	}
	return reply(msg.ID, hover)
}

// getHover describes the innermost node under pos. Identifiers that resolve
// to a declaration show that declaration instead of themselves.
func getHover(doc *Document, pos Position) *Hover {
	node := innermostAt(doc.Program, offsetAt(doc.Content, pos))
	if node == nil {
		return nil
	}

	var sb strings.Builder
	if ident, ok := node.(*ast.Ident); ok {
		if def, owner := resolve(doc.Program, ident); def != nil {
			writeBinding(&sb, def, owner)
		}
	}
	if sb.Len() == 0 {
		fmt.Fprintf(&sb, "**%s**\n\n```snowflake\n%s\n```", nodeKind(node), ast.Sexpr(node))
	}

	span := node.Span()
	return &Hover{
		Contents: MarkupContent{Kind: "markdown", Value: sb.String()},
		Range: &Range{
			Start: positionAt(doc.Content, span.Start),
			End:   positionAt(doc.Content, span.End),
		},
	}
}

func writeBinding(sb *strings.Builder, def *ast.Ident, owner ast.Statement) {
	switch o := owner.(type) {
	case *ast.TypeDecl:
		if o.Name == def {
			fmt.Fprintf(sb, "**type** `%s`\n\n```snowflake\n%s\n```", def.Name, ast.Sexpr(o.Body))
			return
		}
	case *ast.FnDecl:
		if o.Name == def {
			args := make([]string, len(o.Args))
			for i, arg := range o.Args {
				args[i] = arg.Name
			}
			fmt.Fprintf(sb, "**function** `%s`", strings.TrimSpace(def.Name+" "+strings.Join(args, " ")))
			return
		}
		for _, arg := range o.Args {
			if arg == def {
				fmt.Fprintf(sb, "**argument** `%s` of `%s`", def.Name, o.Name.Name)
				return
			}
		}
		fmt.Fprintf(sb, "**binding** `%s` (line %d)", def.Name, def.Span().Line)
	}
}

// nodeKind names a node by its AST type, e.g. "FnCall".
func nodeKind(n ast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}
