package parser

import (
	"github.com/snowflake-lang/snowflake/internal/lexer"
)

type delimitedConfig struct {
	Closing   lexer.TokenType
	Separator lexer.TokenType

	AllowEmpty bool

	MissingElementMsg string
}

// parseDelimited parses `item (sep item)* closing` with the cursor on the
// first item (the opening token has already been consumed) and consumes the
// closing token. A trailing separator is never accepted.
func parseDelimited[T any](p *Parser, cfg delimitedConfig, parseItem func() (T, bool)) ([]T, bool) {
	var items []T

	if cfg.Separator == "" {
		cfg.Separator = lexer.COMMA
	}

	if cfg.Closing == "" {
		panic("parseDelimited requires a closing token")
	}

	if p.at(cfg.Closing) {
		if cfg.AllowEmpty {
			p.advance()
			return items, true
		}
		p.reportMissingElement(cfg)
		return nil, false
	}

	for {
		item, ok := parseItem()
		if !ok {
			return nil, false
		}
		items = append(items, item)

		switch p.cur().Type {
		case cfg.Separator:
			p.advance()
			if p.at(cfg.Closing) {
				p.reportMissingElement(cfg)
				return nil, false
			}
		case cfg.Closing:
			p.advance()
			return items, true
		default:
			p.reportExpected(cfg.Separator, cfg.Closing)
			return nil, false
		}
	}
}

func (p *Parser) reportMissingElement(cfg delimitedConfig) {
	msg := cfg.MissingElementMsg
	if msg == "" {
		msg = "element"
	}
	p.reportExpectedWhat(msg)
}
