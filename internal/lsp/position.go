package lsp

// Spans count runes from the start of the document. LSP positions count
// UTF-16 code units within a line, so both directions walk the text.

// positionAt converts a rune offset into an LSP position. Offsets past the
// end clamp to the end of the document.
func positionAt(content string, offset int) Position {
	runes := []rune(content)
	if offset > len(runes) {
		offset = len(runes)
	}

	var pos Position
	for i := 0; i < offset; i++ {
		switch r := runes[i]; {
		case r == '\r' && i+1 < len(runes) && runes[i+1] == '\n':
			// The '\n' of the pair starts the next line.
		case r == '\n' || r == '\r':
			pos.Line++
			pos.Character = 0
		default:
			pos.Character += utf16RuneLen(r)
		}
	}
	return pos
}

// offsetAt converts an LSP position into a rune offset. A character past the
// end of its line clamps to the line end; a line past the end of the document
// clamps to the document end.
func offsetAt(content string, pos Position) int {
	runes := []rune(content)

	line, units := 0, 0
	for i, r := range runes {
		lineEnd := r == '\n' || (r == '\r' && (i+1 == len(runes) || runes[i+1] != '\n'))
		if line == pos.Line {
			if units >= pos.Character || r == '\n' || r == '\r' {
				return i
			}
			units += utf16RuneLen(r)
			continue
		}
		if lineEnd {
			line++
		}
	}
	return len(runes)
}
