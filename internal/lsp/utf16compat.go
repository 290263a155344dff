package lsp

// utf16RuneLen is a verbatim backport of unicode/utf16.RuneLen (Go 1.23+)
// so the package builds on older toolchains. It returns the number of
// UTF-16 code units needed to encode r, or -1 if r is not a valid rune.
func utf16RuneLen(r rune) int {
	const (
		surr1    = 0xd800
		surr3    = 0xe000
		surrSelf = 0x10000
		maxRune  = '\U0010FFFF'
	)
	switch {
	case 0 <= r && r < surr1, surr3 <= r && r < surrSelf:
		return 1
	case surrSelf <= r && r <= maxRune:
		return 2
	default:
		return -1
	}
}
