package tui

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// SanitizeTitle makes a string safe for rendering in a single-line title,
// stripping terminal escape sequences and replacing control characters,
// including newlines, with spaces.
func SanitizeTitle(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, ansi.Strip(s))
}
