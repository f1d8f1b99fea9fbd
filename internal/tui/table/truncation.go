package table

import (
	"github.com/leg100/go-runewidth"
)

var defaultTruncationFunc = TruncateRight

type TruncationFunc func(s string, w int, tailOrPrefix string) string

func TruncateRight(s string, w int, tail string) string {
	return runewidth.Truncate(s, w, tail)
}

func TruncateLeft(s string, w int, prefix string) string {
	return runewidth.TruncateLeft(s, w, prefix)
}
