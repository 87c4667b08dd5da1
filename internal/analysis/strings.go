package analysis

import (
	"fmt"
	"strings"
)

// EscapeUnprintable renders b as ASCII, escaping everything outside the
// printable range as \xXX.
func EscapeUnprintable(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c >= 0x20 && c < 0x7f && c != '"' && c != '\\' {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, "\\x%02X", c)
		}
	}
	return sb.String()
}

// printableRatio returns the share of bytes in b that are printable ASCII.
func printableRatio(b []byte) float64 {
	if len(b) == 0 {
		return 0
	}
	n := 0
	for _, c := range b {
		if c >= 0x20 && c < 0x7f {
			n++
		}
	}
	return float64(n) / float64(len(b))
}
