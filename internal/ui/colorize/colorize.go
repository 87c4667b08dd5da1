// Package colorize highlights COSMAC listings for the terminal.
package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Disabled reports whether COSDIS_NO_COLOR is set.
func Disabled() bool {
	return os.Getenv("COSDIS_NO_COLOR") != ""
}

// getAssemblyLexer returns an assembly lexer with fallbacks. nasm handles
// ';' comments the way the listing writes them.
func getAssemblyLexer() chroma.Lexer {
	for _, name := range []string{"nasm", "gas"} {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

func getListingStyle() *chroma.Style {
	_ = CosmacDark // Force registration
	for _, name := range []string{"cosmac-dark", "dracula", "monokai"} {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

func getTerminalFormatter() chroma.Formatter {
	for _, name := range []string{"terminal16m", "terminal256"} {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// ColorizeAssembly highlights a block of assembler text.
func ColorizeAssembly(code string) (string, error) {
	if Disabled() {
		return code, nil
	}

	lexer := getAssemblyLexer()
	if lexer == nil {
		return code, nil
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code, err
	}

	var buf strings.Builder
	if err := getTerminalFormatter().Format(&buf, getListingStyle(), iterator); err != nil {
		return code, err
	}
	return buf.String(), nil
}

// ColorizeInstructionLine colors one listing line of the form
// "ADDR  BYTES  TEXT ; notes". The address is gray and the rest goes
// through chroma.
func ColorizeInstructionLine(line string) string {
	if Disabled() {
		return line
	}

	addr, rest, ok := strings.Cut(line, " ")
	if !ok || !isHexWord(addr) {
		return colorizeFullLine(line)
	}

	return fmt.Sprintf("\033[38;2;79;79;79m%s\033[0m %s", addr, colorizeFullLine(rest))
}

func isHexWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isHexChar(s[i]) {
			return false
		}
	}
	return true
}

// isHexChar checks if a character is a hexadecimal digit
func isHexChar(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func colorizeFullLine(line string) string {
	out, err := ColorizeAssembly(line)
	if err != nil {
		return line
	}
	// lexers append a newline; a single line must stay single
	return strings.ReplaceAll(out, "\n", "")
}

// StripANSI removes ANSI escape sequences.
func StripANSI(s string) string {
	var result strings.Builder
	inEscape := false

	for _, r := range s {
		if r == '\x1b' {
			inEscape = true
		} else if inEscape {
			if r == 'm' {
				inEscape = false
			}
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}
