package cosmac

import (
	"errors"
	"fmt"
	"strings"
)

// Variant selects the processor generation whose opcode set is decoded.
type Variant int

const (
	// CDP1801 is the original two-chip COSMAC and anything earlier.
	CDP1801 Variant = iota
	// CDP1802 adds Q branches, long branches and skips, and the
	// arithmetic-with-carry group.
	CDP1802
	// CDP1805 covers the CDP1805 and CDP1806, which add the 0x68
	// extended instruction page.
	CDP1805

	numVariants
)

// ErrUnknownVariant is returned by ParseVariant for names it does not know.
var ErrUnknownVariant = errors.New("unknown COSMAC variant")

func (v Variant) String() string {
	switch v {
	case CDP1801:
		return "CDP1801"
	case CDP1802:
		return "CDP1802"
	case CDP1805:
		return "CDP1805"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// Valid reports whether v is one of the declared variants.
func (v Variant) Valid() bool {
	return v >= CDP1801 && v < numVariants
}

// Variants lists every declared variant, oldest first.
func Variants() []Variant {
	return []Variant{CDP1801, CDP1802, CDP1805}
}

// ParseVariant maps a part number such as "1802" or "CDP1806" to a
// Variant. The CDP1804 shares the CDP1802 instruction set.
func ParseVariant(s string) (Variant, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "cdp")
	switch name {
	case "1801":
		return CDP1801, nil
	case "1802", "1804":
		return CDP1802, nil
	case "1805", "1806":
		return CDP1805, nil
	}
	return CDP1801, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}
