// Package disasm defines the decoded-instruction record shared by the
// listing, JSON and TUI front ends.
package disasm

import "cosdis/internal/cosmac"

// Inst is one decoded instruction.
type Inst struct {
	Addr   uint16      // address of the opcode byte
	Raw    []byte      // instruction bytes as found in the image
	Text   string      // formatted disassembly, e.g. "LBR 1234"
	Op     string      // mnemonic alone, e.g. "LBR"
	Length uint16      // bytes consumed, 1 to 4
	Flow   cosmac.Flow // stepping classification
}

// Illegal reports whether the decoder had no meaning for the opcode.
func (i Inst) Illegal() bool {
	return i.Op == "illegal"
}

// Stream is a linear sequence of instructions.
type Stream []Inst
