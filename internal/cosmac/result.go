package cosmac

// Flow classifies an instruction for a caller implementing stepping.
type Flow uint8

const (
	FlowNone Flow = iota
	// FlowStepOver marks SEP Rn, the idiomatic COSMAC subroutine call.
	FlowStepOver
	// FlowStepOut marks RET and DIS.
	FlowStepOut
)

func (f Flow) String() string {
	switch f {
	case FlowStepOver:
		return "step-over"
	case FlowStepOut:
		return "step-out"
	}
	return "none"
}

// Bits of the packed result word, laid out like a MAME disassembler
// return value: the low 16 bits hold the length.
const (
	PackedLengthMask uint32 = 0x0000ffff
	PackedStepOver   uint32 = 0x00010000
	PackedStepOut    uint32 = 0x00020000
	PackedSupported  uint32 = 0x80000000
)

// Result describes one decoded instruction.
type Result struct {
	// Length is the number of bytes consumed including the opcode, 1 to 3.
	Length uint16
	Flow   Flow
	// Supported is always true; undefined opcodes decode as "illegal".
	Supported bool
}

// Packed returns r as a single word using the Packed* bit layout.
func (r Result) Packed() uint32 {
	p := uint32(r.Length) & PackedLengthMask
	switch r.Flow {
	case FlowStepOver:
		p |= PackedStepOver
	case FlowStepOut:
		p |= PackedStepOut
	}
	if r.Supported {
		p |= PackedSupported
	}
	return p
}
