package cosmac

import (
	"fmt"
	"io"
	"strings"
)

const illegal = "illegal"

// Decoder formats COSMAC instructions for one processor variant. It holds
// no mutable state and is safe for concurrent use.
type Decoder struct {
	variant Variant
	primary *opcodeTable
	page    *opcodeTable
}

// New returns a decoder for v. Values below CDP1801 decode as CDP1801 and
// values past the newest variant decode as CDP1805.
func New(v Variant) *Decoder {
	if v < CDP1801 {
		v = CDP1801
	}
	if v >= numVariants {
		v = numVariants - 1
	}
	return &Decoder{
		variant: v,
		primary: &primaryTables[v],
		page:    &pageTables[v],
	}
}

// Variant returns the variant the decoder was built for.
func (d *Decoder) Variant() Variant {
	return d.variant
}

// Extended reports whether the 0x68 instruction page is decoded.
func (d *Decoder) Extended() bool {
	return d.variant >= CDP1805
}

// DecodeTo formats the instruction at pc into w. Opcode bytes come from
// opcodes and operand bytes from params, which may be the same stream.
//
// Decoding itself cannot fail; the returned error is whatever w reported.
// The Result is valid even when err is non-nil.
func (d *Decoder) DecodeTo(w io.Writer, opcodes, params ByteStream, pc uint16) (Result, error) {
	c := cursor{base: pc, pc: pc, params: params}

	op := opcodes.R8(c.pc)
	c.pc++
	r := d.primary[op]
	if r != nil && r.operand == operandPage {
		op = opcodes.R8(c.pc)
		c.pc++
		r = d.page[op]
	}

	var (
		err  error
		flow Flow
	)
	if r == nil {
		_, err = io.WriteString(w, illegal)
	} else {
		err = r.format(w, op, &c)
		flow = r.flow
	}

	return Result{
		Length:    c.pc - pc,
		Flow:      flow,
		Supported: true,
	}, err
}

// Decode is DecodeTo with a single stream and an in-memory sink.
func (d *Decoder) Decode(stream ByteStream, pc uint16) (string, Result) {
	var sb strings.Builder
	res, _ := d.DecodeTo(&sb, stream, stream, pc)
	return sb.String(), res
}

// format fetches the row's operands through c and writes the text.
func (r *row) format(w io.Writer, op byte, c *cursor) error {
	var err error
	switch r.operand {
	case operandRegister:
		_, err = fmt.Fprintf(w, "%s R%d", r.mnemonic, implied(op))
	case operandPort:
		_, err = fmt.Fprintf(w, "%s %d", r.mnemonic, op&0x07)
	case operandImmediate:
		_, err = fmt.Fprintf(w, "%s #%02X", r.mnemonic, c.immediate())
	case operandShortBranch:
		_, err = fmt.Fprintf(w, "%s %04X", r.mnemonic, c.shortBranch())
	case operandLongBranch:
		_, err = fmt.Fprintf(w, "%s %04X", r.mnemonic, c.longBranch())
	case operandShortSkip:
		_, err = fmt.Fprintf(w, "%s %04X", r.mnemonic, c.shortSkip())
	case operandLongSkip:
		_, err = fmt.Fprintf(w, "%s %04X", r.mnemonic, c.longSkip())
	case operandRegisterShortBranch:
		_, err = fmt.Fprintf(w, "%s R%d, %04X", r.mnemonic, implied(op), c.shortBranch())
	case operandRegisterLongBranch:
		_, err = fmt.Fprintf(w, "%s R%d, %04X", r.mnemonic, implied(op), c.longBranch())
	case operandRegisterDoubleImmediate:
		_, err = fmt.Fprintf(w, "%s R%d, #%04X", r.mnemonic, implied(op), c.doubleImmediate())
	default:
		_, err = io.WriteString(w, r.mnemonic)
	}
	return err
}
