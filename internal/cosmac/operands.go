package cosmac

// cursor walks the operand bytes of one instruction. base is the address of
// the first opcode byte and pc the next byte to fetch.
type cursor struct {
	base   uint16
	pc     uint16
	params ByteStream
}

// implied extracts the register number held in the low nibble.
func implied(op byte) int {
	return int(op & 0x0f)
}

func (c *cursor) immediate() byte {
	b := c.params.R8(c.pc)
	c.pc++
	return b
}

// doubleImmediate reads a big-endian 16-bit value.
func (c *cursor) doubleImmediate() uint16 {
	hi := uint16(c.params.R8(c.pc))
	lo := uint16(c.params.R8(c.pc + 1))
	c.pc += 2
	return hi<<8 | lo
}

// shortBranch takes the target page from the instruction's own address,
// not from the operand byte.
func (c *cursor) shortBranch() uint16 {
	return c.base&0xff00 | uint16(c.immediate())
}

func (c *cursor) longBranch() uint16 {
	return c.doubleImmediate()
}

// shortSkip reports where execution resumes when the skip is taken. Nothing
// is fetched.
func (c *cursor) shortSkip() uint16 {
	return c.pc + 1
}

// longSkip steps over the two skipped bytes without reading them and
// reports the resulting address.
func (c *cursor) longSkip() uint16 {
	c.pc += 2
	return c.pc
}
