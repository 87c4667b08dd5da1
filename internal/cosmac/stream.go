package cosmac

// ByteStream is a randomly addressable source of instruction bytes.
// Bounds are the implementation's business; the decoder never checks them.
type ByteStream interface {
	R8(offs uint16) byte
}

// Bytes adapts a slice to ByteStream with offset 0 at the first element.
// Reading past the end panics like any slice index.
type Bytes []byte

// R8 returns the byte at offs.
func (b Bytes) R8(offs uint16) byte {
	return b[offs]
}
