// Package cosmac decodes RCA COSMAC machine code (CDP1801, CDP1802 and
// CDP1805/1806) into assembler text.
//
// Every byte value decodes to something: opcodes that are undefined, or
// not available on the selected variant, come out as "illegal" so a
// caller can sweep arbitrary data without handling faults.
package cosmac
