// Package analysis walks COSMAC ROM images with the decoder and annotates
// the resulting listing.
package analysis

// Limits and thresholds for listing operations
const (
	// MaxSweepInstructions caps a linear sweep; one instruction per byte
	// of the address space is the worst case.
	MaxSweepInstructions = 0x10000

	// MaxTraceInstructions is the default limit for TraceUntilReturn.
	MaxTraceInstructions = 1000

	// IllegalRunThreshold is the shortest run of illegal opcodes reported
	// as probable data.
	IllegalRunThreshold = 4

	// MaxDataPreview limits the printable rendering of a data run.
	MaxDataPreview = 24
)

// SCRT (standard call and return technique) dedicates R4 to the call
// routine and R5 to the return routine.
const (
	scrtCall   = "SEP R4"
	scrtReturn = "SEP R5"
)
