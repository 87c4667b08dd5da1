package analysis

import (
	"log/slog"
	"strings"

	"cosdis/internal/cosmac"
	"cosdis/internal/disasm"
)

// Memory is what the listing driver needs from a ROM image.
type Memory interface {
	cosmac.ByteStream
	Contains(addr uint16) bool
	Bytes(addr uint16, n int) []byte
	End() uint32
}

// DecodeInst decodes the instruction at pc into a listing record.
func DecodeInst(dec *cosmac.Decoder, mem Memory, pc uint16) disasm.Inst {
	text, res := dec.Decode(mem, pc)
	op, _, _ := strings.Cut(text, " ")
	return disasm.Inst{
		Addr:   pc,
		Raw:    mem.Bytes(pc, int(res.Length)),
		Text:   text,
		Op:     op,
		Length: res.Length,
		Flow:   res.Flow,
	}
}

// Sweep decodes linearly from start until the end of the image or until
// maxInsns instructions have been produced. maxInsns <= 0 means no limit
// beyond MaxSweepInstructions.
func Sweep(dec *cosmac.Decoder, mem Memory, start uint16, maxInsns int) disasm.Stream {
	return walk(dec, mem, start, maxInsns, false)
}

// TraceUntilReturn is Sweep that also stops after the first step-out
// instruction (RET or DIS).
func TraceUntilReturn(dec *cosmac.Decoder, mem Memory, start uint16, maxInsns int) disasm.Stream {
	if maxInsns <= 0 {
		maxInsns = MaxTraceInstructions
	}
	return walk(dec, mem, start, maxInsns, true)
}

func walk(dec *cosmac.Decoder, mem Memory, start uint16, maxInsns int, untilReturn bool) disasm.Stream {
	if maxInsns <= 0 || maxInsns > MaxSweepInstructions {
		maxInsns = MaxSweepInstructions
	}

	var out disasm.Stream
	pc := start
	for len(out) < maxInsns && mem.Contains(pc) {
		in := DecodeInst(dec, mem, pc)
		out = append(out, in)
		if untilReturn && in.Flow == cosmac.FlowStepOut {
			break
		}
		next := uint32(pc) + uint32(in.Length)
		if next >= mem.End() {
			break
		}
		pc = uint16(next)
	}

	slog.Debug("Listing finished",
		"variant", dec.Variant(),
		"start", start,
		"instructions", len(out),
		"until_return", untilReturn)
	return out
}

// Annotate wraps a stream for detectors.
func Annotate(stream disasm.Stream) []AnnotatedInst {
	listing := make([]AnnotatedInst, len(stream))
	for i, in := range stream {
		listing[i] = AnnotatedInst{Inst: in}
	}
	return listing
}
