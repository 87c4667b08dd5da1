package analysis

import (
	"fmt"
	"strings"

	"cosdis/internal/cosmac"
	"cosdis/internal/disasm"
)

// AnnotatedInst is a decoded instruction with listing notes attached.
type AnnotatedInst struct {
	disasm.Inst
	Annotations []string
}

// String renders "ADDR  BYTES  TEXT ; notes" in fixed columns.
// This returns plain text - colorization is done by the caller.
func (a AnnotatedInst) String() string {
	base := fmt.Sprintf("%04X  %-11s  %-16s", a.Addr, hexBytes(a.Raw), a.Text)
	if len(a.Annotations) > 0 {
		return fmt.Sprintf("%s ; %s", base, strings.Join(a.Annotations, ", "))
	}
	return strings.TrimRight(base, " ")
}

func (a *AnnotatedInst) annotate(format string, args ...any) {
	a.Annotations = append(a.Annotations, fmt.Sprintf(format, args...))
}

func hexBytes(b []byte) string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}

// Summary counts what a listing contains.
type Summary struct {
	Instructions int `json:"instructions"`
	Bytes        int `json:"bytes"`
	Calls        int `json:"calls"`
	Returns      int `json:"returns"`
	Illegal      int `json:"illegal"`
}

// Summarize tallies a stream.
func Summarize(stream disasm.Stream) Summary {
	var s Summary
	for _, in := range stream {
		s.Instructions++
		s.Bytes += int(in.Length)
		switch {
		case in.Illegal():
			s.Illegal++
		case in.Flow == cosmac.FlowStepOver:
			s.Calls++
		case in.Flow == cosmac.FlowStepOut:
			s.Returns++
		}
	}
	return s
}
