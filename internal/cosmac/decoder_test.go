package cosmac

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// pagedStream places code at an arbitrary address and records every offset
// the decoder reads.
type pagedStream struct {
	base  uint16
	code  []byte
	reads []uint16
}

func (s *pagedStream) R8(offs uint16) byte {
	s.reads = append(s.reads, offs)
	i := int(offs) - int(s.base)
	if i < 0 || i >= len(s.code) {
		return 0xee
	}
	return s.code[i]
}

func decodeAt(v Variant, base uint16, code ...byte) (string, Result, *pagedStream) {
	s := &pagedStream{base: base, code: code}
	text, res := New(v).Decode(s, base)
	return text, res, s
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		variant Variant
		base    uint16
		code    []byte
		want    string
		length  uint16
		flow    Flow
	}{
		{name: "idle", variant: CDP1801, code: []byte{0x00}, want: "IDL", length: 1},
		{name: "short branch takes page from instruction", variant: CDP1801, base: 0x1200, code: []byte{0x30, 0x45}, want: "BR 1245", length: 2},
		{name: "short branch at end of page", variant: CDP1802, base: 0x12ff, code: []byte{0x3a, 0x10}, want: "BNZ 1210", length: 2},
		{name: "long branch", variant: CDP1802, code: []byte{0xc0, 0x12, 0x34}, want: "LBR 1234", length: 3},
		{name: "long branch gated on CDP1801", variant: CDP1801, code: []byte{0xc0, 0x12, 0x34}, want: "illegal", length: 1},
		{name: "long branch if not Q", variant: CDP1802, code: []byte{0xc9, 0xab, 0xcd}, want: "LBNQ ABCD", length: 3},
		{name: "short skip", variant: CDP1801, base: 0x0100, code: []byte{0x38}, want: "SKP 0102", length: 1},
		{name: "long skip", variant: CDP1802, base: 0x0100, code: []byte{0xc8, 0x11, 0x22}, want: "LSKP 0103", length: 3},
		{name: "long skip gated on CDP1801", variant: CDP1801, code: []byte{0xc8}, want: "illegal", length: 1},
		{name: "immediate", variant: CDP1801, code: []byte{0xf8, 0x3f}, want: "LDI #3F", length: 2},
		{name: "carry immediate gated", variant: CDP1801, code: []byte{0x7c, 0x01}, want: "illegal", length: 1},
		{name: "carry immediate", variant: CDP1802, code: []byte{0x7c, 0x01}, want: "ADCI #01", length: 2},
		{name: "return", variant: CDP1801, code: []byte{0x70}, want: "RET", length: 1, flow: FlowStepOut},
		{name: "disable and return", variant: CDP1805, code: []byte{0x71}, want: "DIS", length: 1, flow: FlowStepOut},
		{name: "sep", variant: CDP1802, code: []byte{0xd3}, want: "SEP R3", length: 1, flow: FlowStepOver},
		{name: "sex", variant: CDP1802, code: []byte{0xe2}, want: "SEX R2", length: 1},
		{name: "out 0 on CDP1801", variant: CDP1801, code: []byte{0x60}, want: "OUT 0", length: 1},
		{name: "irx on CDP1802", variant: CDP1802, code: []byte{0x60}, want: "IRX", length: 1},
		{name: "output port", variant: CDP1802, code: []byte{0x64}, want: "OUT 4", length: 1},
		{name: "input port", variant: CDP1805, code: []byte{0x6f}, want: "INP 7", length: 1},
		{name: "page on CDP1805", variant: CDP1805, code: []byte{0x68, 0x06}, want: "LDC", length: 2},
		{name: "page on CDP1802", variant: CDP1802, code: []byte{0x68, 0x06}, want: "illegal", length: 2},
		{name: "page on CDP1801", variant: CDP1801, code: []byte{0x68, 0x06}, want: "INP 0", length: 1},
		{name: "undefined page entry", variant: CDP1805, code: []byte{0x68, 0x10, 0x55}, want: "illegal", length: 2},
		{name: "djnz", variant: CDP1805, base: 0x3400, code: []byte{0x68, 0x27, 0x80}, want: "DJNZ R7, 3480", length: 3},
		{name: "bci", variant: CDP1805, base: 0x0200, code: []byte{0x68, 0x3e, 0x04}, want: "BCI 0204", length: 3},
		{name: "scal", variant: CDP1805, code: []byte{0x68, 0x84, 0x12, 0x34}, want: "SCAL R4, 1234", length: 4},
		{name: "rldi", variant: CDP1805, code: []byte{0x68, 0xcf, 0xbe, 0xef}, want: "RLDI R15, #BEEF", length: 4},
		{name: "decimal immediate", variant: CDP1805, code: []byte{0x68, 0xfc, 0x99}, want: "DADI #99", length: 3},
		{name: "sret", variant: CDP1805, code: []byte{0x68, 0x96}, want: "SRET R6", length: 2},
		{name: "shift left", variant: CDP1802, code: []byte{0xfe}, want: "SHL", length: 1},
		{name: "shift left gated", variant: CDP1801, code: []byte{0xfe}, want: "illegal", length: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, res, _ := decodeAt(tt.variant, tt.base, tt.code...)
			if got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
			if res.Length != tt.length {
				t.Errorf("length = %d, want %d", res.Length, tt.length)
			}
			if res.Flow != tt.flow {
				t.Errorf("flow = %v, want %v", res.Flow, tt.flow)
			}
			if !res.Supported {
				t.Error("result not marked supported")
			}
		})
	}
}

func TestLoadRegisterBlock(t *testing.T) {
	for _, v := range Variants() {
		for op := byte(0x01); op <= 0x0f; op++ {
			got, res, _ := decodeAt(v, 0, op)
			want := fmt.Sprintf("LDN R%d", op&0x0f)
			if got != want || res.Length != 1 || res.Flow != FlowNone {
				t.Errorf("%v %02X: got %q len %d flow %v, want %q len 1 flow none",
					v, op, got, res.Length, res.Flow, want)
			}
		}
	}
}

func TestSEPIsStepOver(t *testing.T) {
	for op := 0xd0; op <= 0xdf; op++ {
		_, res, _ := decodeAt(CDP1801, 0, byte(op))
		if res.Flow != FlowStepOver {
			t.Errorf("%02X: flow = %v, want step-over", op, res.Flow)
		}
	}
}

func TestOnlyReturnsAndSEPCarryFlow(t *testing.T) {
	for _, v := range Variants() {
		for op := 0; op < 256; op++ {
			_, res, _ := decodeAt(v, 0, byte(op), 0x00, 0x00)
			var want Flow
			switch {
			case op == 0x70 || op == 0x71:
				want = FlowStepOut
			case op&0xf0 == 0xd0:
				want = FlowStepOver
			}
			if res.Flow != want {
				t.Errorf("%v %02X: flow = %v, want %v", v, op, res.Flow, want)
			}
		}
	}
}

// expectedLength is the length each opcode class must report.
func expectedLength(v Variant, op, op2 byte) uint16 {
	if v >= CDP1802 {
		switch {
		case op == 0x31 || op == 0x39 || (op >= 0x7c && op != 0x7e && op <= 0x7f):
			return 2
		case op >= 0xc0 && op <= 0xcf && op != 0xc4:
			return 3
		case op == 0x68:
			if v < CDP1805 {
				return 2
			}
			switch {
			case op2 >= 0x20 && op2 <= 0x2f, op2 == 0x3e, op2 == 0x3f,
				op2 == 0x7c, op2 == 0x7f, op2 == 0xfc, op2 == 0xff:
				return 3
			case op2 >= 0x80 && op2 <= 0x8f, op2 >= 0xc0 && op2 <= 0xcf:
				return 4
			}
			return 2
		}
	}
	switch {
	case op >= 0x30 && op <= 0x3f && op != 0x31 && op != 0x38 && op != 0x39:
		return 2
	case op >= 0xf8 && op != 0xfe:
		return 2
	}
	return 1
}

func TestEveryOpcodeReadsOnlyItsOwnBytes(t *testing.T) {
	const base = 0x4000
	for _, v := range Variants() {
		for op := 0; op < 256; op++ {
			for op2 := 0; op2 < 256; op2++ {
				if op != 0x68 && op2 > 0 {
					break
				}
				_, res, s := decodeAt(v, base, byte(op), byte(op2), 0x12, 0x34)
				want := expectedLength(v, byte(op), byte(op2))
				if res.Length != want {
					t.Errorf("%v %02X %02X: length = %d, want %d", v, op, op2, res.Length, want)
				}
				for _, r := range s.reads {
					if r < base || r >= base+want {
						t.Errorf("%v %02X %02X: read %04X outside %04X+%d", v, op, op2, r, base, want)
					}
				}
			}
		}
	}
}

func TestIllegalCounts(t *testing.T) {
	count := func(v Variant) int {
		n := 0
		for op := 0; op < 256; op++ {
			if got, _, _ := decodeAt(v, 0, byte(op), 0x00, 0x00); got == "illegal" {
				n++
			}
		}
		return n
	}

	// 0x31, 0x39, 0x72-0x77, 0x79-0x7f, 0xc0-0xcf and 0xfe arrive with the
	// CDP1802.
	if got := count(CDP1801); got != 32 {
		t.Errorf("CDP1801 illegal opcodes = %d, want 32", got)
	}
	// 0x68 followed by 0x00 is an empty page slot on the CDP1802.
	if got := count(CDP1802); got != 1 {
		t.Errorf("CDP1802 illegal opcodes = %d, want 1", got)
	}
	if got := count(CDP1805); got != 0 {
		t.Errorf("CDP1805 illegal opcodes = %d, want 0", got)
	}
}

func TestDecodeIsRepeatable(t *testing.T) {
	window := Bytes{0x68, 0x86, 0x01, 0x02, 0x30, 0x10, 0xd4}
	d := New(CDP1805)
	for pc := uint16(0); pc < 4; pc++ {
		text1, res1 := d.Decode(window, pc)
		text2, res2 := d.Decode(window, pc)
		if text1 != text2 || res1 != res2 {
			t.Errorf("pc %d: %q/%+v then %q/%+v", pc, text1, res1, text2, res2)
		}
	}
}

func TestSeparateOperandStream(t *testing.T) {
	opcodes := Bytes{0xf8, 0x00}
	params := Bytes{0x00, 0x5a}
	var sb strings.Builder
	res, err := New(CDP1802).DecodeTo(&sb, opcodes, params, 0)
	if err != nil {
		t.Fatal(err)
	}
	if sb.String() != "LDI #5A" || res.Length != 2 {
		t.Errorf("got %q len %d, want LDI #5A len 2", sb.String(), res.Length)
	}
}

type failingWriter struct{}

var errSink = errors.New("sink closed")

func (failingWriter) Write([]byte) (int, error) { return 0, errSink }

func TestDecodeToReportsSinkErrors(t *testing.T) {
	code := Bytes{0xc0, 0x12, 0x34}
	res, err := New(CDP1802).DecodeTo(failingWriter{}, code, code, 0)
	if !errors.Is(err, errSink) {
		t.Errorf("err = %v, want %v", err, errSink)
	}
	if res.Length != 3 {
		t.Errorf("length = %d, want 3 even when the sink fails", res.Length)
	}
}

func TestNewClampsVariant(t *testing.T) {
	if got := New(Variant(-3)).Variant(); got != CDP1801 {
		t.Errorf("New(-3).Variant() = %v, want CDP1801", got)
	}
	if got := New(Variant(42)).Variant(); got != CDP1805 {
		t.Errorf("New(42).Variant() = %v, want CDP1805", got)
	}
	if !New(CDP1805).Extended() || New(CDP1802).Extended() {
		t.Error("only CDP1805 decodes the extended page")
	}
}

func TestResultPacked(t *testing.T) {
	tests := []struct {
		res  Result
		want uint32
	}{
		{Result{Length: 1, Supported: true}, 0x80000001},
		{Result{Length: 1, Flow: FlowStepOver, Supported: true}, 0x80010001},
		{Result{Length: 3, Flow: FlowStepOut, Supported: true}, 0x80020003},
	}
	for _, tt := range tests {
		if got := tt.res.Packed(); got != tt.want {
			t.Errorf("%+v.Packed() = %#x, want %#x", tt.res, got, tt.want)
		}
	}
}
