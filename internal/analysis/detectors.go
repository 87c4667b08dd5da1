package analysis

import (
	"regexp"
	"strconv"

	"cosdis/internal/cosmac"
)

// reBranch captures the absolute target of branch forms. Skips are left
// out because their displayed address is not a jump target.
var reBranch = regexp.MustCompile(`^(?:LB[A-Z]*|B[A-Z0-9]*|DJNZ R\d+,|SCAL R\d+,) ([0-9A-F]{4})$`)

// BranchTarget extracts the target address of a branch instruction text.
func BranchTarget(text string) (uint16, bool) {
	m := reBranch.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseUint(m[1], 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

// FlowDetector labels step-over and step-out instructions, naming the
// SCRT call and return idioms.
type FlowDetector struct{}

func (FlowDetector) Detect(listing []AnnotatedInst) []AnnotatedInst {
	for i := range listing {
		in := &listing[i]
		switch in.Flow {
		case cosmac.FlowStepOver:
			switch in.Text {
			case scrtCall:
				in.annotate("SCRT call")
			case scrtReturn:
				in.annotate("SCRT return")
			default:
				in.annotate("step-over")
			}
		case cosmac.FlowStepOut:
			in.annotate("return")
		}
	}
	return listing
}

// BranchDetector marks branches whose target is not backed by the image.
type BranchDetector struct {
	Mem Memory
}

func (d BranchDetector) Detect(listing []AnnotatedInst) []AnnotatedInst {
	for i := range listing {
		target, ok := BranchTarget(listing[i].Text)
		if ok && !d.Mem.Contains(target) {
			listing[i].annotate("target outside image")
		}
	}
	return listing
}

// IllegalRunDetector flags runs of illegal opcodes, which usually mean the
// sweep has wandered into data.
type IllegalRunDetector struct {
	// MinRun defaults to IllegalRunThreshold.
	MinRun int
}

func (d IllegalRunDetector) Detect(listing []AnnotatedInst) []AnnotatedInst {
	minRun := d.MinRun
	if minRun <= 0 {
		minRun = IllegalRunThreshold
	}

	for i := 0; i < len(listing); {
		if !listing[i].Illegal() {
			i++
			continue
		}
		j := i
		var data []byte
		for j < len(listing) && listing[j].Illegal() {
			data = append(data, listing[j].Raw...)
			j++
		}
		if j-i >= minRun {
			preview := data
			if len(preview) > MaxDataPreview {
				preview = preview[:MaxDataPreview]
			}
			if printableRatio(data) >= 0.75 {
				listing[i].annotate("data? %d bytes \"%s\"", len(data), EscapeUnprintable(preview))
			} else {
				listing[i].annotate("data? %d bytes", len(data))
			}
		}
		i = j
	}
	return listing
}

// DefaultChain returns the detectors the listing front ends use.
func DefaultChain(mem Memory) *DetectorChain {
	return NewDetectorChain(
		FlowDetector{},
		BranchDetector{Mem: mem},
		IllegalRunDetector{},
	)
}
