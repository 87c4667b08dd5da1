package analysis

import (
	"fmt"
	"log/slog"
)

// A Detector adds notes to a listing. It may rewrite entries in place and
// returns the listing for the next detector.
type Detector interface {
	Detect(listing []AnnotatedInst) []AnnotatedInst
}

// DetectorFunc lets a plain function act as a Detector.
type DetectorFunc func(listing []AnnotatedInst) []AnnotatedInst

func (f DetectorFunc) Detect(listing []AnnotatedInst) []AnnotatedInst { return f(listing) }

// DetectorChain runs detectors in order over one listing.
type DetectorChain struct {
	detectors []Detector
}

func NewDetectorChain(detectors ...Detector) *DetectorChain {
	return &DetectorChain{detectors: detectors}
}

// Append adds detectors to the end of the chain.
func (dc *DetectorChain) Append(detectors ...Detector) *DetectorChain {
	dc.detectors = append(dc.detectors, detectors...)
	return dc
}

func (dc *DetectorChain) Detect(listing []AnnotatedInst) []AnnotatedInst {
	for _, d := range dc.detectors {
		before := countNotes(listing)
		listing = d.Detect(listing)
		slog.Debug("detector ran", "detector", fmt.Sprintf("%T", d), "notes", countNotes(listing)-before)
	}
	return listing
}

func countNotes(listing []AnnotatedInst) int {
	n := 0
	for _, in := range listing {
		n += len(in.Annotations)
	}
	return n
}
