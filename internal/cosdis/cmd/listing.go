package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	pathpkg "path/filepath"

	"cosdis/internal/analysis"
	"cosdis/internal/cosmac"
	"cosdis/internal/disasm"
	"cosdis/internal/romx"
	"cosdis/internal/ui/colorize"
)

// JSONOutput represents the JSON listing
type JSONOutput struct {
	File         string           `json:"file"`
	Digest       string           `json:"digest"`
	Variant      string           `json:"variant"`
	Base         string           `json:"base"`
	Instructions []JSONInst       `json:"instructions"`
	Summary      analysis.Summary `json:"summary"`
}

// JSONInst is one instruction in JSONOutput
type JSONInst struct {
	Address     string   `json:"address"`
	Bytes       string   `json:"bytes"`
	Text        string   `json:"text"`
	Length      int      `json:"length"`
	Flow        string   `json:"flow"`
	Annotations []string `json:"annotations,omitempty"`
}

// disassemble decodes the configured range of im and runs the detectors.
func disassemble(im *romx.Image, s settings) (disasm.Stream, []analysis.AnnotatedInst) {
	dec := cosmac.New(s.variant)

	var stream disasm.Stream
	if s.untilReturn {
		stream = analysis.TraceUntilReturn(dec, im, s.start, s.count)
	} else {
		stream = analysis.Sweep(dec, im, s.start, s.count)
	}
	return stream, analysis.DefaultChain(im).Detect(analysis.Annotate(stream))
}

func loadImage(path string, s settings) (*romx.Image, error) {
	im, err := romx.Open(path, s.base)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	if !im.Contains(s.start) {
		return nil, fmt.Errorf("start address %04X is outside the image %04X-%04X",
			s.start, im.Base, im.End()-1)
	}
	return im, nil
}

// writeListing prints the commented header and one line per instruction.
func writeListing(w io.Writer, im *romx.Image, s settings, color bool) error {
	stream, listing := disassemble(im, s)
	sum := analysis.Summarize(stream)

	header := []string{
		fmt.Sprintf("; %s", pathpkg.Base(im.Path)),
		fmt.Sprintf("; %s, %d bytes at %04X", s.variant, len(im.Data), im.Base),
		fmt.Sprintf("; sha256 %s", im.Digest()),
		fmt.Sprintf("; %d instructions, %d calls, %d returns, %d illegal",
			sum.Instructions, sum.Calls, sum.Returns, sum.Illegal),
		"",
	}
	for _, h := range header {
		if _, err := fmt.Fprintln(w, h); err != nil {
			return err
		}
	}

	for _, in := range listing {
		line := in.String()
		if color {
			line = colorize.ColorizeInstructionLine(line)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func buildJSON(im *romx.Image, s settings) JSONOutput {
	stream, listing := disassemble(im, s)

	out := JSONOutput{
		File:         im.Path,
		Digest:       im.Digest(),
		Variant:      s.variant.String(),
		Base:         fmt.Sprintf("%04X", im.Base),
		Instructions: make([]JSONInst, 0, len(listing)),
		Summary:      analysis.Summarize(stream),
	}
	for _, in := range listing {
		out.Instructions = append(out.Instructions, JSONInst{
			Address:     fmt.Sprintf("%04X", in.Addr),
			Bytes:       fmt.Sprintf("%X", in.Raw),
			Text:        in.Text,
			Length:      int(in.Length),
			Flow:        in.Flow.String(),
			Annotations: in.Annotations,
		})
	}
	return out
}

func writeJSON(w io.Writer, im *romx.Image, s settings) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(buildJSON(im, s)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
