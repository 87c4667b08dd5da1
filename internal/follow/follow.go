// Package follow disassembles a growing trace log. Each line carries an
// address and the bytes found there:
//
//	8000: F8 80 B3
//
// Blank lines and lines starting with '#' or ';' are ignored.
package follow

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/nxadm/tail"

	"cosdis/internal/analysis"
	"cosdis/internal/cosmac"
	"cosdis/internal/romx"
)

// ParseLine splits a trace line into its address and bytes. ok is false
// for comments, blank lines and anything malformed.
func ParseLine(line string) (addr uint16, data []byte, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] == '#' || line[0] == ';' {
		return 0, nil, false
	}

	a, rest, found := strings.Cut(line, ":")
	if !found {
		return 0, nil, false
	}
	v, err := strconv.ParseUint(strings.TrimSpace(a), 16, 16)
	if err != nil {
		return 0, nil, false
	}

	data, err = hex.DecodeString(strings.Join(strings.Fields(rest), ""))
	if err != nil || len(data) == 0 {
		return 0, nil, false
	}
	return uint16(v), data, true
}

// DecodeLine disassembles every instruction on a trace line. Instructions
// whose operands run past the end of the line decode against zero bytes.
func DecodeLine(dec *cosmac.Decoder, line string) ([]analysis.AnnotatedInst, bool) {
	addr, data, ok := ParseLine(line)
	if !ok {
		return nil, false
	}
	im := romx.New(data, addr)
	stream := analysis.Sweep(dec, im, addr, 0)
	return analysis.NewDetectorChain(analysis.FlowDetector{}).Detect(analysis.Annotate(stream)), true
}

// Options controls where tailing starts.
type Options struct {
	// FromStart replays the existing file before following new lines.
	FromStart bool
	// Poll uses stat polling instead of inotify.
	Poll bool
}

// Follow tails path and calls fn for every decoded instruction until ctx
// is cancelled or the tail fails.
func Follow(ctx context.Context, path string, dec *cosmac.Decoder, opts Options, fn func(analysis.AnnotatedInst)) error {
	cfg := tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Poll:      opts.Poll,
		Logger:    tail.DiscardingLogger,
	}
	if !opts.FromStart {
		cfg.Location = &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	}

	t, err := tail.TailFile(path, cfg)
	if err != nil {
		return fmt.Errorf("tail %s: %w", path, err)
	}
	defer t.Cleanup()

	slog.Debug("Following trace log", "file", path, "from_start", opts.FromStart)

	for {
		select {
		case <-ctx.Done():
			return t.Stop()
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				return fmt.Errorf("tail %s: %w", path, line.Err)
			}
			listing, ok := DecodeLine(dec, line.Text)
			if !ok {
				slog.Debug("Skipping trace line", "line", line.Num, "text", line.Text)
				continue
			}
			for _, in := range listing {
				fn(in)
			}
		}
	}
}
