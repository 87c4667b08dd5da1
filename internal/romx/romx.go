// Package romx loads COSMAC ROM images and maps CPU addresses onto them.
package romx

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// MaxSize is the size of the COSMAC address space.
const MaxSize = 0x10000

var (
	ErrEmpty    = errors.New("rom image is empty")
	ErrTooLarge = errors.New("rom image exceeds 64 KiB")
)

// Image is a ROM dump loaded at Base. Addresses outside the image read
// as zero.
type Image struct {
	Path string
	Base uint16
	Data []byte
}

// New wraps data loaded at base. Data that would run past 0xFFFF is
// truncated at the top of the address space.
func New(data []byte, base uint16) *Image {
	if room := MaxSize - int(base); len(data) > room {
		data = data[:room]
	}
	return &Image{Base: base, Data: data}
}

// Open reads a raw ROM dump from path. Gzip files and zip archives are
// unpacked first; for a zip the first entry is used.
func Open(path string, base uint16) (*Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rom: %w", err)
	}

	data, err := decompress(raw, path)
	if err != nil {
		return nil, fmt.Errorf("unpack rom: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	if int(base)+len(data) > MaxSize {
		return nil, fmt.Errorf("%s: %d bytes at %04X: %w", path, len(data), base, ErrTooLarge)
	}

	slog.Debug("Loaded ROM image", "file", path, "base", fmt.Sprintf("%04X", base), "size", len(data))

	im := New(data, base)
	im.Path = path
	return im, nil
}

func decompress(data []byte, filename string) ([]byte, error) {
	if len(data) < 2 {
		return data, nil
	}

	// gzip magic 1F 8B
	if data[0] == 0x1f && data[1] == 0x8b {
		slog.Debug("Detected gzip compression", "file", filename)
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer zr.Close()

		out, err := io.ReadAll(io.LimitReader(zr, MaxSize+1))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return out, nil
	}

	// zip local file header "PK\x03\x04"
	if len(data) >= 4 && bytes.Equal(data[:4], []byte{'P', 'K', 0x03, 0x04}) {
		slog.Debug("Detected ZIP archive", "file", filename)
		zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("zip reader: %w", err)
		}
		if len(zr.File) == 0 {
			return nil, fmt.Errorf("zip archive is empty")
		}

		f := zr.File[0]
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s in zip: %w", f.Name, err)
		}
		defer rc.Close()

		out, err := io.ReadAll(io.LimitReader(rc, MaxSize+1))
		if err != nil {
			return nil, fmt.Errorf("read %s from zip: %w", f.Name, err)
		}
		slog.Debug("Unpacked ZIP entry", "file", filename, "entry", f.Name, "size", len(out))
		return out, nil
	}

	return data, nil
}

// End returns the address one past the last byte. It can be 0x10000.
func (im *Image) End() uint32 {
	return uint32(im.Base) + uint32(len(im.Data))
}

// Contains reports whether addr is backed by image data.
func (im *Image) Contains(addr uint16) bool {
	return uint32(addr) >= uint32(im.Base) && uint32(addr) < im.End()
}

// R8 returns the byte at addr, or zero if addr is outside the image.
func (im *Image) R8(addr uint16) byte {
	if !im.Contains(addr) {
		return 0
	}
	return im.Data[addr-im.Base]
}

// Bytes returns up to n bytes starting at addr, clipped to the image.
func (im *Image) Bytes(addr uint16, n int) []byte {
	if !im.Contains(addr) || n <= 0 {
		return nil
	}
	off := int(addr - im.Base)
	end := off + n
	if end > len(im.Data) {
		end = len(im.Data)
	}
	return im.Data[off:end]
}

// Digest returns the hex SHA-256 of the image contents.
func (im *Image) Digest() string {
	sum := sha256.Sum256(im.Data)
	return fmt.Sprintf("%x", sum[:])
}
