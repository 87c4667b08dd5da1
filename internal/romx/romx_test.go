package romx

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zipped(t *testing.T, name string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestOpen(t *testing.T) {
	rom := []byte{0xf8, 0x10, 0xb1, 0xd4, 0x70}

	tests := []struct {
		name    string
		file    []byte
		base    uint16
		wantErr error
	}{
		{name: "raw", file: rom, base: 0x8000},
		{name: "gzip", file: gzipped(t, rom)},
		{name: "zip", file: zipped(t, "u21.bin", rom)},
		{name: "empty", file: nil, wantErr: ErrEmpty},
		{name: "past top of memory", file: rom, base: 0xfffe, wantErr: ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.name+".bin", tt.file)
			im, err := Open(path, tt.base)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if !bytes.Equal(im.Data, rom) {
				t.Errorf("data = % X, want % X", im.Data, rom)
			}
			if im.Base != tt.base || im.Path != path {
				t.Errorf("base %04X path %q", im.Base, im.Path)
			}
		})
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope.bin"), 0); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want not-exist", err)
	}
}

func TestAddressing(t *testing.T) {
	im := New([]byte{0x11, 0x22, 0x33}, 0x0100)

	if got := im.R8(0x0101); got != 0x22 {
		t.Errorf("R8(0101) = %02X", got)
	}
	if got := im.R8(0x00ff); got != 0 {
		t.Errorf("R8 below image = %02X, want 0", got)
	}
	if got := im.R8(0x0103); got != 0 {
		t.Errorf("R8 past image = %02X, want 0", got)
	}
	if im.End() != 0x0103 {
		t.Errorf("End = %04X", im.End())
	}
	if got := im.Bytes(0x0102, 4); !bytes.Equal(got, []byte{0x33}) {
		t.Errorf("Bytes clipped = % X", got)
	}
	if got := im.Bytes(0x0200, 1); got != nil {
		t.Errorf("Bytes outside = % X", got)
	}
}

func TestNewTruncatesAtTopOfMemory(t *testing.T) {
	im := New([]byte{1, 2, 3, 4}, 0xfffe)
	if len(im.Data) != 2 || im.End() != 0x10000 {
		t.Errorf("len %d end %X", len(im.Data), im.End())
	}
	if !im.Contains(0xffff) || im.R8(0xffff) != 2 {
		t.Error("last byte of memory not mapped")
	}
}

func TestDigest(t *testing.T) {
	im := New([]byte("abc"), 0)
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := im.Digest(); got != want {
		t.Errorf("Digest = %s", got)
	}
}
