// Package testutil builds JPEG fixtures in memory so tests do not depend on
// files outside the repository.
package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

// Gradient returns a width x height RGBA image with smooth horizontal and
// vertical ramps.
func Gradient(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(x * 255 / max(width-1, 1)),
				G: uint8(y * 255 / max(height-1, 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

// Solid returns a width x height image filled with c.
func Solid(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// Encode compresses img with the standard library encoder (baseline, 4:2:0).
func Encode(t testing.TB, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		t.Fatalf("encoding fixture: %v", err)
	}
	return buf.Bytes()
}

// JPEG returns a gradient JPEG of the given size.
func JPEG(t testing.TB, width, height int) []byte {
	t.Helper()
	return Encode(t, Gradient(width, height), 90)
}

// GrayJPEG returns a single-component JPEG of the given size.
func GrayJPEG(t testing.TB, width, height int) []byte {
	t.Helper()
	g := image.NewGray(image.Rect(0, 0, width, height))
	for i := range g.Pix {
		g.Pix[i] = uint8(i)
	}
	return Encode(t, g, 90)
}

// WriteJPEG writes a gradient JPEG into dir and returns its path.
func WriteJPEG(t testing.TB, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, JPEG(t, width, height), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

// Config decodes just the dimensions of a JPEG with the standard library.
func Config(t testing.TB, data []byte) image.Config {
	t.Helper()
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("image/jpeg DecodeConfig: %v", err)
	}
	return cfg
}

// FakeICC returns a syntactically valid ICC header padded to size bytes.
// colorSpace and class are 4-byte signatures such as "RGB " and "mntr".
func FakeICC(size int, colorSpace, class string) []byte {
	if size < 128 {
		size = 128
	}
	p := make([]byte, size)
	binary.BigEndian.PutUint32(p[0:4], uint32(size))
	p[8], p[9] = 4, 0x30 // v4.3.0
	copy(p[12:16], class)
	copy(p[16:20], colorSpace)
	copy(p[20:24], "XYZ ")
	copy(p[36:40], "acsp")
	for i := 128; i < size; i++ {
		p[i] = byte(i * 7)
	}
	return p
}

// HasJPEGMagic reports whether data starts with SOI and ends with EOI.
func HasJPEGMagic(data []byte) bool {
	n := len(data)
	return n >= 4 && data[0] == 0xFF && data[1] == 0xD8 && data[n-2] == 0xFF && data[n-1] == 0xD9
}

// AfterSOI returns a copy of data with extra spliced in right after the
// SOI marker.
func AfterSOI(data []byte, extra []byte) []byte {
	out := make([]byte, 0, len(data)+len(extra))
	out = append(out, data[:2]...)
	out = append(out, extra...)
	return append(out, data[2:]...)
}

// ICCSegment builds a complete APP2 ICC_PROFILE segment holding chunk seq
// of count.
func ICCSegment(seq, count byte, chunk []byte) []byte {
	n := 2 + 12 + 2 + len(chunk)
	seg := []byte{0xFF, 0xE2, byte(n >> 8), byte(n)}
	seg = append(seg, "ICC_PROFILE\x00"...)
	seg = append(seg, seq, count)
	return append(seg, chunk...)
}
