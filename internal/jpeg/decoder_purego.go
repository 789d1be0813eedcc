//go:build !cgo || purego

package jpeg

import (
	"bytes"
	"fmt"
	stdjpeg "image/jpeg"

	"github.com/nfnt/resize"

	"github.com/mactul/jpeg-turbo-examples/internal/ir"
)

// Decompressor holds a JPEG in memory together with its parsed header.
type Decompressor struct {
	data []byte
	info *ImageInfo
}

// NewDecompressor parses the header of data. An ICC profile that cannot be
// reassembled is reported in ImageInfo.ICCErr and does not fail the call.
func NewDecompressor(data []byte) (*Decompressor, error) {
	info, err := parseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("jpeg header: %w", err)
	}
	return &Decompressor{data: data, info: info}, nil
}

// Info returns the parsed header.
func (d *Decompressor) Info() *ImageInfo { return d.info }

// DecodeScaled reduces the image to 1/factor of its size. Without
// libjpeg-turbo the image is decoded at full size and then resampled, so
// dimensions match the scaled IDCT but pixels may differ.
func (d *Decompressor) DecodeScaled(factor int) (*ir.RGBImage, error) {
	if !ValidFactor(factor) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFactor, factor)
	}
	if !decodableToRGB(d.info.ColorSpace) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedColorSpace, d.info.ColorSpace)
	}

	img, err := stdjpeg.Decode(bytes.NewReader(d.data))
	if err != nil {
		return nil, fmt.Errorf("jpeg decode: %w", err)
	}

	if factor > 1 {
		b := img.Bounds()
		sw, sh := ScaledSize(b.Dx(), b.Dy(), factor)
		img = resize.Resize(uint(sw), uint(sh), img, resize.Bilinear)
	}
	return ir.FromImage(img), nil
}

// Close is a no-op; the pure Go decoder holds no native resources.
func (d *Decompressor) Close() error { return nil }

// DecodeScaled decodes a JPEG from memory at 1/factor of its size.
func DecodeScaled(data []byte, factor int) (*ir.RGBImage, error) {
	if !ValidFactor(factor) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFactor, factor)
	}
	d, err := NewDecompressor(data)
	if err != nil {
		return nil, err
	}
	return d.DecodeScaled(factor)
}
