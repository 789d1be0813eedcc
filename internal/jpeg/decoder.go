//go:build cgo && !purego

package jpeg

/*
#cgo pkg-config: libturbojpeg
#include <turbojpeg.h>
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/mactul/jpeg-turbo-examples/internal/ir"
)

// Decompressor is one TurboJPEG decompress session over a JPEG held in
// memory. The header is read once, when the session is opened.
type Decompressor struct {
	h    C.tjhandle
	data []byte
	info *ImageInfo
}

// NewDecompressor opens a session and parses the header of data. An ICC
// profile that cannot be reassembled is reported in ImageInfo.ICCErr and
// does not fail the call. Close must be called to release the handle.
func NewDecompressor(data []byte) (*Decompressor, error) {
	if len(data) < 2 {
		return nil, errTooShort
	}

	h := C.tjInitDecompress()
	if h == nil {
		return nil, fmt.Errorf("turbojpeg init: %s", tjError(nil))
	}

	var width, height, subsamp, colorspace C.int
	rc := C.tjDecompressHeader3(h,
		(*C.uchar)(unsafe.Pointer(&data[0])), C.ulong(len(data)),
		&width, &height, &subsamp, &colorspace)
	if tjFailed(h, rc) {
		err := fmt.Errorf("turbojpeg header: %s", tjError(h))
		C.tjDestroy(h)
		return nil, err
	}

	cs := ColorSpace(colorspace)
	info := &ImageInfo{
		Width:         int(width),
		Height:        int(height),
		NumComponents: componentsOf(cs),
		Subsampling:   fromTJSamp(int(subsamp)),
		ColorSpace:    cs,
	}
	info.ICC, info.ICCErr = readICC(data)

	return &Decompressor{h: h, data: data, info: info}, nil
}

// Info returns the parsed header.
func (d *Decompressor) Info() *ImageInfo { return d.info }

// DecodeScaled decodes the image directly at 1/factor of its size.
// The scaling happens inside the IDCT, so no full-size image is ever built.
func (d *Decompressor) DecodeScaled(factor int) (*ir.RGBImage, error) {
	if !ValidFactor(factor) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFactor, factor)
	}
	if !factorOffered(SupportedScalingFactors(), factor) {
		return nil, fmt.Errorf("%w: libjpeg-turbo does not offer 1/%d", ErrInvalidFactor, factor)
	}
	if d.h == nil {
		return nil, fmt.Errorf("turbojpeg: decompressor is closed")
	}
	if !decodableToRGB(d.info.ColorSpace) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedColorSpace, d.info.ColorSpace)
	}

	sw, sh := ScaledSize(d.info.Width, d.info.Height, factor)
	img := ir.NewRGBImage(sw, sh)

	rc := C.tjDecompress2(d.h,
		(*C.uchar)(unsafe.Pointer(&d.data[0])), C.ulong(len(d.data)),
		(*C.uchar)(unsafe.Pointer(&img.Pixels[0])),
		C.int(sw), C.int(img.Stride), C.int(sh),
		C.int(C.TJPF_RGB), 0)
	if tjFailed(d.h, rc) {
		return nil, fmt.Errorf("turbojpeg decompress: %s", tjError(d.h))
	}
	return img, nil
}

// Close releases the TurboJPEG handle. It is safe to call more than once.
func (d *Decompressor) Close() error {
	if d.h != nil {
		C.tjDestroy(d.h)
		d.h = nil
	}
	return nil
}

// DecodeScaled decodes a JPEG from memory directly at 1/factor of its size.
func DecodeScaled(data []byte, factor int) (*ir.RGBImage, error) {
	if !ValidFactor(factor) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFactor, factor)
	}
	d, err := NewDecompressor(data)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return d.DecodeScaled(factor)
}
