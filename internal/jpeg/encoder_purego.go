//go:build !cgo || purego

package jpeg

import (
	"bytes"
	"fmt"
	stdjpeg "image/jpeg"

	"github.com/mactul/jpeg-turbo-examples/internal/ir"
)

// EncodeRGB compresses packed RGB pixels to a baseline JPEG. The standard
// library encoder always writes 4:2:0, so other modes are rejected.
func EncodeRGB(img *ir.RGBImage, opts EncoderOptions) ([]byte, error) {
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}
	if err := checkRGB(img); err != nil {
		return nil, err
	}
	if opts.Subsampling != Subsamp420 {
		return nil, fmt.Errorf("%w: %s (pure Go encoder writes 4:2:0 only)", ErrUnsupportedSubsampling, opts.Subsampling)
	}

	var buf bytes.Buffer
	buf.Grow(img.Width * img.Height / 2)
	if err := stdjpeg.Encode(&buf, img, &stdjpeg.Options{Quality: opts.Quality}); err != nil {
		return nil, fmt.Errorf("jpeg encode: %w", err)
	}
	return buf.Bytes(), nil
}
