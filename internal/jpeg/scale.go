package jpeg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mactul/jpeg-turbo-examples/internal/ir"
)

var (
	ErrInvalidFactor          = errors.New("downscaling factor must be 1, 2, 4 or 8")
	ErrUnsupportedColorSpace  = errors.New("unsupported JPEG color space")
	ErrUnsupportedSubsampling = errors.New("unsupported chroma subsampling")
	errTooShort               = errors.New("data too short for JPEG")
)

const (
	DefaultQuality = 90
	MinQuality     = 1
	MaxQuality     = 100
)

// Factors lists the supported downscaling factors in increasing order.
var Factors = []int{1, 2, 4, 8}

// ValidFactor reports whether factor is one of the supported scaled-decode
// denominators.
func ValidFactor(factor int) bool {
	switch factor {
	case 1, 2, 4, 8:
		return true
	}
	return false
}

// ScaledSize returns the output dimensions of a 1/factor scaled decode,
// rounding up like TurboJPEG's TJSCALED.
func ScaledSize(width, height, factor int) (int, int) {
	return (width + factor - 1) / factor, (height + factor - 1) / factor
}

// Subsampling is a chroma subsampling mode. The zero value is unknown, which
// encoders treat as DefaultSubsampling.
type Subsampling int

const (
	SubsampUnknown Subsampling = iota
	Subsamp444
	Subsamp422
	Subsamp420
	SubsampGray
	Subsamp440
	Subsamp411
)

// DefaultSubsampling is what libjpeg's jpeg_set_defaults picks for YCbCr.
const DefaultSubsampling = Subsamp420

func (s Subsampling) String() string {
	switch s {
	case Subsamp444:
		return "4:4:4"
	case Subsamp422:
		return "4:2:2"
	case Subsamp420:
		return "4:2:0"
	case SubsampGray:
		return "Grayscale"
	case Subsamp440:
		return "4:4:0"
	case Subsamp411:
		return "4:1:1"
	default:
		return "Unknown"
	}
}

// ParseSubsampling accepts the encoder-selectable modes, with or without colons.
func ParseSubsampling(s string) (Subsampling, error) {
	switch strings.ReplaceAll(s, ":", "") {
	case "444":
		return Subsamp444, nil
	case "422":
		return Subsamp422, nil
	case "420":
		return Subsamp420, nil
	case "440":
		return Subsamp440, nil
	default:
		return SubsampUnknown, fmt.Errorf("%w: %q (want 444, 422, 420 or 440)", ErrUnsupportedSubsampling, s)
	}
}

// ColorSpace is the color space of a JPEG bitstream. The values match
// TurboJPEG's TJCS constants.
type ColorSpace int

const (
	ColorSpaceRGB   ColorSpace = 0
	ColorSpaceYCbCr ColorSpace = 1
	ColorSpaceGray  ColorSpace = 2
	ColorSpaceCMYK  ColorSpace = 3
	ColorSpaceYCCK  ColorSpace = 4
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceRGB:
		return "RGB"
	case ColorSpaceYCbCr:
		return "YCbCr"
	case ColorSpaceGray:
		return "Grayscale"
	case ColorSpaceCMYK:
		return "CMYK"
	case ColorSpaceYCCK:
		return "YCCK"
	default:
		return fmt.Sprintf("TJCS(%d)", int(c))
	}
}

// decodableToRGB reports whether the codec can produce RGB output for c.
func decodableToRGB(c ColorSpace) bool {
	return c == ColorSpaceRGB || c == ColorSpaceYCbCr || c == ColorSpaceGray
}

// ImageInfo contains metadata about a JPEG file.
type ImageInfo struct {
	Width         int
	Height        int
	NumComponents int
	Subsampling   Subsampling
	ColorSpace    ColorSpace
	ICC           []byte // extracted ICC profile, nil if absent
	ICCErr        error  // set when APP2 ICC chunks exist but cannot be reassembled
}

// EncoderOptions controls RGB JPEG encoding.
type EncoderOptions struct {
	Quality     int         // 1-100, default 90
	Subsampling Subsampling // default 4:2:0
}

func (o *EncoderOptions) setDefaults() error {
	if o.Quality == 0 {
		o.Quality = DefaultQuality
	}
	if o.Subsampling == SubsampUnknown {
		o.Subsampling = DefaultSubsampling
	}
	if o.Quality < MinQuality || o.Quality > MaxQuality {
		return fmt.Errorf("quality %d out of range [%d, %d]", o.Quality, MinQuality, MaxQuality)
	}
	return nil
}

// ScalingFactor is a decode-time scaling fraction Num/Denom.
type ScalingFactor struct {
	Num, Denom int
}

func (f ScalingFactor) String() string { return fmt.Sprintf("%d/%d", f.Num, f.Denom) }

func factorOffered(offered []ScalingFactor, factor int) bool {
	for _, f := range offered {
		if f.Num == 1 && f.Denom == factor {
			return true
		}
	}
	return false
}

func checkRGB(img *ir.RGBImage) error {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return errors.New("empty RGB image")
	}
	if img.Stride < img.Width*3 {
		return fmt.Errorf("stride %d too small for width %d", img.Stride, img.Width)
	}
	expected := img.Stride*(img.Height-1) + img.Width*3
	if len(img.Pixels) < expected {
		return fmt.Errorf("expected %d RGB bytes, got %d", expected, len(img.Pixels))
	}
	return nil
}
