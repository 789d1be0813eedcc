//go:build cgo && !purego

package jpeg

/*
#cgo pkg-config: libturbojpeg
#include <turbojpeg.h>
*/
import "C"

import "unsafe"

// Backend names the codec this package was built against.
const Backend = "libjpeg-turbo"

// tjError returns the last error message for handle h (or the global one
// when h is nil).
func tjError(h C.tjhandle) string {
	return C.GoString(C.tjGetErrorStr2(h))
}

// tjFailed reports whether rc signals a fatal error. TurboJPEG also returns
// -1 for recoverable libjpeg warnings; the output is still complete then.
func tjFailed(h C.tjhandle, rc C.int) bool {
	if rc == 0 {
		return false
	}
	return int(C.tjGetErrorCode(h)) != int(C.TJERR_WARNING)
}

// SupportedScalingFactors returns the fractions libjpeg-turbo can decode at.
func SupportedScalingFactors() []ScalingFactor {
	var n C.int
	sf := C.tjGetScalingFactors(&n)
	if sf == nil || n <= 0 {
		return nil
	}
	out := make([]ScalingFactor, 0, int(n))
	for _, f := range unsafe.Slice(sf, int(n)) {
		out = append(out, ScalingFactor{Num: int(f.num), Denom: int(f.denom)})
	}
	return out
}

// GetInfo reads JPEG metadata and extracts any ICC profile without decoding
// pixel data.
func GetInfo(data []byte) (*ImageInfo, error) {
	d, err := NewDecompressor(data)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	return d.Info(), nil
}

func componentsOf(cs ColorSpace) int {
	switch cs {
	case ColorSpaceGray:
		return 1
	case ColorSpaceCMYK, ColorSpaceYCCK:
		return 4
	default:
		return 3
	}
}

func fromTJSamp(s int) Subsampling {
	switch s {
	case int(C.TJSAMP_444):
		return Subsamp444
	case int(C.TJSAMP_422):
		return Subsamp422
	case int(C.TJSAMP_420):
		return Subsamp420
	case int(C.TJSAMP_GRAY):
		return SubsampGray
	case int(C.TJSAMP_440):
		return Subsamp440
	case int(C.TJSAMP_411):
		return Subsamp411
	default:
		return SubsampUnknown
	}
}

func toTJSamp(s Subsampling) (C.int, bool) {
	switch s {
	case Subsamp444:
		return C.int(C.TJSAMP_444), true
	case Subsamp422:
		return C.int(C.TJSAMP_422), true
	case Subsamp420:
		return C.int(C.TJSAMP_420), true
	case Subsamp440:
		return C.int(C.TJSAMP_440), true
	default:
		return 0, false
	}
}
