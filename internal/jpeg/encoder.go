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

// EncodeRGB compresses packed RGB pixels to a baseline JPEG in one call.
// The bitstream is allocated by TurboJPEG and copied into Go memory.
func EncodeRGB(img *ir.RGBImage, opts EncoderOptions) ([]byte, error) {
	if err := opts.setDefaults(); err != nil {
		return nil, err
	}
	if err := checkRGB(img); err != nil {
		return nil, err
	}
	samp, ok := toTJSamp(opts.Subsampling)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSubsampling, opts.Subsampling)
	}

	h := C.tjInitCompress()
	if h == nil {
		return nil, fmt.Errorf("turbojpeg init: %s", tjError(nil))
	}
	defer C.tjDestroy(h)

	var (
		buf  *C.uchar
		size C.ulong
	)
	defer func() {
		if buf != nil {
			C.tjFree(buf)
		}
	}()

	rc := C.tjCompress2(h,
		(*C.uchar)(unsafe.Pointer(&img.Pixels[0])),
		C.int(img.Width), C.int(img.Stride), C.int(img.Height),
		C.int(C.TJPF_RGB), &buf, &size, samp, C.int(opts.Quality), 0)
	if tjFailed(h, rc) {
		return nil, fmt.Errorf("turbojpeg compress: %s", tjError(h))
	}
	if buf == nil || size == 0 {
		return nil, fmt.Errorf("turbojpeg compress: empty output")
	}

	return C.GoBytes(unsafe.Pointer(buf), C.int(size)), nil
}
