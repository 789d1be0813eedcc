package jpeg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	markerSOF0  = 0xC0
	markerSOF15 = 0xCF
	markerDHT   = 0xC4
	markerJPG   = 0xC8
	markerDAC   = 0xCC
	markerRST0  = 0xD0
	markerRST7  = 0xD7
	markerSOI   = 0xD8
	markerEOI   = 0xD9
	markerSOS   = 0xDA
	markerAPP0  = 0xE0
	markerAPP2  = 0xE2
	markerAPP14 = 0xEE
	markerTEM   = 0x01
)

var errNotJPEG = errors.New("missing SOI marker, not a JPEG")

// walkSegments calls fn for every marker segment between SOI and the first
// SOS. fn gets the segment's byte offset (pointing at the 0xFF) and its
// payload without the length field.
func walkSegments(data []byte, fn func(marker byte, offset int, payload []byte) error) error {
	if len(data) < 4 {
		return errTooShort
	}
	if data[0] != 0xFF || data[1] != markerSOI {
		return errNotJPEG
	}
	pos := 2
	for {
		if pos >= len(data) {
			return io.ErrUnexpectedEOF
		}
		// Extraneous bytes before a marker are skipped, as libjpeg does.
		if data[pos] != 0xFF {
			pos++
			continue
		}
		start := pos
		for pos < len(data) && data[pos] == 0xFF {
			pos++
		}
		if pos >= len(data) {
			return io.ErrUnexpectedEOF
		}
		marker := data[pos]
		pos++

		switch {
		case marker == 0x00:
			continue // stuffed byte, not a marker
		case marker == markerSOS || marker == markerEOI:
			return nil
		case marker == markerTEM || (marker >= markerRST0 && marker <= markerRST7):
			continue
		}

		if pos+2 > len(data) {
			return io.ErrUnexpectedEOF
		}
		n := int(binary.BigEndian.Uint16(data[pos:]))
		if n < 2 || pos+n > len(data) {
			return fmt.Errorf("marker 0x%02x: bad segment length %d", marker, n)
		}
		if err := fn(marker, start, data[pos+2:pos+n]); err != nil {
			return err
		}
		pos += n
	}
}

func isSOF(marker byte) bool {
	return marker >= markerSOF0 && marker <= markerSOF15 &&
		marker != markerDHT && marker != markerJPG && marker != markerDAC
}

type frameComponent struct {
	id   byte
	h, v int
}

// parseHeader reads the frame header, APP14 and APP2 segments without
// touching entropy-coded data.
func parseHeader(data []byte) (*ImageInfo, error) {
	var (
		info  *ImageInfo
		comps []frameComponent
		adobe = -1
		app2  [][]byte
	)

	err := walkSegments(data, func(marker byte, _ int, p []byte) error {
		switch {
		case marker == markerAPP2:
			app2 = append(app2, p)
		case marker == markerAPP14:
			if len(p) >= 12 && string(p[:5]) == "Adobe" {
				adobe = int(p[11])
			}
		case isSOF(marker):
			if info != nil {
				return errors.New("multiple frame headers")
			}
			if len(p) < 6 {
				return errors.New("frame header too short")
			}
			nc := int(p[5])
			if nc == 0 || len(p) < 6+nc*3 {
				return fmt.Errorf("frame header: bad component count %d", nc)
			}
			info = &ImageInfo{
				Height:        int(binary.BigEndian.Uint16(p[1:3])),
				Width:         int(binary.BigEndian.Uint16(p[3:5])),
				NumComponents: nc,
			}
			for i := 0; i < nc; i++ {
				c := p[6+i*3:]
				comps = append(comps, frameComponent{id: c[0], h: int(c[1] >> 4), v: int(c[1] & 0x0f)})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, errors.New("no frame header before start of scan")
	}
	if info.Width == 0 || info.Height == 0 {
		return nil, fmt.Errorf("invalid image dimensions %dx%d", info.Width, info.Height)
	}

	info.ColorSpace = guessColorSpace(comps, adobe)
	info.Subsampling = subsamplingOf(comps)
	if info.ICC, err = ExtractICC(app2); err != nil {
		info.ICCErr = fmt.Errorf("extracting ICC: %w", err)
	}
	return info, nil
}

func guessColorSpace(comps []frameComponent, adobeTransform int) ColorSpace {
	switch len(comps) {
	case 1:
		return ColorSpaceGray
	case 3:
		if adobeTransform == 0 {
			return ColorSpaceRGB
		}
		if comps[0].id == 'R' && comps[1].id == 'G' && comps[2].id == 'B' {
			return ColorSpaceRGB
		}
		return ColorSpaceYCbCr
	case 4:
		if adobeTransform == 2 {
			return ColorSpaceYCCK
		}
		return ColorSpaceCMYK
	}
	return ColorSpace(-1)
}

func subsamplingOf(comps []frameComponent) Subsampling {
	if len(comps) == 1 {
		return SubsampGray
	}
	for _, c := range comps[1:] {
		if c.h != 1 || c.v != 1 {
			return SubsampUnknown
		}
	}
	switch [2]int{comps[0].h, comps[0].v} {
	case [2]int{1, 1}:
		return Subsamp444
	case [2]int{2, 1}:
		return Subsamp422
	case [2]int{2, 2}:
		return Subsamp420
	case [2]int{1, 2}:
		return Subsamp440
	case [2]int{4, 1}:
		return Subsamp411
	}
	return SubsampUnknown
}

// readICC collects the APP2 segments of data and reassembles any ICC profile.
// The returned error only describes the profile; callers treat it as
// non-fatal for the image itself.
func readICC(data []byte) ([]byte, error) {
	var app2 [][]byte
	err := walkSegments(data, func(marker byte, _ int, p []byte) error {
		if marker == markerAPP2 {
			app2 = append(app2, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading APP2 segments: %w", err)
	}
	icc, err := ExtractICC(app2)
	if err != nil {
		return nil, fmt.Errorf("extracting ICC: %w", err)
	}
	return icc, nil
}
