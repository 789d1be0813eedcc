// Package color inspects ICC profiles carried by JPEG files. Pixels are never
// converted; profiles are only described and passed through.
package color

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	maxProfileSize = 4 * 1024 * 1024 // 4 MB
	acspMagic      = 0x61637370      // 'acsp'
)

// ProfileInfo contains metadata parsed from an ICC profile header.
type ProfileInfo struct {
	Size       uint32 `json:"size"`
	Version    string `json:"version"`
	ColorSpace string `json:"colorSpace"` // "RGB ", "GRAY", "CMYK", ...
	PCS        string `json:"pcs"`        // "XYZ ", "Lab "
	Class      string `json:"class"`      // "mntr", "prtr", "scnr", ...
}

// ParseProfileInfo reads ICC header metadata from raw profile bytes.
func ParseProfileInfo(data []byte) (*ProfileInfo, error) {
	if len(data) < 128 {
		return nil, errors.New("ICC profile too short (< 128 bytes)")
	}
	if len(data) > maxProfileSize {
		return nil, fmt.Errorf("ICC profile too large (%d bytes, max %d)", len(data), maxProfileSize)
	}
	if sig := binary.BigEndian.Uint32(data[36:40]); sig != acspMagic {
		return nil, fmt.Errorf("invalid ICC signature: 0x%08x (expected 0x%08x)", sig, acspMagic)
	}
	size := binary.BigEndian.Uint32(data[0:4])
	if int(size) > len(data) {
		return nil, fmt.Errorf("ICC header declares %d bytes, only %d present", size, len(data))
	}

	return &ProfileInfo{
		Size:       size,
		Version:    fmt.Sprintf("%d.%d.%d", data[8], data[9]>>4, data[9]&0x0f),
		ColorSpace: string(data[16:20]),
		PCS:        string(data[20:24]),
		Class:      string(data[12:16]),
	}, nil
}

// MatchesRGB reports whether a profile can describe the RGB pixels this tool
// writes. Grayscale and CMYK profiles from the source do not.
func (p *ProfileInfo) MatchesRGB() bool {
	return p.ColorSpace == "RGB "
}

// ColorSpaceName returns a human-readable name for an ICC color space signature.
func ColorSpaceName(sig string) string {
	switch sig {
	case "RGB ":
		return "RGB"
	case "CMYK":
		return "CMYK"
	case "GRAY":
		return "Grayscale"
	case "Lab ":
		return "CIELAB"
	case "XYZ ":
		return "CIEXYZ"
	default:
		return sig
	}
}

// ProfileClassName returns a human-readable name for an ICC profile class.
func ProfileClassName(sig string) string {
	switch sig {
	case "mntr":
		return "Display"
	case "prtr":
		return "Output"
	case "scnr":
		return "Input"
	case "link":
		return "DeviceLink"
	case "spac":
		return "ColorSpace"
	case "abst":
		return "Abstract"
	case "nmcl":
		return "NamedColor"
	default:
		return sig
	}
}
