//go:build !cgo || purego

package jpeg

// Backend names the codec this package was built against.
const Backend = "pure Go (image/jpeg + nfnt/resize)"

// SupportedScalingFactors returns the fractions DecodeScaled accepts.
func SupportedScalingFactors() []ScalingFactor {
	out := make([]ScalingFactor, 0, len(Factors))
	for _, f := range Factors {
		out = append(out, ScalingFactor{Num: 1, Denom: f})
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
	return d.Info(), nil
}
