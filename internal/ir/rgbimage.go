package ir

import (
	"image"
	"image/color"
)

// RGBImage is the intermediate representation passed between the scaled
// decoder and the JPEG encoder. Pixels are stored as interleaved R,G,B
// bytes (3 bytes per pixel, row-major order, no padding between rows).
type RGBImage struct {
	Width  int
	Height int
	Stride int    // bytes between vertically adjacent pixels, Width * 3
	Pixels []byte // len = Stride * Height
}

// NewRGBImage allocates a zeroed, tightly packed RGB buffer.
func NewRGBImage(width, height int) *RGBImage {
	return &RGBImage{
		Width:  width,
		Height: height,
		Stride: width * 3,
		Pixels: make([]byte, width*height*3),
	}
}

func (p *RGBImage) ColorModel() color.Model { return color.RGBAModel }

func (p *RGBImage) Bounds() image.Rectangle { return image.Rect(0, 0, p.Width, p.Height) }

func (p *RGBImage) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= p.Width || y >= p.Height {
		return color.RGBA{}
	}
	i := y*p.Stride + x*3
	s := p.Pixels[i : i+3 : i+3]
	return color.RGBA{R: s[0], G: s[1], B: s[2], A: 0xff}
}

// FromImage packs any image.Image into a tightly packed RGB buffer.
// Alpha is dropped.
func FromImage(src image.Image) *RGBImage {
	b := src.Bounds()
	dst := NewRGBImage(b.Dx(), b.Dy())

	switch m := src.(type) {
	case *image.RGBA:
		for y := 0; y < dst.Height; y++ {
			in := m.Pix[(y+b.Min.Y-m.Rect.Min.Y)*m.Stride+(b.Min.X-m.Rect.Min.X)*4:]
			out := dst.Pixels[y*dst.Stride : (y+1)*dst.Stride]
			for x := 0; x < dst.Width; x++ {
				out[x*3] = in[x*4]
				out[x*3+1] = in[x*4+1]
				out[x*3+2] = in[x*4+2]
			}
		}
	case *image.YCbCr:
		for y := 0; y < dst.Height; y++ {
			out := dst.Pixels[y*dst.Stride : (y+1)*dst.Stride]
			for x := 0; x < dst.Width; x++ {
				yi := m.YOffset(x+b.Min.X, y+b.Min.Y)
				ci := m.COffset(x+b.Min.X, y+b.Min.Y)
				r, g, bb := color.YCbCrToRGB(m.Y[yi], m.Cb[ci], m.Cr[ci])
				out[x*3], out[x*3+1], out[x*3+2] = r, g, bb
			}
		}
	case *image.Gray:
		for y := 0; y < dst.Height; y++ {
			in := m.Pix[(y+b.Min.Y-m.Rect.Min.Y)*m.Stride+(b.Min.X-m.Rect.Min.X):]
			out := dst.Pixels[y*dst.Stride : (y+1)*dst.Stride]
			for x := 0; x < dst.Width; x++ {
				out[x*3], out[x*3+1], out[x*3+2] = in[x], in[x], in[x]
			}
		}
	default:
		for y := 0; y < dst.Height; y++ {
			out := dst.Pixels[y*dst.Stride : (y+1)*dst.Stride]
			for x := 0; x < dst.Width; x++ {
				r, g, bb, _ := src.At(x+b.Min.X, y+b.Min.Y).RGBA()
				out[x*3], out[x*3+1], out[x*3+2] = uint8(r>>8), uint8(g>>8), uint8(bb>>8)
			}
		}
	}
	return dst
}
