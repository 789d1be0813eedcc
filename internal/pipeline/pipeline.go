package pipeline

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mactul/jpeg-turbo-examples/internal/color"
	"github.com/mactul/jpeg-turbo-examples/internal/jpeg"
	"github.com/mactul/jpeg-turbo-examples/internal/logging"
)

// Options controls a downscale run.
type Options struct {
	Factor      int              // 1, 2, 4 or 8
	Quality     int              // JPEG quality (1-100)
	Subsampling jpeg.Subsampling // output chroma subsampling
	KeepICC     bool             // copy an RGB ICC profile from input to output

	// OnHeader, if set, is called once the header is parsed and before any
	// pixel data is decoded.
	OnHeader func(info *jpeg.ImageInfo, scaledWidth, scaledHeight int)

	Log *zap.SugaredLogger // stage timings at debug level; nil discards
}

// Result holds the output of a pipeline run.
type Result struct {
	Data      []byte // encoded JPEG
	SrcWidth  int
	SrcHeight int
	Width     int
	Height    int

	ICCBytes   int   // size of the embedded ICC profile, 0 if none
	ICCSkipped error // why a source profile was not carried over
}

// Run executes header parse → scaled decode → encode on an in-memory JPEG.
func Run(jpegData []byte, opts Options) (*Result, error) {
	if !jpeg.ValidFactor(opts.Factor) {
		return nil, fmt.Errorf("%w: got %d", jpeg.ErrInvalidFactor, opts.Factor)
	}

	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}

	// 1. Header only. The same session decodes below.
	start := time.Now()
	dec, err := jpeg.NewDecompressor(jpegData)
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	defer dec.Close()

	info := dec.Info()
	sw, sh := jpeg.ScaledSize(info.Width, info.Height, opts.Factor)
	if opts.OnHeader != nil {
		opts.OnHeader(info, sw, sh)
	}

	// 2. Scaled decode to packed RGB
	img, err := dec.DecodeScaled(opts.Factor)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	log.Debugf("decoded %dx%d -> %dx%d in %v", info.Width, info.Height, sw, sh, time.Since(start))
	if img.Width != sw || img.Height != sh {
		return nil, fmt.Errorf("decode: got %dx%d, expected %dx%d", img.Width, img.Height, sw, sh)
	}

	// 3. Encode
	start = time.Now()
	encoded, err := jpeg.EncodeRGB(img, jpeg.EncoderOptions{
		Quality:     opts.Quality,
		Subsampling: opts.Subsampling,
	})
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	log.Debugf("encoded at quality %d in %v", opts.Quality, time.Since(start))

	res := &Result{
		Data:      encoded,
		SrcWidth:  info.Width,
		SrcHeight: info.Height,
		Width:     sw,
		Height:    sh,
	}

	// 4. Optional ICC pass-through
	if opts.KeepICC && info.ICCErr != nil {
		res.ICCSkipped = info.ICCErr
	} else if opts.KeepICC && info.ICC != nil {
		pi, err := color.ParseProfileInfo(info.ICC)
		switch {
		case err != nil:
			res.ICCSkipped = err
		case !pi.MatchesRGB():
			res.ICCSkipped = fmt.Errorf("source profile is %s, output is RGB", color.ColorSpaceName(pi.ColorSpace))
		default:
			withICC, err := jpeg.EmbedICC(encoded, info.ICC)
			if err != nil {
				return nil, fmt.Errorf("icc: %w", err)
			}
			res.Data = withICC
			res.ICCBytes = len(info.ICC)
		}
	}

	return res, nil
}
