package pipeline

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mactul/jpeg-turbo-examples/internal/jpeg"
	"github.com/mactul/jpeg-turbo-examples/internal/logging"
	"github.com/mactul/jpeg-turbo-examples/internal/testutil"
)

// verifyOutput runs standard checks on the output of a pipeline run.
func verifyOutput(t *testing.T, name string, result *Result, wantW, wantH int) *jpeg.ImageInfo {
	t.Helper()

	if !testutil.HasJPEGMagic(result.Data) {
		t.Fatalf("[%s] output is not a valid JPEG (bad FFD8/FFD9 magic)", name)
	}

	info, err := jpeg.GetInfo(result.Data)
	if err != nil {
		t.Fatalf("[%s] GetInfo on output failed: %v", name, err)
	}
	if info.Width != wantW || info.Height != wantH {
		t.Errorf("[%s] output is %dx%d, want %dx%d", name, info.Width, info.Height, wantW, wantH)
	}
	if result.Width != wantW || result.Height != wantH {
		t.Errorf("[%s] result reports %dx%d, want %dx%d", name, result.Width, result.Height, wantW, wantH)
	}
	if info.NumComponents != 3 {
		t.Errorf("[%s] expected 3 components, got %d", name, info.NumComponents)
	}

	// independent decoder agrees
	if cfg := testutil.Config(t, result.Data); cfg.Width != wantW || cfg.Height != wantH {
		t.Errorf("[%s] image/jpeg reads %dx%d", name, cfg.Width, cfg.Height)
	}
	return info
}

func TestRun800x600Factor4(t *testing.T) {
	input := testutil.JPEG(t, 800, 600)

	var hookCalls int
	result, err := Run(input, Options{
		Factor:  4,
		Quality: 80,
		OnHeader: func(info *jpeg.ImageInfo, sw, sh int) {
			hookCalls++
			if info.Width != 800 || info.Height != 600 || sw != 200 || sh != 150 {
				t.Errorf("OnHeader(%dx%d, %dx%d)", info.Width, info.Height, sw, sh)
			}
		},
	})
	if err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}
	if hookCalls != 1 {
		t.Errorf("OnHeader called %d times", hookCalls)
	}
	if result.SrcWidth != 800 || result.SrcHeight != 600 {
		t.Errorf("source reported as %dx%d", result.SrcWidth, result.SrcHeight)
	}
	verifyOutput(t, "800x600/4", result, 200, 150)
}

func TestRunAllFactors(t *testing.T) {
	input := testutil.JPEG(t, 333, 97)
	for _, f := range jpeg.Factors {
		result, err := Run(input, Options{Factor: f, Quality: 90})
		if err != nil {
			t.Fatalf("factor %d: %v", f, err)
		}
		w, h := jpeg.ScaledSize(333, 97, f)
		verifyOutput(t, "333x97", result, w, h)
	}
}

func TestRunFactorOneKeepsSize(t *testing.T) {
	result, err := Run(testutil.JPEG(t, 64, 48), Options{Factor: 1, Quality: 90})
	if err != nil {
		t.Fatal(err)
	}
	verifyOutput(t, "identity", result, 64, 48)
}

func TestRunQualityBoundaries(t *testing.T) {
	input := testutil.JPEG(t, 160, 120)
	for _, q := range []int{jpeg.MinQuality, jpeg.MaxQuality} {
		result, err := Run(input, Options{Factor: 2, Quality: q})
		if err != nil {
			t.Fatalf("quality %d: %v", q, err)
		}
		verifyOutput(t, "quality-boundary", result, 80, 60)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	input := testutil.JPEG(t, 640, 480)
	opts := Options{Factor: 8, Quality: 85}

	a, err := Run(input, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Run(input, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Data, b.Data) {
		t.Error("two identical runs produced different output")
	}
}

func TestRunErrors(t *testing.T) {
	input := testutil.JPEG(t, 32, 32)

	if _, err := Run(input, Options{Factor: 3, Quality: 90}); !errors.Is(err, jpeg.ErrInvalidFactor) {
		t.Errorf("factor 3: expected ErrInvalidFactor, got %v", err)
	}
	if _, err := Run(input, Options{Factor: 2, Quality: 101}); err == nil {
		t.Error("quality 101 accepted")
	}

	called := false
	_, err := Run([]byte("not a jpeg at all"), Options{
		Factor:   2,
		Quality:  90,
		OnHeader: func(*jpeg.ImageInfo, int, int) { called = true },
	})
	if err == nil {
		t.Fatal("garbage input accepted")
	}
	if called {
		t.Error("OnHeader called for an unparseable header")
	}
}

func TestRunKeepICC(t *testing.T) {
	profile := testutil.FakeICC(4000, "RGB ", "mntr")
	input, err := jpeg.EmbedICC(testutil.JPEG(t, 100, 80), profile)
	if err != nil {
		t.Fatal(err)
	}

	plain, err := Run(input, Options{Factor: 2, Quality: 90})
	if err != nil {
		t.Fatal(err)
	}
	if info := verifyOutput(t, "no-keep", plain, 50, 40); info.ICC != nil {
		t.Error("profile copied without KeepICC")
	}

	kept, err := Run(input, Options{Factor: 2, Quality: 90, KeepICC: true})
	if err != nil {
		t.Fatal(err)
	}
	info := verifyOutput(t, "keep", kept, 50, 40)
	if !bytes.Equal(info.ICC, profile) {
		t.Errorf("embedded ICC profile missing or altered (%d bytes)", len(info.ICC))
	}
	if kept.ICCBytes != len(profile) || kept.ICCSkipped != nil {
		t.Errorf("ICCBytes=%d ICCSkipped=%v", kept.ICCBytes, kept.ICCSkipped)
	}
}

func TestRunKeepICCSkipsGrayProfile(t *testing.T) {
	input, err := jpeg.EmbedICC(testutil.JPEG(t, 40, 40), testutil.FakeICC(300, "GRAY", "mntr"))
	if err != nil {
		t.Fatal(err)
	}
	result, err := Run(input, Options{Factor: 2, Quality: 90, KeepICC: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.ICCSkipped == nil || result.ICCBytes != 0 {
		t.Errorf("gray profile should be skipped, got ICCBytes=%d skipped=%v", result.ICCBytes, result.ICCSkipped)
	}
	if info := verifyOutput(t, "gray-icc", result, 20, 20); info.ICC != nil {
		t.Error("gray profile was embedded into RGB output")
	}
}

func TestRunIncompleteICCIsNotFatal(t *testing.T) {
	// chunk 1 of 2, chunk 2 missing
	seg := testutil.ICCSegment(1, 2, testutil.FakeICC(300, "RGB ", "mntr"))
	input := testutil.AfterSOI(testutil.JPEG(t, 64, 48), seg)

	result, err := Run(input, Options{Factor: 2, Quality: 80})
	if err != nil {
		t.Fatalf("conversion failed on an incomplete ICC set: %v", err)
	}
	verifyOutput(t, "incomplete-icc", result, 32, 24)
	if result.ICCSkipped != nil {
		t.Errorf("ICCSkipped set without KeepICC: %v", result.ICCSkipped)
	}

	kept, err := Run(input, Options{Factor: 2, Quality: 80, KeepICC: true})
	if err != nil {
		t.Fatalf("KeepICC run failed: %v", err)
	}
	if kept.ICCSkipped == nil || kept.ICCBytes != 0 {
		t.Errorf("incomplete profile should be skipped, got ICCBytes=%d skipped=%v", kept.ICCBytes, kept.ICCSkipped)
	}
	if info := verifyOutput(t, "incomplete-icc-keep", kept, 32, 24); info.ICC != nil {
		t.Error("incomplete profile was embedded")
	}
}

func TestRunExtraneousBytesBeforeMarker(t *testing.T) {
	input := testutil.AfterSOI(testutil.JPEG(t, 64, 48), []byte{0, 0, 0})

	result, err := Run(input, Options{Factor: 4, Quality: 80})
	if err != nil {
		t.Fatalf("conversion failed on extraneous bytes: %v", err)
	}
	verifyOutput(t, "extraneous", result, 16, 12)
}

func TestRunLogsStages(t *testing.T) {
	var buf bytes.Buffer
	_, err := Run(testutil.JPEG(t, 40, 40), Options{
		Factor:  2,
		Quality: 90,
		Log:     logging.New(&buf, true),
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"decoded 40x40 -> 20x20", "encoded at quality 90"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log lacks %q: %q", want, buf.String())
		}
	}
}
