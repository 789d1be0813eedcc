package main

import (
	"errors"
	"testing"
)

func TestParseArgs(t *testing.T) {
	a, err := parseArgs([]string{"4", "in.jpg", "out.jpg", "80"})
	if err != nil {
		t.Fatal(err)
	}
	if a.factor != 4 || a.input != "in.jpg" || a.output != "out.jpg" || a.quality != 80 || !a.hasQuality {
		t.Errorf("parsed %+v", a)
	}

	a, err = parseArgs([]string{"1", "in.jpg", "out.jpg"})
	if err != nil {
		t.Fatal(err)
	}
	if a.quality != 90 || a.hasQuality {
		t.Errorf("default quality: got %d (hasQuality=%v)", a.quality, a.hasQuality)
	}
}

func TestParseArgsRejects(t *testing.T) {
	cases := map[string][]string{
		"no args":        nil,
		"two args":       {"2", "in.jpg"},
		"five args":      {"2", "in.jpg", "out.jpg", "90", "extra"},
		"factor 0":       {"0", "in.jpg", "out.jpg"},
		"factor 3":       {"3", "in.jpg", "out.jpg"},
		"factor 16":      {"16", "in.jpg", "out.jpg"},
		"factor -1":      {"-1", "in.jpg", "out.jpg"},
		"factor abc":     {"abc", "in.jpg", "out.jpg"},
		"factor 2x":      {"2x", "in.jpg", "out.jpg"},
		"quality 0":      {"2", "in.jpg", "out.jpg", "0"},
		"quality 101":    {"2", "in.jpg", "out.jpg", "101"},
		"quality text":   {"2", "in.jpg", "out.jpg", "high"},
		"quality spaced": {"2", "in.jpg", "out.jpg", " 80"},
	}
	for name, args := range cases {
		_, err := parseArgs(args)
		var ue *usageError
		if !errors.As(err, &ue) {
			t.Errorf("%s: expected usage error, got %v", name, err)
		}
	}
}

func TestParseArgsQualityBoundaries(t *testing.T) {
	for _, q := range []string{"1", "100"} {
		if _, err := parseArgs([]string{"8", "in.jpg", "out.jpg", q}); err != nil {
			t.Errorf("quality %s rejected: %v", q, err)
		}
	}
}
