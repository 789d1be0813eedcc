package main

import (
	"strconv"

	"github.com/mactul/jpeg-turbo-examples/internal/jpeg"
)

type cliArgs struct {
	factor     int
	input      string
	output     string
	quality    int
	hasQuality bool // quality given on the command line
}

// parseArgs validates the positional arguments. It does no I/O.
func parseArgs(args []string) (*cliArgs, error) {
	if len(args) < 3 || len(args) > 4 {
		return nil, newUsageError("expected 3 or 4 arguments, got %d", len(args))
	}

	factor, err := strconv.Atoi(args[0])
	if err != nil || !jpeg.ValidFactor(factor) {
		return nil, newUsageError("invalid downscaling factor %q", args[0])
	}

	a := &cliArgs{
		factor:  factor,
		input:   args[1],
		output:  args[2],
		quality: jpeg.DefaultQuality,
	}
	if len(args) == 4 {
		q, err := strconv.Atoi(args[3])
		if err != nil || q < jpeg.MinQuality || q > jpeg.MaxQuality {
			return nil, newUsageError("invalid jpeg quality %q", args[3])
		}
		a.quality = q
		a.hasQuality = true
	}
	return a, nil
}
