package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/mactul/jpeg-turbo-examples/internal/color"
	"github.com/mactul/jpeg-turbo-examples/internal/fileio"
	"github.com/mactul/jpeg-turbo-examples/internal/jpeg"
)

type scaledSize struct {
	Factor int `json:"factor"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type iccReport struct {
	Bytes   int                `json:"bytes"`
	Profile *color.ProfileInfo `json:"profile,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type identifyReport struct {
	File         string       `json:"file"`
	Size         int          `json:"size"`
	Width        int          `json:"width"`
	Height       int          `json:"height"`
	Components   int          `json:"components"`
	ColorSpace   string       `json:"colorSpace"`
	Subsampling  string       `json:"subsampling"`
	ICC          *iccReport   `json:"icc,omitempty"`
	Downscaled   []scaledSize `json:"downscaled"`
	CodecBackend string       `json:"backend"`
}

func newIdentifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identify <file>",
		Short: "Inspect image and ICC profile info",
		Args:  cobra.ExactArgs(1),
		RunE:  runIdentify,
	}
	cmd.Flags().Bool("json", false, "Print the report as JSON")
	return cmd
}

func buildReport(path string, data []byte) (*identifyReport, error) {
	info, err := jpeg.GetInfo(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	r := &identifyReport{
		File:         path,
		Size:         len(data),
		Width:        info.Width,
		Height:       info.Height,
		Components:   info.NumComponents,
		ColorSpace:   info.ColorSpace.String(),
		Subsampling:  info.Subsampling.String(),
		CodecBackend: jpeg.Backend,
	}
	for _, f := range jpeg.Factors {
		w, h := jpeg.ScaledSize(info.Width, info.Height, f)
		r.Downscaled = append(r.Downscaled, scaledSize{Factor: f, Width: w, Height: h})
	}
	switch {
	case info.ICCErr != nil:
		r.ICC = &iccReport{Error: info.ICCErr.Error()}
	case info.ICC != nil:
		r.ICC = &iccReport{Bytes: len(info.ICC)}
		if pi, err := color.ParseProfileInfo(info.ICC); err != nil {
			r.ICC.Error = err.Error()
		} else {
			r.ICC.Profile = pi
		}
	}
	return r, nil
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := fileio.Load(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	r, err := buildReport(path, data)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
		return nil
	}
	printReport(w, r)
	return nil
}

func printReport(w io.Writer, r *identifyReport) {
	fmt.Fprintf(w, "File:        %s\n", r.File)
	fmt.Fprintf(w, "Dimensions:  %d x %d\n", r.Width, r.Height)
	fmt.Fprintf(w, "Components:  %d\n", r.Components)
	fmt.Fprintf(w, "Color space: %s\n", r.ColorSpace)
	fmt.Fprintf(w, "Subsampling: %s\n", r.Subsampling)
	fmt.Fprintf(w, "File size:   %s\n", humanize.Bytes(uint64(r.Size)))

	switch {
	case r.ICC == nil:
		fmt.Fprintln(w, "ICC profile: none")
	case r.ICC.Bytes == 0:
		fmt.Fprintf(w, "ICC profile: unreadable: %s\n", r.ICC.Error)
	case r.ICC.Profile == nil:
		fmt.Fprintf(w, "ICC profile: present (%d bytes) but invalid: %s\n", r.ICC.Bytes, r.ICC.Error)
	default:
		pi := r.ICC.Profile
		fmt.Fprintf(w, "ICC profile: %d bytes\n", r.ICC.Bytes)
		fmt.Fprintf(w, "  Version:     %s\n", pi.Version)
		fmt.Fprintf(w, "  Color space: %s\n", color.ColorSpaceName(pi.ColorSpace))
		fmt.Fprintf(w, "  PCS:         %s\n", color.ColorSpaceName(pi.PCS))
		fmt.Fprintf(w, "  Class:       %s\n", color.ProfileClassName(pi.Class))
	}

	fmt.Fprintln(w, "Downscaled:")
	for _, s := range r.Downscaled {
		fmt.Fprintf(w, "  1/%d  %d x %d\n", s.Factor, s.Width, s.Height)
	}
}
