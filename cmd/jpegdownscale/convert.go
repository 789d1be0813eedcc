package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mactul/jpeg-turbo-examples/internal/config"
	"github.com/mactul/jpeg-turbo-examples/internal/fileio"
	"github.com/mactul/jpeg-turbo-examples/internal/jpeg"
	"github.com/mactul/jpeg-turbo-examples/internal/logging"
	"github.com/mactul/jpeg-turbo-examples/internal/pipeline"
)

func addConvertFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "YAML file with default settings")
	cmd.Flags().String("subsampling", "420", "Output chroma subsampling (444, 422, 420, 440)")
	cmd.Flags().Bool("keep-icc", false, "Copy an RGB ICC profile from the input to the output")
	cmd.Flags().BoolP("verbose", "v", false, "Log progress to stderr")
}

// settings merges the config file with any flags set explicitly.
func settings(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("subsampling") {
		cfg.Subsampling, _ = cmd.Flags().GetString("subsampling")
		if _, err := jpeg.ParseSubsampling(cfg.Subsampling); err != nil {
			return nil, newUsageError("%v", err)
		}
	}
	if cmd.Flags().Changed("keep-icc") {
		cfg.KeepICC, _ = cmd.Flags().GetBool("keep-icc")
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	}
	return cfg, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	a, err := parseArgs(args)
	if err != nil {
		return err
	}
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	quality := cfg.Quality
	if a.hasQuality {
		quality = a.quality
	}

	log := logging.New(cmd.ErrOrStderr(), cfg.Verbose)
	defer log.Sync()
	log.Debugf("backend: %s", jpeg.Backend)

	start := time.Now()
	inputData, err := fileio.Load(a.input)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	log.Debugf("read %s (%s)", a.input, humanize.Bytes(uint64(len(inputData))))

	stdout := cmd.OutOrStdout()
	opts := pipeline.Options{
		Factor:      a.factor,
		Quality:     quality,
		Subsampling: cfg.SubsamplingMode(),
		KeepICC:     cfg.KeepICC,
		Log:         log,
		OnHeader: func(info *jpeg.ImageInfo, w, h int) {
			fmt.Fprintf(stdout, "Original: %dx%d\n", info.Width, info.Height)
			fmt.Fprintf(stdout, "Downscaled: %dx%d\n", w, h)
			log.Debugf("input: %d components, %s, %s", info.NumComponents, info.ColorSpace, info.Subsampling)
		},
	}

	result, err := pipeline.Run(inputData, opts)
	if err != nil {
		return err
	}
	if result.ICCSkipped != nil {
		log.Warnf("ICC profile not copied: %v", result.ICCSkipped)
	} else if result.ICCBytes > 0 {
		log.Debugf("embedded ICC profile (%s)", humanize.Bytes(uint64(result.ICCBytes)))
	}
	log.Debugf("encoded %dx%d at quality %d, %s (%s) in %v",
		result.Width, result.Height, quality, opts.Subsampling,
		humanize.Bytes(uint64(len(result.Data))), time.Since(start).Round(time.Millisecond))

	if err := fileio.Save(a.output, result.Data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	fmt.Fprintf(stdout, "Saved downscaled image to %s\n", a.output)
	return nil
}
