// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/one2xopp/internal/convert"
	"github.com/pdiddy/one2xopp/internal/ledger"
	"github.com/pdiddy/one2xopp/pkg/notebook"
	"github.com/pdiddy/one2xopp/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert notebook section dumps to .xopp files",
	Long: `Convert renders every page of the given section dumps. Without file
arguments it converts each file in --input-dir whose name ends in
--input-ext.

By default each page becomes "<section> - <page title>.xopp" next to its
source; --aggregate-pages writes one "<section>.xopp" per source instead.
Sources whose content and settings are unchanged since the last run are
skipped unless --force is given.

A source that fails is reported and the remaining sources are still
converted; the command then exits with a non-zero status.`,
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.BoolP("aggregate-pages", "a", false, "write all pages of a section into one file")
	f.Float32P("scale", "s", types.DefaultScale, "scale applied to every offset and size")
	f.BoolP("output-xml", "x", false, "also write the uncompressed XML next to each .xopp")
	f.Float32P("page-padding", "p", types.DefaultPagePadding, "padding added to the right and bottom of each page")
	f.Float32("ink-width-factor", types.DefaultInkWidthFactor, "multiplier for the pen width of ink strokes")
	f.Float32P("min-page-width", "W", types.DefaultMinPageWidth, "minimum page width in points")
	f.Float32P("min-page-height", "H", types.DefaultMinPageHeight, "minimum page height in points")
	f.String("output-dir", "", "directory for output files (default: next to each source)")
	f.String("input-dir", ".", "directory scanned when no files are given")
	f.String("input-ext", types.DefaultInputExt, "file name suffix of section dumps")
	f.Bool("force", false, "convert sources even when unchanged since the last run")
	f.Bool("no-ledger", false, "do not read or update the conversion ledger")

	for key, flag := range map[string]string{
		"output.aggregate_pages":  "aggregate-pages",
		"render.scale":            "scale",
		"output.output_xml":       "output-xml",
		"render.page_padding":     "page-padding",
		"render.ink_width_factor": "ink-width-factor",
		"render.min_page_width":   "min-page-width",
		"render.min_page_height":  "min-page-height",
		"output.output_dir":       "output-dir",
		"input_dir":               "input-dir",
		"input_ext":               "input-ext",
		"force":                   "force",
		"ledger.disabled":         "no-ledger",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}

	viper.SetDefault("render.outline_offset_fit", types.DefaultOutlineOffsetFit)
	viper.SetDefault("render.image_offset_fit", types.DefaultImageOffsetFit)
	viper.SetDefault("render.image_scaling_fit", types.DefaultImageScalingFit)
	viper.SetDefault("render.ink_scaling_fit", types.DefaultInkScalingFit)
	viper.SetDefault("render.ink_offset", types.DefaultInkOffset)

	rootCmd.AddCommand(convertCmd)
}

// convertConfig assembles the run settings from viper.
func convertConfig() types.ConvertConfig {
	f32 := func(key string) float32 { return float32(viper.GetFloat64(key)) }
	return types.ConvertConfig{
		Render: types.RenderConfig{
			Scale:            f32("render.scale"),
			PagePadding:      f32("render.page_padding"),
			InkWidthFactor:   f32("render.ink_width_factor"),
			MinPageWidth:     f32("render.min_page_width"),
			MinPageHeight:    f32("render.min_page_height"),
			OutlineOffsetFit: f32("render.outline_offset_fit"),
			ImageOffsetFit:   f32("render.image_offset_fit"),
			ImageScalingFit:  f32("render.image_scaling_fit"),
			InkScalingFit:    f32("render.ink_scaling_fit"),
			InkOffset:        f32("render.ink_offset"),
		},
		Output: types.OutputConfig{
			AggregatePages: viper.GetBool("output.aggregate_pages"),
			OutputXML:      viper.GetBool("output.output_xml"),
			OutputDir:      viper.GetString("output.output_dir"),
		},
		InputDir: viper.GetString("input_dir"),
		InputExt: viper.GetString("input_ext"),
		Force:    viper.GetBool("force"),
	}
}

func ledgerConfig() types.LedgerConfig {
	return types.LedgerConfig{
		Path:     viper.GetString("ledger.path"),
		Disabled: viper.GetBool("ledger.disabled"),
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := convertConfig()

	paths := args
	if len(paths) == 0 {
		found, err := convert.Discover(cfg.InputDir, cfg.InputExt)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			fmt.Printf("No '*%s' file found in %s.\n", cfg.InputExt, cfg.InputDir)
			return nil
		}
		paths = found
	}

	var rec convert.Recorder = ledger.Nop{}
	lc := ledgerConfig()
	if !lc.Disabled {
		store, err := openRun(ctx, lc.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		rec = store
	}

	conv := convert.NewConverter(notebook.DumpParser{}, rec, cfg, logger)
	result, err := conv.ConvertBatch(ctx, paths, os.Stdout)

	if store, ok := rec.(*ledger.Store); ok {
		if ferr := store.FinishRun(context.WithoutCancel(ctx), result.Converted, result.Skipped, result.Failed); ferr != nil {
			logger.Warn("updating ledger", "err", ferr)
		}
	}

	if err != nil {
		return err
	}
	if result.HasFailures() {
		for _, e := range result.Errors {
			logger.Debug("failure", "stage", convert.StageOf(e), "err", e)
		}
		return fmt.Errorf("%d of %d file(s) failed", result.Failed, result.Total())
	}
	return nil
}

// openRun opens the ledger at path and registers a new run.
func openRun(ctx context.Context, path string) (*ledger.Store, error) {
	store, err := ledger.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	if err := store.BeginRun(ctx); err != nil {
		store.Close()
		return nil, err
	}
	logger.Debug("ledger run started", "path", path, "run", store.RunID())
	return store, nil
}
