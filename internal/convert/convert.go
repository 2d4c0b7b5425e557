// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs notebook dumps through the renderer and writes
// Xournal++ session files, one per page or one per source document.
//
// Each input ends up converted, skipped or failed. A failed input does not
// stop the batch; the caller decides how to report BatchResult.Failed.
package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/one2xopp/internal/ledger"
	"github.com/pdiddy/one2xopp/internal/render"
	"github.com/pdiddy/one2xopp/internal/xopp"
	"github.com/pdiddy/one2xopp/pkg/notebook"
	"github.com/pdiddy/one2xopp/pkg/types"
)

// Recorder remembers converted inputs so unchanged ones can be skipped.
// *ledger.Store and ledger.Nop implement it.
type Recorder interface {
	Unchanged(ctx context.Context, source, fingerprint string) (bool, error)
	Record(ctx context.Context, rec types.ConversionRecord) error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int

	// Errors holds one *FileError per failed input, in input order.
	Errors []error
}

// Total returns the total number of inputs processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any input failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Converter converts notebook dumps into .xopp files.
type Converter struct {
	parser   notebook.Parser
	renderer *render.Renderer
	recorder Recorder
	cfg      types.ConvertConfig
	logger   *log.Logger

	// settings is the stable encoding of cfg folded into fingerprints.
	settings []byte
}

// NewConverter creates a Converter. A nil recorder disables skipping and a
// nil logger discards diagnostics.
func NewConverter(p notebook.Parser, rec Recorder, cfg types.ConvertConfig, logger *log.Logger) *Converter {
	if rec == nil {
		rec = ledger.Nop{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	settings, _ := json.Marshal(struct {
		Render types.RenderConfig `json:"render"`
		Output types.OutputConfig `json:"output"`
	}{cfg.Render, cfg.Output})

	return &Converter{
		parser:   p,
		renderer: render.New(cfg.Render, logger),
		recorder: rec,
		cfg:      cfg,
		logger:   logger,
		settings: settings,
	}
}

// ConvertFile converts the dump at path, printing one status line to w.
// The returned error is a *FileError when the status is ConversionFailed.
func (c *Converter) ConvertFile(ctx context.Context, path string, w io.Writer) (types.ConversionStatus, error) {
	stem := Stem(path, c.cfg.InputExt)
	out, ferr := c.convert(ctx, path, stem)
	switch {
	case ferr != nil:
		fmt.Fprintf(w, "failed:  %s (%v)\n", stem, ferr.Err)
		c.logger.Error("conversion failed", "file", path, "stage", ferr.Stage, "err", ferr.Err)
		return types.ConversionFailed, ferr
	case out.skipped:
		fmt.Fprintf(w, "skipped: %s (unchanged)\n", stem)
		return types.ConversionSkipped, nil
	}
	fmt.Fprintf(w, "converted: %s (%d pages, %d files)\n", stem, out.pages, len(out.outputs))
	return types.ConversionDone, nil
}

type outcome struct {
	skipped bool
	pages   int
	outputs []string
}

func (c *Converter) convert(ctx context.Context, path, stem string) (outcome, *FileError) {
	fingerprint, err := ledger.Fingerprint(path, c.settings)
	if err != nil {
		return outcome{}, fileError(path, types.StageParse, err)
	}

	if !c.cfg.Force {
		unchanged, err := c.recorder.Unchanged(ctx, path, fingerprint)
		if err != nil {
			c.logger.Warn("ledger lookup failed; converting anyway", "file", path, "err", err)
		}
		if unchanged {
			c.logger.Debug("unchanged since last run", "file", path)
			return outcome{skipped: true}, nil
		}
	}

	section, err := c.parser.ParseSection(path)
	if err != nil {
		return outcome{}, fileError(path, types.StageParse, err)
	}
	c.logger.Debug("parsed section", "file", path, "name", section.DisplayName, "pages", section.PageCount())

	pages := c.renderer.RenderSection(section)
	for _, p := range pages {
		c.logger.Debug("rendered page", "title", p.Title,
			"width", p.Width, "height", p.Height,
			"strokes", p.Strokes, "images", p.Images, "skipped", p.Skipped)
	}

	outDir := c.cfg.Output.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(path)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return outcome{}, fileError(path, types.StageWrite, err)
	}

	mode := types.ModePerPage
	if c.cfg.Output.AggregatePages {
		mode = types.ModeAggregate
	}
	outputs, err := c.write(outDir, stem, pages, mode)
	if err != nil {
		return outcome{}, fileError(path, types.StageWrite, err)
	}
	if outputs == nil {
		outputs = []string{}
	}

	err = c.recorder.Record(ctx, types.ConversionRecord{
		Source:      path,
		Fingerprint: fingerprint,
		Pages:       len(pages),
		Outputs:     outputs,
		Mode:        mode,
		ConvertedAt: time.Now(),
	})
	if err != nil {
		return outcome{}, fileError(path, types.StageLedger, err)
	}

	c.logger.Info("converted", "file", path, "pages", len(pages), "outputs", len(outputs))
	return outcome{pages: len(pages), outputs: outputs}, nil
}

// write stores pages under outDir and returns every path written, debug
// .xml dumps included.
func (c *Converter) write(outDir, stem string, pages []render.Page, mode types.OutputMode) ([]string, error) {
	withXML := c.cfg.Output.OutputXML

	if mode == types.ModeAggregate {
		blocks := make([]string, len(pages))
		for i, p := range pages {
			blocks[i] = p.Markup
		}
		paths, err := xopp.WriteFile(outDir, stem, xopp.Document(blocks...), withXML)
		if err != nil {
			return nil, err
		}
		return paths, nil
	}

	var outputs []string
	seen := make(map[string]string, len(pages))
	for _, p := range pages {
		name := PageFileName(stem, p.Title)
		if prev, ok := seen[name]; ok {
			c.logger.Warn("pages share an output name; later page overwrites", "name", name, "first", prev, "second", p.Title)
		}
		seen[name] = p.Title

		paths, err := xopp.WriteFile(outDir, name, xopp.Document(p.Markup), withXML)
		if err != nil {
			return outputs, err
		}
		for _, path := range paths {
			if !slices.Contains(outputs, path) {
				outputs = append(outputs, path)
			}
		}
	}
	return outputs, nil
}

// ConvertBatch converts paths in order, printing per-file status to w and
// a summary line at the end. Failed inputs are counted and the batch goes
// on. The error is non-nil only when ctx is cancelled between inputs.
func (c *Converter) ConvertBatch(ctx context.Context, paths []string, w io.Writer) (BatchResult, error) {
	var result BatchResult
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			printSummary(w, result)
			return result, err
		}
		status, err := c.ConvertFile(ctx, p, w)
		switch status {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionSkipped:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
			result.Errors = append(result.Errors, err)
		}
	}
	printSummary(w, result)
	return result, nil
}

func printSummary(w io.Writer, r BatchResult) {
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		r.Converted, r.Skipped, r.Failed, r.Total())
}

// Discover lists the regular files in dir whose names end in ext, sorted.
// Subdirectories are not searched.
func Discover(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fileError(dir, types.StageDiscover, err)
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
