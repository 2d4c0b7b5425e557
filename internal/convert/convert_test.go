// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/one2xopp/internal/ledger"
	"github.com/pdiddy/one2xopp/internal/xopp"
	"github.com/pdiddy/one2xopp/pkg/notebook"
	"github.com/pdiddy/one2xopp/pkg/types"
)

// fakeParser returns canned sections or errors keyed by path.
type fakeParser struct {
	sections map[string]*notebook.Section
	errors   map[string]error
	calls    []string
}

func (f *fakeParser) ParseSection(path string) (*notebook.Section, error) {
	f.calls = append(f.calls, path)
	if err, ok := f.errors[path]; ok {
		return nil, err
	}
	if s, ok := f.sections[path]; ok {
		return s, nil
	}
	return &notebook.Section{}, nil
}

// failingRecorder never skips and fails every Record.
type failingRecorder struct{}

func (failingRecorder) Unchanged(context.Context, string, string) (bool, error) {
	return false, errors.New("locked")
}

func (failingRecorder) Record(context.Context, types.ConversionRecord) error {
	return errors.New("disk full")
}

func testConfig() types.ConvertConfig {
	return types.ConvertConfig{
		Render:   types.DefaultRenderConfig(),
		InputExt: types.DefaultInputExt,
	}
}

func titled(title string) notebook.Page {
	return notebook.Page{Title: &title}
}

func threePages() *notebook.Section {
	return &notebook.Section{PageSeries: []notebook.PageSeries{
		{Pages: []notebook.Page{titled("Lecture 1"), {}}},
		{Pages: []notebook.Page{titled(" Lab/2 ")}},
	}}
}

// setupSource writes a placeholder dump and returns its path.
func setupSource(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("display_name: "+name+"\n"), 0o644))
	return path
}

func TestConvertFile_PerPage(t *testing.T) {
	dir := t.TempDir()
	src := setupSource(t, dir, "notes.one.yaml")
	p := &fakeParser{sections: map[string]*notebook.Section{src: threePages()}}

	var out bytes.Buffer
	status, err := NewConverter(p, nil, testConfig(), nil).ConvertFile(context.Background(), src, &out)
	require.NoError(t, err)
	assert.Equal(t, types.ConversionDone, status)
	assert.Equal(t, "converted: notes (3 pages, 3 files)\n", out.String())

	for _, name := range []string{"notes - Lecture 1", "notes - Untitled Page 1", "notes - Lab_2"} {
		s, err := xopp.InspectFile(filepath.Join(dir, name+xopp.Ext))
		require.NoError(t, err, name)
		assert.Equal(t, name+".xml", s.Name)
		require.Len(t, s.Pages, 1)
		assert.InDelta(t, 625.2756, s.Pages[0].Width, 1e-4)
	}
	assert.NoFileExists(t, filepath.Join(dir, "notes - Lecture 1.xml"))
}

func TestConvertFile_Aggregate(t *testing.T) {
	tests := []struct {
		name      string
		outputXML bool
		wantLine  string
	}{
		{name: "container only", wantLine: "(3 pages, 1 files)"},
		{name: "with debug xml", outputXML: true, wantLine: "(3 pages, 2 files)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := setupSource(t, dir, "notes.one.yaml")
			p := &fakeParser{sections: map[string]*notebook.Section{src: threePages()}}

			cfg := testConfig()
			cfg.Output.AggregatePages = true
			cfg.Output.OutputXML = tt.outputXML

			var out bytes.Buffer
			status, err := NewConverter(p, nil, cfg, nil).ConvertFile(context.Background(), src, &out)
			require.NoError(t, err)
			assert.Equal(t, types.ConversionDone, status)
			assert.Contains(t, out.String(), tt.wantLine)

			s, err := xopp.InspectFile(filepath.Join(dir, "notes.xopp"))
			require.NoError(t, err)
			assert.Equal(t, "notes.xml", s.Name)
			assert.Len(t, s.Pages, 3)

			if tt.outputXML {
				assert.FileExists(t, filepath.Join(dir, "notes.xml"))
			} else {
				assert.NoFileExists(t, filepath.Join(dir, "notes.xml"))
			}
		})
	}
}

func TestConvertFile_OutputDir(t *testing.T) {
	dir := t.TempDir()
	src := setupSource(t, dir, "notes.one.yaml")
	p := &fakeParser{sections: map[string]*notebook.Section{src: threePages()}}

	cfg := testConfig()
	cfg.Output.AggregatePages = true
	cfg.Output.OutputDir = filepath.Join(dir, "out", "nested")

	var out bytes.Buffer
	_, err := NewConverter(p, nil, cfg, nil).ConvertFile(context.Background(), src, &out)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "out", "nested", "notes.xopp"))
	assert.NoFileExists(t, filepath.Join(dir, "notes.xopp"))
}

func TestConvertFile_Failures(t *testing.T) {
	errBadDump := errors.New("bad dump")

	tests := []struct {
		name      string
		missing   bool
		parseErr  error
		recorder  Recorder
		wantStage types.Stage
		wantLog   string
	}{
		{name: "source missing", missing: true, wantStage: types.StageParse, wantLog: "failed:  notes ("},
		{name: "parse error", parseErr: errBadDump, wantStage: types.StageParse, wantLog: "failed:  notes (bad dump)"},
		{name: "ledger error", recorder: failingRecorder{}, wantStage: types.StageLedger, wantLog: "failed:  notes (disk full)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "notes.one.yaml")
			if !tt.missing {
				setupSource(t, dir, "notes.one.yaml")
			}
			p := &fakeParser{errors: map[string]error{}}
			if tt.parseErr != nil {
				p.errors[src] = tt.parseErr
			}

			var out bytes.Buffer
			status, err := NewConverter(p, tt.recorder, testConfig(), nil).ConvertFile(context.Background(), src, &out)
			require.Error(t, err)
			assert.Equal(t, types.ConversionFailed, status)
			assert.Equal(t, tt.wantStage, StageOf(err))
			assert.Contains(t, out.String(), tt.wantLog)

			var fe *FileError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, src, fe.Path)
			if tt.parseErr != nil {
				assert.ErrorIs(t, err, tt.parseErr)
			}
		})
	}
}

func TestConvertFile_LedgerSkip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := setupSource(t, dir, "notes.one.yaml")

	store, err := ledger.Open(ctx, filepath.Join(dir, "ledger.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.BeginRun(ctx))

	p := &fakeParser{sections: map[string]*notebook.Section{src: threePages()}}
	convertOnce := func(cfg types.ConvertConfig) types.ConversionStatus {
		var out bytes.Buffer
		status, err := NewConverter(p, store, cfg, nil).ConvertFile(ctx, src, &out)
		require.NoError(t, err)
		return status
	}

	cfg := testConfig()
	assert.Equal(t, types.ConversionDone, convertOnce(cfg))
	assert.Equal(t, types.ConversionSkipped, convertOnce(cfg))

	forced := cfg
	forced.Force = true
	assert.Equal(t, types.ConversionDone, convertOnce(forced))

	changed := cfg
	changed.Render.Scale = 2
	assert.Equal(t, types.ConversionDone, convertOnce(changed))
	assert.Equal(t, types.ConversionSkipped, convertOnce(changed))

	require.NoError(t, os.Remove(filepath.Join(dir, "notes - Lab_2.xopp")))
	assert.Equal(t, types.ConversionDone, convertOnce(changed))

	require.NoError(t, os.WriteFile(src, []byte("display_name: edited\n"), 0o644))
	assert.Equal(t, types.ConversionDone, convertOnce(changed))

	assert.Len(t, p.calls, 5)

	history, err := store.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, src, history[0].Source)
	assert.Equal(t, 3, history[0].Pages)
	assert.Len(t, history[0].Outputs, 3)
	assert.Equal(t, types.ModePerPage, history[0].Mode)
}

func TestConvertFile_LedgerTracksDebugXML(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := setupSource(t, dir, "notes.one.yaml")

	store, err := ledger.Open(ctx, filepath.Join(dir, "ledger.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.BeginRun(ctx))

	cfg := testConfig()
	cfg.Output.AggregatePages = true
	cfg.Output.OutputXML = true
	p := &fakeParser{sections: map[string]*notebook.Section{src: threePages()}}
	conv := NewConverter(p, store, cfg, nil)

	var out bytes.Buffer
	status, err := conv.ConvertFile(ctx, src, &out)
	require.NoError(t, err)
	require.Equal(t, types.ConversionDone, status)

	xmlPath := filepath.Join(dir, "notes.xml")
	require.NoError(t, os.Remove(xmlPath))

	status, err = conv.ConvertFile(ctx, src, &out)
	require.NoError(t, err)
	assert.Equal(t, types.ConversionDone, status)
	assert.FileExists(t, xmlPath)

	history, err := store.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.ElementsMatch(t, []string{xmlPath, filepath.Join(dir, "notes.xopp")}, history[0].Outputs)
}

func TestConvertBatch_SharedOutputDir(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	for _, sub := range []string{"a", "b"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o755))
	}
	first := setupSource(t, filepath.Join(dir, "a"), "notes.one.yaml")
	second := setupSource(t, filepath.Join(dir, "b"), "notes.one.yaml")

	store, err := ledger.Open(ctx, filepath.Join(dir, "ledger.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.BeginRun(ctx))

	outDir := filepath.Join(dir, "out")
	cfg := testConfig()
	cfg.Output.AggregatePages = true
	cfg.Output.OutputDir = outDir
	p := &fakeParser{sections: map[string]*notebook.Section{
		first:  {PageSeries: []notebook.PageSeries{{Pages: []notebook.Page{titled("Only")}}}},
		second: threePages(),
	}}
	conv := NewConverter(p, store, cfg, nil)

	var out bytes.Buffer
	result, err := conv.ConvertBatch(ctx, []string{first, second}, &out)
	require.NoError(t, err)
	require.Equal(t, 2, result.Converted)

	// The second source overwrote notes.xopp, so the first is stale.
	result, err = conv.ConvertBatch(ctx, []string{first}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Converted)
	assert.Equal(t, 0, result.Skipped)

	s, err := xopp.InspectFile(filepath.Join(outDir, "notes.xopp"))
	require.NoError(t, err)
	assert.Len(t, s.Pages, 1)
}

func TestConvertFile_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	src := setupSource(t, dir, "notes.one.yaml")
	p := &fakeParser{sections: map[string]*notebook.Section{src: {PageSeries: []notebook.PageSeries{
		{Pages: []notebook.Page{titled("Summary"), titled("Summary ")}},
	}}}}

	var logs, out bytes.Buffer
	_, err := NewConverter(p, nil, testConfig(), log.New(&logs)).ConvertFile(context.Background(), src, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "(2 pages, 1 files)")
	assert.Contains(t, logs.String(), "pages share an output name")
	assert.FileExists(t, filepath.Join(dir, "notes - Summary.xopp"))
}

func TestConvertFile_DumpParser(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "Physics.one.yaml")
	dump := `
display_name: Physics
page_series:
  - pages:
      - title: Waves
        contents:
          - ink:
              strokes:
                - color: 16777215
                  path: [[0, 0], [100, 100], [100, 100], [100, 100]]
          - outline:
              offset_horizontal: 1
              offset_vertical: 1
              items:
                - element:
                    contents:
                      - image: {data: aGk=, layout_max_width: 10, layout_max_height: 10}
`
	require.NoError(t, os.WriteFile(src, []byte(dump), 0o644))

	var out bytes.Buffer
	status, err := NewConverter(notebook.DumpParser{}, nil, testConfig(), nil).ConvertFile(context.Background(), src, &out)
	require.NoError(t, err)
	assert.Equal(t, types.ConversionDone, status)

	s, err := xopp.InspectFile(filepath.Join(dir, "Physics - Waves.xopp"))
	require.NoError(t, err)
	require.Len(t, s.Pages, 1)
	assert.Equal(t, 1, s.Pages[0].Strokes)
	assert.Equal(t, 1, s.Pages[0].Images)
	assert.Equal(t, "solid", s.Pages[0].Background)
}

func TestConvertBatch(t *testing.T) {
	dir := t.TempDir()
	a := setupSource(t, dir, "a.one.yaml")
	b := setupSource(t, dir, "b.one.yaml")
	c := setupSource(t, dir, "c.one.yaml")

	p := &fakeParser{
		sections: map[string]*notebook.Section{a: threePages(), c: threePages()},
		errors:   map[string]error{b: errors.New("truncated")},
	}

	var out bytes.Buffer
	result, err := NewConverter(p, nil, testConfig(), nil).ConvertBatch(context.Background(), []string{a, b, c}, &out)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Converted)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 3, result.Total())
	assert.True(t, result.HasFailures())
	require.Len(t, result.Errors, 1)
	assert.Equal(t, types.StageParse, StageOf(result.Errors[0]))

	assert.Equal(t, []string{a, b, c}, p.calls, "batch continues after a failure")
	assert.FileExists(t, filepath.Join(dir, "c - Lecture 1.xopp"))
	assert.Contains(t, out.String(), "failed:  b (truncated)")
	assert.Contains(t, out.String(), "Batch summary: 2 converted, 0 skipped, 1 failed (total: 3)")
}

func TestConvertBatch_Cancelled(t *testing.T) {
	dir := t.TempDir()
	a := setupSource(t, dir, "a.one.yaml")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := &fakeParser{}
	var out bytes.Buffer
	result, err := NewConverter(p, nil, testConfig(), nil).ConvertBatch(ctx, []string{a}, &out)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Total())
	assert.Empty(t, p.calls)
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.one.yaml", "a.one.yaml", "notes.txt", "c.one.yaml.bak"} {
		setupSource(t, dir, name)
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.one.yaml"), 0o755))

	paths, err := Discover(dir, ".one.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.one.yaml"), filepath.Join(dir, "b.one.yaml")}, paths)

	none, err := Discover(dir, ".one")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = Discover(filepath.Join(dir, "absent"), ".one.yaml")
	require.Error(t, err)
	assert.Equal(t, types.StageDiscover, StageOf(err))
}
