// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Fit parameters matched by eye against the Xournal++ renderer. The scaled
// ones are multiplied by RenderConfig.Scale; InkOffset is used as-is.
const (
	DefaultOutlineOffsetFit = 20.0
	DefaultImageOffsetFit   = 20.0
	DefaultImageScalingFit  = 20.0
	DefaultInkScalingFit    = 16.0 / 1000.0
	DefaultInkOffset        = 1270.0
)

// Page and stroke defaults.
const (
	DefaultScale          = 1.0
	DefaultPagePadding    = 30.0
	DefaultInkWidthFactor = 1.0
	// A4 in points.
	DefaultMinPageWidth  = 595.27559100
	DefaultMinPageHeight = 841.88976400

	// DefaultInputExt is the suffix of document dumps picked up by discovery.
	DefaultInputExt = ".one.yaml"
)

// RenderConfig holds the numeric parameters of the page renderer. All
// geometry is single precision.
type RenderConfig struct {
	// Scale multiplies every derived scaling and offset factor (default 1.0).
	Scale float32 `json:"scale" yaml:"scale"`

	// PagePadding is added to the tracked content extent on both axes (default 30).
	PagePadding float32 `json:"page_padding" yaml:"page_padding"`

	// InkWidthFactor multiplies the base pen width of 1.41 (default 1.0).
	InkWidthFactor float32 `json:"ink_width_factor" yaml:"ink_width_factor"`

	// MinPageWidth and MinPageHeight are the smallest page the renderer emits (A4).
	MinPageWidth  float32 `json:"min_page_width" yaml:"min_page_width"`
	MinPageHeight float32 `json:"min_page_height" yaml:"min_page_height"`

	OutlineOffsetFit float32 `json:"outline_offset_fit" yaml:"outline_offset_fit"`
	ImageOffsetFit   float32 `json:"image_offset_fit" yaml:"image_offset_fit"`
	ImageScalingFit  float32 `json:"image_scaling_fit" yaml:"image_scaling_fit"`
	InkScalingFit    float32 `json:"ink_scaling_fit" yaml:"ink_scaling_fit"`
	InkOffset        float32 `json:"ink_offset" yaml:"ink_offset"`
}

// DefaultRenderConfig returns the renderer defaults.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Scale:            DefaultScale,
		PagePadding:      DefaultPagePadding,
		InkWidthFactor:   DefaultInkWidthFactor,
		MinPageWidth:     DefaultMinPageWidth,
		MinPageHeight:    DefaultMinPageHeight,
		OutlineOffsetFit: DefaultOutlineOffsetFit,
		ImageOffsetFit:   DefaultImageOffsetFit,
		ImageScalingFit:  DefaultImageScalingFit,
		InkScalingFit:    DefaultInkScalingFit,
		InkOffset:        DefaultInkOffset,
	}
}

// OutlineOffsetFactor converts outline offsets to page units.
func (c RenderConfig) OutlineOffsetFactor() float32 { return c.Scale * c.OutlineOffsetFit }

// ImageOffsetFactor converts image offsets to page units.
func (c RenderConfig) ImageOffsetFactor() float32 { return c.Scale * c.ImageOffsetFit }

// ImageScalingFactor converts image layout sizes to page units.
func (c RenderConfig) ImageScalingFactor() float32 { return c.Scale * c.ImageScalingFit }

// InkScalingFactor converts ink path units (himetric) to page units.
func (c RenderConfig) InkScalingFactor() float32 { return c.Scale * c.InkScalingFit }

// InkOffsetFactor converts ink offsets to ink path units. It does not scale.
func (c RenderConfig) InkOffsetFactor() float32 { return c.InkOffset }

// OutputConfig controls how rendered pages become files.
type OutputConfig struct {
	// AggregatePages writes all pages of one source into a single file
	// instead of one file per page.
	AggregatePages bool `json:"aggregate_pages" yaml:"aggregate_pages"`

	// OutputXML additionally writes the uncompressed markup as <name>.xml.
	OutputXML bool `json:"output_xml" yaml:"output_xml"`

	// OutputDir receives the output files. Empty means next to the source.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// ConvertConfig groups the settings of one conversion run.
type ConvertConfig struct {
	Render RenderConfig `json:"render" yaml:"render"`
	Output OutputConfig `json:"output" yaml:"output"`

	// InputDir is scanned when no explicit inputs are given (default ".").
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// InputExt is the file name suffix matched during discovery.
	InputExt string `json:"input_ext" yaml:"input_ext"`

	// Force converts inputs even when the ledger reports them unchanged.
	Force bool `json:"force" yaml:"force"`
}

// LedgerConfig locates the conversion ledger database.
type LedgerConfig struct {
	// Path is the SQLite database file (default ".one2xopp/ledger.db").
	Path string `json:"path" yaml:"path"`

	// Disabled turns off skip detection and history recording.
	Disabled bool `json:"disabled" yaml:"disabled"`
}
