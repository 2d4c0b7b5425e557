// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of converting one source document.
type ConversionStatus string

const (
	ConversionNone    ConversionStatus = "none"
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)

// Stage names the step of a conversion in which an error occurred.
type Stage string

const (
	StageDiscover Stage = "discover"
	StageParse    Stage = "parse"
	StageRender   Stage = "render"
	StageWrite    Stage = "write"
	StageLedger   Stage = "ledger"
)

// OutputMode records whether pages were split or aggregated.
type OutputMode string

const (
	ModePerPage   OutputMode = "pages"
	ModeAggregate OutputMode = "aggregate"
)

// ConversionRecord is the ledger entry for one converted source document.
type ConversionRecord struct {
	// Source is the path of the document dump as given to the converter.
	Source string `json:"source" yaml:"source"`

	// Fingerprint is the BLAKE3 hash of the source bytes and the settings
	// that shaped the output.
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`

	// Pages is the number of pages rendered.
	Pages int `json:"pages" yaml:"pages"`

	// Outputs lists the .xopp files written, in write order.
	Outputs []string `json:"outputs" yaml:"outputs"`

	Mode OutputMode `json:"mode" yaml:"mode"`

	// RunID identifies the batch run that produced the record.
	RunID string `json:"run_id" yaml:"run_id"`

	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}
