// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notebook

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"
)

// Parser turns a section file on disk into its entity graph. The binary
// section parser lives outside this module; DumpParser reads the YAML or
// JSON dump such a parser emits.
type Parser interface {
	ParseSection(path string) (*Section, error)
}

// DumpParser reads section dumps in YAML or JSON (which YAML accepts).
type DumpParser struct{}

// ParseSection opens path and decodes it as a section dump.
func (DumpParser) ParseSection(path string) (*Section, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening section %s: %w", path, err)
	}
	defer f.Close()

	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("parsing section %s: %w", path, err)
	}
	return s, nil
}

// Decode reads one section document from r.
func Decode(r io.Reader) (*Section, error) {
	var s Section
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty section document")
		}
		return nil, err
	}
	return &s, nil
}

// Blob is binary payload carried as standard base64 text in dumps.
type Blob []byte

// UnmarshalYAML decodes a base64 scalar.
func (b *Blob) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("line %d: decoding base64 payload: %w", value.Line, err)
	}
	*b = data
	return nil
}

// MarshalYAML encodes the payload as base64.
func (b Blob) MarshalYAML() (any, error) {
	return base64.StdEncoding.EncodeToString(b), nil
}

// UnmarshalYAML accepts a two-element sequence [x, y].
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	var xy []float32
	if err := value.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("line %d: point needs 2 coordinates, got %d", value.Line, len(xy))
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// UnmarshalYAML rejects entries that set more than one variant.
func (c *PageContent) UnmarshalYAML(value *yaml.Node) error {
	type plain PageContent
	if err := value.Decode((*plain)(c)); err != nil {
		return err
	}
	return checkVariants(value, c.Outline != nil, c.Image != nil, c.EmbeddedFile != nil, c.Ink != nil)
}

// UnmarshalYAML rejects entries that set more than one variant.
func (c *Content) UnmarshalYAML(value *yaml.Node) error {
	type plain Content
	if err := value.Decode((*plain)(c)); err != nil {
		return err
	}
	return checkVariants(value, c.RichText != nil, c.Image != nil, c.EmbeddedFile != nil, c.Table != nil, c.Ink != nil)
}

func checkVariants(value *yaml.Node, set ...bool) error {
	n := 0
	for _, ok := range set {
		if ok {
			n++
		}
	}
	if n > 1 {
		return fmt.Errorf("line %d: content sets %d variants, want at most one", value.Line, n)
	}
	return nil
}

// MarshalYAML encodes p as [x, y].
func (p Point) MarshalYAML() (any, error) {
	n := &yaml.Node{}
	if err := n.Encode([]float32{p.X, p.Y}); err != nil {
		return nil, err
	}
	n.Style = yaml.FlowStyle
	return n, nil
}

// MarshalJSON encodes p as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float32{p.X, p.Y})
}

// UnmarshalJSON accepts [x, y].
func (p *Point) UnmarshalJSON(data []byte) error {
	var xy [2]float32
	if err := json.Unmarshal(data, &xy); err != nil {
		return err
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}
