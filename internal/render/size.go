// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

// Axis selects the page dimension a coordinate belongs to.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// SizeTracker accumulates the largest coordinate seen on each axis while a
// page renders. It starts at the configured minimum page size, so the
// tracked extent never shrinks below it and never decreases.
type SizeTracker struct {
	width  float32
	height float32
}

// NewSizeTracker returns a tracker seeded with the minimum page size.
func NewSizeTracker(minWidth, minHeight float32) *SizeTracker {
	return &SizeTracker{width: minWidth, height: minHeight}
}

// Observe records v on axis and returns v unchanged, so calls can wrap
// coordinates inline while formatting.
func (s *SizeTracker) Observe(v float32, axis Axis) float32 {
	switch axis {
	case AxisX:
		if v > s.width {
			s.width = v
		}
	case AxisY:
		if v > s.height {
			s.height = v
		}
	}
	return v
}

// X is Observe(v, AxisX).
func (s *SizeTracker) X(v float32) float32 { return s.Observe(v, AxisX) }

// Y is Observe(v, AxisY).
func (s *SizeTracker) Y(v float32) float32 { return s.Observe(v, AxisY) }

// Size returns the tracked extent.
func (s *SizeTracker) Size() (width, height float32) {
	return s.width, s.height
}
