// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeTracker(t *testing.T) {
	s := NewSizeTracker(100, 200)

	assert.Equal(t, float32(50), s.X(50))
	assert.Equal(t, float32(-10), s.Y(-10))
	w, h := s.Size()
	assert.Equal(t, float32(100), w, "below minimum keeps the minimum")
	assert.Equal(t, float32(200), h)

	assert.Equal(t, float32(150), s.Observe(150, AxisX))
	assert.Equal(t, float32(120), s.Observe(120, AxisX))
	assert.Equal(t, float32(250.5), s.Observe(250.5, AxisY))

	w, h = s.Size()
	assert.Equal(t, float32(150), w)
	assert.Equal(t, float32(250.5), h)
}

func TestSizeTracker_NeverDecreases(t *testing.T) {
	s := NewSizeTracker(0, 0)
	values := []float32{3, 1, 7, 7, 2, 9, -4, 8}

	var prev float32
	for _, v := range values {
		s.X(v)
		w, _ := s.Size()
		assert.GreaterOrEqual(t, w, prev)
		assert.GreaterOrEqual(t, w, v)
		prev = w
	}
	assert.Equal(t, float32(9), prev)
}
