package distance

import (
	"math"
	"testing"

	"github.com/hupe1980/kmviz/model"
	"github.com/stretchr/testify/assert"
)

func TestSquaredL2(t *testing.T) {
	tests := []struct {
		name     string
		a, b     model.Point
		expected float64
	}{
		{"Simple", model.Point{1, 2}, model.Point{4, 6}, 25},
		{"Zero", model.Point{0, 0}, model.Point{0, 0}, 0},
		{"Identical", model.Point{42, 7}, model.Point{42, 7}, 0},
		{"Corners", model.Point{0, 0}, model.Point{100, 100}, 20000},
		{"Symmetric", model.Point{4, 6}, model.Point{1, 2}, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SquaredL2(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestL2(t *testing.T) {
	assert.InDelta(t, 5.0, L2(model.Point{1, 2}, model.Point{4, 6}), 1e-9)
	assert.InDelta(t, 100*math.Sqrt2, L2(model.Point{0, 0}, model.Point{100, 100}), 1e-9)
}

func TestNearest(t *testing.T) {
	centroids := []model.Point{
		{0, 0},   // 0
		{10, 10}, // 1
		{20, 20}, // 2
	}

	t.Run("Closest", func(t *testing.T) {
		idx, d := Nearest(model.Point{19, 19}, centroids)
		assert.Equal(t, 2, idx)
		assert.InDelta(t, 2.0, d, 1e-9)
	})

	t.Run("TieBreaksToLowestIndex", func(t *testing.T) {
		// (5, 5) is equidistant from centroids 0 and 1.
		for range 10 {
			idx, _ := Nearest(model.Point{5, 5}, centroids)
			assert.Equal(t, 0, idx)
		}
	})

	t.Run("DuplicateCentroids", func(t *testing.T) {
		idx, _ := Nearest(model.Point{50, 50}, []model.Point{{1, 1}, {50, 50}, {50, 50}})
		assert.Equal(t, 1, idx)
	})

	t.Run("Empty", func(t *testing.T) {
		idx, d := Nearest(model.Point{1, 1}, nil)
		assert.Equal(t, -1, idx)
		assert.True(t, math.IsInf(d, 1))
	})
}
