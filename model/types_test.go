package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoint_InDomain(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"Origin", Point{0, 0}, true},
		{"Corner", Point{100, 100}, true},
		{"Inside", Point{42.5, 7}, true},
		{"Negative", Point{-0.1, 5}, false},
		{"TooLarge", Point{5, 100.01}, false},
		{"NaN", Point{math.NaN(), 5}, false},
		{"Inf", Point{5, math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.InDomain())
		})
	}
}

func TestPoint_String(t *testing.T) {
	assert.Equal(t, "(10, 15.5)", Point{10, 15.5}.String())
	assert.False(t, Point{math.NaN(), 1}.IsFinite())
	assert.True(t, Point{-1e9, 1}.IsFinite())
}

func TestDataset_OutOfDomain(t *testing.T) {
	assert.Equal(t, -1, Dataset{{1, 1}, {2, 2}}.OutOfDomain())
	assert.Equal(t, 1, Dataset{{1, 1}, {200, 2}, {-1, 0}}.OutOfDomain())
}

func TestClonesAreIndependent(t *testing.T) {
	d := Dataset{{1, 1}}
	dc := d.Clone()
	dc[0] = Point{2, 2}
	assert.Equal(t, Point{1, 1}, d[0])

	c := CentroidSet{{1, 1}, {3, 3}}
	cc := c.Clone()
	cc[1] = Point{0, 0}
	assert.Equal(t, Point{3, 3}, c[1])
	assert.Equal(t, 2, c.K())

	l := Labels{0, 1}
	lc := l.Clone()
	lc[0] = 1
	assert.Equal(t, 0, l[0])
}

func TestLabels_Sizes(t *testing.T) {
	assert.Equal(t, []int{2, 0, 1}, Labels{0, 2, 0}.Sizes(3))
	assert.Equal(t, []int{1}, Labels{0, 5, -1}.Sizes(1))
}

func TestParseInitMethod(t *testing.T) {
	tests := []struct {
		in   string
		want InitMethod
	}{
		{"random", InitRandom},
		{"RANDOM", InitRandom},
		{"kmeans++", InitFarthestFirst},
		{"k-means++", InitFarthestFirst},
		{"farthest_first", InitFarthestFirst},
		{" manual ", InitManual},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseInitMethod(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}

	_, err := ParseInitMethod("spectral")
	assert.Error(t, err)
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "random", Random().String())
	assert.Equal(t, "kmeans++", FarthestFirst().String())
	assert.Equal(t, "manual(2 seeds)", Manual(CentroidSet{{1, 1}, {2, 2}}).String())
	assert.Equal(t, "Unknown(9)", InitMethod(9).String())
}

func TestPoint_UnmarshalJSON(t *testing.T) {
	var p Point
	require.NoError(t, json.Unmarshal([]byte(`[10, 20.5]`), &p))
	assert.Equal(t, Point{10, 20.5}, p)

	tests := []struct {
		name string
		in   string
	}{
		{"OneCoordinate", `[10]`},
		{"ThreeCoordinates", `[10, 20, 999]`},
		{"Empty", `[]`},
		{"Null", `null`},
		{"NullCoordinate", `[10, null]`},
		{"String", `["10", "20"]`},
		{"Object", `{"x": 1, "y": 2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Point
			assert.ErrorIs(t, json.Unmarshal([]byte(tt.in), &p), ErrInvalidPoint)
		})
	}
}

func TestDataset_UnmarshalJSON(t *testing.T) {
	var d Dataset
	require.NoError(t, json.Unmarshal([]byte(`[[1, 2], [3, 4]]`), &d))
	assert.Equal(t, Dataset{{1, 2}, {3, 4}}, d)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `[[1, 2], [3, 4]]`, string(out))

	assert.ErrorIs(t, json.Unmarshal([]byte(`[[1, 2], [3]]`), &d), ErrInvalidPoint)
	assert.ErrorIs(t, json.Unmarshal([]byte(`[[1, 2], null]`), &d), ErrInvalidPoint)

	var c CentroidSet
	assert.ErrorIs(t, json.Unmarshal([]byte(`[[50], []]`), &c), ErrInvalidPoint)
}
