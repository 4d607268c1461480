package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector(t *testing.T) {
	N := 3
	v1 := NewVector(N)
	require.Equal(t, N, v1.Len())
	// DataP aliases the VecDense storage
	v1.DataP[0] = 7
	assert.Equal(t, 7., v1.V.AtVec(0))
	v1.Add(1)
	assert.Equal(t, []float64{8, 1, 1}, v1.DataP)
	assert.Equal(t, 1., v1.Last())

	// Constructor and Copy take their own storage
	src := []float64{1, 2, 3, 4}
	v2 := NewVector(4, src)
	v2.DataP[0] = 9
	assert.Equal(t, []float64{1, 2, 3, 4}, src)
	c := v2.Copy().Add(1)
	assert.Equal(t, []float64{9, 2, 3, 4}, v2.DataP)
	assert.Equal(t, []float64{10, 3, 4, 5}, c.DataP)

	// Running sum and its inverse
	{
		v := NewVector(4, []float64{1, 2, 3, 4}).CumSum()
		assert.Equal(t, []float64{1, 3, 6, 10}, v.DataP)
		d := v.Diff()
		assert.Equal(t, []float64{2, 3, 4}, d.DataP)
	}
	// Offset from the first sample
	{
		v := NewVector(3, []float64{5, 7, 4})
		o := v.Offset()
		assert.Equal(t, []float64{0, 2, -1}, o.DataP)
		assert.Equal(t, []float64{5, 7, 4}, v.DataP)
	}
}

func TestEmptyVector(t *testing.T) {
	var e Vector
	require.NotPanics(t, func() { e = NewVector(0) })
	assert.Equal(t, 0, e.Len())
	assert.NotNil(t, e.V)
	assert.Equal(t, 0, NewVector(1).Diff().Len())
	assert.Equal(t, 0, NewVector(0).Diff().Len())
	assert.Equal(t, 0, NewVector(0).Offset().Len())
	assert.Equal(t, 0, NewVector(0).Copy().CumSum().Len())
	assert.Equal(t, 0, NewVector(0, []float64{1, 2}).Len())
}

func TestMathHelpers(t *testing.T) {
	assert.Equal(t, 8., POW(2, 3))
	assert.Equal(t, 0.25, POW(2, -2))
	assert.Equal(t, 1024., POW(2, 10))

	assert.Equal(t, -2., ClampDelta(2, -5))
	assert.Equal(t, -1., ClampDelta(2, -1))
	assert.Equal(t, 4., ClampDelta(0, 4))

	r := RollingMean([]float64{1, 2, 3, 4, 5}, 3)
	assert.True(t, math.IsNaN(r[0]))
	assert.True(t, math.IsNaN(r[4]))
	assert.Equal(t, []float64{2, 3, 4}, r[1:4])

	assert.True(t, IsNan(math.NaN()))
	assert.True(t, IsNan([]float64{1, math.Inf(1)}))
	assert.True(t, IsNan(NewVector(2, []float64{0, math.NaN()})))
	assert.False(t, IsNan(NewVector(2)))
}
