package utils

import (
	"math"
)

const (
	SecondsPerYear = 365 * 24 * 3600
)

func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		goto MATHPOW
	}

	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	case 5:
		y = x * x
		y = y * y * x
	case 6:
		y = x * x
		y = y * y * y
	case 7:
		y = x * x
		y = y * y * y * x
	case 8:
		y = x * x
		y = y * y * y * y
	}
	if flipped {
		y = 1. / y
	}
	return

MATHPOW:
	y = math.Pow(x, float64(p))
	return
}

// ClampDelta limits an increment so that x+dx never drops below zero.
func ClampDelta(x, dx float64) float64 {
	if x+dx < 0 {
		return -x
	}
	return dx
}

// RollingMean is the centred moving average over window samples; edges
// without a full window are NaN.
func RollingMean(x []float64, window int) (r []float64) {
	var (
		half = window / 2
	)
	r = make([]float64, len(x))
	for i := range x {
		lo, hi := i-half, i-half+window
		if lo < 0 || hi > len(x) {
			r[i] = math.NaN()
			continue
		}
		var sum float64
		for _, val := range x[lo:hi] {
			sum += val
		}
		r[i] = sum / float64(window)
	}
	return
}
