package utils

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Vector is a dense series backed by a gonum VecDense. DataP aliases the raw
// storage so hot loops can index it directly.
type Vector struct {
	V     *mat.VecDense
	DataP []float64
}

// NewVector allocates N samples, copying dataO[0] when given. A zero length
// vector has an empty VecDense, gonum rejects zero dimensions.
func NewVector(N int, dataO ...[]float64) (v Vector) {
	var (
		data = make([]float64, N)
	)
	if len(dataO) != 0 {
		copy(data, dataO[0])
	}
	if N == 0 {
		v.V = &mat.VecDense{}
		v.DataP = data
		return
	}
	v.V = mat.NewVecDense(N, data)
	v.DataP = v.V.RawVector().Data
	return
}

func (v Vector) Len() int { return len(v.DataP) }

func (v Vector) Copy() Vector {
	return NewVector(v.Len(), v.DataP)
}

// Chainable (extended) methods, all in place
func (v Vector) Add(a float64) Vector {
	for i := range v.DataP {
		v.DataP[i] += a
	}
	return v
}

// CumSum replaces each entry with the running sum up to and including it.
func (v Vector) CumSum() Vector {
	floats.CumSum(v.DataP, v.DataP)
	return v
}

// Non-chained methods, return new storage

// Diff returns the N-1 forward differences v[i+1]-v[i].
func (v Vector) Diff() (d Vector) {
	var (
		N = v.Len()
	)
	if N < 2 {
		return NewVector(0)
	}
	d = NewVector(N - 1)
	for i := 0; i < N-1; i++ {
		d.DataP[i] = v.DataP[i+1] - v.DataP[i]
	}
	return
}

// Offset returns v - v[0], the change since the first sample.
func (v Vector) Offset() Vector {
	if v.Len() == 0 {
		return NewVector(0)
	}
	return v.Copy().Add(-v.DataP[0])
}

func (v Vector) Last() float64 {
	return v.DataP[len(v.DataP)-1]
}
