package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// Vector wraps a gonum VecDense with the same chainable style as Matrix.
type Vector struct {
	V *mat.VecDense
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var v *mat.VecDense
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v", n, len(dataO[0]))
			panic(err)
		}
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	R = Vector{v}
	return
}

func (v Vector) Len() int                  { return v.V.Len() }
func (v Vector) AtVec(i int) float64       { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector  { return v.V.RawVector() }
func (v Vector) Data() []float64           { return v.V.RawVector().Data }
func (v Vector) SetIndex(i int, val float64) Vector { // Changes receiver
	v.V.SetVec(i, val)
	return v
}

// Set fills every element with val.
func (v Vector) Set(val float64) Vector { // Changes receiver
	var (
		data = v.Data()
	)
	for i := range data {
		data[i] = val
	}
	return v
}

func (v Vector) Copy() (R Vector) { // Does not change receiver
	var (
		n     = v.Len()
		dataR = make([]float64, n)
	)
	copy(dataR, v.Data())
	R = NewVector(n, dataR)
	return
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	var (
		data = v.Data()
	)
	for i := range data {
		data[i] *= a
	}
	return v
}

func (v Vector) AddScalar(a float64) Vector { // Changes receiver
	var (
		data = v.Data()
	)
	for i := range data {
		data[i] += a
	}
	return v
}

func (v Vector) Add(a Vector) Vector { // Changes receiver
	var (
		data  = v.Data()
		dataA = a.Data()
	)
	v.checkSameLen(a)
	for i, val := range dataA {
		data[i] += val
	}
	return v
}

func (v Vector) Subtract(a Vector) Vector { // Changes receiver
	var (
		data  = v.Data()
		dataA = a.Data()
	)
	v.checkSameLen(a)
	for i, val := range dataA {
		data[i] -= val
	}
	return v
}

func (v Vector) ElMul(a Vector) Vector { // Changes receiver
	var (
		data  = v.Data()
		dataA = a.Data()
	)
	v.checkSameLen(a)
	for i, val := range dataA {
		data[i] *= val
	}
	return v
}

func (v Vector) AddScaled(a float64, w Vector) Vector { // Changes receiver
	var (
		data  = v.Data()
		dataW = w.Data()
	)
	v.checkSameLen(w)
	for i, val := range dataW {
		data[i] += a * val
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector { // Changes receiver
	var (
		data = v.Data()
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return v
}

func (v Vector) Min() (min float64) {
	var (
		data = v.Data()
	)
	min = data[0]
	for _, val := range data {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	var (
		data = v.Data()
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}

func (v Vector) Sum() (sum float64) {
	for _, val := range v.Data() {
		sum += val
	}
	return
}

// RMS is the root mean square of the elements.
func (v Vector) RMS() (rms float64) {
	var (
		data = v.Data()
	)
	for _, val := range data {
		rms += val * val
	}
	rms = math.Sqrt(rms / float64(len(data)))
	return
}

// Concat joins v and a into a new vector. Does not change receiver.
func (v Vector) Concat(a Vector) (R Vector) {
	var (
		n, nA = v.Len(), a.Len()
		dataR = make([]float64, n+nA)
	)
	copy(dataR, v.Data())
	copy(dataR[n:], a.Data())
	R = NewVector(n+nA, dataR)
	return
}

// Subset extracts the elements listed in I, preserving order.
func (v Vector) Subset(I Index) (R Vector) { // Does not change receiver
	var (
		n     = v.Len()
		data  = v.Data()
		dataR = make([]float64, len(I))
	)
	for iNew, i := range I {
		if i < 0 || i > n-1 {
			err := fmt.Errorf("index out of bounds: index = %d, max_bounds = %d", i, n-1)
			panic(err)
		}
		dataR[iNew] = data[i]
	}
	R = NewVector(len(I), dataR)
	return
}

func (v Vector) checkSameLen(a Vector) {
	if v.Len() != a.Len() {
		err := fmt.Errorf("length mismatch: receiver %v, argument %v", v.Len(), a.Len())
		panic(err)
	}
}
