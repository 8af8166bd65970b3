package utils

import (
	"fmt"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// Matrix wraps a gonum dense matrix with chainable methods. Batches of
// space-time points and network activations are stored one point per column,
// so a hidden layer of width W evaluated over N points is (W x N).
type Matrix struct {
	M *mat.Dense
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v", nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{m}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (m Matrix) Dims() (r, c int)          { return m.M.Dims() }
func (m Matrix) At(i, j int) float64       { return m.M.At(i, j) }
func (m Matrix) T() mat.Matrix             { return m.M.T() }
func (m Matrix) RawMatrix() blas64.General { return m.M.RawMatrix() }
func (m Matrix) Data() []float64           { return m.M.RawMatrix().Data }

func (m Matrix) IsEmpty() bool { return m.M == nil }

func (m Matrix) Copy() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		data   = m.Data()
		dataR  = make([]float64, nr*nc)
	)
	copy(dataR, data)
	R = NewMatrix(nr, nc, dataR)
	return
}

func (m Matrix) Transpose() (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
	)
	R = NewMatrix(nc, nr)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			R.M.Set(j, i, m.M.At(i, j))
		}
	}
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.Dims()
		_, ncA = A.Dims()
	)
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return
}

// MulT computes m * A^t without materializing the transpose.
func (m Matrix) MulT(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nrM, _ = m.Dims()
		nrA, _ = A.Dims()
	)
	R = NewMatrix(nrM, nrA)
	R.M.Mul(m.M, A.M.T())
	return
}

// TMul computes m^t * A without materializing the transpose.
func (m Matrix) TMul(A Matrix) (R Matrix) { // Does not change receiver
	var (
		_, ncM = m.Dims()
		_, ncA = A.Dims()
	)
	R = NewMatrix(ncM, ncA)
	R.M.Mul(m.M.T(), A.M)
	return
}

func (m Matrix) Set(i, j int, val float64) Matrix { // Changes receiver
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) SetCol(j int, data []float64) Matrix { // Changes receiver
	m.M.SetCol(j, data)
	return m
}

func (m Matrix) SetRow(i int, data []float64) Matrix { // Changes receiver
	m.M.SetRow(i, data)
	return m
}

func (m Matrix) Scale(a float64) Matrix { // Changes receiver
	var (
		data = m.Data()
	)
	for i := range data {
		data[i] *= a
	}
	return m
}

func (m Matrix) AddScalar(a float64) Matrix { // Changes receiver
	var (
		data = m.Data()
	)
	for i := range data {
		data[i] += a
	}
	return m
}

func (m Matrix) Add(A Matrix) Matrix { // Changes receiver
	var (
		dataM = m.Data()
		dataA = A.Data()
	)
	m.checkSameDims(A)
	for i, val := range dataA {
		dataM[i] += val
	}
	return m
}

func (m Matrix) Subtract(A Matrix) Matrix { // Changes receiver
	var (
		dataM = m.Data()
		dataA = A.Data()
	)
	m.checkSameDims(A)
	for i, val := range dataA {
		dataM[i] -= val
	}
	return m
}

func (m Matrix) ElMul(A Matrix) Matrix { // Changes receiver
	var (
		dataM = m.Data()
		dataA = A.Data()
	)
	m.checkSameDims(A)
	for i, val := range dataA {
		dataM[i] *= val
	}
	return m
}

// AddScaled accumulates a*A into the receiver, the fused form used by the
// optimizer and the adjoint sweeps.
func (m Matrix) AddScaled(a float64, A Matrix) Matrix { // Changes receiver
	var (
		dataM = m.Data()
		dataA = A.Data()
	)
	m.checkSameDims(A)
	for i, val := range dataA {
		dataM[i] += a * val
	}
	return m
}

func (m Matrix) Apply(f func(float64) float64) Matrix { // Changes receiver
	var (
		data = m.Data()
	)
	for i, val := range data {
		data[i] = f(val)
	}
	return m
}

func (m Matrix) Apply2(A Matrix, f func(float64, float64) float64) Matrix { // Changes receiver
	var (
		dataM = m.Data()
		dataA = A.Data()
	)
	m.checkSameDims(A)
	for i, val := range dataM {
		dataM[i] = f(val, dataA[i])
	}
	return m
}

// AddColumn adds v to every column of m, the bias broadcast over a batch.
// v must have length nr.
func (m Matrix) AddColumn(v Vector) Matrix { // Changes receiver
	var (
		nr, nc = m.Dims()
		data   = m.Data()
		vD     = v.Data()
	)
	if v.Len() != nr {
		err := fmt.Errorf("column length mismatch: nr = %v, len(v) = %v", nr, v.Len())
		panic(err)
	}
	for i := 0; i < nr; i++ {
		base := i * nc
		for j := 0; j < nc; j++ {
			data[base+j] += vD[i]
		}
	}
	return m
}

// SumRows sums each row across its columns, yielding a length-nr vector. Over
// a batch this is the per-unit reduction used for bias gradients.
func (m Matrix) SumRows() (V Vector) {
	var (
		nr, nc = m.Dims()
		data   = m.Data()
		vD     = make([]float64, nr)
	)
	for i := 0; i < nr; i++ {
		base := i * nc
		var sum float64
		for j := 0; j < nc; j++ {
			sum += data[base+j]
		}
		vD[i] = sum
	}
	V = NewVector(nr, vD)
	return
}

// SumCols sums down each column, yielding a length-nc vector.
func (m Matrix) SumCols() (V Vector) {
	var (
		nr, nc = m.Dims()
		data   = m.Data()
		vD     = make([]float64, nc)
	)
	for i := 0; i < nr; i++ {
		base := i * nc
		for j := 0; j < nc; j++ {
			vD[j] += data[base+j]
		}
	}
	V = NewVector(nc, vD)
	return
}

func (m Matrix) Row(i int) (V Vector) {
	var (
		nr, nc = m.Dims()
		data   = m.Data()
		vD     = make([]float64, nc)
	)
	if i < 0 || i > nr-1 {
		err := fmt.Errorf("row index out of bounds: index = %d, max_bounds = %d", i, nr-1)
		panic(err)
	}
	copy(vD, data[i*nc:(i+1)*nc])
	V = NewVector(nc, vD)
	return
}

func (m Matrix) Col(j int) (V Vector) {
	var (
		nr, nc = m.Dims()
		data   = m.Data()
		vD     = make([]float64, nr)
	)
	if j < 0 || j > nc-1 {
		err := fmt.Errorf("column index out of bounds: index = %d, max_bounds = %d", j, nc-1)
		panic(err)
	}
	for i := range vD {
		vD[i] = data[i*nc+j]
	}
	V = NewVector(nr, vD)
	return
}

// SliceCols extracts the columns listed in I, preserving order. Used to bin
// sampled points into per-condition batches.
func (m Matrix) SliceCols(I Index) (R Matrix) { // Does not change receiver
	var (
		nr, nc = m.Dims()
		data   = m.Data()
		nI     = len(I)
	)
	R = NewMatrix(nr, nI)
	dataR := R.Data()
	for jNew, j := range I {
		if j < 0 || j > nc-1 {
			err := fmt.Errorf("column index out of bounds: index = %d, max_bounds = %d", j, nc-1)
			panic(err)
		}
		for i := 0; i < nr; i++ {
			dataR[i*nI+jNew] = data[i*nc+j]
		}
	}
	return
}

// ConcatCols appends the columns of A to the right of m. Row counts must match.
func (m Matrix) ConcatCols(A Matrix) (R Matrix) { // Does not change receiver
	var (
		nr, nc   = m.Dims()
		nrA, ncA = A.Dims()
	)
	if nr != nrA {
		err := fmt.Errorf("row count mismatch in ConcatCols: %v vs %v", nr, nrA)
		panic(err)
	}
	R = NewMatrix(nr, nc+ncA)
	dataR := R.Data()
	dataM := m.Data()
	dataA := A.Data()
	for i := 0; i < nr; i++ {
		copy(dataR[i*(nc+ncA):], dataM[i*nc:(i+1)*nc])
		copy(dataR[i*(nc+ncA)+nc:], dataA[i*ncA:(i+1)*ncA])
	}
	return
}

func (m Matrix) Min() (min float64) {
	var (
		data = m.Data()
	)
	min = data[0]
	for _, val := range data {
		if val < min {
			min = val
		}
	}
	return
}

func (m Matrix) Max() (max float64) {
	var (
		data = m.Data()
	)
	max = data[0]
	for _, val := range data {
		if val > max {
			max = val
		}
	}
	return
}

func (m Matrix) checkSameDims(A Matrix) {
	var (
		nr, nc   = m.Dims()
		nrA, ncA = A.Dims()
	)
	if nr != nrA || nc != ncA {
		err := fmt.Errorf("dimension mismatch: receiver %vx%v, argument %vx%v", nr, nc, nrA, ncA)
		panic(err)
	}
}
