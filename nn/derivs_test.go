package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andriiCH4/PINN/utils"
)

func probeBatch() utils.Matrix {
	return utils.NewMatrix(2, 6, []float64{
		0.1, 0.7, 0.25, 0.5, 0.9, 0.05,
		0.3, 0.2, 0.9, 0.5, 0.6, 0.75,
	})
}

func TestActivationDerivs(t *testing.T) {
	var (
		zs = []float64{-2, -1, -0.5, 0, 0.5, 1, 2}
		h  = 1.e-5
	)
	for _, ac := range []Activation{Tanh, Sin} {
		Z := utils.NewMatrix(1, len(zs), append([]float64(nil), zs...))
		A, D1, D2, D3 := ac.Derivs(Z)
		eval := func(z float64) float64 {
			a, _, _, _ := ac.Derivs(utils.NewMatrix(1, 1, []float64{z}))
			return a.At(0, 0)
		}
		d1of := func(z float64) float64 {
			_, d1, _, _ := ac.Derivs(utils.NewMatrix(1, 1, []float64{z}))
			return d1.At(0, 0)
		}
		d2of := func(z float64) float64 {
			_, _, d2, _ := ac.Derivs(utils.NewMatrix(1, 1, []float64{z}))
			return d2.At(0, 0)
		}
		for j, z := range zs {
			want := math.Tanh(z)
			if ac == Sin {
				want = math.Sin(z)
			}
			assert.InDelta(t, want, A.At(0, j), 1.e-15)
			assert.InDelta(t, (eval(z+h)-eval(z-h))/(2*h), D1.At(0, j), 1.e-8)
			assert.InDelta(t, (d1of(z+h)-d1of(z-h))/(2*h), D2.At(0, j), 1.e-8)
			assert.InDelta(t, (d2of(z+h)-d2of(z-h))/(2*h), D3.At(0, j), 1.e-8)
		}
	}
	{ // tanh''' at 0 is exactly -2
		_, _, _, D3 := Tanh.Derivs(utils.NewMatrix(1, 1, []float64{0}))
		assert.InDelta(t, -2., D3.At(0, 0), 1.e-14)
	}
}

func TestForwardDerivsAgainstFiniteDiff(t *testing.T) {
	net, err := New([]int{2, 10, 10, 2}, Tanh, GlorotNormal, 3)
	require.NoError(t, err)
	var (
		X  = probeBatch()
		tp = net.ForwardDerivs(X)
	)
	val, dx, dt, dxx := FiniteDiff{}.Derivs(net.Predict, X)
	_, n := X.Dims()
	for ch := 0; ch < 2; ch++ {
		for j := 0; j < n; j++ {
			assert.InDelta(t, val.At(ch, j), tp.Val.At(ch, j), 1.e-12)
			tol1 := 1.e-6 * math.Max(1, math.Abs(dx.At(ch, j)))
			assert.InDelta(t, dx.At(ch, j), tp.Dx.At(ch, j), tol1)
			tol1 = 1.e-6 * math.Max(1, math.Abs(dt.At(ch, j)))
			assert.InDelta(t, dt.At(ch, j), tp.Dt.At(ch, j), tol1)
			tol2 := 1.e-4 * math.Max(1, math.Abs(dxx.At(ch, j)))
			assert.InDelta(t, dxx.At(ch, j), tp.Dxx.At(ch, j), tol2)
		}
	}
	{ // The plain forward pass must agree with the tangent-carrying one
		Y := net.Predict(X)
		assert.InDeltaSlice(t, Y.Data(), tp.Val.Data(), 1.e-14)
	}
}

// The adjoint sweep is checked against central differences of a scalar
// objective touching all four carried outputs,
// J = 0.5 sum(Val^2 + Dx^2 + Dt^2 + Dxx^2), whose seeds are the outputs
// themselves.
func TestBackwardDerivsGradcheck(t *testing.T) {
	for _, ac := range []Activation{Tanh, Sin} {
		net, err := New([]int{2, 4, 4, 2}, ac, GlorotNormal, 11)
		require.NoError(t, err)
		var (
			X = probeBatch()
		)
		objective := func() (sum float64) {
			tp := net.ForwardDerivs(X)
			for _, M := range []utils.Matrix{tp.Val, tp.Dx, tp.Dt, tp.Dxx} {
				for _, v := range M.Data() {
					sum += 0.5 * v * v
				}
			}
			return
		}
		tp := net.ForwardDerivs(X)
		gr := NewGrads(net)
		net.BackwardDerivs(tp, tp.Val, tp.Dx, tp.Dt, tp.Dxx, gr)
		analytic := gr.Flatten(nil)

		var (
			p0 = net.Params(nil)
			h  = 1.e-6
		)
		require.Equal(t, net.ParamCount(), len(analytic))
		for i := range p0 {
			p := append([]float64(nil), p0...)
			p[i] = p0[i] + h
			net.SetParams(p)
			jPlus := objective()
			p[i] = p0[i] - h
			net.SetParams(p)
			jMinus := objective()
			numeric := (jPlus - jMinus) / (2 * h)
			tol := 1.e-5 * math.Max(1, math.Abs(numeric))
			assert.InDelta(t, numeric, analytic[i], tol, "activation %v param %d", ac, i)
		}
		net.SetParams(p0)
	}
}

func TestGradsReduce(t *testing.T) {
	net, err := New([]int{2, 3, 2}, Tanh, GlorotNormal, 5)
	require.NoError(t, err)
	var (
		X  = probeBatch()
		tp = net.ForwardDerivs(X)
	)
	{ // Accumulating two half-batches must equal one full sweep
		full := NewGrads(net)
		net.BackwardDerivs(tp, tp.Val, tp.Dx, tp.Dt, tp.Dxx, full)

		left := utils.Index{0, 1, 2}
		right := utils.Index{3, 4, 5}
		sum := NewGrads(net)
		for _, I := range []utils.Index{left, right} {
			XI := X.SliceCols(I)
			tpI := net.ForwardDerivs(XI)
			part := NewGrads(net)
			net.BackwardDerivs(tpI, tpI.Val, tpI.Dx, tpI.Dt, tpI.Dxx, part)
			sum.Add(part)
		}
		assert.InDeltaSlice(t, full.Flatten(nil), sum.Flatten(nil), 1.e-10)
	}
	{ // Zero and Scale
		gr := NewGrads(net)
		net.BackwardDerivs(tp, tp.Val, tp.Dx, tp.Dt, tp.Dxx, gr)
		gr.Scale(0.5)
		half := gr.Flatten(nil)
		gr.Zero()
		for _, v := range gr.Flatten(nil) {
			assert.Equal(t, 0., v)
		}
		assert.NotEqual(t, 0., half[0])
	}
}
