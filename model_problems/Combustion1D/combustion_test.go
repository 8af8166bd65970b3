package Combustion1D

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andriiCH4/PINN/InputParameters"
	"github.com/andriiCH4/PINN/geometry"
	"github.com/andriiCH4/PINN/nn"
	"github.com/andriiCH4/PINN/pinn"
	"github.com/andriiCH4/PINN/utils"
)

func stockParams() Parameters {
	return Parameters{
		U: 1, D: 0.01, Alpha: 0.01,
		K: 10, Ea: 50, R: 1, Q: 10,
		TempFloor: 1.e-3,
	}
}

func TestReactionRate(t *testing.T) {
	p := stockParams()
	{ // Closed form at the unburnt state
		want := 10 * math.Exp(-50)
		assert.InEpsilon(t, want, p.ReactionRate(1, 1), 1.e-12)
	}
	{ // No fuel, no reaction, for any temperature including garbage ones
		for _, temp := range []float64{2, 1, 1.e-3, 0, -5} {
			assert.Equal(t, 0., p.ReactionRate(0, temp))
		}
	}
	{ // The clamp absorbs non-physical temperatures without overflow
		atFloor := p.ReactionRate(1, p.TempFloor)
		assert.Equal(t, atFloor, p.ReactionRate(1, 0))
		assert.Equal(t, atFloor, p.ReactionRate(1, -10))
		assert.False(t, math.IsNaN(atFloor) || math.IsInf(atFloor, 0))
	}
	{ // Arrhenius rate grows with temperature
		assert.Greater(t, p.ReactionRate(1, 2), p.ReactionRate(1, 1))
		assert.Greater(t, p.ReactionRate(2, 1), p.ReactionRate(1, 1))
	}
}

func TestConditionSet(t *testing.T) {
	conds := Conditions()
	require.Len(t, conds, 6)
	names := make([]string, len(conds))
	for i, c := range conds {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"ic_Y", "ic_T", "bc_Y_left", "bc_Y_right", "bc_T_left", "bc_T_right"}, names)
	// Fresh mixture at t=0, fuel held at the inlet, burnt out at the outlet,
	// unit temperature on both faces.
	for i, want := range []struct {
		kind      pinn.ConditionKind
		component int
		target    float64
	}{
		{pinn.Initial, 0, 1},
		{pinn.Initial, 1, 1},
		{pinn.LeftBoundary, 0, 1},
		{pinn.RightBoundary, 0, 0},
		{pinn.LeftBoundary, 1, 1},
		{pinn.RightBoundary, 1, 1},
	} {
		assert.Equal(t, want.kind, conds[i].Kind, conds[i].Name)
		assert.Equal(t, want.component, conds[i].Component, conds[i].Name)
		assert.Equal(t, want.target, conds[i].Target(0.37, 0.62), conds[i].Name)
	}
}

func TestResidualByHand(t *testing.T) {
	var (
		p = stockParams()
		X = utils.NewMatrix(2, 2)
		f = pinn.Fields{
			Val: utils.NewMatrix(2, 2), Dx: utils.NewMatrix(2, 2),
			Dt: utils.NewMatrix(2, 2), Dxx: utils.NewMatrix(2, 2),
		}
	)
	// Column 0: the unburnt rest state. Column 1: generic slot values.
	f.Val.Set(0, 0, 1)
	f.Val.Set(1, 0, 1)
	f.Val.Set(0, 1, 0.5)
	f.Val.Set(1, 1, 1.2)
	f.Dx.Set(0, 1, 0.3)
	f.Dx.Set(1, 1, -0.2)
	f.Dt.Set(0, 1, 0.7)
	f.Dt.Set(1, 1, 0.1)
	f.Dxx.Set(0, 1, -2.0)
	f.Dxx.Set(1, 1, 4.0)

	R := p.Eval(X, f)
	w0 := 10 * math.Exp(-50)
	assert.InDelta(t, w0, R.At(0, 0), 1.e-30)
	assert.InDelta(t, -10*w0, R.At(1, 0), 1.e-29)
	w1 := p.ReactionRate(0.5, 1.2)
	assert.InDelta(t, 0.7+1*0.3-0.01*(-2.0)+w1, R.At(0, 1), 1.e-14)
	assert.InDelta(t, 0.1+1*(-0.2)-0.01*4.0-10*w1, R.At(1, 1), 1.e-14)
}

// The analytic residual Jacobian is checked slot by slot against central
// differences of J = 0.5 sum R^2, including a column held below the
// temperature clamp where dw/dT must vanish.
func TestAdjointMatchesFiniteDifference(t *testing.T) {
	var (
		p = stockParams()
		n = 5
		X = utils.NewMatrix(2, n)
		f = pinn.Fields{
			Val: utils.NewMatrix(2, n), Dx: utils.NewMatrix(2, n),
			Dt: utils.NewMatrix(2, n), Dxx: utils.NewMatrix(2, n),
		}
	)
	for j := 0; j < n; j++ {
		f.Val.Set(0, j, 0.3+0.12*float64(j))
		f.Val.Set(1, j, 0.8+0.15*float64(j))
		f.Dx.Set(0, j, 0.2-0.05*float64(j))
		f.Dx.Set(1, j, -0.1+0.07*float64(j))
		f.Dt.Set(0, j, 0.4+0.03*float64(j))
		f.Dt.Set(1, j, 0.6-0.09*float64(j))
		f.Dxx.Set(0, j, -1.0+0.3*float64(j))
		f.Dxx.Set(1, j, 2.0-0.4*float64(j))
	}
	f.Val.Set(1, n-1, -0.4) // clamped column

	objective := func() float64 {
		R := p.Eval(X, f)
		var sum float64
		for _, v := range R.Data() {
			sum += v * v
		}
		return 0.5 * sum
	}
	R := p.Eval(X, f)
	fb := p.Adjoint(X, f, R)
	assert.Equal(t, 0., fb.Val.At(1, n-1))

	var (
		slots = []utils.Matrix{f.Val, f.Dx, f.Dt, f.Dxx}
		bars  = []utils.Matrix{fb.Val, fb.Dx, fb.Dt, fb.Dxx}
		h     = 1.e-6
	)
	for s := range slots {
		for i := 0; i < 2; i++ {
			for j := 0; j < n; j++ {
				orig := slots[s].At(i, j)
				slots[s].Set(i, j, orig+h)
				jPlus := objective()
				slots[s].Set(i, j, orig-h)
				jMinus := objective()
				slots[s].Set(i, j, orig)
				numeric := (jPlus - jMinus) / (2 * h)
				tol := 1.e-6 * math.Max(1, math.Abs(numeric))
				assert.InDelta(t, numeric, bars[s].At(i, j), tol, "slot %d (%d,%d)", s, i, j)
			}
		}
	}
}

func TestTrainSmoke(t *testing.T) {
	ip := InputParameters.DefaultPINN()
	ip.NumDomain, ip.NumBoundary, ip.NumInitial, ip.NumTest = 60, 12, 12, 0
	ip.HiddenLayers, ip.HiddenWidth = 2, 8
	ip.Iterations = 10
	ip.DisplayEvery = 5
	ip.CheckpointFile = filepath.Join(t.TempDir(), "model_checkpoint")

	c, err := NewCombustion(ip, 2, 7)
	require.NoError(t, err)
	require.NoError(t, c.Run(false))
	require.NotNil(t, c.History)
	last := len(c.History.Steps) - 1
	assert.Equal(t, 10, c.History.Steps[last])
	for _, total := range c.History.Total {
		assert.False(t, math.IsNaN(total) || math.IsInf(total, 0))
	}

	// The persisted checkpoint reproduces the trained network exactly
	net2, err := nn.LoadCheckpoint(ip.CheckpointFile)
	require.NoError(t, err)
	X := utils.NewMatrix(2, 5, []float64{
		0.1, 0.3, 0.5, 0.7, 0.9,
		0.2, 0.4, 0.6, 0.8, 1.0,
	})
	assert.Equal(t, c.Net.Predict(X).Data(), net2.Predict(X).Data())
}

func TestNewCombustionValidation(t *testing.T) {
	reduced := func() *InputParameters.InputParametersPINN {
		ip := InputParameters.DefaultPINN()
		ip.NumDomain, ip.NumBoundary, ip.NumInitial, ip.NumTest = 20, 6, 6, 0
		ip.HiddenLayers, ip.HiddenWidth = 1, 4
		return ip
	}
	{ // Degenerate domain
		ip := reduced()
		ip.XMax = 0
		_, err := NewCombustion(ip, 1, 1)
		assert.True(t, errors.Is(err, geometry.ErrInvalidDomain))
	}
	{ // Unknown sampling distribution
		ip := reduced()
		ip.Distribution = "sobol"
		_, err := NewCombustion(ip, 1, 1)
		assert.Error(t, err)
	}
	{ // Unknown activation
		ip := reduced()
		ip.Activation = "relu"
		_, err := NewCombustion(ip, 1, 1)
		assert.Error(t, err)
	}
	{ // No hidden layers
		ip := reduced()
		ip.HiddenLayers = 0
		_, err := NewCombustion(ip, 1, 1)
		assert.Error(t, err)
	}
	{ // A zero TempFloor gets the default clamp
		ip := reduced()
		ip.TempFloor = 0
		c, err := NewCombustion(ip, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, 1.e-3, c.Params.TempFloor)
	}
}
