package Combustion1D

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"

	"github.com/andriiCH4/PINN/InputParameters"
	"github.com/andriiCH4/PINN/geometry"
	"github.com/andriiCH4/PINN/nn"
	"github.com/andriiCH4/PINN/pinn"
	"github.com/andriiCH4/PINN/utils"
)

// Parameters are the constants of the one-step methane deflagration model:
// premixed fuel advected at velocity U through [0, XMax], consumed by a
// single Arrhenius reaction that releases heat Q per unit fuel.
type Parameters struct {
	U         float64 // advection velocity
	D         float64 // species diffusivity
	Alpha     float64 // thermal diffusivity
	K         float64 // Arrhenius pre-exponential rate constant
	Ea        float64 // activation energy
	R         float64 // gas constant
	Q         float64 // heat release
	TempFloor float64 // clamp for the Arrhenius denominator
}

// ReactionRate is the Arrhenius source w = k Y exp(-Ea/(R Temp)). Temp is
// clamped below by TempFloor so a transient negative temperature iterate
// cannot overflow the exponential.
func (p Parameters) ReactionRate(y, temp float64) float64 {
	if temp < p.TempFloor {
		temp = p.TempFloor
	}
	return p.K * y * math.Exp(-p.Ea/(p.R*temp))
}

func (p Parameters) NumEquations() int       { return 2 }
func (p Parameters) EquationNames() []string { return []string{"res_Y", "res_T"} }

// Eval computes the coupled transport residuals
//
//	r_Y = Y_t + u Y_x - D Y_xx + w
//	r_T = T_t + u T_x - alpha T_xx - Q w
//
// over a batch, row 0 carrying the fuel fraction Y and row 1 the
// temperature.
func (p Parameters) Eval(X utils.Matrix, f pinn.Fields) utils.Matrix {
	_, n := X.Dims()
	R := utils.NewMatrix(2, n)
	for j := 0; j < n; j++ {
		y, temp := f.Val.At(0, j), f.Val.At(1, j)
		w := p.ReactionRate(y, temp)
		R.Set(0, j, f.Dt.At(0, j)+p.U*f.Dx.At(0, j)-p.D*f.Dxx.At(0, j)+w)
		R.Set(1, j, f.Dt.At(1, j)+p.U*f.Dx.At(1, j)-p.Alpha*f.Dxx.At(1, j)-p.Q*w)
	}
	return R
}

// Adjoint scatters d(loss)/d(residual) back onto the field slots. The
// linear transport partials are the constant coefficients; the reaction
// partials are closed form,
//
//	dw/dY = k exp(-Ea/(R Tc))
//	dw/dT = k Y exp(-Ea/(R Tc)) Ea/(R Tc^2)
//
// with Tc the clamped temperature. Below the clamp dw/dT is zero.
func (p Parameters) Adjoint(X utils.Matrix, f pinn.Fields, Rbar utils.Matrix) pinn.Fields {
	_, n := X.Dims()
	fb := pinn.Fields{
		Val: utils.NewMatrix(2, n), Dx: utils.NewMatrix(2, n),
		Dt: utils.NewMatrix(2, n), Dxx: utils.NewMatrix(2, n),
	}
	for j := 0; j < n; j++ {
		var (
			y, temp  = f.Val.At(0, j), f.Val.At(1, j)
			rYb, rTb = Rbar.At(0, j), Rbar.At(1, j)
			tc       = temp
		)
		if tc < p.TempFloor {
			tc = p.TempFloor
		}
		ex := math.Exp(-p.Ea / (p.R * tc))
		var dwdT float64
		if temp >= p.TempFloor {
			dwdT = p.K * y * ex * p.Ea / (p.R * tc * tc)
		}
		g := rYb - p.Q*rTb
		fb.Val.Set(0, j, g*p.K*ex)
		fb.Val.Set(1, j, g*dwdT)
		fb.Dx.Set(0, j, p.U*rYb)
		fb.Dt.Set(0, j, rYb)
		fb.Dxx.Set(0, j, -p.D*rYb)
		fb.Dx.Set(1, j, p.U*rTb)
		fb.Dt.Set(1, j, rTb)
		fb.Dxx.Set(1, j, -p.Alpha*rTb)
	}
	return fb
}

// Conditions returns the six Dirichlet constraints of the fuel-inflow
// setup: unburnt mixture everywhere at t=0, fresh fuel held at the left
// face, fully burnt at the right face, unit temperature on both faces.
func Conditions() []pinn.Condition {
	one := func(x, t float64) float64 { return 1 }
	zero := func(x, t float64) float64 { return 0 }
	return []pinn.Condition{
		{Name: "ic_Y", Kind: pinn.Initial, Component: 0, Target: one},
		{Name: "ic_T", Kind: pinn.Initial, Component: 1, Target: one},
		{Name: "bc_Y_left", Kind: pinn.LeftBoundary, Component: 0, Target: one},
		{Name: "bc_Y_right", Kind: pinn.RightBoundary, Component: 0, Target: zero},
		{Name: "bc_T_left", Kind: pinn.LeftBoundary, Component: 1, Target: one},
		{Name: "bc_T_right", Kind: pinn.RightBoundary, Component: 1, Target: one},
	}
}

type Combustion struct {
	// Input parameters
	Params          Parameters
	XMax, FinalTime float64
	Net             *nn.FNN
	Problem         *pinn.Problem
	Trainer         *pinn.Trainer
	History         *pinn.History
	CheckpointFile  string
	PlotOnce        sync.Once
	chart           *chart2d.Chart2D
	colorMap        *utils2.ColorMap
}

// NewCombustion samples the collocation sets, builds the network and wires
// the trainer. Everything downstream of the input parameters is
// deterministic in the seed.
func NewCombustion(ip *InputParameters.InputParametersPINN, procLimit int, seed uint64) (c *Combustion, err error) {
	params := Parameters{
		U:         ip.Velocity,
		D:         ip.SpeciesDiffusivity,
		Alpha:     ip.ThermalDiffusivity,
		K:         ip.RateConstant,
		Ea:        ip.ActivationEnergy,
		R:         ip.GasConstant,
		Q:         ip.HeatRelease,
		TempFloor: ip.TempFloor,
	}
	if params.TempFloor <= 0 {
		params.TempFloor = 1.e-3
	}
	iv, err := geometry.NewInterval(0, ip.XMax)
	if err != nil {
		return
	}
	td, err := geometry.NewTimeDomain(0, ip.FinalTime)
	if err != nil {
		return
	}
	dist, err := geometry.ParseDistribution(ip.Distribution)
	if err != nil {
		return
	}
	sp := geometry.NewSampler(geometry.NewSpaceTime(iv, td), dist, seed)
	problem, err := pinn.Assemble(sp, params, Conditions(), 2, pinn.SampleCounts{
		Domain:   ip.NumDomain,
		Boundary: ip.NumBoundary,
		Initial:  ip.NumInitial,
		Test:     ip.NumTest,
	})
	if err != nil {
		return
	}
	act, err := nn.ParseActivation(ip.Activation)
	if err != nil {
		return
	}
	initKind, err := nn.ParseInitializer(ip.Initializer)
	if err != nil {
		return
	}
	if ip.HiddenLayers < 1 || ip.HiddenWidth < 1 {
		err = fmt.Errorf("network needs at least one hidden layer and unit, got %d layers of width %d",
			ip.HiddenLayers, ip.HiddenWidth)
		return
	}
	widths := make([]int, 0, ip.HiddenLayers+2)
	widths = append(widths, 2)
	for l := 0; l < ip.HiddenLayers; l++ {
		widths = append(widths, ip.HiddenWidth)
	}
	widths = append(widths, 2)
	net, err := nn.New(widths, act, initKind, seed)
	if err != nil {
		return
	}
	c = &Combustion{
		Params:         params,
		XMax:           ip.XMax,
		FinalTime:      ip.FinalTime,
		Net:            net,
		Problem:        problem,
		CheckpointFile: ip.CheckpointFile,
		Trainer: &pinn.Trainer{
			Problem:         problem,
			Net:             net,
			LearningRate:    ip.LearningRate,
			Iterations:      ip.Iterations,
			LBFGSIterations: ip.LBFGSIterations,
			DisplayEvery:    ip.DisplayEvery,
			NumWorkers:      procLimit,
			SkipSelfCheck:   ip.SkipSelfCheck,
		},
	}
	fmt.Printf("Domain [0,%4.2f] x (0,%4.2f], u = %4.2f, D = %4.2f, alpha = %4.2f\n",
		ip.XMax, ip.FinalTime, params.U, params.D, params.Alpha)
	fmt.Printf("Arrhenius: k = %4.2f, Ea = %4.2f, R = %4.2f, Q = %4.2f\n",
		params.K, params.Ea, params.R, params.Q)
	fmt.Printf("Network %v, activation [%s], %d parameters, %s sampling\n",
		widths, act, net.ParamCount(), dist)
	return
}

// Run trains the network, persists the checkpoint and leaves the final
// profiles on screen when graphing is enabled. On divergence no checkpoint
// is written.
func (c *Combustion) Run(showGraph bool, graphDelay ...time.Duration) (err error) {
	if showGraph {
		c.Trainer.OnMonitor = func(step int, terms []float64, total float64) {
			c.Plot(showGraph, graphDelay)
		}
	}
	start := time.Now()
	c.History, err = c.Trainer.Train()
	if err != nil {
		return
	}
	elapsed := time.Since(start).Seconds()
	iters := c.Trainer.Iterations + c.Trainer.LBFGSIterations
	fmt.Printf("Training time = %8.3f seconds, %8.2f iterations/sec\n",
		elapsed, float64(iters)/elapsed)
	if err = c.Net.SaveCheckpoint(c.CheckpointFile); err != nil {
		return
	}
	fmt.Printf("Saved model to %s\n", c.CheckpointFile)
	c.Plot(showGraph, graphDelay)
	return
}
