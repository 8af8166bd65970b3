package pinn

import (
	"math"

	"github.com/andriiCH4/PINN/nn"
	"github.com/andriiCH4/PINN/utils"
)

// Loss is one evaluation of the composite objective: mean squared residual
// per equation, then mean squared condition error per condition, summed into
// Total with unit weights.
type Loss struct {
	Terms []float64
	Total float64
}

func (lo Loss) IsFinite() bool {
	if math.IsNaN(lo.Total) || math.IsInf(lo.Total, 0) {
		return false
	}
	return true
}

// ResidualSquares evaluates the PDE residual over the points X and returns
// the per-equation sums of squared residuals. When gr is non-nil it also
// accumulates scale * d(sum of squares)/d(params) into gr, so a caller
// working in shards folds the 1/N of the mean into scale.
func (p *Problem) ResidualSquares(net *nn.FNN, X utils.Matrix, scale float64, gr *nn.Grads) (sq []float64) {
	tp := net.ForwardDerivs(X)
	f := Fields{Val: tp.Val, Dx: tp.Dx, Dt: tp.Dt, Dxx: tp.Dxx}
	R := p.Residual.Eval(X, f)
	sq = R.Copy().ElMul(R).SumRows().Data()
	if gr != nil {
		Rbar := R.Copy().Scale(2 * scale)
		fbar := p.Residual.Adjoint(X, f, Rbar)
		net.BackwardDerivs(tp, fbar.Val, fbar.Dx, fbar.Dt, fbar.Dxx, gr)
	}
	return
}

// ConditionSquares evaluates one condition batch slice: squared error between
// the constrained component's prediction and the targets, with the same
// scale convention as ResidualSquares.
func (p *Problem) ConditionSquares(net *nn.FNN, X utils.Matrix, targets utils.Vector, component int, scale float64, gr *nn.Grads) (sq float64) {
	var (
		_, n = X.Dims()
	)
	tp := net.ForwardDerivs(X)
	diff := tp.Val.Row(component).Subtract(targets)
	for _, v := range diff.Data() {
		sq += v * v
	}
	if gr != nil {
		valBar := utils.NewMatrix(p.NumFields, n)
		diff.Scale(2 * scale)
		valBar.SetRow(component, diff.Data())
		zeros := utils.NewMatrix(p.NumFields, n)
		net.BackwardDerivs(tp, valBar, zeros, zeros, zeros, gr)
	}
	return
}

// EvalLossGrads computes the full-batch loss, accumulating parameter
// gradients into gr when non-nil. gr is not zeroed here.
func (p *Problem) EvalLossGrads(net *nn.FNN, gr *nn.Grads) (lo Loss) {
	var (
		_, ni = p.Interior.Dims()
	)
	lo.Terms = make([]float64, 0, p.NumTerms())
	sq := p.ResidualSquares(net, p.Interior, 1/float64(ni), gr)
	for _, s := range sq {
		lo.Terms = append(lo.Terms, s/float64(ni))
	}
	for _, cb := range p.Batches {
		nc := cb.Targets.Len()
		s := p.ConditionSquares(net, cb.X, cb.Targets, cb.Component, 1/float64(nc), gr)
		lo.Terms = append(lo.Terms, s/float64(nc))
	}
	for _, term := range lo.Terms {
		lo.Total += term
	}
	return
}

// TestResiduals evaluates the mean squared residual per equation over the
// held-out test points. No gradients, monitoring only.
func (p *Problem) TestResiduals(net *nn.FNN) (mse []float64) {
	var (
		_, n = p.Test.Dims()
	)
	sq := p.ResidualSquares(net, p.Test, 0, nil)
	mse = make([]float64, len(sq))
	for e, s := range sq {
		mse[e] = s / float64(n)
	}
	return
}

// ResidualsThrough evaluates the residual over X with derivatives supplied by
// an arbitrary engine. The trainer's startup check runs this with both
// engines and compares.
func (p *Problem) ResidualsThrough(d Differentiator, X utils.Matrix) utils.Matrix {
	return p.Residual.Eval(X, d.FieldDerivs(X))
}
