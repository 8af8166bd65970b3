package nn

import (
	"fmt"

	"github.com/andriiCH4/PINN/utils"
)

// Tape records every level of a derivative-carrying forward pass so the
// adjoint sweep can revisit it. Levels run input to last hidden layer in
// A/Tx/Tt/Sx; Z through D3 are per hidden layer, indexed by weight layer.
type Tape struct {
	A, Tx, Tt, Sx []utils.Matrix
	Z, U, V, P    []utils.Matrix
	D1, D2, D3    []utils.Matrix
	Val           utils.Matrix // field values, (OutDim x N)
	Dx, Dt, Dxx   utils.Matrix // d/dx, d/dt, d2/dx2 of each channel
	NumPoints     int
}

// ForwardDerivs evaluates the network over a (2 x N) batch of (x,t) points
// while propagating tangents for d/dx, d/dt and d2/dx2 through every layer:
//
//	Z = W*A' + b,  U = W*Tx',  V = W*Tt',  P = W*Sx'
//	A = act(Z),  Tx = D1.U,  Tt = D1.V,  Sx = D1.P + D2.U.U
//
// with a linear output layer. The returned tape feeds BackwardDerivs.
func (net *FNN) ForwardDerivs(X utils.Matrix) (tp *Tape) {
	var (
		nl     = net.NumLayers()
		din, n = X.Dims()
	)
	if din != 2 {
		err := fmt.Errorf("derivative tangents are seeded for (x,t) inputs, got input dim %d", din)
		panic(err)
	}
	tp = &Tape{
		A:         make([]utils.Matrix, 0, nl),
		Tx:        make([]utils.Matrix, 0, nl),
		Tt:        make([]utils.Matrix, 0, nl),
		Sx:        make([]utils.Matrix, 0, nl),
		Z:         make([]utils.Matrix, 0, nl-1),
		U:         make([]utils.Matrix, 0, nl-1),
		V:         make([]utils.Matrix, 0, nl-1),
		P:         make([]utils.Matrix, 0, nl-1),
		D1:        make([]utils.Matrix, 0, nl-1),
		D2:        make([]utils.Matrix, 0, nl-1),
		D3:        make([]utils.Matrix, 0, nl-1),
		NumPoints: n,
	}
	// Input seeds: dx/dx=1 in row 0, dt/dt=1 in row 1, second derivs zero.
	Tx0 := utils.NewMatrix(din, n)
	Tt0 := utils.NewMatrix(din, n)
	for j := 0; j < n; j++ {
		Tx0.Set(0, j, 1)
		Tt0.Set(1, j, 1)
	}
	tp.A = append(tp.A, X)
	tp.Tx = append(tp.Tx, Tx0)
	tp.Tt = append(tp.Tt, Tt0)
	tp.Sx = append(tp.Sx, utils.NewMatrix(din, n))

	for l := 0; l < nl-1; l++ {
		var (
			lev = len(tp.A) - 1
			Z   = net.W[l].Mul(tp.A[lev]).AddColumn(net.B[l])
			U   = net.W[l].Mul(tp.Tx[lev])
			V   = net.W[l].Mul(tp.Tt[lev])
			P   = net.W[l].Mul(tp.Sx[lev])
		)
		A, D1, D2, D3 := net.Act.Derivs(Z)
		Tx := D1.Copy().ElMul(U)
		Tt := D1.Copy().ElMul(V)
		Sx := D1.Copy().ElMul(P).Add(D2.Copy().ElMul(U).ElMul(U))
		tp.Z = append(tp.Z, Z)
		tp.U = append(tp.U, U)
		tp.V = append(tp.V, V)
		tp.P = append(tp.P, P)
		tp.D1 = append(tp.D1, D1)
		tp.D2 = append(tp.D2, D2)
		tp.D3 = append(tp.D3, D3)
		tp.A = append(tp.A, A)
		tp.Tx = append(tp.Tx, Tx)
		tp.Tt = append(tp.Tt, Tt)
		tp.Sx = append(tp.Sx, Sx)
	}
	var (
		lo  = nl - 1
		lev = len(tp.A) - 1
	)
	tp.Val = net.W[lo].Mul(tp.A[lev]).AddColumn(net.B[lo])
	tp.Dx = net.W[lo].Mul(tp.Tx[lev])
	tp.Dt = net.W[lo].Mul(tp.Tt[lev])
	tp.Dxx = net.W[lo].Mul(tp.Sx[lev])
	return
}
