package nn

import "github.com/andriiCH4/PINN/utils"

// Grads holds parameter gradients shaped like the network. Workers each own
// one and the trainer reduces them, so no locking is needed during a sweep.
type Grads struct {
	W []utils.Matrix
	B []utils.Vector
}

func NewGrads(net *FNN) (gr *Grads) {
	gr = &Grads{
		W: make([]utils.Matrix, net.NumLayers()),
		B: make([]utils.Vector, net.NumLayers()),
	}
	for l := range net.W {
		nr, nc := net.W[l].Dims()
		gr.W[l] = utils.NewMatrix(nr, nc)
		gr.B[l] = utils.NewVector(nr)
	}
	return
}

func (gr *Grads) Zero() {
	for l := range gr.W {
		gr.W[l].Scale(0)
		gr.B[l].Scale(0)
	}
}

func (gr *Grads) Add(o *Grads) {
	for l := range gr.W {
		gr.W[l].Add(o.W[l])
		gr.B[l].Add(o.B[l])
	}
}

func (gr *Grads) Scale(a float64) {
	for l := range gr.W {
		gr.W[l].Scale(a)
		gr.B[l].Scale(a)
	}
}

// Flatten appends the gradients in the FNN.Params layout and returns dst.
func (gr *Grads) Flatten(dst []float64) []float64 {
	for l := range gr.W {
		dst = append(dst, gr.W[l].Data()...)
		dst = append(dst, gr.B[l].Data()...)
	}
	return dst
}

// BackwardDerivs runs the adjoint sweep over a recorded tape, accumulating
// parameter gradients into gr. The seeds valBar/dxBar/dtBar/dxxBar are the
// loss partials with respect to the output values and their carried
// derivatives, each (OutDim x N); they are read, never written.
//
// For a hidden layer the forward recurrences invert to
//
//	Zbar = Abar.D1 + TxBar.D2.U + TtBar.D2.V + SxBar.(D2.P + D3.U.U)
//	Ubar = TxBar.D1 + 2 SxBar.D2.U,  Vbar = TtBar.D1,  Pbar = SxBar.D1
//	Wbar += Zbar*A'^t + Ubar*Tx'^t + Vbar*Tt'^t + Pbar*Sx'^t
//	bbar += rowsum(Zbar)
//
// with primes marking the previous level, and the four adjoints pulled back
// through W^t to continue the sweep.
func (net *FNN) BackwardDerivs(tp *Tape, valBar, dxBar, dtBar, dxxBar utils.Matrix, gr *Grads) {
	var (
		nl = net.NumLayers()
		lo = nl - 1
	)
	// Linear output layer.
	gr.W[lo].Add(valBar.MulT(tp.A[lo])).
		Add(dxBar.MulT(tp.Tx[lo])).
		Add(dtBar.MulT(tp.Tt[lo])).
		Add(dxxBar.MulT(tp.Sx[lo]))
	gr.B[lo].Add(valBar.SumRows())
	var (
		Abar  = net.W[lo].TMul(valBar)
		TxBar = net.W[lo].TMul(dxBar)
		TtBar = net.W[lo].TMul(dtBar)
		SxBar = net.W[lo].TMul(dxxBar)
	)
	for l := lo - 1; l >= 0; l-- {
		var (
			D1, D2, D3 = tp.D1[l], tp.D2[l], tp.D3[l]
			U, V, P    = tp.U[l], tp.V[l], tp.P[l]
		)
		Zbar := Abar.Copy().ElMul(D1)
		Zbar.Add(TxBar.Copy().ElMul(D2).ElMul(U))
		Zbar.Add(TtBar.Copy().ElMul(D2).ElMul(V))
		Zbar.Add(SxBar.Copy().ElMul(D2).ElMul(P))
		Zbar.Add(SxBar.Copy().ElMul(D3).ElMul(U).ElMul(U))
		Ubar := TxBar.Copy().ElMul(D1).AddScaled(2, SxBar.Copy().ElMul(D2).ElMul(U))
		Vbar := TtBar.Copy().ElMul(D1)
		Pbar := SxBar.Copy().ElMul(D1)
		gr.W[l].Add(Zbar.MulT(tp.A[l])).
			Add(Ubar.MulT(tp.Tx[l])).
			Add(Vbar.MulT(tp.Tt[l])).
			Add(Pbar.MulT(tp.Sx[l]))
		gr.B[l].Add(Zbar.SumRows())
		if l > 0 {
			Abar = net.W[l].TMul(Zbar)
			TxBar = net.W[l].TMul(Ubar)
			TtBar = net.W[l].TMul(Vbar)
			SxBar = net.W[l].TMul(Pbar)
		}
	}
}
