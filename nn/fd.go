package nn

import (
	"fmt"

	"github.com/james-bowman/sparse"

	"github.com/andriiCH4/PINN/utils"
)

// FieldFunc evaluates a multi-channel field over a (2 x N) batch of (x,t)
// points, one value column per point.
type FieldFunc func(X utils.Matrix) utils.Matrix

// FiniteDiff approximates the same space-time partials the tangent pass
// carries, by central differencing over a probe batch. It is the independent
// cross-check for the analytic derivatives: the two implementations share no
// code path beyond the field evaluation itself.
type FiniteDiff struct {
	Step float64 // probe offset, defaults to 1.e-4
}

// Derivs evaluates f once over a five-probe batch per point and contracts the
// probe values with sparse central stencils:
//
//	dx  = (f(x+h,t) - f(x-h,t)) / 2h
//	dt  = (f(x,t+h) - f(x,t-h)) / 2h
//	dxx = (f(x+h,t) - 2 f(x,t) + f(x-h,t)) / h^2
func (fd FiniteDiff) Derivs(f FieldFunc, X utils.Matrix) (val, dx, dt, dxx utils.Matrix) {
	var (
		h      = fd.Step
		din, n = X.Dims()
	)
	if h <= 0 {
		h = 1.e-4
	}
	if din != 2 {
		err := fmt.Errorf("finite difference probes are built for (x,t) inputs, got input dim %d", din)
		panic(err)
	}
	// Probe columns per point j: j itself, then x+-h at n+j / 2n+j, then
	// t+-h at 3n+j / 4n+j.
	XP := utils.NewMatrix(2, 5*n)
	for j := 0; j < n; j++ {
		x, t := X.At(0, j), X.At(1, j)
		XP.Set(0, j, x).Set(1, j, t)
		XP.Set(0, n+j, x+h).Set(1, n+j, t)
		XP.Set(0, 2*n+j, x-h).Set(1, 2*n+j, t)
		XP.Set(0, 3*n+j, x).Set(1, 3*n+j, t+h)
		XP.Set(0, 4*n+j, x).Set(1, 4*n+j, t-h)
	}
	F := f(XP)
	dout, _ := F.Dims()

	center := make(utils.Index, n)
	for j := range center {
		center[j] = j
	}
	val = F.SliceCols(center)

	dxS := sparse.NewDOK(n, 5*n)
	dtS := sparse.NewDOK(n, 5*n)
	dxxS := sparse.NewDOK(n, 5*n)
	for j := 0; j < n; j++ {
		dxS.Set(j, n+j, 1/(2*h))
		dxS.Set(j, 2*n+j, -1/(2*h))
		dtS.Set(j, 3*n+j, 1/(2*h))
		dtS.Set(j, 4*n+j, -1/(2*h))
		dxxS.Set(j, j, -2/(h*h))
		dxxS.Set(j, n+j, 1/(h*h))
		dxxS.Set(j, 2*n+j, 1/(h*h))
	}
	contract := func(S *sparse.DOK) (D utils.Matrix) {
		DT := sparse.NewCSR(n, dout, nil, nil, nil)
		DT.Mul(S.ToCSR(), F.T())
		D = utils.NewMatrix(dout, n)
		for j := 0; j < n; j++ {
			for ch := 0; ch < dout; ch++ {
				D.Set(ch, j, DT.At(j, ch))
			}
		}
		return
	}
	dx = contract(dxS)
	dt = contract(dtS)
	dxx = contract(dxxS)
	return
}
