package pinn

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/optimize"

	"github.com/andriiCH4/PINN/nn"
	"github.com/andriiCH4/PINN/utils"
)

// History records the monitor rows of a training run, one entry per
// displayed step.
type History struct {
	Steps []int
	Terms [][]float64 // loss columns at each recorded step
	Total []float64
	Test  [][]float64 // per-equation residual MSE on the test points
}

// Trainer drives the fixed-iteration first-order loop over an assembled
// problem, splitting every batch across worker goroutines, then optionally
// polishes with a quasi-Newton pass. The iteration budget is fixed: there is
// no early stopping, only the divergence guard can cut a run short.
type Trainer struct {
	Problem *Problem
	Net     *nn.FNN

	LearningRate    float64
	Iterations      int
	LBFGSIterations int
	DisplayEvery    int
	NumWorkers      int
	SkipSelfCheck   bool

	// OnMonitor, when set, runs after each recorded row.
	OnMonitor func(step int, terms []float64, total float64)

	interior   []utils.Matrix // per-worker interior shards
	conds      [][]condSlice  // per-worker condition slices
	termCounts []int          // full batch size per loss column
}

type condSlice struct {
	X         utils.Matrix
	Targets   utils.Vector
	component int
	term      int
}

func (tr *Trainer) setup() (err error) {
	var (
		p   = tr.Problem
		net = tr.Net
	)
	if net.InDim() != 2 {
		err = fmt.Errorf("network input dimension %d, want 2 for (x,t)", net.InDim())
		return
	}
	if net.OutDim() != p.NumFields {
		err = fmt.Errorf("network output dimension %d does not match %d problem fields",
			net.OutDim(), p.NumFields)
		return
	}
	if tr.LearningRate <= 0 {
		err = fmt.Errorf("learning rate must be positive, got %v", tr.LearningRate)
		return
	}
	if tr.DisplayEvery < 1 {
		tr.DisplayEvery = 100
	}
	var (
		_, ni = p.Interior.Dims()
		nEq   = p.Residual.NumEquations()
		np    = tr.NumWorkers
	)
	if np < 1 {
		np = runtime.NumCPU()
	}
	if np > ni {
		np = ni
	}
	tr.NumWorkers = np

	tr.termCounts = make([]int, p.NumTerms())
	for e := 0; e < nEq; e++ {
		tr.termCounts[e] = ni
	}
	for ci, cb := range p.Batches {
		tr.termCounts[nEq+ci] = cb.Targets.Len()
	}

	contiguous := func(kMin, kMax int) utils.Index {
		I := make(utils.Index, kMax-kMin)
		for k := range I {
			I[k] = kMin + k
		}
		return I
	}
	pm := utils.NewPartitionMap(np, ni)
	tr.interior = make([]utils.Matrix, np)
	tr.conds = make([][]condSlice, np)
	for n := 0; n < np; n++ {
		kMin, kMax := pm.GetBucketRange(n)
		tr.interior[n] = p.Interior.SliceCols(contiguous(kMin, kMax))
	}
	for ci, cb := range p.Batches {
		nc := cb.Targets.Len()
		nps := np
		if nps > nc {
			nps = nc
		}
		cpm := utils.NewPartitionMap(nps, nc)
		for n := 0; n < nps; n++ {
			kMin, kMax := cpm.GetBucketRange(n)
			if kMax == kMin {
				continue
			}
			I := contiguous(kMin, kMax)
			tr.conds[n] = append(tr.conds[n], condSlice{
				X:         cb.X.SliceCols(I),
				Targets:   cb.Targets.Subset(I),
				component: cb.Component,
				term:      nEq + ci,
			})
		}
	}
	return
}

// selfCheck evaluates the residual through both derivative engines on a few
// interior points and requires agreement, catching a drifted tangent or
// adjoint implementation before any expensive iteration runs.
func (tr *Trainer) selfCheck() (err error) {
	probe := tr.interior[0]
	if _, n := probe.Dims(); n > 16 {
		I := make(utils.Index, 16)
		for k := range I {
			I[k] = k
		}
		probe = probe.SliceCols(I)
	}
	var (
		rTan = tr.Problem.ResidualsThrough(TangentDiff{Net: tr.Net}, probe)
		rStn = tr.Problem.ResidualsThrough(StencilDiff{Net: tr.Net}, probe)
		e, n = rTan.Dims()
	)
	for i := 0; i < e; i++ {
		for j := 0; j < n; j++ {
			a, b := rTan.At(i, j), rStn.At(i, j)
			if math.Abs(a-b) > 1.e-4*math.Max(1, math.Abs(b)) {
				err = fmt.Errorf("derivative self-check failed: equation %d point %d, tangent %v vs stencil %v",
					i, j, a, b)
				return
			}
		}
	}
	return
}

// Train runs the loop and returns the monitor history. On divergence the
// returned error wraps ErrDiverged and no checkpoint should be persisted.
func (tr *Trainer) Train() (hist *History, err error) {
	if err = tr.setup(); err != nil {
		return
	}
	if !tr.SkipSelfCheck {
		if err = tr.selfCheck(); err != nil {
			return
		}
	}
	var (
		p      = tr.Problem
		net    = tr.Net
		np     = tr.NumWorkers
		nEq    = p.Residual.NumEquations()
		nTerms = p.NumTerms()
		_, ni  = p.Interior.Dims()
		wg     = sync.WaitGroup{}
		params = net.Params(make([]float64, 0, net.ParamCount()))
		ad     = NewAdam(tr.LearningRate, len(params))
		grs    = make([]*nn.Grads, np)
		sums   = make([][]float64, np)
		totals = nn.NewGrads(net)
		flat   = make([]float64, 0, len(params))
		terms  = make([]float64, nTerms)
	)
	for n := 0; n < np; n++ {
		grs[n] = nn.NewGrads(net)
		sums[n] = make([]float64, nTerms)
	}
	hist = &History{}

	labels := p.TermLabels()
	fmt.Printf("%8s", "step")
	for _, lab := range labels {
		fmt.Printf(" %12s", lab)
	}
	fmt.Printf(" %12s %12s\n", "total", "test")
	record := func(step int, terms []float64, total float64) {
		test := p.TestResiduals(net)
		var testSum float64
		for _, v := range test {
			testSum += v
		}
		fmt.Printf("%8d", step)
		for _, v := range terms {
			fmt.Printf(" %12.4e", v)
		}
		fmt.Printf(" %12.4e %12.4e\n", total, testSum)
		hist.Steps = append(hist.Steps, step)
		hist.Terms = append(hist.Terms, append([]float64(nil), terms...))
		hist.Total = append(hist.Total, total)
		hist.Test = append(hist.Test, test)
		if tr.OnMonitor != nil {
			tr.OnMonitor(step, terms, total)
		}
	}

	lo := p.EvalLossGrads(net, nil)
	record(0, lo.Terms, lo.Total)
	if !lo.IsFinite() {
		err = fmt.Errorf("%w: initial loss is not finite", ErrDiverged)
		return
	}

	for it := 1; it <= tr.Iterations; it++ {
		for n := 0; n < np; n++ {
			wg.Add(1)
			go func(n int) {
				grs[n].Zero()
				for i := range sums[n] {
					sums[n][i] = 0
				}
				sq := p.ResidualSquares(net, tr.interior[n], 1/float64(ni), grs[n])
				copy(sums[n][:nEq], sq)
				for _, cs := range tr.conds[n] {
					s := p.ConditionSquares(net, cs.X, cs.Targets, cs.component,
						1/float64(tr.termCounts[cs.term]), grs[n])
					sums[n][cs.term] += s
				}
				wg.Done()
			}(n)
		}
		wg.Wait()
		totals.Zero()
		for i := range terms {
			terms[i] = 0
		}
		for n := 0; n < np; n++ {
			totals.Add(grs[n])
			for i, s := range sums[n] {
				terms[i] += s
			}
		}
		var total float64
		for i := range terms {
			terms[i] /= float64(tr.termCounts[i])
			total += terms[i]
		}
		if math.IsNaN(total) || math.IsInf(total, 0) {
			err = fmt.Errorf("%w: loss became non-finite at iteration %d", ErrDiverged, it)
			return
		}
		flat = totals.Flatten(flat[:0])
		ad.Step(params, flat)
		net.SetParams(params)
		if it%tr.DisplayEvery == 0 || it == tr.Iterations {
			record(it, terms, total)
		}
	}

	if tr.LBFGSIterations > 0 {
		if err = tr.polish(params); err != nil {
			return
		}
		lo = p.EvalLossGrads(net, nil)
		record(tr.Iterations+tr.LBFGSIterations, lo.Terms, lo.Total)
	}
	return
}

// polish refines the Adam result with L-BFGS over the full batch.
func (tr *Trainer) polish(params []float64) (err error) {
	var (
		p    = tr.Problem
		net  = tr.Net
		gr   = nn.NewGrads(net)
		flat = make([]float64, 0, len(params))
	)
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			net.SetParams(x)
			return p.EvalLossGrads(net, nil).Total
		},
		Grad: func(dst, x []float64) {
			net.SetParams(x)
			gr.Zero()
			p.EvalLossGrads(net, gr)
			flat = gr.Flatten(flat[:0])
			copy(dst, flat)
		},
	}
	settings := &optimize.Settings{MajorIterations: tr.LBFGSIterations}
	result, err := optimize.Minimize(problem, params, settings, &optimize.LBFGS{})
	if err != nil {
		return fmt.Errorf("quasi-newton polish: %w", err)
	}
	net.SetParams(result.X)
	copy(params, result.X)
	fmt.Printf("L-BFGS polish: %d major iterations, status %v, loss %12.4e\n",
		result.Stats.MajorIterations, result.Status, result.F)
	lo := p.EvalLossGrads(net, nil)
	if !lo.IsFinite() {
		err = fmt.Errorf("%w: after quasi-newton polish", ErrDiverged)
	}
	return
}
