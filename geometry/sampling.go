package geometry

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/andriiCH4/PINN/utils"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/gonum/stat/samplemv"
)

// Distribution selects how collocation points are drawn from the domain.
type Distribution uint8

const (
	Uniform Distribution = iota // pseudo-random uniform
	Halton                      // Owen-scrambled Halton sequence
)

var distributionNames = map[Distribution]string{
	Uniform: "uniform",
	Halton:  "halton",
}

func (d Distribution) String() string { return distributionNames[d] }

func ParseDistribution(label string) (d Distribution, err error) {
	for dd, name := range distributionNames {
		if name == label {
			d = dd
			return
		}
	}
	err = fmt.Errorf("unknown point distribution %q, must be one of [uniform halton]", label)
	return
}

// Sampler draws collocation batches from a space-time domain. All batches are
// (2 x N) matrices, x in row 0 and t in row 1, one point per column. A given
// seed reproduces the same point sets.
type Sampler struct {
	ST   SpaceTime
	Dist Distribution
	src  rand.Source
}

func NewSampler(st SpaceTime, dist Distribution, seed uint64) (sp *Sampler) {
	sp = &Sampler{
		ST:   st,
		Dist: dist,
		src:  rand.NewSource(seed),
	}
	return
}

// Interior draws n points from the open interior of the space-time region.
// Both distributions fall inside the faces almost surely, so no rejection
// pass is needed.
func (sp *Sampler) Interior(n int) (R utils.Matrix) {
	var (
		iv, td = sp.ST.Space, sp.ST.Time
	)
	R = utils.NewMatrix(2, n)
	switch sp.Dist {
	case Halton:
		bounds := []r1.Interval{
			{Min: iv.XMin, Max: iv.XMax},
			{Min: td.TInitial, Max: td.TFinal},
		}
		batch := mat.NewDense(n, 2, nil)
		samplemv.Halton{
			Kind: samplemv.Owen,
			Q:    distmv.NewUniform(bounds, sp.src),
			Src:  sp.src,
		}.Sample(batch)
		for j := 0; j < n; j++ {
			R.Set(0, j, batch.At(j, 0))
			R.Set(1, j, batch.At(j, 1))
		}
	default:
		ux := distuv.Uniform{Min: iv.XMin, Max: iv.XMax, Src: sp.src}
		ut := distuv.Uniform{Min: td.TInitial, Max: td.TFinal, Src: sp.src}
		for j := 0; j < n; j++ {
			R.Set(0, j, ux.Rand())
			R.Set(1, j, ut.Rand())
		}
	}
	return
}

// Boundary places n points on the spatial faces, alternating half on x=XMin
// and half on x=XMax, with t drawn over the full time extent.
func (sp *Sampler) Boundary(n int) (R utils.Matrix) {
	var (
		iv, td = sp.ST.Space, sp.ST.Time
		tVals  = sp.sample1D(n, td.TInitial, td.TFinal)
	)
	R = utils.NewMatrix(2, n)
	for j := 0; j < n; j++ {
		if j%2 == 0 {
			R.Set(0, j, iv.XMin)
		} else {
			R.Set(0, j, iv.XMax)
		}
		R.Set(1, j, tVals[j])
	}
	return
}

// InitialTime places n points at t=TInitial with x drawn over the interval.
func (sp *Sampler) InitialTime(n int) (R utils.Matrix) {
	var (
		iv, td = sp.ST.Space, sp.ST.Time
		xVals  = sp.sample1D(n, iv.XMin, iv.XMax)
	)
	R = utils.NewMatrix(2, n)
	for j := 0; j < n; j++ {
		R.Set(0, j, xVals[j])
		R.Set(1, j, td.TInitial)
	}
	return
}

// TestPoints lays out a near-uniform interior grid of approximately n points
// for residual monitoring, cell-centered so no point lands on a face. The
// returned count is nx*nt with nx/nt proportioned to the domain extents.
func (sp *Sampler) TestPoints(n int) (R utils.Matrix) {
	var (
		iv, td = sp.ST.Space, sp.ST.Time
		lx, lt = iv.Length(), td.Duration()
	)
	nx := int(math.Ceil(math.Sqrt(float64(n) * lx / lt)))
	if nx < 1 {
		nx = 1
	}
	nt := int(math.Ceil(float64(n) / float64(nx)))
	if nt < 1 {
		nt = 1
	}
	R = utils.NewMatrix(2, nx*nt)
	dx, dt := lx/float64(nx), lt/float64(nt)
	var jj int
	for i := 0; i < nx; i++ {
		x := iv.XMin + (float64(i)+0.5)*dx
		for k := 0; k < nt; k++ {
			R.Set(0, jj, x)
			R.Set(1, jj, td.TInitial+(float64(k)+0.5)*dt)
			jj++
		}
	}
	return
}

// UniformGrid tensors nx by nt evenly spaced points including the domain
// faces, ordered time-major within each x station. Used for prediction output.
func (sp *Sampler) UniformGrid(nx, nt int) (R utils.Matrix) {
	var (
		iv, td = sp.ST.Space, sp.ST.Time
		xs     = make([]float64, nx)
		ts     = make([]float64, nt)
	)
	floats.Span(xs, iv.XMin, iv.XMax)
	floats.Span(ts, td.TInitial, td.TFinal)
	R = utils.NewMatrix(2, nx*nt)
	var jj int
	for i := 0; i < nx; i++ {
		for k := 0; k < nt; k++ {
			R.Set(0, jj, xs[i])
			R.Set(1, jj, ts[k])
			jj++
		}
	}
	return
}

func (sp *Sampler) sample1D(n int, min, max float64) (vals []float64) {
	vals = make([]float64, n)
	switch sp.Dist {
	case Halton:
		bounds := []r1.Interval{{Min: min, Max: max}}
		batch := mat.NewDense(n, 1, nil)
		samplemv.Halton{
			Kind: samplemv.Owen,
			Q:    distmv.NewUniform(bounds, sp.src),
			Src:  sp.src,
		}.Sample(batch)
		for j := 0; j < n; j++ {
			vals[j] = batch.At(j, 0)
		}
	default:
		u := distuv.Uniform{Min: min, Max: max, Src: sp.src}
		for j := 0; j < n; j++ {
			vals[j] = u.Rand()
		}
	}
	return
}
