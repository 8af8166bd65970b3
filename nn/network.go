package nn

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/andriiCH4/PINN/utils"

	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer selects the weight initialization scheme.
type Initializer uint8

const (
	GlorotNormal Initializer = iota
	GlorotUniform
)

var initializerNames = map[Initializer]string{
	GlorotNormal:  "glorot_normal",
	GlorotUniform: "glorot_uniform",
}

func (in Initializer) String() string { return initializerNames[in] }

func ParseInitializer(label string) (in Initializer, err error) {
	for ii, name := range initializerNames {
		if name == label {
			in = ii
			return
		}
	}
	err = fmt.Errorf("unknown initializer %q, must be one of [glorot_normal glorot_uniform]", label)
	return
}

// FNN is a fully-connected feed-forward approximator. Widths lists the layer
// sizes input first, so [2 50 50 50 2] is three hidden layers of width 50
// mapping (x,t) to the two field channels. W[l] is (Widths[l+1] x Widths[l]).
type FNN struct {
	Widths []int
	Act    Activation
	W      []utils.Matrix
	B      []utils.Vector
}

func New(widths []int, act Activation, init Initializer, seed uint64) (net *FNN, err error) {
	if len(widths) < 2 {
		err = fmt.Errorf("network needs at least input and output widths, got %v", widths)
		return
	}
	for _, w := range widths {
		if w < 1 {
			err = fmt.Errorf("network widths must be positive, got %v", widths)
			return
		}
	}
	var (
		nl  = len(widths) - 1
		src = rand.NewSource(seed)
	)
	net = &FNN{
		Widths: append([]int(nil), widths...),
		Act:    act,
		W:      make([]utils.Matrix, nl),
		B:      make([]utils.Vector, nl),
	}
	for l := 0; l < nl; l++ {
		var (
			fanIn, fanOut = widths[l], widths[l+1]
			draw          func() float64
		)
		switch init {
		case GlorotUniform:
			u := distuv.Uniform{
				Min: -math.Sqrt(6. / float64(fanIn+fanOut)),
				Max: math.Sqrt(6. / float64(fanIn+fanOut)),
				Src: src,
			}
			draw = u.Rand
		default:
			normal := distuv.Normal{
				Mu:    0,
				Sigma: math.Sqrt(2. / float64(fanIn+fanOut)),
				Src:   src,
			}
			draw = normal.Rand
		}
		net.W[l] = utils.NewMatrix(fanOut, fanIn).Apply(func(float64) float64 { return draw() })
		net.B[l] = utils.NewVector(fanOut)
	}
	return
}

func (net *FNN) NumLayers() int { return len(net.W) }
func (net *FNN) InDim() int     { return net.Widths[0] }
func (net *FNN) OutDim() int    { return net.Widths[len(net.Widths)-1] }

func (net *FNN) ParamCount() (n int) {
	for l := range net.W {
		nr, nc := net.W[l].Dims()
		n += nr*nc + nr
	}
	return
}

// Params flattens all weights and biases, layer by layer, weights row-major
// first then biases. Appends into dst and returns it.
func (net *FNN) Params(dst []float64) []float64 {
	for l := range net.W {
		dst = append(dst, net.W[l].Data()...)
		dst = append(dst, net.B[l].Data()...)
	}
	return dst
}

// SetParams loads a flat parameter vector in the Params layout.
func (net *FNN) SetParams(src []float64) {
	if len(src) != net.ParamCount() {
		err := fmt.Errorf("parameter count mismatch: network has %d, got %d", net.ParamCount(), len(src))
		panic(err)
	}
	var at int
	for l := range net.W {
		wD := net.W[l].Data()
		at += copy(wD, src[at:at+len(wD)])
		bD := net.B[l].Data()
		at += copy(bD, src[at:at+len(bD)])
	}
}

// Predict runs the plain forward pass over a (InDim x N) batch, returning the
// (OutDim x N) field values without derivative bookkeeping.
func (net *FNN) Predict(X utils.Matrix) (Y utils.Matrix) {
	var (
		nl = net.NumLayers()
	)
	A := X
	for l := 0; l < nl-1; l++ {
		A = net.Act.Apply(net.W[l].Mul(A).AddColumn(net.B[l]))
	}
	Y = net.W[nl-1].Mul(A).AddColumn(net.B[nl-1])
	return
}
