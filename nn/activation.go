// Package nn implements the fully-connected field approximator together with
// the derivative machinery training needs: a tangent-mode forward pass
// carrying first and second space-time partials through every layer, the
// matching adjoint sweep accumulating parameter gradients, a finite-difference
// cross-check engine, and checkpoint persistence.
package nn

import (
	"fmt"
	"math"

	"github.com/andriiCH4/PINN/utils"
)

// Activation selects the hidden-layer nonlinearity. The output layer is
// always linear.
type Activation uint8

const (
	Tanh Activation = iota
	Sin
)

var activationNames = map[Activation]string{
	Tanh: "tanh",
	Sin:  "sin",
}

func (ac Activation) String() string { return activationNames[ac] }

func ParseActivation(label string) (ac Activation, err error) {
	for aa, name := range activationNames {
		if name == label {
			ac = aa
			return
		}
	}
	err = fmt.Errorf("unknown activation %q, must be one of [tanh sin]", label)
	return
}

// Apply maps Z elementwise through the activation. Changes its argument.
func (ac Activation) Apply(Z utils.Matrix) utils.Matrix {
	switch ac {
	case Sin:
		return Z.Apply(math.Sin)
	default:
		return Z.Apply(math.Tanh)
	}
}

// Derivs evaluates the activation and its first three derivatives at every
// element of Z in one pass. The third derivative feeds the adjoint of the
// second-order tangent. Does not change Z.
func (ac Activation) Derivs(Z utils.Matrix) (A, D1, D2, D3 utils.Matrix) {
	var (
		nr, nc = Z.Dims()
		zD     = Z.Data()
	)
	A = utils.NewMatrix(nr, nc)
	D1 = utils.NewMatrix(nr, nc)
	D2 = utils.NewMatrix(nr, nc)
	D3 = utils.NewMatrix(nr, nc)
	aD, d1D, d2D, d3D := A.Data(), D1.Data(), D2.Data(), D3.Data()
	switch ac {
	case Sin:
		for i, z := range zD {
			s, c := math.Sin(z), math.Cos(z)
			aD[i] = s
			d1D[i] = c
			d2D[i] = -s
			d3D[i] = -c
		}
	default:
		// tanh' = 1-a^2, tanh'' = -2a(1-a^2), tanh''' = 4a^2(1-a^2)-2(1-a^2)^2
		for i, z := range zD {
			a := math.Tanh(z)
			d1 := 1 - a*a
			aD[i] = a
			d1D[i] = d1
			d2D[i] = -2 * a * d1
			d3D[i] = 4*a*a*d1 - 2*d1*d1
		}
	}
	return
}
