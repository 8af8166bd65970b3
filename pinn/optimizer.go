package pinn

import (
	"fmt"
	"math"
)

// Adam is the first-order optimizer driving the main training loop, with the
// standard bias-corrected moment estimates. It owns its state vectors; one
// instance drives one parameter vector.
type Adam struct {
	LearningRate float64
	Beta1, Beta2 float64
	Epsilon      float64

	m, v []float64
	step int
}

func NewAdam(learningRate float64, numParams int) (ad *Adam) {
	ad = &Adam{
		LearningRate: learningRate,
		Beta1:        0.9,
		Beta2:        0.999,
		Epsilon:      1.e-8,
		m:            make([]float64, numParams),
		v:            make([]float64, numParams),
	}
	return
}

// Step applies one update to params in place given the gradient.
func (ad *Adam) Step(params, grads []float64) {
	if len(params) != len(ad.m) || len(grads) != len(ad.m) {
		err := fmt.Errorf("optimizer state sized for %d parameters, got params %d, grads %d",
			len(ad.m), len(params), len(grads))
		panic(err)
	}
	ad.step++
	var (
		c1 = 1 - math.Pow(ad.Beta1, float64(ad.step))
		c2 = 1 - math.Pow(ad.Beta2, float64(ad.step))
	)
	for i, g := range grads {
		ad.m[i] = ad.Beta1*ad.m[i] + (1-ad.Beta1)*g
		ad.v[i] = ad.Beta2*ad.v[i] + (1-ad.Beta2)*g*g
		mHat := ad.m[i] / c1
		vHat := ad.v[i] / c2
		params[i] -= ad.LearningRate * mHat / (math.Sqrt(vHat) + ad.Epsilon)
	}
}
