// Package pinn assembles a sampled physics-informed training problem from a
// domain, a PDE residual and a set of Dirichlet conditions, and trains a
// network against it.
package pinn

import (
	"fmt"

	"github.com/andriiCH4/PINN/geometry"
	"github.com/andriiCH4/PINN/nn"
	"github.com/andriiCH4/PINN/utils"
)

// Fields bundles a batch of field values with the space-time partials the
// residuals consume, each (C x N) for C channels over N points.
type Fields struct {
	Val, Dx, Dt, Dxx utils.Matrix
}

// Residual evaluates the governing equations over a batch. Eval returns one
// row per equation; Adjoint pulls a loss adjoint on the residuals back onto
// the field quantities, filling every Fields slot even where a dependence is
// zero.
type Residual interface {
	NumEquations() int
	EquationNames() []string
	Eval(X utils.Matrix, f Fields) utils.Matrix
	Adjoint(X utils.Matrix, f Fields, Rbar utils.Matrix) Fields
}

// Differentiator produces field values and the requested partials for a
// batch of points. The trainer's gradient path uses the network tape
// directly; this seam exists so residuals can be evaluated through either
// derivative engine and the two checked against each other.
type Differentiator interface {
	FieldDerivs(X utils.Matrix) Fields
}

// TangentDiff differentiates through the network's tangent-carrying forward
// pass.
type TangentDiff struct {
	Net *nn.FNN
}

func (td TangentDiff) FieldDerivs(X utils.Matrix) Fields {
	tp := td.Net.ForwardDerivs(X)
	return Fields{Val: tp.Val, Dx: tp.Dx, Dt: tp.Dt, Dxx: tp.Dxx}
}

// StencilDiff differentiates the network by finite differences.
type StencilDiff struct {
	Net  *nn.FNN
	Step float64
}

func (sd StencilDiff) FieldDerivs(X utils.Matrix) Fields {
	val, dx, dt, dxx := nn.FiniteDiff{Step: sd.Step}.Derivs(sd.Net.Predict, X)
	return Fields{Val: val, Dx: dx, Dt: dt, Dxx: dxx}
}

// ConditionBatch is a condition together with the sampled points binned into
// its region and the precomputed target values.
type ConditionBatch struct {
	Condition
	X       utils.Matrix // (2 x n)
	Targets utils.Vector // length n
}

// SampleCounts fixes how many collocation points each region receives. A
// zero Test count reuses the interior points for monitoring.
type SampleCounts struct {
	Domain, Boundary, Initial, Test int
}

// Problem is an assembled, sampled training problem. Points are drawn once
// at assembly and stay fixed for the whole run.
type Problem struct {
	Domain     geometry.SpaceTime
	Residual   Residual
	Conditions []Condition
	NumFields  int

	Interior utils.Matrix
	Test     utils.Matrix
	Batches  []ConditionBatch // aligned with Conditions
}

// Assemble draws the collocation sets and bins boundary and initial points
// into per-condition batches. Every condition must capture at least one
// point; an empty bin is a configuration error, not a silent no-op.
func Assemble(sp *geometry.Sampler, res Residual, conds []Condition, numFields int, counts SampleCounts) (p *Problem, err error) {
	if res == nil || res.NumEquations() < 1 {
		err = fmt.Errorf("problem needs at least one residual equation")
		return
	}
	if counts.Domain < 1 {
		err = fmt.Errorf("problem needs interior collocation points, got %d", counts.Domain)
		return
	}
	var needBoundary, needInitial bool
	for i, c := range conds {
		if c.Target == nil {
			err = fmt.Errorf("condition %q has no target function", condName(c, i))
			return
		}
		if c.Component < 0 || c.Component >= numFields {
			err = fmt.Errorf("condition %q constrains component %d of a %d-field problem",
				condName(c, i), c.Component, numFields)
			return
		}
		switch c.Kind {
		case Initial:
			needInitial = true
		case LeftBoundary, RightBoundary:
			needBoundary = true
		default:
			err = fmt.Errorf("condition %q has unknown kind %d", condName(c, i), c.Kind)
			return
		}
	}
	p = &Problem{
		Domain:     sp.ST,
		Residual:   res,
		Conditions: conds,
		NumFields:  numFields,
		Interior:   sp.Interior(counts.Domain),
	}
	if counts.Test > 0 {
		p.Test = sp.TestPoints(counts.Test)
	} else {
		p.Test = p.Interior
	}
	var boundary, initial utils.Matrix
	if needBoundary && counts.Boundary > 0 {
		boundary = sp.Boundary(counts.Boundary)
	}
	if needInitial && counts.Initial > 0 {
		initial = sp.InitialTime(counts.Initial)
	}
	for i, c := range conds {
		src := initial
		if c.Kind != Initial {
			src = boundary
		}
		var I utils.Index
		if !src.IsEmpty() {
			_, n := src.Dims()
			for j := 0; j < n; j++ {
				if c.Matches(p.Domain, src.At(0, j), src.At(1, j)) {
					I = append(I, j)
				}
			}
		}
		if len(I) == 0 {
			err = fmt.Errorf("%w: %q (%v, component %d)",
				ErrEmptyCondition, condName(c, i), c.Kind, c.Component)
			p = nil
			return
		}
		X := src.SliceCols(I)
		_, n := X.Dims()
		targets := utils.NewVector(n)
		for j := 0; j < n; j++ {
			targets.SetIndex(j, c.Target(X.At(0, j), X.At(1, j)))
		}
		p.Batches = append(p.Batches, ConditionBatch{Condition: c, X: X, Targets: targets})
	}
	return
}

func condName(c Condition, i int) string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("condition[%d]", i)
}

// NumTerms is the number of loss columns: residual equations first, then one
// per condition.
func (p *Problem) NumTerms() int { return p.Residual.NumEquations() + len(p.Conditions) }

// TermLabels names the loss columns in monitor order.
func (p *Problem) TermLabels() (labels []string) {
	labels = append(labels, p.Residual.EquationNames()...)
	for i, c := range p.Conditions {
		labels = append(labels, condName(c, i))
	}
	return
}
