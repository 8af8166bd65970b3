package pinn

import "errors"

var (
	// ErrEmptyCondition is returned at assembly when a condition's region
	// captures none of the sampled points, which would otherwise silently
	// drop its loss term.
	ErrEmptyCondition = errors.New("condition matches no sampled points")

	// ErrDiverged is returned when the loss stops being finite. The run
	// aborts without persisting a checkpoint.
	ErrDiverged = errors.New("training diverged")
)
