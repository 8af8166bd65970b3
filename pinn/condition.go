package pinn

import "github.com/andriiCH4/PINN/geometry"

// ConditionKind tags the domain region a Dirichlet condition constrains.
type ConditionKind uint8

const (
	Initial ConditionKind = iota
	LeftBoundary
	RightBoundary
)

var conditionKindNames = map[ConditionKind]string{
	Initial:       "initial",
	LeftBoundary:  "left boundary",
	RightBoundary: "right boundary",
}

func (ck ConditionKind) String() string { return conditionKindNames[ck] }

// Condition pins one field component to a target value over a tagged region.
type Condition struct {
	Name      string
	Kind      ConditionKind
	Component int
	Target    func(x, t float64) float64
}

// Matches reports whether the point (x,t) lies in the condition's region of
// the given domain.
func (c Condition) Matches(st geometry.SpaceTime, x, t float64) bool {
	switch c.Kind {
	case Initial:
		return st.Time.AtInitial(t)
	case LeftBoundary:
		return st.Space.OnLeft(x)
	case RightBoundary:
		return st.Space.OnRight(x)
	}
	return false
}
