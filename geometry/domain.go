// Package geometry describes the 1D space-time region the combustion fields
// live on and draws collocation points from it.
package geometry

import (
	"errors"
	"fmt"

	"github.com/andriiCH4/PINN/utils"
)

var ErrInvalidDomain = errors.New("invalid domain")

// Interval is the spatial extent [XMin, XMax].
type Interval struct {
	XMin, XMax float64
}

func NewInterval(xmin, xmax float64) (iv Interval, err error) {
	if xmax-xmin <= 0 {
		err = fmt.Errorf("%w: spatial interval [%v,%v] has non-positive length", ErrInvalidDomain, xmin, xmax)
		return
	}
	iv = Interval{XMin: xmin, XMax: xmax}
	return
}

func (iv Interval) Length() float64 { return iv.XMax - iv.XMin }

func (iv Interval) Contains(x float64) bool {
	return x > iv.XMin-utils.NODETOL && x < iv.XMax+utils.NODETOL
}

// OnLeft and OnRight classify a coordinate against the interval faces using
// the shared node tolerance rather than exact float equality.
func (iv Interval) OnLeft(x float64) bool  { return utils.IsClose(x, iv.XMin) }
func (iv Interval) OnRight(x float64) bool { return utils.IsClose(x, iv.XMax) }

// TimeDomain is the temporal extent [TInitial, TFinal].
type TimeDomain struct {
	TInitial, TFinal float64
}

func NewTimeDomain(tInitial, tFinal float64) (td TimeDomain, err error) {
	if tFinal-tInitial <= 0 {
		err = fmt.Errorf("%w: time interval [%v,%v] has non-positive duration", ErrInvalidDomain, tInitial, tFinal)
		return
	}
	td = TimeDomain{TInitial: tInitial, TFinal: tFinal}
	return
}

func (td TimeDomain) Duration() float64 { return td.TFinal - td.TInitial }

func (td TimeDomain) AtInitial(t float64) bool { return utils.IsClose(t, td.TInitial) }

// SpaceTime composes the spatial interval with the time domain. Batches of
// points through this package are (2 x N) with x in row 0 and t in row 1.
type SpaceTime struct {
	Space Interval
	Time  TimeDomain
}

func NewSpaceTime(space Interval, time TimeDomain) SpaceTime {
	return SpaceTime{Space: space, Time: time}
}

func (st SpaceTime) Contains(x, t float64) bool {
	return st.Space.Contains(x) &&
		t > st.Time.TInitial-utils.NODETOL && t < st.Time.TFinal+utils.NODETOL
}

func (st SpaceTime) OnSpatialBoundary(x float64) bool {
	return st.Space.OnLeft(x) || st.Space.OnRight(x)
}
