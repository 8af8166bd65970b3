package Combustion1D

import (
	"time"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
	"gonum.org/v1/gonum/floats"

	"github.com/andriiCH4/PINN/nn"
	"github.com/andriiCH4/PINN/utils"
)

const plotPoints = 201

// Plot draws the Y and Temp profiles at the final time from the current
// network state. Series names are stable so each frame replaces the last.
func (c *Combustion) Plot(showGraph bool, graphDelay []time.Duration) {
	var (
		fmin, fmax = float32(-0.1), float32(1.6)
	)
	if !showGraph {
		return
	}
	c.PlotOnce.Do(func() {
		c.chart = chart2d.NewChart2D(1280, 1024, float32(0), float32(c.XMax), fmin, fmax)
		c.colorMap = utils2.NewColorMap(-1, 1, 1)
		go c.chart.Plot()
	})
	var (
		xs = make([]float64, plotPoints)
		X  = utils.NewMatrix(2, plotPoints)
	)
	floats.Span(xs, 0, c.XMax)
	for j, x := range xs {
		X.Set(0, j, x)
		X.Set(1, j, c.FinalTime)
	}
	P := c.Net.Predict(X)
	pSeries := func(name string, row int, color float32) {
		if err := c.chart.AddSeries(name, xs, P.Row(row).Data(),
			chart2d.NoGlyph, chart2d.Solid, c.colorMap.GetRGB(color)); err != nil {
			panic("unable to add graph series")
		}
	}
	pSeries("Y", 0, -0.7)
	pSeries("Temp", 1, 0.7)
	if len(graphDelay) != 0 {
		time.Sleep(graphDelay[0])
	}
}

// PlotCheckpoint renders a loaded network's profiles at the given time and
// keeps the window up for the delay.
func PlotCheckpoint(net *nn.FNN, xMax, plotTime float64, delay time.Duration) {
	c := &Combustion{Net: net, XMax: xMax, FinalTime: plotTime}
	c.Plot(true, []time.Duration{delay})
}
