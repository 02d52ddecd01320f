/*
Copyright © 2019 the SoilWat authors.
This file is part of SoilWat.

SoilWat is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SoilWat is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SoilWat.  If not, see <http://www.gnu.org/licenses/>.
*/

package soilwatutil

import (
	"fmt"
	"io"

	"github.com/spatialmodel/soilwat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// PlotWaterBalance writes a PNG figure of the cumulative water fluxes
// in history to w.
func PlotWaterBalance(w io.Writer, history []soilwat.DailyOutput) error {
	if len(history) == 0 {
		return fmt.Errorf("soilwat: there are no days to plot")
	}
	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Title.Text = fmt.Sprintf("Water balance %s to %s",
		history[0].Date.Format(soilwat.DateFormat), history[len(history)-1].Date.Format(soilwat.DateFormat))
	p.X.Label.Text = "Day"
	p.Y.Label.Text = "Cumulative water (mm)"

	series := []struct {
		name string
		get  func(*soilwat.DailyOutput) float64
	}{
		{"Infiltration", func(o *soilwat.DailyOutput) float64 { return o.Infiltration }},
		{"Runoff", func(o *soilwat.DailyOutput) float64 { return o.Runoff }},
		{"Evaporation", func(o *soilwat.DailyOutput) float64 { return o.Es }},
		{"Drainage", func(o *soilwat.DailyOutput) float64 { return o.Drainage }},
	}
	var lines []interface{}
	for _, s := range series {
		xy := make(plotter.XYs, len(history))
		var sum float64
		for i := range history {
			sum += s.get(&history[i])
			xy[i].X = float64(i + 1)
			xy[i].Y = sum
		}
		lines = append(lines, s.name, xy)
	}
	if err = plotutil.AddLines(p, lines...); err != nil {
		return err
	}
	return writePNG(p, w, 6*vg.Inch, 4*vg.Inch)
}

// PlotProfile writes a PNG figure of the water content in each layer
// of p, with the drained upper limit and 15 bar lower limit for
// reference, to w.
func PlotProfile(w io.Writer, p *soilwat.Profile) error {
	plt, err := plot.New()
	if err != nil {
		return err
	}
	plt.Title.Text = "Soil water profile"
	plt.X.Label.Text = "Volumetric water content (mm/mm)"
	plt.Y.Label.Text = "Depth (mm)"
	sw := make(plotter.XYs, len(p.Layers))
	dul := make(plotter.XYs, len(p.Layers))
	ll15 := make(plotter.XYs, len(p.Layers))
	var depth float64
	for i, l := range p.Layers {
		// Plot at the layer midpoint, depth increasing downward.
		y := -(depth + l.Thickness/2)
		depth += l.Thickness
		sw[i].X, sw[i].Y = l.SW(), y
		dul[i].X, dul[i].Y = l.DUL(), y
		ll15[i].X, ll15[i].Y = l.LL15(), y
	}
	if err = plotutil.AddLinePoints(plt, "SW", sw, "DUL", dul, "LL15", ll15); err != nil {
		return err
	}
	plt.X.Min = 0
	return writePNG(plt, w, 3*vg.Inch, 4*vg.Inch)
}

func writePNG(p *plot.Plot, w io.Writer, width, height vg.Length) error {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
