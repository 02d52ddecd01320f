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

package soilwat

import (
	"fmt"
	"math"

	"github.com/ctessum/unit"
)

// lateralGeometry holds the hillslope geometry used to calculate
// lateral outflow.
type lateralGeometry struct {
	// factor is (dischargeWidth / catchmentArea) × slope / √(1+slope²),
	// in mm⁻¹.
	factor float64
}

// newLateralGeometry checks the dimensions of the hillslope geometry,
// where slope is in m/m, width in m and area in m².
func newLateralGeometry(slope, width, area float64) (*lateralGeometry, error) {
	if slope < 0 || width < 0 || area < 0 {
		return nil, fmt.Errorf("soilwat: lateral flow geometry must not be negative: "+
			"slope=%g, discharge width=%g m, catchment area=%g m²", slope, width, area)
	}
	g := new(lateralGeometry)
	if area == 0 {
		return g, nil
	}
	perLength := unit.Div(unit.New(width, unit.Meter), unit.New(area, unit.Meter2))
	if err := perLength.Check(unit.Dimensions{unit.LengthDim: -1}); err != nil {
		return nil, fmt.Errorf("soilwat: problem with lateral flow geometry: %v", err)
	}
	const mPerMM = 1.0e-3
	g.factor = perLength.Value() * mPerMM * slope / math.Sqrt(1+slope*slope)
	return g, nil
}

// lateralFlow adds today's lateral inflow [mm] to each layer and then
// removes the lateral outflow. inflow may be shorter than the profile.
func (g *lateralGeometry) lateralFlow(p *Profile, inflow []float64, w *warner) {
	for _, i := range p.TopDown(0, len(p.Layers)-1) {
		l := &p.Layers[i]
		if i < len(inflow) {
			l.SWDep += inflow[i]
		}
		// Depth of the water table within the layer.
		d := l.Thickness * divide(l.SWDep-l.DULDep, l.SatDep-l.DULDep, 0)
		d = math.Max(0, d)

		maxFlow := math.Max(0, l.SWDep-l.DULDep)
		l.OutflowLat = w.bound(l.KLAT*d*g.factor, 0, maxFlow)
		l.SWDep -= l.OutflowLat
	}
}
