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

import "fmt"

// calcDepthToWaterTable sets the depth [mm] to the top of the first
// saturated layer, or to the bottom of the profile if no layer is
// saturated.
func calcDepthToWaterTable(p *Profile, errorMargin float64) {
	sat := -1
	for i := range p.Layers {
		if p.Layers[i].AmountToSat() <= errorMargin {
			sat = i
			break
		}
	}
	if sat < 0 {
		p.DepthToWaterTable = p.TotalDepth()
		return
	}
	l := &p.Layers[sat]
	if l.IsFullySaturated() && sat > 0 {
		// The water table may extend into the layer above.
		if above := &p.Layers[sat-1]; above.IsSaturated() {
			p.DepthToWaterTable = p.DepthToBottomOf(above.Number) -
				above.SaturatedFraction()*above.Thickness
			return
		}
	}
	p.DepthToWaterTable = p.DepthToBottomOf(l.Number) - l.SaturatedFraction()*l.Thickness
}

// setWaterTable saturates the profile below depth [mm], with the layer
// containing depth filled in proportion to the part below it.
func setWaterTable(p *Profile, depth float64) error {
	if depth < 0 || depth > p.TotalDepth() {
		return fmt.Errorf("soilwat: water table depth %g mm is outside of the profile, "+
			"which is %g mm deep", depth, p.TotalDepth())
	}
	var top, bottom float64
	for i := range p.Layers {
		l := &p.Layers[i]
		top = bottom
		bottom += l.Thickness
		switch {
		case depth >= bottom:
		case depth > top:
			fraction := (bottom - depth) / (bottom - top)
			l.SWDep = l.DULDep + fraction*l.DrainableCapacity()
		default:
			l.SWDep = l.SatDep
		}
	}
	p.DepthToWaterTable = depth
	return nil
}
