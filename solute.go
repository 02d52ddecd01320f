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

// soluteFluxSat moves solute id down the profile with the saturated
// flux calculated by calcSaturatedFlow.
func soluteFluxSat(p *Profile, id int, eff []float64) {
	var in float64
	for _, i := range p.TopDown(0, len(p.Layers)-1) {
		l := &p.Layers[i]
		s := &l.Solutes[id]
		kg := s.Amount + in
		water := l.SWDep + l.Flux
		out := kg * divide(l.Flux, water, 0) * efficiency(eff, i)
		out = bound(out, 0, maxFloat(kg, 0))
		s.Leach = out
		s.Amount += in - out
		s.Delta += in - out
		in = out
	}
}

// soluteFlowUnsat moves solute id with the unsaturated flow calculated by
// unsatFlow.calc. Upward movement is calculated from the bottom up, then
// downward movement from the top down, accounting for the solute that
// has already moved up into each layer.
func soluteFlowUnsat(p *Profile, id int, eff []float64) {
	n := len(p.Layers)
	var in float64
	for _, i := range p.BottomUp(n-1, 1) {
		l, above := &p.Layers[i], &p.Layers[i-1]
		l.soluteUp = in
		out := 0.
		if outW := above.Flow; outW > 0 {
			kg := l.Solutes[id].Amount + in
			water := l.SWDep + outW - l.Flow
			out = bound(kg*divide(outW, water, 0)*efficiency(eff, i), 0, kg)
		}
		in = out
	}
	p.top().soluteUp = in
	p.top().remain = in
	for _, i := range p.TopDown(1, n-1) {
		p.Layers[i].remain = p.Layers[i].soluteUp - p.Layers[i-1].soluteUp
	}

	in = 0
	var topW float64
	for _, i := range p.TopDown(0, n-1) {
		l := &p.Layers[i]
		out := 0.
		outW := -l.Flow
		if outW > 0 {
			kg := l.Solutes[id].Amount + in + l.remain
			water := l.SWDep + outW - topW
			out = roundToZero(kg * divide(outW, water, 0) * efficiency(eff, i))
			out = bound(out, 0, kg)
		}
		l.soluteDown = out
		in = out
		topW = outW
	}

	// Up is the net movement into each layer from the one below, which
	// leaves the layer above with the same amount.
	var upAbove float64
	for _, i := range p.TopDown(0, n-1) {
		l := &p.Layers[i]
		s := &l.Solutes[id]
		up := l.soluteUp - l.soluteDown
		s.Up = up
		s.Amount += up - upAbove
		s.Delta += up - upAbove
		upAbove = up
	}
}

// moveSolutes runs fn for every mobile solute in the profile.
func moveSolutes(p *Profile, eff []float64, fn func(*Profile, int, []float64)) {
	for id, s := range p.Solutes {
		if s.Mobile {
			fn(p, id, eff)
		}
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
