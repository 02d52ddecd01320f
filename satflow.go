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

import "math"

// calcSaturatedFlow calculates the drainage out of each layer that is
// above its drained upper limit, storing it in Layer.Flux. Nothing is
// moved until doSaturatedFlow is called. When flow is limited by KS,
// water that cannot move down backs up into the layers above; the
// amount that backs up past the top layer is returned and must be
// put back on the surface.
func calcSaturatedFlow(p *Profile) (backedUpSurface float64) {
	var wIn float64
	for _, i := range p.TopDown(0, len(p.Layers)-1) {
		l := &p.Layers[i]
		wTot := l.SWDep + wIn

		// Water above saturation is not subject to SWCON.
		var excess float64
		if wTot > l.SatDep {
			excess = wTot - l.SatDep
			wTot = l.SatDep
		}
		var drain float64
		if wTot > l.DULDep {
			drain = (wTot - l.DULDep) * l.SWCON
		}

		var wOut float64
		switch {
		case excess > 0 && !p.UsingKS:
			wOut = excess + drain
			l.newSWDep = l.SWDep + wIn - wOut
			l.Flux = wOut
		case excess > 0:
			// Top up this layer to saturation first.
			add := math.Min(excess, drain)
			excess -= add
			l.newSWDep = l.SatDep - drain + add

			excessDown := math.Min(l.KS-drain, excess)
			backup := excess - excessDown
			wOut = excessDown + drain
			l.Flux = wOut

			// Fill the space remaining in each layer above, nearest first.
			for _, j := range p.BottomUp(i-1, 0) {
				up := &p.Layers[j]
				up.Flux -= backup
				add := math.Min(up.SatDep-up.newSWDep, backup)
				up.newSWDep += add
				backup -= add
			}
			backedUpSurface += backup
		default:
			wOut = drain
			l.Flux = drain
			l.newSWDep = l.SWDep + wIn - wOut
		}
		wIn = wOut
	}
	return backedUpSurface
}

// doSaturatedFlow moves the water calculated by calcSaturatedFlow and
// sets the profile drainage.
func doSaturatedFlow(p *Profile) {
	var wIn float64
	for _, i := range p.TopDown(0, len(p.Layers)-1) {
		l := &p.Layers[i]
		l.SWDep += wIn - l.Flux
		wIn = l.Flux
	}
	p.Drainage = p.bottom().Flux
}
