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

// unsatFlow calculates diffusive flow below the drained upper limit
// between adjacent layers.
type unsatFlow struct {
	diffusConst, diffusSlope float64
	gravityGradient          float64
}

// calc sets Layer.Flow for every layer but the last, where Flow is the
// water moving up into the layer from the one below. Pairs are processed
// from the top down, and the flow already leaving a layer upward is
// carried into the next pair so water is conserved.
func (u *unsatFlow) calc(p *Profile) {
	var wOut float64
	for _, i := range p.TopDown(0, len(p.Layers)-2) {
		l, below := &p.Layers[i], &p.Layers[i+1]
		aveThickness := (l.Thickness + below.Thickness) * 0.5

		esw1 := math.Max((l.SWDep-wOut)-l.LL15Dep, 0)
		esw2 := math.Max(below.SWDep-below.LL15Dep, 0)

		theta1 := divide(esw1, l.Thickness, 0)
		theta2 := divide(esw2, below.Thickness, 0)

		// Diffusivity is limited to avoid oscillating flow directions.
		dbar := u.diffusConst * math.Exp(u.diffusSlope*(theta1+theta2)*0.5)
		dbar = bound(dbar, 0, maxDiffusivity)

		sw1 := math.Max(divide(l.SWDep-wOut, l.Thickness, 0), 0)
		sw2 := math.Max(divide(below.SWDep, below.Thickness, 0), 0)

		gradient := divide(sw2-sw1, aveThickness, 0) - u.gravityGradient
		l.Flow = dbar * gradient

		// Flow stops when the gradient adjusted for gravity is zero.
		swg := u.gravityGradient * aveThickness
		sumInverseThickness := divide(1, l.Thickness, 0) + divide(1, below.Thickness, 0)
		flowMax := divide(sw2-sw1-swg, sumInverseThickness, 0)

		// A saturated layer does not diffuse into a partially saturated
		// layer above it.
		if l.SWDep >= l.DULDep && below.SWDep >= below.DULDep {
			l.Flow = 0
		}

		if l.Flow < 0 {
			// Down into the layer below, which can fill to dul.
			nextCap := math.Max(below.DULDep-below.SWDep, 0)
			flowMax = math.Max(flowMax, -nextCap)
			flowMax = math.Max(flowMax, -esw1)
			l.Flow = math.Max(l.Flow, flowMax)
		} else if l.Flow > 0 {
			// Up from the layer below; this layer can fill to dul.
			thisCap := math.Max(l.DULDep-(l.SWDep-wOut), 0)
			flowMax = math.Min(flowMax, thisCap)
			flowMax = math.Min(flowMax, esw2)
			l.Flow = math.Min(l.Flow, flowMax)
		}
		wOut = l.Flow
	}
}

// doUnsaturatedFlow moves the water calculated by unsatFlow.calc.
func doUnsaturatedFlow(p *Profile) {
	var wOut float64
	for _, i := range p.TopDown(0, len(p.Layers)-1) {
		l := &p.Layers[i]
		l.SWDep += l.Flow - wOut
		wOut = l.Flow
	}
}
