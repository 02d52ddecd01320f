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
	"math"

	"github.com/sirupsen/logrus"
)

// SoluteInLayer holds the state of a single solute within a layer.
// Amounts are in kg/ha.
type SoluteInLayer struct {
	// Amount is the current quantity of the solute in the layer.
	Amount float64

	// Delta is the change in Amount caused by water movement
	// during the current day.
	Delta float64

	// Up is the net upward movement of solute into the layer from the
	// layer below with unsaturated flow.
	Up float64

	// Leach is the solute moving out of the bottom of the layer with
	// saturated flux.
	Leach float64
}

// Layer is a horizontal slice of the soil profile.
// Water contents ending in Dep are in mm of water.
type Layer struct {
	Number    int     // 1-based position in the profile.
	Thickness float64 // [mm]
	BD        float64 // bulk density [g/cc]

	SatDep, DULDep, LL15Dep, AirDryDep float64

	SWDep float64 // current water content [mm]

	SWCON float64 // fraction of water between dul and sat that drains each day
	KLAT  float64 // lateral conductivity [mm/day]
	KS    float64 // saturated conductivity [mm/day]

	// Flow is the unsaturated flow into this layer from the layer below.
	// Positive values are upward.
	Flow float64

	// Flux is the saturated flow out of the bottom of this layer.
	Flux float64

	// OutflowLat is today's lateral outflow [mm].
	OutflowLat float64

	Solutes []SoluteInLayer

	// Temporary variables used within a single pass.
	newSWDep   float64
	soluteUp   float64
	soluteDown float64
	remain     float64
}

// SW returns the volumetric water content.
func (l *Layer) SW() float64 { return divide(l.SWDep, l.Thickness, 0) }

// SAT returns the volumetric water content at saturation.
func (l *Layer) SAT() float64 { return divide(l.SatDep, l.Thickness, 0) }

// DUL returns the volumetric drained upper limit.
func (l *Layer) DUL() float64 { return divide(l.DULDep, l.Thickness, 0) }

// LL15 returns the volumetric 15 bar lower limit.
func (l *Layer) LL15() float64 { return divide(l.LL15Dep, l.Thickness, 0) }

// AirDry returns the volumetric air dry water content.
func (l *Layer) AirDry() float64 { return divide(l.AirDryDep, l.Thickness, 0) }

// ESW returns the extractable soil water [mm].
func (l *Layer) ESW() float64 { return math.Max(l.SWDep-l.LL15Dep, 0) }

// AmountToSat returns the water needed to saturate the layer [mm].
func (l *Layer) AmountToSat() float64 { return l.SatDep - l.SWDep }

// Drainable returns the water held above the drained upper limit [mm].
func (l *Layer) Drainable() float64 {
	if l.SWDep > l.DULDep {
		return l.SWDep - l.DULDep
	}
	return 0
}

// DrainableCapacity returns the water that can be held between the
// drained upper limit and saturation [mm].
func (l *Layer) DrainableCapacity() float64 { return l.SatDep - l.DULDep }

// SaturatedFraction returns the fraction of the drainable capacity that
// is currently filled.
func (l *Layer) SaturatedFraction() float64 {
	return divide(l.Drainable(), l.DrainableCapacity(), 0)
}

// IsSaturated returns whether there is any water above the drained
// upper limit.
func (l *Layer) IsSaturated() bool { return l.SaturatedFraction() > 0 }

// IsFullySaturated returns whether the layer is at saturation.
func (l *Layer) IsFullySaturated() bool {
	return l.SaturatedFraction() >= fullySaturatedFraction
}

func (l *Layer) zeroOutputs() {
	l.Flow = 0
	l.Flux = 0
	l.OutflowLat = 0
	l.newSWDep = 0
	l.soluteUp = 0
	l.soluteDown = 0
	l.remain = 0
}

// check warns about any inconsistency in the water contents of the layer.
func (l *Layer) check(c *Constants, w *warner) {
	const minSW = 0.
	const maxSWErrMargin = 0.01
	e := c.ErrorMargin
	maxSW := 1 - divide(l.BD, c.SpecificBD, 0) // total porosity
	sat, dul, ll15, airDry, sw := l.SAT(), l.DUL(), l.LL15(), l.AirDry(), l.SW()
	f := layerField(l.Number)

	if airDry+e < minSW {
		w.warnf(f, "air dry lower limit of %g in layer %d is below acceptable value of %g",
			airDry, l.Number, minSW)
	}
	if ll15+e < airDry-e {
		w.warnf(f, "15 bar lower limit of %g in layer %d is below air dry value of %g",
			ll15, l.Number, airDry)
	}
	if dul+e <= ll15-e {
		w.warnf(f, "drained upper limit of %g in layer %d is at or below lower limit of %g",
			dul, l.Number, ll15)
	}
	if sat+e <= dul-e {
		w.warnf(f, "saturation of %g in layer %d is at or below drained upper limit of %g",
			sat, l.Number, dul)
	}
	if sat-e > maxSW+maxSWErrMargin {
		w.warnf(f, "saturation of %g in layer %d is above acceptable value of %g. "+
			"You must adjust bulk density to below %g or saturation to below %g",
			sat, l.Number, maxSW, (1-sat)*c.SpecificBD, maxSW)
	}
	if sw-e > sat+e {
		w.warnf(logrus.Fields{"layer": l.Number, "sw": sw},
			"soil water of %g in layer %d is above saturation of %g", sw, l.Number, sat)
	}
	if sw+e < airDry-e {
		w.warnf(logrus.Fields{"layer": l.Number, "sw": sw},
			"soil water of %g in layer %d is below air-dry value of %g", sw, l.Number, airDry)
	}
}
