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
	"time"
)

// evapState holds the Ritchie evaporation accumulators.
type evapState struct {
	Sumes1 float64 // cumulative stage 1 evaporation [mm]
	Sumes2 float64 // cumulative stage 2 evaporation [mm]
	T      float64 // days since stage 2 began
}

// evapModel calculates soil evaporation with Ritchie's two stage model.
type evapModel struct {
	season *season
	c      *Constants

	Acc evapState

	Eos float64
	Es  float64
}

// initialise sets the accumulators from the wetness of the top layer.
func (e *evapModel) initialise(p *Profile, date time.Time) {
	u, cona := e.season.uCona(date)
	top := p.top()
	swrTop := divide(top.SWDep-top.LL15Dep, top.DULDep-top.LL15Dep, 0)
	swrTop = bound(swrTop, 0, 1)

	if swrTop < e.c.SWTopCrit {
		// Approximately 100% of stage 2 when the top layer is dry.
		e.Acc.Sumes2 = e.c.Sumes2Max * (1 - divide(swrTop, e.c.SWTopCrit, 0))
		e.Acc.Sumes1 = u
	} else {
		e.Acc.Sumes2 = 0
		e.Acc.Sumes1 = e.c.Sumes1Max * (1 - swrTop)
	}
	e.Acc.T = math.Pow(divide(e.Acc.Sumes2, cona, 0), 2)
}

// calcEos reduces the potential evaporation eo [mm] for shading by crop
// canopies and residue.
func (e *evapModel) calcEos(eo float64, canopies []Canopy, residueCover float64) float64 {
	covers := make([]float64, len(canopies))
	for i, cp := range canopies {
		covers[i] = cp.CoverTotal
	}
	eos := eo * math.Exp(-e.c.CanopyEosCoef*combinedCover(covers...))

	var residueFact float64
	if residueCover < 1 {
		residueFact = math.Pow(1-residueCover, e.c.AToEvapFact)
	}
	e.Eos = eos * residueFact
	return e.Eos
}

// calcEs calculates the actual soil evaporation [mm] from e.Eos, limited by
// the water available in the top layer.
func (e *evapModel) calcEs(p *Profile, date time.Time, infiltration float64) float64 {
	sumes1Max, cona := e.season.uCona(date)
	top := p.top()
	eos := e.Eos
	eosMax := math.Max(top.SWDep-top.AirDryDep, 0)
	acc := &e.Acc

	// Infiltration refills stage 1 first, then stage 2.
	if infiltration > 0 {
		acc.Sumes2 = math.Max(0, acc.Sumes2-math.Max(0, infiltration-acc.Sumes1))
		acc.Sumes1 = math.Max(0, acc.Sumes1-infiltration)
		acc.T = math.Pow(divide(acc.Sumes2, cona, 0), 2)
	}

	var esoil1, esoil2 float64
	if acc.Sumes1 < sumes1Max {
		esoil1 = math.Min(eos, sumes1Max-acc.Sumes1)
		if eos > esoil1 && esoil1 < eosMax {
			if acc.Sumes2 > 0 {
				acc.T++
				esoil2 = math.Min(eos-esoil1, cona*math.Sqrt(acc.T)-acc.Sumes2)
			} else {
				// Ritchie's empirical transition constant.
				esoil2 = 0.6 * (eos - esoil1)
			}
		}
		// Stage 1 may already use all of eosMax; stage 2 drying is never undone.
		esoil2 = math.Max(0, math.Min(esoil2, eosMax-esoil1))
		acc.Sumes1 += esoil1
		acc.Sumes2 += esoil2
		acc.T = math.Pow(divide(acc.Sumes2, cona, 0), 2)
	} else {
		acc.T++
		esoil2 = math.Min(eos, cona*math.Sqrt(acc.T)-acc.Sumes2)
		esoil2 = math.Max(0, math.Min(esoil2, eosMax))
		acc.Sumes2 += esoil2
	}

	es := bound(esoil1+esoil2, 0, eos)
	e.Es = bound(es, 0, eosMax)
	return e.Es
}
