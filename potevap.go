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

// priestleyTaylor returns the potential evaporation [mm] calculated from
// the day's weather, the bare soil albedo salb and the green cover of the
// crop canopies.
func priestleyTaylor(wx Weather, salb float64, canopies []Canopy) float64 {
	covers := make([]float64, len(canopies))
	for i, cp := range canopies {
		covers[i] = cp.CoverGreen
	}
	coverGreen := combinedCover(covers...)
	albedo := 0.23 - (0.23-salb)*(1-coverGreen)

	// Equilibrium evaporation.
	const mjToLangley = 23.8846
	eeq := wx.Radn * mjToLangley * (0.000204 - 0.000183*albedo) *
		(0.6*wx.MaxT + 0.4*wx.MinT + 29)
	return eeq * eeqFactor(wx.MaxT)
}

// eeqFactor allows for advection above 35 °C and reduces evaporation
// below 5 °C.
func eeqFactor(maxT float64) float64 {
	switch {
	case maxT > 35:
		return (maxT-35)*0.05 + 1.1
	case maxT < 5:
		return 0.01 * math.Exp(0.18*(maxT+20))
	default:
		return 1.1
	}
}
