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

import "time"

// Weather holds a day's weather.
type Weather struct {
	Date time.Time
	Radn float64 // solar radiation [MJ/m²/day]
	MaxT float64 // maximum temperature [°C]
	MinT float64 // minimum temperature [°C]
	Rain float64 // [mm]
}

// Canopy describes the cover provided by one crop.
type Canopy struct {
	CoverGreen float64 // green cover fraction
	CoverTotal float64 // total cover fraction
	Height     float64 // [mm]; negative if unknown
}

// IrrigationEvent is a single application of irrigation water.
type IrrigationEvent struct {
	Amount float64 // [mm]

	// Depth [mm] is the depth of subsurface irrigation, or zero for
	// irrigation applied to the surface.
	Depth float64

	// WillRunoff marks surface irrigation that is subject to runoff like
	// rainfall.
	WillRunoff bool

	// Solutes applied with the water [kg/ha].
	NO3, NH4, CL float64
}

// DailyInput holds everything the model receives from outside for one day.
type DailyInput struct {
	Date    time.Time
	Weather Weather

	// Eo is the potential evaporation [mm], used only when the model is
	// configured to take it from the input.
	Eo float64

	Runon        float64 // [mm]
	Interception float64 // rainfall intercepted by canopy and residue [mm]

	Canopies     []Canopy
	ResidueCover float64 // fraction

	Irrigation []IrrigationEvent

	// InflowLat is the lateral inflow into each layer [mm].
	InflowLat []float64

	// Solutes holds the amount of each solute in each layer [kg/ha], as
	// known by the models that transform them. Solutes that are missing
	// keep their current amounts.
	Solutes map[string][]float64
}

// potentialInfiltration returns the rainfall that reaches the soil surface.
func (in *DailyInput) potentialInfiltration() float64 {
	return in.Weather.Rain - in.Interception
}

// DailyOutput holds the results of one simulated day. Water amounts are
// in mm and solute amounts in kg/ha.
type DailyOutput struct {
	Date time.Time

	Runoff, Infiltration float64
	Eo, Eos, Es          float64

	// T is the number of days since stage 2 evaporation began.
	T float64

	CN2New             float64
	CoverSurfaceRunoff float64
	Pond, PondEvap     float64
	Drainage           float64
	WaterTable         float64
	ESW                float64

	SWmm, SW, Flow, Flux, LateralOutflow []float64

	// Leach is the amount of each mobile solute leaving the bottom of
	// the profile.
	Leach map[string]float64

	// SoluteDeltas is the change in each mobile solute caused by water
	// movement.
	SoluteDeltas map[string][]float64

	// Warnings is the number of physical consistency warnings issued
	// during the day.
	Warnings int
}

// InputSource supplies daily inputs. Next returns io.EOF when there
// are no more days.
type InputSource interface {
	Next() (DailyInput, error)
}
