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
	"strings"
)

// Constants holds the tunable parameters of the soil water model that
// are not specific to a particular soil.
type Constants struct {
	// AToEvapFact is the exponent applied to the residue cover when
	// reducing potential evaporation.
	AToEvapFact float64

	// CanopyEosCoef is the extinction coefficient used to reduce
	// potential soil evaporation beneath a crop canopy.
	CanopyEosCoef float64

	// SWTopCrit is the critical relative top-layer water content used
	// when initialising the evaporation accumulators.
	SWTopCrit float64

	// Sumes1Max and Sumes2Max are the upper limits [mm] of the stage 1 and
	// stage 2 evaporation accumulators at initialisation.
	Sumes1Max, Sumes2Max float64

	// SoluteFlowEff and SoluteFluxEff are the efficiencies of solute
	// movement with unsaturated flow and saturated flux. A single value
	// applies to all layers, otherwise there must be one value per layer.
	SoluteFlowEff, SoluteFluxEff []float64

	// GravityGradient is the gravity term subtracted from the unsaturated
	// flow gradient [mm/mm].
	GravityGradient float64

	// SpecificBD is the specific bulk density of soil particles [g/cc].
	SpecificBD float64

	// HydrolEffectiveDepth is the depth [mm] over which the soil water
	// status affects the runoff curve number.
	HydrolEffectiveDepth float64

	// MobileSolutes and ImmobileSolutes classify solutes by name.
	// Matching is case-insensitive.
	MobileSolutes, ImmobileSolutes []string

	// CanopyFactHeight [mm] and CanopyFact give the effectiveness of crop
	// cover in reducing runoff as a function of canopy height.
	CanopyFactHeight, CanopyFact []float64

	// CanopyFactDefault is used when a crop does not report its height.
	CanopyFactDefault float64

	// ErrorMargin is the rounding margin used in water content checks.
	ErrorMargin float64
}

// DefaultConstants returns the standard parameter set.
func DefaultConstants() Constants {
	return Constants{
		AToEvapFact:          0.44,
		CanopyEosCoef:        1.7,
		SWTopCrit:            0.9,
		Sumes1Max:            100,
		Sumes2Max:            25,
		SoluteFlowEff:        []float64{1},
		SoluteFluxEff:        []float64{1},
		GravityGradient:      0.00002,
		SpecificBD:           2.65,
		HydrolEffectiveDepth: 450,
		MobileSolutes: []string{"NO3", "urea", "Cl", "br", "org_n",
			"org_c_pool1", "org_c_pool2", "org_c_pool3"},
		ImmobileSolutes:   []string{"NH4", "PlantAvailableNH4", "PlantAvailableNO3"},
		CanopyFactHeight:  []float64{0, 600, 1800, 30000},
		CanopyFact:        []float64{1, 1, 0, 0},
		CanopyFactDefault: 0.5,
		ErrorMargin:       0.0001,
	}
}

// Thresholds used by the layer state predicates.
const (
	fullySaturatedFraction = 0.999999
	maxDiffusivity         = 10000. // mm2/day
	weightSumTolerance     = 0.0001
	roundToZeroTolerance   = 1.0e-15
)

// mobility returns whether the named solute is mobile. It returns an error
// if the solute has not been classified.
func (c *Constants) mobility(name string) (bool, error) {
	if containsFold(c.MobileSolutes, name) {
		return true, nil
	}
	if containsFold(c.ImmobileSolutes, name) {
		return false, nil
	}
	return false, fmt.Errorf("soilwat: no solute mobility information for %s, "+
		"please specify it as mobile or immobile", name)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// efficiency returns the value in eff that applies to layer index i.
func efficiency(eff []float64, i int) float64 {
	if len(eff) == 1 {
		return eff[0]
	}
	return eff[i]
}

// check makes sure that the constants are internally consistent for a
// profile with nLayers layers.
func (c *Constants) check(nLayers int) error {
	for _, e := range []struct {
		name string
		v    []float64
	}{{"SoluteFlowEff", c.SoluteFlowEff}, {"SoluteFluxEff", c.SoluteFluxEff}} {
		if len(e.v) != 1 && len(e.v) != nLayers {
			return fmt.Errorf("soilwat: %s has %d values but should have either 1 or %d",
				e.name, len(e.v), nLayers)
		}
	}
	if len(c.CanopyFact) != len(c.CanopyFactHeight) || len(c.CanopyFact) == 0 {
		return fmt.Errorf("soilwat: CanopyFact (%d values) and CanopyFactHeight (%d values) "+
			"must have the same non-zero length", len(c.CanopyFact), len(c.CanopyFactHeight))
	}
	if c.HydrolEffectiveDepth <= 0 {
		return fmt.Errorf("soilwat: HydrolEffectiveDepth must be positive but is %g",
			c.HydrolEffectiveDepth)
	}
	return nil
}
