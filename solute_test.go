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

import "testing"

func TestSoluteFluxSatConservation(t *testing.T) {
	cfg := testConfig()
	cfg.SW = []float64{0.48, 0.45, 0.4, 0.36, 0.33}
	p := testProfile(t, cfg)
	id, _ := p.SoluteID("NO3")
	setSolute(t, p, "NO3", 20)
	before := totalSolute(p, id)

	p.top().SWDep += 40
	calcSaturatedFlow(p)
	doSaturatedFlow(p)
	moveSolutes(p, cfg.Constants.SoluteFluxEff, soluteFluxSat)

	leach := p.Leach(id)
	if leach <= 0 {
		t.Errorf("no solute leached from a draining profile")
	}
	after := totalSolute(p, id)
	if different(after+leach, before, 1.e-12) {
		t.Errorf("solute balance: %g + %g != %g", after, leach, before)
	}
	var delta float64
	for _, d := range p.SoluteDeltas()["NO3"] {
		delta += d
	}
	if different(delta, -leach, 1.e-10) {
		t.Errorf("sum of deltas %g != %g", delta, -leach)
	}
	for _, l := range p.Layers {
		if l.Solutes[id].Amount < 0 {
			t.Errorf("layer %d: negative solute %g", l.Number, l.Solutes[id].Amount)
		}
	}
}

func TestSoluteFlowUnsatConservation(t *testing.T) {
	type test struct {
		name string
		sw   []float64
	}
	tests := []test{
		{name: "downward", sw: []float64{0.34, 0.18, 0.2, 0.2, 0.2}},
		{name: "upward", sw: []float64{0.16, 0.2, 0.3, 0.31, 0.3}},
		{name: "mixed", sw: []float64{0.3, 0.17, 0.31, 0.19, 0.3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.SW = tt.sw
			p := testProfile(t, cfg)
			setSolute(t, p, "Cl", 10)
			setSolute(t, p, "NH4", 5)
			cl, _ := p.SoluteID("Cl")
			nh4, _ := p.SoluteID("NH4")
			beforeCl := totalSolute(p, cl)
			beforeWater := p.TotalWater()

			u := unsatFlow{diffusConst: cfg.DiffusConst, diffusSlope: cfg.DiffusSlope,
				gravityGradient: cfg.Constants.GravityGradient}
			u.calc(p)
			doUnsaturatedFlow(p)
			moveSolutes(p, cfg.Constants.SoluteFlowEff, soluteFlowUnsat)

			var moved bool
			for _, l := range p.Layers {
				if l.Flow != 0 {
					moved = true
				}
			}
			if !moved {
				t.Errorf("no unsaturated flow")
			}
			if different(p.TotalWater(), beforeWater, 1.e-12) {
				t.Errorf("water balance: %g != %g", p.TotalWater(), beforeWater)
			}
			if after := totalSolute(p, cl); different(after, beforeCl, 1.e-12) {
				t.Errorf("solute balance: %g != %g", after, beforeCl)
			}
			for _, l := range p.Layers {
				if l.Solutes[nh4].Amount != 5 {
					t.Errorf("layer %d: immobile solute moved to %g", l.Number, l.Solutes[nh4].Amount)
				}
				if l.Solutes[cl].Amount < -testTolerance {
					t.Errorf("layer %d: negative solute %g", l.Number, l.Solutes[cl].Amount)
				}
			}
		})
	}
}

func TestUnsaturatedFlowDirection(t *testing.T) {
	cfg := testConfig()
	cfg.SW = []float64{0.34, 0.18, 0.2, 0.2, 0.2}
	p := testProfile(t, cfg)
	u := unsatFlow{diffusConst: cfg.DiffusConst, diffusSlope: cfg.DiffusSlope,
		gravityGradient: cfg.Constants.GravityGradient}
	u.calc(p)
	if p.Layers[0].Flow >= 0 {
		t.Errorf("flow from a wet layer to a dry layer below should be downward, got %g",
			p.Layers[0].Flow)
	}
	if p.bottom().Flow != 0 {
		t.Errorf("there is no flow below the bottom layer, got %g", p.bottom().Flow)
	}
	top, second := p.Layers[0], p.Layers[1]
	if -top.Flow > second.DULDep-second.SWDep+testTolerance {
		t.Errorf("flow %g overfills the layer below", -top.Flow)
	}
}

func TestUnsaturatedFlowAboveDUL(t *testing.T) {
	type test struct {
		name string
		sw   []float64
		// sign of the flow between the top two layers
		sign int
	}
	tests := []test{
		{name: "both above dul", sw: []float64{0.45, 0.36, 0.2, 0.2, 0.2}, sign: 0},
		{name: "lower wetter, both above dul", sw: []float64{0.36, 0.46, 0.2, 0.2, 0.2}, sign: 0},
		{name: "upper above dul", sw: []float64{0.45, 0.2, 0.2, 0.2, 0.2}, sign: -1},
		{name: "lower above dul", sw: []float64{0.2, 0.46, 0.2, 0.2, 0.2}, sign: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.SW = tt.sw
			p := testProfile(t, cfg)
			u := unsatFlow{diffusConst: cfg.DiffusConst, diffusSlope: cfg.DiffusSlope,
				gravityGradient: cfg.Constants.GravityGradient}
			u.calc(p)
			flow := p.Layers[0].Flow
			switch {
			case tt.sign == 0 && flow != 0:
				t.Errorf("flow %g should be 0", flow)
			case tt.sign < 0 && flow >= 0:
				t.Errorf("flow %g should be downward", flow)
			case tt.sign > 0 && flow <= 0:
				t.Errorf("flow %g should be upward", flow)
			}
		})
	}
}
