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
	"testing"
)

func TestSaturatedFlowConservation(t *testing.T) {
	type test struct {
		name         string
		ks           []float64
		sw           []float64
		infiltration float64
	}
	tests := []test{
		{name: "dry", sw: []float64{0.2, 0.2, 0.2, 0.2, 0.2}, infiltration: 10},
		{name: "wet", sw: []float64{0.45, 0.4, 0.4, 0.4, 0.4}, infiltration: 60},
		{name: "ks", ks: []float64{500, 200, 50, 50, 50},
			sw: []float64{0.45, 0.45, 0.42, 0.4, 0.4}, infiltration: 80},
		{name: "backup", ks: []float64{1000, 1, 10, 10, 10},
			sw: []float64{0.5, 0.48, 0.45, 0.44, 0.42}, infiltration: 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.KS = tt.ks
			cfg.SW = tt.sw
			p := testProfile(t, cfg)
			before := p.TotalWater()

			p.top().SWDep += tt.infiltration
			backedUp := calcSaturatedFlow(p)
			p.top().SWDep -= backedUp
			doSaturatedFlow(p)

			change := p.TotalWater() - before
			want := tt.infiltration - p.Drainage - backedUp
			if different(change, want, 1.e-10) {
				t.Errorf("water balance: change %g != %g", change, want)
			}
			if tt.name == "backup" && backedUp <= 0 {
				t.Errorf("water should have backed up to the surface")
			}
			if tt.ks == nil && backedUp != 0 {
				t.Errorf("backed up water %g without KS", backedUp)
			}
			for _, l := range p.Layers {
				if l.SWDep > l.SatDep+testTolerance {
					t.Errorf("layer %d: sw %g above saturation %g", l.Number, l.SWDep, l.SatDep)
				}
			}
		})
	}
}

func TestSaturatedExcess(t *testing.T) {
	cfg := singleLayerConfig()
	cfg.SW = []float64{0.5}
	cfg.SWCON = []float64{0.5}
	p := testProfile(t, cfg)

	p.top().SWDep += 10
	calcSaturatedFlow(p)
	// The layer was at saturation before the inflow, so all of the inflow
	// is excess, and the water held between dul and sat drains at SWCON.
	want := 10 + (50-35)*0.5
	if different(p.top().Flux, want, 1.e-12) {
		t.Errorf("flux: %g != %g", p.top().Flux, want)
	}
	doSaturatedFlow(p)
	if different(p.Drainage, want, 1.e-12) {
		t.Errorf("drainage: %g != %g", p.Drainage, want)
	}
	if different(p.top().SWDep, 42.5, 1.e-12) {
		t.Errorf("sw: %g != 42.5", p.top().SWDep)
	}
}

func TestSaturatedFlowBelowDUL(t *testing.T) {
	p := testProfile(t, testConfig())
	calcSaturatedFlow(p)
	doSaturatedFlow(p)
	for _, l := range p.Layers {
		if l.Flux != 0 {
			t.Errorf("layer %d: flux %g from a profile below dul", l.Number, l.Flux)
		}
	}
	if p.Drainage != 0 {
		t.Errorf("drainage %g", p.Drainage)
	}
}

func ExampleProfile_FindLayerNo() {
	cfg := testConfig()
	cfg.Validate()
	p, _ := newProfile(cfg)
	fmt.Println(p.FindLayerNo(0), p.FindLayerNo(150), p.FindLayerNo(151), p.FindLayerNo(5000))
	// Output: 1 1 2 5
}
