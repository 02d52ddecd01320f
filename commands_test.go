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
	"testing"
)

func TestTillage(t *testing.T) {
	cfg := testConfig()
	cfg.TillageTypes["disc"] = TillageType{CNRed: 20, CNRain: 80}
	m := testModel(t, cfg)
	if err := m.Tillage("plough"); err == nil {
		t.Errorf("expected an error for an unknown tillage type")
	}
	if err := m.TillageExplicit(TillageType{CNRed: -1, CNRain: 10}); err == nil {
		t.Errorf("expected an error for a negative reduction")
	}
	if _, err := m.Step(testDay(0, 0)); err != nil {
		t.Fatal(err)
	}
	if err := m.Tillage("disc"); err != nil {
		t.Fatal(err)
	}
	want := tillageState{CNRed: 20, CNRain: 80}
	if got := m.Surface.normal().runoff.Tillage; got != want {
		t.Errorf("tillage state: %+v != %+v", got, want)
	}
	if m.evapReady {
		t.Errorf("tillage should reset the evaporation accumulators")
	}
	o, err := m.Step(testDay(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if o.CN2New != cfg.CN2Bare-20 {
		t.Errorf("cn2 after tillage: %g", o.CN2New)
	}
}

func TestSetWaterTable(t *testing.T) {
	m := testModel(t, testConfig())
	before := m.Profile.SWmm()
	if err := m.SetWaterTable(450); err != nil {
		t.Fatal(err)
	}
	p := m.Profile
	for i := 0; i < 2; i++ {
		if p.Layers[i].SWDep != before[i] {
			t.Errorf("layer %d above the water table changed", i+1)
		}
	}
	l3 := p.Layers[2]
	if want := l3.DULDep + 0.5*l3.DrainableCapacity(); different(l3.SWDep, want, 1.e-12) {
		t.Errorf("layer 3: %g != %g", l3.SWDep, want)
	}
	for _, l := range p.Layers[3:] {
		if l.SWDep != l.SatDep {
			t.Errorf("layer %d should be saturated", l.Number)
		}
	}
	calcDepthToWaterTable(p, m.cfg.Constants.ErrorMargin)
	if different(p.DepthToWaterTable, 450, 1.e-12) {
		t.Errorf("water table: %g != 450", p.DepthToWaterTable)
	}
	for _, d := range []float64{-1, 1201} {
		if err := m.SetWaterTable(d); err == nil {
			t.Errorf("expected an error for depth %g", d)
		}
	}
}

func TestDepthToWaterTable(t *testing.T) {
	type test struct {
		name string
		// saturated fraction of each layer
		fraction []float64
		depth    float64
	}
	tests := []test{
		{name: "none", fraction: []float64{0, 0, 0, 0, 0}, depth: 1200},
		{name: "bottom layer", fraction: []float64{0, 0, 0, 0, 1}, depth: 900},
		{name: "into layer above", fraction: []float64{0, 0, 0, 0.5, 1}, depth: 750},
		{name: "two layers and part of a third", fraction: []float64{0, 0, 0.25, 1, 1}, depth: 525},
		{name: "partly saturated layer above unsaturated", fraction: []float64{0, 0.5, 0, 0, 1}, depth: 900},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			p := testProfile(t, cfg)
			for i := range p.Layers {
				l := &p.Layers[i]
				if tt.fraction[i] > 0 {
					l.SWDep = l.DULDep + tt.fraction[i]*l.DrainableCapacity()
				}
			}
			calcDepthToWaterTable(p, cfg.Constants.ErrorMargin)
			if different(p.DepthToWaterTable, tt.depth, 1.e-12) {
				t.Errorf("depth to water table: %g != %g", p.DepthToWaterTable, tt.depth)
			}
		})
	}
}

func TestWaterCommands(t *testing.T) {
	m := testModel(t, testConfig())
	p := m.Profile
	if err := m.SetWaterFrac([]float64{0.3, 0.3}); err != nil {
		t.Fatal(err)
	}
	if p.Layers[0].SWDep != 45 || p.Layers[2].SWDep != 75 {
		t.Errorf("only the top two layers should change: %v", p.SWmm())
	}
	if err := m.SetWaterMM([]float64{50}); err != nil {
		t.Fatal(err)
	}
	if err := m.RemoveWater([]float64{-10, 5}); err != nil {
		t.Fatal(err)
	}
	if p.Layers[0].SWDep != 40 || p.Layers[1].SWDep != 50 {
		t.Errorf("remove water: %v", p.SWmm())
	}
	if err := m.DeltaWaterFrac([]float64{0, 0, 0.1}); err != nil {
		t.Fatal(err)
	}
	if different(p.Layers[2].SWDep, 105, 1.e-12) {
		t.Errorf("delta water: %g != 105", p.Layers[2].SWDep)
	}
	if err := m.DeltaWaterFrac([]float64{2}); err == nil {
		t.Errorf("expected an error for a volumetric change above 1")
	}
	if err := m.SetWaterMM(make([]float64, 6)); err == nil {
		t.Errorf("expected an error for too many layers")
	}
	before := m.w.count
	if err := m.ExtractWater([]float64{-39}); err != nil {
		t.Fatal(err)
	}
	if m.w.count != before+1 {
		t.Errorf("extracting water below air dry should warn")
	}
}

func TestSetMaxPond(t *testing.T) {
	m := testModel(t, testConfig())
	if m.Surface.Kind() != NormalSurface {
		t.Fatalf("surface: %v", m.Surface.Kind())
	}
	m.Surface.normal().runoff.Tillage = tillageState{CNRed: 5, CNRain: 10}
	m.SetMaxPond(30)
	if m.Surface.Kind() != PondedSurface {
		t.Fatalf("surface: %v", m.Surface.Kind())
	}
	if m.Surface.normal().runoff.Tillage.CNRed != 5 {
		t.Errorf("runoff state should be kept when the surface changes")
	}
	m.Surface.(*pondSurface).pond = 25
	m.SetMaxPond(10)
	if m.Surface.Pond() != 10 {
		t.Errorf("pond: %g != 10", m.Surface.Pond())
	}
	m.SetMaxPond(0)
	if m.Surface.Kind() != NormalSurface || m.Surface.Pond() != 0 {
		t.Errorf("surface should be normal with no pond")
	}
	if m.w.count != 2 {
		t.Errorf("expected 2 warnings about lost pond water but got %d", m.w.count)
	}
}

func TestIrrigate(t *testing.T) {
	m := testModel(t, testConfig())
	if err := m.Irrigate(IrrigationEvent{Amount: 10, Depth: -5}); err == nil {
		t.Errorf("expected an error for negative depth")
	}
	if err := m.Irrigate(IrrigationEvent{Amount: 10, NO3: 3}); err != nil {
		t.Fatal(err)
	}
	no3, _ := m.Profile.SoluteID("NO3")
	o, err := m.Step(testDay(0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if o.Infiltration != 10 || o.Runoff != 0 {
		t.Errorf("surface irrigation should infiltrate: infiltration=%g, runoff=%g",
			o.Infiltration, o.Runoff)
	}
	if different(totalSolute(m.Profile, no3), 3, 1.e-12) {
		t.Errorf("irrigation solute: %g != 3", totalSolute(m.Profile, no3))
	}
	o, err = m.Step(testDay(1, 0))
	if err != nil {
		t.Fatal(err)
	}
	if o.Infiltration != 0 {
		t.Errorf("irrigation should only be applied once")
	}
}

func TestLateralFlow(t *testing.T) {
	if _, err := newLateralGeometry(0.1, -1, 100); err == nil {
		t.Errorf("expected an error for negative width")
	}
	g, err := newLateralGeometry(0.1, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if g.factor != 0 {
		t.Errorf("factor with no catchment: %g", g.factor)
	}

	g, err = newLateralGeometry(0.75, 20, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if want := 20. / 1000 * 1.e-3 * 0.75 / 1.25; different(g.factor, want, 1.e-12) {
		t.Errorf("factor: %g != %g", g.factor, want)
	}

	cfg := testConfig()
	cfg.KLAT = []float64{1000, 1000, 1000, 1000, 1000}
	cfg.SW = []float64{0.45, 0.4, 0.3, 0.3, 0.3}
	p := testProfile(t, cfg)
	w := newWarner(nil)
	before := p.TotalWater()
	g.lateralFlow(p, []float64{0, 0, 5}, w)

	var out float64
	for _, l := range p.Layers {
		out += l.OutflowLat
		if l.SWDep < l.DULDep && l.OutflowLat != 0 {
			t.Errorf("layer %d: lateral outflow %g below dul", l.Number, l.OutflowLat)
		}
	}
	if p.Layers[0].OutflowLat <= 0 {
		t.Errorf("no lateral outflow from a wet layer")
	}
	if different(p.TotalWater(), before+5-out, 1.e-12) {
		t.Errorf("lateral balance: %g != %g", p.TotalWater(), before+5-out)
	}
	if w.count != 0 {
		t.Errorf("%d unexpected warnings", w.count)
	}
}
