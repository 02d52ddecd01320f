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
	"testing"
	"time"
)

const testTolerance = 1.0e-9

// testConfig returns a five layer soil with ample drainage.
func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Thickness = []float64{150, 150, 300, 300, 300}
	cfg.BD = []float64{1.1, 1.2, 1.3, 1.35, 1.4}
	cfg.SAT = []float64{0.5, 0.48, 0.45, 0.44, 0.42}
	cfg.DUL = []float64{0.35, 0.34, 0.33, 0.32, 0.31}
	cfg.LL15 = []float64{0.15, 0.16, 0.17, 0.18, 0.19}
	cfg.AirDry = []float64{0.08, 0.12, 0.17, 0.18, 0.19}
	cfg.SW = []float64{0.25, 0.25, 0.25, 0.25, 0.25}
	cfg.SummerU, cfg.SummerCona = 6, 3.5
	cfg.WinterU, cfg.WinterCona = 4, 2.5
	cfg.Solutes = []string{"NO3", "NH4", "Cl"}
	cfg.PotentialEvap = EoFromInput
	return cfg
}

// singleLayerConfig returns a 100 mm soil with sat=50mm, dul=35mm,
// ll15=15mm and air dry=5mm.
func singleLayerConfig() *Config {
	cfg := DefaultConfig()
	cfg.Thickness = []float64{100}
	cfg.BD = []float64{1.3}
	cfg.SAT = []float64{0.5}
	cfg.DUL = []float64{0.35}
	cfg.LL15 = []float64{0.15}
	cfg.AirDry = []float64{0.05}
	cfg.SW = []float64{0.15}
	cfg.SummerU, cfg.SummerCona = 6, 3.5
	cfg.PotentialEvap = EoFromInput
	return cfg
}

func testProfile(t *testing.T, cfg *Config) *Profile {
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	p, err := newProfile(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func testModel(t *testing.T, cfg *Config) *Model {
	m, err := NewModel(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

var testStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// testDay returns the input for a summer day with the given rainfall.
func testDay(day int, rain float64) DailyInput {
	date := testStart.AddDate(0, 0, day)
	return DailyInput{
		Date:    date,
		Weather: Weather{Date: date, Radn: 22, MaxT: 30, MinT: 16, Rain: rain},
		Eo:      6,
	}
}

// setSolute puts amount [kg/ha] of the named solute in every layer.
func setSolute(t *testing.T, p *Profile, name string, amount float64) {
	v := make([]float64, len(p.Layers))
	for i := range v {
		v[i] = amount
	}
	if err := p.SetSoluteAmounts(name, v); err != nil {
		t.Fatal(err)
	}
}

func totalSolute(p *Profile, id int) float64 {
	var s float64
	for _, v := range p.SoluteAmounts(id) {
		s += v
	}
	return s
}

func different(a, b, tolerance float64) bool {
	if math.Abs(a-b) < testTolerance {
		return false
	}
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}
