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
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestOutputter(t *testing.T) {
	o, err := NewOutputter(map[string]string{
		"TotalSW":  "sum(SWmm)",
		"Double":   "TotalSW * 2",
		"Grouped":  "{Runoff + Drainage} * 2",
		"TopSW":    "layer(SW, 1)",
		"Deepest":  "max(Flux)",
		"NO3Leach": "Leach_NO3",
		"Wet":      "Runoff > 0",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	wantNames := []string{"Deepest", "Double", "Grouped", "NO3Leach", "TopSW", "TotalSW", "Wet"}
	if !reflect.DeepEqual(o.Names(), wantNames) {
		t.Errorf("names: %v != %v", o.Names(), wantNames)
	}
	if e := o.Expression("Double"); e != "(sum(SWmm)) * 2" {
		t.Errorf("expanded expression: %s", e)
	}

	out := DailyOutput{
		Date:     time.Date(2000, time.March, 3, 0, 0, 0, 0, time.UTC),
		Runoff:   1,
		Drainage: 2,
		SWmm:     []float64{10, 20, 30},
		SW:       []float64{0.1, 0.2, 0.3},
		Flux:     []float64{4, 7, 5},
		Leach:    map[string]float64{"NO3": 0.5},
	}
	r, err := o.evaluate(&out)
	if err != nil {
		t.Fatal(err)
	}
	if r.Date != "2000-03-03" {
		t.Errorf("date: %s", r.Date)
	}
	want := []float64{7, 120, 6, 0.5, 0.1, 60, 1}
	for i, name := range o.Names() {
		if different(r.Values[i], want[i], 1.e-12) {
			t.Errorf("%s: %g != %g", name, r.Values[i], want[i])
		}
	}
}

func TestOutputterErrors(t *testing.T) {
	type test struct {
		name string
		vars map[string]string
	}
	tests := []test{
		{name: "parse", vars: map[string]string{"x": "Runoff +"}},
		{name: "circular", vars: map[string]string{"a": "b + 1", "b": "a + 1"}},
		{name: "braces", vars: map[string]string{"x": "{{Runoff}}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewOutputter(tt.vars, nil); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestCheckOutputVars(t *testing.T) {
	m := testModel(t, testConfig())
	ok, err := NewOutputter(map[string]string{"x": "Leach_NO3 + sum(Delta_Cl)"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := ok.CheckOutputVars()(m); err != nil {
		t.Error(err)
	}
	// NH4 is immobile so it is not leached.
	bad, err := NewOutputter(map[string]string{"x": "Leach_NH4"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	err = bad.CheckOutputVars()(m)
	if err == nil || !strings.Contains(err.Error(), "Leach_NH4") {
		t.Errorf("expected an undefined variable error but got %v", err)
	}
}

func TestOutputterLayered(t *testing.T) {
	o, err := NewOutputter(map[string]string{"x": "SW"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := o.evaluate(&DailyOutput{SW: []float64{1}}); err == nil {
		t.Errorf("expected an error for an unsummarized layered variable")
	}
	o, err = NewOutputter(map[string]string{"x": "layer(SW, 4)"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := o.evaluate(&DailyOutput{SW: []float64{1}}); err == nil {
		t.Errorf("expected an error for a layer number beyond the profile")
	}
}
