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

package soilwatutil

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/spatialmodel/soilwat"
)

func TestSummarize(t *testing.T) {
	o, err := soilwat.NewOutputter(map[string]string{"Loss": "Runoff + Es", "Wet": "ESW"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	o.Records = []soilwat.Record{
		{Date: "2000-01-01", Values: []float64{1, 10}},
		{Date: "2000-01-02", Values: []float64{3, 10}},
	}
	s := Summarize(o)
	want := []Summary{
		{Name: "Loss", Total: 4, Mean: 2, Min: 1, Max: 3, Std: math.Sqrt2},
		{Name: "Wet", Total: 20, Mean: 10, Min: 10, Max: 10, Std: 0},
	}
	for i, w := range want {
		g := s[i]
		if g.Name != w.Name || different(g.Total, w.Total) || different(g.Mean, w.Mean) ||
			different(g.Min, w.Min) || different(g.Max, w.Max) || different(g.Std, w.Std) {
			t.Errorf("summary %d: %+v != %+v", i, g, w)
		}
	}

	b := new(bytes.Buffer)
	WriteSummary(b, "run-1", s)
	for _, want := range []string{"run-1", "Loss", "Wet", "1.414"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("summary table should contain %s:\n%s", want, b.String())
		}
	}

	o.Records = o.Records[:1]
	if s = Summarize(o); s[0].Std != 0 {
		t.Errorf("the standard deviation of a single day should be zero, not %g", s[0].Std)
	}
}

func TestCheck(t *testing.T) {
	b := new(bytes.Buffer)
	if err := Check(b, "testdata/soil.yaml"); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{"4 layers", "900 mm deep", "0 warnings", "DUL"} {
		if !strings.Contains(out, want) {
			t.Errorf("check output should contain '%s':\n%s", want, out)
		}
	}
}
