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
	"testing"
)

var pngSignature = []byte("\x89PNG")

func TestPlotWaterBalance(t *testing.T) {
	_, o := testRun(t)
	b := new(bytes.Buffer)
	if err := PlotWaterBalance(b, o.History); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b.Bytes(), pngSignature) {
		t.Error("output is not a PNG image")
	}
	if err := PlotWaterBalance(b, nil); err == nil {
		t.Error("expected an error for an empty history")
	}
}

func TestPlotProfile(t *testing.T) {
	m, _ := testRun(t)
	b := new(bytes.Buffer)
	if err := PlotProfile(b, m.Profile); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(b.Bytes(), pngSignature) {
		t.Error("output is not a PNG image")
	}
}
