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
	"strings"
	"testing"
	"time"
)

const testMet = `[weather.met.weather]
!station number = 41023
latitude = -27.18  (DECIMAL DEGREES)
tav = 19.57 (oC) ! annual average ambient temperature
amp = 10.40 (oC) ! annual amplitude in mean monthly temperature

year  day radn  maxt   mint  rain  evap
 ()   () (MJ/m^2) (oC) (oC)  (mm)  (mm)
2000    1  24.0  32.5  19.0   0.0   7.2
2000    2  21.5  30.0  18.5  12.4   6.1
2000   60  18.0  27.0  15.0   3.0   4.0 ! leap year
`

func TestReadMet(t *testing.T) {
	md, err := ReadMet(strings.NewReader(testMet))
	if err != nil {
		t.Fatal(err)
	}
	if md.Constants["latitude"] != "-27.18" || md.Constants["tav"] != "19.57" {
		t.Errorf("constants: %v", md.Constants)
	}
	if _, ok := md.Constants["station number"]; ok {
		t.Errorf("comments should be ignored")
	}
	if len(md.Weather) != 3 {
		t.Fatalf("records: %d != 3", len(md.Weather))
	}
	want := Weather{Date: time.Date(2000, time.January, 2, 0, 0, 0, 0, time.UTC),
		Radn: 21.5, MaxT: 30, MinT: 18.5, Rain: 12.4}
	if md.Weather[1] != want {
		t.Errorf("record 2: %+v != %+v", md.Weather[1], want)
	}
	if len(md.Evap) != 3 || md.Evap[1] != 6.1 {
		t.Errorf("evap: %v", md.Evap)
	}
	if d := md.Weather[2].Date; d.Month() != time.February || d.Day() != 29 {
		t.Errorf("day 60 of 2000 should be 29 February but is %s", d.Format(DateFormat))
	}
}

func TestReadMetErrors(t *testing.T) {
	for name, met := range map[string]string{
		"no header":      "latitude = 1\n",
		"missing column": "year day radn maxt mint\n2000 1 1 1 1\n",
		"bad value":      "year day radn maxt mint rain\n2000 1 x 1 1 1\n",
		"bad day":        "year day radn maxt mint rain\n2000 400 1 1 1 1\n",
		"short record":   "year day radn maxt mint rain\n2000 1 1 1\n",
	} {
		if _, err := ReadMet(strings.NewReader(met)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
