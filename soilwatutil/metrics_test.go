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
	"io/ioutil"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	m, o := testRun(t, c.Observe())

	if days := testutil.ToFloat64(c.Days); days != float64(m.Days) {
		t.Errorf("days: %g != %d", days, m.Days)
	}
	var runoff, infiltration float64
	var warnings int
	for _, h := range o.History {
		runoff += h.Runoff
		infiltration += h.Infiltration
		warnings += h.Warnings
	}
	if v := testutil.ToFloat64(c.Water.WithLabelValues("runoff")); different(v, runoff) {
		t.Errorf("runoff: %g != %g", v, runoff)
	}
	if v := testutil.ToFloat64(c.Water.WithLabelValues("infiltration")); different(v, infiltration) {
		t.Errorf("infiltration: %g != %g", v, infiltration)
	}
	if v := testutil.ToFloat64(c.Warnings); v != float64(warnings) {
		t.Errorf("warnings: %g != %d", v, warnings)
	}
	if v := testutil.ToFloat64(c.ESW); different(v, m.Output.ESW) {
		t.Errorf("esw: %g != %g", v, m.Output.ESW)
	}

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"soilwat_days_total", "soilwat_water_mm_total", "soilwat_step_duration_seconds"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics should include %s", name)
		}
	}
}

func TestMetricsRegisteredTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	c1, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	c2, err := NewMetrics(reg)
	if err != nil {
		t.Fatal(err)
	}
	c1.Days.Inc()
	if v := testutil.ToFloat64(c2.Days); v != 1 {
		t.Errorf("the second collector should share the first one's counters: %g", v)
	}
}
