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

package hash

import (
	"math"
	"testing"
)

type soil struct {
	Thickness []float64
	Names     map[string]float64
}

type named string

func (n named) String() string { return "name:" + string(n) }

func TestKey(t *testing.T) {
	a := soil{Thickness: []float64{150, 300}, Names: map[string]float64{"a": 1, "b": 2}}
	b := soil{Thickness: []float64{150, 300}, Names: map[string]float64{"b": 2, "a": 1}}
	c := soil{Thickness: []float64{150, 301}}
	if Key(a) != Key(b) {
		t.Errorf("equal objects have different keys: %s != %s", Key(a), Key(b))
	}
	if Key(a) == Key(c) {
		t.Errorf("different objects have the same key %s", Key(a))
	}
	if len(Key(a)) != 32 {
		t.Errorf("key %s should have 32 characters", Key(a))
	}
	if Key(named("x")) != "name:x" {
		t.Errorf("stringer key = %s", Key(named("x")))
	}
	if Short(a) != Key(a)[:8] {
		t.Errorf("short key %s", Short(a))
	}
}

func TestKeyUnexported(t *testing.T) {
	type private struct {
		v float64
	}
	x, y := private{v: math.NaN()}, private{v: 1}
	if Key(x) != Key(private{v: math.NaN()}) {
		t.Error("keys of unexported fields should be deterministic")
	}
	if Key(x) == Key(y) {
		t.Error("keys of unexported fields should differ")
	}
}

func TestKeyMapOrder(t *testing.T) {
	newSoil := func() soil {
		s := soil{Names: make(map[string]float64)}
		for i, n := range []string{"disc", "chisel", "planter", "scarifier", "rip", "burn", "harrow"} {
			s.Names[n] = float64(i)
		}
		return s
	}
	want := Key(newSoil())
	for i := 0; i < 50; i++ {
		if k := Key(newSoil()); k != want {
			t.Fatalf("attempt %d: key %s != %s", i, k, want)
		}
	}
}
