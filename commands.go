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
	"math"

	"github.com/sirupsen/logrus"
)

// Reset returns the profile and surface to their initial state.
func (m *Model) Reset() error {
	m.log.Info("resetting soil water balance")
	return m.reset()
}

// Tillage applies the tillage operation with the given name from the
// configured tillage types.
func (m *Model) Tillage(name string) error {
	t, ok := m.cfg.TillageTypes[name]
	if !ok {
		return fmt.Errorf("soilwat: cannot find info for tillage '%s'", name)
	}
	return m.tillage(name, t)
}

// TillageExplicit applies a tillage operation with the given effect.
func (m *Model) TillageExplicit(t TillageType) error {
	return m.tillage("a user specified tillage type", t)
}

func (m *Model) tillage(name string, t TillageType) error {
	if err := t.check(name); err != nil {
		return err
	}
	n := m.Surface.normal()
	n.runoff.setTillage(t)
	m.evapReady = false
	m.log.WithFields(logrus.Fields{
		"cn_red": n.runoff.Tillage.CNRed, "cn_rain": n.runoff.Tillage.CNRain,
	}).Infof("soil tilled using %s", name)
	return nil
}

// SetWaterTable sets the water content of the profile so that the water
// table is at depth [mm].
func (m *Model) SetWaterTable(depth float64) error {
	return setWaterTable(m.Profile, depth)
}

// SetWaterMM sets the water content [mm] of the top len(v) layers.
func (m *Model) SetWaterMM(v []float64) error { return m.Profile.SetWaterMM(v) }

// SetWaterFrac sets the volumetric water content of the top len(v) layers.
func (m *Model) SetWaterFrac(v []float64) error { return m.Profile.SetWaterFrac(v) }

// RemoveWater changes the water content of the top len(delta) layers by
// delta [mm]. Water is removed where delta is negative.
func (m *Model) RemoveWater(delta []float64) error { return m.Profile.DeltaWaterMM(delta) }

// DeltaWaterFrac changes the volumetric water content of the top len(delta)
// layers by delta.
func (m *Model) DeltaWaterFrac(delta []float64) error {
	for _, d := range delta {
		if d < -1 || d > 1 {
			return fmt.Errorf("soilwat: volumetric water change %g is outside of [-1, 1]", d)
		}
	}
	return m.Profile.DeltaWaterFrac(delta)
}

// ExtractWater changes the water content of the top len(delta) layers by
// delta [mm], as when water is taken up by roots, and checks the layers
// that have changed.
func (m *Model) ExtractWater(delta []float64) error {
	if err := m.Profile.DeltaWaterMM(delta); err != nil {
		return err
	}
	for i := range delta {
		m.Profile.Layers[i].check(&m.cfg.Constants, m.w)
	}
	return nil
}

// SetMaxPond changes the maximum depth [mm] of water that can pond on the
// surface, switching between a normal and a ponded surface as needed.
// Pond water that no longer fits is lost.
func (m *Model) SetMaxPond(depth float64) {
	oldPond := m.Surface.Pond()
	m.maxPond = depth
	m.Surface = newSurface(m.Surface.normal(), depth)
	if s, ok := m.Surface.(*pondSurface); ok {
		s.pond = math.Min(oldPond, depth)
	}
	if lost := oldPond - m.Surface.Pond(); lost > 0 {
		m.w.warnf(logrus.Fields{"max pond": depth},
			"%g mm of ponded water was lost when the maximum pond depth was changed", lost)
	}
}

// Irrigate schedules an irrigation event to be applied on the next
// simulated day.
func (m *Model) Irrigate(ev IrrigationEvent) error {
	if err := m.checkIrrigation(&ev); err != nil {
		return err
	}
	m.irrigation = append(m.irrigation, ev)
	return nil
}
