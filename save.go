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
	"encoding/gob"
	"fmt"
	"io"
)

// checkpoint is the simulation state written by Save.
type checkpoint struct {
	Profile    *Profile
	Tillage    tillageState
	Evap       evapState
	EvapReady  bool
	MaxPond    float64
	Pond       float64
	Days       int
	Irrigation []IrrigationEvent
}

// Save returns a function that writes the state of the simulation to w
// so that it can be resumed later.
func Save(w io.Writer) DomainManipulator {
	return func(m *Model) error {
		n := m.Surface.normal()
		c := checkpoint{
			Profile:    m.Profile,
			Tillage:    n.runoff.Tillage,
			Evap:       n.evap.Acc,
			EvapReady:  m.evapReady,
			MaxPond:    m.maxPond,
			Pond:       m.Surface.Pond(),
			Days:       m.Days,
			Irrigation: m.irrigation,
		}
		if err := gob.NewEncoder(w).Encode(c); err != nil {
			return fmt.Errorf("soilwat: problem saving model state: %v", err)
		}
		return nil
	}
}

// Load returns a function that restores the state of a simulation
// previously written by Save. The model must have been created with
// the same soil configuration.
func Load(r io.Reader) DomainManipulator {
	return func(m *Model) error {
		var c checkpoint
		if err := gob.NewDecoder(r).Decode(&c); err != nil {
			return fmt.Errorf("soilwat: problem loading model state: %v", err)
		}
		if c.Profile == nil || len(c.Profile.Layers) != len(m.Profile.Layers) {
			return fmt.Errorf("soilwat: saved model state does not match the "+
				"configured profile, which has %d layers", len(m.Profile.Layers))
		}
		m.Profile = c.Profile
		n := newNormalSurface(m.cfg, m.season)
		n.runoff.Tillage = c.Tillage
		n.evap.Acc = c.Evap
		m.maxPond = c.MaxPond
		m.Surface = newSurface(n, c.MaxPond)
		if s, ok := m.Surface.(*pondSurface); ok {
			s.pond = c.Pond
		}
		m.evapReady = c.EvapReady
		m.Days = c.Days
		m.irrigation = c.Irrigation
		return nil
	}
}
