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
	"strings"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// Solute identifies a solute tracked in each layer of the profile.
type Solute struct {
	Name   string
	Mobile bool
}

// Profile is the ordered set of soil layers, from the surface down.
type Profile struct {
	Layers  []Layer
	Solutes []Solute

	// Drainage is the water leaving the bottom of the profile today [mm].
	Drainage float64

	// DepthToWaterTable [mm] equals TotalDepth() when there is no water table.
	DepthToWaterTable float64

	// UsingKS is true when saturated flow is limited by the saturated
	// conductivity of each layer.
	UsingKS bool
}

// newProfile creates a profile from a validated configuration.
func newProfile(cfg *Config) (*Profile, error) {
	p := &Profile{
		Layers:  make([]Layer, len(cfg.Thickness)),
		Solutes: make([]Solute, len(cfg.Solutes)),
		UsingKS: cfg.KS != nil,
	}
	for i, name := range cfg.Solutes {
		mobile, err := cfg.Constants.mobility(name)
		if err != nil {
			return nil, err
		}
		p.Solutes[i] = Solute{Name: name, Mobile: mobile}
	}
	for i, t := range cfg.Thickness {
		l := &p.Layers[i]
		l.Number = i + 1
		l.Thickness = t
		l.BD = cfg.BD[i]
		l.SatDep = cfg.SAT[i] * t
		l.DULDep = cfg.DUL[i] * t
		l.LL15Dep = cfg.LL15[i] * t
		l.AirDryDep = cfg.AirDry[i] * t
		l.SWDep = cfg.SW[i] * t
		l.SWCON = cfg.SWCON[i]
		l.KLAT = cfg.KLAT[i]
		if cfg.KS != nil {
			l.KS = cfg.KS[i]
		}
		l.Solutes = make([]SoluteInLayer, len(p.Solutes))
	}
	p.DepthToWaterTable = p.TotalDepth()
	return p, nil
}

// top and bottom return the first and last layers.
func (p *Profile) top() *Layer    { return &p.Layers[0] }
func (p *Profile) bottom() *Layer { return &p.Layers[len(p.Layers)-1] }

// FindLayerNo returns the 1-based number of the layer containing depth [mm].
// Depths below the bottom of the profile return the last layer.
func (p *Profile) FindLayerNo(depth float64) int {
	var cum float64
	for i, l := range p.Layers {
		cum += l.Thickness
		if depth <= cum {
			return i + 1
		}
	}
	return len(p.Layers)
}

// DepthToBottomOf returns the depth [mm] from the surface to the bottom
// of layer number n.
func (p *Profile) DepthToBottomOf(n int) float64 {
	var d float64
	for i := 0; i < n && i < len(p.Layers); i++ {
		d += p.Layers[i].Thickness
	}
	return d
}

// TotalDepth returns the depth of the profile [mm].
func (p *Profile) TotalDepth() float64 { return p.DepthToBottomOf(len(p.Layers)) }

// TopDown returns the layer indices from index from down to index to,
// inclusive.
func (p *Profile) TopDown(from, to int) []int {
	var o []int
	for i := from; i <= to; i++ {
		o = append(o, i)
	}
	return o
}

// BottomUp returns the layer indices from index from up to index to,
// inclusive.
func (p *Profile) BottomUp(from, to int) []int {
	var o []int
	for i := from; i >= to; i-- {
		o = append(o, i)
	}
	return o
}

// SWmm returns the water content of each layer [mm].
func (p *Profile) SWmm() []float64 {
	o := make([]float64, len(p.Layers))
	for i, l := range p.Layers {
		o[i] = l.SWDep
	}
	return o
}

// SW returns the volumetric water content of each layer.
func (p *Profile) SW() []float64 {
	o := make([]float64, len(p.Layers))
	for i := range p.Layers {
		o[i] = p.Layers[i].SW()
	}
	return o
}

// TotalWater returns the water held in the profile [mm].
func (p *Profile) TotalWater() float64 { return floats.Sum(p.SWmm()) }

// ESW returns the extractable water in the profile [mm].
func (p *Profile) ESW() float64 {
	esw := make([]float64, len(p.Layers))
	for i := range p.Layers {
		esw[i] = p.Layers[i].ESW()
	}
	return floats.Sum(esw)
}

// checkLength makes sure v has no more values than there are layers.
// Shorter arrays only change the top layers.
func (p *Profile) checkLength(v []float64, name string) error {
	if len(v) > len(p.Layers) {
		return fmt.Errorf("soilwat: %s has %d values but there are only %d layers",
			name, len(v), len(p.Layers))
	}
	return nil
}

// SetWaterMM sets the water content of each layer [mm].
func (p *Profile) SetWaterMM(v []float64) error {
	if err := p.checkLength(v, "new water content"); err != nil {
		return err
	}
	for i := range v {
		p.Layers[i].SWDep = v[i]
	}
	return nil
}

// SetWaterFrac sets the volumetric water content of each layer.
func (p *Profile) SetWaterFrac(v []float64) error {
	if err := p.checkLength(v, "new water content"); err != nil {
		return err
	}
	for i := range v {
		p.Layers[i].SWDep = v[i] * p.Layers[i].Thickness
	}
	return nil
}

// DeltaWaterMM adds v [mm] to the water content of each layer.
func (p *Profile) DeltaWaterMM(v []float64) error {
	if err := p.checkLength(v, "water change"); err != nil {
		return err
	}
	for i := range v {
		p.Layers[i].SWDep += v[i]
	}
	return nil
}

// DeltaWaterFrac adds volumetric changes v to the water content of each layer.
func (p *Profile) DeltaWaterFrac(v []float64) error {
	if err := p.checkLength(v, "water change"); err != nil {
		return err
	}
	for i := range v {
		p.Layers[i].SWDep += v[i] * p.Layers[i].Thickness
	}
	return nil
}

// ZeroOutputs clears the per-day results.
func (p *Profile) ZeroOutputs() {
	p.Drainage = 0
	for i := range p.Layers {
		l := &p.Layers[i]
		l.zeroOutputs()
		for j := range l.Solutes {
			l.Solutes[j].Delta = 0
			l.Solutes[j].Up = 0
			l.Solutes[j].Leach = 0
		}
	}
}

// CheckForErrors warns about any layer whose water contents are
// inconsistent.
func (p *Profile) CheckForErrors(c *Constants, w *warner) {
	for i := range p.Layers {
		p.Layers[i].check(c, w)
	}
}

// Check logs a warning to log for each inconsistency in the water
// contents of the layers and returns the number of warnings.
func (p *Profile) Check(c *Constants, log logrus.FieldLogger) int {
	w := newWarner(log)
	p.CheckForErrors(c, w)
	return w.count
}

// SoluteID returns the index of the named solute.
func (p *Profile) SoluteID(name string) (int, bool) {
	for i, s := range p.Solutes {
		if strings.EqualFold(s.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// SetSoluteAmounts sets the amount [kg/ha] of the named solute in each layer.
func (p *Profile) SetSoluteAmounts(name string, amounts []float64) error {
	id, ok := p.SoluteID(name)
	if !ok {
		return fmt.Errorf("soilwat: unknown solute '%s'", name)
	}
	if len(amounts) != len(p.Layers) {
		return fmt.Errorf("soilwat: %s has %d values but there are %d layers",
			name, len(amounts), len(p.Layers))
	}
	for i := range p.Layers {
		p.Layers[i].Solutes[id].Amount = amounts[i]
	}
	return nil
}

// SoluteAmounts returns the amount [kg/ha] of solute id in each layer.
func (p *Profile) SoluteAmounts(id int) []float64 {
	o := make([]float64, len(p.Layers))
	for i := range p.Layers {
		o[i] = p.Layers[i].Solutes[id].Amount
	}
	return o
}

// SoluteDeltas returns today's change in each mobile solute caused
// by water movement [kg/ha].
func (p *Profile) SoluteDeltas() map[string][]float64 {
	o := make(map[string][]float64)
	for id, s := range p.Solutes {
		if !s.Mobile {
			continue
		}
		d := make([]float64, len(p.Layers))
		for i := range p.Layers {
			d[i] = p.Layers[i].Solutes[id].Delta
		}
		o[s.Name] = d
	}
	return o
}

// Leach returns the amount of solute id leached out of the bottom of the
// profile today [kg/ha].
func (p *Profile) Leach(id int) float64 { return p.bottom().Solutes[id].Leach }
