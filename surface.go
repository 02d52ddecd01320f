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

import "math"

// SurfaceKind identifies the type of soil surface.
type SurfaceKind int

// Surface kinds.
const (
	NormalSurface SurfaceKind = iota
	PondedSurface
)

func (k SurfaceKind) String() string {
	if k == PondedSurface {
		return "ponded"
	}
	return "normal"
}

// Surface partitions water arriving at the soil surface between runoff
// and infiltration and calculates evaporation from the surface.
type Surface interface {
	Kind() SurfaceKind

	// Pond and PondEvap return the depth of ponded water and today's
	// evaporation from the pond [mm].
	Pond() float64
	PondEvap() float64

	calcRunoff(waterForRunoff float64, in *DailyInput, p *Profile, w *warner)
	calcInfiltration(waterForInfiltration float64)
	calcEvaporation(eo float64, in *DailyInput, p *Profile)
	addBackedUpWater(backedUp float64, p *Profile)

	// normal returns the runoff and evaporation state shared by
	// all surfaces.
	normal() *normalSurface
}

// normalSurface is a surface where water that does not infiltrate runs off.
type normalSurface struct {
	runoff runoffModel
	evap   evapModel

	Runoff       float64
	Infiltration float64
}

func newNormalSurface(cfg *Config, s *season) *normalSurface {
	c := &cfg.Constants
	return &normalSurface{
		runoff: runoffModel{cn2Bare: cfg.CN2Bare, cnRed: cfg.CNRed, cnCov: cfg.CNCov, c: c},
		evap:   evapModel{season: s, c: c},
	}
}

func (n *normalSurface) Kind() SurfaceKind       { return NormalSurface }
func (n *normalSurface) Pond() float64           { return 0 }
func (n *normalSurface) PondEvap() float64       { return 0 }
func (n *normalSurface) normal() *normalSurface { return n }

func (n *normalSurface) calcRunoff(waterForRunoff float64, in *DailyInput, p *Profile, w *warner) {
	n.Runoff = n.runoff.calcRunoff(waterForRunoff, in.Canopies, in.ResidueCover, p, w)
}

func (n *normalSurface) calcInfiltration(waterForInfiltration float64) {
	n.Infiltration = waterForInfiltration - n.Runoff
}

func (n *normalSurface) calcEvaporation(eo float64, in *DailyInput, p *Profile) {
	n.evap.calcEos(eo, in.Canopies, in.ResidueCover)
	n.evap.calcEs(p, in.Date, n.Infiltration)
}

// addBackedUpWater turns water that backed up out of the top layer into
// runoff, since the infiltration could not enter the soil.
func (n *normalSurface) addBackedUpWater(backedUp float64, p *Profile) {
	p.top().SWDep -= backedUp
	n.Infiltration -= backedUp
	n.Runoff += backedUp
}

// pondSurface is a surface that holds up to maxPond mm of water
// before it runs off.
type pondSurface struct {
	*normalSurface
	maxPond  float64
	pond     float64
	pondEvap float64

	// carried is the pond left from the previous day.
	carried float64
}

func (s *pondSurface) Kind() SurfaceKind { return PondedSurface }
func (s *pondSurface) Pond() float64     { return s.pond }
func (s *pondSurface) PondEvap() float64 { return s.pondEvap }

func (s *pondSurface) calcRunoff(waterForRunoff float64, in *DailyInput, p *Profile, w *warner) {
	s.normalSurface.calcRunoff(waterForRunoff, in, p, w)
	s.carried = s.pond
	s.pond += s.Runoff
	s.Runoff = math.Max(s.pond-s.maxPond, 0)
	s.pond = math.Min(s.pond, s.maxPond)
}

// calcInfiltration infiltrates the whole pond. The water that backs up
// out of the soil forms the new pond. Today's ponded runoff is already
// part of waterForInfiltration, so only the pond carried over from the
// previous day is added.
func (s *pondSurface) calcInfiltration(waterForInfiltration float64) {
	s.normalSurface.calcInfiltration(waterForInfiltration)
	s.Infiltration += s.carried
	s.pond = 0
	s.carried = 0
}

// calcEvaporation evaporates from the pond first. Any potential
// evaporation left over is taken from the soil after resetting the
// evaporation accumulators.
func (s *pondSurface) calcEvaporation(eo float64, in *DailyInput, p *Profile) {
	e := &s.evap
	e.calcEos(eo, in.Canopies, in.ResidueCover)
	if s.pond <= 0 {
		s.pondEvap = 0
		s.pond = 0
		e.calcEs(p, in.Date, s.Infiltration)
		return
	}
	if e.Eos <= s.pond {
		s.pond -= e.Eos
		s.pondEvap = e.Eos
		e.Es = 0
		return
	}
	s.pondEvap = s.pond
	e.Eos -= s.pond
	s.pond = 0
	e.initialise(p, in.Date)
	e.calcEs(p, in.Date, s.Infiltration)
}

// addBackedUpWater ponds the water that backs up out of the soil;
// what the pond cannot hold runs off.
func (s *pondSurface) addBackedUpWater(backedUp float64, p *Profile) {
	s.normalSurface.addBackedUpWater(backedUp, p)
	s.pond = math.Min(s.Runoff, s.maxPond)
	s.Runoff -= s.pond
}

// newSurface returns a ponded surface if maxPond is positive and a normal
// surface otherwise, sharing the runoff and evaporation state of base.
func newSurface(base *normalSurface, maxPond float64) Surface {
	if maxPond > 0 {
		return &pondSurface{normalSurface: base, maxPond: maxPond}
	}
	return base
}
