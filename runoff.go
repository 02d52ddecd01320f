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
	"math"

	"github.com/sirupsen/logrus"
)

// tillageState is the memory of the most recent tillage event.
type tillageState struct {
	// CNRed is the curve number reduction immediately after tillage.
	CNRed float64

	// CNRain is the cumulative water after which the reduction ends.
	// The tillage effect is inactive when it is zero.
	CNRain float64

	// CumWater is the runoff-eligible water since the tillage event.
	CumWater float64
}

// runoffModel calculates runoff with the SCS curve number method.
type runoffModel struct {
	cn2Bare, cnRed, cnCov float64
	c                     *Constants

	Tillage tillageState

	CoverSurfaceRunoff float64
	CN2New             float64
}

// addCover combines two independent fractional covers.
func addCover(a, b float64) float64 { return 1 - (1-a)*(1-b) }

// combinedCover returns the combined cover of several layers of cover.
func combinedCover(covers ...float64) float64 {
	var c float64
	for _, v := range covers {
		c = addCover(c, v)
	}
	return c
}

// coverForRunoff combines the crop canopies, weighted by the
// effectiveness of each canopy given its height, with the residue cover.
func (r *runoffModel) coverForRunoff(canopies []Canopy, residueCover float64) float64 {
	var crop float64
	for _, cp := range canopies {
		canopyFact := r.c.CanopyFactDefault
		if cp.Height >= 0 {
			canopyFact = interp(cp.Height, r.c.CanopyFactHeight, r.c.CanopyFact)
		}
		crop = addCover(crop, cp.CoverTotal*canopyFact)
	}
	r.CoverSurfaceRunoff = addCover(crop, residueCover)
	return r.CoverSurfaceRunoff
}

// runoffDepthFactor returns the depth-weighted wetness of the profile down
// to the hydrologically effective depth, between 0 at ll15 and 1 at dul.
// The effective depth is limited to the depth of the profile.
func (r *runoffModel) runoffDepthFactor(p *Profile, w *warner) float64 {
	hed := math.Min(r.c.HydrolEffectiveDepth, p.TotalDepth())
	scaleFact := 1 / (1 - math.Exp(-4.16))
	last := p.FindLayerNo(hed) - 1

	weights := make([]float64, last+1)
	var cumDepth, prevWx, cnpd float64
	for _, i := range p.TopDown(0, last) {
		l := &p.Layers[i]
		cumDepth = math.Min(cumDepth+l.Thickness, hed)
		wx := scaleFact * (1 - math.Exp(-4.16*divide(cumDepth, hed, 0)))
		weights[i] = wx - prevWx
		prevWx = wx
		cnpd += weights[i] * divide(l.SWDep-l.LL15Dep, l.DULDep-l.LL15Dep, 0)
	}
	var sum float64
	for _, v := range weights {
		sum += v
	}
	w.boundCheck(sum, 1-weightSumTolerance, 1+weightSumTolerance, "runoff depth weights")
	return bound(cnpd, 0, 1)
}

// calcRunoff returns the runoff [mm] caused by water [mm] arriving at the
// surface.
func (r *runoffModel) calcRunoff(water float64, canopies []Canopy, residueCover float64,
	p *Profile, w *warner) float64 {

	cover := r.coverForRunoff(canopies, residueCover)
	coverFract := divide(cover, r.cnCov, 0)
	coverFract = bound(coverFract, 0, 1)
	cn2New := r.cn2Bare - r.cnRed*coverFract

	if r.Tillage.CNRain > 0 {
		tillageReduction := r.Tillage.CNRed * (divide(r.Tillage.CumWater, r.Tillage.CNRain, 0) - 1)
		cn2New += tillageReduction
	}
	r.CN2New = bound(cn2New, 0, 100)

	var runoff float64
	if water > 0 {
		cnpd := r.runoffDepthFactor(p, w)
		cn1 := divide(r.CN2New, 2.334-0.01334*r.CN2New, 0)
		cn3 := divide(r.CN2New, 0.4036+0.005964*r.CN2New, 0)
		cn := cn1 + (cn3-cn1)*cnpd

		// Potential maximum retention [mm].
		s := 254 * (divide(100, cn, 1000000) - 1)
		xpb := math.Max(water-0.2*s, 0)
		runoff = divide(xpb*xpb, water+0.8*s, 0)
		runoff = w.bound(runoff, 0, water)
	}
	r.addWaterSinceTillage(water, w)
	return runoff
}

// addWaterSinceTillage advances the tillage memory, which ends once the
// cumulative water reaches the threshold.
func (r *runoffModel) addWaterSinceTillage(water float64, w *warner) {
	if r.Tillage.CNRain <= 0 {
		return
	}
	r.Tillage.CumWater += water
	if r.Tillage.CumWater >= r.Tillage.CNRain {
		w.warnf(logrus.Fields{"cumulative water": r.Tillage.CumWater},
			"tillage CN reduction finished after %g mm of water", r.Tillage.CumWater)
		r.Tillage = tillageState{}
	}
}

// setTillage starts a new tillage effect.
func (r *runoffModel) setTillage(t TillageType) {
	r.Tillage = tillageState{
		CNRed:  bound(t.CNRed, 0, r.cn2Bare),
		CNRain: t.CNRain,
	}
}

// interp linearly interpolates y at x, holding the end values beyond
// the range of xs.
func interp(x float64, xs, ys []float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	for i := 1; i < len(xs); i++ {
		if x <= xs[i] {
			return ys[i-1] + (ys[i]-ys[i-1])*divide(x-xs[i-1], xs[i]-xs[i-1], 0)
		}
	}
	return ys[len(ys)-1]
}
