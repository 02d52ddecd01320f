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
	"strconv"
	"strings"
	"time"
)

// Potential evaporation sources.
const (
	PriestleyTaylor = "priestley-taylor"
	EoFromInput     = "input"
)

// TillageType describes the effect of a tillage operation on the runoff
// curve number.
type TillageType struct {
	// CNRed is the reduction in the curve number immediately after tillage.
	CNRed float64 `toml:"CNRed" yaml:"cn_red"`

	// CNRain is the cumulative rainfall [mm] after which the tillage
	// effect has disappeared.
	CNRain float64 `toml:"CNRain" yaml:"cn_rain"`
}

// Config holds the static description of a soil and the parameters of
// the soil water balance. Layered variables must all have the same length
// as Thickness. Volumetric water contents are in mm/mm.
type Config struct {
	// Thickness is the thickness of each layer [mm].
	Thickness []float64 `toml:"Thickness" yaml:"thickness"`

	// BD is the bulk density of each layer [g/cc].
	BD []float64 `toml:"BD" yaml:"bd"`

	SAT    []float64 `toml:"SAT" yaml:"sat"`
	DUL    []float64 `toml:"DUL" yaml:"dul"`
	LL15   []float64 `toml:"LL15" yaml:"ll15"`
	AirDry []float64 `toml:"AirDry" yaml:"air_dry"`

	// SW is the initial volumetric water content. If it is empty the
	// profile starts at the drained upper limit.
	SW []float64 `toml:"SW" yaml:"sw"`

	// SWCON is the fraction of water above the drained upper limit that
	// drains each day. It defaults to 0.3 in every layer.
	SWCON []float64 `toml:"SWCON" yaml:"swcon"`

	// KLAT is the lateral saturated conductivity [mm/day]. Lateral flow is
	// switched off if it is empty.
	KLAT []float64 `toml:"KLAT" yaml:"klat"`

	// KS is the saturated conductivity [mm/day]. If it is empty saturated
	// flow is not limited by conductivity.
	KS []float64 `toml:"KS" yaml:"ks"`

	// SummerU and WinterU are the cumulative stage 1 evaporation limits [mm],
	// and SummerCona and WinterCona the stage 2 evaporation coefficients
	// [mm/day^0.5]. SummerDate and WinterDate ("dd-mmm") mark the start of
	// each season.
	SummerU    float64 `toml:"SummerU" yaml:"summer_u"`
	SummerCona float64 `toml:"SummerCona" yaml:"summer_cona"`
	SummerDate string  `toml:"SummerDate" yaml:"summer_date"`
	WinterU    float64 `toml:"WinterU" yaml:"winter_u"`
	WinterCona float64 `toml:"WinterCona" yaml:"winter_cona"`
	WinterDate string  `toml:"WinterDate" yaml:"winter_date"`

	// DiffusConst and DiffusSlope define the soil water diffusivity.
	DiffusConst float64 `toml:"DiffusConst" yaml:"diffus_const"`
	DiffusSlope float64 `toml:"DiffusSlope" yaml:"diffus_slope"`

	// Salb is the bare soil albedo.
	Salb float64 `toml:"Salb" yaml:"salb"`

	// CN2Bare is the runoff curve number of bare soil, reduced by up to CNRed
	// as the cover increases to CNCov.
	CN2Bare float64 `toml:"CN2Bare" yaml:"cn2_bare"`
	CNRed   float64 `toml:"CNRed" yaml:"cn_red"`
	CNCov   float64 `toml:"CNCov" yaml:"cn_cov"`

	// Slope [m/m], DischargeWidth [m] and CatchmentArea [m²] describe the
	// geometry used for lateral flow.
	Slope          float64 `toml:"Slope" yaml:"slope"`
	DischargeWidth float64 `toml:"DischargeWidth" yaml:"discharge_width"`
	CatchmentArea  float64 `toml:"CatchmentArea" yaml:"catchment_area"`

	// MaxPond is the maximum depth of water [mm] that can pond on the
	// surface. Ponding is switched off if it is not positive.
	MaxPond float64 `toml:"MaxPond" yaml:"max_pond"`

	// Solutes are the names of the solutes tracked in each layer.
	Solutes []string `toml:"Solutes" yaml:"solutes"`

	// TillageTypes maps tillage operation names to their effect on runoff.
	TillageTypes map[string]TillageType `toml:"TillageTypes" yaml:"tillage_types"`

	// PotentialEvap is either "priestley-taylor" to calculate potential
	// evaporation from the weather or "input" to use the value supplied
	// each day.
	PotentialEvap string `toml:"PotentialEvap" yaml:"potential_evap"`

	// Constants are the non-soil-specific model parameters.
	Constants Constants `toml:"Constants" yaml:"constants"`
}

// DefaultConfig returns a configuration with default values for the
// non-layered parameters. The layered variables still need to be set.
func DefaultConfig() *Config {
	return &Config{
		SummerDate:    "1-Nov",
		WinterDate:    "1-Apr",
		DiffusConst:   40,
		DiffusSlope:   16,
		Salb:          0.13,
		CN2Bare:       73,
		CNRed:         20,
		CNCov:         0.8,
		PotentialEvap: PriestleyTaylor,
		TillageTypes:  make(map[string]TillageType),
		Constants:     DefaultConstants(),
	}
}

// dayMonth is a day of the year without a year.
type dayMonth struct {
	Day   int
	Month time.Month
}

// parseDayMonth parses a date in the format "dd-mmm", where mmm is at
// least the first three letters of the month's name.
func parseDayMonth(s string) (dayMonth, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 || len(parts[1]) < 3 {
		return dayMonth{}, fmt.Errorf("soilwat: invalid date '%s'; the format should be dd-mmm", s)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return dayMonth{}, fmt.Errorf("soilwat: invalid day in date '%s'", s)
	}
	m := strings.ToLower(parts[1][0:3])
	for i := time.January; i <= time.December; i++ {
		if strings.ToLower(i.String()[0:3]) == m {
			return dayMonth{Day: day, Month: i}, nil
		}
	}
	return dayMonth{}, fmt.Errorf("soilwat: invalid month in date '%s'", s)
}

// in returns the given day in year.
func (d dayMonth) in(year int) time.Time {
	return time.Date(year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// withinDates returns whether today falls within [start, end], where the
// window may span the end of a year.
func withinDates(start dayMonth, today time.Time, end dayMonth) bool {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	s, e := start.in(today.Year()), end.in(today.Year())
	if s.After(e) {
		if !today.Before(s) {
			e = e.AddDate(1, 0, 0)
		} else {
			s = s.AddDate(-1, 0, 0)
		}
	}
	return !today.Before(s) && !today.After(e)
}

// season holds the validated seasonal evaporation parameters.
type season struct {
	summerU, summerCona float64
	winterU, winterCona float64
	summerDate          dayMonth
	winterDate          dayMonth
}

// Validate checks the configuration for errors and fills in defaults for
// optional layered variables.
func (c *Config) Validate() error {
	n := len(c.Thickness)
	if n == 0 {
		return fmt.Errorf("soilwat: the soil has no layers; please specify layer thicknesses")
	}
	if c.SWCON == nil {
		c.SWCON = constantSlice(n, 0.3)
	}
	if c.KLAT == nil {
		c.KLAT = constantSlice(n, 0)
	}
	if c.SW == nil {
		c.SW = append([]float64{}, c.DUL...)
	}
	for _, v := range []struct {
		name string
		v    []float64
	}{
		{"BD", c.BD}, {"SAT", c.SAT}, {"DUL", c.DUL}, {"LL15", c.LL15},
		{"AirDry", c.AirDry}, {"SW", c.SW}, {"SWCON", c.SWCON}, {"KLAT", c.KLAT},
	} {
		if len(v.v) != n {
			return fmt.Errorf("soilwat: %s has %d values but there are %d layers", v.name, len(v.v), n)
		}
	}
	if c.KS != nil && len(c.KS) != n {
		return fmt.Errorf("soilwat: KS has %d values but there are %d layers", len(c.KS), n)
	}
	for i, t := range c.Thickness {
		if t <= 0 {
			return errLayer(i+1, "thickness must be positive but is %g", t)
		}
	}
	if _, err := c.season(); err != nil {
		return err
	}
	if c.PotentialEvap != PriestleyTaylor && c.PotentialEvap != EoFromInput {
		return fmt.Errorf("soilwat: PotentialEvap must be either '%s' or '%s' but is '%s'",
			PriestleyTaylor, EoFromInput, c.PotentialEvap)
	}
	for name, t := range c.TillageTypes {
		if err := t.check(name); err != nil {
			return err
		}
	}
	for _, s := range c.Solutes {
		if _, err := c.Constants.mobility(s); err != nil {
			return err
		}
	}
	if _, err := newLateralGeometry(c.Slope, c.DischargeWidth, c.CatchmentArea); err != nil {
		return err
	}
	return c.Constants.check(n)
}

// season returns the seasonal evaporation parameters. If only one of the
// seasons has been specified it is used all year.
func (c *Config) season() (*season, error) {
	summerSet := c.SummerU != 0 || c.SummerCona != 0
	winterSet := c.WinterU != 0 || c.WinterCona != 0
	if !summerSet && !winterSet {
		return nil, fmt.Errorf("soilwat: both summer and winter evaporation parameters " +
			"(U and Cona) are unset; please specify at least one pair")
	}
	s := &season{
		summerU: c.SummerU, summerCona: c.SummerCona,
		winterU: c.WinterU, winterCona: c.WinterCona,
	}
	if !summerSet {
		s.summerU, s.summerCona = s.winterU, s.winterCona
	}
	if !winterSet {
		s.winterU, s.winterCona = s.summerU, s.summerCona
	}
	if s.summerCona <= 0 || s.winterCona <= 0 {
		return nil, fmt.Errorf("soilwat: evaporation parameter Cona must be positive")
	}
	var err error
	if s.summerDate, err = parseDayMonth(c.SummerDate); err != nil {
		return nil, err
	}
	if s.winterDate, err = parseDayMonth(c.WinterDate); err != nil {
		return nil, err
	}
	return s, nil
}

// uCona returns the stage 1 limit and stage 2 coefficient that apply
// on the given date.
func (s *season) uCona(today time.Time) (u, cona float64) {
	if withinDates(s.winterDate, today, s.summerDate) {
		return s.winterU, s.winterCona
	}
	return s.summerU, s.summerCona
}

func (t TillageType) check(name string) error {
	if t.CNRed <= 0 || t.CNRain <= 0 {
		return fmt.Errorf("soilwat: tillage '%s' has incorrect values: CN reduction = %g, "+
			"accumulated rain = %g; both must be positive", name, t.CNRed, t.CNRain)
	}
	return nil
}

func constantSlice(n int, v float64) []float64 {
	o := make([]float64, n)
	for i := range o {
		o[i] = v
	}
	return o
}
