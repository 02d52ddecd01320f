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
	"fmt"
	"io"
	"time"

	"github.com/spatialmodel/soilwat"
)

// Schedule holds the dated management of a soil.
type Schedule struct {
	Irrigation []IrrigationOp `toml:"Irrigation" yaml:"irrigation"`
	Tillage    []TillageOp    `toml:"Tillage" yaml:"tillage"`
	Cover      []CoverPeriod  `toml:"Cover" yaml:"cover"`
	WaterTable []WaterTableOp `toml:"WaterTable" yaml:"water_table"`

	// Solutes holds the starting amount of each solute in each
	// layer [kg/ha].
	Solutes map[string][]float64 `toml:"Solutes" yaml:"solutes"`
}

// IrrigationOp is an irrigation applied on Date.
type IrrigationOp struct {
	Date       string  `toml:"Date" yaml:"date"`
	Amount     float64 `toml:"Amount" yaml:"amount"`
	Depth      float64 `toml:"Depth" yaml:"depth"`
	WillRunoff bool    `toml:"WillRunoff" yaml:"will_runoff"`
	NO3        float64 `toml:"NO3" yaml:"no3"`
	NH4        float64 `toml:"NH4" yaml:"nh4"`
	CL         float64 `toml:"CL" yaml:"cl"`
}

// TillageOp is a tillage operation on Date. If Name is empty CNRed and
// CNRain are used directly.
type TillageOp struct {
	Date   string  `toml:"Date" yaml:"date"`
	Name   string  `toml:"Name" yaml:"name"`
	CNRed  float64 `toml:"CNRed" yaml:"cn_red"`
	CNRain float64 `toml:"CNRain" yaml:"cn_rain"`
}

// CoverPeriod gives the crop and residue cover from Start to End,
// inclusive.
type CoverPeriod struct {
	Start        string  `toml:"Start" yaml:"start"`
	End          string  `toml:"End" yaml:"end"`
	CoverGreen   float64 `toml:"CoverGreen" yaml:"cover_green"`
	CoverTotal   float64 `toml:"CoverTotal" yaml:"cover_total"`
	Height       float64 `toml:"Height" yaml:"height"`
	ResidueCover float64 `toml:"ResidueCover" yaml:"residue_cover"`
}

// WaterTableOp sets the depth [mm] of the water table on Date.
type WaterTableOp struct {
	Date  string  `toml:"Date" yaml:"date"`
	Depth float64 `toml:"Depth" yaml:"depth"`
}

type period struct {
	start, end time.Time
	canopy     soilwat.Canopy
	residue    float64
}

// schedule is a Schedule indexed by date.
type schedule struct {
	irrigation map[string][]soilwat.IrrigationEvent
	tillage    map[string][]TillageOp
	waterTable map[string][]float64
	periods    []period
	solutes    map[string][]float64
}

func (s *Schedule) compile() (*schedule, error) {
	o := &schedule{
		irrigation: make(map[string][]soilwat.IrrigationEvent),
		tillage:    make(map[string][]TillageOp),
		waterTable: make(map[string][]float64),
		solutes:    s.Solutes,
	}
	key := func(kind, date string) (string, error) {
		t, err := parseDate(kind+" date", date)
		if err != nil {
			return "", err
		}
		if t.IsZero() {
			return "", fmt.Errorf("soilwat: %s operation is missing its date", kind)
		}
		return t.Format(soilwat.DateFormat), nil
	}
	for _, op := range s.Irrigation {
		k, err := key("irrigation", op.Date)
		if err != nil {
			return nil, err
		}
		o.irrigation[k] = append(o.irrigation[k], soilwat.IrrigationEvent{
			Amount: op.Amount, Depth: op.Depth, WillRunoff: op.WillRunoff,
			NO3: op.NO3, NH4: op.NH4, CL: op.CL,
		})
	}
	for _, op := range s.Tillage {
		k, err := key("tillage", op.Date)
		if err != nil {
			return nil, err
		}
		o.tillage[k] = append(o.tillage[k], op)
	}
	for _, op := range s.WaterTable {
		k, err := key("water table", op.Date)
		if err != nil {
			return nil, err
		}
		o.waterTable[k] = append(o.waterTable[k], op.Depth)
	}
	for _, c := range s.Cover {
		start, err := parseDate("cover start", c.Start)
		if err != nil {
			return nil, err
		}
		end, err := parseDate("cover end", c.End)
		if err != nil {
			return nil, err
		}
		if start.IsZero() || end.IsZero() || end.Before(start) {
			return nil, fmt.Errorf("soilwat: invalid cover period %s to %s", c.Start, c.End)
		}
		o.periods = append(o.periods, period{
			start: start, end: end,
			canopy: soilwat.Canopy{
				CoverGreen: c.CoverGreen, CoverTotal: c.CoverTotal, Height: c.Height,
			},
			residue: c.ResidueCover,
		})
	}
	return o, nil
}

// cover returns the canopies and residue cover on date.
func (s *schedule) cover(date time.Time) ([]soilwat.Canopy, float64) {
	var canopies []soilwat.Canopy
	var residue float64
	for _, p := range s.periods {
		if date.Before(p.start) || date.After(p.end) {
			continue
		}
		if p.canopy.CoverGreen > 0 || p.canopy.CoverTotal > 0 {
			canopies = append(canopies, p.canopy)
		}
		residue = 1 - (1-residue)*(1-p.residue)
	}
	return canopies, residue
}

// Manage returns a function that carries out the tillage and water
// table operations scheduled for the day in m.Input. It must run
// after the input is read and before the day is simulated.
func Manage(s *Schedule) (soilwat.DomainManipulator, error) {
	sched, err := s.compile()
	if err != nil {
		return nil, err
	}
	return func(m *soilwat.Model) error {
		k := m.Input.Date.Format(soilwat.DateFormat)
		for _, op := range sched.tillage[k] {
			var err error
			if op.Name != "" {
				err = m.Tillage(op.Name)
			} else {
				err = m.TillageExplicit(soilwat.TillageType{CNRed: op.CNRed, CNRain: op.CNRain})
			}
			if err != nil {
				return fmt.Errorf("soilwat: tillage on %s: %v", k, err)
			}
		}
		for _, depth := range sched.waterTable[k] {
			if err := m.SetWaterTable(depth); err != nil {
				return fmt.Errorf("soilwat: water table on %s: %v", k, err)
			}
		}
		return nil
	}, nil
}

// MetSource supplies daily inputs built from weather records and a
// management schedule.
type MetSource struct {
	met        *soilwat.MetData
	sched      *schedule
	start, end time.Time
	i          int
	first      bool
}

// NewMetSource returns an input source for the weather in met between
// start and end, inclusive. Zero dates leave that end open.
func NewMetSource(met *soilwat.MetData, s *Schedule, start, end time.Time) (*MetSource, error) {
	sched, err := s.compile()
	if err != nil {
		return nil, err
	}
	if len(met.Evap) != 0 && len(met.Evap) != len(met.Weather) {
		return nil, fmt.Errorf("soilwat: met data has %d weather records but %d evap values",
			len(met.Weather), len(met.Evap))
	}
	return &MetSource{met: met, sched: sched, start: start, end: end, first: true}, nil
}

// Next implements soilwat.InputSource.
func (ms *MetSource) Next() (soilwat.DailyInput, error) {
	for ; ms.i < len(ms.met.Weather); ms.i++ {
		wx := ms.met.Weather[ms.i]
		if !ms.start.IsZero() && wx.Date.Before(ms.start) {
			continue
		}
		if !ms.end.IsZero() && wx.Date.After(ms.end) {
			return soilwat.DailyInput{}, io.EOF
		}
		in := soilwat.DailyInput{
			Date:       wx.Date,
			Weather:    wx,
			Irrigation: ms.sched.irrigation[wx.Date.Format(soilwat.DateFormat)],
		}
		if len(ms.met.Evap) > 0 {
			in.Eo = ms.met.Evap[ms.i]
		}
		in.Canopies, in.ResidueCover = ms.sched.cover(wx.Date)
		if ms.first {
			in.Solutes = ms.sched.solutes
			ms.first = false
		}
		ms.i++
		return in, nil
	}
	return soilwat.DailyInput{}, io.EOF
}
