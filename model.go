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
	"io"
	"io/ioutil"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

// Version gives the version number.
const Version = "1.0.0"

// DateFormat is the format used for dates in logs and outputs.
const DateFormat = "2006-01-02"

// DomainManipulator is a function that operates on the model.
type DomainManipulator func(m *Model) error

// Model holds the current state of a soil water simulation.
type Model struct {
	// InitFuncs are run once by Init, RunFuncs are run in order for each
	// simulated day until Done is true, and CleanupFuncs are run by Cleanup.
	InitFuncs, RunFuncs, CleanupFuncs []DomainManipulator

	// Done is set when there are no more days to simulate.
	Done bool

	Profile *Profile
	Surface Surface

	// Input is today's input and Output holds the results of the most
	// recently simulated day.
	Input  DailyInput
	Output DailyOutput

	// Days is the number of days that have been simulated.
	Days int

	cfg     *Config
	season  *season
	unsat   unsatFlow
	lateral *lateralGeometry
	maxPond float64

	log logrus.FieldLogger
	w   *warner

	// irrigation holds events applied by command since the last day.
	irrigation []IrrigationEvent

	// evapReady is false when the evaporation accumulators need to be
	// initialised from the wetness of the top layer.
	evapReady bool
}

// NewModel validates cfg and creates a model from it. Warnings are
// written to log, which may be nil.
func NewModel(cfg *Config, log logrus.FieldLogger) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		l := logrus.New()
		l.Out = ioutil.Discard
		log = l
	}
	m := &Model{
		cfg: cfg,
		log: log,
		unsat: unsatFlow{
			diffusConst:     cfg.DiffusConst,
			diffusSlope:     cfg.DiffusSlope,
			gravityGradient: cfg.Constants.GravityGradient,
		},
	}
	m.w = newWarner(log)
	var err error
	if m.season, err = cfg.season(); err != nil {
		return nil, err
	}
	if m.lateral, err = newLateralGeometry(cfg.Slope, cfg.DischargeWidth, cfg.CatchmentArea); err != nil {
		return nil, err
	}
	if err = m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

// reset sets the profile and surface to their initial states.
func (m *Model) reset() error {
	p, err := newProfile(m.cfg)
	if err != nil {
		return err
	}
	m.Profile = p
	m.maxPond = m.cfg.MaxPond
	m.Surface = newSurface(newNormalSurface(m.cfg, m.season), m.maxPond)
	m.irrigation = nil
	m.evapReady = false
	p.CheckForErrors(&m.cfg.Constants, m.w)
	return nil
}

// Config returns the configuration the model was created with.
func (m *Model) Config() *Config { return m.cfg }

// Init initializes the simulation by running m.InitFuncs.
func (m *Model) Init() error {
	for _, f := range m.InitFuncs {
		if err := f(m); err != nil {
			return err
		}
	}
	return nil
}

// Run carries out the simulation by running m.RunFuncs until m.Done is true.
func (m *Model) Run() error {
	for !m.Done {
		for _, f := range m.RunFuncs {
			if err := f(m); err != nil {
				return err
			}
			if m.Done {
				break
			}
		}
	}
	return nil
}

// Cleanup finishes the simulation by running m.CleanupFuncs.
func (m *Model) Cleanup() error {
	for _, f := range m.CleanupFuncs {
		if err := f(m); err != nil {
			return err
		}
	}
	return nil
}

// ReadInput reads the input for the next day from src, setting
// m.Done when there are no more days.
func ReadInput(src InputSource) DomainManipulator {
	return func(m *Model) error {
		in, err := src.Next()
		if err == io.EOF {
			m.Done = true
			return nil
		} else if err != nil {
			return fmt.Errorf("soilwat: problem reading daily input: %v", err)
		}
		m.Input = in
		return nil
	}
}

// DailyStep simulates the day in m.Input and stores the result in m.Output.
func DailyStep() DomainManipulator {
	return func(m *Model) error {
		out, err := m.Step(m.Input)
		if err != nil {
			return err
		}
		m.Output = out
		return nil
	}
}

// Log writes simulation status messages to w.
func Log(w io.Writer) DomainManipulator {
	startTime := time.Now()
	timeStepTime := time.Now()
	return func(m *Model) error {
		o := m.Output
		fmt.Fprintf(w, "Day %-5d %s  walltime=%6.3gh  Δwalltime=%4.2gs  "+
			"runoff=%6.2f  drainage=%6.2f  es=%5.2f  esw=%7.2f  warnings=%d\n",
			m.Days, o.Date.Format(DateFormat), time.Since(startTime).Hours(),
			time.Since(timeStepTime).Seconds(), o.Runoff, o.Drainage, o.Es, o.ESW, o.Warnings)
		timeStepTime = time.Now()
		return nil
	}
}

// Step simulates one day.
func (m *Model) Step(in DailyInput) (DailyOutput, error) {
	c := &m.cfg.Constants
	p := m.Profile
	n := m.Surface.normal()
	m.w = newWarner(m.log.WithField("date", in.Date.Format(DateFormat)))

	if !m.evapReady {
		n.evap.initialise(p, in.Date)
		m.evapReady = true
	}
	p.ZeroOutputs()
	if err := m.setSolutes(in.Solutes); err != nil {
		return DailyOutput{}, err
	}
	m.checkWeather(in.Weather)

	eo := in.Eo
	if m.cfg.PotentialEvap == PriestleyTaylor {
		eo = priestleyTaylor(in.Weather, m.cfg.Salb, in.Canopies)
	}

	m.lateral.lateralFlow(p, in.InflowLat, m.w)

	irrigation, err := m.todaysIrrigation(in.Irrigation)
	if err != nil {
		return DailyOutput{}, err
	}
	// Interception can exceed rainfall.
	waterForRunoff := math.Max(in.potentialInfiltration()+in.Runon, 0)
	var surfaceIrrigation float64
	for _, ev := range irrigation {
		if ev.WillRunoff {
			waterForRunoff += ev.Amount
		} else if ev.Depth == 0 {
			surfaceIrrigation += ev.Amount
		}
	}
	m.Surface.calcRunoff(waterForRunoff, &in, p, m.w)
	m.Surface.calcInfiltration(waterForRunoff + surfaceIrrigation)
	p.top().SWDep += n.Infiltration
	m.applyIrrigation(irrigation)

	if backedUp := calcSaturatedFlow(p); backedUp > 0 {
		m.Surface.addBackedUpWater(backedUp, p)
	}
	doSaturatedFlow(p)
	moveSolutes(p, c.SoluteFluxEff, soluteFluxSat)

	m.Surface.calcEvaporation(eo, &in, p)
	p.top().SWDep -= n.evap.Es

	m.unsat.calc(p)
	doUnsaturatedFlow(p)
	p.CheckForErrors(c, m.w)

	calcDepthToWaterTable(p, c.ErrorMargin)
	moveSolutes(p, c.SoluteFlowEff, soluteFlowUnsat)

	m.Days++
	return m.collect(in.Date, eo), nil
}

// setSolutes updates the solute amounts from the values supplied by
// the models that transform them.
func (m *Model) setSolutes(amounts map[string][]float64) error {
	for name, v := range amounts {
		if err := m.Profile.SetSoluteAmounts(name, v); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) checkWeather(wx Weather) {
	m.w.boundCheck(wx.Radn, 0, 60, "radn")
	m.w.boundCheck(wx.MaxT, -50, 60, "maxt")
	m.w.boundCheck(wx.MinT, -50, 50, "mint")
	m.w.boundCheck(wx.Rain, 0, 5000, "rain")
}

// todaysIrrigation returns the irrigation events applied by command
// together with those in the daily input.
func (m *Model) todaysIrrigation(events []IrrigationEvent) ([]IrrigationEvent, error) {
	all := append(m.irrigation, events...)
	m.irrigation = nil
	for i := range all {
		if err := m.checkIrrigation(&all[i]); err != nil {
			return nil, err
		}
	}
	return all, nil
}

func (m *Model) checkIrrigation(ev *IrrigationEvent) error {
	if ev.Amount < 0 || ev.Depth < 0 {
		return fmt.Errorf("soilwat: irrigation amount (%g mm) and depth (%g mm) "+
			"must not be negative", ev.Amount, ev.Depth)
	}
	if ev.WillRunoff && ev.Depth > 0 {
		ev.WillRunoff = false
		m.w.warnf(logrus.Fields{"depth": ev.Depth},
			"irrigation WillRunoff was reset from true to false because subsurface "+
				"irrigation at %g mm cannot run off like rain does", ev.Depth)
	}
	return nil
}

// applyIrrigation adds subsurface irrigation water to the layer at the
// irrigation depth, and the solutes in all irrigation water to the layer
// receiving it.
func (m *Model) applyIrrigation(events []IrrigationEvent) {
	p := m.Profile
	for _, ev := range events {
		l := &p.Layers[p.FindLayerNo(ev.Depth)-1]
		if ev.Depth > 0 {
			l.SWDep += ev.Amount
		}
		for _, s := range []struct {
			name   string
			amount float64
		}{{"NO3", ev.NO3}, {"NH4", ev.NH4}, {"Cl", ev.CL}} {
			if s.amount == 0 {
				continue
			}
			id, ok := p.SoluteID(s.name)
			if !ok {
				m.w.warnf(logrus.Fields{"solute": s.name},
					"irrigation contains %g kg/ha of %s, which is not tracked", s.amount, s.name)
				continue
			}
			l.Solutes[id].Amount += s.amount
			l.Solutes[id].Delta += s.amount
		}
	}
}

// collect gathers the results of the day.
func (m *Model) collect(date time.Time, eo float64) DailyOutput {
	p := m.Profile
	n := m.Surface.normal()
	o := DailyOutput{
		Date:               date,
		Runoff:             n.Runoff,
		Infiltration:       n.Infiltration,
		Eo:                 eo,
		Eos:                n.evap.Eos,
		Es:                 n.evap.Es,
		T:                  n.evap.Acc.T,
		CN2New:             n.runoff.CN2New,
		CoverSurfaceRunoff: n.runoff.CoverSurfaceRunoff,
		Pond:               m.Surface.Pond(),
		PondEvap:           m.Surface.PondEvap(),
		Drainage:           p.Drainage,
		WaterTable:         p.DepthToWaterTable,
		ESW:                p.ESW(),
		SWmm:               p.SWmm(),
		SW:                 p.SW(),
		Flow:               make([]float64, len(p.Layers)),
		Flux:               make([]float64, len(p.Layers)),
		LateralOutflow:     make([]float64, len(p.Layers)),
		Leach:              make(map[string]float64),
		SoluteDeltas:       p.SoluteDeltas(),
		Warnings:           m.w.count,
	}
	for i, l := range p.Layers {
		o.Flow[i] = l.Flow
		o.Flux[i] = l.Flux
		o.LateralOutflow[i] = l.OutflowLat
	}
	for id, s := range p.Solutes {
		if s.Mobile {
			o.Leach[s.Name] = p.Leach(id)
		}
	}
	return o
}
