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
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spatialmodel/soilwat"
)

// Metrics holds Prometheus metrics describing the progress of
// a simulation.
type Metrics struct {
	gatherer prometheus.Gatherer

	Days         prometheus.Counter
	Warnings     prometheus.Counter
	Water        *prometheus.CounterVec
	ESW          prometheus.Gauge
	StepDuration prometheus.Histogram
}

// NewMetrics registers simulation metrics with reg, or with the default
// Prometheus registry if reg is nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}
	m := &Metrics{gatherer: gatherer}
	var err error
	if m.Days, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "soilwat_days_total",
		Help: "Number of days simulated.",
	}), "soilwat_days_total"); err != nil {
		return nil, err
	}
	if m.Warnings, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "soilwat_warnings_total",
		Help: "Number of physical consistency warnings.",
	}), "soilwat_warnings_total"); err != nil {
		return nil, err
	}
	if m.Water, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "soilwat_water_mm_total",
		Help: "Cumulative water movement in mm, labeled by flux.",
	}, []string{"flux"}), "soilwat_water_mm_total"); err != nil {
		return nil, err
	}
	if m.ESW, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "soilwat_esw_mm",
		Help: "Extractable soil water in the profile at the end of the most recent day.",
	}), "soilwat_esw_mm"); err != nil {
		return nil, err
	}
	if m.StepDuration, err = registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "soilwat_step_duration_seconds",
		Help:    "Wall time between the ends of consecutive simulated days.",
		Buckets: []float64{1e-5, 1e-4, 1e-3, 0.01, 0.1, 1},
	}), "soilwat_step_duration_seconds"); err != nil {
		return nil, err
	}
	return m, nil
}

// Observe returns a function that records the most recently
// simulated day.
func (c *Metrics) Observe() soilwat.DomainManipulator {
	last := time.Now()
	return func(m *soilwat.Model) error {
		o := m.Output
		c.Days.Inc()
		c.Warnings.Add(float64(o.Warnings))
		for flux, v := range map[string]float64{
			"runoff":       o.Runoff,
			"infiltration": o.Infiltration,
			"evaporation":  o.Es,
			"drainage":     o.Drainage,
		} {
			// Drainage can be negative when water moves up
			// from below the profile; counters only go up.
			if v > 0 {
				c.Water.WithLabelValues(flux).Add(v)
			}
		}
		var lateral float64
		for _, v := range o.LateralOutflow {
			lateral += v
		}
		if lateral > 0 {
			c.Water.WithLabelValues("lateral").Add(lateral)
		}
		c.ESW.Set(o.ESW)
		c.StepDuration.Observe(time.Since(last).Seconds())
		last = time.Now()
		return nil
	}
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}

// serveMetrics serves the metrics at addr in the background. The
// returned function stops the server.
func serveMetrics(c *Metrics, addr string) func() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go srv.ListenAndServe()
	return srv.Close
}

func registerCounter(reg prometheus.Registerer, c prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("soilwat: collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("soilwat: collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, g prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("soilwat: collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("soilwat: collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}
