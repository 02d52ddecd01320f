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
	"io/ioutil"
	"math"

	"github.com/sirupsen/logrus"
)

// warner reports physical-consistency problems. Warnings never change
// the control flow of the simulation.
type warner struct {
	log   logrus.FieldLogger
	count int
}

func newWarner(log logrus.FieldLogger) *warner {
	if log == nil {
		l := logrus.New()
		l.Out = ioutil.Discard
		log = l
	}
	return &warner{log: log}
}

// warnf logs a warning with the given fields.
func (w *warner) warnf(fields logrus.Fields, format string, args ...interface{}) {
	w.count++
	w.log.WithFields(fields).Warnf(format, args...)
}

// bound limits a to the range [lower, upper], warning if the range
// is inverted. In that case upper wins.
func (w *warner) bound(a, lower, upper float64) float64 {
	if lower > upper {
		w.warnf(logrus.Fields{"lower": lower, "upper": upper},
			"lower bound %g is greater than upper bound %g; using the upper bound", lower, upper)
		return math.Min(a, upper)
	}
	return bound(a, lower, upper)
}

// boundCheck warns if v is outside of [lower, upper].
func (w *warner) boundCheck(v, lower, upper float64, name string) {
	if v < lower || v > upper {
		w.warnf(logrus.Fields{"variable": name, "value": v},
			"%s = %g is outside of the expected range [%g, %g]", name, v, lower, upper)
	}
}

// bound limits a to the range [lower, upper].
func bound(a, lower, upper float64) float64 {
	return math.Max(math.Min(a, upper), lower)
}

// divide returns numerator/denominator, or def if the
// denominator is zero.
func divide(numerator, denominator, def float64) float64 {
	if denominator == 0 {
		return def
	}
	return numerator / denominator
}

// roundToZero returns 0 for values that are negligibly small.
func roundToZero(v float64) float64 {
	if math.Abs(v) <= roundToZeroTolerance {
		return 0
	}
	return v
}

func layerField(n int) logrus.Fields { return logrus.Fields{"layer": n} }

// errLayer formats an error about layer n.
func errLayer(n int, format string, args ...interface{}) error {
	return fmt.Errorf("soilwat: layer %d: %s", n, fmt.Sprintf(format, args...))
}
