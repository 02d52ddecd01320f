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

	"github.com/GaryBoone/GoStats/stats"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spatialmodel/soilwat"
)

// Summary holds statistics of an output variable over a simulation.
type Summary struct {
	Name                       string
	Total, Mean, Min, Max, Std float64
}

// Summarize calculates statistics of each of the output variables
// collected by o.
func Summarize(o *soilwat.Outputter) []Summary {
	names := o.Names()
	s := make([]Summary, len(names))
	for j, n := range names {
		v := make([]float64, len(o.Records))
		for i, r := range o.Records {
			v[i] = r.Values[j]
		}
		s[j].Name = n
		if len(v) == 0 {
			continue
		}
		s[j].Total = stats.StatsSum(v)
		s[j].Mean = stats.StatsMean(v)
		s[j].Min = stats.StatsMin(v)
		s[j].Max = stats.StatsMax(v)
		if len(v) > 1 {
			s[j].Std = stats.StatsSampleStandardDeviation(v)
		}
	}
	return s
}

// WriteSummary writes a table of the summaries to w.
func WriteSummary(w io.Writer, runID string, s []Summary) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle("SoilWat run %s", runID)
	tw.AppendHeader(table.Row{"Variable", "Total", "Mean", "Min", "Max", "Std. dev."})
	for _, v := range s {
		tw.AppendRow(table.Row{v.Name, f4(v.Total), f4(v.Mean), f4(v.Min), f4(v.Max), f4(v.Std)})
	}
	tw.Render()
}

func f4(v float64) string { return fmt.Sprintf("%.4g", v) }

// writeProfile writes a table of the layers in p to w.
func writeProfile(w io.Writer, p *soilwat.Profile) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Layer", "Depth (mm)", "BD", "AirDry", "LL15", "DUL", "SAT", "SW", "KS"})
	for i := range p.Layers {
		l := &p.Layers[i]
		tw.AppendRow(table.Row{l.Number, p.DepthToBottomOf(l.Number), l.BD,
			f4(l.AirDry()), f4(l.LL15()), f4(l.DUL()), f4(l.SAT()), f4(l.SW()), l.KS})
	}
	tw.Render()
}
