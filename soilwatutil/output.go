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
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/spatialmodel/soilwat"
	"github.com/tealeg/xlsx"
)

// WriteOutput writes the records collected by o to file, choosing the
// format from the file extension: .xlsx for a spreadsheet or .nc for
// netCDF. runID identifies the simulation in the file metadata.
func WriteOutput(file string, o *soilwat.Outputter, p *soilwat.Profile, runID string) error {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".xlsx":
		return writeXLSX(file, o, runID)
	case ".nc":
		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("soilwat: creating netcdf output file: %v", err)
		}
		if err = writeNetCDF(f, o, p, runID); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("soilwat: unsupported output file type %s", file)
	}
}

// writeXLSX writes one row per day to the "Daily" sheet and the run
// information to the "Run" sheet.
func writeXLSX(file string, o *soilwat.Outputter, runID string) error {
	f := xlsx.NewFile()
	daily, err := f.AddSheet("Daily")
	if err != nil {
		return fmt.Errorf("soilwat: creating output spreadsheet: %v", err)
	}
	header := daily.AddRow()
	header.AddCell().SetString("Date")
	for _, n := range o.Names() {
		header.AddCell().SetString(n)
	}
	for _, r := range o.Records {
		row := daily.AddRow()
		row.AddCell().SetString(r.Date)
		for _, v := range r.Values {
			row.AddCell().SetFloat(v)
		}
	}

	run, err := f.AddSheet("Run")
	if err != nil {
		return fmt.Errorf("soilwat: creating output spreadsheet: %v", err)
	}
	for _, kv := range [][2]string{{"RunID", runID}, {"Version", soilwat.Version}} {
		row := run.AddRow()
		row.AddCell().SetString(kv[0])
		row.AddCell().SetString(kv[1])
	}
	for _, n := range o.Names() {
		row := run.AddRow()
		row.AddCell().SetString(n)
		row.AddCell().SetString(o.Expression(n))
	}
	if err = f.Save(file); err != nil {
		return fmt.Errorf("soilwat: saving output spreadsheet: %v", err)
	}
	return nil
}

// layeredOutputs are the per-layer variables written to netCDF files.
var layeredOutputs = []struct {
	name, description, units string
	get                      func(*soilwat.DailyOutput) []float64
}{
	{"SWmm", "soil water content", "mm", func(o *soilwat.DailyOutput) []float64 { return o.SWmm }},
	{"SW", "volumetric soil water content", "mm/mm", func(o *soilwat.DailyOutput) []float64 { return o.SW }},
	{"Flow", "unsaturated flow into the layer from below; positive upward", "mm",
		func(o *soilwat.DailyOutput) []float64 { return o.Flow }},
	{"Flux", "saturated flow out of the bottom of the layer", "mm",
		func(o *soilwat.DailyOutput) []float64 { return o.Flux }},
	{"LateralOutflow", "lateral outflow", "mm",
		func(o *soilwat.DailyOutput) []float64 { return o.LateralOutflow }},
}

// writeNetCDF writes the output variables as time series along the
// "day" dimension and the layered model outputs along the "day" and
// "layer" dimensions.
func writeNetCDF(w *os.File, o *soilwat.Outputter, p *soilwat.Profile, runID string) error {
	nDays, nLayers := len(o.History), len(p.Layers)
	if nDays == 0 {
		return fmt.Errorf("soilwat: there are no days to write to the netcdf file")
	}
	h := cdf.NewHeader([]string{"day", "layer"}, []int{nDays, nLayers})
	h.AddAttribute("", "comment", "SoilWat daily soil water balance")
	h.AddAttribute("", "run_id", runID)
	h.AddAttribute("", "version", soilwat.Version)
	h.AddAttribute("", "start_date", o.Records[0].Date)

	h.AddVariable("day", []string{"day"}, []int32{0})
	h.AddAttribute("day", "units", "days since "+o.Records[0].Date)
	h.AddVariable("depth", []string{"layer"}, []float64{0})
	h.AddAttribute("depth", "description", "depth of the bottom of the layer")
	h.AddAttribute("depth", "units", "mm")

	for _, n := range o.Names() {
		h.AddVariable(n, []string{"day"}, []float64{0})
		h.AddAttribute(n, "description", o.Expression(n))
	}
	for _, v := range layeredOutputs {
		h.AddVariable(v.name, []string{"day", "layer"}, []float64{0})
		h.AddAttribute(v.name, "description", v.description)
		h.AddAttribute(v.name, "units", v.units)
	}
	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("soilwat: creating netcdf file: %v", err)
	}

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("soilwat: creating netcdf file: %v", err)
	}

	days := make([]int32, nDays)
	start := o.History[0].Date
	for i, out := range o.History {
		days[i] = int32(out.Date.Sub(start).Hours() / 24)
	}
	if err = writeVar(f, "day", days); err != nil {
		return err
	}
	depth := make([]float64, nLayers)
	for i := range depth {
		depth[i] = p.DepthToBottomOf(i + 1)
	}
	if err = writeVar(f, "depth", depth); err != nil {
		return err
	}

	for j, n := range o.Names() {
		data := sparse.ZerosDense(nDays)
		for i, r := range o.Records {
			data.Set(r.Values[j], i)
		}
		if err = writeNCF(f, n, data); err != nil {
			return err
		}
	}
	for _, v := range layeredOutputs {
		data := sparse.ZerosDense(nDays, nLayers)
		for i := range o.History {
			for k, val := range v.get(&o.History[i]) {
				data.Set(val, i, k)
			}
		}
		if err = writeNCF(f, v.name, data); err != nil {
			return err
		}
	}
	return cdf.UpdateNumRecs(w)
}

// writeNCF writes data to variable name of f.
func writeNCF(f *cdf.File, name string, data *sparse.DenseArray) error {
	n := 1
	for _, v := range data.Shape {
		n *= v
	}
	if len(data.Elements) != n {
		return fmt.Errorf("soilwat: writing %s: dims are %d but array length is %d", name, n, len(data.Elements))
	}
	return writeVar(f, name, data.Elements)
}

func writeVar(f *cdf.File, name string, data interface{}) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	if _, err := f.Writer(name, start, end).Write(data); err != nil {
		return fmt.Errorf("soilwat: writing variable %s to netcdf file: %v", name, err)
	}
	return nil
}
