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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// MetData holds the contents of an APSIM weather (.met) file.
type MetData struct {
	// Constants holds the "name = value" header lines, such as latitude
	// and tav, with any trailing units or comments removed.
	Constants map[string]string

	Weather []Weather

	// Evap holds the daily pan evaporation [mm] if the file has an
	// evap column, in the same order as Weather.
	Evap []float64
}

// ReadMet reads an APSIM weather file. The file contains optional
// "name = value" header lines, a line of column names that must include
// year, day, radn, maxt, mint and rain, a line of units in parentheses,
// and then one whitespace-separated record per day. Lines starting with
// '!' are comments and lines starting with '[' are section names.
func ReadMet(r io.Reader) (*MetData, error) {
	md := &MetData{Constants: make(map[string]string)}
	var cols map[string]int
	unitsRead := false
	s := bufio.NewScanner(r)
	lineNum := 0
	for s.Scan() {
		lineNum++
		line := s.Text()
		if i := strings.Index(line, "!"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		switch {
		case cols == nil && strings.Contains(line, "="):
			parts := strings.SplitN(line, "=", 2)
			value := strings.Fields(parts[1])
			if len(value) > 0 {
				md.Constants[strings.ToLower(strings.TrimSpace(parts[0]))] = value[0]
			}
		case cols == nil:
			var err error
			if cols, err = metColumns(strings.Fields(line)); err != nil {
				return nil, fmt.Errorf("soilwat: reading met file line %d: %v", lineNum, err)
			}
		case !unitsRead && strings.HasPrefix(line, "("):
			unitsRead = true
		default:
			unitsRead = true
			w, err := parseMetRecord(strings.Fields(line), cols)
			if err != nil {
				return nil, fmt.Errorf("soilwat: reading met file line %d: %v", lineNum, err)
			}
			md.Weather = append(md.Weather, w)
			if i, ok := cols["evap"]; ok {
				evap, err := strconv.ParseFloat(strings.Fields(line)[i], 64)
				if err != nil {
					return nil, fmt.Errorf("soilwat: reading met file line %d: invalid evap value", lineNum)
				}
				md.Evap = append(md.Evap, evap)
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("soilwat: problem reading met file: %v", err)
	}
	if cols == nil {
		return nil, fmt.Errorf("soilwat: met file has no column header line")
	}
	return md, nil
}

func metColumns(names []string) (map[string]int, error) {
	cols := make(map[string]int)
	for i, n := range names {
		cols[strings.ToLower(n)] = i
	}
	for _, req := range []string{"year", "day", "radn", "maxt", "mint", "rain"} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("missing column '%s'", req)
		}
	}
	return cols, nil
}

func parseMetRecord(fields []string, cols map[string]int) (Weather, error) {
	if len(fields) < len(cols) {
		return Weather{}, fmt.Errorf("record has %d values but there are %d columns", len(fields), len(cols))
	}
	get := func(name string) (float64, error) {
		v, err := strconv.ParseFloat(fields[cols[name]], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value '%s'", name, fields[cols[name]])
		}
		return v, nil
	}
	year, err := strconv.Atoi(fields[cols["year"]])
	if err != nil {
		return Weather{}, fmt.Errorf("invalid year '%s'", fields[cols["year"]])
	}
	day, err := strconv.Atoi(fields[cols["day"]])
	if err != nil || day < 1 || day > 366 {
		return Weather{}, fmt.Errorf("invalid day of year '%s'", fields[cols["day"]])
	}
	w := Weather{Date: time.Date(year, time.January, day, 0, 0, 0, 0, time.UTC)}
	for _, v := range []struct {
		name string
		dst  *float64
	}{{"radn", &w.Radn}, {"maxt", &w.MaxT}, {"mint", &w.MinT}, {"rain", &w.Rain}} {
		if *v.dst, err = get(v.name); err != nil {
			return Weather{}, err
		}
	}
	return w, nil
}
