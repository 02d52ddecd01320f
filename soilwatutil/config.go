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
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lnashier/viper"
	"github.com/spatialmodel/soilwat"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Setup holds the contents of a soil file: the soil description and
// its management.
type Setup struct {
	Soil       soilwat.Config `toml:"Soil" yaml:"soil"`
	Management Schedule       `toml:"Management" yaml:"management"`
}

// LoadSetup reads a soil file in TOML (.toml) or YAML (.yaml, .yml)
// format. Soil parameters that are not in the file keep their default
// values.
func LoadSetup(path string) (*Setup, error) {
	if path == "" {
		return nil, fmt.Errorf("soilwat: please specify a SoilFile")
	}
	path = os.ExpandEnv(path)
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("soilwat: problem reading soil file: %v", err)
	}
	s := &Setup{Soil: *soilwat.DefaultConfig()}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err = toml.Decode(string(b), s); err != nil {
			return nil, fmt.Errorf("soilwat: problem parsing soil file %s: %v", path, err)
		}
	case ".yaml", ".yml":
		if err = yaml.Unmarshal(b, s); err != nil {
			return nil, fmt.Errorf("soilwat: problem parsing soil file %s: %v", path, err)
		}
	default:
		return nil, fmt.Errorf("soilwat: soil file %s must have a .toml, .yaml, or .yml extension", path)
	}
	if err = s.Soil.Validate(); err != nil {
		return nil, fmt.Errorf("%v (in %s)", err, path)
	}
	if _, err = s.Management.compile(); err != nil {
		return nil, fmt.Errorf("%v (in %s)", err, path)
	}
	return s, nil
}

// parseDate parses an optional date in the format 2006-01-02.
func parseDate(name, s string) (time.Time, error) {
	s = strings.TrimSpace(os.ExpandEnv(s))
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(soilwat.DateFormat, s)
	if err != nil {
		return t, fmt.Errorf("soilwat: %s '%s' should be in the format YYYY-MM-DD", name, s)
	}
	return t, nil
}

func checkOutputVars(vars map[string]string) (map[string]string, error) {
	if len(vars) == 0 {
		return nil, fmt.Errorf("there are no variables specified for output. Please fill in " +
			"the OutputVariables configuration and try again.")
	}
	o := make(map[string]string, len(vars))
	for k, v := range vars {
		v = strings.Replace(v, "\r\n", " ", -1)
		v = strings.Replace(v, "\n", " ", -1)
		o[os.ExpandEnv(k)] = os.ExpandEnv(v)
	}
	return o, nil
}

// checkOutputFile makes sure the output file has a supported format and
// that its directory exists.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output.xlsx")`)
	}
	f = os.ExpandEnv(f)
	if ext := strings.ToLower(filepath.Ext(f)); ext != ".xlsx" && ext != ".nc" {
		return f, fmt.Errorf("soilwat: the OutputFile must end in .xlsx or .nc but is %s", f)
	}
	if _, err := os.Stat(filepath.Dir(f)); err != nil {
		return f, fmt.Errorf("soilwat: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

func checkLogFile(logFile, outputFile string) string {
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return os.ExpandEnv(logFile)
}

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case map[string]string:
		return v, nil
	case map[string]interface{}:
		return cast.ToStringMapStringE(v)
	case string:
		o := make(map[string]string)
		if strings.TrimSpace(v) == "" {
			return o, nil
		}
		if err := json.NewDecoder(bytes.NewBufferString(v)).Decode(&o); err != nil {
			return nil, fmt.Errorf("soilwat: parsing %s: %v", varName, err)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("soilwat: invalid type for %s: %#v", varName, i)
	}
}
