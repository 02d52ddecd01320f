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

// Package soilwatutil provides the command line interface to SoilWat:
// configuration handling, daily weather and management input, and
// output writers.
package soilwatutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/soilwat"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to SoilWat.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "loglevel",
			usage: `
              loglevel specifies the minimum level of log messages:
              one of debug, info, warning, or error. Physical consistency
              problems are logged as warnings.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "SoilFile",
			usage: `
              SoilFile is the path to the TOML (.toml) or YAML (.yaml)
              file describing the soil profile and its management. It
              can include environment variables.`,
			shorthand:  "s",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags(), checkCmd.Flags()},
		},
		{
			name: "MetFile",
			usage: `
              MetFile is the path to the weather file. It must have
              year, day, radn, maxt, mint, and rain columns, and an evap
              column if the soil takes potential evaporation from the
              input.`,
			shorthand:  "m",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "StartDate",
			usage: `
              StartDate is the first day to simulate, in the format
              YYYY-MM-DD. If it is empty the simulation starts at the
              beginning of the weather file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "EndDate",
			usage: `
              EndDate is the last day to simulate, in the format
              YYYY-MM-DD. If it is empty the simulation runs to the end
              of the weather file.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile specifies the path to the desired output file
              location, including the file name. It must end in .xlsx
              for a spreadsheet or .nc for a netCDF file, which also
              contains the layered water contents and flows. It can
              include environment variables.`,
			shorthand:  "o",
			defaultVal: "soilwat.xlsx",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile specifies the path to the desired logfile location.
              It can include environment variables. If LogFile is left
              blank, the logfile will be saved in the same location as
              the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies which model variables should be
              included in the output file. Each key is the output name
              and each value is an expression of the daily model outputs,
              for example {"Loss":"Runoff + Drainage + Es"}. The
              functions sum, max, and min reduce layered variables to a
              single value and layer(x, n) picks layer n. It can include
              environment variables.`,
			defaultVal: map[string]string{
				"Runoff":   "Runoff",
				"Drainage": "Drainage",
				"Es":       "Es",
				"ESW":      "ESW",
				"TotalSW":  "sum(SWmm)",
			},
			flagsets: []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "LoadFile",
			usage: `
              LoadFile is the path to a state file written by an earlier
              run's SaveFile. If it is set the simulation resumes from
              that state.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "SaveFile",
			usage: `
              SaveFile is the path where the state at the end of the
              simulation is saved, so that it can be resumed later.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "PlotFile",
			usage: `
              PlotFile is the path to a PNG figure of the cumulative
              water balance. No figure is created if it is empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
		{
			name: "MetricsAddress",
			usage: `
              MetricsAddress is the address (for example localhost:9090)
              where Prometheus metrics are served while the simulation
              runs. Metrics are not served if it is empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("SOILWAT")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.StringP(option.name, option.shorthand, v, option.usage)
			case bool:
				set.BoolP(option.name, option.shorthand, v, option.usage)
			case int:
				set.IntP(option.name, option.shorthand, v, option.usage)
			case float64:
				set.Float64P(option.name, option.shorthand, v, option.usage)
			case map[string]string:
				b := bytes.NewBuffer(nil)
				json.NewEncoder(b).Encode(v)
				set.StringP(option.name, option.shorthand, b.String(), option.usage)
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(checkCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("soilwat: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "soilwat",
	Short: "A daily soil water and solute balance model.",
	Long: `SoilWat simulates the daily movement of water and solutes in a layered
soil profile: runoff, infiltration, drainage, redistribution, evaporation,
lateral flow, and the depth of the water table.
Use the subcommands specified below to access the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'SOILWAT_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of SoilWat.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("SoilWat v%s\n", soilwat.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the model.",
	Long: `run simulates the soil in SoilFile for each day of weather in MetFile
between StartDate and EndDate and writes the OutputVariables to OutputFile.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		vars, err := GetStringMapString("OutputVariables", Cfg)
		if err != nil {
			return err
		}
		outputVars, err := checkOutputVars(vars)
		if err != nil {
			return err
		}
		start, err := parseDate("StartDate", Cfg.GetString("StartDate"))
		if err != nil {
			return err
		}
		end, err := parseDate("EndDate", Cfg.GetString("EndDate"))
		if err != nil {
			return err
		}
		if !start.IsZero() && !end.IsZero() && end.Before(start) {
			return fmt.Errorf("soilwat: EndDate %s is before StartDate %s",
				end.Format(soilwat.DateFormat), start.Format(soilwat.DateFormat))
		}
		return Run(cmd,
			checkLogFile(Cfg.GetString("LogFile"), outputFile),
			Cfg.GetString("loglevel"),
			outputFile, outputVars,
			Cfg.GetString("SoilFile"),
			Cfg.GetString("MetFile"),
			start, end,
			os.ExpandEnv(Cfg.GetString("LoadFile")),
			os.ExpandEnv(Cfg.GetString("SaveFile")),
			os.ExpandEnv(Cfg.GetString("PlotFile")),
			Cfg.GetString("MetricsAddress"),
		)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a soil file.",
	Long: `check reads SoilFile, prints the layers of the soil profile, and reports
any inconsistencies in the soil water limits.`,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Check(cmd.OutOrStdout(), Cfg.GetString("SoilFile"))
	},
}
