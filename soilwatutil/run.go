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
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/soilwat"
	"github.com/spatialmodel/soilwat/internal/hash"
	"github.com/spf13/cobra"
)

// Run runs a simulation.
//
// LogFile is the path to the desired logfile location. It can include
// environment variables. LogLevel is the minimum level of messages
// written to it and to the command output.
//
// OutputFile is the path to the desired output file, which must end in
// .xlsx or .nc. OutputVariables specifies the expressions that are
// evaluated each day and written to it.
//
// SoilFile is the TOML or YAML file describing the soil and its
// management, and MetFile the weather file. Weather records outside of
// the StartDate to EndDate window are skipped; zero dates leave the
// window open.
//
// If LoadFile is not empty the simulation resumes from the state saved
// there, and if SaveFile is not empty the final state is saved there.
// If PlotFile is not empty a water balance figure is written to it.
// If MetricsAddress is not empty Prometheus metrics are served at
// MetricsAddress/metrics while the simulation runs.
func Run(CobraCommand *cobra.Command, LogFile, LogLevel, OutputFile string, OutputVariables map[string]string,
	SoilFile, MetFile string, StartDate, EndDate time.Time, LoadFile, SaveFile, PlotFile, MetricsAddress string) error {

	startTime := time.Now()
	runID := uuid.New().String()

	logfile, err := os.Create(LogFile)
	if err != nil {
		return fmt.Errorf("soilwat: problem creating log file: %v", err)
	}
	defer logfile.Close()
	mw := io.MultiWriter(CobraCommand.OutOrStdout(), logfile)
	logger := logrus.New()
	logger.Out = mw
	if logger.Level, err = logrus.ParseLevel(LogLevel); err != nil {
		return fmt.Errorf("soilwat: %v", err)
	}

	setup, err := LoadSetup(SoilFile)
	if err != nil {
		return err
	}
	log := logger.WithFields(logrus.Fields{"run": runID, "soil": hash.Short(setup.Soil)})
	log.Infof("SoilWat v%s: simulating %s with weather from %s", soilwat.Version, SoilFile, MetFile)

	met, err := readMetFile(MetFile)
	if err != nil {
		return err
	}
	mgmt := setup.Management
	if LoadFile != "" {
		// The saved state already holds the solutes.
		mgmt.Solutes = nil
	}
	src, err := NewMetSource(met, &mgmt, StartDate, EndDate)
	if err != nil {
		return err
	}
	manage, err := Manage(&mgmt)
	if err != nil {
		return err
	}

	m, err := soilwat.NewModel(&setup.Soil, log)
	if err != nil {
		return err
	}
	o, err := soilwat.NewOutputter(OutputVariables, nil)
	if err != nil {
		return err
	}
	log.Info("Parsing output variable expressions...")
	m.InitFuncs = []soilwat.DomainManipulator{o.CheckOutputVars()}
	if LoadFile != "" {
		f, err := os.Open(LoadFile)
		if err != nil {
			return fmt.Errorf("soilwat: problem opening saved state: %v", err)
		}
		defer f.Close()
		m.InitFuncs = append(m.InitFuncs, soilwat.Load(f))
	}

	metrics, err := NewMetrics(prometheus.NewRegistry())
	if err != nil {
		return err
	}
	if MetricsAddress != "" {
		stop := serveMetrics(metrics, MetricsAddress)
		defer stop()
		log.Infof("Serving metrics at http://%s/metrics", MetricsAddress)
	}
	m.RunFuncs = []soilwat.DomainManipulator{
		soilwat.ReadInput(src),
		manage,
		soilwat.DailyStep(),
		o.Collect(),
		metrics.Observe(),
		soilwat.Log(mw),
	}
	if SaveFile != "" {
		m.CleanupFuncs = append(m.CleanupFuncs, saveState(SaveFile))
	}

	if err = m.Init(); err != nil {
		return err
	}
	if err = m.Run(); err != nil {
		return err
	}
	if err = m.Cleanup(); err != nil {
		return err
	}
	if len(o.Records) == 0 {
		return fmt.Errorf("soilwat: there is no weather between the start and end dates")
	}

	log.Infof("Writing output to %s...", OutputFile)
	if err = WriteOutput(OutputFile, o, m.Profile, runID); err != nil {
		return err
	}
	if PlotFile != "" {
		if err = plotFile(PlotFile, o.History); err != nil {
			return err
		}
	}
	WriteSummary(mw, runID, Summarize(o))
	log.Infof("Simulation of %d days finished in %v", m.Days, time.Since(startTime))
	return nil
}

func readMetFile(path string) (*soilwat.MetData, error) {
	if path == "" {
		return nil, fmt.Errorf("soilwat: please specify a MetFile")
	}
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("soilwat: problem opening met file: %v", err)
	}
	defer f.Close()
	return soilwat.ReadMet(f)
}

func saveState(path string) soilwat.DomainManipulator {
	return func(m *soilwat.Model) error {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("soilwat: problem creating saved state file: %v", err)
		}
		if err = soilwat.Save(f)(m); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
}

func plotFile(path string, history []soilwat.DailyOutput) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("soilwat: problem creating plot file: %v", err)
	}
	if err = PlotWaterBalance(f, history); err != nil {
		f.Close()
		return fmt.Errorf("soilwat: plotting water balance: %v", err)
	}
	return f.Close()
}

// Check reads the soil file and writes a description of the profile
// and the number of consistency warnings to w.
func Check(w io.Writer, SoilFile string) error {
	setup, err := LoadSetup(SoilFile)
	if err != nil {
		return err
	}
	m, err := soilwat.NewModel(&setup.Soil, nil)
	if err != nil {
		return err
	}
	if _, err = Manage(&setup.Management); err != nil {
		return err
	}
	l := logrus.New()
	l.Out = w
	warnings := m.Profile.Check(&setup.Soil.Constants, l)
	writeProfile(w, m.Profile)
	fmt.Fprintf(w, "soil %s: %d layers, %.0f mm deep, %d warnings\n",
		hash.Short(setup.Soil), len(m.Profile.Layers), m.Profile.TotalDepth(), warnings)
	return nil
}
