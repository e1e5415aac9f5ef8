// Copyright Climdyn Research, 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/climdyn/cfsnc/internal/cfsr"
)

// Job describes one batch conversion: which archive keys to convert, over
// which years and months, and where the files live. Jobs are read from YAML
// files so a campaign can be versioned alongside its outputs.
type Job struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`

	// GribSource names the archive server the inputs came from, rda or
	// nomads. rda files carry an analysis record per forecast cycle,
	// nomads files do not.
	GribSource string `yaml:"grib_source"`

	Resolution cfsr.Resolution `yaml:"resolution"`

	InitialYear int   `yaml:"initial_year"`
	FinalYear   int   `yaml:"final_year"`
	Months      []int `yaml:"months,omitempty"`

	Workers   int `yaml:"workers,omitempty"`
	EpochYear int `yaml:"epoch_year,omitempty"`

	// ExcludeAnalysis drops the analysis timestep even when the archive
	// carries one, so rda and nomads outputs line up.
	ExcludeAnalysis bool `yaml:"exclude_analysis,omitempty"`

	Variables []JobVariable `yaml:"variables"`
}

// JobVariable binds an archive file key (the prefix of the monthly GRIB2
// file names) to an output variable. Var defaults to the key; Units and
// Statistic override the built-in definition.
type JobVariable struct {
	Key       string `yaml:"key"`
	Var       string `yaml:"var,omitempty"`
	Units     string `yaml:"units,omitempty"`
	Statistic string `yaml:"statistic,omitempty"`
}

const defaultEpochYear = 1979

// ReadJobFile loads and validates a YAML job file.
func ReadJobFile(path string) (Job, error) {
	var job Job
	data, err := os.ReadFile(path)
	if err != nil {
		return job, fmt.Errorf("reading job file: %w", err)
	}
	if err := yaml.Unmarshal(data, &job); err != nil {
		return job, fmt.Errorf("parsing job file %s: %w", path, err)
	}
	if err := job.Validate(); err != nil {
		return job, fmt.Errorf("job file %s: %w", path, err)
	}
	return job, nil
}

// Validate checks required fields and fills in defaults.
func (j *Job) Validate() error {
	if j.InputDir == "" {
		return fmt.Errorf("input_dir is required")
	}
	if j.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	switch j.GribSource {
	case "":
		j.GribSource = "rda"
	case "rda", "nomads":
	default:
		return fmt.Errorf("grib_source must be rda or nomads, got %q", j.GribSource)
	}
	if j.Resolution == "" {
		j.Resolution = cfsr.HighRes
	}
	if _, err := cfsr.ParseResolution(string(j.Resolution)); err != nil {
		return err
	}
	if j.InitialYear == 0 || j.FinalYear == 0 {
		return fmt.Errorf("initial_year and final_year are required")
	}
	if j.FinalYear < j.InitialYear {
		return fmt.Errorf("final_year %d before initial_year %d", j.FinalYear, j.InitialYear)
	}
	if len(j.Months) == 0 {
		for m := 1; m <= 12; m++ {
			j.Months = append(j.Months, m)
		}
	}
	for _, m := range j.Months {
		if m < 1 || m > 12 {
			return fmt.Errorf("month %d out of range", m)
		}
	}
	if j.Workers == 0 {
		j.Workers = 10
	}
	if j.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", j.Workers)
	}
	if j.EpochYear == 0 {
		j.EpochYear = defaultEpochYear
	}
	if len(j.Variables) == 0 {
		return fmt.Errorf("at least one variable is required")
	}
	for i, v := range j.Variables {
		if v.Key == "" {
			return fmt.Errorf("variable %d: key is required", i)
		}
		if _, err := v.Resolve(); err != nil {
			return fmt.Errorf("variable %s: %w", v.Key, err)
		}
	}
	return nil
}

// Options derives the per-file conversion settings from the job.
func (j Job) Options() Options {
	return Options{
		GribSource:      j.GribSource,
		EpochYear:       j.EpochYear,
		IncludeAnalysis: j.GribSource == "rda" && !j.ExcludeAnalysis,
	}
}

// Resolve looks up the variable definition and applies the overrides.
func (v JobVariable) Resolve() (cfsr.VarDef, error) {
	name := v.Var
	if name == "" {
		name = v.Key
	}
	def, err := cfsr.Lookup(name)
	if err != nil {
		return def, err
	}
	if v.Units != "" {
		def.Units = v.Units
	}
	if v.Statistic != "" {
		s, err := cfsr.ParseStatistic(v.Statistic)
		if err != nil {
			return def, err
		}
		def.Statistic = s
	}
	return def, nil
}
