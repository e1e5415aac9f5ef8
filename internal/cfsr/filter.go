// Copyright Climdyn Research, 2026. All rights reserved.

package cfsr

import (
	"time"

	"github.com/climdyn/cfsnc/internal/grib"
)

// Step is one selected timestep of a variable within a monthly file. Hour
// is the forecast hour the step is valid at (the end of the interval for
// running statistics).
type Step struct {
	Record grib.Record
	Hour   int
}

// ValidTime is the record's reference time advanced by the step hour.
func (s Step) ValidTime() time.Time {
	return s.Record.RefTime.Add(time.Duration(s.Hour) * time.Hour)
}

// FilterTimesteps selects the records of v that form an hourly time series,
// in file order. The second return value reports whether analyses were
// found and kept.
//
// CFSR monthly files from some servers duplicate the forecast-hour-0 record
// of each cycle: the first copy is the analysis, the second a 3-minute
// spinup. When that pair is seen the analysis is kept (if includeAnalysis)
// and the 6-hour forecasts are dropped for the rest of the file, since the
// next cycle's analysis covers the same instant. A lone hour-0 record is
// not an analysis and is ignored.
//
// Records carrying running statistics are valid at the end of their
// interval and never duplicate the analysis, so they map to steps directly.
func FilterTimesteps(recs []grib.Record, v VarDef, includeAnalysis bool) ([]Step, bool) {
	var matched []grib.Record
	for _, r := range recs {
		if v.Matches(r) {
			matched = append(matched, r)
		}
	}
	if len(matched) == 0 {
		return nil, false
	}
	if matched[0].Statistical {
		steps := make([]Step, 0, len(matched))
		for _, r := range matched {
			steps = append(steps, Step{Record: r, Hour: r.ForecastHour})
		}
		return steps, false
	}
	return dedupeAnalyses(matched, includeAnalysis)
}

func dedupeAnalyses(recs []grib.Record, includeAnalysis bool) ([]Step, bool) {
	var steps []Step
	skip6 := false
	pending := false
	var candidate grib.Record
	for _, r := range recs {
		if r.ForecastHour == 0 {
			if !pending {
				pending = true
				candidate = r
				continue
			}
			// Second hour-0 record of the cycle: the earlier one was
			// the analysis, this one is the spinup.
			pending = false
			if includeAnalysis {
				steps = append(steps, Step{Record: candidate, Hour: 0})
				skip6 = true
			}
			continue
		}
		pending = false
		if r.ForecastHour == 6 && skip6 {
			continue
		}
		steps = append(steps, Step{Record: r, Hour: r.ForecastHour})
	}
	return steps, skip6
}
