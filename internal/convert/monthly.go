// Copyright Climdyn Research, 2026. All rights reserved.

// Package convert turns CFSR GRIB2 archives into CF-1.5 NetCDF files and
// fans whole-directory conversions across a worker pool.
package convert

import (
	"fmt"
	"math"
	"time"

	"github.com/climdyn/cfsnc/internal/cfsr"
	"github.com/climdyn/cfsnc/internal/grib"
	"github.com/climdyn/cfsnc/internal/ncio"
)

// Options carries the settings shared by every file of a batch.
type Options struct {
	// GribSource names the server the archive came from (rda or nomads);
	// it only affects the output comment attribute.
	GribSource string
	// EpochYear anchors the time axis ("hours since <epoch>-01-01").
	EpochYear int
	// IncludeAnalysis keeps analysis records when the archive carries them.
	IncludeAnalysis bool
}

// ConvertMonthly converts one monthly hourly GRIB2 file into one NetCDF
// file and returns the number of timesteps written.
func ConvertMonthly(gribPath, ncPath string, v cfsr.VarDef, opts Options) (int, error) {
	recs, err := grib.ReadFile(gribPath)
	if err != nil {
		return 0, err
	}
	return ConvertRecords(recs, ncPath, v, opts)
}

// ConvertRecords is the record-level conversion used by ConvertMonthly and
// by tests that synthesize inputs.
func ConvertRecords(recs []grib.Record, ncPath string, v cfsr.VarDef, opts Options) (int, error) {
	steps, analysis := cfsr.FilterTimesteps(recs, v, opts.IncludeAnalysis)
	if len(steps) == 0 {
		return 0, fmt.Errorf("no records match %s (%s)", v.NCName, v.Param)
	}

	grid := steps[0].Record.Grid
	points := grid.Ni * grid.Nj
	epoch := time.Date(opts.EpochYear, 1, 1, 0, 0, 0, 0, time.UTC)

	frames := make([][][]float32, 0, len(steps))
	times := make([]int32, 0, len(steps))
	vectors := make([][]int16, 0, len(steps))
	warned := false

	var prev []float64
	for _, s := range steps {
		cur := s.Record.Values
		var hourly []float64
		if len(cur) != points {
			warned = true
			cur = nil
		} else {
			var err error
			hourly, err = v.Statistic.DeriveHourly(s.Hour, cur, prev)
			if err != nil {
				// A broken step poisons running statistics; emit fill
				// values instead of aborting the month.
				warned = true
				hourly = nil
			}
		}
		frames = append(frames, frame(grid, hourly, v.Scale))

		vt := s.ValidTime()
		times = append(times, int32(math.Round(vt.Sub(epoch).Hours())))
		vectors = append(vectors, []int16{
			int16(vt.Year()), int16(vt.Month()), int16(vt.Day()),
			int16(vt.Hour()), 0, 0,
		})
		prev = cur
	}

	file := ncio.File{
		Global: globalAttrs(opts.GribSource, analysis, warned),
		Lat:    southUpLat(grid),
		Lon:    toFloat32(grid.Lon),
		Time: &ncio.TimeAxis{
			Units:   fmt.Sprintf("hours since %d-01-01 00:00:00", opts.EpochYear),
			Values:  times,
			Vectors: vectors,
		},
		Level: levelVar(steps[0].Record),
		Var: ncio.Var{
			Name:         v.NCName,
			LongName:     v.LongName,
			StandardName: v.StandardName,
			Units:        v.Units,
			Statistic:    string(v.Statistic),
			Frames:       frames,
		},
	}
	if err := ncio.Write(ncPath, file); err != nil {
		return 0, err
	}
	return len(steps), nil
}

// frame reorients one timestep south-up and converts it to float32 rows,
// applying the variable scale. A nil slab becomes all fill values.
func frame(g grib.Grid, hourly []float64, scale float64) [][]float32 {
	out := make([][]float32, g.Nj)
	if hourly == nil {
		for j := range out {
			row := make([]float32, g.Ni)
			for i := range row {
				row[i] = ncio.FillValue
			}
			out[j] = row
		}
		return out
	}
	if scale == 0 {
		scale = 1
	}
	f := grib.Field{Grid: g, Values: hourly}.SouthUp()
	for j := range out {
		row := make([]float32, g.Ni)
		for i := range row {
			row[i] = float32(f.Values[j*g.Ni+i] * scale)
		}
		out[j] = row
	}
	return out
}

// southUpLat returns the latitude axis in ascending order regardless of the
// encoded scan direction.
func southUpLat(g grib.Grid) []float32 {
	out := make([]float32, len(g.Lat))
	if g.LatAscending() {
		for i, v := range g.Lat {
			out[i] = float32(v)
		}
		return out
	}
	for i, v := range g.Lat {
		out[len(g.Lat)-1-i] = float32(v)
	}
	return out
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}

// levelVar builds the scalar vertical coordinate for levels that carry
// one: height above ground and depth below sea or land. Layered records get
// bounds and a midpoint value.
func levelVar(r grib.Record) *ncio.Level {
	var positive string
	switch r.Surface.Type {
	case 103:
		positive = "up"
	case 106, 160:
		positive = "down"
	default:
		return nil
	}
	l := &ncio.Level{
		LongName:     grib.SurfaceName(r.Surface.Type),
		StandardName: cfsr.LevelStandardName(r.Surface.Type),
		Units:        "m",
		Positive:     positive,
		Value:        float32(r.Surface.Value),
	}
	if r.Layer != nil {
		l.Bounds = []float32{float32(r.Surface.Value), float32(r.Layer.Value)}
		l.Value = (l.Bounds[0] + l.Bounds[1]) / 2
	}
	return l
}

func globalAttrs(source string, analysis, warned bool) ncio.GlobalAttrs {
	g := ncio.GlobalAttrs{
		Conventions:    "CF-1.5",
		Title:          "Climate System Forecast Reanalysis",
		History:        fmt.Sprintf("%s: Convert from grib2 to NetCDF", time.Now().Format("2006-01-02T15:04:05")),
		Institution:    "NCEP",
		Source:         "Reanalysis",
		References:     "http://cfs.ncep.noaa.gov/cfsr/",
		Redistribution: "Free to redistribute.",
	}
	if analysis {
		g.Comment = fmt.Sprintf("Obtained from %s server, analysis is included, 6h forecast removed.", source)
	} else {
		g.Comment = fmt.Sprintf("Obtained from %s server, no analysis, 6h forecast is included.", source)
	}
	if warned {
		g.Warnings = "Decoding errors encountered, missing values inserted."
	}
	return g
}

// Verify reopens a converted file and checks the invariants the conversion
// must preserve: an ascending latitude axis and consistent time dimensions.
func Verify(ncPath, varName string) error {
	r, err := ncio.Open(ncPath)
	if err != nil {
		return err
	}
	defer r.Close()

	lat, err := r.Floats("lat")
	if err != nil {
		return err
	}
	for i := 1; i < len(lat); i++ {
		if lat[i] <= lat[i-1] {
			return fmt.Errorf("%s: latitude axis not ascending at index %d", ncPath, i)
		}
	}

	times, err := r.Ints("time")
	if err != nil {
		return err
	}
	frames, err := r.Frames(varName)
	if err != nil {
		return err
	}
	if len(frames) != len(times) {
		return fmt.Errorf("%s: %d timesteps but %d data frames", ncPath, len(times), len(frames))
	}
	return nil
}
