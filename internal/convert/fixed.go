// Copyright Climdyn Research, 2026. All rights reserved.

package convert

import (
	"fmt"
	"time"

	"github.com/climdyn/cfsnc/internal/cfsr"
	"github.com/climdyn/cfsnc/internal/grib"
	"github.com/climdyn/cfsnc/internal/ncio"
)

// ConvertFixed extracts one time-invariant field (orography, land fraction)
// from a GRIB2 file and writes it as a two-dimensional NetCDF variable.
func ConvertFixed(gribPath, ncPath string, v cfsr.VarDef, source string) error {
	recs, err := grib.ReadFile(gribPath)
	if err != nil {
		return err
	}
	return ConvertFixedRecords(recs, ncPath, v, source)
}

// ConvertFixedRecords requires exactly one matching record: fixed fields
// have no time axis, so a duplicate means the wrong variable was selected.
func ConvertFixedRecords(recs []grib.Record, ncPath string, v cfsr.VarDef, source string) error {
	var match *grib.Record
	for i := range recs {
		if !v.Matches(recs[i]) {
			continue
		}
		if match != nil {
			return fmt.Errorf("multiple records match fixed field %s (%s)", v.NCName, v.Param)
		}
		match = &recs[i]
	}
	if match == nil {
		return fmt.Errorf("no records match fixed field %s (%s)", v.NCName, v.Param)
	}
	if len(match.Values) != match.Grid.Ni*match.Grid.Nj {
		return fmt.Errorf("fixed field %s: %d values for a %dx%d grid",
			v.NCName, len(match.Values), match.Grid.Nj, match.Grid.Ni)
	}

	g := ncio.GlobalAttrs{
		Conventions:    "CF-1.5",
		Title:          "Climate System Forecast Reanalysis",
		History:        fmt.Sprintf("%s: Convert from grib2 to NetCDF", time.Now().Format("2006-01-02T15:04:05")),
		Institution:    "NCEP",
		Source:         "Reanalysis",
		References:     "http://cfs.ncep.noaa.gov/cfsr/",
		Comment:        fmt.Sprintf("Obtained from %s server, fixed field.", source),
		Redistribution: "Free to redistribute.",
	}

	scale := v.Scale
	if scale == 0 {
		scale = 1
	}
	f := grib.Field{Grid: match.Grid, Values: match.Values}.SouthUp()
	plane := make([][]float32, f.Grid.Nj)
	for j := range plane {
		row := make([]float32, f.Grid.Ni)
		for i := range row {
			row[i] = float32(f.Values[j*f.Grid.Ni+i] * scale)
		}
		plane[j] = row
	}

	return ncio.Write(ncPath, ncio.File{
		Global: g,
		Lat:    toFloat32(f.Grid.Lat),
		Lon:    toFloat32(f.Grid.Lon),
		Level:  levelVar(*match),
		Var: ncio.Var{
			Name:         v.NCName,
			LongName:     v.LongName,
			StandardName: v.StandardName,
			Units:        v.Units,
			Statistic:    string(v.Statistic),
			Plane:        plane,
		},
	})
}
