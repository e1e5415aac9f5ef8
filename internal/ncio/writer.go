// Copyright Climdyn Research, 2026. All rights reserved.

// Package ncio reads and writes the CF-1.5 NetCDF files the converter
// produces, wrapping github.com/batchatco/go-native-netcdf.
package ncio

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf/api"
	"github.com/batchatco/go-native-netcdf/netcdf/cdf"
	"github.com/batchatco/go-native-netcdf/netcdf/util"
)

// FillValue is the default NetCDF float fill value, matching what the
// original archive files carry.
const FillValue float32 = 9.9692099683868690e+36

// GlobalAttrs are the file-level attributes. Empty fields are omitted.
type GlobalAttrs struct {
	Conventions    string
	Title          string
	History        string
	Institution    string
	Source         string
	References     string
	Comment        string
	Redistribution string
	Warnings       string
}

// TimeAxis is the unlimited-style time coordinate: integral hours since a
// fixed epoch plus the calendar component vectors legacy tooling expects.
type TimeAxis struct {
	Units   string
	Values  []int32
	Vectors [][]int16
}

// Level is an optional scalar vertical coordinate, with bounds when the
// variable describes a layer.
type Level struct {
	LongName     string
	StandardName string
	Units        string
	Positive     string
	Value        float32
	Bounds       []float32
}

// Var is the data variable. Exactly one of Frames (time series) or Plane
// (fixed field) must be set.
type Var struct {
	Name         string
	LongName     string
	StandardName string
	Units        string
	Statistic    string
	Frames       [][][]float32
	Plane        [][]float32
}

// File is everything needed to write one output file.
type File struct {
	Global GlobalAttrs
	Lat    []float32
	Lon    []float32
	Time   *TimeAxis
	Level  *Level
	Var    Var
}

// Write creates a NetCDF classic file at path. Latitude is expected to be
// ascending; Write refuses to encode a descending axis so orientation bugs
// fail loudly instead of producing upside-down archives.
func Write(path string, f File) error {
	if len(f.Lat) >= 2 && f.Lat[0] > f.Lat[len(f.Lat)-1] {
		return fmt.Errorf("writing %s: latitude axis is descending", path)
	}
	if (f.Var.Frames == nil) == (f.Var.Plane == nil) {
		return fmt.Errorf("writing %s: variable needs exactly one of frames or plane", path)
	}

	cw, err := cdf.OpenWriter(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	if err := writeBody(cw, f); err != nil {
		cw.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}

func writeBody(cw *cdf.CDFWriter, f File) error {
	ga, err := attrList(
		"Conventions", f.Global.Conventions,
		"title", f.Global.Title,
		"history", f.Global.History,
		"institution", f.Global.Institution,
		"source", f.Global.Source,
		"references", f.Global.References,
		"comment", f.Global.Comment,
		"redistribution", f.Global.Redistribution,
		"warnings", f.Global.Warnings,
	)
	if err != nil {
		return err
	}
	if err := cw.AddGlobalAttrs(ga); err != nil {
		return fmt.Errorf("global attributes: %w", err)
	}

	if f.Time != nil {
		if err := addTime(cw, f.Time); err != nil {
			return err
		}
	}
	if f.Level != nil {
		if err := addLevel(cw, f.Level); err != nil {
			return err
		}
	}

	latAttrs, err := attrList(
		"axis", "Y",
		"units", "degrees_north",
		"long_name", "latitude",
		"standard_name", "latitude",
	)
	if err != nil {
		return err
	}
	if err := cw.AddVar("lat", api.Variable{
		Values:     f.Lat,
		Dimensions: []string{"lat"},
		Attributes: latAttrs,
	}); err != nil {
		return fmt.Errorf("lat: %w", err)
	}

	lonAttrs, err := attrList(
		"axis", "X",
		"units", "degrees_east",
		"long_name", "longitude",
		"standard_name", "longitude",
	)
	if err != nil {
		return err
	}
	if err := cw.AddVar("lon", api.Variable{
		Values:     f.Lon,
		Dimensions: []string{"lon"},
		Attributes: lonAttrs,
	}); err != nil {
		return fmt.Errorf("lon: %w", err)
	}

	return addData(cw, f.Var)
}

func addTime(cw *cdf.CDFWriter, t *TimeAxis) error {
	timeAttrs, err := attrList(
		"axis", "T",
		"units", t.Units,
		"long_name", "time",
		"standard_name", "time",
		"calendar", "gregorian",
	)
	if err != nil {
		return err
	}
	if err := cw.AddVar("time", api.Variable{
		Values:     t.Values,
		Dimensions: []string{"time"},
		Attributes: timeAttrs,
	}); err != nil {
		return fmt.Errorf("time: %w", err)
	}
	if err := cw.AddVar("time_vectors", api.Variable{
		Values:     t.Vectors,
		Dimensions: []string{"time", "timecomp"},
	}); err != nil {
		return fmt.Errorf("time_vectors: %w", err)
	}
	return nil
}

func addLevel(cw *cdf.CDFWriter, l *Level) error {
	pairs := []any{
		"axis", "Z",
		"units", l.Units,
		"positive", l.Positive,
		"long_name", l.LongName,
		"standard_name", l.StandardName,
	}
	if l.Bounds != nil {
		pairs = append(pairs, "bounds", "level_bnds")
	}
	levelAttrs, err := attrList(pairs...)
	if err != nil {
		return err
	}
	if err := cw.AddVar("level", api.Variable{
		Values:     l.Value,
		Dimensions: nil,
		Attributes: levelAttrs,
	}); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	if l.Bounds != nil {
		if err := cw.AddVar("level_bnds", api.Variable{
			Values:     l.Bounds,
			Dimensions: []string{"nv"},
		}); err != nil {
			return fmt.Errorf("level_bnds: %w", err)
		}
	}
	return nil
}

func addData(cw *cdf.CDFWriter, v Var) error {
	dataAttrs, err := attrList(
		"_FillValue", FillValue,
		"units", v.Units,
		"long_name", v.LongName,
		"standard_name", v.StandardName,
		"statistic", v.Statistic,
	)
	if err != nil {
		return err
	}
	variable := api.Variable{Attributes: dataAttrs}
	if v.Frames != nil {
		variable.Values = v.Frames
		variable.Dimensions = []string{"time", "lat", "lon"}
	} else {
		variable.Values = v.Plane
		variable.Dimensions = []string{"lat", "lon"}
	}
	if err := cw.AddVar(v.Name, variable); err != nil {
		return fmt.Errorf("%s: %w", v.Name, err)
	}
	return nil
}

// attrList builds an ordered attribute map from key/value pairs, dropping
// pairs whose value is an empty string.
func attrList(pairs ...any) (api.AttributeMap, error) {
	keys := make([]string, 0, len(pairs)/2)
	values := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("attribute key %v is not a string", pairs[i])
		}
		if s, isStr := pairs[i+1].(string); isStr && s == "" {
			continue
		}
		keys = append(keys, key)
		values[key] = pairs[i+1]
	}
	return util.NewOrderedMap(keys, values)
}
