// Copyright Climdyn Research, 2026. All rights reserved.

// Package cfsr carries the CFSR/CFSv2-specific knowledge: which GRIB2
// parameter each output variable comes from, how its records are spread
// over the 6-hour forecast cycles, and how the RDA archive names its files.
package cfsr

import (
	"fmt"
	"sort"

	"github.com/climdyn/cfsnc/internal/grib"
)

// VarDef describes one convertible variable. The GRIB units in CFSR files
// are frequently wrong or inconvenient, so Units always overrides them
// (accumulations are converted to rates, percentages to fractions).
type VarDef struct {
	// NCName is the CF short name used for the output variable and file names.
	NCName string
	// LongName labels the output variable; it matches the GRIB table name.
	LongName string
	// StandardName is the CF controlled-vocabulary identifier.
	StandardName string
	// Units is the output unit string.
	Units string
	// Param selects records in the input file.
	Param grib.Param
	// LevelType and LevelValue narrow the selection when the file carries
	// several levels of the same parameter. LevelType 0 matches any level.
	LevelType  uint8
	LevelValue float64
	// Statistic tells the engine how to decode the record time structure.
	Statistic Statistic
	// Scale multiplies output values (e.g. 0.01 for percent to fraction).
	// Zero means no scaling.
	Scale float64
}

// standardNames is the controlled-vocabulary table for level coordinates.
var levelStandardNames = map[uint8]string{
	103: "height",
	160: "depth",
	106: "depth",
}

// LevelStandardName returns the CF standard name for a level type.
func LevelStandardName(t uint8) string {
	return levelStandardNames[t]
}

// defaults maps CF short names to their CFSR definitions. Long names follow
// the NCEP GRIB2 parameter tables; standard names follow CF-1.5.
var defaults = map[string]VarDef{
	"ps": {
		NCName:       "ps",
		LongName:     "Surface pressure",
		StandardName: "surface_air_pressure",
		Units:        "Pa",
		Param:        grib.Param{Discipline: 0, Category: 3, Number: 0},
		LevelType:    1,
		Statistic:    Instant,
	},
	"psl": {
		NCName:       "psl",
		LongName:     "Pressure reduced to MSL",
		StandardName: "air_pressure_at_sea_level",
		Units:        "Pa",
		Param:        grib.Param{Discipline: 0, Category: 3, Number: 1},
		LevelType:    101,
		Statistic:    Instant,
	},
	"tas": {
		NCName:       "tas",
		LongName:     "Temperature",
		StandardName: "air_temperature",
		Units:        "K",
		Param:        grib.Param{Discipline: 0, Category: 0, Number: 0},
		LevelType:    103,
		LevelValue:   2,
		Statistic:    Instant,
	},
	"tasmax": {
		NCName:       "tasmax",
		LongName:     "Maximum temperature",
		StandardName: "air_temperature",
		Units:        "K",
		Param:        grib.Param{Discipline: 0, Category: 0, Number: 4},
		LevelType:    103,
		LevelValue:   2,
		Statistic:    Maximum,
	},
	"tasmin": {
		NCName:       "tasmin",
		LongName:     "Minimum temperature",
		StandardName: "air_temperature",
		Units:        "K",
		Param:        grib.Param{Discipline: 0, Category: 0, Number: 5},
		LevelType:    103,
		LevelValue:   2,
		Statistic:    Minimum,
	},
	"ts": {
		NCName:       "ts",
		LongName:     "Temperature",
		StandardName: "surface_temperature",
		Units:        "K",
		Param:        grib.Param{Discipline: 0, Category: 0, Number: 0},
		LevelType:    1,
		Statistic:    Instant,
	},
	"pr": {
		NCName:       "pr",
		LongName:     "Precipitation rate",
		StandardName: "precipitation_flux",
		Units:        "kg m-2 s-1",
		Param:        grib.Param{Discipline: 0, Category: 1, Number: 7},
		LevelType:    1,
		Statistic:    Average,
	},
	"mrro": {
		NCName:       "mrro",
		LongName:     "Water runoff",
		StandardName: "runoff_flux",
		Units:        "kg m-2 s-1",
		Param:        grib.Param{Discipline: 2, Category: 0, Number: 5},
		LevelType:    1,
		Statistic:    Accumulation,
	},
	"huss": {
		NCName:       "huss",
		LongName:     "Specific humidity",
		StandardName: "specific_humidity",
		Units:        "1",
		Param:        grib.Param{Discipline: 0, Category: 1, Number: 0},
		LevelType:    103,
		LevelValue:   2,
		Statistic:    Instant,
	},
	"hurs": {
		NCName:       "hurs",
		LongName:     "Relative humidity",
		StandardName: "relative_humidity",
		Units:        "%",
		Param:        grib.Param{Discipline: 0, Category: 1, Number: 1},
		LevelType:    103,
		LevelValue:   2,
		Statistic:    Instant,
	},
	"uas": {
		NCName:       "uas",
		LongName:     "10 metre U wind component",
		StandardName: "eastward_wind",
		Units:        "m s-1",
		Param:        grib.Param{Discipline: 0, Category: 2, Number: 2},
		LevelType:    103,
		LevelValue:   10,
		Statistic:    Instant,
	},
	"vas": {
		NCName:       "vas",
		LongName:     "10 metre V wind component",
		StandardName: "northward_wind",
		Units:        "m s-1",
		Param:        grib.Param{Discipline: 0, Category: 2, Number: 3},
		LevelType:    103,
		LevelValue:   10,
		Statistic:    Instant,
	},
	"rlds": {
		NCName:       "rlds",
		LongName:     "Downward long-wave radiation flux",
		StandardName: "surface_downwelling_longwave_flux_in_air",
		Units:        "W m-2",
		Param:        grib.Param{Discipline: 0, Category: 5, Number: 192},
		LevelType:    1,
		Statistic:    Average,
	},
	"rlus": {
		NCName:       "rlus",
		LongName:     "Upward long-wave radiation flux",
		StandardName: "surface_upwelling_longwave_flux_in_air",
		Units:        "W m-2",
		Param:        grib.Param{Discipline: 0, Category: 5, Number: 193},
		LevelType:    1,
		Statistic:    Average,
	},
	"rsds": {
		NCName:       "rsds",
		LongName:     "Downward short-wave radiation flux",
		StandardName: "surface_downwelling_shortwave_flux_in_air",
		Units:        "W m-2",
		Param:        grib.Param{Discipline: 0, Category: 4, Number: 192},
		LevelType:    1,
		Statistic:    Average,
	},
	"rsus": {
		NCName:       "rsus",
		LongName:     "Upward short-wave radiation flux",
		StandardName: "surface_upwelling_shortwave_flux_in_air",
		Units:        "W m-2",
		Param:        grib.Param{Discipline: 0, Category: 4, Number: 193},
		LevelType:    1,
		Statistic:    Average,
	},
	"hfls": {
		NCName:       "hfls",
		LongName:     "Latent heat net flux",
		StandardName: "surface_upward_latent_heat_flux",
		Units:        "W m-2",
		Param:        grib.Param{Discipline: 0, Category: 0, Number: 10},
		LevelType:    1,
		Statistic:    Average,
	},
	"snw": {
		NCName:       "snw",
		LongName:     "Water equivalent of accumulated snow depth",
		StandardName: "surface_snow_amount",
		Units:        "kg m-2",
		Param:        grib.Param{Discipline: 0, Category: 1, Number: 13},
		LevelType:    1,
		Statistic:    Instant,
	},
	"clt": {
		NCName:       "clt",
		LongName:     "Total cloud cover",
		StandardName: "cloud_area_fraction",
		Units:        "1",
		Param:        grib.Param{Discipline: 0, Category: 6, Number: 1},
		Statistic:    Average,
		Scale:        0.01,
	},
	"sic": {
		NCName:       "sic",
		LongName:     "Ice cover",
		StandardName: "sea_ice_area_fraction",
		Units:        "1",
		Param:        grib.Param{Discipline: 10, Category: 2, Number: 0},
		LevelType:    1,
		Statistic:    Instant,
	},
	"orog": {
		NCName:       "orog",
		LongName:     "Orography",
		StandardName: "surface_altitude",
		Units:        "m",
		Param:        grib.Param{Discipline: 0, Category: 3, Number: 5},
		LevelType:    1,
		Statistic:    Instant,
	},
	"sftlf": {
		NCName:       "sftlf",
		LongName:     "Land-sea mask",
		StandardName: "land_area_fraction",
		Units:        "1",
		Param:        grib.Param{Discipline: 2, Category: 0, Number: 0},
		LevelType:    1,
		Statistic:    Instant,
	},
}

// Lookup returns the definition for a CF short name.
func Lookup(ncName string) (VarDef, error) {
	v, ok := defaults[ncName]
	if !ok {
		return VarDef{}, fmt.Errorf("unknown variable %q (known: %v)", ncName, Names())
	}
	return v, nil
}

// Names lists the known CF short names in sorted order.
func Names() []string {
	names := make([]string, 0, len(defaults))
	for k := range defaults {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Matches reports whether a record carries this variable: same parameter
// identity and, when the definition pins a level, the same level.
func (v VarDef) Matches(r grib.Record) bool {
	if r.Param != v.Param {
		return false
	}
	if v.LevelType == 0 {
		return true
	}
	return r.Surface.Type == v.LevelType && r.Surface.Value == v.LevelValue
}
