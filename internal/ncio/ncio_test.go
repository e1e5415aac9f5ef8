// Copyright Climdyn Research, 2026. All rights reserved.

package ncio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFile() File {
	return File{
		Global: GlobalAttrs{
			Conventions: "CF-1.5",
			Title:       "Climate System Forecast Reanalysis",
			Institution: "NCEP",
			Source:      "Reanalysis",
		},
		Lat: []float32{-60, 0, 60},
		Lon: []float32{0, 90, 180, 270},
		Time: &TimeAxis{
			Units:  "hours since 1979-01-01 00:00:00",
			Values: []int32{0, 1},
			Vectors: [][]int16{
				{1979, 1, 1, 0, 0, 0},
				{1979, 1, 1, 1, 0, 0},
			},
		},
		Var: Var{
			Name:         "ps",
			LongName:     "Surface pressure",
			StandardName: "surface_air_pressure",
			Units:        "Pa",
			Statistic:    "instant",
			Frames: [][][]float32{
				{
					{1, 2, 3, 4},
					{5, 6, 7, 8},
					{9, 10, 11, 12},
				},
				{
					{12, 11, 10, 9},
					{8, 7, 6, 5},
					{4, 3, 2, 1},
				},
			},
		},
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ps_test.nc")
	f := testFile()
	require.NoError(t, Write(path, f))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	lat, err := r.Floats("lat")
	require.NoError(t, err)
	assert.Equal(t, f.Lat, lat)
	assert.IsIncreasing(t, lat)

	lon, err := r.Floats("lon")
	require.NoError(t, err)
	assert.Equal(t, f.Lon, lon)

	times, err := r.Ints("time")
	require.NoError(t, err)
	assert.Equal(t, f.Time.Values, times)

	vectors, err := r.Shorts2D("time_vectors")
	require.NoError(t, err)
	assert.Equal(t, f.Time.Vectors, vectors)

	frames, err := r.Frames("ps")
	require.NoError(t, err)
	assert.Equal(t, f.Var.Frames, frames)
}

func TestWrite_Attributes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ps_test.nc")
	require.NoError(t, Write(path, testFile()))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "CF-1.5", r.GlobalString("Conventions"))
	assert.Equal(t, "NCEP", r.GlobalString("institution"))
	// Empty fields are not written at all.
	_, present := r.GlobalAttr("warnings")
	assert.False(t, present)

	assert.Equal(t, "Pa", r.AttrString("ps", "units"))
	assert.Equal(t, "Surface pressure", r.AttrString("ps", "long_name"))
	assert.Equal(t, "surface_air_pressure", r.AttrString("ps", "standard_name"))
	assert.Equal(t, "instant", r.AttrString("ps", "statistic"))
	assert.Equal(t, "degrees_north", r.AttrString("lat", "units"))
	assert.Equal(t, "T", r.AttrString("time", "axis"))
	assert.Equal(t, "gregorian", r.AttrString("time", "calendar"))

	fill, ok := r.Attr("ps", "_FillValue")
	require.True(t, ok)
	assert.Equal(t, FillValue, fill)
}

func TestWrite_FixedFieldWithLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tas_fixed.nc")
	f := File{
		Global: GlobalAttrs{Conventions: "CF-1.5"},
		Lat:    []float32{-30, 30},
		Lon:    []float32{0, 180},
		Level: &Level{
			LongName:     "heightAboveGround",
			StandardName: "height",
			Units:        "m",
			Positive:     "up",
			Value:        2,
		},
		Var: Var{
			Name:  "tas",
			Units: "K",
			Plane: [][]float32{{280, 281}, {282, 283}},
		},
	}
	require.NoError(t, Write(path, f))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	level, err := r.FloatScalar("level")
	require.NoError(t, err)
	assert.Equal(t, float32(2), level)
	assert.Equal(t, "up", r.AttrString("level", "positive"))
	assert.False(t, r.HasVariable("time"))
	assert.False(t, r.HasVariable("level_bnds"))

	plane, err := r.Plane("tas")
	require.NoError(t, err)
	assert.Equal(t, f.Var.Plane, plane)
}

func TestWrite_LevelBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mrso.nc")
	f := testFile()
	f.Level = &Level{
		LongName:     "depthBelowLand",
		StandardName: "depth",
		Units:        "m",
		Positive:     "down",
		Value:        0.25,
		Bounds:       []float32{0.1, 0.4},
	}
	require.NoError(t, Write(path, f))

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "level_bnds", r.AttrString("level", "bounds"))
	bounds, err := r.Floats("level_bnds")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.4}, bounds)
}

func TestWrite_RejectsDescendingLatitude(t *testing.T) {
	f := testFile()
	f.Lat = []float32{60, 0, -60}
	err := Write(filepath.Join(t.TempDir(), "bad.nc"), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude axis is descending")
}

func TestWrite_RejectsAmbiguousVariable(t *testing.T) {
	f := testFile()
	f.Var.Plane = [][]float32{{1}}
	err := Write(filepath.Join(t.TempDir(), "bad.nc"), f)
	require.Error(t, err)

	f = testFile()
	f.Var.Frames = nil
	err = Write(filepath.Join(t.TempDir(), "bad.nc"), f)
	require.Error(t, err)
}
