// Copyright Climdyn Research, 2026. All rights reserved.

package cfsr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/climdyn/cfsnc/internal/grib"
)

func TestLookup(t *testing.T) {
	v, err := Lookup("ps")
	require.NoError(t, err)
	assert.Equal(t, "Surface pressure", v.LongName)
	assert.Equal(t, "surface_air_pressure", v.StandardName)
	assert.Equal(t, "Pa", v.Units)
	assert.Equal(t, Instant, v.Statistic)

	_, err = Lookup("nosuchvar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown variable")
}

func TestNames_SortedAndComplete(t *testing.T) {
	names := Names()
	require.NotEmpty(t, names)
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "tasmax")
	assert.Contains(t, names, "sftlf")
}

func TestMatches(t *testing.T) {
	tas, err := Lookup("tas")
	require.NoError(t, err)

	rec := grib.Record{
		Param:   grib.Param{Discipline: 0, Category: 0, Number: 0},
		Surface: grib.Surface{Type: 103, Value: 2},
	}
	assert.True(t, tas.Matches(rec))

	rec.Surface.Value = 10
	assert.False(t, tas.Matches(rec), "wrong level must not match")

	rec.Surface = grib.Surface{Type: 1}
	ts, err := Lookup("ts")
	require.NoError(t, err)
	assert.True(t, ts.Matches(rec), "same parameter at the surface is ts")
	assert.False(t, tas.Matches(rec))

	clt, err := Lookup("clt")
	require.NoError(t, err)
	rec.Param = clt.Param
	assert.True(t, clt.Matches(rec), "clt matches any level")
}

func TestDeriveHourly_Average(t *testing.T) {
	prev := []float64{10, 20} // running mean over hours 1-2
	cur := []float64{12, 21}  // running mean over hours 1-3

	out, err := Average.DeriveHourly(3, cur, prev)
	require.NoError(t, err)
	// 3*cur - 2*prev recovers hour 3 alone.
	assert.Equal(t, []float64{16, 23}, out)

	first, err := Average.DeriveHourly(1, []float64{5, 6}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 6}, first)
}

func TestDeriveHourly_Accumulation(t *testing.T) {
	prev := []float64{3600, 7200}
	cur := []float64{7200, 7200}

	out, err := Accumulation.DeriveHourly(2, cur, prev)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, out)

	first, err := Accumulation.DeriveHourly(1, []float64{3600}, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, first)
}

func TestDeriveHourly_PassThrough(t *testing.T) {
	cur := []float64{1, 2, 3}
	for _, s := range []Statistic{Instant, Minimum, Maximum} {
		out, err := s.DeriveHourly(4, cur, nil)
		require.NoError(t, err)
		assert.Equal(t, cur, out)
	}
}

func TestDeriveHourly_MissingPrevious(t *testing.T) {
	_, err := Average.DeriveHourly(3, []float64{1}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "without previous step")
}

func TestParseStatistic(t *testing.T) {
	s, err := ParseStatistic("accum")
	require.NoError(t, err)
	assert.Equal(t, Accumulation, s)

	_, err = ParseStatistic("median")
	assert.Error(t, err)
}

// instantRec builds an instantaneous surface-pressure record for one cycle.
func instantRec(cycle time.Time, fh int) grib.Record {
	return grib.Record{
		Param:        grib.Param{Discipline: 0, Category: 3, Number: 0},
		RefTime:      cycle,
		ForecastHour: fh,
		Surface:      grib.Surface{Type: 1},
	}
}

// statRec builds a precipitation-rate record averaged from the start of the
// cycle out to fh.
func statRec(cycle time.Time, fh int) grib.Record {
	return grib.Record{
		Param:        grib.Param{Discipline: 0, Category: 1, Number: 7},
		RefTime:      cycle,
		ForecastHour: fh,
		Statistical:  true,
		Surface:      grib.Surface{Type: 1},
	}
}

func TestFilterTimesteps_AnalysisDedupe(t *testing.T) {
	ps, err := Lookup("ps")
	require.NoError(t, err)

	c0 := time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)
	c1 := c0.Add(6 * time.Hour)
	// Cycle layout from the rda server: analysis, spinup duplicate, then
	// hourly forecasts 1..6.
	var recs []grib.Record
	for _, c := range []time.Time{c0, c1} {
		recs = append(recs, instantRec(c, 0), instantRec(c, 0))
		for fh := 1; fh <= 6; fh++ {
			recs = append(recs, instantRec(c, fh))
		}
	}

	steps, analysis := FilterTimesteps(recs, ps, true)
	require.True(t, analysis)
	// Per cycle: analysis plus hours 1-5, the 6-hour forecast dropped.
	require.Len(t, steps, 12)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, hours(steps[:6]))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, hours(steps[6:]))

	// Valid times are hourly and contiguous across the cycle boundary.
	for i := 1; i < len(steps); i++ {
		assert.Equal(t, time.Hour, steps[i].ValidTime().Sub(steps[i-1].ValidTime()))
	}
}

func TestFilterTimesteps_NoAnalysis(t *testing.T) {
	ps, err := Lookup("ps")
	require.NoError(t, err)

	c0 := time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)
	// The nomads layout: a single hour-0 spinup record, then forecasts 1..6.
	recs := []grib.Record{instantRec(c0, 0)}
	for fh := 1; fh <= 6; fh++ {
		recs = append(recs, instantRec(c0, fh))
	}

	steps, analysis := FilterTimesteps(recs, ps, true)
	assert.False(t, analysis)
	require.Len(t, steps, 6)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, hours(steps))
}

func TestFilterTimesteps_ExcludeAnalysis(t *testing.T) {
	ps, err := Lookup("ps")
	require.NoError(t, err)

	c0 := time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)
	recs := []grib.Record{instantRec(c0, 0), instantRec(c0, 0)}
	for fh := 1; fh <= 6; fh++ {
		recs = append(recs, instantRec(c0, fh))
	}

	steps, analysis := FilterTimesteps(recs, ps, false)
	assert.False(t, analysis)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, hours(steps))
}

func TestFilterTimesteps_StatisticalHours(t *testing.T) {
	pr, err := Lookup("pr")
	require.NoError(t, err)

	c0 := time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)
	c1 := c0.Add(6 * time.Hour)
	var recs []grib.Record
	for fh := 1; fh <= 6; fh++ {
		recs = append(recs, statRec(c0, fh))
	}
	for fh := 1; fh <= 6; fh++ {
		recs = append(recs, statRec(c1, fh))
	}

	steps, analysis := FilterTimesteps(recs, pr, true)
	assert.False(t, analysis)
	require.Len(t, steps, 12)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, hours(steps[:6]))
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, hours(steps[6:]))
	assert.Equal(t, c0.Add(time.Hour), steps[0].ValidTime())
	assert.Equal(t, c1.Add(6*time.Hour), steps[11].ValidTime())
}

func TestFilterTimesteps_IgnoresOtherVariables(t *testing.T) {
	ps, err := Lookup("ps")
	require.NoError(t, err)

	c0 := time.Date(2009, 1, 1, 0, 0, 0, 0, time.UTC)
	recs := []grib.Record{statRec(c0, 1), instantRec(c0, 1), statRec(c0, 2)}

	steps, _ := FilterTimesteps(recs, ps, true)
	require.Len(t, steps, 1)
	assert.Equal(t, 1, steps[0].Hour)
}

func hours(steps []Step) []int {
	out := make([]int, len(steps))
	for i, s := range steps {
		out[i] = s.Hour
	}
	return out
}

func TestGribFileName(t *testing.T) {
	tests := []struct {
		year, month int
		res         Resolution
		want        string
	}{
		{2009, 1, HighRes, "pressfc.gdas.200901.grb2"},
		{2011, 3, HighRes, "pressfc.gdas.201103.grb2"},
		{2011, 4, HighRes, "pressfc.cdas1.201104.grb2"},
		{2012, 1, PRMSLMidRes, "pressfc.cdas1.201201.grb2"},
		{2012, 1, LowRes, "pressfc.l.gdas.201201.grb2"},
		{1979, 12, OcnLowRes, "pressfc.l.gdas.197912.grb2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GribFileName("pressfc", tt.year, tt.month, tt.res))
	}
}

func TestNCFileName(t *testing.T) {
	assert.Equal(t, "ps_1hr_cfsr_reanalysis_200901.nc", NCFileName("ps", 2009, 1, HighRes))
	assert.Equal(t, "ps_1hr_cfsr_reanalysis_lowres_200901.nc", NCFileName("ps", 2009, 1, LowRes))
	assert.Equal(t, "orog_fx_cfsr_reanalysis.nc", FixedNCFileName("orog"))
}

func TestParseResolution(t *testing.T) {
	r, err := ParseResolution("ocnmidres")
	require.NoError(t, err)
	assert.Equal(t, OcnMidRes, r)

	_, err = ParseResolution("ultrares")
	assert.Error(t, err)
}
