// Copyright Climdyn Research, 2026. All rights reserved.

// Package grib decodes CFSR/CFSv2 GRIB2 archives into records with explicit
// grid orientation. It wraps github.com/nilsmagnus/grib behind a small model
// so the conversion engine never touches raw section structures.
package grib

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/nilsmagnus/grib/griblib"
)

// degreeUnit converts GRIB2 micro-degree grid coordinates to degrees.
const degreeUnit = 1e-6

// statisticalTemplate is product definition template 4.8 (average,
// accumulation or extreme over a time interval).
const statisticalTemplate = 8

// missingSurface is the GRIB2 code for an absent fixed surface.
const missingSurface = 255

// Param identifies a GRIB2 parameter by discipline, category and number.
type Param struct {
	Discipline uint8 `yaml:"discipline"`
	Category   uint8 `yaml:"category"`
	Number     uint8 `yaml:"number"`
}

func (p Param) String() string {
	return fmt.Sprintf("%d.%d.%d", p.Discipline, p.Category, p.Number)
}

// Surface is a decoded fixed surface: a level type from code table 4.5 and
// its unscaled value.
type Surface struct {
	Type  uint8
	Value float64
}

// Grid describes a regular latitude-longitude grid (grid definition
// template 3.0). Lat and Lon run in decoded order; CFSR grids are scanned
// north to south, so Lat normally descends.
type Grid struct {
	Ni  int
	Nj  int
	Lat []float64
	Lon []float64
}

// LatAscending reports whether the latitude axis runs south to north.
func (g Grid) LatAscending() bool {
	return len(g.Lat) >= 2 && g.Lat[0] < g.Lat[len(g.Lat)-1]
}

// Record is one decoded GRIB2 message.
type Record struct {
	Param        Param
	RefTime      time.Time
	ForecastHour int
	// Statistical marks records carrying a running average, accumulation
	// or extreme rather than an instantaneous field.
	Statistical bool
	Surface     Surface
	// Layer is the second fixed surface when the record describes a layer
	// (e.g. soil moisture between two depths), nil otherwise.
	Layer  *Surface
	Grid   Grid
	Values []float64
}

// ValidTime is the reference time advanced by the forecast hour.
func (r Record) ValidTime() time.Time {
	return r.RefTime.Add(time.Duration(r.ForecastHour) * time.Hour)
}

// ReadFile decodes every message in a GRIB2 file. The raw bytes are walked a
// second time to recover the product definition sections, since griblib
// decodes template 4.0 only and statistical records carry template 4.8.
func ReadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	msgs, err := griblib.ReadMessages(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	secs, err := sectionFours(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if len(secs) != len(msgs) {
		return nil, fmt.Errorf("%s: %d messages but %d product definition sections", path, len(msgs), len(secs))
	}

	recs := make([]Record, 0, len(msgs))
	for i, m := range msgs {
		r, err := FromMessage(m, secs[i])
		if err != nil {
			return nil, fmt.Errorf("%s: message %d: %w", path, i+1, err)
		}
		recs = append(recs, r)
	}
	return recs, nil
}

// FromMessage builds a Record from a decoded GRIB2 message. sec4 holds the
// message's raw product definition section and may be nil for template 4.0
// messages, where the decoded struct already carries everything needed.
func FromMessage(m *griblib.Message, sec4 []byte) (Record, error) {
	grid, err := gridFrom(&m.Section3)
	if err != nil {
		return Record{}, err
	}

	r := Record{
		RefTime: timeFrom(m.Section1.ReferenceTime),
		Grid:    grid,
		Values:  m.Section7.Data,
	}

	if m.Section4.ProductDefinitionTemplateNumber == statisticalTemplate {
		tpl, err := parseTemplate8(sec4)
		if err != nil {
			return Record{}, err
		}
		if !tpl.IntervalEnd.After(r.RefTime) {
			return Record{}, fmt.Errorf("statistical interval ends %s, not after reference time %s",
				tpl.IntervalEnd.Format(time.RFC3339), r.RefTime.Format(time.RFC3339))
		}
		r.Param = Param{
			Discipline: m.Section0.Discipline,
			Category:   tpl.ParameterCategory,
			Number:     tpl.ParameterNumber,
		}
		// The record is valid at the end of the statistical interval.
		r.ForecastHour = int(tpl.IntervalEnd.Sub(r.RefTime).Hours())
		r.Statistical = true
		r.Surface, r.Layer = decodeSurfaces(tpl.FirstSurface, tpl.SecondSurface)
		return r, nil
	}

	tpl := m.Section4.ProductDefinitionTemplate
	r.Param = Param{
		Discipline: m.Section0.Discipline,
		Category:   tpl.ParameterCategory,
		Number:     tpl.ParameterNumber,
	}
	r.ForecastHour = forecastHours(tpl.TimeUnitIndicator, tpl.ForecastTime)
	r.Surface, r.Layer = decodeSurfaces(tpl.FirstSurface, tpl.SecondSurface)
	return r, nil
}

func timeFrom(t griblib.Time) time.Time {
	return time.Date(int(t.Year), time.Month(t.Month), int(t.Day),
		int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC)
}

// forecastHours converts a forecast time to whole hours using the unit from
// code table 4.4. CFSR products use hours; minutes show up in some NCEP
// spinup records.
func forecastHours(unit uint8, value uint32) int {
	switch unit {
	case 0: // minute
		return int(value) / 60
	case 2: // day
		return int(value) * 24
	default: // hour
		return int(value)
	}
}

func decodeSurface(s griblib.Surface) Surface {
	return Surface{
		Type:  s.Type,
		Value: float64(s.Value) / math.Pow10(int(s.Scale)),
	}
}

func decodeSurfaces(first, second griblib.Surface) (Surface, *Surface) {
	var surface Surface
	if first.Type != missingSurface {
		surface = decodeSurface(first)
	}
	var layer *Surface
	if second.Type != missingSurface && second.Type != 0 {
		l := decodeSurface(second)
		layer = &l
	}
	return surface, layer
}

func gridFrom(s *griblib.Section3) (Grid, error) {
	g0, ok := s.Definition.(*griblib.Grid0)
	if !ok {
		return Grid{}, fmt.Errorf("unsupported grid definition template %d", s.TemplateNumber)
	}
	ni, nj := int(g0.Ni), int(g0.Nj)
	if ni < 2 || nj < 2 {
		return Grid{}, fmt.Errorf("degenerate grid %dx%d", nj, ni)
	}

	g := Grid{
		Ni:  ni,
		Nj:  nj,
		Lat: axis(float64(g0.La1)*degreeUnit, float64(g0.La2)*degreeUnit, nj),
		Lon: axis(float64(g0.Lo1)*degreeUnit, float64(g0.Lo2)*degreeUnit, ni),
	}
	return g, nil
}

// axis returns n evenly spaced coordinates from first to last inclusive,
// in the encoded direction.
func axis(first, last float64, n int) []float64 {
	step := (last - first) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = first + float64(i)*step
	}
	return out
}

// Field couples a grid with one two-dimensional slab of values in row-major
// Nj x Ni order.
type Field struct {
	Grid   Grid
	Values []float64
}

// SouthUp returns the field reoriented so latitude ascends from south,
// reversing row order and the latitude vector together when the decoded
// grid runs north to south. Output files have always been written south-up;
// keeping that orientation keeps continuity with previously generated files.
func (f Field) SouthUp() Field {
	if f.Grid.LatAscending() {
		return f
	}
	out := Field{
		Grid: Grid{
			Ni:  f.Grid.Ni,
			Nj:  f.Grid.Nj,
			Lat: make([]float64, len(f.Grid.Lat)),
			Lon: f.Grid.Lon,
		},
		Values: make([]float64, len(f.Values)),
	}
	for i, v := range f.Grid.Lat {
		out.Grid.Lat[len(f.Grid.Lat)-1-i] = v
	}
	ni := f.Grid.Ni
	for j := 0; j < f.Grid.Nj; j++ {
		src := f.Values[j*ni : (j+1)*ni]
		dst := out.Values[(f.Grid.Nj-1-j)*ni : (f.Grid.Nj-j)*ni]
		copy(dst, src)
	}
	return out
}
