// Copyright Climdyn Research, 2026. All rights reserved.

// Package gribtest encodes small GRIB2 messages for tests. Each message
// carries an identification section, a regular latitude-longitude grid
// (template 3.0), a product definition (template 4.0, or 4.8 when the
// record spans a statistical interval), 8-bit simple packing (template 5.0),
// no bitmap, and one byte of data per grid point.
package gribtest

import (
	"bytes"
	"encoding/binary"
	"time"
)

// Message describes one GRIB2 message to encode. Zero grid fields default
// to a 4x3 north-to-south grid from 60N to 60S and 0E to 270E, matching the
// orientation of the archive files.
type Message struct {
	Discipline uint8
	Category   uint8
	Number     uint8

	RefTime time.Time
	// ForecastHour is the forecast time in hours. For statistical records
	// it is the start of the interval.
	ForecastHour uint32
	// IntervalEnd selects product definition template 4.8 when set and
	// marks the end of the statistical interval.
	IntervalEnd time.Time
	// StatProcess is the code table 4.10 statistical process (0 average,
	// 1 accumulation, 2 maximum, 3 minimum).
	StatProcess uint8

	SurfaceType  uint8 // defaults to 1 (ground surface)
	SurfaceScale uint8
	SurfaceValue uint32
	LayerType    uint8 // 0 leaves the second surface missing
	LayerScale   uint8
	LayerValue   uint32

	Ni, Nj             int
	La1, Lo1, La2, Lo2 int32 // micro-degrees

	// Values holds one byte per grid point, row-major from the first
	// latitude. Packing is 8-bit with unit scale, so each byte decodes to
	// its own value. Nil defaults to 0..Ni*Nj-1.
	Values []uint8
}

// Encode renders the messages as one GRIB2 byte stream.
func Encode(msgs ...Message) []byte {
	var out bytes.Buffer
	for _, m := range msgs {
		out.Write(encodeMessage(m.withDefaults()))
	}
	return out.Bytes()
}

func (m Message) withDefaults() Message {
	if m.Ni == 0 {
		m.Ni, m.Nj = 4, 3
		m.La1, m.Lo1 = 60_000_000, 0
		m.La2, m.Lo2 = -60_000_000, 270_000_000
	}
	if m.SurfaceType == 0 {
		m.SurfaceType = 1
	}
	if m.Values == nil {
		m.Values = make([]uint8, m.Ni*m.Nj)
		for i := range m.Values {
			m.Values[i] = uint8(i)
		}
	}
	return m
}

func encodeMessage(m Message) []byte {
	var body bytes.Buffer
	body.Write(section(1, identification(m)))
	body.Write(section(3, gridDefinition(m)))
	body.Write(section(4, productDefinition(m)))
	body.Write(section(5, dataRepresentation(m)))
	body.Write(section(6, []byte{255})) // no bitmap
	body.Write(section(7, m.Values))
	body.WriteString("7777")

	var msg bytes.Buffer
	msg.WriteString("GRIB")
	be(&msg, uint16(0)) // reserved
	msg.WriteByte(m.Discipline)
	msg.WriteByte(2) // edition
	be(&msg, uint64(16+body.Len()))
	msg.Write(body.Bytes())
	return msg.Bytes()
}

func section(number uint8, content []byte) []byte {
	var b bytes.Buffer
	be(&b, uint32(5+len(content)))
	b.WriteByte(number)
	b.Write(content)
	return b.Bytes()
}

func identification(m Message) []byte {
	var b bytes.Buffer
	be(&b, uint16(7)) // NCEP
	be(&b, uint16(0))
	b.WriteByte(2) // master tables version
	b.WriteByte(1)
	b.WriteByte(1) // reference time is start of forecast
	writeTime(&b, m.RefTime)
	b.WriteByte(0)
	b.WriteByte(1) // forecast products
	return b.Bytes()
}

func gridDefinition(m Message) []byte {
	var b bytes.Buffer
	b.WriteByte(0) // grid defined by template
	be(&b, uint32(m.Ni*m.Nj))
	b.WriteByte(0)
	b.WriteByte(0)
	be(&b, uint16(0)) // template 3.0

	b.WriteByte(6) // spherical earth
	for i := 0; i < 3; i++ { // radius and axes unused
		b.WriteByte(0)
		be(&b, uint32(0))
	}
	be(&b, uint32(m.Ni))
	be(&b, uint32(m.Nj))
	be(&b, uint32(0)) // basic angle
	be(&b, uint32(0))
	be(&b, signMagnitude(m.La1))
	be(&b, signMagnitude(m.Lo1))
	b.WriteByte(48)
	be(&b, signMagnitude(m.La2))
	be(&b, signMagnitude(m.Lo2))
	be(&b, increment(m.Lo1, m.Lo2, m.Ni))
	be(&b, increment(m.La1, m.La2, m.Nj))
	b.WriteByte(0) // scan rows north to south
	return b.Bytes()
}

func productDefinition(m Message) []byte {
	statistical := !m.IntervalEnd.IsZero()

	var b bytes.Buffer
	be(&b, uint16(0)) // no coordinate values
	if statistical {
		be(&b, uint16(8))
	} else {
		be(&b, uint16(0))
	}
	b.WriteByte(m.Category)
	b.WriteByte(m.Number)
	b.WriteByte(2) // forecast process
	b.WriteByte(0)
	b.WriteByte(0)
	be(&b, uint16(0)) // cutoff hours
	b.WriteByte(0)    // cutoff minutes
	b.WriteByte(1)    // time unit: hour
	be(&b, m.ForecastHour)
	b.WriteByte(m.SurfaceType)
	b.WriteByte(m.SurfaceScale)
	be(&b, m.SurfaceValue)
	if m.LayerType == 0 {
		b.WriteByte(255)
		b.WriteByte(0)
		be(&b, uint32(0))
	} else {
		b.WriteByte(m.LayerType)
		b.WriteByte(m.LayerScale)
		be(&b, m.LayerValue)
	}
	if !statistical {
		return b.Bytes()
	}

	writeTime(&b, m.IntervalEnd)
	b.WriteByte(1)       // one time range
	be(&b, uint32(0))    // no missing values
	b.WriteByte(m.StatProcess)
	b.WriteByte(2) // increment advances forecast time
	b.WriteByte(1) // range unit: hour
	hours := uint32(m.IntervalEnd.Sub(m.RefTime).Hours()) - m.ForecastHour
	be(&b, hours)
	b.WriteByte(1) // increment unit: hour
	be(&b, uint32(1))
	return b.Bytes()
}

func dataRepresentation(m Message) []byte {
	var b bytes.Buffer
	be(&b, uint32(len(m.Values)))
	be(&b, uint16(0))  // simple packing
	be(&b, float32(0)) // reference value
	be(&b, uint16(0))  // binary scale
	be(&b, uint16(0))  // decimal scale
	b.WriteByte(8)     // bits per value
	b.WriteByte(1)     // integer field
	return b.Bytes()
}

func writeTime(b *bytes.Buffer, t time.Time) {
	be(b, uint16(t.Year()))
	b.WriteByte(uint8(t.Month()))
	b.WriteByte(uint8(t.Day()))
	b.WriteByte(uint8(t.Hour()))
	b.WriteByte(uint8(t.Minute()))
	b.WriteByte(uint8(t.Second()))
}

// signMagnitude encodes a latitude or longitude the GRIB2 way: negative
// values carry the magnitude with the high bit set.
func signMagnitude(v int32) uint32 {
	if v < 0 {
		return uint32(-v) | 0x80000000
	}
	return uint32(v)
}

func increment(first, last int32, n int) uint32 {
	if n < 2 {
		return 0
	}
	d := (int64(last) - int64(first)) / int64(n-1)
	if d < 0 {
		d = -d
	}
	return uint32(d)
}

func be(b *bytes.Buffer, v any) {
	binary.Write(b, binary.BigEndian, v)
}
