// Copyright Climdyn Research, 2026. All rights reserved.

package grib

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/nilsmagnus/grib/griblib"
)

const (
	// gribIndicator is "GRIB" read as a big-endian uint32.
	gribIndicator = 0x47524942
	// endSection is "7777", the end-of-message marker.
	endSection = 0x37373737
	// indicatorLength is the fixed size of section 0.
	indicatorLength = 16
	// template8Prefix covers octets 1-46 of a product definition section
	// carrying template 4.8: the section header, the identity and surface
	// octets shared with template 4.0, and the end of the overall
	// statistical interval. Time-range specifications follow.
	template8Prefix = 46
)

// template8 holds the fields of product definition template 4.8 the
// conversion needs. griblib decodes only template 4.0, leaving the product
// definition zero-valued for statistical records, so these are parsed from
// the raw section octets instead.
type template8 struct {
	ParameterCategory uint8
	ParameterNumber   uint8
	TimeUnitIndicator uint8
	ForecastTime      uint32
	FirstSurface      griblib.Surface
	SecondSurface     griblib.Surface
	// IntervalEnd is the end of the overall time interval the statistic
	// spans. The record is valid at this instant.
	IntervalEnd time.Time
}

// parseTemplate8 decodes template 4.8 from a whole product definition
// section, header included, so octet numbers from the GRIB2 tables map to
// sec[octet-1].
func parseTemplate8(sec []byte) (template8, error) {
	if len(sec) < template8Prefix {
		return template8{}, fmt.Errorf("product definition section too short for template 4.8 (%d bytes)", len(sec))
	}
	if n := binary.BigEndian.Uint16(sec[7:9]); n != statisticalTemplate {
		return template8{}, fmt.Errorf("product definition template %d, want 4.8", n)
	}
	return template8{
		ParameterCategory: sec[9],
		ParameterNumber:   sec[10],
		TimeUnitIndicator: sec[17],
		ForecastTime:      binary.BigEndian.Uint32(sec[18:22]),
		FirstSurface: griblib.Surface{
			Type:  sec[22],
			Scale: sec[23],
			Value: binary.BigEndian.Uint32(sec[24:28]),
		},
		SecondSurface: griblib.Surface{
			Type:  sec[28],
			Scale: sec[29],
			Value: binary.BigEndian.Uint32(sec[30:34]),
		},
		IntervalEnd: time.Date(
			int(binary.BigEndian.Uint16(sec[34:36])),
			time.Month(sec[36]), int(sec[37]),
			int(sec[38]), int(sec[39]), int(sec[40]),
			0, time.UTC),
	}, nil
}

// sectionFours walks the raw GRIB2 stream and returns the product definition
// section of every message, header octets included, in file order.
func sectionFours(data []byte) ([][]byte, error) {
	var out [][]byte
	for len(data) > 0 {
		n := len(out) + 1
		if len(data) < indicatorLength {
			return nil, fmt.Errorf("message %d: truncated indicator section (%d bytes)", n, len(data))
		}
		if binary.BigEndian.Uint32(data[0:4]) != gribIndicator {
			return nil, fmt.Errorf("message %d: missing GRIB indicator", n)
		}
		msgLen := binary.BigEndian.Uint64(data[8:16])
		if msgLen < indicatorLength || msgLen > uint64(len(data)) {
			return nil, fmt.Errorf("message %d: length %d exceeds remaining %d bytes", n, msgLen, len(data))
		}
		msg := data[indicatorLength:msgLen]
		data = data[msgLen:]

		sec4, err := findSection4(msg)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", n, err)
		}
		out = append(out, sec4)
	}
	return out, nil
}

func findSection4(msg []byte) ([]byte, error) {
	for len(msg) >= 4 {
		if binary.BigEndian.Uint32(msg[0:4]) == endSection {
			break
		}
		if len(msg) < 5 {
			return nil, fmt.Errorf("truncated section header")
		}
		secLen := binary.BigEndian.Uint32(msg[0:4])
		if secLen < 5 || uint64(secLen) > uint64(len(msg)) {
			return nil, fmt.Errorf("section %d overruns message", msg[4])
		}
		if msg[4] == 4 {
			return msg[:secLen], nil
		}
		msg = msg[secLen:]
	}
	return nil, fmt.Errorf("no product definition section")
}
