// Copyright Climdyn Research, 2026. All rights reserved.

package grib

import "fmt"

// surfaceNames maps the code table 4.5 entries that occur in CFSR output.
var surfaceNames = map[uint8]string{
	1:   "surface",
	101: "meanSea",
	103: "heightAboveGround",
	106: "depthBelowLand",
	160: "depthBelowSea",
}

// SurfaceName returns the code table 4.5 name for a level type, or its
// numeric form when unknown.
func SurfaceName(t uint8) string {
	if n, ok := surfaceNames[t]; ok {
		return n
	}
	return fmt.Sprintf("level%d", t)
}

// InventoryLine formats one record the way wgrib2 prints inventories:
// sequence number, reference date, parameter identity, level, forecast hour
// and kind. Users read these lines to fill in a conversion job file.
func (r Record) InventoryLine(n int) string {
	kind := "instant"
	if r.Statistical {
		kind = "statistical"
	}
	level := SurfaceName(r.Surface.Type)
	if r.Surface.Value != 0 {
		level = fmt.Sprintf("%s=%g", level, r.Surface.Value)
	}
	if r.Layer != nil {
		level = fmt.Sprintf("%s-%g", level, r.Layer.Value)
	}
	return fmt.Sprintf("%d:d=%s:param=%s:%s:fh=%d:%s:grid=%dx%d",
		n, r.RefTime.Format("2006010215"), r.Param, level,
		r.ForecastHour, kind, r.Grid.Nj, r.Grid.Ni)
}
