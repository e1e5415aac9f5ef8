// Copyright Climdyn Research, 2026. All rights reserved.

package cfsr

import "fmt"

// Resolution names the grid choice made when the files were obtained from
// the RDA portal. It determines both the input and output naming schemes.
type Resolution string

const (
	HighRes     Resolution = "highres"
	LowRes      Resolution = "lowres"
	PRMSLMidRes Resolution = "prmslmidres"
	OcnMidRes   Resolution = "ocnmidres"
	OcnLowRes   Resolution = "ocnlowres"
)

// ParseResolution validates a resolution string from a job file.
func ParseResolution(s string) (Resolution, error) {
	switch Resolution(s) {
	case HighRes, LowRes, PRMSLMidRes, OcnMidRes, OcnLowRes:
		return Resolution(s), nil
	}
	return "", fmt.Errorf("unknown resolution %q", s)
}

// lowResNaming reports whether the archive uses the *.l.gdas.* file scheme.
func (r Resolution) lowResNaming() bool {
	return r == LowRes || r == OcnLowRes
}

// GribFileName returns the monthly archive file name for a variable key.
// The CFSR stream switched from gdas to cdas1 after March 2011 (the CFSv2
// cutover); low-resolution grids keep the gdas scheme throughout.
func GribFileName(key string, year, month int, r Resolution) string {
	if r.lowResNaming() {
		return fmt.Sprintf("%s.l.gdas.%04d%02d.grb2", key, year, month)
	}
	if year > 2011 || (year == 2011 && month > 3) {
		return fmt.Sprintf("%s.cdas1.%04d%02d.grb2", key, year, month)
	}
	return fmt.Sprintf("%s.gdas.%04d%02d.grb2", key, year, month)
}

// NCFileName returns the output file name for a converted month.
func NCFileName(ncName string, year, month int, r Resolution) string {
	if r.lowResNaming() {
		return fmt.Sprintf("%s_1hr_cfsr_reanalysis_lowres_%04d%02d.nc", ncName, year, month)
	}
	return fmt.Sprintf("%s_1hr_cfsr_reanalysis_%04d%02d.nc", ncName, year, month)
}

// FixedNCFileName returns the output file name for a time-invariant field.
func FixedNCFileName(ncName string) string {
	return fmt.Sprintf("%s_fx_cfsr_reanalysis.nc", ncName)
}
