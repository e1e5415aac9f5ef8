// Copyright Climdyn Research, 2026. All rights reserved.

package cfsr

import "fmt"

// Statistic describes how a CFSR record relates to its 6-hour forecast
// cycle. Averages and accumulations are running values from the cycle start,
// so recovering hourly fields needs the previous step.
type Statistic string

const (
	Instant      Statistic = "instant"
	Average      Statistic = "avg"
	Accumulation Statistic = "accum"
	Minimum      Statistic = "min"
	Maximum      Statistic = "max"
)

// ParseStatistic validates a statistic string from a job file.
func ParseStatistic(s string) (Statistic, error) {
	switch Statistic(s) {
	case Instant, Average, Accumulation, Minimum, Maximum:
		return Statistic(s), nil
	}
	return "", fmt.Errorf("unknown statistic %q", s)
}

const secondsPerHour = 3600.0

// DeriveHourly recovers the value for forecast hour x from the running
// statistic cur and the previous step's raw values prev.
//
// Averages are de-averaged as x*cur - (x-1)*prev; accumulations become
// per-second rates as (cur-prev)/3600. At hour 1 the running value covers a
// single hour and is used directly. Other statistics pass through: CFSR
// min/max fields are sampled post hoc rather than decoded here.
func (s Statistic) DeriveHourly(hour int, cur, prev []float64) ([]float64, error) {
	switch s {
	case Average, Accumulation:
	default:
		return cur, nil
	}
	if hour < 1 {
		return nil, fmt.Errorf("statistic %q at forecast hour %d", s, hour)
	}
	if hour > 1 && len(prev) != len(cur) {
		return nil, fmt.Errorf("statistic %q at hour %d without previous step", s, hour)
	}

	out := make([]float64, len(cur))
	switch s {
	case Average:
		if hour == 1 {
			copy(out, cur)
			return out, nil
		}
		x := float64(hour)
		for i := range cur {
			out[i] = x*cur[i] - (x-1)*prev[i]
		}
	case Accumulation:
		if hour == 1 {
			for i := range cur {
				out[i] = cur[i] / secondsPerHour
			}
			return out, nil
		}
		for i := range cur {
			out[i] = (cur[i] - prev[i]) / secondsPerHour
		}
	}
	return out, nil
}
