// Copyright Climdyn Research, 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/climdyn/cfsnc/internal/ncio"
)

// SampleOptions select which timesteps of an hourly file survive the
// subsampling. Offset is the index of the first kept step and Stride the
// spacing; the defaults keep hours 05, 11, 17, 23 of a 00-based hourly file.
type SampleOptions struct {
	Offset int
	Stride int
}

// DefaultSampleOptions matches the 6-hourly products published alongside
// the hourly ones.
func DefaultSampleOptions() SampleOptions {
	return SampleOptions{Offset: 5, Stride: 6}
}

// Sample reads a converted hourly file and writes a subsampled copy holding
// every Stride-th timestep starting from Offset. It returns the number of
// timesteps written.
func Sample(inPath, outPath, varName string, opts SampleOptions) (int, error) {
	if opts.Stride < 1 {
		return 0, fmt.Errorf("sample stride must be positive, got %d", opts.Stride)
	}
	if opts.Offset < 0 {
		return 0, fmt.Errorf("sample offset must not be negative, got %d", opts.Offset)
	}

	r, err := ncio.Open(inPath)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	lat, err := r.Floats("lat")
	if err != nil {
		return 0, err
	}
	lon, err := r.Floats("lon")
	if err != nil {
		return 0, err
	}
	times, err := r.Ints("time")
	if err != nil {
		return 0, err
	}
	vectors, err := r.Shorts2D("time_vectors")
	if err != nil {
		return 0, err
	}
	frames, err := r.Frames(varName)
	if err != nil {
		return 0, err
	}
	if len(frames) != len(times) || len(vectors) != len(times) {
		return 0, fmt.Errorf("%s: time axis and data disagree (%d times, %d vectors, %d frames)",
			inPath, len(times), len(vectors), len(frames))
	}
	if opts.Offset >= len(times) {
		return 0, fmt.Errorf("%s: sample offset %d beyond %d timesteps", inPath, opts.Offset, len(times))
	}

	var sTimes []int32
	var sVectors [][]int16
	var sFrames [][][]float32
	for i := opts.Offset; i < len(times); i += opts.Stride {
		sTimes = append(sTimes, times[i])
		sVectors = append(sVectors, vectors[i])
		sFrames = append(sFrames, frames[i])
	}

	global := ncio.GlobalAttrs{
		Conventions:    r.GlobalString("Conventions"),
		Title:          r.GlobalString("title"),
		Institution:    r.GlobalString("institution"),
		Source:         r.GlobalString("source"),
		References:     r.GlobalString("references"),
		Comment:        r.GlobalString("comment"),
		Redistribution: r.GlobalString("redistribution"),
		Warnings:       r.GlobalString("warnings"),
		History: fmt.Sprintf("%s\n%s: Sampled every %d hours",
			r.GlobalString("history"), time.Now().Format("2006-01-02T15:04:05"), opts.Stride),
	}

	file := ncio.File{
		Global: global,
		Lat:    lat,
		Lon:    lon,
		Time: &ncio.TimeAxis{
			Units:   r.AttrString("time", "units"),
			Values:  sTimes,
			Vectors: sVectors,
		},
		Var: ncio.Var{
			Name:         varName,
			LongName:     r.AttrString(varName, "long_name"),
			StandardName: r.AttrString(varName, "standard_name"),
			Units:        r.AttrString(varName, "units"),
			Statistic:    r.AttrString(varName, "statistic"),
			Frames:       sFrames,
		},
	}

	if r.HasVariable("level") {
		value, err := r.FloatScalar("level")
		if err != nil {
			return 0, err
		}
		level := &ncio.Level{
			LongName:     r.AttrString("level", "long_name"),
			StandardName: r.AttrString("level", "standard_name"),
			Units:        r.AttrString("level", "units"),
			Positive:     r.AttrString("level", "positive"),
			Value:        value,
		}
		if r.HasVariable("level_bnds") {
			bounds, err := r.Floats("level_bnds")
			if err != nil {
				return 0, err
			}
			level.Bounds = bounds
		}
		file.Level = level
	}

	if err := ncio.Write(outPath, file); err != nil {
		return 0, err
	}
	return len(sTimes), nil
}

// SampleDir samples every converted hourly file of the named variables found
// in inputDir. Output files land in outputDir with the _1hr_ name component
// replaced by the sampling interval (e.g. tasmin_6hr_...). Existing outputs
// are skipped, failures are reported per file, and the run ends with the
// usual batch summary.
func SampleDir(inputDir, outputDir string, vars []string, opts SampleOptions, w io.Writer) (BatchResult, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return BatchResult{}, fmt.Errorf("reading input directory: %w", err)
	}

	var result BatchResult
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".nc") {
			continue
		}
		for _, name := range vars {
			prefix := name + "_1hr_"
			if !strings.HasPrefix(entry.Name(), prefix) {
				continue
			}
			in := filepath.Join(inputDir, entry.Name())
			outName := strings.Replace(entry.Name(), "_1hr_", fmt.Sprintf("_%dhr_", opts.Stride), 1)
			out := filepath.Join(outputDir, outName)

			if _, err := os.Stat(out); err == nil {
				result.Skipped++
				fmt.Fprintf(w, "skipped: %s (already exists)\n", out)
				continue
			}
			kept, err := Sample(in, out, name, opts)
			if err != nil {
				result.Failed++
				fmt.Fprintf(w, "failed: %s (%v)\n", in, err)
				continue
			}
			result.Converted++
			fmt.Fprintf(w, "sampled: %s (%d timesteps)\n", out, kept)
		}
	}

	fmt.Fprintf(w, "\nBatch summary: %d sampled, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result, nil
}
