// Copyright Climdyn Research, 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/climdyn/cfsnc/internal/convert"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Subsample converted hourly files",
	Long: `Sample reads converted hourly NetCDF files and writes copies holding
every n-th timestep. The defaults (start 5, step 6) produce the 6-hourly
product published alongside the hourly one; the cumulative minimum and
maximum variables (tasmin, tasmax) are the usual candidates. All
attributes are carried over and the history records the sampling.`,
	RunE: runSample,
}

func runSample(cmd *cobra.Command, args []string) error {
	varsFlag, _ := cmd.Flags().GetString("vars")
	inDir, _ := cmd.Flags().GetString("input")
	outDir, _ := cmd.Flags().GetString("output")

	opts := convert.DefaultSampleOptions()
	if cmd.Flags().Changed("start") {
		opts.Offset, _ = cmd.Flags().GetInt("start")
	}
	if cmd.Flags().Changed("step") {
		opts.Stride, _ = cmd.Flags().GetInt("step")
	}

	var names []string
	for _, name := range strings.Split(varsFlag, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no variables named: pass --vars tasmin,tasmax")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	result, err := convert.SampleDir(inDir, outDir, names, opts, os.Stdout)
	if err != nil {
		return err
	}
	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed sampling", result.Failed)
	}
	return nil
}

func init() {
	sampleCmd.Flags().String("vars", "", "comma-separated variables to sample, e.g. tasmin,tasmax (required)")
	sampleCmd.Flags().String("input", ".", "directory holding converted hourly files")
	sampleCmd.Flags().String("output", ".", "directory for sampled files")
	sampleCmd.Flags().Int("start", 5, "index of the first kept timestep")
	sampleCmd.Flags().Int("step", 6, "spacing between kept timesteps in hours")
	sampleCmd.MarkFlagRequired("vars")

	rootCmd.AddCommand(sampleCmd)
}
