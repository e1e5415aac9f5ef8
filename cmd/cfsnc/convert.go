// Copyright Climdyn Research, 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/climdyn/cfsnc/internal/catalog"
	"github.com/climdyn/cfsnc/internal/convert"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a batch of monthly GRIB2 files to NetCDF",
	Long: `Convert runs a batch job described by a YAML job file: for every variable,
year, and month it reads the monthly GRIB2 archive file and writes one
NetCDF file. Months whose input is missing are left out of the plan, and
outputs that already exist are skipped, so an interrupted batch can be
rerun with the same job file.

Conversions run in parallel on the job's worker count; each file is
independent. With --catalog, outcomes are recorded in a SQLite database
for later inspection with the status command.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	jobPath, _ := cmd.Flags().GetString("job")
	workers, _ := cmd.Flags().GetInt("workers")
	catalogPath, _ := cmd.Flags().GetString("catalog")
	if catalogPath == "" {
		catalogPath = viper.GetString("catalog")
	}
	verify, _ := cmd.Flags().GetBool("verify")

	job, err := convert.ReadJobFile(jobPath)
	if err != nil {
		return err
	}
	if workers > 0 {
		job.Workers = workers
	}

	tasks, err := convert.Plan(job)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "nothing to do: no input files found")
		return nil
	}
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	ctx := context.Background()
	result := convert.Run(ctx, job, tasks, os.Stdout)

	if catalogPath != "" {
		if err := recordBatch(ctx, catalogPath, result); err != nil {
			return err
		}
	}

	if verify {
		for _, res := range result.Results {
			if res.Err != nil || res.Skipped {
				continue
			}
			if err := convert.Verify(res.Task.NCPath, res.Task.Var.NCName); err != nil {
				return err
			}
		}
		fmt.Fprintf(os.Stdout, "verified %d output file(s)\n", result.Converted)
	}

	if result.HasFailures() {
		return fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return nil
}

// recordBatch writes the outcomes to the catalog after the pool has drained;
// the store is not shared between workers.
func recordBatch(ctx context.Context, path string, result convert.BatchResult) error {
	store, err := catalog.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, res := range result.Results {
		e := catalog.Entry{
			Output:   res.Task.NCPath,
			Source:   res.Task.GribPath,
			Variable: res.Task.Var.NCName,
			Records:  res.Records,
		}
		switch {
		case res.Skipped:
			e.Outcome = "skipped"
		case res.Err != nil:
			e.Outcome = "failed"
			e.Detail = res.Err.Error()
		default:
			e.Outcome = "converted"
		}
		if err := store.Record(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	convertCmd.Flags().String("job", "", "YAML job file describing the batch (required)")
	convertCmd.Flags().Int("workers", 0, "override the job's worker count")
	convertCmd.Flags().String("catalog", "", "record outcomes in a SQLite catalog at this path")
	convertCmd.Flags().Bool("verify", false, "reopen converted files and check their invariants")
	convertCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(convertCmd)
}
