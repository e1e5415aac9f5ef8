// Copyright Climdyn Research, 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/climdyn/cfsnc/internal/cfsr"
	"github.com/climdyn/cfsnc/internal/convert"
)

var fixedCmd = &cobra.Command{
	Use:   "fixed <archive.grb2>",
	Short: "Extract a time-invariant field (orography, land mask)",
	Long: `Fixed extracts a single time-invariant field from a GRIB2 file and writes
it as a two-dimensional NetCDF variable without a time axis. The archive
file must contain exactly one record of the requested variable; any
monthly file carries the fixed fields, so the first month of a campaign
is a convenient source.`,
	Args: cobra.ExactArgs(1),
	RunE: runFixed,
}

func runFixed(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("var")
	outDir, _ := cmd.Flags().GetString("output-dir")
	source, _ := cmd.Flags().GetString("source")
	units, _ := cmd.Flags().GetString("units")

	def, err := cfsr.Lookup(name)
	if err != nil {
		return err
	}
	if units != "" {
		def.Units = units
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	out := filepath.Join(outDir, cfsr.FixedNCFileName(def.NCName))
	if err := convert.ConvertFixed(args[0], out, def, source); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "converted: %s\n", out)
	return nil
}

func init() {
	fixedCmd.Flags().String("var", "", "variable to extract, e.g. orog or sftlf (required)")
	fixedCmd.Flags().String("output-dir", ".", "directory for the output file")
	fixedCmd.Flags().String("source", "rda", "archive server the input came from: rda or nomads")
	fixedCmd.Flags().String("units", "", "override the output units")
	fixedCmd.MarkFlagRequired("var")

	rootCmd.AddCommand(fixedCmd)
}
