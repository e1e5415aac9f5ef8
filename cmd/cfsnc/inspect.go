// Copyright Climdyn Research, 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/climdyn/cfsnc/internal/cfsr"
	"github.com/climdyn/cfsnc/internal/grib"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <archive.grb2>",
	Short: "List the records of a GRIB2 archive file",
	Long: `Inspect decodes a GRIB2 file and prints one inventory line per record,
in the style of wgrib2. Records matching a known variable are annotated
with its CF short name, which is what a job file would select.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	filter, _ := cmd.Flags().GetString("var")

	var def cfsr.VarDef
	if filter != "" {
		var err error
		def, err = cfsr.Lookup(filter)
		if err != nil {
			return err
		}
	}

	recs, err := grib.ReadFile(args[0])
	if err != nil {
		return err
	}

	shown := 0
	for i, r := range recs {
		if filter != "" && !def.Matches(r) {
			continue
		}
		line := r.InventoryLine(i + 1)
		if name := variableName(r); name != "" {
			line += ":" + name
		}
		fmt.Fprintln(os.Stdout, line)
		shown++
	}
	fmt.Fprintf(os.Stdout, "%d record(s)\n", shown)
	return nil
}

// variableName returns the CF short name of the first known variable the
// record matches, or the empty string.
func variableName(r grib.Record) string {
	for _, name := range cfsr.Names() {
		def, err := cfsr.Lookup(name)
		if err != nil {
			continue
		}
		if def.Matches(r) {
			return name
		}
	}
	return ""
}

func init() {
	inspectCmd.Flags().String("var", "", "only show records matching this variable")

	rootCmd.AddCommand(inspectCmd)
}
