// Copyright Climdyn Research, 2026. All rights reserved.

// Package main is the entry point for the cfsnc CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the cfsnc CLI.
var rootCmd = &cobra.Command{
	Use:   "cfsnc",
	Short: "Convert CFSR/CFSv2 GRIB2 archives to CF NetCDF",
	Long: `cfsnc converts monthly CFSR and CFSv2 reanalysis archives from GRIB2 to
CF-1.5 NetCDF, one file per variable and month. It understands the archive
layouts of the rda and nomads servers, derives hourly values from the
running averages and accumulations the archive stores, and reorients grids
south-up.

Each operation is a subcommand: convert runs a batch job over whole years,
fixed extracts time-invariant fields, sample subsamples converted files,
and inspect lists the records of an archive file.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cfsnc.yaml or ~/.config/cfsnc/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cfsnc")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cfsnc"))
		}
	}

	viper.SetEnvPrefix("CFSNC")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
