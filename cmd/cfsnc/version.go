// Copyright Climdyn Research, 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of cfsnc",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cfsnc %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
