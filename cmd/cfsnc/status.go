// Copyright Climdyn Research, 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/climdyn/cfsnc/internal/catalog"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recorded conversion outcomes",
	Long: `Status reads a conversion catalog written by convert --catalog and
prints a summary of outcomes. With --failed it lists the failed files and
their errors, which is what a rerun needs to look at first.`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	catalogPath, _ := cmd.Flags().GetString("catalog")
	if !cmd.Flags().Changed("catalog") && viper.GetString("catalog") != "" {
		catalogPath = viper.GetString("catalog")
	}
	failedOnly, _ := cmd.Flags().GetBool("failed")

	store, err := catalog.Open(catalogPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if failedOnly {
		entries, err := store.List(ctx)
		if err != nil {
			return err
		}
		n := 0
		for _, e := range entries {
			if e.Outcome != "failed" {
				continue
			}
			fmt.Fprintf(os.Stdout, "%s  %s  %s\n", e.CompletedAt.Format("2006-01-02 15:04"), e.Output, e.Detail)
			n++
		}
		fmt.Fprintf(os.Stdout, "%d failed file(s)\n", n)
		return nil
	}

	counts, err := store.Summary(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "converted: %d, skipped: %d, failed: %d\n",
		counts["converted"], counts["skipped"], counts["failed"])
	return nil
}

func init() {
	statusCmd.Flags().String("catalog", "cfsnc.db", "path to the conversion catalog")
	statusCmd.Flags().Bool("failed", false, "list failed files and their errors")

	rootCmd.AddCommand(statusCmd)
}
