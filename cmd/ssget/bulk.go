// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/pdiddy/ssget/internal/client"
	"github.com/pdiddy/ssget/pkg/types"
)

var bulkCmd = &cobra.Command{
	Use:   "bulk",
	Short: "Download every matrix matching a filter",
	Long: `Bulk downloads all matrices matching the given filter flags, several at a
time. Individual failures are reported and skipped so one bad matrix does not
abort the batch. Use --max-files to cap how many matrices are fetched.`,
	RunE: runBulk,
}

func init() {
	addDownloadFlags(bulkCmd)
	addFilterFlags(bulkCmd)
	bulkCmd.Flags().Int("max-files", 0, "maximum number of matrices to download (0 = no limit)")
	bulkCmd.Flags().Int("workers", 0, "concurrent downloads (default 4, max 8)")
	bulkCmd.Flags().Bool("quiet", false, "suppress the progress bar")

	rootCmd.AddCommand(bulkCmd)
}

func runBulk(cmd *cobra.Command, args []string) error {
	cfg, err := downloadConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	formatName, _ := cmd.Flags().GetString("format")
	format, err := types.ParseFormat(formatName)
	if err != nil {
		return err
	}
	f, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	maxFiles, _ := cmd.Flags().GetInt("max-files")
	quiet, _ := cmd.Flags().GetBool("quiet")

	d := client.New(cfg, os.Stdout)
	defer d.Close()

	var bar *pb.ProgressBar
	var progress client.BulkProgressFunc
	if !quiet {
		progress = func(done, total int) {
			if bar == nil {
				bar = pb.StartNew(total)
			}
			bar.SetCurrent(int64(done))
		}
	}

	paths, err := d.BulkDownload(context.Background(), f, format, output, maxFiles, progress)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}

	fmt.Printf("Downloaded %d matrices to %s\n", len(paths), output)
	return nil
}
