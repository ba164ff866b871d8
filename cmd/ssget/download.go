// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/spf13/cobra"

	"github.com/pdiddy/ssget/internal/client"
	"github.com/pdiddy/ssget/internal/transfer"
	"github.com/pdiddy/ssget/pkg/types"
)

var downloadCmd = &cobra.Command{
	Use:     "download [group/name | name]",
	Aliases: []string{"get"},
	Short:   "Download a single matrix",
	Long: `Download fetches one matrix from the collection. The matrix can be named
as group/name (e.g. HB/1138_bus) or by bare name, in which case the group is
resolved through the index. Interrupted downloads resume where they left off,
and tar.gz formats are extracted after the checksum is verified.`,
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	addDownloadFlags(downloadCmd)
	downloadCmd.Flags().Bool("quiet", false, "suppress the progress bar")

	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := downloadConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	formatName, _ := cmd.Flags().GetString("format")
	format, err := types.ParseFormat(formatName)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	quiet, _ := cmd.Flags().GetBool("quiet")

	d := client.New(cfg, os.Stdout)
	defer d.Close()

	var progress transfer.ProgressFunc
	var finish func()
	if !quiet {
		progress, finish = newTransferBar()
	}

	path, err := d.DownloadByName(context.Background(), strings.TrimSpace(args[0]), format, output, progress)
	if finish != nil {
		finish()
	}
	if err != nil {
		return err
	}

	fmt.Printf("Downloaded %s\n", path)
	return nil
}

// newTransferBar returns a byte-granular progress callback backed by a
// terminal progress bar, plus a finish function to close it out. The bar is
// created lazily on the first callback so that cached downloads stay silent.
func newTransferBar() (transfer.ProgressFunc, func()) {
	var bar *pb.ProgressBar
	progress := func(completed, total int64) {
		if bar == nil {
			bar = pb.Full.Start64(total)
			bar.Set(pb.Bytes, true)
		}
		if total > 0 {
			bar.SetTotal(total)
		}
		bar.SetCurrent(completed)
	}
	finish := func() {
		if bar != nil {
			bar.Finish()
		}
	}
	return progress, finish
}
