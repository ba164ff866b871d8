// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/ssget/internal/client"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent downloads",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum entries to show")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := downloadConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	cfg.TrackHistory = true
	limit, _ := cmd.Flags().GetInt("limit")

	d := client.New(cfg, os.Stderr)
	defer d.Close()

	entries, err := d.History(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No downloads recorded.")
		return nil
	}

	fmt.Printf("%-16s  %-28s  %-6s  %10s  %s\n", "When", "Matrix", "Format", "Size", "Path")
	for _, e := range entries {
		fmt.Printf("%-16s  %-28s  %-6s  %10s  %s\n",
			humanize.Time(e.DownloadedAt), e.Group+"/"+e.Name, e.Format,
			humanize.Bytes(uint64(e.Size)), e.Path)
	}
	return nil
}
