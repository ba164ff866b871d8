// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/ssget/internal/client"
)

var cleanCacheCmd = &cobra.Command{
	Use:   "clean-cache",
	Short: "Remove the cached index and download history",
	Long: `Clean-cache deletes the cached collection index and the download history
database. The next index query fetches a fresh copy from the server.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := downloadConfigFromFlags(cmd)
		if err != nil {
			return err
		}

		d := client.New(cfg, os.Stderr)
		defer d.Close()

		reclaimed, err := d.CleanCache()
		if err != nil {
			return err
		}
		fmt.Printf("Cleaned cache, reclaimed %s\n", humanize.Bytes(uint64(reclaimed)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCacheCmd)
}
