// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ssget/internal/client"
	"github.com/pdiddy/ssget/internal/index"
	"github.com/pdiddy/ssget/pkg/types"
)

var infoCmd = &cobra.Command{
	Use:   "info [group/name | name]",
	Short: "Show the index record for one matrix",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().Bool("json", false, "output the record as JSON")

	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := downloadConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")

	d := client.New(cfg, os.Stderr)
	defer d.Close()

	ctx := context.Background()
	var rec types.MatrixRecord
	if group, name, ok := strings.Cut(args[0], "/"); ok {
		rec, err = d.Index().Find(ctx, group, name)
	} else {
		rec, err = d.Index().FindByName(ctx, args[0])
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return index.FormatJSON(os.Stdout, []types.MatrixRecord{rec})
	}
	index.FormatRecord(os.Stdout, rec)
	return nil
}
