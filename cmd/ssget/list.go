// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ssget/internal/client"
	"github.com/pdiddy/ssget/internal/index"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List matrices matching a filter",
	Long: `List prints index records matching the given filter flags. Without flags
it pages through the whole collection. Use --json for machine-readable
output and --limit to bound the table size.`,
	RunE: runList,
}

func init() {
	addFilterFlags(listCmd)
	listCmd.Flags().Int("limit", 20, "maximum rows to print (0 = all)")
	listCmd.Flags().Bool("json", false, "output results as JSON")
	listCmd.Flags().Bool("refresh", false, "refresh the index cache before listing")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := downloadConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	f, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	refresh, _ := cmd.Flags().GetBool("refresh")

	d := client.New(cfg, os.Stderr)
	defer d.Close()

	ctx := context.Background()
	if refresh {
		if _, err := d.Index().GetIndex(ctx, true); err != nil {
			return err
		}
	}

	records, total, err := d.ListMatrices(ctx, f, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		return index.FormatJSON(os.Stdout, records)
	}
	if total == 0 {
		fmt.Println("No matrices match the given filter.")
		return nil
	}
	index.FormatTable(os.Stdout, records, total)
	return nil
}
