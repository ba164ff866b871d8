// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ssget/internal/client"
)

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List all matrix groups in the collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := downloadConfigFromFlags(cmd)
		if err != nil {
			return err
		}

		d := client.New(cfg, os.Stderr)
		defer d.Close()

		groups, err := d.Index().Groups(context.Background())
		if err != nil {
			return err
		}
		for _, g := range groups {
			fmt.Println(g)
		}
		fmt.Fprintf(os.Stderr, "\n%d groups\n", len(groups))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(groupsCmd)
}
