// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ssget CLI, a downloader for the
// SuiteSparse Matrix Collection. Subcommands cover single and bulk downloads,
// index queries, and local cache maintenance.
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

// rootCmd is the base command for the ssget CLI.
var rootCmd = &cobra.Command{
	Use:   "ssget",
	Short: "Download matrices from the SuiteSparse Matrix Collection",
	Long: `ssget downloads sparse matrices from the SuiteSparse Matrix Collection
in MAT, Matrix Market, or Rutherford-Boeing format. The collection index is
cached locally; downloads resume after interruption and are verified against
the server's MD5 checksums.

Use download for a single matrix, bulk for everything matching a filter, and
list, groups, or info to explore the collection.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./ssget.yaml or ~/.config/ssget/config.yaml)")
	rootCmd.PersistentFlags().String("cache-dir", "", "index and ledger cache directory (default: system cache dir, or $SSGET_CACHE_DIR)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ssget")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ssget"))
		}
	}

	viper.SetEnvPrefix("SSGET")
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
