// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/ssget/internal/filter"
	"github.com/pdiddy/ssget/pkg/types"
)

// addDownloadFlags registers the flags shared by download and bulk.
func addDownloadFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "mat", "file format: mat, mm, or rb")
	cmd.Flags().String("output", ".", "output directory")
	cmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	cmd.Flags().Bool("no-verify", false, "skip MD5 checksum verification")
	cmd.Flags().Bool("no-extract", false, "keep tar.gz archives unextracted")
	cmd.Flags().Bool("keep-archive", false, "keep the tar.gz after extraction")
	cmd.Flags().Bool("flat", false, "write files directly into the output directory, without group subdirectories")
	cmd.Flags().Bool("metadata", false, "write a YAML metadata sidecar next to each download")
	cmd.Flags().Bool("no-history", false, "do not record downloads in the local history")
}

// downloadConfigFromFlags builds a DownloadConfig from the command line,
// falling back to config-file and environment values through viper.
func downloadConfigFromFlags(cmd *cobra.Command) (types.DownloadConfig, error) {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	noVerify, _ := cmd.Flags().GetBool("no-verify")
	noExtract, _ := cmd.Flags().GetBool("no-extract")
	keepArchive, _ := cmd.Flags().GetBool("keep-archive")
	flat, _ := cmd.Flags().GetBool("flat")
	metadata, _ := cmd.Flags().GetBool("metadata")
	noHistory, _ := cmd.Flags().GetBool("no-history")

	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	if cacheDir == "" {
		cacheDir = viper.GetString("cache_dir")
	}

	workers := viper.GetInt("workers")
	if cmd.Flags().Lookup("workers") != nil {
		if w, _ := cmd.Flags().GetInt("workers"); w > 0 {
			workers = w
		}
	}

	cfg := types.DownloadConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: types.DefaultUserAgent,
		},
		CacheDir:        cacheDir,
		Workers:         workers,
		VerifyChecksums: !noVerify,
		ExtractArchives: !noExtract,
		KeepArchives:    keepArchive,
		FlatStructure:   flat,
		WriteMetadata:   metadata,
		TrackHistory:    !noHistory,
	}
	return cfg, nil
}

// addFilterFlags registers the matrix selection flags shared by list and bulk.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("size", "", "row and column count range, e.g. 1000:10000")
	cmd.Flags().String("rows", "", "row count range")
	cmd.Flags().String("cols", "", "column count range")
	cmd.Flags().String("nnz", "", "nonzero count range")
	cmd.Flags().Bool("spd", false, "only symmetric positive definite matrices")
	cmd.Flags().Bool("posdef", false, "only positive definite matrices")
	cmd.Flags().String("field", "", "field type: real, complex, binary")
	cmd.Flags().String("group", "", "group name substring")
	cmd.Flags().String("name", "", "matrix name substring")
	cmd.Flags().String("kind", "", "problem kind substring")
	cmd.Flags().String("structure", "", "structure: symmetric or unsymmetric")
}

// filterFromFlags builds a Filter from the selection flags. The size flag
// constrains rows and cols together.
func filterFromFlags(cmd *cobra.Command) (filter.Filter, error) {
	var f filter.Filter

	if s, _ := cmd.Flags().GetString("size"); s != "" {
		r, err := filter.ParseRange(s)
		if err != nil {
			return f, err
		}
		f.Rows = &r
		f.Cols = &r
	}
	for _, rf := range []struct {
		flag string
		dst  **filter.RangeBound
	}{
		{"rows", &f.Rows},
		{"cols", &f.Cols},
		{"nnz", &f.NNZ},
	} {
		s, _ := cmd.Flags().GetString(rf.flag)
		if s == "" {
			continue
		}
		r, err := filter.ParseRange(s)
		if err != nil {
			return f, err
		}
		*rf.dst = &r
	}

	if spd, _ := cmd.Flags().GetBool("spd"); spd {
		f.SPD = filter.Bool(true)
	}
	if posdef, _ := cmd.Flags().GetBool("posdef"); posdef {
		f.PosDef = filter.Bool(true)
	}

	f.Field, _ = cmd.Flags().GetString("field")
	f.Group, _ = cmd.Flags().GetString("group")
	f.Name, _ = cmd.Flags().GetString("name")
	f.Kind, _ = cmd.Flags().GetString("kind")
	f.Structure, _ = cmd.Flags().GetString("structure")

	return f, nil
}
