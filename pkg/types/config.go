// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Format identifies a matrix file format offered by the collection.
type Format string

const (
	// FormatMAT is the MATLAB binary format, served as a bare .mat file.
	FormatMAT Format = "mat"

	// FormatMM is Matrix Market, served as a gzipped tar archive.
	FormatMM Format = "mm"

	// FormatRB is Rutherford-Boeing, served as a gzipped tar archive.
	FormatRB Format = "rb"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatMAT, FormatMM, FormatRB:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported format %q (expected mat, mm, or rb)", s)
}

// Extension returns the on-disk file extension, including the dot.
func (f Format) Extension() string {
	if f.Archived() {
		return ".tar.gz"
	}
	return ".mat"
}

// Archived reports whether downloads in this format are tar.gz archives
// that need extraction to reach the matrix file.
func (f Format) Archived() bool {
	return f == FormatMM || f == FormatRB
}

// HTTPConfig holds shared HTTP settings used by operations that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Download limits. The worker ceiling protects the remote service and local
// file descriptors regardless of the requested worker count.
const (
	DefaultWorkers = 4
	MaxWorkers     = 8

	DefaultTimeout = 30 * time.Second

	// IndexTTL bounds the age of a usable index snapshot, in memory or on disk.
	IndexTTL = time.Hour

	// ChunkSize is the streaming read size for downloads.
	ChunkSize = 8192

	DefaultUserAgent = "ssget/0.1 (SuiteSparse downloader)"
)

// CacheDirEnv overrides the default cache directory when set.
const CacheDirEnv = "SSGET_CACHE_DIR"

// DownloadConfig holds the settings of a Downloader client.
type DownloadConfig struct {
	HTTPConfig `yaml:",inline"`

	// CacheDir is where downloads and the index cache live. Empty means the
	// current directory for downloads and the system cache dir for the index.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`

	// Workers bounds concurrent transfers during bulk downloads. Values above
	// MaxWorkers are clamped.
	Workers int `json:"workers" yaml:"workers"`

	// VerifyChecksums enables MD5 verification of downloaded files.
	VerifyChecksums bool `json:"verify_checksums" yaml:"verify_checksums"`

	// ExtractArchives controls whether tar.gz downloads are extracted.
	ExtractArchives bool `json:"extract_archives" yaml:"extract_archives"`

	// KeepArchives keeps the source tar.gz after successful extraction.
	KeepArchives bool `json:"keep_archives" yaml:"keep_archives"`

	// FlatStructure writes files directly into the output directory instead
	// of per-group subdirectories.
	FlatStructure bool `json:"flat_structure" yaml:"flat_structure"`

	// WriteMetadata writes a YAML metadata sidecar next to each download
	// whose index record is known.
	WriteMetadata bool `json:"write_metadata" yaml:"write_metadata"`

	// TrackHistory records successful downloads in the local ledger.
	TrackHistory bool `json:"track_history" yaml:"track_history"`
}

// DefaultCacheDir returns the index cache directory: the CacheDirEnv override
// if set, otherwise the system cache directory under "ssget".
func DefaultCacheDir() string {
	if dir := os.Getenv(CacheDirEnv); dir != "" {
		return dir
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "ssget")
	}
	return ".ssget-cache"
}
