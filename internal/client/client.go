// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package client ties the index, transfer, and ledger layers together behind
// a single downloader facade used by the CLI.
package client

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ssget/internal/filter"
	"github.com/pdiddy/ssget/internal/index"
	"github.com/pdiddy/ssget/internal/ledger"
	"github.com/pdiddy/ssget/internal/transfer"
	"github.com/pdiddy/ssget/pkg/types"
)

// lockRetryDelay is how often a blocked download lock is retried.
const lockRetryDelay = 250 * time.Millisecond

// Downloader is the high-level entry point for fetching matrices. It owns
// the index store, the transfer engine, and optionally the download ledger.
type Downloader struct {
	cfg     types.DownloadConfig
	store   *index.Store
	engine  *transfer.Engine
	history *ledger.Ledger
	console io.Writer
}

// New builds a Downloader from cfg. Progress and warnings are written to
// console. Invalid worker counts are corrected rather than rejected.
func New(cfg types.DownloadConfig, console io.Writer) *Downloader {
	if console == nil {
		console = io.Discard
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = types.DefaultCacheDir()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = types.DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = types.DefaultUserAgent
	}
	if cfg.Workers <= 0 {
		cfg.Workers = types.DefaultWorkers
	}
	if cfg.Workers > types.MaxWorkers {
		cfg.Workers = types.MaxWorkers
	}

	// The index and checksum client bounds the whole exchange; those bodies
	// are small. File transfers must not share that bound: a large matrix
	// streams for longer than any fixed deadline even at full speed, so the
	// transfer client limits connection setup and response headers only and
	// leaves body streaming open-ended.
	httpClient := &http.Client{Timeout: cfg.Timeout}
	streamClient := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: cfg.Timeout}).DialContext,
			TLSHandshakeTimeout:   cfg.Timeout,
			ResponseHeaderTimeout: cfg.Timeout,
		},
	}

	d := &Downloader{
		cfg:     cfg,
		store:   index.NewStore(cfg.CacheDir, httpClient, cfg.HTTPConfig),
		engine:  transfer.NewEngine(streamClient, cfg.HTTPConfig, cfg.VerifyChecksums, cfg.ExtractArchives, cfg.KeepArchives),
		console: console,
	}

	if cfg.TrackHistory {
		history, err := ledger.Open(cfg.CacheDir)
		if err != nil {
			fmt.Fprintf(console, "Warning: download history disabled: %v\n", err)
		} else {
			d.history = history
		}
	}
	return d
}

// Close releases resources held by the downloader.
func (d *Downloader) Close() error {
	if d.history != nil {
		return d.history.Close()
	}
	return nil
}

// Config returns the effective configuration after defaulting.
func (d *Downloader) Config() types.DownloadConfig {
	return d.cfg
}

// Index exposes the underlying index store.
func (d *Downloader) Index() *index.Store {
	return d.store
}

// History returns recent ledger entries, newest first. It returns an empty
// slice when history tracking is disabled.
func (d *Downloader) History(ctx context.Context, limit int) ([]ledger.Entry, error) {
	if d.history == nil {
		return nil, nil
	}
	return d.history.Recent(ctx, limit)
}

// destPath returns where a matrix file lands under destDir, honoring the
// flat-structure setting.
func (d *Downloader) destPath(destDir, group, name string, format types.Format) string {
	if destDir == "" {
		destDir = "."
	}
	file := name + format.Extension()
	if d.cfg.FlatStructure {
		return filepath.Join(destDir, file)
	}
	return filepath.Join(destDir, group, file)
}

// Download fetches one matrix file into destDir and returns the final local
// path (the extracted main file for archive formats). A file lock keyed on
// the destination keeps concurrent processes from clobbering each other.
func (d *Downloader) Download(ctx context.Context, group, name string, format types.Format, destDir string, progress transfer.ProgressFunc) (string, error) {
	destPath := d.destPath(destDir, group, name, format)
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", fmt.Errorf("creating destination directory: %w", err)
	}

	lock := flock.New(destPath + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return "", fmt.Errorf("acquiring download lock: %w", err)
	}
	if !locked {
		return "", fmt.Errorf("download lock unavailable for %s/%s", group, name)
	}
	defer func() {
		lock.Unlock()
		os.Remove(lock.Path())
	}()

	url := MatrixURL(group, name, format)

	var expectedMD5 string
	if d.cfg.VerifyChecksums {
		if sum, ok := d.engine.FetchChecksum(ctx, ChecksumURL(group, name, format)); ok {
			expectedMD5 = sum
		}
	}

	finalPath, err := d.engine.Download(ctx, url, destPath, expectedMD5, format, progress)
	if err != nil {
		return "", err
	}

	if d.cfg.WriteMetadata {
		if rec, err := d.store.Find(ctx, group, name); err == nil {
			d.writeSidecar(finalPath, rec)
		}
	}

	if d.history != nil {
		size := int64(0)
		if info, err := os.Stat(finalPath); err == nil {
			size = info.Size()
		}
		entry := ledger.Entry{
			Group:    group,
			Name:     name,
			Format:   format,
			Path:     finalPath,
			Checksum: expectedMD5,
			Size:     size,
		}
		if err := d.history.Record(ctx, entry); err != nil {
			fmt.Fprintf(d.console, "Warning: recording download history: %v\n", err)
		}
	}

	return finalPath, nil
}

// writeSidecar writes the matrix's index record as YAML next to the
// downloaded file. Failures are reported but never fail the download.
func (d *Downloader) writeSidecar(finalPath string, rec types.MatrixRecord) {
	sidecar := strings.TrimSuffix(finalPath, filepath.Ext(finalPath)) + ".yaml"

	data, err := yaml.Marshal(rec)
	if err != nil {
		fmt.Fprintf(d.console, "Warning: encoding metadata for %s: %v\n", rec.Name, err)
		return
	}
	if err := os.WriteFile(sidecar, data, 0o644); err != nil {
		fmt.Fprintf(d.console, "Warning: writing metadata sidecar: %v\n", err)
	}
}

// DownloadByName resolves a bare matrix name to its group through the index
// and downloads it.
func (d *Downloader) DownloadByName(ctx context.Context, name string, format types.Format, destDir string, progress transfer.ProgressFunc) (string, error) {
	group, matrixName := splitName(name)
	if group == "" {
		found, err := d.store.FindGroup(ctx, matrixName)
		if err != nil {
			return "", err
		}
		group = found
	}
	return d.Download(ctx, group, matrixName, format, destDir, progress)
}

// splitName splits "Group/Name" identifiers; a bare name has no group.
func splitName(name string) (group, matrixName string) {
	if g, n, ok := strings.Cut(name, "/"); ok {
		return g, n
	}
	return "", name
}

// FindMatrices returns all index records matching f.
func (d *Downloader) FindMatrices(ctx context.Context, f filter.Filter) ([]types.MatrixRecord, error) {
	records, err := d.store.GetIndex(ctx, false)
	if err != nil {
		return nil, err
	}
	return f.Apply(records), nil
}

// ListMatrices returns up to limit matching records plus the total match
// count. A non-positive limit returns everything.
func (d *Downloader) ListMatrices(ctx context.Context, f filter.Filter, limit int) ([]types.MatrixRecord, int, error) {
	matches, err := d.FindMatrices(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total := len(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, total, nil
}

// CleanCache removes the cached index and ledger files and returns the number
// of bytes reclaimed.
func (d *Downloader) CleanCache() (int64, error) {
	if d.history != nil {
		d.history.Close()
		d.history = nil
	}

	dbPath := filepath.Join(d.cfg.CacheDir, ledger.DBFile)
	var reclaimed int64
	for _, path := range []string{d.store.CacheFile(), dbPath, dbPath + "-wal", dbPath + "-shm"} {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			return reclaimed, fmt.Errorf("removing %s: %w", path, err)
		}
		reclaimed += info.Size()
	}
	return reclaimed, nil
}
