// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transfer performs resumable, checksum-verified downloads of matrix
// files and extracts the archives the collection serves them in.
//
// Downloads stream into a sibling ".part" file which is promoted to the final
// path only after the body is complete and, when a checksum is available,
// verified. A ".part" file left behind by an interrupted run is resumed with
// an HTTP Range request unless it is older than one hour, in which case it is
// treated as abandoned and restarted.
package transfer

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/ssget/internal/httputil"
	"github.com/pdiddy/ssget/pkg/types"
)

// partSuffix marks in-progress download files.
const partSuffix = ".part"

// stalePartAge is the cutoff past which an existing .part file is discarded
// instead of resumed. Younger files may belong to a concurrent process.
const stalePartAge = time.Hour

// ProgressFunc receives transfer progress after every chunk. total is -1
// when the response carries no length.
type ProgressFunc func(completed, total int64)

// Engine downloads individual files.
type Engine struct {
	client *http.Client
	http   types.HTTPConfig

	// VerifyChecksums gates post-download MD5 verification.
	VerifyChecksums bool

	// ExtractArchives controls whether archive-format downloads are unpacked.
	ExtractArchives bool

	extractor Extractor
}

// NewEngine creates a transfer engine. keepArchives controls whether source
// archives survive successful extraction.
func NewEngine(client *http.Client, httpCfg types.HTTPConfig, verify, extract, keepArchives bool) *Engine {
	if httpCfg.UserAgent == "" {
		httpCfg.UserAgent = types.DefaultUserAgent
	}
	if httpCfg.Timeout <= 0 {
		httpCfg.Timeout = types.DefaultTimeout
	}
	return &Engine{
		client:          client,
		http:            httpCfg,
		VerifyChecksums: verify,
		ExtractArchives: extract,
		extractor:       Extractor{KeepArchive: keepArchives},
	}
}

// Download fetches url into destPath and returns the final artifact path:
// destPath itself, or the extracted matrix file when format is archive-based
// and extraction is enabled.
//
// An existing destination with a matching checksum is returned without any
// network request; with no checksum supplied the existing file is trusted
// as-is. expectedMD5 comparison is case-insensitive. progress may be nil.
func (e *Engine) Download(ctx context.Context, url, destPath, expectedMD5 string, format types.Format, progress ProgressFunc) (string, error) {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return "", &types.TransferError{URL: url, Reason: types.TransferIO, Err: err}
	}

	if _, err := os.Stat(destPath); err == nil {
		if expectedMD5 == "" {
			return e.finish(destPath, format)
		}
		if ok, _ := verifyMD5(destPath, expectedMD5); ok {
			return e.finish(destPath, format)
		}
		// Stale or corrupt local copy: re-download.
	}

	partPath := destPath + partSuffix
	if info, err := os.Stat(partPath); err == nil {
		if time.Since(info.ModTime()) > stalePartAge {
			os.Remove(partPath)
		}
	}

	if err := e.downloadWithResume(ctx, url, partPath, progress); err != nil {
		return "", err
	}

	if expectedMD5 != "" && e.VerifyChecksums {
		ok, actual := verifyMD5(partPath, expectedMD5)
		if !ok {
			os.Remove(partPath)
			return "", &types.ChecksumMismatchError{Path: destPath, Expected: expectedMD5, Actual: actual}
		}
	}

	if err := os.Rename(partPath, destPath); err != nil {
		os.Remove(partPath)
		return "", &types.TransferError{URL: url, Reason: types.TransferIO, Err: err}
	}

	return e.finish(destPath, format)
}

// finish applies archive handling to a completed download.
func (e *Engine) finish(destPath string, format types.Format) (string, error) {
	if !format.Archived() || !e.ExtractArchives {
		return destPath, nil
	}
	return e.extractor.Extract(destPath)
}

// downloadWithResume streams url into partPath, appending to whatever is
// already there.
func (e *Engine) downloadWithResume(ctx context.Context, url, partPath string, progress ProgressFunc) error {
	var resumePos int64
	if info, err := os.Stat(partPath); err == nil {
		resumePos = info.Size()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &types.TransferError{URL: url, Reason: types.TransferNetwork, Err: err}
	}
	req.Header.Set("User-Agent", e.http.UserAgent)
	if resumePos > 0 {
		req.Header.Set("Range", "bytes="+strconv.FormatInt(resumePos, 10)+"-")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return &types.TransferError{URL: url, Reason: types.TransferNetwork, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Server ignored the Range request; restart from zero.
		resumePos = 0
	case http.StatusPartialContent:
	default:
		return &types.TransferError{
			URL:    url,
			Reason: types.TransferNetwork,
			Err:    fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	total := int64(-1)
	if resp.ContentLength >= 0 {
		total = resp.ContentLength + resumePos
	}

	// A resumed transfer starts partway through; report the position up
	// front so progress does not appear to begin at zero.
	if progress != nil && resumePos > 0 {
		progress(resumePos, total)
	}

	flags := os.O_WRONLY | os.O_CREATE
	if resumePos > 0 {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	out, err := os.OpenFile(partPath, flags, 0o644)
	if err != nil {
		return &types.TransferError{URL: url, Reason: types.TransferIO, Err: err}
	}

	completed := resumePos
	buf := make([]byte, types.ChunkSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				out.Close()
				return &types.TransferError{URL: url, Reason: types.TransferIO, Err: writeErr}
			}
			completed += int64(n)
			if progress != nil {
				progress(completed, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			out.Close()
			return &types.TransferError{URL: url, Reason: types.TransferNetwork, Err: readErr}
		}
	}

	if err := out.Close(); err != nil {
		return &types.TransferError{URL: url, Reason: types.TransferIO, Err: err}
	}
	return nil
}

// FetchChecksum retrieves the expected MD5 for a matrix file from its
// checksum resource (the file URL with ".md5" appended; the checksum is the
// first whitespace-separated token of the body). Checksum availability is
// best-effort: any failure reports absence instead of an error.
func (e *Engine) FetchChecksum(ctx context.Context, checksumURL string) (string, bool) {
	// Checksum bodies are tiny; unlike file transfers the whole exchange
	// gets a deadline, in case the client has no request timeout of its own.
	ctx, cancel := context.WithTimeout(ctx, e.http.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checksumURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", e.http.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, e.client, req, 0)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return "", false
	}
	fields := strings.Fields(string(body))
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}

// verifyMD5 hashes path and compares against expected, case-insensitively.
// It returns the actual digest for diagnostics.
func verifyMD5(path, expected string) (bool, string) {
	f, err := os.Open(path)
	if err != nil {
		return false, ""
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return false, ""
	}
	actual := hex.EncodeToString(h.Sum(nil))
	return strings.EqualFold(actual, expected), actual
}
