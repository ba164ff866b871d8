// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index fetches, parses, and caches the SuiteSparse collection index.
//
// The index is a CSV resource listing every matrix in the collection. The
// store keeps two cache layers in front of the remote fetch, checked in
// order: an in-process snapshot and an on-disk JSON file, both valid for
// types.IndexTTL. The in-memory snapshot is authoritative once loaded.
package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/pdiddy/ssget/internal/httputil"
	"github.com/pdiddy/ssget/pkg/types"
)

// IndexURL is the remote index resource. A variable so tests and mirror
// setups can point the store elsewhere.
var IndexURL = "https://sparse.tamu.edu/files/ssstats.csv"

const cacheFileName = "ssstats_cache.json"

// Store caches the collection index and answers lookups against it.
type Store struct {
	cacheDir string
	client   *http.Client
	http     types.HTTPConfig
	ttl      time.Duration

	mu       sync.Mutex
	snapshot types.IndexSnapshot
	groups   []string
}

// NewStore creates an index store caching under cacheDir. The directory is
// created if needed; creation failure only disables disk caching.
func NewStore(cacheDir string, client *http.Client, httpCfg types.HTTPConfig) *Store {
	if cacheDir == "" {
		cacheDir = types.DefaultCacheDir()
	}
	os.MkdirAll(cacheDir, 0o755)
	if httpCfg.UserAgent == "" {
		httpCfg.UserAgent = types.DefaultUserAgent
	}
	return &Store{
		cacheDir: cacheDir,
		client:   client,
		http:     httpCfg,
		ttl:      types.IndexTTL,
	}
}

// CacheFile returns the path of the on-disk index cache.
func (s *Store) CacheFile() string {
	return filepath.Join(s.cacheDir, cacheFileName)
}

// GetIndex returns the current index records. It serves the in-memory
// snapshot while it is younger than the TTL, then the disk cache, and
// finally refetches from the remote source. A fresh fetch is persisted to
// disk best-effort: a cache write failure never fails the call.
func (s *Store) GetIndex(ctx context.Context, forceRefresh bool) ([]types.MatrixRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if !forceRefresh && s.snapshot.Valid(now, s.ttl) {
		return s.snapshot.Records, nil
	}

	if !forceRefresh {
		if records, ok := s.loadFromDisk(now); ok {
			s.snapshot = types.IndexSnapshot{Records: records, Captured: now}
			return records, nil
		}
	}

	records, err := s.fetchRemote(ctx)
	if err != nil {
		return nil, err
	}

	s.saveToDisk(records)
	s.snapshot = types.IndexSnapshot{Records: records, Captured: now}
	return records, nil
}

// fetchRemote downloads and parses the CSV index.
func (s *Store) fetchRemote(ctx context.Context) ([]types.MatrixRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, IndexURL, nil)
	if err != nil {
		return nil, &types.NetworkError{Op: "fetch index", URL: IndexURL, Err: err}
	}
	req.Header.Set("User-Agent", s.http.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, s.client, req, 0)
	if err != nil {
		return nil, &types.NetworkError{Op: "fetch index", URL: IndexURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &types.NetworkError{
			Op:  "fetch index",
			URL: IndexURL,
			Err: fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.NetworkError{Op: "fetch index", URL: IndexURL, Err: err}
	}

	return parseIndex(string(body))
}

// loadFromDisk returns the disk-cached records when the cache file is younger
// than the TTL and parses as a non-empty record list.
func (s *Store) loadFromDisk(now time.Time) ([]types.MatrixRecord, bool) {
	path := s.CacheFile()
	info, err := os.Stat(path)
	if err != nil || now.Sub(info.ModTime()) >= s.ttl {
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	var records []types.MatrixRecord
	if err := json.Unmarshal(data, &records); err != nil || len(records) == 0 {
		return nil, false
	}
	return records, true
}

// saveToDisk persists records as JSON. Best-effort only.
func (s *Store) saveToDisk(records []types.MatrixRecord) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return
	}
	os.WriteFile(s.CacheFile(), data, 0o644)
}

// Groups returns the sorted group names present in the index. The result is
// cached for the store's lifetime; groups change rarely within a process run.
func (s *Store) Groups(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	cached := s.groups
	s.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	records, err := s.GetIndex(ctx, false)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, m := range records {
		seen[m.Group] = struct{}{}
	}
	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	s.mu.Lock()
	s.groups = groups
	s.mu.Unlock()
	return groups, nil
}

// FindByName returns the first record whose name matches exactly
// (case-sensitive). Index sizes are in the low tens of thousands, so a
// linear scan is fine.
func (s *Store) FindByName(ctx context.Context, name string) (types.MatrixRecord, error) {
	records, err := s.GetIndex(ctx, false)
	if err != nil {
		return types.MatrixRecord{}, err
	}
	for _, m := range records {
		if m.Name == name {
			return m, nil
		}
	}
	return types.MatrixRecord{}, &types.MatrixNotFoundError{Name: name}
}

// Find returns the record for name within group (both case-sensitive).
func (s *Store) Find(ctx context.Context, group, name string) (types.MatrixRecord, error) {
	records, err := s.GetIndex(ctx, false)
	if err != nil {
		return types.MatrixRecord{}, err
	}
	for _, m := range records {
		if m.Group == group && m.Name == name {
			return m, nil
		}
	}
	return types.MatrixRecord{}, &types.MatrixNotFoundError{Name: group + "/" + name}
}

// FindGroup returns the group of the named matrix.
func (s *Store) FindGroup(ctx context.Context, name string) (string, error) {
	m, err := s.FindByName(ctx, name)
	if err != nil {
		return "", err
	}
	return m.Group, nil
}
