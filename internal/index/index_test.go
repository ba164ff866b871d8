// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pdiddy/ssget/pkg/types"
)

const sampleIndexCSV = `2893
26-Sep-2025
HB,1138_bus,1138,1138,4054,1,0,0,1,1,1,power network problem,4054
Boeing,ct20stif,52329,52329,1566095,1,0,0,1,0.5,1.0,structural problem,2698463
vanHeukelum,cage3,5,5,19,1,0,0,0,0.8947,0.2105,directed weighted graph
`

// overrideIndexURL points the package at a test server and returns a restore
// function.
func overrideIndexURL(url string) func() {
	orig := IndexURL
	IndexURL = url + "/files/ssstats.csv"
	return func() { IndexURL = orig }
}

func newIndexServer(t *testing.T, body string, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		fmt.Fprint(w, body)
	}))
}

func newStore(t *testing.T, ts *httptest.Server) *Store {
	t.Helper()
	return NewStore(t.TempDir(), ts.Client(), types.HTTPConfig{Timeout: 5 * time.Second})
}

func TestParseIndexBoeingLine(t *testing.T) {
	records, err := parseIndex(sampleIndexCSV)
	if err != nil {
		t.Fatalf("parseIndex: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("parsed %d records, want 3", len(records))
	}

	m := records[1]
	if m.Group != "Boeing" || m.Name != "ct20stif" {
		t.Fatalf("record = %s/%s, want Boeing/ct20stif", m.Group, m.Name)
	}
	if m.Rows != 52329 || m.Cols != 52329 || m.NNZ != 1566095 {
		t.Errorf("dims = %d x %d, nnz %d", m.Rows, m.Cols, m.NNZ)
	}
	if m.Field != types.FieldReal {
		t.Errorf("field = %q, want real", m.Field)
	}
	if !m.Symmetric {
		t.Error("numerical symmetry 1.0 should derive symmetric")
	}
	if !m.SPD {
		t.Error("square symmetric posdef real matrix should derive SPD")
	}
	if m.Structure != types.StructureSymmetric {
		t.Errorf("structure = %q, want symmetric", m.Structure)
	}
	if m.PatternEntries != 2698463 {
		t.Errorf("pattern entries = %d, want 2698463", m.PatternEntries)
	}
	if m.MatrixID != 2 {
		t.Errorf("matrix id = %d, want 2", m.MatrixID)
	}
}

func TestParseIndexDerivations(t *testing.T) {
	records, err := parseIndex(sampleIndexCSV)
	if err != nil {
		t.Fatalf("parseIndex: %v", err)
	}

	cage := records[2]
	if cage.Symmetric {
		t.Error("numerical symmetry 0.2105 should not derive symmetric")
	}
	if cage.SPD {
		t.Error("non-posdef matrix should not derive SPD")
	}
	if cage.Structure != types.StructureUnsymmetric {
		t.Errorf("structure = %q, want unsymmetric", cage.Structure)
	}
	// No 13th column: pattern entries fall back to nnz.
	if cage.PatternEntries != cage.NNZ {
		t.Errorf("pattern entries = %d, want nnz fallback %d", cage.PatternEntries, cage.NNZ)
	}
}

func TestParseIndexDropsMalformedLines(t *testing.T) {
	csv := `5
26-Sep-2025
short,line
HB,ok1,10,10,30,1,0,0,1,1,1,kind,30
HB,badnum,x,10,30,1,0,0,1,1,1,kind,30

HB,ok2,20,10,30,0,1,0,0,0.5,0.5,kind
`
	records, err := parseIndex(csv)
	if err != nil {
		t.Fatalf("parseIndex: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("parsed %d records, want 2 (malformed lines dropped)", len(records))
	}
	// IDs count successfully parsed records only.
	if records[0].MatrixID != 1 || records[1].MatrixID != 2 {
		t.Errorf("matrix ids = %d, %d; want 1, 2", records[0].MatrixID, records[1].MatrixID)
	}
	if records[1].Field != types.FieldBinary {
		t.Errorf("field = %q, want binary", records[1].Field)
	}
}

func TestParseIndexMissingHeader(t *testing.T) {
	_, err := parseIndex("just one line")
	var parseErr *types.IndexParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *types.IndexParseError", err)
	}
}

func TestGetIndexCachesInMemory(t *testing.T) {
	var calls int32
	ts := newIndexServer(t, sampleIndexCSV, &calls)
	defer ts.Close()
	defer overrideIndexURL(ts.URL)()

	store := newStore(t, ts)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		records, err := store.GetIndex(ctx, false)
		if err != nil {
			t.Fatalf("GetIndex: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("got %d records, want 3", len(records))
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("remote fetched %d times, want 1", got)
	}
}

func TestGetIndexForceRefresh(t *testing.T) {
	var calls int32
	ts := newIndexServer(t, sampleIndexCSV, &calls)
	defer ts.Close()
	defer overrideIndexURL(ts.URL)()

	store := newStore(t, ts)
	ctx := context.Background()

	if _, err := store.GetIndex(ctx, false); err != nil {
		t.Fatalf("GetIndex: %v", err)
	}
	if _, err := store.GetIndex(ctx, true); err != nil {
		t.Fatalf("GetIndex force: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("remote fetched %d times, want 2", got)
	}
}

func TestGetIndexUsesDiskCache(t *testing.T) {
	var calls int32
	ts := newIndexServer(t, sampleIndexCSV, &calls)
	defer ts.Close()
	defer overrideIndexURL(ts.URL)()

	dir := t.TempDir()
	ctx := context.Background()

	first := NewStore(dir, ts.Client(), types.HTTPConfig{})
	if _, err := first.GetIndex(ctx, false); err != nil {
		t.Fatalf("GetIndex: %v", err)
	}

	// A new store with the same cache dir must serve from disk.
	second := NewStore(dir, ts.Client(), types.HTTPConfig{})
	records, err := second.GetIndex(ctx, false)
	if err != nil {
		t.Fatalf("GetIndex from disk: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records from disk cache, want 3", len(records))
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("remote fetched %d times, want 1", got)
	}
}

func TestGetIndexExpiredDiskCacheRefetches(t *testing.T) {
	var calls int32
	ts := newIndexServer(t, sampleIndexCSV, &calls)
	defer ts.Close()
	defer overrideIndexURL(ts.URL)()

	dir := t.TempDir()
	ctx := context.Background()

	first := NewStore(dir, ts.Client(), types.HTTPConfig{})
	if _, err := first.GetIndex(ctx, false); err != nil {
		t.Fatalf("GetIndex: %v", err)
	}

	// Age the cache file past the TTL.
	stale := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(first.CacheFile(), stale, stale); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	second := NewStore(dir, ts.Client(), types.HTTPConfig{})
	if _, err := second.GetIndex(ctx, false); err != nil {
		t.Fatalf("GetIndex after expiry: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("remote fetched %d times, want 2", got)
	}
}

func TestGetIndexCorruptDiskCacheRefetches(t *testing.T) {
	var calls int32
	ts := newIndexServer(t, sampleIndexCSV, &calls)
	defer ts.Close()
	defer overrideIndexURL(ts.URL)()

	store := newStore(t, ts)
	if err := os.WriteFile(store.CacheFile(), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seeding corrupt cache: %v", err)
	}

	records, err := store.GetIndex(context.Background(), false)
	if err != nil {
		t.Fatalf("GetIndex: %v", err)
	}
	if len(records) != 3 || atomic.LoadInt32(&calls) != 1 {
		t.Errorf("corrupt cache should trigger one remote fetch, got %d calls", calls)
	}
}

func TestGetIndexHTTPErrorIsNetworkError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	}))
	defer ts.Close()
	defer overrideIndexURL(ts.URL)()

	store := newStore(t, ts)
	_, err := store.GetIndex(context.Background(), false)
	var netErr *types.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("error = %v, want *types.NetworkError", err)
	}
}

func TestRecordRoundTripThroughDiskCache(t *testing.T) {
	records, err := parseIndex(sampleIndexCSV)
	if err != nil {
		t.Fatalf("parseIndex: %v", err)
	}
	want := records[1]

	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var reloaded []types.MatrixRecord
	if err := json.Unmarshal(data, &reloaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if reloaded[1] != want {
		t.Errorf("round-tripped record differs:\n got %+v\nwant %+v", reloaded[1], want)
	}
}

func TestGroups(t *testing.T) {
	var calls int32
	ts := newIndexServer(t, sampleIndexCSV, &calls)
	defer ts.Close()
	defer overrideIndexURL(ts.URL)()

	store := newStore(t, ts)
	groups, err := store.Groups(context.Background())
	if err != nil {
		t.Fatalf("Groups: %v", err)
	}
	want := []string{"Boeing", "HB", "vanHeukelum"}
	if len(groups) != len(want) {
		t.Fatalf("groups = %v, want %v", groups, want)
	}
	for i := range want {
		if groups[i] != want[i] {
			t.Errorf("groups[%d] = %q, want %q", i, groups[i], want[i])
		}
	}

	// Second call is served from the lifetime cache.
	if _, err := store.Groups(context.Background()); err != nil {
		t.Fatalf("Groups cached: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("remote fetched %d times, want 1", got)
	}
}

func TestFindByName(t *testing.T) {
	var calls int32
	ts := newIndexServer(t, sampleIndexCSV, &calls)
	defer ts.Close()
	defer overrideIndexURL(ts.URL)()

	store := newStore(t, ts)
	ctx := context.Background()

	m, err := store.FindByName(ctx, "ct20stif")
	if err != nil {
		t.Fatalf("FindByName: %v", err)
	}
	if m.Group != "Boeing" {
		t.Errorf("group = %q, want Boeing", m.Group)
	}

	// Lookup is case-sensitive.
	_, err = store.FindByName(ctx, "CT20STIF")
	var notFound *types.MatrixNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want *types.MatrixNotFoundError", err)
	}

	group, err := store.FindGroup(ctx, "cage3")
	if err != nil || group != "vanHeukelum" {
		t.Errorf("FindGroup = %q, %v; want vanHeukelum", group, err)
	}
}
