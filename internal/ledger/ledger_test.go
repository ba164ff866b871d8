// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ssget/pkg/types"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndRecent(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	when := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	require.NoError(t, l.Record(ctx, Entry{
		Group:        "Boeing",
		Name:         "ct20stif",
		Format:       types.FormatMAT,
		Path:         "/data/Boeing/ct20stif.mat",
		Checksum:     "abc123",
		Size:         1024,
		DownloadedAt: when,
	}))
	require.NoError(t, l.Record(ctx, Entry{
		Group:  "HB",
		Name:   "1138_bus",
		Format: types.FormatMM,
		Path:   "/data/HB/1138_bus.mtx",
		Size:   2048,
	}))

	entries, err := l.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "1138_bus", entries[0].Name)
	assert.Equal(t, types.FormatMM, entries[0].Format)
	assert.Equal(t, "ct20stif", entries[1].Name)
	assert.Equal(t, "abc123", entries[1].Checksum)
	assert.Equal(t, int64(1024), entries[1].Size)
	assert.True(t, entries[1].DownloadedAt.Equal(when))
}

func TestRecentLimit(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, l.Record(ctx, Entry{
			Group: "g", Name: "m", Format: types.FormatMAT, Path: "/p",
		}))
	}

	entries, err := l.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestRecentEmpty(t *testing.T) {
	l := openTestLedger(t)
	entries, err := l.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
