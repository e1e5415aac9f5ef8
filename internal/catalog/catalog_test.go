// Copyright Climdyn Research, 2026. All rights reserved.

package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first := Entry{
		Output:      "/out/tas_1hr_cfsr_reanalysis_198001.nc",
		Source:      "/in/tmp2m.gdas.198001.grb2",
		Variable:    "tas",
		Records:     744,
		Outcome:     "converted",
		CompletedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	second := Entry{
		Output:      "/out/pr_1hr_cfsr_reanalysis_198001.nc",
		Source:      "/in/prate.gdas.198001.grb2",
		Variable:    "pr",
		Outcome:     "failed",
		Detail:      "decoding: unexpected EOF",
		CompletedAt: time.Date(2026, 8, 1, 13, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Record(ctx, first))
	require.NoError(t, s.Record(ctx, second))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "pr", entries[0].Variable, "most recent first")
	assert.Equal(t, "decoding: unexpected EOF", entries[0].Detail)
	assert.Equal(t, 744, entries[1].Records)
	assert.Equal(t, first.CompletedAt, entries[1].CompletedAt)
}

func TestRecord_ReplacesOnRerun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	e := Entry{
		Output:   "/out/tas_1hr_cfsr_reanalysis_198001.nc",
		Source:   "/in/tmp2m.gdas.198001.grb2",
		Variable: "tas",
		Outcome:  "failed",
		Detail:   "decoding: unexpected EOF",
	}
	require.NoError(t, s.Record(ctx, e))

	e.Outcome = "converted"
	e.Detail = ""
	e.Records = 744
	require.NoError(t, s.Record(ctx, e))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "converted", entries[0].Outcome)
	assert.Equal(t, 744, entries[0].Records)
	assert.Empty(t, entries[0].Detail)
}

func TestSummary(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i, outcome := range []string{"converted", "converted", "skipped", "failed"} {
		require.NoError(t, s.Record(ctx, Entry{
			Output:   filepath.Join("/out", string(rune('a'+i))+".nc"),
			Source:   "/in/x.grb2",
			Variable: "tas",
			Outcome:  outcome,
		}))
	}

	counts, err := s.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"converted": 2, "skipped": 1, "failed": 1}, counts)
}

func TestOpen_CreatesSchemaOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), Entry{
		Output: "/out/a.nc", Source: "/in/a.grb2", Variable: "tas", Outcome: "converted",
	}))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	entries, err := reopened.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
