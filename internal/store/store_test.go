package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illmaticmd/csrmon/internal/model"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "csrmon.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRecords() []model.EnrichedRecord {
	return []model.EnrichedRecord{
		{
			Record: model.Record{
				Tier:           model.Tier1,
				Ticker:         "COST",
				Company:        "Costco",
				Reason:         `Committed $25 million, said "no"`,
				EstimatedValue: decimal.NewFromInt(25_000_000),
			},
			MarketData: model.MarketData{
				Sector:    "Consumer Defensive",
				Industry:  "Discount Stores",
				Price:     decimal.RequireFromString("912.34"),
				MarketCap: decimal.NewFromInt(404_000_000_000),
			},
		},
		{
			Record: model.Record{Tier: model.Tier4, Ticker: "XYZ", Company: "Block", EstimatedValue: decimal.Zero},
			MarketData: model.MarketData{
				Sector:    model.UnknownSector,
				Industry:  model.UnknownSector,
				Price:     decimal.Zero,
				MarketCap: decimal.Zero,
			},
		},
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	in := sampleRecords()
	require.NoError(t, s.SaveRun(ctx, "run-1", in))

	out, err := s.LoadRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "COST", out[0].Ticker)
	assert.Equal(t, model.Tier1, out[0].Tier)
	assert.Equal(t, in[0].Reason, out[0].Reason)
	assert.True(t, in[0].EstimatedValue.Equal(out[0].EstimatedValue))
	assert.True(t, in[0].Price.Equal(out[0].Price))
	assert.True(t, in[0].MarketCap.Equal(out[0].MarketCap))
	assert.Equal(t, "Discount Stores", out[0].Industry)

	assert.Equal(t, "XYZ", out[1].Ticker)
	assert.Equal(t, model.Tier4, out[1].Tier)
	assert.Equal(t, model.UnknownSector, out[1].Sector)
}

func TestLoadRun_Unknown(t *testing.T) {
	s := openTemp(t)
	out, err := s.LoadRun(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSaveRun_DuplicateID(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.SaveRun(ctx, "run-1", sampleRecords()))
	require.Error(t, s.SaveRun(ctx, "run-1", sampleRecords()))

	// The failed save left nothing behind.
	out, err := s.LoadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestLatestRun(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	_, err := s.LatestRun(ctx)
	require.ErrorIs(t, err, ErrNoRuns)

	require.NoError(t, s.SaveRun(ctx, "first", sampleRecords()))
	require.NoError(t, s.SaveRun(ctx, "second", sampleRecords()[:1]))
	require.NoError(t, s.SaveRun(ctx, "empty", nil))

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "empty", latest.ID)
	assert.Equal(t, 0, latest.Records)
	assert.False(t, latest.CreatedAt.IsZero())

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "second", runs[1].ID)
	assert.Equal(t, 1, runs[1].Records)
	assert.Equal(t, "first", runs[2].ID)
	assert.Equal(t, 2, runs[2].Records)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "csrmon.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveRun(ctx, "persisted", sampleRecords()))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "persisted", latest.ID)
}
