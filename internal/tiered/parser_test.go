package tiered

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illmaticmd/csrmon/internal/model"
)

func TestParseLines_EndToEnd(t *testing.T) {
	lines := []string{
		"TIER 1 source",
		"Ticker,Company,Reason",
		"ABC,Acme Corp,Donated $10M to schools.",
		"Continued support expected.",
		"TIER 4 source",
		"XYZ,BadCo,Facing lawsuit.",
	}

	res := ParseLines(lines)
	require.Len(t, res.Records, 2)
	assert.Empty(t, res.Discards)

	first := res.Records[0]
	assert.Equal(t, "Tier 1: True Allies", first.Tier.Label())
	assert.Equal(t, "ABC", first.Ticker)
	assert.Equal(t, "Acme Corp", first.Company)
	assert.Equal(t, "Donated $10M to schools. Continued support expected.", first.Reason)
	assert.Equal(t, "10000000", first.EstimatedValue.String())

	second := res.Records[1]
	assert.Equal(t, "Tier 4: The Enemy", second.Tier.Label())
	assert.Equal(t, "XYZ", second.Ticker)
	assert.Equal(t, "BadCo", second.Company)
	assert.Equal(t, "Facing lawsuit.", second.Reason)
	assert.True(t, second.EstimatedValue.IsZero())
}

func TestParseLines_Header(t *testing.T) {
	res := ParseLines([]string{"ABC,Company,ReasonText"})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "ABC", res.Records[0].Ticker)
	assert.Equal(t, "Company", res.Records[0].Company)
	assert.True(t, strings.HasPrefix(res.Records[0].Reason, "ReasonText"))
}

func TestParseLines_ReasonKeepsLaterCommas(t *testing.T) {
	res := ParseLines([]string{`MSFT,Microsoft,"Funded $50M, then $20M more, in grants"`})
	require.Len(t, res.Records, 1)
	assert.Equal(t, `"Funded $50M, then $20M more, in grants"`, res.Records[0].Reason)
	assert.Equal(t, "50000000", res.Records[0].EstimatedValue.String())
}

func TestParseLines_Continuation(t *testing.T) {
	res := ParseLines([]string{
		"TIER 2 source",
		"ABC,Acme,First part.",
		"   second part.   ",
	})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "First part. second part.", res.Records[0].Reason)
}

func TestParseLines_TierContext(t *testing.T) {
	res := ParseLines([]string{
		"EARLY,Before Markers,no tier yet",
		"TIER 2 source",
		"AAA,A Co,one",
		"BBB,B Co,two",
		"TIER 3 source",
		"CCC,C Co,three",
	})
	require.Len(t, res.Records, 4)
	assert.Equal(t, model.TierUnset, res.Records[0].Tier)
	assert.Equal(t, model.Tier2, res.Records[1].Tier)
	assert.Equal(t, model.Tier2, res.Records[2].Tier)
	assert.Equal(t, model.Tier3, res.Records[3].Tier)
}

func TestParseLines_UnknownTierKeepsContext(t *testing.T) {
	res := ParseLines([]string{
		"TIER 1 source",
		"TIER 9 source",
		"AAA,A Co,one",
	})
	require.Len(t, res.Records, 1)
	assert.Equal(t, model.Tier1, res.Records[0].Tier)
}

func TestParseLines_MarkerNeedsBothTokens(t *testing.T) {
	// "TIER 2" without "source" is a continuation, not a marker.
	res := ParseLines([]string{
		"TIER 1 source",
		"AAA,A Co,one",
		"TIER 2 list follows",
		"BBB,B Co,two",
	})
	require.Len(t, res.Records, 2)
	assert.Equal(t, "one TIER 2 list follows", res.Records[0].Reason)
	assert.Equal(t, model.Tier1, res.Records[1].Tier)
}

func TestParseLines_MarkerNeverBecomesRecord(t *testing.T) {
	res := ParseLines([]string{"TIER 1 source,with,commas"})
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Discards)
}

func TestParseLines_NoiseLines(t *testing.T) {
	res := ParseLines([]string{
		"TIER 1 source",
		"AAA,A Co,one",
		"Ticker,Company,Reason",
		",,",
		"Proven Receipts (2020-2024)",
		"  ,,  ",
	})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "one", res.Records[0].Reason)
	assert.Empty(t, res.Discards)
}

func TestParseLines_CrossTierContinuation(t *testing.T) {
	// Text between a marker and the next header still attaches to the
	// previous record.
	res := ParseLines([]string{
		"TIER 1 source",
		"AAA,A Co,one",
		"TIER 4 source",
		"stray note",
		"ZZZ,Z Co,four",
	})
	require.Len(t, res.Records, 2)
	assert.Equal(t, "one stray note", res.Records[0].Reason)
	assert.Equal(t, model.Tier1, res.Records[0].Tier)
	assert.Equal(t, model.Tier4, res.Records[1].Tier)
}

func TestParseLines_Discards(t *testing.T) {
	res := ParseLines([]string{
		"orphan before any record",
		"",
		"TIER 1 source",
		"ABC,only two fields",
		"DEF,Def Co,kept",
	})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "DEF", res.Records[0].Ticker)

	require.Len(t, res.Discards, 2)
	assert.Equal(t, model.Discard{Line: 1, Text: "orphan before any record", Reason: model.DiscardOrphanContinuation}, res.Discards[0])
	assert.Equal(t, model.Discard{Line: 4, Text: "ABC,only two fields", Reason: model.DiscardMalformedHeader}, res.Discards[1])
}

func TestParseLines_MalformedHeaderDoesNotSwallowContinuation(t *testing.T) {
	res := ParseLines([]string{
		"AAA,A Co,one",
		"BBB,broken",
		"more text",
	})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "one more text", res.Records[0].Reason)
}

func TestParseLines_TickerShape(t *testing.T) {
	tests := []struct {
		line   string
		header bool
	}{
		{"A,One,x", true},
		{"ABCDE,Five,x", true},
		{"ABCDEF,Six,x", false},
		{"abc,lower,x", false},
		{"AB1,digit,x", false},
		{"AB ,space,x", false},
	}
	for _, tt := range tests {
		res := ParseLines([]string{"TIER 1 source", "SEED,Seed,seed", tt.line})
		if tt.header {
			assert.Len(t, res.Records, 2, "%q should start a record", tt.line)
		} else {
			require.Len(t, res.Records, 1, "%q should be a continuation", tt.line)
			assert.Equal(t, "seed "+tt.line, res.Records[0].Reason)
		}
	}
}

func TestParseLines_Empty(t *testing.T) {
	res := ParseLines(nil)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.Discards)
}

func TestParse_Reader(t *testing.T) {
	input := "\ufeffTIER 3 source\r\nIBM,IBM,Stayed quiet.\r\n\r\nNo comment issued.\r\n"
	res, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, model.Tier3, res.Records[0].Tier)
	assert.Equal(t, "Stayed quiet. No comment issued.", res.Records[0].Reason)
}

func TestParse_BOMBeforeHeader(t *testing.T) {
	res, err := Parse(strings.NewReader("\ufeffABC,Acme,first line\n"))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "ABC", res.Records[0].Ticker)
}

func TestParseFile_Testdata(t *testing.T) {
	res, err := ParseFile("../../testdata/roster.csv")
	require.NoError(t, err)
	require.Len(t, res.Records, 7)

	counts := make(map[model.Tier]int)
	for _, rec := range res.Records {
		counts[rec.Tier]++
	}
	assert.Equal(t, 2, counts[model.Tier1])
	assert.Equal(t, 2, counts[model.Tier2])
	assert.Equal(t, 1, counts[model.Tier3])
	assert.Equal(t, 2, counts[model.Tier4])

	// Citation artifacts are stripped.
	for _, rec := range res.Records {
		assert.NotContains(t, rec.Reason, "[cite", "ticker %s", rec.Ticker)
	}

	require.Len(t, res.Discards, 1)
	assert.Equal(t, model.DiscardMalformedHeader, res.Discards[0].Reason)
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "LoC14.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "input file not found")
}
