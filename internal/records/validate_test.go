package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illmaticmd/csrmon/internal/model"
)

func hasRule(errs []ValidationError, rule Rule) bool {
	for _, e := range errs {
		if e.Rule == rule {
			return true
		}
	}
	return false
}

func TestValidate_Clean(t *testing.T) {
	recs := []model.Record{
		{Tier: model.Tier1, Ticker: "ABC", Company: "Acme"},
		{Tier: model.Tier4, Ticker: "XYZ", Company: "BadCo"},
	}
	assert.Empty(t, Validate(recs))
}

func TestValidate_DuplicateTicker(t *testing.T) {
	recs := []model.Record{
		{Tier: model.Tier1, Ticker: "ABC", Company: "Acme"},
		{Tier: model.Tier2, Ticker: "DEF", Company: "Def"},
		{Tier: model.Tier3, Ticker: "ABC", Company: "Acme again"},
	}
	errs := Validate(recs)
	require.Len(t, errs, 1)
	assert.Equal(t, RuleDuplicateTicker, errs[0].Rule)
	assert.Equal(t, 3, errs[0].Row)
	assert.Contains(t, errs[0].Description, "row 1")
}

func TestValidate_UnsetTier(t *testing.T) {
	errs := Validate([]model.Record{{Ticker: "ABC", Company: "Acme"}})
	require.Len(t, errs, 1)
	assert.Equal(t, RuleUnsetTier, errs[0].Rule)
}

func TestValidate_TickerFormat(t *testing.T) {
	errs := Validate([]model.Record{
		{Tier: model.Tier1, Ticker: "abc", Company: "Lower"},
		{Tier: model.Tier1, Ticker: "TOOLONG", Company: "Long"},
		{Tier: model.Tier1, Ticker: "", Company: "Empty"},
	})
	assert.Len(t, errs, 3)
	assert.True(t, hasRule(errs, RuleTickerFormat))
}

func TestValidate_EmptyCompany(t *testing.T) {
	errs := Validate([]model.Record{{Tier: model.Tier1, Ticker: "ABC", Company: "  "}})
	require.Len(t, errs, 1)
	assert.Equal(t, RuleEmptyCompany, errs[0].Rule)
}

func TestValidationError_Error(t *testing.T) {
	e := ValidationError{Rule: RuleUnsetTier, Row: 2, Ticker: "ABC", Description: "record appears before any tier marker"}
	assert.Equal(t, "unset-tier [row 2 ABC]: record appears before any tier marker", e.Error())
}
