package model

import "github.com/shopspring/decimal"

// Record is one company entry from a tiered roster.
type Record struct {
	Tier           Tier
	Ticker         string
	Company        string
	Reason         string
	EstimatedValue decimal.Decimal // committed capital mentioned in Reason, zero if none
}

// UnknownSector is the placeholder used when market data is unavailable.
const UnknownSector = "Unknown"

// MarketData is the enrichment returned by a market-data lookup.
type MarketData struct {
	Sector    string
	Industry  string
	Price     decimal.Decimal
	MarketCap decimal.Decimal
}

// EnrichedRecord is a Record joined with its MarketData.
type EnrichedRecord struct {
	Record
	MarketData
}

// DiscardReason says why a roster line was dropped.
type DiscardReason string

const (
	DiscardMalformedHeader    DiscardReason = "malformed-header"
	DiscardOrphanContinuation DiscardReason = "orphan-continuation"
)

// Discard describes an input line that looked like data but produced nothing.
type Discard struct {
	Line   int // 1-based
	Text   string
	Reason DiscardReason
}

// ParseResult is the output of parsing one roster.
type ParseResult struct {
	Records  []Record
	Discards []Discard
}
