// Package marketdata enriches roster records with sector, industry, price
// and market capitalization from an external quote service.
//
// Enrichment is best-effort: every record gets exactly one lookup, in
// order, and any failure is replaced with Unknown() so the export is never
// short a row.
package marketdata

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/illmaticmd/csrmon/internal/model"
)

// ErrInvalidTicker is recorded for records whose ticker is empty.
var ErrInvalidTicker = errors.New("invalid ticker")

// Lookup resolves a ticker to market data.
type Lookup interface {
	Lookup(ctx context.Context, ticker string) (model.MarketData, error)
}

// LookupFunc is a function adapter for Lookup.
type LookupFunc func(ctx context.Context, ticker string) (model.MarketData, error)

func (f LookupFunc) Lookup(ctx context.Context, ticker string) (model.MarketData, error) {
	return f(ctx, ticker)
}

// Failure records a lookup that fell back to defaults.
type Failure struct {
	Ticker string
	Err    error
}

// Unknown is the placeholder used when a lookup fails.
func Unknown() model.MarketData {
	return model.MarketData{
		Sector:    model.UnknownSector,
		Industry:  model.UnknownSector,
		Price:     decimal.Zero,
		MarketCap: decimal.Zero,
	}
}

// Enrich looks up each record in turn. Failed lookups get Unknown() and are
// returned as Failures; the output always has one entry per input record,
// in input order. Once ctx is done the remaining records are not looked up.
func Enrich(ctx context.Context, lookup Lookup, recs []model.Record, logger *zap.Logger) ([]model.EnrichedRecord, []Failure) {
	if logger == nil {
		logger = zap.NewNop()
	}

	out := make([]model.EnrichedRecord, 0, len(recs))
	var failures []Failure

	for _, rec := range recs {
		md, err := lookupOne(ctx, lookup, rec.Ticker)
		if err != nil {
			logger.Warn("could not fetch market data",
				zap.String("ticker", rec.Ticker),
				zap.Error(err),
			)
			failures = append(failures, Failure{Ticker: rec.Ticker, Err: err})
			md = Unknown()
		} else {
			logger.Debug("fetched market data",
				zap.String("ticker", rec.Ticker),
				zap.String("sector", md.Sector),
			)
		}
		out = append(out, model.EnrichedRecord{Record: rec, MarketData: md})
	}

	return out, failures
}

func lookupOne(ctx context.Context, lookup Lookup, ticker string) (model.MarketData, error) {
	if ticker == "" {
		return model.MarketData{}, ErrInvalidTicker
	}
	if err := ctx.Err(); err != nil {
		return model.MarketData{}, err
	}
	return lookup.Lookup(ctx, ticker)
}
