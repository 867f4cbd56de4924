// Package summary aggregates enriched records into the figures the roster
// dashboard shows: committed capital, market cap, tier distribution and
// capital by sector.
package summary

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/illmaticmd/csrmon/internal/model"
)

// Filter selects records by tier and sector. An empty list matches all.
type Filter struct {
	Tiers   []model.Tier
	Sectors []string
}

// Match reports whether rec passes the filter. Sector comparison ignores case.
func (f Filter) Match(rec model.EnrichedRecord) bool {
	if len(f.Tiers) > 0 {
		ok := false
		for _, t := range f.Tiers {
			if rec.Tier == t {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(f.Sectors) > 0 {
		ok := false
		for _, s := range f.Sectors {
			if strings.EqualFold(rec.Sector, s) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// Apply returns the records matching f, preserving order.
func (f Filter) Apply(recs []model.EnrichedRecord) []model.EnrichedRecord {
	var out []model.EnrichedRecord
	for _, r := range recs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// TierCount is the number of companies in one tier.
type TierCount struct {
	Tier  model.Tier
	Count int
}

// SectorCapital is the committed capital attributed to one sector.
type SectorCapital struct {
	Sector  string
	Capital decimal.Decimal
}

// Summary holds the dashboard figures for a selection of records.
type Summary struct {
	TotalCapital decimal.Decimal
	AvgMarketCap decimal.Decimal
	Companies    int
	ByTier       []TierCount
	BySector     []SectorCapital
	Records      []model.EnrichedRecord
}

// Compute aggregates recs. ByTier lists only tiers that occur, in tier
// order, with unset last. BySector is sorted by capital descending, then
// by name.
func Compute(recs []model.EnrichedRecord) Summary {
	s := Summary{
		TotalCapital: decimal.Zero,
		AvgMarketCap: decimal.Zero,
		Companies:    len(recs),
		Records:      recs,
	}
	if len(recs) == 0 {
		return s
	}

	tierCounts := make(map[model.Tier]int)
	sectorCap := make(map[string]decimal.Decimal)
	marketCap := decimal.Zero

	for _, r := range recs {
		s.TotalCapital = s.TotalCapital.Add(r.EstimatedValue)
		marketCap = marketCap.Add(r.MarketCap)
		tierCounts[r.Tier]++

		sector := r.Sector
		if sector == "" {
			sector = model.UnknownSector
		}
		sectorCap[sector] = sectorCap[sector].Add(r.EstimatedValue)
	}

	s.AvgMarketCap = marketCap.Div(decimal.NewFromInt(int64(len(recs))))

	for _, t := range append(append([]model.Tier{}, model.Tiers...), model.TierUnset) {
		if n := tierCounts[t]; n > 0 {
			s.ByTier = append(s.ByTier, TierCount{Tier: t, Count: n})
		}
	}

	for sector, capital := range sectorCap {
		s.BySector = append(s.BySector, SectorCapital{Sector: sector, Capital: capital})
	}
	sort.Slice(s.BySector, func(i, j int) bool {
		if c := s.BySector[i].Capital.Cmp(s.BySector[j].Capital); c != 0 {
			return c > 0
		}
		return s.BySector[i].Sector < s.BySector[j].Sector
	})

	return s
}
