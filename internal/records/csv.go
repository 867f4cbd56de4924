package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/illmaticmd/csrmon/internal/model"
)

// Header is the CSV header of a cleaned roster export.
const Header = "Tier,Ticker,Company,Reason,Estimated_Value"

// EnrichedHeader is the CSV header of an enriched export.
const EnrichedHeader = Header + ",Sector,Industry,Stock_Price,Market_Cap"

const (
	numFields         = 5
	numEnrichedFields = 9
	colTier           = 0
	colTicker         = 1
	colCompany        = 2
	colReason         = 3
	colValue          = 4
	colSector         = 5
	colIndustry       = 6
	colPrice          = 7
	colMarketCap      = 8
)

// ReadRecords reads a cleaned export. The header row is skipped.
func ReadRecords(r io.Reader) ([]model.Record, error) {
	rows, err := readRows(r, numFields)
	if err != nil {
		return nil, fmt.Errorf("reading records CSV: %w", err)
	}

	var recs []model.Record
	for i, row := range rows {
		rec, err := UnmarshalRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// WriteRecords writes a cleaned export, header included.
func WriteRecords(w io.Writer, recs []model.Record) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, rec := range recs {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// ReadEnriched reads an enriched export. The header row is skipped.
func ReadEnriched(r io.Reader) ([]model.EnrichedRecord, error) {
	rows, err := readRows(r, numEnrichedFields)
	if err != nil {
		return nil, fmt.Errorf("reading enriched CSV: %w", err)
	}

	var recs []model.EnrichedRecord
	for i, row := range rows {
		rec, err := UnmarshalEnriched(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// WriteEnriched writes an enriched export, header included.
func WriteEnriched(w io.Writer, recs []model.EnrichedRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(EnrichedHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, rec := range recs {
		if err := cw.Write(MarshalEnriched(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func readRows(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

// MarshalRecord converts a Record to a CSV row.
func MarshalRecord(rec model.Record) []string {
	row := make([]string, numFields)
	row[colTier] = rec.Tier.Label()
	row[colTicker] = rec.Ticker
	row[colCompany] = rec.Company
	row[colReason] = rec.Reason
	row[colValue] = rec.EstimatedValue.StringFixed(2)
	return row
}

// UnmarshalRecord converts a CSV row to a Record.
func UnmarshalRecord(row []string) (model.Record, error) {
	if len(row) != numFields {
		return model.Record{}, fmt.Errorf("expected %d fields, got %d", numFields, len(row))
	}

	tier, err := model.ParseTier(row[colTier])
	if err != nil {
		return model.Record{}, fmt.Errorf("parsing tier: %w", err)
	}

	value, err := parseMoney(row[colValue])
	if err != nil {
		return model.Record{}, fmt.Errorf("parsing estimated value %q: %w", row[colValue], err)
	}

	return model.Record{
		Tier:           tier,
		Ticker:         row[colTicker],
		Company:        row[colCompany],
		Reason:         row[colReason],
		EstimatedValue: value,
	}, nil
}

// MarshalEnriched converts an EnrichedRecord to a CSV row.
func MarshalEnriched(rec model.EnrichedRecord) []string {
	row := make([]string, numEnrichedFields)
	copy(row, MarshalRecord(rec.Record))
	row[colSector] = rec.Sector
	row[colIndustry] = rec.Industry
	row[colPrice] = rec.Price.StringFixed(2)
	row[colMarketCap] = rec.MarketCap.StringFixed(0)
	return row
}

// UnmarshalEnriched converts a CSV row to an EnrichedRecord.
func UnmarshalEnriched(row []string) (model.EnrichedRecord, error) {
	if len(row) != numEnrichedFields {
		return model.EnrichedRecord{}, fmt.Errorf("expected %d fields, got %d", numEnrichedFields, len(row))
	}

	rec, err := UnmarshalRecord(row[:numFields])
	if err != nil {
		return model.EnrichedRecord{}, err
	}

	price, err := parseMoney(row[colPrice])
	if err != nil {
		return model.EnrichedRecord{}, fmt.Errorf("parsing stock price %q: %w", row[colPrice], err)
	}
	marketCap, err := parseMoney(row[colMarketCap])
	if err != nil {
		return model.EnrichedRecord{}, fmt.Errorf("parsing market cap %q: %w", row[colMarketCap], err)
	}

	return model.EnrichedRecord{
		Record: rec,
		MarketData: model.MarketData{
			Sector:    row[colSector],
			Industry:  row[colIndustry],
			Price:     price,
			MarketCap: marketCap,
		},
	}, nil
}

// parseMoney accepts "", fixed-point ("10000000.00") and the float form
// pandas writes ("10000000.0").
func parseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
