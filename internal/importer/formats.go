package importer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/illmaticmd/csrmon/internal/model"
	"github.com/illmaticmd/csrmon/internal/records"
	"github.com/illmaticmd/csrmon/internal/tiered"
)

const (
	FormatTiered   = "tiered"
	FormatCleaned  = "cleaned"
	FormatEnriched = "enriched"
)

// TieredParser parses raw tiered rosters (the hand-maintained spreadsheet export).
type TieredParser struct{}

// Format returns the parser name.
func (p *TieredParser) Format() string { return FormatTiered }

// Parse reads a raw roster.
func (p *TieredParser) Parse(r io.Reader) (model.ParseResult, error) {
	return tiered.Parse(r)
}

// CleanedParser reads a previously exported cleaned CSV back into records.
type CleanedParser struct{}

// Format returns the parser name.
func (p *CleanedParser) Format() string { return FormatCleaned }

// Parse reads a cleaned export. It never reports discards.
func (p *CleanedParser) Parse(r io.Reader) (model.ParseResult, error) {
	recs, err := records.ReadRecords(r)
	if err != nil {
		return model.ParseResult{}, err
	}
	return model.ParseResult{Records: recs}, nil
}

// EnrichedParser reads an enriched export, keeping only the roster columns.
type EnrichedParser struct{}

// Format returns the parser name.
func (p *EnrichedParser) Format() string { return FormatEnriched }

// Parse reads an enriched export and drops its market data.
func (p *EnrichedParser) Parse(r io.Reader) (model.ParseResult, error) {
	enriched, err := records.ReadEnriched(r)
	if err != nil {
		return model.ParseResult{}, err
	}
	var res model.ParseResult
	for _, e := range enriched {
		res.Records = append(res.Records, e.Record)
	}
	return res, nil
}

// Load opens path, detects its format and parses it with the matching
// parser from reg. It returns the format used.
func Load(reg *Registry, path string) (model.ParseResult, string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.ParseResult{}, "", fmt.Errorf("input file not found: %s: %w", path, err)
	}
	if err != nil {
		return model.ParseResult{}, "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	format, r, err := Detect(f)
	if err != nil {
		return model.ParseResult{}, "", fmt.Errorf("%s: %w", path, err)
	}

	p := reg.Get(format)
	if p == nil {
		return model.ParseResult{}, "", fmt.Errorf("no parser for format %s", format)
	}

	res, err := p.Parse(r)
	if err != nil {
		return model.ParseResult{}, "", fmt.Errorf("parsing %s as %s: %w", path, format, err)
	}
	return res, format, nil
}
