// Package tiered parses company rosters grouped under "TIER n" section
// markers into model.Records.
//
// The input is line-oriented text that only looks like CSV: header lines
// start with a ticker and a comma, narrative text may wrap onto following
// lines, and section markers and spreadsheet debris are mixed in. Each line
// is classified on its own, in this order: tier marker, noise, record
// header, continuation.
package tiered

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/illmaticmd/csrmon/internal/model"
)

const (
	markerToken = "TIER"
	sourceToken = "source"
	maxLineSize = 1 << 20
)

var headerPattern = regexp.MustCompile(`^[A-Z]{1,5},`)

// tierMarkers is checked in order; the first one contained in a marker
// line wins.
var tierMarkers = []struct {
	token string
	tier  model.Tier
}{
	{"TIER 1", model.Tier1},
	{"TIER 2", model.Tier2},
	{"TIER 3", model.Tier3},
	{"TIER 4", model.Tier4},
}

// accumulator carries parse state from one line to the next.
type accumulator struct {
	tier     model.Tier
	records  []model.Record
	discards []model.Discard
}

// ParseLines classifies each line and returns the records it produced,
// normalized and valued. Lines are 1-indexed in the returned discards.
func ParseLines(lines []string) model.ParseResult {
	acc := &accumulator{}
	for i, line := range lines {
		acc.step(i+1, line)
	}
	return acc.finish()
}

// Parse reads a roster from r.
func Parse(r io.Reader) (model.ParseResult, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if len(lines) == 0 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return model.ParseResult{}, fmt.Errorf("reading roster: %w", err)
	}
	return ParseLines(lines), nil
}

// ParseFile opens path and parses it. A missing file yields an error
// wrapping fs.ErrNotExist.
func ParseFile(path string) (model.ParseResult, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.ParseResult{}, fmt.Errorf("input file not found: %s: %w", path, err)
	}
	if err != nil {
		return model.ParseResult{}, fmt.Errorf("opening roster %s: %w", path, err)
	}
	defer f.Close()

	res, err := Parse(f)
	if err != nil {
		return model.ParseResult{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return res, nil
}

func (a *accumulator) step(lineNo int, raw string) {
	line := strings.TrimSpace(raw)

	switch {
	case isMarker(line):
		if tier, ok := markerTier(line); ok {
			a.tier = tier
		}
	case isNoise(line):
	case headerPattern.MatchString(line):
		parts := strings.SplitN(line, ",", 3)
		if len(parts) != 3 {
			a.discard(lineNo, line, model.DiscardMalformedHeader)
			return
		}
		a.records = append(a.records, model.Record{
			Tier:    a.tier,
			Ticker:  parts[0],
			Company: parts[1],
			Reason:  parts[2],
		})
	case line == "":
	case len(a.records) == 0:
		a.discard(lineNo, line, model.DiscardOrphanContinuation)
	default:
		last := &a.records[len(a.records)-1]
		last.Reason += " " + line
	}
}

func (a *accumulator) discard(lineNo int, text string, reason model.DiscardReason) {
	a.discards = append(a.discards, model.Discard{Line: lineNo, Text: text, Reason: reason})
}

// finish runs once every line has been consumed, so reasons are final.
func (a *accumulator) finish() model.ParseResult {
	for i := range a.records {
		rec := &a.records[i]
		rec.Reason = Normalize(rec.Reason)
		rec.EstimatedValue = ExtractValue(rec.Reason)
	}
	return model.ParseResult{Records: a.records, Discards: a.discards}
}

func isMarker(line string) bool {
	return strings.Contains(line, markerToken) && strings.Contains(line, sourceToken)
}

func markerTier(line string) (model.Tier, bool) {
	for _, m := range tierMarkers {
		if strings.Contains(line, m.token) {
			return m.tier, true
		}
	}
	return model.TierUnset, false
}

func isNoise(line string) bool {
	return strings.Contains(line, "Ticker,Company") ||
		strings.HasPrefix(line, "Proven Receipts") ||
		line == ",,"
}
