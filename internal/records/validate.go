package records

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/illmaticmd/csrmon/internal/model"
)

// Rule names a roster check.
type Rule string

const (
	RuleDuplicateTicker Rule = "duplicate-ticker"
	RuleUnsetTier       Rule = "unset-tier"
	RuleTickerFormat    Rule = "ticker-format"
	RuleEmptyCompany    Rule = "empty-company"
)

var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// ValidationError describes a single problem with a roster.
type ValidationError struct {
	Rule        Rule
	Row         int // 1-based position in the record list
	Ticker      string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [row %d %s]: %s", e.Rule, e.Row, e.Ticker, e.Description)
}

// Validate checks properties the parser does not enforce. Problems are
// reported, never fixed.
func Validate(recs []model.Record) []ValidationError {
	var errs []ValidationError

	firstRow := make(map[string]int)
	for i, rec := range recs {
		row := i + 1

		if !tickerPattern.MatchString(rec.Ticker) {
			errs = append(errs, ValidationError{
				Rule:        RuleTickerFormat,
				Row:         row,
				Ticker:      rec.Ticker,
				Description: "ticker must be 1-5 uppercase letters",
			})
		}

		if prev, seen := firstRow[rec.Ticker]; seen {
			errs = append(errs, ValidationError{
				Rule:        RuleDuplicateTicker,
				Row:         row,
				Ticker:      rec.Ticker,
				Description: fmt.Sprintf("already listed at row %d", prev),
			})
		} else {
			firstRow[rec.Ticker] = row
		}

		if !rec.Tier.Valid() {
			errs = append(errs, ValidationError{
				Rule:        RuleUnsetTier,
				Row:         row,
				Ticker:      rec.Ticker,
				Description: "record appears before any tier marker",
			})
		}

		if strings.TrimSpace(rec.Company) == "" {
			errs = append(errs, ValidationError{
				Rule:        RuleEmptyCompany,
				Row:         row,
				Ticker:      rec.Ticker,
				Description: "company name is empty",
			})
		}
	}

	return errs
}
