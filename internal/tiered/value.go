package tiered

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// citeArtifact matches citation markup left behind by copy/paste from
	// generated research notes, e.g. "[cite_start]" or "[cite: 12, 14]".
	citeArtifact = regexp.MustCompile(`\[cite(?:_start|_end)?\]|\[cite:[^\]]*\]`)

	moneyPattern = regexp.MustCompile(`(?i)\$(\d+(?:\.\d+)?)\s*(million|billion|m|b)`)

	million = decimal.NewFromInt(1_000_000)
	billion = decimal.NewFromInt(1_000_000_000)
)

// Normalize strips citation artifacts from a reason and trims it.
func Normalize(reason string) string {
	return strings.TrimSpace(citeArtifact.ReplaceAllString(reason, ""))
}

// ExtractValue returns the first "$<amount> <unit>" mention in text scaled
// to dollars, or zero. Units are M, B, Million and Billion in any case and
// may run into following letters ("$2.5Bn", "$5MM"). Later mentions are
// ignored.
func ExtractValue(text string) decimal.Decimal {
	m := moneyPattern.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(m[1])
	if err != nil {
		return decimal.Zero
	}
	if strings.HasPrefix(strings.ToLower(m[2]), "b") {
		return amount.Mul(billion)
	}
	return amount.Mul(million)
}
