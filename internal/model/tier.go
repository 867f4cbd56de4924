package model

import (
	"fmt"
	"strings"
)

// Tier is a company's alignment category. The zero value means no tier
// marker had been seen when the record was read.
type Tier int

const (
	TierUnset Tier = iota
	Tier1
	Tier2
	Tier3
	Tier4
)

// Tiers lists the four real tiers in order.
var Tiers = []Tier{Tier1, Tier2, Tier3, Tier4}

var tierLabels = map[Tier]string{
	Tier1: "Tier 1: True Allies",
	Tier2: "Tier 2: Battle Tested",
	Tier3: "Tier 3: Folded/Neutral",
	Tier4: "Tier 4: The Enemy",
}

// Label returns the long form, e.g. "Tier 1: True Allies". Unset is "".
func (t Tier) Label() string {
	return tierLabels[t]
}

// Short returns the label before the colon, e.g. "Tier 1".
func (t Tier) Short() string {
	if !t.Valid() {
		return ""
	}
	return fmt.Sprintf("Tier %d", int(t))
}

// Valid reports whether t is one of Tier1..Tier4.
func (t Tier) Valid() bool {
	return t >= Tier1 && t <= Tier4
}

func (t Tier) String() string {
	if !t.Valid() {
		return "unset"
	}
	return t.Label()
}

// ParseTier accepts a long label, a short label ("Tier 2"), or a bare
// number ("2"). The empty string parses to TierUnset.
func ParseTier(s string) (Tier, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TierUnset, nil
	}
	for _, t := range Tiers {
		if strings.EqualFold(s, t.Label()) || strings.EqualFold(s, t.Short()) || s == fmt.Sprint(int(t)) {
			return t, nil
		}
	}
	return TierUnset, fmt.Errorf("unknown tier %q", s)
}
