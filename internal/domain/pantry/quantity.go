package pantry

import (
	"strconv"
	"strings"
)

// Quantity is the parsed form of a free-text quantity string such as
// "2 lbs" or "500g". Magnitude is never negative.
type Quantity struct {
	Magnitude float64
	Unit      string
}

// String re-serializes the quantity as "<magnitude> <unit>", omitting the
// unit when it is empty.
func (q Quantity) String() string {
	mag := strconv.FormatFloat(q.Magnitude, 'f', -1, 64)
	if q.Unit == "" {
		return mag
	}
	return mag + " " + q.Unit
}

// ParseQuantity extracts a leading numeric token and trailing free-text
// unit from a raw quantity string. It accepts any input and never fails:
// when no numeric prefix is found the magnitude defaults to 1 and the
// entire string becomes the unit.
func ParseQuantity(raw string) Quantity {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Quantity{Magnitude: 1}
	}

	end := 0
	seenDigit := false
	for end < len(s) {
		ch := s[end]
		if ch >= '0' && ch <= '9' {
			seenDigit = true
			end++
			continue
		}
		if (ch == '.' || ch == ',') && seenDigit {
			end++
			continue
		}
		break
	}

	if !seenDigit {
		return Quantity{Magnitude: 1, Unit: s}
	}

	numeric := strings.ReplaceAll(s[:end], ",", ".")
	magnitude, err := strconv.ParseFloat(strings.TrimSuffix(numeric, "."), 64)
	if err != nil || magnitude < 0 {
		magnitude = 1
	}

	return Quantity{
		Magnitude: magnitude,
		Unit:      strings.TrimSpace(s[end:]),
	}
}

// MergeQuantities combines two quantity strings by summing their
// magnitudes. The first non-empty unit wins, preferring a's, so that
// re-adding "Eggs" as "1 Unit" onto "6 large" yields "7 large".
func MergeQuantities(a, b string) string {
	qa := ParseQuantity(a)
	qb := ParseQuantity(b)

	unit := qa.Unit
	if unit == "" {
		unit = qb.Unit
	}

	return Quantity{Magnitude: qa.Magnitude + qb.Magnitude, Unit: unit}.String()
}
