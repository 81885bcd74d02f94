package pantry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		magnitude float64
		unit      string
	}{
		{"integer with unit", "2 lbs", 2, "lbs"},
		{"decimal", "1.5 cups", 1.5, "cups"},
		{"comma decimal", "1,5 kg", 1.5, "kg"},
		{"no space before unit", "500g", 500, "g"},
		{"bare number", "3", 3, ""},
		{"no numeric prefix", "a few", 1, "a few"},
		{"empty", "", 1, ""},
		{"whitespace only", "   ", 1, ""},
		{"trailing dot", "2. lbs", 2, "lbs"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ParseQuantity(tt.raw)
			assert.Equal(t, tt.magnitude, q.Magnitude)
			assert.Equal(t, tt.unit, q.Unit)
		})
	}
}

func TestQuantityString(t *testing.T) {
	assert.Equal(t, "2 lbs", Quantity{Magnitude: 2, Unit: "lbs"}.String())
	assert.Equal(t, "1.5 cups", Quantity{Magnitude: 1.5, Unit: "cups"}.String())
	assert.Equal(t, "3", Quantity{Magnitude: 3}.String())
}

func TestParseQuantityRoundTrip(t *testing.T) {
	for _, raw := range []string{"2 lbs", "1.5 cups", "500 g", "3"} {
		assert.Equal(t, raw, ParseQuantity(raw).String())
	}
}

func TestMergeQuantities(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want string
	}{
		{"same unit", "2 lbs", "3 lbs", "5 lbs"},
		{"first unit wins", "6 large", "1 Unit", "7 large"},
		{"empty first unit", "2", "1 cans", "3 cans"},
		{"both bare", "2", "3", "5"},
		{"decimal sum", "1.5 cups", "0.5 cups", "2 cups"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeQuantities(tt.a, tt.b))
		})
	}
}
