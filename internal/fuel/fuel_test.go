package fuel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCanonicals(t *testing.T) {
	cases := map[string]string{
		"coal":                "Coal",
		"Black Coal":          "Black Coal",
		"blackcoal":           "Black Coal",
		"BROWN COAL":          "Brown Coal",
		"distillate":          "Diesel",
		"diesel":              "Diesel",
		"Waste Coal Mine Gas": "Waste Coal Mine Gas",
		"landfill gas":        "Landfill Gas",
		"Hydro":               "Hydro",
		"wind":                "Wind",
		"SOLAR":               "Solar",
		"bagasse":             "Bagasse",
		"wood":                "Wood",
		"battery":             "Battery",
		"bioenergy":           "Bioenergy",
		"gas":                 "Gas",
	}

	for raw, want := range cases {
		assert.Equal(t, want, Normalize(raw), "raw label %q", raw)
	}
}

func TestNormalizeInsensitiveToSpacing(t *testing.T) {
	assert.Equal(t, "Black Coal", Normalize("  black  coal "))
	assert.Equal(t, "Landfill Gas", Normalize("LandfillGas"))
}

func TestNormalizeUnknownAndEmpty(t *testing.T) {
	assert.Equal(t, Other, Normalize("antimatter"))
	assert.Equal(t, Other, Normalize(""))
	assert.Equal(t, Other, Normalize("   "))
}
