// Package fuel maps free-text fuel labels onto a fixed canonical
// vocabulary so downstream grouping and filtering see one spelling
// per fuel type.
package fuel

import "strings"

// Other is the canonical category for unrecognized or empty labels.
const Other = "Other"

// canonicals is keyed by the lowercased, space-stripped raw label.
var canonicals = map[string]string{
	"battery":          "Battery",
	"bioenergy":        "Bioenergy",
	"bagasse":          "Bagasse",
	"browncoal":        "Brown Coal",
	"blackcoal":        "Black Coal",
	"coal":             "Coal",
	"diesel":           "Diesel",
	"distillate":       "Diesel",
	"gas":              "Gas",
	"wastecoalminegas": "Waste Coal Mine Gas",
	"landfillgas":      "Landfill Gas",
	"hydro":            "Hydro",
	"wind":             "Wind",
	"solar":            "Solar",
	"wood":             "Wood",
}
// Normalize maps a raw fuel label to its canonical category. Lookup is
// case and whitespace insensitive; anything unrecognized or empty maps
// to Other so callers never deal with an open vocabulary.
func Normalize(raw string) string {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), " ", ""))
	if key == "" {
		return Other
	}
	if canonical, ok := canonicals[key]; ok {
		return canonical
	}
	return Other
}
