package location

import "strings"

// stateAbbreviations maps full state names to the two-letter codes stored on
// location rows. Source CSVs use either form.
var stateAbbreviations = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR",
	"california": "CA", "colorado": "CO", "connecticut": "CT", "delaware": "DE",
	"district of columbia": "DC", "florida": "FL", "georgia": "GA",
	"hawaii": "HI", "idaho": "ID", "illinois": "IL", "indiana": "IN",
	"iowa": "IA", "kansas": "KS", "kentucky": "KY", "louisiana": "LA",
	"maine": "ME", "maryland": "MD", "massachusetts": "MA", "michigan": "MI",
	"minnesota": "MN", "mississippi": "MS", "missouri": "MO", "montana": "MT",
	"nebraska": "NE", "nevada": "NV", "new hampshire": "NH", "new jersey": "NJ",
	"new mexico": "NM", "new york": "NY", "north carolina": "NC",
	"north dakota": "ND", "ohio": "OH", "oklahoma": "OK", "oregon": "OR",
	"pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC",
	"south dakota": "SD", "tennessee": "TN", "texas": "TX", "utah": "UT",
	"vermont": "VT", "virginia": "VA", "washington": "WA",
	"west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
}

// NormalizeState returns the two-letter code for a state given either a full
// name or an abbreviation. Unknown values are returned trimmed and uppercased.
func NormalizeState(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if abbr, ok := stateAbbreviations[strings.ToLower(trimmed)]; ok {
		return abbr
	}
	return strings.ToUpper(trimmed)
}

// StateName returns the full name for a two-letter code, or the input when
// the code is unknown.
func StateName(code string) string {
	upper := strings.ToUpper(strings.TrimSpace(code))
	for name, abbr := range stateAbbreviations {
		if abbr == upper {
			return titleCase(name)
		}
	}
	return code
}

func titleCase(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if w == "of" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
