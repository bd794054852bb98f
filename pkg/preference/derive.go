package preference

import "strings"

// sourceBias maps normalized source names to bias labels, distilled from the
// AllSides ratings the dashboard ships with. Sources not listed rate as
// unknown.
var sourceBias = map[string]string{
	"ABC News":                   "left-center",
	"AP":                         "center",
	"Al Jazeera":                 "left-center",
	"Axios":                      "center",
	"BBC News":                   "center",
	"Bloomberg":                  "left-center",
	"Breitbart News":             "right",
	"CBS News":                   "left-center",
	"CNN (Web News)":             "left",
	"Fox Online News":            "right",
	"HuffPost":                   "left",
	"MSNBC":                      "left",
	"NBCNews.com":                "left-center",
	"NPR Online News":            "center",
	"National Review":            "right",
	"New York Times - News":      "left-center",
	"Newsweek":                   "center",
	"Politico":                   "left-center",
	"Reuters":                    "center",
	"The Atlantic":               "left",
	"The Guardian":               "left-center",
	"The Hill":                   "center",
	"USA TODAY":                  "left-center",
	"Vox":                        "left",
	"Wall Street Journal - News": "center",
	"Washington Post":            "left-center",
	"Washington Times":           "right-center",
	"Yahoo! News":                "left-center",
}

// BiasForSource returns the bias code for a source name, falling back to the
// unknown bucket.
func BiasForSource(source string) int {
	label, ok := sourceBias[strings.TrimSpace(source)]
	if !ok {
		label = "unknown"
	}
	code, err := CodeFor(EnumBias, label)
	if err != nil {
		return len(forward[EnumBias]) - 1
	}
	return code
}

// ReadTimeBucket buckets article length in characters into the read-time
// codes: under 2 minutes, 2-7 minutes, over 7 minutes. Assumes roughly five
// characters per word at 250 words per minute.
func ReadTimeBucket(charLength int) int {
	if charLength <= 0 {
		return 0
	}
	words := float64(charLength) / 5
	mins := words / 250
	switch {
	case mins < 2:
		return 0
	case mins <= 7:
		return 1
	default:
		return 2
	}
}
