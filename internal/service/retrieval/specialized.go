package retrieval

import (
	"strings"

	"github.com/sandevgo/guata/internal/core"
	"github.com/sandevgo/guata/pkg/text"
)

type lookup struct {
	kind     string
	key      string
	query    string
	category string
}

var airportWords = []string{"airport", "aeroporto", "cgr"}

const defaultLocation = "campo grande"

// matchLookup picks the first specialized lookup whose trigger matches.
// Lodging near the airport wins over dining, dining over attractions.
func matchLookup(query string, a core.Analysis) (lookup, bool) {
	words := text.Words(query)
	location := locationOf(a)
	slug := strings.ReplaceAll(location, " ", "-")

	switch {
	case a.Topic == "lodging" && hasAny(words, airportWords):
		return lookup{
			kind:     "lodging-airport",
			key:      "specialized:lodging-airport:campo-grande",
			query:    "hotels near Campo Grande international airport",
			category: "hotel",
		}, true
	case a.Topic == "dining" || a.Category == "restaurant":
		return lookup{
			kind:     "dining",
			key:      "specialized:dining:" + slug,
			query:    "best restaurants in " + location + " Mato Grosso do Sul",
			category: "restaurant",
		}, true
	case a.Category == "attraction":
		return lookup{
			kind:     "attractions",
			key:      "specialized:attractions:" + slug,
			query:    "top attractions in " + location + " Mato Grosso do Sul",
			category: "attraction",
		}, true
	}
	return lookup{}, false
}

func locationOf(a core.Analysis) string {
	for _, e := range a.Entities {
		switch e {
		case "pantanal", "campo grande", "bonito", "corumbá", "dourados", "três lagoas", "aquidauana", "miranda":
			return e
		}
	}
	return defaultLocation
}

func hasAny(words, candidates []string) bool {
	for _, w := range words {
		for _, c := range candidates {
			if w == c {
				return true
			}
		}
	}
	return false
}
