package retrieval

import (
	"sort"
	"strings"

	"github.com/sandevgo/guata/pkg/text"
)

const (
	keywordWeight  = 0.25
	coverageWeight = 0.5
	categoryBonus  = 0.15
	minScore       = 0.3
	maxResults     = 5
)

type scored struct {
	entry Entry
	score float64
}

type index struct {
	entries  []Entry
	keywords [][]string
	vocab    []map[string]struct{}
}

func newIndex(entries []Entry) *index {
	idx := &index{entries: entries}
	for _, e := range entries {
		kws := make([]string, 0, len(e.Keywords))
		for _, k := range e.Keywords {
			if c := text.Clean(k); c != "" {
				kws = append(kws, c)
			}
		}
		idx.keywords = append(idx.keywords, kws)
		idx.vocab = append(idx.vocab, text.WordSet(e.Title+" "+e.Content+" "+strings.Join(e.Keywords, " ")))
	}
	return idx
}

// search scores every entry against query. An entry scores
// min(1, 0.25*keyword hits + 0.5*query coverage), plus a bonus when its
// category matches.
func (idx *index) search(query, category string) []scored {
	padded := " " + text.Clean(query) + " "
	words := text.WordSet(query)

	var out []scored
	for i, e := range idx.entries {
		hits := 0
		for _, k := range idx.keywords[i] {
			if strings.Contains(padded, " "+k+" ") {
				hits++
			}
		}

		coverage := 0.0
		if len(words) > 0 {
			covered := 0
			for w := range words {
				if _, ok := idx.vocab[i][w]; ok {
					covered++
				}
			}
			coverage = float64(covered) / float64(len(words))
		}

		score := min(1, keywordWeight*float64(hits)+coverageWeight*coverage)
		if category != "" && e.Category == category {
			score += categoryBonus
		}
		if score >= minScore {
			out = append(out, scored{entry: e, score: score})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })
	if len(out) > maxResults {
		out = out[:maxResults]
	}
	return out
}
