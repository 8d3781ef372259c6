// Package text holds the query normalization and word-set helpers shared by
// the cache, the learning store and the retriever.
package text

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a o e as os um uma uns umas de da do das dos em na no nas nos por para pra com que qual quais
		onde como quando me se ao aos eu voce você tem ter sobre mais muito
		the an of to in on at for from is are was be and or with what which where how when who
		me my i you your it its this that there please can could would do does`) {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether w is in the fixed stopword list.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// Clean lowercases s, replaces punctuation with spaces and collapses whitespace.
func Clean(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// Normalize cleans s and drops stopwords.
func Normalize(s string) string {
	return strings.Join(Words(s), " ")
}

// Words returns the cleaned, stopword-free words of s in order.
func Words(s string) []string {
	fields := strings.Fields(Clean(s))
	out := fields[:0]
	for _, f := range fields {
		if IsStopword(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// WordSet returns the set of normalized words longer than two characters.
func WordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range Words(s) {
		if len([]rune(w)) > 2 {
			set[w] = struct{}{}
		}
	}
	return set
}

// Jaccard is |a∩b| / |a∪b|. Two empty sets are identical.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// Similarity is the Jaccard similarity of the word sets of two strings.
func Similarity(x, y string) float64 {
	return Jaccard(WordSet(x), WordSet(y))
}

// Signature returns at most n leading normalized words of s.
func Signature(s string, n int) []string {
	words := Words(s)
	if len(words) > n {
		words = words[:n]
	}
	return words
}

// CommonWords counts distinct words shared by a and b.
func CommonWords(a, b []string) int {
	seen := make(map[string]struct{}, len(a))
	for _, w := range a {
		seen[w] = struct{}{}
	}
	n := 0
	for _, w := range b {
		if _, ok := seen[w]; ok {
			n++
			delete(seen, w)
		}
	}
	return n
}

// Fingerprint is a stable short hash of s.
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}

// ContainsAny reports whether haystack contains any of the phrases.
func ContainsAny(haystack string, phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(haystack, p) {
			return true
		}
	}
	return false
}
