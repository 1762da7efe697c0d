package dedupe

import "strings"

// TrigramSimilarity computes the pg_trgm-style trigram similarity between
// two normalized names: each word is padded with two leading and one
// trailing space before trigram extraction, and the result is
// |intersection| / |union| over the distinct trigram sets.
func TrigramSimilarity(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var inter int
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToUpper(s)) {
		padded := "  " + word + " "
		for i := 0; i+3 <= len(padded); i++ {
			set[padded[i:i+3]] = struct{}{}
		}
	}
	return set
}

// TokenJaccard computes the Jaccard overlap of the word sets of two
// addresses, after uppercasing and stripping punctuation.
func TokenJaccard(a, b string) float64 {
	ta := addressTokens(a)
	tb := addressTokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	var inter int
	for t := range ta {
		if _, ok := tb[t]; ok {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

var addressCleaner = strings.NewReplacer(",", " ", ".", "", "-", " ", "/", " ", "#", " ")

func addressTokens(s string) map[string]struct{} {
	set := make(map[string]struct{})
	cleaned := addressCleaner.Replace(strings.ToUpper(s))
	for _, tok := range strings.Fields(cleaned) {
		set[tok] = struct{}{}
	}
	return set
}
