package deferrable

import "github.com/sahilm/fuzzy"

// suggest returns the candidate that best matches word, or "" if none does.
//
// A candidate matches when the characters of word appear in it in order
// (a prefix or abbreviation), or when the candidate's characters appear in
// word in order (word carries extra characters).
func suggest(word string, candidates []string) string {
	if word == "" || len(candidates) == 0 {
		return ""
	}

	if matches := fuzzy.Find(word, candidates); len(matches) > 0 {
		return matches[0].Str
	}

	best, score := "", 0

	for _, c := range candidates {
		m := fuzzy.Find(c, []string{word})
		if len(m) > 0 && (best == "" || m[0].Score > score) {
			best, score = c, m[0].Score
		}
	}

	return best
}
