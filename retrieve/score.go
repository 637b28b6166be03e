package retrieve

import (
	"log"
	"math"
	"sort"
	"strings"

	"github.com/Clara-Ye/MIT9.66/assoc"
	"github.com/Clara-Ye/MIT9.66/stem"
)

// Score ranks every word reachable from the active stem keys. Each word's
// accumulator starts at 1 and is multiplied per matching entry by the
// entry's probability, a positional penalty when the fragment sits in the
// wrong half, and a penalty per known-absent letter occurrence. With no
// active keys, every table word of the target length competes on the sum
// of its probabilities instead. Scores are smoothed, adjusted toward the
// target length, and normalized to sum 1 unless everything zeroed out.
func Score(keys []stem.Key, gray []byte, targetLength int, table assoc.Table, p Params) map[string]float64 {
	scores := make(map[string]float64)
	if len(keys) > 0 {
		for _, key := range keys {
			entries := table.Lookup(key)
			if entries == nil {
				log.Printf("retrieve: stem %s has no associations", key)
				continue
			}
			for _, e := range entries {
				factor := e.Probability
				if misplacedHalf(key, e.Word) {
					factor *= p.PosPenalty
				}
				factor *= math.Pow(p.GrayPenalty, float64(grayCount(e.Word, gray)))
				acc, ok := scores[e.Word]
				if !ok {
					acc = 1
				}
				scores[e.Word] = acc * factor
			}
		}
	} else {
		for _, k := range table.Keys() {
			for _, e := range table[k] {
				if e.Length != targetLength {
					continue
				}
				scores[e.Word] += e.Probability * math.Pow(p.GrayPenalty, float64(grayCount(e.Word, gray)))
			}
		}
	}

	n := len(keys)
	if n < 1 {
		n = 1
	}
	exp := 1 / float64(n)
	for _, w := range sortedWords(scores) {
		scores[w] = math.Pow(scores[w]+p.Sigma, exp)
	}
	adjustByLength(scores, targetLength)
	normalize(scores)
	return scores
}

// misplacedHalf reports whether the key's half tag disagrees with where
// its fragment first occurs in the word relative to that word's own
// midpoint. Boundary markers pin their own position and never disagree.
func misplacedHalf(key stem.Key, word string) bool {
	if key.IsStartMarker() || key.IsEndMarker() {
		return false
	}
	i := strings.Index(word, key.Fragment)
	if i < 0 {
		return true
	}
	return stem.HalfAt(i, len(word)) != key.Half
}

// grayCount counts occurrences of known-absent letters in the word.
func grayCount(word string, gray []byte) int {
	n := 0
	for _, c := range gray {
		n += strings.Count(word, string(c))
	}
	return n
}

// adjustByLength boosts exact-length words and zeroes words more than one
// natural-log unit away from the target length.
func adjustByLength(scores map[string]float64, targetLength int) {
	targetLog := math.Log(float64(targetLength))
	for w, s := range scores {
		diff := math.Abs(math.Log(float64(len(w))) - targetLog)
		if diff == 0 {
			scores[w] = s * 3
		} else if diff > 1 {
			scores[w] = 0
		}
	}
}

// normalize scales the scores to sum 1. When no word scored above zero
// the map is left all-zero rather than dividing by zero.
func normalize(scores map[string]float64) {
	total := 0.0
	for _, w := range sortedWords(scores) {
		total += scores[w]
	}
	if total <= 0 {
		for w := range scores {
			scores[w] = 0
		}
		return
	}
	for w, s := range scores {
		scores[w] = s / total
	}
}

func sortedWords(scores map[string]float64) []string {
	words := make([]string, 0, len(scores))
	for w := range scores {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Candidate pairs a word with its normalized score.
type Candidate struct {
	Word  string
	Score float64
}

// Rank orders scored words best first, breaking ties alphabetically so a
// fixed seed replays identically.
func Rank(scores map[string]float64) []Candidate {
	ranked := make([]Candidate, 0, len(scores))
	for w, s := range scores {
		ranked = append(ranked, Candidate{Word: w, Score: s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Word < ranked[j].Word
	})
	return ranked
}

// Top returns the n best candidates for the given stems and target
// length, or all of them when n <= 0.
func Top(keys []stem.Key, targetLength int, table assoc.Table, p Params, n int) []Candidate {
	ranked := Rank(Score(keys, nil, targetLength, table, p))
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
