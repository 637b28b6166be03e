// Package assoc learns and stores the stem-to-word association table: for
// every stem key, the words it evokes, weighted by corpus frequency and
// attention position, normalized to a probability distribution.
package assoc

import (
	"sort"

	mapset "github.com/deckarep/golang-set"

	"github.com/Clara-Ye/MIT9.66/stem"
)

// Entry is one learned association under a stem key. Weight is the raw
// accumulated attention; Probability is its normalized share of the key.
type Entry struct {
	Word        string  `json:"word"`
	Length      int     `json:"length"`
	Weight      float64 `json:"weight"`
	Probability float64 `json:"probability"`
}

// Table maps serialized stem keys to their associations in insertion
// order. After Normalize the table is read-only and safe to share across
// concurrently running games.
type Table map[string][]*Entry

// Add accumulates weight for the (key, word) pair, appending a new entry
// the first time the pair is seen.
func (t Table) Add(key, word string, weight float64) {
	for _, e := range t[key] {
		if e.Word == word {
			e.Weight += weight
			return
		}
	}
	t[key] = append(t[key], &Entry{Word: word, Length: len(word), Weight: weight})
}

// Normalize derives every entry's probability from its share of the key's
// total weight. A key whose weights sum to zero gets all-zero
// probabilities.
func (t Table) Normalize() {
	for _, entries := range t {
		total := 0.0
		for _, e := range entries {
			total += e.Weight
		}
		for _, e := range entries {
			if total > 0 {
				e.Probability = e.Weight / total
			} else {
				e.Probability = 0
			}
		}
	}
}

// Lookup returns the associations under a stem key, nil when the key was
// never learned.
func (t Table) Lookup(k stem.Key) []*Entry {
	return t[k.String()]
}

// Keys returns the stem keys in sorted order for deterministic iteration.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Size is the total number of associations across all keys.
func (t Table) Size() int {
	n := 0
	for _, entries := range t {
		n += len(entries)
	}
	return n
}

// WordsOfLength returns the distinct words of the given length appearing
// anywhere in the table, sorted for deterministic sampling.
func (t Table) WordsOfLength(length int) []string {
	seen := mapset.NewSet()
	words := make([]string, 0)
	for _, entries := range t {
		for _, e := range entries {
			if e.Length == length && !seen.Contains(e.Word) {
				seen.Add(e.Word)
				words = append(words, e.Word)
			}
		}
	}
	sort.Strings(words)
	return words
}
