// Package retrieve turns hint state and the learned association table
// into the model's next guess: it scores candidates, walks them in score
// order under a probability threshold, and degrades through fallback
// tiers so a guess of the right length always comes back.
package retrieve

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/bits-and-blooms/bitset"
	mapset "github.com/deckarep/golang-set"

	"github.com/Clara-Ye/MIT9.66/assoc"
	"github.com/Clara-Ye/MIT9.66/hint"
	"github.com/Clara-Ye/MIT9.66/stem"
)

// Session carries the cross-turn retrieval state of one game: every word
// already considered or played, and the random source behind each
// stochastic choice. One session serves one game at a time.
type Session struct {
	Searched mapset.Set
	rng      *rand.Rand
}

// NewSession starts an empty session over the given random source.
func NewSession(rng *rand.Rand) *Session {
	return &Session{Searched: mapset.NewSet(), rng: rng}
}

// ActiveKeys translates the hint state into the stem keys to score. A
// green letter pins itself to its slot's half. A yellow letter fans out
// over every slot its exclusion set still allows, which may tag the same
// letter with both halves; the ambiguity is deliberate, its true slot is
// unknown.
func ActiveKeys(st *hint.State, targetLength int) []stem.Key {
	keys := make([]stem.Key, 0)
	seen := make(map[stem.Key]bool)
	add := func(k stem.Key) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for i, g := range st.Green {
		if g == 0 {
			continue
		}
		add(stem.Key{Fragment: string(g), Half: stem.HalfAt(i, targetLength)})
	}
	for _, c := range st.YellowLetters() {
		for slot := 0; slot < targetLength; slot++ {
			if st.YellowInvalid(c, slot) {
				continue
			}
			add(stem.Key{Fragment: string(c), Half: stem.HalfAt(slot, targetLength)})
		}
	}
	return keys
}

// FindAnswer produces the model's next guess. Before any feedback it
// opens per the configured start strategy. Afterwards it walks the
// scored candidates best first under the threshold, accepting per the
// match policy; when that exhausts, any well-scored unplayed word of the
// right length serves; when even that fails, a guess is synthesized from
// the letters the hints still allow. The returned word always has
// exactly targetLength letters and is recorded in the session.
func FindAnswer(st *hint.State, targetLength int, table assoc.Table, sess *Session, threshold float64, p Params) string {
	if st.Empty() {
		word := startWord(p.Strategy, targetLength, table, sess)
		sess.Searched.Add(word)
		return word
	}

	keys := ActiveKeys(st, targetLength)
	ranked := Rank(Score(keys, st.GrayLetters(), targetLength, table, p))
	prior := sess.Searched.Clone()

	for _, c := range ranked {
		if sess.Searched.Contains(c.Word) || c.Score < threshold {
			continue
		}
		sess.Searched.Add(c.Word)
		if accepts(st, keys, c.Word, targetLength, p, sess.rng) {
			return c.Word
		}
	}

	// constraints defeated every candidate; settle for any well-scored
	// word of the right length not seen before this turn
	for _, c := range ranked {
		if len(c.Word) != targetLength || c.Score < threshold || prior.Contains(c.Word) {
			continue
		}
		sess.Searched.Add(c.Word)
		return c.Word
	}

	word := synthesize(st, targetLength, sess.rng)
	sess.Searched.Add(word)
	return word
}

// accepts decides whether a candidate may be played. Both policies demand
// the exact target length. Strict then requires every active fragment;
// soft draws against the candidate's validity.
func accepts(st *hint.State, keys []stem.Key, word string, targetLength int, p Params, rng *rand.Rand) bool {
	if len(word) != targetLength {
		return false
	}
	switch p.Policy {
	case MatchStrict:
		return matchesKeys(keys, word)
	case MatchSoft:
		v := validity(st, word, p)
		return v > p.ValidThreshold && rng.Float64() < v
	}
	panic(fmt.Sprintf("unknown match policy %d", int(p.Policy)))
}

// matchesKeys reports strict consistency: every active fragment appears
// in the word, with marker keys anchored to the word edges.
func matchesKeys(keys []stem.Key, word string) bool {
	for _, k := range keys {
		switch {
		case k.IsStartMarker():
			if !strings.HasPrefix(word, k.Bare()) {
				return false
			}
		case k.IsEndMarker():
			if !strings.HasSuffix(word, k.Bare()) {
				return false
			}
		default:
			if !strings.Contains(word, k.Fragment) {
				return false
			}
		}
	}
	return true
}

// validity grades how well a word honors the hints, starting at 1 and
// taking a multiplicative hit per violation: a required letter absent, a
// required letter at a slot it was ruled out of, or a forbidden letter
// present.
func validity(st *hint.State, word string, p Params) float64 {
	v := 1.0
	for i, g := range st.Green {
		if g == 0 || (i < len(word) && word[i] == g) {
			continue
		}
		if strings.IndexByte(word, g) < 0 {
			v *= p.MissingPenalty
		} else {
			v *= p.MisplacedPenalty
		}
	}
	for _, c := range st.YellowLetters() {
		if strings.IndexByte(word, c) < 0 {
			v *= p.MissingPenalty
			continue
		}
		set := st.Yellow[c]
		for slot, ok := set.NextSet(0); ok; slot, ok = set.NextSet(slot + 1) {
			if int(slot) < len(word) && word[slot] == c {
				v *= p.MisplacedPenalty
			}
		}
	}
	for _, c := range st.GrayLetters() {
		if strings.IndexByte(word, c) >= 0 {
			v *= p.ForbiddenPenalty
		}
	}
	return v
}

// startWord opens the game per the configured strategy. Seed lists are
// cut to the target length first; a strategy left with no usable seeds
// degrades to drawing from the table.
func startWord(strategy StartStrategy, targetLength int, table assoc.Table, sess *Session) string {
	switch strategy {
	case StartVowels:
		return uniformSeed(vowelSeeds, targetLength, table, sess)
	case StartOptimal:
		return uniformSeed(optimalSeeds, targetLength, table, sess)
	case StartPopular:
		return weightedSeed(targetLength, table, sess)
	case StartRandom:
		return randomTableWord(targetLength, table, sess)
	}
	panic(fmt.Sprintf("unknown start strategy %d", int(strategy)))
}

func uniformSeed(seeds []string, targetLength int, table assoc.Table, sess *Session) string {
	fit := make([]string, 0, len(seeds))
	for _, w := range seeds {
		if len(w) == targetLength {
			fit = append(fit, w)
		}
	}
	if len(fit) == 0 {
		return randomTableWord(targetLength, table, sess)
	}
	return fit[sess.rng.Intn(len(fit))]
}

func weightedSeed(targetLength int, table assoc.Table, sess *Session) string {
	fit := make([]int, 0, len(popularSeeds))
	total := 0.0
	for i, s := range popularSeeds {
		if len(s.word) == targetLength {
			fit = append(fit, i)
			total += s.weight
		}
	}
	if len(fit) == 0 || total <= 0 {
		return randomTableWord(targetLength, table, sess)
	}
	draw := sess.rng.Float64() * total
	for _, i := range fit {
		draw -= popularSeeds[i].weight
		if draw < 0 {
			return popularSeeds[i].word
		}
	}
	return popularSeeds[fit[len(fit)-1]].word
}

func randomTableWord(targetLength int, table assoc.Table, sess *Session) string {
	words := table.WordsOfLength(targetLength)
	if len(words) == 0 {
		return synthesize(hint.New(targetLength), targetLength, sess.rng)
	}
	return words[sess.rng.Intn(len(words))]
}

// synthesize builds the last-resort guess from scratch: random distinct
// letters, avoiding gray letters and slots a yellow letter was ruled out
// of. A slot whose pool empties relaxes to the full alphabet rather than
// failing.
func synthesize(st *hint.State, targetLength int, rng *rand.Rand) string {
	used := bitset.New(26)
	word := make([]byte, targetLength)
	for slot := 0; slot < targetLength; slot++ {
		pool := bitset.New(26).Complement()
		pool.InPlaceDifference(st.Gray)
		for _, c := range st.YellowLetters() {
			if st.YellowInvalid(c, slot) {
				pool.Clear(uint(c - 'A'))
			}
		}
		pool.InPlaceDifference(used)
		if pool.None() {
			pool = bitset.New(26).Complement()
		}
		c := pickLetter(pool, rng)
		word[slot] = c
		used.Set(uint(c - 'A'))
	}
	return string(word)
}

func pickLetter(pool *bitset.BitSet, rng *rand.Rand) byte {
	letters := make([]uint, pool.Count())
	pool.NextSetMany(0, letters)
	return byte('A' + letters[rng.Intn(len(letters))])
}
