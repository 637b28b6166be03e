package retrieve

import (
	"math/rand"
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/assert"

	"github.com/Clara-Ye/MIT9.66/assoc"
	"github.com/Clara-Ye/MIT9.66/corpus"
	"github.com/Clara-Ye/MIT9.66/hint"
	"github.com/Clara-Ye/MIT9.66/stem"
)

// buildTable learns with eta=0 so every stem always forms an association
// and the table content does not depend on the seed.
func buildTable(t *testing.T, rows ...corpus.Row) assoc.Table {
	t.Helper()
	learner := assoc.NewLearner(0, 0.9, rand.New(rand.NewSource(1)))
	for _, row := range rows {
		assert.NoError(t, learner.Observe(row.Word, row.Frequency))
	}
	return learner.Finish()
}

// cloudState is the mid-game position: O confirmed in the middle slot, L
// known present but not first, A known absent.
func cloudState(t *testing.T) *hint.State {
	t.Helper()
	st := hint.New(5)
	st.Green[2] = 'O'
	st.Yellow['L'] = bitset.New(5)
	st.Yellow['L'].Set(0)
	st.Gray.Set('A' - 'A')
	return st
}

func TestScoreEmptyKeys(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t,
		corpus.Row{Word: "CLOUD", Frequency: 5},
		corpus.Row{Word: "ALOUD", Frequency: 3},
		corpus.Row{Word: "EDEN", Frequency: 2},
	)
	scores := Score(nil, nil, 5, table, DefaultParams())
	assert.Contains(scores, "CLOUD")
	assert.Contains(scores, "ALOUD")
	assert.NotContains(scores, "EDEN")
	assert.Greater(scores["CLOUD"], scores["ALOUD"])
	total := 0.0
	for _, s := range scores {
		total += s
	}
	assert.InDelta(1.0, total, 1e-9)
}

func TestScoreActiveKeys(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t,
		corpus.Row{Word: "CLOUD", Frequency: 5},
		corpus.Row{Word: "ALOUD", Frequency: 3},
	)
	keys := []stem.Key{{Fragment: "L", Half: stem.FirstHalf}}
	scores := Score(keys, []byte{'A'}, 5, table, DefaultParams())
	// under L|FIRST_HALF the split is 5/8 vs 3/8, and ALOUD's A eats a
	// further 0.7
	assert.InDelta(0.7042, scores["CLOUD"], 1e-3)
	assert.Greater(scores["CLOUD"], scores["ALOUD"])
	total := scores["CLOUD"] + scores["ALOUD"]
	assert.InDelta(1.0, total, 1e-9)
}

func TestScorePositionalPenalty(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t,
		corpus.Row{Word: "SALSA", Frequency: 1},
		corpus.Row{Word: "AMISS", Frequency: 1},
	)
	// SALSA's first S is in the first half, so the second-half key
	// penalizes it below AMISS despite its larger weight
	keys := []stem.Key{{Fragment: "S", Half: stem.SecondHalf}}
	scores := Score(keys, nil, 5, table, DefaultParams())
	assert.Greater(scores["AMISS"], scores["SALSA"])
}

func TestScoreMissingKey(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t, corpus.Row{Word: "CLOUD", Frequency: 5})
	keys := []stem.Key{{Fragment: "Q", Half: stem.FirstHalf}}
	assert.Empty(Score(keys, nil, 5, table, DefaultParams()))
}

func TestScoreLengthWindow(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t,
		corpus.Row{Word: "CAT", Frequency: 2},
		corpus.Row{Word: "T", Frequency: 1},
	)
	keys := []stem.Key{{Fragment: "*T", Half: stem.SecondHalf}}
	scores := Score(keys, nil, 3, table, DefaultParams())
	// a one-letter word is over a log unit away from length three
	assert.Zero(scores["T"])
	assert.InDelta(1.0, scores["CAT"], 1e-9)
}

func TestScoreLengthBoost(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t,
		corpus.Row{Word: "CAT", Frequency: 1},
		corpus.Row{Word: "MOAT", Frequency: 1},
	)
	keys := []stem.Key{{Fragment: "*T", Half: stem.SecondHalf}}
	scores := Score(keys, nil, 4, table, DefaultParams())
	// CAT holds the larger share under *T but only MOAT gets the exact
	// length boost
	assert.Greater(scores["MOAT"], scores["CAT"])
	assert.Positive(scores["CAT"])
}

func TestScoreDeterministic(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t,
		corpus.Row{Word: "CLOUD", Frequency: 5},
		corpus.Row{Word: "ALOUD", Frequency: 3},
		corpus.Row{Word: "CROWD", Frequency: 2},
		corpus.Row{Word: "CLEAN", Frequency: 7},
	)
	keys := []stem.Key{
		{Fragment: "L", Half: stem.FirstHalf},
		{Fragment: "O", Half: stem.SecondHalf},
	}
	first := Score(keys, []byte{'A', 'B'}, 5, table, DefaultParams())
	second := Score(keys, []byte{'A', 'B'}, 5, table, DefaultParams())
	assert.Equal(first, second)
}

func TestRankBreaksTiesAlphabetically(t *testing.T) {
	assert := assert.New(t)
	ranked := Rank(map[string]float64{"BRACE": 0.3, "ABACK": 0.3, "CLOUD": 0.4})
	assert.Equal([]Candidate{
		{Word: "CLOUD", Score: 0.4},
		{Word: "ABACK", Score: 0.3},
		{Word: "BRACE", Score: 0.3},
	}, ranked)
}

func TestTop(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t,
		corpus.Row{Word: "CLOUD", Frequency: 5},
		corpus.Row{Word: "CLARA", Frequency: 3},
		corpus.Row{Word: "CUP", Frequency: 1},
	)
	keys := []stem.Key{{Fragment: "C*", Half: stem.FirstHalf}}
	top := Top(keys, 5, table, DefaultParams(), 2)
	assert.Len(top, 2)
	assert.Equal("CLOUD", top[0].Word)
	assert.Equal("CLARA", top[1].Word)
	assert.GreaterOrEqual(top[0].Score, top[1].Score)
}

func TestActiveKeys(t *testing.T) {
	assert := assert.New(t)
	st := hint.New(5)
	st.Green[2] = 'O'
	st.Yellow['B'] = bitset.New(5)
	st.Yellow['B'].Set(3)
	st.Yellow['B'].Set(4)
	st.Yellow['L'] = bitset.New(5)
	st.Yellow['L'].Set(0)

	keys := ActiveKeys(st, 5)
	assert.Equal([]stem.Key{
		{Fragment: "O", Half: stem.SecondHalf},
		{Fragment: "B", Half: stem.FirstHalf},
		{Fragment: "B", Half: stem.SecondHalf},
		{Fragment: "L", Half: stem.FirstHalf},
		{Fragment: "L", Half: stem.SecondHalf},
	}, keys)
}

func TestMatchesKeys(t *testing.T) {
	assert := assert.New(t)
	keys := []stem.Key{
		{Fragment: "C*", Half: stem.FirstHalf},
		{Fragment: "*D", Half: stem.SecondHalf},
		{Fragment: "LO", Half: stem.FirstHalf},
	}
	assert.True(matchesKeys(keys, "CLOUD"))
	assert.False(matchesKeys(keys, "BLOND"))
	assert.False(matchesKeys(keys, "CLOUT"))
	assert.False(matchesKeys(keys, "CHORD"))
	assert.True(matchesKeys(nil, "ANYTHING"))
}

func TestValidity(t *testing.T) {
	assert := assert.New(t)
	p := DefaultParams()
	st := hint.New(5)
	st.Green[0] = 'C'
	st.Yellow['L'] = bitset.New(5)
	st.Yellow['L'].Set(0)
	st.Gray.Set('A' - 'A')

	// C absent entirely and L at its excluded slot
	assert.InDelta(0.2*0.5, validity(st, "LOUDS", p), 1e-12)
	// C in the wrong slot, A present
	assert.InDelta(0.5*0.6, validity(st, "OCALE", p), 1e-12)
	// everything honored
	assert.InDelta(1.0, validity(st, "CLOUD", p), 1e-12)
}

func TestFindAnswerVowelsStart(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t, corpus.Row{Word: "CLOUD", Frequency: 5})
	seeds := map[string]bool{}
	for _, w := range vowelSeeds {
		seeds[w] = true
	}
	for i := 0; i < 20; i++ {
		sess := NewSession(rand.New(rand.NewSource(int64(i))))
		word := FindAnswer(hint.New(5), 5, table, sess, 0.001, DefaultParams())
		assert.True(seeds[word], "got %q", word)
		assert.True(sess.Searched.Contains(word))
	}
}

func TestFindAnswerStartFallsBackToTable(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t, corpus.Row{Word: "EDEN", Frequency: 3})
	sess := NewSession(rand.New(rand.NewSource(1)))
	// no four-letter seed exists, so the opener comes from the table
	word := FindAnswer(hint.New(4), 4, table, sess, 0.001, DefaultParams())
	assert.Equal("EDEN", word)
}

func TestFindAnswerStartSynthesizesOnEmptyTable(t *testing.T) {
	assert := assert.New(t)
	sess := NewSession(rand.New(rand.NewSource(1)))
	word := FindAnswer(hint.New(4), 4, make(assoc.Table), sess, 0.001, DefaultParams())
	assert.Len(word, 4)
	for i := 0; i < len(word); i++ {
		assert.True(word[i] >= 'A' && word[i] <= 'Z')
	}
}

func TestFindAnswerPopularStart(t *testing.T) {
	assert := assert.New(t)
	p := DefaultParams()
	p.Strategy = StartPopular
	words := map[string]bool{}
	for _, s := range popularSeeds {
		words[s.word] = true
	}
	for i := 0; i < 20; i++ {
		sess := NewSession(rand.New(rand.NewSource(int64(i))))
		word := FindAnswer(hint.New(5), 5, make(assoc.Table), sess, 0.001, p)
		assert.True(words[word], "got %q", word)
	}
}

func TestFindAnswerRandomStart(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t,
		corpus.Row{Word: "CLOUD", Frequency: 5},
		corpus.Row{Word: "ALOUD", Frequency: 3},
	)
	p := DefaultParams()
	p.Strategy = StartRandom
	for i := 0; i < 10; i++ {
		sess := NewSession(rand.New(rand.NewSource(int64(i))))
		word := FindAnswer(hint.New(5), 5, table, sess, 0.001, p)
		assert.Contains([]string{"ALOUD", "CLOUD"}, word)
	}
}

func TestFindAnswerHonorsHints(t *testing.T) {
	for _, policy := range []MatchPolicy{MatchSoft, MatchStrict} {
		assert := assert.New(t)
		table := buildTable(t,
			corpus.Row{Word: "CLOUD", Frequency: 5},
			corpus.Row{Word: "ALOUD", Frequency: 3},
		)
		p := DefaultParams()
		p.Policy = policy
		sess := NewSession(rand.New(rand.NewSource(1)))
		word := FindAnswer(cloudState(t), 5, table, sess, 0.001, p)
		assert.Equal("CLOUD", word, "policy %s", policy)
	}
}

func TestFindAnswerFallsBackToBestScored(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t,
		corpus.Row{Word: "CLOUD", Frequency: 5},
		corpus.Row{Word: "ALOUD", Frequency: 3},
	)
	p := DefaultParams()
	p.ValidThreshold = 2 // validity never exceeds 1, so soft accepts nothing
	sess := NewSession(rand.New(rand.NewSource(1)))
	word := FindAnswer(cloudState(t), 5, table, sess, 0.001, p)
	assert.Equal("CLOUD", word)
	assert.True(sess.Searched.Contains("ALOUD"))
	assert.Equal(2, sess.Searched.Cardinality())
}

func TestFindAnswerExhaustsToSynthesized(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t,
		corpus.Row{Word: "CLOUD", Frequency: 5},
		corpus.Row{Word: "ALOUD", Frequency: 3},
	)
	sess := NewSession(rand.New(rand.NewSource(1)))
	st := cloudState(t)

	first := FindAnswer(st, 5, table, sess, 0.001, DefaultParams())
	assert.Equal("CLOUD", first)

	second := FindAnswer(st, 5, table, sess, 0.001, DefaultParams())
	assert.Equal("ALOUD", second)

	third := FindAnswer(st, 5, table, sess, 0.001, DefaultParams())
	assert.Len(third, 5)
	assert.NotContains([]string{"ALOUD", "CLOUD"}, third)
	assert.NotContains(third, "A")
	assert.NotEqual(byte('L'), third[0])
}

func TestSynthesizeRespectsHints(t *testing.T) {
	assert := assert.New(t)
	st := hint.New(5)
	for _, c := range []byte{'A', 'B', 'C'} {
		st.Gray.Set(uint(c - 'A'))
	}
	st.Yellow['L'] = bitset.New(5)
	st.Yellow['L'].Set(0)

	for i := 0; i < 30; i++ {
		word := synthesize(st, 5, rand.New(rand.NewSource(int64(i))))
		assert.Len(word, 5)
		assert.NotEqual(byte('L'), word[0])
		seen := map[byte]bool{}
		for j := 0; j < len(word); j++ {
			c := word[j]
			assert.NotContains([]byte{'A', 'B', 'C'}, c)
			assert.False(seen[c], "%q repeats %c", word, c)
			seen[c] = true
		}
	}
}

func TestSynthesizeRelaxesEmptyPool(t *testing.T) {
	assert := assert.New(t)
	st := hint.New(2)
	for c := byte('A'); c < 'Z'; c++ {
		st.Gray.Set(uint(c - 'A'))
	}
	word := synthesize(st, 2, rand.New(rand.NewSource(1)))
	assert.Len(word, 2)
	assert.Equal(byte('Z'), word[0])
}

func TestFindAnswerDeterministic(t *testing.T) {
	assert := assert.New(t)
	table := buildTable(t,
		corpus.Row{Word: "CLOUD", Frequency: 5},
		corpus.Row{Word: "ALOUD", Frequency: 3},
		corpus.Row{Word: "CROWD", Frequency: 2},
	)
	run := func() []string {
		sess := NewSession(rand.New(rand.NewSource(7)))
		st := cloudState(t)
		words := make([]string, 0, 3)
		for i := 0; i < 3; i++ {
			words = append(words, FindAnswer(st, 5, table, sess, 0.001, DefaultParams()))
		}
		return words
	}
	assert.Equal(run(), run())
}

func TestThresholdPolicy(t *testing.T) {
	assert := assert.New(t)
	p := ThresholdPolicy{Start: 0.001, Decay: 0.5}
	assert.InDelta(0.001, p.At(0), 1e-12)
	assert.InDelta(0.0005, p.At(1), 1e-12)
	assert.InDelta(0.000125, p.At(3), 1e-12)
}

func TestParseStrategy(t *testing.T) {
	assert := assert.New(t)
	for _, want := range []StartStrategy{StartVowels, StartOptimal, StartPopular, StartRandom} {
		got, err := ParseStrategy(want.String())
		assert.NoError(err)
		assert.Equal(want, got)
	}
	_, err := ParseStrategy("clever")
	assert.Error(err)
}

func TestParsePolicy(t *testing.T) {
	assert := assert.New(t)
	for _, want := range []MatchPolicy{MatchSoft, MatchStrict} {
		got, err := ParsePolicy(want.String())
		assert.NoError(err)
		assert.Equal(want, got)
	}
	_, err := ParsePolicy("fuzzy")
	assert.Error(err)
}

func TestPopularSeedWeightsSumToOne(t *testing.T) {
	total := 0.0
	for _, s := range popularSeeds {
		total += s.weight
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func BenchmarkScore(b *testing.B) {
	learner := assoc.NewLearner(0, 0.9, rand.New(rand.NewSource(1)))
	words := []string{
		"CLOUD", "ALOUD", "CROWD", "CLEAN", "CLOWN", "CLOUT", "ABOUT",
		"SALSA", "AMISS", "STARE", "SLATE", "CRANE", "WAGON", "EDEN",
	}
	for i, w := range words {
		learner.Observe(w, i+1)
	}
	table := learner.Finish()
	keys := []stem.Key{
		{Fragment: "L", Half: stem.FirstHalf},
		{Fragment: "O", Half: stem.SecondHalf},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Score(keys, []byte{'A'}, 5, table, DefaultParams())
	}
}
