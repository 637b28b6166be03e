package assoc

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/Clara-Ye/MIT9.66/corpus"
	"github.com/Clara-Ye/MIT9.66/stem"
)

// Learner accumulates stochastic stem associations from corpus rows.
// Eta controls how much longer words leak fewer associations; Nu
// discounts attention for later stem positions.
type Learner struct {
	Eta float64
	Nu  float64

	rng   *rand.Rand
	table Table
}

// NewLearner returns an empty learner drawing its Bernoulli trials from
// rng.
func NewLearner(eta, nu float64, rng *rand.Rand) *Learner {
	return &Learner{Eta: eta, Nu: nu, rng: rng, table: make(Table)}
}

// inclusionProb is the chance that any one stem of a word of the given
// length forms an association. Words of up to three letters always do.
func (l *Learner) inclusionProb(length int) float64 {
	if length <= 3 {
		return 1
	}
	p := 1 - l.Eta*math.Log(float64(length-3))
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Observe runs the association pass for one corpus row: every stem of the
// word, boundary markers included, gets an independent Bernoulli trial,
// and each success adds freq scaled by the positional discount. Words the
// learner cannot use are rejected with an error.
func (l *Learner) Observe(word string, freq int) error {
	word = strings.ToUpper(word)
	if !alphabetic(word) {
		return fmt.Errorf("assoc: unusable word %q", word)
	}
	if freq < 0 {
		return fmt.Errorf("assoc: negative frequency %d for %q", freq, word)
	}
	p := l.inclusionProb(len(word))
	for _, s := range stem.Extract(word) {
		if l.rng.Float64() >= p {
			continue
		}
		l.table.Add(s.Key.String(), word, float64(freq)*math.Pow(l.Nu, float64(s.Pos-1)))
	}
	return nil
}

// Finish normalizes the accumulated weights and hands over the table.
// The learner must not observe further rows afterwards.
func (l *Learner) Finish() Table {
	l.table.Normalize()
	return l.table
}

func alphabetic(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'A' || word[i] > 'Z' {
			return false
		}
	}
	return true
}

// Learn builds a normalized table from corpus rows in a single pass.
// Unusable rows are logged and skipped, never fatal.
func Learn(rows []corpus.Row, eta, nu float64, rng *rand.Rand, progress bool) Table {
	learner := NewLearner(eta, nu, rng)
	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.Default(int64(len(rows)))
	} else {
		bar = progressbar.DefaultSilent(int64(len(rows)))
	}
	for _, row := range rows {
		if err := learner.Observe(row.Word, row.Frequency); err != nil {
			log.Printf("assoc: skipping row: %v", err)
		}
		bar.Add(1)
	}
	return learner.Finish()
}
