// Package game runs Wordle rounds against the retrieval model: an
// interactive loop where a human may hand any turn to the model, and an
// automatic mode used for batch evaluation.
package game

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/Clara-Ye/MIT9.66/assoc"
	"github.com/Clara-Ye/MIT9.66/hint"
	"github.com/Clara-Ye/MIT9.66/retrieve"
)

// Config collects the round settings: the attempt budget, the corpus
// window answers are drawn from, and the retrieval knobs.
type Config struct {
	AttemptLimit  int
	MinWordLength int
	MaxWordLength int
	MinFrequency  int
	Thresholds    retrieve.ThresholdPolicy
	Params        retrieve.Params
}

// DefaultConfig returns the standard simulation settings: six attempts,
// answers of four to six letters seen at least ten times, and a
// probability threshold that starts at 0.001 and halves per model guess.
func DefaultConfig() Config {
	return Config{
		AttemptLimit:  6,
		MinWordLength: 4,
		MaxWordLength: 6,
		MinFrequency:  10,
		Thresholds:    retrieve.ThresholdPolicy{Start: 0.001, Decay: 0.5},
		Params:        retrieve.DefaultParams(),
	}
}

// Result records one finished round.
type Result struct {
	Guesses []string `json:"guesses"`
	Success bool     `json:"success"`
}

// RandomAnswer draws a ground truth from the candidate words.
func RandomAnswer(words []string, rng *rand.Rand) (string, error) {
	if len(words) == 0 {
		return "", fmt.Errorf("game: no words to draw an answer from")
	}
	return words[rng.Intn(len(words))], nil
}

// Session is one round against a fixed answer. It owns the hint state,
// the retrieval session, and the guess history.
type Session struct {
	cfg     Config
	truth   string
	table   assoc.Table
	state   *hint.State
	retr    *retrieve.Session
	guesses []string
	asked   int
}

// NewSession starts a round. The answer is uppercased; an empty answer is
// a programmer error.
func NewSession(cfg Config, truth string, table assoc.Table, rng *rand.Rand) *Session {
	if truth == "" {
		panic("game: empty answer")
	}
	truth = strings.ToUpper(truth)
	return &Session{
		cfg:   cfg,
		truth: truth,
		table: table,
		state: hint.New(len(truth)),
		retr:  retrieve.NewSession(rng),
	}
}

// Truth returns the answer being guessed at.
func (s *Session) Truth() string { return s.truth }

// Guesses returns the guesses submitted so far, in order.
func (s *Session) Guesses() []string { return s.guesses }

// ModelGuess asks the retrieval model for the next word. The probability
// threshold relaxes with every model guess so the model grows willing to
// try less familiar words as attempts run out.
func (s *Session) ModelGuess() string {
	threshold := s.cfg.Thresholds.At(s.asked)
	s.asked++
	return retrieve.FindAnswer(s.state, len(s.truth), s.table, s.retr, threshold, s.cfg.Params)
}

// Submit plays one guess and reports whether it won. A winning guess
// leaves the trackers untouched; a losing one is recorded as searched and
// folded into the hint state.
func (s *Session) Submit(guess string) bool {
	guess = strings.ToUpper(guess)
	s.guesses = append(s.guesses, guess)
	if guess == s.truth {
		return true
	}
	s.retr.Searched.Add(guess)
	s.state.Update(guess, s.truth)
	return false
}

// Auto plays the whole round with model guesses only.
func (s *Session) Auto() Result {
	for attempt := 0; attempt < s.cfg.AttemptLimit; attempt++ {
		if s.Submit(s.ModelGuess()) {
			return s.result(true)
		}
	}
	return s.result(false)
}

// Play runs the interactive round. A blank line hands the turn to the
// model; input of the wrong length is rejected without costing an
// attempt; once the reader runs dry the model plays the rest.
func (s *Session) Play(in io.Reader, out io.Writer) Result {
	sc := bufio.NewScanner(in)
	fmt.Fprintf(out, "The answer has %d letters. You have %d attempts.\n", len(s.truth), s.cfg.AttemptLimit)
	for attempt := 1; attempt <= s.cfg.AttemptLimit; {
		fmt.Fprintf(out, "\nAttempt %d of %d\n", attempt, s.cfg.AttemptLimit)
		fmt.Fprintf(out, "Enter a %d-letter word, or press enter for the model's guess: ", len(s.truth))
		line := ""
		if sc.Scan() {
			line = strings.TrimSpace(sc.Text())
		}
		guess := strings.ToUpper(line)
		if guess == "" {
			guess = s.ModelGuess()
			fmt.Fprintln(out, guess)
		} else if len(guess) != len(s.truth) {
			fmt.Fprintf(out, "%q is not a %d-letter word.\n", line, len(s.truth))
			continue
		}
		won := s.Submit(guess)
		fmt.Fprintln(out, hint.Tiles(guess, s.truth))
		if won {
			fmt.Fprintf(out, "Correct! The answer was %s.\n", s.truth)
			return s.result(true)
		}
		fmt.Fprintln(out, s.state)
		attempt++
	}
	fmt.Fprintf(out, "Out of attempts. The answer was %s.\n", s.truth)
	return s.result(false)
}

func (s *Session) result(success bool) Result {
	guesses := make([]string, len(s.guesses))
	copy(guesses, s.guesses)
	return Result{Guesses: guesses, Success: success}
}
