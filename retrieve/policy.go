package retrieve

import (
	"fmt"
	"math"
)

// StartStrategy selects how the model opens a game before any feedback
// exists.
type StartStrategy int

const (
	// StartVowels draws uniformly from a fixed vowel-heavy seed list.
	StartVowels StartStrategy = iota
	// StartOptimal draws uniformly from a fixed high-information seed list.
	StartOptimal
	// StartPopular draws from a larger seed list weighted by play share.
	StartPopular
	// StartRandom draws uniformly from the table words of the target length.
	StartRandom
)

func (s StartStrategy) String() string {
	switch s {
	case StartVowels:
		return "vowels"
	case StartOptimal:
		return "optimal"
	case StartPopular:
		return "popular"
	case StartRandom:
		return "random"
	}
	panic(fmt.Sprintf("unknown start strategy %d", int(s)))
}

// ParseStrategy maps a configured name to its strategy. Unknown names are
// a configuration error.
func ParseStrategy(name string) (StartStrategy, error) {
	switch name {
	case "vowels":
		return StartVowels, nil
	case "optimal":
		return StartOptimal, nil
	case "popular":
		return StartPopular, nil
	case "random":
		return StartRandom, nil
	}
	return 0, fmt.Errorf("retrieve: unknown start strategy %q", name)
}

// MatchPolicy picks between the two hint-consistency variants. Strict
// rejects any candidate missing a required fragment; Soft grades each
// candidate's validity and accepts stochastically, modeling imperfect
// constraint satisfaction.
type MatchPolicy int

const (
	MatchSoft MatchPolicy = iota
	MatchStrict
)

func (p MatchPolicy) String() string {
	switch p {
	case MatchSoft:
		return "soft"
	case MatchStrict:
		return "strict"
	}
	panic(fmt.Sprintf("unknown match policy %d", int(p)))
}

// ParsePolicy maps a configured name to its match policy.
func ParsePolicy(name string) (MatchPolicy, error) {
	switch name {
	case "soft":
		return MatchSoft, nil
	case "strict":
		return MatchStrict, nil
	}
	return 0, fmt.Errorf("retrieve: unknown match policy %q", name)
}

// ThresholdPolicy yields the probability threshold for each model guess,
// relaxing geometrically so the model grows willing to try less familiar
// words as attempts run out.
type ThresholdPolicy struct {
	Start float64
	Decay float64
}

// At returns the threshold for the n-th model guess, counting from zero.
func (p ThresholdPolicy) At(n int) float64 {
	return p.Start * math.Pow(p.Decay, float64(n))
}

// Params collects the scoring and acceptance knobs.
type Params struct {
	Sigma            float64 // smoothing constant
	GrayPenalty      float64 // per absent-letter occurrence score factor
	PosPenalty       float64 // half-mismatch score factor
	ValidThreshold   float64 // soft acceptance floor
	MissingPenalty   float64 // validity factor, required letter absent
	MisplacedPenalty float64 // validity factor, required letter at a bad slot
	ForbiddenPenalty float64 // validity factor, absent letter present
	Policy           MatchPolicy
	Strategy         StartStrategy
}

// DefaultParams returns the standard simulation settings.
func DefaultParams() Params {
	return Params{
		Sigma:            1e-5,
		GrayPenalty:      0.7,
		PosPenalty:       0.3,
		ValidThreshold:   1e-6,
		MissingPenalty:   0.2,
		MisplacedPenalty: 0.5,
		ForbiddenPenalty: 0.6,
		Policy:           MatchSoft,
		Strategy:         StartVowels,
	}
}
