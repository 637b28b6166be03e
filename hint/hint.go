// Package hint tracks the green, yellow, and gray feedback accumulated
// over the turns of one game against a fixed answer.
package hint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// State holds one session's feedback. Green records the confirmed letter
// per slot (0 while unknown), Yellow maps a misplaced letter to the slots
// it is known not to occupy, Gray marks letters absent from the answer.
// Hints only accumulate; nothing is ever retracted, and a green letter
// can never turn gray.
type State struct {
	Green  []byte
	Yellow map[byte]*bitset.BitSet
	Gray   *bitset.BitSet
}

// New returns the empty state for an answer of the given length.
func New(length int) *State {
	return &State{
		Green:  make([]byte, length),
		Yellow: make(map[byte]*bitset.BitSet),
		Gray:   bitset.New(26),
	}
}

// Empty reports whether no feedback has arrived yet.
func (s *State) Empty() bool {
	for _, g := range s.Green {
		if g != 0 {
			return false
		}
	}
	return len(s.Yellow) == 0 && s.Gray.None()
}

// GrayHas reports whether the letter is known absent.
func (s *State) GrayHas(c byte) bool {
	return s.Gray.Test(uint(c - 'A'))
}

// YellowInvalid reports whether the letter is known not to sit at slot.
func (s *State) YellowInvalid(c byte, slot int) bool {
	set, ok := s.Yellow[c]
	return ok && set.Test(uint(slot))
}

// Update folds one guess's feedback into the state. A slot matching the
// answer exactly is green; a letter present elsewhere in the answer is
// marked yellow at the slot where it failed; a letter absent from the
// answer goes gray.
func (s *State) Update(guess, truth string) {
	for i := 0; i < len(guess) && i < len(truth); i++ {
		if guess[i] == truth[i] && s.Green[i] == 0 {
			s.Green[i] = guess[i]
		}
	}
	for i := 0; i < len(guess); i++ {
		c := guess[i]
		if strings.IndexByte(truth, c) < 0 {
			s.Gray.Set(uint(c - 'A'))
			continue
		}
		if i < len(truth) && truth[i] != c {
			set, ok := s.Yellow[c]
			if !ok {
				set = bitset.New(uint(len(truth)))
				s.Yellow[c] = set
			}
			set.Set(uint(i))
		}
	}
}

// GrayLetters lists the absent letters in alphabetical order.
func (s *State) GrayLetters() []byte {
	letters := make([]byte, 0, s.Gray.Count())
	for i, ok := s.Gray.NextSet(0); ok && i < 26; i, ok = s.Gray.NextSet(i + 1) {
		letters = append(letters, byte('A'+i))
	}
	return letters
}

// YellowLetters lists the misplaced letters in alphabetical order.
func (s *State) YellowLetters() []byte {
	letters := make([]byte, 0, len(s.Yellow))
	for c := byte('A'); c <= 'Z'; c++ {
		if _, ok := s.Yellow[c]; ok {
			letters = append(letters, c)
		}
	}
	return letters
}

func (s *State) String() string {
	var b strings.Builder
	b.WriteString("green: ")
	for _, g := range s.Green {
		if g == 0 {
			b.WriteByte('_')
		} else {
			b.WriteByte(g)
		}
	}
	b.WriteString("  yellow:")
	for _, c := range s.YellowLetters() {
		slots := make([]string, 0)
		set := s.Yellow[c]
		for i, ok := set.NextSet(0); ok; i, ok = set.NextSet(i + 1) {
			slots = append(slots, strconv.Itoa(int(i)+1))
		}
		fmt.Fprintf(&b, " %c(not %s)", c, strings.Join(slots, ","))
	}
	b.WriteString("  gray: ")
	b.Write(s.GrayLetters())
	return b.String()
}
