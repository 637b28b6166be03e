// Package stem extracts the short orthographic fragments that index the
// association table. A stem is a window of one or two letters tagged with
// the coarse half of the word it was seen in, or one of the two boundary
// markers ("C*" = starts with C, "*D" = ends with D).
package stem

import (
	"fmt"
	"strings"
)

// Half is the coarse position of a stem relative to the word midpoint.
type Half uint8

const (
	FirstHalf Half = iota
	SecondHalf
)

func (h Half) String() string {
	if h == FirstHalf {
		return "FIRST_HALF"
	}
	return "SECOND_HALF"
}

// HalfAt returns the half an offset falls in for a word of the given length.
// The midpoint is length/2; the midpoint itself belongs to the second half.
func HalfAt(offset, length int) Half {
	if offset < length/2 {
		return FirstHalf
	}
	return SecondHalf
}

// Key identifies one stem: the fragment plus its half tag. Keys serialize
// as "FRAGMENT|TAG", e.g. "CL|FIRST_HALF" or "*D|SECOND_HALF".
type Key struct {
	Fragment string
	Half     Half
}

func (k Key) String() string {
	return k.Fragment + "|" + k.Half.String()
}

// IsStartMarker reports whether the key is a starts-with marker ("C*").
func (k Key) IsStartMarker() bool {
	return strings.HasSuffix(k.Fragment, "*")
}

// IsEndMarker reports whether the key is an ends-with marker ("*D").
func (k Key) IsEndMarker() bool {
	return strings.HasPrefix(k.Fragment, "*")
}

// Bare returns the fragment with any marker star removed.
func (k Key) Bare() string {
	return strings.Trim(k.Fragment, "*")
}

// ParseKey inverts Key.String. It accepts exactly the serialized table-key
// form, fragment first, tag second.
func ParseKey(s string) (Key, error) {
	i := strings.LastIndexByte(s, '|')
	if i <= 0 {
		return Key{}, fmt.Errorf("stem: malformed key %q", s)
	}
	k := Key{Fragment: s[:i]}
	switch s[i+1:] {
	case "FIRST_HALF":
		k.Half = FirstHalf
	case "SECOND_HALF":
		k.Half = SecondHalf
	default:
		return Key{}, fmt.Errorf("stem: malformed key %q: unknown tag %q", s, s[i+1:])
	}
	return k, nil
}

// Stem pairs a key with the 1-indexed position used for attention
// weighting: offset+1 for windows, 1 for the start marker and the word
// length for the end marker.
type Stem struct {
	Key Key
	Pos int
}

// Extract returns every stem of the word in a fixed order: all windows of
// length 1 and 2 at every start offset, scanned left to right, followed by
// the start and end markers. The word is uppercased first. When the same
// key arises at several offsets it keeps its first slot in the order but
// records the last offset's position, matching how the learned weighting
// treats repeated fragments.
func Extract(word string) []Stem {
	word = strings.ToUpper(word)
	l := len(word)
	if l == 0 {
		return nil
	}
	stems := make([]Stem, 0, 2*l+2)
	index := make(map[Key]int, 2*l+2)
	for i := 0; i < l; i++ {
		for j := i + 1; j <= i+2 && j <= l; j++ {
			k := Key{Fragment: word[i:j], Half: HalfAt(i, l)}
			if at, ok := index[k]; ok {
				stems[at].Pos = i + 1
				continue
			}
			index[k] = len(stems)
			stems = append(stems, Stem{Key: k, Pos: i + 1})
		}
	}
	stems = append(stems,
		Stem{Key: Key{Fragment: word[:1] + "*", Half: FirstHalf}, Pos: 1},
		Stem{Key: Key{Fragment: "*" + word[l-1:], Half: SecondHalf}, Pos: l},
	)
	return stems
}
