package otp

import (
	"github.com/komuw/brevis/errors"
	"github.com/komuw/brevis/id"
)

const (
	// DefaultSplitAlphabet1 is the alphabet of the first half of a split code, by default.
	DefaultSplitAlphabet1 = "5836942017"
	// DefaultSplitAlphabet2 is the alphabet of the second half of a split code, by default.
	DefaultSplitAlphabet2 = "7482195306"
	// SplitMaxID is the largest value of either half of a split code.
	SplitMaxID int64 = 999
)

// Pair is the two values carried by a split code.
type Pair struct {
	First  int64
	Second int64
}

// SplitEncoder encodes a [Pair] as two codes written back to back, each over its own alphabet.
// With distinct alphabets the two halves pad with different characters, so the padding does not stand out.
type SplitEncoder struct {
	first  *Encoder
	second *Encoder
}

// NewSplitEncoder returns a SplitEncoder whose halves carry values in [0, SplitMaxID].
// Empty alphabets select [DefaultSplitAlphabet1] and [DefaultSplitAlphabet2].
func NewSplitEncoder(alphabet1, alphabet2 string) (*SplitEncoder, error) {
	if alphabet1 == "" {
		alphabet1 = DefaultSplitAlphabet1
	}
	if alphabet2 == "" {
		alphabet2 = DefaultSplitAlphabet2
	}

	first, err := NewBuilder().Alphabet(alphabet1).Limits(0, SplitMaxID).Build()
	if err != nil {
		return nil, err
	}
	second, err := NewBuilder().Alphabet(alphabet2).Limits(0, SplitMaxID).Build()
	if err != nil {
		return nil, err
	}
	return &SplitEncoder{first: first, second: second}, nil
}

// Length returns the number of characters of every code.
func (e *SplitEncoder) Length() int { return e.first.Length() + e.second.Length() }

// Alphabets returns the alphabets of the two halves.
func (e *SplitEncoder) Alphabets() (string, string) { return e.first.Alphabet(), e.second.Alphabet() }

// Encode returns the code for p.
func (e *SplitEncoder) Encode(p Pair) (string, error) {
	a, err := e.first.Encode(p.First)
	if err != nil {
		return "", err
	}
	b, err := e.second.Encode(p.Second)
	if err != nil {
		return "", err
	}
	return a + b, nil
}

// EncodeRandom returns the code for a pair picked from src.
func (e *SplitEncoder) EncodeRandom(src id.Source) (string, error) {
	a, err := e.first.EncodeRandom(src)
	if err != nil {
		return "", err
	}
	b, err := e.second.EncodeRandom(src)
	if err != nil {
		return "", err
	}
	return a + b, nil
}

// Decode returns the pair carried by code.
func (e *SplitEncoder) Decode(code string) (Pair, error) {
	rs := []rune(code)
	if len(rs) != e.Length() {
		return Pair{}, errors.Kindf(errors.KindValue, "brevis/otp: code %q has %d characters, want %d", code, len(rs), e.Length())
	}

	n := e.first.Length()
	a, err := e.first.Decode(string(rs[:n]))
	if err != nil {
		return Pair{}, err
	}
	b, err := e.second.Decode(string(rs[n:]))
	if err != nil {
		return Pair{}, err
	}
	return Pair{First: a, Second: b}, nil
}
