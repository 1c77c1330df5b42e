// Package otp encodes one time passwords: fixed length numeric-looking codes over a scrambled digit alphabet.
//
// Scrambling the alphabet hides which character stands for zero, so left padding does not give the value away.
// Making sure a code is used at most once is left to the caller.
package otp

import (
	"github.com/komuw/brevis/alphabet"
	"github.com/komuw/brevis/codec"
	"github.com/komuw/brevis/errors"
	"github.com/komuw/brevis/id"
)

const (
	// DefaultAlphabet is the alphabet of an [Encoder], by default.
	DefaultAlphabet = "4827105396"
	// DefaultMinID is the smallest OTP value, by default.
	DefaultMinID int64 = 111
	// DefaultMaxID is the largest OTP value, by default. It makes for six character codes.
	DefaultMaxID int64 = 999_999
	// smallestMaxID keeps at least one full digit of values in range.
	smallestMaxID int64 = 9
)

// Encoder turns values in [MinID, MaxID] into codes of a fixed length, and back.
// It is immutable and safe for concurrent use.
type Encoder struct {
	long   *codec.LongEncoder
	length int
}

// Builder assembles an [Encoder].
type Builder struct {
	alphabet string
	minID    int64
	maxID    int64
	err      error
}

// NewBuilder returns a Builder for [DefaultAlphabet] and values in [DefaultMinID, DefaultMaxID].
func NewBuilder() *Builder {
	return &Builder{alphabet: DefaultAlphabet, minID: DefaultMinID, maxID: DefaultMaxID}
}

// Alphabet sets the alphabet. The empty string selects [DefaultAlphabet].
func (b *Builder) Alphabet(a string) *Builder {
	if b.err != nil {
		return b
	}
	if a == "" {
		a = DefaultAlphabet
	}
	b.alphabet = a
	return b
}

// Limits sets the range of values.
// maxID must be at least 9, minID must not be negative, and the range must span more than ten values.
func (b *Builder) Limits(minID, maxID int64) *Builder {
	if b.err != nil {
		return b
	}
	if maxID < smallestMaxID || minID < 0 || minID >= maxID-10 {
		b.err = errors.Kindf(errors.KindConfig, "brevis/otp: invalid limits [%d, %d]", minID, maxID)
		return b
	}
	b.minID = minID
	b.maxID = maxID
	return b
}

// Build returns the Encoder, or the first error met while building it.
func (b *Builder) Build() (*Encoder, error) {
	if b.err != nil {
		return nil, b.err
	}
	cb := codec.NewBuilderWith(b.alphabet, alphabet.LegalURICharacterSet)
	if _, err := cb.Build(); err != nil {
		return nil, err
	}

	// codes are padded to the width of the largest value.
	length := digitCount(b.maxID, len([]rune(b.alphabet)))
	long, err := cb.PadWidth(length).
		MinID(b.minID).
		MaxID(b.maxID).
		BuildLong()
	if err != nil {
		return nil, err
	}
	return &Encoder{long: long, length: length}, nil
}

// Alphabet returns the alphabet.
func (e *Encoder) Alphabet() string { return e.long.Config().Alphabet() }

// Length returns the number of characters of every code.
func (e *Encoder) Length() int { return e.length }

// MinID returns the smallest value.
func (e *Encoder) MinID() int64 { return e.long.Config().MinID() }

// MaxID returns the largest value.
func (e *Encoder) MaxID() int64 { return e.long.Config().MaxID() }

// Encode returns the code for v.
func (e *Encoder) Encode(v int64) (string, error) {
	return e.long.Encode(v)
}

// EncodeRandom returns the code for a value picked from src, uniformly within [MinID, MaxID].
func (e *Encoder) EncodeRandom(src id.Source) (string, error) {
	return e.long.EncodeRandom(src)
}

// Decode returns the value of code, which must be exactly [Encoder.Length] characters long.
func (e *Encoder) Decode(code string) (int64, error) {
	if n := len([]rune(code)); n != e.length {
		return 0, errors.Kindf(errors.KindValue, "brevis/otp: code %q has %d characters, want %d", code, n, e.length)
	}
	return e.long.Decode(code)
}

// digitCount returns the number of digits of v written in base.
func digitCount(v int64, base int) int {
	n := 1
	for b := int64(base); v >= b; v /= b {
		n++
	}
	return n
}
