// Package codec renders integers as short strings over a configurable alphabet, and back.
//
// The base of an encoding is the length of its alphabet. An encoding is the most significant digit
// first, optionally preceded by [alphabet.NegativeSign], optionally zero padded on the left,
// optionally followed by a Luhn mod N check character and optionally split into segments by a separator.
// Separators are pure syntax; they are stripped before decoding.
//
// A [Config] is assembled and validated by a [Builder]. It is immutable, and so are the
// [LongEncoder], [BigEncoder] and [UUIDEncoder] built over it; they are safe for concurrent use.
package codec

import (
	"github.com/komuw/brevis/alphabet"
	"github.com/komuw/brevis/errors"
)

const (
	// DefaultSegmentLength is the number of characters between separators, by default.
	DefaultSegmentLength = 4
	// MinSegmentLength is the smallest allowed segment length.
	MinSegmentLength = 2
	// MaxSegmentLength is the largest allowed segment length.
	MaxSegmentLength = 8
	// DefaultPadLength is a pad width that keeps short ids from standing out; it is not applied unless asked for.
	DefaultPadLength = 7
	// MaxPadLength is the largest pad width; the most zero digits an encoding is padded with.
	MaxPadLength = 30
)

// Config is a validated codec configuration.
// Use a [Builder] to get a valid Config; the zero value is not usable.
type Config struct {
	alphabet      []rune
	index         map[rune]int
	characterSet  string
	separator     rune
	useSeparator  bool
	segmentLength int
	padWidth      int
	checked       bool
	minID         int64
	maxID         int64
}

// Alphabet returns the alphabet; the position of each character is its digit value.
func (c Config) Alphabet() string { return string(c.alphabet) }

// CharacterSet returns the character set the alphabet was validated against.
func (c Config) CharacterSet() string { return c.characterSet }

// Base returns the numeric base of encodings, ie the length of the alphabet.
func (c Config) Base() int { return len(c.alphabet) }

// Separator returns the separator character.
func (c Config) Separator() rune { return c.separator }

// UseSeparator reports whether separators are inserted into encodings.
func (c Config) UseSeparator() bool { return c.useSeparator }

// SegmentLength returns the number of characters between separators.
func (c Config) SegmentLength() int { return c.segmentLength }

// PadWidth returns the minimum number of characters of an encoding, excluding the sign and separators.
func (c Config) PadWidth() int { return c.padWidth }

// Checked reports whether encodings carry a trailing check character.
func (c Config) Checked() bool { return c.checked }

// MinID returns the smallest value a [LongEncoder] accepts.
func (c Config) MinID() int64 { return c.minID }

// MaxID returns the largest value a [LongEncoder] accepts.
func (c Config) MaxID() int64 { return c.maxID }

func (c Config) usable() error {
	if len(c.alphabet) < 2 {
		return errors.Kindf(errors.KindConfig, "brevis/codec: unusable config; use a Builder")
	}
	return nil
}

func newConfig(b *Builder) Config {
	rs := []rune(b.alphabet)
	index := make(map[rune]int, len(rs))
	for i, r := range rs {
		index[r] = i
	}
	return Config{
		alphabet:      rs,
		index:         index,
		characterSet:  b.characterSet,
		separator:     b.separator,
		useSeparator:  b.useSeparator,
		segmentLength: b.segmentLength,
		padWidth:      b.padWidth,
		checked:       b.checked,
		minID:         b.minID,
		maxID:         b.maxID,
	}
}

func validateAlphabet(a, characterSet string) error {
	if !alphabet.IsValidAlphabet(a, characterSet) {
		return errors.Kindf(errors.KindConfig, "brevis/codec: invalid alphabet %q for character set %q", a, characterSet)
	}
	if len([]rune(a)) < 2 {
		return errors.Kindf(errors.KindConfig, "brevis/codec: alphabet %q must have at least 2 characters", a)
	}
	if alphabet.HasDuplicates(a) {
		return errors.Kindf(errors.KindConfig, "brevis/codec: alphabet %q has repeated characters", a)
	}
	if !alphabet.IsValidSeparator(alphabet.NegativeSign, a) {
		return errors.Kindf(errors.KindConfig, "brevis/codec: alphabet %q contains the reserved negative sign %q", a, alphabet.NegativeSign)
	}
	return nil
}

func validateSeparator(separator rune, a string) error {
	if separator == alphabet.NegativeSign || !alphabet.IsValidSeparator(separator, a) {
		return errors.Kindf(errors.KindConfig, "brevis/codec: invalid separator %q for alphabet %q", separator, a)
	}
	return nil
}

func validateSegmentLength(n int) error {
	if n < MinSegmentLength || n > MaxSegmentLength {
		return errors.Kindf(errors.KindConfig, "brevis/codec: segment length %d out of range [%d, %d]", n, MinSegmentLength, MaxSegmentLength)
	}
	return nil
}

func validatePadWidth(n int) error {
	if n < 0 || n > MaxPadLength {
		return errors.Kindf(errors.KindConfig, "brevis/codec: invalid pad width %d; must be in [0, %d]", n, MaxPadLength)
	}
	return nil
}

func validateIDRange(minID, maxID int64) error {
	if minID > maxID {
		return errors.Kindf(errors.KindConfig, "brevis/codec: invalid id range [%d, %d]", minID, maxID)
	}
	return nil
}
