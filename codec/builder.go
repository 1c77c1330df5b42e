package codec

import (
	"math"

	"github.com/komuw/brevis/alphabet"
	"github.com/komuw/brevis/errors"
)

// Builder assembles a [Config].
//
// Every setter validates the field it sets, and re-validates the fields that depend on it;
// eg the separator is re-checked whenever the alphabet or [Builder.UseSeparator] changes.
// The first failure sticks: later setters are ignored and [Builder.Build] returns that error.
type Builder struct {
	alphabet      string
	characterSet  string
	separator     rune
	useSeparator  bool
	segmentLength int
	padWidth      int
	checked       bool
	minID         int64
	maxID         int64

	// tight restricts alphabets to orderings of [alphabet.BaseBigCharacterSet].
	tight bool
	err   error
}

// NewBuilder returns a Builder for [alphabet.DefaultAlphabet] over [alphabet.BaseDefaultCharacterSet],
// with no separators, no padding and no check character.
func NewBuilder() *Builder {
	return NewBuilderWith(alphabet.DefaultAlphabet, alphabet.BaseDefaultCharacterSet)
}

// NewBuilderWith returns a Builder for the given alphabet, which must be valid for characterSet.
func NewBuilderWith(a, characterSet string) *Builder {
	b := &Builder{
		separator:     alphabet.DefaultSeparator,
		segmentLength: DefaultSegmentLength,
		minID:         math.MinInt64,
		maxID:         math.MaxInt64,
	}
	return b.Alphabet(a, characterSet)
}

// NewTightBuilder returns a Builder for [alphabet.BigAlphabet].
// It produces the most compact encodings that are still usable in a URL path.
// Its alphabet can only be replaced by another ordering of [alphabet.BaseBigCharacterSet].
func NewTightBuilder() *Builder {
	b := NewBuilderWith(alphabet.BigAlphabet, alphabet.BaseBigCharacterSet)
	b.tight = true
	return b
}

// Alphabet sets the alphabet, which must be valid for characterSet.
func (b *Builder) Alphabet(a, characterSet string) *Builder {
	if b.err != nil {
		return b
	}
	if b.tight && characterSet != alphabet.BaseBigCharacterSet {
		b.err = errors.Kindf(errors.KindConfig, "brevis/codec: invalid alphabet %q; tight encodings require character set %q", a, alphabet.BaseBigCharacterSet)
		return b
	}
	if err := validateAlphabet(a, characterSet); err != nil {
		b.err = err
		return b
	}
	if b.useSeparator {
		if err := validateSeparator(b.separator, a); err != nil {
			b.err = err
			return b
		}
	}
	b.alphabet = a
	b.characterSet = characterSet
	return b
}

// Separator sets the separator character. It must not be in the alphabet.
func (b *Builder) Separator(separator rune) *Builder {
	if b.err != nil {
		return b
	}
	if err := validateSeparator(separator, b.alphabet); err != nil {
		b.err = err
		return b
	}
	b.separator = separator
	return b
}

// UseSeparator enables or disables the insertion of separators.
func (b *Builder) UseSeparator(use bool) *Builder {
	if b.err != nil {
		return b
	}
	if use {
		if err := validateSeparator(b.separator, b.alphabet); err != nil {
			b.err = err
			return b
		}
	}
	b.useSeparator = use
	return b
}

// SegmentLength sets the number of characters between separators; it must be in [MinSegmentLength, MaxSegmentLength].
func (b *Builder) SegmentLength(n int) *Builder {
	if b.err != nil {
		return b
	}
	if err := validateSegmentLength(n); err != nil {
		b.err = err
		return b
	}
	b.segmentLength = n
	return b
}

// PadWidth sets the minimum number of characters of an encoding, check character included;
// it must be in [0, MaxPadLength].
func (b *Builder) PadWidth(n int) *Builder {
	if b.err != nil {
		return b
	}
	if err := validatePadWidth(n); err != nil {
		b.err = err
		return b
	}
	b.padWidth = n
	return b
}

// Checked enables or disables the trailing check character.
func (b *Builder) Checked(checked bool) *Builder {
	if b.err != nil {
		return b
	}
	b.checked = checked
	return b
}

// MinID sets the smallest value a [LongEncoder] accepts.
func (b *Builder) MinID(minID int64) *Builder {
	if b.err != nil {
		return b
	}
	b.minID = minID
	return b
}

// MaxID sets the largest value a [LongEncoder] accepts.
func (b *Builder) MaxID(maxID int64) *Builder {
	if b.err != nil {
		return b
	}
	b.maxID = maxID
	return b
}

// Build returns the Config, or the first error met while building it.
func (b *Builder) Build() (Config, error) {
	if b.err != nil {
		return Config{}, b.err
	}
	if err := validateIDRange(b.minID, b.maxID); err != nil {
		return Config{}, err
	}
	return newConfig(b), nil
}

// BuildLong is shorthand for [Builder.Build] followed by [NewLongEncoder].
func (b *Builder) BuildLong() (*LongEncoder, error) {
	c, err := b.Build()
	if err != nil {
		return nil, err
	}
	return NewLongEncoder(c)
}

// BuildBig is shorthand for [Builder.Build] followed by [NewBigEncoder].
func (b *Builder) BuildBig() (*BigEncoder, error) {
	c, err := b.Build()
	if err != nil {
		return nil, err
	}
	return NewBigEncoder(c)
}

// BuildUUID is shorthand for [Builder.Build] followed by [NewUUIDEncoder].
func (b *Builder) BuildUUID() (*UUIDEncoder, error) {
	c, err := b.Build()
	if err != nil {
		return nil, err
	}
	return NewUUIDEncoder(c)
}
