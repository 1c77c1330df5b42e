// Package config provides the parameters that configure brevis encoders, and loads them from TOML profiles.
//
// A profile looks like:
//
//	[codec]
//	alphabet = "default"
//	separator = "-"
//	use_separator = true
//	segment_length = 4
//	pad_width = 7
//	checked = true
//
//	[verify]
//	days_valid = 10
//
// Keys that are left out keep their Default value; unknown keys are an error.
package config

import (
	"math"

	"github.com/komuw/brevis/alphabet"
	"github.com/komuw/brevis/codec"
	"github.com/komuw/brevis/verify"
)

// codec
const (
	// DefaultAlphabet names the alphabet of encodings, by default.
	// It is either the Name of one of [alphabet.Shipped] or a literal alphabet.
	DefaultAlphabet = "default"
	// DefaultSeparator is the separator of encodings, by default.
	DefaultSeparator = string(alphabet.DefaultSeparator)
	// DefaultSegmentLength is the number of characters between separators, by default.
	DefaultSegmentLength = codec.DefaultSegmentLength
	// DefaultPadWidth is the minimum length of encodings, by default.
	// Zero means encodings are not padded.
	DefaultPadWidth = 0
)

// verify
const (
	// DefaultDaysValid is the number of days verification codes are valid for, by default.
	DefaultDaysValid = verify.DefaultDaysValid
)

// Profile is a named set of encoder parameters.
//
// Use [Default], [Parse] or [Load] to get a Profile; then [Profile.CodecBuilder] and [Profile.VerifyBuilder]
// turn it into validated encoders.
type Profile struct {
	Codec  CodecOpts  `toml:"codec"`
	Verify VerifyOpts `toml:"verify"`
}

// CodecOpts are the parameters of a [codec.Config].
type CodecOpts struct {
	// Alphabet is the Name of a shipped alphabet, or a literal alphabet.
	Alphabet string `toml:"alphabet"`
	// CharacterSet is required for literal alphabets and ignored for shipped ones.
	CharacterSet  string `toml:"character_set,omitempty"`
	Separator     string `toml:"separator"`
	UseSeparator  bool   `toml:"use_separator"`
	SegmentLength int    `toml:"segment_length"`
	PadWidth      int    `toml:"pad_width"`
	Checked       bool   `toml:"checked"`
	MinID         int64  `toml:"min_id"`
	MaxID         int64  `toml:"max_id"`
}

// VerifyOpts are the parameters of a [verify.Encoder] that are not shared with the codec.
type VerifyOpts struct {
	DaysValid int   `toml:"days_valid"`
	MinID     int64 `toml:"min_id"`
	MaxID     int64 `toml:"max_id"`
}

// Default returns the Profile used when no profile is given.
func Default() Profile {
	return Profile{
		Codec: CodecOpts{
			Alphabet:      DefaultAlphabet,
			Separator:     DefaultSeparator,
			SegmentLength: DefaultSegmentLength,
			PadWidth:      DefaultPadWidth,
			MinID:         math.MinInt64,
			MaxID:         math.MaxInt64,
		},
		Verify: VerifyOpts{
			DaysValid: DefaultDaysValid,
			MinID:     0,
			MaxID:     verify.AbsoluteLargestID,
		},
	}
}

// CodecBuilder returns a [codec.Builder] holding the codec parameters of p.
// Parameters that the builder itself validates surface from its Build methods.
func (p Profile) CodecBuilder() (*codec.Builder, error) {
	if err := p.Codec.validate(); err != nil {
		return nil, err
	}
	c := p.Codec
	a, cs := c.alphabet()
	return codec.NewBuilderWith(a, cs).
		Separator(c.separator()).
		UseSeparator(c.UseSeparator).
		SegmentLength(c.SegmentLength).
		PadWidth(c.PadWidth).
		Checked(c.Checked).
		MinID(c.MinID).
		MaxID(c.MaxID), nil
}

// VerifyBuilder returns a [verify.Builder] holding the verification parameters of p.
// The codec id range does not apply; verification codes have their own.
func (p Profile) VerifyBuilder() (*verify.Builder, error) {
	if err := p.Codec.validate(); err != nil {
		return nil, err
	}
	c := p.Codec
	a, cs := c.alphabet()
	return verify.NewBuilder().
		Alphabet(a, cs).
		Separator(c.separator()).
		UseSeparator(c.UseSeparator).
		SegmentLength(c.SegmentLength).
		PadWidth(c.PadWidth).
		Checked(c.Checked).
		DaysValid(p.Verify.DaysValid).
		MinID(p.Verify.MinID).
		MaxID(p.Verify.MaxID), nil
}

// Validate reports the first invalid parameter of p, if any.
func (p Profile) Validate() error {
	cb, err := p.CodecBuilder()
	if err != nil {
		return err
	}
	if _, err := cb.Build(); err != nil {
		return err
	}
	vb, err := p.VerifyBuilder()
	if err != nil {
		return err
	}
	_, err = vb.Build()
	return err
}

func shippedAlphabet(name string) (alphabet.Named, bool) {
	for _, n := range alphabet.Shipped() {
		if n.Name == name {
			return n, true
		}
	}
	return alphabet.Named{}, false
}

// alphabet returns the alphabet and character set that c names.
func (c CodecOpts) alphabet() (string, string) {
	if n, ok := shippedAlphabet(c.Alphabet); ok {
		return n.Alphabet, n.CharacterSet
	}
	return c.Alphabet, c.CharacterSet
}

// separator must only be called on a validated CodecOpts.
func (c CodecOpts) separator() rune {
	return []rune(c.Separator)[0]
}
