package verify

import (
	"time"

	"github.com/komuw/brevis/alphabet"
	"github.com/komuw/brevis/codec"
	"github.com/komuw/brevis/errors"
	"github.com/komuw/brevis/id"
)

// Encoder turns ids into verification codes and back.
// It is immutable and safe for concurrent use.
type Encoder struct {
	long      *codec.LongEncoder
	daysValid int
	minID     int64
	maxID     int64
	now       func() time.Time
}

// Builder assembles an [Encoder].
// Like [codec.Builder], the first failure sticks and is returned by [Builder.Build].
type Builder struct {
	codec     *codec.Builder
	daysValid int
	minID     int64
	maxID     int64
	now       func() time.Time
	err       error
}

// NewBuilder returns a Builder for [alphabet.DefaultAlphabet], ids in [0, AbsoluteLargestID],
// codes valid for [DefaultDaysValid] days and the system clock.
func NewBuilder() *Builder {
	return &Builder{
		codec:     codec.NewBuilderWith(alphabet.DefaultAlphabet, alphabet.BaseDefaultCharacterSet),
		daysValid: DefaultDaysValid,
		minID:     0,
		maxID:     AbsoluteLargestID,
		now:       time.Now,
	}
}

// Alphabet sets the alphabet, which must be valid for characterSet.
func (b *Builder) Alphabet(a, characterSet string) *Builder {
	b.codec.Alphabet(a, characterSet)
	return b
}

// Separator sets the separator character.
func (b *Builder) Separator(separator rune) *Builder {
	b.codec.Separator(separator)
	return b
}

// UseSeparator enables or disables the insertion of separators.
func (b *Builder) UseSeparator(use bool) *Builder {
	b.codec.UseSeparator(use)
	return b
}

// SegmentLength sets the number of characters between separators.
func (b *Builder) SegmentLength(n int) *Builder {
	b.codec.SegmentLength(n)
	return b
}

// PadWidth sets the minimum number of characters of a code.
func (b *Builder) PadWidth(n int) *Builder {
	b.codec.PadWidth(n)
	return b
}

// Checked enables or disables the trailing check character.
func (b *Builder) Checked(checked bool) *Builder {
	b.codec.Checked(checked)
	return b
}

// DaysValid sets how many days after today codes from [Encoder.Encode] stay valid.
func (b *Builder) DaysValid(days int) *Builder {
	if b.err != nil {
		return b
	}
	if days < 0 {
		b.err = errors.Kindf(errors.KindConfig, "brevis/verify: invalid days valid %d; must not be negative", days)
		return b
	}
	b.daysValid = days
	return b
}

// MinID sets the smallest id the encoder accepts; it must not be negative.
func (b *Builder) MinID(minID int64) *Builder {
	if b.err != nil {
		return b
	}
	if minID < 0 {
		b.err = errors.Kindf(errors.KindConfig, "brevis/verify: invalid min id %d; must not be negative", minID)
		return b
	}
	b.minID = minID
	return b
}

// MaxID sets the largest id the encoder accepts; it must not exceed [AbsoluteLargestID].
func (b *Builder) MaxID(maxID int64) *Builder {
	if b.err != nil {
		return b
	}
	if maxID > AbsoluteLargestID {
		b.err = errors.Kindf(errors.KindConfig, "brevis/verify: invalid max id %d; must not exceed %d", maxID, AbsoluteLargestID)
		return b
	}
	b.maxID = maxID
	return b
}

// Clock sets the source of "today". It defaults to [time.Now].
func (b *Builder) Clock(now func() time.Time) *Builder {
	if b.err != nil {
		return b
	}
	if now == nil {
		b.err = errors.Kindf(errors.KindConfig, "brevis/verify: nil clock")
		return b
	}
	b.now = now
	return b
}

// Build returns the Encoder, or the first error met while building it.
func (b *Builder) Build() (*Encoder, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.minID > b.maxID {
		return nil, errors.Kindf(errors.KindConfig, "brevis/verify: invalid id range [%d, %d]", b.minID, b.maxID)
	}
	// the id range applies to verifier ids, not to the packed values the codec sees.
	long, err := b.codec.BuildLong()
	if err != nil {
		return nil, err
	}
	return &Encoder{
		long:      long,
		daysValid: b.daysValid,
		minID:     b.minID,
		maxID:     b.maxID,
		now:       b.now,
	}, nil
}

// Config returns the configuration of the underlying codec.
func (e *Encoder) Config() codec.Config { return e.long.Config() }

// DaysValid returns how many days codes from [Encoder.Encode] stay valid.
func (e *Encoder) DaysValid() int { return e.daysValid }

// MinID returns the smallest id the encoder accepts.
func (e *Encoder) MinID() int64 { return e.minID }

// MaxID returns the largest id the encoder accepts.
func (e *Encoder) MaxID() int64 { return e.maxID }

// Encode returns a code for vid that is valid for the configured number of days.
func (e *Encoder) Encode(vid int64) (string, error) {
	return e.EncodeDays(vid, e.daysValid)
}

// EncodeDays returns a code for vid that is valid for days after today.
func (e *Encoder) EncodeDays(vid int64, days int) (string, error) {
	v, err := Verifier{}.WithDaysValid(e.now(), days)
	if err != nil {
		return "", err
	}
	if v, err = v.WithID(vid); err != nil {
		return "", err
	}
	return e.EncodeVerifier(v)
}

// EncodeUntil returns a code for vid that is valid up to, and including, the date of validUntil.
func (e *Encoder) EncodeUntil(vid int64, validUntil time.Time) (string, error) {
	v, err := NewVerifier(vid, validUntil)
	if err != nil {
		return "", err
	}
	return e.EncodeVerifier(v)
}

// EncodeVerifier returns the code for v.
func (e *Encoder) EncodeVerifier(v Verifier) (string, error) {
	if err := e.inRange(v.id); err != nil {
		return "", err
	}
	if v.validUntil.IsZero() {
		return "", errors.Kindf(errors.KindValue, "brevis/verify: verifier has no validity date; use NewVerifier")
	}
	return e.long.Encode(int64(Pack(v)))
}

// Decode returns the [Verifier] carried by code.
// It does not check the validity date; use [Verifier.IsValid] for that.
func (e *Encoder) Decode(code string) (Verifier, error) {
	p, err := e.long.Decode(code)
	if err != nil {
		return Verifier{}, err
	}
	if p < 0 {
		return Verifier{}, errors.Kindf(errors.KindValue, "brevis/verify: %q is not a verification code", code)
	}
	v, err := Unpack(uint64(p))
	if err != nil {
		return Verifier{}, err
	}
	if err := e.inRange(v.id); err != nil {
		return Verifier{}, err
	}
	return v, nil
}

// IsValid decodes code and reports whether it is still valid today.
func (e *Encoder) IsValid(code string) (bool, error) {
	v, err := e.Decode(code)
	if err != nil {
		return false, err
	}
	return v.IsValid(e.now()), nil
}

// RandomID returns an id picked from src, uniformly within [MinID, MaxID].
func (e *Encoder) RandomID(src id.Source) (int64, error) {
	// maxID <= AbsoluteLargestID, so this cannot overflow.
	return id.Int64n(src, e.minID, e.maxID+1)
}

func (e *Encoder) inRange(v int64) error {
	if v < e.minID || v > e.maxID {
		return errors.Kindf(errors.KindValue, "brevis/verify: id %d outside of range [%d, %d]", v, e.minID, e.maxID)
	}
	return nil
}
