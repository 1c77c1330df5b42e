// Package verify produces verification codes: short codes that carry an id and the last date on which they are valid.
//
// A [Verifier] is folded into a single integer by [Pack] and that integer is encoded by a [codec.LongEncoder].
// Verification codes are not a cryptographic scheme; anyone holding the alphabet can decode and forge them.
package verify

import (
	"fmt"
	"time"

	"github.com/komuw/brevis/errors"
)

const (
	// AbsoluteLargestID is the largest id a [Verifier] can carry; ids are 47 bits wide.
	AbsoluteLargestID int64 = 0x7FFFFFFFFFFF
	// DefaultDaysValid is the number of days a verification code is valid for, by default.
	DefaultDaysValid = 10
)

var (
	// AbsoluteFirstValidDate is the earliest validity date a [Verifier] can carry.
	AbsoluteFirstValidDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals
	// AbsoluteLastValidDate is the latest validity date a [Verifier] can carry.
	AbsoluteLastValidDate = time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals
)

// Verifier pairs an id with the last date on which it is valid.
// It is a value; the With methods return an updated copy.
type Verifier struct {
	id         int64
	validUntil time.Time
}

// NewVerifier returns a Verifier for id that is valid up to, and including, the date of validUntil.
// It returns an error of kind [errors.KindRange] if id is outside [0, AbsoluteLargestID]
// or the date is outside [AbsoluteFirstValidDate, AbsoluteLastValidDate].
func NewVerifier(id int64, validUntil time.Time) (Verifier, error) {
	if err := validateID(id); err != nil {
		return Verifier{}, err
	}
	d := date(validUntil)
	if err := validateDate(d); err != nil {
		return Verifier{}, err
	}
	return Verifier{id: id, validUntil: d}, nil
}

// ID returns the id.
func (v Verifier) ID() int64 { return v.id }

// ValidUntil returns the last valid date, as midnight UTC.
func (v Verifier) ValidUntil() time.Time { return v.validUntil }

// WithID returns a copy of v carrying id.
func (v Verifier) WithID(id int64) (Verifier, error) {
	return NewVerifier(id, v.validUntil)
}

// WithValidUntil returns a copy of v that is valid up to, and including, the date of validUntil.
func (v Verifier) WithValidUntil(validUntil time.Time) (Verifier, error) {
	return NewVerifier(v.id, validUntil)
}

// WithDaysValid returns a copy of v that is valid for days after the date of now.
func (v Verifier) WithDaysValid(now time.Time, days int) (Verifier, error) {
	return NewVerifier(v.id, date(now).AddDate(0, 0, days))
}

// IsValid reports whether v is still valid on the date of asOf.
func (v Verifier) IsValid(asOf time.Time) bool {
	return !date(asOf).After(v.validUntil)
}

// Equal reports whether v and o carry the same id and date.
func (v Verifier) Equal(o Verifier) bool {
	return v.id == o.id && v.validUntil.Equal(o.validUntil)
}

func (v Verifier) String() string {
	return fmt.Sprintf("Verifier{id: %d, validUntil: %s}", v.id, v.validUntil.Format(time.DateOnly))
}

// date returns the calendar date of t, in t's own location, as midnight UTC.
func date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func validateID(id int64) error {
	if id < 0 || id > AbsoluteLargestID {
		return errors.Kindf(errors.KindRange, "brevis/verify: id %d outside of range [0, %d]", id, AbsoluteLargestID)
	}
	return nil
}

func validateDate(d time.Time) error {
	if d.Before(AbsoluteFirstValidDate) || d.After(AbsoluteLastValidDate) {
		return errors.Kindf(errors.KindRange,
			"brevis/verify: date %s outside of range [%s, %s]",
			d.Format(time.DateOnly),
			AbsoluteFirstValidDate.Format(time.DateOnly),
			AbsoluteLastValidDate.Format(time.DateOnly),
		)
	}
	return nil
}
