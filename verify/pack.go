package verify

import (
	"time"

	"github.com/komuw/brevis/errors"
)

// The packed layout, from the most significant bit:
//
//	|0|id: 47 bits|year-2000: 7 bits|month: 4 bits|day: 5 bits|
const (
	idShift    = 16
	yearShift  = 9
	monthShift = 5
	dayShift   = 0

	idMask    = 0x7FFFFFFFFFFF
	yearMask  = 0x7F
	monthMask = 0x0F
	dayMask   = 0x1F
)

// Pack folds v into a single integer.
// The top bit is always clear, so the result also fits in an int64.
func Pack(v Verifier) uint64 {
	y, m, d := v.validUntil.Date()

	var p uint64
	p |= (uint64(v.id) & idMask) << idShift
	p |= (uint64(y-2000) & yearMask) << yearShift
	p |= (uint64(m) & monthMask) << monthShift
	p |= (uint64(d) & dayMask) << dayShift
	return p
}

// Unpack is the inverse of [Pack].
// It returns an error of kind [errors.KindRange] if p does not hold a real calendar date within
// [AbsoluteFirstValidDate, AbsoluteLastValidDate].
func Unpack(p uint64) (Verifier, error) {
	id := int64((p >> idShift) & idMask)
	y := int((p>>yearShift)&yearMask) + 2000
	m := time.Month((p >> monthShift) & monthMask)
	d := int((p >> dayShift) & dayMask)

	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes eg February 30th into March.
	if ty, tm, td := t.Date(); ty != y || tm != m || td != d {
		return Verifier{}, errors.Kindf(errors.KindRange, "brevis/verify: packed value %#x holds an invalid date %04d-%02d-%02d", p, y, m, d)
	}
	return NewVerifier(id, t)
}
