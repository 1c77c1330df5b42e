package codec

import (
	"math/big"

	"github.com/google/uuid"

	"github.com/komuw/brevis/errors"
)

// UUIDEncoder encodes UUIDs.
// The 16 bytes of a UUID are read as one unsigned, big-endian 128bit magnitude which is then encoded by a [BigEncoder].
type UUIDEncoder struct {
	big *BigEncoder
}

// NewUUIDEncoder returns a UUIDEncoder for cfg.
func NewUUIDEncoder(cfg Config) (*UUIDEncoder, error) {
	b, err := NewBigEncoder(cfg)
	if err != nil {
		return nil, err
	}
	return &UUIDEncoder{big: b}, nil
}

// Config returns the encoder's configuration.
func (e *UUIDEncoder) Config() Config { return e.big.cfg }

// Encode encodes u, with separators if they are enabled.
func (e *UUIDEncoder) Encode(u uuid.UUID) (string, error) {
	return e.big.Encode(UUIDToBig(u))
}

// EncodeWithoutSeparator encodes u, never inserting separators.
func (e *UUIDEncoder) EncodeWithoutSeparator(u uuid.UUID) (string, error) {
	return e.big.EncodeWithoutSeparator(UUIDToBig(u))
}

// Decode decodes s, which may contain separators if they are enabled.
func (e *UUIDEncoder) Decode(s string) (uuid.UUID, error) {
	b, err := e.big.Decode(s)
	if err != nil {
		return uuid.Nil, err
	}
	return BigToUUID(b)
}

// UUIDToBig returns u as a non-negative integer: the high 64 bits shifted left by 64, or'ed with the low 64 bits.
func UUIDToBig(u uuid.UUID) *big.Int {
	return new(big.Int).SetBytes(u[:])
}

// BigToUUID is the inverse of [UUIDToBig].
// It returns an error of kind [errors.KindValue] if b is negative or wider than 128 bits.
func BigToUUID(b *big.Int) (uuid.UUID, error) {
	if b == nil || b.Sign() < 0 || b.BitLen() > 128 {
		return uuid.Nil, errors.Kindf(errors.KindValue, "brevis/codec: %v is not a 128bit unsigned value", b)
	}
	var u uuid.UUID
	b.FillBytes(u[:])
	return u, nil
}
