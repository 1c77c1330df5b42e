package codec

import (
	"math/big"

	"github.com/komuw/brevis/errors"
)

// BigEncoder encodes arbitrary precision integers.
// It works exactly like [LongEncoder] except that there is no overflow boundary and no id range.
type BigEncoder struct {
	cfg  Config
	base *big.Int
}

// NewBigEncoder returns a BigEncoder for cfg.
func NewBigEncoder(cfg Config) (*BigEncoder, error) {
	if err := cfg.usable(); err != nil {
		return nil, err
	}
	return &BigEncoder{cfg: cfg, base: big.NewInt(int64(cfg.Base()))}, nil
}

// Config returns the encoder's configuration.
func (e *BigEncoder) Config() Config { return e.cfg }

// Encode encodes v, with separators if they are enabled.
func (e *BigEncoder) Encode(v *big.Int) (string, error) {
	s, err := e.EncodeWithoutSeparator(v)
	if err != nil {
		return "", err
	}
	return e.cfg.addSeparators(s), nil
}

// EncodeWithoutSeparator encodes v, never inserting separators. v is not modified.
func (e *BigEncoder) EncodeWithoutSeparator(v *big.Int) (string, error) {
	if v == nil {
		return "", errors.Kindf(errors.KindValue, "brevis/codec: cannot encode a nil big.Int")
	}

	negative := v.Sign() < 0
	mag := new(big.Int).Abs(v)
	rem := new(big.Int)

	digits := []int{}
	if mag.Sign() == 0 {
		digits = append(digits, 0)
	}
	for mag.Sign() > 0 {
		mag.QuoRem(mag, e.base, rem)
		digits = append(digits, int(rem.Int64()))
	}

	return e.cfg.render(digits, negative), nil
}

// Decode decodes s, which may contain separators if they are enabled.
func (e *BigEncoder) Decode(s string) (*big.Int, error) {
	digits, negative, err := e.cfg.parse(s)
	if err != nil {
		return nil, err
	}

	acc := new(big.Int)
	d := new(big.Int)
	for _, v := range digits {
		acc.Mul(acc, e.base)
		acc.Add(acc, d.SetInt64(int64(v)))
	}
	if negative {
		acc.Neg(acc)
	}
	return acc, nil
}
