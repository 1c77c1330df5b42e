package codec

import (
	"math"

	"github.com/komuw/brevis/errors"
	"github.com/komuw/brevis/id"
)

// LongEncoder encodes int64 values.
//
// Values are encoded as a sign and a magnitude, so the whole int64 range, [math.MinInt64] included,
// round trips. Values outside [Config.MinID, Config.MaxID] are rejected both ways.
type LongEncoder struct {
	cfg Config
}

// NewLongEncoder returns a LongEncoder for cfg.
func NewLongEncoder(cfg Config) (*LongEncoder, error) {
	if err := cfg.usable(); err != nil {
		return nil, err
	}
	return &LongEncoder{cfg: cfg}, nil
}

// Config returns the encoder's configuration.
func (e *LongEncoder) Config() Config { return e.cfg }

// Encode encodes v, with separators if they are enabled.
func (e *LongEncoder) Encode(v int64) (string, error) {
	s, err := e.EncodeWithoutSeparator(v)
	if err != nil {
		return "", err
	}
	return e.cfg.addSeparators(s), nil
}

// EncodeWithoutSeparator encodes v, never inserting separators.
func (e *LongEncoder) EncodeWithoutSeparator(v int64) (string, error) {
	if err := e.inRange(v); err != nil {
		return "", err
	}

	negative := v < 0
	mag := uint64(v)
	if negative {
		// two's complement negation; exact for math.MinInt64 too.
		mag = -mag
	}

	base := uint64(e.cfg.Base())
	digits := make([]int, 0, 16)
	if mag == 0 {
		digits = append(digits, 0)
	}
	for mag > 0 {
		digits = append(digits, int(mag%base))
		mag /= base
	}

	return e.cfg.render(digits, negative), nil
}

// EncodeRandom encodes a value picked from src, uniformly within [Config.MinID, Config.MaxID].
// When MaxID is [math.MaxInt64], that one value is never picked.
func (e *LongEncoder) EncodeRandom(src id.Source) (string, error) {
	upper := e.cfg.maxID
	if upper < math.MaxInt64 {
		upper++
	}
	v, err := id.Int64n(src, e.cfg.minID, upper)
	if err != nil {
		return "", err
	}
	return e.Encode(v)
}

// Decode decodes s, which may contain separators if they are enabled.
func (e *LongEncoder) Decode(s string) (int64, error) {
	digits, negative, err := e.cfg.parse(s)
	if err != nil {
		return 0, err
	}

	base := uint64(e.cfg.Base())
	var acc uint64
	for _, d := range digits {
		if acc > (math.MaxUint64-uint64(d))/base {
			return 0, errors.Kindf(errors.KindValue, "brevis/codec: encoding %q overflows int64", s)
		}
		acc = acc*base + uint64(d)
	}

	limit := uint64(math.MaxInt64)
	if negative {
		limit++
	}
	if acc > limit {
		return 0, errors.Kindf(errors.KindValue, "brevis/codec: encoding %q overflows int64", s)
	}

	v := int64(acc)
	if negative {
		v = -v
	}
	if err := e.inRange(v); err != nil {
		return 0, err
	}
	return v, nil
}

func (e *LongEncoder) inRange(v int64) error {
	if v < e.cfg.minID || v > e.cfg.maxID {
		return errors.Kindf(errors.KindValue, "brevis/codec: id %d outside of range [%d, %d]", v, e.cfg.minID, e.cfg.maxID)
	}
	return nil
}
