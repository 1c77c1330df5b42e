package otp

import (
	"math"
	"testing"

	"go.akshayshah.org/attest"

	"github.com/komuw/brevis/errors"
	"github.com/komuw/brevis/id"
)

func TestEncoder(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		e, err := NewBuilder().Build()
		attest.Ok(t, err)
		attest.Equal(t, e.Alphabet(), DefaultAlphabet)
		attest.Equal(t, e.Length(), 6)
		attest.Equal(t, e.MinID(), DefaultMinID)
		attest.Equal(t, e.MaxID(), DefaultMaxID)

		code, err := e.Encode(111)
		attest.Ok(t, err)
		attest.Equal(t, code, "444888")

		_, err = e.Encode(1)
		attest.True(t, errors.Is(err, errors.ErrInvalidValue))
		_, err = e.Decode("444448")
		attest.True(t, errors.Is(err, errors.ErrInvalidValue))
	})

	t.Run("codes are padded", func(t *testing.T) {
		t.Parallel()

		e, err := NewBuilder().Limits(0, DefaultMaxID).Build()
		attest.Ok(t, err)

		for v, want := range map[int64]string{1: "444448", 111: "444888", 999_999: "666666"} {
			code, err := e.Encode(v)
			attest.Ok(t, err)
			attest.Equal(t, code, want)

			got, err := e.Decode(code)
			attest.Ok(t, err)
			attest.Equal(t, got, v)
		}
	})

	t.Run("widest", func(t *testing.T) {
		t.Parallel()

		e, err := NewBuilder().Limits(0, math.MaxInt64).Build()
		attest.Ok(t, err)
		attest.Equal(t, e.Length(), 19)

		code, err := e.Encode(math.MaxInt64)
		attest.Ok(t, err)
		attest.Equal(t, code, "6227732475901330943")
	})

	t.Run("random", func(t *testing.T) {
		t.Parallel()

		e, err := NewBuilder().Build()
		attest.Ok(t, err)

		src := id.NewSeeded([]byte("otp"))
		for range 100 {
			code, err := e.EncodeRandom(src)
			attest.Ok(t, err)
			attest.Equal(t, len(code), e.Length())

			v, err := e.Decode(code)
			attest.Ok(t, err)
			attest.True(t, v >= DefaultMinID && v <= DefaultMaxID)
		}
	})

	t.Run("decode errors", func(t *testing.T) {
		t.Parallel()

		e, err := NewBuilder().Build()
		attest.Ok(t, err)

		for code, kind := range map[string]errors.Kind{
			"":        errors.KindValue,
			"44488":   errors.KindValue,
			"4448888": errors.KindValue,
			"44488a":  errors.KindCharacter,
		} {
			_, err := e.Decode(code)
			attest.Equal(t, errors.KindOf(err), kind, attest.Sprintf("%q", code))
		}
	})

	t.Run("invalid configurations", func(t *testing.T) {
		t.Parallel()

		for _, b := range []*Builder{
			NewBuilder().Limits(0, 8),
			NewBuilder().Limits(-1, 100),
			NewBuilder().Limits(90, 100),
			NewBuilder().Limits(100, 100),
			NewBuilder().Limits(0, math.MinInt64),
			NewBuilder().Alphabet("4827105394"),
			NewBuilder().Alphabet("4"),
			NewBuilder().Alphabet("48/2"),
			// 63 binary digits is wider than any pad.
			NewBuilder().Alphabet("01").Limits(0, math.MaxInt64),
		} {
			_, err := b.Build()
			attest.True(t, errors.Is(err, errors.ErrInvalidConfig))
		}

		e, err := NewBuilder().Alphabet("").Limits(89, 100).Build()
		attest.Ok(t, err)
		attest.Equal(t, e.Alphabet(), DefaultAlphabet)
		attest.Equal(t, e.Length(), 3)
	})
}

func TestSplitEncoder(t *testing.T) {
	t.Parallel()

	t.Run("halves look different", func(t *testing.T) {
		t.Parallel()

		e, err := NewSplitEncoder("", "")
		attest.Ok(t, err)
		attest.Equal(t, e.Length(), 6)

		a, b := e.Alphabets()
		attest.Equal(t, a, DefaultSplitAlphabet1)
		attest.Equal(t, b, DefaultSplitAlphabet2)

		for p, want := range map[Pair]string{
			{0, 1}:     "555774",
			{1, 1}:     "558774",
			{999, 123}: "777482",
		} {
			code, err := e.Encode(p)
			attest.Ok(t, err)
			attest.Equal(t, code, want)

			got, err := e.Decode(code)
			attest.Ok(t, err)
			attest.Equal(t, got, p)
		}
	})

	t.Run("custom alphabets", func(t *testing.T) {
		t.Parallel()

		e, err := NewSplitEncoder("0123456789", "9876543210")
		attest.Ok(t, err)

		code, err := e.Encode(Pair{42, 7})
		attest.Ok(t, err)
		attest.Equal(t, code, "042992")

		_, err = NewSplitEncoder("0123456789", "00")
		attest.True(t, errors.Is(err, errors.ErrInvalidConfig))
	})

	t.Run("random", func(t *testing.T) {
		t.Parallel()

		e, err := NewSplitEncoder("", "")
		attest.Ok(t, err)

		src := id.NewSeeded([]byte("split"))
		for range 100 {
			code, err := e.EncodeRandom(src)
			attest.Ok(t, err)
			p, err := e.Decode(code)
			attest.Ok(t, err)
			attest.True(t, p.First >= 0 && p.First <= SplitMaxID)
			attest.True(t, p.Second >= 0 && p.Second <= SplitMaxID)
		}
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		e, err := NewSplitEncoder("", "")
		attest.Ok(t, err)

		_, err = e.Encode(Pair{SplitMaxID + 1, 0})
		attest.True(t, errors.Is(err, errors.ErrInvalidValue))
		_, err = e.Encode(Pair{0, -1})
		attest.True(t, errors.Is(err, errors.ErrInvalidValue))
		_, err = e.Decode("55577")
		attest.True(t, errors.Is(err, errors.ErrInvalidValue))
		// halves do not share an alphabet; 'x' is in neither.
		_, err = e.Decode("555x74")
		attest.True(t, errors.Is(err, errors.ErrInvalidCharacter))
	})
}
