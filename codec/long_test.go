package codec

import (
	"context"
	"fmt"
	"math"
	"strings"
	"testing"

	"go.akshayshah.org/attest"
	"golang.org/x/sync/errgroup"

	"github.com/komuw/brevis/alphabet"
	"github.com/komuw/brevis/errors"
	"github.com/komuw/brevis/id"
)

func mustLong(t *testing.T, b *Builder) *LongEncoder {
	t.Helper()
	e, err := b.BuildLong()
	attest.Ok(t, err)
	return e
}

func TestLongEncoder(t *testing.T) {
	t.Parallel()

	plain := NewBuilder
	checked := func() *Builder { return NewBuilder().Checked(true) }
	padded := func() *Builder { return NewBuilder().PadWidth(7) }
	segmented := func() *Builder { return NewBuilder().PadWidth(7).Checked(true).UseSeparator(true) }
	tight := NewTightBuilder
	tightChecked := func() *Builder { return NewTightBuilder().Checked(true) }

	tests := []struct {
		v    int64
		want [6]string // plain, checked, padded, segmented, tight, tightChecked
	}{
		{0, [6]string{"P", "PP", "PPPPPPP", "PPPP-PPP", "T", "TT"}},
		{255, [6]string{"VY", "VYB", "PPPPPVY", "PPPP-VYB", "bt", "btQ"}},
		{100, [6]string{"MQ", "MQC", "PPPPPMQ", "PPPP-MQC", "Vc", "VcK"}},
		{1000, [6]string{"DMQ", "DMQZ", "PPPPDMQ", "PPPD-MQZ", "wi", "wiY"}},
		{10_000, [6]string{"RMQ", "RMQY", "PPPPRMQ", "PPPR-MQY", "Vjn", "Vjn_"}},
		{-5, [6]string{"~Z", "~ZX", "~PPPPPPZ", "~PPP-PPZX", "~Q", "~Q;"}},
		{-5_000_000, [6]string{"~SZZNX", "~SZZNXS", "~PPSZZNX", "~PSZ-ZNXS", "~9ZQX", "~9ZQX("}},
		{1_000_000_000_000, [6]string{"DYB2C9DMQ", "DYB2C9DMQG", "DYB2C9DMQ", "DYB2-C9DM-QG", "gglq&Di", "gglq&Di;"}},
		{0x80000, [6]string{"FWNV", "FWNVY", "PPPFWNV", "PPFW-NVY", "VKC*", "VKC*C"}},
		{0xFFFFF, [6]string{"DVHGY", "DVHGY7", "PPDVHGY", "PDVH-GY7", "W1D'", "W1D't"}},
		{math.MaxInt64, [6]string{"KQFHHRWDYWGPC", "KQFHHRWDYWGPC3", "KQFHHRWDYWGPC", "KQFH-HRWD-YWGP-C3", "V;OeKx09cJQ", "V;OeKx09cJQP"}},
		{math.MinInt64, [6]string{"~KQFHHRWDYWGPV", "~KQFHHRWDYWGPVR", "~KQFHHRWDYWGPV", "~KQF-HHRW-DYWG-PVR", "~V;OeKx09cJg", "~V;OeKx09cJg3"}},
	}

	encoders := []*LongEncoder{
		mustLong(t, plain()),
		mustLong(t, checked()),
		mustLong(t, padded()),
		mustLong(t, segmented()),
		mustLong(t, tight()),
		mustLong(t, tightChecked()),
	}

	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprint(tt.v), func(t *testing.T) {
			t.Parallel()

			for i, e := range encoders {
				got, err := e.Encode(tt.v)
				attest.Ok(t, err)
				attest.Equal(t, got, tt.want[i], attest.Sprintf("encoder %d", i))

				v, err := e.Decode(got)
				attest.Ok(t, err)
				attest.Equal(t, v, tt.v, attest.Sprintf("encoder %d", i))
			}
		})
	}
}

func TestLongEncoderSeparators(t *testing.T) {
	t.Parallel()

	t.Run("without separator", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder().Checked(true).UseSeparator(true))
		withSep, err := e.Encode(1_000_000_000_000)
		attest.Ok(t, err)
		attest.Equal(t, withSep, "DYB2-C9DM-QG")

		without, err := e.EncodeWithoutSeparator(1_000_000_000_000)
		attest.Ok(t, err)
		attest.Equal(t, without, "DYB2C9DMQG")

		for _, s := range []string{withSep, without, "D-Y-B-2-C-9-D-M-Q-G", "DYB2C9DMQG---", "--DYB2C9DMQG"} {
			v, err := e.Decode(s)
			attest.Ok(t, err)
			attest.Equal(t, v, int64(1_000_000_000_000))
		}
	})

	t.Run("segments count the sign", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder().UseSeparator(true).SegmentLength(2))
		got, err := e.Encode(-5_000_000)
		attest.Ok(t, err)
		attest.Equal(t, got, "~S-ZZ-NX")
	})

	t.Run("custom separator", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder().Separator('.').UseSeparator(true).SegmentLength(3))
		got, err := e.Encode(1_000_000_000_000)
		attest.Ok(t, err)
		attest.Equal(t, got, "DYB.2C9.DMQ")

		v, err := e.Decode(got)
		attest.Ok(t, err)
		attest.Equal(t, v, int64(1_000_000_000_000))
	})

	t.Run("separator not stripped when disabled", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder())
		_, err := e.Decode("DYB2-C9DM-Q")
		attest.True(t, errors.Is(err, errors.ErrInvalidCharacter))
	})

	t.Run("stripping is idempotent", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder().Checked(true).UseSeparator(true).SegmentLength(2))
		src := id.NewSeeded([]byte("separators"))
		for range 200 {
			v, err := id.Int64n(src, math.MinInt64, math.MaxInt64)
			attest.Ok(t, err)

			a, err := e.Encode(v)
			attest.Ok(t, err)
			b, err := e.EncodeWithoutSeparator(v)
			attest.Ok(t, err)
			attest.Equal(t, strings.ReplaceAll(a, "-", ""), b)

			got, err := e.Decode(a)
			attest.Ok(t, err)
			attest.Equal(t, got, v)
		}
	})
}

func TestLongEncoderPadding(t *testing.T) {
	t.Parallel()

	t.Run("pad width is a minimum", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder().PadWidth(3))
		for v, want := range map[int64]string{26_999: "JJJ", 27_000: "DPPP"} {
			got, err := e.Encode(v)
			attest.Ok(t, err)
			attest.Equal(t, got, want)
		}
	})

	t.Run("check character counts towards the width", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder().PadWidth(3).Checked(true))
		for v, want := range map[int64]string{899: "JJG", 900: "DPPL"} {
			got, err := e.Encode(v)
			attest.Ok(t, err)
			attest.Equal(t, got, want)
		}
	})

	t.Run("sign does not count towards the width", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder().PadWidth(MaxPadLength))
		got, err := e.Encode(-5)
		attest.Ok(t, err)
		attest.Equal(t, got, "~"+strings.Repeat("P", MaxPadLength-1)+"Z")

		v, err := e.Decode(got)
		attest.Ok(t, err)
		attest.Equal(t, v, int64(-5))
	})

	t.Run("leading zeros decode", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder())
		v, err := e.Decode("PPPPPPPPPPPPPPPPPPPPPPPPPPPPVY")
		attest.Ok(t, err)
		attest.Equal(t, v, int64(255))
	})
}

func TestLongEncoderErrors(t *testing.T) {
	t.Parallel()

	t.Run("decode", func(t *testing.T) {
		t.Parallel()

		plain := mustLong(t, NewBuilder())
		checked := mustLong(t, NewBuilder().Checked(true).UseSeparator(true))

		tests := []struct {
			name string
			e    *LongEncoder
			in   string
			kind errors.Kind
		}{
			{"empty", plain, "", errors.KindValue},
			{"sign only", plain, "~", errors.KindValue},
			{"separators only", checked, "---", errors.KindValue},
			{"lower case", plain, "vy", errors.KindCharacter},
			{"unknown character", plain, "V0Y", errors.KindCharacter},
			{"sign in the middle", plain, "V~Y", errors.KindCharacter},
			{"one past MaxInt64", plain, "KQFHHRWDYWGPV", errors.KindValue},
			{"one past MinInt64", plain, "~KQFHHRWDYWGP8", errors.KindValue},
			{"MaxUint64", plain, "D4B8BX26MP64PY", errors.KindValue},
			{"past MaxUint64", plain, "D4B8BX26MP64PN", errors.KindValue},
			{"huge", plain, strings.Repeat("J", 40), errors.KindValue},
			{"check character only", checked, "P", errors.KindValue},
			{"wrong check character", checked, "DYB2-C9DM-QH", errors.KindChecksum},
			{"character checked before checksum", checked, "DYB2-C0DM-QG", errors.KindCharacter},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				_, err := tt.e.Decode(tt.in)
				attest.Error(t, err)
				attest.Equal(t, errors.KindOf(err), tt.kind)
			})
		}
	})

	t.Run("every substitution is detected", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder().Checked(true))
		good := []rune("DYB2C9DMQG")
		for i := range good {
			for _, r := range alphabet.DefaultAlphabet {
				if r == good[i] {
					continue
				}
				bad := append([]rune{}, good...)
				bad[i] = r
				_, err := e.Decode(string(bad))
				attest.True(t, errors.Is(err, errors.ErrInvalidChecksum), attest.Sprintf("%s", string(bad)))
			}
		}
	})

	t.Run("sign is outside the checksum", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder().Checked(true))
		pos, err := e.Encode(5_000_000)
		attest.Ok(t, err)
		neg, err := e.Encode(-5_000_000)
		attest.Ok(t, err)
		attest.Equal(t, "~"+pos, neg)
	})

	t.Run("id range", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder().MinID(0).MaxID(1000))
		for _, v := range []int64{-1, 1001, math.MinInt64, math.MaxInt64} {
			_, err := e.Encode(v)
			attest.True(t, errors.Is(err, errors.ErrInvalidValue))
		}
		for _, v := range []int64{0, 1000} {
			s, err := e.Encode(v)
			attest.Ok(t, err)
			got, err := e.Decode(s)
			attest.Ok(t, err)
			attest.Equal(t, got, v)
		}

		// "DMR" is 1001.
		_, err := e.Decode("DMR")
		attest.True(t, errors.Is(err, errors.ErrInvalidValue))
		_, err = e.Decode("~D")
		attest.True(t, errors.Is(err, errors.ErrInvalidValue))
	})
}

func TestLongEncoderRandom(t *testing.T) {
	t.Parallel()

	t.Run("within range", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder().MinID(10).MaxID(12).Checked(true))
		src := id.NewSeeded([]byte("random"))
		seen := map[int64]bool{}
		for range 300 {
			s, err := e.EncodeRandom(src)
			attest.Ok(t, err)
			v, err := e.Decode(s)
			attest.Ok(t, err)
			attest.True(t, v >= 10 && v <= 12)
			seen[v] = true
		}
		attest.Equal(t, len(seen), 3)
	})

	t.Run("single value", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder().MinID(7).MaxID(7))
		s, err := e.EncodeRandom(id.Crypto)
		attest.Ok(t, err)
		attest.Equal(t, s, "C")
	})

	t.Run("reproducible", func(t *testing.T) {
		t.Parallel()

		e := mustLong(t, NewBuilder())
		a, err := e.EncodeRandom(id.NewSeeded([]byte("seed")))
		attest.Ok(t, err)
		b, err := e.EncodeRandom(id.NewSeeded([]byte("seed")))
		attest.Ok(t, err)
		attest.Equal(t, a, b)
	})
}

func TestLongEncoderConcurrency(t *testing.T) {
	t.Parallel()

	e := mustLong(t, NewBuilder().Checked(true).UseSeparator(true).PadWidth(DefaultPadLength))

	g, _ := errgroup.WithContext(context.Background())
	for i := range 8 {
		g.Go(func() error {
			for v := int64(i) * 10_000; v < int64(i+1)*10_000; v++ {
				s, err := e.Encode(v)
				if err != nil {
					return err
				}
				got, err := e.Decode(s)
				if err != nil {
					return err
				}
				if got != v {
					return fmt.Errorf("decoded %d from %q, want %d", got, s, v)
				}
			}
			return nil
		})
	}
	attest.Ok(t, g.Wait())
}
