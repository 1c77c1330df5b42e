package batch

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.akshayshah.org/attest"
	"go.uber.org/goleak"

	"github.com/komuw/brevis/codec"
	"github.com/komuw/brevis/errors"
)

func TestMain(m *testing.M) {
	// call flag.Parse() here if TestMain uses flags
	goleak.VerifyTestMain(m)
}

func TestMap(t *testing.T) {
	t.Parallel()

	t.Run("keeps order", func(t *testing.T) {
		t.Parallel()

		e, err := codec.NewBuilder().Checked(true).BuildLong()
		attest.Ok(t, err)

		values := []int64{}
		for v := int64(-500); v < 500; v++ {
			values = append(values, v*7919)
		}

		codes, err := Map(context.Background(), 4, values, e.Encode)
		attest.Ok(t, err)
		attest.Equal(t, len(codes), len(values))

		decoded, err := Map(context.Background(), 0, codes, e.Decode)
		attest.Ok(t, err)
		attest.Equal(t, decoded, values)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		got, err := Map(context.Background(), 2, []int{}, func(int) (int, error) { return 0, nil })
		attest.Ok(t, err)
		attest.Equal(t, len(got), 0)
	})

	t.Run("bounded", func(t *testing.T) {
		t.Parallel()

		var active, peak atomic.Int64
		items := make([]int, 50)
		_, err := Map(context.Background(), 3, items, func(int) (int, error) {
			now := active.Add(1)
			for {
				p := peak.Load()
				if now <= p || peak.CompareAndSwap(p, now) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
			return 0, nil
		})
		attest.Ok(t, err)
		attest.True(t, peak.Load() <= 3)
		attest.True(t, peak.Load() >= 1)
	})

	t.Run("errors are joined in order", func(t *testing.T) {
		t.Parallel()

		e, err := codec.NewBuilder().Checked(true).BuildLong()
		attest.Ok(t, err)

		got, err := Map(context.Background(), 2, []string{"VYB", "VYD", "MQC", "V0Y"}, e.Decode)
		attest.Error(t, err)
		attest.Equal(t, got[0], int64(255))
		attest.Equal(t, got[2], int64(100))

		// the first failure decides the kind.
		attest.Equal(t, errors.KindOf(err), errors.KindChecksum)
		msg := err.Error()
		attest.True(t, strings.Index(msg, `"VYD"`) < strings.Index(msg, `'0'`))
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var calls atomic.Int64
		_, err := Map(ctx, 1, make([]int, 10), func(int) (int, error) {
			calls.Add(1)
			return 0, nil
		})
		attest.True(t, errors.Is(err, context.Canceled))
		attest.Equal(t, calls.Load(), int64(0))
	})

	t.Run("cancelled after a failure", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var calls atomic.Int64
		_, err := Map(ctx, 1, []int{1, 2, 3, 4}, func(i int) (int, error) {
			calls.Add(1)
			if i == 1 {
				cancel()
				return 0, errors.New("boom")
			}
			return i, nil
		})
		attest.Error(t, err)
		attest.True(t, errors.Is(err, context.Canceled))
		attest.Subsequence(t, err.Error(), "boom")
		attest.Equal(t, calls.Load(), int64(1))
	})

	t.Run("panics are propagated", func(t *testing.T) {
		t.Parallel()

		attest.Panics(t, func() {
			_, _ = Map(context.Background(), 2, []int{1, 2, 3}, func(i int) (int, error) {
				if i == 2 {
					panic(fmt.Sprintf("item %d", i))
				}
				return i, nil
			})
		})

		defer func() {
			v := recover()
			pe, ok := v.(panicError)
			attest.True(t, ok)
			attest.True(t, errors.Is(pe, errors.ErrInvalidValue))
			attest.Subsequence(t, string(pe.Stack), "batch_test.go")
		}()
		_, _ = Map(context.Background(), 1, []int{1}, func(int) (int, error) {
			panic(errors.Kindf(errors.KindValue, "bad"))
		})
	})
}
