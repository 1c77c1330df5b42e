// Package log implements a logging handler that holds records back until something goes wrong.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/komuw/brevis/alphabet"
	"github.com/komuw/brevis/errors"
	"github.com/komuw/brevis/id"
)

const (
	// LevelImmediate is the severity which if a log event has, it is logged immediately without buffering.
	LevelImmediate = slog.Level(-6142973)

	// logIDFieldName is the name under which a logID will be logged as.
	logIDFieldName = "logID"
	// kindFieldName is the name under which the [errors.Kind] of a logged error is logged as.
	kindFieldName = "kind"

	logIDLength = 16
	// noLogID tags records when no logID could be generated.
	noLogID = "brevis-no-log-id"
)

type logCtxKeyType string

const logCtxKey = logCtxKeyType("brevis-log-id")

// NewContext returns a copy of ctx that carries logID.
// Records logged with that context are tagged with logID instead of the logger's own.
func NewContext(ctx context.Context, logID string) context.Context {
	return context.WithValue(ctx, logCtxKey, logID)
}

// GetID gets a logID either from the provided context or auto-generated.
func GetID(ctx context.Context) string {
	if ctx == nil {
		ctx = context.Background()
	}
	logID, _ := getID(ctx)
	return logID
}

// getID returns the logID in ctx and true, or a new logID and false.
func getID(ctx context.Context) (string, bool) {
	if v := ctx.Value(logCtxKey); v != nil {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return newID(id.Crypto), false
}

// newID draws a logID from src, or returns noLogID if src fails.
// logIDs use the default alphabet so that they read like the codes they are logged next to.
func newID(src id.Source) string {
	s, err := id.Random(src, alphabet.DefaultAlphabet, logIDLength)
	if err != nil {
		return noLogID
	}
	return s
}

// New returns an [slog.Logger]
// The logger is backed by an [slog.Handler] that stores log records into a [circular buffer].
// Those records are only flushed, as JSON, to w when a record with level >= [slog.LevelError] is logged.
// Every flushed record carries a logID that ties together records of one invocation.
//
// [circular buffer]: https://en.wikipedia.org/wiki/Circular_buffer
func New(ctx context.Context, w io.Writer, maxSize int) *slog.Logger {
	return slog.New(newHandler(ctx, w, maxSize))
}

// handler is an [slog.Handler]
// It stores log records into a circular buffer and only flushes them when an error is logged.
type handler struct {
	wrappedHandler slog.Handler

	// mu is a pointer so that handlers derived by WithAttrs/WithGroup share it with their parent.
	mu *sync.Mutex
	// +checklocks:mu
	cBuf *circleBuf
	// +checklocks:mu
	logID string
}

func newHandler(ctx context.Context, w io.Writer, maxSize int) *handler {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if s, ok := a.Value.Any().(*slog.Source); ok {
					// log the source in one line.
					return slog.String(a.Key, fmt.Sprintf("%s:%d", s.File, s.Line))
				}
			}
			return a
		},
	}

	return &handler{
		wrappedHandler: slog.NewJSONHandler(w, opts),
		mu:             &sync.Mutex{},
		cBuf:           newCircleBuf(maxSize),
		logID:          GetID(ctx),
	}
}

func (h *handler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	return &handler{wrappedHandler: h.wrappedHandler.WithAttrs(attrs), mu: h.mu, cBuf: h.cBuf, logID: h.logID}
}

func (h *handler) WithGroup(name string) slog.Handler {
	h.mu.Lock()
	defer h.mu.Unlock()
	return &handler{wrappedHandler: h.wrappedHandler.WithGroup(name), mu: h.mu, cBuf: h.cBuf, logID: h.logID}
}

func (h *handler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level == LevelImmediate {
		return h.wrappedHandler.Handle(ctx, r)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.cBuf.store(bufferedRecord{r: r, logID: h.logID, ctx: ctx})
	if r.Level < slog.LevelError {
		return nil
	}

	var err error
	for _, v := range h.cBuf.buf {
		if e := h.wrappedHandler.Handle(v.ctx, v.enrich()); e != nil {
			err = errors.Join(err, e)
		}
	}
	if err == nil {
		// keep the records if they could not be written; they are the ones needed to debug.
		h.cBuf.reset()
	}
	return err
}

// bufferedRecord is a [slog.Record] plus what is needed to tag it when it is eventually flushed.
type bufferedRecord struct {
	r     slog.Record
	logID string
	ctx   context.Context
}

// enrich returns a copy of the record with time in UTC, its logID and, for the first error attribute,
// the error's stack trace and kind.
func (b bufferedRecord) enrich() slog.Record {
	r := b.r.Clone()
	if !r.Time.IsZero() {
		r.Time = r.Time.UTC()
	}

	logID := b.logID
	if fromCtx, ok := getID(b.ctx); ok || logID == "" {
		logID = fromCtx
	}
	extra := []slog.Attr{slog.String(logIDFieldName, logID)}

	r.Attrs(func(a slog.Attr) bool {
		e, ok := a.Value.Any().(error)
		if !ok {
			return true
		}
		if stack := errors.StackTrace(e); stack != "" {
			extra = append(extra, slog.String("stack", stack))
		}
		if k := errors.KindOf(e); k != errors.KindUnknown {
			extra = append(extra, slog.String(kindFieldName, k.String()))
		}
		return false
	})

	r.AddAttrs(extra...)
	return r
}

// circleBuf is a naive circular buffer.
// Users of circleBuf are responsible for concurrency safety.
type circleBuf struct {
	buf     []bufferedRecord
	maxSize int
}

func newCircleBuf(maxSize int) *circleBuf {
	if maxSize <= 0 {
		maxSize = 10
	}
	return &circleBuf{
		buf:     make([]bufferedRecord, 0, maxSize),
		maxSize: maxSize,
	}
}

func (c *circleBuf) store(r bufferedRecord) {
	if len(c.buf) >= c.maxSize {
		// drop the oldest three quarters.
		n := copy(c.buf, c.buf[len(c.buf)-c.maxSize/4:])
		clear(c.buf[n:])
		c.buf = c.buf[:n]
	}
	c.buf = append(c.buf, r)
}

func (c *circleBuf) reset() {
	clear(c.buf)
	c.buf = c.buf[:0]
}
