package errors

import (
	"fmt"
)

// Kind classifies an error returned by brevis.
// The set is closed; every error produced by the codec packages has exactly one Kind.
type Kind uint8

const (
	// KindUnknown is the Kind of errors that did not originate from brevis.
	KindUnknown Kind = iota
	// KindConfig is an invalid configuration: bad alphabet/character-set pair, illegal separator,
	// out-of-range pad width or segment length.
	KindConfig
	// KindValue is an invalid input value: negative where unsupported, outside the configured id range,
	// overflowing, or empty encoded text.
	KindValue
	// KindCharacter is a decode-time character that is not in the alphabet.
	KindCharacter
	// KindChecksum is a check character mismatch.
	KindChecksum
	// KindRange is an id or date outside representable bounds, or an empty random range.
	KindRange
)

var (
	// ErrInvalidConfig matches, via [Is], every error of [KindConfig].
	ErrInvalidConfig = stdNew("invalid configuration")
	// ErrInvalidValue matches, via [Is], every error of [KindValue].
	ErrInvalidValue = stdNew("invalid value")
	// ErrInvalidCharacter matches, via [Is], every error of [KindCharacter].
	ErrInvalidCharacter = stdNew("invalid character")
	// ErrInvalidChecksum matches, via [Is], every error of [KindChecksum].
	ErrInvalidChecksum = stdNew("invalid check character")
	// ErrInvalidRange matches, via [Is], every error of [KindRange].
	ErrInvalidRange = stdNew("invalid range")
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindValue:
		return "value"
	case KindCharacter:
		return "character"
	case KindChecksum:
		return "checksum"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfig:
		return ErrInvalidConfig
	case KindValue:
		return ErrInvalidValue
	case KindCharacter:
		return ErrInvalidCharacter
	case KindChecksum:
		return ErrInvalidChecksum
	case KindRange:
		return ErrInvalidRange
	default:
		return nil
	}
}

type kindError struct {
	kind Kind
	err  error
}

func (e *kindError) Error() string {
	return e.err.Error()
}

func (e *kindError) Unwrap() []error {
	if s := e.kind.sentinel(); s != nil {
		return []error{s, e.err}
	}
	return []error{e.err}
}

// Kindf formats an error of the given kind and records the stack trace at the point it was called.
// The result matches the kind's sentinel with [Is], and also anything wrapped with %w in the arguments.
func Kindf(kind Kind, format string, a ...any) error {
	return wrap(&kindError{kind: kind, err: fmt.Errorf(format, a...)}, 3)
}

// KindOf returns the [Kind] of err, or [KindUnknown] if err was not produced by [Kindf].
func KindOf(err error) Kind {
	var ke *kindError
	if As(err, &ke) {
		return ke.kind
	}
	return KindUnknown
}
