package codec

import (
	"slices"

	"github.com/komuw/brevis/alphabet"
	"github.com/komuw/brevis/errors"
	"github.com/komuw/brevis/internal/luhn"
)

// render turns digits, least significant first, into an encoding without separators.
// digits is modified.
func (c Config) render(digits []int, negative bool) string {
	// pad with the representation of 0; the check character counts towards the pad width.
	width := c.padWidth
	if c.checked {
		width--
	}
	for len(digits) < width {
		digits = append(digits, 0)
	}
	slices.Reverse(digits)

	out := make([]rune, 0, len(digits)+2)
	if negative {
		out = append(out, alphabet.NegativeSign)
	}
	for _, d := range digits {
		out = append(out, c.alphabet[d])
	}
	if c.checked {
		// the sign is never part of the checksum input.
		out = append(out, c.alphabet[luhn.Generate(digits, len(c.alphabet))])
	}
	return string(out)
}

// addSeparators inserts the separator every segmentLength characters, counting from the left.
func (c Config) addSeparators(s string) string {
	if !c.useSeparator {
		return s
	}
	rs := []rune(s)
	out := make([]rune, 0, len(rs)+len(rs)/c.segmentLength)
	for i, r := range rs {
		if i > 0 && i%c.segmentLength == 0 {
			out = append(out, c.separator)
		}
		out = append(out, r)
	}
	return string(out)
}

// parse validates text and returns its digits, most significant first, with the check character removed.
func (c Config) parse(text string) (digits []int, negative bool, err error) {
	if text == "" {
		return nil, false, errors.Kindf(errors.KindValue, "brevis/codec: empty encoding")
	}

	rs := []rune(text)
	if c.useSeparator {
		rs = slices.DeleteFunc(rs, func(r rune) bool { return r == c.separator })
	}
	if len(rs) > 0 && rs[0] == alphabet.NegativeSign {
		negative = true
		rs = rs[1:]
	}
	if len(rs) == 0 {
		return nil, false, errors.Kindf(errors.KindValue, "brevis/codec: encoding %q has no digits", text)
	}

	digits = make([]int, len(rs))
	for i, r := range rs {
		d, ok := c.index[r]
		if !ok {
			return nil, false, errors.Kindf(errors.KindCharacter, "brevis/codec: invalid character %q for alphabet %q", r, string(c.alphabet))
		}
		digits[i] = d
	}

	if c.checked {
		if len(digits) < 2 {
			return nil, false, errors.Kindf(errors.KindValue, "brevis/codec: encoding %q has no digits before its check character", text)
		}
		if !luhn.Validate(digits, len(c.alphabet)) {
			return nil, false, errors.Kindf(errors.KindChecksum, "brevis/codec: invalid check character in encoding %q", text)
		}
		digits = digits[:len(digits)-1]
	}

	return digits, negative, nil
}
