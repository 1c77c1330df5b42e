package config

import (
	"github.com/komuw/brevis/errors"
)

func (c CodecOpts) validate() error {
	if err := validateAlphabetName(c.Alphabet, c.CharacterSet); err != nil {
		return err
	}
	return validateSeparator(c.Separator)
}

func validateAlphabetName(a, characterSet string) error {
	if a == "" {
		return errors.Kindf(errors.KindConfig, "brevis/config: alphabet should not be empty")
	}
	if _, shipped := shippedAlphabet(a); !shipped && characterSet == "" {
		return errors.Kindf(errors.KindConfig, "brevis/config: alphabet %q is not a shipped alphabet; character_set is required", a)
	}
	return nil
}

func validateSeparator(s string) error {
	if n := len([]rune(s)); n != 1 {
		return errors.Kindf(errors.KindConfig, "brevis/config: separator %q should be exactly one character, got %d", s, n)
	}
	return nil
}
