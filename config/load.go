package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/komuw/brevis/errors"
)

// Parse returns the Profile described by the TOML document b.
// Keys missing from b keep their [Default] value. Unknown keys and invalid parameters are errors of kind
// [errors.KindConfig].
func Parse(b []byte) (Profile, error) {
	p := Default()
	d := toml.NewDecoder(bytes.NewReader(b)).DisallowUnknownFields()
	if err := d.Decode(&p); err != nil {
		return Profile{}, errors.Kindf(errors.KindConfig, "brevis/config: %w", describe(err))
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Load reads and parses the profile at path.
func Load(path string) (Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, errors.Wrap(err)
	}
	return Parse(b)
}

// Marshal returns p as a TOML document that [Parse] reads back into p.
func (p Profile) Marshal() ([]byte, error) {
	b, err := toml.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(err)
	}
	return b, nil
}

// describe adds the position of syntax errors, and the offending keys of strict mode errors, to err.
func describe(err error) error {
	var de *toml.DecodeError
	if errors.As(err, &de) {
		row, col := de.Position()
		return errors.Errorf("line %d column %d: %w", row, col, err)
	}
	var se *toml.StrictMissingError
	if errors.As(err, &se) {
		keys := []string{}
		for _, e := range se.Errors {
			keys = append(keys, strings.Join(e.Key(), "."))
		}
		return errors.Errorf("unknown keys %v: %w", keys, err)
	}
	return err
}
