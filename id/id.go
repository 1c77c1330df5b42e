// Package id provides the sources of randomness used to pick random ids, codes and alphabets.
//
// Every operation that needs randomness takes a [Source] explicitly.
// Use [Crypto] in production and [NewSeeded] where reproducible output is wanted, eg in tests.
package id

import (
	cryptoRand "crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"io"
	"math"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/chacha20"

	"github.com/komuw/brevis/errors"
)

// Source is a source of random bytes.
type Source interface {
	io.Reader
}

// Crypto is a [Source] backed by the operating system's cryptographically secure generator.
var Crypto Source = cryptoSource{} //nolint:gochecknoglobals

type cryptoSource struct{}

func (cryptoSource) Read(b []byte) (int, error) {
	return cryptoRand.Read(b)
}

// Seeded is a deterministic [Source]; the same seed always yields the same stream of bytes.
// It is the ChaCha20 keystream keyed by the SHA-256 of the seed.
// It is safe for concurrent use.
type Seeded struct {
	mu sync.Mutex
	// +checklocks:mu
	c *chacha20.Cipher
}

// NewSeeded returns a [Seeded] source for seed.
func NewSeeded(seed []byte) *Seeded {
	key := sha256.Sum256(seed)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key[:], nonce)
	if err != nil {
		// key and nonce have fixed, valid sizes.
		panic(err)
	}
	return &Seeded{c: c}
}

func (s *Seeded) Read(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clear(b)
	s.c.XORKeyStream(b, b)
	return len(b), nil
}

// Uint64 reads a uniformly distributed uint64 from src.
func Uint64(src Source) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(src, b[:]); err != nil {
		return 0, errors.Wrap(err)
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// Int64n returns a uniformly distributed value in the half-open range [min, max).
// It returns an error of kind [errors.KindRange] if min >= max.
func Int64n(src Source, min, max int64) (int64, error) {
	if min >= max {
		return 0, errors.Kindf(errors.KindRange, "brevis/id: invalid random range [%d, %d)", min, max)
	}

	span := uint64(max) - uint64(min)
	// Reject the top partial bucket so that every residue is equally likely.
	limit := math.MaxUint64 - (math.MaxUint64%span+1)%span
	for {
		u, err := Uint64(src)
		if err != nil {
			return 0, err
		}
		if u <= limit {
			return int64(uint64(min) + u%span), nil
		}
	}
}

// Shuffle pseudo-randomizes the order of n elements using a Fisher-Yates shuffle.
// swap swaps the elements with indexes i and j.
func Shuffle(src Source, n int, swap func(i, j int)) error {
	for i := n - 1; i > 0; i-- {
		j, err := Int64n(src, 0, int64(i)+1)
		if err != nil {
			return err
		}
		swap(i, int(j))
	}
	return nil
}

// UUID4 returns a random version 4 UUID read from src.
func UUID4(src Source) (uuid.UUID, error) {
	u, err := uuid.NewRandomFromReader(src)
	if err != nil {
		return uuid.Nil, errors.Wrap(err)
	}
	return u, nil
}

// Random returns a string of n characters drawn uniformly from chars.
func Random(src Source, chars string, n int) (string, error) {
	set := []rune(chars)
	if len(set) == 0 {
		return "", errors.Kindf(errors.KindValue, "brevis/id: empty character set")
	}

	out := make([]rune, n)
	for i := range out {
		j, err := Int64n(src, 0, int64(len(set)))
		if err != nil {
			return "", err
		}
		out[i] = set[j]
	}
	return string(out), nil
}
