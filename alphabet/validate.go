package alphabet

import (
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/komuw/brevis/id"
)

// IsValidAlphabet reports whether every character of alphabet occurs in characterSet.
// It imposes neither an ordering nor uniqueness; see [HasDuplicates] for the latter.
// An empty alphabet is valid for any character set.
func IsValidAlphabet(alphabet, characterSet string) bool {
	set := CharacterSet(characterSet)
	for _, r := range alphabet {
		if _, ok := set[r]; !ok {
			return false
		}
	}
	return true
}

// IsValidSeparator reports whether separator is absent from alphabet.
func IsValidSeparator(separator rune, alphabet string) bool {
	return !strings.ContainsRune(alphabet, separator)
}

// IsURLCharacter reports whether r is in [LegalURICharacterSet].
func IsURLCharacter(r rune) bool {
	return strings.ContainsRune(LegalURICharacterSet, r)
}

// IsValidURIAlphabet reports whether s only has characters that are safe in a URL path element.
func IsValidURIAlphabet(s string) bool {
	return IsValidAlphabet(s, LegalURICharacterSet)
}

// HasDuplicates reports whether some character occurs more than once in s.
func HasDuplicates(s string) bool {
	seen := make(map[rune]struct{}, len(s))
	for _, r := range s {
		if _, ok := seen[r]; ok {
			return true
		}
		seen[r] = struct{}{}
	}
	return false
}

// CharacterSet returns the distinct characters of s.
func CharacterSet(s string) map[rune]struct{} {
	set := make(map[rune]struct{}, len(s))
	for _, r := range s {
		set[r] = struct{}{}
	}
	return set
}

// Scramble returns a random permutation of s; a convenient way to make a new alphabet.
func Scramble(src id.Source, s string) (string, error) {
	rs := []rune(s)
	if err := id.Shuffle(src, len(rs), func(i, j int) { rs[i], rs[j] = rs[j], rs[i] }); err != nil {
		return "", err
	}
	return string(rs), nil
}

// Unscramble returns the characters of s in sorted order.
// It does not restore the string that was scrambled; two strings are permutations of each other
// iff they unscramble to the same value.
func Unscramble(s string) string {
	rs := []rune(s)
	slices.Sort(rs)
	return string(rs)
}

// Fingerprint returns a stable 64bit hash of alphabet.
// Any change to an alphabet, including reordering, changes its fingerprint.
func Fingerprint(alphabet string) uint64 {
	return xxhash.Sum64String(alphabet)
}
