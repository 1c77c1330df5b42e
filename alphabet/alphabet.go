// Package alphabet holds the character sets and alphabets used by brevis, and validates new ones.
//
// A character set is the unordered universe of characters an alphabet may use.
// An alphabet is one particular ordering of characters drawn from a character set;
// the position of a character in the alphabet is the digit value it represents.
//
// Once encodings produced with an alphabet are in circulation, that alphabet MUST NOT change.
// Reordering it, or adding or removing characters, makes every issued encoding undecodable
// or decode to the wrong value. Create a new alphabet instead, and use it for all decoding after that.
// [Fingerprint] can be used to detect accidental changes.
package alphabet

// Building blocks.
const (
	LowerAlpha = "abcdefghijklmnopqrstuvwxyz"
	UpperAlpha = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Alpha      = LowerAlpha + UpperAlpha
	Digit      = "0123456789"

	// Special holds the punctuation that is safe in a URL path element.
	// '-' is excluded since it is the default separator.
	Special = ":._~!;"
	// NotSafeForURL are characters that must never appear in an alphabet meant for URLs.
	NotSafeForURL = "?/#[]@"
	// LegalURICharacterSet is the set of characters that [IsValidURIAlphabet] accepts.
	// See RFC 3986.
	LegalURICharacterSet = Alpha + Digit + Special
)

// Character sets.
const (
	Numbers   = Digit
	LowerCase = LowerAlpha
	UpperCase = UpperAlpha
	// SpecialCharacters could cause problems in some URL paths.
	SpecialCharacters = "!$&'()*.:;=_"

	// BaseDefaultCharacterSet has no vowels, no zero and no characters that are easily confused.
	BaseDefaultCharacterSet = "123456789BCDFGHJKLMNPQRSTVWXYZ"
	MediumCharacterSet      = LowerCase + UpperCase + Numbers
	BaseBigCharacterSet     = LowerCase + UpperCase + Numbers + SpecialCharacters
)

// Alphabets.
//
// These are given as literal strings, never as the output of [Scramble], so that they are easy to
// read and copy. They MUST NOT change.
const (
	// DefaultAlphabet is an ordering of [BaseDefaultCharacterSet]; base 30.
	DefaultAlphabet = "PDGM4ZSCV8QRW3TYNK5FXB216H79LJ"
	// BigAlphabet is an ordering of [BaseBigCharacterSet]; base 74.
	BigAlphabet = "TVWboQg4pGnE9w0rhSqFLKmdxZceNk5RBtUDf3iPvMX12OAslIu6yJCa8HYz7j.!;_:&$'()*="
)

// Reserved characters. Neither is a member of any shipped character set.
const (
	// NegativeSign prefixes the encoding of a negative value.
	NegativeSign = '~'
	// DefaultSeparator is inserted between segments when separators are enabled.
	DefaultSeparator = '-'
)

// Named is a built-in alphabet together with the character set it is an ordering of.
type Named struct {
	Name         string
	Alphabet     string
	CharacterSet string
}

// Shipped returns every built-in alphabet.
func Shipped() []Named {
	return []Named{
		{Name: "default", Alphabet: DefaultAlphabet, CharacterSet: BaseDefaultCharacterSet},
		{Name: "big", Alphabet: BigAlphabet, CharacterSet: BaseBigCharacterSet},
	}
}
