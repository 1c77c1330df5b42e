// Package luhn implements the Luhn mod N check character algorithm.
//
// It works on digit values (the positions of characters in an alphabet) rather than characters,
// so it is independent of any particular alphabet. The input must already have separators and
// the sign stripped.
//
// See https://en.wikipedia.org/wiki/Luhn_mod_N_algorithm
package luhn

// Generate returns the check digit for digits in base n.
// digits are most significant first and must each be in [0, n).
func Generate(digits []int, n int) int {
	// Starting from the right, the first factor is always 2.
	sum := walk(digits, n, 2)
	return (n - sum%n) % n
}

// Validate reports whether digits, whose last element is the check digit, are consistent in base n.
func Validate(digits []int, n int) bool {
	// The rightmost digit is the check digit itself, so the first factor is 1.
	return walk(digits, n, 1)%n == 0
}

func walk(digits []int, n, factor int) int {
	sum := 0
	for i := len(digits) - 1; i >= 0; i-- {
		addend := factor * digits[i]
		if factor == 2 {
			factor = 1
		} else {
			factor = 2
		}
		// sum of the digits of addend, expressed in base n.
		addend = addend/n + addend%n
		sum += addend
	}
	return sum
}
