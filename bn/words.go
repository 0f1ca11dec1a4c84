package bn

import "golang.org/x/exp/constraints"

// EqualWords reports whether two zero-padded word slices represent the same
// value, comparing up to the length of the longer slice and treating a
// missing tail as implicit zeros. Generic over the unsigned word width so
// the same helper serves both the 64-bit production path and any
// narrower-word test fixtures.
func EqualWords[T constraints.Unsigned](a, b []T) bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		var av, bv T
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		if av != bv {
			return false
		}
	}
	return true
}
