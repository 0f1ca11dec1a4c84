// Package bn implements the arbitrary-precision integer ("BN") that
// underlies the modular exponentiation engine: an owned sequence of
// little-endian machine words, a sign flag, and a logical length ("top").
//
// A BN is canonical when top == 0 implies neg == false (no negative zero)
// and, when top > 0, the most significant word is non-zero. Every exported
// operation leaves its result canonical; operations never observe an
// argument left in a non-canonical state without returning ErrNotInitialized.
package bn

// BN is an arbitrary-precision signed integer. The zero value is the
// canonical integer 0 and is ready to use.
//
// A BN is exclusively owned: concurrent mutation of one BN from multiple
// goroutines is undefined, matching spec.md's concurrency model. Aliasing
// of operand and result is only supported where a method's doc comment
// says so.
type BN struct {
	d   []word // magnitude, little-endian, len(d) == dmax
	top int    // logical length: d[0:top] holds the magnitude, d[top:] is scratch
	neg bool   // sign; canonical zero always has neg == false
}

// New returns the canonical zero value. Equivalent to new(BN).
func New() *BN { return &BN{} }

// Top returns the logical number of words, 0 for the zero value.
func (z *BN) Top() int { return z.top }

// dmax returns the allocated capacity in words.
func (z *BN) dmax() int { return len(z.d) }

// grow ensures z has capacity for at least n words, preserving existing
// content, and returns z for chaining.
func (z *BN) grow(n int) *BN {
	if cap(z.d) >= n {
		z.d = z.d[:cap(z.d)]
		return z
	}
	nd := make([]word, n, n+2)
	copy(nd, z.d)
	z.d = nd
	return z
}

// normalize trims leading (most-significant) zero words and clears neg if
// the magnitude is zero, restoring the canonical-zero invariant. It must be
// called before any temporary with a possibly-stale top becomes observable.
func (z *BN) normalize() *BN {
	n := z.top
	if n > len(z.d) {
		n = len(z.d)
	}
	for n > 0 && z.d[n-1] == 0 {
		n--
	}
	z.top = n
	if n == 0 {
		z.neg = false
	}
	return z
}

// canonical reports whether z currently satisfies the canonical-form
// invariant (used by operations that must refuse non-canonical input per
// spec.md's ErrNotInitialized policy).
func (z *BN) canonical() bool {
	if z.top < 0 || z.top > len(z.d) {
		return false
	}
	if z.top == 0 {
		return !z.neg
	}
	return z.d[z.top-1] != 0
}

// words returns the canonical magnitude words, little-endian, read-only.
func (z *BN) words() []word { return z.d[:z.top] }

// setWords sets the magnitude to the words in x (copied), trims to
// canonical form, and returns z.
func (z *BN) setWords(x []word) *BN {
	z.grow(len(x))
	copy(z.d, x)
	for i := len(x); i < len(z.d); i++ {
		z.d[i] = 0
	}
	z.top = len(x)
	return z.normalize()
}

// SetInt64 sets z to x and returns z.
func (z *BN) SetInt64(x int64) *BN {
	neg := x < 0
	u := uint64(x)
	if neg {
		u = uint64(-x)
	}
	z.grow(1)
	z.d[0] = u
	for i := 1; i < len(z.d); i++ {
		z.d[i] = 0
	}
	z.top = 1
	z.neg = neg
	return z.normalize()
}

// SetUint64 sets z to x and returns z.
func (z *BN) SetUint64(x uint64) *BN {
	z.grow(1)
	z.d[0] = x
	for i := 1; i < len(z.d); i++ {
		z.d[i] = 0
	}
	z.top = 1
	z.neg = false
	return z.normalize()
}

// Set sets z to x (deep copy) and returns z.
func (z *BN) Set(x *BN) *BN {
	if z == x {
		return z
	}
	z.setWords(x.words())
	z.neg = x.neg && z.top > 0
	return z
}

// Copy returns a new BN with the same value as z.
func (z *BN) Copy() *BN {
	return New().Set(z)
}

// IsZero reports whether z is the canonical zero.
func (z *BN) IsZero() bool { return z.top == 0 }

// IsOne reports whether z equals 1.
func (z *BN) IsOne() bool { return !z.neg && z.top == 1 && z.d[0] == 1 }

// IsNeg reports whether z is negative. The canonical zero is never negative.
func (z *BN) IsNeg() bool { return z.neg }

// IsOdd reports whether z's magnitude is odd.
func (z *BN) IsOdd() bool { return z.top > 0 && z.d[0]&1 == 1 }

// BitLen returns the number of bits required to represent |z|, 0 for zero.
func (z *BN) BitLen() int {
	if z.top == 0 {
		return 0
	}
	return (z.top-1)*wordBits + (wordBits - int(nlz(z.d[z.top-1])))
}

// IsBitSet reports whether bit i (0 = least significant) of |z| is set.
func (z *BN) IsBitSet(i int) bool {
	if i < 0 {
		return false
	}
	w := i / wordBits
	if w >= z.top {
		return false
	}
	return z.d[w]&(word(1)<<uint(i%wordBits)) != 0
}

// AbsEqualsWord reports whether |z| == w.
func (z *BN) AbsEqualsWord(w uint64) bool {
	if w == 0 {
		return z.top == 0
	}
	return z.top == 1 && z.d[0] == w
}

// ucmp compares |x| to |y|: -1, 0, +1.
func ucmp(x, y []word) int {
	if len(x) != len(y) {
		if len(x) < len(y) {
			return -1
		}
		return 1
	}
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != y[i] {
			if x[i] < y[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Cmp returns -1, 0 or +1 as z < x, z == x, z > x (signed comparison).
func (z *BN) Cmp(x *BN) int {
	switch {
	case z.neg && !x.neg:
		if z.top == 0 && x.top == 0 {
			return 0
		}
		return -1
	case !z.neg && x.neg:
		if z.top == 0 && x.top == 0 {
			return 0
		}
		return 1
	}
	c := ucmp(z.words(), x.words())
	if z.neg {
		return -c
	}
	return c
}

// CmpAbs returns -1, 0 or +1 comparing |z| to |x|.
func (z *BN) CmpAbs(x *BN) int {
	return ucmp(z.words(), x.words())
}

// CmpWord compares the signed value of z against the non-negative word w.
func (z *BN) CmpWord(w uint64) int {
	if z.neg {
		if z.top == 0 && w == 0 {
			return 0
		}
		return -1
	}
	switch {
	case z.top == 0:
		if w == 0 {
			return 0
		}
		return -1
	case z.top > 1:
		return 1
	default:
		if z.d[0] == w {
			return 0
		}
		if z.d[0] < w {
			return -1
		}
		return 1
	}
}

// Neg sets z to -x and returns z. Aliasing z == x is supported.
func (z *BN) Neg(x *BN) *BN {
	z.Set(x)
	if z.top > 0 {
		z.neg = !z.neg
	}
	return z
}

// Abs sets z to |x| and returns z.
func (z *BN) Abs(x *BN) *BN {
	z.Set(x)
	z.neg = false
	return z
}
