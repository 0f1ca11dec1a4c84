// Package montgomery implements Montgomery-form arithmetic for the modular
// exponentiation engine: construction of a Montgomery context from an odd
// modulus, and CIOS (coarsely integrated operand scanning) multiplication
// that never performs a general integer division in its hot path.
//
// Grounded on the teacher's single-word Montgomery reduction
// (tuneinsight/lattigo's ring.MRed/MForm, originally in
// ring/modular_reduction.go) generalized from one uint64 modulus to an
// arbitrary-length bn.BN modulus, and on the multi-word CIOS loop in the
// bford-go fork of math/big's nat.montgomery.
package montgomery

import (
	"fmt"
	"math/bits"

	"github.com/tuneinsight/rsabn/bn"
)

// Context holds an odd modulus N, the Montgomery constant n0 = -N^-1 mod
// 2^wordBits, and RR = R^2 mod N where R = 2^(top(N)*wordBits). A Context
// is immutable once constructed and safe for concurrent read-only use by
// any number of goroutines, matching spec.md's sharing model.
type Context struct {
	n        []uint64 // modulus words, length numWords, canonical (top word may be nonzero only)
	numWords int
	n0       uint64
	rr       []uint64 // R^2 mod N, length numWords
	nBN      *bn.BN   // modulus, retained for comparisons (x < N) and from/to helpers
}

// NewContext constructs a Montgomery context for the odd modulus m (m >= 1).
// The context owns a copy of m's value; later mutation of the BN passed in
// does not affect the context.
func NewContext(m *bn.BN) (*Context, error) {
	if m.IsNeg() || m.IsZero() || !m.IsOdd() {
		return nil, fmt.Errorf("montgomery: %w", bn.ErrEvenModulus)
	}

	numWords := m.Top()
	nWords := m.Words()

	n0 := computeN0(nWords[0])

	// RR = (2^(2*numWords*wordBits)) mod m.
	one := bn.New().SetUint64(1)
	shifted := bn.New().Lshift(one, uint(2*numWords*bn.WordBits))
	rrBN := bn.New()
	if err := bn.Nnmod(rrBN, shifted, m); err != nil {
		return nil, fmt.Errorf("montgomery: computing RR: %w", err)
	}

	return &Context{
		n:        nWords,
		numWords: numWords,
		n0:       n0,
		rr:       rrBN.WordsPadded(numWords),
		nBN:      m.Copy(),
	}, nil
}

// computeN0 returns -m0^-1 mod 2^wordBits via 6 rounds of the Newton
// iteration x <- x*(2 - m0*x), seeded at x = 1. Each round doubles the
// number of correct low bits of x starting from 1 correct bit (x=1 is
// always correct mod 2^1 for odd m0), so round k leaves 2^k bits correct:
// 5 rounds only guarantee 32 correct bits, not the full 64 the CIOS loop's
// low-word zeroing needs — 6 rounds are required to reach 64. Mirrors the
// teacher's MRedParams (ring/modular_reduction.go), there computed by
// repeated squaring of a related quantity; this is the Newton-iteration
// form spec.md §4.2 specifies directly.
func computeN0(m0 uint64) uint64 {
	x := uint64(1)
	for i := 0; i < 6; i++ {
		x = x * (2 - m0*x)
	}
	return -x
}

// N returns the modulus as a fresh BN copy.
func (c *Context) N() *bn.BN { return c.nBN.Copy() }

// NumWords returns top(N), the word width all Montgomery-domain values for
// this context are padded to.
func (c *Context) NumWords() int { return c.numWords }

// MontMul sets z = x*y*R^-1 mod N, with 0 <= z < N, and returns z. x and y
// must already satisfy 0 <= x, y < N (top(x), top(y) <= top(N)); z may
// alias x or y.
//
// Implements CIOS: for each word of y, multiply-add x into the
// accumulator, then multiply-add N scaled to zero the accumulator's low
// word, shift right one word. The final conditional subtraction of N is
// performed unconditionally via a masked subtract (computed, then selected
// by a word-wide mask derived from the borrow bit) so that timing never
// depends on whether the correction was needed — required on the
// secret-exponent path and applied uniformly here.
func (c *Context) MontMul(z, x, y *bn.BN) *bn.BN {
	xw := x.WordsPadded(c.numWords)
	yw := y.WordsPadded(c.numWords)
	rw := ciosMul(xw, yw, c.n, c.n0, c.numWords)
	return z.SetWordsUnsigned(rw)
}

// ToMont converts a (with 0 <= a < N) into its Montgomery residue a*R mod N.
func (c *Context) ToMont(z, a *bn.BN) *bn.BN {
	return c.MontMul(z, a, bn.FromWordsUnsigned(c.rr))
}

// FromMont converts a Montgomery residue a back to standard form,
// a*R^-1 mod N.
func (c *Context) FromMont(z, a *bn.BN) *bn.BN {
	one := bn.New().SetUint64(1)
	return c.MontMul(z, a, one)
}

// ciosMul implements the CIOS reduction loop over raw word slices, all of
// length n = numWords. Grounded on the bford-go fork of math/big's
// nat.montgomery, generalized from that file's single add-carry
// overflow-detection trick to an explicit double-carry accumulation using
// math/bits directly (equivalent, easier to verify against the CIOS
// reference description).
func ciosMul(x, y, m []uint64, n0 uint64, n int) []uint64 {
	// t holds n+2 words: the running product/reduction accumulator t[0:n]
	// plus two overflow words t[n], t[n+1] that absorb the carries of each
	// multiply-add; after the one-word shift t[n+1] is cleared again, so
	// between iterations the accumulator fits in n+1 words.
	t := make([]uint64, n+2)

	for i := 0; i < n; i++ {
		// t[0:n+1] += x * y[i]
		c1 := bn.AddMulVVW(t[:n], x, y[i])
		t[n], c1 = bits.Add64(t[n], c1, 0)
		t[n+1] += c1

		// u = t[0]*n0 mod 2^wordBits zeroes the low word of t after adding u*m.
		u := t[0] * n0
		c2 := bn.AddMulVVW(t[:n], m, u)
		t[n], c2 = bits.Add64(t[n], c2, 0)
		t[n+1] += c2

		// Shift the accumulator right by one word (divide by the base);
		// t[0] is guaranteed zero by construction of u.
		copy(t, t[1:])
		t[n+1] = 0
	}

	// t[0:n] now holds a value < 2N (the "almost Montgomery" result);
	// t[n] is 0 or 1. Perform the masked conditional subtraction
	// unconditionally: compute t - N, then select by the borrow mask.
	diff := make([]uint64, n)
	borrow := bn.SubVV(diff, t[:n], m)
	borrow = borrow - t[n] // borrow==0 only if t[:n] (with the implicit extra bit t[n]) >= N
	mask := -borrow        // all-ones if t < N (diff is invalid, keep t); all-zero if t >= N (use diff)

	out := make([]uint64, n)
	for i := range out {
		out[i] = (t[i] & mask) | (diff[i] &^ mask)
	}
	return out
}
