// Package modinv computes modular inverses: a variable-time extended
// binary GCD for public or already-blinded operands, and a randomized
// wrapper that blinds a secret operand before handing it to the
// variable-time routine.
//
// Grounded on spec.md §4.4 directly for the algorithm shape, and on the
// teacher's ring.ECM / ring/ecm.go (its own small modular-inverse helper,
// there delegating to math/big.ModInverse on a single machine word) for
// the (result, err) call shape generalized to multi-word bn.BN here.
package modinv

import (
	"fmt"

	"github.com/tuneinsight/rsabn/bn"
)

// InverseOdd sets r to a^-1 mod m using the extended binary GCD (Knuth,
// TAOCP Vol. 2 §4.5.2, Algorithm X): m must be odd and 0 <= a < m. Its
// running time depends on the bit pattern of a, so it must not be called
// directly on a secret a — use InverseBlinded for that case.
//
// If gcd(a, m) != 1, no inverse exists; InverseOdd returns ErrNoInverse
// and leaves r unmodified.
func InverseOdd(r *bn.BN, a, m *bn.BN) error {
	if !m.IsOdd() {
		return fmt.Errorf("modinv: %w", bn.ErrEvenModulus)
	}
	if a.IsNeg() || a.CmpAbs(m) >= 0 {
		return fmt.Errorf("modinv: %w", bn.ErrInputNotReduced)
	}

	A := a.Copy()
	B := m.Copy()
	X := bn.New().SetUint64(1)
	Y := bn.New().SetUint64(0)

	for !A.IsZero() {
		for !A.IsOdd() {
			A.Rshift1(A)
			if X.IsOdd() {
				X.Add(X, m)
			}
			X.Rshift1(X)
		}
		for !B.IsOdd() {
			B.Rshift1(B)
			if Y.IsOdd() {
				Y.Add(Y, m)
			}
			Y.Rshift1(Y)
		}
		if A.CmpAbs(B) >= 0 {
			A.Sub(A, B)
			X.Sub(X, Y)
		} else {
			B.Sub(B, A)
			Y.Sub(Y, X)
		}
	}

	if !B.AbsEqualsWord(1) {
		return bn.ErrNoInverse
	}
	return bn.Nnmod(r, Y, m)
}

// UniformReader produces uniform random bytes on demand — the RNG trait
// spec.md §4.4 requires for InverseBlinded's blinding factor, implemented
// by internal/blind.KeyedPRNG for tests and internal/blind.SysRandReader
// for production callers.
type UniformReader interface {
	Read(buf []byte) error
}

// InverseBlinded sets r to a^-1 mod m, masking a from InverseOdd's
// data-dependent running time by multiplying in a random blinding factor
// first: it draws a uniform non-zero b < m, computes (a*b)^-1 via
// InverseOdd, then recovers a^-1 = (a*b)^-1 * b. m must be odd and
// 0 <= a < m.
func InverseBlinded(r *bn.BN, a, m *bn.BN, rng UniformReader) error {
	if !m.IsOdd() {
		return fmt.Errorf("modinv: %w", bn.ErrEvenModulus)
	}
	if a.IsNeg() || a.CmpAbs(m) >= 0 {
		return fmt.Errorf("modinv: %w", bn.ErrInputNotReduced)
	}

	blind, err := randomNonZeroBelow(m, rng)
	if err != nil {
		return err
	}

	ab := bn.New()
	bn.Nnmod(ab, ab.MulNoAlias(a, blind), m)

	abInv := bn.New()
	if err := InverseOdd(abInv, ab, m); err != nil {
		return err
	}

	prod := bn.New()
	prod.MulNoAlias(abInv, blind)
	return bn.Nnmod(r, prod, m)
}

// randomNonZeroBelow draws a uniform value in [1, m) using rejection
// sampling over byte strings the width of m, matching the "reject and
// redraw" shape any uniform-below-m sampler over a non-power-of-two
// modulus needs.
func randomNonZeroBelow(m *bn.BN, rng UniformReader) (*bn.BN, error) {
	byteLen := m.ByteLen()
	buf := make([]byte, byteLen)

	for attempt := 0; attempt < 256; attempt++ {
		if err := rng.Read(buf); err != nil {
			return nil, fmt.Errorf("modinv: reading blinding factor: %w", err)
		}
		// Clear high bits above m's bit length to keep the rejection rate low.
		excessBits := byteLen*8 - m.BitLen()
		if excessBits > 0 && len(buf) > 0 {
			buf[0] &= 0xff >> uint(excessBits)
		}
		candidate := bn.New().SetBytes(buf)
		if candidate.IsZero() {
			continue
		}
		if candidate.CmpAbs(m) < 0 {
			return candidate, nil
		}
	}
	return nil, fmt.Errorf("modinv: could not draw a blinding factor below modulus after 256 attempts")
}
