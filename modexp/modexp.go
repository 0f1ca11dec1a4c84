// Package modexp implements fixed-base modular exponentiation over a
// montgomery.Context: a variable-time sliding-window variant for public
// exponents, and a constant-time fixed-window variant for secret exponents
// whose table access pattern must not depend on the exponent's bits.
//
// Grounded on exponentiation.c's GFp_BN_mod_exp_mont_vartime and
// GFp_BN_mod_exp_mont_consttime (the generic, non-assembly code paths;
// the x86-64 GFp_bn_mul_mont_gather5/RSAZ-AVX2 fast paths have no portable
// Go equivalent and are not reproduced — see the design notes for why).
package modexp

import (
	"fmt"

	"github.com/tuneinsight/rsabn/bn"
	"github.com/tuneinsight/rsabn/internal/cpufeature"
	"github.com/tuneinsight/rsabn/montgomery"
)

// windowBitsVarTime picks the sliding-window width for a public exponent of
// the given bit length. Mirrors GFp_BN_window_bits_for_exponent_size.
func windowBitsVarTime(bits int) int {
	switch {
	case bits > 671:
		return 6
	case bits > 239:
		return 5
	case bits > 79:
		return 4
	case bits > 23:
		return 3
	default:
		return 1
	}
}

// windowBitsConstTime picks the fixed-window width for a secret exponent of
// the given bit length, bounded by log2(cache line width) so that every
// power-table row fits within one cache line's worth of entries per word —
// exceeding that bound would let an attacker distinguish accesses by which
// cache line they land on even though every entry in the row is touched.
// Mirrors GFp_BN_window_bits_for_ctime_exponent_size, generalized from a
// hardcoded 64-byte line to the detected cache line width (64 or 32).
func windowBitsConstTime(bits int) int {
	if cpufeature.Get().CacheLineBytes >= 64 {
		switch {
		case bits > 937:
			return 6
		case bits > 306:
			return 5
		case bits > 89:
			return 4
		case bits > 22:
			return 3
		default:
			return 1
		}
	}
	switch {
	case bits > 306:
		return 5
	case bits > 89:
		return 4
	case bits > 22:
		return 3
	default:
		return 1
	}
}

// ExpModVarTime computes result = base^exp mod N using ctx's modulus,
// requiring 0 <= base < N. The running time depends on the bits of exp, so
// this must only be called with a public exponent (e.g. RSA verification,
// e = 65537) — never with a secret exponent or a secret base whose
// reduction status is unknown.
func ExpModVarTime(result, base, exp *bn.BN, ctx *montgomery.Context) error {
	bits := exp.BitLen()
	if bits == 0 {
		// x**0 mod N is 1, except mod 1 where it's 0 — defined without
		// examining base, so this runs before the reduction check below.
		if ctx.N().CmpWord(1) == 0 {
			result.SetUint64(0)
			return nil
		}
		result.SetUint64(1)
		return nil
	}

	if base.IsNeg() || base.CmpAbs(ctx.N()) >= 0 {
		return fmt.Errorf("modexp: %w", bn.ErrInputNotReduced)
	}
	if base.IsZero() {
		result.SetUint64(0)
		return nil
	}

	window := windowBitsVarTime(bits)

	// val[i] holds a^(2i+1) in Montgomery form, i = 0 .. 2^(window-1)-1.
	numVals := 1 << (window - 1)
	val := make([]*bn.BN, numVals)
	val[0] = ctx.ToMont(bn.New(), base)

	if window > 1 {
		d := ctx.MontMul(bn.New(), val[0], val[0])
		for i := 1; i < numVals; i++ {
			val[i] = ctx.MontMul(bn.New(), val[i-1], d)
		}
	}

	r := ctx.ToMont(bn.New(), bn.New().SetUint64(1))
	start := true
	wstart := bits - 1

	for {
		if !exp.IsBitSet(wstart) {
			if !start {
				ctx.MontMul(r, r, r)
			}
			if wstart == 0 {
				break
			}
			wstart--
			continue
		}

		wvalue := 1
		wend := 0
		for i := 1; i < window; i++ {
			if wstart-i < 0 {
				break
			}
			if exp.IsBitSet(wstart - i) {
				wvalue <<= i - wend
				wvalue |= 1
				wend = i
			}
		}

		j := wend + 1
		if !start {
			for i := 0; i < j; i++ {
				ctx.MontMul(r, r, r)
			}
		}

		ctx.MontMul(r, r, val[wvalue>>1])

		wstart -= wend + 1
		start = false
		if wstart < 0 {
			break
		}
	}

	ctx.FromMont(result, r)
	return nil
}
