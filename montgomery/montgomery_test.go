package montgomery

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/rsabn/bn"
)

func mustBN(t *testing.T, hex string) *bn.BN {
	t.Helper()
	z := bn.New()
	n := z.SetHex(hex)
	require.Equal(t, len(hex), n)
	return z
}

func TestNewContextRejectsEvenModulus(t *testing.T) {
	m := mustBN(t, "10") // 0x10 = 16, even
	_, err := NewContext(m)
	require.Error(t, err)
}

func TestNewContextRejectsNonPositive(t *testing.T) {
	_, err := NewContext(bn.New())
	require.Error(t, err)
}

func TestMontMulRoundTrip(t *testing.T) {
	// A small odd modulus well within a single word, and a multi-word one.
	moduli := []string{
		"d",                                 // 13
		"10001",                             // 65537 (odd)
		"ffffffffffffffffffffffffffffffff61", // large odd modulus spanning three words
	}
	for _, mh := range moduli {
		m := mustBN(t, mh)
		ctx, err := NewContext(m)
		require.NoError(t, err)

		a := bn.New()
		bn.Nnmod(a, mustBN(t, "123456789abcdef0"), m)
		b := bn.New()
		bn.Nnmod(b, mustBN(t, "fedcba9876543210"), m)

		aMont := ctx.ToMont(bn.New(), a)
		bMont := ctx.ToMont(bn.New(), b)

		prodMont := ctx.MontMul(bn.New(), aMont, bMont)
		got := ctx.FromMont(bn.New(), prodMont)

		want := bn.New()
		ab := bn.New()
		ab.MulNoAlias(a, b)
		bn.Nnmod(want, ab, m)

		require.Equal(t, 0, got.Cmp(want), "MontMul(%s,%s) mod %s: got %s want %s", a.Text(), b.Text(), mh, got.Text(), want.Text())
	}
}

func TestFromMontOfToMontIsIdentity(t *testing.T) {
	m := mustBN(t, "10001")
	ctx, err := NewContext(m)
	require.NoError(t, err)

	a := bn.New()
	bn.Nnmod(a, mustBN(t, "abcdef"), m)

	got := ctx.FromMont(bn.New(), ctx.ToMont(bn.New(), a))
	require.Equal(t, 0, got.Cmp(a))
}

// TestComputeN0SatisfiesDefiningCongruence checks m0*n0 == -1 mod 2^64
// directly for a handful of low words, including ones congruent to 3 mod
// 4 (the case whose Newton-iteration error term has an extra factor of 2,
// requiring a 6th round to clear the top 32 bits of n0).
func TestComputeN0SatisfiesDefiningCongruence(t *testing.T) {
	for _, m0 := range []uint64{
		1, 3, 0xfffffffb, 0xffffffffffffffff,
		0x10001, 0xdeadbeefdeadbeef, 3, 7, 0xabcdef0123456789,
	} {
		n0 := computeN0(m0)
		if got := m0 * n0; got != ^uint64(0) {
			t.Fatalf("computeN0(%#x) = %#x: m0*n0 = %#x, want %#x", m0, n0, got, ^uint64(0))
		}
	}
}

func TestMontMulWithOneIsFromMont(t *testing.T) {
	m := mustBN(t, "fffffffb") // a small prime-ish odd modulus
	ctx, err := NewContext(m)
	require.NoError(t, err)

	a := bn.New()
	bn.Nnmod(a, mustBN(t, "deadbeef"), m)
	aMont := ctx.ToMont(bn.New(), a)

	one := bn.New().SetUint64(1)
	got := ctx.MontMul(bn.New(), aMont, one)
	require.Equal(t, 0, got.Cmp(a))
}
