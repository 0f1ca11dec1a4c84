package modexp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/rsabn/bn"
	"github.com/tuneinsight/rsabn/montgomery"
)

func hexBN(t *testing.T, s string) *bn.BN {
	t.Helper()
	z := bn.New()
	n := z.SetHex(s)
	require.Equal(t, len(s), n)
	return z
}

// naiveExpMod computes base^exp mod m the slow, obviously-correct way via
// repeated multiply-and-reduce, for cross-checking the windowed variants.
func naiveExpMod(base, exp, m *bn.BN) *bn.BN {
	result := bn.New().SetUint64(1)
	b := bn.New()
	bn.Nnmod(b, base, m)
	e := exp.Copy()
	for !e.IsZero() {
		if e.IsOdd() {
			prod := bn.New()
			prod.MulNoAlias(result, b)
			bn.Nnmod(result, prod, m)
		}
		bsq := bn.New()
		bsq.MulNoAlias(b, b)
		bn.Nnmod(b, bsq, m)
		e.Rshift1(e)
	}
	return result
}

func TestExpModVarTimeMatchesNaive(t *testing.T) {
	m := hexBN(t, "10001") // 65537, odd
	ctx, err := montgomery.NewContext(m)
	require.NoError(t, err)

	base := bn.New()
	bn.Nnmod(base, hexBN(t, "dead10cc"), m)

	exponents := []string{"3", "10001", "ffff", "123456789abcdef"}
	for _, eh := range exponents {
		exp := hexBN(t, eh)
		want := naiveExpMod(base, exp, m)

		got := bn.New()
		require.NoError(t, ExpModVarTime(got, base, exp, ctx))
		require.Equal(t, 0, got.Cmp(want), "exp=%s got=%s want=%s", eh, got.Text(), want.Text())
	}
}

func TestExpModConstantTimeMatchesNaive(t *testing.T) {
	m := hexBN(t, "10001")
	ctx, err := montgomery.NewContext(m)
	require.NoError(t, err)

	base := bn.New()
	bn.Nnmod(base, hexBN(t, "cafebabe"), m)

	exponents := []string{"3", "10001", "ffff", "123456789abcdef"}
	for _, eh := range exponents {
		exp := hexBN(t, eh)
		want := naiveExpMod(base, exp, m)

		got := bn.New()
		require.NoError(t, ExpModConstantTime(got, base, exp, ctx))
		require.Equal(t, 0, got.Cmp(want), "exp=%s got=%s want=%s", eh, got.Text(), want.Text())
	}
}

func TestExpModVarTimeAndConstTimeAgree(t *testing.T) {
	m := hexBN(t, "ffffffffffffffffffffffffffffffff61")
	ctx, err := montgomery.NewContext(m)
	require.NoError(t, err)

	base := bn.New()
	bn.Nnmod(base, hexBN(t, "112233445566778899aabbccddeeff"), m)
	exp := hexBN(t, "10203040506070809a0b0c0d0e0f1011121314")

	gotVar := bn.New()
	require.NoError(t, ExpModVarTime(gotVar, base, exp, ctx))

	gotConst := bn.New()
	require.NoError(t, ExpModConstantTime(gotConst, base, exp, ctx))

	require.Equal(t, 0, gotVar.Cmp(gotConst))
}

func TestExpModRejectsUnreducedBase(t *testing.T) {
	m := hexBN(t, "10001")
	ctx, err := montgomery.NewContext(m)
	require.NoError(t, err)

	base := hexBN(t, "20000") // >= m
	got := bn.New()
	require.Error(t, ExpModVarTime(got, base, hexBN(t, "3"), ctx))
	require.Error(t, ExpModConstantTime(got, base, hexBN(t, "3"), ctx))
}

func TestExpModZeroExponent(t *testing.T) {
	m := hexBN(t, "10001")
	ctx, err := montgomery.NewContext(m)
	require.NoError(t, err)

	base := hexBN(t, "1234")
	got := bn.New()
	require.NoError(t, ExpModVarTime(got, base, bn.New(), ctx))
	require.Equal(t, 0, got.CmpWord(1))
}

// TestExpModZeroExponentIgnoresUnreducedBase exercises spec.md §4.3.3's
// "defined to return 1 mod m without examining a" guarantee directly: an
// exponent of 0 must short-circuit to 1 even when base is not in [0, N),
// rather than surfacing ErrInputNotReduced.
func TestExpModZeroExponentIgnoresUnreducedBase(t *testing.T) {
	m := hexBN(t, "10001")
	ctx, err := montgomery.NewContext(m)
	require.NoError(t, err)

	base := hexBN(t, "20000") // >= m
	zero := bn.New()

	gotVar := bn.New()
	require.NoError(t, ExpModVarTime(gotVar, base, zero, ctx))
	require.Equal(t, 0, gotVar.CmpWord(1))

	gotConst := bn.New()
	require.NoError(t, ExpModConstantTime(gotConst, base, zero, ctx))
	require.Equal(t, 0, gotConst.CmpWord(1))
}
