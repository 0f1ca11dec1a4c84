package modexp

import (
	"fmt"

	"github.com/tuneinsight/rsabn/bn"
	"github.com/tuneinsight/rsabn/montgomery"
)

// ExpModConstantTime computes result = base^exp mod N using ctx's modulus,
// requiring 0 <= base < N, with a fixed instruction and memory-access
// pattern independent of exp's value: every power is looked up from a
// flat table using a linear, branch-free mask scan rather than a
// data-dependent index, and the number of squarings/multiplies performed
// depends only on bit length, not on the exponent's bit pattern. Use this
// whenever exp is a secret (e.g. an RSA private exponent or a CRT
// sub-exponent).
func ExpModConstantTime(result, base, exp *bn.BN, ctx *montgomery.Context) error {
	bits := exp.BitLen()
	if bits == 0 {
		// Defined to return 1 mod N without examining base, so this runs
		// before the reduction check below.
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

	top := ctx.NumWords()
	window := windowBitsConstTime(bits)
	width := 1 << window

	table := newPowerTable(top, width)

	// Slot 0 holds 1 in Montgomery form (the multiplicative identity);
	// slot 1 holds base in Montgomery form.
	one := ctx.ToMont(bn.New(), bn.New().SetUint64(1))
	am := ctx.ToMont(bn.New(), base)
	table.store(0, one)
	table.store(1, am)

	if window > 1 {
		tmp := ctx.MontMul(bn.New(), am, am)
		table.store(2, tmp)
		for i := 3; i < width; i++ {
			tmp = ctx.MontMul(bn.New(), am, tmp)
			table.store(i, tmp)
		}
	}

	bitPos := bits - 1
	wvalue := 0
	for i := bitPos % window; i >= 0; i-- {
		bit := 0
		if exp.IsBitSet(bitPos) {
			bit = 1
		}
		wvalue = (wvalue << 1) + bit
		bitPos--
	}

	acc := table.fetch(top, wvalue)

	for bitPos >= 0 {
		wvalue = 0
		for i := 0; i < window; i++ {
			acc = ctx.MontMul(acc, acc, acc)
			bit := 0
			if bitPos >= 0 && exp.IsBitSet(bitPos) {
				bit = 1
			}
			wvalue = (wvalue << 1) + bit
			bitPos--
		}
		fetched := table.fetch(top, wvalue)
		acc = ctx.MontMul(acc, acc, fetched)
	}

	ctx.FromMont(result, acc)
	return nil
}

// powerTable is the cache-line-oriented layout from copy_to_prebuf /
// copy_from_prebuf: word j of power idx lives at table[j*width+idx], so
// that reading "word j of every power" touches one contiguous run
// regardless of which power is wanted — the masked scan below reads every
// slot in that run on every fetch, so the access pattern never reveals
// idx.
type powerTable struct {
	words []uint64
	width int
}

func newPowerTable(top, width int) *powerTable {
	return &powerTable{words: make([]uint64, top*width), width: width}
}

func (t *powerTable) store(idx int, v *bn.BN) {
	words := v.WordsPadded(len(t.words) / t.width)
	for j, w := range words {
		t.words[j*t.width+idx] = w
	}
}

// fetch reads power number idx (0 <= idx < width) out of the table using a
// branch-free mask-and-accumulate scan of every slot, per copy_from_prebuf.
// For window sizes >= 4 it uses the quadrant-grouped variant, which splits
// each row into 4 equal quadrants selected by a 2-bit mask before scanning
// within the quadrant — asymptotically the same number of memory reads,
// but fewer masked ORs per row.
func (t *powerTable) fetch(top, idx int) *bn.BN {
	out := make([]uint64, top)
	width := t.width

	if width <= 8 {
		for j := 0; j < top; j++ {
			row := t.words[j*width : j*width+width]
			var acc uint64
			for k, w := range row {
				acc |= w & ctEqMask(k, idx)
			}
			out[j] = acc
		}
		return bn.FromWordsUnsigned(out)
	}

	xstride := width / 4
	quadrant := idx / xstride
	within := idx % xstride

	y0 := ctEqMask(quadrant, 0)
	y1 := ctEqMask(quadrant, 1)
	y2 := ctEqMask(quadrant, 2)
	y3 := ctEqMask(quadrant, 3)

	for j := 0; j < top; j++ {
		row := t.words[j*width : j*width+width]
		var acc uint64
		for k := 0; k < xstride; k++ {
			v := (row[k] & y0) | (row[k+xstride] & y1) | (row[k+2*xstride] & y2) | (row[k+3*xstride] & y3)
			acc |= v & ctEqMask(k, within)
		}
		out[j] = acc
	}
	return bn.FromWordsUnsigned(out)
}

// ctEqMask returns all-ones (as a uint64) if a == b, else all-zero,
// without branching on a or b.
func ctEqMask(a, b int) uint64 {
	diff := uint32(a) ^ uint32(b)
	// diff == 0 iff a == b; (diff | -diff) has its top bit set iff diff != 0.
	nz := (diff | uint32(-int32(diff))) >> 31
	eq := 1 - nz
	return uint64(0) - uint64(eq)
}
