package bn

import "math/bits"

// addMag computes the unsigned sum of two magnitudes into z (which may
// alias x or y) and returns the result word count.
func addMag(z *BN, x, y []word) int {
	if len(x) < len(y) {
		x, y = y, x
	}
	n := len(x)
	z.grow(n + 1)
	c := addVV(z.d[:len(y)], x[:len(y)], y)
	if n > len(y) {
		c = addVW(z.d[len(y):n], x[len(y):n], c)
	}
	z.d[n] = c
	if n+1 < len(z.d) {
		for i := n + 1; i < len(z.d); i++ {
			z.d[i] = 0
		}
	}
	return n + 1
}

// subMag computes x - y into z (which may alias x or y), requiring
// |x| >= |y|, and returns the result word count.
func subMag(z *BN, x, y []word) int {
	n := len(x)
	z.grow(n)
	c := subVV(z.d[:len(y)], x[:len(y)], y)
	if n > len(y) {
		c = subVW(z.d[len(y):n], x[len(y):n], c)
	}
	for i := n; i < len(z.d); i++ {
		z.d[i] = 0
	}
	return n
}

// Uadd sets z = a + b, requiring a, b >= 0, and returns z. z may alias a or b.
func (z *BN) Uadd(a, b *BN) *BN {
	if a.neg || b.neg {
		panic("bn: Uadd requires non-negative operands")
	}
	z.top = addMag(z, a.words(), b.words())
	z.neg = false
	return z.normalize()
}

// Usub sets z = a - b, requiring a, b >= 0 and a >= b, and returns z. z may
// alias a or b.
func (z *BN) Usub(a, b *BN) *BN {
	if a.neg || b.neg {
		panic("bn: Usub requires non-negative operands")
	}
	if ucmp(a.words(), b.words()) < 0 {
		panic("bn: Usub requires a >= b")
	}
	z.top = subMag(z, a.words(), b.words())
	z.neg = false
	return z.normalize()
}

// Add sets z = a + b (signed) and returns z. z may alias a or b.
func (z *BN) Add(a, b *BN) *BN {
	if a.neg == b.neg {
		z.top = addMag(z, a.words(), b.words())
		z.neg = a.neg
		return z.normalize()
	}
	// Different signs: subtract the smaller magnitude from the larger,
	// taking the sign of the larger-magnitude operand.
	if ucmp(a.words(), b.words()) >= 0 {
		z.top = subMag(z, a.words(), b.words())
		z.neg = a.neg
	} else {
		z.top = subMag(z, b.words(), a.words())
		z.neg = b.neg
	}
	return z.normalize()
}

// Sub sets z = a - b (signed) and returns z. z may alias a or b.
func (z *BN) Sub(a, b *BN) *BN {
	nb := b.Copy()
	nb.neg = nb.top > 0 && !nb.neg
	return z.Add(a, nb)
}

// Lshift sets z = x << n (logical shift of the magnitude, sign preserved)
// and returns z. z may alias x.
func (z *BN) Lshift(x *BN, n uint) *BN {
	if x.top == 0 || n == 0 {
		z.Set(x)
		return z
	}
	wordShift := int(n / wordBits)
	bitShift := n % wordBits
	srcTop := x.top
	src := append([]word(nil), x.words()...)
	newTop := srcTop + wordShift + 1
	z.grow(newTop)
	for i := range z.d {
		z.d[i] = 0
	}
	if bitShift == 0 {
		copy(z.d[wordShift:wordShift+srcTop], src)
	} else {
		c := shlVU(z.d[wordShift:wordShift+srcTop], src, bitShift)
		z.d[wordShift+srcTop] = c
	}
	z.top = newTop
	z.neg = x.neg
	return z.normalize()
}

// Rshift sets z = x >> n, a logical shift of the magnitude rounding toward
// zero; the sign is preserved only if the result is non-zero (per
// spec.md's round-toward-zero convention for right shift, including of
// negative values). z may alias x.
func (z *BN) Rshift(x *BN, n uint) *BN {
	if x.top == 0 {
		z.Set(x)
		return z
	}
	wordShift := int(n / wordBits)
	bitShift := n % wordBits
	if wordShift >= x.top {
		z.grow(1)
		for i := range z.d {
			z.d[i] = 0
		}
		z.top = 0
		z.neg = false
		return z
	}
	src := x.words()[wordShift:]
	newTop := len(src)
	z.grow(newTop)
	if bitShift == 0 {
		copy(z.d[:newTop], src)
	} else {
		shrVU(z.d[:newTop], src, bitShift)
	}
	for i := newTop; i < len(z.d); i++ {
		z.d[i] = 0
	}
	z.top = newTop
	wasNeg := x.neg
	z.normalize()
	z.neg = wasNeg && z.top > 0
	return z
}

// Lshift1 sets z = x << 1 and returns z. z may alias x.
func (z *BN) Lshift1(x *BN) *BN { return z.Lshift(x, 1) }

// Rshift1 sets z = x >> 1 (round toward zero) and returns z. z may alias x.
func (z *BN) Rshift1(x *BN) *BN { return z.Rshift(x, 1) }

// MulNoAlias sets z = a * b using schoolbook multiplication. z must not
// alias a or b.
func (z *BN) MulNoAlias(a, b *BN) *BN {
	if a == z || b == z {
		panic("bn: MulNoAlias result must not alias an operand")
	}
	if a.top == 0 || b.top == 0 {
		z.grow(1)
		for i := range z.d {
			z.d[i] = 0
		}
		z.top = 0
		z.neg = false
		return z
	}
	n := a.top + b.top
	z.grow(n)
	for i := range z.d {
		z.d[i] = 0
	}
	x, y := a.words(), b.words()
	if a.top < b.top {
		x, y = y, x
	}
	for i, yi := range y {
		if yi == 0 {
			continue
		}
		z.d[len(x)+i] = addMulVVW(z.d[i:i+len(x)], x, yi)
	}
	z.top = n
	z.neg = a.neg != b.neg
	return z.normalize()
}

// Square sets z = x*x using the off-diagonal-doubling specialization
// (partial products above the diagonal are computed once and doubled, the
// diagonal terms added separately), roughly 40% fewer word multiplies than
// MulNoAlias(z, x, x). z must not alias x.
func (z *BN) Square(x *BN) *BN {
	if x == z {
		panic("bn: Square result must not alias operand")
	}
	n := x.top
	if n == 0 {
		z.grow(1)
		for i := range z.d {
			z.d[i] = 0
		}
		z.top = 0
		z.neg = false
		return z
	}
	xs := x.words()
	z.grow(2 * n)
	acc := make([]word, 2*n)

	// Off-diagonal terms x[i]*x[j], i<j, summed once then doubled.
	for i := 0; i < n-1; i++ {
		if xs[i] == 0 {
			continue
		}
		c := addMulVVW(acc[2*i+1:2*i+1+(n-i-1)], xs[i+1:], xs[i])
		// propagate carry upward
		k := 2*i + 1 + (n - i - 1)
		for c != 0 && k < len(acc) {
			var cc uint64
			acc[k], cc = bits.Add64(acc[k], c, 0)
			c = cc
			k++
		}
	}
	// Double the off-diagonal sum.
	carry := word(0)
	for i := range acc {
		nc := acc[i] >> (wordBits - 1)
		acc[i] = acc[i]<<1 | carry
		carry = nc
	}

	// Add the diagonal terms x[i]^2.
	for i := 0; i < n; i++ {
		hi, lo := mulWW(xs[i], xs[i])
		var c uint64
		acc[2*i], c = bits.Add64(acc[2*i], lo, 0)
		sum := hi + c
		var c2 uint64
		acc[2*i+1], c2 = bits.Add64(acc[2*i+1], sum, 0)
		k := 2*i + 2
		carry := c2
		for carry != 0 && k < len(acc) {
			acc[k], carry = bits.Add64(acc[k], carry, 0)
			k++
		}
	}

	copy(z.d, acc)
	for i := len(acc); i < len(z.d); i++ {
		z.d[i] = 0
	}
	z.top = 2 * n
	z.neg = false
	return z.normalize()
}
