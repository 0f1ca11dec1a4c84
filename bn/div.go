package bn

// Div computes q = trunc(num/divisor) and r = num - q*divisor, per Knuth
// Volume 2 section 4.3.1 Algorithm D. Either q or r may be nil if the
// caller does not need that output. divisor must be non-zero.
//
// Sign: q.neg = num.neg XOR divisor.neg unless the quotient is zero;
// r.neg = num.neg unless the remainder is zero. Both q and r, if given,
// must not alias num or divisor.
func Div(q, r *BN, num, divisor *BN) error {
	if divisor.top == 0 {
		return ErrDivByZero
	}
	if !num.canonical() || !divisor.canonical() {
		return ErrNotInitialized
	}

	qWords, rWords, err := divMag(num.words(), divisor.words())
	if err != nil {
		return err
	}

	qNeg := num.neg != divisor.neg
	rNeg := num.neg

	if q != nil {
		q.setWords(qWords)
		q.neg = qNeg && q.top > 0
	}
	if r != nil {
		r.setWords(rWords)
		r.neg = rNeg && r.top > 0
	}
	return nil
}

// Nnmod computes r = a mod |m|, with 0 <= r < |m|, and returns it via r.
// m must be non-zero.
func Nnmod(r *BN, a, m *BN) error {
	if m.top == 0 {
		return ErrDivByZero
	}
	var rem BN
	if err := Div(nil, &rem, a, m); err != nil {
		return err
	}
	if rem.neg {
		absM := m.Copy()
		absM.neg = false
		absRem := rem.Copy()
		absRem.neg = false
		r.Usub(absM, absRem)
		return nil
	}
	r.Set(&rem)
	r.neg = false
	return nil
}

// divMag divides the unsigned magnitude u by v (len(v) >= 1, v not all
// zero) and returns the quotient and remainder word slices. Neither slice
// is trimmed: either may carry leading (most-significant) zero words, which
// BN.setWords removes when Div stores them.
func divMag(u, v []word) (q, r []word, err error) {
	if len(v) == 0 {
		return nil, nil, ErrDivByZero
	}
	// Trim leading zero words of v defensively (canonical BNs never have
	// them, but divMag is also reused internally with fresh slices).
	for len(v) > 0 && v[len(v)-1] == 0 {
		v = v[:len(v)-1]
	}
	if len(v) == 0 {
		return nil, nil, ErrDivByZero
	}
	for len(u) > 0 && u[len(u)-1] == 0 {
		u = u[:len(u)-1]
	}

	if ucmp(u, v) < 0 {
		return nil, append([]word(nil), u...), nil
	}

	if len(v) == 1 {
		qq := make([]word, len(u))
		rr := divWordSlice(qq, u, v[0])
		return qq, []word{rr}, nil
	}

	return divLarge(u, v)
}

// divWordSlice divides u by the single word y, storing the quotient in q
// (len(q) == len(u)) and returning the remainder.
func divWordSlice(q, u []word, y word) (r word) {
	for i := len(u) - 1; i >= 0; i-- {
		q[i], r = divWW(r, u[i], y)
	}
	return r
}

// divLarge implements Knuth Algorithm D for len(v) >= 2. Preconditions:
// len(u) >= len(v), v normalized (no leading zero word).
func divLarge(uIn, v []word) (q, r []word, err error) {
	n := len(v)
	m := len(uIn) - n

	// D1. Normalize so the divisor's top bit is set.
	shift := nlz(v[n-1])
	vNorm := make([]word, n)
	shlVU(vNorm, v, shift)

	u := make([]word, len(uIn)+1)
	u[len(uIn)] = shlVU(u[:len(uIn)], uIn, shift)

	qOut := make([]word, m+1)
	vn1 := vNorm[n-1]
	vn2 := vNorm[n-2]

	qhatv := make([]word, n+1)

	// D2-D7.
	for j := m; j >= 0; j-- {
		var qhat, rhat word

		ujn := u[j+n]
		if ujn == vn1 {
			qhat = wordMax
		} else {
			qhat, rhat = divWW(ujn, u[j+n-1], vn1)

			// D3 correction: decrement qhat while it overshoots, using the
			// second-most-significant divisor word. At most two iterations.
			for {
				hi, lo := mulWW(qhat, vn2)
				if hi < rhat || (hi == rhat && lo <= u[j+n-2]) {
					break
				}
				qhat--
				prevRhat := rhat
				rhat += vn1
				if rhat < prevRhat { // rhat overflowed: no more correction possible
					break
				}
			}
		}

		// D4. Multiply and subtract.
		borrowMul := mulAddVWW(qhatv[:n], vNorm, qhat, 0)
		qhatv[n] = borrowMul

		c := subVV(u[j:j+n+1], u[j:j+n+1], qhatv)
		if c != 0 {
			// D6. qhat was one too large: add back.
			cc := addVV(u[j:j+n], u[j:j+n], vNorm)
			u[j+n] += cc
			qhat--
		}

		qOut[j] = qhat
	}

	// D8. Denormalize the remainder.
	rOut := make([]word, n)
	shrVU(rOut, u[:n], shift)

	return qOut, rOut, nil
}
