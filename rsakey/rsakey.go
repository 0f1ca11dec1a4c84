// Package rsakey validates RSA private key material in CRT form and
// performs CRT signing/decryption once a key has passed validation.
//
// Grounded on original_source/exercise4/ring/crypto/rsa/rsa.c's
// GFp_rsa_new_end and rsa_check_key: the five-step consistency check in
// Validate is rsa_check_key transcribed check-for-check, and PrivateKey's
// fields (montN, montP, montQ, montQQ, iqmpMont) are exactly the Montgomery
// contexts and converted values GFp_rsa_new_end builds alongside the
// check.
package rsakey

import (
	"fmt"

	"github.com/tuneinsight/rsabn/bn"
	"github.com/tuneinsight/rsabn/modexp"
	"github.com/tuneinsight/rsabn/montgomery"
)

// minModulusBits and maxModulusBits bound the RSA modulus sizes Validate
// accepts. They are vars rather than consts so package tests can exercise
// the five-step check against small synthetic keys without needing a real
// 2048-bit key on hand; production callers never have reason to change
// them.
var (
	minModulusBits = 2048
	maxModulusBits = 4096
)

// maxExponentBits bounds the "small" public exponent the caller's policy
// permits (e.g. 3 or 65537); an oversized e both slows verification and is
// not how any real RSA key is provisioned.
const maxExponentBits = 64

// PrivateKey holds validated RSA-CRT key material plus the Montgomery
// contexts and precomputed conversions a signing operation needs, so that
// every signature after construction does only cheap per-call work.
type PrivateKey struct {
	n, e       *bn.BN
	p, q       *bn.BN
	dmp1, dmq1 *bn.BN
	iqmp       *bn.BN

	montN *montgomery.Context // kept for a future direct (non-CRT) path; unused by Sign
	montP *montgomery.Context
	montQ *montgomery.Context
	// montQQ is a Montgomery context over qq = q^2 mod n, built during
	// validation per GFp_rsa_new_end's unconditional "qq" setup. In the
	// original this backs RSA blinding (drawing a blinding factor mod q^2);
	// Sign here does not blind, so montQQ has no reader yet and is carried
	// as a documented placeholder rather than dropped, matching the
	// original's unconditional construction of it during key setup.
	montQQ *montgomery.Context

	iqmpMont *bn.BN // iqmp converted into p's Montgomery domain, once
}

// NewPrivateKey validates the given RSA-CRT key material (see Validate)
// and, on success, returns a PrivateKey ready for Sign. The witness d is
// used only for validation and is never retained in the returned key.
func NewPrivateKey(n, e, p, q, dmp1, dmq1, iqmp, d *bn.BN) (*PrivateKey, error) {
	candidate := &PrivateKey{n: n, e: e, p: p, q: q, dmp1: dmp1, dmq1: dmq1, iqmp: iqmp}
	if err := candidate.Validate(d); err != nil {
		return nil, err
	}

	montN, err := montgomery.NewContext(n)
	if err != nil {
		return nil, fmt.Errorf("rsakey: modulus: %w", err)
	}
	montP, err := montgomery.NewContext(p)
	if err != nil {
		return nil, fmt.Errorf("rsakey: prime p: %w", err)
	}
	montQ, err := montgomery.NewContext(q)
	if err != nil {
		return nil, fmt.Errorf("rsakey: prime q: %w", err)
	}

	qq := bn.New()
	qq.MulNoAlias(q, q)
	qqModN := bn.New()
	if err := bn.Nnmod(qqModN, qq, n); err != nil {
		return nil, fmt.Errorf("rsakey: computing q^2 mod n: %w", err)
	}
	// A Montgomery context whose modulus is qq itself (not n): this mirrors
	// GFp_rsa_new_end's mont_qq, whose only consumer in the original is RSA
	// blinding (drawing a blinding factor mod q^2 for the CRT path). No
	// blinding consumer exists in this package yet; the context is built
	// and retained anyway to keep the field's grounding honest.
	montQQ, err := montgomery.NewContext(qqModN)
	if err != nil {
		return nil, fmt.Errorf("rsakey: qq context: %w", err)
	}

	iqmpMont := montP.ToMont(bn.New(), iqmp)

	key := &PrivateKey{
		n: n.Copy(), e: e.Copy(),
		p: p.Copy(), q: q.Copy(),
		dmp1: dmp1.Copy(), dmq1: dmq1.Copy(),
		iqmp: iqmp.Copy(),

		montN: montN, montP: montP, montQ: montQ, montQQ: montQQ,
		iqmpMont: iqmpMont,
	}
	return key, nil
}

// Validate runs the five ordered consistency checks spec.md §4.5 requires,
// using the witness d (the private exponent) only for this call: it is
// never stored on key and must not be retained by the caller either.
//
// Grounded step-for-step on rsa_check_key:
//  1. modulus bit length in [2048, 4096] and e within the exponent policy.
//  2. p > q (the CRT path below assumes this).
//  3. p*q == n.
//  4. d mod (p-1) == dmp1 and d mod (q-1) == dmq1.
//  5. 0 <= iqmp < p and iqmp*q == 1 (mod p).
func (key *PrivateKey) Validate(d *bn.BN) error {
	nBits := key.n.BitLen()
	if nBits < minModulusBits || nBits > maxModulusBits || !key.e.IsOdd() || key.e.BitLen() > maxExponentBits {
		return bn.ErrBadRSAParameters
	}

	if key.p.Cmp(key.q) <= 0 {
		return bn.ErrBadRSAParameters
	}

	pq := bn.New()
	pq.MulNoAlias(key.p, key.q)
	if pq.Cmp(key.n) != 0 {
		return bn.ErrNNotEqualPQ
	}

	pm1 := bn.New().Sub(key.p, bn.New().SetUint64(1))
	qm1 := bn.New().Sub(key.q, bn.New().SetUint64(1))
	dmp1 := bn.New()
	dmq1 := bn.New()
	if err := bn.Nnmod(dmp1, d, pm1); err != nil {
		return fmt.Errorf("rsakey: %w", err)
	}
	if err := bn.Nnmod(dmq1, d, qm1); err != nil {
		return fmt.Errorf("rsakey: %w", err)
	}
	if dmp1.Cmp(key.dmp1) != 0 || dmq1.Cmp(key.dmq1) != 0 {
		return bn.ErrCRTValuesIncorrect
	}

	if key.iqmp.IsNeg() || key.iqmp.CmpAbs(key.p) >= 0 {
		return bn.ErrCRTValuesIncorrect
	}
	iqmpTimesQ := bn.New()
	iqmpTimesQ.MulNoAlias(key.iqmp, key.q)
	check := bn.New()
	if err := bn.Nnmod(check, iqmpTimesQ, key.p); err != nil {
		return fmt.Errorf("rsakey: %w", err)
	}
	if !check.IsOne() {
		return bn.ErrCRTValuesIncorrect
	}

	return nil
}

// N returns the public modulus.
func (key *PrivateKey) N() *bn.BN { return key.n.Copy() }

// E returns the public exponent.
func (key *PrivateKey) E() *bn.BN { return key.e.Copy() }

// Sign performs the RSA-CRT private-key operation on ciphertext (0 <=
// ciphertext < n): reduce mod p and mod q, raise to dmp1/dmq1 with
// constant-time modular exponentiation, and recombine via iqmp.
//
// Grounded on spec.md §2's data-flow summary ("ciphertext -> reduced mod p
// and mod q -> two constant-time modular exponentiations -> CRT
// recombination using iqmp -> result"), which names the flow without
// naming an operation for it; this method supplements that operation name.
func (key *PrivateKey) Sign(ciphertext *bn.BN) (*bn.BN, error) {
	if ciphertext.IsNeg() || ciphertext.CmpAbs(key.n) >= 0 {
		return nil, fmt.Errorf("rsakey: %w", bn.ErrInputNotReduced)
	}

	m1 := bn.New()
	if err := bn.Nnmod(m1, ciphertext, key.p); err != nil {
		return nil, fmt.Errorf("rsakey: %w", err)
	}
	m2 := bn.New()
	if err := bn.Nnmod(m2, ciphertext, key.q); err != nil {
		return nil, fmt.Errorf("rsakey: %w", err)
	}

	if err := modexp.ExpModConstantTime(m1, m1, key.dmp1, key.montP); err != nil {
		return nil, fmt.Errorf("rsakey: exponentiating mod p: %w", err)
	}
	if err := modexp.ExpModConstantTime(m2, m2, key.dmq1, key.montQ); err != nil {
		return nil, fmt.Errorf("rsakey: exponentiating mod q: %w", err)
	}

	// h = iqmp * (m1 - m2) mod p, via the Montgomery form of iqmp
	// precomputed once at construction (iqmpMont) rather than converting
	// iqmp on every call.
	diff := bn.New()
	if err := bn.Nnmod(diff, bn.New().Sub(m1, m2), key.p); err != nil {
		return nil, fmt.Errorf("rsakey: %w", err)
	}
	diffMont := key.montP.ToMont(bn.New(), diff)
	hMont := key.montP.MontMul(bn.New(), key.iqmpMont, diffMont)
	h := key.montP.FromMont(bn.New(), hMont)

	// m = m2 + h*q
	hq := bn.New()
	hq.MulNoAlias(h, key.q)
	result := bn.New().Add(m2, hq)
	return result, nil
}
