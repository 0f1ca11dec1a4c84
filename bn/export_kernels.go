package bn

// The functions in this file re-export the package's word-level kernels for
// use by the montgomery and modexp packages, which implement CIOS reduction
// and the constant-time power table directly on word slices rather than
// through BN's general (allocating, division-based) arithmetic.

// AddMulVVW computes z += x*y over equal-length word slices and returns the
// carry word.
func AddMulVVW(z, x []uint64, y uint64) (carry uint64) { return addMulVVW(z, x, y) }

// SubVV computes z = x - y over equal-length word slices and returns the
// borrow out of the top word.
func SubVV(z, x, y []uint64) (borrow uint64) { return subVV(z, x, y) }

// AddVV computes z = x + y over equal-length word slices and returns the
// carry out of the top word.
func AddVV(z, x, y []uint64) (carry uint64) { return addVV(z, x, y) }

// WordBits is the machine word width in bits used throughout bn, montgomery
// and modexp (64 on every supported platform).
const WordBits = wordBits
