package bn

import "errors"

// Sentinel errors returned by the bn, montgomery, modexp, modinv and rsakey
// packages. Callers should compare with errors.Is, since the packages wrap
// these with additional context via fmt.Errorf("...: %w").
var (
	// ErrDivByZero is returned when a division or modulo operation is given
	// a zero divisor.
	ErrDivByZero = errors.New("bn: division by zero")

	// ErrEvenModulus is returned when an even modulus is given to a routine
	// that requires an odd one (Montgomery context construction, modular
	// inverse mod an odd modulus).
	ErrEvenModulus = errors.New("bn: called with even modulus")

	// ErrInputNotReduced is returned when a modular-exponentiation base is
	// not in the range [0, m).
	ErrInputNotReduced = errors.New("bn: input not reduced")

	// ErrNotInitialized is returned when an operation observes a
	// non-canonical operand (top word zero while top > 0).
	ErrNotInitialized = errors.New("bn: not initialized")

	// ErrBadRSAParameters is returned by the RSA key validator when the
	// modulus bit length or public exponent fails the caller's policy.
	ErrBadRSAParameters = errors.New("bn: bad rsa parameters")

	// ErrNNotEqualPQ is returned when n != p*q.
	ErrNNotEqualPQ = errors.New("bn: n not equal p*q")

	// ErrCRTValuesIncorrect is returned when dmp1, dmq1 or iqmp fail to
	// satisfy their defining congruences.
	ErrCRTValuesIncorrect = errors.New("bn: crt values incorrect")

	// ErrNoInverse is returned by the modular inverse routines when
	// gcd(a, m) != 1.
	ErrNoInverse = errors.New("bn: no inverse")
)
