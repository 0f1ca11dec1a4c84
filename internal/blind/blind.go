// Package blind provides a keyed, reseedable source of uniform random bytes
// for blinding the secret operand of a modular inverse
// (modinv.InverseBlinded): the same key always produces the same stream
// after Reset, which both the production wrapper and deterministic tests
// rely on.
//
// Grounded on the teacher's utils/sampling.NewKeyedPRNG (there backed by
// blake2b as a keyed hash); here the keyed digest is blake3's native XOF,
// used once to derive a pseudorandom key, which golang.org/x/crypto/hkdf
// then expands. One expansion (HKDF-SHA256) yields at most 8160 bytes
// (255 hash blocks); once those are used up, Read returns an error until
// Reset starts the stream again from the beginning.
package blind

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/hkdf"
)

const keyLen = 32

const hkdfInfo = "rsabn/modinv blinding factor"

// KeyedPRNG is a deterministic, keyed source of uniform bytes.
type KeyedPRNG struct {
	prk    []byte
	reader io.Reader
}

// NewKeyedPRNG constructs a PRNG keyed by key, which must be exactly 32
// bytes (a blake3 key). The same key always produces the same byte stream
// after construction or after Reset.
func NewKeyedPRNG(key []byte) (*KeyedPRNG, error) {
	if len(key) != keyLen {
		return nil, fmt.Errorf("blind: key must be %d bytes, got %d", keyLen, len(key))
	}

	hasher, err := blake3.NewKeyed(key)
	if err != nil {
		return nil, fmt.Errorf("blind: %w", err)
	}
	hasher.Write([]byte("rsabn/modinv prk"))
	prk := make([]byte, keyLen)
	if _, err := hasher.Digest().Read(prk); err != nil {
		return nil, fmt.Errorf("blind: deriving prk: %w", err)
	}

	p := &KeyedPRNG{prk: prk}
	p.Reset()
	return p, nil
}

// Reset rewinds the PRNG's output stream to its starting position.
func (p *KeyedPRNG) Reset() {
	p.reader = hkdf.Expand(sha256.New, p.prk, []byte(hkdfInfo))
}

// Read fills buf with uniform bytes, satisfying modinv.UniformReader.
func (p *KeyedPRNG) Read(buf []byte) error {
	_, err := io.ReadFull(p.reader, buf)
	if err != nil {
		return fmt.Errorf("blind: %w", err)
	}
	return nil
}
