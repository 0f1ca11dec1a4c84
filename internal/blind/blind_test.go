package blind

import (
	"bytes"
	"testing"
)

func testKey() []byte {
	return []byte{
		0x49, 0x0a, 0x42, 0x3d, 0x97, 0x9d, 0xc1, 0x07,
		0xa1, 0xd7, 0xe9, 0x7b, 0x3b, 0xce, 0xa1, 0xdb,
		0x42, 0xf3, 0xa6, 0xd5, 0x75, 0xd2, 0x0c, 0x92,
		0xb7, 0x35, 0xce, 0x0c, 0xee, 0x09, 0x7c, 0x98,
	}
}

func TestKeyedPRNGResetReproducesStream(t *testing.T) {
	a, err := NewKeyedPRNG(testKey())
	if err != nil {
		t.Fatalf("NewKeyedPRNG: %v", err)
	}
	b, err := NewKeyedPRNG(testKey())
	if err != nil {
		t.Fatalf("NewKeyedPRNG: %v", err)
	}

	sum0 := make([]byte, 512)
	sum1 := make([]byte, 512)

	for i := 0; i < 128; i++ {
		if err := b.Read(sum1); err != nil {
			t.Fatalf("Read: %v", err)
		}
	}
	b.Reset()

	if err := a.Read(sum0); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := b.Read(sum1); err != nil {
		t.Fatalf("Read: %v", err)
	}

	if !bytes.Equal(sum0, sum1) {
		t.Fatal("same key should produce the same stream after Reset")
	}
}

func TestKeyedPRNGDifferentKeysDiverge(t *testing.T) {
	key2 := append([]byte(nil), testKey()...)
	key2[0] ^= 0xff

	a, err := NewKeyedPRNG(testKey())
	if err != nil {
		t.Fatalf("NewKeyedPRNG: %v", err)
	}
	b, err := NewKeyedPRNG(key2)
	if err != nil {
		t.Fatalf("NewKeyedPRNG: %v", err)
	}

	bufA := make([]byte, 32)
	bufB := make([]byte, 32)
	if err := a.Read(bufA); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if err := b.Read(bufB); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if bytes.Equal(bufA, bufB) {
		t.Fatal("different keys should not produce the same stream")
	}
}

func TestNewKeyedPRNGRejectsWrongKeyLength(t *testing.T) {
	if _, err := NewKeyedPRNG([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected an error for a short key")
	}
}

func TestSysRandReaderFillsBuffer(t *testing.T) {
	var r SysRandReader
	buf := make([]byte, 64)
	if err := r.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if bytes.Equal(buf, make([]byte, 64)) {
		t.Fatal("crypto/rand should not return all zero bytes (astronomically unlikely)")
	}
}
