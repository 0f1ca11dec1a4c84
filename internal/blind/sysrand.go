package blind

import (
	"crypto/rand"
	"fmt"
)

// SysRandReader adapts crypto/rand to modinv.UniformReader, for production
// callers that have no reason to want a deterministic, reseedable stream.
type SysRandReader struct{}

// Read fills buf with bytes from the operating system's CSPRNG.
func (SysRandReader) Read(buf []byte) error {
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("blind: %w", err)
	}
	return nil
}
