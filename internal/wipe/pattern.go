package wipe

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// footerMask bounds the random footer length to 0..1023 bytes. The exact
// range is an obfuscation knob, not a security parameter: it shrinks
// remnants and keeps wiped files from all ending at one telltale size.
const footerMask = 0x3ff

// FillPattern fills buf with cryptographically random bytes. An entropy
// failure is fatal for the operation: a fixed or weak pattern would defeat
// the purpose of the overwrite, so there is no fallback.
func FillPattern(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("random source unavailable: %w", err)
	}
	return nil
}

// footerLength picks the size of the random footer a file is shrunk to
// after its overwrite passes.
func footerLength() (int64, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("random source unavailable: %w", err)
	}
	return int64(binary.LittleEndian.Uint32(b[:]) & footerMask), nil
}

// randomName returns an unpredictable directory-entry name.
func randomName() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("random source unavailable: %w", err)
	}
	return hex.EncodeToString(b[:]), nil
}
