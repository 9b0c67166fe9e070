package cripta

import (
	"crypto/rand"
	"fmt"
)

func GenerateRandomBytes(data []byte) (int, error) {
	return rand.Read(data)
}

// GenerateIV returns a random one-byte IV or nonce.
func GenerateIV() (uint8, error) {
	var buf [1]byte
	if _, err := GenerateRandomBytes(buf[:]); err != nil {
		return 0, fmt.Errorf("failed to generate IV: %w", err)
	}
	return buf[0], nil
}
