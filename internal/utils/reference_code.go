package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateReferenceCode generates a random spending reference code in
// the format SPD-XXXX-XXXX.
func GenerateReferenceCode() (string, error) {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	hex := hex.EncodeToString(bytes)
	return fmt.Sprintf("SPD-%s-%s",
		hex[0:4],
		hex[4:8],
	), nil
}
