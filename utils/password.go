package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const minPasswordLength = 8

// GenerateSecurePassword creates a random password of the given length,
// never shorter than 8 characters
func GenerateSecurePassword(length int) (string, error) {
	if length < minPasswordLength {
		length = minPasswordLength
	}

	// base64 yields 4 characters per 3 bytes
	b := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}
