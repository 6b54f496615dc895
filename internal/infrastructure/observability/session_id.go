package observability

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSessionID returns a 128-bit random hex identifier for one
// confirmation session.
func GenerateSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}
