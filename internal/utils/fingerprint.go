package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

const fingerprintLen = 16

// Fingerprint derives a stable cache key from an endpoint name and its request parameters.
// Parameters are re-encoded with sorted object keys, so field order never changes the key.
func Fingerprint(endpoint string, params any) (string, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode params: %w", err)
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", fmt.Errorf("failed to normalize params: %w", err)
	}
	canonical, err := json.Marshal(generic)
	if err != nil {
		return "", fmt.Errorf("failed to encode params: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return endpoint + ":" + hex.EncodeToString(sum[:])[:fingerprintLen], nil
}

// GenerateSecret returns a random hex string of n bytes of entropy
func GenerateSecret(n int) (string, error) {
	if n < 16 || n > 64 {
		return "", fmt.Errorf("invalid secret length: %d", n)
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
