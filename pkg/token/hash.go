package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// FingerprintPrefix marks a token fingerprint.
const FingerprintPrefix = "tfp_"

const fingerprintLen = 12

// Hash computes the hex SHA-256 hash of a token.
func Hash(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// Fingerprint returns a short stable identifier for token. The empty
// token has no fingerprint.
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	return FingerprintPrefix + Hash(token)[:fingerprintLen]
}
