package securetoken

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// New returns a fresh opaque bearer token: 32 random bytes, base64url encoded.
// The plaintext is handed to the recipient exactly once; persistence stores
// only the hash.
func New() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// Hash returns the hex-encoded SHA-256 digest of a plaintext token. Tokens are
// looked up by hash so a leaked datastore cannot be replayed.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
