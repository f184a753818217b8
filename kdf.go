package fernet

import (
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

// DefaultIterations is a reasonable PBKDF2 work factor for interactive use.
const DefaultIterations = 480000

// KeyFromPassword stretches a password into key material with
// PBKDF2-HMAC-SHA256. The salt must be stored alongside the ciphertext and
// reused to re-derive the same key; the derivation is deterministic for
// fixed inputs. iterations <= 0 falls back to DefaultIterations.
func KeyFromPassword(password, salt []byte, iterations int) *Key {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	raw := pbkdf2.Key(password, salt, iterations, KeySize, sha256.New)
	k, _ := NewKeyFromBytes(raw)
	return k
}
