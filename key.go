package fernet

import (
	"encoding/base64"
	"errors"
	"strings"
)

const (
	// KeySize is the raw length of a secret before base64 encoding.
	KeySize = 32
	// subKeySize is the length of each derived half: signing and encryption.
	subKeySize = 16
)

// ErrInvalidKey is returned when key material is not exactly 32 url-safe
// base64-encoded bytes. Unlike token failures this error is safe to surface
// with detail: it signals a programmer error, not an attack.
var ErrInvalidKey = errors.New("fernet: key must be 32 url-safe base64-encoded bytes")

// Key holds the shared secret split into its two independent halves.
// The first 16 bytes key the HMAC, the last 16 key the cipher; neither is
// ever used for the other purpose. A Key is immutable after construction
// and safe for unlimited concurrent Encrypt/Decrypt calls.
type Key struct {
	signingKey    [subKeySize]byte
	encryptionKey [subKeySize]byte
}

// NewKey parses a padded url-safe base64 secret into a Key.
func NewKey(encoded string) (*Key, error) {
	raw, err := base64.URLEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, ErrInvalidKey
	}
	return NewKeyFromBytes(raw)
}

// NewKeyFromBytes builds a Key from already-decoded secret bytes.
func NewKeyFromBytes(raw []byte) (*Key, error) {
	if len(raw) != KeySize {
		return nil, ErrInvalidKey
	}
	k := &Key{}
	copy(k.signingKey[:], raw[:subKeySize])
	copy(k.encryptionKey[:], raw[subKeySize:])
	return k, nil
}

// GenerateKey draws a fresh 32-byte secret from the CSPRNG and returns it
// as padded url-safe base64, ready to hand to NewKey.
func GenerateKey() (string, error) {
	return defaultGenerator.FernetKey()
}

// Bytes returns a copy of the raw 32-byte secret.
func (k *Key) Bytes() []byte {
	raw := make([]byte, KeySize)
	copy(raw, k.signingKey[:])
	copy(raw[subKeySize:], k.encryptionKey[:])
	return raw
}

// Encoded returns the secret as padded url-safe base64.
func (k *Key) Encoded() string {
	return base64.URLEncoding.EncodeToString(k.Bytes())
}
