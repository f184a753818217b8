// fernet.go
package fernet

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"time"
)

// Version is the single supported token version byte.
const Version byte = 0x80

const (
	timestampSize = 8
	ivSize        = aes.BlockSize
	macSize       = sha256.Size
	// headerSize covers the unsigned fields before the ciphertext.
	headerSize = 1 + timestampSize + ivSize
	// minTokenSize is the smallest possible raw token: header, one
	// ciphertext block (empty plaintext still pads to a full block), mac.
	minTokenSize = headerSize + aes.BlockSize + macSize
	// maxTokenSize bounds encoded input to prevent resource exhaustion attacks
	maxTokenSize = 8192
)

var (
	// ErrInvalidToken is returned for any failure during decode/verify/decrypt/expiry.
	// Every validation branch collapses into this one sentinel so a caller
	// (or attacker) cannot tell which check failed.
	ErrInvalidToken = errors.New("fernet: token invalid or expired")
	// ErrInvalidIV is a usage error for EncryptAt callers; it never leaks
	// from Decrypt.
	ErrInvalidIV = errors.New("fernet: iv must be exactly one cipher block")
	// ErrPayloadTooLarge is a usage error for plaintexts whose token would
	// exceed maxTokenSize and therefore never verify.
	ErrPayloadTooLarge = errors.New("fernet: payload too large for a single token")
)

// maxClockSkew is how far ahead of the verifier's clock a token timestamp
// may claim to be. The wire protocol fixes it at 60 seconds; it is a var
// only so package tests can pin it.
var maxClockSkew = 60 * time.Second

// Encrypt seals data into a token stamped with the current time and a fresh
// random iv, returning the padded url-safe base64 encoding.
func (k *Key) Encrypt(data []byte) (string, error) {
	ptr := ivPool.Get().(*[]byte)
	iv := *ptr
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		ivPool.Put(ptr)
		return "", err
	}
	encoded, err := k.encryptAt(data, time.Now().UTC(), iv)
	ivPool.Put(ptr)
	return encoded, err
}

// EncryptAt seals data with a caller-supplied timestamp and iv. Given
// identical inputs the output is byte-identical, which is what golden tests
// rely on; production callers should use Encrypt.
func (k *Key) EncryptAt(data []byte, now time.Time, iv []byte) (string, error) {
	if len(iv) != ivSize {
		return "", ErrInvalidIV
	}
	return k.encryptAt(data, now, iv)
}

func (k *Key) encryptAt(data []byte, now time.Time, iv []byte) (string, error) {
	// Refuse to mint a token the decoder's size guard would reject.
	paddedLen := len(data) + aes.BlockSize - len(data)%aes.BlockSize
	if base64.URLEncoding.EncodedLen(headerSize+paddedLen+macSize) > maxTokenSize {
		return "", ErrPayloadTooLarge
	}
	block, err := aes.NewCipher(k.encryptionKey[:])
	if err != nil {
		return "", err
	}
	padded := pad(data, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	sb := acquireBuffer()
	buf := sb.buf[:0]
	buf = append(buf, Version)
	var ts [timestampSize]byte
	binary.BigEndian.PutUint64(ts[:], uint64(now.Unix()))
	buf = append(buf, ts[:]...)
	buf = append(buf, iv...)
	buf = append(buf, ciphertext...)

	h := hmac.New(sha256.New, k.signingKey[:])
	h.Write(buf)
	buf = h.Sum(buf)

	encoded := base64.URLEncoding.EncodeToString(buf)
	sb.buf = buf
	sb.Release()
	return encoded, nil
}

// Decrypt authenticates a token and recovers its plaintext. A ttl greater
// than zero rejects tokens older than that window; ttl <= 0 skips the age
// check entirely, so arbitrarily old tokens verify. All failures return
// ErrInvalidToken with no further detail.
func (k *Key) Decrypt(token string, ttl time.Duration) ([]byte, error) {
	return k.decryptAt(token, ttl, time.Now().UTC())
}

// decryptAt runs the validation sequence against an explicit clock. The
// order front-loads the cheap structural checks before any cryptographic
// work; every branch maps to the same error so the order is a cost
// optimization, not a security boundary.
func (k *Key) decryptAt(token string, ttl time.Duration, now time.Time) ([]byte, error) {
	data, err := decodeToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	ts := time.Unix(int64(binary.BigEndian.Uint64(data[1:1+timestampSize])), 0)
	if ttl > 0 && ts.Add(ttl).Before(now) {
		return nil, ErrInvalidToken
	}
	if now.Add(maxClockSkew).Before(ts) {
		return nil, ErrInvalidToken
	}
	if !k.verifyMAC(data) {
		return nil, ErrInvalidToken
	}

	// MAC verified above; CBC output below this point is trustworthy.
	iv := data[1+timestampSize : headerSize]
	ciphertext := data[headerSize : len(data)-macSize]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, ErrInvalidToken
	}
	block, err := aes.NewCipher(k.encryptionKey[:])
	if err != nil {
		return nil, ErrInvalidToken
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return unpad(plaintext, aes.BlockSize)
}

// ExtractTimestamp authenticates a token and returns the time it was sealed
// without decrypting the payload. Failures are indistinguishable from any
// other token failure.
func (k *Key) ExtractTimestamp(token string) (time.Time, error) {
	data, err := decodeToken(token)
	if err != nil {
		return time.Time{}, ErrInvalidToken
	}
	if !k.verifyMAC(data) {
		return time.Time{}, ErrInvalidToken
	}
	return time.Unix(int64(binary.BigEndian.Uint64(data[1:1+timestampSize])), 0).UTC(), nil
}

// decodeToken performs the structural checks shared by every consumer:
// size guard, base64 decode, minimum length, version byte.
func decodeToken(token string) ([]byte, error) {
	if len(token) == 0 || len(token) > maxTokenSize {
		return nil, ErrInvalidToken
	}
	data, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if len(data) < minTokenSize {
		return nil, ErrInvalidToken
	}
	if data[0] != Version {
		return nil, ErrInvalidToken
	}
	return data, nil
}

// verifyMAC recomputes the tag over everything before the trailing 32 bytes
// and compares in constant time via hmac.Equal.
func (k *Key) verifyMAC(data []byte) bool {
	h := hmac.New(sha256.New, k.signingKey[:])
	h.Write(data[:len(data)-macSize])
	return hmac.Equal(h.Sum(nil), data[len(data)-macSize:])
}

// IsValidToken reports whether token passes all checks under key k.
func (k *Key) IsValidToken(token string, ttl time.Duration) bool {
	_, err := k.Decrypt(token, ttl)
	return err == nil
}
