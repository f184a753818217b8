package fernet

import (
	"github.com/oarkflow/shamir"
)

// Split escrows the secret as Shamir shares: any threshold of the returned
// shares reconstructs the key, fewer reveal nothing. For real use, persist
// each share to separate secure storage.
func (k *Key) Split(shares, threshold int) ([][]byte, error) {
	// shamir.Split takes the threshold before the share count.
	return shamir.Split(k.Bytes(), threshold, shares)
}

// KeyFromShares rebuilds a Key from escrowed Shamir shares.
func KeyFromShares(shares [][]byte) (*Key, error) {
	secret, err := shamir.Combine(shares)
	if err != nil {
		return nil, err
	}
	return NewKeyFromBytes(secret)
}
