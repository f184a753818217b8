package fernet

import (
	"testing"
)

func TestKeyShareRoundTrip(t *testing.T) {
	k := mustGenerateKey(t)

	shares, err := k.Split(5, 3)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(shares) != 5 {
		t.Fatalf("got %d shares, want 5", len(shares))
	}

	restored, err := KeyFromShares(shares)
	if err != nil {
		t.Fatalf("KeyFromShares failed: %v", err)
	}
	if restored.Encoded() != k.Encoded() {
		t.Fatal("restored key differs from original")
	}

	// Any threshold-sized subset reconstructs the secret.
	subset, err := KeyFromShares(shares[:3])
	if err != nil {
		t.Fatalf("KeyFromShares with threshold subset failed: %v", err)
	}
	if subset.Encoded() != k.Encoded() {
		t.Fatal("threshold subset reconstructed a different key")
	}

	// Below-threshold subsets must not yield the original key, whether the
	// combine step fails outright or interpolates a wrong secret.
	under, err := KeyFromShares(shares[:2])
	if err == nil && under.Encoded() == k.Encoded() {
		t.Fatal("two shares of a 3-threshold split reconstructed the key")
	}

	token, err := k.Encrypt([]byte("escrowed"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	got, err := restored.Decrypt(token, 0)
	if err != nil {
		t.Fatalf("Decrypt with restored key failed: %v", err)
	}
	if string(got) != "escrowed" {
		t.Fatalf("plaintext mismatch: %q", got)
	}
}
