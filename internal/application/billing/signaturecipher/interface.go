// Package signaturecipher defines the port protecting contract signatures.
// The plaintext signature never reaches storage: callers persist only the
// ciphertext and the deterministic hash used for dedup lookups.
package signaturecipher

// Cipher encrypts, decrypts and hashes contract signatures.
type Cipher interface {
	// Encrypt returns the ciphertext and the deterministic hash of the
	// plaintext. The hash is stable across calls so it can serve as a
	// lookup key without decrypting anything.
	Encrypt(plaintext string) (encrypted string, hash string, err error)
	Decrypt(encrypted string) (string, error)
	Hash(plaintext string) string
}
