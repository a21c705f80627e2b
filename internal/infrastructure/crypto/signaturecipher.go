// Package crypto implements the signature cipher protecting ZarinPal
// contract signatures at rest. AES-256-GCM for the ciphertext, HMAC-SHA256
// for the deterministic lookup hash; both keys derived from a single
// master secret via HKDF so rotation means rotating one value.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	encryptionKeyInfo = "paydesk/contract-signature/encryption"
	hashKeyInfo       = "paydesk/contract-signature/hash"
)

// SignatureCipher encrypts, decrypts and hashes contract signatures.
type SignatureCipher struct {
	aead    cipher.AEAD
	hashKey []byte
}

// NewSignatureCipher derives the AES and HMAC keys from masterSecret.
func NewSignatureCipher(masterSecret string) (*SignatureCipher, error) {
	if masterSecret == "" {
		return nil, fmt.Errorf("cipher master secret is required")
	}

	encKey, err := deriveKey(masterSecret, encryptionKeyInfo)
	if err != nil {
		return nil, err
	}
	hashKey, err := deriveKey(masterSecret, hashKeyInfo)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &SignatureCipher{aead: aead, hashKey: hashKey}, nil
}

func deriveKey(masterSecret, info string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(masterSecret), nil, []byte(info))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}

// Encrypt returns the base64 ciphertext (nonce-prefixed) and the
// deterministic hash of the plaintext.
func (c *SignatureCipher) Encrypt(plaintext string) (string, string, error) {
	if plaintext == "" {
		return "", "", fmt.Errorf("plaintext is empty")
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), c.Hash(plaintext), nil
}

// Decrypt reverses Encrypt.
func (c *SignatureCipher) Decrypt(encrypted string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("failed to decode ciphertext: %w", err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}

// Hash returns the stable hex HMAC-SHA256 of plaintext, usable as a
// dedup lookup key without decrypting anything.
func (c *SignatureCipher) Hash(plaintext string) string {
	mac := hmac.New(sha256.New, c.hashKey)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}
