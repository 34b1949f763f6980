// Package sealbox encrypts small local files (the persisted session) with XChaCha20-Poly1305.
package sealbox

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// KeyLen is the length of master and derived keys.
const KeyLen = chacha20poly1305.KeySize

// ErrShort is returned when a sealed blob cannot even hold a nonce.
var ErrShort = errors.New("sealed blob too short")

// Rand returns n random bytes.
func Rand(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// NewKey generates a random master key.
func NewKey() ([]byte, error) { return Rand(KeyLen) }

// DeriveKey derives a purpose-bound key from master via HKDF-SHA256.
func DeriveKey(master []byte, purpose string) ([]byte, error) {
	if len(master) != KeyLen {
		return nil, fmt.Errorf("master key: want %d bytes, got %d", KeyLen, len(master))
	}
	key := make([]byte, KeyLen)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(purpose)), key); err != nil {
		return nil, err
	}
	return key, nil
}

// Seal encrypts plaintext; output is nonce||ciphertext.
func Seal(key, aad, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce, err := Rand(chacha20poly1305.NonceSizeX)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, aad), nil
}

// Open reverses Seal. aad must match.
func Open(key, aad, blob []byte) ([]byte, error) {
	if len(blob) < chacha20poly1305.NonceSizeX {
		return nil, ErrShort
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	nonce, ct := blob[:chacha20poly1305.NonceSizeX], blob[chacha20poly1305.NonceSizeX:]
	return aead.Open(nil, nonce, ct, aad)
}
