// Package adaptive provides authenticated encryption with automatic
// algorithm selection.
//
// It picks the cipher best suited to the host hardware: AES-GCM where AES
// instructions are available, ChaCha20-Poly1305 elsewhere. Vitalis uses it
// to seal the credential file at rest.
package adaptive

import (
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
	"runtime"
)

// CipherType identifies the cipher algorithm.
type CipherType string

const (
	CipherAESGCM   CipherType = "aes-gcm"
	CipherChaCha20 CipherType = "chacha20-poly1305"
)

// KeySize is the key length in bytes accepted by New.
const KeySize = 32

// Cipher provides authenticated encryption. The nonce is generated on
// Seal and prepended to the ciphertext; Open expects the same layout.
type Cipher interface {
	// Type returns the cipher type, for recording alongside sealed data.
	Type() CipherType

	// Seal encrypts plaintext, binding additionalData into the
	// authentication tag.
	Seal(plaintext, additionalData []byte) ([]byte, error)

	// Open decrypts ciphertext produced by Seal with the same
	// additionalData.
	Open(ciphertext, additionalData []byte) ([]byte, error)
}

// ErrCiphertextShort is returned by Open when the input is too short to
// contain a nonce.
var ErrCiphertextShort = errors.New("adaptive: ciphertext too short")

// New creates a cipher for the given 32-byte key, selecting the algorithm
// for the host hardware.
func New(key []byte) (Cipher, error) {
	if hasAESAcceleration() {
		return NewAESGCM(key)
	}
	return NewChaCha20(key)
}

// NewWithType creates a cipher of an explicit type. Use this when opening
// data sealed on another machine, where the recorded type must win over
// local hardware selection.
func NewWithType(key []byte, cipherType CipherType) (Cipher, error) {
	switch cipherType {
	case CipherAESGCM:
		return NewAESGCM(key)
	case CipherChaCha20:
		return NewChaCha20(key)
	default:
		return nil, errors.New("adaptive: unknown cipher type: " + string(cipherType))
	}
}

// hasAESAcceleration reports whether the Go runtime will use hardware AES.
// Go uses AES-NI on amd64 and the ARM crypto extensions on arm64.
func hasAESAcceleration() bool {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return true
	default:
		return false
	}
}

// aeadCipher implements Cipher over any cipher.AEAD.
type aeadCipher struct {
	aead cipher.AEAD
	typ  CipherType
}

func (c *aeadCipher) Type() CipherType {
	return c.typ
}

func (c *aeadCipher) Seal(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

func (c *aeadCipher) Open(ciphertext, additionalData []byte) ([]byte, error) {
	n := c.aead.NonceSize()
	if len(ciphertext) < n {
		return nil, ErrCiphertextShort
	}
	return c.aead.Open(nil, ciphertext[:n], ciphertext[n:], additionalData)
}
