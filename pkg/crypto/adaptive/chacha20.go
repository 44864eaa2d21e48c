package adaptive

import (
	"errors"

	"golang.org/x/crypto/chacha20poly1305"
)

// NewChaCha20 creates a ChaCha20-Poly1305 cipher. The key must be 32 bytes.
func NewChaCha20(key []byte) (Cipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, errors.New("adaptive: invalid key size for ChaCha20-Poly1305: must be 32 bytes")
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	return &aeadCipher{aead: aead, typ: CipherChaCha20}, nil
}
