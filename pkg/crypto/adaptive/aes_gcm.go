package adaptive

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

// NewAESGCM creates an AES-256-GCM cipher. The key must be 32 bytes.
func NewAESGCM(key []byte) (Cipher, error) {
	if len(key) != KeySize {
		return nil, errors.New("adaptive: invalid key size for AES-GCM: must be 32 bytes")
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &aeadCipher{aead: aead, typ: CipherAESGCM}, nil
}
