// Package passcrypt is the reversible passphrase-based encryption primitive
// used for voter key material and vote linkage tokens. It mirrors the
// NULL-on-mismatch contract of the legacy datastore primitive: Decrypt returns
// a nil plaintext and nil error when the passphrase does not match, and a
// non-nil error only for malformed input or cipher failures.
package passcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	blobMagic = 0x43

	saltSize  = 16
	keySize   = 32
	nonceSize = 12

	scryptN = 32768
	scryptR = 8
	scryptP = 1
)

var ErrMalformedBlob = errors.New("passcrypt: malformed blob")

// Cipher derives AES-256-GCM keys from passphrases with scrypt. The zero
// value is usable; it carries no key material of its own.
type Cipher struct{}

func New() Cipher {
	return Cipher{}
}

// Encrypt seals plaintext under the passphrase. Blob layout:
// magic || salt || nonce || ciphertext.
func (Cipher) Encrypt(passphrase string, plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	gcm, err := deriveAEAD(passphrase, salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	blob := make([]byte, 0, 1+saltSize+nonceSize+len(plaintext)+gcm.Overhead())
	blob = append(blob, blobMagic)
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	return gcm.Seal(blob, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. A passphrase mismatch yields
// (nil, nil); structural problems yield ErrMalformedBlob.
func (Cipher) Decrypt(passphrase string, blob []byte) ([]byte, error) {
	if len(blob) < 1+saltSize+nonceSize || blob[0] != blobMagic {
		return nil, ErrMalformedBlob
	}
	salt := blob[1 : 1+saltSize]
	nonce := blob[1+saltSize : 1+saltSize+nonceSize]
	ciphertext := blob[1+saltSize+nonceSize:]

	gcm, err := deriveAEAD(passphrase, salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// GCM authentication failure: wrong passphrase, not a fault.
		return nil, nil
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}

func deriveAEAD(passphrase string, salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, nonceSize)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return gcm, nil
}
